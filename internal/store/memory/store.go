// Package memory provides an in-process scheduling.Repository. A single mutex
// serializes every write, which gives the swap and leave operations the
// atomicity the repository contract requires. It backs local development
// (seeded from a YAML fixture file) and the repository contract tests.
package memory

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"slices"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Backland-Labs/rosterdesk/internal/scheduling"
)

// Fixtures is the seed data layout, also used for YAML fixture files
type Fixtures struct {
	Departments   []scheduling.Department   `yaml:"departments"`
	ShiftTypes    []scheduling.ShiftType    `yaml:"shiftTypes"`
	Staff         []scheduling.Staff        `yaml:"staff"`
	Shifts        []scheduling.Shift        `yaml:"shifts"`
	LeaveRequests []scheduling.LeaveRequest `yaml:"leaveRequests"`
	Availability  []scheduling.Availability `yaml:"availability"`
}

//go:embed seed.yaml
var demoSeed []byte

// DemoFixtures returns the bundled demo roster
func DemoFixtures() Fixtures {
	f, err := parseFixtures(demoSeed)
	if err != nil {
		panic(fmt.Sprintf("bundled seed is invalid: %v", err))
	}
	return f
}

// LoadFixtures reads a YAML fixture file
func LoadFixtures(path string) (Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixtures{}, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return parseFixtures(data)
}

func parseFixtures(data []byte) (Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Fixtures{}, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return f, nil
}

// Store is a mutex-guarded in-memory repository
type Store struct {
	mu           sync.Mutex
	departments  []scheduling.Department
	shiftTypes   []scheduling.ShiftType
	staff        []scheduling.Staff
	shifts       []scheduling.Shift
	leaves       []scheduling.LeaveRequest
	availability []scheduling.Availability
	nextLeaveID  int64
	now          func() time.Time

	// afterFirstWrite runs between the two row writes of a swap; tests use it to force a failure
	afterFirstWrite func() error
}

var _ scheduling.Repository = (*Store)(nil)

// New creates a store seeded with f. Denormalized names are filled from ids.
func New(f Fixtures) *Store {
	s := &Store{
		departments:  slices.Clone(f.Departments),
		shiftTypes:   slices.Clone(f.ShiftTypes),
		staff:        slices.Clone(f.Staff),
		shifts:       cloneShifts(f.Shifts),
		leaves:       slices.Clone(f.LeaveRequests),
		availability: slices.Clone(f.Availability),
		now:          time.Now,
	}
	s.normalize()
	for _, l := range s.leaves {
		if l.ID > s.nextLeaveID {
			s.nextLeaveID = l.ID
		}
	}
	return s
}

func (s *Store) normalize() {
	deptNames := make(map[int64]string, len(s.departments))
	for _, d := range s.departments {
		deptNames[d.ID] = d.Name
	}
	typeNames := make(map[int64]string, len(s.shiftTypes))
	for _, st := range s.shiftTypes {
		typeNames[st.ID] = st.Name
	}
	staffNames := make(map[int64]string, len(s.staff))
	for i := range s.staff {
		if s.staff[i].DepartmentName == "" {
			s.staff[i].DepartmentName = deptNames[s.staff[i].DepartmentID]
		}
		staffNames[s.staff[i].ID] = s.staff[i].Name
	}
	for i := range s.shifts {
		sh := &s.shifts[i]
		sh.Date = scheduling.DateOf(sh.Date)
		sh.ShiftTypeName = typeNames[sh.ShiftTypeID]
		sh.DepartmentName = deptNames[sh.DepartmentID]
		if sh.Status == "" {
			sh.Status = scheduling.ShiftStatusPlanned
		}
		if sh.StaffID != nil {
			sh.StaffName = staffNames[*sh.StaffID]
		}
	}
	for i := range s.leaves {
		s.leaves[i].StaffName = staffNames[s.leaves[i].StaffID]
		if s.leaves[i].Status == "" {
			s.leaves[i].Status = scheduling.LeavePending
		}
	}
}

func (s *Store) ListStaff(ctx context.Context) ([]scheduling.Staff, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.staff), nil
}

func (s *Store) ListDepartments(ctx context.Context) ([]scheduling.Department, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.departments), nil
}

func (s *Store) ListShiftTypes(ctx context.Context) ([]scheduling.ShiftType, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.shiftTypes), nil
}

func (s *Store) ListShifts(ctx context.Context, r scheduling.DateRange) ([]scheduling.Shift, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []scheduling.Shift
	for _, sh := range s.shifts {
		if r.Contains(sh.Date) {
			out = append(out, cloneShift(sh))
		}
	}
	return out, nil
}

func (s *Store) ListLeaveRequests(ctx context.Context) ([]scheduling.LeaveRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.leaves), nil
}

func (s *Store) ListAvailability(ctx context.Context, r scheduling.DateRange) ([]scheduling.Availability, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []scheduling.Availability
	for _, a := range s.availability {
		if r.Contains(a.Date) {
			out = append(out, a)
		}
	}
	return out, nil
}

// SwapShifts validates and applies a swap under the store lock. If the second
// write fails the first is rolled back, so no half-swapped state is observable.
func (s *Store) SwapShifts(ctx context.Context, req scheduling.SwapParams) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := scheduling.PlanSwap(req, s.shifts, s.leaves, s.availability)
	if err != nil {
		return err
	}

	snapshot := cloneShifts(s.shifts)
	if err := s.applySwap(plan); err != nil {
		s.shifts = snapshot
		return fmt.Errorf("swap rolled back: %w", err)
	}
	return nil
}

func (s *Store) applySwap(plan scheduling.SwapPlan) error {
	idxA := s.shiftIndex(plan.ShiftA.ID)
	idxB := s.shiftIndex(plan.ShiftB.ID)
	if idxA < 0 || idxB < 0 {
		return fmt.Errorf("shift rows %d/%d disappeared", plan.ShiftA.ID, plan.ShiftB.ID)
	}
	staffA, staffB := *plan.ShiftA.StaffID, *plan.ShiftB.StaffID
	nameA, nameB := plan.ShiftA.StaffName, plan.ShiftB.StaffName

	s.shifts[idxA].StaffID = &staffB
	s.shifts[idxA].StaffName = nameB
	if s.afterFirstWrite != nil {
		if err := s.afterFirstWrite(); err != nil {
			return err
		}
	}
	s.shifts[idxB].StaffID = &staffA
	s.shifts[idxB].StaffName = nameA
	return nil
}

func (s *Store) shiftIndex(id int64) int {
	for i := range s.shifts {
		if s.shifts[i].ID == id {
			return i
		}
	}
	return -1
}

// ApplyForLeave checks overlap and inserts a pending request under the store lock
func (s *Store) ApplyForLeave(ctx context.Context, app scheduling.LeaveApplication) (scheduling.LeaveRequest, error) {
	if err := ctx.Err(); err != nil {
		return scheduling.LeaveRequest{}, err
	}
	if err := scheduling.ValidateLeaveApplication(app); err != nil {
		return scheduling.LeaveRequest{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	staff, ok := s.staffByID(app.StaffID)
	if !ok {
		return scheduling.LeaveRequest{}, scheduling.NotFoundf("Staff %d does not exist.", app.StaffID)
	}
	if err := scheduling.CheckLeaveOverlap(app, s.leaves); err != nil {
		return scheduling.LeaveRequest{}, err
	}

	s.nextLeaveID++
	leave := scheduling.LeaveRequest{
		ID:        s.nextLeaveID,
		StaffID:   app.StaffID,
		StaffName: staff.Name,
		StartDate: scheduling.DateOf(app.StartDate),
		EndDate:   scheduling.DateOf(app.EndDate),
		LeaveType: app.LeaveType,
		Reason:    app.Reason,
		Status:    scheduling.LeavePending,
		CreatedAt: s.now().UTC(),
	}
	s.leaves = append(s.leaves, leave)
	return leave, nil
}

// DecideLeave records a decision on a pending request
func (s *Store) DecideLeave(ctx context.Context, leaveID int64, status scheduling.LeaveStatus) ([]scheduling.Shift, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.leaves {
		if s.leaves[i].ID == leaveID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, scheduling.NotFoundf("Leave request #%d does not exist.", leaveID)
	}
	if err := scheduling.ValidateDecision(s.leaves[idx], status); err != nil {
		return nil, err
	}
	s.leaves[idx].Status = status
	if status != scheduling.LeaveApproved {
		return []scheduling.Shift{}, nil
	}
	return scheduling.ImpactedShifts(s.leaves[idx], cloneShifts(s.shifts)), nil
}

func (s *Store) staffByID(id int64) (scheduling.Staff, bool) {
	for _, member := range s.staff {
		if member.ID == id {
			return member, true
		}
	}
	return scheduling.Staff{}, false
}

func cloneShift(sh scheduling.Shift) scheduling.Shift {
	if sh.StaffID != nil {
		id := *sh.StaffID
		sh.StaffID = &id
	}
	return sh
}

func cloneShifts(in []scheduling.Shift) []scheduling.Shift {
	if in == nil {
		return nil
	}
	out := make([]scheduling.Shift, len(in))
	for i, sh := range in {
		out[i] = cloneShift(sh)
	}
	return out
}
