package scheduling

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Backland-Labs/rosterdesk/internal/logger"
)

// Defaults for ServiceConfig zero values
const (
	DefaultMinRest       = 11 * time.Hour
	DefaultMaxSearchDays = 62
	minNameLength        = 2
)

// ServiceConfig tunes the scheduling service
type ServiceConfig struct {
	// MinRest is the shortest acceptable gap between two assignments of one staff member
	MinRest time.Duration
	// MaxSearchDays caps the length of an availability search range
	MaxSearchDays int
	// Now supplies the current time; defaults to time.Now
	Now func() time.Time
}

// Service implements the scheduling operations used by the assistant tools
type Service struct {
	repo Repository
	cfg  ServiceConfig
}

// NewService creates a service over repo
func NewService(repo Repository, cfg ServiceConfig) *Service {
	if cfg.MinRest <= 0 {
		cfg.MinRest = DefaultMinRest
	}
	if cfg.MaxSearchDays <= 0 {
		cfg.MaxSearchDays = DefaultMaxSearchDays
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{repo: repo, cfg: cfg}
}

// Today returns the current UTC date
func (s *Service) Today() time.Time {
	return DateOf(s.cfg.Now().UTC())
}

// FindStaffByName returns active staff whose name contains name, ignoring case
func (s *Service) FindStaffByName(ctx context.Context, name string) ([]Staff, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, Validationf("Staff name is required.")
	}
	if len([]rune(name)) < minNameLength {
		return nil, Validationf("Staff name must be at least %d characters.", minNameLength)
	}

	staff, err := s.repo.ListStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}

	var matches []Staff
	for _, member := range staff {
		if member.Active && containsFold(member.Name, name) {
			matches = append(matches, member)
		}
	}
	if len(matches) == 0 {
		return nil, NotFoundf("No staff member matches %q.", name)
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	return matches, nil
}

// FindDepartment returns the first department whose name contains name, ignoring case
func (s *Service) FindDepartment(ctx context.Context, name string) (Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Department{}, Validationf("Department name is required.")
	}
	if len([]rune(name)) < minNameLength {
		return Department{}, Validationf("Department name must be at least %d characters.", minNameLength)
	}

	departments, err := s.repo.ListDepartments(ctx)
	if err != nil {
		return Department{}, fmt.Errorf("failed to list departments: %w", err)
	}
	for _, d := range departments {
		if containsFold(d.Name, name) {
			return d, nil
		}
	}
	return Department{}, NotFoundf("No department matches %q.", name)
}

// FilterShifts lists shifts matching f ordered by date
func (s *Service) FilterShifts(ctx context.Context, f ShiftFilter) ([]Shift, error) {
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, Validationf("toDate %s is before fromDate %s.", FormatDate(*f.To), FormatDate(*f.From))
	}
	var r DateRange
	if f.From != nil {
		r.From = *f.From
	}
	if f.To != nil {
		r.To = *f.To
	}
	shifts, err := s.repo.ListShifts(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	return FilterShifts(shifts, f), nil
}

// AvailabilityRequest is the caller-facing form of an availability search
type AvailabilityRequest struct {
	Start      time.Time
	End        time.Time
	ShiftType  string
	Department string
}

// SearchAvailableStaff returns staff free on every date of the request range
func (s *Service) SearchAvailableStaff(ctx context.Context, req AvailabilityRequest) ([]AvailableStaff, error) {
	if req.Start.IsZero() || req.End.IsZero() {
		return nil, Validationf("Both startDate and endDate are required.")
	}
	if DateOf(req.End).Before(DateOf(req.Start)) {
		return nil, Validationf("startDate %s must not be after endDate %s.", FormatDate(req.Start), FormatDate(req.End))
	}
	days := int(DateOf(req.End).Sub(DateOf(req.Start)).Hours()/24) + 1
	if days > s.cfg.MaxSearchDays {
		return nil, Validationf("The search range spans %d days; the maximum is %d.", days, s.cfg.MaxSearchDays)
	}

	q := AvailabilitySearch{Start: req.Start, End: req.End, Department: strings.TrimSpace(req.Department)}
	if name := strings.TrimSpace(req.ShiftType); name != "" {
		st, err := s.shiftTypeByName(ctx, name)
		if err != nil {
			return nil, err
		}
		q.ShiftTypeID = &st.ID
	}

	r := DateRange{From: req.Start, To: req.End}
	staff, err := s.repo.ListStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	shifts, err := s.repo.ListShifts(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	leaves, err := s.repo.ListLeaveRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	availability, err := s.repo.ListAvailability(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability: %w", err)
	}

	hits := FindAvailable(staff, shifts, leaves, availability, q)
	logger.WithFields(map[string]interface{}{
		"start":      FormatDate(req.Start),
		"end":        FormatDate(req.End),
		"shift_type": req.ShiftType,
		"hits":       len(hits),
	}).Debug("Availability search completed")
	return hits, nil
}

// SwapRequest names two slots by staff id, date and shift type name
type SwapRequest struct {
	StaffAID   int64
	ShiftADate time.Time
	ShiftAType string
	StaffBID   int64
	ShiftBDate time.Time
	ShiftBType string
}

// SwapShifts exchanges the two slots of req atomically
func (s *Service) SwapShifts(ctx context.Context, req SwapRequest) error {
	if req.StaffAID <= 0 || req.StaffBID <= 0 {
		return Validationf("Both staffAId and staffBId are required.")
	}
	if req.ShiftADate.IsZero() || req.ShiftBDate.IsZero() {
		return Validationf("Both shiftADate and shiftBDate are required.")
	}
	typeA, err := s.shiftTypeByName(ctx, req.ShiftAType)
	if err != nil {
		return err
	}
	typeB, err := s.shiftTypeByName(ctx, req.ShiftBType)
	if err != nil {
		return err
	}

	params := SwapParams{
		A: SlotRef{StaffID: req.StaffAID, Date: DateOf(req.ShiftADate), ShiftTypeID: typeA.ID},
		B: SlotRef{StaffID: req.StaffBID, Date: DateOf(req.ShiftBDate), ShiftTypeID: typeB.ID},
	}
	if err := s.repo.SwapShifts(ctx, params); err != nil {
		return err
	}
	logger.WithFields(map[string]interface{}{
		"staff_a": req.StaffAID,
		"staff_b": req.StaffBID,
		"date_a":  FormatDate(req.ShiftADate),
		"date_b":  FormatDate(req.ShiftBDate),
	}).Info("Shifts swapped")
	return nil
}

// ApplyForLeave stores a pending leave request after validation and overlap checks
func (s *Service) ApplyForLeave(ctx context.Context, app LeaveApplication) (LeaveRequest, error) {
	app.LeaveType = strings.TrimSpace(app.LeaveType)
	app.Reason = strings.TrimSpace(app.Reason)
	if err := ValidateLeaveApplication(app); err != nil {
		return LeaveRequest{}, err
	}
	return s.repo.ApplyForLeave(ctx, app)
}

// DecideLeave approves or rejects a pending leave request
func (s *Service) DecideLeave(ctx context.Context, leaveID int64, approve bool) ([]Shift, error) {
	if leaveID <= 0 {
		return nil, Validationf("A valid leaveRequestId is required.")
	}
	status := LeaveRejected
	if approve {
		status = LeaveApproved
	}
	return s.repo.DecideLeave(ctx, leaveID, status)
}

// LeaveFilter narrows a leave listing
type LeaveFilter struct {
	StaffName string
	Status    string
	From      *time.Time
	To        *time.Time
}

// ListLeaveRequests returns leave requests matching f ordered by start date
func (s *Service) ListLeaveRequests(ctx context.Context, f LeaveFilter) ([]LeaveRequest, error) {
	leaves, err := s.repo.ListLeaveRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	out := make([]LeaveRequest, 0, len(leaves))
	for _, l := range leaves {
		if f.StaffName != "" && !containsFold(l.StaffName, f.StaffName) {
			continue
		}
		if f.Status != "" && !strings.EqualFold(string(l.Status), f.Status) {
			continue
		}
		if f.From != nil && DateOf(l.EndDate).Before(DateOf(*f.From)) {
			continue
		}
		if f.To != nil && DateOf(l.StartDate).After(DateOf(*f.To)) {
			continue
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

// DetectBackToBack reports assignments in [from, to] with less than the configured rest between them
func (s *Service) DetectBackToBack(ctx context.Context, from, to time.Time, staffName string) ([]BackToBack, error) {
	if DateOf(to).Before(DateOf(from)) {
		return nil, Validationf("toDate %s is before fromDate %s.", FormatDate(to), FormatDate(from))
	}
	// one extra day on each side so a night shift crossing the boundary is paired
	shifts, err := s.repo.ListShifts(ctx, DateRange{From: from.AddDate(0, 0, -1), To: to.AddDate(0, 0, 1)})
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	if staffName = strings.TrimSpace(staffName); staffName != "" {
		shifts = FilterShifts(shifts, ShiftFilter{StaffName: staffName})
	}
	types, err := s.repo.ListShiftTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift types: %w", err)
	}
	pairs, err := DetectBackToBack(shifts, types, s.cfg.MinRest)
	if err != nil {
		return nil, err
	}
	r := DateRange{From: from, To: to}
	out := pairs[:0]
	for _, p := range pairs {
		if r.Contains(p.First.Date) || r.Contains(p.Second.Date) {
			out = append(out, p)
		}
	}
	return out, nil
}

// ResolveRelativeDate resolves phrase against the service clock
func (s *Service) ResolveRelativeDate(phrase string) (DateResolution, error) {
	return ResolveRelativeDate(phrase, s.cfg.Now())
}

// MinRest returns the configured minimum rest between assignments
func (s *Service) MinRest() time.Duration {
	return s.cfg.MinRest
}

func (s *Service) shiftTypeByName(ctx context.Context, name string) (ShiftType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ShiftType{}, Validationf("Shift type is required.")
	}
	types, err := s.repo.ListShiftTypes(ctx)
	if err != nil {
		return ShiftType{}, fmt.Errorf("failed to list shift types: %w", err)
	}
	for _, st := range types {
		if strings.EqualFold(st.Name, name) {
			return st, nil
		}
	}
	return ShiftType{}, NotFoundf("Shift type %q does not exist.", name)
}
