package scheduling

import (
	"sort"
	"strings"
	"time"
)

// ShiftFilter narrows a shift listing. Empty fields and nil dates impose no constraint.
// StaffName matches as a case-insensitive substring; the other names match exactly, ignoring case.
type ShiftFilter struct {
	StaffName      string
	DepartmentName string
	ShiftTypeName  string
	StatusName     string
	From           *time.Time
	To             *time.Time
}

// FilterShifts applies f to shifts and orders the result by date ascending
func FilterShifts(shifts []Shift, f ShiftFilter) []Shift {
	out := make([]Shift, 0, len(shifts))
	for _, s := range shifts {
		if f.StaffName != "" && (s.StaffID == nil || !containsFold(s.StaffName, f.StaffName)) {
			continue
		}
		if f.DepartmentName != "" && !strings.EqualFold(s.DepartmentName, f.DepartmentName) {
			continue
		}
		if f.ShiftTypeName != "" && !strings.EqualFold(s.ShiftTypeName, f.ShiftTypeName) {
			continue
		}
		if f.StatusName != "" && !strings.EqualFold(s.Status, f.StatusName) {
			continue
		}
		if f.From != nil && DateOf(s.Date).Before(DateOf(*f.From)) {
			continue
		}
		if f.To != nil && DateOf(s.Date).After(DateOf(*f.To)) {
			continue
		}
		out = append(out, s)
	}
	sortShifts(out)
	return out
}

func sortShifts(shifts []Shift) {
	sort.SliceStable(shifts, func(i, j int) bool {
		if !shifts[i].Date.Equal(shifts[j].Date) {
			return shifts[i].Date.Before(shifts[j].Date)
		}
		if shifts[i].ShiftTypeID != shifts[j].ShiftTypeID {
			return shifts[i].ShiftTypeID < shifts[j].ShiftTypeID
		}
		return shifts[i].SlotNumber < shifts[j].SlotNumber
	})
}

// AvailabilitySearch describes the range and preferences of an availability search
type AvailabilitySearch struct {
	Start time.Time
	End   time.Time
	// ShiftTypeID, when set, excludes staff already assigned that shift type on any date in range.
	ShiftTypeID *int64
	// Department ranks matching staff first; it never filters.
	Department string
}

// AvailableStaff is a search hit
type AvailableStaff struct {
	Staff           Staff
	DepartmentMatch bool
}

// FindAvailable returns the active staff free on every date of the search range.
// A date disqualifies a staff member when any unavailable record exists for it,
// when a Pending or Approved leave covers it, or when a shift type is requested
// and the staff member already holds that shift type on it. Results rank
// department matches first, then by name.
func FindAvailable(staff []Staff, shifts []Shift, leaves []LeaveRequest, availability []Availability, q AvailabilitySearch) []AvailableStaff {
	blocked := make(map[int64]bool)

	for _, a := range availability {
		if !a.Available && inRange(a.Date, q.Start, q.End) {
			blocked[a.StaffID] = true
		}
	}
	for _, l := range leaves {
		if l.Blocking() && l.Overlaps(q.Start, q.End) {
			blocked[l.StaffID] = true
		}
	}
	if q.ShiftTypeID != nil {
		for _, s := range shifts {
			if s.StaffID != nil && s.ShiftTypeID == *q.ShiftTypeID && inRange(s.Date, q.Start, q.End) {
				blocked[*s.StaffID] = true
			}
		}
	}

	var hits []AvailableStaff
	for _, member := range staff {
		if !member.Active || blocked[member.ID] {
			continue
		}
		hits = append(hits, AvailableStaff{
			Staff:           member,
			DepartmentMatch: q.Department != "" && strings.EqualFold(member.DepartmentName, q.Department),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].DepartmentMatch != hits[j].DepartmentMatch {
			return hits[i].DepartmentMatch
		}
		return strings.ToLower(hits[i].Staff.Name) < strings.ToLower(hits[j].Staff.Name)
	})
	return hits
}

func inRange(d, start, end time.Time) bool {
	day := DateOf(d)
	return !day.Before(DateOf(start)) && !day.After(DateOf(end))
}
