// Package scheduling holds the hospital roster domain: staff, shifts, leave and
// availability, the repository contract that persists them, and the pure rules
// (eligibility, availability search, swap planning, leave overlap) that every
// repository implementation and tool handler shares.
package scheduling

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for civil dates.
const DateLayout = "2006-01-02"

// LeaveStatus is the lifecycle state of a leave request
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "Pending"
	LeaveApproved LeaveStatus = "Approved"
	LeaveRejected LeaveStatus = "Rejected"
)

// Shift status names used by the roster
const (
	ShiftStatusPlanned   = "Planned"
	ShiftStatusPublished = "Published"
	ShiftStatusCancelled = "Cancelled"
)

// Staff is a member of the hospital workforce
type Staff struct {
	ID             int64  `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	Role           string `json:"role" yaml:"role"`
	DepartmentID   int64  `json:"departmentId" yaml:"departmentId"`
	DepartmentName string `json:"department" yaml:"department"`
	Email          string `json:"email,omitempty" yaml:"email"`
	Active         bool   `json:"active" yaml:"active"`
}

// Department groups staff and shifts
type Department struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// ShiftType describes a recurring shift window such as Morning or Night.
// StartTime and EndTime are "HH:MM"; an EndTime at or before StartTime ends on the next day.
type ShiftType struct {
	ID        int64  `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	StartTime string `json:"startTime" yaml:"startTime"`
	EndTime   string `json:"endTime" yaml:"endTime"`
}

// Window returns the absolute start and end of the shift type on the given date.
func (st ShiftType) Window(date time.Time) (time.Time, time.Time, error) {
	start, err := clockOffset(st.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("shift type %q start: %w", st.Name, err)
	}
	end, err := clockOffset(st.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("shift type %q end: %w", st.Name, err)
	}
	if end <= start {
		end += 24 * time.Hour
	}
	day := DateOf(date)
	return day.Add(start), day.Add(end), nil
}

// Shift is one staffed slot on the roster
type Shift struct {
	ID             int64     `json:"id" yaml:"id"`
	Date           time.Time `json:"date" yaml:"date"`
	ShiftTypeID    int64     `json:"shiftTypeId" yaml:"shiftTypeId"`
	ShiftTypeName  string    `json:"shiftType" yaml:"shiftType"`
	DepartmentID   int64     `json:"departmentId" yaml:"departmentId"`
	DepartmentName string    `json:"department" yaml:"department"`
	SlotNumber     int       `json:"slotNumber" yaml:"slotNumber"`
	StaffID        *int64    `json:"staffId,omitempty" yaml:"staffId"`
	StaffName      string    `json:"staffName,omitempty" yaml:"staffName"`
	Status         string    `json:"status" yaml:"status"`
}

// AssignedTo reports whether the shift is currently held by staffID
func (s Shift) AssignedTo(staffID int64) bool {
	return s.StaffID != nil && *s.StaffID == staffID
}

// LeaveRequest is a staff member's request to be absent over an inclusive date range
type LeaveRequest struct {
	ID        int64       `json:"id" yaml:"id"`
	StaffID   int64       `json:"staffId" yaml:"staffId"`
	StaffName string      `json:"staffName,omitempty" yaml:"staffName"`
	StartDate time.Time   `json:"startDate" yaml:"startDate"`
	EndDate   time.Time   `json:"endDate" yaml:"endDate"`
	LeaveType string      `json:"leaveType" yaml:"leaveType"`
	Reason    string      `json:"reason,omitempty" yaml:"reason"`
	Status    LeaveStatus `json:"status" yaml:"status"`
	CreatedAt time.Time   `json:"createdAt" yaml:"createdAt"`
}

// Blocking reports whether the request still reserves its dates.
// Pending and Approved requests block; Rejected ones do not.
func (l LeaveRequest) Blocking() bool {
	return l.Status != LeaveRejected
}

// Covers reports whether date falls inside the leave range
func (l LeaveRequest) Covers(date time.Time) bool {
	d := DateOf(date)
	return !d.Before(DateOf(l.StartDate)) && !d.After(DateOf(l.EndDate))
}

// Overlaps reports whether [start, end] intersects the leave range
func (l LeaveRequest) Overlaps(start, end time.Time) bool {
	return !DateOf(start).After(DateOf(l.EndDate)) && !DateOf(end).Before(DateOf(l.StartDate))
}

// Availability is an explicit availability mark for a staff member on a date.
// A nil ShiftTypeID applies to the whole day. Days without a record are available.
type Availability struct {
	StaffID     int64     `json:"staffId" yaml:"staffId"`
	Date        time.Time `json:"date" yaml:"date"`
	ShiftTypeID *int64    `json:"shiftTypeId,omitempty" yaml:"shiftTypeId"`
	Available   bool      `json:"available" yaml:"available"`
}

// BlocksShift reports whether the record rules the staff member out of shiftTypeID
func (a Availability) BlocksShift(shiftTypeID int64) bool {
	if a.Available {
		return false
	}
	return a.ShiftTypeID == nil || *a.ShiftTypeID == shiftTypeID
}

// DateRange is an inclusive range of civil dates. A zero bound is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether date lies in the range
func (r DateRange) Contains(date time.Time) bool {
	d := DateOf(date)
	if !r.From.IsZero() && d.Before(DateOf(r.From)) {
		return false
	}
	if !r.To.IsZero() && d.After(DateOf(r.To)) {
		return false
	}
	return true
}

// DateOf truncates t to midnight UTC of its calendar day
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a yyyy-MM-dd date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected yyyy-MM-dd", s)
	}
	return t, nil
}

// FormatDate renders a civil date as yyyy-MM-dd
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// EachDate calls fn for every date in [start, end] until fn returns false
func EachDate(start, end time.Time, fn func(time.Time) bool) {
	for d := DateOf(start); !d.After(DateOf(end)); d = d.AddDate(0, 0, 1) {
		if !fn(d) {
			return
		}
	}
}

func clockOffset(hhmm string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(hhmm))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", hhmm)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
