package scheduling

import (
	"fmt"
	"time"
)

// Eligible reports whether staffID may work shiftTypeID on date. It returns a
// short reason when not. Staff on Pending or Approved leave covering the date,
// or explicitly marked unavailable for the day or that shift type, are not
// eligible; the absence of any record means available.
func Eligible(staffID int64, date time.Time, shiftTypeID int64, leaves []LeaveRequest, availability []Availability) (bool, string) {
	for _, l := range leaves {
		if l.StaffID == staffID && l.Blocking() && l.Covers(date) {
			return false, fmt.Sprintf("has %s %s leave covering %s", statusWord(l.Status), l.LeaveType, FormatDate(date))
		}
	}
	for _, a := range availability {
		if a.StaffID == staffID && DateOf(a.Date).Equal(DateOf(date)) && a.BlocksShift(shiftTypeID) {
			return false, fmt.Sprintf("is marked unavailable on %s", FormatDate(date))
		}
	}
	return true, ""
}

func statusWord(s LeaveStatus) string {
	switch s {
	case LeaveApproved:
		return "approved"
	case LeavePending:
		return "pending"
	default:
		return string(s)
	}
}

// SwapPlan is the pair of shift rows a validated swap will exchange
type SwapPlan struct {
	ShiftA Shift
	ShiftB Shift
}

// PlanSwap resolves both slots of req against shifts and checks that each staff
// member is eligible for the other's slot. It performs no writes; repositories
// call it with data read under their lock or transaction and then apply the plan.
func PlanSwap(req SwapParams, shifts []Shift, leaves []LeaveRequest, availability []Availability) (SwapPlan, error) {
	if req.A.StaffID == req.B.StaffID {
		return SwapPlan{}, Validationf("A shift swap needs two different staff members.")
	}

	shiftA, ok := findSlot(shifts, req.A)
	if !ok {
		return SwapPlan{}, NotFoundf("No shift on %s is assigned to staff %d for the requested shift type.", FormatDate(req.A.Date), req.A.StaffID)
	}
	shiftB, ok := findSlot(shifts, req.B)
	if !ok {
		return SwapPlan{}, NotFoundf("No shift on %s is assigned to staff %d for the requested shift type.", FormatDate(req.B.Date), req.B.StaffID)
	}
	if shiftA.ID == shiftB.ID {
		return SwapPlan{}, Validationf("Both sides of the swap refer to the same shift.")
	}

	if ok, reason := Eligible(req.A.StaffID, shiftB.Date, shiftB.ShiftTypeID, leaves, availability); !ok {
		return SwapPlan{}, newError(ErrNotEligible, "Staff %d cannot take the %s shift on %s: %s.", req.A.StaffID, shiftB.ShiftTypeName, FormatDate(shiftB.Date), reason)
	}
	if ok, reason := Eligible(req.B.StaffID, shiftA.Date, shiftA.ShiftTypeID, leaves, availability); !ok {
		return SwapPlan{}, newError(ErrNotEligible, "Staff %d cannot take the %s shift on %s: %s.", req.B.StaffID, shiftA.ShiftTypeName, FormatDate(shiftA.Date), reason)
	}

	return SwapPlan{ShiftA: shiftA, ShiftB: shiftB}, nil
}

func findSlot(shifts []Shift, ref SlotRef) (Shift, bool) {
	for _, s := range shifts {
		if s.AssignedTo(ref.StaffID) && s.ShiftTypeID == ref.ShiftTypeID && DateOf(s.Date).Equal(DateOf(ref.Date)) {
			return s, true
		}
	}
	return Shift{}, false
}

// ValidateLeaveApplication checks the shape of an application
func ValidateLeaveApplication(app LeaveApplication) error {
	if app.StaffID <= 0 {
		return Validationf("A valid staffId is required.")
	}
	if app.StartDate.IsZero() || app.EndDate.IsZero() {
		return Validationf("Both startDate and endDate are required.")
	}
	if DateOf(app.EndDate).Before(DateOf(app.StartDate)) {
		return Validationf("endDate %s is before startDate %s.", FormatDate(app.EndDate), FormatDate(app.StartDate))
	}
	if app.LeaveType == "" {
		return Validationf("leaveType is required.")
	}
	return nil
}

// CheckLeaveOverlap rejects app when the staff member already has a blocking
// request whose inclusive range intersects it.
func CheckLeaveOverlap(app LeaveApplication, existing []LeaveRequest) error {
	for _, l := range existing {
		if l.StaffID != app.StaffID || !l.Blocking() {
			continue
		}
		if l.Overlaps(app.StartDate, app.EndDate) {
			return newError(ErrLeaveOverlap, "Staff %d already has a %s leave request (#%d) from %s to %s.",
				app.StaffID, statusWord(l.Status), l.ID, FormatDate(l.StartDate), FormatDate(l.EndDate))
		}
	}
	return nil
}

// ValidateDecision checks that leave can move to status
func ValidateDecision(leave LeaveRequest, status LeaveStatus) error {
	if status != LeaveApproved && status != LeaveRejected {
		return Validationf("Decision must be approve or reject.")
	}
	if leave.Status != LeavePending {
		return newError(ErrConflict, "Leave request #%d is already %s.", leave.ID, statusWord(leave.Status))
	}
	return nil
}

// ImpactedShifts returns the shifts assigned to the leave's staff member inside its range
func ImpactedShifts(leave LeaveRequest, shifts []Shift) []Shift {
	var impacted []Shift
	for _, s := range shifts {
		if s.AssignedTo(leave.StaffID) && leave.Covers(s.Date) {
			impacted = append(impacted, s)
		}
	}
	sortShifts(impacted)
	return impacted
}
