package scheduling

import (
	"context"
	"time"
)

// Repository is the persistence contract behind the scheduling tools.
//
// SwapShifts and ApplyForLeave must be atomic: a swap reassigns both shift rows
// or neither, and the overlap check for a leave application is serialized with
// the insert for the same staff member.
type Repository interface {
	ListStaff(ctx context.Context) ([]Staff, error)
	ListDepartments(ctx context.Context) ([]Department, error)
	ListShiftTypes(ctx context.Context) ([]ShiftType, error)
	// ListShifts returns shifts whose date falls in r; a zero range returns all shifts.
	ListShifts(ctx context.Context, r DateRange) ([]Shift, error)
	ListLeaveRequests(ctx context.Context) ([]LeaveRequest, error)
	ListAvailability(ctx context.Context, r DateRange) ([]Availability, error)

	SwapShifts(ctx context.Context, req SwapParams) error
	ApplyForLeave(ctx context.Context, app LeaveApplication) (LeaveRequest, error)
	// DecideLeave moves a pending request to Approved or Rejected and returns the
	// shifts assigned to the staff member inside the leave range when approved.
	DecideLeave(ctx context.Context, leaveID int64, status LeaveStatus) ([]Shift, error)
}

// SlotRef identifies a shift row by the staff member currently holding it
type SlotRef struct {
	StaffID     int64
	Date        time.Time
	ShiftTypeID int64
}

// SwapParams asks for A's slot and B's slot to be exchanged
type SwapParams struct {
	A SlotRef
	B SlotRef
}

// LeaveApplication is a new leave request before it is stored
type LeaveApplication struct {
	StaffID   int64
	StartDate time.Time
	EndDate   time.Time
	LeaveType string
	Reason    string
}
