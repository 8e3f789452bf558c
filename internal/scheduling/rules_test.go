package scheduling

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEligible(t *testing.T) {
	t.Parallel()
	r := fixtureRoster()

	tests := []struct {
		name      string
		staffID   int64
		date      string
		shiftType int64
		want      bool
		reason    string
	}{
		{name: "no records means available", staffID: carla, date: "2025-03-11", shiftType: night, want: true},
		{name: "approved leave blocks", staffID: asha, date: "2025-03-11", shiftType: night, want: false, reason: "approved Annual leave"},
		{name: "pending leave blocks", staffID: carla, date: "2025-03-21", shiftType: morning, want: false, reason: "pending Study leave"},
		{name: "rejected leave does not block", staffID: ben, date: "2025-03-12", shiftType: evening, want: true},
		{name: "shift specific unavailability blocks that shift", staffID: ben, date: "2025-03-10", shiftType: evening, want: false, reason: "unavailable"},
		{name: "shift specific unavailability leaves other shifts", staffID: ben, date: "2025-03-10", shiftType: morning, want: true},
		{name: "explicit available record", staffID: carla, date: "2025-03-14", shiftType: night, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := Eligible(tt.staffID, day(tt.date), tt.shiftType, r.Leaves, r.Availability)
			assert.Equal(t, tt.want, ok)
			if tt.reason != "" {
				assert.Contains(t, reason, tt.reason)
			}
		})
	}
}

func TestPlanSwap(t *testing.T) {
	t.Parallel()
	r := fixtureRoster()

	t.Run("eligible swap returns both rows", func(t *testing.T) {
		plan, err := PlanSwap(SwapParams{
			A: SlotRef{StaffID: ben, Date: day("2025-03-11"), ShiftTypeID: night},
			B: SlotRef{StaffID: carla, Date: day("2025-03-12"), ShiftTypeID: evening},
		}, r.Shifts, r.Leaves, r.Availability)
		require.NoError(t, err)
		assert.Equal(t, int64(102), plan.ShiftA.ID)
		assert.Equal(t, int64(103), plan.ShiftB.ID)
	})

	t.Run("staff A on leave on B's date", func(t *testing.T) {
		_, err := PlanSwap(SwapParams{
			A: SlotRef{StaffID: asha, Date: day("2025-03-10"), ShiftTypeID: morning},
			B: SlotRef{StaffID: ben, Date: day("2025-03-11"), ShiftTypeID: night},
		}, r.Shifts, r.Leaves, r.Availability)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotEligible))
		assert.Contains(t, err.Error(), "Staff 1 cannot take the Night shift on 2025-03-11")
	})

	t.Run("staff B unavailable for A's shift type", func(t *testing.T) {
		shifts := append([]Shift{}, r.Shifts...)
		shifts = append(shifts, Shift{ID: 106, Date: day("2025-03-10"), ShiftTypeID: evening, ShiftTypeName: "Evening", StaffID: id(carla), StaffName: "Carla Mendes"})
		_, err := PlanSwap(SwapParams{
			A: SlotRef{StaffID: carla, Date: day("2025-03-10"), ShiftTypeID: evening},
			B: SlotRef{StaffID: ben, Date: day("2025-03-11"), ShiftTypeID: night},
		}, shifts, r.Leaves, r.Availability)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotEligible))
		assert.Contains(t, err.Error(), "Staff 2 cannot take the Evening shift")
	})

	t.Run("same staff on both sides", func(t *testing.T) {
		_, err := PlanSwap(SwapParams{
			A: SlotRef{StaffID: asha, Date: day("2025-03-10"), ShiftTypeID: morning},
			B: SlotRef{StaffID: asha, Date: day("2025-03-13"), ShiftTypeID: morning},
		}, r.Shifts, r.Leaves, r.Availability)
		assert.True(t, errors.Is(err, ErrValidation))
	})

	t.Run("slot not held by staff", func(t *testing.T) {
		_, err := PlanSwap(SwapParams{
			A: SlotRef{StaffID: ben, Date: day("2025-03-10"), ShiftTypeID: morning},
			B: SlotRef{StaffID: carla, Date: day("2025-03-12"), ShiftTypeID: evening},
		}, r.Shifts, r.Leaves, r.Availability)
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestCheckLeaveOverlap(t *testing.T) {
	t.Parallel()
	r := fixtureRoster()

	tests := []struct {
		name    string
		app     LeaveApplication
		wantErr bool
	}{
		{name: "overlaps approved leave", app: LeaveApplication{StaffID: asha, StartDate: day("2025-03-09"), EndDate: day("2025-03-11"), LeaveType: "Annual"}, wantErr: true},
		{name: "overlaps pending leave at the edge", app: LeaveApplication{StaffID: carla, StartDate: day("2025-03-22"), EndDate: day("2025-03-25"), LeaveType: "Annual"}, wantErr: true},
		{name: "adjacent range is fine", app: LeaveApplication{StaffID: asha, StartDate: day("2025-03-12"), EndDate: day("2025-03-13"), LeaveType: "Annual"}},
		{name: "rejected leave does not count", app: LeaveApplication{StaffID: ben, StartDate: day("2025-03-12"), EndDate: day("2025-03-12"), LeaveType: "Sick"}},
		{name: "other staff's leave does not count", app: LeaveApplication{StaffID: ben, StartDate: day("2025-03-11"), EndDate: day("2025-03-11"), LeaveType: "Annual"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckLeaveOverlap(tt.app, r.Leaves)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrLeaveOverlap))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateLeaveApplication(t *testing.T) {
	t.Parallel()

	err := ValidateLeaveApplication(LeaveApplication{StaffID: asha, StartDate: day("2025-03-12"), EndDate: day("2025-03-10"), LeaveType: "Annual"})
	require.Error(t, err)
	assert.Equal(t, "endDate 2025-03-10 is before startDate 2025-03-12.", err.Error())

	err = ValidateLeaveApplication(LeaveApplication{StaffID: asha, StartDate: day("2025-03-12"), EndDate: day("2025-03-12")})
	assert.True(t, errors.Is(err, ErrValidation))

	assert.NoError(t, ValidateLeaveApplication(LeaveApplication{StaffID: asha, StartDate: day("2025-03-12"), EndDate: day("2025-03-12"), LeaveType: "Annual"}))
}

func TestValidateDecision(t *testing.T) {
	t.Parallel()
	r := fixtureRoster()

	assert.NoError(t, ValidateDecision(r.Leaves[1], LeaveApproved))
	assert.True(t, errors.Is(ValidateDecision(r.Leaves[0], LeaveRejected), ErrConflict))
	assert.True(t, errors.Is(ValidateDecision(r.Leaves[1], LeavePending), ErrValidation))
}

func TestImpactedShifts(t *testing.T) {
	t.Parallel()
	r := fixtureRoster()

	leave := LeaveRequest{StaffID: asha, StartDate: day("2025-03-10"), EndDate: day("2025-03-13")}
	impacted := ImpactedShifts(leave, r.Shifts)
	require.Len(t, impacted, 2)
	assert.Equal(t, int64(101), impacted[0].ID)
	assert.Equal(t, int64(104), impacted[1].ID)
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	msg, ok := UserMessage(NotFoundf("No department matches %q.", "Radiology"))
	assert.True(t, ok)
	assert.Equal(t, `No department matches "Radiology".`, msg)

	_, ok = UserMessage(errors.New("connection reset"))
	assert.False(t, ok)
}
