package handlers

import (
	"math"

	"github.com/Backland-Labs/rosterdesk/internal/scheduling"
)

// Payload shapes. Dates are rendered as yyyy-MM-dd for the agent.

type staffView struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

func viewStaff(s scheduling.Staff) staffView {
	return staffView{ID: s.ID, Name: s.Name, Role: s.Role, Department: s.DepartmentName}
}

type shiftView struct {
	ID         int64  `json:"id"`
	Date       string `json:"date"`
	ShiftType  string `json:"shiftType"`
	Department string `json:"department"`
	Slot       int    `json:"slotNumber"`
	StaffID    *int64 `json:"staffId"`
	StaffName  string `json:"staffName,omitempty"`
	Status     string `json:"status"`
}

func viewShift(s scheduling.Shift) shiftView {
	return shiftView{
		ID:         s.ID,
		Date:       scheduling.FormatDate(s.Date),
		ShiftType:  s.ShiftTypeName,
		Department: s.DepartmentName,
		Slot:       s.SlotNumber,
		StaffID:    s.StaffID,
		StaffName:  s.StaffName,
		Status:     s.Status,
	}
}

func viewShifts(in []scheduling.Shift) []shiftView {
	out := make([]shiftView, 0, len(in))
	for _, s := range in {
		out = append(out, viewShift(s))
	}
	return out
}

type leaveView struct {
	ID        int64  `json:"id"`
	StaffID   int64  `json:"staffId"`
	StaffName string `json:"staffName,omitempty"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	LeaveType string `json:"leaveType"`
	Reason    string `json:"reason,omitempty"`
	Status    string `json:"status"`
}

func viewLeave(l scheduling.LeaveRequest) leaveView {
	return leaveView{
		ID:        l.ID,
		StaffID:   l.StaffID,
		StaffName: l.StaffName,
		StartDate: scheduling.FormatDate(l.StartDate),
		EndDate:   scheduling.FormatDate(l.EndDate),
		LeaveType: l.LeaveType,
		Reason:    l.Reason,
		Status:    string(l.Status),
	}
}

type availableView struct {
	staffView
	DepartmentMatch bool `json:"departmentMatch"`
}

type backToBackView struct {
	StaffID   int64     `json:"staffId"`
	StaffName string    `json:"staffName"`
	First     shiftView `json:"first"`
	Second    shiftView `json:"second"`
	RestHours float64   `json:"restHours"`
}

func viewBackToBack(p scheduling.BackToBack) backToBackView {
	return backToBackView{
		StaffID:   p.StaffID,
		StaffName: p.StaffName,
		First:     viewShift(p.First),
		Second:    viewShift(p.Second),
		RestHours: math.Round(p.Rest.Hours()*10) / 10,
	}
}
