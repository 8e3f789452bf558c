package scheduling

import "time"

// roster is a small Emergency/ICU roster around the week of Monday 2025-03-10
type roster struct {
	Departments  []Department
	ShiftTypes   []ShiftType
	Staff        []Staff
	Shifts       []Shift
	Leaves       []LeaveRequest
	Availability []Availability
}

const (
	morning int64 = 1
	evening int64 = 2
	night   int64 = 3

	asha  int64 = 1
	ben   int64 = 2
	carla int64 = 3
	dev   int64 = 4
)

func day(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func id(v int64) *int64 { return &v }

func fixtureRoster() roster {
	return roster{
		Departments: []Department{{ID: 1, Name: "Emergency"}, {ID: 2, Name: "ICU"}},
		ShiftTypes: []ShiftType{
			{ID: morning, Name: "Morning", StartTime: "07:00", EndTime: "15:00"},
			{ID: evening, Name: "Evening", StartTime: "15:00", EndTime: "23:00"},
			{ID: night, Name: "Night", StartTime: "23:00", EndTime: "07:00"},
		},
		Staff: []Staff{
			{ID: asha, Name: "Asha Patil", Role: "Nurse", DepartmentID: 1, DepartmentName: "Emergency", Active: true},
			{ID: ben, Name: "Ben Okafor", Role: "Nurse", DepartmentID: 1, DepartmentName: "Emergency", Active: true},
			{ID: carla, Name: "Carla Mendes", Role: "Nurse", DepartmentID: 2, DepartmentName: "ICU", Active: true},
			{ID: dev, Name: "Dev Rao", Role: "Doctor", DepartmentID: 2, DepartmentName: "ICU", Active: false},
		},
		Shifts: []Shift{
			{ID: 101, Date: day("2025-03-10"), ShiftTypeID: morning, ShiftTypeName: "Morning", DepartmentID: 1, DepartmentName: "Emergency", SlotNumber: 1, StaffID: id(asha), StaffName: "Asha Patil", Status: ShiftStatusPlanned},
			{ID: 102, Date: day("2025-03-11"), ShiftTypeID: night, ShiftTypeName: "Night", DepartmentID: 1, DepartmentName: "Emergency", SlotNumber: 1, StaffID: id(ben), StaffName: "Ben Okafor", Status: ShiftStatusPlanned},
			{ID: 103, Date: day("2025-03-12"), ShiftTypeID: evening, ShiftTypeName: "Evening", DepartmentID: 2, DepartmentName: "ICU", SlotNumber: 1, StaffID: id(carla), StaffName: "Carla Mendes", Status: ShiftStatusPlanned},
			{ID: 104, Date: day("2025-03-13"), ShiftTypeID: morning, ShiftTypeName: "Morning", DepartmentID: 1, DepartmentName: "Emergency", SlotNumber: 2, StaffID: id(asha), StaffName: "Asha Patil", Status: ShiftStatusPublished},
			{ID: 105, Date: day("2025-03-13"), ShiftTypeID: night, ShiftTypeName: "Night", DepartmentID: 2, DepartmentName: "ICU", SlotNumber: 1, Status: ShiftStatusPlanned},
		},
		Leaves: []LeaveRequest{
			{ID: 1, StaffID: asha, StaffName: "Asha Patil", StartDate: day("2025-03-11"), EndDate: day("2025-03-11"), LeaveType: "Annual", Status: LeaveApproved},
			{ID: 2, StaffID: carla, StaffName: "Carla Mendes", StartDate: day("2025-03-20"), EndDate: day("2025-03-22"), LeaveType: "Study", Status: LeavePending},
			{ID: 3, StaffID: ben, StaffName: "Ben Okafor", StartDate: day("2025-03-12"), EndDate: day("2025-03-12"), LeaveType: "Sick", Status: LeaveRejected},
		},
		Availability: []Availability{
			{StaffID: ben, Date: day("2025-03-10"), ShiftTypeID: id(evening), Available: false},
			{StaffID: carla, Date: day("2025-03-14"), Available: true},
		},
	}
}
