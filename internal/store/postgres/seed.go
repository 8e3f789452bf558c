package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Backland-Labs/rosterdesk/internal/scheduling"
	"github.com/Backland-Labs/rosterdesk/internal/store/memory"
)

// Seed loads fixtures into the database. Rows whose id already exists are left untouched.
func (s *Store) Seed(ctx context.Context, f memory.Fixtures) error {
	batch := &pgx.Batch{}
	for _, d := range f.Departments {
		batch.Queue(`INSERT INTO departments (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`, d.ID, d.Name)
	}
	for _, st := range f.ShiftTypes {
		batch.Queue(`INSERT INTO shift_types (id, name, start_time, end_time) VALUES ($1, $2, $3::time, $4::time) ON CONFLICT (id) DO NOTHING`,
			st.ID, st.Name, st.StartTime, st.EndTime)
	}
	for _, m := range f.Staff {
		batch.Queue(`INSERT INTO staff (id, name, role, department_id, email, active) VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6) ON CONFLICT (id) DO NOTHING`,
			m.ID, m.Name, m.Role, m.DepartmentID, m.Email, m.Active)
	}
	for _, sh := range f.Shifts {
		status := sh.Status
		if status == "" {
			status = scheduling.ShiftStatusPlanned
		}
		slot := sh.SlotNumber
		if slot == 0 {
			slot = 1
		}
		batch.Queue(`INSERT INTO shifts (id, shift_date, shift_type_id, department_id, slot_number, staff_id, status) VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (id) DO NOTHING`,
			sh.ID, scheduling.DateOf(sh.Date), sh.ShiftTypeID, sh.DepartmentID, slot, sh.StaffID, status)
	}
	for _, l := range f.LeaveRequests {
		status := l.Status
		if status == "" {
			status = scheduling.LeavePending
		}
		batch.Queue(`INSERT INTO leave_requests (id, staff_id, start_date, end_date, leave_type, reason, status) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7) ON CONFLICT (id) DO NOTHING`,
			l.ID, l.StaffID, scheduling.DateOf(l.StartDate), scheduling.DateOf(l.EndDate), l.LeaveType, l.Reason, string(status))
	}
	for _, a := range f.Availability {
		batch.Queue(`INSERT INTO staff_availability (staff_id, avail_date, shift_type_id, available) VALUES ($1, $2, $3, $4)`,
			a.StaffID, scheduling.DateOf(a.Date), a.ShiftTypeID, a.Available)
	}
	for _, table := range []string{"departments", "shift_types", "staff", "shifts", "leave_requests"} {
		batch.Queue(fmt.Sprintf(`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 0) + 1, false)`, table))
	}

	return pgx.BeginFunc(ctx, s.DB, func(tx pgx.Tx) error {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
		return nil
	})
}
