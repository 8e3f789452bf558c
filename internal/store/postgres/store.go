// Package postgres implements scheduling.Repository on PostgreSQL via pgx.
//
// Swaps and leave applications run inside a single transaction that first
// takes a transaction-scoped advisory lock per affected staff member, so two
// concurrent writers for the same staff member serialize. The shift rows of a
// swap are additionally locked FOR UPDATE before the eligibility checks run.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Backland-Labs/rosterdesk/internal/logger"
	"github.com/Backland-Labs/rosterdesk/internal/scheduling"
)

//go:embed schema.sql
var defaultSchema string

// staffLockSpace namespaces the advisory locks taken per staff member
const staffLockSpace = 4201

// Store is a Postgres-backed repository
type Store struct {
	DB *pgxpool.Pool
}

var _ scheduling.Repository = (*Store)(nil)

// Open connects to Postgres and verifies the connection
func Open(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping Postgres: %w", err)
	}
	return &Store{DB: pool}, nil
}

// Close releases the underlying connection pool
func (s *Store) Close() {
	if s != nil && s.DB != nil {
		s.DB.Close()
	}
}

// Migrate applies the bundled schema, or the file at schemaPath when set
func (s *Store) Migrate(ctx context.Context, schemaPath string) error {
	schema := defaultSchema
	if schemaPath != "" {
		data, err := os.ReadFile(schemaPath)
		if err != nil {
			return fmt.Errorf("failed to read schema file: %w", err)
		}
		schema = string(data)
	}
	if _, err := s.DB.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

func bound(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	d := scheduling.DateOf(t)
	return &d
}

func (s *Store) ListStaff(ctx context.Context) ([]scheduling.Staff, error) {
	rows, err := s.DB.Query(ctx, `
                SELECT s.id, s.name, s.role, s.department_id, d.name, COALESCE(s.email, ''), s.active
                FROM staff s
                JOIN departments d ON d.id = s.department_id
                ORDER BY s.id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[scheduling.Staff])
}

func (s *Store) ListDepartments(ctx context.Context) ([]scheduling.Department, error) {
	rows, err := s.DB.Query(ctx, `SELECT id, name FROM departments ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[scheduling.Department])
}

func (s *Store) ListShiftTypes(ctx context.Context) ([]scheduling.ShiftType, error) {
	rows, err := s.DB.Query(ctx, `
                SELECT id, name, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI')
                FROM shift_types
                ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[scheduling.ShiftType])
}

const shiftColumns = `
        sh.id, sh.shift_date, sh.shift_type_id, st.name, sh.department_id, d.name,
        sh.slot_number, sh.staff_id, COALESCE(sf.name, ''), sh.status`

const shiftJoins = `
        FROM shifts sh
        JOIN shift_types st ON st.id = sh.shift_type_id
        JOIN departments d ON d.id = sh.department_id
        LEFT JOIN staff sf ON sf.id = sh.staff_id`

func scanShift(row pgx.CollectableRow) (scheduling.Shift, error) {
	var sh scheduling.Shift
	err := row.Scan(&sh.ID, &sh.Date, &sh.ShiftTypeID, &sh.ShiftTypeName, &sh.DepartmentID, &sh.DepartmentName,
		&sh.SlotNumber, &sh.StaffID, &sh.StaffName, &sh.Status)
	sh.Date = scheduling.DateOf(sh.Date)
	return sh, err
}

func (s *Store) ListShifts(ctx context.Context, r scheduling.DateRange) ([]scheduling.Shift, error) {
	rows, err := s.DB.Query(ctx, `SELECT`+shiftColumns+shiftJoins+`
                WHERE ($1::date IS NULL OR sh.shift_date >= $1)
                  AND ($2::date IS NULL OR sh.shift_date <= $2)
                ORDER BY sh.shift_date, sh.shift_type_id, sh.slot_number`, bound(r.From), bound(r.To))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanShift)
}

const leaveColumns = `
        lr.id, lr.staff_id, sf.name, lr.start_date, lr.end_date, lr.leave_type,
        COALESCE(lr.reason, ''), lr.status, lr.created_at`

func scanLeave(row pgx.CollectableRow) (scheduling.LeaveRequest, error) {
	var l scheduling.LeaveRequest
	var status string
	err := row.Scan(&l.ID, &l.StaffID, &l.StaffName, &l.StartDate, &l.EndDate, &l.LeaveType, &l.Reason, &status, &l.CreatedAt)
	l.Status = scheduling.LeaveStatus(status)
	return l, err
}

func (s *Store) ListLeaveRequests(ctx context.Context) ([]scheduling.LeaveRequest, error) {
	rows, err := s.DB.Query(ctx, `SELECT`+leaveColumns+`
                FROM leave_requests lr
                JOIN staff sf ON sf.id = lr.staff_id
                ORDER BY lr.start_date, lr.id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanLeave)
}

func (s *Store) ListAvailability(ctx context.Context, r scheduling.DateRange) ([]scheduling.Availability, error) {
	rows, err := s.DB.Query(ctx, `
                SELECT staff_id, avail_date, shift_type_id, available
                FROM staff_availability
                WHERE ($1::date IS NULL OR avail_date >= $1)
                  AND ($2::date IS NULL OR avail_date <= $2)`, bound(r.From), bound(r.To))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[scheduling.Availability])
}

// lockStaff takes the per-staff advisory locks in ascending id order
func lockStaff(ctx context.Context, tx pgx.Tx, staffIDs ...int64) error {
	ids := slices.Clone(staffIDs)
	slices.Sort(ids)
	for _, id := range slices.Compact(ids) {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1::int, $2::int)`, staffLockSpace, int32(id)); err != nil {
			return fmt.Errorf("failed to lock staff %d: %w", id, err)
		}
	}
	return nil
}

func leavesForStaff(ctx context.Context, tx pgx.Tx, staffIDs []int64) ([]scheduling.LeaveRequest, error) {
	rows, err := tx.Query(ctx, `SELECT`+leaveColumns+`
                FROM leave_requests lr
                JOIN staff sf ON sf.id = lr.staff_id
                WHERE lr.staff_id = ANY($1)`, staffIDs)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanLeave)
}

// SwapShifts validates and applies a swap in one transaction
func (s *Store) SwapShifts(ctx context.Context, req scheduling.SwapParams) error {
	staffIDs := []int64{req.A.StaffID, req.B.StaffID}
	return pgx.BeginFunc(ctx, s.DB, func(tx pgx.Tx) error {
		if err := lockStaff(ctx, tx, staffIDs...); err != nil {
			return err
		}

		rows, err := tx.Query(ctx, `SELECT`+shiftColumns+shiftJoins+`
                        WHERE (sh.staff_id = $1 AND sh.shift_date = $2 AND sh.shift_type_id = $3)
                           OR (sh.staff_id = $4 AND sh.shift_date = $5 AND sh.shift_type_id = $6)
                        ORDER BY sh.id
                        FOR UPDATE OF sh`,
			req.A.StaffID, scheduling.DateOf(req.A.Date), req.A.ShiftTypeID,
			req.B.StaffID, scheduling.DateOf(req.B.Date), req.B.ShiftTypeID)
		if err != nil {
			return err
		}
		shifts, err := pgx.CollectRows(rows, scanShift)
		if err != nil {
			return err
		}

		leaves, err := leavesForStaff(ctx, tx, staffIDs)
		if err != nil {
			return err
		}

		rows, err = tx.Query(ctx, `
                        SELECT staff_id, avail_date, shift_type_id, available
                        FROM staff_availability
                        WHERE staff_id = ANY($1) AND avail_date IN ($2, $3)`,
			staffIDs, scheduling.DateOf(req.A.Date), scheduling.DateOf(req.B.Date))
		if err != nil {
			return err
		}
		availability, err := pgx.CollectRows(rows, pgx.RowToStructByPos[scheduling.Availability])
		if err != nil {
			return err
		}

		plan, err := scheduling.PlanSwap(req, shifts, leaves, availability)
		if err != nil {
			return err
		}
		if err := reassign(ctx, tx, plan.ShiftA.ID, *plan.ShiftB.StaffID); err != nil {
			return err
		}
		return reassign(ctx, tx, plan.ShiftB.ID, *plan.ShiftA.StaffID)
	})
}

func reassign(ctx context.Context, tx pgx.Tx, shiftID, staffID int64) error {
	tag, err := tx.Exec(ctx, `UPDATE shifts SET staff_id = $2, updated_at = NOW() WHERE id = $1`, shiftID, staffID)
	if err != nil {
		return fmt.Errorf("failed to reassign shift %d: %w", shiftID, err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("shift %d was not updated", shiftID)
	}
	return nil
}

// ApplyForLeave checks overlap and inserts a pending request in one transaction
func (s *Store) ApplyForLeave(ctx context.Context, app scheduling.LeaveApplication) (scheduling.LeaveRequest, error) {
	if err := scheduling.ValidateLeaveApplication(app); err != nil {
		return scheduling.LeaveRequest{}, err
	}
	var created scheduling.LeaveRequest
	err := pgx.BeginFunc(ctx, s.DB, func(tx pgx.Tx) error {
		if err := lockStaff(ctx, tx, app.StaffID); err != nil {
			return err
		}
		var name string
		if err := tx.QueryRow(ctx, `SELECT name FROM staff WHERE id = $1`, app.StaffID).Scan(&name); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return scheduling.NotFoundf("Staff %d does not exist.", app.StaffID)
			}
			return err
		}
		existing, err := leavesForStaff(ctx, tx, []int64{app.StaffID})
		if err != nil {
			return err
		}
		if err := scheduling.CheckLeaveOverlap(app, existing); err != nil {
			return err
		}

		created = scheduling.LeaveRequest{
			StaffID:   app.StaffID,
			StaffName: name,
			StartDate: scheduling.DateOf(app.StartDate),
			EndDate:   scheduling.DateOf(app.EndDate),
			LeaveType: app.LeaveType,
			Reason:    app.Reason,
			Status:    scheduling.LeavePending,
		}
		return tx.QueryRow(ctx, `
                        INSERT INTO leave_requests (staff_id, start_date, end_date, leave_type, reason, status)
                        VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
                        RETURNING id, created_at`,
			created.StaffID, created.StartDate, created.EndDate, created.LeaveType, created.Reason, string(created.Status),
		).Scan(&created.ID, &created.CreatedAt)
	})
	if err != nil {
		return scheduling.LeaveRequest{}, err
	}
	return created, nil
}

// DecideLeave records a decision on a pending request
func (s *Store) DecideLeave(ctx context.Context, leaveID int64, status scheduling.LeaveStatus) ([]scheduling.Shift, error) {
	impacted := []scheduling.Shift{}
	err := pgx.BeginFunc(ctx, s.DB, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT`+leaveColumns+`
                        FROM leave_requests lr
                        JOIN staff sf ON sf.id = lr.staff_id
                        WHERE lr.id = $1
                        FOR UPDATE OF lr`, leaveID)
		if err != nil {
			return err
		}
		leave, err := pgx.CollectExactlyOneRow(rows, scanLeave)
		if errors.Is(err, pgx.ErrNoRows) {
			return scheduling.NotFoundf("Leave request #%d does not exist.", leaveID)
		}
		if err != nil {
			return err
		}
		if err := scheduling.ValidateDecision(leave, status); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE leave_requests SET status = $2 WHERE id = $1`, leaveID, string(status)); err != nil {
			return err
		}
		if status != scheduling.LeaveApproved {
			return nil
		}

		rows, err = tx.Query(ctx, `SELECT`+shiftColumns+shiftJoins+`
                        WHERE sh.staff_id = $1 AND sh.shift_date BETWEEN $2 AND $3
                        ORDER BY sh.shift_date, sh.shift_type_id, sh.slot_number`,
			leave.StaffID, leave.StartDate, leave.EndDate)
		if err != nil {
			return err
		}
		impacted, err = pgx.CollectRows(rows, scanShift)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(impacted) > 0 {
		logger.WithFields(map[string]interface{}{
			"leave_id": leaveID,
			"impacted": len(impacted),
		}).Info("Approved leave overlaps assigned shifts")
	}
	return impacted, nil
}
