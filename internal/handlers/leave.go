package handlers

import (
	"context"
	"strings"

	"github.com/Backland-Labs/rosterdesk/internal/logger"
	"github.com/Backland-Labs/rosterdesk/internal/scheduling"
	"github.com/Backland-Labs/rosterdesk/internal/tools"
)

func (h *Handlers) applyForLeave(ctx context.Context, args tools.Args) (any, error) {
	var app scheduling.LeaveApplication
	var err error
	if app.StaffID, err = args.Int64("staffId"); err != nil {
		return nil, err
	}
	if app.StartDate, err = args.Date("startDate"); err != nil {
		return nil, err
	}
	if app.EndDate, err = args.Date("endDate"); err != nil {
		return nil, err
	}
	app.LeaveType = args.String("leaveType")
	app.Reason = args.String("reason")

	leave, err := h.svc.ApplyForLeave(ctx, app)
	if err != nil {
		return nil, err
	}
	return map[string]any{"leaveRequest": viewLeave(leave)}, nil
}

func (h *Handlers) decideLeave(ctx context.Context, args tools.Args) (any, error) {
	if err := h.canDecideLeave(ctx); err != nil {
		return nil, err
	}
	id, err := args.Int64("leaveRequestId")
	if err != nil {
		return nil, err
	}

	var approve bool
	switch strings.ToLower(args.String("decision")) {
	case "approve", "approved":
		approve = true
	case "reject", "rejected":
	default:
		return nil, scheduling.Validationf("decision must be \"approve\" or \"reject\".")
	}

	impacted, err := h.svc.DecideLeave(ctx, id, approve)
	if err != nil {
		return nil, err
	}

	status := scheduling.LeaveRejected
	if approve {
		status = scheduling.LeaveApproved
	}
	caller, _ := tools.CallerFrom(ctx)
	logger.WithFields(map[string]interface{}{
		"leave_request_id": id,
		"status":           status,
		"caller_role":      caller.Role,
		"impacted_shifts":  len(impacted),
	}).Info("Leave request decided")

	return map[string]any{
		"leaveRequestId": id,
		"status":         string(status),
		"impactedShifts": viewShifts(impacted),
	}, nil
}

func (h *Handlers) listLeaveRequests(ctx context.Context, args tools.Args) (any, error) {
	from, err := args.OptionalDate("fromDate")
	if err != nil {
		return nil, err
	}
	to, err := args.OptionalDate("toDate")
	if err != nil {
		return nil, err
	}

	leaves, err := h.svc.ListLeaveRequests(ctx, scheduling.LeaveFilter{
		StaffName: args.String("staffName"),
		Status:    args.String("status"),
		From:      from,
		To:        to,
	})
	if err != nil {
		return nil, err
	}
	out := make([]leaveView, 0, len(leaves))
	for _, l := range leaves {
		out = append(out, viewLeave(l))
	}
	return map[string]any{"leaveRequests": out, "count": len(out)}, nil
}
