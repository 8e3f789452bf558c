package handlers

import (
	"context"
	"fmt"

	"github.com/Backland-Labs/rosterdesk/internal/scheduling"
	"github.com/Backland-Labs/rosterdesk/internal/tools"
)

func (h *Handlers) filterPlannedShifts(ctx context.Context, args tools.Args) (any, error) {
	return h.listShifts(ctx, args, scheduling.ShiftStatusPlanned)
}

func (h *Handlers) fetchFilteredShifts(ctx context.Context, args tools.Args) (any, error) {
	return h.listShifts(ctx, args, args.String("shiftStatusName"))
}

func (h *Handlers) listShifts(ctx context.Context, args tools.Args, status string) (any, error) {
	from, err := args.OptionalDate("fromDate")
	if err != nil {
		return nil, err
	}
	to, err := args.OptionalDate("toDate")
	if err != nil {
		return nil, err
	}

	shifts, err := h.svc.FilterShifts(ctx, scheduling.ShiftFilter{
		StaffName:      args.String("staffName"),
		DepartmentName: args.String("departmentName"),
		ShiftTypeName:  args.String("shiftTypeName"),
		StatusName:     status,
		From:           from,
		To:             to,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"shifts": viewShifts(shifts), "count": len(shifts)}, nil
}

func (h *Handlers) searchAvailableStaff(ctx context.Context, args tools.Args) (any, error) {
	start, err := args.Date("startDate")
	if err != nil {
		return nil, err
	}
	end, err := args.Date("endDate")
	if err != nil {
		return nil, err
	}

	hits, err := h.svc.SearchAvailableStaff(ctx, scheduling.AvailabilityRequest{
		Start:      start,
		End:        end,
		ShiftType:  args.String("shiftType"),
		Department: args.String("department"),
	})
	if err != nil {
		return nil, err
	}

	out := make([]availableView, 0, len(hits))
	for _, hit := range hits {
		out = append(out, availableView{staffView: viewStaff(hit.Staff), DepartmentMatch: hit.DepartmentMatch})
	}
	return map[string]any{
		"startDate": scheduling.FormatDate(start),
		"endDate":   scheduling.FormatDate(end),
		"staff":     out,
		"count":     len(out),
	}, nil
}

func (h *Handlers) swapShifts(ctx context.Context, args tools.Args) (any, error) {
	var req scheduling.SwapRequest
	var err error
	if req.StaffAID, err = args.Int64("staffAId"); err != nil {
		return nil, err
	}
	if req.ShiftADate, err = args.Date("shiftADate"); err != nil {
		return nil, err
	}
	if req.ShiftAType, err = args.RequiredString("shiftAType"); err != nil {
		return nil, err
	}
	if req.StaffBID, err = args.Int64("staffBId"); err != nil {
		return nil, err
	}
	if req.ShiftBDate, err = args.Date("shiftBDate"); err != nil {
		return nil, err
	}
	if req.ShiftBType, err = args.RequiredString("shiftBType"); err != nil {
		return nil, err
	}

	if err := h.svc.SwapShifts(ctx, req); err != nil {
		return nil, err
	}
	return map[string]any{
		"message": fmt.Sprintf("Staff %d now works the %s shift on %s and staff %d the %s shift on %s.",
			req.StaffAID, req.ShiftBType, scheduling.FormatDate(req.ShiftBDate),
			req.StaffBID, req.ShiftAType, scheduling.FormatDate(req.ShiftADate)),
	}, nil
}

func (h *Handlers) detectBackToBack(ctx context.Context, args tools.Args) (any, error) {
	from, err := args.Date("fromDate")
	if err != nil {
		return nil, err
	}
	to, err := args.Date("toDate")
	if err != nil {
		return nil, err
	}

	pairs, err := h.svc.DetectBackToBack(ctx, from, to, args.String("staffName"))
	if err != nil {
		return nil, err
	}
	out := make([]backToBackView, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, viewBackToBack(p))
	}
	return map[string]any{
		"pairs":        out,
		"count":        len(out),
		"minRestHours": h.svc.MinRest().Hours(),
	}, nil
}
