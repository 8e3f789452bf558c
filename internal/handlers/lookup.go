package handlers

import (
	"context"
	"errors"

	"github.com/Backland-Labs/rosterdesk/internal/scheduling"
	"github.com/Backland-Labs/rosterdesk/internal/tools"
)

func (h *Handlers) resolveStaff(ctx context.Context, args tools.Args) (any, error) {
	matches, err := h.svc.FindStaffByName(ctx, args.String("name"))
	if err != nil {
		return nil, err
	}
	out := make([]staffView, 0, len(matches))
	for _, s := range matches {
		out = append(out, viewStaff(s))
	}
	return map[string]any{"matches": out, "count": len(out)}, nil
}

func (h *Handlers) resolveDepartment(ctx context.Context, args tools.Args) (any, error) {
	d, err := h.svc.FindDepartment(ctx, args.String("name"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"department": d}, nil
}

func (h *Handlers) resolveRelativeDate(_ context.Context, args tools.Args) (any, error) {
	phrase := args.String("phrase")
	if phrase == "" {
		return nil, scheduling.Validationf("A date phrase is required.")
	}

	res, err := h.svc.ResolveRelativeDate(phrase)
	if err != nil {
		if errors.Is(err, scheduling.ErrValidation) {
			return nil, &tools.Failure{
				Err:    err,
				Fields: map[string]any{"fallbackDate": scheduling.FormatDate(h.svc.Today())},
			}
		}
		return nil, err
	}

	if res.IsRange {
		return map[string]any{
			"phrase":    phrase,
			"startDate": scheduling.FormatDate(res.Start),
			"endDate":   scheduling.FormatDate(res.End),
		}, nil
	}
	return map[string]any{
		"phrase": phrase,
		"date":   scheduling.FormatDate(res.Date),
	}, nil
}
