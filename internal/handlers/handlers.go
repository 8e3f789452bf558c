// Package handlers binds the assistant's scheduling tools to scheduling.Service.
//
// Every handler validates its own arguments and returns a payload that the
// registry merges into {"success": true, ...}; errors become
// {"success": false, "error": ...}.
package handlers

import (
	"context"
	"strings"

	"github.com/Backland-Labs/rosterdesk/internal/scheduling"
	"github.com/Backland-Labs/rosterdesk/internal/tools"
)

// Tool names as exposed to the agent
const (
	ToolResolveStaff         = "resolveStaffInfoByName"
	ToolResolveDepartment    = "resolveDepartmentInfo"
	ToolResolveRelativeDate  = "resolveRelativeDate"
	ToolFilterPlannedShifts  = "filterPlannedShifts"
	ToolFetchFilteredShifts  = "fetchFilteredShifts"
	ToolSearchAvailableStaff = "searchAvailableStaff"
	ToolSwapShifts           = "swapShifts"
	ToolApplyForLeave        = "applyForLeave"
	ToolDecideLeave          = "approveOrRejectLeave"
	ToolListLeaveRequests    = "listLeaveRequests"
	ToolDetectBackToBack     = "detectBackToBackShifts"
)

// DefaultApproverRoles may approve or reject leave when none are configured
var DefaultApproverRoles = []string{"admin", "scheduler", "manager"}

// Config tunes handler behavior
type Config struct {
	// ApproverRoles lists caller roles allowed to decide leave requests
	ApproverRoles []string
}

// Handlers holds the scheduling service the tools operate on
type Handlers struct {
	svc           *scheduling.Service
	approverRoles []string
}

// New creates the handler set
func New(svc *scheduling.Service, cfg Config) *Handlers {
	roles := cfg.ApproverRoles
	if len(roles) == 0 {
		roles = DefaultApproverRoles
	}
	return &Handlers{svc: svc, approverRoles: roles}
}

// Tools returns one tool per supported operation
func (h *Handlers) Tools() []tools.Tool {
	return []tools.Tool{
		{
			Kind:        tools.KindResolveStaff,
			Name:        ToolResolveStaff,
			Description: "Find active staff members whose name contains the given text. Returns id, name, role and department for every match.",
			Parameters: object(props{
				"name": str("Full or partial staff name, at least 2 characters"),
			}, "name"),
			Handler: h.resolveStaff,
		},
		{
			Kind:        tools.KindResolveDepartment,
			Name:        ToolResolveDepartment,
			Description: "Look up a department by full or partial name.",
			Parameters: object(props{
				"name": str("Full or partial department name, at least 2 characters"),
			}, "name"),
			Handler: h.resolveDepartment,
		},
		{
			Kind:        tools.KindResolveRelativeDate,
			Name:        ToolResolveRelativeDate,
			Description: "Convert a relative date phrase such as 'tomorrow', 'next week', 'this weekend' or 'next friday' into a yyyy-MM-dd date or date range.",
			Parameters: object(props{
				"phrase": str("The relative date phrase"),
			}, "phrase"),
			Handler: h.resolveRelativeDate,
		},
		{
			Kind:        tools.KindFilterPlannedShifts,
			Name:        ToolFilterPlannedShifts,
			Description: "List planned shifts, optionally filtered by staff, department, shift type and date range. Ordered by date.",
			Parameters:  shiftFilterSchema(false),
			Handler:     h.filterPlannedShifts,
		},
		{
			Kind:        tools.KindFetchFilteredShifts,
			Name:        ToolFetchFilteredShifts,
			Description: "List shifts of any status, optionally filtered by staff, department, shift type, status and date range. Ordered by date.",
			Parameters:  shiftFilterSchema(true),
			Handler:     h.fetchFilteredShifts,
		},
		{
			Kind:        tools.KindSearchAvailableStaff,
			Name:        ToolSearchAvailableStaff,
			Description: "Find staff who are free on every date of a range: not marked unavailable, not on leave and, when a shift type is given, not already on that shift. Staff of the preferred department are listed first.",
			Parameters: object(props{
				"startDate":  date("First date of the range"),
				"endDate":    date("Last date of the range, inclusive"),
				"shiftType":  str("Shift type name such as Morning, Evening or Night"),
				"department": str("Preferred department name"),
			}, "startDate", "endDate"),
			Handler: h.searchAvailableStaff,
		},
		{
			Kind:        tools.KindSwapShifts,
			Name:        ToolSwapShifts,
			Description: "Swap two assigned shifts between staff A and staff B. Both must be eligible for the other's shift; otherwise nothing changes.",
			Parameters: object(props{
				"staffAId":   integer("Staff id currently holding shift A"),
				"shiftADate": date("Date of shift A"),
				"shiftAType": str("Shift type name of shift A"),
				"staffBId":   integer("Staff id currently holding shift B"),
				"shiftBDate": date("Date of shift B"),
				"shiftBType": str("Shift type name of shift B"),
			}, "staffAId", "shiftADate", "shiftAType", "staffBId", "shiftBDate", "shiftBType"),
			Handler: h.swapShifts,
		},
		{
			Kind:        tools.KindApplyForLeave,
			Name:        ToolApplyForLeave,
			Description: "Submit a pending leave request. Fails when it overlaps an existing pending or approved request of the same staff member.",
			Parameters: object(props{
				"staffId":   integer("Staff id"),
				"startDate": date("First day of leave"),
				"endDate":   date("Last day of leave, inclusive"),
				"leaveType": str("Leave type such as Annual, Sick or Study"),
				"reason":    str("Optional reason"),
			}, "staffId", "startDate", "endDate", "leaveType"),
			Handler: h.applyForLeave,
		},
		{
			Kind:        tools.KindDecideLeave,
			Name:        ToolDecideLeave,
			Description: "Approve or reject a pending leave request. Approval returns the shifts the staff member is assigned to during the leave.",
			Parameters: object(props{
				"leaveRequestId": integer("Leave request id"),
				"decision":       enum("approve or reject", "approve", "reject"),
			}, "leaveRequestId", "decision"),
			Handler: h.decideLeave,
		},
		{
			Kind:        tools.KindListLeaveRequests,
			Name:        ToolListLeaveRequests,
			Description: "List leave requests, optionally filtered by staff name, status and date range.",
			Parameters: object(props{
				"staffName": str("Full or partial staff name"),
				"status":    enum("Leave status", "Pending", "Approved", "Rejected"),
				"fromDate":  date("Only requests ending on or after this date"),
				"toDate":    date("Only requests starting on or before this date"),
			}),
			Handler: h.listLeaveRequests,
		},
		{
			Kind:        tools.KindDetectBackToBack,
			Name:        ToolDetectBackToBack,
			Description: "Find consecutive shifts of one staff member with less than the minimum rest between them.",
			Parameters: object(props{
				"fromDate":  date("First date to check"),
				"toDate":    date("Last date to check"),
				"staffName": str("Full or partial staff name"),
			}, "fromDate", "toDate"),
			Handler: h.detectBackToBack,
		},
	}
}

// NewRegistry builds a registry holding every scheduling tool
func NewRegistry(svc *scheduling.Service, cfg Config) (*tools.Registry, error) {
	b := tools.NewBuilder()
	for _, t := range New(svc, cfg).Tools() {
		if err := b.Register(t); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

func (h *Handlers) canDecideLeave(ctx context.Context) error {
	caller, ok := tools.CallerFrom(ctx)
	if ok {
		for _, role := range h.approverRoles {
			if strings.EqualFold(strings.TrimSpace(caller.Role), role) {
				return nil
			}
		}
	}
	return scheduling.Forbiddenf("Only %s users may approve or reject leave.", strings.Join(h.approverRoles, ", "))
}
