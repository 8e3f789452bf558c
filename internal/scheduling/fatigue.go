package scheduling

import (
	"fmt"
	"sort"
	"time"
)

// BackToBack is a pair of consecutive assignments with too little rest between them
type BackToBack struct {
	StaffID   int64
	StaffName string
	First     Shift
	Second    Shift
	Rest      time.Duration
}

// DetectBackToBack finds, per staff member, consecutive assignments whose rest gap
// is shorter than minRest. Overlapping shifts report a zero rest.
func DetectBackToBack(shifts []Shift, shiftTypes []ShiftType, minRest time.Duration) ([]BackToBack, error) {
	types := make(map[int64]ShiftType, len(shiftTypes))
	for _, st := range shiftTypes {
		types[st.ID] = st
	}

	type timed struct {
		shift      Shift
		start, end time.Time
	}
	byStaff := make(map[int64][]timed)
	for _, s := range shifts {
		if s.StaffID == nil {
			continue
		}
		st, ok := types[s.ShiftTypeID]
		if !ok {
			return nil, fmt.Errorf("shift %d references unknown shift type %d", s.ID, s.ShiftTypeID)
		}
		start, end, err := st.Window(s.Date)
		if err != nil {
			return nil, err
		}
		byStaff[*s.StaffID] = append(byStaff[*s.StaffID], timed{shift: s, start: start, end: end})
	}

	var pairs []BackToBack
	for staffID, list := range byStaff {
		sort.Slice(list, func(i, j int) bool { return list[i].start.Before(list[j].start) })
		for i := 1; i < len(list); i++ {
			prev, next := list[i-1], list[i]
			rest := next.start.Sub(prev.end)
			if rest < 0 {
				rest = 0
			}
			if rest < minRest {
				pairs = append(pairs, BackToBack{
					StaffID:   staffID,
					StaffName: next.shift.StaffName,
					First:     prev.shift,
					Second:    next.shift,
					Rest:      rest,
				})
			}
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if !pairs[i].Second.Date.Equal(pairs[j].Second.Date) {
			return pairs[i].Second.Date.Before(pairs[j].Second.Date)
		}
		return pairs[i].StaffName < pairs[j].StaffName
	})
	return pairs, nil
}
