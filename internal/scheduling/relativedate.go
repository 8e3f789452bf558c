package scheduling

import (
	"strings"
	"time"
)

// DateResolution is either a single date or an inclusive range
type DateResolution struct {
	Date    time.Time
	Start   time.Time
	End     time.Time
	IsRange bool
}

func single(d time.Time) DateResolution {
	return DateResolution{Date: d}
}

func span(start, end time.Time) DateResolution {
	return DateResolution{Start: start, End: end, IsRange: true}
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ResolveRelativeDate maps a phrase from a closed vocabulary to a date or range,
// relative to the UTC calendar day of now. Unknown phrases return an ErrValidation
// error rather than guessing.
func ResolveRelativeDate(phrase string, now time.Time) (DateResolution, error) {
	p := normalizePhrase(phrase)
	today := DateOf(now.UTC())

	switch p {
	case "":
		return DateResolution{}, Validationf("A date phrase is required.")
	case "today":
		return single(today), nil
	case "tomorrow":
		return single(today.AddDate(0, 0, 1)), nil
	case "yesterday":
		return single(today.AddDate(0, 0, -1)), nil
	case "day after tomorrow", "day after":
		return single(today.AddDate(0, 0, 2)), nil
	case "day before yesterday", "day before":
		return single(today.AddDate(0, 0, -2)), nil
	case "this week":
		monday := startOfWeek(today)
		return span(monday, monday.AddDate(0, 0, 6)), nil
	case "next week":
		return single(today.AddDate(0, 0, 7)), nil
	case "last week", "previous week":
		return single(today.AddDate(0, 0, -7)), nil
	case "this weekend":
		saturday := startOfWeek(today).AddDate(0, 0, 5)
		return span(saturday, saturday.AddDate(0, 0, 1)), nil
	case "last weekend", "previous weekend":
		sunday := today.AddDate(0, 0, -1)
		for sunday.Weekday() != time.Sunday {
			sunday = sunday.AddDate(0, 0, -1)
		}
		return span(sunday.AddDate(0, 0, -1), sunday), nil
	case "this month":
		return monthSpan(today, 0), nil
	case "next month":
		return monthSpan(today, 1), nil
	case "last month", "previous month":
		return monthSpan(today, -1), nil
	}

	if rest, ok := strings.CutPrefix(p, "next "); ok {
		if wd, ok := weekdays[rest]; ok {
			delta := (int(wd) - int(today.Weekday()) + 7) % 7
			if delta == 0 {
				delta = 7
			}
			return single(today.AddDate(0, 0, delta)), nil
		}
	}

	return DateResolution{}, Validationf("Unrecognized date phrase %q.", strings.TrimSpace(phrase))
}

func normalizePhrase(phrase string) string {
	p := strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
	p = strings.TrimPrefix(p, "the ")
	return p
}

// startOfWeek returns the Monday of d's ISO week
func startOfWeek(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func monthSpan(today time.Time, offset int) DateResolution {
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, offset, 0)
	return span(first, first.AddDate(0, 1, -1))
}
