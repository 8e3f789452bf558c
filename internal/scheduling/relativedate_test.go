package scheduling

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRelativeDate(t *testing.T) {
	t.Parallel()

	// Wednesday
	wed := time.Date(2025, 3, 12, 16, 45, 0, 0, time.UTC)
	// Monday
	mon := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	// Sunday
	sun := time.Date(2025, 3, 16, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		name      string
		phrase    string
		now       time.Time
		wantDate  string
		wantStart string
		wantEnd   string
	}{
		{name: "today", phrase: "today", now: wed, wantDate: "2025-03-12"},
		{name: "tomorrow", phrase: "Tomorrow", now: wed, wantDate: "2025-03-13"},
		{name: "yesterday", phrase: "yesterday", now: wed, wantDate: "2025-03-11"},
		{name: "day after tomorrow", phrase: "the day after tomorrow", now: wed, wantDate: "2025-03-14"},
		{name: "day before yesterday", phrase: "day  before   yesterday", now: wed, wantDate: "2025-03-10"},
		{name: "next week is seven days ahead", phrase: "next week", now: wed, wantDate: "2025-03-19"},
		{name: "last week is seven days back", phrase: "last week", now: wed, wantDate: "2025-03-05"},
		{name: "this week is monday to sunday", phrase: "this week", now: wed, wantStart: "2025-03-10", wantEnd: "2025-03-16"},
		{name: "this week on sunday", phrase: "this week", now: sun, wantStart: "2025-03-10", wantEnd: "2025-03-16"},
		{name: "this weekend", phrase: "this weekend", now: wed, wantStart: "2025-03-15", wantEnd: "2025-03-16"},
		{name: "last weekend", phrase: "last weekend", now: wed, wantStart: "2025-03-08", wantEnd: "2025-03-09"},
		{name: "last weekend on sunday is the previous one", phrase: "last weekend", now: sun, wantStart: "2025-03-08", wantEnd: "2025-03-09"},
		{name: "next monday", phrase: "next monday", now: wed, wantDate: "2025-03-17"},
		{name: "next friday", phrase: "next Friday", now: wed, wantDate: "2025-03-14"},
		{name: "next monday on a monday", phrase: "next monday", now: mon, wantDate: "2025-03-17"},
		{name: "this month", phrase: "this month", now: wed, wantStart: "2025-03-01", wantEnd: "2025-03-31"},
		{name: "next month", phrase: "next month", now: wed, wantStart: "2025-04-01", wantEnd: "2025-04-30"},
		{name: "last month", phrase: "last month", now: wed, wantStart: "2025-02-01", wantEnd: "2025-02-28"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveRelativeDate(tt.phrase, tt.now)
			require.NoError(t, err)
			if tt.wantDate != "" {
				assert.False(t, got.IsRange)
				assert.Equal(t, tt.wantDate, FormatDate(got.Date))
				return
			}
			assert.True(t, got.IsRange)
			assert.Equal(t, tt.wantStart, FormatDate(got.Start))
			assert.Equal(t, tt.wantEnd, FormatDate(got.End))
		})
	}
}

func TestResolveRelativeDate_Unrecognized(t *testing.T) {
	t.Parallel()

	for _, phrase := range []string{"someday", "next fortnight", "next", "in a while", ""} {
		_, err := ResolveRelativeDate(phrase, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC))
		require.Error(t, err, phrase)
		assert.True(t, errors.Is(err, ErrValidation), phrase)
	}
}

func TestResolveRelativeDate_UsesUTCCalendarDay(t *testing.T) {
	t.Parallel()

	// 2025-03-12 23:30 in UTC-5 is already 2025-03-13 in UTC
	loc := time.FixedZone("UTC-5", -5*60*60)
	got, err := ResolveRelativeDate("today", time.Date(2025, 3, 12, 23, 30, 0, 0, loc))
	require.NoError(t, err)
	assert.Equal(t, "2025-03-13", FormatDate(got.Date))
}
