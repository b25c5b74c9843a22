package stats

import (
	"sort"
	"time"
)

// Streaks count consecutive calendar days (UTC) containing at least one
// reading session. Time-of-day is discarded before comparison.

// CurrentStreak walks backwards from today. Logging yesterday but not yet
// today keeps the streak alive; a full skipped day breaks it to zero.
func CurrentStreak(startTimes []time.Time, today time.Time) int {
	if len(startTimes) == 0 {
		return 0
	}

	dates := distinctDates(startTimes)
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })

	day := dayStart(today)
	yesterday := day.AddDate(0, 0, -1)

	cursor := time.Time{}
	for _, d := range dates {
		if d.Equal(day) {
			cursor = day
			break
		}
		if d.Equal(yesterday) {
			cursor = yesterday
			break
		}
	}
	if cursor.IsZero() {
		return 0
	}

	streak := 0
	for _, d := range dates {
		if d.Equal(cursor) {
			streak++
			cursor = cursor.AddDate(0, 0, -1)
		} else if d.Before(cursor) {
			break
		}
	}
	return streak
}

// LongestStreak scans all distinct days ascending and tracks the longest run
// of exactly-consecutive dates.
func LongestStreak(startTimes []time.Time) int {
	if len(startTimes) == 0 {
		return 0
	}

	dates := distinctDates(startTimes)
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	longest, current := 1, 1
	for i := 1; i < len(dates); i++ {
		if dates[i].Equal(dates[i-1].AddDate(0, 0, 1)) {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 1
		}
	}
	return longest
}

func distinctDates(times []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(times))
	dates := make([]time.Time, 0, len(times))
	for _, t := range times {
		d := dayStart(t)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	return dates
}

func dayStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
