package assistant

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	displayDate = "Jan 2, 2006"
	recordDate  = "2006-01-02"
)

var monthDayPattern = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})`)

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// parseCheckIn understands "tomorrow", "next weekend" (the coming Saturday,
// a week out when today is Saturday) and month/day such as 3/14 or 12-1.
// A month/day already past this year means next year.
func parseCheckIn(lower string, now time.Time) (time.Time, bool) {
	today := startOfDay(now)
	switch {
	case strings.Contains(lower, "tomorrow"):
		return today.AddDate(0, 0, 1), true
	case strings.Contains(lower, "next weekend"):
		days := (int(time.Saturday) - int(today.Weekday()) + 7) % 7
		if days == 0 {
			days = 7
		}
		return today.AddDate(0, 0, days), true
	}

	m := monthDayPattern.FindStringSubmatch(lower)
	if m == nil {
		return time.Time{}, false
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	date := time.Date(today.Year(), time.Month(month), day, 0, 0, 0, 0, today.Location())
	if date.Month() != time.Month(month) {
		return time.Time{}, false
	}
	if date.Before(today) {
		date = date.AddDate(1, 0, 0)
	}
	return date, true
}
