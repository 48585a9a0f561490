package itinerary

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DateLayout is the day-plan date format requested in the prompt.
const DateLayout = "2006-01-02"

// ParseDuration reads the leading day count of a free-text duration such as
// "3", "3 days" or "3-day".
func ParseDuration(s string) (int, error) {
	s = strings.TrimSpace(s)
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if end == -1 {
		end = len(s)
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: unreadable trip duration %q", ErrSchedule, s)
	}
	return n, nil
}

// CheckSchedule verifies the itinerary covers exactly the requested number of
// days, dated startDate, startDate+1, ... in order.
func CheckSchedule(it *Itinerary, duration, startDate string) error {
	days, err := ParseDuration(duration)
	if err != nil {
		return err
	}
	start, err := time.Parse(DateLayout, strings.TrimSpace(startDate))
	if err != nil {
		return fmt.Errorf("%w: unreadable start date %q", ErrSchedule, startDate)
	}
	if len(it.DayPlans) != days {
		return fmt.Errorf("%w: expected %d day plans, got %d", ErrSchedule, days, len(it.DayPlans))
	}
	for i, day := range it.DayPlans {
		want := start.AddDate(0, 0, i).Format(DateLayout)
		if strings.TrimSpace(day.Date) != want {
			return fmt.Errorf("%w: day %d dated %q, expected %s", ErrSchedule, i+1, day.Date, want)
		}
	}
	return nil
}
