package itinerary

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	daysPattern  = regexp.MustCompile(`(?i)^plan (\d+)-day trip to ([\p{L}\p{N}_]+)`)
	rangePattern = regexp.MustCompile(`(?i)^plan ([\p{L}\p{N}_]+) trip from ([\p{L}]+ \d{1,2}) to ([\p{L}]+ \d{1,2})`)
)

const monthDayLayout = "January 2"

// ParseQuickRequest understands two one-line forms:
//
//	plan 5-day trip to Paris
//	plan Paris trip from April 1 to April 5
//
// The date form yields a start date in the next occurrence of that day
// (today counts) and an inclusive day count; a range ending before it starts
// wraps into the following year. Anything else fails with ErrQuery.
func ParseQuickRequest(s string) (Request, error) {
	return parseQuickRequest(s, time.Now())
}

func parseQuickRequest(s string, now time.Time) (Request, error) {
	s = strings.TrimSpace(s)

	if m := daysPattern.FindStringSubmatch(s); m != nil {
		days, err := strconv.Atoi(m[1])
		if err != nil || days <= 0 {
			return Request{}, fmt.Errorf("%w (day count %q)", ErrQuery, m[1])
		}
		return Request{Destination: m[2], TripDuration: durationText(days)}, nil
	}

	if m := rangePattern.FindStringSubmatch(s); m != nil {
		start, err := time.Parse(monthDayLayout, m[2])
		if err != nil {
			return Request{}, fmt.Errorf("%w (start %q)", ErrQuery, m[2])
		}
		end, err := time.Parse(monthDayLayout, m[3])
		if err != nil {
			return Request{}, fmt.Errorf("%w (end %q)", ErrQuery, m[3])
		}

		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		startDay := time.Date(today.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
		if startDay.Before(today) {
			startDay = startDay.AddDate(1, 0, 0)
		}
		endDay := time.Date(startDay.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
		if endDay.Before(startDay) {
			endDay = endDay.AddDate(1, 0, 0)
		}
		days := int(endDay.Sub(startDay).Hours()/24) + 1

		return Request{
			Destination:  m[1],
			TripDuration: durationText(days),
			StartDate:    startDay.Format(DateLayout),
		}, nil
	}

	return Request{}, ErrQuery
}

func durationText(days int) string {
	if days == 1 {
		return "1 day"
	}
	return strconv.Itoa(days) + " days"
}

// ApplyQuery fills destination, duration and start date from req.Query.
// Fields the query does not mention keep their submitted values.
func ApplyQuery(req Request) (Request, error) {
	if strings.TrimSpace(req.Query) == "" {
		return req, nil
	}
	parsed, err := ParseQuickRequest(req.Query)
	if err != nil {
		return req, err
	}
	req.Destination = parsed.Destination
	req.TripDuration = parsed.TripDuration
	if parsed.StartDate != "" {
		req.StartDate = parsed.StartDate
	}
	return req, nil
}
