package itinerary

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuickRequest(t *testing.T) {
	now := time.Date(2025, time.March, 1, 15, 30, 0, 0, time.UTC)

	cases := []struct {
		name string
		in   string
		want Request
	}{
		{"day count", "plan 5-day trip to Paris", Request{Destination: "Paris", TripDuration: "5 days"}},
		{"single day", "Plan 1-day trip to Lyon", Request{Destination: "Lyon", TripDuration: "1 day"}},
		{"date range", "plan Paris trip from April 1 to April 5", Request{Destination: "Paris", TripDuration: "5 days", StartDate: "2025-04-01"}},
		{"lowercase months", "plan Kyoto trip from april 10 to april 12", Request{Destination: "Kyoto", TripDuration: "3 days", StartDate: "2025-04-10"}},
		{"starts today", "plan Oslo trip from March 1 to March 1", Request{Destination: "Oslo", TripDuration: "1 day", StartDate: "2025-03-01"}},
		{"past start rolls over", "plan Rome trip from February 10 to February 12", Request{Destination: "Rome", TripDuration: "3 days", StartDate: "2026-02-10"}},
		{"range wraps year end", "plan Rome trip from December 30 to January 2", Request{Destination: "Rome", TripDuration: "4 days", StartDate: "2025-12-30"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseQuickRequest(tc.in, now)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseQuickRequest_NotUnderstood(t *testing.T) {
	now := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{
		"",
		"take me somewhere nice",
		"plan 0-day trip to Paris",
		"plan Paris trip from Smarch 1 to April 5",
		"plan Paris trip from April 40 to April 41",
	} {
		_, err := parseQuickRequest(in, now)
		assert.True(t, errors.Is(err, ErrQuery), "%q: %v", in, err)
	}
}

func TestApplyQuery(t *testing.T) {
	base := Request{UserID: "u1", Origin: "JFK", Destination: "Berlin", TripDuration: "2 days", StartDate: "2025-10-01", UserPreferences: "museums"}

	got, err := ApplyQuery(base)
	require.NoError(t, err)
	assert.Equal(t, base, got, "no query leaves the request alone")

	withDays := base
	withDays.Query = "plan 4-day trip to Vienna"
	got, err = ApplyQuery(withDays)
	require.NoError(t, err)
	assert.Equal(t, "Vienna", got.Destination)
	assert.Equal(t, "4 days", got.TripDuration)
	assert.Equal(t, "2025-10-01", got.StartDate, "day-count form keeps the submitted start date")
	assert.Equal(t, "JFK", got.Origin)
	assert.Equal(t, "museums", got.UserPreferences)

	bad := base
	bad.Query = "surprise me"
	got, err = ApplyQuery(bad)
	assert.ErrorIs(t, err, ErrQuery)
	assert.Equal(t, "Berlin", got.Destination)
}
