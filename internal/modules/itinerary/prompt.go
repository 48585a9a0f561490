package itinerary

import (
	"fmt"
	"strings"
)

// PreferenceSeparator joins recalled history with the current preferences.
const PreferenceSeparator = " | "

// BuildPrompt constructs the instruction sent to the model. Inputs are embedded
// verbatim; a malformed date or duration only shows up later as a parse or
// validation failure.
func BuildPrompt(req Request, preferences string) string {
	if strings.TrimSpace(preferences) == "" {
		preferences = "none"
	}
	return fmt.Sprintf(`Role: You are a professional travel planner who outputs structured itineraries with flight recommendations.
Goal: Generate real activities, restaurants, and airline options for trips.

Task: Plan a detailed travel itinerary for %s.

Return ONLY valid JSON matching this schema:
{
  "name": "string",
  "day_plans": [
    {
      "date": "YYYY-MM-DD",
      "activities": [
        {
          "name": "string",
          "location": "string",
          "description": "string",
          "date": "YYYY-MM-DD",
          "cuisine": "string",
          "why_its_suitable": "string",
          "reviews": [],
          "rating": 4.5
        }
      ],
      "restaurants": ["string"],
      "flight": [
        {
          "airline": "string",
          "flight_number": "string",
          "departure": "YYYY-MM-DD HH:MM",
          "arrival": "YYYY-MM-DD HH:MM",
          "price": "string"
        }
      ]
    }
  ],
  "hotel": "string"
}

RULES:
- Cover exactly %s days.
- Use %s as Day 1 and increment dates sequentially.
- Each day must include at least 2 activities and 1 restaurant.
- Day 1 MUST include at least 2 flight options from %s → %s.
- Last day MUST include at least 2 flight options from %s → %s.
- Make flights look realistic (major airlines, plausible times, sample prices).
- Consider user preferences: %s.
- Output JSON only (no markdown, no text).
`,
		req.Destination,
		req.TripDuration,
		req.StartDate,
		req.Origin, req.Destination,
		req.Destination, req.Origin,
		preferences,
	)
}

// QueryText is the text embedded for preference recall and record.
func QueryText(req Request) string {
	return fmt.Sprintf("%s to %s, %s starting %s, prefs=%s",
		req.Origin, req.Destination, req.TripDuration, req.StartDate, req.UserPreferences)
}

// MergePreferences prefixes the current preferences with recalled history.
// Empty parts are dropped so a first-time user without preferences gets "".
func MergePreferences(history, current string) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{history, current} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, PreferenceSeparator)
}
