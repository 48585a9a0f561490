package itinerary

import (
	"fmt"
	"strconv"
	"strings"
)

// Render formats a validated itinerary as Markdown. The output depends only on
// the input, so rendering twice yields identical text.
func Render(it *Itinerary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### ✈️ %s\n\n**Hotel:** %s\n\n", it.Name, it.Hotel)

	for _, day := range it.DayPlans {
		fmt.Fprintf(&b, "#### 📅 %s\n", day.Date)
		if len(day.Flight) > 0 {
			b.WriteString("**✈️ Flight Options:**\n")
			for _, f := range day.Flight {
				fmt.Fprintf(&b, "- %s %s | %s → %s | %s\n", f.Airline, f.FlightNumber, f.Departure, f.Arrival, f.Price)
			}
		}

		b.WriteString("\n**Activities:**\n")
		for _, act := range day.Activities {
			fmt.Fprintf(&b, "- %s (%s) ⭐ %s\n  %s\n", act.Name, act.Location, formatRating(act.Rating), act.Description)
		}

		b.WriteString("\n**Restaurants:**\n")
		for _, r := range day.Restaurants {
			fmt.Fprintf(&b, "- %s\n", r)
		}
		b.WriteString("\n---\n")
	}
	return b.String()
}

func formatRating(r *float64) string {
	if r == nil {
		return "n/a"
	}
	// Shortest exact form, with at least one decimal: 4.75 stays 4.75, 5 is 5.0.
	s := strconv.FormatFloat(*r, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
