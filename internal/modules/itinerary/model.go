// README: Itinerary aggregate returned by the model and the request that produces it.
package itinerary

import "errors"

var (
	ErrParse    = errors.New("itinerary parse failed")
	ErrSchema   = errors.New("itinerary schema violation")
	ErrSchedule = errors.New("itinerary schedule mismatch")
	ErrQuery    = errors.New("could not understand the trip request")
)

// Request carries the form fields as free text. Nothing here is validated.
// Query is an optional one-line request such as "plan 5-day trip to Paris";
// see ApplyQuery.
type Request struct {
	UserID          string `json:"user_id" form:"user_id"`
	Origin          string `json:"origin" form:"origin"`
	Destination     string `json:"destination" form:"destination"`
	TripDuration    string `json:"trip_duration" form:"trip_duration"`
	StartDate       string `json:"start_date" form:"start_date"`
	UserPreferences string `json:"user_preferences" form:"user_preferences"`
	Query           string `json:"query,omitempty" form:"query"`
}

type Itinerary struct {
	Name     string    `json:"name"`
	DayPlans []DayPlan `json:"day_plans"`
	Hotel    string    `json:"hotel"`
}

// DayPlan is one calendar day. Flight is expected on the first and last day only,
// by prompt convention.
type DayPlan struct {
	Date        string          `json:"date"`
	Activities  []Activity      `json:"activities"`
	Restaurants []string        `json:"restaurants"`
	Flight      []AirlineOption `json:"flight,omitempty"`
}

type Activity struct {
	Name           string   `json:"name"`
	Location       string   `json:"location"`
	Description    string   `json:"description"`
	Date           string   `json:"date"`
	Cuisine        *string  `json:"cuisine,omitempty"`
	WhyItsSuitable string   `json:"why_its_suitable"`
	Reviews        []string `json:"reviews,omitempty"`
	Rating         *float64 `json:"rating,omitempty"`
}

// AirlineOption fields are free text; airline codes and times are not checked.
type AirlineOption struct {
	Airline      string `json:"airline"`
	FlightNumber string `json:"flight_number"`
	Departure    string `json:"departure"`
	Arrival      string `json:"arrival"`
	Price        string `json:"price"`
}
