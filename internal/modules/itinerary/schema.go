package itinerary

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const itinerarySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "day_plans", "hotel"],
  "properties": {
    "name":  { "type": "string" },
    "hotel": { "type": "string" },
    "day_plans": {
      "type": "array",
      "items": { "$ref": "#/definitions/day_plan" }
    }
  },
  "definitions": {
    "day_plan": {
      "type": "object",
      "required": ["date", "activities", "restaurants"],
      "properties": {
        "date": { "type": "string" },
        "activities": {
          "type": "array",
          "minItems": 1,
          "items": { "$ref": "#/definitions/activity" }
        },
        "restaurants": {
          "type": "array",
          "minItems": 1,
          "items": { "type": "string" }
        },
        "flight": {
          "type": ["array", "null"],
          "items": { "$ref": "#/definitions/airline_option" }
        }
      }
    },
    "activity": {
      "type": "object",
      "required": ["name", "location", "description", "date", "why_its_suitable"],
      "properties": {
        "name":             { "type": "string" },
        "location":         { "type": "string" },
        "description":      { "type": "string" },
        "date":             { "type": "string" },
        "cuisine":          { "type": ["string", "null"] },
        "why_its_suitable": { "type": "string" },
        "reviews":          { "type": ["array", "null"], "items": { "type": "string" } },
        "rating":           { "type": ["number", "null"] }
      }
    },
    "airline_option": {
      "type": "object",
      "required": ["airline", "flight_number", "departure", "arrival", "price"],
      "properties": {
        "airline":       { "type": "string" },
        "flight_number": { "type": "string" },
        "departure":     { "type": "string" },
        "arrival":       { "type": "string" },
        "price":         { "type": "string" }
      }
    }
  }
}`

// SchemaError lists every violation found in a rejected document.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("itinerary does not conform to schema: %s", strings.Join(e.Violations, "; "))
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// Validator checks normalized documents against the itinerary schema.
// The compiled schema is read-only and safe for concurrent use.
type Validator struct {
	schema *gojsonschema.Schema
}

func NewValidator() (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(itinerarySchema))
	if err != nil {
		return nil, fmt.Errorf("compile itinerary schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// Validate rejects the whole document on any violation; there is no
// field-level repair.
func (v *Validator) Validate(doc []byte) (*Itinerary, error) {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if !result.Valid() {
		violations := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			violations = append(violations, e.String())
		}
		sort.Strings(violations)
		return nil, &SchemaError{Violations: violations}
	}

	var it Itinerary
	if err := json.Unmarshal(doc, &it); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return &it, nil
}
