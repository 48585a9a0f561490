package itinerary

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError reports that raw model text could not be coerced into JSON even
// after fence stripping. Err is the decoder error of the second pass.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON in model response: %v", e.Err)
}

func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Err} }

// Normalize turns raw model output into a JSON document.
//
// Stage one parses the trimmed text as is. Stage two removes one leading fence
// marker (```json or ```) and one trailing ``` and parses again. There is no
// further repair: prose around the JSON, trailing commas and truncated output
// all fail.
func Normalize(raw string) ([]byte, error) {
	text := strings.TrimSpace(raw)
	if err := strictParse(text); err == nil {
		return []byte(text), nil
	}

	stripped := stripFence(text)
	if err := strictParse(stripped); err != nil {
		return nil, &ParseError{Err: err}
	}
	return []byte(stripped), nil
}

func strictParse(text string) error {
	var v any
	return json.Unmarshal([]byte(text), &v)
}

func stripFence(input string) string {
	input = strings.TrimSpace(input)
	for _, prefix := range []string{"```json", "```JSON", "```"} {
		if strings.HasPrefix(input, prefix) {
			input = strings.TrimPrefix(input, prefix)
			break
		}
	}
	input = strings.TrimSuffix(strings.TrimSpace(input), "```")
	return strings.TrimSpace(input)
}
