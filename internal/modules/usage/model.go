// README: Per-user monthly itinerary generation quota backed by Postgres.
package usage

import "errors"

// ErrInsufficientTokens is returned when a user has no generations left for the current month.
var ErrInsufficientTokens = errors.New("insufficient tokens")

// DefaultTokens is the number of generations granted per month.
const DefaultTokens = 100

const monthLayout = "2006-01"
