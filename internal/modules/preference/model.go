// README: Preference memory: embeds past trip queries and recalls the nearest ones per user.
package preference

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

const (
	DefaultTopK = 3
	// NoHistory is returned by Recall when the user has no stored queries.
	NoHistory = "No past preferences found."
	Separator = " | "
)

var ErrDimension = errors.New("embedding dimension mismatch")

// Record is one stored query. Records are appended and never mutated.
type Record struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Query     string          `json:"query"`
	Output    json.RawMessage `json:"output,omitempty"`
	Embedding []float32       `json:"embedding"`
	CreatedAt time.Time       `json:"created_at"`
}

// Store persists records and answers user-filtered nearest-neighbour queries.
// Nearest returns at most k records, most similar first.
type Store interface {
	Add(ctx context.Context, rec Record) error
	Nearest(ctx context.Context, userID string, vec []float32, k int) ([]Record, error)
}
