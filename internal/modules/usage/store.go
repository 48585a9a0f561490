package usage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store handles generation_usage persistence.
type Store struct {
	db      *pgxpool.Pool
	monthly int
	now     func() time.Time
}

// NewStore returns a Store granting monthly generations per user.
// monthly <= 0 means DefaultTokens.
func NewStore(db *pgxpool.Pool, monthly int) *Store {
	if monthly <= 0 {
		monthly = DefaultTokens
	}
	return &Store{db: db, monthly: monthly, now: time.Now}
}

// UseToken spends one itinerary generation from uid's monthly allowance.
// The planner spends before the model call and does not refund a generation
// that later fails. The first spend of a new month restarts the counter at the
// full allowance. Returns ErrInsufficientTokens when the month's generations
// are used up or uid has no usage row.
func (s *Store) UseToken(ctx context.Context, uid string) error {
	month := s.now().UTC().Format(monthLayout)

	tag, err := s.db.Exec(ctx, `
		UPDATE generation_usage SET
			tokens_remaining = CASE WHEN last_reset_month != $1 THEN $2 - 1 ELSE tokens_remaining - 1 END,
			last_reset_month = $1
		WHERE uid = $3 AND (last_reset_month < $1 OR tokens_remaining > 0)
	`, month, s.monthly, uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientTokens
	}
	return nil
}

// EnsureUser gives uid a usage row holding a full month of generations.
// Existing rows keep their remaining count.
func (s *Store) EnsureUser(ctx context.Context, uid string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO generation_usage (uid, tokens_remaining, last_reset_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (uid) DO NOTHING
	`, uid, s.monthly, s.now().UTC().Format(monthLayout))
	return err
}
