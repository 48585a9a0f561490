package preference

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"tripwise/internal/ai"
)

// Service embeds query text and reads or appends records through a Store.
type Service struct {
	store    Store
	embedder ai.Embedder
	vectors  *cache.Cache
	now      func() time.Time
}

func NewService(store Store, embedder ai.Embedder) *Service {
	return &Service{
		store:    store,
		embedder: embedder,
		vectors:  cache.New(10*time.Minute, 20*time.Minute),
		now:      time.Now,
	}
}

func (s *Service) embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := s.vectors.Get(text); ok {
		return v.([]float32), nil
	}
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if want := s.embedder.Dimensions(); len(vec) != want {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimension, len(vec), want)
	}
	s.vectors.Set(text, vec, cache.DefaultExpiration)
	return vec, nil
}

// Record appends queryText for userID. output is stored as JSON when non-nil.
// Identical queries are stored again.
func (s *Service) Record(ctx context.Context, userID, queryText string, output any) error {
	vec, err := s.embed(ctx, queryText)
	if err != nil {
		return fmt.Errorf("embed query: %w", err)
	}
	rec := Record{
		ID:        uuid.NewString(),
		UserID:    userID,
		Query:     queryText,
		Embedding: vec,
		CreatedAt: s.now().UTC(),
	}
	if output != nil {
		raw, err := json.Marshal(output)
		if err != nil {
			return fmt.Errorf("marshal output: %w", err)
		}
		rec.Output = raw
	}
	return s.store.Add(ctx, rec)
}

// Recall joins the k closest stored queries of userID. k <= 0 means DefaultTopK.
func (s *Service) Recall(ctx context.Context, userID, queryText string, k int) (string, error) {
	if k <= 0 {
		k = DefaultTopK
	}
	vec, err := s.embed(ctx, queryText)
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}
	records, err := s.store.Nearest(ctx, userID, vec, k)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return NoHistory, nil
	}
	parts := make([]string, 0, len(records))
	for _, r := range records {
		parts = append(parts, r.Query)
	}
	return strings.Join(parts, Separator), nil
}
