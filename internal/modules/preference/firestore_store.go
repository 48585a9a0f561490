package preference

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
)

const DefaultCollection = "trip_preferences"

// FirestoreStore uses Firestore vector search. The collection needs a vector
// index on embedding combined with user_id.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreStore(client *firestore.Client, collection string) *FirestoreStore {
	if collection == "" {
		collection = DefaultCollection
	}
	return &FirestoreStore{client: client, collection: collection}
}

type firestoreRecord struct {
	UserID    string             `firestore:"user_id"`
	Query     string             `firestore:"query"`
	Output    string             `firestore:"output,omitempty"`
	Embedding firestore.Vector32 `firestore:"embedding"`
	CreatedAt time.Time          `firestore:"created_at"`
}

func (s *FirestoreStore) Add(ctx context.Context, rec Record) error {
	doc := firestoreRecord{
		UserID:    rec.UserID,
		Query:     rec.Query,
		Output:    string(rec.Output),
		Embedding: firestore.Vector32(rec.Embedding),
		CreatedAt: rec.CreatedAt,
	}
	if _, err := s.client.Collection(s.collection).Doc(rec.ID).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore set %s: %w", rec.ID, err)
	}
	return nil
}

func (s *FirestoreStore) Nearest(ctx context.Context, userID string, vec []float32, k int) ([]Record, error) {
	q := s.client.Collection(s.collection).
		Where("user_id", "==", userID).
		FindNearest("embedding", firestore.Vector32(vec), k, firestore.DistanceMeasureCosine, nil)

	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("firestore find nearest: %w", err)
	}
	out := make([]Record, 0, len(snaps))
	for _, snap := range snaps {
		var doc firestoreRecord
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", snap.Ref.ID, err)
		}
		rec := Record{
			ID:        snap.Ref.ID,
			UserID:    doc.UserID,
			Query:     doc.Query,
			Embedding: []float32(doc.Embedding),
			CreatedAt: doc.CreatedAt,
		}
		if doc.Output != "" {
			rec.Output = []byte(doc.Output)
		}
		out = append(out, rec)
	}
	return out, nil
}
