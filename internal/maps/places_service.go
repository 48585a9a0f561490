package maps

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"googlemaps.github.io/maps"

	"tripwise/internal/modules/itinerary"
)

type textSearcher interface {
	TextSearch(ctx context.Context, r *maps.TextSearchRequest) (maps.PlacesSearchResponse, error)
}

// Place represents a simplified location result.
type Place struct {
	Name    string
	Address string
	Rating  float32
	PlaceID string
}

// PlacesService handles interactions with Google Places API.
type PlacesService struct {
	client textSearcher
}

// NewPlacesService creates a new PlacesService with the given API Key.
func NewPlacesService(apiKey string) (*PlacesService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &PlacesService{client: client}, nil
}

// Search runs a Places Text Search and returns the results in API order.
func (s *PlacesService) Search(ctx context.Context, query string) ([]Place, error) {
	resp, err := s.client.TextSearch(ctx, &maps.TextSearchRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}
	results := make([]Place, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, Place{
			Name:    r.Name,
			Address: r.FormattedAddress,
			Rating:  r.Rating,
			PlaceID: r.PlaceID,
		})
	}
	return results, nil
}

// EnrichRatings fills missing activity ratings from the first Places match of
// "name location". Activities that already carry a rating are left untouched.
// It returns the number of ratings filled and the first lookup error, after
// trying every activity.
func (s *PlacesService) EnrichRatings(ctx context.Context, it *itinerary.Itinerary) (int, error) {
	var firstErr error
	filled := 0
	seen := map[string]*float64{}

	for d := range it.DayPlans {
		for a := range it.DayPlans[d].Activities {
			act := &it.DayPlans[d].Activities[a]
			if act.Rating != nil {
				continue
			}
			query := strings.TrimSpace(act.Name + " " + act.Location)
			rating, ok := seen[query]
			if !ok {
				places, err := s.Search(ctx, query)
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					log.Printf("places: lookup %q: %v", query, err)
					continue
				}
				if len(places) > 0 && places[0].Rating > 0 {
					r := math.Round(float64(places[0].Rating)*10) / 10
					rating = &r
				}
				seen[query] = rating
			}
			if rating != nil {
				v := *rating
				act.Rating = &v
				filled++
			}
		}
	}
	return filled, firstErr
}
