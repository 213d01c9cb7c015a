package engine

import (
	"context"

	"github.com/atlas-travel/places-cli/internal/faults"
	"github.com/atlas-travel/places-cli/internal/model"
	"github.com/atlas-travel/places-cli/pkg/foursquare"
	"github.com/atlas-travel/places-cli/pkg/here"
	"github.com/atlas-travel/places-cli/pkg/tripadvisor"
)

// SourceFetcher fetches the third-party record for a resolved place.
type SourceFetcher interface {
	Kind() model.SourceKind
	Fetch(ctx context.Context, identity *model.PlaceIdentity) (model.SourceRecord, error)
}

// ReviewFetcher fetches the review-site payload for a resolved place.
type ReviewFetcher interface {
	FetchReviews(ctx context.Context, name, country string, limit int) (model.ReviewData, error)
}

// FoursquareSource adapts the Foursquare client. With Detail set it
// spends a premium call to fetch the full venue after the search.
type FoursquareSource struct {
	Client *foursquare.Client
	Near   string
	Detail bool
}

func (s *FoursquareSource) Kind() model.SourceKind {
	if s.Detail {
		return model.KindFoursquareDetail
	}
	return model.KindFoursquare
}

func (s *FoursquareSource) Fetch(ctx context.Context, identity *model.PlaceIdentity) (model.SourceRecord, error) {
	venue, err := s.Client.Search(ctx, identity.CanonicalName, s.Near)
	if err != nil {
		return nil, err
	}
	if venue == nil {
		return model.SourceRecord{}, nil
	}
	if !s.Detail {
		return model.SourceRecord(venue), nil
	}

	id := foursquare.VenueID(venue)
	if id == "" {
		return model.SourceRecord{}, nil
	}
	details, err := s.Client.Details(ctx, id)
	if err != nil {
		return nil, err
	}
	return model.SourceRecord(details), nil
}

// HereSource adapts the HERE discover client. The resolved coordinates
// anchor the search; without them the configured fallback point is used.
type HereSource struct {
	Client      *here.Client
	FallbackLat float64
	FallbackLon float64
}

func (s *HereSource) Kind() model.SourceKind { return model.KindHere }

func (s *HereSource) Fetch(ctx context.Context, identity *model.PlaceIdentity) (model.SourceRecord, error) {
	lat, lon := s.FallbackLat, s.FallbackLon
	if identity.Coords != nil {
		lat, lon = identity.Coords.Lat, identity.Coords.Lon
	}
	item, err := s.Client.Discover(ctx, identity.CanonicalName, lat, lon)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return model.SourceRecord{}, nil
	}
	return model.SourceRecord(item), nil
}

// NewSourceFetcher builds the fetcher for a configured source kind.
func NewSourceFetcher(kind model.SourceKind, fsq *foursquare.Client, her *here.Client, near string, fallbackLat, fallbackLon float64) (SourceFetcher, error) {
	switch kind {
	case model.KindFoursquare:
		return &FoursquareSource{Client: fsq, Near: near}, nil
	case model.KindFoursquareDetail:
		return &FoursquareSource{Client: fsq, Near: near, Detail: true}, nil
	case model.KindHere:
		return &HereSource{Client: her, FallbackLat: fallbackLat, FallbackLon: fallbackLon}, nil
	default:
		return nil, faults.Configf("no source fetcher for kind %q", kind)
	}
}

// TripAdvisorReviews adapts the review-site client.
type TripAdvisorReviews struct {
	Client *tripadvisor.Client
}

func (t *TripAdvisorReviews) FetchReviews(ctx context.Context, name, country string, limit int) (model.ReviewData, error) {
	place, err := t.Client.FetchReviews(ctx, name, country, limit)
	if err != nil {
		return model.ReviewData{}, err
	}
	if place == nil {
		return model.ReviewData{}, nil
	}

	data := model.ReviewData{
		Name:    place.Name,
		URL:     place.URL,
		Address: place.Address,
		Hours:   place.SuggestedHours,
	}
	for _, r := range place.Reviews {
		data.Reviews = append(data.Reviews, model.Review{Text: r.Text, Rating: r.Rating, Date: r.Date})
	}
	return data, nil
}
