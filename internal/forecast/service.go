package forecast

import (
	"context"

	"kisanmitra/internal/types"
)

// Compile-time assertion that Service implements types.SnapshotSource.
var _ types.SnapshotSource = (*Service)(nil)

// DocumentFetcher abstracts the raw provider fetch so the service can be
// tested without HTTP. Client is the production implementation.
type DocumentFetcher interface {
	GetForecast(ctx context.Context, lat, lon float64) (*Document, error)
}

// Service combines the provider client and the formatter behind the
// SnapshotSource interface the dispatcher depends on.
type Service struct {
	fetcher   DocumentFetcher
	formatter *Formatter
}

// NewService creates a snapshot service from a fetcher.
func NewService(fetcher DocumentFetcher) *Service {
	return &Service{
		fetcher:   fetcher,
		formatter: NewFormatter(),
	}
}

// Snapshot fetches and normalizes the forecast for a location.
func (s *Service) Snapshot(ctx context.Context, loc types.Location) (*types.WeatherSnapshot, error) {
	doc, err := s.fetcher.GetForecast(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		return nil, err
	}
	return s.formatter.Format(doc, loc.District)
}
