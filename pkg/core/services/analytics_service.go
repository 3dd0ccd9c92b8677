package services

import (
	"context"
	"log"
	"sync"

	"github.com/wadjakorntonsri/linklet-dashboard/pkg/core/domain"
	"github.com/wadjakorntonsri/linklet-dashboard/pkg/ports"
)

// AnalyticsService drives the single analytics panel. Only the response to
// the most recently issued request may touch the series.
type AnalyticsService struct {
	api ports.AnalyticsAPI

	mu     sync.RWMutex
	seq    uint64
	open   bool
	series domain.AnalyticsSeries
}

func NewAnalyticsService(api ports.AnalyticsAPI) *AnalyticsService {
	return &AnalyticsService{api: api}
}

// Open shows the panel for code in the loading state, fetches its series
// and applies the result if no later Open or Close happened meanwhile.
// It reports whether the result was applied.
func (s *AnalyticsService) Open(ctx context.Context, code string) bool {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.open = true
	s.series = domain.AnalyticsSeries{Code: code, Status: domain.SeriesLoading}
	s.mu.Unlock()

	points, err := s.api.Analytics(ctx, code)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open || seq != s.seq {
		return false
	}

	switch {
	case err != nil:
		log.Printf("analytics %s: %v", code, err)
		s.series = domain.AnalyticsSeries{Code: code, Status: domain.SeriesFailed, Err: err}
	case len(points) == 0:
		s.series = domain.AnalyticsSeries{Code: code, Points: []domain.Point{domain.NowPoint}, Status: domain.SeriesReady}
	default:
		s.series = domain.AnalyticsSeries{Code: code, Points: points, Status: domain.SeriesReady}
	}
	return true
}

// Close hides the panel and discards the series. In-flight responses are
// dropped when they land.
func (s *AnalyticsService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.open = false
	s.series = domain.AnalyticsSeries{}
}

func (s *AnalyticsService) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open
}

// Series returns a snapshot of the displayed series
func (s *AnalyticsService) Series() domain.AnalyticsSeries {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.series
	out.Points = append([]domain.Point(nil), s.series.Points...)
	return out
}
