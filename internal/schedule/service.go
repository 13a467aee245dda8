package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/pfrederiksen/cricket-schedules/internal/cache"
	"github.com/pfrederiksen/cricket-schedules/internal/logger"
	"github.com/pfrederiksen/cricket-schedules/internal/match"
	"github.com/pfrederiksen/cricket-schedules/internal/scraper"
)

// Fetcher returns the schedules page HTML
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// ExtractFunc turns schedules HTML into match records
type ExtractFunc func(html string) []*match.Record

// Options configures a Service
type Options struct {
	RawTTL    time.Duration
	ParsedTTL time.Duration
	// Clock defaults to time.Now
	Clock cache.Clock
	// Extract defaults to scraper.Extract
	Extract ExtractFunc
	// Metrics defaults to a fresh tracker
	Metrics *logger.Metrics
	// Logger defaults to logger.Default()
	Logger *logger.Logger
}

// Service serves cached schedules data
type Service struct {
	fetcher Fetcher
	extract ExtractFunc
	raw     *cache.Slot[string]
	parsed  *cache.Slot[[]*match.Record]
	metrics *logger.Metrics
	log     *logger.Logger
}

// NewService creates a Service with empty cache slots
func NewService(fetcher Fetcher, opts Options) *Service {
	if opts.Extract == nil {
		opts.Extract = scraper.Extract
	}
	if opts.Metrics == nil {
		opts.Metrics = logger.NewMetrics()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}

	return &Service{
		fetcher: fetcher,
		extract: opts.Extract,
		raw:     cache.NewSlot[string](opts.RawTTL, opts.Clock),
		parsed:  cache.NewSlot[[]*match.Record](opts.ParsedTTL, opts.Clock),
		metrics: opts.Metrics,
		log:     opts.Logger,
	}
}

// Metrics returns the tracker the service records into
func (s *Service) Metrics() *logger.Metrics {
	return s.metrics
}

// Raw returns the schedules page HTML, fetching it when the raw slot is empty or stale
func (s *Service) Raw(ctx context.Context) (string, error) {
	html, hit, err := s.raw.Get(ctx, s.fetch)
	if err != nil {
		return "", err
	}

	s.recordHit(hit, logger.MetricCacheHitRaw, logger.MetricCacheMissRaw)
	return html, nil
}

// Matches returns the extracted match records. On a miss it extracts from a fresh raw
// entry when available and fetches otherwise.
func (s *Service) Matches(ctx context.Context) ([]*match.Record, error) {
	records, hit, err := s.parsed.GetEntry(ctx, s.loadMatches)
	if err != nil {
		return nil, err
	}

	s.recordHit(hit, logger.MetricCacheHitParsed, logger.MetricCacheMissParsed)
	return records, nil
}

// loadMatches extracts records from a fresh raw entry or a new fetch. Records built from
// a cached page carry that page's fetch time, so they are never older than ParsedTTL.
func (s *Service) loadMatches(ctx context.Context) (cache.Entry[[]*match.Record], error) {
	page, ok := s.raw.PeekEntry()
	if ok {
		s.log.Debug("Extracting from cached page", logger.Fields{
			"fetched_at": page.FetchedAt.UTC().Format(time.RFC3339),
		})
	} else {
		html, err := s.fetch(ctx)
		if err != nil {
			return cache.Entry[[]*match.Record]{}, err
		}
		// Seed the raw slot so a following raw request is served from cache
		s.raw.Set(html)
		page = cache.Entry[string]{Value: html}
	}

	html := page.Value
	records := s.extract(html)
	s.metrics.SetGauge(logger.MetricMatchesParsed, float64(len(records)))
	if len(records) == 0 {
		s.log.Warn("No match blocks found on schedules page", logger.Fields{
			"bytes": len(html),
		})
	}

	return cache.Entry[[]*match.Record]{Value: records, FetchedAt: page.FetchedAt}, nil
}

// fetch performs one upstream request, recording its outcome
func (s *Service) fetch(ctx context.Context) (string, error) {
	start := time.Now()
	html, err := s.fetcher.Fetch(ctx)
	elapsed := time.Since(start)

	s.metrics.IncrCounter(logger.MetricUpstreamFetch)
	s.metrics.RecordTiming(logger.MetricUpstreamFetch, elapsed)

	if err != nil {
		s.metrics.IncrCounter(logger.MetricUpstreamError)
		s.log.Error("Upstream fetch failed", logger.Fields{
			"duration_ms": elapsed.Milliseconds(),
		}, err)
		return "", fmt.Errorf("fetching schedules: %w", err)
	}

	s.log.Info("Fetched schedules page", logger.Fields{
		"bytes":       len(html),
		"duration_ms": elapsed.Milliseconds(),
	})
	return html, nil
}

func (s *Service) recordHit(hit bool, hitMetric, missMetric string) {
	if hit {
		s.metrics.IncrCounter(hitMetric)
		return
	}
	s.metrics.IncrCounter(missMetric)
}
