package service

import (
	"context"
	"sync"
	"time"

	"sales-observer/src/analysis"
	"sales-observer/src/cache"
	"sales-observer/src/helpers"
	"sales-observer/src/interfaces"
	"sales-observer/src/logger"
	"sales-observer/src/metrics"
	"sales-observer/src/models"
)

// AnalyticsService owns one analysis session: it loads the configured source
// through the session cache, runs the pipeline and keeps the latest report.
type AnalyticsService struct {
	Config   *models.MConfig
	Resolver interfaces.ISourceResolver
	Cache    *cache.LoaderCache
	Pipeline *analysis.Pipeline
	Metrics  *metrics.Metrics
	Logger   *logger.Logger
	Errors   *helpers.ErrorHandler

	refreshMu  sync.Mutex // one refresh at a time
	mu         sync.RWMutex
	latest     *models.MReport
	lastErr    error
	runs       int64
	failures   int64
	publishers []interfaces.IReportPublisher
}

// -----------------------------------------------------------------------------

func NewAnalyticsService(
	cfg *models.MConfig,
	resolver interfaces.ISourceResolver,
	loaderCache *cache.LoaderCache,
	pipeline *analysis.Pipeline,
	m *metrics.Metrics,
	log *logger.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		Config:   cfg,
		Resolver: resolver,
		Cache:    loaderCache,
		Pipeline: pipeline,
		Metrics:  m,
		Logger:   log,
		Errors:   helpers.NewErrorHandler(log),
	}
}

// -----------------------------------------------------------------------------

// Subscribe registers a publisher notified after every successful refresh.
func (s *AnalyticsService) Subscribe(p interfaces.IReportPublisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishers = append(s.publishers, p)
}

// -----------------------------------------------------------------------------

// Refresh loads the source (from cache when unchanged), runs the pipeline,
// stores the report and notifies subscribers. On failure the previous report
// stays available.
func (s *AnalyticsService) Refresh(ctx context.Context) (*models.MReport, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	start := time.Now()
	report, err := s.run(ctx)
	elapsed := time.Since(start).Seconds()

	s.mu.Lock()
	s.runs++
	if err != nil {
		s.failures++
		s.lastErr = err
		s.mu.Unlock()

		s.Metrics.RecordRun("error", elapsed)
		s.Errors.Handle(err, "refresh")
		return nil, err
	}
	report.Metrics.DurationSeconds = elapsed
	s.latest = report
	s.lastErr = nil
	publishers := append([]interfaces.IReportPublisher(nil), s.publishers...)
	s.mu.Unlock()

	s.Metrics.RecordRun("success", elapsed)
	s.Metrics.RecordRows(report.Metrics.InputRows, report.Metrics.DroppedRows)

	for _, p := range publishers {
		p.Publish(report)
	}
	return report, nil
}

// -----------------------------------------------------------------------------

func (s *AnalyticsService) run(ctx context.Context) (*models.MReport, error) {
	// 1. Resolve
	src, err := s.Resolver.Resolve(s.Config.Source.Location)
	if err != nil {
		return nil, err
	}

	// 2. Load (memoized per identity)
	raw, hit, err := s.Cache.Load(ctx, src)
	if err != nil {
		return nil, err
	}

	// 3. Analyse
	report, err := s.Pipeline.Run(ctx, raw)
	if err != nil {
		return nil, err
	}
	report.Source = src.Name()
	report.Metrics.CacheHit = hit
	return report, nil
}

// -----------------------------------------------------------------------------

// Latest returns the most recent report or helpers.ErrNoReport.
func (s *AnalyticsService) Latest() (*models.MReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		if s.lastErr != nil {
			return nil, helpers.NewDataSourceError(helpers.ErrNoReport, "last refresh failed: %v", s.lastErr)
		}
		return nil, helpers.ErrNoReport
	}
	return s.latest, nil
}

// -----------------------------------------------------------------------------

// Status summarises the session.
func (s *AnalyticsService) Status() models.MServiceStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := models.MServiceStatus{
		Name:        s.Config.Name,
		Source:      s.Config.Source.Location,
		HasReport:   s.latest != nil,
		Runs:        s.runs,
		Failures:    s.failures,
		CachedLoads: s.Cache.Len(),
	}
	if s.latest != nil {
		st.LastRunID = s.latest.RunID
		st.LastRunAt = s.latest.GeneratedAt
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

// -----------------------------------------------------------------------------

// Invalidate empties the loader cache so the next refresh rereads the source.
func (s *AnalyticsService) Invalidate() {
	s.Cache.Purge()
	s.Logger.Info("Loader cache purged")
}
