package httpapi

import (
	"context"
	"sync/atomic"

	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/events"
	"jobboard-engine/internal/extract"
	"jobboard-engine/internal/fetch"
	"jobboard-engine/internal/pipeline"
	"jobboard-engine/internal/ratelimit"
	"jobboard-engine/internal/store"
)

// BatchExtractor is the caller-facing batch entry point of the Job Extractor.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, sources []extract.Source) []extract.SourceResult
}

// LinkedInSearcher is the platform-specific bypass path.
type LinkedInSearcher interface {
	SearchCompany(ctx context.Context, companyID string) ([]domain.Job, error)
}

type Deps struct {
	Store    store.CompanyStore
	Pipeline *pipeline.Pipeline

	Extractor BatchExtractor
	Limiter   *ratelimit.CallerLimiter

	// Fetch proxies exposed to the dashboard.
	Jina     fetch.Provider
	Scraper  fetch.Provider
	Ant      fetch.Provider
	LinkedIn LinkedInSearcher

	Hub *events.Hub

	// Atomic store of config.Config, reloadable at runtime.
	CfgVal      *atomic.Value
	UserCfgPath string

	// Batch size cap for the extraction endpoint.
	MaxSources int
}
