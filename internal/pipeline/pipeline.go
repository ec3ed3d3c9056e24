// Package pipeline runs the crawl → extract → merge → persist sequence that
// turns a job-listing page into normalized records on a company's store
// record. Each invocation runs to completion or failure within one request
// lifetime; there is no background scheduler or queue.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/events"
	"jobboard-engine/internal/fetch"
	"jobboard-engine/internal/merge"
	"jobboard-engine/internal/store"
)

// Fetcher retrieves renderable text for a listing URL.
type Fetcher interface {
	Source(ctx context.Context, url string) (*fetch.Result, error)
}

// Extractor turns source text into job records.
type Extractor interface {
	Extract(ctx context.Context, sourceText, sourceURL, company string) ([]domain.Job, error)
}

type Pipeline struct {
	Store     store.CompanyStore
	Locks     *store.CompanyLocks
	Fetcher   Fetcher
	Extractor Extractor
	Hub       *events.Hub

	// Now is the merge clock; overridable in tests.
	Now func() time.Time
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now().UTC()
}

// CrawlResult is what the operator sees per listing.
type CrawlResult struct {
	CompanySlug string       `json:"companySlug"`
	URL         string       `json:"url"`
	Provider    string       `json:"provider"`
	Jobs        []domain.Job `json:"jobs"`
	JobsCount   int          `json:"jobsCount"`
	JobsAdded   bool         `json:"jobsAdded"`
}

// Crawl runs the full sequence for one company listing URL. The merged list
// is written back as one blob; if the write fails, this attempt's merges are
// lost.
func (p *Pipeline) Crawl(ctx context.Context, companySlug, url string) (CrawlResult, error) {
	unlock := p.Locks.Lock(companySlug)
	defer unlock()

	co, err := p.Store.GetCompanyBySlug(ctx, companySlug)
	if err != nil {
		return CrawlResult{}, err
	}

	src, err := p.Fetcher.Source(ctx, url)
	if err != nil {
		return CrawlResult{}, err
	}
	log.Printf("[crawl] company=%q url=%q provider=%s bytes=%d", companySlug, url, src.Provider, len(src.Content))

	jobs, err := p.Extractor.Extract(ctx, src.Content, url, co.Name)
	if err != nil {
		return CrawlResult{}, fmt.Errorf("extract %s: %w", url, err)
	}

	at := p.now()
	res := merge.Batch(co.Jobs, jobs, at)
	if err := p.Store.SaveJobs(ctx, co.RecordID, res.Jobs, at); err != nil {
		return CrawlResult{}, fmt.Errorf("save %s: %w", companySlug, err)
	}

	p.publish("", events.TypeCrawlFinished, map[string]any{
		"company": companySlug, "url": url, "jobsCount": res.Total, "jobsAdded": res.Added,
	})

	return CrawlResult{
		CompanySlug: companySlug,
		URL:         url,
		Provider:    src.Provider,
		Jobs:        res.Jobs,
		JobsCount:   res.Total,
		JobsAdded:   res.Added,
	}, nil
}

// AddResult is the signal surfaced to the operator: "Job added" vs "Job
// already exists".
type AddResult struct {
	JobsCount int  `json:"jobsCount"`
	JobAdded  bool `json:"jobAdded"`
}

// AddJob merges one job into a company's list and persists the whole blob.
func (p *Pipeline) AddJob(ctx context.Context, reqID, companySlug string, job domain.Job, at time.Time) (AddResult, error) {
	unlock := p.Locks.Lock(companySlug)
	defer unlock()

	co, err := p.Store.GetCompanyBySlug(ctx, companySlug)
	if err != nil {
		return AddResult{}, err
	}

	if at.IsZero() {
		at = p.now()
	}
	jobs, added, _ := merge.One(co.Jobs, job, at)
	if err := p.Store.SaveJobs(ctx, co.RecordID, jobs, at); err != nil {
		return AddResult{}, fmt.Errorf("save %s: %w", companySlug, err)
	}

	if added {
		p.publish(reqID, events.TypeJobAdded, map[string]any{
			"company": companySlug, "title": job.Title,
		})
	}
	return AddResult{JobsCount: len(jobs), JobAdded: added}, nil
}

// DeleteJob removes every job matching the title exactly and persists.
func (p *Pipeline) DeleteJob(ctx context.Context, reqID, companySlug, title string) (int, bool, error) {
	unlock := p.Locks.Lock(companySlug)
	defer unlock()

	co, err := p.Store.GetCompanyBySlug(ctx, companySlug)
	if err != nil {
		return 0, false, err
	}

	jobs, removed := merge.Remove(co.Jobs, title)
	if !removed {
		return len(co.Jobs), false, nil
	}
	if err := p.Store.SaveJobs(ctx, co.RecordID, jobs, p.now()); err != nil {
		return 0, false, fmt.Errorf("save %s: %w", companySlug, err)
	}

	p.publish(reqID, events.TypeJobDeleted, map[string]any{
		"company": companySlug, "title": title,
	})
	return len(jobs), true, nil
}

func (p *Pipeline) publish(reqID, typ string, data map[string]any) {
	if p.Hub == nil {
		return
	}
	p.Hub.Publish(events.Make(reqID, typ, data))
}
