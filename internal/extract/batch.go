package extract

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"jobboard-engine/internal/domain"
)

// Source is one (url, source text, company) tuple to extract from.
type Source struct {
	URL        string `json:"url"`
	SourceCode string `json:"sourceCode"`
	Company    string `json:"company"`
}

// SourceResult carries one source's outcome. Failures stay inside the result
// so one bad source never aborts the batch.
type SourceResult struct {
	SourceURL string       `json:"sourceUrl"`
	Company   string       `json:"company"`
	Jobs      []domain.Job `json:"jobs"`
	Success   bool         `json:"success"`
	Error     string       `json:"error,omitempty"`
}

// ExtractBatch processes the sources concurrently and returns one result per
// source, in input order. Results are tagged with their source URL, not by
// completion time.
func (c *Client) ExtractBatch(ctx context.Context, sources []Source) []SourceResult {
	results := make([]SourceResult, len(sources))

	var g errgroup.Group
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			jobs, err := c.Extract(ctx, src.SourceCode, src.URL, src.Company)
			if err != nil {
				log.Printf("[extract] url=%q company=%q err=%v", src.URL, src.Company, err)
				results[i] = SourceResult{
					SourceURL: src.URL,
					Company:   src.Company,
					Jobs:      []domain.Job{},
					Error:     err.Error(),
				}
				return nil
			}
			results[i] = SourceResult{
				SourceURL: src.URL,
				Company:   src.Company,
				Jobs:      jobs,
				Success:   true,
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
