// Package merge reconciles freshly extracted jobs against a company's stored
// job list: update-in-place on a title match, append otherwise.
package merge

import (
	"strings"
	"time"

	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/slug"
)

// Result reports the outcome of a batch merge.
type Result struct {
	Jobs  []domain.Job
	Added bool // at least one job was newly appended (not just updated)
	Total int
}

// One merges a single incoming job. Returns the merged list, whether the job
// was appended, and the index it matched (-1 when appended).
//
// Titles match exactly after whitespace trimming, case-sensitive. On a match
// the existing entry is replaced field-for-field, except that an existing
// slug is preserved when the incoming job has none; regenerating it would
// break published URLs.
func One(existing []domain.Job, incoming domain.Job, at time.Time) ([]domain.Job, bool, int) {
	incoming.Title = strings.TrimSpace(incoming.Title)
	stamped := at
	incoming.DateUpdated = &stamped

	for i := range existing {
		if strings.TrimSpace(existing[i].Title) != incoming.Title {
			continue
		}
		if incoming.Slug == "" {
			incoming.Slug = existing[i].Slug
		}
		existing[i] = incoming
		return existing, false, i
	}

	if incoming.Slug == "" {
		incoming.Slug = slug.ForJob(incoming.Title, incoming.Company)
	}
	return append(existing, incoming), true, -1
}

// Batch reduces the incoming jobs over the existing list in caller order.
// Two incoming jobs with the same title collapse; the later one wins.
// Not atomic across jobs: the caller persists the whole merged list once.
func Batch(existing []domain.Job, incoming []domain.Job, at time.Time) Result {
	merged := existing
	added := false
	for _, in := range incoming {
		var appended bool
		merged, appended, _ = One(merged, in, at)
		added = added || appended
	}
	return Result{Jobs: merged, Added: added, Total: len(merged)}
}

// Remove drops every job whose trimmed title matches exactly.
func Remove(jobs []domain.Job, title string) ([]domain.Job, bool) {
	title = strings.TrimSpace(title)
	out := jobs[:0]
	removed := false
	for _, j := range jobs {
		if strings.TrimSpace(j.Title) == title {
			removed = true
			continue
		}
		out = append(out, j)
	}
	return out, removed
}
