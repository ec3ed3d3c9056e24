package domain

import (
	"encoding/json"
	"time"
)

// Job is one posting found for one company. Within a company's job list the
// title is the natural merge key; the slug is derived from (title, company)
// and stays stable once published.
//
// Nullable fields are pointers (or nil slices) so a field missing from the
// source round-trips as JSON null rather than disappearing.
type Job struct {
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    *string    `json:"location"`
	Experience  *string    `json:"experience"`
	Skills      []string   `json:"skills"`
	Salary      *string    `json:"salary"`
	Type        *string    `json:"type"`
	Description *string    `json:"description"`
	URL         *string    `json:"url"`
	Tags        []string   `json:"tags"`
	Slug        string     `json:"slug,omitempty"`
	DateUpdated *time.Time `json:"dateUpdated,omitempty"`
}

// EncodeJobs serializes a company's whole job list into the blob attribute
// stored on the company record. The list is the unit of persistence.
func EncodeJobs(jobs []Job) (string, error) {
	if jobs == nil {
		jobs = []Job{}
	}
	b, err := json.Marshal(jobs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeJobs parses the stored blob. An empty blob means an empty list.
func DecodeJobs(blob string) ([]Job, error) {
	if blob == "" {
		return []Job{}, nil
	}
	var jobs []Job
	if err := json.Unmarshal([]byte(blob), &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// FindBySlug returns the job with the given slug. Slugs are not deduplicated
// at generation time, so on collision the last stored match wins.
func FindBySlug(jobs []Job, slug string) (Job, bool) {
	var (
		found Job
		ok    bool
	)
	for _, j := range jobs {
		if j.Slug == slug {
			found = j
			ok = true
		}
	}
	return found, ok
}
