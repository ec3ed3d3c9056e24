package domain

import "time"

// Company is a recruiting target. The record pre-exists in the backing store;
// the pipeline only rewrites Jobs (as one blob) and JobsUpdated.
type Company struct {
	RecordID string `json:"-"` // backing-store record id, never exposed

	Name    string `json:"name"`
	Slug    string `json:"slug"`
	Website string `json:"website,omitempty"`
	LogoURL string `json:"logo,omitempty"`

	// Pass-through metadata, pipeline inputs at most.
	Priority    string   `json:"priority,omitempty"`
	Status      string   `json:"status,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	URL         string   `json:"url,omitempty"`
	JobListings []string `json:"jobListings,omitempty"` // URLs to crawl

	Jobs        []Job      `json:"jobs"`
	JobsUpdated *time.Time `json:"jobsUpdated"`
}
