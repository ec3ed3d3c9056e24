// Package airtable adapts the Airtable REST API to the CompanyStore
// interface. Companies live in one table; the job list is a single long-text
// attribute holding the serialized blob.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/store"
)

const (
	fieldCompany     = "Company"
	fieldSlug        = "Slug"
	fieldJobsBlob    = "JobsFoundJSON"
	fieldJobsUpdated = "JobsUpdated"
)

type Client struct {
	baseURL string
	apiKey  string
	baseID  string
	table   string
	hc      *http.Client
}

func New(baseURL, apiKey, baseID, table string, timeout time.Duration) *Client {
	if table == "" {
		table = "Companies"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		baseID:  baseID,
		table:   table,
		hc:      &http.Client{Timeout: timeout},
	}
}

type attachment struct {
	URL string `json:"url"`
}

type recordFields struct {
	Company            string       `json:"Company,omitempty"`
	Slug               string       `json:"Slug,omitempty"`
	Website            string       `json:"Website,omitempty"`
	Priority           string       `json:"Priority,omitempty"`
	Status             string       `json:"Status,omitempty"`
	Notes              string       `json:"Notes,omitempty"`
	URL                string       `json:"URL,omitempty"`
	JobListing1        string       `json:"JobListing1,omitempty"`
	JobListing2        string       `json:"JobListing2,omitempty"`
	JobListingLinkedIn string       `json:"JobListingLinkedIn,omitempty"`
	JobsFoundJSON      string       `json:"JobsFoundJSON,omitempty"`
	JobsUpdated        string       `json:"JobsUpdated,omitempty"`
	Logo               []attachment `json:"Logo,omitempty"`
}

type record struct {
	ID     string       `json:"id"`
	Fields recordFields `json:"fields"`
}

type recordsPage struct {
	Records []record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

func (c *Client) tableURL() string {
	return fmt.Sprintf("%s/v0/%s/%s", c.baseURL, c.baseID, url.PathEscape(c.table))
}

func (c *Client) get(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("airtable build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("airtable get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return fmt.Errorf("airtable status %d", res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("airtable decode: %w", err)
	}
	return nil
}

// GetCompanyBySlug selects with an exact-match formula filter on the Slug
// field. Zero or more than one match is NotFound.
func (c *Client) GetCompanyBySlug(ctx context.Context, slug string) (domain.Company, error) {
	q := url.Values{}
	q.Set("filterByFormula", fmt.Sprintf("{%s} = '%s'", fieldSlug, escapeFormula(slug)))
	q.Set("maxRecords", "2")

	var page recordsPage
	if err := c.get(ctx, c.tableURL()+"?"+q.Encode(), &page); err != nil {
		return domain.Company{}, err
	}
	if len(page.Records) != 1 {
		return domain.Company{}, store.ErrNotFound
	}
	return companyFromRecord(page.Records[0])
}

// ListCompanies pages through the whole table.
func (c *Client) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	var out []domain.Company
	offset := ""
	for {
		q := url.Values{}
		q.Set("pageSize", "100")
		if offset != "" {
			q.Set("offset", offset)
		}

		var page recordsPage
		if err := c.get(ctx, c.tableURL()+"?"+q.Encode(), &page); err != nil {
			return nil, err
		}
		for _, rec := range page.Records {
			co, err := companyFromRecord(rec)
			if err != nil {
				return nil, err
			}
			out = append(out, co)
		}
		if page.Offset == "" {
			return out, nil
		}
		offset = page.Offset
	}
}

// SaveJobs overwrites the record's blob attribute and timestamp in one PATCH.
func (c *Client) SaveJobs(ctx context.Context, recordID string, jobs []domain.Job, updated time.Time) error {
	blob, err := domain.EncodeJobs(jobs)
	if err != nil {
		return fmt.Errorf("airtable encode jobs: %w", err)
	}

	body := map[string]any{
		"records": []map[string]any{
			{
				"id": recordID,
				"fields": map[string]any{
					fieldJobsBlob:    blob,
					fieldJobsUpdated: updated.UTC().Format(time.RFC3339),
				},
			},
		},
	}
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("airtable encode update: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.tableURL(), bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("airtable build update: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("airtable update: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return fmt.Errorf("airtable update status %d", res.StatusCode)
	}
	return nil
}

func companyFromRecord(rec record) (domain.Company, error) {
	jobs, err := domain.DecodeJobs(rec.Fields.JobsFoundJSON)
	if err != nil {
		return domain.Company{}, fmt.Errorf("airtable jobs blob for %q: %w", rec.Fields.Slug, err)
	}

	co := domain.Company{
		RecordID: rec.ID,
		Name:     rec.Fields.Company,
		Slug:     rec.Fields.Slug,
		Website:  rec.Fields.Website,
		Priority: rec.Fields.Priority,
		Status:   rec.Fields.Status,
		Notes:    rec.Fields.Notes,
		URL:      rec.Fields.URL,
		Jobs:     jobs,
	}
	if len(rec.Fields.Logo) > 0 {
		co.LogoURL = rec.Fields.Logo[0].URL
	}
	for _, listing := range []string{rec.Fields.JobListing1, rec.Fields.JobListing2, rec.Fields.JobListingLinkedIn} {
		if strings.TrimSpace(listing) != "" {
			co.JobListings = append(co.JobListings, listing)
		}
	}
	if rec.Fields.JobsUpdated != "" {
		if t, err := time.Parse(time.RFC3339, rec.Fields.JobsUpdated); err == nil {
			co.JobsUpdated = &t
		}
	}
	return co, nil
}

func escapeFormula(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}
