// Package store defines the backing-store boundary for company records. The
// unit of consistency is a company's whole job collection: adapters swap the
// serialized job-list blob and the last-updated timestamp, nothing finer.
package store

import (
	"context"
	"errors"
	"time"

	"jobboard-engine/internal/domain"
)

// ErrNotFound covers a missing company, including a slug that matches more
// than one record: slug uniqueness is assumed, not enforced.
var ErrNotFound = errors.New("company not found")

type CompanyStore interface {
	// ListCompanies returns all companies with their decoded job lists.
	ListCompanies(ctx context.Context) ([]domain.Company, error)

	// GetCompanyBySlug looks a company up by exact slug match.
	GetCompanyBySlug(ctx context.Context, slug string) (domain.Company, error)

	// SaveJobs overwrites the company's job-list blob and sets JobsUpdated.
	// No version check; the later of two concurrent writes wins.
	SaveJobs(ctx context.Context, recordID string, jobs []domain.Job, updated time.Time) error
}
