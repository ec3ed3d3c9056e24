package localdb

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/store"
)

const companyCols = `id, name, slug, website, logo_url, priority, status, notes, url, job_listings, jobs_json, jobs_updated`

// CreateCompany inserts a recruiting target. Airtable records are created out
// of band; locally this is the equivalent seeding step.
func (d *DB) CreateCompany(ctx context.Context, co domain.Company) (string, error) {
	listings, err := json.Marshal(co.JobListings)
	if err != nil {
		return "", fmt.Errorf("localdb encode listings: %w", err)
	}
	blob, err := domain.EncodeJobs(co.Jobs)
	if err != nil {
		return "", fmt.Errorf("localdb encode jobs: %w", err)
	}

	updated := ""
	if co.JobsUpdated != nil {
		updated = co.JobsUpdated.UTC().Format(time.RFC3339)
	}

	res, err := d.pool.ExecContext(ctx, `
INSERT INTO companies (name, slug, website, logo_url, priority, status, notes, url, job_listings, jobs_json, jobs_updated)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		co.Name, co.Slug, co.Website, co.LogoURL, co.Priority, co.Status, co.Notes, co.URL,
		string(listings), blob, updated,
	)
	if err != nil {
		return "", fmt.Errorf("localdb insert company: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("localdb insert id: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

func (d *DB) GetCompanyBySlug(ctx context.Context, slug string) (domain.Company, error) {
	rows, err := d.pool.QueryContext(ctx,
		`SELECT `+companyCols+` FROM companies WHERE slug = ? LIMIT 2;`, slug)
	if err != nil {
		return domain.Company{}, fmt.Errorf("localdb select: %w", err)
	}
	defer rows.Close()

	var matches []domain.Company
	for rows.Next() {
		co, err := scanCompany(rows)
		if err != nil {
			return domain.Company{}, err
		}
		matches = append(matches, co)
	}
	if err := rows.Err(); err != nil {
		return domain.Company{}, err
	}
	if len(matches) != 1 {
		return domain.Company{}, store.ErrNotFound
	}
	return matches[0], nil
}

func (d *DB) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	rows, err := d.pool.QueryContext(ctx,
		`SELECT `+companyCols+` FROM companies ORDER BY jobs_updated DESC, name ASC;`)
	if err != nil {
		return nil, fmt.Errorf("localdb list: %w", err)
	}
	defer rows.Close()

	var out []domain.Company
	for rows.Next() {
		co, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, co)
	}
	return out, rows.Err()
}

func (d *DB) SaveJobs(ctx context.Context, recordID string, jobs []domain.Job, updated time.Time) error {
	id, err := strconv.ParseInt(recordID, 10, 64)
	if err != nil {
		return fmt.Errorf("localdb bad record id %q: %w", recordID, err)
	}
	blob, err := domain.EncodeJobs(jobs)
	if err != nil {
		return fmt.Errorf("localdb encode jobs: %w", err)
	}

	res, err := d.pool.ExecContext(ctx,
		`UPDATE companies SET jobs_json = ?, jobs_updated = ? WHERE id = ?;`,
		blob, updated.UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("localdb save jobs: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (domain.Company, error) {
	var (
		id                 int64
		co                 domain.Company
		listings, jobsJSON string
		updated            string
	)
	if err := row.Scan(&id, &co.Name, &co.Slug, &co.Website, &co.LogoURL,
		&co.Priority, &co.Status, &co.Notes, &co.URL,
		&listings, &jobsJSON, &updated); err != nil {
		return domain.Company{}, fmt.Errorf("localdb scan: %w", err)
	}

	co.RecordID = strconv.FormatInt(id, 10)
	if err := json.Unmarshal([]byte(listings), &co.JobListings); err != nil {
		return domain.Company{}, fmt.Errorf("localdb listings for %q: %w", co.Slug, err)
	}
	jobs, err := domain.DecodeJobs(jobsJSON)
	if err != nil {
		return domain.Company{}, fmt.Errorf("localdb jobs blob for %q: %w", co.Slug, err)
	}
	co.Jobs = jobs
	if updated != "" {
		if t, err := time.Parse(time.RFC3339, updated); err == nil {
			co.JobsUpdated = &t
		}
	}
	return co, nil
}
