package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/fetch"
	"jobboard-engine/internal/store"
)

type fakeStore struct {
	companies map[string]domain.Company // slug -> company
	saveErr   error
	saves     int
}

func newFakeStore(cos ...domain.Company) *fakeStore {
	fs := &fakeStore{companies: map[string]domain.Company{}}
	for _, co := range cos {
		fs.companies[co.Slug] = co
	}
	return fs
}

func (f *fakeStore) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	var out []domain.Company
	for _, co := range f.companies {
		out = append(out, co)
	}
	return out, nil
}

func (f *fakeStore) GetCompanyBySlug(ctx context.Context, slug string) (domain.Company, error) {
	co, ok := f.companies[slug]
	if !ok {
		return domain.Company{}, store.ErrNotFound
	}
	return co, nil
}

func (f *fakeStore) SaveJobs(ctx context.Context, recordID string, jobs []domain.Job, updated time.Time) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	for slug, co := range f.companies {
		if co.RecordID == recordID {
			co.Jobs = jobs
			u := updated
			co.JobsUpdated = &u
			f.companies[slug] = co
		}
	}
	return nil
}

type fakeFetcher struct {
	res *fetch.Result
	err error
}

func (f fakeFetcher) Source(ctx context.Context, url string) (*fetch.Result, error) {
	return f.res, f.err
}

type fakeExtractor struct {
	jobs []domain.Job
	err  error
}

func (f fakeExtractor) Extract(ctx context.Context, sourceText, sourceURL, company string) ([]domain.Job, error) {
	return f.jobs, f.err
}

func newPipeline(fs *fakeStore, ft Fetcher, ex Extractor) *Pipeline {
	return &Pipeline{
		Store:     fs,
		Locks:     store.NewCompanyLocks(),
		Fetcher:   ft,
		Extractor: ex,
		Now:       func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestCrawlMergesAndPersists(t *testing.T) {
	fs := newFakeStore(domain.Company{
		RecordID: "rec1", Name: "Acme", Slug: "acme",
		Jobs: []domain.Job{{Title: "Old Role", Company: "Acme", Slug: "old-role-acme"}},
	})
	p := newPipeline(fs,
		fakeFetcher{res: &fetch.Result{Content: "# Careers", Provider: "jina"}},
		fakeExtractor{jobs: []domain.Job{
			{Title: "Old Role", Company: "Acme"},
			{Title: "New Role", Company: "Acme"},
		}},
	)

	res, err := p.Crawl(context.Background(), "acme", "https://acme.example/careers")
	if err != nil {
		t.Fatalf("crawl: %v", err)
	}
	if !res.JobsAdded || res.JobsCount != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if fs.saves != 1 {
		t.Fatalf("expected one blob write, got %d", fs.saves)
	}
	if got := fs.companies["acme"].Jobs; len(got) != 2 || got[0].Slug != "old-role-acme" {
		t.Fatalf("merge did not preserve existing slug: %+v", got)
	}

	// Same crawl again: nothing newly added, count stable.
	res, err = p.Crawl(context.Background(), "acme", "https://acme.example/careers")
	if err != nil {
		t.Fatalf("crawl: %v", err)
	}
	if res.JobsAdded || res.JobsCount != 2 {
		t.Fatalf("re-crawl should only update: %+v", res)
	}
}

func TestCrawlUnknownCompany(t *testing.T) {
	p := newPipeline(newFakeStore(), fakeFetcher{}, fakeExtractor{})
	_, err := p.Crawl(context.Background(), "nope", "https://x.example")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCrawlFetchFailureSurfaces(t *testing.T) {
	fs := newFakeStore(domain.Company{RecordID: "rec1", Name: "Acme", Slug: "acme"})
	ferr := &fetch.Error{Kind: fetch.KindBotProtection, Provider: "jina", Msg: "challenge"}
	p := newPipeline(fs, fakeFetcher{err: ferr}, fakeExtractor{})

	_, err := p.Crawl(context.Background(), "acme", "https://x.example")
	if fetch.KindOf(err) != fetch.KindBotProtection {
		t.Fatalf("fetch kind lost: %v", err)
	}
	if fs.saves != 0 {
		t.Fatalf("failed crawl must not write")
	}
}

func TestAddJobTwice(t *testing.T) {
	fs := newFakeStore(domain.Company{RecordID: "rec1", Name: "Acme", Slug: "acme"})
	p := newPipeline(fs, fakeFetcher{}, fakeExtractor{})

	job := domain.Job{Title: "Senior Engineer", Company: "Acme"}

	res, err := p.AddJob(context.Background(), "", "acme", job, time.Time{})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !res.JobAdded || res.JobsCount != 1 {
		t.Fatalf("first add: %+v", res)
	}

	res, err = p.AddJob(context.Background(), "", "acme", job, time.Time{})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if res.JobAdded || res.JobsCount != 1 {
		t.Fatalf("second add should update, not append: %+v", res)
	}
}

func TestAddJobSaveFailureLosesNothingStored(t *testing.T) {
	fs := newFakeStore(domain.Company{RecordID: "rec1", Name: "Acme", Slug: "acme"})
	fs.saveErr = errors.New("airtable down")
	p := newPipeline(fs, fakeFetcher{}, fakeExtractor{})

	_, err := p.AddJob(context.Background(), "", "acme", domain.Job{Title: "X"}, time.Time{})
	if err == nil {
		t.Fatalf("expected save error")
	}
	if len(fs.companies["acme"].Jobs) != 0 {
		t.Fatalf("failed save mutated stored state")
	}
}

func TestDeleteJob(t *testing.T) {
	fs := newFakeStore(domain.Company{
		RecordID: "rec1", Name: "Acme", Slug: "acme",
		Jobs: []domain.Job{{Title: "A"}, {Title: "B"}},
	})
	p := newPipeline(fs, fakeFetcher{}, fakeExtractor{})

	n, removed, err := p.DeleteJob(context.Background(), "", "acme", "A")
	if err != nil || !removed || n != 1 {
		t.Fatalf("delete: n=%d removed=%v err=%v", n, removed, err)
	}

	n, removed, err = p.DeleteJob(context.Background(), "", "acme", "missing")
	if err != nil || removed || n != 1 {
		t.Fatalf("delete missing: n=%d removed=%v err=%v", n, removed, err)
	}
}
