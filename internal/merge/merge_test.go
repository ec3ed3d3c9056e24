package merge

import (
	"testing"
	"time"

	"jobboard-engine/internal/domain"
)

func str(s string) *string { return &s }

func TestOneAppendsThenUpdates(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	in := domain.Job{Title: "Senior Engineer", Company: "Acme", Location: str("Remote")}

	jobs, added, idx := One(nil, in, now)
	if !added || idx != -1 {
		t.Fatalf("first merge: added=%v idx=%d, want true/-1", added, idx)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	if jobs[0].Slug != "senior-engineer-acme" {
		t.Fatalf("unexpected slug: %q", jobs[0].Slug)
	}
	if jobs[0].DateUpdated == nil || !jobs[0].DateUpdated.Equal(now) {
		t.Fatalf("dateUpdated not stamped: %v", jobs[0].DateUpdated)
	}

	// Same title again: update, not duplicate.
	later := now.Add(time.Hour)
	in2 := domain.Job{Title: "Senior Engineer", Company: "Acme", Location: str("Berlin")}
	jobs, added, idx = One(jobs, in2, later)
	if added || idx != 0 {
		t.Fatalf("second merge: added=%v idx=%d, want false/0", added, idx)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job after update, got %d", len(jobs))
	}
	if *jobs[0].Location != "Berlin" {
		t.Fatalf("fields not replaced: %q", *jobs[0].Location)
	}
}

func TestOnePreservesExistingSlug(t *testing.T) {
	existing := []domain.Job{{Title: "Engineer", Company: "Acme", Slug: "engineer-acme"}}
	in := domain.Job{Title: "Engineer", Company: "Acme Renamed GmbH"}

	jobs, added, _ := One(existing, in, time.Now())
	if added {
		t.Fatalf("expected update, got append")
	}
	if jobs[0].Slug != "engineer-acme" {
		t.Fatalf("existing slug regenerated: %q", jobs[0].Slug)
	}
}

func TestOneKeepsIncomingSlug(t *testing.T) {
	existing := []domain.Job{{Title: "Engineer", Slug: "engineer-acme"}}
	in := domain.Job{Title: "Engineer", Slug: "engineer-acme-v2"}

	jobs, _, _ := One(existing, in, time.Now())
	if jobs[0].Slug != "engineer-acme-v2" {
		t.Fatalf("incoming slug dropped: %q", jobs[0].Slug)
	}
}

func TestOneTrimsTitleWhitespace(t *testing.T) {
	existing := []domain.Job{{Title: "Engineer", Slug: "engineer-acme"}}
	in := domain.Job{Title: "  Engineer "}

	jobs, added, _ := One(existing, in, time.Now())
	if added || len(jobs) != 1 {
		t.Fatalf("whitespace drift created a duplicate: added=%v n=%d", added, len(jobs))
	}
}

func TestBatch(t *testing.T) {
	now := time.Now()
	existing := []domain.Job{{Title: "Old Role", Company: "Acme", Slug: "old-role-acme"}}

	res := Batch(existing, []domain.Job{
		{Title: "Old Role", Company: "Acme"},
		{Title: "New Role", Company: "Acme"},
		{Title: "New Role", Company: "Acme", Location: str("Remote")}, // duplicate in batch, last wins
	}, now)

	if !res.Added {
		t.Fatalf("expected Added=true")
	}
	if res.Total != 2 {
		t.Fatalf("expected 2 jobs, got %d", res.Total)
	}
	if res.Jobs[1].Location == nil || *res.Jobs[1].Location != "Remote" {
		t.Fatalf("last duplicate in batch should win")
	}

	// Re-running the same batch only updates.
	res2 := Batch(res.Jobs, []domain.Job{{Title: "New Role", Company: "Acme"}}, now)
	if res2.Added {
		t.Fatalf("re-merge reported Added=true")
	}
	if res2.Total != 2 {
		t.Fatalf("count changed on re-merge: %d", res2.Total)
	}
}

func TestRemove(t *testing.T) {
	jobs := []domain.Job{{Title: "A"}, {Title: "B"}, {Title: "A"}}

	out, removed := Remove(jobs, "A")
	if !removed || len(out) != 1 || out[0].Title != "B" {
		t.Fatalf("unexpected result: removed=%v jobs=%v", removed, out)
	}

	out, removed = Remove(out, "missing")
	if removed || len(out) != 1 {
		t.Fatalf("remove of missing title mutated the list")
	}
}
