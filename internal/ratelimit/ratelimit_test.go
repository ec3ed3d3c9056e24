package ratelimit

import (
	"testing"
	"time"
)

func TestCapBoundary(t *testing.T) {
	cl := NewCallerLimiter(20)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 20; i++ {
		if !cl.AllowAt(now, "10.0.0.1") {
			t.Fatalf("request %d within cap was rejected", i+1)
		}
	}
	if cl.AllowAt(now, "10.0.0.1") {
		t.Fatalf("21st request within the window was allowed")
	}

	// After the window elapses the caller can go again.
	if !cl.AllowAt(now.Add(time.Minute), "10.0.0.1") {
		t.Fatalf("request after window elapsed was rejected")
	}
}

func TestCallersAreIndependent(t *testing.T) {
	cl := NewCallerLimiter(2)
	now := time.Now()

	cl.AllowAt(now, "a")
	cl.AllowAt(now, "a")
	if cl.AllowAt(now, "a") {
		t.Fatalf("caller a over cap was allowed")
	}
	if !cl.AllowAt(now, "b") {
		t.Fatalf("caller b blocked by caller a's usage")
	}
}

func TestPruneDropsIdleCallers(t *testing.T) {
	cl := NewCallerLimiter(5)
	now := time.Now()

	cl.AllowAt(now, "old")
	cl.AllowAt(now.Add(10*time.Minute), "fresh")

	cl.mu.Lock()
	_, ok := cl.m["old"]
	cl.mu.Unlock()
	if ok {
		t.Fatalf("idle caller was not pruned")
	}
}
