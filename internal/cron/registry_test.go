package cron

import (
	"context"
	"testing"
	"time"
)

type stubJob struct {
	name  string
	every time.Duration
}

func (s *stubJob) Name() string              { return s.name }
func (s *stubJob) Run(context.Context) error { return nil }

type periodicStubJob struct{ stubJob }

func (p *periodicStubJob) Every() time.Duration { return p.every }

func TestRegistryStoresJobsInOrder(t *testing.T) {
	registry := NewRegistry()
	expiry := &stubJob{name: "checkout-expiry"}
	retention := &stubJob{name: "outbox-retention"}
	registry.Register(expiry)
	registry.Register(retention)
	registry.Register(&stubJob{name: "checkout-expiry"})

	jobs := registry.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0] != expiry || jobs[1] != retention {
		t.Fatalf("jobs returned out of order")
	}
	jobs[0] = nil
	if registry.Jobs()[0] == nil {
		t.Fatalf("internal slice leaked")
	}
}

func TestRegistryIgnoresNilJobs(t *testing.T) {
	registry := NewRegistry(nil, &stubJob{name: "a"})
	if got := len(registry.Jobs()); got != 1 {
		t.Fatalf("expected 1 job, got %d", got)
	}
}

func TestRegistryDueHonoursCadence(t *testing.T) {
	everyCycle := &stubJob{name: "checkout-expiry"}
	sixHourly := &periodicStubJob{stubJob{name: "outbox-retention", every: 6 * time.Hour}}
	registry := NewRegistry(everyCycle, sixHourly)
	start := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	if got := len(registry.Due(start)); got != 2 {
		t.Fatalf("expected both jobs due on first cycle, got %d", got)
	}
	registry.MarkRun("checkout-expiry", start)
	registry.MarkRun("outbox-retention", start)

	due := registry.Due(start.Add(time.Minute))
	if len(due) != 1 || due[0] != everyCycle {
		t.Fatalf("expected only checkout-expiry due, got %v", due)
	}
	if got := len(registry.Due(start.Add(6 * time.Hour))); got != 2 {
		t.Fatalf("expected retention due again after 6h, got %d jobs", got)
	}
}
