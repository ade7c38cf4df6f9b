package cron

import (
	"context"
	"sync"
	"time"
)

// Job is one scheduled task run by the cron worker.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Periodic jobs run at most once per Every(); other jobs run every cycle.
type Periodic interface {
	Every() time.Duration
}

type registryEntry struct {
	job     Job
	every   time.Duration
	lastRun time.Time
}

// Registry keeps jobs in registration order and tracks when each last succeeded.
type Registry struct {
	mu      sync.Mutex
	entries []*registryEntry
}

func NewRegistry(jobs ...Job) *Registry {
	registry := &Registry{}
	for _, job := range jobs {
		registry.Register(job)
	}
	return registry
}

// Register adds job. Nil jobs and repeated names are ignored.
func (r *Registry) Register(job Job) {
	if job == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.job.Name() == job.Name() {
			return
		}
	}
	entry := &registryEntry{job: job}
	if p, ok := job.(Periodic); ok {
		entry.every = p.Every()
	}
	r.entries = append(r.entries, entry)
}

// Jobs returns a copy of the registered jobs.
func (r *Registry) Jobs() []Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	jobs := make([]Job, 0, len(r.entries))
	for _, e := range r.entries {
		jobs = append(jobs, e.job)
	}
	return jobs
}

// Due returns the jobs whose cadence has elapsed at now.
func (r *Registry) Due(now time.Time) []Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	var due []Job
	for _, e := range r.entries {
		if e.every <= 0 || e.lastRun.IsZero() || !now.Before(e.lastRun.Add(e.every)) {
			due = append(due, e.job)
		}
	}
	return due
}

// MarkRun records a successful run of the named job.
func (r *Registry) MarkRun(name string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.job.Name() == name {
			e.lastRun = at
			return
		}
	}
}
