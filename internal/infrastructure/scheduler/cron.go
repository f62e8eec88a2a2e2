package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"ContentWriter/internal/ports"
)

// CronScheduler runs recurring jobs from cron expressions and one-shot jobs at fixed times.
type CronScheduler struct {
	cron *cron.Cron

	mu       sync.Mutex
	oneShot  map[string]cron.EntryID
	started  bool
	draining context.Context
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler builds a scheduler in loc; panics and overlapping runs are handled by the cron chain.
func NewCronScheduler(loc *time.Location, logger *log.Logger) *CronScheduler {
	if loc == nil {
		loc = time.UTC
	}
	cronLogger := cron.DiscardLogger
	if logger != nil {
		cronLogger = cron.PrintfLogger(logger)
	}
	return &CronScheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		oneShot: map[string]cron.EntryID{},
	}
}

// at fires once at a fixed instant. An instant already passed when the entry is first
// planned fires right away. Next is only called from the cron run loop.
type at struct {
	when    time.Time
	planned bool
}

func (a *at) Next(t time.Time) time.Time {
	if a.planned {
		return time.Time{}
	}
	a.planned = true
	if t.Before(a.when) {
		return a.when
	}
	return t
}

// ScheduleAt registers job to run once at the given time, replacing any job with the same id.
// Times in the past run as soon as the scheduler is running.
func (c *CronScheduler) ScheduleAt(id string, when time.Time, job func()) error {
	if id == "" || job == nil {
		return fmt.Errorf("schedule %q: id and job are required", id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.oneShot[id]; ok {
		c.cron.Remove(prev)
	}
	var entryID cron.EntryID
	entryID = c.cron.Schedule(&at{when: when}, cron.FuncJob(func() {
		c.mu.Lock()
		if c.oneShot[id] == entryID {
			delete(c.oneShot, id)
		}
		c.mu.Unlock()
		c.cron.Remove(entryID)
		job()
	}))
	c.oneShot[id] = entryID
	return nil
}

// Cancel removes a pending one-shot job and reports whether it existed.
func (c *CronScheduler) Cancel(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entryID, ok := c.oneShot[id]
	if !ok {
		return false
	}
	c.cron.Remove(entryID)
	delete(c.oneShot, id)
	return true
}

// Pending reports whether a one-shot job with id is waiting to run.
func (c *CronScheduler) Pending(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.oneShot[id]
	return ok
}

// Every registers a recurring job using a standard five-field cron expression.
func (c *CronScheduler) Every(spec, name string, job func()) error {
	if job == nil {
		return fmt.Errorf("job %s is nil", name)
	}
	if _, err := c.cron.AddFunc(spec, job); err != nil {
		return fmt.Errorf("register %s (%s): %w", name, spec, err)
	}
	return nil
}

// Start launches the cron loop. It keeps running until Stop.
func (c *CronScheduler) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return nil
	}
	c.started = true
	c.draining = nil
	c.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for running jobs or ctx, whichever comes first.
// Repeated calls wait on the same running jobs.
func (c *CronScheduler) Stop(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.started = false
		c.draining = c.cron.Stop()
	}
	done := c.draining
	c.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
