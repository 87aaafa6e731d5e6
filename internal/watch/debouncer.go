package watch

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Batch is the set of source paths that changed during one quiet period,
// sorted and without duplicates.
type Batch []string

// Debouncer collects changed paths and hands them to a rebuild callback once
// no new change has arrived for the configured interval.
type Debouncer struct {
	interval time.Duration
	rebuild  func(Batch)
	logger   *zap.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]struct{}
	stopped bool

	// running tracks a rebuild in progress so Stop can wait for it
	running sync.WaitGroup
}

// NewDebouncer creates a debouncer that calls rebuild after interval of quiet.
func NewDebouncer(interval time.Duration, rebuild func(Batch), logger *zap.Logger) *Debouncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Debouncer{
		interval: interval,
		rebuild:  rebuild,
		logger:   logger,
		pending:  make(map[string]struct{}),
	}
}

// Trigger records a change to path and restarts the quiet period. Changes
// after Stop are ignored.
func (d *Debouncer) Trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	batch := make(Batch, 0, len(d.pending))
	for p := range d.pending {
		batch = append(batch, p)
	}
	sort.Strings(batch)
	d.pending = make(map[string]struct{})
	d.running.Add(1)
	d.mu.Unlock()

	defer d.running.Done()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("rebuild panicked", zap.Any("panic", r), zap.Strings("changed", batch))
		}
	}()
	d.rebuild(batch)
}

// Stop cancels any pending rebuild and waits for a running one to return.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	d.running.Wait()
}
