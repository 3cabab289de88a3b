package storage

import (
	"sync"
	"time"

	"github.com/username/urlaubsplaner/internal/planner"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period before a changed plan hits disk
const DefaultDebounce = 800 * time.Millisecond

// DebouncedSaver coalesces bursts of plan changes into one write. Each
// Notify restarts the quiet period; the snapshot taken at the last Notify
// is what gets written.
type DebouncedSaver struct {
	store    *Store
	delay    time.Duration
	snapshot func() planner.PlanData
	logger   *zap.Logger

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

// NewDebouncedSaver creates a saver around a store. The snapshot function
// is called at save time to capture the current state.
func NewDebouncedSaver(store *Store, delay time.Duration, snapshot func() planner.PlanData, logger *zap.Logger) *DebouncedSaver {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &DebouncedSaver{
		store:    store,
		delay:    delay,
		snapshot: snapshot,
		logger:   logger,
	}
}

// Notify schedules a save after the quiet period, restarting the clock if
// one is already scheduled. Wire it to the planner's change callback.
func (d *DebouncedSaver) Notify() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.save)
}

func (d *DebouncedSaver) save() {
	if err := d.store.Save(d.snapshot()); err != nil {
		d.logger.Error("Debounced save failed", zap.Error(err))
	}
}

// Flush writes any pending save immediately
func (d *DebouncedSaver) Flush() {
	d.mu.Lock()
	pending := d.timer != nil && d.timer.Stop()
	d.timer = nil
	d.mu.Unlock()

	if pending {
		d.save()
	}
}

// Close flushes and stops the saver. Further Notify calls are ignored.
func (d *DebouncedSaver) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	pending := d.timer != nil && d.timer.Stop()
	d.timer = nil
	d.mu.Unlock()

	if pending {
		d.save()
	}
}
