package editor

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultDebounce is the trailing-edge delay for text and toggle saves.
const DefaultDebounce = 1000 * time.Millisecond

// SaveFunc persists a form snapshot. Implementations surface their own
// status; the scheduler only logs failures and never retries or rolls back.
type SaveFunc func(ctx context.Context, values FormValues) error

// SaveScheduler decides, for any mutation, whether to persist immediately or
// behind a trailing-edge debounce.
//
// Track structural operations save immediately, cancelling any pending
// debounced call. Text and toggle edits restart the debounce timer; when it
// expires the most recently supplied values are sent, so rapid typing
// produces exactly one request after the user pauses. Immediate saves are
// not queued behind debounced ones and may complete out of order relative to
// them; the server's version counter is the tie-breaker and the client does
// not attempt to reconcile.
//
// One scheduler is constructed per editing session and stopped when the
// session ends.
type SaveScheduler struct {
	mu       sync.Mutex
	ctx      context.Context
	delay    time.Duration
	save     SaveFunc
	onSaving func(saving bool)
	logger   *log.Logger

	timer    *time.Timer
	pending  *FormValues
	gen      uint64
	inFlight int
	stopped  bool
	wg       sync.WaitGroup
}

// NewSaveScheduler creates a scheduler that persists through save.
//
// onSaving, when non-nil, is invoked with true when the first request starts
// and false when the last one settles; it backs the toolbar's saving
// indicator and is a best-effort signal, not a mutex.
func NewSaveScheduler(ctx context.Context, delay time.Duration, save SaveFunc, onSaving func(bool), logger *log.Logger) *SaveScheduler {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	if logger == nil {
		logger = log.Default()
	}

	return &SaveScheduler{
		ctx:      ctx,
		delay:    delay,
		save:     save,
		onSaving: onSaving,
		logger:   logger,
	}
}

// Schedule records values for persistence.
//
// With immediate set, any pending debounced call is cancelled and the
// request fires right away with the given values. Otherwise the debounce
// timer restarts and the values replace whatever was pending, so the latest
// snapshot always wins the race to fire.
func (s *SaveScheduler) Schedule(values FormValues, immediate bool) {
	s.mu.Lock()

	if s.stopped {
		s.mu.Unlock()
		return
	}

	if immediate {
		s.cancelPendingLocked()
		s.launchLocked(values)
		s.mu.Unlock()
		return
	}

	s.pending = &values
	s.gen++
	gen := s.gen

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() { s.fireDebounced(gen) })
	s.mu.Unlock()
}

// fireDebounced runs in the timer goroutine when the debounce window closes.
// A generation check discards timers superseded by a later Schedule call.
func (s *SaveScheduler) fireDebounced(gen uint64) {
	s.mu.Lock()
	if s.stopped || s.gen != gen || s.pending == nil {
		s.mu.Unlock()
		return
	}
	values := *s.pending
	s.pending = nil
	s.timer = nil
	s.wg.Add(1)
	s.mu.Unlock()

	defer s.wg.Done()
	s.fire(values)
}

// Flush synchronously persists any pending debounced values. Called when an
// editing session is closing so a paused keystroke is not lost.
func (s *SaveScheduler) Flush() {
	s.mu.Lock()
	pending := s.pending
	s.cancelPendingLocked()
	s.mu.Unlock()

	if pending != nil {
		s.fire(*pending)
	}
}

// Stop cancels any pending timer and waits for in-flight saves to settle.
// Pending debounced values are dropped; use Flush first to keep them.
func (s *SaveScheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.cancelPendingLocked()
	s.mu.Unlock()

	s.wg.Wait()
}

// Saving reports whether any request is currently in flight.
func (s *SaveScheduler) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight > 0
}

func (s *SaveScheduler) cancelPendingLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = nil
	s.gen++
}

func (s *SaveScheduler) launchLocked(values FormValues) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.fire(values)
	}()
}

// fire performs one save, toggling the saving signal from start to settle.
func (s *SaveScheduler) fire(values FormValues) {
	s.beginSave()
	defer s.endSave()

	if err := s.save(s.ctx, values); err != nil {
		// Last-write-wins, no retry: the user's edit stays in the UI and a
		// later edit re-triggers the save.
		s.logger.Error("save failed", "error", err)
	}
}

func (s *SaveScheduler) beginSave() {
	s.mu.Lock()
	s.inFlight++
	first := s.inFlight == 1
	s.mu.Unlock()

	if first && s.onSaving != nil {
		s.onSaving(true)
	}
}

func (s *SaveScheduler) endSave() {
	s.mu.Lock()
	s.inFlight--
	last := s.inFlight == 0
	s.mu.Unlock()

	if last && s.onSaving != nil {
		s.onSaving(false)
	}
}
