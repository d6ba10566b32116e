package autosave

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Status is the observable state of the engine.
type Status string

const (
	StatusIdle   Status = "idle"
	StatusSaving Status = "saving"
	StatusSaved  Status = "saved"
	StatusError  Status = "error"
)

// SaveFunc persists one snapshot of the document.
type SaveFunc[T any] func(ctx context.Context, data T) error

const defaultDebounce = 30 * time.Second

type settings struct {
	debounce time.Duration
	enabled  bool
	logger   zerolog.Logger
	nowTime  func() time.Time
}

// Option defines a function type to modify the engine settings.
type Option func(*settings)

// WithDebounce sets the quiet period after the last edit before a save fires.
func WithDebounce(d time.Duration) Option {
	return func(s *settings) {
		s.debounce = d
	}
}

// WithDisabled creates the engine with scheduling switched off: updates are
// tracked but never persisted automatically.
func WithDisabled() Option {
	return func(s *settings) {
		s.enabled = false
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(s *settings) {
		s.nowTime = nowFunc
	}
}

// Engine debounces a stream of document edits into persist calls. Edits
// arriving within the debounce window coalesce into one save of the latest
// value; data identical to the last persisted snapshot schedules nothing.
// Persist calls are serialized: a save never overlaps another from the same
// engine.
type Engine[T any] struct {
	save     SaveFunc[T]
	settings settings

	lock            sync.Mutex
	timer           *time.Timer
	status          Status
	lastSaved       time.Time
	pending         T
	pendingSnapshot []byte
	persisted       []byte
	closed          bool

	saveLock sync.Mutex
}

// New creates an engine around save. The initial data value is the baseline:
// the first save fires only once an update differs from it.
func New[T any](initial T, save SaveFunc[T], options ...Option) (*Engine[T], error) {
	if save == nil {
		return nil, errors.New("[autosave.New] save function is required")
	}

	s := settings{
		debounce: defaultDebounce,
		enabled:  true,
		logger:   zerolog.Nop(),
		nowTime:  time.Now,
	}
	for _, opt := range options {
		opt(&s)
	}

	snapshot, err := json.Marshal(initial)
	if err != nil {
		return nil, errors.Wrap(err, "[autosave.New] snapshot initial data")
	}

	return &Engine[T]{
		save:     save,
		settings: s,
		status:   StatusIdle,
		pending:  initial,

		pendingSnapshot: snapshot,
		persisted:       snapshot,
	}, nil
}

// Update records a new value of the document. A changed value (re)arms the
// debounce timer; only the most recent timer survives. An unchanged value is
// a no-op and leaves the status alone.
func (e *Engine[T]) Update(data T) error {
	snapshot, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "[Engine.Update] snapshot data")
	}

	e.lock.Lock()
	defer e.lock.Unlock()

	if e.closed {
		return errors.New("[Engine.Update] engine is closed")
	}

	e.pending = data
	e.pendingSnapshot = snapshot

	if !e.settings.enabled || bytes.Equal(snapshot, e.persisted) {
		return nil
	}

	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.settings.debounce, e.fire)
	return nil
}

// fire runs on timer expiry and persists the latest pending value.
func (e *Engine[T]) fire() {
	e.lock.Lock()
	data, snapshot := e.pending, e.pendingSnapshot
	e.lock.Unlock()

	if err := e.persist(context.Background(), data, snapshot); err != nil {
		e.settings.logger.Warn().Err(err).Msg("auto-save failed")
	}
}

// Retry re-attempts a save of the latest pending data immediately, bypassing
// the timer. Intended for manual recovery after StatusError.
func (e *Engine[T]) Retry(ctx context.Context) error {
	e.lock.Lock()
	data, snapshot := e.pending, e.pendingSnapshot
	e.lock.Unlock()

	return e.persist(ctx, data, snapshot)
}

// Flush cancels any pending timer and persists the latest pending data now.
// Unlike the teardown path this is a real awaited save, for explicit
// "save now" actions and for hosts draining the engine before discarding it.
func (e *Engine[T]) Flush(ctx context.Context) error {
	e.lock.Lock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	data, snapshot := e.pending, e.pendingSnapshot
	e.lock.Unlock()

	return e.persist(ctx, data, snapshot)
}

// Close tears the engine down. A pending timer is cancelled and, when the
// latest data was never persisted, a best-effort final save is fired without
// being awaited so the last edit is not silently dropped. Callers that need
// certainty should Flush first.
func (e *Engine[T]) Close() {
	e.lock.Lock()
	if e.closed {
		e.lock.Unlock()
		return
	}
	e.closed = true

	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	dirty := !bytes.Equal(e.pendingSnapshot, e.persisted)
	data, snapshot := e.pending, e.pendingSnapshot
	e.lock.Unlock()

	if dirty {
		go func() {
			if err := e.persist(context.Background(), data, snapshot); err != nil {
				e.settings.logger.Warn().Err(err).Msg("final auto-save failed")
			}
		}()
	}
}

// Status returns the current engine status.
func (e *Engine[T]) Status() Status {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.status
}

// LastSaved returns when the last successful save completed, or the zero
// time when nothing has been saved yet.
func (e *Engine[T]) LastSaved() time.Time {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.lastSaved
}

// persist invokes the save function, guarding against redundant saves and
// serializing against other in-flight persists from this engine.
func (e *Engine[T]) persist(ctx context.Context, data T, snapshot []byte) error {
	e.saveLock.Lock()
	defer e.saveLock.Unlock()

	e.lock.Lock()
	if bytes.Equal(snapshot, e.persisted) {
		e.lock.Unlock()
		return nil
	}
	e.status = StatusSaving
	e.lock.Unlock()

	err := e.save(ctx, data)

	e.lock.Lock()
	defer e.lock.Unlock()
	if err != nil {
		e.status = StatusError
		return err
	}

	e.persisted = snapshot
	e.lastSaved = e.settings.nowTime()
	e.status = StatusSaved
	return nil
}
