// Package fetcher implements the request/loading/error lifecycle shared by
// every view that displays server data.
//
// Each Fetch starts a new generation. Starting a generation cancels the
// previous in-flight request and, because cancellation is cooperative, also
// marks its eventual completion as stale: only the current generation may
// commit state.
package fetcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/infrastructure/metrics"
)

// Status is the lifecycle position of a fetcher.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// State is a snapshot of a fetcher. Data keeps the last successful result
// while a refetch is loading or after it fails.
type State[T any] struct {
	Status     Status
	Data       T
	Message    string
	Err        error
	Generation uint64
}

// Loader performs one request. It must honour ctx cancellation.
type Loader[T any] func(ctx context.Context) (T, error)

type config struct {
	timeout time.Duration
	log     zerolog.Logger
}

type Option func(*config)

// WithTimeout bounds every load; a load that exceeds it ends in StatusError.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *config) { c.log = log }
}

// Fetcher owns the fetch state of one view.
type Fetcher[T any] struct {
	name    string
	timeout time.Duration
	log     zerolog.Logger

	// emitMu orders listener calls with the commits that produced them.
	emitMu sync.Mutex

	mu       sync.Mutex
	state    State[T]
	gen      uint64
	cancel   context.CancelFunc
	closed   bool
	onChange func(State[T])

	wg sync.WaitGroup
}

// New returns an idle fetcher. name labels logs and metrics.
func New[T any](name string, opts ...Option) *Fetcher[T] {
	cfg := config{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Fetcher[T]{
		name:    name,
		timeout: cfg.timeout,
		log:     cfg.log.With().Str("fetcher", name).Logger(),
	}
}

// OnChange registers the listener called after every committed transition.
// The listener must not call Fetch, Set or Reset on the same fetcher.
func (f *Fetcher[T]) OnChange(fn func(State[T])) {
	f.mu.Lock()
	f.onChange = fn
	f.mu.Unlock()
}

// State returns the current snapshot.
func (f *Fetcher[T]) State() State[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Fetch enters StatusLoading and runs load in the background. It returns the
// generation of the new request, or 0 when the fetcher is closed.
func (f *Fetcher[T]) Fetch(ctx context.Context, load Loader[T]) uint64 {
	gen, _ := f.start(ctx, load)
	return gen
}

// Load is Fetch followed by waiting for that request to settle. The returned
// state may belong to a newer generation if another Fetch raced this one.
func (f *Fetcher[T]) Load(ctx context.Context, load Loader[T]) State[T] {
	_, done := f.start(ctx, load)
	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
		}
	}
	return f.State()
}

// Set commits data as a fresh success, superseding any in-flight request.
func (f *Fetcher[T]) Set(data T) {
	f.transition(func(s *State[T]) {
		s.Status = StatusSuccess
		s.Data = data
		s.Message = ""
		s.Err = nil
	})
}

// Reset returns to StatusIdle with zero data, superseding any in-flight request.
func (f *Fetcher[T]) Reset() {
	f.transition(func(s *State[T]) {
		*s = State[T]{}
	})
}

// Close detaches the fetcher from its view. In-flight requests are cancelled
// and their completions become no-ops.
func (f *Fetcher[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	f.gen++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

// Wait blocks until every started load has returned.
func (f *Fetcher[T]) Wait() {
	f.wg.Wait()
}

func (f *Fetcher[T]) start(parent context.Context, load Loader[T]) (uint64, chan struct{}) {
	f.emitMu.Lock()
	defer f.emitMu.Unlock()

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return 0, nil
	}
	if f.cancel != nil {
		f.cancel()
	}
	f.gen++
	gen := f.gen

	ctx, cancel := context.WithCancel(parent)
	if f.timeout > 0 {
		var timeoutCancel context.CancelFunc
		ctx, timeoutCancel = context.WithTimeout(ctx, f.timeout)
		parentCancel := cancel
		cancel = func() {
			timeoutCancel()
			parentCancel()
		}
	}
	f.cancel = cancel

	f.state.Status = StatusLoading
	f.state.Message = ""
	f.state.Err = nil
	f.state.Generation = gen
	st, fn := f.state, f.onChange
	f.wg.Add(1)
	f.mu.Unlock()

	if fn != nil {
		fn(st)
	}

	done := make(chan struct{})
	go f.run(ctx, cancel, gen, load, done)
	return gen, done
}

func (f *Fetcher[T]) run(ctx context.Context, cancel context.CancelFunc, gen uint64, load Loader[T], done chan struct{}) {
	defer f.wg.Done()
	defer close(done)
	defer cancel()

	data, err := invoke(ctx, load)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}

	committed := f.commit(gen, func(s *State[T]) {
		if err != nil {
			s.Status = StatusError
			s.Err = err
			s.Message = domain.UserMessage(err)
			return
		}
		s.Status = StatusSuccess
		s.Data = data
		s.Message = ""
		s.Err = nil
	})

	outcome := "success"
	switch {
	case !committed:
		outcome = "discarded"
		f.log.Debug().Uint64("generation", gen).Msg("stale fetch result discarded")
	case err != nil:
		outcome = "error"
		f.log.Warn().Err(err).Uint64("generation", gen).Msg("fetch failed")
	}
	metrics.FetchOutcomesTotal.WithLabelValues(f.name, outcome).Inc()
}

// commit applies fn only if gen is still current.
func (f *Fetcher[T]) commit(gen uint64, fn func(*State[T])) bool {
	f.emitMu.Lock()
	defer f.emitMu.Unlock()

	f.mu.Lock()
	if f.closed || gen != f.gen {
		f.mu.Unlock()
		return false
	}
	fn(&f.state)
	f.state.Generation = gen
	f.cancel = nil
	st, listener := f.state, f.onChange
	f.mu.Unlock()

	if listener != nil {
		listener(st)
	}
	return true
}

// transition starts a generation that settles immediately.
func (f *Fetcher[T]) transition(fn func(*State[T])) {
	f.emitMu.Lock()
	defer f.emitMu.Unlock()

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.gen++
	fn(&f.state)
	f.state.Generation = f.gen
	st, listener := f.state, f.onChange
	f.mu.Unlock()

	if listener != nil {
		listener(st)
	}
}

func invoke[T any](ctx context.Context, load Loader[T]) (data T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("loader panic: %v", r)
		}
	}()
	return load(ctx)
}
