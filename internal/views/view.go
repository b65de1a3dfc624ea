// Package views holds the screen-level state of the client. A view is built
// with its dependencies, mounted once, and unmounted once; after Unmount
// nothing it started can change its state.
package views

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/core/notify"
)

// Sessions is the read side of the session store.
type Sessions interface {
	State() domain.SessionState
	Subscribe(fn func(domain.SessionState)) *notify.Subscription
}

// CartActions is the cart service as seen by views.
type CartActions interface {
	Load(ctx context.Context) (domain.Cart, error)
	Add(ctx context.Context, productID string, quantity int) (domain.Cart, error)
	Remove(ctx context.Context, itemID string) (domain.Cart, error)
}

// lifecycle tracks what a view has to tear down on Unmount.
type lifecycle struct {
	name string
	log  zerolog.Logger

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	mounted bool
	done    bool
	subs    []*notify.Subscription
	closers []func()
	waiters []func()
}

func newLifecycle(name string, log zerolog.Logger) lifecycle {
	return lifecycle{name: name, log: log.With().Str("component", "view").Str("view", name).Logger()}
}

// begin marks the view mounted. It reports false on a second Mount or a
// Mount after Unmount.
func (l *lifecycle) begin(parent context.Context) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.mounted || l.done {
		return false
	}
	l.ctx, l.cancel = context.WithCancel(parent)
	l.mounted = true
	l.log.Debug().Msg("mounted")
	return true
}

// context returns the mount context, or ErrNotMounted.
func (l *lifecycle) context() (context.Context, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.mounted {
		return nil, domain.ErrNotMounted
	}
	return l.ctx, nil
}

func (l *lifecycle) isMounted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mounted
}

func (l *lifecycle) track(sub *notify.Subscription) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subs = append(l.subs, sub)
}

// own registers a fetcher-like resource for teardown and Wait.
func (l *lifecycle) own(close, wait func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closers = append(l.closers, close)
	l.waiters = append(l.waiters, wait)
}

func (l *lifecycle) end() {
	l.mu.Lock()
	if !l.mounted {
		l.done = true
		l.mu.Unlock()
		return
	}
	l.mounted = false
	l.done = true
	subs, closers := l.subs, l.closers
	l.subs, l.closers = nil, nil
	cancel := l.cancel
	l.mu.Unlock()

	// Subscriptions first so no notification can restart work being closed.
	for _, sub := range subs {
		sub.Unsubscribe()
	}
	for _, c := range closers {
		c()
	}
	cancel()
	l.log.Debug().Msg("unmounted")
}

// Wait blocks until every request the view started has returned.
func (l *lifecycle) Wait() {
	l.mu.Lock()
	waiters := append([]func(){}, l.waiters...)
	l.mu.Unlock()
	for _, w := range waiters {
		w()
	}
}
