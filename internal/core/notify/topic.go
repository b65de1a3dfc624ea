// Package notify is the cross-view notification channel: typed, in-process
// publish/subscribe used to keep independently mounted views consistent.
package notify

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/smartfarming/farm-client/internal/infrastructure/metrics"
)

// Handler receives a publication.
type Handler[T any] func(payload T)

type subscriber[T any] struct {
	id     uint64
	fn     Handler[T]
	active atomic.Bool
}

// Topic fans a payload of type T out to its subscribers. Delivery is
// synchronous on the publisher's goroutine, in registration order. There is
// no replay: a subscriber registered after a publication never sees it.
type Topic[T any] struct {
	name string
	log  zerolog.Logger

	mu     sync.Mutex
	subs   []*subscriber[T]
	nextID uint64
}

// NewTopic creates an empty topic.
func NewTopic[T any](name string, log zerolog.Logger) *Topic[T] {
	return &Topic[T]{
		name: name,
		log:  log.With().Str("topic", name).Logger(),
	}
}

// Name returns the topic name.
func (t *Topic[T]) Name() string {
	return t.name
}

// Subscribe registers fn. The returned subscription must be cancelled when
// the subscribing view unmounts.
func (t *Topic[T]) Subscribe(fn Handler[T]) *Subscription {
	t.mu.Lock()
	t.nextID++
	sub := &subscriber[T]{id: t.nextID, fn: fn}
	sub.active.Store(true)
	t.subs = append(t.subs, sub)
	t.mu.Unlock()

	return &Subscription{cancel: func() { t.remove(sub) }}
}

// Publish delivers payload to every subscriber that is still registered when
// its turn comes, and returns how many handlers ran. A panicking handler is
// logged and skipped; the remaining subscribers still receive the payload.
func (t *Topic[T]) Publish(payload T) int {
	t.mu.Lock()
	subs := make([]*subscriber[T], len(t.subs))
	copy(subs, t.subs)
	t.mu.Unlock()

	metrics.NotificationsPublishedTotal.WithLabelValues(t.name).Inc()

	delivered := 0
	for _, sub := range subs {
		// An earlier handler may have unsubscribed this one.
		if !sub.active.Load() {
			continue
		}
		if err := t.deliver(sub, payload); err != nil {
			metrics.NotificationHandlerPanicsTotal.WithLabelValues(t.name).Inc()
			t.log.Error().Err(err).
				Uint64("subscriber_id", sub.id).
				Msg("notification handler failed")
			continue
		}
		delivered++
	}
	return delivered
}

// Len returns the number of registered subscribers.
func (t *Topic[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}

func (t *Topic[T]) deliver(sub *subscriber[T], payload T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	sub.fn(payload)
	return nil
}

func (t *Topic[T]) remove(sub *subscriber[T]) {
	sub.active.Store(false)

	t.mu.Lock()
	defer t.mu.Unlock()
	for i, s := range t.subs {
		if s == sub {
			t.subs = append(t.subs[:i:i], t.subs[i+1:]...)
			return
		}
	}
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe deregisters the handler. Safe to call more than once and from
// inside a handler.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}
