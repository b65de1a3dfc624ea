package notify

import (
	"github.com/rs/zerolog"

	"github.com/smartfarming/farm-client/internal/core/domain"
)

const (
	TopicCartUpdated    = "cart.updated"
	TopicSessionChanged = "session.changed"
)

// Bus owns every topic the views share. One Bus is created per process and
// injected into the session store, services and views.
type Bus struct {
	// Cart carries the full cart after any successful cart mutation.
	Cart *Topic[domain.Cart]
	// Session carries the session state after every session store transition.
	Session *Topic[domain.SessionState]
}

func NewBus(log zerolog.Logger) *Bus {
	log = log.With().Str("component", "notify").Logger()
	return &Bus{
		Cart:    NewTopic[domain.Cart](TopicCartUpdated, log),
		Session: NewTopic[domain.SessionState](TopicSessionChanged, log),
	}
}
