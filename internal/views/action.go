package views

import (
	"sync"

	"github.com/smartfarming/farm-client/internal/core/domain"
)

// actionError is the inline error slot of a mutation, kept apart from the
// list state so a failed create does not hide loaded data.
type actionError struct {
	mu  sync.Mutex
	msg string
}

func (a *actionError) set(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.msg = domain.UserMessage(err)
}

func (a *actionError) get() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.msg
}
