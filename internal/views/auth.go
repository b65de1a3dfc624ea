package views

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/smartfarming/farm-client/internal/core/domain"
)

// Authenticator is the auth service as seen by the login and register forms.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (domain.Session, error)
	Register(ctx context.Context, reg domain.Registration) (domain.Session, error)
}

// FormState is the submit state of a form. Error is empty after a success.
type FormState struct {
	Submitting bool
	Error      string
}

type form struct {
	lifecycle
	stateMu sync.Mutex
	state   FormState
}

func (f *form) State() FormState {
	f.stateMu.Lock()
	defer f.stateMu.Unlock()
	return f.state
}

func (f *form) submit(run func() error) error {
	if !f.isMounted() {
		return domain.ErrNotMounted
	}
	f.stateMu.Lock()
	if f.state.Submitting {
		f.stateMu.Unlock()
		return nil
	}
	f.state = FormState{Submitting: true}
	f.stateMu.Unlock()

	err := run()

	// An unmounted form keeps whatever it showed last.
	if !f.isMounted() {
		return err
	}
	f.stateMu.Lock()
	f.state = FormState{Error: domain.UserMessage(err)}
	f.stateMu.Unlock()
	return err
}

type LoginView struct {
	form
	auth Authenticator
}

func NewLoginView(auth Authenticator, log zerolog.Logger) *LoginView {
	return &LoginView{form: form{lifecycle: newLifecycle("login", log)}, auth: auth}
}

func (v *LoginView) Mount(ctx context.Context) { v.begin(ctx) }

func (v *LoginView) Unmount() { v.end() }

// Submit logs in. A rejected login leaves the message in State().Error.
func (v *LoginView) Submit(ctx context.Context, email, password string) error {
	return v.submit(func() error {
		_, err := v.auth.Login(ctx, email, password)
		return err
	})
}

type RegisterView struct {
	form
	auth Authenticator
}

func NewRegisterView(auth Authenticator, log zerolog.Logger) *RegisterView {
	return &RegisterView{form: form{lifecycle: newLifecycle("register", log)}, auth: auth}
}

func (v *RegisterView) Mount(ctx context.Context) { v.begin(ctx) }

func (v *RegisterView) Unmount() { v.end() }

func (v *RegisterView) Submit(ctx context.Context, reg domain.Registration) error {
	return v.submit(func() error {
		_, err := v.auth.Register(ctx, reg)
		return err
	})
}
