package views

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/core/fetcher"
	"github.com/smartfarming/farm-client/internal/core/ports"
)

// ProfileView loads /user/profile once per session identity.
type ProfileView struct {
	lifecycle
	sessions Sessions
	api      ports.ProfileAPI
	fetch    *fetcher.Fetcher[domain.Identity]
	trigger  fetcher.Trigger
}

func NewProfileView(sessions Sessions, api ports.ProfileAPI, log zerolog.Logger, opts ...fetcher.Option) *ProfileView {
	return &ProfileView{
		lifecycle: newLifecycle("profile", log),
		sessions:  sessions,
		api:       api,
		fetch:     fetcher.New[domain.Identity]("profile", append([]fetcher.Option{fetcher.WithLogger(log)}, opts...)...),
	}
}

func (v *ProfileView) Mount(ctx context.Context) {
	if !v.begin(ctx) {
		return
	}
	v.own(v.fetch.Close, v.fetch.Wait)
	v.track(v.sessions.Subscribe(v.onSession))
	v.onSession(v.sessions.State())
}

func (v *ProfileView) Unmount() {
	v.end()
}

func (v *ProfileView) onSession(st domain.SessionState) {
	if !st.LoggedIn() {
		v.trigger.Fire("")
		v.fetch.Reset()
		return
	}
	if !v.trigger.Fire(st.Session.Identity.Key()) {
		return
	}
	if ctx, err := v.context(); err == nil {
		v.fetch.Fetch(ctx, v.api.Profile)
	}
}

func (v *ProfileView) State() fetcher.State[domain.Identity] {
	return v.fetch.State()
}
