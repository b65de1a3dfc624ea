package views

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/core/fetcher"
	"github.com/smartfarming/farm-client/internal/core/ports"
	"github.com/smartfarming/farm-client/internal/core/service"
)

// SoilTestsView lists the user's soil tests, newest first.
type SoilTestsView struct {
	lifecycle
	sessions Sessions
	api      ports.SoilTestAPI
	fetch    *fetcher.Fetcher[[]domain.SoilTest]
	trigger  fetcher.Trigger
	action   actionError
}

func NewSoilTestsView(sessions Sessions, api ports.SoilTestAPI, log zerolog.Logger, opts ...fetcher.Option) *SoilTestsView {
	return &SoilTestsView{
		lifecycle: newLifecycle("soil", log),
		sessions:  sessions,
		api:       api,
		fetch:     fetcher.New[[]domain.SoilTest]("soil", append([]fetcher.Option{fetcher.WithLogger(log)}, opts...)...),
	}
}

func (v *SoilTestsView) Mount(ctx context.Context) {
	if !v.begin(ctx) {
		return
	}
	v.own(v.fetch.Close, v.fetch.Wait)
	v.track(v.sessions.Subscribe(v.onSession))
	v.onSession(v.sessions.State())
}

func (v *SoilTestsView) Unmount() {
	v.end()
}

func (v *SoilTestsView) onSession(st domain.SessionState) {
	if !st.LoggedIn() {
		v.trigger.Fire("")
		v.fetch.Reset()
		return
	}
	if !v.trigger.Fire(st.Session.Identity.Key()) {
		return
	}
	if ctx, err := v.context(); err == nil {
		v.fetch.Fetch(ctx, v.api.SoilTests)
	}
}

// Submit records a sample and puts the result, with its recommendations, at
// the top of the list.
func (v *SoilTestsView) Submit(ctx context.Context, t domain.SoilTest) (domain.SoilTest, error) {
	if !v.isMounted() {
		return domain.SoilTest{}, domain.ErrNotMounted
	}
	if err := service.ValidateForm(t); err != nil {
		v.action.set(err)
		return domain.SoilTest{}, err
	}
	created, err := v.api.CreateSoilTest(ctx, t)
	v.action.set(err)
	if err != nil {
		return domain.SoilTest{}, err
	}
	current := v.fetch.State().Data
	v.fetch.Set(append([]domain.SoilTest{created}, current...))
	return created, nil
}

func (v *SoilTestsView) State() fetcher.State[[]domain.SoilTest] {
	return v.fetch.State()
}

func (v *SoilTestsView) ActionError() string {
	return v.action.get()
}
