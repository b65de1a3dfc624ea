package views

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/core/fetcher"
	"github.com/smartfarming/farm-client/internal/core/ports"
	"github.com/smartfarming/farm-client/internal/core/service"
)

const adminOnlyMessage = "Admin access required"

// SchemesView lists government schemes. Admins can also create, update and
// delete; those failures land in ActionError and leave the list alone.
type SchemesView struct {
	lifecycle
	sessions Sessions
	api      ports.SchemeAPI
	fetch    *fetcher.Fetcher[domain.SchemePage]
	action   actionError

	queryMu sync.Mutex
	query   domain.SchemeQuery
}

func NewSchemesView(sessions Sessions, api ports.SchemeAPI, log zerolog.Logger, opts ...fetcher.Option) *SchemesView {
	return &SchemesView{
		lifecycle: newLifecycle("schemes", log),
		sessions:  sessions,
		api:       api,
		fetch:     fetcher.New[domain.SchemePage]("schemes", append([]fetcher.Option{fetcher.WithLogger(log)}, opts...)...),
		query:     domain.SchemeQuery{Page: 1, Limit: 10},
	}
}

func (v *SchemesView) Mount(ctx context.Context) {
	if !v.begin(ctx) {
		return
	}
	v.own(v.fetch.Close, v.fetch.Wait)
	v.refresh()
}

func (v *SchemesView) Unmount() {
	v.end()
}

// Search replaces the active query and fetches it.
func (v *SchemesView) Search(q domain.SchemeQuery) error {
	if !v.isMounted() {
		return domain.ErrNotMounted
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	v.queryMu.Lock()
	v.query = q
	v.queryMu.Unlock()
	v.refresh()
	return nil
}

func (v *SchemesView) refresh() {
	ctx, err := v.context()
	if err != nil {
		return
	}
	v.queryMu.Lock()
	q := v.query
	v.queryMu.Unlock()
	v.fetch.Fetch(ctx, func(ctx context.Context) (domain.SchemePage, error) {
		return v.api.Schemes(ctx, q)
	})
}

func (v *SchemesView) Create(ctx context.Context, s domain.Scheme) error {
	return v.mutate(func() error {
		if err := service.ValidateForm(s); err != nil {
			return err
		}
		_, err := v.api.CreateScheme(ctx, s)
		return err
	})
}

func (v *SchemesView) Update(ctx context.Context, id string, s domain.Scheme) error {
	return v.mutate(func() error {
		if err := service.ValidateForm(s); err != nil {
			return err
		}
		_, err := v.api.UpdateScheme(ctx, id, s)
		return err
	})
}

func (v *SchemesView) Delete(ctx context.Context, id string) error {
	return v.mutate(func() error {
		return v.api.DeleteScheme(ctx, id)
	})
}

// mutate checks the admin role locally before touching the backend, which
// enforces it again.
func (v *SchemesView) mutate(run func() error) error {
	if !v.isMounted() {
		return domain.ErrNotMounted
	}
	st := v.sessions.State()
	if !st.LoggedIn() || !st.Session.Identity.IsAdmin() {
		err := fmt.Errorf("%w: %w", &domain.ValidationError{Message: adminOnlyMessage}, domain.ErrForbidden)
		v.action.set(err)
		return err
	}
	err := run()
	v.action.set(err)
	if err != nil {
		return err
	}
	v.refresh()
	return nil
}

func (v *SchemesView) State() fetcher.State[domain.SchemePage] {
	return v.fetch.State()
}

func (v *SchemesView) ActionError() string {
	return v.action.get()
}
