package views

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/core/fetcher"
	"github.com/smartfarming/farm-client/internal/core/notify"
)

type CartView struct {
	lifecycle
	sessions Sessions
	cart     CartActions
	bus      *notify.Bus
	fetch    *fetcher.Fetcher[domain.Cart]
	trigger  fetcher.Trigger
	action   actionError
}

func NewCartView(sessions Sessions, cart CartActions, bus *notify.Bus, log zerolog.Logger, opts ...fetcher.Option) *CartView {
	return &CartView{
		lifecycle: newLifecycle("cart", log),
		sessions:  sessions,
		cart:      cart,
		bus:       bus,
		fetch:     fetcher.New[domain.Cart]("cart", append([]fetcher.Option{fetcher.WithLogger(log)}, opts...)...),
	}
}

func (v *CartView) Mount(ctx context.Context) {
	if !v.begin(ctx) {
		return
	}
	v.own(v.fetch.Close, v.fetch.Wait)
	v.track(v.bus.Cart.Subscribe(v.onCart))
	v.track(v.sessions.Subscribe(v.onSession))
	v.onSession(v.sessions.State())
}

func (v *CartView) Unmount() {
	v.end()
}

// onCart applies a published cart only while logged in, so a mutation that
// lands after logout cannot repopulate the view.
func (v *CartView) onCart(cart domain.Cart) {
	if !v.sessions.State().LoggedIn() {
		return
	}
	v.fetch.Set(cart)
}

func (v *CartView) onSession(st domain.SessionState) {
	if !st.LoggedIn() {
		v.trigger.Fire("")
		v.fetch.Reset()
		return
	}
	if !v.trigger.Fire(st.Session.Identity.Key()) {
		return
	}
	if ctx, err := v.context(); err == nil {
		v.fetch.Fetch(ctx, v.cart.Load)
	}
}

// Add puts a product in the cart. The resulting cart arrives through Bus.Cart.
func (v *CartView) Add(ctx context.Context, productID string, quantity int) error {
	if !v.isMounted() {
		return domain.ErrNotMounted
	}
	_, err := v.cart.Add(ctx, productID, quantity)
	v.action.set(err)
	return err
}

func (v *CartView) Remove(ctx context.Context, itemID string) error {
	if !v.isMounted() {
		return domain.ErrNotMounted
	}
	_, err := v.cart.Remove(ctx, itemID)
	v.action.set(err)
	return err
}

func (v *CartView) State() fetcher.State[domain.Cart] {
	return v.fetch.State()
}

// ActionError is the message of the last failed Add or Remove.
func (v *CartView) ActionError() string {
	return v.action.get()
}
