package views

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/core/fetcher"
	"github.com/smartfarming/farm-client/internal/core/notify"
)

// Navbar shows the cart badge. It loads the cart when a session appears and
// takes every later cart from Bus.Cart instead of refetching.
type Navbar struct {
	lifecycle
	sessions Sessions
	cart     CartActions
	bus      *notify.Bus
	fetch    *fetcher.Fetcher[domain.Cart]
	trigger  fetcher.Trigger
}

func NewNavbar(sessions Sessions, cart CartActions, bus *notify.Bus, log zerolog.Logger, opts ...fetcher.Option) *Navbar {
	return &Navbar{
		lifecycle: newLifecycle("navbar", log),
		sessions:  sessions,
		cart:      cart,
		bus:       bus,
		fetch:     fetcher.New[domain.Cart]("navbar", append([]fetcher.Option{fetcher.WithLogger(log)}, opts...)...),
	}
}

func (n *Navbar) Mount(ctx context.Context) {
	if !n.begin(ctx) {
		return
	}
	n.own(n.fetch.Close, n.fetch.Wait)
	n.track(n.bus.Cart.Subscribe(n.onCart))
	n.track(n.sessions.Subscribe(n.onSession))
	n.onSession(n.sessions.State())
}

func (n *Navbar) Unmount() {
	n.end()
}

// onCart applies a published cart only while logged in, so a mutation that
// lands after logout cannot repopulate the view.
func (n *Navbar) onCart(cart domain.Cart) {
	if !n.sessions.State().LoggedIn() {
		return
	}
	n.fetch.Set(cart)
}

func (n *Navbar) onSession(st domain.SessionState) {
	if !st.LoggedIn() {
		n.trigger.Fire("")
		n.fetch.Reset()
		return
	}
	if !n.trigger.Fire(st.Session.Identity.Key()) {
		return
	}
	ctx, err := n.context()
	if err != nil {
		return
	}
	n.fetch.Fetch(ctx, n.cart.Load)
}

// CartCount is the badge value; 0 when logged out or not yet loaded.
func (n *Navbar) CartCount() int {
	return n.fetch.State().Data.Count()
}

func (n *Navbar) State() fetcher.State[domain.Cart] {
	return n.fetch.State()
}
