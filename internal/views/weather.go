package views

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/core/fetcher"
	"github.com/smartfarming/farm-client/internal/core/ports"
)

// WeatherView shows conditions for an explicitly searched location, or else
// for the logged-in user's location. The default location is refetched once
// each time the session moves to a new identity, never on every update.
type WeatherView struct {
	lifecycle
	sessions Sessions
	api      ports.WeatherAPI
	fetch    *fetcher.Fetcher[domain.Weather]
	trigger  fetcher.Trigger

	pinMu    sync.Mutex
	searched string
}

func NewWeatherView(sessions Sessions, api ports.WeatherAPI, log zerolog.Logger, opts ...fetcher.Option) *WeatherView {
	return &WeatherView{
		lifecycle: newLifecycle("weather", log),
		sessions:  sessions,
		api:       api,
		fetch:     fetcher.New[domain.Weather]("weather", append([]fetcher.Option{fetcher.WithLogger(log)}, opts...)...),
	}
}

func (v *WeatherView) Mount(ctx context.Context) {
	if !v.begin(ctx) {
		return
	}
	v.own(v.fetch.Close, v.fetch.Wait)
	v.track(v.sessions.Subscribe(v.onSession))
	v.onSession(v.sessions.State())
}

func (v *WeatherView) Unmount() {
	v.end()
}

// Search fetches location and pins it over the session default. An empty
// location unpins and falls back to the session's location.
func (v *WeatherView) Search(location string) error {
	ctx, err := v.context()
	if err != nil {
		return err
	}
	location = strings.TrimSpace(location)
	v.pinMu.Lock()
	v.searched = location
	v.pinMu.Unlock()

	if location == "" {
		st := v.sessions.State()
		if !st.LoggedIn() || st.Session.Identity.Location == "" {
			v.fetch.Reset()
			return nil
		}
		location = st.Session.Identity.Location
	}
	v.load(ctx, location)
	return nil
}

func (v *WeatherView) onSession(st domain.SessionState) {
	key := ""
	if st.Ready && st.LoggedIn() {
		key = st.Session.Identity.Key()
	}
	fire := v.trigger.Fire(key)

	v.pinMu.Lock()
	pinned := v.searched != ""
	v.pinMu.Unlock()
	if pinned {
		return
	}
	if key == "" {
		v.fetch.Reset()
		return
	}
	location := strings.TrimSpace(st.Session.Identity.Location)
	if !fire || location == "" {
		return
	}
	if ctx, err := v.context(); err == nil {
		v.load(ctx, location)
	}
}

func (v *WeatherView) load(ctx context.Context, location string) {
	v.fetch.Fetch(ctx, func(ctx context.Context) (domain.Weather, error) {
		return v.api.Weather(ctx, location)
	})
}

func (v *WeatherView) State() fetcher.State[domain.Weather] {
	return v.fetch.State()
}
