package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/views"
)

type dashboard struct {
	User      *domain.Identity  `json:"user,omitempty"`
	CartCount int               `json:"cartCount"`
	Weather   *domain.Weather   `json:"weather,omitempty"`
	SoilTests []domain.SoilTest `json:"soilTests,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// dashboardCmd mounts the home screen views side by side and prints what
// they settle on.
func (c *cli) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Summary of profile, cart, weather and soil tests",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			opts := a.FetchOptions()
			nav := views.NewNavbar(a.Session, a.Cart, a.Bus, a.Log, opts...)
			profile := views.NewProfileView(a.Session, a.Client, a.Log, opts...)
			weather := views.NewWeatherView(a.Session, a.Client, a.Log, opts...)
			soil := views.NewSoilTestsView(a.Session, a.Client, a.Log, opts...)

			g, ctx := errgroup.WithContext(cmd.Context())
			for _, v := range []mountable{nav, profile, weather, soil} {
				v := v
				g.Go(func() error {
					mounted(ctx, v)
					return ctx.Err()
				})
			}
			defer func() {
				for _, v := range []mountable{nav, profile, weather, soil} {
					v.Unmount()
				}
			}()
			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			d := dashboard{CartCount: nav.CartCount(), Errors: map[string]string{}}
			collect := func(name, msg string) {
				if msg != "" {
					d.Errors[name] = msg
				}
			}
			if st := profile.State(); st.Data.Name != "" {
				id := st.Data
				d.User = &id
			} else {
				collect("profile", st.Message)
			}
			if st := weather.State(); st.Data.Location != "" {
				w := st.Data
				d.Weather = &w
			} else {
				collect("weather", st.Message)
			}
			d.SoilTests = soil.State().Data
			collect("soil", soil.State().Message)
			collect("cart", nav.State().Message)

			return c.print(cmd.OutOrStdout(), d, func(w io.Writer) {
				if d.User == nil {
					fmt.Fprintln(w, "Not logged in")
				} else {
					fmt.Fprintf(w, "%s (%s)\n", d.User.Name, d.User.Location)
				}
				fmt.Fprintf(w, "Cart: %d items\n", d.CartCount)
				if d.Weather != nil {
					fmt.Fprintf(w, "Weather: %.1f°C %s\n", d.Weather.Temperature, d.Weather.Description)
				}
				fmt.Fprintf(w, "Soil tests: %d\n", len(d.SoilTests))
				for name, msg := range d.Errors {
					fmt.Fprintf(w, "%s: %s\n", name, msg)
				}
			})
		},
	}
}
