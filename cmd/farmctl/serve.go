package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	ops "github.com/smartfarming/farm-client/internal/infrastructure/http"
)

const shutdownTimeout = 5 * time.Second

func (c *cli) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local ops endpoint (health, metrics, session)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			if addr == "" {
				addr = a.Config.DebugAddr
			}
			e := ops.NewRouter(ops.Deps{
				Log:      a.Log,
				Sessions: a.Session,
				Backend:  a.Config.Snapshot.Backend,
				Pinger:   a.Pinger(),
			})

			errCh := make(chan error, 1)
			go func() {
				a.Log.Info().Str("addr", addr).Msg("ops server listening")
				errCh <- e.Start(addr)
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
			}

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			a.Log.Info().Msg("shutting down ops server")
			return e.Shutdown(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default DEBUG_ADDR)")
	return cmd
}
