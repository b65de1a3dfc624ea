package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/views"
)

func (c *cli) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("FARM_PASSWORD")
			}
			v := views.NewLoginView(c.app.Auth, c.app.Log)
			v.Mount(cmd.Context())
			defer v.Unmount()

			if err := v.Submit(cmd.Context(), email, password); err != nil {
				return fmt.Errorf("%s", v.State().Error)
			}
			st := c.app.Session.State()
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", st.Session.Identity.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Password (or FARM_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) registerCmd() *cobra.Command {
	var reg domain.Registration
	var crops string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if reg.Password == "" {
				reg.Password = os.Getenv("FARM_PASSWORD")
			}
			if crops != "" {
				reg.FarmDetails.CropTypes = strings.Split(crops, ",")
			}
			v := views.NewRegisterView(c.app.Auth, c.app.Log)
			v.Mount(cmd.Context())
			defer v.Unmount()

			if err := v.Submit(cmd.Context(), reg); err != nil {
				return fmt.Errorf("%s", v.State().Error)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s\n", reg.Name)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&reg.Name, "name", "", "Full name")
	f.StringVar(&reg.Email, "email", "", "Email")
	f.StringVar(&reg.Password, "password", "", "Password (or FARM_PASSWORD)")
	f.StringVar(&reg.Location, "location", "", "Village or district")
	f.StringVar(&reg.Language, "language", "", "Preferred language code")
	f.StringVar(&crops, "crops", "", "Comma separated crop types")
	f.StringVar(&reg.FarmDetails.SoilType, "soil", "", "Soil type")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := c.app.Session.State()
			var id *domain.Identity
			if st.LoggedIn() {
				id = &st.Session.Identity
			}
			return c.print(cmd.OutOrStdout(), id, func(w io.Writer) {
				if id == nil {
					fmt.Fprintln(w, "Not logged in")
					return
				}
				fmt.Fprintf(w, "%s <%s> role=%s location=%s\n", id.Name, id.Email, id.Role, id.Location)
			})
		},
	}
}
