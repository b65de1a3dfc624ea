package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/core/fetcher"
	"github.com/smartfarming/farm-client/internal/views"
)

type mountable interface {
	Mount(ctx context.Context)
	Unmount()
	Wait()
}

// mounted mounts v and waits for its initial loads.
func mounted[V mountable](ctx context.Context, v V) V {
	v.Mount(ctx)
	v.Wait()
	return v
}

func settled[T any](st fetcher.State[T]) (T, error) {
	if st.Status == fetcher.StatusError {
		return st.Data, errors.New(st.Message)
	}
	return st.Data, nil
}

func (c *cli) cartCmd() *cobra.Command {
	newView := func(ctx context.Context) *views.CartView {
		return mounted(ctx, views.NewCartView(c.app.Session, c.app.Cart, c.app.Bus, c.app.Log, c.app.FetchOptions()...))
	}
	show := func(cmd *cobra.Command, cart domain.Cart) error {
		return c.print(cmd.OutOrStdout(), cart, func(w io.Writer) {
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ITEM\tPRODUCT\tNAME\tQTY\tPRICE")
			for _, it := range cart.Items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.2f\n", it.ID, it.ProductID, it.Name, it.Quantity, it.Price)
			}
			_ = tw.Flush()
			fmt.Fprintf(w, "%d items, total %.2f\n", cart.Count(), cart.Total())
		})
	}

	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show the marketplace cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireLogin(); err != nil {
				return err
			}
			v := newView(cmd.Context())
			defer v.Unmount()
			cart, err := settled(v.State())
			if err != nil {
				return err
			}
			return show(cmd, cart)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <productId> [quantity]",
		Short: "Add a product to the cart",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty := 1
			if len(args) == 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("quantity: %w", err)
				}
				qty = n
			}
			v := newView(cmd.Context())
			defer v.Unmount()
			if err := v.Add(cmd.Context(), args[0], qty); err != nil {
				return errors.New(v.ActionError())
			}
			return show(cmd, v.State().Data)
		},
	}, &cobra.Command{
		Use:   "remove <itemId>",
		Short: "Remove a cart line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := newView(cmd.Context())
			defer v.Unmount()
			if err := v.Remove(cmd.Context(), args[0]); err != nil {
				return errors.New(v.ActionError())
			}
			return show(cmd, v.State().Data)
		},
	})
	return cmd
}

func (c *cli) weatherCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "weather [location]",
		Short: "Current weather for a location (default: your location)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := mounted(cmd.Context(), views.NewWeatherView(c.app.Session, c.app.Client, c.app.Log, c.app.FetchOptions()...))
			defer v.Unmount()
			if len(args) == 1 {
				if err := v.Search(args[0]); err != nil {
					return err
				}
				v.Wait()
			}
			st := v.State()
			if st.Status == fetcher.StatusIdle {
				return errors.New("no location; pass one or log in with a location")
			}
			w, err := settled(st)
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), w, func(out io.Writer) {
				fmt.Fprintf(out, "%s: %.1f°C, %s (%s), humidity %.0f%%, wind %.1f m/s\n",
					w.Location, w.Temperature, w.Weather, w.Description, w.Humidity, w.WindSpeed)
				for _, a := range w.Alerts {
					fmt.Fprintf(out, "  ALERT: %s\n", a)
				}
			})
		},
	}
}

func (c *cli) forumCmd() *cobra.Command {
	newView := func(ctx context.Context) *views.ForumView {
		return mounted(ctx, views.NewForumView(c.app.Client, c.app.Log, c.app.FetchOptions()...))
	}
	show := func(cmd *cobra.Command, posts []domain.ForumPost) error {
		return c.print(cmd.OutOrStdout(), posts, func(w io.Writer) {
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSCORE\tAUTHOR\tTITLE")
			for _, p := range posts {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", p.ID, p.Score(), p.Author, p.Title)
			}
			_ = tw.Flush()
		})
	}

	cmd := &cobra.Command{
		Use:   "forum",
		Short: "List community forum posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := newView(cmd.Context())
			defer v.Unmount()
			posts, err := settled(v.State())
			if err != nil {
				return err
			}
			return show(cmd, posts)
		},
	}

	var title, content string
	post := &cobra.Command{
		Use:   "post",
		Short: "Start a thread",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := newView(cmd.Context())
			defer v.Unmount()
			if err := v.CreatePost(cmd.Context(), title, content); err != nil {
				return errors.New(v.ActionError())
			}
			v.Wait()
			return show(cmd, v.State().Data)
		},
	}
	post.Flags().StringVar(&title, "title", "", "Post title")
	post.Flags().StringVar(&content, "content", "", "Post body")

	vote := &cobra.Command{
		Use:   "vote <postId> up|down",
		Short: "Vote on a thread",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := domain.VoteUp
			switch args[1] {
			case "up":
			case "down":
				dir = domain.VoteDown
			default:
				return fmt.Errorf("direction must be up or down, got %q", args[1])
			}
			v := newView(cmd.Context())
			defer v.Unmount()
			if err := v.Vote(cmd.Context(), args[0], dir); err != nil {
				return errors.New(v.ActionError())
			}
			v.Wait()
			return show(cmd, v.State().Data)
		},
	}

	cmd.AddCommand(post, vote)
	return cmd
}

func (c *cli) schemesCmd() *cobra.Command {
	var q domain.SchemeQuery
	newView := func(ctx context.Context) *views.SchemesView {
		return mounted(ctx, views.NewSchemesView(c.app.Session, c.app.Client, c.app.Log, c.app.FetchOptions()...))
	}
	show := func(cmd *cobra.Command, page domain.SchemePage) error {
		return c.print(cmd.OutOrStdout(), page, func(w io.Writer) {
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCATEGORY\tNAME")
			for _, s := range page.Results {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.ID, s.Category, s.Name)
			}
			_ = tw.Flush()
			fmt.Fprintf(w, "page %d of %d\n", max(q.Page, 1), page.TotalPages)
		})
	}

	cmd := &cobra.Command{
		Use:   "schemes",
		Short: "Search government schemes",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := newView(cmd.Context())
			defer v.Unmount()
			if err := v.Search(q); err != nil {
				return err
			}
			v.Wait()
			page, err := settled(v.State())
			if err != nil {
				return err
			}
			return show(cmd, page)
		},
	}
	cmd.Flags().StringVar(&q.Search, "search", "", "Text to search for")
	cmd.Flags().StringVar(&q.Category, "category", "", "Category filter")
	cmd.Flags().IntVar(&q.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&q.Limit, "limit", 10, "Results per page")

	var s domain.Scheme
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a scheme (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := newView(cmd.Context())
			defer v.Unmount()
			if err := v.Create(cmd.Context(), s); err != nil {
				return errors.New(v.ActionError())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", s.Name)
			return nil
		},
	}
	cf := create.Flags()
	cf.StringVar(&s.Name, "name", "", "Scheme name")
	cf.StringVar(&s.Description, "description", "", "Description")
	cf.StringVar(&s.Category, "category", "", "Category")
	cf.StringVar(&s.Eligibility, "eligibility", "", "Eligibility")
	cf.StringVar(&s.Benefits, "benefits", "", "Benefits")
	cf.StringVar(&s.Link, "link", "", "Official link")

	del := &cobra.Command{
		Use:   "delete <schemeId>",
		Short: "Remove a scheme (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := newView(cmd.Context())
			defer v.Unmount()
			if err := v.Delete(cmd.Context(), args[0]); err != nil {
				return errors.New(v.ActionError())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(create, del)
	return cmd
}

func (c *cli) soilCmd() *cobra.Command {
	newView := func(ctx context.Context) *views.SoilTestsView {
		return mounted(ctx, views.NewSoilTestsView(c.app.Session, c.app.Client, c.app.Log, c.app.FetchOptions()...))
	}
	cmd := &cobra.Command{
		Use:   "soil",
		Short: "List your soil tests",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireLogin(); err != nil {
				return err
			}
			v := newView(cmd.Context())
			defer v.Unmount()
			tests, err := settled(v.State())
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), tests, func(w io.Writer) {
				for _, t := range tests {
					printSoilTest(w, t)
				}
			})
		},
	}

	var t domain.SoilTest
	add := &cobra.Command{
		Use:   "add",
		Short: "Record a soil sample and get recommendations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireLogin(); err != nil {
				return err
			}
			v := newView(cmd.Context())
			defer v.Unmount()
			created, err := v.Submit(cmd.Context(), t)
			if err != nil {
				return errors.New(v.ActionError())
			}
			return c.print(cmd.OutOrStdout(), created, func(w io.Writer) { printSoilTest(w, created) })
		},
	}
	f := add.Flags()
	f.Float64Var(&t.PH, "ph", 7, "pH (0-14)")
	f.Float64Var(&t.Nitrogen, "nitrogen", 0, "Nitrogen (kg/ha)")
	f.Float64Var(&t.Phosphorus, "phosphorus", 0, "Phosphorus (kg/ha)")
	f.Float64Var(&t.Potassium, "potassium", 0, "Potassium (kg/ha)")
	f.Float64Var(&t.OrganicMatter, "organic-matter", 0, "Organic matter (%)")
	f.StringVar(&t.Location, "location", "", "Field location")

	cmd.AddCommand(add)
	return cmd
}

func printSoilTest(w io.Writer, t domain.SoilTest) {
	fmt.Fprintf(w, "%s pH %.1f N %.0f P %.0f K %.0f OM %.1f\n",
		t.CreatedAt.Format("2006-01-02"), t.PH, t.Nitrogen, t.Phosphorus, t.Potassium, t.OrganicMatter)
	for _, r := range t.Recommendations {
		fmt.Fprintf(w, "  - %s\n", r)
	}
}

func (c *cli) detectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <image>",
		Short: "Identify pests or disease in a crop photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			v := mounted(cmd.Context(), views.NewDetectionView(c.app.Client, c.app.Log, c.app.FetchOptions()...))
			defer v.Unmount()
			st, err := v.Upload(cmd.Context(), args[0], f)
			if err != nil {
				return errors.New(st.Message)
			}
			d := st.Data
			return c.print(cmd.OutOrStdout(), d, func(w io.Writer) {
				label := strings.TrimSpace(strings.Join([]string{d.Pest, d.Disease}, " "))
				fmt.Fprintf(w, "%s (%.0f%% confidence)\n", label, d.Confidence*100)
				if d.Treatment != "" {
					fmt.Fprintf(w, "Treatment: %s\n", d.Treatment)
				}
			})
		},
	}
}
