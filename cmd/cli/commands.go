package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/wadjakorntonsri/linklet-dashboard/pkg/config"
	"github.com/wadjakorntonsri/linklet-dashboard/pkg/core/domain"
	"github.com/wadjakorntonsri/linklet-dashboard/pkg/ports"
)

type rootOptions struct {
	apiURL    string
	dbURL     string
	timeout   time.Duration
	clipboard ports.Clipboard
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(systemClipboard{})
}

func newRootCmdWith(clip ports.Clipboard) *cobra.Command {
	opts := &rootOptions{clipboard: clip}

	root := &cobra.Command{
		Use:          "linklet",
		Short:        "Dashboard client for the Linklet link shortener.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.apiURL, "api", "", "API base URL (overrides API_BASE_URL)")
	root.PersistentFlags().StringVar(&opts.dbURL, "db", "", "session store URL (overrides DATABASE_URL)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "request timeout (overrides REQUEST_TIMEOUT)")

	root.AddCommand(
		newRegisterCmd(opts),
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newStatusCmd(opts),
		newHistoryCmd(opts),
		newShortenCmd(opts),
		newAnalyticsCmd(opts),
		newCopyCmd(opts),
	)
	return root
}

// withApp loads config, applies flag overrides and runs fn against a fresh app.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app) error) error {
	cfg := config.Load()
	if opts.apiURL != "" {
		cfg.APIBaseURL = opts.apiURL
	}
	if opts.dbURL != "" {
		cfg.DatabaseURL = opts.dbURL
	}
	if opts.timeout > 0 {
		cfg.RequestTimeout = opts.timeout
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, cfg, opts.clipboard)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer a.Close()
	return fn(ctx, a)
}

func credentialFlags(cmd *cobra.Command, username, password *string) {
	cmd.Flags().StringVarP(username, "username", "u", "", "user id or email")
	cmd.Flags().StringVarP(password, "password", "p", "", "passcode")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
}

func newRegisterCmd(opts *rootOptions) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				msg, err := a.dash.Register(ctx, username, password)
				if err != nil {
					return fmt.Errorf("registration failed: %w", err)
				}
				if msg == "" {
					msg = "User registered"
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				return nil
			})
		},
	}
	credentialFlags(cmd, &username, &password)
	return cmd
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the session token.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.dash.Login(ctx, username, password); err != nil {
					return fmt.Errorf("authentication failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%d links)\n", a.dash.Session().User, a.dash.ActiveLinks())
				return nil
			})
		},
	}
	credentialFlags(cmd, &username, &password)
	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.dash.Logout(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
				return nil
			})
		},
	}
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status [view]",
		Short: "Show the session and the view a route resolves to.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requested := domain.ViewDashboard
			if len(args) == 1 {
				requested = domain.ParseView(args[0])
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				sess := a.dash.Session()
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "session: %s\n", sess.Status)
				if sess.User != "" {
					fmt.Fprintf(out, "user:    %s\n", sess.User)
				}
				fmt.Fprintf(out, "view:    %s -> %s\n", requested, a.dash.View(requested))
				return nil
			})
		},
	}
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List your shortened links.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.requireDashboard(ctx); err != nil {
					return err
				}
				printLinks(cmd.OutOrStdout(), a.dash.Links())
				return nil
			})
		},
	}
}

func newShortenCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shorten <url>",
		Short: "Shorten a URL.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if a.dash.View(domain.ViewDashboard) != domain.ViewDashboard {
					return errLoggedOut
				}
				a.dash.SetInput(args[0])
				res, err := a.dash.Submit(ctx)
				if err != nil {
					return fmt.Errorf("shorten failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", res.ShortCode, res.RedirectURL)
				return nil
			})
		},
	}
}

func newAnalyticsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analytics <code>",
		Short: "Show the click series of a short code.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if a.dash.View(domain.ViewDashboard) != domain.ViewDashboard {
					return errLoggedOut
				}
				a.dash.OpenAnalytics(ctx, args[0])
				series := a.dash.Analytics()
				if series.Status == domain.SeriesFailed {
					return fmt.Errorf("analytics for %s unavailable: %w", series.Code, series.Err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID: %s\n", series.Code)
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TIME\tCLICKS")
				for _, p := range series.Points {
					fmt.Fprintf(w, "%s\t%d\n", p.Time, p.Clicks)
				}
				return w.Flush()
			})
		},
	}
}

func newCopyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "copy <id>",
		Short: "Copy a link's redirect URL to the clipboard.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.requireDashboard(ctx); err != nil {
					return err
				}
				if err := a.dash.Copy(id); err != nil {
					return err
				}
				for _, l := range a.dash.Links() {
					if l.ID == id {
						fmt.Fprintf(cmd.OutOrStdout(), "Copied %s\n", l.RealURL)
					}
				}
				return nil
			})
		},
	}
}

func printLinks(out io.Writer, links []domain.LinkRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSHORT\tORIGINAL")
	for _, l := range links {
		fmt.Fprintf(w, "%d\t%s\t%s\n", l.ID, l.ShortURL, l.OriginalURL)
	}
	w.Flush()
	fmt.Fprintf(out, "Active links: %d\n", len(links))
}
