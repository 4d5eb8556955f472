// Package cli implements the storefront command line client.
package cli

import (
	"fmt"
	"io"

	"github.com/ridloal/meoris-storefront/internal/client"
	"github.com/ridloal/meoris-storefront/internal/platform/config"
	"github.com/ridloal/meoris-storefront/internal/session"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	APIURL      string
	SessionFile string
	Format      string // "json" | "text"
}

var ValidFormats = []string{"text", "json"}

// App is the per-invocation context handed to every command: the API client and the session
// that says who is acting.
type App struct {
	Client  *client.Client
	Session *session.Manager
	Out     io.Writer
	Format  string
}

// RequireUser returns the signed-in user and makes the client use its token.
func (a *App) RequireUser() (*session.SessionUser, error) {
	u, err := a.Session.Require()
	if err != nil {
		return nil, fmt.Errorf("%w (run `login` first)", err)
	}
	a.Client.SetToken(u.Token)
	return u, nil
}

// NewRootCommand creates the root command of the storefront CLI.
func NewRootCommand() *cobra.Command {
	defaults := config.LoadCLIConfig()
	opts := &RootOptions{}
	app := &App{}

	cmd := &cobra.Command{
		Use:           "meoris",
		Short:         "Meoris storefront client",
		Long:          "Browse the catalog, manage the cart and favorites, and build pre-checkout snapshots.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			c := client.New(opts.APIURL)
			m := session.NewManager(session.NewFileCache(opts.SessionFile), c)
			if u, ok := m.CurrentUser(); ok {
				c.SetToken(u.Token)
			}
			*app = App{Client: c, Session: m, Out: cmd.OutOrStdout(), Format: opts.Format}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.APIURL, "api-url", defaults.APIURL, "storefront API base URL")
	cmd.PersistentFlags().StringVar(&opts.SessionFile, "session-file", defaults.SessionFile, "where the session is kept")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewLoginCommand(app))
	cmd.AddCommand(NewLogoutCommand(app))
	cmd.AddCommand(NewWhoamiCommand(app))
	cmd.AddCommand(NewProductsCommand(app))
	cmd.AddCommand(NewVouchersCommand(app))
	cmd.AddCommand(NewCartCommand(app))
	cmd.AddCommand(NewFavoritesCommand(app))
	cmd.AddCommand(NewCheckoutCommand(app))
	cmd.AddCommand(NewWatchCommand(app))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
