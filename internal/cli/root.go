package cli

import (
	"errors"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/storegate/backoffice/internal/core/domain"
)

var (
	serverURL string

	app *App
)

var rootCmd = &cobra.Command{
	Use:   "backofficectl",
	Short: "Back-office administration client",
	Long: `backofficectl is the command-line client for the store back office.
Log in once; the session token is kept on disk and reused until it
expires or you log out.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		app, err = newApp(serverURL)
		return err
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "back-office API URL (overrides BACKOFFICE_API_URL)")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(usersCmd)
}

// openScreen is the entry gate every protected command passes through:
// session check first, then one identity resolution whose result is
// authoritative for the rest of the command.
func openScreen(cmd *cobra.Command) (*domain.User, error) {
	if err := app.Gate.RequireSession(); err != nil {
		pterm.Error.Println("Not logged in. Run 'backofficectl login' first.")
		return nil, err
	}
	principal, err := app.Identity.ResolveCurrent(cmd.Context())
	if err != nil {
		renderError(err)
		return nil, err
	}
	return principal, nil
}

// renderError maps the domain error taxonomy to user-facing messages.
// Backend detail strings pass through verbatim.
func renderError(err error) {
	var be *domain.BackendError
	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		pterm.Error.Println("Your session has expired. Please log in again.")
	case errors.Is(err, domain.ErrNetworkUnavailable):
		pterm.Error.Println("Network error. Please check your connection and try again.")
	case errors.Is(err, domain.ErrForbidden):
		pterm.Error.Println("You do not have permission to do that.")
	case errors.Is(err, domain.ErrNotFound):
		pterm.Error.Println("Not found.")
	case errors.Is(err, domain.ErrIdentityUnavailable):
		pterm.Error.Println("Could not load your profile. Please try again.")
	case errors.As(err, &be):
		pterm.Error.Println(be.Detail)
	default:
		pterm.Error.Println(err.Error())
	}
}
