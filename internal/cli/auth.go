package cli

import (
	"errors"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/storegate/backoffice/internal/core/domain"
	"github.com/storegate/backoffice/internal/core/service"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the back office",
	Long: `Exchanges an email and password for a session token. The token is
stored on disk and reused by every subsequent command until it expires
or you run 'backofficectl logout'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email := loginEmail
		if email == "" {
			var err error
			email, err = pterm.DefaultInteractiveTextInput.Show("Email")
			if err != nil {
				return err
			}
		}
		password := loginPassword
		if password == "" {
			var err error
			password, err = pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
			if err != nil {
				return err
			}
		}

		cred := domain.Credential{Email: strings.TrimSpace(email), Password: password}
		if err := app.Session.Login(cmd.Context(), cred); err != nil {
			renderLoginError(err)
			return err
		}

		pterm.Success.Println("Logged in.")
		// Landing screen after authentication.
		return runDashboard(cmd, nil)
	},
}

// renderLoginError speaks the login screen's language: credential
// rejections get one fixed message regardless of what the backend said.
func renderLoginError(err error) {
	var be *domain.BackendError
	switch {
	case errors.Is(err, domain.ErrAuthRejected):
		pterm.Error.Println("Invalid email or password")
	case errors.Is(err, domain.ErrNetworkUnavailable):
		pterm.Error.Println("Network error. Please check your connection and try again.")
	case errors.As(err, &be):
		pterm.Error.Println(be.Detail)
	default:
		pterm.Error.Println(err.Error())
	}
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		app.Session.Logout()
		pterm.Success.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated user and their capabilities",
	RunE: func(cmd *cobra.Command, args []string) error {
		principal, err := openScreen(cmd)
		if err != nil {
			return err
		}

		pterm.DefaultSection.Println("Session")
		pterm.Info.Printf("Name:  %s\n", principal.Name)
		pterm.Info.Printf("Email: %s\n", principal.Email)
		pterm.Info.Printf("Role:  %s\n", principal.Role)

		pterm.DefaultSection.Println("Capabilities")
		for _, capability := range []service.Capability{
			service.CapabilityViewShop,
			service.CapabilityPlaceOrders,
			service.CapabilityManageCatalog,
			service.CapabilityManageOrders,
			service.CapabilityViewUsers,
			service.CapabilityManageUsers,
		} {
			if app.Gate.Allows(principal, capability) {
				pterm.Printf("  %s\n", capability)
			}
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email (prompted when omitted)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password (prompted when omitted)")
}
