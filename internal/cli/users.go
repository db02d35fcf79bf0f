package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/storegate/backoffice/internal/core/domain"
	"github.com/storegate/backoffice/internal/core/ports"
	"github.com/storegate/backoffice/internal/core/service"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts (administrators only)",
}

var (
	userNameFilter  string
	userEmailFilter string
)

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List user accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		principal, err := openScreen(cmd)
		if err != nil {
			return err
		}
		if !app.Gate.Allows(principal, service.CapabilityViewUsers) {
			pterm.Error.Println("Viewing users requires an administrator account.")
			return domain.ErrForbidden
		}

		// The fetch itself is gated, not just the rendering: a
		// non-admin session never issues the request.
		filter := ports.UserFilter{Name: userNameFilter, Email: userEmailFilter}
		users, err := app.Users.List(cmd.Context(), filter)
		if err != nil {
			renderError(err)
			return err
		}

		if len(users) == 0 {
			pterm.Info.Println("No users found.")
			return nil
		}
		table := pterm.TableData{{"ID", "NAME", "EMAIL", "ROLE", "ACTIVE", "ACTIONS"}}
		for _, u := range users {
			actions := app.Gate.UserActions(principal, &u)
			labels := make([]string, len(actions))
			for i, a := range actions {
				labels[i] = string(a)
			}
			table = append(table, []string{
				fmt.Sprintf("%d", u.ID),
				u.Name,
				u.Email,
				u.Role,
				fmt.Sprintf("%t", u.IsActive),
				strings.Join(labels, ", "),
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(table).Render()
	},
}

var usersRoleCmd = &cobra.Command{
	Use:   "role <id> <role>",
	Short: "Change a user's role",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := loadTarget(cmd, args[0], service.UserActionChangeRole)
		if err != nil {
			return err
		}

		role := args[1]
		if role != domain.RoleAdmin && role != domain.RoleCustomer {
			return fmt.Errorf("unknown role %q", role)
		}

		user, err := app.Users.ChangeRole(cmd.Context(), target.ID, role)
		if err != nil {
			renderError(err)
			return err
		}
		pterm.Success.Printf("User %d is now %s\n", user.ID, user.Role)
		return nil
	},
}

var usersStatusCmd = &cobra.Command{
	Use:   "status <id> <active|inactive>",
	Short: "Activate or deactivate a user account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := loadTarget(cmd, args[0], service.UserActionChangeStatus)
		if err != nil {
			return err
		}

		var active bool
		switch args[1] {
		case "active":
			active = true
		case "inactive":
			active = false
		default:
			return fmt.Errorf("unknown status %q, want active or inactive", args[1])
		}

		user, err := app.Users.ChangeStatus(cmd.Context(), target.ID, active)
		if err != nil {
			renderError(err)
			return err
		}
		if user.IsActive {
			pterm.Success.Printf("User %d is active\n", user.ID)
		} else {
			pterm.Success.Printf("User %d is inactive\n", user.ID)
		}
		return nil
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := loadTarget(cmd, args[0], service.UserActionDelete)
		if err != nil {
			return err
		}
		if err := app.Users.Delete(cmd.Context(), target.ID); err != nil {
			renderError(err)
			return err
		}
		pterm.Success.Printf("Deleted user %d\n", target.ID)
		return nil
	},
}

// loadTarget resolves the acting user and the target account, then
// checks the requested action against the per-row affordances. Acting
// on your own role, status or existence is never offered, so an admin
// cannot lock themselves out.
func loadTarget(cmd *cobra.Command, rawID string, action service.UserAction) (*domain.User, error) {
	principal, err := openScreen(cmd)
	if err != nil {
		return nil, err
	}

	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	target, err := app.Users.GetByID(cmd.Context(), id)
	if err != nil {
		renderError(err)
		return nil, err
	}

	actions := app.Gate.UserActions(principal, target)
	if !slices.Contains(actions, action) {
		if principal.ID == target.ID {
			pterm.Error.Println("You cannot do that to your own account.")
		} else {
			pterm.Error.Println("Managing users requires an administrator account.")
		}
		return nil, domain.ErrForbidden
	}
	return target, nil
}

func init() {
	usersListCmd.Flags().StringVar(&userNameFilter, "name", "", "filter by name substring")
	usersListCmd.Flags().StringVar(&userEmailFilter, "email", "", "filter by email substring")

	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersRoleCmd)
	usersCmd.AddCommand(usersStatusCmd)
	usersCmd.AddCommand(usersDeleteCmd)
}
