package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/storegate/backoffice/internal/core/domain"
	"github.com/storegate/backoffice/internal/core/ports"
	"github.com/storegate/backoffice/internal/core/service"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Browse and manage product categories",
}

var (
	newCategoryName        string
	newCategoryDescription string
)

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.Gate.RequireSession(); err != nil {
			pterm.Error.Println("Not logged in. Run 'backofficectl login' first.")
			return err
		}

		var categories []domain.Category
		_, err := app.Loader.Load(cmd.Context(),
			service.Collection("categories", func(c context.Context) ([]domain.Category, error) {
				return app.Categories.List(c)
			}, &categories),
		)
		if err != nil {
			if errors.Is(err, domain.ErrStaleLoad) {
				return nil
			}
			renderError(err)
			return err
		}

		if len(categories) == 0 {
			pterm.Info.Println("No categories found.")
			return nil
		}
		table := pterm.TableData{{"ID", "NAME", "SLUG", "PRODUCTS"}}
		for _, c := range categories {
			table = append(table, []string{
				fmt.Sprintf("%d", c.ID),
				c.Name,
				c.Slug,
				fmt.Sprintf("%d", c.ProductCount),
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(table).Render()
	},
}

var categoriesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a category",
	RunE: func(cmd *cobra.Command, args []string) error {
		principal, err := openScreen(cmd)
		if err != nil {
			return err
		}
		if !app.Gate.Allows(principal, service.CapabilityManageCatalog) {
			pterm.Error.Println("Managing the catalog requires an administrator account.")
			return domain.ErrForbidden
		}

		category, err := app.Categories.Create(cmd.Context(), ports.CategoryInput{
			Name:        newCategoryName,
			Description: newCategoryDescription,
		})
		if err != nil {
			renderError(err)
			return err
		}
		pterm.Success.Printf("Created category %d (%s)\n", category.ID, category.Name)
		return nil
	},
}

var categoriesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		principal, err := openScreen(cmd)
		if err != nil {
			return err
		}
		if !app.Gate.Allows(principal, service.CapabilityManageCatalog) {
			pterm.Error.Println("Managing the catalog requires an administrator account.")
			return domain.ErrForbidden
		}

		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := app.Categories.Delete(cmd.Context(), id); err != nil {
			renderError(err)
			return err
		}
		pterm.Success.Printf("Deleted category %d\n", id)
		return nil
	},
}

func init() {
	categoriesCreateCmd.Flags().StringVar(&newCategoryName, "name", "", "category name")
	categoriesCreateCmd.Flags().StringVar(&newCategoryDescription, "description", "", "category description")

	categoriesCmd.AddCommand(categoriesListCmd)
	categoriesCmd.AddCommand(categoriesCreateCmd)
	categoriesCmd.AddCommand(categoriesDeleteCmd)
}
