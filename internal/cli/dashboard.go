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

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show store totals at a glance",
	RunE:  runDashboard,
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	if err := app.Gate.RequireSession(); err != nil {
		pterm.Error.Println("Not logged in. Run 'backofficectl login' first.")
		return err
	}

	ctx := cmd.Context()
	var (
		products   []domain.Product
		categories []domain.Category
		orders     []domain.Order
	)
	principal, err := app.Loader.Load(ctx,
		service.Collection("products", func(c context.Context) ([]domain.Product, error) {
			return app.Products.List(c, ports.ProductFilter{})
		}, &products),
		service.Collection("categories", func(c context.Context) ([]domain.Category, error) {
			return app.Categories.List(c)
		}, &categories),
		service.Collection("orders", func(c context.Context) ([]domain.Order, error) {
			return app.Orders.List(c, ports.OrderFilter{})
		}, &orders),
	)
	if err != nil {
		if errors.Is(err, domain.ErrStaleLoad) {
			return nil
		}
		renderError(err)
		return err
	}

	stats := domain.ComputeDashboardStats(products, categories, orders)

	pterm.DefaultSection.Println("Dashboard")
	pterm.Info.Printf("Signed in as %s (%s)\n", principal.Name, principal.Role)
	table := pterm.TableData{
		{"METRIC", "VALUE"},
		{"Products", fmt.Sprintf("%d", stats.Products)},
		{"Active products", fmt.Sprintf("%d", stats.ActiveProducts)},
		{"Categories", fmt.Sprintf("%d", stats.Categories)},
		{"Orders", fmt.Sprintf("%d", stats.Orders)},
		{"Pending orders", fmt.Sprintf("%d", stats.PendingOrders)},
		{"Revenue", fmt.Sprintf("%.2f", stats.Revenue)},
	}
	return pterm.DefaultTable.WithHasHeader().WithData(table).Render()
}
