package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/storegate/backoffice/internal/core/domain"
	"github.com/storegate/backoffice/internal/core/ports"
	"github.com/storegate/backoffice/internal/core/service"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Browse and manage orders",
}

var (
	orderStatusFilter string
	orderItems        []string
)

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.Gate.RequireSession(); err != nil {
			pterm.Error.Println("Not logged in. Run 'backofficectl login' first.")
			return err
		}

		filter := ports.OrderFilter{}
		if orderStatusFilter != "" {
			status := domain.OrderStatus(orderStatusFilter)
			if !status.Valid() {
				return fmt.Errorf("unknown status %q", orderStatusFilter)
			}
			filter.Status = status
		}

		var orders []domain.Order
		_, err := app.Loader.Load(cmd.Context(),
			service.Collection("orders", func(c context.Context) ([]domain.Order, error) {
				return app.Orders.List(c, filter)
			}, &orders),
		)
		if err != nil {
			if errors.Is(err, domain.ErrStaleLoad) {
				return nil
			}
			renderError(err)
			return err
		}

		if len(orders) == 0 {
			pterm.Info.Println("No orders found.")
			return nil
		}
		table := pterm.TableData{{"ID", "USER", "TOTAL", "STATUS", "ITEMS"}}
		for _, o := range orders {
			table = append(table, []string{
				fmt.Sprintf("%d", o.ID),
				fmt.Sprintf("%d", o.UserID),
				fmt.Sprintf("%.2f", o.Total),
				string(o.Status),
				fmt.Sprintf("%d", len(o.Items)),
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(table).Render()
	},
}

var ordersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Place a new order",
	Long: `Places an order for the given line items. Each --item takes the form
<product-id>:<quantity>, and the flag may be repeated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		principal, err := openScreen(cmd)
		if err != nil {
			return err
		}
		if !app.Gate.Allows(principal, service.CapabilityPlaceOrders) {
			pterm.Error.Println("Your account cannot place orders.")
			return domain.ErrForbidden
		}

		input := ports.OrderInput{}
		for _, spec := range orderItems {
			item, err := parseOrderItem(spec)
			if err != nil {
				return err
			}
			input.Items = append(input.Items, item)
		}

		order, err := app.Orders.Create(cmd.Context(), input)
		if err != nil {
			renderError(err)
			return err
		}
		pterm.Success.Printf("Created order %d, total %.2f\n", order.ID, order.Total)
		return nil
	},
}

var ordersStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Advance an order to a new status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		principal, err := openScreen(cmd)
		if err != nil {
			return err
		}
		if !app.Gate.Allows(principal, service.CapabilityManageOrders) {
			pterm.Error.Println("Managing orders requires an administrator account.")
			return domain.ErrForbidden
		}

		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		status := domain.OrderStatus(args[1])
		if !status.Valid() {
			return fmt.Errorf("unknown status %q", args[1])
		}

		order, err := app.Orders.UpdateStatus(cmd.Context(), id, status)
		if err != nil {
			renderError(err)
			return err
		}
		pterm.Success.Printf("Order %d is now %s\n", order.ID, order.Status)
		return nil
	},
}

var ordersCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel an order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		principal, err := openScreen(cmd)
		if err != nil {
			return err
		}
		if !app.Gate.Allows(principal, service.CapabilityManageOrders) {
			pterm.Error.Println("Managing orders requires an administrator account.")
			return domain.ErrForbidden
		}

		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := app.Orders.Cancel(cmd.Context(), id); err != nil {
			renderError(err)
			return err
		}
		pterm.Success.Printf("Cancelled order %d\n", id)
		return nil
	},
}

// parseOrderItem parses "<product-id>:<quantity>".
func parseOrderItem(spec string) (ports.OrderItemInput, error) {
	productPart, quantityPart, ok := strings.Cut(spec, ":")
	if !ok {
		return ports.OrderItemInput{}, fmt.Errorf("invalid item %q, want <product-id>:<quantity>", spec)
	}
	productID, err := parseID(productPart)
	if err != nil {
		return ports.OrderItemInput{}, fmt.Errorf("invalid item %q: %w", spec, err)
	}
	quantity, err := strconv.Atoi(quantityPart)
	if err != nil || quantity <= 0 {
		return ports.OrderItemInput{}, fmt.Errorf("invalid item %q: bad quantity", spec)
	}
	return ports.OrderItemInput{ProductID: productID, Quantity: quantity}, nil
}

func init() {
	ordersListCmd.Flags().StringVar(&orderStatusFilter, "status", "", "filter by status (pending, paid, shipped, delivered, cancelled)")
	ordersCreateCmd.Flags().StringArrayVar(&orderItems, "item", nil, "order line as <product-id>:<quantity> (repeatable)")

	ordersCmd.AddCommand(ordersListCmd)
	ordersCmd.AddCommand(ordersCreateCmd)
	ordersCmd.AddCommand(ordersStatusCmd)
	ordersCmd.AddCommand(ordersCancelCmd)
}
