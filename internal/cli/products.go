package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/storegate/backoffice/internal/core/domain"
	"github.com/storegate/backoffice/internal/core/ports"
	"github.com/storegate/backoffice/internal/core/service"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Browse and manage the product catalog",
}

var (
	productName       string
	productCategoryID int64
	productMinPrice   float64
	productMaxPrice   float64

	newProductName        string
	newProductDescription string
	newProductPrice       float64
	newProductStock       int
	newProductCategoryID  int64
)

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.Gate.RequireSession(); err != nil {
			pterm.Error.Println("Not logged in. Run 'backofficectl login' first.")
			return err
		}

		filter := ports.ProductFilter{
			Name:       productName,
			CategoryID: productCategoryID,
			MinPrice:   productMinPrice,
			MaxPrice:   productMaxPrice,
		}
		var products []domain.Product
		_, err := app.Loader.Load(cmd.Context(),
			service.Collection("products", func(c context.Context) ([]domain.Product, error) {
				return app.Products.List(c, filter)
			}, &products),
		)
		if err != nil {
			if errors.Is(err, domain.ErrStaleLoad) {
				return nil
			}
			renderError(err)
			return err
		}

		if len(products) == 0 {
			pterm.Info.Println("No products found.")
			return nil
		}
		table := pterm.TableData{{"ID", "NAME", "PRICE", "STOCK", "ACTIVE"}}
		for _, p := range products {
			table = append(table, []string{
				fmt.Sprintf("%d", p.ID),
				p.Name,
				fmt.Sprintf("%.2f", p.Price),
				fmt.Sprintf("%d", p.StockQuantity),
				fmt.Sprintf("%t", p.IsActive),
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(table).Render()
	},
}

var productsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a product",
	RunE: func(cmd *cobra.Command, args []string) error {
		principal, err := openScreen(cmd)
		if err != nil {
			return err
		}
		if !app.Gate.Allows(principal, service.CapabilityManageCatalog) {
			pterm.Error.Println("Managing the catalog requires an administrator account.")
			return domain.ErrForbidden
		}

		product, err := app.Products.Create(cmd.Context(), ports.ProductInput{
			Name:          newProductName,
			Description:   newProductDescription,
			Price:         newProductPrice,
			StockQuantity: newProductStock,
			CategoryID:    newProductCategoryID,
		})
		if err != nil {
			renderError(err)
			return err
		}
		pterm.Success.Printf("Created product %d (%s)\n", product.ID, product.Name)
		return nil
	},
}

var productsStockCmd = &cobra.Command{
	Use:   "stock <id> <quantity>",
	Short: "Set a product's stock quantity",
	Args:  cobra.ExactArgs(2),
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
		quantity, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}

		product, err := app.Products.UpdateStock(cmd.Context(), id, quantity)
		if err != nil {
			renderError(err)
			return err
		}
		pterm.Success.Printf("Product %d stock is now %d\n", product.ID, product.StockQuantity)
		return nil
	},
}

var productsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a product",
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
		if err := app.Products.Delete(cmd.Context(), id); err != nil {
			renderError(err)
			return err
		}
		pterm.Success.Printf("Deleted product %d\n", id)
		return nil
	},
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func init() {
	productsListCmd.Flags().StringVar(&productName, "name", "", "filter by name substring")
	productsListCmd.Flags().Int64Var(&productCategoryID, "category", 0, "filter by category id")
	productsListCmd.Flags().Float64Var(&productMinPrice, "min-price", 0, "minimum price")
	productsListCmd.Flags().Float64Var(&productMaxPrice, "max-price", 0, "maximum price")

	productsCreateCmd.Flags().StringVar(&newProductName, "name", "", "product name")
	productsCreateCmd.Flags().StringVar(&newProductDescription, "description", "", "product description")
	productsCreateCmd.Flags().Float64Var(&newProductPrice, "price", 0, "unit price")
	productsCreateCmd.Flags().IntVar(&newProductStock, "stock", 0, "initial stock quantity")
	productsCreateCmd.Flags().Int64Var(&newProductCategoryID, "category", 0, "category id")

	productsCmd.AddCommand(productsListCmd)
	productsCmd.AddCommand(productsCreateCmd)
	productsCmd.AddCommand(productsStockCmd)
	productsCmd.AddCommand(productsDeleteCmd)
}
