package rest

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/storegate/backoffice/internal/core/domain"
	"github.com/storegate/backoffice/internal/core/ports"
	"github.com/storegate/backoffice/internal/pkg/validate"
)

const productsPath = "/api/v1/products"

type ProductRepository struct {
	api ports.Gateway
}

var _ ports.ProductRepository = (*ProductRepository)(nil)

func NewProductRepository(api ports.Gateway) *ProductRepository {
	return &ProductRepository{api: api}
}

// List fetches products matching the filter. Filter values are passed
// through verbatim as query parameters.
func (r *ProductRepository) List(ctx context.Context, filter ports.ProductFilter) ([]domain.Product, error) {
	q := url.Values{}
	if filter.Name != "" {
		q.Set("name", filter.Name)
	}
	if filter.CategoryID > 0 {
		q.Set("category_id", strconv.FormatInt(filter.CategoryID, 10))
	}
	if filter.MinPrice > 0 {
		q.Set("min_price", strconv.FormatFloat(filter.MinPrice, 'f', -1, 64))
	}
	if filter.MaxPrice > 0 {
		q.Set("max_price", strconv.FormatFloat(filter.MaxPrice, 'f', -1, 64))
	}
	if filter.Skip > 0 {
		q.Set("skip", strconv.Itoa(filter.Skip))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}

	var products []domain.Product
	if err := r.api.Get(ctx, productsPath, q, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	if err := r.api.Get(ctx, fmt.Sprintf("%s/%d", productsPath, id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Create(ctx context.Context, in ports.ProductInput) (*domain.Product, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	var product domain.Product
	if err := r.api.Post(ctx, productsPath, in, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Update(ctx context.Context, id int64, in ports.ProductInput) (*domain.Product, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	var product domain.Product
	if err := r.api.Put(ctx, fmt.Sprintf("%s/%d", productsPath, id), in, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) UpdateStock(ctx context.Context, id int64, quantity int) (*domain.Product, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("stock quantity must not be negative")
	}
	var product domain.Product
	body := map[string]int{"stock_quantity": quantity}
	if err := r.api.Patch(ctx, fmt.Sprintf("%s/%d/stock", productsPath, id), body, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	return r.api.Delete(ctx, fmt.Sprintf("%s/%d", productsPath, id))
}
