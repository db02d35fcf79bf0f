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

const ordersPath = "/api/v1/orders"

type OrderRepository struct {
	api ports.Gateway
}

var _ ports.OrderRepository = (*OrderRepository)(nil)

func NewOrderRepository(api ports.Gateway) *OrderRepository {
	return &OrderRepository{api: api}
}

func (r *OrderRepository) List(ctx context.Context, filter ports.OrderFilter) ([]domain.Order, error) {
	q := url.Values{}
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	if filter.Skip > 0 {
		q.Set("skip", strconv.Itoa(filter.Skip))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}

	var orders []domain.Order
	if err := r.api.Get(ctx, ordersPath, q, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	if err := r.api.Get(ctx, fmt.Sprintf("%s/%d", ordersPath, id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) Create(ctx context.Context, in ports.OrderInput) (*domain.Order, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	var order domain.Order
	if err := r.api.Post(ctx, ordersPath, in, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown order status %q", status)
	}
	var order domain.Order
	body := map[string]domain.OrderStatus{"status": status}
	if err := r.api.Patch(ctx, fmt.Sprintf("%s/%d/status", ordersPath, id), body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) Cancel(ctx context.Context, id int64) error {
	return r.api.Delete(ctx, fmt.Sprintf("%s/%d", ordersPath, id))
}
