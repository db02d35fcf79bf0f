package ports

import (
	"context"

	"github.com/storegate/backoffice/internal/core/domain"
)

// ProductFilter narrows product listings. Zero values mean "no filter".
type ProductFilter struct {
	Name       string
	CategoryID int64
	MinPrice   float64
	MaxPrice   float64
	Skip       int
	Limit      int
}

// ProductInput carries the writable product fields.
type ProductInput struct {
	Name          string  `json:"name" validate:"required"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" validate:"gt=0"`
	StockQuantity int     `json:"stock_quantity" validate:"min=0"`
	CategoryID    int64   `json:"category_id" validate:"required"`
}

type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, in ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, in ProductInput) (*domain.Product, error)
	UpdateStock(ctx context.Context, id int64, quantity int) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

// CategoryInput carries the writable category fields.
type CategoryInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	Create(ctx context.Context, in CategoryInput) (*domain.Category, error)
	Update(ctx context.Context, id int64, in CategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	Status domain.OrderStatus
	Skip   int
	Limit  int
}

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity" validate:"gt=0"`
}

// OrderInput carries the payload for order creation.
type OrderInput struct {
	Items []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

type OrderRepository interface {
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	Create(ctx context.Context, in OrderInput) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)
	Cancel(ctx context.Context, id int64) error
}

// UserFilter narrows user listings.
type UserFilter struct {
	Name  string
	Email string
	Skip  int
	Limit int
}

// UserUpdate carries the writable profile fields.
type UserUpdate struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

// PasswordChange carries a password rotation request.
type PasswordChange struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type UserRepository interface {
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, in UserUpdate) (*domain.User, error)
	ChangePassword(ctx context.Context, id int64, in PasswordChange) error
	ChangeRole(ctx context.Context, id int64, role string) (*domain.User, error)
	ChangeStatus(ctx context.Context, id int64, active bool) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}
