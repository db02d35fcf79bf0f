package rest

import (
	"context"
	"fmt"

	"github.com/storegate/backoffice/internal/core/domain"
	"github.com/storegate/backoffice/internal/core/ports"
	"github.com/storegate/backoffice/internal/pkg/validate"
)

const categoriesPath = "/api/v1/categories"

type CategoryRepository struct {
	api ports.Gateway
}

var _ ports.CategoryRepository = (*CategoryRepository)(nil)

func NewCategoryRepository(api ports.Gateway) *CategoryRepository {
	return &CategoryRepository{api: api}
}

func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := r.api.Get(ctx, categoriesPath, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	var category domain.Category
	if err := r.api.Get(ctx, fmt.Sprintf("%s/%d", categoriesPath, id), nil, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var category domain.Category
	if err := r.api.Get(ctx, categoriesPath+"/slug/"+slug, nil, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Create(ctx context.Context, in ports.CategoryInput) (*domain.Category, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	var category domain.Category
	if err := r.api.Post(ctx, categoriesPath, in, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Update(ctx context.Context, id int64, in ports.CategoryInput) (*domain.Category, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	var category domain.Category
	if err := r.api.Put(ctx, fmt.Sprintf("%s/%d", categoriesPath, id), in, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	return r.api.Delete(ctx, fmt.Sprintf("%s/%d", categoriesPath, id))
}
