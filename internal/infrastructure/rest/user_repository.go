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

const usersPath = "/api/v1/users"

type UserRepository struct {
	api ports.Gateway
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(api ports.Gateway) *UserRepository {
	return &UserRepository{api: api}
}

func (r *UserRepository) List(ctx context.Context, filter ports.UserFilter) ([]domain.User, error) {
	q := url.Values{}
	if filter.Name != "" {
		q.Set("name", filter.Name)
	}
	if filter.Email != "" {
		q.Set("email", filter.Email)
	}
	if filter.Skip > 0 {
		q.Set("skip", strconv.Itoa(filter.Skip))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}

	var users []domain.User
	if err := r.api.Get(ctx, usersPath, q, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	if err := r.api.Get(ctx, fmt.Sprintf("%s/%d", usersPath, id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, in ports.UserUpdate) (*domain.User, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	var user domain.User
	if err := r.api.Put(ctx, fmt.Sprintf("%s/%d", usersPath, id), in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ChangePassword(ctx context.Context, id int64, in ports.PasswordChange) error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	return r.api.Patch(ctx, fmt.Sprintf("%s/%d/password", usersPath, id), in, nil)
}

func (r *UserRepository) ChangeRole(ctx context.Context, id int64, role string) (*domain.User, error) {
	if role != domain.RoleAdmin && role != domain.RoleCustomer {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	var user domain.User
	body := map[string]string{"role": role}
	if err := r.api.Patch(ctx, fmt.Sprintf("%s/%d/role", usersPath, id), body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ChangeStatus(ctx context.Context, id int64, active bool) (*domain.User, error) {
	var user domain.User
	body := map[string]bool{"is_active": active}
	if err := r.api.Patch(ctx, fmt.Sprintf("%s/%d/status", usersPath, id), body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.api.Delete(ctx, fmt.Sprintf("%s/%d", usersPath, id))
}
