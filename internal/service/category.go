package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tripmapper/backend/internal/domain"
	"github.com/tripmapper/backend/internal/repo"
)

// CategoryService manages the user's pin categories.
type CategoryService struct {
	uow repo.UnitOfWork
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(uow repo.UnitOfWork) *CategoryService {
	return &CategoryService{uow: uow}
}

// List returns the user's categories ordered by name.
func (s *CategoryService) List(ctx context.Context, userID uuid.UUID) ([]domain.Category, error) {
	var list []domain.Category
	err := s.uow.Do(ctx, func(r repo.Repos) error {
		var err error
		list, err = r.Categories.ListForUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("service.CategoryService.List: %w", err)
	}
	return list, nil
}

// Create validates and persists a new category for the user.
func (s *CategoryService) Create(ctx context.Context, c domain.Category, userID uuid.UUID) (domain.Category, error) {
	if strings.TrimSpace(c.Name) == "" {
		return domain.Category{}, fmt.Errorf("service.CategoryService.Create: %w: name is required", domain.ErrValidation)
	}
	c.Name = strings.TrimSpace(c.Name)
	c.UserID = userID
	c.IsDefault = false

	var created domain.Category
	err := s.uow.Do(ctx, func(r repo.Repos) error {
		var err error
		created, err = r.Categories.Create(ctx, c)
		return err
	})
	if err != nil {
		return domain.Category{}, fmt.Errorf("service.CategoryService.Create: %w", err)
	}
	return created, nil
}

// Delete removes the user's category. A category still referenced by pins
// cannot be removed; the attempt surfaces as a validation error.
func (s *CategoryService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	err := s.uow.Do(ctx, func(r repo.Repos) error {
		return r.Categories.Delete(ctx, id, userID)
	})
	if err != nil {
		return fmt.Errorf("service.CategoryService.Delete: %w", err)
	}
	return nil
}
