package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/buyone/internal/domain"
	"github.com/phrazzld/buyone/internal/redact"
	"github.com/phrazzld/buyone/internal/store"
)

// CategoryInput carries category fields. Slug is derived from Name when empty.
type CategoryInput struct {
	Slug        string
	Name        string
	Icon        string
	Description string
}

// CategoryService manages product categories. Reads are public; writes
// require the ADMIN role.
type CategoryService interface {
	List(ctx context.Context) ([]*domain.Category, error)
	Get(ctx context.Context, id string) (*domain.Category, error)
	Create(ctx context.Context, caller domain.Caller, in CategoryInput) (*domain.Category, error)

	// Update replaces name, icon and description. The slug is fixed at creation.
	Update(ctx context.Context, caller domain.Caller, id string, in CategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, caller domain.Caller, id string) error
}

type categoryServiceImpl struct {
	categories store.CategoryStore
	logger     *slog.Logger
}

// NewCategoryService creates a CategoryService.
func NewCategoryService(categories store.CategoryStore, logger *slog.Logger) CategoryService {
	return &categoryServiceImpl{
		categories: categories,
		logger:     logger.With("component", "category_service"),
	}
}

func authorizeCategory(action domain.Action, caller domain.Caller) error {
	if d := domain.Decide(domain.EntityCategory, action, caller, "", ""); !d.Allowed {
		return forbidden("%s", d.Reason)
	}
	return nil
}

func (s *categoryServiceImpl) List(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, NewServiceError("category", "list", err)
	}
	if categories == nil {
		categories = []*domain.Category{}
	}
	return categories, nil
}

func (s *categoryServiceImpl) Get(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, notFound("Category not found: %s", id)
		}
		return nil, NewServiceError("category", "get", err)
	}
	return category, nil
}

func (s *categoryServiceImpl) Create(ctx context.Context, caller domain.Caller, in CategoryInput) (*domain.Category, error) {
	if err := authorizeCategory(domain.ActionCreate, caller); err != nil {
		return nil, err
	}

	category, err := domain.NewCategory(in.Slug, in.Name, in.Icon, in.Description)
	if err != nil {
		return nil, badRequest("Category name is required")
	}

	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, store.ErrSlugExists) {
			return nil, conflict("Category with slug already exists")
		}
		s.logger.Error("failed to create category",
			"error", redact.Error(err),
			"slug", category.Slug)
		return nil, NewServiceError("category", "create", err)
	}

	s.logger.Info("category created",
		"category_id", category.ID,
		"slug", category.Slug)
	return category, nil
}

func (s *categoryServiceImpl) Update(ctx context.Context, caller domain.Caller, id string, in CategoryInput) (*domain.Category, error) {
	if err := authorizeCategory(domain.ActionUpdate, caller); err != nil {
		return nil, err
	}

	if domain.IsBlank(in.Name) {
		return nil, badRequest("Category name is required")
	}

	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = in.Name
	category.Icon = in.Icon
	category.Description = in.Description

	if err := s.categories.Update(ctx, category); err != nil {
		if store.IsNotFoundError(err) {
			return nil, notFound("Category not found: %s", id)
		}
		return nil, NewServiceError("category", "update", err)
	}
	return category, nil
}

func (s *categoryServiceImpl) Delete(ctx context.Context, caller domain.Caller, id string) error {
	if err := authorizeCategory(domain.ActionDelete, caller); err != nil {
		return err
	}

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		if store.IsNotFoundError(err) {
			return notFound("Category not found: %s", id)
		}
		return NewServiceError("category", "delete", err)
	}

	s.logger.Info("category deleted", "category_id", id)
	return nil
}
