package categories

import (
	"context"
	"strings"

	"itams/pkg/apperr"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, input Category) (Category, error)
	UpdateCategory(ctx context.Context, input Category) (Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	GetCategoryByID(ctx context.Context, id int64) (Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
}

type categoryService struct {
	repo CategoryRepository
}

func NewCategoryService(repo CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) CreateCategory(ctx context.Context, input Category) (Category, error) {
	if err := normalize(&input); err != nil {
		return Category{}, err
	}
	return s.repo.CreateCategory(ctx, input)
}

func (s *categoryService) UpdateCategory(ctx context.Context, input Category) (Category, error) {
	if err := normalize(&input); err != nil {
		return Category{}, err
	}
	return s.repo.UpdateCategory(ctx, input)
}

func (s *categoryService) DeleteCategory(ctx context.Context, id int64) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *categoryService) GetCategoryByID(ctx context.Context, id int64) (Category, error) {
	return s.repo.GetCategoryByID(ctx, id)
}

func (s *categoryService) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

// A category without a useful life is valid; its assets simply have no
// depreciation.
func normalize(c *Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return apperr.Validation("name is required")
	}
	if c.UsefulLifeMonths != nil && *c.UsefulLifeMonths <= 0 {
		return apperr.Validation("useful_life_months must be greater than 0")
	}
	return nil
}
