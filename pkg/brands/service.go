package brands

import (
	"context"
	"strings"

	"itams/pkg/apperr"
)

type BrandService interface {
	CreateBrand(ctx context.Context, input Brand) (Brand, error)
	UpdateBrand(ctx context.Context, input Brand) (Brand, error)
	DeleteBrand(ctx context.Context, id int64) error
	GetBrandByID(ctx context.Context, id int64) (Brand, error)
	ListBrands(ctx context.Context, search string, page, limit int) ([]Brand, int64, error)
}

type brandService struct {
	repo BrandRepository
}

func NewBrandService(repo BrandRepository) BrandService {
	return &brandService{repo: repo}
}

func normalize(b *Brand) error {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return apperr.Validation("name is required")
	}
	b.Website = trimmed(b.Website)
	b.Description = trimmed(b.Description)
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func (s *brandService) CreateBrand(ctx context.Context, input Brand) (Brand, error) {
	if err := normalize(&input); err != nil {
		return Brand{}, err
	}
	return s.repo.CreateBrand(ctx, input)
}

func (s *brandService) UpdateBrand(ctx context.Context, input Brand) (Brand, error) {
	if err := normalize(&input); err != nil {
		return Brand{}, err
	}
	return s.repo.UpdateBrand(ctx, input)
}

func (s *brandService) DeleteBrand(ctx context.Context, id int64) error {
	return s.repo.DeleteBrand(ctx, id)
}

func (s *brandService) GetBrandByID(ctx context.Context, id int64) (Brand, error) {
	return s.repo.GetBrandByID(ctx, id)
}

func (s *brandService) ListBrands(ctx context.Context, search string, page, limit int) ([]Brand, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 15
	}

	var filter *string
	if search = strings.TrimSpace(search); search != "" {
		filter = &search
	}
	return s.repo.ListBrands(ctx, filter, limit, (page-1)*limit)
}
