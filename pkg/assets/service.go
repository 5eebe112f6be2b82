package assets

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"itams/pkg/apperr"
	"itams/pkg/depreciation"
)

var ErrDepreciationNotComputable = apperr.New(apperr.KindNotComputable,
	"depreciation requires purchase cost, purchase date and a category useful life")

const tagAttempts = 5

type AssetService interface {
	CreateAsset(ctx context.Context, input Asset) (Asset, error)
	UpdateAsset(ctx context.Context, input Asset) (Asset, error)
	DeleteAsset(ctx context.Context, id int64) error
	DeleteAssets(ctx context.Context, ids []int64) (int64, error)
	GetAssetByID(ctx context.Context, id int64) (Asset, error)
	GetDepreciation(ctx context.Context, id int64) (depreciation.View, error)
	ListAssets(ctx context.Context, filters AssetFilters, order SortOrder, page, limit int) ([]Asset, int64, error)
}

type assetService struct {
	repo   AssetRepository
	now    func() time.Time
	newTag func() string
}

func NewAssetService(repo AssetRepository) AssetService {
	return &assetService{repo: repo, now: time.Now, newTag: generateTag}
}

func generateTag() string {
	return fmt.Sprintf("AMS-%06d", 100000+rand.Intn(900000))
}

func (s *assetService) CreateAsset(ctx context.Context, input Asset) (Asset, error) {
	if err := validateAsset(input); err != nil {
		return Asset{}, err
	}

	if input.AssetTag != "" {
		created, err := s.repo.CreateAsset(ctx, input)
		if err != nil {
			return Asset{}, err
		}
		return s.decorate(created), nil
	}

	// Generated tags can collide; retry with a fresh one.
	for attempt := 0; ; attempt++ {
		input.AssetTag = s.newTag()
		created, err := s.repo.CreateAsset(ctx, input)
		if err == nil {
			return s.decorate(created), nil
		}
		if !errors.Is(err, ErrAssetTagTaken) || attempt+1 >= tagAttempts {
			return Asset{}, err
		}
	}
}

func (s *assetService) UpdateAsset(ctx context.Context, input Asset) (Asset, error) {
	if err := validateAsset(input); err != nil {
		return Asset{}, err
	}
	updated, err := s.repo.UpdateAsset(ctx, input)
	if err != nil {
		return Asset{}, err
	}
	return s.decorate(updated), nil
}

func (s *assetService) DeleteAsset(ctx context.Context, id int64) error {
	return s.repo.DeleteAsset(ctx, id)
}

func (s *assetService) DeleteAssets(ctx context.Context, ids []int64) (int64, error) {
	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return 0, apperr.Validation("ids must be positive")
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return 0, apperr.Validation("ids is required")
	}
	return s.repo.DeleteAssets(ctx, unique)
}

func (s *assetService) GetAssetByID(ctx context.Context, id int64) (Asset, error) {
	a, err := s.repo.GetAssetByID(ctx, id)
	if err != nil {
		return Asset{}, err
	}
	return s.decorate(a), nil
}

func (s *assetService) GetDepreciation(ctx context.Context, id int64) (depreciation.View, error) {
	a, err := s.repo.GetAssetByID(ctx, id)
	if err != nil {
		return depreciation.View{}, err
	}
	view, ok := depreciation.Compute(a.PurchaseCost, a.PurchaseDate, a.UsefulLifeMonths, s.now())
	if !ok {
		return depreciation.View{}, ErrDepreciationNotComputable
	}
	return view, nil
}

func (s *assetService) ListAssets(ctx context.Context, filters AssetFilters, order SortOrder, page, limit int) ([]Asset, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit

	list, total, err := s.repo.ListAssets(ctx, filters, order, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for i := range list {
		list[i] = s.decorate(list[i])
	}
	return list, total, nil
}

// decorate attaches the computed valuation and age label. Depreciation stays
// nil when the asset lacks the data for it.
func (s *assetService) decorate(a Asset) Asset {
	now := s.now()
	if view, ok := depreciation.Compute(a.PurchaseCost, a.PurchaseDate, a.UsefulLifeMonths, now); ok {
		a.Depreciation = &view
	} else {
		a.Depreciation = nil
	}
	a.Age = depreciation.AgeLabel(a.PurchaseDate, now)
	return a
}

func validateAsset(a Asset) error {
	if a.PurchaseCost != nil && a.PurchaseCost.IsNegative() {
		return apperr.Validation("purchase_cost cannot be negative")
	}
	if a.PurchaseDate != nil && a.WarrantyExpiry != nil && a.WarrantyExpiry.Before(*a.PurchaseDate) {
		return apperr.Validation("warranty_expiry must not be before purchase_date")
	}
	return nil
}
