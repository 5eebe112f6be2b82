package suppliers

import (
	"context"
	"net/mail"
	"strings"

	"itams/pkg/apperr"
)

type SupplierService interface {
	CreateSupplier(ctx context.Context, input Supplier) (Supplier, error)
	UpdateSupplier(ctx context.Context, input Supplier) (Supplier, error)
	DeleteSupplier(ctx context.Context, id int64) error
	GetSupplierByID(ctx context.Context, id int64) (Supplier, error)
	ListSuppliers(ctx context.Context, page, limit int) ([]Supplier, int64, error)
}

type supplierService struct {
	repo SupplierRepository
}

func NewSupplierService(repo SupplierRepository) SupplierService {
	return &supplierService{repo: repo}
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func normalize(s *Supplier) error {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return apperr.Validation("name is required")
	}
	s.ContactPerson = optional(s.ContactPerson)
	s.Phone = optional(s.Phone)
	s.Address = optional(s.Address)
	s.Website = optional(s.Website)

	if email := optional(s.Email); email != nil {
		addr, err := mail.ParseAddress(*email)
		if err != nil {
			return apperr.Validation("email must be a valid email")
		}
		normalized := strings.ToLower(addr.Address)
		s.Email = &normalized
	} else {
		s.Email = nil
	}
	return nil
}

func (s *supplierService) CreateSupplier(ctx context.Context, input Supplier) (Supplier, error) {
	if err := normalize(&input); err != nil {
		return Supplier{}, err
	}
	return s.repo.CreateSupplier(ctx, input)
}

func (s *supplierService) UpdateSupplier(ctx context.Context, input Supplier) (Supplier, error) {
	if err := normalize(&input); err != nil {
		return Supplier{}, err
	}
	return s.repo.UpdateSupplier(ctx, input)
}

func (s *supplierService) DeleteSupplier(ctx context.Context, id int64) error {
	return s.repo.DeleteSupplier(ctx, id)
}

func (s *supplierService) GetSupplierByID(ctx context.Context, id int64) (Supplier, error) {
	return s.repo.GetSupplierByID(ctx, id)
}

func (s *supplierService) ListSuppliers(ctx context.Context, page, limit int) ([]Supplier, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	return s.repo.ListSuppliers(ctx, limit, (page-1)*limit)
}
