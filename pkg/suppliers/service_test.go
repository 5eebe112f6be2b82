package suppliers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"itams/pkg/apperr"
)

type mockSupplierRepository struct {
	mock.Mock
}

func (m *mockSupplierRepository) CreateSupplier(ctx context.Context, input Supplier) (Supplier, error) {
	args := m.Called(ctx, input)
	s, _ := args.Get(0).(Supplier)
	return s, args.Error(1)
}

func (m *mockSupplierRepository) UpdateSupplier(ctx context.Context, input Supplier) (Supplier, error) {
	args := m.Called(ctx, input)
	s, _ := args.Get(0).(Supplier)
	return s, args.Error(1)
}

func (m *mockSupplierRepository) DeleteSupplier(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSupplierRepository) GetSupplierByID(ctx context.Context, id int64) (Supplier, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(Supplier)
	return s, args.Error(1)
}

func (m *mockSupplierRepository) ListSuppliers(ctx context.Context, limit, offset int) ([]Supplier, int64, error) {
	args := m.Called(ctx, limit, offset)
	list, _ := args.Get(0).([]Supplier)
	return list, args.Get(1).(int64), args.Error(2)
}

func TestSupplierService_CreateSupplier_Normalizes(t *testing.T) {
	repo := new(mockSupplierRepository)
	service := NewSupplierService(repo)
	blank := "  "
	email := " Sales@CDW.com "

	repo.On("CreateSupplier", mock.Anything, mock.MatchedBy(func(s Supplier) bool {
		return s.Name == "CDW" && s.ContactPerson == nil && s.Email != nil && *s.Email == "sales@cdw.com"
	})).Return(Supplier{ID: 1, Name: "CDW"}, nil)

	_, err := service.CreateSupplier(context.Background(), Supplier{Name: " CDW ", ContactPerson: &blank, Email: &email})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSupplierService_UpdateSupplier_BlankName(t *testing.T) {
	repo := new(mockSupplierRepository)
	service := NewSupplierService(repo)

	_, err := service.UpdateSupplier(context.Background(), Supplier{ID: 1, Name: "  "})
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	repo.AssertNotCalled(t, "UpdateSupplier", mock.Anything, mock.Anything)
}

func TestSupplierService_ListSuppliers_Paginates(t *testing.T) {
	repo := new(mockSupplierRepository)
	service := NewSupplierService(repo)

	repo.On("ListSuppliers", mock.Anything, 10, 20).Return([]Supplier{}, int64(0), nil)

	_, _, err := service.ListSuppliers(context.Background(), 3, 0)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
