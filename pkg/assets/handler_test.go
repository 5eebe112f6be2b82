package assets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"itams/pkg/depreciation"
	"itams/pkg/response"
)

type mockAssetService struct {
	mock.Mock
}

func (m *mockAssetService) CreateAsset(ctx context.Context, input Asset) (Asset, error) {
	args := m.Called(ctx, input)
	asset, _ := args.Get(0).(Asset)
	return asset, args.Error(1)
}

func (m *mockAssetService) UpdateAsset(ctx context.Context, input Asset) (Asset, error) {
	args := m.Called(ctx, input)
	asset, _ := args.Get(0).(Asset)
	return asset, args.Error(1)
}

func (m *mockAssetService) DeleteAsset(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAssetService) DeleteAssets(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAssetService) GetAssetByID(ctx context.Context, id int64) (Asset, error) {
	args := m.Called(ctx, id)
	asset, _ := args.Get(0).(Asset)
	return asset, args.Error(1)
}

func (m *mockAssetService) GetDepreciation(ctx context.Context, id int64) (depreciation.View, error) {
	args := m.Called(ctx, id)
	view, _ := args.Get(0).(depreciation.View)
	return view, args.Error(1)
}

func (m *mockAssetService) ListAssets(ctx context.Context, filters AssetFilters, order SortOrder, page, limit int) ([]Asset, int64, error) {
	args := m.Called(ctx, filters, order, page, limit)
	assets, _ := args.Get(0).([]Asset)
	return assets, args.Get(1).(int64), args.Error(2)
}

func setupAssetRouter(service AssetService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAssetHandler(service)
	h.RegisterRoutes(r)
	return r
}

func TestAssetHandler_CreateAsset_Success(t *testing.T) {
	svc := new(mockAssetService)
	r := setupAssetRouter(svc)

	svc.On("CreateAsset", mock.Anything, mock.MatchedBy(func(a Asset) bool {
		return a.Name == "ThinkPad" &&
			a.PurchaseCost != nil && a.PurchaseCost.String() == "1200.5" &&
			a.PurchaseDate != nil && a.PurchaseDate.Format(dateLayout) == "2024-01-15" &&
			a.CreatedBy != nil && *a.CreatedBy == 9
	})).Return(Asset{ID: 1, Name: "ThinkPad", AssetTag: "AMS-123456"}, nil)

	reqBody := `{"name":"ThinkPad","purchase_cost":"1200.50","purchase_date":"2024-01-15","category_id":2}`
	req := httptest.NewRequest(http.MethodPost, "/assets", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-ID", "9")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "asset created", resp.Message)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "AMS-123456", data["asset_tag"])
	require.Nil(t, data["depreciation"])

	svc.AssertExpectations(t)
}

func TestAssetHandler_CreateAsset_BadDate(t *testing.T) {
	svc := new(mockAssetService)
	r := setupAssetRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/assets", strings.NewReader(`{"name":"ThinkPad","purchase_date":"01/15/2024"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-ID", "9")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "purchase_date must be a date formatted as 2006-01-02", resp.Message)
	svc.AssertNotCalled(t, "CreateAsset", mock.Anything, mock.Anything)
}

func TestAssetHandler_CreateAsset_DuplicateSerial(t *testing.T) {
	svc := new(mockAssetService)
	r := setupAssetRouter(svc)

	svc.On("CreateAsset", mock.Anything, mock.Anything).Return(Asset{}, ErrSerialNumberTaken)

	req := httptest.NewRequest(http.MethodPost, "/assets", strings.NewReader(`{"name":"ThinkPad","serial_number":"SN1"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-ID", "9")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAssetHandler_ListAssets_ParsesFilters(t *testing.T) {
	svc := new(mockAssetService)
	r := setupAssetRouter(svc)

	svc.On("ListAssets", mock.Anything, mock.MatchedBy(func(f AssetFilters) bool {
		return f.Search != nil && *f.Search == "dell" &&
			f.StatusID == nil &&
			f.CategoryID != nil && *f.CategoryID == 3 &&
			f.LocationID == nil &&
			f.Unassigned && f.AssignedTo == nil
	}), SortOrder{Column: "name", Desc: false}, 2, 100).Return([]Asset{}, int64(0), nil)

	url := "/assets?search=dell&status=all&category=3&location=x&assigned_user=unassigned&sort_by=name&sort_direction=asc&page=2&limit=500"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))

	require.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestAssetHandler_ListAssets_UnknownSortFallsBack(t *testing.T) {
	svc := new(mockAssetService)
	r := setupAssetRouter(svc)

	svc.On("ListAssets", mock.Anything, AssetFilters{}, SortOrder{Column: "created_at", Desc: true}, 1, 10).
		Return([]Asset{}, int64(0), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets?sort_by=purchase_cost;DROP", nil))

	require.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestAssetHandler_GetDepreciation_NotComputable(t *testing.T) {
	svc := new(mockAssetService)
	r := setupAssetRouter(svc)

	svc.On("GetDepreciation", mock.Anything, int64(4)).Return(depreciation.View{}, ErrDepreciationNotComputable)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets/4/depreciation", nil))

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "NOT_COMPUTABLE", resp.Code)
}

func TestAssetHandler_BulkDelete(t *testing.T) {
	svc := new(mockAssetService)
	r := setupAssetRouter(svc)

	svc.On("DeleteAssets", mock.Anything, []int64{1, 2}).Return(int64(2), nil)

	req := httptest.NewRequest(http.MethodPost, "/assets/bulk-delete", strings.NewReader(`{"ids":[1,2]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-ID", "1")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	require.EqualValues(t, 2, data["deleted"])
}

func TestAssetHandler_BulkDelete_EmptyIDs(t *testing.T) {
	svc := new(mockAssetService)
	r := setupAssetRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/assets/bulk-delete", strings.NewReader(`{"ids":[]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-ID", "1")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "DeleteAssets", mock.Anything, mock.Anything)
}

func TestAssetHandler_GetAsset_InvalidID(t *testing.T) {
	svc := new(mockAssetService)
	r := setupAssetRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets/0", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "GetAssetByID", mock.Anything, mock.Anything)
}
