package assets

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"itams/pkg/middleware"
	"itams/pkg/response"
	"itams/pkg/validation"
)

const dateLayout = "2006-01-02"

type AssetHandler struct {
	service AssetService
}

func NewAssetHandler(service AssetService) *AssetHandler {
	validation.Register()
	return &AssetHandler{service: service}
}

func (h *AssetHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/assets", h.listAssets)
	router.GET("/assets/:id", h.getAssetByID)
	router.GET("/assets/:id/depreciation", h.getDepreciation)

	authed := router.Group("/assets", middleware.Actor())
	authed.POST("", h.createAsset)
	authed.POST("/bulk-delete", h.bulkDeleteAssets)
	authed.PUT("/:id", h.updateAsset)
	authed.DELETE("/:id", h.deleteAsset)
}

type assetRequest struct {
	Name           string           `json:"name" binding:"required,notblank,max=255"`
	SerialNumber   *string          `json:"serial_number" binding:"omitempty,notblank,max=255"`
	Model          *string          `json:"model" binding:"omitempty,max=255"`
	Specifications *string          `json:"specifications"`
	CategoryID     *int64           `json:"category_id" binding:"omitempty,gt=0"`
	StatusID       *int64           `json:"status_id" binding:"omitempty,gt=0"`
	LocationID     *int64           `json:"location_id" binding:"omitempty,gt=0"`
	BrandID        *int64           `json:"brand_id" binding:"omitempty,gt=0"`
	SupplierID     *int64           `json:"supplier_id" binding:"omitempty,gt=0"`
	PurchaseDate   *string          `json:"purchase_date" binding:"omitempty,datetime=2006-01-02"`
	DeployedAt     *string          `json:"deployed_at" binding:"omitempty,datetime=2006-01-02"`
	PurchaseCost   *decimal.Decimal `json:"purchase_cost" swaggertype:"string"`
	WarrantyExpiry *string          `json:"warranty_expiry" binding:"omitempty,datetime=2006-01-02"`
	Notes          *string          `json:"notes"`
}

type createAssetRequest struct {
	assetRequest
	// Generated as AMS-NNNNNN when omitted.
	AssetTag string `json:"asset_tag" binding:"omitempty,notblank,max=64"`
}

type bulkDeleteRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1,dive,gt=0"`
}

type bulkDeleteResult struct {
	Deleted int64 `json:"deleted"`
}

func parseDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}

func (r assetRequest) toAsset() Asset {
	return Asset{
		Name:           strings.TrimSpace(r.Name),
		SerialNumber:   r.SerialNumber,
		Model:          r.Model,
		Specifications: r.Specifications,
		CategoryID:     r.CategoryID,
		StatusID:       r.StatusID,
		LocationID:     r.LocationID,
		BrandID:        r.BrandID,
		SupplierID:     r.SupplierID,
		PurchaseDate:   parseDate(r.PurchaseDate),
		DeployedAt:     parseDate(r.DeployedAt),
		PurchaseCost:   r.PurchaseCost,
		WarrantyExpiry: parseDate(r.WarrantyExpiry),
		Notes:          r.Notes,
	}
}

// @Summary      Create an asset
// @Description  Creates an asset. New assets are "In Stock" unless status_id is given.
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID  header  int                 true  "Acting user ID"
// @Param        request     body    createAssetRequest  true  "Asset"
// @Success      201  {object}  response.APIResponse{data=Asset}
// @Failure      400  {object}  response.APIResponse
// @Failure      409  {object}  response.APIResponse "Duplicate tag or serial number"
// @Router       /assets [post]
func (h *AssetHandler) createAsset(c *gin.Context) {
	var req createAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, validation.FirstError(err), nil)
		return
	}

	input := req.toAsset()
	input.AssetTag = strings.TrimSpace(req.AssetTag)
	actor := middleware.ActorID(c)
	input.CreatedBy = &actor

	asset, err := h.service.CreateAsset(c.Request.Context(), input)
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusCreated, true, "asset created", asset)
}

// @Summary      Update an asset
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID  header  int           true  "Acting user ID"
// @Param        id          path    int           true  "Asset ID"
// @Param        request     body    assetRequest  true  "Asset"
// @Success      200  {object}  response.APIResponse{data=Asset}
// @Failure      400  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse
// @Failure      409  {object}  response.APIResponse
// @Router       /assets/{id} [put]
func (h *AssetHandler) updateAsset(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid asset id", nil)
		return
	}

	var req assetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, validation.FirstError(err), nil)
		return
	}

	input := req.toAsset()
	input.ID = id

	asset, err := h.service.UpdateAsset(c.Request.Context(), input)
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "asset updated", asset)
}

// @Summary      Delete an asset
// @Tags         assets
// @Produce      json
// @Param        X-Actor-ID  header  int  true  "Acting user ID"
// @Param        id          path    int  true  "Asset ID"
// @Success      200  {object}  response.APIResponse
// @Failure      400  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse
// @Router       /assets/{id} [delete]
func (h *AssetHandler) deleteAsset(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid asset id", nil)
		return
	}

	if err := h.service.DeleteAsset(c.Request.Context(), id); err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "asset deleted", nil)
}

// @Summary      Delete several assets
// @Description  Deletes all listed assets, or none if any of them does not exist.
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID  header  int                true  "Acting user ID"
// @Param        request     body    bulkDeleteRequest  true  "Asset IDs"
// @Success      200  {object}  response.APIResponse{data=bulkDeleteResult}
// @Failure      400  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse
// @Router       /assets/bulk-delete [post]
func (h *AssetHandler) bulkDeleteAssets(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, validation.FirstError(err), nil)
		return
	}

	deleted, err := h.service.DeleteAssets(c.Request.Context(), req.IDs)
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "assets deleted", bulkDeleteResult{Deleted: deleted})
}

// @Summary      Get asset by ID
// @Tags         assets
// @Produce      json
// @Param        id   path  int  true  "Asset ID"
// @Success      200  {object}  response.APIResponse{data=Asset}
// @Failure      400  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse
// @Router       /assets/{id} [get]
func (h *AssetHandler) getAssetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid asset id", nil)
		return
	}

	asset, err := h.service.GetAssetByID(c.Request.Context(), id)
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "asset fetched", asset)
}

// @Summary      Get asset depreciation
// @Description  Straight-line valuation over the category's useful life, in whole calendar months.
// @Tags         assets
// @Produce      json
// @Param        id   path  int  true  "Asset ID"
// @Success      200  {object}  response.APIResponse{data=depreciation.View}
// @Failure      404  {object}  response.APIResponse
// @Failure      422  {object}  response.APIResponse "Missing cost, purchase date or useful life"
// @Router       /assets/{id}/depreciation [get]
func (h *AssetHandler) getDepreciation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid asset id", nil)
		return
	}

	view, err := h.service.GetDepreciation(c.Request.Context(), id)
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "depreciation computed", view)
}

// @Summary      List assets
// @Tags         assets
// @Produce      json
// @Param        page            query  int     false  "Page number" default(1)
// @Param        limit           query  int     false  "Items per page" default(10)
// @Param        search          query  string  false  "Matches name, asset tag or serial number"
// @Param        status          query  string  false  "Status ID or all"
// @Param        category        query  string  false  "Category ID or all"
// @Param        location        query  string  false  "Location ID or all"
// @Param        brand           query  string  false  "Brand ID or all"
// @Param        supplier        query  string  false  "Supplier ID or all"
// @Param        assigned_user   query  string  false  "User ID, unassigned or all"
// @Param        sort_by         query  string  false  "Sort column" Enums(name, created_at)
// @Param        sort_direction  query  string  false  "Sort direction" Enums(asc, desc)
// @Success      200  {object}  response.APIResponse{data=AssetList}
// @Router       /assets [get]
func (h *AssetHandler) listAssets(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	filters := AssetFilters{
		StatusID:   idFilter(c.Query("status")),
		CategoryID: idFilter(c.Query("category")),
		LocationID: idFilter(c.Query("location")),
		BrandID:    idFilter(c.Query("brand")),
		SupplierID: idFilter(c.Query("supplier")),
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		filters.Search = &search
	}

	if assigned := c.Query("assigned_user"); assigned == "unassigned" {
		filters.Unassigned = true
	} else {
		filters.AssignedTo = idFilter(assigned)
	}

	order := NewSortOrder(c.Query("sort_by"), c.Query("sort_direction"))

	assetsList, total, err := h.service.ListAssets(c.Request.Context(), filters, order, page, limit)
	if err != nil {
		response.SendError(c, err)
		return
	}

	data := AssetList{Items: assetsList, Total: total, Page: page, Limit: limit}
	response.SendAPIResponse(c, http.StatusOK, true, "assets listed", data)
}

// idFilter ignores empty, "all" and malformed values.
func idFilter(raw string) *int64 {
	if raw == "" || raw == "all" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}
