package suppliers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"itams/pkg/middleware"
	"itams/pkg/response"
	"itams/pkg/validation"
)

type SupplierHandler struct {
	service SupplierService
}

func NewSupplierHandler(service SupplierService) *SupplierHandler {
	validation.Register()
	return &SupplierHandler{service: service}
}

func (h *SupplierHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/suppliers", h.listSuppliers)
	router.GET("/suppliers/:id", h.getSupplierByID)

	authed := router.Group("/suppliers", middleware.Actor())
	authed.POST("", h.createSupplier)
	authed.PUT("/:id", h.updateSupplier)
	authed.DELETE("/:id", h.deleteSupplier)
}

type supplierRequest struct {
	Name          string  `json:"name" binding:"required,notblank,max=255"`
	ContactPerson *string `json:"contact_person" binding:"omitempty,max=255"`
	Email         *string `json:"email" binding:"omitempty,email,max=255"`
	Phone         *string `json:"phone" binding:"omitempty,max=20"`
	Address       *string `json:"address" binding:"omitempty,max=2000"`
	Website       *string `json:"website" binding:"omitempty,http_url,max=255"`
}

func (r supplierRequest) toSupplier() Supplier {
	return Supplier{
		Name:          r.Name,
		ContactPerson: r.ContactPerson,
		Email:         r.Email,
		Phone:         r.Phone,
		Address:       r.Address,
		Website:       r.Website,
	}
}

func parseSupplierID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid supplier id", nil)
		return 0, false
	}
	return id, true
}

// @Summary      Create a supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID  header  int              true  "Acting user ID"
// @Param        request     body    supplierRequest  true  "Supplier"
// @Success      201  {object}  response.APIResponse{data=Supplier}
// @Failure      400  {object}  response.APIResponse
// @Router       /suppliers [post]
func (h *SupplierHandler) createSupplier(c *gin.Context) {
	var req supplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, validation.FirstError(err), nil)
		return
	}

	supplier, err := h.service.CreateSupplier(c.Request.Context(), req.toSupplier())
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusCreated, true, "supplier created", supplier)
}

// @Summary      Update a supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID  header  int              true  "Acting user ID"
// @Param        id          path    int              true  "Supplier ID"
// @Param        request     body    supplierRequest  true  "Supplier"
// @Success      200  {object}  response.APIResponse{data=Supplier}
// @Failure      400  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse
// @Router       /suppliers/{id} [put]
func (h *SupplierHandler) updateSupplier(c *gin.Context) {
	id, ok := parseSupplierID(c)
	if !ok {
		return
	}

	var req supplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, validation.FirstError(err), nil)
		return
	}

	input := req.toSupplier()
	input.ID = id
	supplier, err := h.service.UpdateSupplier(c.Request.Context(), input)
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "supplier updated", supplier)
}

// @Summary      Delete a supplier
// @Description  Refused while any asset references the supplier.
// @Tags         suppliers
// @Produce      json
// @Param        X-Actor-ID  header  int  true  "Acting user ID"
// @Param        id          path    int  true  "Supplier ID"
// @Success      200  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse
// @Failure      409  {object}  response.APIResponse "Supplier has assets"
// @Router       /suppliers/{id} [delete]
func (h *SupplierHandler) deleteSupplier(c *gin.Context) {
	id, ok := parseSupplierID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteSupplier(c.Request.Context(), id); err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "supplier deleted", nil)
}

// @Summary      Get a supplier
// @Tags         suppliers
// @Produce      json
// @Param        id   path  int  true  "Supplier ID"
// @Success      200  {object}  response.APIResponse{data=Supplier}
// @Failure      404  {object}  response.APIResponse
// @Router       /suppliers/{id} [get]
func (h *SupplierHandler) getSupplierByID(c *gin.Context) {
	id, ok := parseSupplierID(c)
	if !ok {
		return
	}

	supplier, err := h.service.GetSupplierByID(c.Request.Context(), id)
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "supplier fetched", supplier)
}

// @Summary      List suppliers
// @Description  Newest first, with the number of assets per supplier.
// @Tags         suppliers
// @Produce      json
// @Param        page   query  int  false  "Page number" default(1)
// @Param        limit  query  int  false  "Items per page" default(10)
// @Success      200  {object}  response.APIResponse{data=SupplierList}
// @Router       /suppliers [get]
func (h *SupplierHandler) listSuppliers(c *gin.Context) {
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

	list, total, err := h.service.ListSuppliers(c.Request.Context(), page, limit)
	if err != nil {
		response.SendError(c, err)
		return
	}

	data := SupplierList{Items: list, Total: total, Page: page, Limit: limit}
	response.SendAPIResponse(c, http.StatusOK, true, "suppliers listed", data)
}
