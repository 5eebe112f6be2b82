package brands

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"itams/pkg/middleware"
	"itams/pkg/response"
	"itams/pkg/validation"
)

type BrandHandler struct {
	service BrandService
}

func NewBrandHandler(service BrandService) *BrandHandler {
	validation.Register()
	return &BrandHandler{service: service}
}

func (h *BrandHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/brands", h.listBrands)
	router.GET("/brands/:id", h.getBrandByID)

	authed := router.Group("/brands", middleware.Actor())
	authed.POST("", h.createBrand)
	authed.PUT("/:id", h.updateBrand)
	authed.DELETE("/:id", h.deleteBrand)
}

type brandRequest struct {
	Name        string  `json:"name" binding:"required,notblank,max=255"`
	Website     *string `json:"website" binding:"omitempty,http_url,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	// Defaults to true.
	IsActive *bool `json:"is_active"`
}

func (r brandRequest) toBrand() Brand {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return Brand{Name: r.Name, Website: r.Website, Description: r.Description, IsActive: active}
}

// @Summary      Create a brand
// @Tags         brands
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID  header  int           true  "Acting user ID"
// @Param        request     body    brandRequest  true  "Brand"
// @Success      201  {object}  response.APIResponse{data=Brand}
// @Failure      400  {object}  response.APIResponse
// @Failure      409  {object}  response.APIResponse "Name already exists"
// @Router       /brands [post]
func (h *BrandHandler) createBrand(c *gin.Context) {
	var req brandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, validation.FirstError(err), nil)
		return
	}

	brand, err := h.service.CreateBrand(c.Request.Context(), req.toBrand())
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusCreated, true, "brand created", brand)
}

// @Summary      Update a brand
// @Tags         brands
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID  header  int           true  "Acting user ID"
// @Param        id          path    int           true  "Brand ID"
// @Param        request     body    brandRequest  true  "Brand"
// @Success      200  {object}  response.APIResponse{data=Brand}
// @Failure      400  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse
// @Failure      409  {object}  response.APIResponse
// @Router       /brands/{id} [put]
func (h *BrandHandler) updateBrand(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid brand id", nil)
		return
	}

	var req brandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, validation.FirstError(err), nil)
		return
	}

	input := req.toBrand()
	input.ID = id
	brand, err := h.service.UpdateBrand(c.Request.Context(), input)
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "brand updated", brand)
}

// @Summary      Delete a brand
// @Description  Refused while any asset references the brand.
// @Tags         brands
// @Produce      json
// @Param        X-Actor-ID  header  int  true  "Acting user ID"
// @Param        id          path    int  true  "Brand ID"
// @Success      200  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse
// @Failure      409  {object}  response.APIResponse "Brand has assets"
// @Router       /brands/{id} [delete]
func (h *BrandHandler) deleteBrand(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid brand id", nil)
		return
	}

	if err := h.service.DeleteBrand(c.Request.Context(), id); err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "brand deleted", nil)
}

// @Summary      Get a brand
// @Tags         brands
// @Produce      json
// @Param        id   path  int  true  "Brand ID"
// @Success      200  {object}  response.APIResponse{data=Brand}
// @Failure      404  {object}  response.APIResponse
// @Router       /brands/{id} [get]
func (h *BrandHandler) getBrandByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid brand id", nil)
		return
	}

	brand, err := h.service.GetBrandByID(c.Request.Context(), id)
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "brand fetched", brand)
}

// @Summary      List brands
// @Description  Alphabetical, with the number of assets per brand.
// @Tags         brands
// @Produce      json
// @Param        search  query  string  false  "Matches name"
// @Param        page    query  int     false  "Page number" default(1)
// @Param        limit   query  int     false  "Items per page" default(15)
// @Success      200  {object}  response.APIResponse{data=BrandList}
// @Router       /brands [get]
func (h *BrandHandler) listBrands(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "15"))
	if err != nil || limit <= 0 {
		limit = 15
	}
	if limit > 100 {
		limit = 100
	}

	list, total, err := h.service.ListBrands(c.Request.Context(), c.Query("search"), page, limit)
	if err != nil {
		response.SendError(c, err)
		return
	}

	data := BrandList{Items: list, Total: total, Page: page, Limit: limit}
	response.SendAPIResponse(c, http.StatusOK, true, "brands listed", data)
}
