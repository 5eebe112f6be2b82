package categories

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"itams/pkg/middleware"
	"itams/pkg/response"
	"itams/pkg/validation"
)

type CategoryHandler struct {
	service CategoryService
}

func NewCategoryHandler(service CategoryService) *CategoryHandler {
	validation.Register()
	return &CategoryHandler{service: service}
}

func (h *CategoryHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/categories", h.listCategories)
	router.GET("/categories/:id", h.getCategoryByID)

	authed := router.Group("/categories", middleware.Actor())
	authed.POST("", h.createCategory)
	authed.PUT("/:id", h.updateCategory)
	authed.DELETE("/:id", h.deleteCategory)
}

type categoryRequest struct {
	Name             string `json:"name" binding:"required,notblank,max=255"`
	UsefulLifeMonths *int   `json:"useful_life_months" binding:"omitempty,gt=0,max=600"`
}

// @Summary      Create a category
// @Description  useful_life_months drives depreciation; omit it for non-depreciating categories.
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID  header  int              true  "Acting user ID"
// @Param        request     body    categoryRequest  true  "Category"
// @Success      201  {object}  response.APIResponse{data=Category}
// @Failure      400  {object}  response.APIResponse
// @Failure      409  {object}  response.APIResponse
// @Router       /categories [post]
func (h *CategoryHandler) createCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, validation.FirstError(err), nil)
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), Category{
		Name:             req.Name,
		UsefulLifeMonths: req.UsefulLifeMonths,
	})
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusCreated, true, "category created", category)
}

// @Summary      Update a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID  header  int              true  "Acting user ID"
// @Param        id          path    int              true  "Category ID"
// @Param        request     body    categoryRequest  true  "Category"
// @Success      200  {object}  response.APIResponse{data=Category}
// @Failure      400  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse
// @Failure      409  {object}  response.APIResponse
// @Router       /categories/{id} [put]
func (h *CategoryHandler) updateCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid category id", nil)
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, validation.FirstError(err), nil)
		return
	}

	category, err := h.service.UpdateCategory(c.Request.Context(), Category{
		ID:               id,
		Name:             req.Name,
		UsefulLifeMonths: req.UsefulLifeMonths,
	})
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "category updated", category)
}

// @Summary      Delete a category
// @Tags         categories
// @Produce      json
// @Param        X-Actor-ID  header  int  true  "Acting user ID"
// @Param        id          path    int  true  "Category ID"
// @Success      200  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) deleteCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid category id", nil)
		return
	}

	if err := h.service.DeleteCategory(c.Request.Context(), id); err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "category deleted", nil)
}

// @Summary      Get a category
// @Tags         categories
// @Produce      json
// @Param        id   path  int  true  "Category ID"
// @Success      200  {object}  response.APIResponse{data=Category}
// @Failure      404  {object}  response.APIResponse
// @Router       /categories/{id} [get]
func (h *CategoryHandler) getCategoryByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid category id", nil)
		return
	}

	category, err := h.service.GetCategoryByID(c.Request.Context(), id)
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "category fetched", category)
}

// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Success      200  {object}  response.APIResponse{data=[]Category}
// @Router       /categories [get]
func (h *CategoryHandler) listCategories(c *gin.Context) {
	list, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "categories listed", list)
}
