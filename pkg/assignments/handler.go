package assignments

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"itams/pkg/middleware"
	"itams/pkg/response"
	"itams/pkg/validation"
)

type AssignmentHandler struct {
	service AssignmentService
}

func NewAssignmentHandler(service AssignmentService) *AssignmentHandler {
	validation.Register()
	return &AssignmentHandler{service: service}
}

func (h *AssignmentHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/assets/:id/assignments", h.listAssignments)

	authed := router.Group("/assets/:id", middleware.Actor())
	authed.POST("/assign", h.assign)
	authed.POST("/reassign", h.assign)
	authed.POST("/unassign", h.unassign)
}

type assignRequest struct {
	UserID int64   `json:"user_id" binding:"required,gt=0"`
	Notes  *string `json:"notes" binding:"omitempty,max=2000"`
}

// @Summary      Assign or reassign an asset
// @Description  Closes the current assignment, if any, opens a new one and marks the asset "In Use".
// @Tags         assignments
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID  header  int            true  "Acting user ID"
// @Param        id          path    int            true  "Asset ID"
// @Param        request     body    assignRequest  true  "Assignee"
// @Success      201  {object}  response.APIResponse{data=Assignment}
// @Failure      400  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse
// @Failure      409  {object}  response.APIResponse "Already assigned to this user"
// @Router       /assets/{id}/assign [post]
// @Router       /assets/{id}/reassign [post]
func (h *AssignmentHandler) assign(c *gin.Context) {
	assetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || assetID <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid asset id", nil)
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, validation.FirstError(err), nil)
		return
	}

	assignment, err := h.service.Assign(c.Request.Context(), assetID, req.UserID, middleware.ActorID(c), req.Notes)
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusCreated, true, "asset assigned", assignment)
}

// @Summary      Unassign an asset
// @Description  Closes the current assignment, logs a check-in and marks the asset "In Stock".
// @Tags         assignments
// @Produce      json
// @Param        X-Actor-ID  header  int  true  "Acting user ID"
// @Param        id          path    int  true  "Asset ID"
// @Success      200  {object}  response.APIResponse{data=Assignment}
// @Failure      404  {object}  response.APIResponse
// @Failure      409  {object}  response.APIResponse "Asset is not assigned"
// @Router       /assets/{id}/unassign [post]
func (h *AssignmentHandler) unassign(c *gin.Context) {
	assetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || assetID <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid asset id", nil)
		return
	}

	assignment, err := h.service.Unassign(c.Request.Context(), assetID, middleware.ActorID(c))
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "asset unassigned", assignment)
}

// @Summary      Assignment history
// @Tags         assignments
// @Produce      json
// @Param        id   path  int  true  "Asset ID"
// @Success      200  {object}  response.APIResponse{data=[]Assignment}
// @Failure      404  {object}  response.APIResponse
// @Router       /assets/{id}/assignments [get]
func (h *AssignmentHandler) listAssignments(c *gin.Context) {
	assetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || assetID <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid asset id", nil)
		return
	}

	list, err := h.service.ListAssignments(c.Request.Context(), assetID)
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "assignments listed", list)
}
