package statuses

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"itams/pkg/middleware"
	"itams/pkg/response"
	"itams/pkg/validation"
)

type StatusHandler struct {
	service StatusService
}

func NewStatusHandler(service StatusService) *StatusHandler {
	validation.Register()
	return &StatusHandler{service: service}
}

func (h *StatusHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/statuses", h.listStatuses)
	router.GET("/statuses/:id", h.getStatusByID)

	authed := router.Group("/statuses", middleware.Actor())
	authed.POST("", h.createStatus)
	authed.PUT("/:id", h.updateStatus)
	authed.DELETE("/:id", h.deleteStatus)
}

type statusRequest struct {
	Name        string  `json:"name" binding:"required,notblank,max=255"`
	Color       string  `json:"color" binding:"required,hexcolor,max=7"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

func (r statusRequest) toStatus() Status {
	return Status{Name: r.Name, Color: r.Color, Description: r.Description}
}

func statusID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid status id", nil)
		return 0, false
	}
	return id, true
}

// @Summary      Create an asset status
// @Tags         statuses
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID  header  int            true  "Acting user ID"
// @Param        request     body    statusRequest  true  "Status"
// @Success      201  {object}  response.APIResponse{data=Status}
// @Failure      400  {object}  response.APIResponse
// @Failure      409  {object}  response.APIResponse "Name already exists"
// @Router       /statuses [post]
func (h *StatusHandler) createStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, validation.FirstError(err), nil)
		return
	}

	status, err := h.service.CreateStatus(c.Request.Context(), req.toStatus())
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusCreated, true, "status created", status)
}

// @Summary      Update an asset status
// @Description  In Stock, In Use and In Repair cannot be renamed.
// @Tags         statuses
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID  header  int            true  "Acting user ID"
// @Param        id          path    int            true  "Status ID"
// @Param        request     body    statusRequest  true  "Status"
// @Success      200  {object}  response.APIResponse{data=Status}
// @Failure      400  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse
// @Failure      409  {object}  response.APIResponse
// @Router       /statuses/{id} [put]
func (h *StatusHandler) updateStatus(c *gin.Context) {
	id, ok := statusID(c)
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, validation.FirstError(err), nil)
		return
	}

	input := req.toStatus()
	input.ID = id
	status, err := h.service.UpdateStatus(c.Request.Context(), input)
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "status updated", status)
}

// @Summary      Delete an asset status
// @Description  Refused while any asset carries the status, and always for In Stock, In Use and In Repair.
// @Tags         statuses
// @Produce      json
// @Param        X-Actor-ID  header  int  true  "Acting user ID"
// @Param        id          path    int  true  "Status ID"
// @Success      200  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse
// @Failure      409  {object}  response.APIResponse
// @Router       /statuses/{id} [delete]
func (h *StatusHandler) deleteStatus(c *gin.Context) {
	id, ok := statusID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteStatus(c.Request.Context(), id); err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "status deleted", nil)
}

// @Summary      Get an asset status
// @Tags         statuses
// @Produce      json
// @Param        id   path  int  true  "Status ID"
// @Success      200  {object}  response.APIResponse{data=Status}
// @Failure      404  {object}  response.APIResponse
// @Router       /statuses/{id} [get]
func (h *StatusHandler) getStatusByID(c *gin.Context) {
	id, ok := statusID(c)
	if !ok {
		return
	}

	status, err := h.service.GetStatusByID(c.Request.Context(), id)
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "status fetched", status)
}

// @Summary      List asset statuses
// @Tags         statuses
// @Produce      json
// @Param        search  query  string  false  "Matches name or description"
// @Param        page    query  int     false  "Page number" default(1)
// @Param        limit   query  int     false  "Items per page" default(10)
// @Success      200  {object}  response.APIResponse{data=StatusList}
// @Router       /statuses [get]
func (h *StatusHandler) listStatuses(c *gin.Context) {
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

	list, total, err := h.service.ListStatuses(c.Request.Context(), c.Query("search"), page, limit)
	if err != nil {
		response.SendError(c, err)
		return
	}

	data := StatusList{Items: list, Total: total, Page: page, Limit: limit}
	response.SendAPIResponse(c, http.StatusOK, true, "statuses listed", data)
}
