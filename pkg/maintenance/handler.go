package maintenance

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"itams/pkg/middleware"
	"itams/pkg/response"
	"itams/pkg/validation"
)

type LogHandler struct {
	service LogService
}

func NewLogHandler(service LogService) *LogHandler {
	validation.Register()
	return &LogHandler{service: service}
}

func (h *LogHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/assets/:id/maintenance-logs", h.listLogs)
	router.POST("/assets/:id/maintenance-logs", middleware.Actor(), h.createLog)
}

type createLogRequest struct {
	MaintenanceType string           `json:"maintenance_type" binding:"required,notblank,max=225"`
	Description     string           `json:"description" binding:"required,notblank"`
	Cost            *decimal.Decimal `json:"cost" swaggertype:"string"`
	PerformedAt     time.Time        `json:"performed_at" binding:"required"`
}

// @Summary      Record maintenance
// @Tags         maintenance
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID  header  int               true  "Acting user ID"
// @Param        id          path    int               true  "Asset ID"
// @Param        request     body    createLogRequest  true  "Maintenance entry"
// @Success      201  {object}  response.APIResponse{data=Log}
// @Failure      400  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse
// @Router       /assets/{id}/maintenance-logs [post]
func (h *LogHandler) createLog(c *gin.Context) {
	assetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || assetID <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid asset id", nil)
		return
	}

	var req createLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, validation.FirstError(err), nil)
		return
	}

	actor := middleware.ActorID(c)
	entry, err := h.service.CreateLog(c.Request.Context(), Log{
		AssetID:         assetID,
		MaintenanceType: req.MaintenanceType,
		Description:     req.Description,
		Cost:            req.Cost,
		PerformedBy:     &actor,
		PerformedAt:     req.PerformedAt,
	})
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusCreated, true, "maintenance log created", entry)
}

// @Summary      Maintenance history
// @Tags         maintenance
// @Produce      json
// @Param        id   path  int  true  "Asset ID"
// @Success      200  {object}  response.APIResponse{data=[]Log}
// @Failure      404  {object}  response.APIResponse
// @Router       /assets/{id}/maintenance-logs [get]
func (h *LogHandler) listLogs(c *gin.Context) {
	assetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || assetID <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid asset id", nil)
		return
	}

	list, err := h.service.ListLogs(c.Request.Context(), assetID)
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "maintenance logs listed", list)
}
