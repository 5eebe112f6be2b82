package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"itams/pkg/response"
)

type SummaryHandler struct {
	service SummaryService
}

func NewSummaryHandler(service SummaryService) *SummaryHandler {
	return &SummaryHandler{service: service}
}

func (h *SummaryHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/dashboard", h.getSummary)
}

// @Summary      Inventory summary
// @Description  Per-category asset counts by status plus overall totals.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  response.APIResponse{data=Summary}
// @Router       /dashboard [get]
func (h *SummaryHandler) getSummary(c *gin.Context) {
	summary, err := h.service.GetSummary(c.Request.Context())
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "dashboard summary", summary)
}
