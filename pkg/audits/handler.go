package audits

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"itams/pkg/middleware"
	"itams/pkg/response"
	"itams/pkg/validation"
)

// FeedServer upgrades a request into a live event stream for one session.
type FeedServer interface {
	Serve(w http.ResponseWriter, r *http.Request, sessionID int64)
}

type AuditHandler struct {
	service AuditService
	feed    FeedServer
}

func NewAuditHandler(service AuditService, feed FeedServer) *AuditHandler {
	validation.Register()
	return &AuditHandler{service: service, feed: feed}
}

func (h *AuditHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/audits", h.listSessions)
	router.GET("/audits/:id", h.getSession)
	router.GET("/audits/:id/variance", h.variance)
	if h.feed != nil {
		router.GET("/audits/:id/feed", h.serveFeed)
	}

	authed := router.Group("/audits", middleware.Actor())
	authed.POST("", h.startSession)
	authed.DELETE("/:id", h.deleteSession)
	authed.POST("/:id/scan", h.scan)
	authed.POST("/:id/close", h.close)
}

func sessionID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid audit session id", nil)
		return 0, false
	}
	return id, true
}

type startRequest struct {
	LocationID *int64  `json:"location_id" binding:"omitempty,gt=0"`
	Notes      *string `json:"notes" binding:"omitempty,max=2000"`
}

// @Summary      Start an audit session
// @Description  Opens a session over one location, or over every asset when location_id is omitted.
// @Tags         audits
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID  header  int           true  "Acting user ID"
// @Param        request     body    startRequest  true  "Session"
// @Success      201  {object}  response.APIResponse{data=Session}
// @Failure      400  {object}  response.APIResponse
// @Failure      401  {object}  response.APIResponse
// @Router       /audits [post]
func (h *AuditHandler) startSession(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, validation.FirstError(err), nil)
		return
	}

	session, err := h.service.StartSession(c.Request.Context(), StartInput{
		LocationID: req.LocationID,
		ActorID:    middleware.ActorID(c),
		Notes:      req.Notes,
	})
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusCreated, true, "audit session started", session)
}

// @Summary      List audit sessions
// @Description  Newest first.
// @Tags         audits
// @Produce      json
// @Param        page   query  int  false  "Page number" default(1)
// @Param        limit  query  int  false  "Items per page" default(15)
// @Success      200  {object}  response.APIResponse{data=SessionList}
// @Router       /audits [get]
func (h *AuditHandler) listSessions(c *gin.Context) {
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

	sessions, total, err := h.service.ListSessions(c.Request.Context(), page, limit)
	if err != nil {
		response.SendError(c, err)
		return
	}

	data := SessionList{Items: sessions, Total: total, Page: page, Limit: limit}
	response.SendAPIResponse(c, http.StatusOK, true, "audit sessions listed", data)
}

// @Summary      Get an audit session
// @Description  Returns the session with every scanned entry resolved.
// @Tags         audits
// @Produce      json
// @Param        id   path  int  true  "Audit session ID"
// @Success      200  {object}  response.APIResponse{data=SessionDetail}
// @Failure      404  {object}  response.APIResponse
// @Router       /audits/{id} [get]
func (h *AuditHandler) getSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	detail, err := h.service.GetSession(c.Request.Context(), id)
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "audit session fetched", detail)
}

// @Summary      Delete an audit session
// @Tags         audits
// @Produce      json
// @Param        X-Actor-ID  header  int  true  "Acting user ID"
// @Param        id          path    int  true  "Audit session ID"
// @Success      200  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse
// @Router       /audits/{id} [delete]
func (h *AuditHandler) deleteSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteSession(c.Request.Context(), id); err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "audit session deleted", nil)
}

type scanRequest struct {
	Code            string  `json:"code" binding:"notblank,max=255"`
	FoundLocationID *int64  `json:"found_location_id" binding:"omitempty,gt=0"`
	Notes           *string `json:"notes" binding:"omitempty,max=2000"`
}

// @Summary      Scan an asset
// @Description  Matches code against asset tags, then serial numbers. Scanning the same asset again replaces its entry.
// @Tags         audits
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID  header  int          true  "Acting user ID"
// @Param        id          path    int          true  "Audit session ID"
// @Param        request     body    scanRequest  true  "Scan"
// @Success      200  {object}  response.APIResponse{data=Entry}
// @Failure      400  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse "Session or asset not found"
// @Failure      409  {object}  response.APIResponse "Session is closed"
// @Router       /audits/{id}/scan [post]
func (h *AuditHandler) scan(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, validation.FirstError(err), nil)
		return
	}

	entry, err := h.service.Scan(c.Request.Context(), ScanInput{
		SessionID:       id,
		Code:            req.Code,
		FoundLocationID: req.FoundLocationID,
		ActorID:         middleware.ActorID(c),
		Notes:           req.Notes,
	})
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "asset scanned", entry)
}

// @Summary      Close an audit session
// @Description  Irreversible. A second close is rejected and leaves closed_at and closed_by untouched.
// @Tags         audits
// @Produce      json
// @Param        X-Actor-ID  header  int  true  "Acting user ID"
// @Param        id          path    int  true  "Audit session ID"
// @Success      200  {object}  response.APIResponse{data=Session}
// @Failure      404  {object}  response.APIResponse
// @Failure      409  {object}  response.APIResponse "Already closed"
// @Router       /audits/{id}/close [post]
func (h *AuditHandler) close(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	session, err := h.service.Close(c.Request.Context(), id, middleware.ActorID(c))
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "audit session closed", session)
}

// @Summary      Audit variance
// @Description  Missing, extra and moved assets. Available while the session is open and after it closes.
// @Tags         audits
// @Produce      json
// @Param        id   path  int  true  "Audit session ID"
// @Success      200  {object}  response.APIResponse{data=Variance}
// @Failure      404  {object}  response.APIResponse
// @Router       /audits/{id}/variance [get]
func (h *AuditHandler) variance(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	v, err := h.service.Variance(c.Request.Context(), id)
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "variance computed", v)
}

// @Summary      Live audit feed
// @Description  Websocket stream of entry.scanned and session.closed events for one session.
// @Tags         audits
// @Param        id   path  int  true  "Audit session ID"
// @Success      101
// @Failure      404  {object}  response.APIResponse
// @Router       /audits/{id}/feed [get]
func (h *AuditHandler) serveFeed(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	if err := h.service.SessionExists(c.Request.Context(), id); err != nil {
		response.SendError(c, err)
		return
	}

	h.feed.Serve(c.Writer, c.Request, id)
}
