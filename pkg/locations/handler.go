package locations

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"itams/pkg/middleware"
	"itams/pkg/response"
	"itams/pkg/validation"
)

type LocationHandler struct {
	service LocationService
}

func NewLocationHandler(service LocationService) *LocationHandler {
	validation.Register()
	return &LocationHandler{service: service}
}

func (h *LocationHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/locations", h.listLocations)
	router.GET("/locations/:id", h.getLocationByID)

	authed := router.Group("/locations", middleware.Actor())
	authed.POST("", h.createLocation)
	authed.PUT("/:id", h.updateLocation)
	authed.DELETE("/:id", h.deleteLocation)
}

type locationRequest struct {
	Name string `json:"name" binding:"required,notblank,max=255"`
}

// @Summary      Create a location
// @Tags         locations
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID  header  int              true  "Acting user ID"
// @Param        request     body    locationRequest  true  "Location"
// @Success      201  {object}  response.APIResponse{data=Location}
// @Failure      400  {object}  response.APIResponse
// @Failure      409  {object}  response.APIResponse "Name already exists"
// @Router       /locations [post]
func (h *LocationHandler) createLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, validation.FirstError(err), nil)
		return
	}

	location, err := h.service.CreateLocation(c.Request.Context(), req.Name)
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusCreated, true, "location created", location)
}

// @Summary      Rename a location
// @Tags         locations
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID  header  int              true  "Acting user ID"
// @Param        id          path    int              true  "Location ID"
// @Param        request     body    locationRequest  true  "Location"
// @Success      200  {object}  response.APIResponse{data=Location}
// @Failure      400  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse
// @Failure      409  {object}  response.APIResponse
// @Router       /locations/{id} [put]
func (h *LocationHandler) updateLocation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid location id", nil)
		return
	}

	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, validation.FirstError(err), nil)
		return
	}

	location, err := h.service.UpdateLocation(c.Request.Context(), id, req.Name)
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "location updated", location)
}

// @Summary      Delete a location
// @Description  Assets at the location keep existing with no location. Refused while audit sessions reference it.
// @Tags         locations
// @Produce      json
// @Param        X-Actor-ID  header  int  true  "Acting user ID"
// @Param        id          path    int  true  "Location ID"
// @Success      200  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse
// @Failure      409  {object}  response.APIResponse "Referenced by audit sessions"
// @Router       /locations/{id} [delete]
func (h *LocationHandler) deleteLocation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid location id", nil)
		return
	}

	if err := h.service.DeleteLocation(c.Request.Context(), id); err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "location deleted", nil)
}

// @Summary      Get a location
// @Tags         locations
// @Produce      json
// @Param        id   path  int  true  "Location ID"
// @Success      200  {object}  response.APIResponse{data=Location}
// @Failure      404  {object}  response.APIResponse
// @Router       /locations/{id} [get]
func (h *LocationHandler) getLocationByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid location id", nil)
		return
	}

	location, err := h.service.GetLocationByID(c.Request.Context(), id)
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "location fetched", location)
}

// @Summary      List locations
// @Description  Lists every location with the number of assets recorded there.
// @Tags         locations
// @Produce      json
// @Success      200  {object}  response.APIResponse{data=[]Location}
// @Router       /locations [get]
func (h *LocationHandler) listLocations(c *gin.Context) {
	list, err := h.service.ListLocations(c.Request.Context())
	if err != nil {
		response.SendError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "locations listed", list)
}
