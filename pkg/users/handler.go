package users

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"itams/pkg/middleware"
	"itams/pkg/response"
	"itams/pkg/validation"
)

type UserHandler struct {
	service UserService
}

func NewUserHandler(service UserService) *UserHandler {
	validation.Register()
	return &UserHandler{service: service}
}

func (h *UserHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/users/login", h.login)
	router.GET("/users", h.listUsers)
	router.GET("/users/:id", h.getUser)

	authed := router.Group("/users", middleware.Actor())
	authed.POST("", h.createUser)
	authed.PUT("/:id", h.updateUser)
	authed.DELETE("/:id", h.deleteUser)
}

type createUserRequest struct {
	Name     string `json:"name" binding:"notblank,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Role     string `json:"role" binding:"omitempty,oneof=admin manager staff"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type updateUserRequest struct {
	Name  string `json:"name" binding:"max=255"`
	Email string `json:"email" binding:"omitempty,email,max=255"`
	Role  string `json:"role" binding:"omitempty,oneof=admin manager staff"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid user id", nil)
		return 0, false
	}
	return id, true
}

// @Summary      Create user
// @Description  Role defaults to staff. Re-creating a deleted user's email revives that user.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID  header  int                true  "Acting user ID"
// @Param        request     body    createUserRequest  true  "Create user request"
// @Success      201 {object} response.APIResponse{data=User}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /users [post]
func (h *UserHandler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, validation.FirstError(err), nil)
		return
	}

	u, err := h.service.CreateUser(c.Request.Context(), req.Name, req.Email, req.Role, req.Password)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "user created", u)
}

// @Summary      Update user
// @Description  Omitted fields keep their current value.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID  header  int                true  "Acting user ID"
// @Param        id          path    int                true  "User ID"
// @Param        request     body    updateUserRequest  true  "Update user request"
// @Success      200 {object} response.APIResponse{data=User}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /users/{id} [put]
func (h *UserHandler) updateUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, validation.FirstError(err), nil)
		return
	}

	u, err := h.service.UpdateUser(c.Request.Context(), User{ID: id, Name: req.Name, Email: req.Email, Role: req.Role})
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "user updated", u)
}

// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Param        X-Actor-ID  header  int  true  "Acting user ID"
// @Param        id          path    int  true  "User ID"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) deleteUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "user deleted", nil)
}

// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200 {object} response.APIResponse{data=User}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /users/{id} [get]
func (h *UserHandler) getUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	u, err := h.service.GetUserByID(c.Request.Context(), id)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "user fetched", u)
}

// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200 {object} response.APIResponse{data=UserList}
// @Failure      500 {object} response.APIResponse
// @Router       /users [get]
func (h *UserHandler) listUsers(c *gin.Context) {
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

	items, total, err := h.service.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		response.SendError(c, err)
		return
	}
	data := UserList{Items: items, Total: total, Page: page, Limit: limit}
	response.SendAPIResponse(c, http.StatusOK, true, "users listed", data)
}

// @Summary      Verify a user's password
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body loginRequest true "Login request"
// @Success      200 {object} response.APIResponse{data=User}
// @Failure      400 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Router       /users/login [post]
func (h *UserHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, validation.FirstError(err), nil)
		return
	}
	u, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "login successful", u)
}
