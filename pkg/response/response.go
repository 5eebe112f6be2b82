package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"itams/pkg/apperr"
)

type APIResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Code      string    `json:"code,omitempty"`
	Data      any       `json:"data,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

func SendAPIResponse(c *gin.Context, code int, success bool, message string, data any) {
	resp := APIResponse{
		Success:   success,
		Message:   message,
		Data:      data,
		CreatedAt: time.Now(),
	}

	c.JSON(code, resp)
}

// SendError maps a classified error onto the envelope. Internal errors are
// logged with their full chain and answered with a generic message.
func SendError(c *gin.Context, err error) {
	typed := apperr.As(err)
	if typed == nil || typed.Kind() == apperr.KindInternal {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("request.failed")
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success:   false,
			Message:   "internal server error",
			Code:      string(apperr.KindInternal),
			CreatedAt: time.Now(),
		})
		return
	}

	c.JSON(apperr.HTTPStatus(typed.Kind()), APIResponse{
		Success:   false,
		Message:   typed.Message(),
		Code:      string(typed.Kind()),
		CreatedAt: time.Now(),
	})
}
