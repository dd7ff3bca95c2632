package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cg-server/internal/utils/platformerrors"
)

// ErrorResponse is the uniform error body for every endpoint.
type ErrorResponse struct {
	Detail        string `json:"detail"`
	RequestID     string `json:"request_id,omitempty"`
	ErrorInstance error  `json:"-"`
}

// HandleError maps a classified error to its HTTP status. The fallback
// message is used when the error carries no caller-safe one.
func HandleError(reqCtx *gin.Context, err error, message string) {
	status := platformerrors.HTTPStatus(err)

	detail := message
	var pe *platformerrors.PlatformError
	if errors.As(err, &pe) && pe.Message != "" {
		detail = pe.Message
	}

	reqCtx.AbortWithStatusJSON(status, ErrorResponse{
		Detail:        detail,
		RequestID:     reqCtx.GetString("request_id"),
		ErrorInstance: err,
	})
}

// HandleErrorWithStatus responds with an explicit status at the route layer.
func HandleErrorWithStatus(reqCtx *gin.Context, status int, err error, message string) {
	reqCtx.AbortWithStatusJSON(status, ErrorResponse{
		Detail:        message,
		RequestID:     reqCtx.GetString("request_id"),
		ErrorInstance: err,
	})
}

// HandleUpstreamError hides provider failure detail behind a generic message.
func HandleUpstreamError(reqCtx *gin.Context, err error) {
	reqCtx.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Detail:        "AI provider error. See server logs.",
		RequestID:     reqCtx.GetString("request_id"),
		ErrorInstance: err,
	})
}
