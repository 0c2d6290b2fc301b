package response

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ballotline/ballotline-api/internal/apperr"
)

// Response is the standard API response envelope
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ErrorResponse is the error envelope
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    int    `json:"code"`
}

// SuccessResponse sends a success envelope
func SuccessResponse(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponseWithMessage sends an error envelope with a custom message
func ErrorResponseWithMessage(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{
		Success: false,
		Error:   message,
		Code:    status,
	})
}

// BadRequestError sends a 400 error
func BadRequestError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusBadRequest, message)
}

// ForbiddenError sends a 403 error
func ForbiddenError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusForbidden, message)
}

// NotFoundError sends a 404 error
func NotFoundError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusNotFound, message)
}

// ConflictError sends a 409 error
func ConflictError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusConflict, message)
}

// UnauthorizedError sends a 401 error
func UnauthorizedError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusUnauthorized, message)
}

// RateLimitedError sends a 429 error with a Retry-After header
func RateLimitedError(c *gin.Context, message string, retryAfter time.Duration) {
	seconds := int(retryAfter.Round(time.Second) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	c.Header("Retry-After", strconv.Itoa(seconds))
	ErrorResponseWithMessage(c, http.StatusTooManyRequests, message)
}

// InternalServerError sends a 500 error
func InternalServerError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusInternalServerError, message)
}

// FromError maps a classified application error to its stable HTTP status so
// API consumers can branch on the failure kind
func FromError(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		BadRequestError(c, err.Error())
	case apperr.KindPermissionDenied:
		ForbiddenError(c, err.Error())
	case apperr.KindNotFound:
		NotFoundError(c, err.Error())
	case apperr.KindConflict:
		ConflictError(c, err.Error())
	case apperr.KindRateLimited:
		RateLimitedError(c, err.Error(), apperr.RetryAfterOf(err))
	default:
		InternalServerError(c, "internal server error")
	}
}
