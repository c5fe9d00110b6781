package handlers

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/chat_app/internal/middleware"
	"github.com/mroshb/chat_app/pkg/errors"
	"github.com/mroshb/chat_app/pkg/logger"
)

var statusByCode = map[string]int{
	errors.ErrCodeUnauthenticated:    http.StatusUnauthorized,
	errors.ErrCodeValidation:         http.StatusBadRequest,
	errors.ErrCodeNotFound:           http.StatusNotFound,
	errors.ErrCodeForbidden:          http.StatusForbidden,
	errors.ErrCodeInvariantViolation: http.StatusConflict,
	errors.ErrCodeAlreadyExists:      http.StatusConflict,
	errors.ErrCodeRateLimitExceeded:  http.StatusTooManyRequests,
	errors.ErrCodeInternalError:      http.StatusInternalServerError,
}

// respondError renders err as {"error": {"code", "message"}}. Internal
// errors are logged and their detail is withheld.
func respondError(c *gin.Context, err error) {
	code := errors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	message := "internal server error"
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) && status != http.StatusInternalServerError {
		message = appErr.Message
	}
	if status == http.StatusInternalServerError {
		logger.Error("Request error", "error", err, "request_id", middleware.GetRequestID(c))
	}

	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}

func respondSuccess(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// pathID parses a positive numeric path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, errors.Newf(errors.ErrCodeValidation, "invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the body or renders a validation error.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodeValidation, "invalid body"))
		return false
	}
	return true
}
