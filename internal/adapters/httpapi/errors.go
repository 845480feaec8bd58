package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"postboard/internal/core/apperror"
)

// statusOf maps an apperror kind to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperror.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": msg}. Unexpected errors are logged
// and hidden from the client.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": apperror.Message(err, err.Error())})
}

var bindingMessages = map[string]string{
	"required": "%s is required",
	"min":      "%s must be at least %s characters",
	"max":      "%s must be at most %s characters",
	"email":    "%s must be a valid email address",
}

// bindingError turns a ShouldBind failure into a validation error naming
// the first offending field.
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperror.Validation("invalid input")
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	msg, ok := bindingMessages[fe.Tag()]
	if !ok {
		return apperror.Validation(field + " is invalid")
	}
	if strings.Count(msg, "%s") == 2 {
		return apperror.Validation(fmt.Sprintf(msg, field, fe.Param()))
	}
	return apperror.Validation(fmt.Sprintf(msg, field))
}
