package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/streamvault/streamvault/internal/logger"
)

// httpStatus maps an error type to its HTTP status code
func httpStatus(t ErrorType) int {
	switch t {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ToGinResponse sends err as a standardized JSON error response.
// ServiceErrors map onto 400/404/409; anything else is a 500.
func ToGinResponse(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := string(ErrorTypeInternal)
	message := err.Error()

	var sErr *ServiceError
	if errors.As(err, &sErr) {
		status = httpStatus(sErr.Type)
		code = string(sErr.Type)
		if sErr.Err != nil {
			message = sErr.Err.Error()
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error("HTTP error response: status=%d path=%s err=%v", status, c.Request.URL.Path, err)
	}

	c.JSON(status, gin.H{
		"error": message,
		"code":  code,
	})
}
