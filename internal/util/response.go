package util

import (
	"net/http"

	"github.com/haque51/lumina-finance-backend/internal/apperr"

	"github.com/gin-gonic/gin"
)

// Response is the data payload of a success envelope.
type Response map[string]interface{}

// Success writes the unified success envelope.
func Success(c *gin.Context, message string, data Response) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": message,
		"data":    data,
	})
}

// Error writes the unified error envelope.
func Error(c *gin.Context, httpStatus int, errMsg string) {
	c.JSON(httpStatus, gin.H{
		"status": "error",
		"error":  errMsg,
	})
}

// ErrorDetails writes the error envelope with extra detail payload.
func ErrorDetails(c *gin.Context, httpStatus int, errMsg string, details interface{}) {
	c.JSON(httpStatus, gin.H{
		"status":  "error",
		"error":   errMsg,
		"details": details,
	})
}

// ServiceError maps a service-layer error onto the error envelope using
// the apperr taxonomy. Unexpected errors become an opaque 500.
func ServiceError(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		Error(c, status, "internal error")
		return
	}
	Error(c, status, err.Error())
}
