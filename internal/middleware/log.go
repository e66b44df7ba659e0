package middleware

import (
	"bytes"
	"io"
	"strings"

	"github.com/haque51/lumina-finance-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// sensitiveBody reports whether the route carries credentials; such
// bodies are never persisted, only method and path.
func sensitiveBody(path string) bool {
	return strings.Contains(path, "/auth/") || strings.HasSuffix(path, "/password")
}

// AuditMiddleware records mutating requests of authenticated users.
func AuditMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method == "GET" || method == "HEAD" || method == "OPTIONS" {
			c.Next()
			return
		}

		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		c.Next()

		var userID uint
		if v, ok := c.Get("currentUser"); ok {
			if user, ok := v.(*models.User); ok && user != nil {
				userID = user.ID
			}
		}
		if userID == 0 {
			return
		}

		path := c.Request.URL.Path
		action := method + " " + path
		if len(bodyBytes) > 0 && len(bodyBytes) < 2000 && !sensitiveBody(path) {
			action += " " + string(bodyBytes)
		}

		entry := models.AuditLog{
			UserID:    &userID,
			Method:    method,
			Path:      path,
			Action:    action,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}
		_ = db.Create(&entry).Error
	}
}
