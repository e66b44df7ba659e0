package handler

import (
	"net/http"
	"strconv"

	"github.com/haque51/lumina-finance-backend/internal/models"
	"github.com/haque51/lumina-finance-backend/internal/util"

	"github.com/gin-gonic/gin"
)

// currentUser pulls the authenticated user set by AuthMiddleware. When it
// is absent the 401 has already been written by the caller's check.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get("currentUser")
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// requireUser writes a 401 and returns nil when no user is attached.
func requireUser(c *gin.Context) *models.User {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, "authentication required")
	}
	return user
}

// pathID parses the :id route parameter.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// pagination parses ?page and ?page_size with the configured default.
func pagination(c *gin.Context, defaultSize int) (page, size, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultSize)))
	if size <= 0 || size > 100 {
		size = defaultSize
	}
	return page, size, (page - 1) * size
}
