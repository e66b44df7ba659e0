package handler

import (
	"net/http"

	"github.com/haque51/lumina-finance-backend/internal/models"
	"github.com/haque51/lumina-finance-backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LogHandler lists the caller's audit log.
type LogHandler struct {
	DB *gorm.DB
}

func NewLogHandler(db *gorm.DB) *LogHandler {
	return &LogHandler{DB: db}
}

func (h *LogHandler) List(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	page, size, offset := pagination(c, 20)

	q := h.DB.Model(&models.AuditLog{}).Where("user_id = ?", user.ID)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	var logs []models.AuditLog
	if err := q.Session(&gorm.Session{}).
		Order("created_at DESC").
		Limit(size).
		Offset(offset).
		Find(&logs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	util.Success(c, "", util.Response{
		"items": logs,
		"total": total,
		"page":  page,
		"size":  size,
	})
}
