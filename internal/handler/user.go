package handler

import (
	"net/http"
	"strings"

	"github.com/haque51/lumina-finance-backend/internal/models"
	"github.com/haque51/lumina-finance-backend/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// GetMe returns the current user.
func GetMe(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	util.Success(c, "", util.Response{
		"user": gin.H{
			"id":            user.ID,
			"username":      user.Username,
			"display_name":  user.DisplayName,
			"base_currency": user.BaseCurrency,
			"created_at":    user.CreatedAt,
		},
	})
}

type updateMeReq struct {
	DisplayName  *string `json:"display_name"`
	BaseCurrency *string `json:"base_currency"`
}

// UpdateMe changes display name and/or base currency.
func UpdateMe(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := requireUser(c)
		if user == nil {
			return
		}
		var req updateMeReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.DisplayName != nil {
			user.DisplayName = *req.DisplayName
		}
		if req.BaseCurrency != nil {
			cur := strings.ToUpper(strings.TrimSpace(*req.BaseCurrency))
			if err := util.ValidateCurrency(cur); err != nil {
				util.Error(c, http.StatusBadRequest, err.Error())
				return
			}
			user.BaseCurrency = cur
		}
		if err := db.Save(user).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		util.Success(c, "profile updated", util.Response{
			"user": gin.H{
				"id":            user.ID,
				"display_name":  user.DisplayName,
				"base_currency": user.BaseCurrency,
			},
		})
	}
}

type changePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword verifies the old password and stores a new hash.
func ChangePassword(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := requireUser(c)
		if user == nil {
			return
		}
		var req changePasswordReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
			util.Error(c, http.StatusUnauthorized, "old password incorrect")
			return
		}
		if !isStrongPassword(req.NewPassword) {
			util.Error(c, http.StatusBadRequest, "password must be 8-32 chars with upper, lower and digit")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), 12)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		if err := db.Model(&models.User{}).Where("id = ?", user.ID).
			Update("password_hash", string(hash)).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		util.Success(c, "password changed", util.Response{})
	}
}
