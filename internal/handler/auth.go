package handler

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/haque51/lumina-finance-backend/internal/models"
	"github.com/haque51/lumina-finance-backend/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler serves register and login.
type AuthHandler struct {
	DB           *gorm.DB
	JWTSecret    string
	TokenTTL     time.Duration
	BaseCurrency string
}

func NewAuthHandler(db *gorm.DB, jwtSecret string, ttlHours int, baseCurrency string) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	if baseCurrency == "" {
		baseCurrency = "USD"
	}
	return &AuthHandler{
		DB:           db,
		JWTSecret:    jwtSecret,
		TokenTTL:     time.Duration(ttlHours) * time.Hour,
		BaseCurrency: baseCurrency,
	}
}

type registerReq struct {
	Username        string `json:"username" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	DisplayName     string `json:"display_name" binding:"max=64"`
	BaseCurrency    string `json:"base_currency"`
}

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if !usernameRe.MatchString(req.Username) {
		util.Error(c, http.StatusBadRequest, "username must be 3-20 letters, digits or underscores")
		return
	}
	if !isStrongPassword(req.Password) {
		util.Error(c, http.StatusBadRequest, "password must be 8-32 chars with upper, lower and digit")
		return
	}
	if req.Password != req.ConfirmPassword {
		util.Error(c, http.StatusBadRequest, "passwords do not match")
		return
	}

	baseCurrency := strings.ToUpper(strings.TrimSpace(req.BaseCurrency))
	if baseCurrency == "" {
		baseCurrency = h.BaseCurrency
	}
	if err := util.ValidateCurrency(baseCurrency); err != nil {
		util.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	// case-insensitive unique username
	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("LOWER(username) = LOWER(?)", req.Username).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusConflict, "username already taken")
		return
	}

	const bcryptCost = 12
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
		BaseCurrency: baseCurrency,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	util.Success(c, "registered", util.Response{
		"user": gin.H{
			"id":            user.ID,
			"username":      user.Username,
			"display_name":  user.DisplayName,
			"base_currency": user.BaseCurrency,
		},
	})
}

// 8-32 chars with upper, lower and digit
func isStrongPassword(pwd string) bool {
	if len(pwd) < 8 || len(pwd) > 32 {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, ch := range pwd {
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= 'a' && ch <= 'z':
			hasLower = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	var user models.User
	if err := h.DB.Where("LOWER(username) = LOWER(?)", req.Username).
		First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusUnauthorized, "invalid username or password")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	now := time.Now()
	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		util.Error(c, http.StatusUnauthorized, "account locked, try again later")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		// 5 consecutive failures lock the account for 10 minutes
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= 5 {
			lockUntil := now.Add(10 * time.Minute)
			user.LockedUntil = &lockUntil
			user.FailedLoginAttempts = 0
		}
		_ = h.DB.Save(&user).Error
		util.Error(c, http.StatusUnauthorized, "invalid username or password")
		return
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginIP = c.ClientIP()
	user.LastLoginAt = &now
	_ = h.DB.Save(&user).Error

	token, err := util.GenerateToken(h.JWTSecret, user.ID, h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	util.Success(c, "logged in", util.Response{
		"token": token,
		"user": gin.H{
			"id":            user.ID,
			"username":      user.Username,
			"display_name":  user.DisplayName,
			"base_currency": user.BaseCurrency,
		},
	})
}
