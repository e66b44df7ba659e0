package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/haque51/lumina-finance-backend/internal/models"
	"github.com/haque51/lumina-finance-backend/internal/service"
	"github.com/haque51/lumina-finance-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RateHandler serves exchange-rate snapshots.
type RateHandler struct {
	DB       *gorm.DB
	Provider *service.DBRateProvider
}

func NewRateHandler(db *gorm.DB, provider *service.DBRateProvider) *RateHandler {
	return &RateHandler{DB: db, Provider: provider}
}

type rateReq struct {
	Base  string          `json:"base" binding:"required"`
	Quote string          `json:"quote" binding:"required"`
	Rate  decimal.Decimal `json:"rate" binding:"required"`
	AsOf  string          `json:"as_of"` // YYYY-MM-DD, default today
}

// Create appends one rate snapshot.
func (h *RateHandler) Create(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	var req rateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	base := strings.ToUpper(strings.TrimSpace(req.Base))
	quote := strings.ToUpper(strings.TrimSpace(req.Quote))
	if err := util.ValidateCurrency(base); err != nil {
		util.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := util.ValidateCurrency(quote); err != nil {
		util.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	if base == quote {
		util.Error(c, http.StatusBadRequest, "base and quote must differ")
		return
	}

	asOf := time.Now()
	if req.AsOf != "" {
		var err error
		asOf, err = util.ValidateDate(req.AsOf)
		if err != nil {
			util.Error(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	rec, err := h.Provider.Put(base, quote, req.Rate, asOf)
	if err != nil {
		util.ServiceError(c, err)
		return
	}
	util.Success(c, "rate recorded", util.Response{"rate": rec})
}

// List returns snapshots for an optional pair, newest first.
func (h *RateHandler) List(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	q := h.DB.Model(&models.ExchangeRate{})
	if base := c.Query("base"); base != "" {
		q = q.Where("base = ?", strings.ToUpper(base))
	}
	if quote := c.Query("quote"); quote != "" {
		q = q.Where("quote = ?", strings.ToUpper(quote))
	}
	var rates []models.ExchangeRate
	if err := q.Order("as_of DESC").Limit(200).Find(&rates).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	util.Success(c, "", util.Response{"rates": rates})
}
