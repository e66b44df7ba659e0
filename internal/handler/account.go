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

// AccountHandler serves account CRUD and the balance summary.
type AccountHandler struct {
	DB    *gorm.DB
	Rates service.RateProvider
}

func NewAccountHandler(db *gorm.DB, rates service.RateProvider) *AccountHandler {
	return &AccountHandler{DB: db, Rates: rates}
}

type createAccountReq struct {
	Name           string          `json:"name" binding:"required,max=64"`
	Type           string          `json:"type" binding:"required"`
	Currency       string          `json:"currency" binding:"required"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

type accountResp struct {
	ID             uint            `json:"id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Currency       string          `json:"currency"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
}

func toAccountResp(a *models.Account) accountResp {
	return accountResp{
		ID:             a.ID,
		Name:           a.Name,
		Type:           string(a.Type),
		Currency:       a.Currency,
		OpeningBalance: a.OpeningBalance,
		CurrentBalance: a.CurrentBalance,
		IsActive:       a.IsActive,
		CreatedAt:      a.CreatedAt,
	}
}

func (h *AccountHandler) Create(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	var req createAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	accType := models.AccountType(req.Type)
	if !accType.Valid() {
		util.Error(c, http.StatusBadRequest, "unknown account type")
		return
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if err := util.ValidateCurrency(currency); err != nil {
		util.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	acc := models.Account{
		UserID:         user.ID,
		Name:           strings.TrimSpace(req.Name),
		Type:           accType,
		Currency:       currency,
		OpeningBalance: req.OpeningBalance,
		CurrentBalance: req.OpeningBalance, // balance starts at the opening amount
		IsActive:       true,
	}
	if err := h.DB.Create(&acc).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	util.Success(c, "account created", util.Response{"account": toAccountResp(&acc)})
}

func (h *AccountHandler) List(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	q := h.DB.Where("user_id = ?", user.ID)
	if t := c.Query("type"); t != "" {
		q = q.Where("type = ?", t)
	}
	if cur := c.Query("currency"); cur != "" {
		q = q.Where("currency = ?", strings.ToUpper(cur))
	}
	if act := c.Query("active"); act != "" {
		q = q.Where("is_active = ?", act == "true")
	}

	var accounts []models.Account
	if err := q.Order("created_at ASC").Find(&accounts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	items := make([]accountResp, 0, len(accounts))
	for i := range accounts {
		items = append(items, toAccountResp(&accounts[i]))
	}
	util.Success(c, "", util.Response{"accounts": items})
}

func (h *AccountHandler) Get(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var acc models.Account
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&acc).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "account not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}
	util.Success(c, "", util.Response{"account": toAccountResp(&acc)})
}

type updateAccountReq struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
}

// Update changes display attributes only. Currency and opening balance
// are fixed at creation; the running balance belongs to the ledger.
func (h *AccountHandler) Update(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var acc models.Account
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&acc).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "account not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			util.Error(c, http.StatusBadRequest, "name must not be empty")
			return
		}
		acc.Name = name
	}
	if req.IsActive != nil {
		acc.IsActive = *req.IsActive
	}
	if err := h.DB.Save(&acc).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	util.Success(c, "account updated", util.Response{"account": toAccountResp(&acc)})
}

// Delete soft-deletes an account. Refused while any live transaction
// still references it.
func (h *AccountHandler) Delete(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var acc models.Account
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&acc).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "account not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	var count int64
	if err := h.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND (account_id = ? OR to_account_id = ?)", user.ID, id, id).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusConflict, "account has transactions, delete them first")
		return
	}

	if err := h.DB.Delete(&acc).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	util.Success(c, "account deleted", util.Response{})
}

// Summary returns per-currency asset/debt totals plus a net worth figure
// converted into the user's base currency.
func (h *AccountHandler) Summary(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	var accounts []models.Account
	if err := h.DB.Where("user_id = ? AND is_active = ?", user.ID, true).
		Find(&accounts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	type currencyTotals struct {
		Currency string          `json:"currency"`
		Assets   decimal.Decimal `json:"assets"`
		Debts    decimal.Decimal `json:"debts"`
		Net      decimal.Decimal `json:"net"`
	}
	byCurrency := make(map[string]*currencyTotals)
	now := time.Now()
	netWorth := decimal.Zero
	conversionComplete := true

	for i := range accounts {
		a := &accounts[i]
		ct, ok := byCurrency[a.Currency]
		if !ok {
			ct = &currencyTotals{Currency: a.Currency}
			byCurrency[a.Currency] = ct
		}
		if a.Type.IsDebt() {
			ct.Debts = ct.Debts.Add(a.CurrentBalance)
		} else {
			ct.Assets = ct.Assets.Add(a.CurrentBalance)
		}

		converted, err := service.Convert(h.Rates, a.CurrentBalance, a.Currency, user.BaseCurrency, now)
		if err != nil {
			conversionComplete = false
			continue
		}
		if a.Type.IsDebt() {
			netWorth = netWorth.Sub(converted)
		} else {
			netWorth = netWorth.Add(converted)
		}
	}

	totals := make([]currencyTotals, 0, len(byCurrency))
	for _, ct := range byCurrency {
		ct.Net = ct.Assets.Sub(ct.Debts)
		totals = append(totals, *ct)
	}

	util.Success(c, "", util.Response{
		"by_currency":         totals,
		"base_currency":       user.BaseCurrency,
		"net_worth":           netWorth,
		"conversion_complete": conversionComplete,
	})
}
