package handler

import (
	"errors"
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

// RecurringHandler serves recurring rules and their on-demand processing.
type RecurringHandler struct {
	DB  *gorm.DB
	Svc *service.RecurringService
}

func NewRecurringHandler(db *gorm.DB, svc *service.RecurringService) *RecurringHandler {
	return &RecurringHandler{DB: db, Svc: svc}
}

type recurringReq struct {
	Type        string          `json:"type" binding:"required,oneof=income expense transfer"`
	AccountID   uint            `json:"account_id" binding:"required"`
	ToAccountID *uint           `json:"to_account_id"`
	CategoryID  *uint           `json:"category_id"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency"`
	Payee       string          `json:"payee" binding:"max=128"`
	Note        string          `json:"note" binding:"max=1024"`
	Frequency   string          `json:"frequency" binding:"required"`
	Interval    int             `json:"interval"`
	StartDate   string          `json:"start_date" binding:"required"`
	EndDate     *string         `json:"end_date"`
}

type recurringResp struct {
	ID            uint            `json:"id"`
	Type          string          `json:"type"`
	AccountID     uint            `json:"account_id"`
	ToAccountID   *uint           `json:"to_account_id,omitempty"`
	CategoryID    *uint           `json:"category_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Payee         string          `json:"payee"`
	Frequency     string          `json:"frequency"`
	Interval      int             `json:"interval"`
	StartDate     string          `json:"start_date"`
	EndDate       *string         `json:"end_date,omitempty"`
	LastProcessed *string         `json:"last_processed,omitempty"`
	IsActive      bool            `json:"is_active"`
	NextDue       string          `json:"next_due"`
	IsDue         bool            `json:"is_due"`
	Ended         bool            `json:"ended"`
}

func toRecurringResp(r *models.RecurringRule, today time.Time) recurringResp {
	resp := recurringResp{
		ID:          r.ID,
		Type:        string(r.Type),
		AccountID:   r.AccountID,
		ToAccountID: r.ToAccountID,
		CategoryID:  r.CategoryID,
		Amount:      r.Amount,
		Currency:    r.Currency,
		Payee:       r.Payee,
		Frequency:   string(r.Frequency),
		Interval:    r.Interval,
		StartDate:   r.StartDate.Format("2006-01-02"),
		IsActive:    r.IsActive,
		NextDue:     service.NextDue(r).Format("2006-01-02"),
		IsDue:       service.IsDue(r, today),
		Ended:       service.Ended(r),
	}
	if r.EndDate != nil {
		d := r.EndDate.Format("2006-01-02")
		resp.EndDate = &d
	}
	if r.LastProcessed != nil {
		d := r.LastProcessed.Format("2006-01-02")
		resp.LastProcessed = &d
	}
	return resp
}

func (h *RecurringHandler) Create(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	var req recurringReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	freq := models.Frequency(req.Frequency)
	if !freq.Valid() {
		util.Error(c, http.StatusBadRequest, "invalid frequency")
		return
	}
	interval := req.Interval
	if interval == 0 {
		interval = 1
	}
	if interval < 1 {
		util.Error(c, http.StatusBadRequest, "interval must be >= 1")
		return
	}
	if req.Amount.Sign() <= 0 {
		util.Error(c, http.StatusBadRequest, "amount must be positive")
		return
	}
	start, err := util.ValidateDate(req.StartDate)
	if err != nil {
		util.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	var acc models.Account
	if err := h.DB.Where("id = ? AND user_id = ?", req.AccountID, user.ID).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "account not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = acc.Currency
	}
	if currency != acc.Currency {
		util.Error(c, http.StatusBadRequest, "currency mismatch with account")
		return
	}

	tType := models.TransactionType(req.Type)
	if tType == models.TransactionTransfer {
		if req.ToAccountID == nil {
			util.Error(c, http.StatusBadRequest, "transfer rule requires to_account_id")
			return
		}
		if req.CategoryID != nil {
			util.Error(c, http.StatusBadRequest, "transfer rule cannot carry a category")
			return
		}
		if *req.ToAccountID == req.AccountID {
			util.Error(c, http.StatusBadRequest, "transfer rule requires two distinct accounts")
			return
		}
		var dst models.Account
		if err := h.DB.Where("id = ? AND user_id = ?", *req.ToAccountID, user.ID).First(&dst).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				util.Error(c, http.StatusNotFound, "destination account not found")
			} else {
				util.Error(c, http.StatusInternalServerError, "internal error")
			}
			return
		}
		if dst.Currency != acc.Currency {
			util.Error(c, http.StatusBadRequest, "transfer rule requires matching account currencies")
			return
		}
	}
	if req.CategoryID != nil {
		var cat models.Category
		if err := h.DB.Where("id = ? AND user_id = ?", *req.CategoryID, user.ID).First(&cat).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				util.Error(c, http.StatusNotFound, "category not found")
			} else {
				util.Error(c, http.StatusInternalServerError, "internal error")
			}
			return
		}
		if cat.Type != req.Type {
			util.Error(c, http.StatusBadRequest, "category type mismatch")
			return
		}
	}

	rule := models.RecurringRule{
		UserID:      user.ID,
		AccountID:   req.AccountID,
		ToAccountID: req.ToAccountID,
		CategoryID:  req.CategoryID,
		Type:        tType,
		Amount:      req.Amount.Abs(),
		Currency:    currency,
		Payee:       req.Payee,
		Note:        req.Note,
		Frequency:   freq,
		Interval:    interval,
		StartDate:   start,
		IsActive:    true,
	}
	if req.EndDate != nil {
		end, err := util.ValidateDate(*req.EndDate)
		if err != nil {
			util.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		if end.Before(start) {
			util.Error(c, http.StatusBadRequest, "end_date before start_date")
			return
		}
		rule.EndDate = &end
	}

	if err := h.DB.Create(&rule).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	util.Success(c, "recurring rule created", util.Response{
		"rule": toRecurringResp(&rule, time.Now()),
	})
}

func (h *RecurringHandler) List(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	q := h.DB.Where("user_id = ?", user.ID)
	if act := c.Query("active"); act != "" {
		q = q.Where("is_active = ?", act == "true")
	}
	var rules []models.RecurringRule
	if err := q.Order("created_at ASC").Find(&rules).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	today := time.Now()
	items := make([]recurringResp, 0, len(rules))
	for i := range rules {
		items = append(items, toRecurringResp(&rules[i], today))
	}
	util.Success(c, "", util.Response{"rules": items})
}

func (h *RecurringHandler) Get(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var rule models.RecurringRule
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "recurring rule not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}
	util.Success(c, "", util.Response{"rule": toRecurringResp(&rule, time.Now())})
}

type recurringPatchReq struct {
	Amount    *decimal.Decimal `json:"amount"`
	Payee     *string          `json:"payee"`
	Note      *string          `json:"note"`
	Frequency *string          `json:"frequency"`
	Interval  *int             `json:"interval"`
	EndDate   *string          `json:"end_date"`
	IsActive  *bool            `json:"is_active"`
}

func (h *RecurringHandler) Update(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req recurringPatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var rule models.RecurringRule
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "recurring rule not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	if req.Amount != nil {
		if req.Amount.Sign() <= 0 {
			util.Error(c, http.StatusBadRequest, "amount must be positive")
			return
		}
		rule.Amount = req.Amount.Abs()
	}
	if req.Payee != nil {
		rule.Payee = *req.Payee
	}
	if req.Note != nil {
		rule.Note = *req.Note
	}
	if req.Frequency != nil {
		freq := models.Frequency(*req.Frequency)
		if !freq.Valid() {
			util.Error(c, http.StatusBadRequest, "invalid frequency")
			return
		}
		rule.Frequency = freq
	}
	if req.Interval != nil {
		if *req.Interval < 1 {
			util.Error(c, http.StatusBadRequest, "interval must be >= 1")
			return
		}
		rule.Interval = *req.Interval
	}
	if req.EndDate != nil {
		end, err := util.ValidateDate(*req.EndDate)
		if err != nil {
			util.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		if end.Before(rule.StartDate) {
			util.Error(c, http.StatusBadRequest, "end_date before start_date")
			return
		}
		rule.EndDate = &end
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if err := h.DB.Save(&rule).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	util.Success(c, "recurring rule updated", util.Response{
		"rule": toRecurringResp(&rule, time.Now()),
	})
}

func (h *RecurringHandler) Delete(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	res := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.RecurringRule{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "recurring rule not found")
		return
	}
	util.Success(c, "recurring rule deleted", util.Response{})
}

// Process materializes one entry from the rule, dated today.
func (h *RecurringHandler) Process(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	today := time.Now().Truncate(24 * time.Hour)
	rule, entry, err := h.Svc.Process(user.ID, id, today)
	if err != nil {
		util.ServiceError(c, err)
		return
	}
	util.Success(c, "recurring rule processed", util.Response{
		"rule":          toRecurringResp(rule, today),
		"created_entry": toTransactionResp(entry),
	})
}
