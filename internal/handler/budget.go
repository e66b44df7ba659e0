package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/haque51/lumina-finance-backend/internal/models"
	"github.com/haque51/lumina-finance-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetHandler serves per-category monthly budgets. Spend against a
// budget is computed on read from matching expense entries, never stored.
type BudgetHandler struct {
	DB *gorm.DB
}

func NewBudgetHandler(db *gorm.DB) *BudgetHandler {
	return &BudgetHandler{DB: db}
}

type budgetReq struct {
	CategoryID uint            `json:"category_id" binding:"required"`
	Month      string          `json:"month" binding:"required"` // YYYY-MM
	Amount     decimal.Decimal `json:"amount" binding:"required"`
}

type budgetResp struct {
	ID         uint            `json:"id"`
	CategoryID uint            `json:"category_id"`
	Month      string          `json:"month"`
	Amount     decimal.Decimal `json:"amount"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
}

// spent sums the magnitudes of expense entries for one category in one
// month. Expense amounts are stored negative, so the sum is negated.
func (h *BudgetHandler) spent(userID, categoryID uint, month string) (decimal.Decimal, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return decimal.Zero, err
	}
	end := start.AddDate(0, 1, 0)

	var entries []models.Transaction
	if err := h.DB.
		Where("user_id = ? AND category_id = ? AND type = ? AND date >= ? AND date < ?",
			userID, categoryID, models.TransactionExpense, start, end).
		Find(&entries).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for i := range entries {
		total = total.Add(entries[i].Amount)
	}
	return total.Neg(), nil
}

func (h *BudgetHandler) toResp(b *models.Budget) (budgetResp, error) {
	spent, err := h.spent(b.UserID, b.CategoryID, b.Month)
	if err != nil {
		return budgetResp{}, err
	}
	return budgetResp{
		ID:         b.ID,
		CategoryID: b.CategoryID,
		Month:      b.Month,
		Amount:     b.Amount,
		Spent:      spent,
		Remaining:  b.Amount.Sub(spent),
	}, nil
}

func (h *BudgetHandler) Create(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	var req budgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := util.ValidateMonth(req.Month); err != nil {
		util.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Amount.Sign() <= 0 {
		util.Error(c, http.StatusBadRequest, "amount must be positive")
		return
	}

	var cat models.Category
	if err := h.DB.Where("id = ? AND user_id = ?", req.CategoryID, user.ID).First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "category not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}
	if cat.Type != "expense" {
		util.Error(c, http.StatusBadRequest, "budgets apply to expense categories only")
		return
	}

	var count int64
	if err := h.DB.Model(&models.Budget{}).
		Where("user_id = ? AND category_id = ? AND month = ?", user.ID, req.CategoryID, req.Month).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusConflict, "budget already exists for this category and month")
		return
	}

	budget := models.Budget{
		UserID:     user.ID,
		CategoryID: req.CategoryID,
		Month:      req.Month,
		Amount:     req.Amount,
	}
	if err := h.DB.Create(&budget).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	resp, err := h.toResp(&budget)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	util.Success(c, "budget created", util.Response{"budget": resp})
}

func (h *BudgetHandler) List(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	q := h.DB.Where("user_id = ?", user.ID)
	if month := c.Query("month"); month != "" {
		if err := util.ValidateMonth(month); err != nil {
			util.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		q = q.Where("month = ?", month)
	}
	var budgets []models.Budget
	if err := q.Order("month DESC").Find(&budgets).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	items := make([]budgetResp, 0, len(budgets))
	for i := range budgets {
		resp, err := h.toResp(&budgets[i])
		if err != nil {
			util.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		items = append(items, resp)
	}
	util.Success(c, "", util.Response{"budgets": items})
}

func (h *BudgetHandler) Get(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var budget models.Budget
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "budget not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}
	resp, err := h.toResp(&budget)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	util.Success(c, "", util.Response{"budget": resp})
}

type budgetPatchReq struct {
	Amount *decimal.Decimal `json:"amount"`
}

func (h *BudgetHandler) Update(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req budgetPatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var budget models.Budget
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "budget not found")
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
		budget.Amount = *req.Amount
	}
	if err := h.DB.Save(&budget).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	resp, err := h.toResp(&budget)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	util.Success(c, "budget updated", util.Response{"budget": resp})
}

func (h *BudgetHandler) Delete(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	res := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.Budget{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "budget not found")
		return
	}
	util.Success(c, "budget deleted", util.Response{})
}
