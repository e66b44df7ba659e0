package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/haque51/lumina-finance-backend/internal/models"
	"github.com/haque51/lumina-finance-backend/internal/service"
	"github.com/haque51/lumina-finance-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionHandler shapes HTTP requests into transaction service calls.
type TransactionHandler struct {
	DB       *gorm.DB
	Svc      *service.TransactionService
	PageSize int
}

func NewTransactionHandler(db *gorm.DB, svc *service.TransactionService, pageSize int) *TransactionHandler {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &TransactionHandler{DB: db, Svc: svc, PageSize: pageSize}
}

type transactionReq struct {
	Type        string          `json:"type" binding:"required,oneof=income expense transfer"`
	AccountID   uint            `json:"account_id" binding:"required"`
	ToAccountID *uint           `json:"to_account_id"`
	CategoryID  *uint           `json:"category_id"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency"`
	Date        string          `json:"date"`
	Payee       string          `json:"payee" binding:"max=128"`
	Note        string          `json:"note" binding:"max=1024"`
}

func (r *transactionReq) toInput() (service.CreateInput, error) {
	date := time.Now().Truncate(24 * time.Hour)
	if r.Date != "" {
		var err error
		date, err = util.ValidateDate(r.Date)
		if err != nil {
			return service.CreateInput{}, err
		}
	}
	return service.CreateInput{
		Type:        models.TransactionType(r.Type),
		AccountID:   r.AccountID,
		ToAccountID: r.ToAccountID,
		CategoryID:  r.CategoryID,
		Amount:      r.Amount,
		Currency:    strings.ToUpper(strings.TrimSpace(r.Currency)),
		Date:        date,
		Payee:       r.Payee,
		Note:        r.Note,
	}, nil
}

type transactionResp struct {
	ID          uint            `json:"id"`
	Type        string          `json:"type"`
	AccountID   uint            `json:"account_id"`
	ToAccountID *uint           `json:"to_account_id,omitempty"`
	CategoryID  *uint           `json:"category_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Date        string          `json:"date"`
	Payee       string          `json:"payee"`
	Note        string          `json:"note"`
	Reconciled  bool            `json:"reconciled"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toTransactionResp(e *models.Transaction) transactionResp {
	return transactionResp{
		ID:          e.ID,
		Type:        string(e.Type),
		AccountID:   e.AccountID,
		ToAccountID: e.ToAccountID,
		CategoryID:  e.CategoryID,
		Amount:      e.Amount,
		Currency:    e.Currency,
		Date:        e.Date.Format("2006-01-02"),
		Payee:       e.Payee,
		Note:        e.Note,
		Reconciled:  e.Reconciled,
		CreatedAt:   e.CreatedAt,
	}
}

func (h *TransactionHandler) Create(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	in, err := req.toInput()
	if err != nil {
		util.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	entry, err := h.Svc.Create(user.ID, in)
	if err != nil {
		util.ServiceError(c, err)
		return
	}
	util.Success(c, "transaction created", util.Response{"transaction": toTransactionResp(entry)})
}

// List returns filtered, paginated transactions.
// Filters: type, account_id, category_id, start/end (YYYY-MM-DD),
// min_amount/max_amount, search (payee/note), sort.
func (h *TransactionHandler) List(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	page, size, offset := pagination(c, h.PageSize)

	q := h.DB.Model(&models.Transaction{}).Where("user_id = ?", user.ID)

	if t := c.Query("type"); t != "" {
		q = q.Where("type = ?", t)
	}
	if idStr := c.Query("account_id"); idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "invalid account_id")
			return
		}
		q = q.Where("(account_id = ? OR to_account_id = ?)", id, id)
	}
	if idStr := c.Query("category_id"); idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "invalid category_id")
			return
		}
		q = q.Where("category_id = ?", id)
	}
	if startStr := c.Query("start"); startStr != "" {
		start, err := util.ValidateDate(startStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		q = q.Where("date >= ?", start)
	}
	if endStr := c.Query("end"); endStr != "" {
		end, err := util.ValidateDate(endStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		// end date is inclusive: strictly before the next day
		q = q.Where("date < ?", end.AddDate(0, 0, 1))
	}
	if minStr := c.Query("min_amount"); minStr != "" {
		min, err := decimal.NewFromString(minStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "invalid min_amount")
			return
		}
		q = q.Where("ABS(amount) >= ?", min.Abs())
	}
	if maxStr := c.Query("max_amount"); maxStr != "" {
		max, err := decimal.NewFromString(maxStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "invalid max_amount")
			return
		}
		q = q.Where("ABS(amount) <= ?", max.Abs())
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		q = q.Where("payee LIKE ? OR note LIKE ?", like, like)
	}

	orderBy := "date DESC, id DESC"
	switch c.DefaultQuery("sort", "date_desc") {
	case "date_asc":
		orderBy = "date ASC, id ASC"
	case "amount_desc":
		orderBy = "ABS(amount) DESC, id DESC"
	case "amount_asc":
		orderBy = "ABS(amount) ASC, id ASC"
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	var entries []models.Transaction
	if err := q.Session(&gorm.Session{}).
		Order(orderBy).
		Limit(size).
		Offset(offset).
		Find(&entries).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	items := make([]transactionResp, 0, len(entries))
	for i := range entries {
		items = append(items, toTransactionResp(&entries[i]))
	}
	util.Success(c, "", util.Response{
		"items": items,
		"total": total,
		"page":  page,
		"size":  size,
	})
}

func (h *TransactionHandler) Get(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	entry, err := h.Svc.Get(user.ID, id)
	if err != nil {
		util.ServiceError(c, err)
		return
	}
	util.Success(c, "", util.Response{"transaction": toTransactionResp(entry)})
}

type transactionPatchReq struct {
	Type          *string          `json:"type"`
	AccountID     *uint            `json:"account_id"`
	ToAccountID   *uint            `json:"to_account_id"`
	CategoryID    *uint            `json:"category_id"`
	ClearCategory bool             `json:"clear_category"`
	Amount        *decimal.Decimal `json:"amount"`
	Date          *string          `json:"date"`
	Payee         *string          `json:"payee"`
	Note          *string          `json:"note"`
}

func (h *TransactionHandler) Update(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req transactionPatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := service.UpdatePatch{
		AccountID:     req.AccountID,
		ToAccountID:   req.ToAccountID,
		CategoryID:    req.CategoryID,
		ClearCategory: req.ClearCategory,
		Amount:        req.Amount,
		Payee:         req.Payee,
		Note:          req.Note,
	}
	if req.Type != nil {
		t := models.TransactionType(*req.Type)
		patch.Type = &t
	}
	if req.Date != nil {
		date, err := util.ValidateDate(*req.Date)
		if err != nil {
			util.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		patch.Date = &date
	}

	entry, err := h.Svc.Update(user.ID, id, patch)
	if err != nil {
		util.ServiceError(c, err)
		return
	}
	util.Success(c, "transaction updated", util.Response{"transaction": toTransactionResp(entry)})
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(user.ID, id); err != nil {
		util.ServiceError(c, err)
		return
	}
	util.Success(c, "transaction deleted", util.Response{})
}

func (h *TransactionHandler) Reconcile(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	entry, err := h.Svc.ToggleReconciled(user.ID, id)
	if err != nil {
		util.ServiceError(c, err)
		return
	}
	util.Success(c, "reconciled flag toggled", util.Response{"transaction": toTransactionResp(entry)})
}

type bulkReq struct {
	Transactions []transactionReq `json:"transactions" binding:"required,min=1,max=500"`
}

// Bulk imports a batch; per-item failures never abort the batch.
func (h *TransactionHandler) Bulk(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	var req bulkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	// a failed parse leaves a zero input in place so indexes stay aligned;
	// the service rejects it as a per-item validation failure
	items := make([]service.CreateInput, 0, len(req.Transactions))
	for i := range req.Transactions {
		in, _ := req.Transactions[i].toInput()
		items = append(items, in)
	}

	res := h.Svc.BulkImport(user.ID, items)
	util.Success(c, "bulk import finished", util.Response{"result": res})
}
