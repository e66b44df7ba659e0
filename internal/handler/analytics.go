package handler

import (
	"net/http"
	"time"

	"github.com/haque51/lumina-finance-backend/internal/models"
	"github.com/haque51/lumina-finance-backend/internal/service"
	"github.com/haque51/lumina-finance-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AnalyticsHandler serves monthly stats and snapshots.
type AnalyticsHandler struct {
	DB        *gorm.DB
	Snapshots *service.SnapshotService
}

func NewAnalyticsHandler(db *gorm.DB, snapshots *service.SnapshotService) *AnalyticsHandler {
	return &AnalyticsHandler{DB: db, Snapshots: snapshots}
}

// Monthly returns daily and per-category income/expense breakdowns for
// one month (?month=YYYY-MM, default current). Transfers are excluded;
// they move money, they are not income or spending.
func (h *AnalyticsHandler) Monthly(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	monthStr := c.Query("month")
	if monthStr == "" {
		monthStr = time.Now().Format("2006-01")
	}
	t, err := time.Parse("2006-01", monthStr)
	if err != nil {
		util.Error(c, http.StatusBadRequest, "month must be YYYY-MM")
		return
	}
	startOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	endOfMonth := startOfMonth.AddDate(0, 1, 0)

	var entries []models.Transaction
	if err := h.DB.
		Where("user_id = ? AND type <> ? AND date >= ? AND date < ?",
			user.ID, models.TransactionTransfer, startOfMonth, endOfMonth).
		Order("date ASC").
		Find(&entries).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	type dailyStat struct {
		Date    string          `json:"date"`
		Income  decimal.Decimal `json:"income"`
		Expense decimal.Decimal `json:"expense"`
		Net     decimal.Decimal `json:"net"`
	}
	type categoryStat struct {
		CategoryID *uint           `json:"category_id"`
		Income     decimal.Decimal `json:"income"`
		Expense    decimal.Decimal `json:"expense"`
	}

	dailyMap := make(map[string]*dailyStat)
	catMap := make(map[uint]*categoryStat)
	var uncategorized *categoryStat
	totalIncome := decimal.Zero
	totalExpense := decimal.Zero

	for i := range entries {
		e := &entries[i]
		dateKey := e.Date.Format("2006-01-02")
		ds, ok := dailyMap[dateKey]
		if !ok {
			ds = &dailyStat{Date: dateKey}
			dailyMap[dateKey] = ds
		}

		var cs *categoryStat
		if e.CategoryID != nil {
			cs, ok = catMap[*e.CategoryID]
			if !ok {
				cs = &categoryStat{CategoryID: e.CategoryID}
				catMap[*e.CategoryID] = cs
			}
		} else {
			if uncategorized == nil {
				uncategorized = &categoryStat{}
			}
			cs = uncategorized
		}

		if e.Type == models.TransactionIncome {
			ds.Income = ds.Income.Add(e.Amount)
			cs.Income = cs.Income.Add(e.Amount)
			totalIncome = totalIncome.Add(e.Amount)
		} else {
			// expense amounts are stored negative
			mag := e.Amount.Neg()
			ds.Expense = ds.Expense.Add(mag)
			cs.Expense = cs.Expense.Add(mag)
			totalExpense = totalExpense.Add(mag)
		}
	}

	daily := make([]dailyStat, 0, len(dailyMap))
	for _, ds := range dailyMap {
		ds.Net = ds.Income.Sub(ds.Expense)
		daily = append(daily, *ds)
	}
	byCategory := make([]categoryStat, 0, len(catMap)+1)
	for _, cs := range catMap {
		byCategory = append(byCategory, *cs)
	}
	if uncategorized != nil {
		byCategory = append(byCategory, *uncategorized)
	}

	util.Success(c, "", util.Response{
		"month":         monthStr,
		"daily":         daily,
		"by_category":   byCategory,
		"total_income":  totalIncome,
		"total_expense": totalExpense,
		"net":           totalIncome.Sub(totalExpense),
	})
}

// ListSnapshots returns stored monthly snapshots, newest first.
func (h *AnalyticsHandler) ListSnapshots(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	var snaps []models.MonthlySnapshot
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("month DESC").
		Find(&snaps).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	util.Success(c, "", util.Response{"snapshots": snaps})
}

type buildSnapshotReq struct {
	Month string `json:"month"` // YYYY-MM, default previous month
}

// BuildSnapshot computes the snapshot for a month on demand. The same
// function the scheduler runs.
func (h *AnalyticsHandler) BuildSnapshot(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	var req buildSnapshotReq
	_ = c.ShouldBindJSON(&req)
	month := req.Month
	if month == "" {
		month = time.Now().AddDate(0, -1, 0).Format("2006-01")
	}
	if err := util.ValidateMonth(month); err != nil {
		util.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	snap, err := h.Snapshots.BuildMonthly(user.ID, month)
	if err != nil {
		util.ServiceError(c, err)
		return
	}
	util.Success(c, "snapshot built", util.Response{"snapshot": snap})
}
