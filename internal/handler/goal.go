package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/haque51/lumina-finance-backend/internal/models"
	"github.com/haque51/lumina-finance-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GoalHandler serves savings goals. Progress is derived on read.
type GoalHandler struct {
	DB *gorm.DB
}

func NewGoalHandler(db *gorm.DB) *GoalHandler {
	return &GoalHandler{DB: db}
}

type goalReq struct {
	Name          string          `json:"name" binding:"required,max=64"`
	TargetAmount  decimal.Decimal `json:"target_amount" binding:"required"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	AccountID     *uint           `json:"account_id"`
	TargetDate    *string         `json:"target_date"` // YYYY-MM-DD
}

type goalResp struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	AccountID     *uint           `json:"account_id,omitempty"`
	TargetDate    *string         `json:"target_date,omitempty"`
	ProgressPct   decimal.Decimal `json:"progress_pct"`
}

// current resolves the goal's current amount: the linked account balance
// when an account is linked, else the stored figure.
func (h *GoalHandler) current(g *models.Goal) (decimal.Decimal, error) {
	if g.AccountID == nil {
		return g.CurrentAmount, nil
	}
	var acc models.Account
	if err := h.DB.Where("id = ? AND user_id = ?", *g.AccountID, g.UserID).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return g.CurrentAmount, nil // linked account deleted; fall back
		}
		return decimal.Zero, err
	}
	return acc.CurrentBalance, nil
}

func (h *GoalHandler) toResp(g *models.Goal) (goalResp, error) {
	current, err := h.current(g)
	if err != nil {
		return goalResp{}, err
	}
	progress := decimal.Zero
	if g.TargetAmount.Sign() > 0 {
		progress = current.DivRound(g.TargetAmount, 4).Mul(decimal.NewFromInt(100))
	}
	resp := goalResp{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: current,
		AccountID:     g.AccountID,
		ProgressPct:   progress,
	}
	if g.TargetDate != nil {
		d := g.TargetDate.Format("2006-01-02")
		resp.TargetDate = &d
	}
	return resp, nil
}

func (h *GoalHandler) Create(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	var req goalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TargetAmount.Sign() <= 0 {
		util.Error(c, http.StatusBadRequest, "target_amount must be positive")
		return
	}

	goal := models.Goal{
		UserID:        user.ID,
		Name:          strings.TrimSpace(req.Name),
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		AccountID:     req.AccountID,
	}
	if req.AccountID != nil {
		var acc models.Account
		if err := h.DB.Where("id = ? AND user_id = ?", *req.AccountID, user.ID).First(&acc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				util.Error(c, http.StatusNotFound, "account not found")
			} else {
				util.Error(c, http.StatusInternalServerError, "internal error")
			}
			return
		}
	}
	if req.TargetDate != nil {
		d, err := util.ValidateDate(*req.TargetDate)
		if err != nil {
			util.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		goal.TargetDate = &d
	}

	if err := h.DB.Create(&goal).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	resp, err := h.toResp(&goal)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	util.Success(c, "goal created", util.Response{"goal": resp})
}

func (h *GoalHandler) List(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	var goals []models.Goal
	if err := h.DB.Where("user_id = ?", user.ID).Order("created_at ASC").Find(&goals).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	items := make([]goalResp, 0, len(goals))
	for i := range goals {
		resp, err := h.toResp(&goals[i])
		if err != nil {
			util.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		items = append(items, resp)
	}
	util.Success(c, "", util.Response{"goals": items})
}

func (h *GoalHandler) Get(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var goal models.Goal
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "goal not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}
	resp, err := h.toResp(&goal)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	util.Success(c, "", util.Response{"goal": resp})
}

type goalPatchReq struct {
	Name          *string          `json:"name"`
	TargetAmount  *decimal.Decimal `json:"target_amount"`
	CurrentAmount *decimal.Decimal `json:"current_amount"`
	AccountID     *uint            `json:"account_id"`
	ClearAccount  bool             `json:"clear_account"`
	TargetDate    *string          `json:"target_date"`
}

func (h *GoalHandler) Update(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req goalPatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var goal models.Goal
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "goal not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	if req.Name != nil {
		goal.Name = strings.TrimSpace(*req.Name)
	}
	if req.TargetAmount != nil {
		if req.TargetAmount.Sign() <= 0 {
			util.Error(c, http.StatusBadRequest, "target_amount must be positive")
			return
		}
		goal.TargetAmount = *req.TargetAmount
	}
	if req.CurrentAmount != nil {
		goal.CurrentAmount = *req.CurrentAmount
	}
	if req.ClearAccount {
		goal.AccountID = nil
	} else if req.AccountID != nil {
		var acc models.Account
		if err := h.DB.Where("id = ? AND user_id = ?", *req.AccountID, user.ID).First(&acc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				util.Error(c, http.StatusNotFound, "account not found")
			} else {
				util.Error(c, http.StatusInternalServerError, "internal error")
			}
			return
		}
		goal.AccountID = req.AccountID
	}
	if req.TargetDate != nil {
		d, err := util.ValidateDate(*req.TargetDate)
		if err != nil {
			util.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		goal.TargetDate = &d
	}

	if err := h.DB.Save(&goal).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	resp, err := h.toResp(&goal)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	util.Success(c, "goal updated", util.Response{"goal": resp})
}

func (h *GoalHandler) Delete(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	res := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.Goal{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "goal not found")
		return
	}
	util.Success(c, "goal deleted", util.Response{})
}
