package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/haque51/lumina-finance-backend/internal/models"
	"github.com/haque51/lumina-finance-backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CategoryHandler serves category CRUD with one-level nesting rules.
type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{DB: db}
}

// validateParent enforces nesting rules before any write: the parent must
// exist, be owned, share the category's type, be a root itself, and the
// parent chain must never lead back to the category being written.
func validateParent(db *gorm.DB, userID, selfID uint, catType string, parentID uint) error {
	if parentID == selfID && selfID != 0 {
		return errors.New("category cannot be its own parent")
	}
	var parent models.Category
	if err := db.Where("id = ? AND user_id = ?", parentID, userID).First(&parent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("parent category not found")
		}
		return err
	}
	if parent.Type != catType {
		return errors.New("parent category has a different type")
	}

	// walk up; catches both depth > 1 and cycles
	seen := map[uint]bool{}
	if selfID != 0 {
		seen[selfID] = true
	}
	cur := &parent
	for cur.ParentID != nil {
		if seen[cur.ID] {
			return errors.New("circular category parent assignment")
		}
		seen[cur.ID] = true
		var next models.Category
		if err := db.Where("id = ? AND user_id = ?", *cur.ParentID, userID).First(&next).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			return err
		}
		if seen[next.ID] {
			return errors.New("circular category parent assignment")
		}
		cur = &next
	}
	if parent.ParentID != nil {
		return errors.New("categories nest one level only")
	}
	return nil
}

type categoryReq struct {
	Name     string `json:"name" binding:"required,max=64"`
	Type     string `json:"type" binding:"required,oneof=income expense"`
	ParentID *uint  `json:"parent_id"`
}

type categoryResp struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID *uint  `json:"parent_id,omitempty"`
}

func toCategoryResp(cat *models.Category) categoryResp {
	return categoryResp{ID: cat.ID, Name: cat.Name, Type: cat.Type, ParentID: cat.ParentID}
}

func (h *CategoryHandler) Create(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		util.Error(c, http.StatusBadRequest, "name must not be empty")
		return
	}
	if req.ParentID != nil {
		if err := validateParent(h.DB, user.ID, 0, req.Type, *req.ParentID); err != nil {
			util.Error(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	cat := models.Category{
		UserID:   user.ID,
		Name:     req.Name,
		Type:     req.Type,
		ParentID: req.ParentID,
	}
	if err := h.DB.Create(&cat).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	util.Success(c, "category created", util.Response{"category": toCategoryResp(&cat)})
}

func (h *CategoryHandler) List(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	q := h.DB.Where("user_id = ?", user.ID)
	if t := c.Query("type"); t != "" {
		q = q.Where("type = ?", t)
	}
	var categories []models.Category
	if err := q.Order("type, name").Find(&categories).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	items := make([]categoryResp, 0, len(categories))
	for i := range categories {
		items = append(items, toCategoryResp(&categories[i]))
	}
	util.Success(c, "", util.Response{"categories": items})
}

func (h *CategoryHandler) Get(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var cat models.Category
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "category not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}
	util.Success(c, "", util.Response{"category": toCategoryResp(&cat)})
}

type categoryPatchReq struct {
	Name        *string `json:"name"`
	ParentID    *uint   `json:"parent_id"`
	ClearParent bool    `json:"clear_parent"`
}

// Update renames or re-parents a category. Its type is immutable;
// transactions and budgets rely on it.
func (h *CategoryHandler) Update(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req categoryPatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var cat models.Category
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "category not found")
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
		cat.Name = name
	}
	if req.ClearParent {
		cat.ParentID = nil
	} else if req.ParentID != nil {
		if err := validateParent(h.DB, user.ID, cat.ID, cat.Type, *req.ParentID); err != nil {
			util.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		// a category with children cannot itself become a child
		var children int64
		if err := h.DB.Model(&models.Category{}).
			Where("user_id = ? AND parent_id = ?", user.ID, cat.ID).
			Count(&children).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		if children > 0 {
			util.Error(c, http.StatusBadRequest, "category with children cannot have a parent")
			return
		}
		cat.ParentID = req.ParentID
	}

	if err := h.DB.Save(&cat).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	util.Success(c, "category updated", util.Response{"category": toCategoryResp(&cat)})
}

// Delete soft-deletes a category. Refused while children, transactions or
// budgets still reference it.
func (h *CategoryHandler) Delete(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var cat models.Category
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "category not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	var children, txns, budgets int64
	if err := h.DB.Model(&models.Category{}).
		Where("user_id = ? AND parent_id = ?", user.ID, id).Count(&children).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	if err := h.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND category_id = ?", user.ID, id).Count(&txns).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	if err := h.DB.Model(&models.Budget{}).
		Where("user_id = ? AND category_id = ?", user.ID, id).Count(&budgets).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	if children > 0 || txns > 0 || budgets > 0 {
		util.Error(c, http.StatusConflict, "category is still referenced")
		return
	}

	if err := h.DB.Delete(&cat).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	util.Success(c, "category deleted", util.Response{})
}
