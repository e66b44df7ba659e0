package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/haque51/lumina-finance-backend/internal/models"
	"github.com/haque51/lumina-finance-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler streams the caller's transactions as CSV or XLSX.
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

func (h *ExportHandler) entries(userID uint) ([]models.Transaction, error) {
	var entries []models.Transaction
	err := h.DB.Where("user_id = ?", userID).
		Order("date DESC").
		Find(&entries).Error
	return entries, err
}

func exportRow(e *models.Transaction) []string {
	toAccount := ""
	if e.ToAccountID != nil {
		toAccount = fmt.Sprintf("%d", *e.ToAccountID)
	}
	category := ""
	if e.CategoryID != nil {
		category = fmt.Sprintf("%d", *e.CategoryID)
	}
	return []string{
		e.Date.Format("2006-01-02"),
		string(e.Type),
		fmt.Sprintf("%d", e.AccountID),
		toAccount,
		category,
		e.Amount.String(),
		e.Currency,
		e.Payee,
		e.Note,
	}
}

var exportHeaders = []string{
	"Date", "Type", "Account", "To Account", "Category",
	"Amount", "Currency", "Payee", "Note",
}

// ExportCSV writes all transactions as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	entries, err := h.entries(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for i := range entries {
		writer.Write(exportRow(&entries[i]))
	}
}

// ExportXLSX writes all transactions as a spreadsheet.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	entries, err := h.entries(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	f := excelize.NewFile()
	sheetName := "Transactions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	f.SetActiveSheet(index)

	for i, hdr := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, hdr)
	}
	for idx := range entries {
		row := idx + 2
		for col, val := range exportRow(&entries[idx]) {
			cell := fmt.Sprintf("%c%d", 'A'+col, row)
			f.SetCellValue(sheetName, cell, val)
		}
	}
	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "H", "I", 25)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, "export failed")
	}
}
