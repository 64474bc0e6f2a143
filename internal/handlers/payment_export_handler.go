// payment-reminder/internal/handlers/payment_export_handler.go

package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportPaymentsHandler streams the payment ledger as an .xlsx file. Rows are
// filled with the status colour so overdue entries stand out in the sheet.
func (h *PaymentHandler) ExportPaymentsHandler(c *gin.Context) {
	var payments []PaymentListItem
	err := paymentListQuery(h.DB).
		Order("payments.due_date ASC").
		Scan(&payments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch data for export"})
		return
	}

	f := excelize.NewFile()
	sheetName := "Payments"
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Client", "Company", "Email", "Amount", "Due Date", "Status", "Description"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	styles := map[string]int{}
	for i, p := range payments {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), p.ClientName)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), p.ClientCompany)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), p.ClientEmail)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), p.Amount.StringFixed(2))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), p.DueDate.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), string(p.Status))
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), p.Description)

		colour, err := p.Status.HexColor()
		if err != nil {
			continue
		}
		styleID, ok := styles[colour]
		if !ok {
			styleID, err = f.NewStyle(&excelize.Style{
				Fill: excelize.Fill{Type: "pattern", Color: []string{colour}, Pattern: 1},
			})
			if err != nil {
				continue
			}
			styles[colour] = styleID
		}
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), styleID)
	}

	fileName := fmt.Sprintf("payments_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
	}
}
