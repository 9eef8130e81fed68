package controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/tealeg/xlsx"

	"github.com/karthik-739/OrchardKart/config"
	"github.com/karthik-739/OrchardKart/models"
	"github.com/karthik-739/OrchardKart/utils"
)

// reportRange resolves the period query param into a concrete window.
func reportRange(period string, now time.Time) (time.Time, time.Time, bool) {
	var startDate, endDate time.Time
	switch period {
	case "day":
		startDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		endDate = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, now.Location())
	case "week":
		endDate = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, now.Location())
		startDate = endDate.AddDate(0, 0, -6)
		startDate = time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, startDate.Location())
	case "month":
		startDate = now.AddDate(0, 0, -30).Truncate(24 * time.Hour)
		endDate = now.Add(24 * time.Hour)
	default:
		return startDate, endDate, false
	}
	return startDate, endDate, true
}

type preorderReportSummary struct {
	TotalPreorders int
	TotalUnits     int
	TotalCustomers int
	TotalBooked    int64
	TotalCollected int64
	TotalRefunded  int64
	Cancelled      int
	Delivered      int
	OpenReturns    int
}

func buildPreorderReport(preorders []models.Preorder) preorderReportSummary {
	var summary preorderReportSummary
	customerSet := make(map[uint]bool)
	for i := range preorders {
		p := &preorders[i]
		summary.TotalPreorders++
		summary.TotalUnits += p.Qty
		summary.TotalBooked += p.Subtotal + p.FeesAdjust
		summary.TotalCollected += utils.CollectedAmount(p)
		customerSet[p.UserID] = true
		switch p.Status {
		case models.PreorderStatusCancelled:
			summary.Cancelled++
		case models.PreorderStatusDelivered:
			summary.Delivered++
		}
		for j := range p.Returns {
			flow := &p.Returns[j]
			if flow.Status == models.ReturnStatusRefundIssued {
				summary.TotalRefunded += flow.RefundAmount
			} else if !models.IsTerminalReturnStatus(flow.Status) {
				summary.OpenReturns++
			}
		}
	}
	summary.TotalCustomers = len(customerSet)
	return summary
}

// rupees renders a minor-unit amount for reports.
func rupees(amount int64) float64 {
	return float64(amount) / 100
}

// AdminDownloadPreorderReportExcel exports the preorder book as an Excel sheet
func AdminDownloadPreorderReportExcel(c *gin.Context) {
	utils.LogInfo("AdminDownloadPreorderReportExcel called")

	period := c.DefaultQuery("period", "day")
	utils.LogDebug("Generating Excel report for period: %s", period)

	startDate, endDate, ok := reportRange(period, time.Now())
	if !ok {
		utils.LogError("Invalid period specified: %s", period)
		utils.BadRequest(c, "Invalid period", "Period must be day, week, or month")
		return
	}

	var preorders []models.Preorder
	query := config.DB.Where("created_at >= ? AND created_at <= ?", startDate, endDate).
		Preload("User").
		Preload("Product").
		Preload("Returns").
		Order("created_at DESC")
	if err := query.Find(&preorders).Error; err != nil {
		utils.LogError("Failed to fetch preorders: %v", err)
		utils.InternalServerError(c, "Failed to fetch preorders", err.Error())
		return
	}
	utils.LogDebug("Retrieved %d preorders for Excel report", len(preorders))

	summary := buildPreorderReport(preorders)

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Preorder Report")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", err.Error())
		return
	}

	// Company details
	companyRow := sheet.AddRow()
	companyRow.AddCell().SetString("ORCHARDKART - Preorder Report")
	companyRow = sheet.AddRow()
	companyRow.AddCell().SetString("42 Orchard Lane")
	companyRow = sheet.AddRow()
	companyRow.AddCell().SetString("Shimoga, KA 577201")
	companyRow = sheet.AddRow()
	companyRow.AddCell().SetString("Email: support@orchardkart.in")
	companyRow = sheet.AddRow()
	companyRow.AddCell().SetString("Phone: +91 98450 12345")
	companyRow = sheet.AddRow()
	companyRow.AddCell().SetString("Period: " + strings.ToUpper(period) + " | " + startDate.Format("2006-01-02") + " to " + endDate.Format("2006-01-02"))
	sheet.AddRow() // spacing

	// Table headers
	headers := []string{"Code", "Customer", "Product", "Variant", "Qty", "Date", "Subtotal", "Deposit Due", "Collected", "Remaining", "Status"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.SetString(h)
		style := xlsx.NewStyle()
		font := xlsx.DefaultFont()
		font.Bold = true
		style.Font = *font
		cell.SetStyle(style)
	}

	// Table rows
	for i := range preorders {
		p := &preorders[i]
		row := sheet.AddRow()
		row.AddCell().SetString(p.Code)
		row.AddCell().SetString(p.User.Username)
		row.AddCell().SetString(p.Product.Name)
		row.AddCell().SetString(p.VariantLabel)
		row.AddCell().SetInt(p.Qty)
		row.AddCell().SetString(p.CreatedAt.Format("2006-01-02 15:04"))
		row.AddCell().SetFloat(rupees(p.Subtotal + p.FeesAdjust))
		row.AddCell().SetFloat(rupees(p.DepositDue))
		row.AddCell().SetFloat(rupees(utils.CollectedAmount(p)))
		row.AddCell().SetFloat(rupees(p.RemainingDue))
		row.AddCell().SetString(p.Status)
	}

	sheet.AddRow() // spacing

	// Summary section
	summaryRow := sheet.AddRow()
	summaryRow.AddCell().SetString("Summary")
	style := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	style.Font = *font
	summaryRow.Cells[0].SetStyle(style)

	summaryData := [][]string{
		{"Total Preorders", fmt.Sprintf("%d", summary.TotalPreorders)},
		{"Total Units", fmt.Sprintf("%d", summary.TotalUnits)},
		{"Total Customers", fmt.Sprintf("%d", summary.TotalCustomers)},
		{"Total Booked", fmt.Sprintf("%.2f", rupees(summary.TotalBooked))},
		{"Total Collected", fmt.Sprintf("%.2f", rupees(summary.TotalCollected))},
		{"Total Refunded", fmt.Sprintf("%.2f", rupees(summary.TotalRefunded))},
		{"Cancelled", fmt.Sprintf("%d", summary.Cancelled)},
		{"Delivered", fmt.Sprintf("%d", summary.Delivered)},
		{"Open Returns", fmt.Sprintf("%d", summary.OpenReturns)},
	}
	for _, data := range summaryData {
		row := sheet.AddRow()
		row.AddCell().SetString(data[0])
		row.AddCell().SetString(data[1])
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=preorder_report_%s.xlsx", period))
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		utils.InternalServerError(c, "Failed to write Excel file", err.Error())
		return
	}
	utils.LogInfo("Successfully generated Excel report for period %s", period)
}

// AdminDownloadPreorderReportPDF exports the preorder book as a PDF
func AdminDownloadPreorderReportPDF(c *gin.Context) {
	utils.LogInfo("AdminDownloadPreorderReportPDF called")

	period := c.DefaultQuery("period", "day")
	utils.LogDebug("Generating PDF report for period: %s", period)

	startDate, endDate, ok := reportRange(period, time.Now())
	if !ok {
		utils.LogError("Invalid period specified: %s", period)
		utils.BadRequest(c, "Invalid period", "Period must be day, week, or month")
		return
	}

	var preorders []models.Preorder
	query := config.DB.Where("created_at >= ? AND created_at <= ?", startDate, endDate).
		Preload("User").
		Preload("Product").
		Preload("Returns").
		Order("created_at DESC")
	if err := query.Find(&preorders).Error; err != nil {
		utils.LogError("Failed to fetch preorders: %v", err)
		utils.InternalServerError(c, "Failed to fetch preorders", err.Error())
		return
	}
	utils.LogDebug("Retrieved %d preorders for PDF report", len(preorders))

	summary := buildPreorderReport(preorders)

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.Cell(0, 12, "ORCHARDKART - Preorder Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, "Fresh Fruit Preorders")
	pdf.Ln(6)
	pdf.Cell(0, 8, "Period: "+strings.ToUpper(period)+" | "+startDate.Format("2006-01-02")+" to "+endDate.Format("2006-01-02"))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, "42 Orchard Lane")
	pdf.Ln(6)
	pdf.Cell(0, 8, "Shimoga, KA 577201")
	pdf.Ln(6)
	pdf.Cell(0, 8, "Email: support@orchardkart.in")
	pdf.Ln(6)
	pdf.Cell(0, 8, "Phone: +91 98450 12345")
	pdf.Ln(10)

	// Table headers
	headers := []string{"Code", "Customer", "Product", "Variant", "Qty", "Date", "Subtotal", "Collected", "Remaining", "Status"}
	colWidths := []float64{28, 35, 38, 32, 12, 32, 25, 25, 25, 30}
	pdf.SetFont("Arial", "B", 11)
	for i, h := range headers {
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(colWidths[i], 9, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	// Table rows
	pdf.SetFont("Arial", "", 10)
	fill := false
	for i := range preorders {
		p := &preorders[i]
		pdf.SetFillColor(245, 245, 245)
		if fill {
			pdf.SetFillColor(230, 240, 255)
		}
		fill = !fill
		pdf.CellFormat(colWidths[0], 8, p.Code, "1", 0, "C", fill, 0, "")
		pdf.CellFormat(colWidths[1], 8, p.User.Username, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(colWidths[2], 8, p.Product.Name, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(colWidths[3], 8, p.VariantLabel, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(colWidths[4], 8, fmt.Sprintf("%d", p.Qty), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(colWidths[5], 8, p.CreatedAt.Format("2006-01-02 15:04"), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(colWidths[6], 8, fmt.Sprintf("%.2f", rupees(p.Subtotal+p.FeesAdjust)), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(colWidths[7], 8, fmt.Sprintf("%.2f", rupees(utils.CollectedAmount(p))), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(colWidths[8], 8, fmt.Sprintf("%.2f", rupees(p.RemainingDue)), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(colWidths[9], 8, p.Status, "1", 0, "C", fill, 0, "")
		pdf.Ln(-1)
	}

	// Summary section
	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 13)
	pdf.SetFillColor(220, 230, 250)
	pdf.CellFormat(70, 10, "Summary", "1", 0, "C", true, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 11)
	pdf.SetFillColor(255, 255, 255)
	summaryData := [][]string{
		{"Total Preorders", fmt.Sprintf("%d", summary.TotalPreorders)},
		{"Total Units", fmt.Sprintf("%d", summary.TotalUnits)},
		{"Total Customers", fmt.Sprintf("%d", summary.TotalCustomers)},
		{"Total Booked", fmt.Sprintf("%.2f", rupees(summary.TotalBooked))},
		{"Total Collected", fmt.Sprintf("%.2f", rupees(summary.TotalCollected))},
		{"Total Refunded", fmt.Sprintf("%.2f", rupees(summary.TotalRefunded))},
		{"Cancelled", fmt.Sprintf("%d", summary.Cancelled)},
		{"Delivered", fmt.Sprintf("%d", summary.Delivered)},
		{"Open Returns", fmt.Sprintf("%d", summary.OpenReturns)},
	}
	for _, data := range summaryData {
		pdf.CellFormat(50, 8, data[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, data[1], "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=preorder_report_%s.pdf", period))
	if err := pdf.Output(c.Writer); err != nil {
		utils.LogError("Failed to write PDF file: %v", err)
		utils.InternalServerError(c, "Failed to write PDF file", err.Error())
		return
	}
	utils.LogInfo("Successfully generated PDF report for period %s", period)
}
