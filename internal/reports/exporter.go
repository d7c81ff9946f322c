package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// Exporter renders report rows in the requested format and returns the
// payload together with a filename and content type.
type Exporter interface {
	Export(reportType, format string, data ReportData) ([]byte, string, string, error)
}

type exporter struct{}

func NewExporter() Exporter {
	return &exporter{}
}

func (e *exporter) Export(reportType, format string, data ReportData) ([]byte, string, string, error) {
	timestamp := time.Now().Format("20060102_150405")

	switch reportType {
	case ReportTypeLeads:
		return e.exportLeadsByFormat(format, timestamp, data.Leads)
	case ReportTypeDeals:
		return e.exportDealsByFormat(format, timestamp, data.Deals)
	case ReportTypeBookings:
		return e.exportBookingsByFormat(format, timestamp, data.Bookings)
	default:
		return nil, "", "", fmt.Errorf("unsupported report type: %s", reportType)
	}
}

//// ============================
/// LEAD EXPORTS
//// ============================

func (e *exporter) exportLeadsByFormat(format, timestamp string, rows []LeadReportRow) ([]byte, string, string, error) {
	switch format {
	case FormatExcel:
		data, err := e.exportLeadsExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("leads_report_%s.xlsx", timestamp), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatCSV:
		data, err := e.exportLeadsCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("leads_report_%s.csv", timestamp), "text/csv", nil

	case FormatPDF:
		data, err := e.exportLeadsPDF(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("leads_report_%s.pdf", timestamp), "application/pdf", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for leads: %s", format)
	}
}

func (e *exporter) exportLeadsCSV(rows []LeadReportRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Email", "Source", "Status", "Score", "Destination", "Budget", "Created At"}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, r := range rows {
		record := []string{
			r.ID,
			r.Name,
			r.Email,
			r.Source,
			r.Status,
			fmt.Sprint(r.Score),
			r.Destination,
			fmt.Sprintf("%.2f", r.Budget),
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *exporter) exportLeadsExcel(rows []LeadReportRow) ([]byte, error) {
	f := excelize.NewFile()
	sheetName := "Leads"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{"ID", "Name", "Email", "Source", "Status", "Score", "Destination", "Budget", "Created At"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, r := range rows {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.Email)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.Source)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.Status)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), r.Score)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), r.Destination)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), r.Budget)
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), r.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *exporter) exportLeadsPDF(rows []LeadReportRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Leads Report")
	pdf.Ln(20)

	pdf.SetFont("Arial", "B", 9)
	widths := []float64{40, 35, 45, 22, 22, 15, 35, 25, 30}
	headers := []string{"ID", "Name", "Email", "Source", "Status", "Score", "Destination", "Budget", "Created At"}

	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, r := range rows {
		pdf.CellFormat(widths[0], 6, truncate(r.ID, 24), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, truncate(r.Name, 22), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, truncate(r.Email, 28), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, r.Source, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 6, r.Status, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[5], 6, fmt.Sprint(r.Score), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[6], 6, truncate(r.Destination, 22), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[7], 6, fmt.Sprintf("%.2f", r.Budget), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[8], 6, r.CreatedAt.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

//// ============================
/// DEAL EXPORTS
//// ============================

func (e *exporter) exportDealsByFormat(format, timestamp string, rows []DealReportRow) ([]byte, string, string, error) {
	switch format {
	case FormatExcel:
		data, err := e.exportDealsExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("deals_report_%s.xlsx", timestamp), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatCSV:
		data, err := e.exportDealsCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("deals_report_%s.csv", timestamp), "text/csv", nil

	case FormatPDF:
		data, err := e.exportDealsPDF(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("deals_report_%s.pdf", timestamp), "application/pdf", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for deals: %s", format)
	}
}

func (e *exporter) exportDealsCSV(rows []DealReportRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Stage", "Value", "Probability", "Expected Close", "Created At"}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, r := range rows {
		expectedClose := ""
		if r.ExpectedCloseDate != nil {
			expectedClose = r.ExpectedCloseDate.Format("2006-01-02")
		}

		record := []string{
			r.ID,
			r.Title,
			r.Stage,
			fmt.Sprintf("%.2f", r.Value),
			fmt.Sprint(r.Probability),
			expectedClose,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *exporter) exportDealsExcel(rows []DealReportRow) ([]byte, error) {
	f := excelize.NewFile()
	sheetName := "Deals"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{"ID", "Title", "Stage", "Value", "Probability", "Expected Close", "Created At"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, r := range rows {
		row := i + 2
		expectedClose := ""
		if r.ExpectedCloseDate != nil {
			expectedClose = r.ExpectedCloseDate.Format("2006-01-02")
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.Stage)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.Value)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.Probability)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), expectedClose)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), r.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *exporter) exportDealsPDF(rows []DealReportRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Deals Report")
	pdf.Ln(20)

	pdf.SetFont("Arial", "B", 9)
	widths := []float64{45, 65, 28, 28, 25, 30, 30}
	headers := []string{"ID", "Title", "Stage", "Value", "Probability", "Expected Close", "Created At"}

	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, r := range rows {
		expectedClose := ""
		if r.ExpectedCloseDate != nil {
			expectedClose = r.ExpectedCloseDate.Format("2006-01-02")
		}

		pdf.CellFormat(widths[0], 6, truncate(r.ID, 28), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, truncate(r.Title, 40), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, r.Stage, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 6, fmt.Sprintf("%.2f", r.Value), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, fmt.Sprint(r.Probability), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 6, expectedClose, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[6], 6, r.CreatedAt.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

//// ============================
/// BOOKING EXPORTS
//// ============================

func (e *exporter) exportBookingsByFormat(format, timestamp string, rows []BookingReportRow) ([]byte, string, string, error) {
	switch format {
	case FormatExcel:
		data, err := e.exportBookingsExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("bookings_report_%s.xlsx", timestamp), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatCSV:
		data, err := e.exportBookingsCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("bookings_report_%s.csv", timestamp), "text/csv", nil

	case FormatPDF:
		data, err := e.exportBookingsPDF(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("bookings_report_%s.pdf", timestamp), "application/pdf", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for bookings: %s", format)
	}
}

func (e *exporter) exportBookingsCSV(rows []BookingReportRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Customer ID", "Package", "Status", "Total Amount", "Travel Date", "Pax", "Created At"}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, r := range rows {
		record := []string{
			r.ID,
			r.CustomerID,
			r.PackageName,
			r.Status,
			fmt.Sprintf("%.2f", r.TotalAmount),
			r.TravelDate.Format("2006-01-02"),
			fmt.Sprint(r.PaxCount),
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *exporter) exportBookingsExcel(rows []BookingReportRow) ([]byte, error) {
	f := excelize.NewFile()
	sheetName := "Bookings"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{"ID", "Customer ID", "Package", "Status", "Total Amount", "Travel Date", "Pax", "Created At"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, r := range rows {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.CustomerID)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.PackageName)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.Status)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.TotalAmount)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), r.TravelDate.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), r.PaxCount)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), r.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *exporter) exportBookingsPDF(rows []BookingReportRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Bookings Report")
	pdf.Ln(20)

	pdf.SetFont("Arial", "B", 9)
	widths := []float64{42, 42, 50, 25, 28, 28, 15, 30}
	headers := []string{"ID", "Customer ID", "Package", "Status", "Amount", "Travel Date", "Pax", "Created At"}

	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, r := range rows {
		pdf.CellFormat(widths[0], 6, truncate(r.ID, 26), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, truncate(r.CustomerID, 26), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, truncate(r.PackageName, 32), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, r.Status, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 6, fmt.Sprintf("%.2f", r.TotalAmount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 6, r.TravelDate.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[6], 6, fmt.Sprint(r.PaxCount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[7], 6, r.CreatedAt.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}
