// Package export renders the employee directory as spreadsheets and printable reports.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/employee"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Employees"

type column struct {
	header string
	width  float64 // millimetres in the PDF report
	value  func(employee.Employee) string
}

var columns = []column{
	{"Employee ID", 22, func(e employee.Employee) string { return e.EmployeeID }},
	{"Name", 38, func(e employee.Employee) string { return e.EmployeeName }},
	{"Email", 50, func(e employee.Employee) string { return e.Email }},
	{"Department", 22, func(e employee.Employee) string { return e.DepartmentID }},
	{"Designation", 30, func(e employee.Employee) string { return e.Designation }},
	{"Role", 22, func(e employee.Employee) string { return string(e.Role) }},
	{"Employment Type", 26, func(e employee.Employee) string { return string(e.EmploymentType) }},
	{"Status", 22, func(e employee.Employee) string { return string(e.EmployeeStatus) }},
	{"Date of Joining", 20, func(e employee.Employee) string { return e.DOJ }},
	{"Contact", 25, func(e employee.Employee) string { return e.ContactNo }},
}

// Headers returns the column titles shared by both formats.
func Headers() []string {
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.header
	}
	return headers
}

func row(e employee.Employee) []any {
	values := make([]any, len(columns))
	for i, c := range columns {
		values[i] = c.value(e)
	}
	return values
}

// WriteXLSX writes a single-sheet workbook with a bold header row.
func WriteXLSX(w io.Writer, employees []employee.Employee) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := make([]any, len(columns))
	for i, h := range Headers() {
		headers[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastHeader, bold); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}

	for i, e := range employees {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row(e)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	for i, c := range columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		// roughly one character per 2mm
		if err := f.SetColWidth(sheetName, name, name, c.width/2+4); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WritePDF writes a landscape A4 table of the directory.
func WritePDF(w io.Writer, employees []employee.Employee, generatedAt time.Time) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Employee Directory", true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, c := range columns {
			pdf.CellFormat(c.width, 7, c.header, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Employee Directory")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 8, fmt.Sprintf("Generated %s - %d employees", generatedAt.Format("2006-01-02 15:04 MST"), len(employees)))
	pdf.Ln(10)
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, e := range employees {
		if pdf.GetY()+6 > pageHeight-bottom-10 {
			pdf.AddPage()
			header()
		}
		for _, c := range columns {
			pdf.CellFormat(c.width, 6, tr(truncate(c.value(e), c.width)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

// truncate keeps text inside a cell of the given width at 8pt.
func truncate(s string, width float64) string {
	limit := int(width / 1.6)
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
