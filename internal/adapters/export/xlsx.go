// Package export renders admin data as .xlsx workbooks.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"clubhouse/internal/domain/contact"
	"clubhouse/internal/domain/membership"
)

// ContentType is the MIME type of the generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const cellTimeLayout = "2006-01-02 15:04"

// Filename returns a timestamped download name such as "messages_20260301_1200.xlsx".
func Filename(kind string, now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", kind, now.Format("20060102_1504"))
}

// Messages writes contact messages to a single-sheet workbook.
// Times are shown in loc.
func Messages(msgs []contact.Message, loc *time.Location) ([]byte, error) {
	rows := make([][]any, 0, len(msgs))
	for _, m := range msgs {
		rows = append(rows, []any{
			m.CreatedAt.In(loc).Format(cellTimeLayout), m.Name, m.Email, m.Status, m.Message, m.AdminNotes,
		})
	}
	return workbook("Messages",
		[]string{"Received", "Name", "Email", "Status", "Message", "Admin notes"},
		[]float64{18, 24, 30, 14, 60, 40},
		rows)
}

// Memberships writes membership applications to a single-sheet workbook.
func Memberships(apps []membership.Application, loc *time.Location) ([]byte, error) {
	rows := make([][]any, 0, len(apps))
	for _, a := range apps {
		rows = append(rows, []any{
			a.CreatedAt.In(loc).Format(cellTimeLayout), a.Name, a.Email, a.Phone, a.Location,
			membership.AgeGroupLabel(a.AgeGroup), a.Motivation,
		})
	}
	return workbook("Memberships",
		[]string{"Submitted", "Name", "Email", "Phone", "Location", "Age group", "Motivation"},
		[]float64{18, 24, 30, 16, 20, 12, 60},
		rows)
}

func workbook(sheet string, headers []string, widths []float64, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		if i < len(widths) {
			if err := f.SetColWidth(sheet, col, col, widths[i]); err != nil {
				return nil, err
			}
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return nil, err
	}

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
