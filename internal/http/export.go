package httpx

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/optitrack/optitrack-ui/internal/domain/model"
)

// ExportFormat is a punch log download format.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportSheetName = "Punch Logs"
	exportTimestamp = "2006-01-02 15:04:05"
)

//nolint:gochecknoglobals // fixed column headings shared by both formats
var exportHeader = []string{"Punch ID", "Employee ID", "Employee", "Department", "Type", "Timestamp"}

// ParseExportFormat accepts csv or xlsx in any case. Empty selects csv.
func ParseExportFormat(s string) (ExportFormat, bool) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", ExportCSV:
		return ExportCSV, true
	case ExportXLSX:
		return ExportXLSX, true
	default:
		return "", false
	}
}

// WritePunchLogExport writes rows as an attachment in the requested format.
func WritePunchLogExport(w http.ResponseWriter, format ExportFormat, rows []model.PunchRow, now time.Time) error {
	filename := fmt.Sprintf("punch-logs-%s.%s", now.Format("20060102"), format)
	if format == ExportXLSX {
		body, err := punchLogXLSX(rows)
		if err != nil {
			http.Error(w, "Unable to build the spreadsheet.", http.StatusInternalServerError)
			return err
		}
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		_, err = w.Write(body)
		return err
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return writePunchLogCSV(w, rows)
}

func exportRecord(r model.PunchRow) []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		strconv.FormatInt(r.EmployeeID, 10),
		r.EmployeeName,
		r.Department,
		string(r.PunchType),
		formatExportTime(r.Timestamp),
	}
}

func formatExportTime(t model.LocalTime) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(exportTimestamp)
}

func writePunchLogCSV(w http.ResponseWriter, rows []model.PunchRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(exportRecord(r)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// punchLogXLSX renders rows to an in-memory workbook with a bold header row and
// real date cells.
func punchLogXLSX(rows []model.PunchRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	timeFormat := "yyyy-mm-dd hh:mm:ss"
	timeStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &timeFormat})
	if err != nil {
		return nil, fmt.Errorf("time style: %w", err)
	}

	sw, err := f.NewStreamWriter(exportSheetName)
	if err != nil {
		return nil, fmt.Errorf("stream writer: %w", err)
	}
	if err := sw.SetColWidth(3, 4, 28); err != nil {
		return nil, fmt.Errorf("column width: %w", err)
	}
	if err := sw.SetColWidth(6, 6, 22); err != nil {
		return nil, fmt.Errorf("column width: %w", err)
	}

	header := make([]any, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: h}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		var ts any = ""
		if !r.Timestamp.IsZero() {
			ts = excelize.Cell{StyleID: timeStyle, Value: r.Timestamp.Time}
		}
		values := []any{r.ID, r.EmployeeID, r.EmployeeName, r.Department, string(r.PunchType), ts}
		if err := sw.SetRow(cell, values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("flush sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}
