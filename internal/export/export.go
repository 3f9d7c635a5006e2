// Package export renders a station's log table as a downloadable file.
package export

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"station_monitor/internal/models"
	"station_monitor/internal/status"
)

type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
	PDF  Format = "pdf"
)

// ParseFormat accepts csv, xlsx and pdf in any case. Empty means csv.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return CSV, nil
	case CSV, XLSX, PDF:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

func (f Format) ContentType() string {
	switch f {
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case PDF:
		return "application/pdf"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Filename is the attachment name for a station export taken at now.
func (f Format) Filename(station string, now time.Time) string {
	return fmt.Sprintf("station_%s_%s.%s", sanitizeName(station), now.Format("20060102_150405"), f)
}

var header = []string{"ID", "Station", "Actual", "Alarm 1", "Alarm 2", "Status", "Remark", "Detail", "User", "Created At", "Tier"}

// Render writes entries in the requested format. Rows keep the order given.
func Render(f Format, station string, entries []models.LogEntry) ([]byte, error) {
	switch f {
	case CSV:
		return BuildCSV(entries), nil
	case XLSX:
		return BuildXLSX(station, entries)
	case PDF:
		return BuildPDF(station, entries)
	default:
		return nil, fmt.Errorf("unsupported export format %q", f)
	}
}

func row(e models.LogEntry) []string {
	detail := ""
	if e.Detail != nil {
		detail = *e.Detail
	}
	return []string{
		strconv.FormatInt(e.ID, 10),
		e.Station,
		formatNumber(e.Actual),
		formatAlarm(e.Alarm1),
		formatAlarm(e.Alarm2),
		e.Status,
		e.Remark,
		detail,
		e.UserLog,
		e.CreatedAt.UTC().Format(time.RFC3339),
		string(status.ClassifyHistory(e)),
	}
}

// BuildCSV quotes every cell and doubles embedded quotes.
func BuildCSV(entries []models.LogEntry) []byte {
	var buf bytes.Buffer
	writeCSVLine(&buf, header)
	for _, e := range entries {
		writeCSVLine(&buf, row(e))
	}
	return buf.Bytes()
}

func writeCSVLine(buf *bytes.Buffer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(c, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteString("\r\n")
}

// BuildXLSX writes a single "Logs" sheet. Numeric columns stay numeric.
func BuildXLSX(station string, entries []models.LogEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Logs"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for r, e := range entries {
		values := []interface{}{
			e.ID,
			e.Station,
			e.Actual,
			alarmValue(e.Alarm1),
			alarmValue(e.Alarm2),
			e.Status,
			e.Remark,
			derefString(e.Detail),
			e.UserLog,
			e.CreatedAt.UTC().Format(time.RFC3339),
			string(status.ClassifyHistory(e)),
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	_ = f.SetDocProps(&excelize.DocProperties{Title: "Station " + station + " logs"})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var pdfWidths = []float64{12, 20, 18, 18, 18, 18, 14, 50, 30, 42, 18}

// BuildPDF renders a landscape table. The core fonts are Latin-1 only so other
// runes are printed as '?'.
func BuildPDF(station string, entries []models.LogEntry) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, latin1("Station "+station+" logs"))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Rows: %d", len(entries)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 8)
	for i, h := range header {
		pdf.CellFormat(pdfWidths[i], 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 8)
	for _, e := range entries {
		for i, c := range row(e) {
			align := "L"
			if i >= 2 && i <= 4 {
				align = "R"
			}
			pdf.CellFormat(pdfWidths[i], 6, truncate(latin1(c), pdfWidths[i]), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatAlarm(v *float64) string {
	if v == nil {
		return ""
	}
	return formatNumber(*v)
}

func alarmValue(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func latin1(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r > 0xff {
			r = '?'
		}
		b.WriteByte(byte(r))
	}
	return b.String()
}

// truncate keeps roughly what fits in a cell of width mm at 8pt.
func truncate(s string, width float64) string {
	limit := int(width / 1.6)
	if len(s) <= limit {
		return s
	}
	if limit <= 1 {
		return s[:limit]
	}
	return s[:limit-1] + "~"
}

func sanitizeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "unknown"
	}
	return b.String()
}
