// Package report renders complaint listings as a paginated PDF table.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"

	"complaints-backend/internal/calendar"
	"complaints-backend/internal/model"
	"complaints-backend/internal/parse"
)

// ComplaintTextLimit is the number of runes of complaint text shown per row.
const ComplaintTextLimit = 60

const (
	pageMargin   = 10.0
	bottomMargin = 15.0
	rowHeight    = 7.0
)

type column struct {
	title string
	width float64
}

// Widths add up to the 277mm usable width of landscape A4.
var columns = []column{
	{"No.", 12},
	{"Date", 32},
	{"Name", 38},
	{"Student No.", 25},
	{"Email", 45},
	{"Location", 45},
	{"Complaint", 60},
	{"Status", 20},
}

// Summary counts complaints by status.
type Summary struct {
	Total     int
	Pending   int
	Completed int
}

// Summarize tallies the given complaints.
func Summarize(complaints []model.Complaint) Summary {
	s := Summary{Total: len(complaints)}
	for _, c := range complaints {
		switch c.Status {
		case model.StatusCompleted:
			s.Completed++
		default:
			s.Pending++
		}
	}
	return s
}

// Document is everything needed to render one report.
type Document struct {
	Period      parse.Period
	From, To    calendar.Date
	Bounded     bool
	GeneratedAt time.Time
	// Location is used for the per-row timestamps.
	Location   *time.Location
	Complaints []model.Complaint
}

// Filename is the attachment name for a report of p generated on today.
func Filename(p parse.Period, today calendar.Date) string {
	return fmt.Sprintf("complaints_%s_%s.pdf", p.Token(), today)
}

// Truncate shortens s to at most limit runes, marking the cut with "...".
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit]) + "..."
}

// Render produces the complete PDF in memory.
func Render(doc Document) ([]byte, error) {
	pdf, err := build(doc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func build(doc Document) (*gofpdf.Fpdf, error) {
	loc := doc.Location
	if loc == nil {
		loc = time.UTC
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, bottomMargin)
	pdf.AliasNbPages("{nb}")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	generated := doc.GeneratedAt.In(loc).Format("2006-01-02 15:04")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-bottomMargin + 3)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(0, 8, fmt.Sprintf("Generated on %s | Page %d/{nb}", generated, pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr("Residence Complaints Report"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, tr(doc.Period.Title()), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	rangeLine := "Period: all records"
	if doc.Bounded {
		rangeLine = fmt.Sprintf("Period: %s to %s", doc.From, doc.To)
	}
	pdf.CellFormat(0, 6, rangeLine, "", 1, "C", false, 0, "")

	sum := Summarize(doc.Complaints)
	pdf.CellFormat(0, 6, fmt.Sprintf("Total: %d | Pending: %d | Completed: %d", sum.Total, sum.Pending, sum.Completed), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	tableHeader(pdf)

	if len(doc.Complaints) == 0 {
		pdf.SetFont("Arial", "I", 9)
		pdf.CellFormat(tableWidth(), rowHeight, "No complaints found", "1", 1, "C", false, 0, "")
	}

	_, pageHeight := pdf.GetPageSize()
	pdf.SetFont("Arial", "", 8)
	for i, c := range doc.Complaints {
		if pdf.GetY()+rowHeight > pageHeight-bottomMargin {
			pdf.AddPage()
			tableHeader(pdf)
			pdf.SetFont("Arial", "", 8)
		}

		fill := i%2 == 1
		pdf.SetFillColor(245, 245, 245)
		cells := []string{
			fmt.Sprintf("%d", c.ComplaintNumber),
			c.CreatedAt.In(loc).Format("2006-01-02 15:04"),
			c.NameSurname,
			c.StudentNumber,
			c.StudentEmail,
			c.Location(),
			Truncate(c.ComplaintText, ComplaintTextLimit),
			strings.ToUpper(string(c.Status)),
		}
		for j, text := range cells {
			pdf.CellFormat(columns[j].width, rowHeight, fit(pdf, tr(text), columns[j].width-2), "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return pdf, nil
}

func tableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(40, 70, 120)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range columns {
		pdf.CellFormat(col.width, rowHeight, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)
}

func tableWidth() float64 {
	var w float64
	for _, col := range columns {
		w += col.width
	}
	return w
}

// fit trims s until it fits in width at the current font.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 {
		s = s[:len(s)-1]
		if pdf.GetStringWidth(s+"...") <= width {
			return s + "..."
		}
	}
	return ""
}
