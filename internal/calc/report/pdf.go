package report

import (
	"fmt"
	"io"
	"time"

	spatial "Lenscalc/internal/calc/spatial"
	"github.com/phpdave11/gofpdf"
)

type Meta struct {
	Project string `json:"project"`
	Author  string `json:"author"`
	Title   string `json:"title"`
	Notes   string `json:"notes"`
}

const (
	labelWidth = 80.0
	colWidth   = 45.0
	lineHeight = 7.0
)

// Render writes an A4 PDF with the inputs and the center/corner comparison.
func Render(w io.Writer, meta Meta, in spatial.Input, res spatial.Result, now time.Time) error {
	if meta.Title == "" {
		meta.Title = "Spatial Frequency Report"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(meta.Title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Project: %s", meta.Project)))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Author: %s", meta.Author)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", now.Format("2006-01-02")))
	pdf.Ln(10)

	section(pdf, "Lens and sensor")
	for _, f := range InputFields(in) {
		pdf.CellFormat(labelWidth, lineHeight, tr(Caption(f.Label, f.Unit)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidth, lineHeight, tr(FormatValue(f.Value, f.Decimals)), "1", 1, "R", false, 0, "")
	}
	for _, f := range NyquistFields(res) {
		pdf.CellFormat(labelWidth, lineHeight, tr(Caption(f.Label, f.Unit)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidth, lineHeight, tr(FormatValue(f.Value, f.Decimals)), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	section(pdf, "Spatial analysis")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(labelWidth, lineHeight, "Metric", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colWidth, lineHeight, "Center", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colWidth, lineHeight, "Corner", "1", 1, "C", true, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, r := range Rows(res) {
		pdf.CellFormat(labelWidth, lineHeight, tr(Caption(r.Label, r.Unit)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidth, lineHeight, tr(FormatValue(r.Center, r.Decimals)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidth, lineHeight, tr(FormatValue(r.Corner, r.Decimals)), "1", 1, "R", false, 0, "")
	}

	if meta.Notes != "" {
		pdf.Ln(8)
		section(pdf, "Notes")
		pdf.MultiCell(0, 6, tr(meta.Notes), "", "L", false)
	}

	return pdf.Output(w)
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, title)
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
}
