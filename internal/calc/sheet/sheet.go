package sheet

import (
	"fmt"
	"io"
	"math"

	report "Lenscalc/internal/calc/report"
	spatial "Lenscalc/internal/calc/spatial"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet Export writes to.
const SheetName = "Spatial"

// inputColumns is the number of leading cells a row carries: name plus the
// seven lens inputs.
const inputColumns = 1 + 7

type NamedInput struct {
	Name string        `json:"name"`
	Lens spatial.Input `json:"lens"`
}

type NamedResult struct {
	Name   string         `json:"name"`
	Lens   spatial.Input  `json:"lens"`
	Result spatial.Result `json:"result"`
}

type ImportResult struct {
	Count   int           `json:"count"`
	Skipped int           `json:"skipped"`
	Results []NamedResult `json:"results"`
}

// Import reads the first worksheet. Row one is a header; every other row is
// name, efl, res_h, res_v, pixel_size, center_factor, corner_factor,
// test_distance. Blank or unparseable cells count as 0; rows without any lens
// cell are skipped.
func Import(r io.Reader) (ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return ImportResult{}, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return ImportResult{}, fmt.Errorf("empty sheet")
	}

	out := ImportResult{Results: make([]NamedResult, 0, len(rows)-1)}
	for _, row := range rows[1:] {
		// GetRows drops trailing empty cells; a blank cell reads as 0.
		if len(row) < 2 {
			out.Skipped++
			continue
		}
		for len(row) < inputColumns {
			row = append(row, "")
		}
		in := parseRow(row)
		out.Results = append(out.Results, NamedResult{Name: row[0], Lens: in, Result: spatial.Calculate(in)})
	}
	out.Count = len(out.Results)
	return out, nil
}

func parseRow(row []string) spatial.Input {
	cells := make(map[string]string, len(spatial.Fields))
	for i, name := range spatial.Fields {
		cells[name] = row[1+i]
	}
	return spatial.InputFromValues(func(name string) string { return cells[name] })
}

// Header returns the column captions Export writes. The first eight match
// the layout Import expects.
func Header() []string {
	h := []string{"Name"}
	for _, f := range report.InputFields(spatial.Input{}) {
		h = append(h, report.Caption(f.Label, f.Unit))
	}
	for _, f := range report.NyquistFields(spatial.Result{}) {
		h = append(h, report.Caption(f.Label, f.Unit))
	}
	for _, pos := range []string{"Center", "Corner"} {
		for _, r := range report.Rows(spatial.Result{}) {
			h = append(h, pos+" "+report.Caption(r.Label, r.Unit))
		}
	}
	return h
}

// Export writes one row per lens: its inputs, the Nyquist values and every
// center metric followed by every corner metric.
func Export(items []NamedResult) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, err
	}

	header := make([]interface{}, 0, len(Header()))
	for _, h := range Header() {
		header = append(header, h)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}

	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		row := exportRow(item)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return f, nil
}

func exportRow(item NamedResult) []interface{} {
	row := []interface{}{item.Name}
	for _, f := range report.InputFields(item.Lens) {
		row = append(row, cellValue(f.Value))
	}
	for _, f := range report.NyquistFields(item.Result) {
		row = append(row, cellValue(f.Value))
	}
	rows := report.Rows(item.Result)
	for _, r := range rows {
		row = append(row, cellValue(r.Center))
	}
	for _, r := range rows {
		row = append(row, cellValue(r.Corner))
	}
	return row
}

func cellValue(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return report.Placeholder
	}
	return v
}

// Evaluate computes results for named inputs in order.
func Evaluate(items []NamedInput) []NamedResult {
	out := make([]NamedResult, 0, len(items))
	for _, it := range items {
		out = append(out, NamedResult{Name: it.Name, Lens: it.Lens, Result: spatial.Calculate(it.Lens)})
	}
	return out
}
