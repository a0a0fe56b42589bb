package sheet

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	batch "Lenscalc/internal/calc/batch"
	spatial "Lenscalc/internal/calc/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestImport(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"name", "efl", "res_h", "res_v", "pixel_size", "center_factor", "corner_factor", "test_distance"},
		{"reference", 2.12, 2560, 1938, 0.002, 3, 4, 500},
		{"name only"},
		{"typo", 2.12, 2560, 1938, "0.002", "three", 4, 500},
	})

	res, err := Import(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, 1, res.Skipped)

	ref := res.Results[0]
	assert.Equal(t, "reference", ref.Name)
	assert.Equal(t, spatial.DefaultInput(), ref.Lens)
	assert.InDelta(t, 250.0, ref.Result.NyLpmm, 1e-9)

	typo := res.Results[1]
	assert.Zero(t, typo.Lens.CenterFactor)
	assert.Equal(t, spatial.PointAnalysis{}, typo.Result.Center)
	assert.InDelta(t, 62.5, typo.Result.Corner.FreqLpmm, 1e-9)
}

func TestImportBlankCells(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"name", "efl", "res_h", "res_v", "pixel_size", "center_factor", "corner_factor", "test_distance"},
		{"no distance", 2.12, 2560, 1938, 0.002, 3, 4, ""},
		{"no res_v", 2.12, 2560, "", 0.002, 3, 4, 500},
		{"short", 2.12, 2560},
	})

	res, err := Import(buf)
	require.NoError(t, err)
	require.Equal(t, 3, res.Count)
	assert.Zero(t, res.Skipped)

	noDistance := res.Results[0]
	assert.Zero(t, noDistance.Lens.TestDistance)
	assert.Zero(t, noDistance.Result.Center.ObjectLpWidth)
	assert.Zero(t, noDistance.Result.Center.ObjectLineWidth)
	assert.InDelta(t, 250.0/3, noDistance.Result.Center.FreqLpmm, 1e-9)
	assert.InDelta(t, 320.0, noDistance.Result.Corner.TVLH, 1e-9)

	assert.Zero(t, res.Results[1].Result.Center.TVLV)
	assert.InDelta(t, 500.0, res.Results[1].Lens.TestDistance, 1e-9)

	short := res.Results[2]
	assert.Equal(t, spatial.Input{EFL: 2.12, ResH: 2560}, short.Lens)
	assert.Equal(t, spatial.PointAnalysis{}, short.Result.Center)
}

func TestImportErrors(t *testing.T) {
	_, err := Import(strings.NewReader("not a workbook"))
	assert.Error(t, err)

	_, err = Import(workbook(t, [][]interface{}{{"header only"}}))
	assert.EqualError(t, err, "empty sheet")
}

func TestExportCanBeImported(t *testing.T) {
	wide := spatial.DefaultInput()
	wide.EFL = 8
	items := Evaluate([]NamedInput{
		{Name: "reference", Lens: spatial.DefaultInput()},
		{Name: "wide", Lens: wide},
	})

	f, err := Export(items)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, header, 3)
	assert.Equal(t, Header(), header[0])
	assert.Equal(t, "Center Frequency, lp/mm", header[0][12])

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	back, err := Import(&buf)
	require.NoError(t, err)
	require.Equal(t, 2, back.Count)
	assert.Equal(t, wide, back.Results[1].Lens)
	assert.Equal(t, items[1].Result, back.Results[1].Result)
}

func TestHandlerImport(t *testing.T) {
	xlsx := workbook(t, [][]interface{}{
		{"name", "efl", "res_h", "res_v", "pixel_size", "center_factor", "corner_factor", "test_distance"},
		{"reference", 2.12, 2560, 1938, 0.002, 3, 4, 500},
	})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "lenses.xlsx")
	require.NoError(t, err)
	_, err = part.Write(xlsx.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/tools/spatial/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	(&Handler{}).Import(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out ImportResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, "reference", out.Results[0].Name)
}

func TestHandlerImportMissingFile(t *testing.T) {
	rec := httptest.NewRecorder()
	(&Handler{}).Import(rec, httptest.NewRequest(http.MethodPost, "/api/tools/spatial/import", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerExport(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"ok", `{"items":[{"name":"ref","lens":{"efl":2.12,"res_h":2560,"res_v":1938,"pixel_size":0.002,"center_factor":3,"corner_factor":4,"test_distance":500}}]}`, http.StatusOK},
		{"empty", `{"items":[]}`, http.StatusBadRequest},
		{"too many", `{"items":[` + strings.Repeat(`{"name":"x"},`, batch.MaxItems) + `{"name":"x"}]}`, http.StatusBadRequest},
		{"garbage", `[`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			(&Handler{}).Export(rec, httptest.NewRequest(http.MethodPost, "/api/tools/spatial/export", strings.NewReader(tt.body)))
			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				f, err := excelize.OpenReader(rec.Body)
				require.NoError(t, err)
				defer f.Close()
				rows, err := f.GetRows(SheetName)
				require.NoError(t, err)
				assert.Len(t, rows, 2)
			}
		})
	}
}
