package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeTable(t *testing.T) {
	out, err := run(t, "analyze")
	require.NoError(t, err)
	assert.Contains(t, out, "Nyquist, lp/mm")
	assert.Contains(t, out, "250")
	assert.Contains(t, out, "Center")
}

func TestAnalyzeJSON(t *testing.T) {
	out, err := run(t, "analyze", "--efl", "4", "--center", "2", "-f", "json")
	require.NoError(t, err)

	var res struct {
		NyLpmm float64 `json:"ny_lpmm"`
		Center struct {
			FreqLpmm float64 `json:"freq_lpmm"`
		} `json:"center"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.InDelta(t, 250.0, res.NyLpmm, 1e-9)
	assert.InDelta(t, 125.0, res.Center.FreqLpmm, 1e-9)
}

func TestAnalyzeDegenerateShowsZeros(t *testing.T) {
	out, err := run(t, "analyze", "--efl", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "TVL horizontal")
}

func TestAnalyzeUnknownFormat(t *testing.T) {
	_, err := run(t, "analyze", "-f", "xml")
	assert.EqualError(t, err, `unknown format "xml"`)
}

func TestExportThenImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lens.xlsx")

	out, err := run(t, "export", "--name", "bench", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	out, err = run(t, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "== bench")
	assert.Contains(t, out, "1 analyzed, 0 skipped")
}

func TestImportMissingFile(t *testing.T) {
	_, err := run(t, "import", filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}
