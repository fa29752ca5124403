package cli_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_DoesNotRecord(t *testing.T) {
	setupCLITest(t)

	out, _, err := runCLI(t, "resolve", "cellular telephone, cellular phone")
	require.NoError(t, err)
	assert.Contains(t, out, "Object:    Smartphone")
	assert.Contains(t, out, `Matched:   "phone"`)
	assert.Contains(t, out, "High Impact")

	out, _, err = runCLI(t, "resolve", "-o", "json", "banana")
	require.NoError(t, err)
	var res struct {
		Matched bool `json:"matched"`
		Entry   struct {
			Name              string  `json:"name"`
			CarbonFootprintKg float64 `json:"carbon_footprint_kg"`
		} `json:"entry"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.False(t, res.Matched)
	assert.Equal(t, "banana", res.Entry.Name)
	assert.InDelta(t, 1.0, res.Entry.CarbonFootprintKg, 1e-12)

	out, _, err = runCLI(t, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No scans recorded yet.")
}

func TestResolve_WordMode(t *testing.T) {
	setupCLITest(t)
	t.Setenv("ECOLENS_MATCH_MODE", "word")

	out, _, err := runCLI(t, "resolve", "cupboard")
	require.NoError(t, err)
	assert.Contains(t, out, "no keyword")
}

func TestHistoryClear(t *testing.T) {
	setupCLITest(t)
	for _, label := range []string{"cup", "bottle"} {
		_, _, err := runCLI(t, "scan", "--label", label)
		require.NoError(t, err)
	}

	out, _, err := runCLI(t, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "DATE")
	assert.Contains(t, out, "Plastic Water Bottle")

	out, _, err = runCLI(t, "history", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared 2 scan(s).")

	out, _, err = runCLI(t, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No scans recorded yet.")
}

func TestDashboard(t *testing.T) {
	setupCLITest(t)
	for _, label := range []string{"water bottle", "smartphone"} {
		_, _, err := runCLI(t, "scan", "--label", label)
		require.NoError(t, err)
	}

	out, _, err := runCLI(t, "dashboard", "-o", "json")
	require.NoError(t, err)
	var summary struct {
		TotalScans         int     `json:"total_scans"`
		TotalCarbonKg      float64 `json:"total_carbon_kg"`
		SavingsPotentialKg float64 `json:"savings_potential_kg"`
		BreakdownMode      string  `json:"breakdown_mode"`
		Breakdown          []struct {
			Category string  `json:"category"`
			Percent  float64 `json:"percent"`
		} `json:"category_breakdown"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 2, summary.TotalScans)
	assert.InDelta(t, 55.082, summary.TotalCarbonKg, 1e-9)
	assert.InDelta(t, 16.5246, summary.SavingsPotentialKg, 1e-9)
	assert.Equal(t, "history", summary.BreakdownMode)
	require.Len(t, summary.Breakdown, 5)

	out, _, err = runCLI(t, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Total scans:")
	assert.Contains(t, out, "55.1 kg")
	assert.Contains(t, out, "16.5 kg")
	assert.Contains(t, out, "Electronics")

	out, _, err = runCLI(t, "dashboard", "--breakdown", "illustrative")
	require.NoError(t, err)
	assert.Contains(t, out, "(illustrative)")
	assert.Contains(t, out, " 35.0%")

	_, _, err = runCLI(t, "dashboard", "--breakdown", "pie")
	require.Error(t, err)
}

func TestDashboard_Empty(t *testing.T) {
	setupCLITest(t)
	out, _, err := runCLI(t, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "0.0 kg")
}

const validCatalog = `version: "1.0.0"
entries:
  - name: Aluminium Can
    category: Other
    keywords: [soda can, tin can]
    carbon_footprint: 170
    unit: g
`

func TestCatalogListAndValidate(t *testing.T) {
	home := setupCLITest(t)

	out, _, err := runCLI(t, "catalog", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Plastic Water Bottle")
	assert.Contains(t, out, "Paper Coffee Cup")

	path := filepath.Join(home, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validCatalog), 0o600))

	out, _, err = runCLI(t, "catalog", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid: 1 entries")

	t.Setenv("ECOLENS_CATALOG_FILE", path)
	out, _, err = runCLI(t, "catalog", "list", "-o", "json")
	require.NoError(t, err)
	var entries []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 5)
	assert.Equal(t, "Aluminium Can", entries[4].Name)

	out, _, err = runCLI(t, "scan", "--label", "tin can")
	require.NoError(t, err)
	assert.Contains(t, out, "Aluminium Can")

	bad := filepath.Join(home, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("version: \"3.0.0\"\nentries: []\n"), 0o600))
	_, _, err = runCLI(t, "catalog", "validate", bad)
	require.Error(t, err)
}
