package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var fixtureCSV = map[string]string{
	"merged_data.csv": "reference_area,time,series,value\n" +
		"Japan,2019-01-01,contr_unit_labor_cost,1.2\n" +
		"Japan,2019-04-01,contr_unit_labor_cost,-0.3\n" +
		"Japan,2019-04-01,contr_unit_profit,0.7\n" +
		"Canada,2019-01-01,labor_share,55.1\n" +
		"Canada,2020-07-01,inflation_def,3.1\n",
	"merged_data_avg.csv": "reference_area,time,decade,var,series,value\n" +
		"Japan,,2010s,mean,contr_unit_labor_cost,0.4\n",
	"merged_data_real_incomes.csv": "reference_area,time,series,value\n" +
		"Japan,2019-01-01,real_labor_comp_def,100\n",
	"country_notes.csv": "country,note\n" +
		"Canada,Data for Canada are seasonally adjusted.\n",
}

// writeFixture lays out a csv data directory and a config file pointing at it,
// returning the config path.
func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	for name, body := range fixtureCSV {
		require.NoError(t, os.WriteFile(filepath.Join(dataDir, name), []byte(body), 0o644))
	}

	cfg := fmt.Sprintf(`[server]
port = "8099"
gin_mode = "test"

[data]
source = "csv"
dir = %q

[dashboard]
default_entity = "Japan"

[session]
idle_ttl = "5m"
`, dataDir)
	path := filepath.Join(dir, "inflationdash.toml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}
