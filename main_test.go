package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stojg/bestfit/leastsquares"
)

func testConfig() *config {
	return &config{
		input:     "-",
		format:    defaultReport,
		tolerance: leastsquares.DefaultConditionTolerance,
	}
}

func runWith(t *testing.T, cfg *config, stdin string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(cfg, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunDataset(t *testing.T) {
	tests := []struct {
		dataset           string
		slope, intercept string
	}{
		{"challenger:7", "-0.025393", "3.046495"},
		{"challenger", "-0.060333", "4.645000"},
	}
	for _, tt := range tests {
		t.Run(tt.dataset, func(t *testing.T) {
			cfg := testConfig()
			cfg.dataset = tt.dataset

			code, stdout, stderr := runWith(t, cfg, "")
			require.Equal(t, 0, code, stderr)
			require.Contains(t, stdout, "source:       dataset "+tt.dataset)
			require.Contains(t, stdout, "slope:        "+tt.slope+"\n")
			require.Contains(t, stdout, "intercept:    "+tt.intercept+"\n")
		})
	}
}

func TestRunStdin(t *testing.T) {
	cfg := testConfig()
	cfg.format = `{{ slope|stringformat:"%.1f" }},{{ intercept|stringformat:"%.1f" }},{{ skipped }}`

	code, stdout, stderr := runWith(t, cfg, "1,3\noops\n2,5\n3,7\n")
	require.Equal(t, 0, code)
	require.Equal(t, "2.0,1.0,1", stdout)
	require.Contains(t, stderr, "skipping line 2: expected two comma separated values")
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pairs.csv")
	require.NoError(t, os.WriteFile(path, []byte("1,2\n2,4\n3,6\n4,8\n5,10\n"), 0o600))

	cfg := testConfig()
	cfg.input = path
	cfg.format = `{{ slope|stringformat:"%.3f" }} {{ n }}`

	code, stdout, _ := runWith(t, cfg, "")
	require.Equal(t, 0, code)
	require.Equal(t, "2.000 5", stdout)
}

func TestRunSkipsOversizedLine(t *testing.T) {
	cfg := testConfig()
	cfg.format = `{{ n }} {{ skipped }}`

	in := "1,1\n" + strings.Repeat("x", 70*1024) + "\n2,2\n3,3\n"
	code, stdout, stderr := runWith(t, cfg, in)
	require.Equal(t, 0, code, stderr)
	require.Equal(t, "3 1", stdout)
	require.Contains(t, stderr, "skipping line 2: longer than")
}

func TestRunNoPairs(t *testing.T) {
	code, stdout, stderr := runWith(t, testConfig(), "a,b\n\n")
	require.Equal(t, 2, code)
	require.Empty(t, stdout)
	require.Contains(t, stderr, "no valid x,y pairs were found in stdin (1 lines skipped)")
}

func TestRunSingular(t *testing.T) {
	code, stdout, stderr := runWith(t, testConfig(), "5,1\n5,2\n5,3\n")
	require.Equal(t, 1, code)
	require.Empty(t, stdout)
	require.Contains(t, stderr, "singular system")
}

func TestRunReadError(t *testing.T) {
	cfg := testConfig()
	cfg.input = filepath.Join(t.TempDir(), "missing.csv")

	code, _, stderr := runWith(t, cfg, "")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "Failed to read observations from "+cfg.input)

	cfg = testConfig()
	cfg.dataset = "columbia"
	code, _, stderr = runWith(t, cfg, "")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "unknown dataset 'columbia'")
}

func TestRunBadTemplate(t *testing.T) {
	cfg := testConfig()
	cfg.format = "{% if %}"
	code, _, stderr := runWith(t, cfg, "1,1\n2,2\n")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "could not render report")
}

func TestConfigSource(t *testing.T) {
	cfg := testConfig()
	require.Equal(t, "stdin", cfg.source())

	cfg.input = "data.csv"
	require.Equal(t, "data.csv", cfg.source())

	cfg.serialDev = "/dev/ttyUSB0"
	require.Equal(t, "serial /dev/ttyUSB0", cfg.source())

	cfg.cw = cloudWatchQuery{namespace: "SS", x: "requests", y: "cpu"}
	require.Equal(t, "cloudwatch SS requests/cpu", cfg.source())

	cfg.dataset = "challenger"
	require.Equal(t, "dataset challenger", cfg.source())
}
