package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diamondprep/internal/analysis"
	"diamondprep/internal/shared/testutil"
)

func TestRun_SummaryAndPlots(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	var stdout bytes.Buffer

	err := run(context.Background(), []string{"-source", testutil.WriteSampleCSV(t), "-dir", dir}, &stdout)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, SummaryFile))
	require.NoError(t, err)

	var report analysis.Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, testutil.SampleRows, report.Rows)
	require.NotEmpty(t, report.ValueCounts["cut"])
	assert.Equal(t, "Ideal", report.ValueCounts["cut"][0].Value)
	assert.Equal(t, 2, report.ValueCounts["cut"][0].Count)

	for _, name := range []string{"price_hist.png", "carat_hist.png", "cut_counts.png", "color_counts.png", "clarity_counts.png"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}
	assert.Contains(t, stdout.String(), "5 rows")
}

func TestRun_NoPlots(t *testing.T) {
	dir := t.TempDir()

	err := run(context.Background(), []string{"-source", testutil.WriteSampleCSV(t), "-dir", dir, "-no-plots"}, &bytes.Buffer{})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, SummaryFile, entries[0].Name())
}

func TestRun_MissingSource(t *testing.T) {
	err := run(context.Background(), []string{"-source", filepath.Join(t.TempDir(), "nope.csv"), "-dir", t.TempDir()}, &bytes.Buffer{})
	assert.Error(t, err)
}
