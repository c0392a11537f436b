package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Degagemain/degage-sub000/internal/platform/logger"
)

func testOptions(t *testing.T) options {
	t.Helper()
	return options{
		refdata:     filepath.Join("..", "..", "testdata", "refdata.yaml"),
		inputs:      filepath.Join("testdata", "inputs.yaml"),
		locale:      "en",
		today:       "2025-06-01",
		concurrency: 2,
		baseline:    30000,
	}
}

func TestRun_PrintsOneLinePerInput(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), testOptions(t), &out, logger.Discard())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "1\tgent\t"))
	assert.True(t, strings.HasPrefix(lines[2], "3\taalst\t"))
}

func TestRun_WritesXLSX(t *testing.T) {
	opts := testOptions(t)
	opts.xlsx = filepath.Join(t.TempDir(), "runs.xlsx")

	err := run(context.Background(), opts, &bytes.Buffer{}, logger.Discard())
	require.NoError(t, err)

	info, err := os.Stat(opts.xlsx)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRun_MissingInputs(t *testing.T) {
	opts := testOptions(t)
	opts.inputs = filepath.Join(t.TempDir(), "missing.yaml")

	err := run(context.Background(), opts, &bytes.Buffer{}, logger.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read inputs")
}

func TestRun_BadToday(t *testing.T) {
	opts := testOptions(t)
	opts.today = "01/06/2025"

	err := run(context.Background(), opts, &bytes.Buffer{}, logger.Discard())
	require.Error(t, err)
}
