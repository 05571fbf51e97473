package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindowFlags(t *testing.T) {
	window, err := parseWindowFlags("01/01/2024", "31/03/2024")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), window.From)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), window.To)

	window, err = parseWindowFlags("", "")
	require.NoError(t, err)
	assert.True(t, window.IsZero())

	_, err = parseWindowFlags("2024-01-01", "")
	assert.Error(t, err)

	_, err = parseWindowFlags("31/03/2024", "01/01/2024")
	assert.Error(t, err)
}

func TestReadBatchFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`[{"data":"31/12/2023","valor":11.75},{"data":"01/01/2024","valor":"11.75"}]`), 0o600))

	reqs, err := readBatchFile(good)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "01/01/2024", reqs[1].DateText)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"data":"31/12/2023"}`), 0o600))

	_, err = readBatchFile(bad)
	assert.Error(t, err)

	_, err = readBatchFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"api", "sync", "ingest", "raw", "target", "test-db", "scheduler"}

	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range want {
		assert.True(t, names[name], "missing command %s", name)
	}
}
