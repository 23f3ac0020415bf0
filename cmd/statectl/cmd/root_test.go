package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appstate "github.com/0xLeif/AppState-sub000"
)

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--dir", dir, "--config", filepath.Join(dir, "none.yaml")}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags() {
	_ = getCmd.Flags().Set("output", "json")
	_ = setCmd.Flags().Set("string", "false")
}

func TestSetGetRm(t *testing.T) {
	t.Cleanup(resetFlags)
	dir := t.TempDir()

	_, err := run(t, dir, "set", "Settings/theme", `{"name": "dark", "contrast": 2}`)
	require.NoError(t, err)

	out, err := run(t, dir, "get", "Settings/theme")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"dark","contrast":2}`+"\n", out)

	out, err = run(t, dir, "get", "Settings/theme", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "name: dark")

	_, err = run(t, dir, "rm", "Settings/theme")
	require.NoError(t, err)
	_, err = run(t, dir, "get", "Settings/theme", "-o", "json")
	assert.True(t, errors.Is(err, appstate.ErrNotFound))
}

func TestSetRejectsInvalidJSON(t *testing.T) {
	t.Cleanup(resetFlags)
	dir := t.TempDir()

	_, err := run(t, dir, "set", "Notes/today", "buy milk")
	assert.Error(t, err)

	_, err = run(t, dir, "set", "--string", "Notes/today", "buy milk")
	require.NoError(t, err)
	out, err := run(t, dir, "get", "Notes/today")
	require.NoError(t, err)
	assert.Equal(t, `"buy milk"`+"\n", out)

	_, err = run(t, dir, "set", "bare", "1")
	assert.Error(t, err)
}

func TestDumpExportImport(t *testing.T) {
	t.Cleanup(resetFlags)
	src, dst := t.TempDir(), t.TempDir()

	out, err := run(t, src, "dump")
	require.NoError(t, err)
	assert.Equal(t, "(no entries)\n", out)

	for _, kv := range [][2]string{{"B/2", "2"}, {"A/1", `"one"`}, {"A/x y", `[1,2]`}} {
		_, err := run(t, src, "set", kv[0], kv[1])
		require.NoError(t, err)
	}

	out, err = run(t, src, "dump")
	require.NoError(t, err)
	assert.Equal(t, "A/1\t\"one\"\nA/x y\t[1,2]\nB/2\t2\n", out)

	bundle := filepath.Join(t.TempDir(), "state.bundle")
	out, err = run(t, src, "export", bundle)
	require.NoError(t, err)
	assert.Contains(t, out, "exported 3 entries")

	out, err = run(t, dst, "import", bundle)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 3 entries")

	out, err = run(t, dst, "dump")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "\n"))

	require.NoError(t, os.WriteFile(bundle, []byte("not a bundle"), 0o600))
	_, err = run(t, dst, "import", bundle)
	assert.Error(t, err)
}
