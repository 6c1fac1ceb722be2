package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = "liturgy_date,opening_song\n2024-01-07,KJ 1\n2024-01-14,KJ 2\n2024-02-04,PKJ 3\nbukan tanggal,KJ 4\n"

// writeConfig creates a CSV dataset and a config pointing at it.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "liturgi.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(testCSV), 0600))

	cfgPath := filepath.Join(dir, "config.yaml")
	yaml := "source:\n  kind: csv\n  csv_path: " + csvPath + "\n" +
		"ai:\n  provider: placeholder\n" +
		"history:\n  backend: sqlite\n  path: " + filepath.Join(dir, "history.db") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0600))
	return cfgPath
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestMonthsCommand(t *testing.T) {
	out, _, err := run(t, "--config", writeConfig(t), "months")
	require.NoError(t, err)
	assert.Contains(t, out, "MONTH")
	assert.Regexp(t, `2024-01\s+2`, out)
	assert.Regexp(t, `2024-02\s+1`, out)
	assert.Regexp(t, `Unknown\s+1`, out)
}

func TestAskThenHistory(t *testing.T) {
	cfg := writeConfig(t)

	out, _, err := run(t, "--config", cfg, "ask", "-i", "Lagu apa yang paling sering?", "--rows", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "karakter")

	out, _, err = run(t, "--config", cfg, "history", "-n", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Lagu apa yang paling sering?")
	assert.Contains(t, out, "placeholder")
}

func TestAskRejectsBothInstructionSources(t *testing.T) {
	askFlags.instruction, askFlags.file = "a", "b"
	defer func() { askFlags.instruction, askFlags.file = "", "" }()

	_, err := readInstruction()
	assert.Error(t, err)
}

func TestReadInstructionFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instruksi.txt")
	require.NoError(t, os.WriteFile(path, []byte("  Ringkas tema khotbah.\n"), 0600))
	askFlags.file = path
	defer func() { askFlags.file = "" }()

	got, err := readInstruction()
	require.NoError(t, err)
	assert.Equal(t, "Ringkas tema khotbah.", got)
}

func TestOneLine(t *testing.T) {
	assert.Equal(t, "a b c", oneLine("a\n b\tc", 10))
	assert.Equal(t, "abcd…", oneLine("abcdefgh", 5))
}

func TestInitRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, _, err := run(t, "--config", path, "init")
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, _, err = run(t, "--config", path, "init")
	assert.Error(t, err)
}
