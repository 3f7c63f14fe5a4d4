package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"tra-converter/internal/convert"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command in a fresh working directory.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("TRA_LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseVerb(t *testing.T) {
	v, err := parseVerb("po_to_tra")
	require.NoError(t, err)
	assert.Equal(t, convert.Backward, v.direction)
	assert.Equal(t, "po", v.format)

	v, err = parseVerb("TRA-TO-JSON")
	require.NoError(t, err)
	assert.Equal(t, convert.Forward, v.direction)
	assert.Equal(t, "json", v.format)

	_, err = parseVerb("tra-to-xml")
	assert.ErrorContains(t, err, "unknown conversion")
}

func TestTraToPoCommand(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "English"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "English", "DIALOG.tra"), []byte("@0 = ~Hello~\n"), 0o644))

	_, err := runCLI(t, "tra_to_po", "DIALOG", "--root", root)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "Working_po", "DIALOG.po"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "msgid \"Hello\"")
	assert.DirExists(t, filepath.Join(root, "Finished_tra"))
}

func TestConversionFailureKeepsExitCode(t *testing.T) {
	_, err := runCLI(t, "po-to-tra", "MISSING", "--root", t.TempDir())
	assert.NoError(t, err)
}

func TestRangesCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "A.tra")
	content := "@1 = ~a~\n@2 = ~b~\n@3 = ~c~\n@4 = ~ ~\n@5 = ~~\n@6 = ~~\n@7 = ~x~\n@8 = ~y~\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	out, err := runCLI(t, "ranges", path)
	require.NoError(t, err)
	assert.Equal(t, "present: 1-3, 7-8\nempty: 4-6\n", out)
}

func TestCompareCommand(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.tra")
	b := filepath.Join(dir, "b.json")
	require.NoError(t, os.WriteFile(a, []byte("@1 = ~a~\n@2 = ~b~\n@3 = ~c~\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte(`{"1": {"a": "x"}, "3": {"c": "z"}, "9": {"q": "w"}}`), 0o644))

	out, err := runCLI(t, "compare", a, b)
	require.NoError(t, err)
	assert.Equal(t, "missing: 2\nextra: 9\n", out)
}

func TestUsageErrors(t *testing.T) {
	_, err := runCLI(t, "tra-to-po")
	assert.Error(t, err)

	_, err = runCLI(t, "batch", "tra-to-xml")
	assert.Error(t, err)

	_, err = runCLI(t, "ranges", "x.tra", "--compare", "fuzzy")
	assert.Error(t, err)
}
