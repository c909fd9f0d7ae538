package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiremani/cgen/config"
	"github.com/thiremani/cgen/harness"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	root := newRootCmd()
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func blessedPath(t *testing.T) (unit, want string) {
	t.Helper()
	dir, err := filepath.Abs(filepath.Join("harness", "testdata", "tests", "bless"))
	require.NoError(t, err)
	return filepath.Join(dir, "basic_math.yaml"), filepath.Join(dir, "basic_math.c")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "cgen dev ("), out)
}

func TestRender(t *testing.T) {
	unit, blessed := blessedPath(t)
	want, err := os.ReadFile(blessed)
	require.NoError(t, err)
	t.Chdir(t.TempDir())

	out, err := execute(t, "render", unit)
	require.NoError(t, err)
	assert.Equal(t, string(want), out)

	path := filepath.Join("out", "basic_math.c")
	out, err = execute(t, "render", unit, "-o", path)
	require.NoError(t, err)
	assert.Empty(t, out)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestRenderWidth(t *testing.T) {
	unit, _ := blessedPath(t)
	t.Chdir(t.TempDir())

	out, err := execute(t, "render", unit, "--width", "25")
	require.NoError(t, err)
	assert.Contains(t, out, "int32_t main()\n{\n  return 0;\n}\n")

	_, err = execute(t, "render", unit, "--width", "5")
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
}

func TestRenderErrors(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := execute(t, "render")
	require.Error(t, err)

	_, err = execute(t, "render", "missing.yaml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestMissingConfigFlag(t *testing.T) {
	unit, _ := blessedPath(t)
	t.Chdir(t.TempDir())

	_, err := execute(t, "--config", "absent.yaml", "render", unit)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "absent.yaml")
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, err := execute(t, "init")
	require.NoError(t, err)
	assert.Equal(t, "Initialized cgen configuration at .cgen/config.yaml\n", filepath.ToSlash(out))

	cfg, err := config.LoadFromPath(filepath.Join(dir, ".cgen", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	out, err = execute(t, "init")
	require.NoError(t, err)
	assert.Equal(t, "Already initialized at .cgen/config.yaml\n", filepath.ToSlash(out))
}

func TestTestCommand(t *testing.T) {
	unit, blessed := blessedPath(t)
	dir := t.TempDir()
	cases := filepath.Join(dir, "cases", "bless")
	require.NoError(t, os.MkdirAll(cases, 0755))
	data, err := os.ReadFile(unit)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(cases, "basic_math.yaml"), data, 0644))

	cfgPath := filepath.Join(dir, "cgen.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("tests:\n  root: cases\n  out_dir: out\n"), 0644))
	t.Chdir(dir)

	_, err = execute(t, "--config", cfgPath, "test")
	require.Error(t, err)
	assert.True(t, errors.Is(err, harness.ErrBlessMismatch))

	out, err := execute(t, "--config", cfgPath, "test", "--bless")
	require.NoError(t, err)
	assert.Equal(t, "[TEST] found 1 testcases\nBlessing bless/basic_math...OK\n", out)

	got, err := os.ReadFile(filepath.Join(cases, "basic_math.c"))
	require.NoError(t, err)
	want, err := os.ReadFile(blessed)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))

	out, err = execute(t, "--config", cfgPath, "test", "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "Blessing bless/basic_math...")
	assert.Contains(t, out, "cgen: rendered ")
}
