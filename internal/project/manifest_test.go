package project_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lowc/internal/project"
	"lowc/internal/trace"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, project.ManifestName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestFind_WalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname = \"demo\"\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path, ok, err := project.Find(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, project.ManifestName), path)
}

func TestLoad_NoManifest(t *testing.T) {
	m, ok, err := project.Load(t.TempDir())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, m)
}

func TestLoadFile_DefaultsAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[package]
name = "demo"
requires = ">= 0.1.0-0"

[build]
fold = false
jobs = 4

[trace]
level = "detail"
`)
	cfg, err := project.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.Package.Name)
	assert.False(t, cfg.Build.Fold)
	assert.True(t, cfg.Build.Simplify, "unset keys keep their defaults")
	assert.Equal(t, 4, cfg.Build.Jobs)
	assert.Equal(t, project.EmitIR, cfg.Build.Emit)
	assert.Equal(t, trace.LevelDetail, cfg.Trace.Level)
	assert.Equal(t, "-", cfg.Trace.Output)
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing name", "[build]\nfold = true\n", "missing [package].name"},
		{"unknown key", "[package]\nname = \"x\"\ncolour = 1\n", "unknown keys: package.colour"},
		{"bad emit", "[package]\nname = \"x\"\n[build]\nemit = \"asm\"\n", "[build].emit"},
		{"negative jobs", "[package]\nname = \"x\"\n[build]\njobs = -1\n", "[build].jobs"},
		{"bad constraint", "[package]\nname = \"x\"\nrequires = \"abc\"\n", "[package].requires"},
		{"bad level", "[package]\nname = \"x\"\n[trace]\nlevel = \"loud\"\n", "failed to parse TOML"},
		{"bad toml", "[package\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.body)
			_, err := project.LoadFile(path)
			require.Error(t, err)
			var me *project.ManifestError
			require.True(t, errors.As(err, &me))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCheckRequires(t *testing.T) {
	cfg := project.Default()
	require.NoError(t, cfg.CheckRequires("0.1.0-dev"), "empty constraint accepts anything")

	cfg.Package.Requires = ">= 0.2.0"
	err := cfg.CheckRequires("0.1.0")
	require.Error(t, err)
	assert.True(t, errors.Is(err, project.ErrIncompatible))

	require.NoError(t, cfg.CheckRequires("0.3.1"))
	require.Error(t, cfg.CheckRequires("garbage"))
}

func TestManifest_Inputs(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname = \"demo\"\n[build]\ninputs = [\"*.last\", \"src/*.json\", \"a.last\"]\nout_dir = \"out\"\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	for _, name := range []string{"b.last", "a.last", "src/c.json", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), nil, 0o600))
	}

	m, ok, err := project.Load(root)
	require.NoError(t, err)
	require.True(t, ok)

	inputs, err := m.Inputs()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.last"),
		filepath.Join(root, "b.last"),
		filepath.Join(root, "src", "c.json"),
	}, inputs)
	assert.Equal(t, filepath.Join(root, "out"), m.OutDir())
}

func TestDigest_Combine(t *testing.T) {
	a := project.Sum([]byte("a"))
	b := project.Sum([]byte("b"))
	assert.NotEqual(t, project.Combine(a, b), project.Combine(b, a))
	assert.Equal(t, project.Combine(a, b), project.Combine(a, b))
	assert.Len(t, a.String(), 64)
}
