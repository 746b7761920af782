package mmdbuild

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLayout(t *testing.T) {
	t.Parallel()

	l := DefaultLayout("/work")
	assert.Equal(t, filepath.FromSlash("/work/diagrams"), l.DiagramsDir)
	assert.Equal(t, filepath.FromSlash("/work/images"), l.ImagesDir)
	assert.Equal(t, filepath.FromSlash("/work/scripts/mermaid-config.json"), l.ConfigPath)
	assert.Equal(t, ".svg", l.OutputExt())
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	l := DefaultLayout("/work")
	testCases := []struct {
		name   string
		format string
		input  string
		exp    string
	}{
		{
			name:   "svg",
			format: "svg",
			input:  "/work/diagrams/flow.mmd",
			exp:    "/work/images/flow.svg",
		},
		{
			name:   "png",
			format: "png",
			input:  "/work/diagrams/seq.mmd",
			exp:    "/work/images/seq.png",
		},
		{
			name:   "only_last_ext",
			format: "svg",
			input:  "/work/diagrams/a.mmd.mmd",
			exp:    "/work/images/a.mmd.svg",
		},
		{
			name:   "dots",
			format: "pdf",
			input:  "/work/diagrams/v1.2-arch.mmd",
			exp:    "/work/images/v1.2-arch.pdf",
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			l := l
			l.Format = tc.format
			assert.Equal(t, filepath.FromSlash(tc.exp), l.OutputPath(filepath.FromSlash(tc.input)))
		})
	}
}

func TestValidateFormat(t *testing.T) {
	t.Parallel()

	for _, f := range Formats {
		assert.NoError(t, ValidateFormat(f))
	}
	err := ValidateFormat("gif")
	assert.EqualError(t, err, `unsupported output format "gif", expected one of svg, png, pdf`)
}

func TestEnsureDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l := DefaultLayout(filepath.Join(dir, "nested", "project"))

	require.NoError(t, EnsureDirectories(l))
	assert.DirExists(t, l.DiagramsDir)
	assert.DirExists(t, l.ImagesDir)
	assert.DirExists(t, filepath.Dir(l.ConfigPath))

	// Existing directories and their contents are left alone.
	keep := filepath.Join(l.DiagramsDir, "keep.mmd")
	require.NoError(t, os.WriteFile(keep, []byte("graph TD"), 0644))
	require.NoError(t, EnsureDirectories(l))
	assert.FileExists(t, keep)
}

func TestEnsureDirectoriesFileInTheWay(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l := DefaultLayout(dir)
	require.NoError(t, os.WriteFile(l.ImagesDir, []byte("not a dir"), 0644))

	err := EnsureDirectories(l)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create directories")
}

func TestSetup(t *testing.T) {
	t.Parallel()

	l := DefaultLayout(t.TempDir())
	created, err := Setup(l)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = Setup(l)
	require.NoError(t, err)
	assert.False(t, created)
}
