package mmdcli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProject(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		data   *string
		exp    project
		expErr string
	}{
		{
			name: "missing",
		},
		{
			name: "empty",
			data: strp(""),
		},
		{
			name: "full",
			data: strp(`diagrams: docs/diagrams
images: docs/images
config: docs/mermaid.json
renderer: ./node_modules/.bin/mmdc
format: png
`),
			exp: project{
				Diagrams: "docs/diagrams",
				Images:   "docs/images",
				Config:   "docs/mermaid.json",
				Renderer: "./node_modules/.bin/mmdc",
				Format:   "png",
			},
		},
		{
			name:   "unknown_field",
			data:   strp("theme: dark\n"),
			expErr: "field theme not found",
		},
		{
			name:   "not_a_map",
			data:   strp("- diagrams\n"),
			expErr: "cannot unmarshal",
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), projectFile)
			if tc.data != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tc.data), 0644))
			}
			p, err := loadProject(path)
			if tc.expErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.exp, p)
		})
	}
}

func TestOr(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a", or("a", "b"))
	assert.Equal(t, "b", or("", "b"))
}

func strp(s string) *string {
	return &s
}
