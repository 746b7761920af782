// Package mmdbuild is the diagram build driver: it prepares the project layout,
// discovers diagram sources and renders each of them in turn with an external
// renderer.
package mmdbuild

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"oss.terrastruct.com/xdefer"

	"oss.terrastruct.com/mmdgen/lib/go2"
)

const (
	SourceExt = ".mmd"

	DefaultDiagramsDir = "diagrams"
	DefaultImagesDir   = "images"
	DefaultConfigPath  = "scripts/mermaid-config.json"
	DefaultFormat      = "svg"
)

// Formats lists the output formats mmdc can produce.
var Formats = []string{"svg", "png", "pdf"}

// Layout is where a build reads sources from and writes images and config to.
type Layout struct {
	DiagramsDir string
	ImagesDir   string
	ConfigPath  string
	// Format is the output extension without the leading dot.
	Format string
}

// DefaultLayout returns the well-known layout rooted at dir.
func DefaultLayout(dir string) Layout {
	return Layout{
		DiagramsDir: filepath.Join(dir, DefaultDiagramsDir),
		ImagesDir:   filepath.Join(dir, DefaultImagesDir),
		ConfigPath:  filepath.Join(dir, filepath.FromSlash(DefaultConfigPath)),
		Format:      DefaultFormat,
	}
}

func (l Layout) OutputExt() string {
	return "." + l.Format
}

// OutputPath maps a source file to its image in l.ImagesDir.
func (l Layout) OutputPath(input string) string {
	base := strings.TrimSuffix(filepath.Base(input), SourceExt)
	return filepath.Join(l.ImagesDir, base+l.OutputExt())
}

func ValidateFormat(format string) error {
	if go2.Contains(Formats, format) {
		return nil
	}
	return fmt.Errorf("unsupported output format %q, expected one of %s", format, strings.Join(Formats, ", "))
}

// EnsureDirectories creates the diagrams and images directories and the parent of the
// config file, along with any missing parents.
func EnsureDirectories(l Layout) (err error) {
	defer xdefer.Errorf(&err, "failed to create directories")

	for _, dir := range []string{l.DiagramsDir, l.ImagesDir, filepath.Dir(l.ConfigPath)} {
		err = os.MkdirAll(dir, 0755)
		if err != nil {
			return err
		}
	}
	return nil
}

// Setup runs EnsureDirectories and then EnsureConfig.
func Setup(l Layout) (configCreated bool, err error) {
	err = EnsureDirectories(l)
	if err != nil {
		return false, err
	}
	return EnsureConfig(l.ConfigPath)
}
