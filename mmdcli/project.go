package mmdcli

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
	"oss.terrastruct.com/xdefer"
)

// projectFile optionally holds per-repository defaults. Flags and environment
// variables take precedence over it.
const projectFile = ".mmdgen.yml"

type project struct {
	Diagrams string `yaml:"diagrams"`
	Images   string `yaml:"images"`
	Config   string `yaml:"config"`
	Renderer string `yaml:"renderer"`
	Format   string `yaml:"format"`
}

func loadProject(path string) (_ project, err error) {
	defer xdefer.Errorf(&err, "failed to load %s", path)

	var p project
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return p, nil
		}
		return p, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	err = dec.Decode(&p)
	if err != nil && !errors.Is(err, io.EOF) {
		return project{}, err
	}
	return p, nil
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
