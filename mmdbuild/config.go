package mmdbuild

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"oss.terrastruct.com/xdefer"
)

// Config is the mermaid-cli configuration passed to every render.
type Config struct {
	Theme           string  `json:"theme"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	BackgroundColor string  `json:"backgroundColor"`
	Scale           float64 `json:"scale"`
}

func DefaultConfig() Config {
	return Config{
		Theme:           "default",
		Width:           1200,
		Height:          800,
		BackgroundColor: "white",
		Scale:           2,
	}
}

// Marshal returns c as JSON indented by two spaces.
func (c Config) Marshal() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// EnsureConfig writes DefaultConfig to path unless a file already exists there. An
// existing file is never read or rewritten.
func EnsureConfig(path string) (created bool, err error) {
	defer xdefer.Errorf(&err, "failed to ensure config %s", path)

	_, err = os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	b, err := DefaultConfig().Marshal()
	if err != nil {
		return false, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, err
	}
	_, err = f.Write(b)
	if err != nil {
		f.Close()
		os.Remove(path)
		return false, err
	}
	err = f.Close()
	if err != nil {
		os.Remove(path)
		return false, err
	}
	return true, nil
}

// ReadConfig decodes the config at path. Unknown keys are kept by mmdc and ignored
// here.
func ReadConfig(path string) (_ Config, err error) {
	defer xdefer.Errorf(&err, "failed to read config %s", path)

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var c Config
	err = json.Unmarshal(b, &c)
	if err != nil {
		return Config{}, err
	}
	return c, nil
}
