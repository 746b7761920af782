package mmdbuild

import (
	"os"
	"path/filepath"
	"strings"

	"oss.terrastruct.com/xdefer"
)

// Job renders one diagram source to one image.
type Job struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

func (j Job) Name() string {
	return filepath.Base(j.Input)
}

func (j Job) OutputName() string {
	return filepath.Base(j.Output)
}

// IsSource reports whether name has the diagram source extension.
func IsSource(name string) bool {
	return strings.HasSuffix(name, SourceExt)
}

// DiscoverJobs returns a Job for every source file directly inside l.DiagramsDir, in
// directory listing order.
func DiscoverJobs(l Layout) (_ []Job, err error) {
	defer xdefer.Errorf(&err, "failed to list %s", l.DiagramsDir)

	entries, err := os.ReadDir(l.DiagramsDir)
	if err != nil {
		return nil, err
	}

	var jobs []Job
	for _, e := range entries {
		if e.IsDir() || !IsSource(e.Name()) {
			continue
		}
		jobs = append(jobs, NewJob(l, filepath.Join(l.DiagramsDir, e.Name())))
	}
	return jobs, nil
}

func NewJob(l Layout, input string) Job {
	return Job{
		Input:  input,
		Output: l.OutputPath(input),
	}
}
