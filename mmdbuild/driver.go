package mmdbuild

import (
	"context"
	"fmt"
	"time"

	"cdr.dev/slog"
	"go.uber.org/multierr"

	"oss.terrastruct.com/mmdgen/lib/background"
	"oss.terrastruct.com/mmdgen/lib/log"
	"oss.terrastruct.com/mmdgen/lib/simplelog"
	timelib "oss.terrastruct.com/mmdgen/lib/time"
	"oss.terrastruct.com/mmdgen/mmdrender"
)

const defaultProgressInterval = time.Second * 5

// Driver renders jobs one at a time.
type Driver struct {
	Layout   Layout
	Renderer mmdrender.Renderer
	// Log receives the per-job lines. Nil logs to the lib/log logger in ctx.
	Log simplelog.Logger

	// Timeout bounds a single render. Zero means no limit.
	Timeout time.Duration
	// ProgressInterval is how often a slow render is reported. Zero means 5s.
	ProgressInterval time.Duration
}

// Result is the outcome of one Job.
type Result struct {
	Job      Job
	Err      error
	Duration time.Duration
}

func (r Result) OK() bool {
	return r.Err == nil
}

type Summary struct {
	Results []Result
}

func (s Summary) Succeeded() int {
	n := 0
	for _, r := range s.Results {
		if r.OK() {
			n++
		}
	}
	return n
}

func (s Summary) Failed() int {
	return len(s.Results) - s.Succeeded()
}

// Err combines the errors of every failed job, or returns nil.
func (s Summary) Err() error {
	var err error
	for _, r := range s.Results {
		if !r.OK() {
			err = multierr.Append(err, fmt.Errorf("%s: %w", r.Job.Name(), r.Err))
		}
	}
	return err
}

func (s Summary) String() string {
	return fmt.Sprintf("%d succeeded, %d failed", s.Succeeded(), s.Failed())
}

// RunJobs renders jobs sequentially. A failed job is logged and does not stop the
// remaining ones. Only cancellation of ctx stops the loop early, in which case the
// summary covers the jobs attempted so far.
func (d *Driver) RunJobs(ctx context.Context, jobs []Job) Summary {
	var s Summary
	for _, j := range jobs {
		if ctx.Err() != nil {
			break
		}
		s.Results = append(s.Results, d.RunJob(ctx, j))
	}
	return s
}

// RunJob renders a single job and logs its outcome.
func (d *Driver) RunJob(ctx context.Context, j Job) Result {
	l := d.Log
	if l == nil {
		l = simplelog.FromLibLog(ctx)
	}
	l.Info(fmt.Sprintf("processing: %s", j.Name()))

	interval := d.ProgressInterval
	if interval <= 0 {
		interval = defaultProgressInterval
	}
	cancelProgress := background.Repeat(func(elapsed time.Duration) {
		l.Info(fmt.Sprintf("still rendering %s (%s)...", j.Name(), timelib.HumanDuration(elapsed)))
	}, interval)

	start := time.Now()
	err := d.render(ctx, j)
	cancelProgress()
	dur := time.Since(start)

	if err != nil {
		l.Error(fmt.Sprintf("failed to generate %s: %v", j.Name(), err))
	} else {
		l.Success(fmt.Sprintf("generated: %s in %s", j.OutputName(), timelib.HumanDuration(dur)))
	}
	return Result{
		Job:      j,
		Err:      err,
		Duration: dur,
	}
}

func (d *Driver) render(ctx context.Context, j Job) error {
	ctx, cancel := timelib.WithTimeout(ctx, d.Timeout)
	defer cancel()

	req := mmdrender.Request{
		Input:  j.Input,
		Output: j.Output,
		Config: d.Layout.ConfigPath,
	}
	log.Debug(ctx, fmt.Sprintf("rendering %v", req),
		slog.F("renderer", d.Renderer.Name()),
		slog.F("config", req.Config),
	)
	return d.Renderer.Render(ctx, req)
}
