package mmdrender

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"oss.terrastruct.com/xdefer"
	"oss.terrastruct.com/xos"

	"oss.terrastruct.com/mmdgen/lib/xexec"
)

// waitDelay bounds how long Render waits for the renderer's output pipes to close after
// it was killed.
const waitDelay = time.Second

// execRenderer uses the binary named bin to implement the Renderer interface.
//
// The binary is invoked as
//
//	bin -i <input> -o <output> -c <config>
//
// Its stdout is discarded. Its stderr is only surfaced as part of the returned error
// when it exits with a non zero status code.
//
// bin is resolved against $PATH of env on every Render so that a missing renderer
// fails each job rather than the whole run.
//
// On cancellation the whole process group is killed, as mmdc is often a wrapper script
// (npx, version manager shims) whose children would otherwise hold stderr open.
type execRenderer struct {
	bin string
	env *xos.Env
}

// Exec returns a Renderer that runs bin as a subprocess.
func Exec(bin string, env *xos.Env) Renderer {
	return execRenderer{
		bin: bin,
		env: env,
	}
}

func (r execRenderer) Name() string {
	return r.bin
}

func (r execRenderer) Render(ctx context.Context, req Request) (err error) {
	path, err := xexec.LookPath(r.env, r.bin)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, path, "-i", req.Input, "-o", req.Output, "-c", req.Config)
	defer xdefer.Errorf(&err, "failed to run %v", cmd.Args)
	cmd.Env = r.env.Environ()
	cmd.Stdout = io.Discard
	stderr := &strings.Builder{}
	cmd.Stderr = stderr
	killProcessGroup(cmd)
	cmd.WaitDelay = waitDelay

	err = cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ctx.Err(), err)
		}
		ee := &exec.ExitError{}
		if errors.As(err, &ee) && stderr.Len() > 0 {
			return fmt.Errorf("%v\nstderr:\n%s", ee, strings.TrimSpace(stderr.String()))
		}
		return err
	}
	return nil
}
