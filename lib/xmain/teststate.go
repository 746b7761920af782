package xmain

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"oss.terrastruct.com/cmdlog"
	"oss.terrastruct.com/xos"
)

// TestState runs a RunFunc in-process with in-memory stdio. Args[0] is the command
// name.
type TestState struct {
	Run  RunFunc
	Env  *xos.Env
	Args []string
	PWD  string

	Stdout bytes.Buffer
	Stderr bytes.Buffer
}

// Exec runs ts.Run to completion. Stdout and Stderr must not be read until it returns.
func (ts *TestState) Exec(ctx context.Context) error {
	name := "test"
	var args []string
	if len(ts.Args) > 0 {
		name = ts.Args[0]
		args = ts.Args[1:]
	}

	ms := &State{
		Name: name,

		Stdin:  strings.NewReader(""),
		Stdout: &ts.Stdout,
		Stderr: &ts.Stderr,

		Env: ts.Env,
		PWD: ts.PWD,
	}
	ms.Log = cmdlog.Log(ms.Env, &ts.Stderr)
	ms.Opts = NewOpts(ms.Env, ms.Log, args)

	err := ms.Main(ctx, nil, ts.Run)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
