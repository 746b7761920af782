// Package mmdrender runs external diagram renderers.
//
// The only renderer shipped is mermaid-cli (mmdc), which is invoked once per diagram
// with the input path, the output path and a JSON config file. The output format is
// chosen by mmdc from the extension of the output path.
package mmdrender

import (
	"context"
	"fmt"
)

// DefaultBinary is the mermaid-cli executable name.
const DefaultBinary = "mmdc"

type Renderer interface {
	// Name identifies the renderer in logs and errors.
	Name() string

	// Render converts req.Input into req.Output. It blocks until the renderer exits.
	Render(context.Context, Request) error
}

// Request is a single invocation of a renderer.
type Request struct {
	Input  string
	Output string
	Config string
}

func (r Request) String() string {
	return fmt.Sprintf("%s -> %s", r.Input, r.Output)
}

// Func adapts a plain function into a Renderer.
type Func func(context.Context, Request) error

func (f Func) Name() string {
	return "func"
}

func (f Func) Render(ctx context.Context, req Request) error {
	return f(ctx, req)
}
