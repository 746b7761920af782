package xbrowser

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/pkg/browser"

	"oss.terrastruct.com/xos"
)

// OpenFile opens path with $BROWSER when set and the platform default otherwise.
// BROWSER=0 disables opening.
func OpenFile(ctx context.Context, env *xos.Env, path string) error {
	browserEnv := env.Getenv("BROWSER")
	if browserEnv == "0" {
		return nil
	}
	if browserEnv != "" {
		browserSh := fmt.Sprintf(`%s "$1"`, browserEnv)
		cmd := exec.CommandContext(ctx, "sh", "-c", browserSh, "--", path)
		out, err := cmd.CombinedOutput()
		if err != nil {
			return fmt.Errorf("failed to run %v (out: %q): %w", cmd.Args, out, err)
		}
		return nil
	}
	return browser.OpenFile(path)
}
