package mmdrender

import "os/exec"

// Windows has no process groups to signal. cmd.WaitDelay still bounds the wait.
func killProcessGroup(cmd *exec.Cmd) {}
