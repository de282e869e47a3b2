//go:build !unix

package pdf

import "os/exec"

// killProcessGroup leaves the default cancellation in place; WaitDelay still
// bounds the wait for helpers that keep the output pipe open.
func killProcessGroup(cmd *exec.Cmd) {}
