package action

import (
	"fmt"
	"os"
	"os/exec"
)

// CommandRunner runs an external program synchronously
type CommandRunner interface {
	Run(args []string) error
}

// ExecRunner runs commands with os/exec, sharing the process's stdio.
// There is no timeout: a hung command blocks the caller until it exits.
type ExecRunner struct {
	Dir string
	Env []string
}

// Run starts args[0] with the remaining arguments and waits for it
func (r ExecRunner) Run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("empty command")
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = r.Dir
	if r.Env != nil {
		cmd.Env = r.Env
	}
	cmd.Stdin = nil
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
