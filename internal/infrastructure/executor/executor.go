// Package executor runs processes on the host. Production code uses
// LocalExecutor; tests inject MockExecutor with pre-recorded responses.
package executor

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	"github.com/doeshing/margit/internal/ports"
)

// Runner runs a program to completion and returns its output.
type Runner = ports.ProcessRunner

// LocalExecutor runs commands on the host shell.
type LocalExecutor struct {
	shell string
	dir   string
}

// NewLocalExecutor builds a new executor, shell defaults to $SHELL then /bin/sh.
// An empty dir means the current working directory.
func NewLocalExecutor(shell, dir string) *LocalExecutor {
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}
	return &LocalExecutor{shell: shell, dir: dir}
}

// Shell returns the interpreter used for Start.
func (e *LocalExecutor) Shell() string {
	return e.shell
}

// Run implements Runner.
func (e *LocalExecutor) Run(ctx context.Context, dir string, name string, args ...string) (stdout, stderr []byte, err error) {
	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	var stdoutBuf, stderrBuf bytes.Buffer
	c.Stdout = &stdoutBuf
	c.Stderr = &stderrBuf

	err = c.Run()
	return stdoutBuf.Bytes(), stderrBuf.Bytes(), err
}

// Start implements ports.CommandExecutor by running command under "<shell> -c".
func (e *LocalExecutor) Start(ctx context.Context, command string) (ports.CommandHandle, error) {
	c := exec.CommandContext(ctx, e.shell, "-c", command)
	c.Dir = e.dir
	h := &localHandle{cmd: c}
	c.Stdout = &h.stdout
	c.Stderr = &h.stderr

	if err := c.Start(); err != nil {
		return nil, err
	}
	return h, nil
}

// localHandle wraps a started exec.Cmd.
type localHandle struct {
	cmd    *exec.Cmd
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func (h *localHandle) Wait() (stdout, stderr []byte, err error) {
	err = h.cmd.Wait()
	return h.stdout.Bytes(), h.stderr.Bytes(), err
}

var (
	_ Runner                = (*LocalExecutor)(nil)
	_ ports.CommandExecutor = (*LocalExecutor)(nil)
)
