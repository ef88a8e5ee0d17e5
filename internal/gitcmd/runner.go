// Package gitcmd runs git commands with shared logging and output capture.
package gitcmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner executes git commands in a fixed working directory.
type Runner struct {
	Verbose bool
	Dir     string
	Logger  io.Writer
}

// Result contains captured stdout/stderr for a git command.
type Result struct {
	Stdout []byte
	Stderr []byte
}

func (r Result) StdoutString(trim bool) string {
	output := string(r.Stdout)
	if trim {
		return strings.TrimSpace(output)
	}
	return output
}

func (r Result) StderrString(trim bool) string {
	output := string(r.Stderr)
	if trim {
		return strings.TrimSpace(output)
	}
	return output
}

func (r Runner) withDefaults() Runner {
	if r.Logger == nil {
		r.Logger = os.Stderr
	}
	return r
}

func (r Runner) command(args ...string) *exec.Cmd {
	cmd := exec.Command("git", args...)
	if r.Dir != "" {
		cmd.Dir = r.Dir
	}
	return cmd
}

func (r Runner) log(args []string) {
	if !r.Verbose {
		return
	}
	r = r.withDefaults()
	fmt.Fprintf(r.Logger, "Running: git %s\n", strings.Join(args, " "))
}

// RunLogged executes a git command, logs when verbose, and captures
// stdout/stderr.
func (r Runner) RunLogged(args ...string) (Result, error) {
	r.log(args)
	cmd := r.command(args...)
	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	return Result{Stdout: outBuf.Bytes(), Stderr: errBuf.Bytes()}, err
}
