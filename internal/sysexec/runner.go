// Package sysexec runs external commands such as efibootmgr and systemctl.
//
// Callers depend on the Runner interface so tests can script command output
// with FakeRunner instead of touching the host.
package sysexec

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner provides an abstraction for running external commands.
type Runner interface {
	// Run executes name with args and returns its standard output.
	// A non-zero exit status is returned as an error that includes stderr.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// RealRunner implements Runner using os/exec.
type RealRunner struct{}

// NewRealRunner creates a new RealRunner.
func NewRealRunner() *RealRunner {
	return &RealRunner{}
}

// Run executes the command and captures its output.
func (r *RealRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return stdout.Bytes(), fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
		}
		return stdout.Bytes(), fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
	}

	return stdout.Bytes(), nil
}

// Call records a single invocation made through FakeRunner.
type Call struct {
	Name string
	Args []string
}

// String renders the call as a command line.
func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Response is a scripted result for FakeRunner.
type Response struct {
	Output []byte
	Err    error
}

// FakeRunner implements Runner with scripted responses for testing.
// Responses are keyed by the full command line; queued responses are
// consumed in order and the last one is repeated.
type FakeRunner struct {
	responses map[string][]Response
	calls     []Call
}

// NewFakeRunner creates a new FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		responses: make(map[string][]Response),
	}
}

// On queues a response for the given command line, e.g. "efibootmgr -o 0001".
func (r *FakeRunner) On(cmdline string, output string, err error) {
	r.responses[cmdline] = append(r.responses[cmdline], Response{Output: []byte(output), Err: err})
}

// Calls returns every recorded call.
func (r *FakeRunner) Calls() []Call {
	return r.calls
}

// CallCount returns how many times cmdline was run.
func (r *FakeRunner) CallCount(cmdline string) int {
	n := 0
	for _, c := range r.calls {
		if c.String() == cmdline {
			n++
		}
	}
	return n
}

// Run returns the next scripted response for the command line.
// Unscripted commands succeed with empty output.
func (r *FakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	call := Call{Name: name, Args: append([]string(nil), args...)}
	r.calls = append(r.calls, call)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	queue := r.responses[call.String()]
	if len(queue) == 0 {
		return nil, nil
	}
	resp := queue[0]
	if len(queue) > 1 {
		r.responses[call.String()] = queue[1:]
	}
	return resp.Output, resp.Err
}
