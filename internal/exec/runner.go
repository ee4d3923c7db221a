// Package exec provides a testable command execution abstraction.
// Inject Runner instead of calling exec.Command directly.
package exec

import (
	"context"
	"os"
	osexec "os/exec"
	"strings"
	"syscall"
)

// Runner defines the interface for executing external commands.
type Runner interface {
	// Output executes a command in dir and returns its stdout.
	Output(ctx context.Context, dir, name string, args ...string) ([]byte, error)

	// StartDetached launches a command in its own session with stdin closed
	// and stdout/stderr appended to logPath. It does not wait.
	StartDetached(dir, logPath, name string, args ...string) error
}

// OSRunner implements Runner using os/exec.
type OSRunner struct{}

// NewOSRunner creates a new OS-based command runner.
func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

// Output executes a command and returns stdout.
func (r *OSRunner) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := osexec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.Output()
}

// StartDetached launches a command disconnected from the caller's session,
// so the child keeps running after the parent exits.
func (r *OSRunner) StartDetached(dir, logPath, name string, args ...string) error {
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer logFile.Close()

	cmd := osexec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdin = nil
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return err
	}

	// Reap from a goroutine so the child never lingers as a zombie while
	// the parent is still alive.
	go cmd.Wait()
	return nil
}

// MockRunner implements Runner for testing.
type MockRunner struct {
	// Calls records all command invocations.
	Calls []MockCall

	// Responses maps "name arg1 arg2 ..." to a response. Lookup falls
	// back to the bare command name.
	Responses map[string]MockResponse

	// DetachedErr is returned from StartDetached when set.
	DetachedErr error
}

// MockCall records a single command invocation.
type MockCall struct {
	Name     string
	Args     []string
	Dir      string
	Detached bool
	LogPath  string
}

// MockResponse defines the response for a mocked command.
type MockResponse struct {
	Stdout []byte
	Err    error
}

// NewMockRunner creates a new mock runner.
func NewMockRunner() *MockRunner {
	return &MockRunner{Responses: make(map[string]MockResponse)}
}

// AddResponse sets the response for a command pattern.
func (m *MockRunner) AddResponse(pattern string, resp MockResponse) {
	m.Responses[pattern] = resp
}

func (m *MockRunner) lookup(name string, args []string) MockResponse {
	key := strings.TrimSpace(name + " " + strings.Join(args, " "))
	if resp, ok := m.Responses[key]; ok {
		return resp
	}
	if resp, ok := m.Responses[name]; ok {
		return resp
	}
	return MockResponse{}
}

func (m *MockRunner) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	m.Calls = append(m.Calls, MockCall{Name: name, Args: args, Dir: dir})
	resp := m.lookup(name, args)
	return resp.Stdout, resp.Err
}

func (m *MockRunner) StartDetached(dir, logPath, name string, args ...string) error {
	m.Calls = append(m.Calls, MockCall{Name: name, Args: args, Dir: dir, Detached: true, LogPath: logPath})
	return m.DetachedErr
}
