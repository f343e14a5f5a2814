package executor

import (
	"context"
	"sync"

	"github.com/doeshing/margit/internal/ports"
)

// MockResponse defines the response for a mocked command.
type MockResponse struct {
	Stdout []byte
	Stderr []byte
	Err    error
}

// CommandMatcher is a function that determines if a command matches.
type CommandMatcher func(dir, name string, args []string) bool

// MockRule defines a matching rule and its response.
type MockRule struct {
	Match    CommandMatcher
	Response MockResponse
}

// MockCall records a command invocation for verification.
type MockCall struct {
	Dir  string
	Name string
	Args []string
}

// MockExecutor returns pre-recorded responses for commands. Rules are matched
// in registration order; unmatched commands succeed with no output. Shell
// commands passed to Start are recorded as "<shell> -c <command>".
type MockExecutor struct {
	mu    sync.RWMutex
	shell string
	rules []MockRule
	calls []MockCall
}

// NewMockExecutor creates a new MockExecutor recording Start calls under shell.
func NewMockExecutor(shell string) *MockExecutor {
	if shell == "" {
		shell = "sh"
	}
	return &MockExecutor{shell: shell}
}

// AddRule adds a matching rule with its response.
func (e *MockExecutor) AddRule(match CommandMatcher, response MockResponse) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules = append(e.rules, MockRule{Match: match, Response: response})
}

// AddExactMatch adds a rule that matches a specific command exactly.
func (e *MockExecutor) AddExactMatch(name string, args []string, response MockResponse) {
	e.AddRule(func(dir, n string, a []string) bool {
		if n != name || len(a) != len(args) {
			return false
		}
		for i, arg := range args {
			if a[i] != arg {
				return false
			}
		}
		return true
	}, response)
}

// AddShellMatch adds a rule for a command passed to Start.
func (e *MockExecutor) AddShellMatch(command string, response MockResponse) {
	e.AddExactMatch(e.shell, []string{"-c", command}, response)
}

// GetCalls returns all recorded command invocations.
func (e *MockExecutor) GetCalls() []MockCall {
	e.mu.RLock()
	defer e.mu.RUnlock()
	calls := make([]MockCall, len(e.calls))
	copy(calls, e.calls)
	return calls
}

// ShellCommands returns the commands passed to Start, in order.
func (e *MockExecutor) ShellCommands() []string {
	var out []string
	for _, call := range e.GetCalls() {
		if call.Name == e.shell && len(call.Args) == 2 && call.Args[0] == "-c" {
			out = append(out, call.Args[1])
		}
	}
	return out
}

func (e *MockExecutor) findMatch(dir, name string, args []string) MockResponse {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, rule := range e.rules {
		if rule.Match(dir, name, args) {
			return rule.Response
		}
	}
	return MockResponse{}
}

func (e *MockExecutor) recordCall(dir, name string, args []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, MockCall{Dir: dir, Name: name, Args: args})
}

// Run executes a mocked command.
func (e *MockExecutor) Run(_ context.Context, dir string, name string, args ...string) (stdout, stderr []byte, err error) {
	e.recordCall(dir, name, args)
	resp := e.findMatch(dir, name, args)
	return resp.Stdout, resp.Stderr, resp.Err
}

// Start starts a mocked shell command; Wait returns the buffered response.
func (e *MockExecutor) Start(_ context.Context, command string) (ports.CommandHandle, error) {
	args := []string{"-c", command}
	e.recordCall("", e.shell, args)
	return mockHandle{response: e.findMatch("", e.shell, args)}, nil
}

type mockHandle struct {
	response MockResponse
}

func (h mockHandle) Wait() (stdout, stderr []byte, err error) {
	return h.response.Stdout, h.response.Stderr, h.response.Err
}

var (
	_ Runner                = (*MockExecutor)(nil)
	_ ports.CommandExecutor = (*MockExecutor)(nil)
)
