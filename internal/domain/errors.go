package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors usable with errors.Is.
var (
	// ErrMissingCredential indicates the config file exists but holds no API key.
	ErrMissingCredential = errors.New("no API key found in config file")

	// ErrNoCredentialProvided indicates the interactive prompt received blank input.
	ErrNoCredentialProvided = errors.New("no API key provided")

	// ErrRepositoryAbsent indicates the working directory is not inside a git work tree.
	ErrRepositoryAbsent = errors.New("not a git repository")

	// ErrNoBranchYet indicates HEAD does not resolve to a branch.
	ErrNoBranchYet = errors.New("no branch created yet")

	// ErrStatusUnavailable indicates git status failed.
	ErrStatusUnavailable = errors.New("git status unavailable")

	// ErrNoRemoteSet indicates remote.origin.url is not configured.
	ErrNoRemoteSet = errors.New("no remote set")

	// ErrRemoteRequest indicates the completion request failed.
	ErrRemoteRequest = errors.New("remote request failed")

	// ErrCommandExecution indicates a confirmed command stopped the chain.
	ErrCommandExecution = errors.New("command execution stopped")

	// ErrInsecureCredentialFile indicates the key file is readable by others.
	ErrInsecureCredentialFile = errors.New("credential file permissions are too open")
)

// InspectionStep names one of the four repository introspections.
type InspectionStep string

const (
	StepWorkTree InspectionStep = "work-tree"
	StepBranch   InspectionStep = "branch"
	StepStatus   InspectionStep = "status"
	StepRemote   InspectionStep = "remote"
)

var guidance = map[InspectionStep]string{
	StepWorkTree: "Looks like this folder isn't a git repository yet.\n" +
		"Ask `margit 'Set-up git repo'` if you need some guidance.\nOr simply run `git init`",
	StepBranch: "There is no branch created yet. You might want to create a branch by asking margit " +
		"or by running `git checkout -b <branch-name>`",
	StepStatus: "There was a problem retrieving the status of your Git repository.",
	StepRemote: "There is no remote URL set for this repository. You might want to add a remote by " +
		"running `git remote add origin <your-remote-url>`",
}

var stepSentinels = map[InspectionStep]error{
	StepWorkTree: ErrRepositoryAbsent,
	StepBranch:   ErrNoBranchYet,
	StepStatus:   ErrStatusUnavailable,
	StepRemote:   ErrNoRemoteSet,
}

// InspectionError reports a failed introspection. It ends the run with a guided
// message rather than a failure.
type InspectionError struct {
	Step   InspectionStep
	Err    error
	Stderr string
}

// NewInspectionError builds an InspectionError wrapping the step's sentinel.
func NewInspectionError(step InspectionStep, cause error, stderr string) *InspectionError {
	err := stepSentinels[step]
	if cause != nil {
		err = fmt.Errorf("%w: %v", err, cause)
	}
	return &InspectionError{Step: step, Err: err, Stderr: stderr}
}

func (e *InspectionError) Error() string {
	return fmt.Sprintf("inspect %s: %v", e.Step, e.Err)
}

func (e *InspectionError) Unwrap() error {
	return e.Err
}

// Guidance is the user-facing next step for this failure.
func (e *InspectionError) Guidance() string {
	return guidance[e.Step]
}

// RemoteRequestError carries whatever diagnostics the failed request produced.
// StatusCode is zero when no response was received.
type RemoteRequestError struct {
	StatusCode int
	Status     string
	Body       string
	Header     http.Header
	Err        error
}

func (e *RemoteRequestError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("remote request failed with status %s: %v", e.Status, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("remote request failed with status %s", e.Status)
	case e.Err != nil:
		return fmt.Sprintf("remote request failed: %v", e.Err)
	default:
		return ErrRemoteRequest.Error()
	}
}

// Unwrap exposes both the sentinel and the transport cause.
func (e *RemoteRequestError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRemoteRequest}
	}
	return []error{ErrRemoteRequest, e.Err}
}

// CommandExecutionError reports the command that stopped a confirmed chain.
type CommandExecutionError struct {
	Outcome ExecutionOutcome
}

func (e *CommandExecutionError) Error() string {
	if e.Outcome.Err != nil {
		return fmt.Sprintf("command %d (%s) failed: %v", e.Outcome.Index+1, e.Outcome.Command, e.Outcome.Err)
	}
	return fmt.Sprintf("command %d (%s) wrote to stderr", e.Outcome.Index+1, e.Outcome.Command)
}

func (e *CommandExecutionError) Unwrap() []error {
	if e.Outcome.Err == nil {
		return []error{ErrCommandExecution}
	}
	return []error{ErrCommandExecution, e.Outcome.Err}
}
