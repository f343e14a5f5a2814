// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the proposal pipeline and its
// external adapters (infrastructure). The application core depends only on
// these abstractions, so tests can swap the credential file, git, the
// completion service and the shell for in-memory fakes.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., ProposalRequester, CommandExecutor)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"

	"github.com/doeshing/margit/internal/domain"
)

// ConfigProvider loads the latest settings from persistent storage.
// Implementations typically read from ~/.margit/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// CredentialStore resolves the API key, prompting for it on first use.
type CredentialStore interface {
	Resolve(context.Context) (domain.Credential, error)
}

// CredentialChecker reports whether the stored key is usable without prompting.
type CredentialChecker interface {
	Check() error
}

// RepositoryInspector captures the branch/status/remote snapshot of the
// working tree. Failures are returned as *domain.InspectionError.
type RepositoryInspector interface {
	Inspect(context.Context) (domain.RepoContext, error)
}

// ProposalRequester sends the user's message and repository context to the
// completion service and returns its raw reply.
type ProposalRequester interface {
	Request(ctx context.Context, message string, repo domain.RepoContext, cred domain.Credential) (domain.ModelReply, error)
}

// ExecutionConfirmer displays a proposal, asks for confirmation and runs the
// confirmed commands in order.
type ExecutionConfirmer interface {
	ConfirmAndRun(context.Context, domain.ParsedProposal) (ConfirmResult, error)
}

// ConfirmResult reports what the confirmer did with a proposal.
type ConfirmResult struct {
	Confirmed bool
	Outcomes  []domain.ExecutionOutcome
}

// ProcessRunner runs a program to completion and returns its output.
type ProcessRunner interface {
	Run(ctx context.Context, dir string, name string, args ...string) (stdout, stderr []byte, err error)
}

// CommandExecutor starts shell commands. The returned handle's Wait is the
// completion signal for that command.
type CommandExecutor interface {
	Start(ctx context.Context, command string) (CommandHandle, error)
}

// CommandHandle represents a running command.
type CommandHandle interface {
	// Wait blocks until the command exits and returns stdout, stderr and any error.
	Wait() (stdout, stderr []byte, err error)
}

// ConfirmationPrompter asks a binary question. Only an exact affirmative
// selection returns true. Cancelling ctx abandons the question and returns
// ctx.Err().
type ConfirmationPrompter interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// ProgressIndicator shows activity while the pipeline waits on the network.
type ProgressIndicator interface {
	Start(label string)
	Stop()
}

// Renderer presents pipeline output to the user.
type Renderer interface {
	Proposal(domain.ParsedProposal)
	Challenge(domain.ParsedProposal)
	Running(marker, command string)
	CommandError(err error)
	CommandOutput(text string)
	Guidance(message string)
	RemoteError(*domain.RemoteRequestError)
	Declined()
	Info(message string)
}

// HistoryRepository stores and retrieves run records.
type HistoryRepository interface {
	Save(context.Context, domain.RunRecord) error
	Records(ctx context.Context, limit int) ([]domain.RunRecord, error)
	Clear(context.Context) error
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
