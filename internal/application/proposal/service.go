// Package proposal orchestrates one request: credential, repository snapshot,
// remote proposal, confirmation and execution, then history.
package proposal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/margit/internal/application/execution"
	"github.com/doeshing/margit/internal/domain"
	"github.com/doeshing/margit/internal/ports"
)

// ProgressLabel is shown while waiting on the completion service.
const ProgressLabel = "Communicating with the model..."

// Dummy mode output.
var (
	DummyCommands = []string{
		"git add .",
		"git commit -m 'Adds initial files {a}, {b}, {c}'",
		"git push origin main",
	}
	DummyReason = "Lorem ipsum dolor sit amet."
)

// Request is a single invocation of the pipeline.
type Request struct {
	Message string
	Dummy   bool
}

// Result describes how far the pipeline got.
type Result struct {
	Repo      domain.RepoContext
	Proposal  domain.ParsedProposal
	Confirmed bool
	Outcomes  []domain.ExecutionOutcome
	// Aborted is set when inspection or the remote request ended the run early.
	Aborted bool
}

// Service wires the pipeline stages together.
type Service struct {
	Credentials ports.CredentialStore
	Inspector   ports.RepositoryInspector
	Requester   ports.ProposalRequester
	Confirmer   ports.ExecutionConfirmer
	Renderer    ports.Renderer
	Prompter    ports.ConfirmationPrompter
	Progress    ports.ProgressIndicator
	// History is optional; nil disables recording.
	History ports.HistoryRepository
	Logger  ports.Logger

	// DummyDelay overrides domain.DummyRunDelay when positive.
	DummyDelay time.Duration
	Now        func() time.Time
}

// Run processes a single natural-language request. Guided exits (no repository,
// failed request, declined or stopped chains) are rendered and return nil.
func (s *Service) Run(ctx context.Context, req Request) (Result, error) {
	if s.Renderer == nil || s.Prompter == nil || s.Logger == nil {
		return Result{}, errors.New("proposal.Service dependencies not satisfied")
	}
	if req.Dummy {
		return s.runDummy(ctx)
	}
	if s.Credentials == nil || s.Inspector == nil || s.Requester == nil || s.Confirmer == nil {
		return Result{}, errors.New("proposal.Service dependencies not satisfied")
	}

	cred, err := s.Credentials.Resolve(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("resolve credential: %w", err)
	}
	s.Logger.Debug("credential resolved", map[string]interface{}{"credential": cred.String()})

	repo, err := s.Inspector.Inspect(ctx)
	if err != nil {
		var inspectErr *domain.InspectionError
		if errors.As(err, &inspectErr) {
			s.Logger.Info("repository inspection aborted", map[string]interface{}{
				"step":   string(inspectErr.Step),
				"stderr": inspectErr.Stderr,
			})
			s.Renderer.Guidance(inspectErr.Guidance())
			return Result{Aborted: true}, nil
		}
		return Result{}, fmt.Errorf("inspect repository: %w", err)
	}
	result := Result{Repo: repo}

	reply, err := s.request(ctx, req.Message, repo, cred)
	if err != nil {
		var remoteErr *domain.RemoteRequestError
		if errors.As(err, &remoteErr) {
			s.Logger.Warn("remote request failed", map[string]interface{}{"status": remoteErr.StatusCode})
			s.Renderer.RemoteError(remoteErr)
			result.Aborted = true
			return result, nil
		}
		return result, fmt.Errorf("request proposal: %w", err)
	}

	result.Proposal = domain.Interpret(reply)
	s.Logger.Debug("proposal interpreted", map[string]interface{}{
		"commands":  len(result.Proposal.Commands),
		"challenge": result.Proposal.IsChallenge(),
	})

	confirmed, runErr := s.Confirmer.ConfirmAndRun(ctx, result.Proposal)
	result.Confirmed = confirmed.Confirmed
	result.Outcomes = confirmed.Outcomes
	s.record(ctx, req.Message, result)

	var execErr *domain.CommandExecutionError
	if errors.As(runErr, &execErr) {
		return result, nil
	}
	if runErr != nil {
		return result, fmt.Errorf("run commands: %w", runErr)
	}
	return result, nil
}

func (s *Service) request(ctx context.Context, message string, repo domain.RepoContext, cred domain.Credential) (domain.ModelReply, error) {
	if s.Progress != nil {
		s.Progress.Start(ProgressLabel)
		defer s.Progress.Stop()
	}
	return s.Requester.Request(ctx, message, repo, cred)
}

func (s *Service) runDummy(ctx context.Context) (Result, error) {
	p := domain.ParsedProposal{
		Commands:   DummyCommands,
		RawCommand: strings.Join(DummyCommands, " "+domain.CommandSeparator+" "),
		Reason:     DummyReason,
	}
	s.Renderer.Proposal(p)

	ok, err := s.Prompter.Confirm(ctx, execution.Question)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		s.Renderer.Declined()
		return Result{Proposal: p}, nil
	}

	s.Renderer.Info("Running command...")
	delay := s.DummyDelay
	if delay <= 0 {
		delay = domain.DummyRunDelay
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return Result{Proposal: p, Confirmed: true}, ctx.Err()
	case <-timer.C:
	}
	s.Renderer.Info("Command finished running.")
	return Result{Proposal: p, Confirmed: true}, nil
}

func (s *Service) record(ctx context.Context, message string, result Result) {
	if s.History == nil {
		return
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	rec := domain.RunRecord{
		ID:         uuid.NewString(),
		Timestamp:  now().UTC(),
		Message:    message,
		Branch:     result.Repo.Branch.String(),
		RawCommand: result.Proposal.RawCommand,
		Reason:     result.Proposal.Reason,
		Challenge:  result.Proposal.Challenge,
		Confirmed:  result.Confirmed,
	}
	rec.ApplyOutcomes(result.Outcomes)

	// Recorded even when the run was cancelled.
	if err := s.History.Save(context.WithoutCancel(ctx), rec); err != nil {
		s.Logger.Warn("failed to record history", map[string]interface{}{"error": err.Error()})
	}
}
