// Package execution confirms a parsed proposal with the user and runs the
// confirmed commands one at a time.
package execution

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/doeshing/margit/internal/domain"
	"github.com/doeshing/margit/internal/ports"
)

// Question is asked before anything runs.
const Question = "Do you want to run the command?"

// Markers decorate each "Running" line, cycling by command index.
var Markers = []string{"→", "⋙", "⅏", "⇶", "⇢", "⇰", "►"}

// Confirmer implements ports.ExecutionConfirmer.
type Confirmer struct {
	Renderer ports.Renderer
	Prompter ports.ConfirmationPrompter
	Executor ports.CommandExecutor
	Logger   ports.Logger
}

// ConfirmAndRun shows the proposal and, on an affirmative answer, executes its
// commands in order. A stopped chain returns *domain.CommandExecutionError
// together with the outcomes gathered so far.
func (c *Confirmer) ConfirmAndRun(ctx context.Context, p domain.ParsedProposal) (ports.ConfirmResult, error) {
	if c.Renderer == nil || c.Prompter == nil || c.Executor == nil || c.Logger == nil {
		return ports.ConfirmResult{}, errors.New("execution.Confirmer dependencies not satisfied")
	}

	if p.IsChallenge() {
		c.Renderer.Challenge(p)
		return ports.ConfirmResult{}, nil
	}

	c.Renderer.Proposal(p)
	ok, err := c.Prompter.Confirm(ctx, Question)
	if err != nil {
		return ports.ConfirmResult{}, err
	}
	if !ok {
		c.Renderer.Declined()
		return ports.ConfirmResult{}, nil
	}

	outcomes, err := c.newRun(p.Commands).drain(ctx)
	return ports.ConfirmResult{Confirmed: true, Outcomes: outcomes}, err
}

// run owns the queue and marker state of one confirmed proposal.
type run struct {
	c        *Confirmer
	queue    []task
	marker   int
	outcomes []domain.ExecutionOutcome
}

type task struct {
	index   int
	command string
}

func (c *Confirmer) newRun(commands []string) *run {
	r := &run{c: c}
	for i, command := range commands {
		r.queue = append(r.queue, task{index: i, command: command})
	}
	return r
}

func (r *run) nextMarker() string {
	m := Markers[r.marker%len(Markers)]
	r.marker++
	return m
}

func (r *run) dequeue() (task, bool) {
	if len(r.queue) == 0 {
		return task{}, false
	}
	t := r.queue[0]
	r.queue = r.queue[1:]
	return t, true
}

func (r *run) drain(ctx context.Context) ([]domain.ExecutionOutcome, error) {
	for {
		if err := ctx.Err(); err != nil {
			r.c.Logger.Warn("execution cancelled", map[string]interface{}{"pending": len(r.queue)})
			return r.outcomes, err
		}
		t, ok := r.dequeue()
		if !ok {
			return r.outcomes, nil
		}

		outcome := r.execute(ctx, t)
		r.outcomes = append(r.outcomes, outcome)
		if !outcome.Continues() {
			r.c.Logger.Warn("command stopped the chain", map[string]interface{}{
				"index":     outcome.Index,
				"command":   outcome.Command,
				"kind":      string(outcome.Kind),
				"discarded": len(r.queue),
			})
			r.queue = nil
			return r.outcomes, &domain.CommandExecutionError{Outcome: outcome}
		}
	}
}

func (r *run) execute(ctx context.Context, t task) domain.ExecutionOutcome {
	r.c.Renderer.Running(r.nextMarker(), t.command)
	r.c.Logger.Debug("starting command", map[string]interface{}{"index": t.index, "command": t.command})

	outcome := domain.ExecutionOutcome{Index: t.index, Command: t.command}
	start := time.Now()

	var stdout, stderr []byte
	handle, err := r.c.Executor.Start(ctx, t.command)
	if err == nil {
		stdout, stderr, err = handle.Wait()
	}
	outcome.Duration = time.Since(start)
	outcome.Stdout = string(stdout)
	outcome.Stderr = string(stderr)
	outcome.Err = err
	outcome.ExitCode = domain.ExitCode(err)
	outcome.Kind = domain.Classify(err, outcome.Stderr)

	switch outcome.Kind {
	case domain.OutcomeFailed:
		r.c.Renderer.CommandError(err)
		if s := strings.TrimSpace(outcome.Stderr); s != "" {
			r.c.Renderer.CommandOutput(s)
		}
	case domain.OutcomeSucceededWithStderr:
		r.c.Renderer.CommandOutput(outcome.Stderr)
	default:
		r.c.Renderer.CommandOutput(outcome.Stdout)
	}

	r.c.Logger.Debug("command finished", map[string]interface{}{
		"index":     t.index,
		"kind":      string(outcome.Kind),
		"exit_code": outcome.ExitCode,
		"duration":  outcome.Duration.String(),
	})
	return outcome
}

var _ ports.ExecutionConfirmer = (*Confirmer)(nil)
