package git

import (
	"context"
	"strings"

	"github.com/doeshing/margit/internal/domain"
	"github.com/doeshing/margit/internal/infrastructure/executor"
	"github.com/doeshing/margit/internal/ports"
)

// introspection is one read-only git query and the step it answers.
type introspection struct {
	step domain.InspectionStep
	args []string
}

// introspections run in this order; each is a precondition for the next.
var introspections = []introspection{
	{step: domain.StepWorkTree, args: []string{"rev-parse", "--is-inside-work-tree"}},
	{step: domain.StepBranch, args: []string{"rev-parse", "--abbrev-ref", "HEAD"}},
	{step: domain.StepStatus, args: []string{"status"}},
	{step: domain.StepRemote, args: []string{"config", "--get", "remote.origin.url"}},
}

// Inspector captures branch, status and remote URL of the repository in dir.
type Inspector struct {
	runner executor.Runner
	dir    string
	log    ports.Logger
}

// NewInspector builds an Inspector. An empty dir means the working directory.
func NewInspector(runner executor.Runner, dir string, log ports.Logger) *Inspector {
	return &Inspector{runner: runner, dir: dir, log: log}
}

// Inspect implements ports.RepositoryInspector. The first failing
// introspection aborts the whole inspection; there is no partial context.
func (i *Inspector) Inspect(ctx context.Context) (domain.RepoContext, error) {
	values := make(map[domain.InspectionStep]domain.ContextValue, len(introspections))
	for _, q := range introspections {
		value, err := i.query(ctx, q)
		if err != nil {
			return domain.RepoContext{}, err
		}
		values[q.step] = value
	}

	return domain.RepoContext{
		Branch:    values[domain.StepBranch],
		Status:    values[domain.StepStatus],
		RemoteURL: values[domain.StepRemote],
	}, nil
}

func (i *Inspector) query(ctx context.Context, q introspection) (domain.ContextValue, error) {
	stdout, stderr, err := i.runner.Run(ctx, i.dir, "git", q.args...)
	if err != nil {
		if i.log != nil {
			i.log.Debug("git introspection failed", map[string]interface{}{
				"step":   string(q.step),
				"stderr": strings.TrimSpace(string(stderr)),
			})
		}
		return domain.Unavailable(), domain.NewInspectionError(q.step, err, strings.TrimSpace(string(stderr)))
	}
	return domain.Known(strings.TrimSpace(string(stdout))), nil
}

var _ ports.RepositoryInspector = (*Inspector)(nil)
