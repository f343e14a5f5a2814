package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/margit/internal/app"
	"github.com/doeshing/margit/internal/application/execution"
	"github.com/doeshing/margit/internal/application/proposal"
	"github.com/doeshing/margit/internal/domain"
	configinfra "github.com/doeshing/margit/internal/infrastructure/config"
	"github.com/doeshing/margit/internal/pkg/logger"
	"github.com/doeshing/margit/internal/ports"
)

type harness struct {
	stdout, stderr bytes.Buffer
	built          []app.Options
}

func (h *harness) root(stdin string, build func(context.Context, app.Options) (*app.Container, error)) Options {
	return Options{
		Stdin:  strings.NewReader(stdin),
		Stdout: &h.stdout,
		Stderr: &h.stderr,
		Build: func(ctx context.Context, o app.Options) (*app.Container, error) {
			h.built = append(h.built, o)
			return build(ctx, o)
		},
	}
}

// dummyContainer is enough for --dummy runs, which touch no adapters.
func dummyContainer(_ context.Context, o app.Options) (*app.Container, error) {
	log := logger.NewNop()
	return &app.Container{
		ProposalService: &proposal.Service{
			Renderer:   o.Renderer,
			Prompter:   o.Prompter,
			Progress:   o.Progress,
			Logger:     log,
			DummyDelay: time.Millisecond,
		},
		Logger: log,
	}, nil
}

func execute(t *testing.T, opts Options, args ...string) error {
	t.Helper()
	return Execute(context.Background(), opts, args)
}

type stubCredentials struct{}

func (stubCredentials) Resolve(context.Context) (domain.Credential, error) {
	return "sk-test", nil
}

type stubInspector struct{}

func (stubInspector) Inspect(context.Context) (domain.RepoContext, error) {
	return domain.RepoContext{Branch: domain.Known("main")}, nil
}

// capturingRequester stops the pipeline after recording the message.
type capturingRequester struct {
	messages []string
}

var errStopAfterRequest = errors.New("stop after request")

func (r *capturingRequester) Request(_ context.Context, message string, _ domain.RepoContext, _ domain.Credential) (domain.ModelReply, error) {
	r.messages = append(r.messages, message)
	return "", errStopAfterRequest
}

func pipelineContainer(req *capturingRequester) func(context.Context, app.Options) (*app.Container, error) {
	return func(_ context.Context, o app.Options) (*app.Container, error) {
		log := logger.NewNop()
		return &app.Container{
			ProposalService: &proposal.Service{
				Credentials: stubCredentials{},
				Inspector:   stubInspector{},
				Requester:   req,
				Confirmer:   &execution.Confirmer{Renderer: o.Renderer, Prompter: o.Prompter, Logger: log},
				Renderer:    o.Renderer,
				Prompter:    o.Prompter,
				Logger:      log,
			},
			Logger: log,
		}, nil
	}
}

func TestRootMissingMessage(t *testing.T) {
	h := &harness{}
	err := execute(t, h.root("", dummyContainer))

	assert.ErrorIs(t, err, ErrMissingMessage)
	assert.Empty(t, h.built)
}

func TestRootAbout(t *testing.T) {
	h := &harness{}
	require.NoError(t, execute(t, h.root("", dummyContainer), "--about"))

	assert.Equal(t, AboutText+"\n", h.stdout.String())
	assert.Empty(t, h.built)
}

func TestRootSingleDashHelp(t *testing.T) {
	h := &harness{}
	require.NoError(t, execute(t, h.root("", dummyContainer), "-help"))

	assert.Contains(t, h.stdout.String(), "margit [message...]")
	assert.Empty(t, h.built)
}

func TestNormalizeArgs(t *testing.T) {
	in := []string{"-help", "fix", "--", "-help"}
	assert.Equal(t, []string{"--help", "fix", "--", "-help"}, NormalizeArgs(in))
	assert.Equal(t, "-help", in[0])
}

func TestRootHelpWordReachesPipeline(t *testing.T) {
	h := &harness{}
	req := &capturingRequester{}

	err := execute(t, h.root("", pipelineContainer(req)), "help", "me", "undo", "my", "last", "commit")

	assert.ErrorIs(t, err, errStopAfterRequest)
	require.Len(t, h.built, 1)
	assert.Equal(t, []string{"help me undo my last commit"}, req.messages)
	assert.NotContains(t, h.stdout.String(), "Usage:")
}

func TestRootSubcommandLoggerFollowsDebug(t *testing.T) {
	t.Setenv(configinfra.EnvConfigPath, filepath.Join(t.TempDir(), "settings.yaml"))

	for _, tc := range []struct {
		args []string
		want bool
	}{
		{[]string{"config", "path"}, false},
		{[]string{"config", "path", "--debug"}, true},
		{[]string{"--debug", "config", "path"}, true},
	} {
		h := &harness{}
		var verbose []bool
		opts := h.root("", dummyContainer)
		opts.NewLogger = func(v bool) (ports.Logger, error) {
			verbose = append(verbose, v)
			return logger.NewNop(), nil
		}

		require.NoError(t, execute(t, opts, tc.args...), "args %v", tc.args)
		assert.Equal(t, []bool{tc.want}, verbose, "args %v", tc.args)
	}
}

func TestRootVersion(t *testing.T) {
	h := &harness{}
	require.NoError(t, execute(t, h.root("", dummyContainer), "-v"))

	assert.True(t, strings.HasPrefix(h.stdout.String(), "margit version "))
}

func TestRootDummyConfirmed(t *testing.T) {
	h := &harness{}
	require.NoError(t, execute(t, h.root("yes\n", dummyContainer), "--dummy"))

	out := h.stdout.String()
	assert.Contains(t, out, "> git commit -m 'Adds initial files {a}, {b}, {c}'")
	assert.Contains(t, out, "Do you want to run the command? [Yes/No]: ")
	assert.Contains(t, out, "Running command...\nCommand finished running.\n")
	require.Len(t, h.built, 1)
	assert.False(t, h.built[0].Verbose)
	assert.True(t, h.built[0].Dummy)
}

func TestRootDummyDeclined(t *testing.T) {
	h := &harness{}
	require.NoError(t, execute(t, h.root("no\n", dummyContainer), "--dummy"))

	assert.Contains(t, h.stdout.String(), "No worries. Shall we try again?")
	assert.NotContains(t, h.stdout.String(), "Running command...")
}

func TestRootBuildFailurePropagates(t *testing.T) {
	h := &harness{}
	boom := errors.New("load settings: bad yaml")
	failing := func(context.Context, app.Options) (*app.Container, error) { return nil, boom }

	err := execute(t, h.root("", failing), "--debug", "undo", "my", "last", "commit")

	assert.ErrorIs(t, err, boom)
	require.Len(t, h.built, 1)
	assert.True(t, h.built[0].Verbose)
}
