package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/doeshing/margit/internal/application/execution"
	"github.com/doeshing/margit/internal/application/proposal"
	"github.com/doeshing/margit/internal/domain"
	"github.com/doeshing/margit/internal/infrastructure/ai"
	"github.com/doeshing/margit/internal/infrastructure/config"
	"github.com/doeshing/margit/internal/infrastructure/credential"
	"github.com/doeshing/margit/internal/infrastructure/executor"
	"github.com/doeshing/margit/internal/infrastructure/git"
	"github.com/doeshing/margit/internal/infrastructure/history"
	"github.com/doeshing/margit/internal/pkg/logger"
	"github.com/doeshing/margit/internal/ports"
)

// Options carries the process-level inputs of the dependency graph. The
// presentation adapters are supplied by the CLI layer.
type Options struct {
	Verbose bool
	// Dummy builds for a canned run: settings are not read from disk and
	// no history store is opened.
	Dummy bool
	// Dir is the repository directory; empty means the working directory.
	Dir    string
	Stdin  io.Reader
	Stderr io.Writer

	Renderer ports.Renderer
	Prompter ports.ConfirmationPrompter
	Progress ports.ProgressIndicator
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	ProposalService *proposal.Service
	ConfigLoader    *config.FileLoader
	Config          domain.Config
	// HistoryStore is nil when history is disabled in settings.
	HistoryStore ports.HistoryRepository
	Logger       *logger.ZapLogger
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	if opts.Renderer == nil || opts.Prompter == nil {
		return nil, fmt.Errorf("build container: renderer and prompter are required")
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	log, err := logger.New(opts.Verbose)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfgLoader := config.NewFileLoader("")
	cfg, err := loadSettings(ctx, cfgLoader, opts.Dummy)
	if err != nil {
		return nil, err
	}
	log.Debug("settings loaded", map[string]interface{}{
		"path":     cfgLoader.Path(),
		"endpoint": cfg.GetEndpoint(),
		"model":    cfg.GetModelID(),
		"dummy":    opts.Dummy,
	})

	var historyStore ports.HistoryRepository
	if cfg.IsHistoryEnabled() && !opts.Dummy {
		historyStore = history.Open(cfg.History.Path, log)
	}

	shell := executor.NewLocalExecutor(cfg.GetExecutionShell(), opts.Dir)

	service := &proposal.Service{
		Credentials: credential.NewFileStore(credential.DefaultPath(), opts.Stdin, opts.Stderr, log),
		Inspector:   git.NewInspector(shell, opts.Dir, log),
		Requester:   ai.NewRequester(cfg.GetEndpoint(), cfg.GetModelID(), nil, log),
		Confirmer: &execution.Confirmer{
			Renderer: opts.Renderer,
			Prompter: opts.Prompter,
			Executor: shell,
			Logger:   log,
		},
		Renderer: opts.Renderer,
		Prompter: opts.Prompter,
		Progress: opts.Progress,
		History:  historyStore,
		Logger:   log,
	}

	return &Container{
		ProposalService: service,
		ConfigLoader:    cfgLoader,
		Config:          cfg,
		HistoryStore:    historyStore,
		Logger:          log,
	}, nil
}

func loadSettings(ctx context.Context, loader *config.FileLoader, dummy bool) (domain.Config, error) {
	if dummy {
		cfg, err := config.DefaultConfig()
		if err != nil {
			return domain.Config{}, fmt.Errorf("default settings: %w", err)
		}
		return cfg, nil
	}
	cfg, err := loader.Load(ctx)
	if err != nil {
		return domain.Config{}, fmt.Errorf("load settings: %w", err)
	}
	return cfg, nil
}

// Close releases the history database and flushes the logger.
func (c *Container) Close() error {
	if closer, ok := c.HistoryStore.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return err
		}
	}
	_ = c.Logger.Sync()
	return nil
}
