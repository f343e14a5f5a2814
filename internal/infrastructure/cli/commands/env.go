package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	configinfra "github.com/doeshing/margit/internal/infrastructure/config"
	"github.com/doeshing/margit/internal/infrastructure/history"
	"github.com/doeshing/margit/internal/ports"
)

// Env carries what the auxiliary subcommands need. Stores are opened per
// invocation and closed when the subcommand returns.
type Env struct {
	Loader *configinfra.FileLoader
	Logger ports.Logger
}

func (e *Env) loader() (*configinfra.FileLoader, error) {
	if e.Loader == nil {
		return nil, errors.New(ErrConfigLoaderUnavailable)
	}
	return e.Loader, nil
}

// withHistory opens the configured history store for the duration of fn.
func (e *Env) withHistory(ctx context.Context, fn func(ports.HistoryRepository) error) error {
	loader, err := e.loader()
	if err != nil {
		return err
	}
	cfg, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if !cfg.IsHistoryEnabled() {
		return errors.New(ErrHistoryDisabled)
	}

	store := history.Open(cfg.History.Path, e.Logger)
	e.debug("history store opened", map[string]interface{}{"path": cfg.History.Path})
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}
	return fn(store)
}

func (e *Env) debug(msg string, fields map[string]interface{}) {
	if e.Logger != nil {
		e.Logger.Debug(msg, fields)
	}
}
