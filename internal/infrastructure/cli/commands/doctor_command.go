package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/margit/internal/application/doctor"
	"github.com/doeshing/margit/internal/domain"
	"github.com/doeshing/margit/internal/infrastructure/credential"
	"github.com/doeshing/margit/internal/infrastructure/executor"
	"github.com/doeshing/margit/internal/infrastructure/history"
)

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check git, shell, API key and history setup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.Context(), cmd.OutOrStdout(), env)
		},
	}
}

func runDoctor(ctx context.Context, out io.Writer, env *Env) error {
	loader, err := env.loader()
	if err != nil {
		return err
	}

	svc := &doctor.Service{
		ConfigProvider: loader,
		Runner:         executor.NewLocalExecutor("", ""),
		Credentials:    credential.NewFileStore(credential.DefaultPath(), nil, nil, env.Logger),
	}
	if cfg, err := loader.Load(ctx); err == nil && cfg.IsHistoryEnabled() {
		store := history.Open(cfg.History.Path, env.Logger)
		if closer, ok := store.(io.Closer); ok {
			defer closer.Close()
		}
		svc.History = store
	}

	report, err := svc.Run(ctx)
	for _, check := range report.Checks {
		env.debug("health check", map[string]interface{}{
			"check":  check.Name,
			"status": string(check.Status),
		})
	}
	printHealthReport(out, report)
	if err != nil {
		return err
	}
	if !report.Healthy() {
		return fmt.Errorf("doctor found problems")
	}
	return nil
}

func printHealthReport(out io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		fmt.Fprintf(out, "[%s] %s: %s\n", statusLabel(check.Status), check.Name, check.Details)
	}
}

func statusLabel(status domain.HealthStatus) string {
	switch status {
	case domain.HealthOK:
		return " ok "
	case domain.HealthWarn:
		return "warn"
	default:
		return "FAIL"
	}
}
