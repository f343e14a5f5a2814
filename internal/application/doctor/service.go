package doctor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/doeshing/margit/internal/domain"
	"github.com/doeshing/margit/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Runner         ports.ProcessRunner
	Credentials    ports.CredentialChecker
	// History is opened by the caller; nil means history is disabled.
	History ports.HistoryRepository
}

// Run executes checks and returns a report. Only a settings failure aborts
// the remaining checks.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	if s.ConfigProvider == nil || s.Runner == nil || s.Credentials == nil {
		return domain.HealthReport{}, errors.New("doctor.Service dependencies not satisfied")
	}

	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Settings", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Settings", fmt.Sprintf("format %s, model %s", cfg.ConfigFormatVersion, cfg.GetModelID())))

	checks = append(checks, s.gitCheck(ctx))
	checks = append(checks, s.shellCheck(ctx, cfg.GetExecutionShell()))
	checks = append(checks, s.credentialCheck())
	checks = append(checks, s.historyCheck(ctx))

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) gitCheck(ctx context.Context) domain.HealthCheck {
	stdout, stderr, err := s.Runner.Run(ctx, "", "git", "--version")
	if err != nil {
		return fail("git", detail(err, stderr))
	}
	return ok("git", strings.TrimSpace(string(stdout)))
}

func (s *Service) shellCheck(ctx context.Context, shell string) domain.HealthCheck {
	if _, stderr, err := s.Runner.Run(ctx, "", shell, "-c", "true"); err != nil {
		return fail("Shell", fmt.Sprintf("%s: %s", shell, detail(err, stderr)))
	}
	return ok("Shell", shell)
}

func (s *Service) credentialCheck() domain.HealthCheck {
	err := s.Credentials.Check()
	switch {
	case err == nil:
		return ok("API key", "stored")
	case errors.Is(err, fs.ErrNotExist):
		return warn("API key", "not stored yet; you will be asked on the next run")
	case errors.Is(err, domain.ErrInsecureCredentialFile):
		return warn("API key", err.Error())
	default:
		return fail("API key", err.Error())
	}
}

func (s *Service) historyCheck(ctx context.Context) domain.HealthCheck {
	if s.History == nil {
		return warn("History", "disabled")
	}
	if _, err := s.History.Records(ctx, 1); err != nil {
		return fail("History", err.Error())
	}
	return ok("History", "readable")
}

func detail(err error, stderr []byte) string {
	if msg := strings.TrimSpace(string(stderr)); msg != "" {
		return msg
	}
	return err.Error()
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
