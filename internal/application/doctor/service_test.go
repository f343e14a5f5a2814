package doctor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/margit/internal/domain"
	"github.com/doeshing/margit/internal/infrastructure/executor"
)

type staticConfig struct {
	cfg domain.Config
	err error
}

func (s staticConfig) Load(context.Context) (domain.Config, error) { return s.cfg, s.err }

type checkerFunc func() error

func (f checkerFunc) Check() error { return f() }

type failingHistory struct{ err error }

func (h failingHistory) Save(context.Context, domain.RunRecord) error { return h.err }
func (h failingHistory) Records(context.Context, int) ([]domain.RunRecord, error) {
	return nil, h.err
}
func (h failingHistory) Clear(context.Context) error { return h.err }

func statuses(report domain.HealthReport) map[string]domain.HealthStatus {
	out := make(map[string]domain.HealthStatus)
	for _, c := range report.Checks {
		out[c.Name] = c.Status
	}
	return out
}

func TestDoctorHealthy(t *testing.T) {
	runner := executor.NewMockExecutor("sh")
	runner.AddExactMatch("git", []string{"--version"}, executor.MockResponse{Stdout: []byte("git version 2.45.0\n")})

	svc := &Service{
		ConfigProvider: staticConfig{cfg: domain.Config{ConfigFormatVersion: "1"}},
		Runner:         runner,
		Credentials:    checkerFunc(func() error { return nil }),
		History:        failingHistory{},
	}

	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Healthy())
	assert.Equal(t, "git version 2.45.0", report.Checks[1].Details)
	assert.Equal(t, domain.HealthOK, statuses(report)["History"])
}

func TestDoctorReportsProblems(t *testing.T) {
	runner := executor.NewMockExecutor("sh")
	runner.AddExactMatch("git", []string{"--version"}, executor.MockResponse{Err: errors.New(`exec: "git": executable file not found in $PATH`)})

	svc := &Service{
		ConfigProvider: staticConfig{cfg: domain.Config{}},
		Runner:         runner,
		Credentials:    checkerFunc(func() error { return fmt.Errorf("stat: %w", fs.ErrNotExist) }),
		History:        failingHistory{err: errors.New("database is locked")},
	}

	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	got := statuses(report)
	assert.False(t, report.Healthy())
	assert.Equal(t, domain.HealthError, got["git"])
	assert.Equal(t, domain.HealthOK, got["Shell"])
	assert.Equal(t, domain.HealthWarn, got["API key"])
	assert.Equal(t, domain.HealthError, got["History"])
	assert.Equal(t, []string{"sh", "-c", "true"}, append([]string{runner.GetCalls()[1].Name}, runner.GetCalls()[1].Args...))
}

func TestDoctorHistoryDisabledAndInsecureKey(t *testing.T) {
	svc := &Service{
		ConfigProvider: staticConfig{},
		Runner:         executor.NewMockExecutor("sh"),
		Credentials:    checkerFunc(func() error { return domain.ErrInsecureCredentialFile }),
	}

	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	got := statuses(report)
	assert.Equal(t, domain.HealthWarn, got["History"])
	assert.Equal(t, domain.HealthWarn, got["API key"])
	assert.True(t, report.Healthy())
}

func TestDoctorSettingsFailureStops(t *testing.T) {
	svc := &Service{
		ConfigProvider: staticConfig{err: errors.New("parse settings: bad yaml")},
		Runner:         executor.NewMockExecutor("sh"),
		Credentials:    checkerFunc(func() error { return nil }),
	}

	report, err := svc.Run(context.Background())

	assert.Error(t, err)
	require.Len(t, report.Checks, 1)
	assert.Equal(t, domain.HealthError, report.Checks[0].Status)
}
