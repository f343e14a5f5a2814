package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/margit/internal/domain"
	configinfra "github.com/doeshing/margit/internal/infrastructure/config"
	"github.com/doeshing/margit/internal/infrastructure/history"
	"github.com/doeshing/margit/internal/pkg/logger"
)

// newEnv points settings and history at a temp dir.
func newEnv(t *testing.T, historyEnabled bool) (*Env, string) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "history.db")
	settings := "model:\n  model_id: gpt-4\nhistory:\n  enabled: " +
		map[bool]string{true: "true", false: "false"}[historyEnabled] +
		"\n  path: " + dbPath + "\n"
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(settings), 0o600))
	return &Env{Loader: configinfra.NewFileLoader(cfgPath), Logger: logger.NewNop()}, dbPath
}

func seed(t *testing.T, dbPath string, records ...domain.RunRecord) {
	t.Helper()
	store, err := history.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store.Close()
	for _, rec := range records {
		require.NoError(t, store.Save(context.Background(), rec))
	}
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestHistoryListAndClear(t *testing.T) {
	env, dbPath := newEnv(t, true)
	seed(t, dbPath,
		domain.RunRecord{ID: "1", Timestamp: base, Message: "stage all", Branch: "main", RawCommand: "git add .",
			Confirmed: true, Executed: true, Succeeded: true, CommandsRun: 1},
		domain.RunRecord{ID: "2", Timestamp: base.Add(time.Minute), Message: "push", Branch: "main", RawCommand: "git push"},
	)

	out, err := run(t, NewHistoryCommand(env), "list", "--limit", "1")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "| main | declined | push -> git push")

	out, err = run(t, NewHistoryCommand(env), "clear")
	require.NoError(t, err)
	assert.Equal(t, MsgHistoryCleared+"\n", out)

	out, err = run(t, NewHistoryCommand(env), "list")
	require.NoError(t, err)
	assert.Equal(t, MsgNoHistoryRecorded+"\n", out)
}

func TestHistoryDisabled(t *testing.T) {
	env, _ := newEnv(t, false)

	_, err := run(t, NewHistoryCommand(env), "list")

	assert.EqualError(t, err, ErrHistoryDisabled)
}

func TestHistoryExport(t *testing.T) {
	env, dbPath := newEnv(t, true)
	seed(t, dbPath, domain.RunRecord{ID: "1", Timestamp: base, Message: "m", RawCommand: "git status"})

	out, err := run(t, NewHistoryCommand(env), "export", "-")
	require.NoError(t, err)
	var rec domain.RunRecord
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &rec))
	assert.Equal(t, "git status", rec.RawCommand)

	dest := filepath.Join(t.TempDir(), "runs.jsonl")
	_, err = run(t, NewHistoryCommand(env), "export", dest)
	require.NoError(t, err)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id":"1"`)
}

func TestHistoryStats(t *testing.T) {
	env, dbPath := newEnv(t, true)
	seed(t, dbPath,
		domain.RunRecord{ID: "1", Timestamp: base, RawCommand: "git add . && git commit -m 'x'",
			Confirmed: true, Executed: true, Succeeded: true, CommandsRun: 2},
		domain.RunRecord{ID: "2", Timestamp: base.Add(time.Minute), RawCommand: "git push",
			Confirmed: true, Executed: true, FailedCommand: "git push", CommandsRun: 1},
		domain.RunRecord{ID: "3", Timestamp: base.Add(2 * time.Minute), RawCommand: domain.NoCommandFound,
			Challenge: "Which remote?"},
	)

	out, err := run(t, NewHistoryCommand(env), "stats")
	require.NoError(t, err)

	assert.Contains(t, out, "Runs analyzed: 3")
	assert.Contains(t, out, "Challenges: 1")
	assert.Contains(t, out, "Executed: 2")
	assert.Contains(t, out, "Success rate: 50.0%")
	assert.Contains(t, out, "  git add . (1)")
	assert.Contains(t, out, "git reset --soft HEAD~1")
	assert.NotContains(t, out, domain.NoCommandFound)
}

func TestConfigCommands(t *testing.T) {
	env, _ := newEnv(t, true)

	out, err := run(t, NewConfigCommand(env), "path")
	require.NoError(t, err)
	assert.Equal(t, env.Loader.Path()+"\n", out)

	out, err = run(t, NewConfigCommand(env), "validate")
	require.NoError(t, err)
	assert.Equal(t, MsgConfigurationValid+"\n", out)

	out, err = run(t, NewConfigCommand(env), "show")
	require.NoError(t, err)
	assert.Contains(t, out, "model_id: gpt-4")

	out, err = run(t, NewConfigCommand(env), "diff")
	require.NoError(t, err)
	assert.NotEqual(t, MsgNoDifferencesFromDefault+"\n", out)
}

func TestConfigValidateRejectsBadEndpoint(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("model:\n  endpoint: ftp://nowhere\n"), 0o600))
	env := &Env{Loader: configinfra.NewFileLoader(cfgPath)}

	_, err := run(t, NewConfigCommand(env), "validate")

	assert.ErrorContains(t, err, "configuration validation failed")
}

func TestVersionInfo(t *testing.T) {
	assert.True(t, strings.HasPrefix(VersionInfo(), "margit version "))
}

func TestPrintHealthReport(t *testing.T) {
	var out bytes.Buffer
	printHealthReport(&out, domain.HealthReport{Checks: []domain.HealthCheck{
		{Name: "git", Status: domain.HealthOK, Details: "git version 2.45.0"},
		{Name: "History", Status: domain.HealthWarn, Details: "disabled"},
		{Name: "API key", Status: domain.HealthError, Details: "parse credential file"},
	}})

	assert.Equal(t, "[ ok ] git: git version 2.45.0\n[warn] History: disabled\n[FAIL] API key: parse credential file\n", out.String())
}
