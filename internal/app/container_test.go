package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/margit/internal/domain"
	configinfra "github.com/doeshing/margit/internal/infrastructure/config"
	"github.com/doeshing/margit/internal/infrastructure/history"
)

type nopRenderer struct{}

func (nopRenderer) Proposal(domain.ParsedProposal)         {}
func (nopRenderer) Challenge(domain.ParsedProposal)        {}
func (nopRenderer) Running(string, string)                 {}
func (nopRenderer) CommandError(error)                     {}
func (nopRenderer) CommandOutput(string)                   {}
func (nopRenderer) Guidance(string)                        {}
func (nopRenderer) RemoteError(*domain.RemoteRequestError) {}
func (nopRenderer) Declined()                              {}
func (nopRenderer) Info(string)                            {}

type noPrompter struct{}

func (noPrompter) Confirm(context.Context, string) (bool, error) { return false, nil }

func TestBuildContainerWiresHistory(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(configinfra.EnvConfigPath, filepath.Join(home, "settings.yaml"))

	c, err := BuildContainer(context.Background(), Options{Renderer: nopRenderer{}, Prompter: noPrompter{}})
	require.NoError(t, err)
	defer c.Close()

	require.NotNil(t, c.ProposalService)
	_, ok := c.HistoryStore.(*history.SQLiteStore)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(home, domain.SettingsDirName, domain.HistoryFileName), c.Config.History.Path)
	_, err = os.Stat(filepath.Join(home, "settings.yaml"))
	assert.NoError(t, err)
}

func TestBuildContainerHistoryDisabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("history:\n  enabled: false\n"), 0o600))
	t.Setenv(configinfra.EnvConfigPath, path)

	c, err := BuildContainer(context.Background(), Options{Renderer: nopRenderer{}, Prompter: noPrompter{}})
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.HistoryStore)
	assert.Nil(t, c.ProposalService.History)
}

func TestBuildContainerDummyLeavesDiskAlone(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(configinfra.EnvConfigPath, filepath.Join(home, "settings.yaml"))

	c, err := BuildContainer(context.Background(), Options{Dummy: true, Renderer: nopRenderer{}, Prompter: noPrompter{}})
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.HistoryStore)
	assert.Nil(t, c.ProposalService.History)
	entries, err := os.ReadDir(home)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBuildContainerRequiresPresentation(t *testing.T) {
	_, err := BuildContainer(context.Background(), Options{})
	assert.Error(t, err)
}
