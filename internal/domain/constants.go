package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Remote service defaults
const (
	DefaultEndpoint = "https://api.openai.com/v1/chat/completions"
	DefaultModelID  = "gpt-4"
)

// Execution defaults
const (
	DefaultShell = "sh"
	// DummyRunDelay simulates a command running in dummy mode.
	DummyRunDelay = 2 * time.Second
)

// History constants
const (
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
)

// File names under the user's home directory
const (
	CredentialFileName = ".nlGitConfig.json"
	SettingsDirName    = ".margit"
	SettingsFileName   = "config.yaml"
	HistoryFileName    = "history.db"
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
