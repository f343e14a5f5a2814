package domain

// Config mirrors ~/.margit/config.yaml. The API key never lives here.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Model               ModelSettings     `yaml:"model"`
	Execution           ExecutionSettings `yaml:"execution"`
	History             HistorySettings   `yaml:"history"`
}

// ModelSettings selects the completion endpoint and model.
type ModelSettings struct {
	Endpoint string `yaml:"endpoint"`
	ModelID  string `yaml:"model_id"`
}

// ExecutionSettings controls how confirmed commands run.
type ExecutionSettings struct {
	Shell string `yaml:"shell"`
}

// HistorySettings configures the run history store.
type HistorySettings struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}
