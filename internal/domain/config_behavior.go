package domain

import (
	"fmt"
	"net/url"
)

// GetEndpoint returns the completion endpoint, falling back to OpenAI.
func (c *Config) GetEndpoint() string {
	if c.Model.Endpoint == "" {
		return DefaultEndpoint
	}
	return c.Model.Endpoint
}

// GetModelID returns the model identifier sent with every request.
func (c *Config) GetModelID() string {
	if c.Model.ModelID == "" {
		return DefaultModelID
	}
	return c.Model.ModelID
}

// GetExecutionShell returns the shell confirmed commands run under.
func (c *Config) GetExecutionShell() string {
	if c.Execution.Shell == "" || c.Execution.Shell == "auto" {
		return DefaultShell
	}
	return c.Execution.Shell
}

// IsHistoryEnabled reports whether runs are recorded.
func (c *Config) IsHistoryEnabled() bool {
	return c.History.Enabled
}

// ValidateConsistency checks the settings that would only fail later at use.
func (c *Config) ValidateConsistency() error {
	u, err := url.Parse(c.GetEndpoint())
	if err != nil {
		return fmt.Errorf("model endpoint %q: %w", c.GetEndpoint(), err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("model endpoint %q must be http or https", c.GetEndpoint())
	}
	if u.Host == "" {
		return fmt.Errorf("model endpoint %q has no host", c.GetEndpoint())
	}
	return nil
}
