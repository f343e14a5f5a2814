package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	configinfra "github.com/doeshing/margit/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with all subcommands
func NewConfigCommand(env *Env) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect margit settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.Context(), cmd.OutOrStdout(), env)
		},
	}

	configCmd.AddCommand(
		newConfigShowCommand(env),
		newConfigPathCommand(env),
		newConfigValidateCommand(env),
		newConfigResetCommand(env),
		newConfigDiffCommand(env),
	)

	return configCmd
}

// newConfigShowCommand creates the 'config show' subcommand
func newConfigShowCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.Context(), cmd.OutOrStdout(), env)
		},
	}
}

// newConfigPathCommand creates the 'config path' subcommand
func newConfigPathCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := env.loader()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), loader.Path())
			return nil
		},
	}
}

// newConfigValidateCommand creates the 'config validate' subcommand
func newConfigValidateCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := env.loader()
			if err != nil {
				return err
			}
			if _, err := loader.Load(cmd.Context()); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgConfigurationValid)
			return nil
		},
	}
}

// newConfigResetCommand creates the 'config reset' subcommand
func newConfigResetCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset settings to defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return resetConfigurationToDefaults(cmd.OutOrStdout(), env)
		},
	}
}

// newConfigDiffCommand creates the 'config diff' subcommand
func newConfigDiffCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show diff versus default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigurationDiff(cmd.Context(), cmd.OutOrStdout(), env)
		},
	}
}

// showConfiguration displays the effective settings in YAML format
func showConfiguration(ctx context.Context, out io.Writer, env *Env) error {
	loader, err := env.loader()
	if err != nil {
		return err
	}
	cfg, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	fmt.Fprint(out, string(data))
	return nil
}

// resetConfigurationToDefaults resets the settings file to default values
func resetConfigurationToDefaults(out io.Writer, env *Env) error {
	loader, err := env.loader()
	if err != nil {
		return err
	}

	defaultConfig, err := loader.Reset()
	if err != nil {
		return fmt.Errorf("failed to reset configuration: %w", err)
	}

	fmt.Fprintf(out, "Configuration reset at %s\n", loader.Path())

	data, _ := yaml.Marshal(defaultConfig)
	fmt.Fprint(out, string(data))

	return nil
}

// showConfigurationDiff shows the difference between current and default settings
func showConfigurationDiff(ctx context.Context, out io.Writer, env *Env) error {
	loader, err := env.loader()
	if err != nil {
		return err
	}
	currentConfig, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load current configuration: %w", err)
	}

	defaultConfig, err := configinfra.DefaultConfig()
	if err != nil {
		return err
	}

	diff := cmp.Diff(defaultConfig, currentConfig)
	if diff == "" {
		fmt.Fprintln(out, MsgNoDifferencesFromDefault)
		return nil
	}

	fmt.Fprintln(out, diff)
	return nil
}
