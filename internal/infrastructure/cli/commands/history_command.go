package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/doeshing/margit/internal/domain"
	"github.com/doeshing/margit/internal/infrastructure/cli/helpers"
	"github.com/doeshing/margit/internal/ports"
)

type exporter interface {
	Export(ctx context.Context, w io.Writer) error
}

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(env *Env) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past margit runs",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(env),
		newHistoryClearCommand(env),
		newHistoryExportCommand(env),
		newHistoryStatsCommand(env),
	)

	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(env *Env) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withHistory(cmd.Context(), func(store ports.HistoryRepository) error {
				return listHistoryEntries(cmd.Context(), cmd.OutOrStdout(), store, limit)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultHistoryLimit, "Max entries to show")
	return cmd
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withHistory(cmd.Context(), func(store ports.HistoryRepository) error {
				if err := store.Clear(cmd.Context()); err != nil {
					return fmt.Errorf("failed to clear history: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), MsgHistoryCleared)
				return nil
			})
		},
	}
}

// newHistoryExportCommand creates the 'history export' subcommand
func newHistoryExportCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path|->",
		Short: "Export history to a JSONL file (- for stdout)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withHistory(cmd.Context(), func(store ports.HistoryRepository) error {
				return exportHistory(cmd.Context(), cmd.OutOrStdout(), store, args[0])
			})
		},
	}
}

// newHistoryStatsCommand creates the 'history stats' subcommand
func newHistoryStatsCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show success rate, top commands and undo hints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withHistory(cmd.Context(), func(store ports.HistoryRepository) error {
				return showHistoryStats(cmd.Context(), cmd.OutOrStdout(), store)
			})
		},
	}
}

// listHistoryEntries lists recent history entries
func listHistoryEntries(ctx context.Context, out io.Writer, store ports.HistoryRepository, limit int) error {
	records, err := store.Records(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to retrieve history records: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(out, "%s | %s | %s | %s -> %s\n",
			rec.Timestamp.Local().Format(TimestampFormat),
			rec.Branch,
			helpers.RunStatus(rec),
			rec.Message,
			rec.RawCommand)
	}

	return nil
}

// exportHistory writes history as JSONL to path, or to out when path is "-"
func exportHistory(ctx context.Context, out io.Writer, store ports.HistoryRepository, path string) error {
	exp, ok := store.(exporter)
	if !ok {
		return fmt.Errorf("history store does not support export")
	}

	if path == "-" {
		return exp.Export(ctx, out)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, domain.SecureFilePermissions)
	if err != nil {
		return fmt.Errorf("failed to export history to %s: %w", path, err)
	}
	defer file.Close()

	if err := exp.Export(ctx, file); err != nil {
		return fmt.Errorf("failed to export history to %s: %w", path, err)
	}
	return nil
}

// showHistoryStats displays success rate and top commands
func showHistoryStats(ctx context.Context, out io.Writer, store ports.HistoryRepository) error {
	records, err := store.Records(ctx, MaxHistoryAnalysisRecords)
	if err != nil {
		return fmt.Errorf("failed to retrieve history for analysis: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	stats := analyzeHistoryRecords(records)
	displayHistoryStatistics(out, stats, records)

	return nil
}

// historyStatistics holds analyzed history statistics
type historyStatistics struct {
	confirmed   int
	executed    int
	successful  int
	challenges  int
	commandFreq map[string]int
}

// analyzeHistoryRecords analyzes history records and computes statistics
func analyzeHistoryRecords(records []domain.RunRecord) historyStatistics {
	stats := historyStatistics{commandFreq: make(map[string]int)}

	for _, rec := range records {
		if rec.Challenge != "" {
			stats.challenges++
			continue
		}
		if rec.Confirmed {
			stats.confirmed++
		}
		if rec.Executed {
			stats.executed++
			if rec.Succeeded {
				stats.successful++
			}
		}
		for _, command := range domain.SplitCommands(rec.RawCommand) {
			stats.commandFreq[command]++
		}
	}

	return stats
}

// displayHistoryStatistics displays formatted history statistics
func displayHistoryStatistics(out io.Writer, stats historyStatistics, records []domain.RunRecord) {
	fmt.Fprintf(out, "Runs analyzed: %d\nChallenges: %d\nConfirmed: %d\nExecuted: %d\nSuccess rate: %.1f%%\n",
		len(records),
		stats.challenges,
		stats.confirmed,
		stats.executed,
		helpers.CalculateSuccessRate(stats.successful, stats.executed))

	fmt.Fprintln(out, "Top commands:")
	for _, stat := range helpers.CalculateTopCommands(stats.commandFreq, TopCommandsShown) {
		fmt.Fprintf(out, "  %s (%d)\n", stat.Command, stat.Count)
	}

	hints := helpers.DeriveUndoHints(records)
	if len(hints) > 0 {
		fmt.Fprintln(out, "Undo hints:")
		for _, hint := range hints {
			fmt.Fprintf(out, "  - %s\n", hint)
		}
	}
}
