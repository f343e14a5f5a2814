package helpers

import (
	"sort"
	"strings"

	"github.com/doeshing/margit/internal/domain"
)

// CommandStatistic represents usage statistics for a command
type CommandStatistic struct {
	Command string
	Count   int
}

// CalculateTopCommands returns the top N most frequently used commands
// If limit is 0 or negative, returns all commands
func CalculateTopCommands(commandFrequency map[string]int, limit int) []CommandStatistic {
	stats := make([]CommandStatistic, 0, len(commandFrequency))
	for cmd, count := range commandFrequency {
		stats = append(stats, CommandStatistic{Command: cmd, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count == stats[j].Count {
			return stats[i].Command < stats[j].Command
		}
		return stats[i].Count > stats[j].Count
	})

	if limit > 0 && len(stats) > limit {
		return stats[:limit]
	}
	return stats
}

// CalculateSuccessRate calculates the success rate as a percentage
func CalculateSuccessRate(successfulCount int, executedCount int) float64 {
	if executedCount == 0 {
		return 0.0
	}
	return float64(successfulCount) / float64(executedCount) * 100.0
}

// RunStatus summarizes a record in one word (or the failed command).
func RunStatus(rec domain.RunRecord) string {
	switch {
	case rec.Challenge != "":
		return "challenge"
	case !rec.Confirmed:
		return "declined"
	case !rec.Executed:
		return "not run"
	case rec.Succeeded:
		return "ok"
	default:
		return "stopped at " + rec.FailedCommand
	}
}

// undoHints maps a git subcommand prefix to a way of reverting it.
var undoHints = []struct {
	prefix string
	hint   string
}{
	{"git add", "Unstage with `git restore --staged <path>`."},
	{"git commit", "Undo the last commit but keep its changes with `git reset --soft HEAD~1`."},
	{"git push", "A pushed commit is undone with `git revert <commit>` followed by another push."},
	{"git merge", "Abort an unfinished merge with `git merge --abort`, or return with `git reset --hard ORIG_HEAD`."},
	{"git rebase", "Abort with `git rebase --abort`, or find the previous tip in `git reflog`."},
	{"git checkout", "Return to the previous branch with `git switch -`."},
	{"git switch", "Return to the previous branch with `git switch -`."},
	{"git reset", "Recover a reset commit from `git reflog`."},
	{"git stash", "Restore stashed changes with `git stash pop`."},
	{"git rm", "Restore a removed tracked file with `git restore --source=HEAD <path>`."},
}

// DeriveUndoHints returns a sorted list of unique hints for the commands that
// actually ran.
func DeriveUndoHints(records []domain.RunRecord) []string {
	seen := make(map[string]bool)
	for _, rec := range records {
		if !rec.Executed {
			continue
		}
		for _, command := range domain.SplitCommands(rec.RawCommand) {
			normalized := strings.ToLower(strings.Join(strings.Fields(command), " "))
			for _, h := range undoHints {
				if normalized == h.prefix || strings.HasPrefix(normalized, h.prefix+" ") {
					seen[h.hint] = true
				}
			}
		}
	}

	hints := make([]string, 0, len(seen))
	for hint := range seen {
		hints = append(hints, hint)
	}
	sort.Strings(hints)
	return hints
}
