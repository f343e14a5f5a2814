package helpers

import (
	"testing"

	"github.com/doeshing/margit/internal/domain"
)

func TestCalculateTopCommands(t *testing.T) {
	freq := map[string]int{"git add .": 3, "git push": 1, "git commit -m x": 3, "git status": 2}

	got := CalculateTopCommands(freq, 3)

	want := []CommandStatistic{
		{Command: "git add .", Count: 3},
		{Command: "git commit -m x", Count: 3},
		{Command: "git status", Count: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d stats, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stat %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}

	if all := CalculateTopCommands(freq, 0); len(all) != 4 {
		t.Fatalf("expected all 4 stats without a limit, got %d", len(all))
	}
}

func TestCalculateSuccessRate(t *testing.T) {
	if rate := CalculateSuccessRate(0, 0); rate != 0 {
		t.Fatalf("expected 0 for no executions, got %f", rate)
	}
	if rate := CalculateSuccessRate(3, 4); rate != 75 {
		t.Fatalf("expected 75, got %f", rate)
	}
}

func TestRunStatus(t *testing.T) {
	cases := []struct {
		name string
		rec  domain.RunRecord
		want string
	}{
		{"challenge", domain.RunRecord{Challenge: "which?"}, "challenge"},
		{"declined", domain.RunRecord{}, "declined"},
		{"not run", domain.RunRecord{Confirmed: true}, "not run"},
		{"ok", domain.RunRecord{Confirmed: true, Executed: true, Succeeded: true}, "ok"},
		{"stopped", domain.RunRecord{Confirmed: true, Executed: true, FailedCommand: "git push"}, "stopped at git push"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RunStatus(tc.rec); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestDeriveUndoHints(t *testing.T) {
	records := []domain.RunRecord{
		{RawCommand: "git add . && git commit -m 'x'", Executed: true},
		{RawCommand: "git push origin main", Executed: false},
		{RawCommand: "git   ADD README.md", Executed: true},
		{RawCommand: "git addendum", Executed: true},
	}

	hints := DeriveUndoHints(records)

	if len(hints) != 2 {
		t.Fatalf("expected 2 unique hints, got %d: %v", len(hints), hints)
	}
	for _, hint := range hints {
		if hint == undoHints[2].hint {
			t.Fatalf("push was never executed, got hint %q", hint)
		}
	}
}
