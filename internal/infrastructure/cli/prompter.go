package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/doeshing/margit/internal/ports"
)

// Choices offered by every confirmation.
const (
	ChoiceYes = "Yes"
	ChoiceNo  = "No"
)

// NewPrompter returns an arrow-key selector when both streams are terminals
// and a line prompter otherwise. Nil streams default to stdin/stdout.
func NewPrompter(in io.Reader, out io.Writer) ports.ConfirmationPrompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	if isTerminal(in) && isTerminal(out) {
		return &SelectPrompter{in: in, out: out}
	}
	return NewLinePrompter(in, out)
}

func isTerminal(stream interface{}) bool {
	f, ok := stream.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// LinePrompter implements ConfirmationPrompter using plain line input.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter constructs a prompter over the given streams.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

type lineResult struct {
	line string
	err  error
}

// Confirm asks the question; only "yes" or "y" (any case) selects Yes.
func (p *LinePrompter) Confirm(ctx context.Context, question string) (bool, error) {
	fmt.Fprintf(p.out, "%s [%s/%s]: ", question, ChoiceYes, ChoiceNo)

	done := make(chan lineResult, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		done <- lineResult{line: line, err: err}
	}()

	var res lineResult
	select {
	case res = <-done:
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return false, ctx.Err()
	}
	if res.err != nil && !errors.Is(res.err, io.EOF) {
		return false, res.err
	}
	answer := strings.ToLower(strings.TrimSpace(res.line))
	return answer == "yes" || answer == "y", nil
}

// SelectPrompter shows a Yes/No list navigated with the arrow keys.
type SelectPrompter struct {
	in  io.Reader
	out io.Writer
}

// Confirm runs the selector until a choice is made. Aborting selects No.
func (p *SelectPrompter) Confirm(ctx context.Context, question string) (bool, error) {
	program := tea.NewProgram(newSelectModel(question, ChoiceYes, ChoiceNo),
		tea.WithContext(ctx), tea.WithInput(p.in), tea.WithOutput(p.out))
	final, err := program.Run()
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}
	m, ok := final.(selectModel)
	if !ok {
		return false, nil
	}
	return m.chosen == ChoiceYes, nil
}

// selectModel is a minimal single-choice list.
type selectModel struct {
	question string
	choices  []string
	cursor   int
	chosen   string
	done     bool
}

func newSelectModel(question string, choices ...string) selectModel {
	return selectModel{question: question, choices: choices}
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k", "shift+tab":
		m.cursor = (m.cursor + len(m.choices) - 1) % len(m.choices)
	case "down", "j", "tab":
		m.cursor = (m.cursor + 1) % len(m.choices)
	case "enter", " ":
		m.chosen = m.choices[m.cursor]
		m.done = true
		return m, tea.Quit
	case "ctrl+c", "esc", "q":
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m selectModel) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "? %s", m.question)
	if m.done {
		fmt.Fprintf(&b, " %s\n", m.chosen)
		return b.String()
	}
	b.WriteString("\n")
	for i, choice := range m.choices {
		cursor := "  "
		if i == m.cursor {
			cursor = "❯ "
		}
		b.WriteString(cursor + choice + "\n")
	}
	return b.String()
}

var (
	_ ports.ConfirmationPrompter = (*LinePrompter)(nil)
	_ ports.ConfirmationPrompter = (*SelectPrompter)(nil)
)
