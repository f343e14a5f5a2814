package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/doeshing/margit/internal/domain"
	"github.com/doeshing/margit/internal/ports"
)

// Renderer prints pipeline output. Styling degrades to plain text when out is
// not a terminal.
type Renderer struct {
	out     io.Writer
	heading lipgloss.Style
	inverse lipgloss.Style
	danger  lipgloss.Style
}

// NewRenderer builds a Renderer writing to out (stdout when nil).
func NewRenderer(out io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	r := lipgloss.NewRenderer(out)
	return &Renderer{
		out:     out,
		heading: r.NewStyle().Bold(true),
		inverse: r.NewStyle().Reverse(true),
		danger:  r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// Proposal shows the commands and the reason behind them.
func (r *Renderer) Proposal(p domain.ParsedProposal) {
	fmt.Fprintln(r.out, r.heading.Render("Command to run"))
	for _, command := range p.Commands {
		fmt.Fprintf(r.out, "> %s\n", command)
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.heading.Render("Explanation"))
	fmt.Fprintln(r.out, p.Reason)
	fmt.Fprintln(r.out)
}

// Challenge shows a clarification request. Nothing is offered for execution.
func (r *Renderer) Challenge(p domain.ParsedProposal) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.heading.Render("Challenge"))
	fmt.Fprintln(r.out, p.Challenge)
	if p.Reason != "" && p.Reason != domain.NoReasonFound {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, r.heading.Render("Explanation"))
		fmt.Fprintln(r.out, p.Reason)
	}
}

// Running announces the command about to start.
func (r *Renderer) Running(marker, command string) {
	fmt.Fprintf(r.out, "%s %s\n", r.inverse.Render("Running "+marker), command)
}

// CommandError prints a failed command's error.
func (r *Renderer) CommandError(err error) {
	fmt.Fprintf(r.out, "%s %v\n", r.danger.Render("error:"), err)
}

// CommandOutput prints captured command output verbatim.
func (r *Renderer) CommandOutput(text string) {
	if text == "" {
		return
	}
	fmt.Fprint(r.out, text)
	if !strings.HasSuffix(text, "\n") {
		fmt.Fprintln(r.out)
	}
}

// Guidance prints the next manual step after an aborted inspection.
func (r *Renderer) Guidance(message string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.inverse.Render(message))
}

// RemoteError prints every diagnostic the failed request produced.
func (r *Renderer) RemoteError(e *domain.RemoteRequestError) {
	fmt.Fprintf(r.out, "%s %v\n", r.danger.Render("Error:"), e)
	if e.StatusCode == 0 {
		return
	}
	if e.Body != "" {
		fmt.Fprintf(r.out, "Response Data: %s\n", strings.TrimSpace(e.Body))
	}
	fmt.Fprintf(r.out, "Response Status: %d\n", e.StatusCode)
	if len(e.Header) > 0 {
		fmt.Fprintln(r.out, "Response Headers:")
		keys := make([]string, 0, len(e.Header))
		for k := range e.Header {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(r.out, "  %s: %s\n", k, strings.Join(e.Header.Values(k), ", "))
		}
	}
}

// Declined is printed when the user chooses not to run the commands.
func (r *Renderer) Declined() {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "No worries. Shall we try again?")
}

// Info prints a plain line.
func (r *Renderer) Info(message string) {
	fmt.Fprintln(r.out, message)
}

var _ ports.Renderer = (*Renderer)(nil)
