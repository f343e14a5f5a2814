package domain

import (
	"regexp"
	"strings"
)

// Sentinels substituted when a reply lacks the expected markers. A missing
// command is not an error: the sentinel flows on as if it were a command.
const (
	NoCommandFound = "No command found"
	NoReasonFound  = "No reason found"
)

// CommandSeparator chains commands inside a single command line.
const CommandSeparator = "&&"

var (
	commandPattern   = regexp.MustCompile(`command: ([^\n]+)`)
	reasonPattern    = regexp.MustCompile(`reason: ([^\n]+)`)
	challengePattern = regexp.MustCompile(`challenge: ([^\n]+)`)
)

// ModelReply is the raw completion text returned for one request.
type ModelReply string

// ParsedProposal is what the interpreter extracted from a ModelReply: either a
// command sequence with its reason, or a challenge asking for more context.
type ParsedProposal struct {
	Commands     []string
	RawCommand   string
	Reason       string
	Challenge    string
	HasChallenge bool
}

// IsChallenge reports whether the reply asked for clarification. Commands of a
// challenge proposal must never be executed.
func (p ParsedProposal) IsChallenge() bool {
	return p.HasChallenge
}

// Interpret extracts the command line, reason and challenge from a reply. The
// first match of each marker wins.
func Interpret(reply ModelReply) ParsedProposal {
	text := string(reply)

	raw, ok := firstMatch(commandPattern, text)
	if !ok {
		raw = NoCommandFound
	}
	reason, ok := firstMatch(reasonPattern, text)
	if !ok {
		reason = NoReasonFound
	}
	challenge, hasChallenge := firstMatch(challengePattern, text)

	return ParsedProposal{
		Commands:     SplitCommands(raw),
		RawCommand:   raw,
		Reason:       reason,
		Challenge:    challenge,
		HasChallenge: hasChallenge,
	}
}

// SplitCommands breaks a compound command line on "&&" into trimmed, non-empty
// segments. The result is never empty for non-blank input.
func SplitCommands(raw string) []string {
	raw = strings.TrimSpace(raw)
	var commands []string
	for _, segment := range strings.Split(raw, CommandSeparator) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		commands = append(commands, segment)
	}
	if len(commands) == 0 && raw != "" {
		commands = []string{raw}
	}
	return commands
}

func firstMatch(pattern *regexp.Regexp, text string) (string, bool) {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}
