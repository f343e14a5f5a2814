package ai

import (
	"bytes"
	"text/template"

	"github.com/doeshing/margit/internal/domain"
)

const instructionsPrompt = "You are an assistant in a user's MacOS terminal, helping non-developers use git. " +
	"Translate user's natural language into a git command (git_command_to_run), using best git practices. " +
	"Generally expectation is use is looking to commit and push their work. " +
	"If committing, use imperative/present tense for the message. " +
	"If ever suggesting a new branch it should be un-nested and follow number-ticket-name (e.g. 1-initial-setup). " +
	"Return in format: command: {git_command_to_run}\nreason: {explanation_for_command}. " +
	"If user's intent is unclear, ask for more context: challenge: {reason_for_challenge}\nreason: {explanation}."

const grammarPrompt = "Your response format should be command: {git_command_to_run}\nreason: {explanation_for_command}. " +
	"If user's intent is unclear, ask for more context with format: challenge: {reason_for_challenge}\nreason: {explanation}."

var contextTemplate = template.Must(template.New("context").Parse(
	"The current branch is '{{.Branch.Value}}'. The current status is '{{.Status.Value}}'. " +
		"The remote origin URL is '{{.RemoteURL.Value}}'."))

// buildMessages returns the four role-tagged messages in the order the
// completion service expects them.
func buildMessages(message string, repo domain.RepoContext) ([]chatMessage, error) {
	var buf bytes.Buffer
	if err := contextTemplate.Execute(&buf, repo); err != nil {
		return nil, err
	}
	return []chatMessage{
		{Role: roleSystem, Content: instructionsPrompt},
		{Role: roleSystem, Content: buf.String()},
		{Role: roleUser, Content: message},
		{Role: roleSystem, Content: grammarPrompt},
	}, nil
}
