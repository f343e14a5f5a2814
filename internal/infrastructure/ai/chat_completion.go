package ai

import "strings"

// Chat roles used in the request.
const (
	roleSystem = "system"
	roleUser   = "user"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// FirstMessage returns the first choice's content and whether one existed.
func (c chatCompletionResponse) FirstMessage() (string, bool) {
	if len(c.Choices) == 0 {
		return "", false
	}
	return strings.TrimSpace(c.Choices[0].Message.Content), true
}
