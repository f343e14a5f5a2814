package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/doeshing/margit/internal/domain"
	"github.com/doeshing/margit/internal/ports"
)

// Requester sends one chat-completion request per proposal.
type Requester struct {
	endpoint   string
	modelID    string
	httpClient *http.Client
	log        ports.Logger
}

// NewRequester builds a Requester. A nil client gets one without a timeout;
// only the caller's context bounds the request.
func NewRequester(endpoint, modelID string, client *http.Client, log ports.Logger) *Requester {
	if endpoint == "" {
		endpoint = domain.DefaultEndpoint
	}
	if modelID == "" {
		modelID = domain.DefaultModelID
	}
	if client == nil {
		client = &http.Client{}
	}
	return &Requester{endpoint: endpoint, modelID: modelID, httpClient: client, log: log}
}

// Request implements ports.ProposalRequester. Every failure is a
// *domain.RemoteRequestError.
func (r *Requester) Request(ctx context.Context, message string, repo domain.RepoContext, cred domain.Credential) (domain.ModelReply, error) {
	messages, err := buildMessages(message, repo)
	if err != nil {
		return "", &domain.RemoteRequestError{Err: fmt.Errorf("render context: %w", err)}
	}

	body, err := json.Marshal(chatCompletionRequest{Model: r.modelID, Messages: messages})
	if err != nil {
		return "", &domain.RemoteRequestError{Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &domain.RemoteRequestError{Err: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+cred.Reveal())
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	r.debug("sending completion request", map[string]interface{}{
		"endpoint": r.endpoint,
		"model":    r.modelID,
		"branch":   repo.Branch.String(),
	})

	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		return "", &domain.RemoteRequestError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.RemoteRequestError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Header:     resp.Header,
			Err:        fmt.Errorf("read response: %w", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &domain.RemoteRequestError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(raw),
			Header:     resp.Header,
		}
	}

	var decoded chatCompletionResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", &domain.RemoteRequestError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(raw),
			Header:     resp.Header,
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}
	content, ok := decoded.FirstMessage()
	if !ok {
		return "", &domain.RemoteRequestError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(raw),
			Header:     resp.Header,
			Err:        errors.New("no completion returned"),
		}
	}

	r.debug("completion received", map[string]interface{}{
		"duration_ms":  time.Since(start).Milliseconds(),
		"response_len": len(content),
	})
	return domain.ModelReply(content), nil
}

func (r *Requester) debug(msg string, fields map[string]interface{}) {
	if r.log != nil {
		r.log.Debug(msg, fields)
	}
}

var _ ports.ProposalRequester = (*Requester)(nil)
