// Package agent wraps the hosted conversational-agent HTTP API:
// session creation, message exchange, and read-only session introspection.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hpungsan/sitescout/internal/errors"
)

// Service is the surface the orchestrator needs. *Client implements it;
// tests substitute a fake.
type Service interface {
	CreateChat(ctx context.Context) (string, error)
	SendMessage(ctx context.Context, chatID, text string) (string, error)
}

// ChatInfo is the metadata returned by the read-only chat endpoint.
type ChatInfo struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at,omitempty"`
	Summary   string `json:"summary,omitempty"`
}

// message is one entry in a messages response.
type message struct {
	AuthorType string `json:"author_type"`
	Message    string `json:"message"`
}

// Client talks to the agent service with a static bearer credential.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for the given endpoint and credential.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateChat creates a new chat session and returns its handle.
// A 2xx response without an id field is a session-creation failure.
func (c *Client) CreateChat(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/chats", nil)
	if err != nil {
		return "", err
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", errors.NewMalformedResponse(fmt.Sprintf("decode create chat response: %v", err))
	}
	if out.ID == "" {
		return "", errors.NewSessionCreation("response missing session id")
	}
	return out.ID, nil
}

// SendMessage posts a message to a chat and returns the agent's reply:
// the most recent non-empty agent-authored entry, falling back to the
// last non-empty entry of any author. An empty collection is malformed.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) (string, error) {
	payload, err := json.Marshal(map[string]string{"message": text})
	if err != nil {
		return "", errors.NewInternal(err)
	}

	body, err := c.do(ctx, http.MethodPost, "/chats/"+chatID+"/messages", payload)
	if err != nil {
		return "", err
	}

	var msgs []message
	if err := json.Unmarshal(body, &msgs); err != nil {
		return "", errors.NewMalformedResponse(fmt.Sprintf("decode messages response: %v", err))
	}

	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].AuthorType == "agent" && strings.TrimSpace(msgs[i].Message) != "" {
			return msgs[i].Message, nil
		}
	}
	// No agent entry; fall back to any non-empty message.
	for i := len(msgs) - 1; i >= 0; i-- {
		if strings.TrimSpace(msgs[i].Message) != "" {
			return msgs[i].Message, nil
		}
	}
	return "", errors.NewMalformedResponse("no non-empty reply in response")
}

// GetChat fetches session metadata. Read-only introspection; nothing in
// the main flow depends on it.
func (c *Client) GetChat(ctx context.Context, chatID string) (*ChatInfo, error) {
	body, err := c.do(ctx, http.MethodGet, "/chats/"+chatID, nil)
	if err != nil {
		return nil, err
	}

	var info ChatInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, errors.NewMalformedResponse(fmt.Sprintf("decode chat info: %v", err))
	}
	return &info, nil
}

// ValidateKey checks the credential by creating a throwaway session.
func (c *Client) ValidateKey(ctx context.Context) error {
	_, err := c.CreateChat(ctx)
	return err
}

// do runs one HTTP exchange and returns the response body.
// Non-2xx responses become Remote errors carrying status and body.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewRemote(0, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewRemote(resp.StatusCode, fmt.Sprintf("read body: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.NewRemote(resp.StatusCode, string(body))
	}
	return body, nil
}
