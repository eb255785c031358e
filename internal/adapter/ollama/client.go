// Package ollama streams chat completions from a local Ollama server.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"pdfchat/internal/domain"
)

const (
	DefaultBaseURL        = "http://localhost:11434"
	DefaultModel          = "tinyllama"
	DefaultConnectTimeout = 5 * time.Second
)

type Client struct {
	baseURL string
	model   string
	client  *http.Client
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// NewClient creates a streaming chat client. The connect timeout is
// bounded; the read timeout is deliberately unbounded because model
// generation can be slow.
func NewClient(baseURL, model string, connectTimeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}

	dialer := &net.Dialer{Timeout: connectTimeout}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: dialer.DialContext,
			},
		},
	}
}

// Stream sends a system and user message to /api/chat and invokes
// yield with the accumulated response text after every streamed delta.
// Blank or malformed stream lines are skipped, not fatal.
func (c *Client) Stream(ctx context.Context, system, user string, yield func(cumulative string)) error {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Stream: true,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return &domain.GenerationError{Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(jsonBody))
	if err != nil {
		return &domain.GenerationError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &domain.GenerationError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &domain.GenerationError{Err: fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))}
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var accumulated strings.Builder
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var chunk chatResponse
		if err := json.Unmarshal([]byte(line), &chunk); err != nil {
			continue
		}

		if chunk.Message.Content != "" {
			accumulated.WriteString(chunk.Message.Content)
			yield(accumulated.String())
		}
		if chunk.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return &domain.GenerationError{Err: fmt.Errorf("stream interrupted: %w", err)}
	}

	return nil
}

// ModelName returns the name of the model being used.
func (c *Client) ModelName() string {
	return c.model
}
