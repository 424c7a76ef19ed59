// Package secondme implements the chat capability and credential lookup on
// top of the SecondMe API. The provider only exposes a streaming chat
// endpoint, so the blocking path drains the same stream.
package secondme

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"zhipin-server/internal/domain/chat"
	"zhipin-server/internal/infrastructure/metrics"
)

const chatStreamPath = "/api/secondme/chat/stream"

// Client implements the chat.Capability interface.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a SecondMe chat client.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type chatRequestBody struct {
	Message      string `json:"message"`
	SessionID    string `json:"sessionId,omitempty"`
	SystemPrompt string `json:"systemPrompt,omitempty"`
}

// Send posts one message and drains the event stream into a single result.
func (c *Client) Send(ctx context.Context, req chat.Request) (*chat.Result, error) {
	start := time.Now()
	result, err := c.stream(ctx, req, nil)
	metrics.RecordChatCall("send", time.Since(start).Seconds())
	return result, err
}

// SendStream posts one message and invokes onChunk for every content delta.
// The returned result carries the full accumulated text.
func (c *Client) SendStream(ctx context.Context, req chat.Request, onChunk chat.ChunkFunc) (*chat.Result, error) {
	start := time.Now()
	result, err := c.stream(ctx, req, onChunk)
	metrics.RecordChatCall("stream", time.Since(start).Seconds())
	return result, err
}

func (c *Client) stream(ctx context.Context, req chat.Request, onChunk chat.ChunkFunc) (*chat.Result, error) {
	body, err := json.Marshal(chatRequestBody{
		Message:      req.Message,
		SessionID:    req.SessionID,
		SystemPrompt: req.SystemPrompt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatStreamPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+req.Credential)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("secondme chat error: %d %s", resp.StatusCode, string(errBody))
	}

	result := &chat.Result{SessionID: req.SessionID}
	reader := bufio.NewReader(resp.Body)
	sessionEvent := false

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				c.consumeLine(strings.TrimSpace(line), &sessionEvent, result, onChunk)
				break
			}
			return nil, fmt.Errorf("read stream: %w", err)
		}
		c.consumeLine(strings.TrimSpace(line), &sessionEvent, result, onChunk)
	}

	return result, nil
}

// consumeLine processes one SSE line. A bare "event: session" line flags the
// next data line as the session payload instead of a content delta.
func (c *Client) consumeLine(line string, sessionEvent *bool, result *chat.Result, onChunk chat.ChunkFunc) {
	if line == "" || strings.HasPrefix(line, ":") {
		return
	}

	if line == "event: session" {
		*sessionEvent = true
		return
	}

	if !strings.HasPrefix(line, "data: ") {
		return
	}
	data := strings.TrimPrefix(line, "data: ")

	if *sessionEvent {
		*sessionEvent = false
		var payload struct {
			SessionID string `json:"sessionId"`
		}
		// Skip malformed session payloads.
		if err := json.Unmarshal([]byte(data), &payload); err == nil && payload.SessionID != "" {
			result.SessionID = payload.SessionID
		}
		return
	}

	if data == "[DONE]" {
		return
	}

	if delta := extractDelta(data); delta != "" {
		result.Text += delta
		if onChunk != nil {
			onChunk(delta)
		}
	}
}

// sseChunk covers the delta shapes the provider emits: the OpenAI-compatible
// choices form plus flat content / delta variants.
type sseChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Content string `json:"content"`
	Delta   string `json:"delta"`
}

// extractDelta normalizes one data payload into its content delta. Malformed
// chunks normalize to empty and are skipped.
func extractDelta(data string) string {
	var chunk sseChunk
	if err := json.Unmarshal([]byte(data), &chunk); err != nil {
		return ""
	}
	if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
		return chunk.Choices[0].Delta.Content
	}
	if chunk.Content != "" {
		return chunk.Content
	}
	return chunk.Delta
}

// Ensure interface compliance.
var _ chat.Capability = (*Client)(nil)
