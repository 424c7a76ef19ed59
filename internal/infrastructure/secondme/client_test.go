package secondme

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"zhipin-server/internal/domain/chat"
)

func sseHandler(t *testing.T, lines []string, capture *chatRequestBody) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("authorization header = %q", got)
		}
		if capture != nil {
			body, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(body, capture); err != nil {
				t.Errorf("request body not JSON: %v", err)
			}
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, line := range lines {
			fmt.Fprintf(w, "%s\n", line)
		}
	}
}

func TestClientSendNormalizesDeltaShapes(t *testing.T) {
	var captured chatRequestBody
	srv := httptest.NewServer(sseHandler(t, []string{
		"event: session",
		`data: {"sessionId": "sess-123"}`,
		"",
		`data: {"choices":[{"delta":{"content":"你好"}}]}`,
		`data: {"content":"，我是"}`,
		`data: {"delta":"招聘方"}`,
		"data: [DONE]",
	}, &captured))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.Send(context.Background(), chat.Request{
		Credential:   "test-token",
		Message:      "你好，我对这个职位很感兴趣",
		SystemPrompt: "персона",
	})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	if result.Text != "你好，我是招聘方" {
		t.Errorf("text = %q", result.Text)
	}
	if result.SessionID != "sess-123" {
		t.Errorf("session id = %q, want sess-123", result.SessionID)
	}
	if captured.Message != "你好，我对这个职位很感兴趣" {
		t.Errorf("request message = %q", captured.Message)
	}
	if captured.SessionID != "" {
		t.Errorf("request carried session id %q on a fresh session", captured.SessionID)
	}
}

func TestClientSendReusesSessionWithoutPrompt(t *testing.T) {
	var captured chatRequestBody
	srv := httptest.NewServer(sseHandler(t, []string{
		`data: {"content":"回复"}`,
		"data: [DONE]",
	}, &captured))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.Send(context.Background(), chat.Request{
		Credential: "test-token",
		Message:    "继续",
		SessionID:  "sess-42",
	})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	if captured.SessionID != "sess-42" {
		t.Errorf("request session id = %q, want sess-42", captured.SessionID)
	}
	if captured.SystemPrompt != "" {
		t.Errorf("request system prompt = %q, want empty", captured.SystemPrompt)
	}
	// no session event in the stream keeps the existing handle
	if result.SessionID != "sess-42" {
		t.Errorf("result session id = %q, want sess-42", result.SessionID)
	}
}

func TestClientSendStreamInvokesCallback(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t, []string{
		`data: {"choices":[{"delta":{"content":"第一"}}]}`,
		`data: {"choices":[{"delta":{"content":"段"}}]}`,
		"data: [DONE]",
	}, nil))
	defer srv.Close()

	client := NewClient(srv.URL)
	var chunks []string
	result, err := client.SendStream(context.Background(), chat.Request{Credential: "test-token", Message: "hi"}, func(chunk string) {
		chunks = append(chunks, chunk)
	})
	if err != nil {
		t.Fatalf("SendStream returned error: %v", err)
	}

	if len(chunks) != 2 || chunks[0] != "第一" || chunks[1] != "段" {
		t.Errorf("chunks = %v", chunks)
	}
	if result.Text != "第一段" {
		t.Errorf("accumulated text = %q", result.Text)
	}
}

func TestClientSendSkipsMalformedChunks(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t, []string{
		`data: {"content":"有效`,
		`data: not json at all`,
		": comment line",
		`data: {"content":"内容"}`,
		"data: [DONE]",
	}, nil))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.Send(context.Background(), chat.Request{Credential: "test-token", Message: "hi"})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if result.Text != "内容" {
		t.Errorf("text = %q, want only the parseable chunk", result.Text)
	}
}

func TestClientSendSurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Send(context.Background(), chat.Request{Credential: "bad", Message: "hi"})
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error = %v, want status code context", err)
	}
}
