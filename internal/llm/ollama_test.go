package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFlattenForOllama(t *testing.T) {
	cases := []struct {
		name string
		in   []Message
		want []ollamaChatMessage
	}{
		{
			name: "directive inlined into first user turn",
			in: []Message{
				{Role: RoleSystem, Content: "Answer in French"},
				{Role: RoleUser, Content: "hello"},
				{Role: RoleAssistant, Content: "bonjour"},
				{Role: RoleUser, Content: "thanks"},
			},
			want: []ollamaChatMessage{
				{Role: "user", Content: "Answer in French\n\nhello"},
				{Role: "assistant", Content: "bonjour"},
				{Role: "user", Content: "thanks"},
			},
		},
		{
			name: "directive without user turn becomes one",
			in: []Message{
				{Role: RoleSystem, Content: "Answer in French"},
				{Role: RoleAssistant, Content: "bonjour"},
			},
			want: []ollamaChatMessage{
				{Role: "user", Content: "Answer in French"},
				{Role: "assistant", Content: "bonjour"},
			},
		},
		{
			name: "no directive passes through",
			in: []Message{
				{Role: RoleUser, Content: "hello"},
				{Role: RoleAssistant, Content: "hi"},
			},
			want: []ollamaChatMessage{
				{Role: "user", Content: "hello"},
				{Role: "assistant", Content: "hi"},
			},
		},
		{
			name: "second directive dropped",
			in: []Message{
				{Role: RoleSystem, Content: "first"},
				{Role: RoleSystem, Content: "second"},
				{Role: RoleUser, Content: "hello"},
			},
			want: []ollamaChatMessage{
				{Role: "user", Content: "first\n\nhello"},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := flattenForOllama(tc.in)
			if len(got) != len(tc.want) {
				t.Fatalf("flattened to %d messages, want %d: %+v", len(got), len(tc.want), got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("message %d = %+v, want %+v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func ollamaLine(chunk ollamaChatChunk) string {
	body, _ := json.Marshal(chunk)
	return string(body)
}

func TestOllamaStreamCompletion(t *testing.T) {
	var gotRequest ollamaChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Errorf("decode request: %v", err)
		}

		lines := []ollamaChatChunk{}
		for _, content := range []string{"Hel", "lo"} {
			chunk := ollamaChatChunk{}
			chunk.Message.Content = content
			lines = append(lines, chunk)
		}
		lines = append(lines, ollamaChatChunk{Done: true})
		for _, chunk := range lines {
			fmt.Fprintln(w, ollamaLine(chunk))
		}
	}))
	defer server.Close()

	t.Setenv("OLLAMA_HOST", server.URL)
	provider, err := NewOllamaProvider(testLogger(t))
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	messages := []Message{
		{Role: RoleSystem, Content: "Answer in French"},
		{Role: RoleUser, Content: "hello"},
	}
	var deltas []string
	if err := provider.StreamCompletion(context.Background(), messages, func(fragment string) error {
		deltas = append(deltas, fragment)
		return nil
	}); err != nil {
		t.Fatalf("stream completion: %v", err)
	}

	if strings.Join(deltas, "") != "Hello" {
		t.Fatalf("deltas = %v", deltas)
	}
	if !gotRequest.Stream {
		t.Fatal("request did not ask for streaming")
	}
	// The directive travels inlined, never as a separate system message.
	if len(gotRequest.Messages) != 1 {
		t.Fatalf("forwarded %d messages, want 1", len(gotRequest.Messages))
	}
	if gotRequest.Messages[0].Role != "user" || !strings.HasPrefix(gotRequest.Messages[0].Content, "Answer in French") {
		t.Fatalf("forwarded message = %+v", gotRequest.Messages[0])
	}
}

func TestOllamaStreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chunk := ollamaChatChunk{}
		chunk.Message.Content = "partial"
		fmt.Fprintln(w, ollamaLine(chunk))
		fmt.Fprintln(w, ollamaLine(ollamaChatChunk{Error: "model not found"}))
	}))
	defer server.Close()

	t.Setenv("OLLAMA_HOST", server.URL)
	provider, err := NewOllamaProvider(testLogger(t))
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	var deltas []string
	streamErr := provider.StreamCompletion(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, func(fragment string) error {
		deltas = append(deltas, fragment)
		return nil
	})
	if streamErr == nil || !strings.Contains(streamErr.Error(), "model not found") {
		t.Fatalf("got %v, want the backend error surfaced", streamErr)
	}
	if len(deltas) != 1 || deltas[0] != "partial" {
		t.Fatalf("deltas before the error = %v", deltas)
	}
}

func TestOllamaAbortsOnDeltaError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, content := range []string{"a", "b"} {
			chunk := ollamaChatChunk{}
			chunk.Message.Content = content
			fmt.Fprintln(w, ollamaLine(chunk))
		}
		fmt.Fprintln(w, ollamaLine(ollamaChatChunk{Done: true}))
	}))
	defer server.Close()

	t.Setenv("OLLAMA_HOST", server.URL)
	provider, err := NewOllamaProvider(testLogger(t))
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	abort := errors.New("stop here")
	var seen int
	streamErr := provider.StreamCompletion(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, func(string) error {
		seen++
		return abort
	})
	if !errors.Is(streamErr, abort) {
		t.Fatalf("got %v, want the callback error back", streamErr)
	}
	if seen != 1 {
		t.Fatalf("callback ran %d times after aborting", seen)
	}
}
