package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/strideworks/stride-backend/internal/logger"
)

// ollamaProvider speaks the local Ollama chat API, which streams NDJSON. It
// has no distinguished system slot for our purposes: the conversation is
// forwarded flattened, with the directive inlined into the first user turn.
// No credentials are required.
type ollamaProvider struct {
	log        *logger.Logger
	host       string
	model      string
	httpClient *http.Client
}

func NewOllamaProvider(log *logger.Logger) (Provider, error) {
	host := strings.TrimRight(os.Getenv("OLLAMA_HOST"), "/")
	if host == "" {
		host = "http://localhost:11434"
	}

	model := os.Getenv("OLLAMA_MODEL")
	if model == "" {
		model = "llama3.1"
	}

	timeoutSec := 300
	if v := os.Getenv("OLLAMA_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	return &ollamaProvider{
		log:        log.With("provider", "ollama"),
		host:       host,
		model:      model,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}, nil
}

func (p *ollamaProvider) Name() string { return string(BackendOllama) }

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
}

type ollamaChatChunk struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done  bool   `json:"done"`
	Error string `json:"error,omitempty"`
}

func flattenForOllama(messages []Message) []ollamaChatMessage {
	var directive string
	out := make([]ollamaChatMessage, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			if directive == "" {
				directive = m.Content
			}
			continue
		}
		out = append(out, ollamaChatMessage{Role: string(m.Role), Content: m.Content})
	}
	if directive != "" {
		inlined := false
		for i := range out {
			if out[i].Role == string(RoleUser) {
				out[i].Content = directive + "\n\n" + out[i].Content
				inlined = true
				break
			}
		}
		if !inlined {
			out = append([]ollamaChatMessage{{Role: string(RoleUser), Content: directive}}, out...)
		}
	}
	return out
}

func (p *ollamaProvider) StreamCompletion(ctx context.Context, messages []Message, onDelta func(string) error) error {
	req := ollamaChatRequest{
		Model:    p.model,
		Messages: flattenForOllama(messages),
		Stream:   true,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(req); err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+"/api/chat", &buf)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ollama http %d: %s", resp.StatusCode, string(raw))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var chunk ollamaChatChunk
		if err := json.Unmarshal([]byte(line), &chunk); err != nil {
			p.log.Warn("Skipping undecodable stream chunk", "error", err)
			continue
		}
		if chunk.Error != "" {
			return fmt.Errorf("ollama stream error: %s", chunk.Error)
		}
		if chunk.Message.Content != "" {
			if err := onDelta(chunk.Message.Content); err != nil {
				return err
			}
		}
		if chunk.Done {
			return nil
		}
	}
	return scanner.Err()
}
