package llm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/strideworks/stride-backend/internal/logger"
)

type Backend string

const (
	BackendOpenAI Backend = "openai"
	BackendOllama Backend = "ollama"
)

// constructors is the closed registry of selectable backends. Selection
// happens once at process start; a backend missing its credentials fails
// here, never mid-stream.
var constructors = map[Backend]func(log *logger.Logger) (Provider, error){
	BackendOpenAI: NewOpenAIProvider,
	BackendOllama: NewOllamaProvider,
}

func Select(name string, log *logger.Logger) (Provider, error) {
	backend := Backend(strings.ToLower(strings.TrimSpace(name)))
	ctor, ok := constructors[backend]
	if !ok {
		return nil, fmt.Errorf("unknown LLM backend %q (supported: %s)", name, strings.Join(backendNames(), ", "))
	}
	provider, err := ctor(log)
	if err != nil {
		return nil, fmt.Errorf("failed to construct LLM backend %q: %w", backend, err)
	}
	return provider, nil
}

func backendNames() []string {
	names := make([]string, 0, len(constructors))
	for b := range constructors {
		names = append(names, string(b))
	}
	sort.Strings(names)
	return names
}
