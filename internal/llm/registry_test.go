package llm

import (
	"strings"
	"testing"

	"github.com/strideworks/stride-backend/internal/logger"
)

func testLogger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("failed to init logger: %v", err)
	}
	return log
}

func TestSelectUnknownBackend(t *testing.T) {
	_, err := Select("watson", testLogger(t))
	if err == nil {
		t.Fatal("expected an error for an unknown backend")
	}
	if !strings.Contains(err.Error(), "openai") || !strings.Contains(err.Error(), "ollama") {
		t.Fatalf("error %q does not list the supported backends", err)
	}
}

func TestSelectOpenAIRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Select("openai", testLogger(t))
	if err == nil {
		t.Fatal("expected selection to fail without OPENAI_API_KEY")
	}
	if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Fatalf("error %q does not name the missing credential", err)
	}
}

func TestSelectNormalizesName(t *testing.T) {
	provider, err := Select("  Ollama ", testLogger(t))
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if provider.Name() != "ollama" {
		t.Fatalf("provider name = %q", provider.Name())
	}
}
