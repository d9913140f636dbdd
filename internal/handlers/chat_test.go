package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/strideworks/stride-backend/internal/apierr"
	"github.com/strideworks/stride-backend/internal/logger"
	"github.com/strideworks/stride-backend/internal/services"
	"github.com/strideworks/stride-backend/internal/stream"
	"github.com/strideworks/stride-backend/internal/types"
)

func testLogger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("failed to init logger: %v", err)
	}
	return log
}

// stubStreamService scripts Begin and Relay so the handler's HTTP behavior
// can be tested without a provider or database.
type stubStreamService struct {
	beginErr  error
	begin     *services.BeginResult
	fragments []string
}

func (s *stubStreamService) Begin(ctx context.Context, req services.StreamRequest) (*services.BeginResult, error) {
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	return s.begin, nil
}

func (s *stubStreamService) Relay(ctx context.Context, begin *services.BeginResult, emitter stream.Emitter) {
	for _, f := range s.fragments {
		_ = emitter.Token(f)
	}
	_ = emitter.Done(begin.UserMessage.ID.String(), uuid.NewString())
}

type stubMessageService struct{}

func (stubMessageService) List(ctx context.Context, parentID, parentType string) ([]*types.ChatMessage, error) {
	return nil, apierr.NotFound("not_found", services.ErrNodeNotFound)
}

func (stubMessageService) MarkSaved(ctx context.Context, id uuid.UUID) (*types.ChatMessage, error) {
	return nil, apierr.NotFound("not_found", services.ErrNodeNotFound)
}

func newChatRouter(t *testing.T, streamSvc services.ChatStreamService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewChatHandler(testLogger(t), streamSvc, stubMessageService{})
	router := gin.New()
	router.POST("/api/chat/stream", h.Stream)
	router.GET("/api/chat/messages", h.ListMessages)
	return router
}

func TestStreamRejectionIsPlainJSON(t *testing.T) {
	svc := &stubStreamService{beginErr: apierr.NotFound("not_found", services.ErrNodeNotFound)}
	router := newChatRouter(t, svc)

	rec := httptest.NewRecorder()
	body := `{"parentId":"` + uuid.NewString() + `","parentType":"bogus","content":"hi"}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat/stream", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); strings.Contains(ct, "text/event-stream") {
		t.Fatalf("rejection answered as a stream (%q)", ct)
	}
}

func TestStreamMalformedBody(t *testing.T) {
	router := newChatRouter(t, &stubStreamService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/stream", strings.NewReader(`{"parentId":1}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestStreamSuccessIsEventStream(t *testing.T) {
	begin := &services.BeginResult{
		ParentID:    uuid.New(),
		ParentType:  types.NodeProjectPage,
		UserMessage: &types.ChatMessage{ID: uuid.New()},
	}
	svc := &stubStreamService{begin: begin, fragments: []string{"Hel", "lo"}}
	router := newChatRouter(t, svc)

	rec := httptest.NewRecorder()
	body := `{"parentId":"` + begin.ParentID.String() + `","parentType":"project_page","content":"hi"}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat/stream", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Fatalf("Content-Type = %q", ct)
	}

	dec := stream.NewDecoder(strings.NewReader(rec.Body.String()), testLogger(t))
	var text strings.Builder
	var terminal *stream.Frame
	for {
		frame, err := dec.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if frame.Type == stream.FrameToken {
			text.WriteString(frame.Text)
			continue
		}
		terminal = frame
	}
	if text.String() != "Hello" {
		t.Fatalf("streamed text = %q", text.String())
	}
	if terminal == nil || terminal.Type != stream.FrameDone {
		t.Fatalf("terminal = %+v, want done", terminal)
	}
	if terminal.UserMessageID != begin.UserMessage.ID.String() {
		t.Fatalf("done frame user id = %q", terminal.UserMessageID)
	}
}

func TestListMessagesRequiresParams(t *testing.T) {
	router := newChatRouter(t, &stubStreamService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/chat/messages", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
