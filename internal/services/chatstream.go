package services

import (
  "context"
  "errors"
  "fmt"
  "strings"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/strideworks/stride-backend/internal/apierr"
  "github.com/strideworks/stride-backend/internal/llm"
  "github.com/strideworks/stride-backend/internal/logger"
  "github.com/strideworks/stride-backend/internal/realtime"
  "github.com/strideworks/stride-backend/internal/realtime/bus"
  "github.com/strideworks/stride-backend/internal/repos"
  "github.com/strideworks/stride-backend/internal/stream"
  "github.com/strideworks/stride-backend/internal/types"
)

type StreamRequest struct {
  ParentID   string `json:"parentId" binding:"required"`
  ParentType string `json:"parentType" binding:"required"`
  Content    string `json:"content" binding:"required"`
}

// BeginResult is the durable state established before any streaming starts:
// the inbound turn is already persisted and the model context assembled.
type BeginResult struct {
  ProjectID   uuid.UUID
  ParentID    uuid.UUID
  ParentType  types.NodeKind
  UserMessage *types.ChatMessage
  Messages    []llm.Message
}

type ChatStreamService interface {
  Begin(ctx context.Context, req StreamRequest) (*BeginResult, error)
  Relay(ctx context.Context, begin *BeginResult, emitter stream.Emitter)
}

type chatStreamService struct {
  db        *gorm.DB
  log       *logger.Logger
  ownership OwnershipService
  chatCtx   ChatContextService
  chatRepo  repos.ChatMessageRepo
  provider  llm.Provider
  eventBus  bus.Bus
}

func NewChatStreamService(
  db *gorm.DB,
  log *logger.Logger,
  ownership OwnershipService,
  chatCtx ChatContextService,
  chatRepo repos.ChatMessageRepo,
  provider llm.Provider,
  eventBus bus.Bus,
) ChatStreamService {
  serviceLog := log.With("service", "ChatStreamService")
  return &chatStreamService{
    db:        db,
    log:       serviceLog,
    ownership: ownership,
    chatCtx:   chatCtx,
    chatRepo:  chatRepo,
    provider:  provider,
    eventBus:  eventBus,
  }
}

// Begin validates and authorizes the turn, persists the inbound user message,
// and assembles the model context. Any error here is terminal and
// non-streaming; rejected requests never write a turn.
func (s *chatStreamService) Begin(ctx context.Context, req StreamRequest) (*BeginResult, error) {
  if strings.TrimSpace(req.ParentID) == "" || strings.TrimSpace(req.ParentType) == "" || strings.TrimSpace(req.Content) == "" {
    return nil, apierr.BadRequest("invalid_request", fmt.Errorf("parentId, parentType and content are required"))
  }

  parentType, ok := types.ParseNodeKind(req.ParentType)
  if !ok {
    // Unknown kinds fail closed, indistinguishable from a missing node.
    return nil, apierr.NotFound("not_found", ErrNodeNotFound)
  }
  parentID, err := uuid.Parse(req.ParentID)
  if err != nil {
    return nil, apierr.NotFound("not_found", ErrNodeNotFound)
  }

  projectID, err := s.ownership.AuthorizeNode(ctx, nil, parentID, parentType)
  if err != nil {
    if errors.Is(err, ErrNodeNotFound) {
      return nil, apierr.NotFound("not_found", err)
    }
    return nil, err
  }

  // The inbound turn must be durable before streaming starts, so a failed
  // model call still leaves the user's message behind.
  userMessage, err := s.chatRepo.Append(ctx, nil, parentID, parentType, types.ChatRoleUser, req.Content, false)
  if err != nil {
    return nil, fmt.Errorf("failed to persist inbound turn: %w", err)
  }

  messages, err := s.chatCtx.Assemble(ctx, nil, parentID, parentType)
  if err != nil {
    return nil, fmt.Errorf("failed to assemble chat context: %w", err)
  }

  return &BeginResult{
    ProjectID:   projectID,
    ParentID:    parentID,
    ParentType:  parentType,
    UserMessage: userMessage,
    Messages:    messages,
  }, nil
}

// Relay drives the provider stream into the emitter and finalizes the turn.
// Provider consumption and outbound persistence run detached from the request
// context: once the model call is underway, a client disconnect stops frame
// emission but the assistant turn is still persisted when the provider
// finishes. Exactly one of done or error is emitted.
func (s *chatStreamService) Relay(ctx context.Context, begin *BeginResult, emitter stream.Emitter) {
  relayCtx := context.WithoutCancel(ctx)

  var accumulated strings.Builder
  clientGone := false
  streamErr := s.provider.StreamCompletion(relayCtx, begin.Messages, func(fragment string) error {
    accumulated.WriteString(fragment)
    if clientGone {
      return nil
    }
    if err := emitter.Token(fragment); err != nil {
      clientGone = true
      s.log.Debug("Client left mid-stream; continuing to completion", "parent_id", begin.ParentID, "error", err)
    }
    return nil
  })

  if streamErr != nil {
    s.finalizeError(relayCtx, begin, emitter, streamErr)
    return
  }
  s.finalizeSuccess(relayCtx, begin, emitter, accumulated.String())
}

func (s *chatStreamService) finalizeSuccess(ctx context.Context, begin *BeginResult, emitter stream.Emitter, content string) {
  aiMessage, err := s.chatRepo.Append(ctx, nil, begin.ParentID, begin.ParentType, types.ChatRoleAssistant, content, true)
  if err != nil {
    // The caller already saw every token; this is a durability gap for
    // operators, not a user-facing failure.
    s.log.Error("chat outbound persist failed", "parent_id", begin.ParentID, "parent_type", begin.ParentType, "error", err)
    _ = emitter.Done(begin.UserMessage.ID.String(), "")
    return
  }
  if err := emitter.Done(begin.UserMessage.ID.String(), aiMessage.ID.String()); err != nil {
    s.log.Debug("Failed to deliver done frame", "parent_id", begin.ParentID, "error", err)
  }
  s.publish(ctx, realtime.EventChatTurnCompleted, begin, aiMessage.ID)
}

func (s *chatStreamService) finalizeError(ctx context.Context, begin *BeginResult, emitter stream.Emitter, streamErr error) {
  s.log.Warn("Provider stream failed", "parent_id", begin.ParentID, "parent_type", begin.ParentType, "error", streamErr)
  wrapped := fmt.Sprintf("Sorry, I couldn't finish that response: %v", streamErr)

  aiMessage, err := s.chatRepo.Append(ctx, nil, begin.ParentID, begin.ParentType, types.ChatRoleAssistant, wrapped, false)
  if err != nil {
    s.log.Error("chat error-turn persist failed", "parent_id", begin.ParentID, "parent_type", begin.ParentType, "error", err)
  }
  if err := emitter.Error(wrapped); err != nil {
    s.log.Debug("Failed to deliver error frame", "parent_id", begin.ParentID, "error", err)
  }
  var aiID uuid.UUID
  if aiMessage != nil {
    aiID = aiMessage.ID
  }
  s.publish(ctx, realtime.EventChatTurnFailed, begin, aiID)
}

func (s *chatStreamService) publish(ctx context.Context, eventType realtime.EventType, begin *BeginResult, aiMessageID uuid.UUID) {
  if s.eventBus == nil {
    return
  }
  event := realtime.Event{
    Type:          eventType,
    ProjectID:     begin.ProjectID,
    ParentID:      begin.ParentID,
    ParentType:    begin.ParentType.String(),
    UserMessageID: begin.UserMessage.ID,
    AIMessageID:   aiMessageID,
  }
  if err := s.eventBus.Publish(ctx, event); err != nil {
    s.log.Warn("Failed to publish chat event", "type", eventType, "error", err)
  }
}
