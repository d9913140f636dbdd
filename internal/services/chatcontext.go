package services

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/strideworks/stride-backend/internal/llm"
  "github.com/strideworks/stride-backend/internal/logger"
  "github.com/strideworks/stride-backend/internal/repos"
  "github.com/strideworks/stride-backend/internal/types"
)

// historyWindow bounds how many persisted turns are replayed to the model.
// Hard cap, not per-request configurable.
const historyWindow = 50

type ChatContextService interface {
  Assemble(ctx context.Context, tx *gorm.DB, parentID uuid.UUID, parentType types.NodeKind) ([]llm.Message, error)
}

type chatContextService struct {
  db            *gorm.DB
  log           *logger.Logger
  coreQueryRepo repos.CoreQueryRepo
  chatRepo      repos.ChatMessageRepo
}

func NewChatContextService(db *gorm.DB, log *logger.Logger, coreQueryRepo repos.CoreQueryRepo, chatRepo repos.ChatMessageRepo) ChatContextService {
  serviceLog := log.With("service", "ChatContextService")
  return &chatContextService{
    db:            db,
    log:           serviceLog,
    coreQueryRepo: coreQueryRepo,
    chatRepo:      chatRepo,
  }
}

// Assemble builds the model conversation: the node kind's directive when one
// is stored (never a default), then the most recent turns oldest-first. Turn
// roles other than "user" map to assistant.
func (s *chatContextService) Assemble(ctx context.Context, tx *gorm.DB, parentID uuid.UUID, parentType types.NodeKind) ([]llm.Message, error) {
  directive, err := s.coreQueryRepo.GetByLocation(ctx, tx, parentType)
  if err != nil {
    return nil, err
  }

  turns, err := s.chatRepo.ListOrdered(ctx, tx, parentID, parentType)
  if err != nil {
    return nil, err
  }
  if len(turns) > historyWindow {
    turns = turns[len(turns)-historyWindow:]
  }

  messages := make([]llm.Message, 0, len(turns)+1)
  if directive != nil {
    messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: directive.Query})
  }
  for _, turn := range turns {
    role := llm.RoleAssistant
    if turn.Role == types.ChatRoleUser {
      role = llm.RoleUser
    }
    messages = append(messages, llm.Message{Role: role, Content: turn.Content})
  }
  return messages, nil
}
