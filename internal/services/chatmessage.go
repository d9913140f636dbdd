package services

import (
  "context"
  "fmt"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/strideworks/stride-backend/internal/apierr"
  "github.com/strideworks/stride-backend/internal/logger"
  "github.com/strideworks/stride-backend/internal/repos"
  "github.com/strideworks/stride-backend/internal/types"
)

type ChatMessageService interface {
  List(ctx context.Context, parentID string, parentType string) ([]*types.ChatMessage, error)
  MarkSaved(ctx context.Context, id uuid.UUID) (*types.ChatMessage, error)
}

type chatMessageService struct {
  db        *gorm.DB
  log       *logger.Logger
  ownership OwnershipService
  chatRepo  repos.ChatMessageRepo
}

func NewChatMessageService(db *gorm.DB, log *logger.Logger, ownership OwnershipService, chatRepo repos.ChatMessageRepo) ChatMessageService {
  serviceLog := log.With("service", "ChatMessageService")
  return &chatMessageService{db: db, log: serviceLog, ownership: ownership, chatRepo: chatRepo}
}

// List returns a node's thread ordered by seq. Reads go through the same
// resolution gate as writes.
func (s *chatMessageService) List(ctx context.Context, parentID string, parentType string) ([]*types.ChatMessage, error) {
  kind, ok := types.ParseNodeKind(parentType)
  if !ok {
    return nil, apierr.NotFound("not_found", ErrNodeNotFound)
  }
  id, err := uuid.Parse(parentID)
  if err != nil {
    return nil, apierr.NotFound("not_found", ErrNodeNotFound)
  }
  if _, err := s.ownership.AuthorizeNode(ctx, nil, id, kind); err != nil {
    return nil, mapOwnershipErr(err)
  }
  return s.chatRepo.ListOrdered(ctx, nil, id, kind)
}

// MarkSaved flags an extractable assistant turn as extracted into a bucket.
func (s *chatMessageService) MarkSaved(ctx context.Context, id uuid.UUID) (*types.ChatMessage, error) {
  message, err := s.chatRepo.GetByID(ctx, nil, id)
  if err != nil {
    return nil, err
  }
  if message == nil {
    return nil, apierr.NotFound("not_found", ErrNodeNotFound)
  }
  if _, err := s.ownership.AuthorizeNode(ctx, nil, message.ParentID, message.ParentType); err != nil {
    return nil, mapOwnershipErr(err)
  }
  if !message.Extractable {
    return nil, apierr.BadRequest("not_extractable", fmt.Errorf("message is not extractable"))
  }
  if err := s.chatRepo.MarkSaved(ctx, nil, id); err != nil {
    return nil, err
  }
  return s.chatRepo.GetByID(ctx, nil, id)
}
