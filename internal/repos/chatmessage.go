package repos

import (
  "context"
  "errors"
  "fmt"
  "strings"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/strideworks/stride-backend/internal/logger"
  "github.com/strideworks/stride-backend/internal/types"
)

type ChatMessageRepo interface {
  Append(ctx context.Context, tx *gorm.DB, parentID uuid.UUID, parentType types.NodeKind, role, content string, extractable bool) (*types.ChatMessage, error)
  ListOrdered(ctx context.Context, tx *gorm.DB, parentID uuid.UUID, parentType types.NodeKind) ([]*types.ChatMessage, error)
  CountByParent(ctx context.Context, tx *gorm.DB, parentID uuid.UUID, parentType types.NodeKind) (int64, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ChatMessage, error)
  MarkSaved(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type chatMessageRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewChatMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChatMessageRepo {
  repoLog := baseLog.With("repo", "ChatMessageRepo")
  return &chatMessageRepo{db: db, log: repoLog}
}

const appendSeqRetries = 3

// Append inserts a turn with the next seq for its parent, computed inside the
// insert itself so no seq is ever precomputed by a caller. Concurrent writers
// that race to the same seq hit the (parent_id, parent_type, seq) unique
// index and the insert is retried.
func (r *chatMessageRepo) Append(ctx context.Context, tx *gorm.DB, parentID uuid.UUID, parentType types.NodeKind, role, content string, extractable bool) (*types.ChatMessage, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if parentID == uuid.Nil {
    return nil, fmt.Errorf("append requires a parent id")
  }

  var lastErr error
  for attempt := 0; attempt < appendSeqRetries; attempt++ {
    id := uuid.New()
    now := time.Now().UTC()
    err := transaction.WithContext(ctx).Exec(
      `INSERT INTO chat_message (id, parent_id, parent_type, role, content, extractable, saved, seq, created_at, updated_at)
       SELECT ?, ?, ?, ?, ?, ?, ?, COALESCE(MAX(seq), 0) + 1, ?, ?
       FROM chat_message WHERE parent_id = ? AND parent_type = ?`,
      id, parentID, parentType, role, content, extractable, false, now, now,
      parentID, parentType,
    ).Error
    if err == nil {
      return r.GetByID(ctx, transaction, id)
    }
    if !isUniqueViolation(err) {
      return nil, err
    }
    lastErr = err
  }
  return nil, fmt.Errorf("failed to assign message seq after %d attempts: %w", appendSeqRetries, lastErr)
}

func isUniqueViolation(err error) bool {
  if err == nil {
    return false
  }
  if errors.Is(err, gorm.ErrDuplicatedKey) {
    return true
  }
  msg := err.Error()
  return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

func (r *chatMessageRepo) ListOrdered(ctx context.Context, tx *gorm.DB, parentID uuid.UUID, parentType types.NodeKind) ([]*types.ChatMessage, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ChatMessage
  if parentID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("parent_id = ? AND parent_type = ?", parentID, parentType).
    Order("seq ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *chatMessageRepo) CountByParent(ctx context.Context, tx *gorm.DB, parentID uuid.UUID, parentType types.NodeKind) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.ChatMessage{}).
    Where("parent_id = ? AND parent_type = ?", parentID, parentType).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}

func (r *chatMessageRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ChatMessage, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil {
    return nil, nil
  }

  var result types.ChatMessage
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&result).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (r *chatMessageRepo) MarkSaved(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Model(&types.ChatMessage{}).
    Where("id = ?", id).
    Update("saved", true).Error; err != nil {
    return err
  }
  return nil
}
