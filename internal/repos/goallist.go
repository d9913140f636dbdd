package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/strideworks/stride-backend/internal/logger"
  "github.com/strideworks/stride-backend/internal/types"
)

type GoalListRepo interface {
  Create(ctx context.Context, tx *gorm.DB, lists []*types.GoalList) ([]*types.GoalList, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.GoalList, error)
  ListByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.GoalList, error)
  Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type goalListRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewGoalListRepo(db *gorm.DB, baseLog *logger.Logger) GoalListRepo {
  repoLog := baseLog.With("repo", "GoalListRepo")
  return &goalListRepo{db: db, log: repoLog}
}

func (r *goalListRepo) Create(ctx context.Context, tx *gorm.DB, lists []*types.GoalList) ([]*types.GoalList, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(lists) == 0 {
    return []*types.GoalList{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&lists).Error; err != nil {
    return nil, err
  }
  return lists, nil
}

func (r *goalListRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.GoalList, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil {
    return nil, nil
  }

  var result types.GoalList
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

func (r *goalListRepo) ListByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.GoalList, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.GoalList
  if projectID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("project_id = ?", projectID).
    Order("position ASC, created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *goalListRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    Delete(&types.GoalList{}).Error; err != nil {
    return err
  }
  return nil
}
