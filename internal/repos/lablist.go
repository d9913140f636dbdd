package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/strideworks/stride-backend/internal/logger"
  "github.com/strideworks/stride-backend/internal/types"
)

type LabListRepo interface {
  Create(ctx context.Context, tx *gorm.DB, lists []*types.LabList) ([]*types.LabList, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.LabList, error)
  ListByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.LabList, error)
  Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type labListRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewLabListRepo(db *gorm.DB, baseLog *logger.Logger) LabListRepo {
  repoLog := baseLog.With("repo", "LabListRepo")
  return &labListRepo{db: db, log: repoLog}
}

func (r *labListRepo) Create(ctx context.Context, tx *gorm.DB, lists []*types.LabList) ([]*types.LabList, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(lists) == 0 {
    return []*types.LabList{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&lists).Error; err != nil {
    return nil, err
  }
  return lists, nil
}

func (r *labListRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.LabList, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil {
    return nil, nil
  }

  var result types.LabList
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

func (r *labListRepo) ListByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.LabList, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.LabList
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

func (r *labListRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    Delete(&types.LabList{}).Error; err != nil {
    return err
  }
  return nil
}
