package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/strideworks/stride-backend/internal/logger"
  "github.com/strideworks/stride-backend/internal/types"
)

type DeliverableRepo interface {
  Create(ctx context.Context, tx *gorm.DB, deliverables []*types.Deliverable) ([]*types.Deliverable, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Deliverable, error)
  ListByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.Deliverable, error)
  UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error
  Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type deliverableRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewDeliverableRepo(db *gorm.DB, baseLog *logger.Logger) DeliverableRepo {
  repoLog := baseLog.With("repo", "DeliverableRepo")
  return &deliverableRepo{db: db, log: repoLog}
}

func (r *deliverableRepo) Create(ctx context.Context, tx *gorm.DB, deliverables []*types.Deliverable) ([]*types.Deliverable, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(deliverables) == 0 {
    return []*types.Deliverable{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&deliverables).Error; err != nil {
    return nil, err
  }
  return deliverables, nil
}

func (r *deliverableRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Deliverable, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil {
    return nil, nil
  }

  var result types.Deliverable
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

func (r *deliverableRepo) ListByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.Deliverable, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Deliverable
  if projectID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("project_id = ?", projectID).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *deliverableRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Model(&types.Deliverable{}).
    Where("id = ?", id).
    Update("status", status).Error; err != nil {
    return err
  }
  return nil
}

func (r *deliverableRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    Delete(&types.Deliverable{}).Error; err != nil {
    return err
  }
  return nil
}
