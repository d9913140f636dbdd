package repos

import (
  "context"
  "errors"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/strideworks/stride-backend/internal/logger"
  "github.com/strideworks/stride-backend/internal/types"
)

type CoreQueryRepo interface {
  GetByLocation(ctx context.Context, tx *gorm.DB, location types.NodeKind) (*types.CoreQuery, error)
  ListAll(ctx context.Context, tx *gorm.DB) ([]*types.CoreQuery, error)
  Upsert(ctx context.Context, tx *gorm.DB, location types.NodeKind, query string) (*types.CoreQuery, error)
}

type coreQueryRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewCoreQueryRepo(db *gorm.DB, baseLog *logger.Logger) CoreQueryRepo {
  repoLog := baseLog.With("repo", "CoreQueryRepo")
  return &coreQueryRepo{db: db, log: repoLog}
}

// GetByLocation returns (nil, nil) when no directive is stored for the
// location; the assembler omits it rather than substituting a default.
func (r *coreQueryRepo) GetByLocation(ctx context.Context, tx *gorm.DB, location types.NodeKind) (*types.CoreQuery, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.CoreQuery
  if err := transaction.WithContext(ctx).
    Where("location = ?", location).
    First(&result).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (r *coreQueryRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.CoreQuery, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.CoreQuery
  if err := transaction.WithContext(ctx).
    Order("location ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *coreQueryRepo) Upsert(ctx context.Context, tx *gorm.DB, location types.NodeKind, query string) (*types.CoreQuery, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  record := &types.CoreQuery{
    ID:       uuid.New(),
    Location: location,
    Query:    query,
  }
  if err := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:   []clause.Column{{Name: "location"}},
      DoUpdates: clause.Assignments(map[string]interface{}{"query": query, "updated_at": time.Now().UTC()}),
    }).
    Create(record).Error; err != nil {
    return nil, err
  }
  return r.GetByLocation(ctx, transaction, location)
}
