package services

import (
  "context"
  "fmt"
  "gorm.io/gorm"
  "github.com/strideworks/stride-backend/internal/apierr"
  "github.com/strideworks/stride-backend/internal/logger"
  "github.com/strideworks/stride-backend/internal/repos"
  "github.com/strideworks/stride-backend/internal/requestdata"
  "github.com/strideworks/stride-backend/internal/types"
)

type CoreQueryService interface {
  List(ctx context.Context) ([]*types.CoreQuery, error)
  Upsert(ctx context.Context, location string, query string) (*types.CoreQuery, error)
}

type coreQueryService struct {
  db            *gorm.DB
  log           *logger.Logger
  coreQueryRepo repos.CoreQueryRepo
}

func NewCoreQueryService(db *gorm.DB, log *logger.Logger, coreQueryRepo repos.CoreQueryRepo) CoreQueryService {
  serviceLog := log.With("service", "CoreQueryService")
  return &coreQueryService{db: db, log: serviceLog, coreQueryRepo: coreQueryRepo}
}

func (s *coreQueryService) List(ctx context.Context) ([]*types.CoreQuery, error) {
  if err := requireAdmin(ctx); err != nil {
    return nil, err
  }
  return s.coreQueryRepo.ListAll(ctx, nil)
}

// Upsert writes the directive for a node kind; the write path is limited to
// administrative principals.
func (s *coreQueryService) Upsert(ctx context.Context, location string, query string) (*types.CoreQuery, error) {
  if err := requireAdmin(ctx); err != nil {
    return nil, err
  }
  kind, ok := types.ParseNodeKind(location)
  if !ok {
    return nil, apierr.BadRequest("invalid_location", fmt.Errorf("unknown location %q", location))
  }
  if query == "" {
    return nil, apierr.BadRequest("invalid_request", fmt.Errorf("query text is required"))
  }
  return s.coreQueryRepo.Upsert(ctx, nil, kind, query)
}

func requireAdmin(ctx context.Context) error {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || !rd.IsAdmin {
    return apierr.Forbidden("forbidden", fmt.Errorf("administrator access required"))
  }
  return nil
}
