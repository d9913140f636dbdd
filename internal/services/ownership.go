package services

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/strideworks/stride-backend/internal/logger"
  "github.com/strideworks/stride-backend/internal/repos"
  "github.com/strideworks/stride-backend/internal/requestdata"
  "github.com/strideworks/stride-backend/internal/types"
)

// ErrNodeNotFound covers every resolution failure: unknown kind, missing
// record, and foreign-tenant access all look the same to the caller, so a
// probe cannot learn whether a node exists.
var ErrNodeNotFound = errors.New("node not found")

type OwnershipService interface {
  ResolveProject(ctx context.Context, tx *gorm.DB, nodeID uuid.UUID, kind types.NodeKind) (uuid.UUID, error)
  AuthorizeNode(ctx context.Context, tx *gorm.DB, nodeID uuid.UUID, kind types.NodeKind) (uuid.UUID, error)
  AuthorizeProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (*types.Project, error)
}

type ownershipService struct {
  db              *gorm.DB
  log             *logger.Logger
  projectRepo     repos.ProjectRepo
  goalListRepo    repos.GoalListRepo
  labListRepo     repos.LabListRepo
  deliverableRepo repos.DeliverableRepo
}

func NewOwnershipService(
  db *gorm.DB,
  log *logger.Logger,
  projectRepo repos.ProjectRepo,
  goalListRepo repos.GoalListRepo,
  labListRepo repos.LabListRepo,
  deliverableRepo repos.DeliverableRepo,
) OwnershipService {
  serviceLog := log.With("service", "OwnershipService")
  return &ownershipService{
    db:              db,
    log:             serviceLog,
    projectRepo:     projectRepo,
    goalListRepo:    goalListRepo,
    labListRepo:     labListRepo,
    deliverableRepo: deliverableRepo,
  }
}

// ResolveProject walks the one-level hierarchy from a node to its owning
// project. Page kinds carry the project id directly; bucket kinds take one
// foreign-key hop. The switch is exhaustive over the NodeKind enum and fails
// closed for anything else.
func (s *ownershipService) ResolveProject(ctx context.Context, tx *gorm.DB, nodeID uuid.UUID, kind types.NodeKind) (uuid.UUID, error) {
  if nodeID == uuid.Nil {
    return uuid.Nil, ErrNodeNotFound
  }
  switch kind {
  case types.NodeProjectPage, types.NodeGoalPage, types.NodeLabPage:
    project, err := s.projectRepo.GetByID(ctx, tx, nodeID)
    if err != nil {
      return uuid.Nil, err
    }
    if project == nil {
      return uuid.Nil, ErrNodeNotFound
    }
    return project.ID, nil
  case types.NodeGoalBucket:
    list, err := s.goalListRepo.GetByID(ctx, tx, nodeID)
    if err != nil {
      return uuid.Nil, err
    }
    if list == nil {
      return uuid.Nil, ErrNodeNotFound
    }
    return list.ProjectID, nil
  case types.NodeLabBucket:
    list, err := s.labListRepo.GetByID(ctx, tx, nodeID)
    if err != nil {
      return uuid.Nil, err
    }
    if list == nil {
      return uuid.Nil, ErrNodeNotFound
    }
    return list.ProjectID, nil
  case types.NodeDeliverable:
    deliverable, err := s.deliverableRepo.GetByID(ctx, tx, nodeID)
    if err != nil {
      return uuid.Nil, err
    }
    if deliverable == nil {
      return uuid.Nil, ErrNodeNotFound
    }
    return deliverable.ProjectID, nil
  default:
    return uuid.Nil, ErrNodeNotFound
  }
}

// AuthorizeNode resolves the node's project and checks it against the
// caller's principal. Runs before every turn read or write.
func (s *ownershipService) AuthorizeNode(ctx context.Context, tx *gorm.DB, nodeID uuid.UUID, kind types.NodeKind) (uuid.UUID, error) {
  projectID, err := s.ResolveProject(ctx, tx, nodeID, kind)
  if err != nil {
    return uuid.Nil, err
  }
  if _, err := s.AuthorizeProject(ctx, tx, projectID); err != nil {
    return uuid.Nil, err
  }
  return projectID, nil
}

// AuthorizeProject allows the project's owner, or anyone when the project is
// unowned (anonymous/demo use).
func (s *ownershipService) AuthorizeProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (*types.Project, error) {
  project, err := s.projectRepo.GetByID(ctx, tx, projectID)
  if err != nil {
    return nil, err
  }
  if project == nil {
    return nil, ErrNodeNotFound
  }
  if project.OwnerUserID == nil {
    return project, nil
  }
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil || rd.UserID != *project.OwnerUserID {
    return nil, ErrNodeNotFound
  }
  return project, nil
}
