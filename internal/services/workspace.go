package services

import (
  "context"
  "errors"
  "fmt"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/strideworks/stride-backend/internal/apierr"
  "github.com/strideworks/stride-backend/internal/logger"
  "github.com/strideworks/stride-backend/internal/repos"
  "github.com/strideworks/stride-backend/internal/requestdata"
  "github.com/strideworks/stride-backend/internal/types"
)

// WorkspaceService is the thin CRUD surface around the content hierarchy.
// Every read or write below a project goes through the ownership check.
type WorkspaceService interface {
  CreateProject(ctx context.Context, name, description string) (*types.Project, error)
  ListProjects(ctx context.Context) ([]*types.Project, error)
  GetProject(ctx context.Context, id uuid.UUID) (*types.Project, error)
  DeleteProject(ctx context.Context, id uuid.UUID) error

  CreateGoalList(ctx context.Context, projectID uuid.UUID, title string) (*types.GoalList, error)
  ListGoalLists(ctx context.Context, projectID uuid.UUID) ([]*types.GoalList, error)
  CreateLabList(ctx context.Context, projectID uuid.UUID, title string) (*types.LabList, error)
  ListLabLists(ctx context.Context, projectID uuid.UUID) ([]*types.LabList, error)
  CreateDeliverable(ctx context.Context, projectID uuid.UUID, title string) (*types.Deliverable, error)
  ListDeliverables(ctx context.Context, projectID uuid.UUID) ([]*types.Deliverable, error)
  UpdateDeliverableStatus(ctx context.Context, id uuid.UUID, status string) error
}

type workspaceService struct {
  db              *gorm.DB
  log             *logger.Logger
  ownership       OwnershipService
  projectRepo     repos.ProjectRepo
  goalListRepo    repos.GoalListRepo
  labListRepo     repos.LabListRepo
  deliverableRepo repos.DeliverableRepo
}

func NewWorkspaceService(
  db *gorm.DB,
  log *logger.Logger,
  ownership OwnershipService,
  projectRepo repos.ProjectRepo,
  goalListRepo repos.GoalListRepo,
  labListRepo repos.LabListRepo,
  deliverableRepo repos.DeliverableRepo,
) WorkspaceService {
  serviceLog := log.With("service", "WorkspaceService")
  return &workspaceService{
    db:              db,
    log:             serviceLog,
    ownership:       ownership,
    projectRepo:     projectRepo,
    goalListRepo:    goalListRepo,
    labListRepo:     labListRepo,
    deliverableRepo: deliverableRepo,
  }
}

func (s *workspaceService) CreateProject(ctx context.Context, name, description string) (*types.Project, error) {
  if name == "" {
    return nil, apierr.BadRequest("invalid_request", fmt.Errorf("project name is required"))
  }
  project := &types.Project{
    ID:          uuid.New(),
    Name:        name,
    Description: description,
  }
  if rd := requestdata.GetRequestData(ctx); rd != nil && rd.UserID != uuid.Nil {
    ownerID := rd.UserID
    project.OwnerUserID = &ownerID
  }
  created, err := s.projectRepo.Create(ctx, nil, []*types.Project{project})
  if err != nil {
    return nil, err
  }
  return created[0], nil
}

func (s *workspaceService) ListProjects(ctx context.Context) ([]*types.Project, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    return s.projectRepo.ListByOwner(ctx, nil, uuid.Nil)
  }
  return s.projectRepo.ListByOwner(ctx, nil, rd.UserID)
}

func (s *workspaceService) GetProject(ctx context.Context, id uuid.UUID) (*types.Project, error) {
  project, err := s.ownership.AuthorizeProject(ctx, nil, id)
  if err != nil {
    return nil, mapOwnershipErr(err)
  }
  return project, nil
}

func (s *workspaceService) DeleteProject(ctx context.Context, id uuid.UUID) error {
  if _, err := s.ownership.AuthorizeProject(ctx, nil, id); err != nil {
    return mapOwnershipErr(err)
  }
  return s.projectRepo.Delete(ctx, nil, id)
}

func (s *workspaceService) CreateGoalList(ctx context.Context, projectID uuid.UUID, title string) (*types.GoalList, error) {
  if title == "" {
    return nil, apierr.BadRequest("invalid_request", fmt.Errorf("goal list title is required"))
  }
  if _, err := s.ownership.AuthorizeProject(ctx, nil, projectID); err != nil {
    return nil, mapOwnershipErr(err)
  }
  list := &types.GoalList{ID: uuid.New(), ProjectID: projectID, Title: title}
  created, err := s.goalListRepo.Create(ctx, nil, []*types.GoalList{list})
  if err != nil {
    return nil, err
  }
  return created[0], nil
}

func (s *workspaceService) ListGoalLists(ctx context.Context, projectID uuid.UUID) ([]*types.GoalList, error) {
  if _, err := s.ownership.AuthorizeProject(ctx, nil, projectID); err != nil {
    return nil, mapOwnershipErr(err)
  }
  return s.goalListRepo.ListByProject(ctx, nil, projectID)
}

func (s *workspaceService) CreateLabList(ctx context.Context, projectID uuid.UUID, title string) (*types.LabList, error) {
  if title == "" {
    return nil, apierr.BadRequest("invalid_request", fmt.Errorf("lab list title is required"))
  }
  if _, err := s.ownership.AuthorizeProject(ctx, nil, projectID); err != nil {
    return nil, mapOwnershipErr(err)
  }
  list := &types.LabList{ID: uuid.New(), ProjectID: projectID, Title: title}
  created, err := s.labListRepo.Create(ctx, nil, []*types.LabList{list})
  if err != nil {
    return nil, err
  }
  return created[0], nil
}

func (s *workspaceService) ListLabLists(ctx context.Context, projectID uuid.UUID) ([]*types.LabList, error) {
  if _, err := s.ownership.AuthorizeProject(ctx, nil, projectID); err != nil {
    return nil, mapOwnershipErr(err)
  }
  return s.labListRepo.ListByProject(ctx, nil, projectID)
}

func (s *workspaceService) CreateDeliverable(ctx context.Context, projectID uuid.UUID, title string) (*types.Deliverable, error) {
  if title == "" {
    return nil, apierr.BadRequest("invalid_request", fmt.Errorf("deliverable title is required"))
  }
  if _, err := s.ownership.AuthorizeProject(ctx, nil, projectID); err != nil {
    return nil, mapOwnershipErr(err)
  }
  deliverable := &types.Deliverable{ID: uuid.New(), ProjectID: projectID, Title: title, Status: "open"}
  created, err := s.deliverableRepo.Create(ctx, nil, []*types.Deliverable{deliverable})
  if err != nil {
    return nil, err
  }
  return created[0], nil
}

func (s *workspaceService) ListDeliverables(ctx context.Context, projectID uuid.UUID) ([]*types.Deliverable, error) {
  if _, err := s.ownership.AuthorizeProject(ctx, nil, projectID); err != nil {
    return nil, mapOwnershipErr(err)
  }
  return s.deliverableRepo.ListByProject(ctx, nil, projectID)
}

func (s *workspaceService) UpdateDeliverableStatus(ctx context.Context, id uuid.UUID, status string) error {
  if _, err := s.ownership.AuthorizeNode(ctx, nil, id, types.NodeDeliverable); err != nil {
    return mapOwnershipErr(err)
  }
  return s.deliverableRepo.UpdateStatus(ctx, nil, id, status)
}

func mapOwnershipErr(err error) error {
  if errors.Is(err, ErrNodeNotFound) {
    return apierr.NotFound("not_found", err)
  }
  return err
}
