package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/strideworks/stride-backend/internal/services"
)

type WorkspaceHandler struct {
  workspaceService services.WorkspaceService
}

func NewWorkspaceHandler(workspaceService services.WorkspaceService) *WorkspaceHandler {
  return &WorkspaceHandler{workspaceService: workspaceService}
}

func (h *WorkspaceHandler) CreateProject(c *gin.Context) {
  var body struct {
    Name        string `json:"name" binding:"required"`
    Description string `json:"description"`
  }
  if err := c.ShouldBindJSON(&body); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
    return
  }
  project, err := h.workspaceService.CreateProject(c.Request.Context(), body.Name, body.Description)
  if err != nil {
    respondErr(c, err)
    return
  }
  c.JSON(http.StatusCreated, gin.H{"project": project})
}

func (h *WorkspaceHandler) ListProjects(c *gin.Context) {
  projects, err := h.workspaceService.ListProjects(c.Request.Context())
  if err != nil {
    respondErr(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *WorkspaceHandler) GetProject(c *gin.Context) {
  id, ok := parseID(c)
  if !ok {
    return
  }
  project, err := h.workspaceService.GetProject(c.Request.Context(), id)
  if err != nil {
    respondErr(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"project": project})
}

func (h *WorkspaceHandler) DeleteProject(c *gin.Context) {
  id, ok := parseID(c)
  if !ok {
    return
  }
  if err := h.workspaceService.DeleteProject(c.Request.Context(), id); err != nil {
    respondErr(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *WorkspaceHandler) CreateGoalList(c *gin.Context) {
  id, ok := parseID(c)
  if !ok {
    return
  }
  var body struct {
    Title string `json:"title" binding:"required"`
  }
  if err := c.ShouldBindJSON(&body); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
    return
  }
  list, err := h.workspaceService.CreateGoalList(c.Request.Context(), id, body.Title)
  if err != nil {
    respondErr(c, err)
    return
  }
  c.JSON(http.StatusCreated, gin.H{"goal_list": list})
}

func (h *WorkspaceHandler) ListGoalLists(c *gin.Context) {
  id, ok := parseID(c)
  if !ok {
    return
  }
  lists, err := h.workspaceService.ListGoalLists(c.Request.Context(), id)
  if err != nil {
    respondErr(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"goal_lists": lists})
}

func (h *WorkspaceHandler) CreateLabList(c *gin.Context) {
  id, ok := parseID(c)
  if !ok {
    return
  }
  var body struct {
    Title string `json:"title" binding:"required"`
  }
  if err := c.ShouldBindJSON(&body); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
    return
  }
  list, err := h.workspaceService.CreateLabList(c.Request.Context(), id, body.Title)
  if err != nil {
    respondErr(c, err)
    return
  }
  c.JSON(http.StatusCreated, gin.H{"lab_list": list})
}

func (h *WorkspaceHandler) ListLabLists(c *gin.Context) {
  id, ok := parseID(c)
  if !ok {
    return
  }
  lists, err := h.workspaceService.ListLabLists(c.Request.Context(), id)
  if err != nil {
    respondErr(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"lab_lists": lists})
}

func (h *WorkspaceHandler) CreateDeliverable(c *gin.Context) {
  id, ok := parseID(c)
  if !ok {
    return
  }
  var body struct {
    Title string `json:"title" binding:"required"`
  }
  if err := c.ShouldBindJSON(&body); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
    return
  }
  deliverable, err := h.workspaceService.CreateDeliverable(c.Request.Context(), id, body.Title)
  if err != nil {
    respondErr(c, err)
    return
  }
  c.JSON(http.StatusCreated, gin.H{"deliverable": deliverable})
}

func (h *WorkspaceHandler) ListDeliverables(c *gin.Context) {
  id, ok := parseID(c)
  if !ok {
    return
  }
  deliverables, err := h.workspaceService.ListDeliverables(c.Request.Context(), id)
  if err != nil {
    respondErr(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"deliverables": deliverables})
}

func (h *WorkspaceHandler) UpdateDeliverableStatus(c *gin.Context) {
  id, ok := parseID(c)
  if !ok {
    return
  }
  var body struct {
    Status string `json:"status" binding:"required"`
  }
  if err := c.ShouldBindJSON(&body); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
    return
  }
  if err := h.workspaceService.UpdateDeliverableStatus(c.Request.Context(), id, body.Status); err != nil {
    respondErr(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"updated": true})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
    return uuid.Nil, false
  }
  return id, true
}
