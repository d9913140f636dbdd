package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/strideworks/stride-backend/internal/services"
)

type CoreQueryHandler struct {
  coreQueryService services.CoreQueryService
}

func NewCoreQueryHandler(coreQueryService services.CoreQueryService) *CoreQueryHandler {
  return &CoreQueryHandler{coreQueryService: coreQueryService}
}

func (h *CoreQueryHandler) List(c *gin.Context) {
  queries, err := h.coreQueryService.List(c.Request.Context())
  if err != nil {
    respondErr(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"core_queries": queries})
}

func (h *CoreQueryHandler) Upsert(c *gin.Context) {
  var body struct {
    Query string `json:"query" binding:"required"`
  }
  if err := c.ShouldBindJSON(&body); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
    return
  }
  query, err := h.coreQueryService.Upsert(c.Request.Context(), c.Param("location"), body.Query)
  if err != nil {
    respondErr(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"core_query": query})
}
