package server

import (
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "github.com/strideworks/stride-backend/internal/handlers"
  "github.com/strideworks/stride-backend/internal/middleware"
)

type RouterConfig struct {
  AuthMiddleware   *middleware.AuthMiddleware
  ChatHandler      *handlers.ChatHandler
  WorkspaceHandler *handlers.WorkspaceHandler
  CoreQueryHandler *handlers.CoreQueryHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5173",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  router.GET("/healthcheck", handlers.HealthCheck)

  // Principal resolution runs on every API route; anonymous callers pass
  // through and are limited to unowned projects by the ownership checks.
  api := router.Group("/api")
  api.Use(cfg.AuthMiddleware.Attach())
  {
    // Chat
    api.POST("/chat/stream", cfg.ChatHandler.Stream)
    api.GET("/chat/messages", cfg.ChatHandler.ListMessages)
    api.POST("/chat/messages/:id/saved", cfg.ChatHandler.MarkSaved)
    // Workspace
    api.POST("/projects", cfg.WorkspaceHandler.CreateProject)
    api.GET("/projects", cfg.WorkspaceHandler.ListProjects)
    api.GET("/projects/:id", cfg.WorkspaceHandler.GetProject)
    api.DELETE("/projects/:id", cfg.WorkspaceHandler.DeleteProject)
    api.POST("/projects/:id/goal-lists", cfg.WorkspaceHandler.CreateGoalList)
    api.GET("/projects/:id/goal-lists", cfg.WorkspaceHandler.ListGoalLists)
    api.POST("/projects/:id/lab-lists", cfg.WorkspaceHandler.CreateLabList)
    api.GET("/projects/:id/lab-lists", cfg.WorkspaceHandler.ListLabLists)
    api.POST("/projects/:id/deliverables", cfg.WorkspaceHandler.CreateDeliverable)
    api.GET("/projects/:id/deliverables", cfg.WorkspaceHandler.ListDeliverables)
    api.PATCH("/deliverables/:id/status", cfg.WorkspaceHandler.UpdateDeliverableStatus)
    // Core queries (admin gated in the service)
    admin := api.Group("/")
    admin.Use(cfg.AuthMiddleware.RequireAuth())
    admin.GET("/core-queries", cfg.CoreQueryHandler.List)
    admin.PUT("/core-queries/:location", cfg.CoreQueryHandler.Upsert)
  }

  return router
}
