package main

import (
  "context"
  "fmt"
  "os"
  "github.com/strideworks/stride-backend/internal/db"
  "github.com/strideworks/stride-backend/internal/handlers"
  "github.com/strideworks/stride-backend/internal/llm"
  "github.com/strideworks/stride-backend/internal/logger"
  "github.com/strideworks/stride-backend/internal/middleware"
  "github.com/strideworks/stride-backend/internal/realtime"
  "github.com/strideworks/stride-backend/internal/realtime/bus"
  "github.com/strideworks/stride-backend/internal/repos"
  "github.com/strideworks/stride-backend/internal/server"
  "github.com/strideworks/stride-backend/internal/services"
  "github.com/strideworks/stride-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  llmBackend := utils.GetEnv("LLM_BACKEND", "openai", log)

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  projectRepo := repos.NewProjectRepo(thePG, log)
  goalListRepo := repos.NewGoalListRepo(thePG, log)
  labListRepo := repos.NewLabListRepo(thePG, log)
  deliverableRepo := repos.NewDeliverableRepo(thePG, log)
  chatMessageRepo := repos.NewChatMessageRepo(thePG, log)
  coreQueryRepo := repos.NewCoreQueryRepo(thePG, log)

  // Chat event bus (optional; no-op without REDIS_ADDR)
  var eventBus bus.Bus
  if os.Getenv("REDIS_ADDR") != "" {
    eventBus, err = bus.NewRedisBus(log)
    if err != nil {
      log.Error("Could not init redis chat bus", "error", err)
      os.Exit(1)
    }
  } else {
    log.Info("REDIS_ADDR not set; chat events are not published")
    eventBus = bus.NewNopBus()
  }
  defer eventBus.Close()

  // Provider backend: selected once at startup, reused by every request.
  log.Info("Selecting LLM backend...", "backend", llmBackend)
  provider, err := llm.Select(llmBackend, log)
  if err != nil {
    log.Error("Could not init LLM backend", "error", err)
    os.Exit(1)
  }

  // Services
  log.Info("Setting up Services from main...")
  ownershipService := services.NewOwnershipService(thePG, log, projectRepo, goalListRepo, labListRepo, deliverableRepo)
  chatContextService := services.NewChatContextService(thePG, log, coreQueryRepo, chatMessageRepo)
  chatStreamService := services.NewChatStreamService(thePG, log, ownershipService, chatContextService, chatMessageRepo, provider, eventBus)
  chatMessageService := services.NewChatMessageService(thePG, log, ownershipService, chatMessageRepo)
  workspaceService := services.NewWorkspaceService(thePG, log, ownershipService, projectRepo, goalListRepo, labListRepo, deliverableRepo)
  coreQueryService := services.NewCoreQueryService(thePG, log, coreQueryRepo)

  // Handlers
  log.Info("Setting up handlers from main...")
  chatHandler := handlers.NewChatHandler(log, chatStreamService, chatMessageService)
  workspaceHandler := handlers.NewWorkspaceHandler(workspaceService)
  coreQueryHandler := handlers.NewCoreQueryHandler(coreQueryService)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

  // Forward chat events from peer instances into the log; the stream
  // response itself is a direct per-request push.
  if err := eventBus.StartForwarder(context.Background(), func(m realtime.Event) {
    log.Debug("Chat event received", "type", m.Type, "parent_id", m.ParentID)
  }); err != nil {
    log.Warn("Chat event forwarder failed to start", "error", err)
  }

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AuthMiddleware:   authMiddleware,
    ChatHandler:      chatHandler,
    WorkspaceHandler: workspaceHandler,
    CoreQueryHandler: coreQueryHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }
}
