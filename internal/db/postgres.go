package db

import (
  "fmt"
  "gorm.io/driver/postgres"
  "gorm.io/gorm"
  "github.com/strideworks/stride-backend/internal/types"
  "github.com/strideworks/stride-backend/internal/utils"
  "github.com/strideworks/stride-backend/internal/logger"
)

type PostgresService struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
  serviceLog := log.With("service", "PostgresService")

  postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
  postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
  postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
  postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
  postgresName := utils.GetEnv("POSTGRES_NAME", "stride", log)

  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

  log.Info("Connecting to Postgres...")
  gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
  })
  if err != nil {
    serviceLog.Error("Failed to connect to Postgres", "error", err)
    return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
  }

  if err := gormDB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
    serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
    return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
  }

  return &PostgresService{db: gormDB, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
  s.log.Info("Auto migrating postgres tables...")
  err := s.db.AutoMigrate(
    &types.User{},
    &types.Project{},
    &types.GoalList{},
    &types.LabList{},
    &types.Deliverable{},
    &types.ChatMessage{},
    &types.CoreQuery{},
  )
  if err != nil {
    s.log.Error("Auto migration failed for postgres tables", "error", err)
    return err
  }
  s.log.Info("Configuring foreign key relationships for postgres tables...")
  stmts := []string{
    `ALTER TABLE "goal_list" DROP CONSTRAINT IF EXISTS "fk_goal_list_project_id";`,
    `ALTER TABLE "goal_list" ADD CONSTRAINT "fk_goal_list_project_id" FOREIGN KEY ("project_id") REFERENCES "project"("id") ON DELETE CASCADE;`,
    `ALTER TABLE "lab_list" DROP CONSTRAINT IF EXISTS "fk_lab_list_project_id";`,
    `ALTER TABLE "lab_list" ADD CONSTRAINT "fk_lab_list_project_id" FOREIGN KEY ("project_id") REFERENCES "project"("id") ON DELETE CASCADE;`,
    `ALTER TABLE "deliverable" DROP CONSTRAINT IF EXISTS "fk_deliverable_project_id";`,
    `ALTER TABLE "deliverable" ADD CONSTRAINT "fk_deliverable_project_id" FOREIGN KEY ("project_id") REFERENCES "project"("id") ON DELETE CASCADE;`,
  }
  for _, stmt := range stmts {
    if err := s.db.Exec(stmt).Error; err != nil {
      return fmt.Errorf("failed to configure foreign keys: %w", err)
    }
  }
  return nil
}

func (s *PostgresService) DB() *gorm.DB {
  return s.db
}
