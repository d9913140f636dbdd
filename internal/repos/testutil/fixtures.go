package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/strideworks/stride-backend/internal/types"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:    uuid.New(),
		Email: email,
		Name:  "Test User",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedProject(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerUserID *uuid.UUID, name string) *types.Project {
	tb.Helper()
	p := &types.Project{
		ID:          uuid.New(),
		OwnerUserID: ownerUserID,
		Name:        name,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed project: %v", err)
	}
	return p
}

func SeedGoalList(tb testing.TB, ctx context.Context, tx *gorm.DB, projectID uuid.UUID, title string) *types.GoalList {
	tb.Helper()
	gl := &types.GoalList{
		ID:        uuid.New(),
		ProjectID: projectID,
		Title:     title,
	}
	if err := tx.WithContext(ctx).Create(gl).Error; err != nil {
		tb.Fatalf("seed goal list: %v", err)
	}
	return gl
}

func SeedLabList(tb testing.TB, ctx context.Context, tx *gorm.DB, projectID uuid.UUID, title string) *types.LabList {
	tb.Helper()
	ll := &types.LabList{
		ID:        uuid.New(),
		ProjectID: projectID,
		Title:     title,
	}
	if err := tx.WithContext(ctx).Create(ll).Error; err != nil {
		tb.Fatalf("seed lab list: %v", err)
	}
	return ll
}

func SeedDeliverable(tb testing.TB, ctx context.Context, tx *gorm.DB, projectID uuid.UUID, title string) *types.Deliverable {
	tb.Helper()
	d := &types.Deliverable{
		ID:        uuid.New(),
		ProjectID: projectID,
		Title:     title,
		Status:    "open",
	}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed deliverable: %v", err)
	}
	return d
}
