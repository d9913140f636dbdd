package types

import (
	"time"

	"github.com/google/uuid"
)

// CoreQuery is the administrator-controlled directive prepended to model
// context for every thread hosted on a given node kind. At most one exists
// per location.
type CoreQuery struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Location  NodeKind  `gorm:"column:location;uniqueIndex;not null" json:"location"`
	Query     string    `gorm:"column:query;type:text;not null" json:"query"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (CoreQuery) TableName() string { return "core_query" }
