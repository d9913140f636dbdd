package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one turn of a node's conversation. Seq is assigned at insert
// time and totally orders the turns of a (parent_id, parent_type) pair; it is
// never mutated afterwards.
type ChatMessage struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ParentID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_chat_parent;uniqueIndex:uq_chat_parent_seq,priority:1" json:"parent_id"`
	ParentType  NodeKind       `gorm:"column:parent_type;not null;index:idx_chat_parent;uniqueIndex:uq_chat_parent_seq,priority:2" json:"parent_type"`
	Role        string         `gorm:"column:role;not null" json:"role"`
	Content     string         `gorm:"column:content;type:text;not null" json:"content"`
	Extractable bool           `gorm:"column:extractable;not null;default:false" json:"extractable"`
	Saved       bool           `gorm:"column:saved;not null;default:false" json:"saved"`
	Seq         int64          `gorm:"column:seq;not null;uniqueIndex:uq_chat_parent_seq,priority:3" json:"seq"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ChatMessage) TableName() string { return "chat_message" }
