package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationType is the per-kind registry: each event kind can be
// switched off without redeploying.
type NotificationType struct {
	Code            string    `gorm:"type:varchar(50);primaryKey" json:"code"`
	SubjectTemplate string    `gorm:"type:varchar(200);not null" json:"subject_template"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (NotificationType) TableName() string {
	return "notification_types"
}

// Notification stores the dispatch history of domain events.
type Notification struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Kind         string         `gorm:"type:varchar(50);not null;index:idx_notifications_kind" json:"kind"`
	ClientName   string         `gorm:"type:varchar(255);not null;index:idx_notifications_client" json:"client_name"`
	PositionName string         `gorm:"type:varchar(255)" json:"position_name,omitempty"`
	Filename     string         `gorm:"type:varchar(255)" json:"filename,omitempty"`
	Content      string         `gorm:"type:text" json:"content,omitempty"`
	ActorName    string         `gorm:"type:varchar(255)" json:"actor_name"`
	ActorEmail   string         `gorm:"type:varchar(255)" json:"actor_email"`
	Payload      datatypes.JSON `gorm:"type:jsonb" json:"payload,omitempty"`
	CreatedAt    time.Time      `gorm:"index:idx_notifications_created" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
