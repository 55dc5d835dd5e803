package model

import (
	"time"

	"github.com/google/uuid"
)

// FeedbackNote's created_at is the note's identity within its file; the
// composite unique index enforces that.
type FeedbackNote struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClientName   string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_note_identity,priority:1"`
	PositionName string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_note_identity,priority:2"`
	Filename     string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_note_identity,priority:3"`
	Text         string    `gorm:"type:text;not null"`
	AuthorEmail  string    `gorm:"type:varchar(255);not null"`
	AuthorName   string    `gorm:"type:varchar(255);not null;default:''"`
	CreatedAt    time.Time `gorm:"uniqueIndex:idx_note_identity,priority:4"`
}

func (FeedbackNote) TableName() string {
	return "feedback_notes"
}
