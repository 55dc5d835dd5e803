package model

import (
	"time"

	"gorm.io/datatypes"
)

// Position keeps its descriptive details as one JSONB document, matching
// the merge-write semantics of the position record: a partial update never
// erases unrelated keys.
type Position struct {
	ClientName string         `gorm:"type:varchar(255);primaryKey"`
	Name       string         `gorm:"type:varchar(255);primaryKey"`
	Details    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
}

func (Position) TableName() string {
	return "positions"
}

type CandidateFile struct {
	ClientName   string    `gorm:"type:varchar(255);primaryKey"`
	PositionName string    `gorm:"type:varchar(255);primaryKey"`
	Filename     string    `gorm:"type:varchar(255);primaryKey"`
	ContentType  string    `gorm:"type:varchar(255);not null;default:'application/octet-stream'"`
	Size         int64     `gorm:"not null;default:0"`
	Decision     string    `gorm:"type:varchar(10);not null;default:'neutral'"`
	UploadedAt   time.Time `gorm:"autoCreateTime"`
}

func (CandidateFile) TableName() string {
	return "candidate_files"
}
