package dto

import (
	"time"

	"github.com/google/uuid"
)

type NotificationResponse struct {
	Id           uuid.UUID `json:"id"`
	Kind         string    `json:"kind"`
	ClientName   string    `json:"client_name"`
	PositionName string    `json:"position_name,omitempty"`
	Filename     string    `json:"filename,omitempty"`
	Content      string    `json:"content,omitempty"`
	ActorName    string    `json:"actor_name"`
	ActorEmail   string    `json:"actor_email"`
	CreatedAt    time.Time `json:"created_at"`
}

type NotificationTypeResponse struct {
	Code            string `json:"code"`
	SubjectTemplate string `json:"subject_template"`
	IsActive        bool   `json:"is_active"`
}

type UpdateNotificationTypeRequest struct {
	Code     string
	IsActive bool `json:"is_active"`
}
