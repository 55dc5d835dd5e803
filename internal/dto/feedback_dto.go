package dto

import (
	"time"

	"github.com/google/uuid"
)

type SetDecisionRequest struct {
	ClientName   string
	PositionName string
	Filename     string
	Decision     string `json:"decision" validate:"required,oneof=neutral yes maybe no"`
}

type SetDecisionResponse struct {
	Decision string `json:"decision"`
}

type AddNoteRequest struct {
	ClientName   string
	PositionName string
	Filename     string
	Text         string `json:"text" validate:"required,min=1"`
}

type NoteResponse struct {
	Id          uuid.UUID `json:"id"`
	Text        string    `json:"text"`
	AuthorEmail string    `json:"author_email"`
	AuthorName  string    `json:"author_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type FileFeedbackResponse struct {
	Decision string         `json:"decision"`
	Notes    []NoteResponse `json:"notes"`
}
