package mapper

import (
	"grid-portal-be/internal/entity"
	"grid-portal-be/internal/model"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.FeedbackNote) *entity.Note {
	if n == nil {
		return nil
	}
	return &entity.Note{
		Id:           n.Id,
		ClientName:   n.ClientName,
		PositionName: n.PositionName,
		Filename:     n.Filename,
		Text:         n.Text,
		AuthorEmail:  n.AuthorEmail,
		AuthorName:   n.AuthorName,
		CreatedAt:    n.CreatedAt,
	}
}

func (m *NoteMapper) ToModel(n *entity.Note) *model.FeedbackNote {
	if n == nil {
		return nil
	}
	return &model.FeedbackNote{
		Id:           n.Id,
		ClientName:   n.ClientName,
		PositionName: n.PositionName,
		Filename:     n.Filename,
		Text:         n.Text,
		AuthorEmail:  n.AuthorEmail,
		AuthorName:   n.AuthorName,
		CreatedAt:    n.CreatedAt,
	}
}

func (m *NoteMapper) ToEntities(notes []*model.FeedbackNote) []*entity.Note {
	entities := make([]*entity.Note, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}
