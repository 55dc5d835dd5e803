package mapper

import (
	"encoding/json"
	"time"

	"grid-portal-be/internal/entity"
	"grid-portal-be/internal/model"

	"gorm.io/datatypes"
)

type PositionMapper struct{}

func NewPositionMapper() *PositionMapper {
	return &PositionMapper{}
}

func (m *PositionMapper) ToEntity(p *model.Position) *entity.Position {
	if p == nil {
		return nil
	}

	// Absent or malformed details collapse to all-empty fields, never null.
	var details entity.PositionDetails
	if len(p.Details) > 0 {
		_ = json.Unmarshal(p.Details, &details)
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.Position{
		ClientName: p.ClientName,
		Name:       p.Name,
		Details:    details,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *PositionMapper) ToModel(p *entity.Position) *model.Position {
	if p == nil {
		return nil
	}

	detailsJSON, _ := json.Marshal(p.Details)

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Position{
		ClientName: p.ClientName,
		Name:       p.Name,
		Details:    datatypes.JSON(detailsJSON),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *PositionMapper) ToEntities(positions []*model.Position) []*entity.Position {
	entities := make([]*entity.Position, len(positions))
	for i, p := range positions {
		entities[i] = m.ToEntity(p)
	}
	return entities
}

func (m *PositionMapper) FileToEntity(f *model.CandidateFile) *entity.CandidateFile {
	if f == nil {
		return nil
	}
	return &entity.CandidateFile{
		ClientName:   f.ClientName,
		PositionName: f.PositionName,
		Filename:     f.Filename,
		ContentType:  f.ContentType,
		Size:         f.Size,
		Decision:     f.Decision,
		UploadedAt:   f.UploadedAt,
	}
}

func (m *PositionMapper) FileToModel(f *entity.CandidateFile) *model.CandidateFile {
	if f == nil {
		return nil
	}
	return &model.CandidateFile{
		ClientName:   f.ClientName,
		PositionName: f.PositionName,
		Filename:     f.Filename,
		ContentType:  f.ContentType,
		Size:         f.Size,
		Decision:     f.Decision,
		UploadedAt:   f.UploadedAt,
	}
}

func (m *PositionMapper) FilesToEntities(files []*model.CandidateFile) []*entity.CandidateFile {
	entities := make([]*entity.CandidateFile, len(files))
	for i, f := range files {
		entities[i] = m.FileToEntity(f)
	}
	return entities
}
