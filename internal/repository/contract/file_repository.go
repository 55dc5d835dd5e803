package contract

import (
	"context"

	"grid-portal-be/internal/entity"
	"grid-portal-be/internal/repository/specification"
)

type FileRepository interface {
	// Upsert inserts the file record or, on re-upload of an existing
	// filename, refreshes content_type, size and uploaded_at while
	// leaving the stored decision untouched.
	Upsert(ctx context.Context, file *entity.CandidateFile) error
	Create(ctx context.Context, file *entity.CandidateFile) error
	UpdateDecision(ctx context.Context, clientName, positionName, filename, decision string) error
	Delete(ctx context.Context, clientName, positionName, filename string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CandidateFile, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CandidateFile, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
