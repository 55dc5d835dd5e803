package contract

import (
	"context"

	"grid-portal-be/internal/entity"
	"grid-portal-be/internal/repository/specification"
)

type PositionRepository interface {
	Create(ctx context.Context, position *entity.Position) error
	Save(ctx context.Context, position *entity.Position) error
	Delete(ctx context.Context, clientName, name string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Position, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Position, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
