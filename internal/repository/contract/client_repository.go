package contract

import (
	"context"

	"grid-portal-be/internal/entity"
	"grid-portal-be/internal/repository/specification"
)

type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, name string) error
	UpdateLogoKey(ctx context.Context, name string, logoKey *string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Client, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Client, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
