package contract

import (
	"context"

	"grid-portal-be/internal/entity"
	"grid-portal-be/internal/repository/specification"
)

type ClientUserRepository interface {
	Create(ctx context.Context, user *entity.ClientUser) error
	Delete(ctx context.Context, clientName, email string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ClientUser, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ClientUser, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
