package contract

import (
	"context"

	"grid-portal-be/internal/model"
	"grid-portal-be/internal/repository/specification"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.Notification, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type NotificationTypeRepository interface {
	Upsert(ctx context.Context, t *model.NotificationType) error
	SetActive(ctx context.Context, code string, active bool) error
	FindByCode(ctx context.Context, code string) (*model.NotificationType, error)
	FindAll(ctx context.Context) ([]*model.NotificationType, error)
}
