package implementation

import (
	"context"
	"errors"

	"grid-portal-be/internal/model"
	"grid-portal-be/internal/repository/contract"
	"grid-portal-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) contract.NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, notification *model.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *NotificationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.Notification, error) {
	var models []*model.Notification
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return models, nil
}

func (r *NotificationRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Notification{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type NotificationTypeRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationTypeRepository(db *gorm.DB) contract.NotificationTypeRepository {
	return &NotificationTypeRepositoryImpl{db: db}
}

// Upsert seeds a type without clobbering an operator's is_active toggle.
func (r *NotificationTypeRepositoryImpl) Upsert(ctx context.Context, t *model.NotificationType) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"subject_template"}),
	}).Create(t).Error
}

func (r *NotificationTypeRepositoryImpl) SetActive(ctx context.Context, code string, active bool) error {
	return r.db.WithContext(ctx).Model(&model.NotificationType{}).
		Where("code = ?", code).
		Update("is_active", active).Error
}

func (r *NotificationTypeRepositoryImpl) FindByCode(ctx context.Context, code string) (*model.NotificationType, error) {
	var m model.NotificationType
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *NotificationTypeRepositoryImpl) FindAll(ctx context.Context) ([]*model.NotificationType, error) {
	var models []*model.NotificationType
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return models, nil
}
