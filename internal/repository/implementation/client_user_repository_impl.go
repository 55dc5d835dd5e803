package implementation

import (
	"context"
	"errors"

	"grid-portal-be/internal/entity"
	"grid-portal-be/internal/mapper"
	"grid-portal-be/internal/model"
	"grid-portal-be/internal/repository/contract"
	"grid-portal-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ClientUserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ClientMapper
}

func NewClientUserRepository(db *gorm.DB) contract.ClientUserRepository {
	return &ClientUserRepositoryImpl{
		db:     db,
		mapper: mapper.NewClientMapper(),
	}
}

func (r *ClientUserRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ClientUserRepositoryImpl) Create(ctx context.Context, user *entity.ClientUser) error {
	m := r.mapper.UserToModel(user)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*user = *r.mapper.UserToEntity(m)
	return nil
}

func (r *ClientUserRepositoryImpl) Delete(ctx context.Context, clientName, email string) error {
	return r.db.WithContext(ctx).
		Where("client_name = ? AND email = ?", clientName, email).
		Delete(&model.ClientUser{}).Error
}

func (r *ClientUserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ClientUser, error) {
	var m model.ClientUser
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.UserToEntity(&m), nil
}

func (r *ClientUserRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ClientUser, error) {
	var models []*model.ClientUser
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.UsersToEntities(models), nil
}

func (r *ClientUserRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ClientUser{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
