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
	"gorm.io/gorm/clause"
)

type PositionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PositionMapper
}

func NewPositionRepository(db *gorm.DB) contract.PositionRepository {
	return &PositionRepositoryImpl{
		db:     db,
		mapper: mapper.NewPositionMapper(),
	}
}

func (r *PositionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PositionRepositoryImpl) Create(ctx context.Context, position *entity.Position) error {
	m := r.mapper.ToModel(position)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*position = *r.mapper.ToEntity(m)
	return nil
}

// Save writes the position as an upsert on (client_name, name) so that
// saving an existing position replaces its merged details document.
func (r *PositionRepositoryImpl) Save(ctx context.Context, position *entity.Position) error {
	m := r.mapper.ToModel(position)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "client_name"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"details", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*position = *r.mapper.ToEntity(m)
	return nil
}

func (r *PositionRepositoryImpl) Delete(ctx context.Context, clientName, name string) error {
	return r.db.WithContext(ctx).
		Where("client_name = ? AND name = ?", clientName, name).
		Delete(&model.Position{}).Error
}

func (r *PositionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Position, error) {
	var m model.Position
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PositionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Position, error) {
	var models []*model.Position
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *PositionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Position{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
