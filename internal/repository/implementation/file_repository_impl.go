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

type FileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PositionMapper
}

func NewFileRepository(db *gorm.DB) contract.FileRepository {
	return &FileRepositoryImpl{
		db:     db,
		mapper: mapper.NewPositionMapper(),
	}
}

func (r *FileRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Upsert leaves the decision column out of the conflict assignment on
// purpose: re-uploading a file must not discard the reviewer's verdict.
func (r *FileRepositoryImpl) Upsert(ctx context.Context, file *entity.CandidateFile) error {
	m := r.mapper.FileToModel(file)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "client_name"}, {Name: "position_name"}, {Name: "filename"}},
		DoUpdates: clause.AssignmentColumns([]string{"content_type", "size", "uploaded_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*file = *r.mapper.FileToEntity(m)
	return nil
}

func (r *FileRepositoryImpl) Create(ctx context.Context, file *entity.CandidateFile) error {
	m := r.mapper.FileToModel(file)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*file = *r.mapper.FileToEntity(m)
	return nil
}

func (r *FileRepositoryImpl) UpdateDecision(ctx context.Context, clientName, positionName, filename, decision string) error {
	return r.db.WithContext(ctx).Model(&model.CandidateFile{}).
		Where("client_name = ? AND position_name = ? AND filename = ?", clientName, positionName, filename).
		Update("decision", decision).Error
}

func (r *FileRepositoryImpl) Delete(ctx context.Context, clientName, positionName, filename string) error {
	return r.db.WithContext(ctx).
		Where("client_name = ? AND position_name = ? AND filename = ?", clientName, positionName, filename).
		Delete(&model.CandidateFile{}).Error
}

func (r *FileRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CandidateFile, error) {
	var m model.CandidateFile
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.FileToEntity(&m), nil
}

func (r *FileRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CandidateFile, error) {
	var models []*model.CandidateFile
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.FilesToEntities(models), nil
}

func (r *FileRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.CandidateFile{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
