package implementation

import (
	"context"
	"errors"

	"mindful-ai-be/internal/entity"
	"mindful-ai-be/internal/mapper"
	"mindful-ai-be/internal/model"
	"mindful-ai-be/internal/repository/contract"
	"mindful-ai-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentMetadataRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentMetadataMapper
}

func NewDocumentMetadataRepository(db *gorm.DB) contract.DocumentMetadataRepository {
	return &DocumentMetadataRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentMetadataMapper(),
	}
}

func (r *DocumentMetadataRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DocumentMetadataRepositoryImpl) Create(ctx context.Context, doc *entity.DocumentMetadata) error {
	m := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

func (r *DocumentMetadataRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentMetadata, error) {
	var m model.DocumentMetadata
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DocumentMetadataRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentMetadata, error) {
	var models []*model.DocumentMetadata
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.DocumentMetadata, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *DocumentMetadataRepositoryImpl) DistinctCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&model.DocumentMetadata{}).
		Distinct("category").
		Where("category <> ''").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *DocumentMetadataRepositoryImpl) UpdateChunkCount(ctx context.Context, id uuid.UUID, count int) error {
	return r.db.WithContext(ctx).Model(&model.DocumentMetadata{}).
		Where("id = ?", id).
		Update("chunk_count", count).Error
}

func (r *DocumentMetadataRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.DocumentMetadata{}, id).Error
}
