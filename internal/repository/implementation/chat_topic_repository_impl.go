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

type ChatTopicRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatTopicMapper
}

func NewChatTopicRepository(db *gorm.DB) contract.ChatTopicRepository {
	return &ChatTopicRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatTopicMapper(),
	}
}

func (r *ChatTopicRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatTopicRepositoryImpl) Create(ctx context.Context, topic *entity.ChatTopic) error {
	m := r.mapper.ToModel(topic)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*topic = *r.mapper.ToEntity(m)
	return nil
}

func (r *ChatTopicRepositoryImpl) Update(ctx context.Context, topic *entity.ChatTopic) error {
	m := r.mapper.ToModel(topic)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*topic = *r.mapper.ToEntity(m)
	return nil
}

func (r *ChatTopicRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatTopic, error) {
	var m model.ChatTopic
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ChatTopicRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatTopic, error) {
	var models []*model.ChatTopic
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ChatTopic, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *ChatTopicRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ChatTopic{}, id).Error
}
