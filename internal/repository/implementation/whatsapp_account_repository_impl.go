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
	"gorm.io/gorm/clause"
)

type WhatsAppAccountRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WhatsAppAccountMapper
}

func NewWhatsAppAccountRepository(db *gorm.DB) contract.WhatsAppAccountRepository {
	return &WhatsAppAccountRepositoryImpl{
		db:     db,
		mapper: mapper.NewWhatsAppAccountMapper(),
	}
}

func (r *WhatsAppAccountRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *WhatsAppAccountRepositoryImpl) Upsert(ctx context.Context, account *entity.WhatsAppAccount) error {
	m := r.mapper.ToModel(account)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"waba_id", "phone_number_id", "access_token",
			"verified_name", "display_number", "updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*account = *r.mapper.ToEntity(m)
	return nil
}

func (r *WhatsAppAccountRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WhatsAppAccount, error) {
	var m model.WhatsAppAccount
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *WhatsAppAccountRepositoryImpl) DeleteByUserId(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.WhatsAppAccount{}).Error
}
