package mapper

import (
	"mindful-ai-be/internal/entity"
	"mindful-ai-be/internal/model"
)

type WhatsAppAccountMapper struct{}

func NewWhatsAppAccountMapper() *WhatsAppAccountMapper {
	return &WhatsAppAccountMapper{}
}

func (m *WhatsAppAccountMapper) ToEntity(a *model.WhatsAppAccount) *entity.WhatsAppAccount {
	if a == nil {
		return nil
	}
	return &entity.WhatsAppAccount{
		Id:            a.Id,
		UserId:        a.UserId,
		WabaId:        a.WabaId,
		PhoneNumberId: a.PhoneNumberId,
		AccessToken:   a.AccessToken,
		VerifiedName:  a.VerifiedName,
		DisplayNumber: a.DisplayNumber,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func (m *WhatsAppAccountMapper) ToModel(a *entity.WhatsAppAccount) *model.WhatsAppAccount {
	if a == nil {
		return nil
	}
	return &model.WhatsAppAccount{
		Id:            a.Id,
		UserId:        a.UserId,
		WabaId:        a.WabaId,
		PhoneNumberId: a.PhoneNumberId,
		AccessToken:   a.AccessToken,
		VerifiedName:  a.VerifiedName,
		DisplayNumber: a.DisplayNumber,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}
