package service

import (
	"context"
	"time"

	"mindful-ai-be/internal/dto"
	"mindful-ai-be/internal/entity"
	"mindful-ai-be/internal/pkg/logger"
	"mindful-ai-be/internal/repository/specification"
	"mindful-ai-be/internal/repository/unitofwork"
	"mindful-ai-be/pkg/events"
	pkgNats "mindful-ai-be/pkg/nats"
	"mindful-ai-be/pkg/whatsapp"

	"github.com/google/uuid"
)

type IWhatsAppService interface {
	GetAuthURL(userId uuid.UUID) *dto.AuthURLResponse
	ExchangeCode(ctx context.Context, code string) (string, error)
	CompleteIntegration(ctx context.Context, userId uuid.UUID, req *dto.CompleteIntegrationRequest) (*dto.WhatsAppAccountResponse, error)
	CompleteTokenIntegration(ctx context.Context, userId uuid.UUID, req *dto.CompleteTokenIntegrationRequest) (*dto.WhatsAppAccountResponse, error)
	GetAccount(ctx context.Context, userId uuid.UUID) (*dto.WhatsAppAccountResponse, error)
	SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendWhatsAppMessageRequest) error
	RegisterPhoneNumber(ctx context.Context, userId uuid.UUID, pin string) error
	RequestVerificationCode(ctx context.Context, userId uuid.UUID, req *dto.RequestVerificationCodeRequest) error
	VerifyPhoneNumber(ctx context.Context, userId uuid.UUID, code string) error
	RegisterCloudAPI(ctx context.Context, userId uuid.UUID, pin string) error

	// ReplyToInbound sends a reply from the business number that received the
	// webhook message. Used by the webhook consumer.
	ReplyToInbound(ctx context.Context, phoneNumberId string, to string, text string) error
	AccountByPhoneNumberId(ctx context.Context, phoneNumberId string) (*entity.WhatsAppAccount, error)
}

type whatsappService struct {
	client         *whatsapp.Client
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pkgNats.Publisher
	logger         logger.ILogger
}

func NewWhatsAppService(
	client *whatsapp.Client,
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pkgNats.Publisher,
	logger logger.ILogger,
) IWhatsAppService {
	return &whatsappService{
		client:         client,
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func (s *whatsappService) GetAuthURL(userId uuid.UUID) *dto.AuthURLResponse {
	// State carries the user id so the callback can be tied back to the user.
	return &dto.AuthURLResponse{Url: s.client.AuthURL(userId.String())}
}

// ExchangeCode trades an embedded-signup OAuth code for an access token
// without linking an account, for clients that run the integration steps
// separately.
func (s *whatsappService) ExchangeCode(ctx context.Context, code string) (string, error) {
	return s.client.ExchangeCode(ctx, code)
}

// CompleteIntegration finishes embedded signup: exchange the OAuth code, then
// wire the account end to end.
func (s *whatsappService) CompleteIntegration(ctx context.Context, userId uuid.UUID, req *dto.CompleteIntegrationRequest) (*dto.WhatsAppAccountResponse, error) {
	token, err := s.client.ExchangeCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	return s.completeWithToken(ctx, userId, token, req.Pin)
}

// CompleteTokenIntegration wires the account from a long-lived system-user
// token, skipping the OAuth exchange.
func (s *whatsappService) CompleteTokenIntegration(ctx context.Context, userId uuid.UUID, req *dto.CompleteTokenIntegrationRequest) (*dto.WhatsAppAccountResponse, error) {
	return s.completeWithToken(ctx, userId, req.AccessToken, req.Pin)
}

// completeWithToken discovers the WABA, picks its first phone number,
// subscribes the app to webhook events and registers the number for Cloud API
// messaging, then upserts the account row. Re-integration overwrites the
// previous row.
func (s *whatsappService) completeWithToken(ctx context.Context, userId uuid.UUID, token string, pin string) (*dto.WhatsAppAccountResponse, error) {
	waba, err := s.client.DiscoverWABA(ctx, token)
	if err != nil {
		return nil, err
	}

	phones, err := s.client.GetPhoneNumbers(ctx, token, waba.ID)
	if err != nil {
		return nil, err
	}
	if len(phones) == 0 {
		return nil, ErrNotFound
	}
	phone := phones[0]

	if err := s.client.SubscribeApp(ctx, token, waba.ID); err != nil {
		return nil, err
	}
	if err := s.client.RegisterPhone(ctx, token, phone.ID, pin); err != nil {
		// Registration fails when the number is already registered; keep going
		// so re-integration stays idempotent.
		s.logger.Warn("whatsapp.service", "phone registration failed", map[string]interface{}{
			"phone_number_id": phone.ID,
			"error":           err.Error(),
		})
	}

	account := &entity.WhatsAppAccount{
		Id:            uuid.New(),
		UserId:        userId,
		WabaId:        waba.ID,
		PhoneNumberId: phone.ID,
		AccessToken:   token,
		VerifiedName:  phone.VerifiedName,
		DisplayNumber: phone.DisplayNumber,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.WhatsAppAccountRepository().Upsert(ctx, account); err != nil {
		return nil, err
	}
	return accountToResponse(account), nil
}

func (s *whatsappService) GetAccount(ctx context.Context, userId uuid.UUID) (*dto.WhatsAppAccountResponse, error) {
	account, err := s.accountForUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	return accountToResponse(account), nil
}

func (s *whatsappService) SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendWhatsAppMessageRequest) error {
	account, err := s.accountForUser(ctx, userId)
	if err != nil {
		return err
	}
	return s.client.SendText(ctx, account.AccessToken, account.PhoneNumberId, req.To, req.Message)
}

func (s *whatsappService) RegisterPhoneNumber(ctx context.Context, userId uuid.UUID, pin string) error {
	account, err := s.accountForUser(ctx, userId)
	if err != nil {
		return err
	}
	return s.client.RegisterPhone(ctx, account.AccessToken, account.PhoneNumberId, pin)
}

func (s *whatsappService) RequestVerificationCode(ctx context.Context, userId uuid.UUID, req *dto.RequestVerificationCodeRequest) error {
	account, err := s.accountForUser(ctx, userId)
	if err != nil {
		return err
	}
	locale := req.Locale
	if locale == "" {
		locale = "en_US"
	}
	return s.client.RequestVerificationCode(ctx, account.AccessToken, account.PhoneNumberId, req.CodeMethod, locale)
}

func (s *whatsappService) VerifyPhoneNumber(ctx context.Context, userId uuid.UUID, code string) error {
	account, err := s.accountForUser(ctx, userId)
	if err != nil {
		return err
	}
	return s.client.VerifyCode(ctx, account.AccessToken, account.PhoneNumberId, code)
}

// RegisterCloudAPI re-runs webhook subscription and Cloud API registration
// for an already linked account.
func (s *whatsappService) RegisterCloudAPI(ctx context.Context, userId uuid.UUID, pin string) error {
	account, err := s.accountForUser(ctx, userId)
	if err != nil {
		return err
	}
	if err := s.client.SubscribeApp(ctx, account.AccessToken, account.WabaId); err != nil {
		return err
	}
	return s.client.RegisterPhone(ctx, account.AccessToken, account.PhoneNumberId, pin)
}

func (s *whatsappService) ReplyToInbound(ctx context.Context, phoneNumberId string, to string, text string) error {
	account, err := s.AccountByPhoneNumberId(ctx, phoneNumberId)
	if err != nil {
		return err
	}

	if err := s.client.SendText(ctx, account.AccessToken, account.PhoneNumberId, to, text); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewWhatsAppReplySent(phoneNumberId, to)); err != nil {
			s.logger.Warn("whatsapp.service", "event publish failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return nil
}

func (s *whatsappService) AccountByPhoneNumberId(ctx context.Context, phoneNumberId string) (*entity.WhatsAppAccount, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	account, err := uow.WhatsAppAccountRepository().FindOne(ctx,
		specification.ByPhoneNumberID{PhoneNumberID: phoneNumberId},
	)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrNotIntegrated
	}
	return account, nil
}

func (s *whatsappService) accountForUser(ctx context.Context, userId uuid.UUID) (*entity.WhatsAppAccount, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	account, err := uow.WhatsAppAccountRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrNotIntegrated
	}
	return account, nil
}

func accountToResponse(a *entity.WhatsAppAccount) *dto.WhatsAppAccountResponse {
	return &dto.WhatsAppAccountResponse{
		Id:            a.Id,
		WabaId:        a.WabaId,
		PhoneNumberId: a.PhoneNumberId,
		VerifiedName:  a.VerifiedName,
		DisplayNumber: a.DisplayNumber,
		CreatedAt:     a.CreatedAt,
	}
}
