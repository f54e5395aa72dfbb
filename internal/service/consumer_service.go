package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mindful-ai-be/internal/dto"
	"mindful-ai-be/internal/entity"
	"mindful-ai-be/internal/pkg/logger"
	"mindful-ai-be/internal/repository/specification"
	"mindful-ai-be/internal/repository/unitofwork"
	"mindful-ai-be/pkg/whatsapp"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// WhatsAppInboundTopic is the watermill topic the webhook controller
// publishes raw payloads to.
const WhatsAppInboundTopic = "whatsapp.inbound"

const dedupTTL = 24 * time.Hour

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the webhook queue: each inbound text message is
// answered through the RAG chat flow and sent back over WhatsApp. Failures
// are logged, never retried; the webhook already acked 200 to Meta.
type consumerService struct {
	pubSub          *gochannel.GoChannel
	uowFactory      unitofwork.RepositoryFactory
	chatService     IChatService
	whatsappService IWhatsAppService
	redisClient     *redis.Client
	logger          logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	uowFactory unitofwork.RepositoryFactory,
	chatService IChatService,
	whatsappService IWhatsAppService,
	redisClient *redis.Client,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:          pubSub,
		uowFactory:      uowFactory,
		chatService:     chatService,
		whatsappService: whatsappService,
		redisClient:     redisClient,
		logger:          logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, WhatsAppInboundTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
			// Always ack: webhook deliveries are processed at most once.
			msg.Ack()
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload whatsapp.WebhookPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("whatsapp.consumer", "failed to unmarshal webhook payload", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}
			for _, inbound := range change.Value.Messages {
				cs.handleInbound(ctx, change.Value.Metadata.PhoneNumberID, inbound)
			}
		}
	}
}

func (cs *consumerService) handleInbound(ctx context.Context, phoneNumberId string, inbound whatsapp.InboundMessage) {
	if inbound.Type != "text" || inbound.Text == nil || inbound.Text.Body == "" {
		cs.logger.Debug("whatsapp.consumer", "skipping non-text message", map[string]interface{}{
			"message_id": inbound.ID,
			"type":       inbound.Type,
		})
		return
	}

	if cs.isDuplicate(ctx, inbound.ID) {
		cs.logger.Info("whatsapp.consumer", "duplicate webhook delivery skipped", map[string]interface{}{
			"message_id": inbound.ID,
		})
		return
	}

	account, err := cs.whatsappService.AccountByPhoneNumberId(ctx, phoneNumberId)
	if err != nil {
		cs.logger.Error("whatsapp.consumer", "no account for inbound phone number", map[string]interface{}{
			"phone_number_id": phoneNumberId,
			"error":           err.Error(),
		})
		return
	}

	session, err := cs.sessionForSender(ctx, account, inbound.From)
	if err != nil {
		cs.logger.Error("whatsapp.consumer", "failed to resolve chat session", map[string]interface{}{
			"sender": inbound.From,
			"error":  err.Error(),
		})
		return
	}

	reply, err := cs.chatService.ProcessMessage(ctx, account.UserId, &dto.SendChatRequest{
		ChatSessionId: session.Id,
		Message:       inbound.Text.Body,
	})
	if err != nil {
		cs.logger.Error("whatsapp.consumer", "chat processing failed", map[string]interface{}{
			"session_id": session.Id.String(),
			"error":      err.Error(),
		})
		return
	}

	if err := cs.whatsappService.ReplyToInbound(ctx, phoneNumberId, inbound.From, reply.Response); err != nil {
		cs.logger.Error("whatsapp.consumer", "failed to send reply", map[string]interface{}{
			"recipient": inbound.From,
			"error":     err.Error(),
		})
	}
}

// sessionForSender reuses one chat session per WhatsApp sender so the
// conversation keeps its history across messages.
func (cs *consumerService) sessionForSender(ctx context.Context, account *entity.WhatsAppAccount, sender string) (*entity.ChatSession, error) {
	title := truncateTitle(fmt.Sprintf("WhatsApp: %s", sender))

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: account.UserId},
		specification.Filter("title", title),
	)
	if err != nil {
		return nil, err
	}
	if session != nil {
		return session, nil
	}

	session = &entity.ChatSession{
		Id:            uuid.New(),
		UserId:        account.UserId,
		Title:         title,
		CreatedAt:     time.Now(),
		LastMessageAt: time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// isDuplicate checks the message id against redis. Meta redelivers webhooks
// on slow acks; without redis we process optimistically.
func (cs *consumerService) isDuplicate(ctx context.Context, messageId string) bool {
	if cs.redisClient == nil || messageId == "" {
		return false
	}

	key := "wa:msg:" + messageId
	ok, err := cs.redisClient.SetNX(ctx, key, 1, dedupTTL).Result()
	if err != nil {
		cs.logger.Warn("whatsapp.consumer", "redis dedup unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		return false
	}
	return !ok
}
