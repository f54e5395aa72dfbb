package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mindful-ai-be/internal/constant"
	"mindful-ai-be/internal/dto"
	"mindful-ai-be/internal/entity"
	"mindful-ai-be/internal/pkg/logger"
	"mindful-ai-be/internal/repository/specification"
	"mindful-ai-be/internal/repository/unitofwork"
	"mindful-ai-be/pkg/events"
	"mindful-ai-be/pkg/llm"
	pkgNats "mindful-ai-be/pkg/nats"
	"mindful-ai-be/pkg/rag/executor"
	"mindful-ai-be/pkg/rag/history"

	"github.com/google/uuid"
)

type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	ProcessMessage(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.ChatHistoryEntryResponse, error)
	GetSessions(ctx context.Context, userId uuid.UUID) ([]*dto.ChatSessionResponse, error)
	GetLastSession(ctx context.Context, userId uuid.UUID) (*dto.ChatSessionResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, isAdmin bool) error

	CreateTopic(ctx context.Context, req *dto.CreateTopicRequest) (*dto.TopicResponse, error)
	ListTopics(ctx context.Context) ([]*dto.TopicResponse, error)
	UpdateTopic(ctx context.Context, id uuid.UUID, req *dto.UpdateTopicRequest) (*dto.TopicResponse, error)
	DeleteTopic(ctx context.Context, id uuid.UUID) error

	Analytics(ctx context.Context) (*dto.AnalyticsResponse, error)
}

type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	historyLoader  *history.Loader
	pipeline       *executor.Pipeline
	llmProvider    llm.LLMProvider
	eventPublisher *pkgNats.Publisher
	logger         logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	historyLoader *history.Loader,
	pipeline *executor.Pipeline,
	llmProvider llm.LLMProvider,
	eventPublisher *pkgNats.Publisher,
	logger logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:     uowFactory,
		historyLoader:  historyLoader,
		pipeline:       pipeline,
		llmProvider:    llmProvider,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func (s *chatService) CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = constant.DefaultSessionTitle
	}

	session := &entity.ChatSession{
		Id:            uuid.New(),
		UserId:        userId,
		Title:         truncateTitle(title),
		CreatedAt:     time.Now(),
		LastMessageAt: time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}
	return &dto.CreateSessionResponse{Id: session.Id, Title: session.Title}, nil
}

// ProcessMessage runs one exchange through the pipeline and persists it.
// The pipeline steps are single-attempt; any failure surfaces as one error.
// Bumping last_message_at and the session title are best-effort.
func (s *chatService) ProcessMessage(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: req.ChatSessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotFound
	}

	hist, err := s.historyLoader.Load(ctx, session.Id)
	if err != nil {
		return nil, err
	}

	result, err := s.pipeline.Execute(ctx, hist, req.Message, req.Category)
	if err != nil {
		return nil, err
	}

	exchange := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		UserMessage:   req.Message,
		AiResponse:    result.Reply,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, exchange); err != nil {
		return nil, err
	}

	if err := uow.ChatSessionRepository().TouchLastMessage(ctx, session.Id, exchange.CreatedAt); err != nil {
		s.logger.Warn("chat.service", "failed to bump last_message_at", map[string]interface{}{
			"session_id": session.Id.String(),
			"error":      err.Error(),
		})
	}

	if len(hist) == 0 && session.Title == constant.DefaultSessionTitle {
		s.generateTitle(ctx, session.Id, req.Message)
	}

	s.publishEvent(ctx, events.NewChatMessageProcessed(userId.String(), session.Id.String(), len(result.Sources)))

	return &dto.SendChatResponse{
		Response: result.Reply,
		Sources:  sourcesToDTO(result.Sources),
	}, nil
}

// generateTitle asks the model for a short title from the first message.
// Failures keep the default title.
func (s *chatService) generateTitle(ctx context.Context, sessionId uuid.UUID, firstMessage string) {
	prompt := strings.TrimSpace(firstMessage)
	title, err := s.llmProvider.Generate(ctx, titlePrompt(prompt), llm.WithTemperature(0.2))
	if err != nil {
		s.logger.Warn("chat.service", "title generation failed", map[string]interface{}{
			"session_id": sessionId.String(),
			"error":      err.Error(),
		})
		return
	}

	title = strings.Trim(strings.TrimSpace(title), `"`)
	if title == "" {
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatSessionRepository().UpdateTitle(ctx, sessionId, truncateTitle(title)); err != nil {
		s.logger.Warn("chat.service", "title update failed", map[string]interface{}{
			"session_id": sessionId.String(),
			"error":      err.Error(),
		})
	}
}

func (s *chatService) GetHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.ChatHistoryEntryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotFound
	}

	exchanges, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ChatHistoryEntryResponse, 0, len(exchanges))
	for _, ex := range exchanges {
		responses = append(responses, &dto.ChatHistoryEntryResponse{
			Id:          ex.Id,
			UserMessage: ex.UserMessage,
			AiResponse:  ex.AiResponse,
			CreatedAt:   ex.CreatedAt,
		})
	}
	return responses, nil
}

func (s *chatService) GetSessions(ctx context.Context, userId uuid.UUID) ([]*dto.ChatSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "last_message_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ChatSessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		responses = append(responses, sessionToResponse(sess))
	}
	return responses, nil
}

func (s *chatService) GetLastSession(ctx context.Context, userId uuid.UUID) (*dto.ChatSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "last_message_at", Desc: true},
		specification.Pagination{Limit: 1},
	)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, ErrNotFound
	}
	return sessionToResponse(sessions[0]), nil
}

// DeleteSession removes the session and its messages. Admins may delete any
// session; users only their own.
func (s *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, isAdmin bool) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{specification.ByID{ID: sessionId}}
	if !isAdmin {
		specs = append(specs, specification.UserOwnedBy{UserID: userId})
	}

	session, err := uow.ChatSessionRepository().FindOne(ctx, specs...)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, sessionId); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, sessionId); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *chatService) CreateTopic(ctx context.Context, req *dto.CreateTopicRequest) (*dto.TopicResponse, error) {
	topic := &entity.ChatTopic{
		Id:           uuid.New(),
		Title:        req.Title,
		Description:  req.Description,
		Icon:         req.Icon,
		Category:     req.Category,
		DisplayOrder: req.DisplayOrder,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatTopicRepository().Create(ctx, topic); err != nil {
		return nil, err
	}
	return topicToResponse(topic), nil
}

func (s *chatService) ListTopics(ctx context.Context) ([]*dto.TopicResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	topics, err := uow.ChatTopicRepository().FindAll(ctx,
		specification.OrderBy{Field: "display_order", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.TopicResponse, 0, len(topics))
	for _, t := range topics {
		responses = append(responses, topicToResponse(t))
	}
	return responses, nil
}

func (s *chatService) UpdateTopic(ctx context.Context, id uuid.UUID, req *dto.UpdateTopicRequest) (*dto.TopicResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	topic, err := uow.ChatTopicRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, ErrNotFound
	}

	if req.Title != "" {
		topic.Title = req.Title
	}
	if req.Description != "" {
		topic.Description = req.Description
	}
	if req.Icon != "" {
		topic.Icon = req.Icon
	}
	if req.Category != "" {
		topic.Category = req.Category
	}
	if req.DisplayOrder != nil {
		topic.DisplayOrder = *req.DisplayOrder
	}
	topic.UpdatedAt = time.Now()

	if err := uow.ChatTopicRepository().Update(ctx, topic); err != nil {
		return nil, err
	}
	return topicToResponse(topic), nil
}

func (s *chatService) DeleteTopic(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	topic, err := uow.ChatTopicRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if topic == nil {
		return ErrNotFound
	}
	return uow.ChatTopicRepository().Delete(ctx, id)
}

func (s *chatService) Analytics(ctx context.Context) (*dto.AnalyticsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	totalUsers, err := uow.UserRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	totalSessions, err := uow.ChatSessionRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	totalMessages, err := uow.ChatMessageRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	perDay, err := uow.ChatMessageRepository().CountPerDay(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	daily := make([]dto.DailyCountDTO, 0, len(perDay))
	for _, d := range perDay {
		daily = append(daily, dto.DailyCountDTO{
			Day:   d.Day.Format("2006-01-02"),
			Count: d.Count,
		})
	}

	return &dto.AnalyticsResponse{
		TotalUsers:     totalUsers,
		TotalSessions:  totalSessions,
		TotalMessages:  totalMessages,
		MessagesPerDay: daily,
	}, nil
}

func (s *chatService) publishEvent(ctx context.Context, event events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("chat.service", "event publish failed", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}

// truncateTitle caps titles at the session title limit, keeping 47 runes plus
// an ellipsis for longer ones.
func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= constant.MaxSessionTitleLength {
		return title
	}
	return string(runes[:constant.MaxSessionTitleLength-3]) + "..."
}

func titlePrompt(message string) string {
	return fmt.Sprintf(constant.TitlePromptTemplate, message)
}

func sessionToResponse(s *entity.ChatSession) *dto.ChatSessionResponse {
	return &dto.ChatSessionResponse{
		Id:            s.Id,
		Title:         s.Title,
		CreatedAt:     s.CreatedAt,
		LastMessageAt: s.LastMessageAt,
	}
}

func topicToResponse(t *entity.ChatTopic) *dto.TopicResponse {
	return &dto.TopicResponse{
		Id:           t.Id,
		Title:        t.Title,
		Description:  t.Description,
		Icon:         t.Icon,
		Category:     t.Category,
		DisplayOrder: t.DisplayOrder,
	}
}

func sourcesToDTO(sources []executor.Source) []dto.SourceDTO {
	if len(sources) == 0 {
		return nil
	}
	out := make([]dto.SourceDTO, 0, len(sources))
	for _, src := range sources {
		out = append(out, dto.SourceDTO{
			DocumentId: src.DocumentId,
			Title:      src.Title,
			Snippet:    src.Snippet,
			Similarity: src.Similarity,
		})
	}
	return out
}
