package bootstrap

import (
	"log"

	"mindful-ai-be/internal/config"
	"mindful-ai-be/internal/controller"
	"mindful-ai-be/internal/pkg/logger"
	"mindful-ai-be/internal/pkg/mailer"
	"mindful-ai-be/internal/pkg/serverutils"
	"mindful-ai-be/internal/repository/unitofwork"
	"mindful-ai-be/internal/service"
	"mindful-ai-be/pkg/embedding"
	"mindful-ai-be/pkg/identity"
	"mindful-ai-be/pkg/llm/factory"
	pkgNats "mindful-ai-be/pkg/nats"
	"mindful-ai-be/pkg/rag/executor"
	"mindful-ai-be/pkg/rag/history"
	"mindful-ai-be/pkg/rag/rewrite"
	"mindful-ai-be/pkg/rag/search"
	"mindful-ai-be/pkg/whatsapp"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	AuthController     controller.IAuthController
	ChatController     controller.IChatController
	DocumentController controller.IDocumentController
	WhatsAppController controller.IWhatsAppController

	// Background services, run from main.
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	identityClient := identity.NewClient(
		cfg.Identity.BaseURL,
		cfg.Identity.AnonKey,
		cfg.Identity.ServiceKey,
	)

	// Event bus for webhook fan-in
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	// AI providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.Provider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: GEMINI (%s)", cfg.Ai.EmbeddingModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.Provider,
		cfg.Ai.Model,
		cfg.Ai.GeminiAPIKey,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.Model)

	// NATS domain events (optional, warn on failure)
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// Redis webhook dedup (optional, warn on failure)
	var redisClient *redis.Client
	if opts, err := redis.ParseURL(cfg.App.RedisURL); err != nil {
		log.Printf("[WARN] Invalid Redis URL, webhook dedup disabled: %v", err)
	} else {
		redisClient = redis.NewClient(opts)
	}

	// RAG pipeline
	historyLoader := history.NewLoader(uowFactory)
	rewriter := rewrite.NewRewriter(llmProvider, sysLogger)
	retriever := search.NewRetriever(embeddingProvider, uowFactory, cfg.Ai.ChatTopK, sysLogger)
	pipeline := executor.NewPipeline(rewriter, retriever, llmProvider, cfg.Ai.Temperature, cfg.Ai.MaxTokens, sysLogger)

	// Services
	authService := service.NewAuthService(
		identityClient,
		uowFactory,
		emailService,
		cfg.App.FrontendURL,
		cfg.App.AdminSetupSecret,
		sysLogger,
	)
	chatService := service.NewChatService(
		uowFactory,
		historyLoader,
		pipeline,
		llmProvider,
		natsPub,
		sysLogger,
	)
	documentService := service.NewDocumentService(
		uowFactory,
		embeddingProvider,
		natsPub,
		cfg.Document.ChunkSize,
		cfg.Document.ChunkOverlap,
		sysLogger,
	)

	whatsappClient := whatsapp.NewClient(
		cfg.WhatsApp.AppID,
		cfg.WhatsApp.AppSecret,
		cfg.WhatsApp.RedirectURI,
		cfg.WhatsApp.GraphVersion,
	)
	whatsappService := service.NewWhatsAppService(whatsappClient, uowFactory, natsPub, sysLogger)

	consumerService := service.NewConsumerService(
		pubSub,
		uowFactory,
		chatService,
		whatsappService,
		redisClient,
		sysLogger,
	)

	// Middleware + controllers
	authMiddleware := serverutils.NewAuthMiddleware(identityClient, uowFactory, sysLogger)

	return &Container{
		AuthController: controller.NewAuthController(authService, authMiddleware),
		ChatController: controller.NewChatController(chatService, authMiddleware),
		DocumentController: controller.NewDocumentController(
			documentService,
			authMiddleware,
			cfg.Document.MaxFileSizeMB,
			cfg.Document.AllowedExtensions,
		),
		WhatsAppController: controller.NewWhatsAppController(
			whatsappService,
			authMiddleware,
			pubSub,
			cfg.WhatsApp.VerifyToken,
			cfg.WhatsApp.AppSecret,
			sysLogger,
		),
		ConsumerService: consumerService,
		Logger:          sysLogger,
	}
}
