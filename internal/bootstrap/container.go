package bootstrap

import (
	"context"
	"log"

	"symptom-checker-be/internal/config"
	"symptom-checker-be/internal/controller"
	"symptom-checker-be/internal/handler"
	"symptom-checker-be/internal/pkg/logger"
	"symptom-checker-be/internal/repository/memory"
	"symptom-checker-be/internal/repository/unitofwork"
	"symptom-checker-be/internal/service"
	"symptom-checker-be/internal/websocket"
	"symptom-checker-be/pkg/ai/openai"

	pktNats "symptom-checker-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController      controller.IAuthController
	DiagnosisController controller.IDiagnosisController
	HistoryController   controller.IHistoryController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & History Feed
	HistoryFeedHandler *handler.HistoryFeedHandler
	WebSocketHub       *websocket.Hub

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Gateway
	gateway := openai.NewProvider(openai.Config{
		ApiKey:             cfg.Keys.OpenAI,
		ChatModel:          cfg.Ai.ChatModel,
		VisionModel:        cfg.Ai.VisionModel,
		TranscriptionModel: cfg.Ai.TranscriptionModel,
	})
	log.Printf("[INFO] Using AI models: chat=%s vision=%s transcription=%s",
		cfg.Ai.ChatModel, cfg.Ai.VisionModel, cfg.Ai.TranscriptionModel)

	imageCache := memory.NewImageCache()

	// 4. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/history_feed.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Keys.UsageTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.UsageTopic,
		uowFactory,
		sysLogger,
	)

	authService := service.NewAuthService(uowFactory)
	diagnosisService := service.NewDiagnosisService(
		uowFactory,
		gateway,
		publisherService,
		natsPub,
		imageCache,
		sysLogger,
	)
	historyService := service.NewHistoryService(uowFactory, natsPub, imageCache, sysLogger)

	// 6. History Feed (NATS -> WebSocket)
	feedService := service.NewHistoryFeedService(natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go feedService.Start()
	}

	feedHandler := handler.NewHistoryFeedHandler(wsHub, wsLogger)

	// 7. Controllers
	return &Container{
		AuthController:      controller.NewAuthController(authService),
		DiagnosisController: controller.NewDiagnosisController(diagnosisService),
		HistoryController:   controller.NewHistoryController(historyService),

		ConsumerService: consumerService,

		HistoryFeedHandler: feedHandler,
		WebSocketHub:       wsHub,

		Logger: sysLogger,
	}
}
