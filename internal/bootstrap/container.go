package bootstrap

import (
	"context"
	"log"
	"time"

	"grid-portal-be/internal/config"
	"grid-portal-be/internal/controller"
	"grid-portal-be/internal/pkg/keylock"
	"grid-portal-be/internal/pkg/logger"
	"grid-portal-be/internal/pkg/mailer"
	"grid-portal-be/internal/pkg/serverutils"
	"grid-portal-be/internal/repository/memory"
	"grid-portal-be/internal/repository/unitofwork"
	"grid-portal-be/internal/service"
	"grid-portal-be/internal/websocket"
	"grid-portal-be/pkg/blob"

	pkgNats "grid-portal-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	ClientController       controller.IClientController
	PositionController     controller.IPositionController
	FeedbackController     controller.IFeedbackController
	NotificationController controller.INotificationController

	// Middleware
	AuthMiddleware fiber.Handler

	// Background services (exposed for main.go to run)
	NotifierService service.INotifierService

	// Direct handles for routes that bypass the controller layer
	ClientService service.IClientService
	WebSocketHub  *websocket.Hub

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	blobStore, err := blob.NewFSStore(cfg.Storage.Root)
	if err != nil {
		log.Fatalf("[FATAL] Failed to open blob store at %s: %v", cfg.Storage.Root, err)
	}

	locks := keylock.NewTable()
	sessionRepo := memory.NewSessionRepository(time.Duration(cfg.Auth.SessionTTLHours) * time.Hour)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.Notify.Recipients,
	)

	// Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS mirror is optional, the portal runs fine without it.
	var natsPub *pkgNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pkgNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		}
	}

	// Redis fanout for the websocket feed, also optional.
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
			rdb = nil
		}
	}

	hub := websocket.NewHub(rdb, sysLogger)
	go hub.Run()

	// Services
	eventSvc := service.NewEventService(pubSub, natsPub, sysLogger)
	authSvc := service.NewAuthService(uowFactory, sessionRepo, cfg.Auth, sysLogger)
	clientSvc := service.NewClientService(uowFactory, blobStore, eventSvc, cfg.App.BaseURL, sysLogger)
	positionSvc := service.NewPositionService(uowFactory, blobStore, eventSvc, sysLogger)
	fileSvc := service.NewFileService(uowFactory, blobStore, locks, sysLogger)
	feedbackSvc := service.NewFeedbackService(uowFactory, locks, eventSvc, sysLogger)
	renameSvc := service.NewRenameService(uowFactory, blobStore, locks, sysLogger)
	notificationSvc := service.NewNotificationService(uowFactory)
	notifierSvc := service.NewNotifierService(pubSub, uowFactory, emailService, hub, sysLogger)

	return &Container{
		AuthController:         controller.NewAuthController(authSvc),
		ClientController:       controller.NewClientController(clientSvc, renameSvc),
		PositionController:     controller.NewPositionController(positionSvc, fileSvc, renameSvc),
		FeedbackController:     controller.NewFeedbackController(feedbackSvc),
		NotificationController: controller.NewNotificationController(notificationSvc),

		AuthMiddleware: serverutils.NewPrincipalMiddleware(cfg.Auth.JWTSecret, sessionRepo),

		NotifierService: notifierSvc,

		ClientService: clientSvc,
		WebSocketHub:  hub,

		Logger: sysLogger,
	}
}
