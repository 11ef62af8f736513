package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"tutorlink_backend/database"
	"tutorlink_backend/internal/algorithms"
	"tutorlink_backend/internal/config"
	"tutorlink_backend/internal/handlers"
	"tutorlink_backend/internal/logger"
	"tutorlink_backend/internal/middleware"
	"tutorlink_backend/internal/pkg/email"
	"tutorlink_backend/internal/repositories"
	chatrepo "tutorlink_backend/internal/repositories/chat"
	"tutorlink_backend/internal/routes"
	"tutorlink_backend/internal/services"
	"tutorlink_backend/internal/validator"
	"tutorlink_backend/internal/workers"
	"tutorlink_backend/ws"
)

func Run() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	config.LoadConfig()
	cfg := config.GetConfig()

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}
	logger.Info("Migrations applied")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ginRouter := SetupRouter(ctx, cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter wires repositories, services, handlers and background workers
// and returns the configured engine. Exposed for integration tests.
func SetupRouter(ctx context.Context, cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	// Repositories.
	userRepo := repositories.NewUserRepository(gormDB)
	profileRepo := repositories.NewTutorProfileRepository(gormDB)
	sessionRepo := repositories.NewSessionRepository(gormDB)
	reviewRepo := repositories.NewReviewRepository(gormDB)
	paymentMethodRepo := repositories.NewPaymentMethodRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)
	conversationRepo := chatrepo.NewConversationRepository(gormDB)
	messageRepo := chatrepo.NewMessageRepository(gormDB)

	// Email.
	emailProvider, err := email.NewSMTPProvider(email.Config{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUser:     cfg.Email.SMTPUser,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromEmail:    cfg.Email.FromEmail,
		FromName:     cfg.Email.FromName,
		Enabled:      cfg.Email.Enabled,
	})
	if err != nil {
		logger.Fatal("Failed to initialize email provider", "error", err)
	}

	// Websocket manager, started before the chat service that pushes to it.
	wsManager := ws.NewManager()
	go wsManager.Run()

	// Services.
	notificationService := services.NewNotificationService(notificationRepo, userRepo, emailProvider)
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	profileService := services.NewProfileService(profileRepo, userRepo)
	matchingService := services.NewMatchingService(profileRepo, userRepo, algorithms.NewLenientMatcher())
	sessionService := services.NewSessionService(sessionRepo, userRepo, profileRepo, notificationService)
	reviewService := services.NewReviewService(reviewRepo, sessionRepo, profileRepo, notificationService)
	chatService := services.NewChatService(conversationRepo, messageRepo, userRepo, notificationService, wsManager)
	paymentService := services.NewPaymentService(paymentMethodRepo)

	// Handlers.
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	appHandlers := &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, authService),
		UserHandler:         handlers.NewUserHandler(baseHandler, userService),
		ProfileHandler:      handlers.NewProfileHandler(baseHandler, profileService),
		MatchingHandler:     handlers.NewMatchingHandler(baseHandler, matchingService),
		SessionHandler:      handlers.NewSessionHandler(baseHandler, sessionService),
		ReviewHandler:       handlers.NewReviewHandler(baseHandler, reviewService),
		ChatHandler:         handlers.NewChatHandler(baseHandler, chatService),
		PaymentHandler:      handlers.NewPaymentHandler(baseHandler, paymentService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, notificationService),
	}

	wsHandler := ws.NewHandler(wsManager)

	// Background workers.
	reminderWorker := workers.NewReminderWorker(
		sessionRepo,
		notificationService,
		time.Duration(cfg.Reminder.IntervalMinutes)*time.Minute,
		time.Duration(cfg.Reminder.LookaheadMinutes)*time.Minute,
	)
	reminderWorker.Start(ctx)

	ginRouter := initializeGinRouter()
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler)

	return ginRouter
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Request-ID")
	router.Use(cors.New(corsConfig))

	return router
}
