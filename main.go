package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lashstudio/config"
	"lashstudio/cron"
	"lashstudio/database"
	analyticsRepo "lashstudio/database/repository/analytics"
	appointmentRepo "lashstudio/database/repository/appointment"
	catalogRepo "lashstudio/database/repository/catalog"
	contentRepo "lashstudio/database/repository/content"
	mediaRepo "lashstudio/database/repository/media"
	promoRepo "lashstudio/database/repository/promo"
	settingsRepo "lashstudio/database/repository/settings"
	userRepoPkg "lashstudio/database/repository/user"
	"lashstudio/handlers"
	"lashstudio/middleware"
	"lashstudio/models"
	"lashstudio/routes"
	"lashstudio/services/analytics"
	"lashstudio/services/appointment"
	"lashstudio/services/catalog"
	"lashstudio/services/content"
	"lashstudio/services/notification"
	"lashstudio/services/payment"
	"lashstudio/services/promo"
	"lashstudio/services/settings"
	"lashstudio/services/storage"
	"lashstudio/services/user"
	"lashstudio/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stripe/stripe-go/v76"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()
	stripe.Key = config.AppConfig.StripeKey

	if err := middleware.RegisterValidators(); err != nil {
		logger.Sugar().Fatalf("main: failed to register validators: %v", err)
	}

	shutdownTracing, err := utils.SetupTracing(context.Background(), "lashstudio-api")
	if err != nil {
		logger.Sugar().Fatalf("main: failed to set up tracing: %v", err)
	}

	healthCtx, stopHealth := context.WithCancel(context.Background())
	defer stopHealth()
	utils.StartHealthMonitor(healthCtx,
		[]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient()},
		database.MongoClient)

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo(logger)
	catRepo := catalogRepo.NewMongoCatalogRepo(logger)
	apptRepo := appointmentRepo.NewMongoAppointmentRepo(logger)
	pRepo := promoRepo.NewMongoPromoRepo(logger)
	setRepo := settingsRepo.NewMongoSettingsRepo()
	cRepo := contentRepo.NewMongoContentRepo(logger)
	mRepo := mediaRepo.NewMongoMediaRepo()
	reportRepo := analyticsRepo.NewMongoReportRepo()

	// services.
	userService := &user.DefaultUserService{
		Repo:       userRepo,
		Identities: &user.FirebaseIdentity{Client: utils.AuthClient},
		Cache: &user.RedisPrincipalCache{
			Client: utils.GetAuthCacheClient(),
			TTL:    time.Duration(config.AppConfig.PrincipalCacheTTLSeconds) * time.Second,
		},
		Logger: logger.Named("users"),
	}
	catalogService := &catalog.DefaultCatalogService{Repo: catRepo, Logger: logger.Named("catalog")}
	evaluator := &promo.DefaultEvaluator{Repo: pRepo}
	promoAdmin := &promo.DefaultAdminService{Repo: pRepo, Logger: logger.Named("promo")}

	appointmentService := &appointment.DefaultAppointmentService{
		Repo:      apptRepo,
		Catalog:   catRepo,
		Users:     userRepo,
		Promos:    evaluator,
		Scheduler: notification.DefaultScheduler{},
		Currency:  config.AppConfig.PaymentCurrency,
		Logger:    logger.Named("appointments"),
	}
	paymentService := &payment.DefaultPaymentService{
		Appointments:   appointmentService,
		Gateway:        payment.StripeGateway{},
		Currency:       config.AppConfig.PaymentCurrency,
		PublishableKey: config.AppConfig.StripePublishableKey,
		Logger:         logger.Named("payments"),
	}
	settingsService := &settings.DefaultSettingsService{
		Repo: setRepo,
		Cache: &settings.RedisCache{
			Client: utils.GetCacheClient(),
			TTL:    time.Duration(config.AppConfig.SettingsCacheTTLSeconds) * time.Second,
		},
		Logger: logger.Named("settings"),
	}
	contentService := &content.DefaultContentService{Repo: cRepo, Logger: logger.Named("content")}

	assetStore, err := storage.NewCloudinaryStore(
		config.AppConfig.CloudinaryCloudName,
		config.AppConfig.CloudinaryAPIKey,
		config.AppConfig.CloudinaryAPISecret,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage: %v", err)
	}
	mediaService := &storage.DefaultMediaService{
		Store:  assetStore,
		Repo:   mRepo,
		Folder: config.AppConfig.MediaFolder,
		Logger: logger.Named("media"),
	}
	analyticsService := &analytics.DefaultAnalyticsService{
		Appointments: apptRepo,
		Reports:      reportRepo,
		Logger:       logger.Named("analytics"),
	}

	// background jobs.
	dispatcher := &notification.Dispatcher{
		Store:     apptRepo,
		Users:     userRepo,
		Senders:   buildSenders(logger),
		BatchSize: config.AppConfig.DispatchBatchSize,
		Logger:    logger.Named("dispatcher"),
	}
	worker, err := cron.NewWorker(dispatcher, analyticsService, logger.Named("worker"))
	if err != nil {
		logger.Sugar().Fatalf("main: failed to create worker: %v", err)
	}
	worker.Start()

	handlerBundle := &handlers.HandlerBundle{
		Verifier:     utils.AuthClient,
		Resolver:     userService,
		Users:        handlers.NewUserHandler(userService),
		Catalog:      handlers.NewCatalogHandler(catalogService),
		Appointments: handlers.NewAppointmentHandler(appointmentService),
		Payments:     handlers.NewPaymentHandler(paymentService, config.AppConfig.StripeWebhookSecret),
		Promos:       handlers.NewPromoHandler(evaluator, promoAdmin),
		Settings:     handlers.NewSettingsHandler(settingsService),
		Content:      handlers.NewContentHandler(contentService),
		Media:        handlers.NewMediaHandler(mediaService),
		Analytics:    handlers.NewAnalyticsHandler(analyticsService),
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))
	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           otelhttp.NewHandler(router, "http.server"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	worker.Shutdown()
	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("main: tracer shutdown failed", zap.Error(err))
	}
	if err := database.MongoClient.Disconnect(ctx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// buildSenders returns the notification channels that have credentials configured.
func buildSenders(logger *zap.Logger) map[string]notification.Sender {
	senders := map[string]notification.Sender{
		models.ChannelPush: notification.NewPushSender(utils.FCMClient),
	}
	if config.AppConfig.SendGridAPIKey != "" {
		senders[models.ChannelEmail] = notification.NewEmailSender(
			config.AppConfig.SendGridAPIKey, config.AppConfig.EmailFrom, config.AppConfig.EmailFromName)
	} else {
		logger.Warn("SENDGRID_API_KEY not set; email notifications disabled")
	}
	if config.AppConfig.TwilioAccountSID != "" {
		senders[models.ChannelSMS] = notification.NewSMSSender(
			config.AppConfig.TwilioAccountSID, config.AppConfig.TwilioAuthToken, config.AppConfig.TwilioFromNumber)
	} else {
		logger.Warn("TWILIO_ACCOUNT_SID not set; SMS notifications disabled")
	}
	return senders
}
