package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/actinova/admin-backend/api/routes"
	"github.com/actinova/admin-backend/internal/cache"
	"github.com/actinova/admin-backend/internal/config"
	"github.com/actinova/admin-backend/internal/events"
	"github.com/actinova/admin-backend/internal/handlers"
	mongorepo "github.com/actinova/admin-backend/internal/repositories/mongodb"
	"github.com/actinova/admin-backend/internal/services"
	"github.com/actinova/admin-backend/pkg/jwt"
	"github.com/actinova/admin-backend/pkg/mailer"
	mongodb "github.com/actinova/admin-backend/pkg/mongodb"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, err := mongodb.NewClient(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			logger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	db := mongoClient.Database(cfg.MongoDB.Database)

	if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
		logger.Fatal("Failed to ensure indexes", zap.Error(err))
	}

	reportCache, err := cache.New(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	publisher, err := events.New(cfg.RabbitMQ, logger)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("Error closing event publisher", zap.Error(err))
		}
	}()

	mail := mailer.New(cfg.SMTP, cfg.Mail.LogSecrets, logger)
	tokens := jwt.NewTokenService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiresIn)*time.Second)

	// Repositories
	userRepo := mongorepo.NewUserRepository(db)
	adminRepo := mongorepo.NewAdminRepository(db)
	courseRepo := mongorepo.NewCourseRepository(db)
	contactRepo := mongorepo.NewContactRepository(db)
	planRepo := mongorepo.NewPlanRepository(db)
	postRepo := mongorepo.NewPostRepository(db)
	commentRepo := mongorepo.NewCommentRepository(db)
	cardSetRepo := mongorepo.NewCardSetRepository(db)
	testRepo := mongorepo.NewTestRepository(db)
	interactionRepo := mongorepo.NewInteractionRepository(db)
	visitorRepo := mongorepo.NewVisitorRepository(db)
	analyticsRepo := mongorepo.NewAnalyticsRepository(db)
	billingRepo := mongorepo.NewBillingRepository(db)

	// Services
	notifier := services.NewNotifier(mail, publisher, logger)
	authService := services.NewAuthService(adminRepo, tokens, notifier, logger)
	adminService := services.NewAdminService(adminRepo, notifier)
	userService := services.NewUserService(userRepo, cardSetRepo, testRepo, interactionRepo, notifier)
	courseService := services.NewCourseService(courseRepo, logger)
	blogService := services.NewBlogService(postRepo, commentRepo, logger)
	flashcardService := services.NewFlashcardService(cardSetRepo, interactionRepo)
	testService := services.NewTestService(testRepo, interactionRepo)
	planService := services.NewPlanService(planRepo)
	contactService := services.NewContactService(contactRepo, notifier, logger)
	analyticsService := services.NewAnalyticsService(analyticsRepo, billingRepo, reportCache, cfg.Analytics.CacheTTL, logger)
	dashboardService := services.NewDashboardService(analyticsRepo, userRepo, contactRepo, adminRepo, visitorRepo)
	billingService := services.NewBillingService(billingRepo, planRepo)
	notificationService := services.NewNotificationService(userRepo, contactRepo, adminRepo)
	visitorService := services.NewVisitorService(visitorRepo)
	courseService.OnReconcile(analyticsService.Invalidate)

	deps := routes.HandlerDependencies{
		AuthHandler:         handlers.NewAuthHandler(authService),
		AdminHandler:        handlers.NewAdminHandler(adminService),
		UserHandler:         handlers.NewUserHandler(userService),
		CourseHandler:       handlers.NewCourseHandler(courseService),
		BlogHandler:         handlers.NewBlogHandler(blogService),
		ContentHandler:      handlers.NewContentHandler(flashcardService, testService),
		PlanHandler:         handlers.NewPlanHandler(planService),
		ContactHandler:      handlers.NewContactHandler(contactService),
		ReportHandler:       handlers.NewReportHandler(analyticsService, dashboardService, billingService),
		NotificationHandler: handlers.NewNotificationHandler(notificationService, visitorService),
	}
	guards := routes.Guards{Tokens: tokens, Admins: adminRepo, Reports: analyticsService, DB: mongoClient}
	router := routes.SetupRouter(cfg, deps, guards, logger)

	reconcilerDone := make(chan struct{})
	go func() {
		defer close(reconcilerDone)
		courseService.RunReconciler(ctx, cfg.Catalog.ReconcileInterval)
	}()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server stopped unexpectedly", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	<-reconcilerDone
	notifier.Wait()
	logger.Info("Server exiting")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.IsDevelopment() {
		zapCfg = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zapCfg.Level = level
	zapCfg.OutputPaths = []string{"stdout"}
	return zapCfg.Build(zap.Fields(zap.String("service", "actinova-admin")))
}
