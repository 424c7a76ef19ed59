package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"zhipin-server/internal/config"
	"zhipin-server/internal/domain/interview"
	"zhipin-server/internal/domain/recommend"
	"zhipin-server/internal/infrastructure/auth"
	"zhipin-server/internal/infrastructure/database"
	"zhipin-server/internal/infrastructure/logger"
	"zhipin-server/internal/infrastructure/observability"
	"zhipin-server/internal/infrastructure/queue"
	conversationrepo "zhipin-server/internal/infrastructure/repository/conversation"
	jobrepo "zhipin-server/internal/infrastructure/repository/job"
	matchrepo "zhipin-server/internal/infrastructure/repository/match"
	userrepo "zhipin-server/internal/infrastructure/repository/user"
	"zhipin-server/internal/infrastructure/secondme"
	"zhipin-server/internal/interfaces/httpserver"
	"zhipin-server/internal/worker"
)

// @title Zhipin Server
// @version 1.0
// @description Runs AI candidate/employer interview conversations over SecondMe and scores job matches.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(ctx, database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	userRepository := userrepo.NewRepository(db)
	profileRepository := userrepo.NewProfileRepository(db)
	jobRepository := jobrepo.NewRepository(db)
	matchRepository := matchrepo.NewRepository(db)
	conversationRepository := conversationrepo.NewRepository(db)

	chatClient := secondme.NewClient(cfg.SecondMeBaseURL)
	credentials := secondme.NewCredentialProvider(
		cfg.SecondMeBaseURL,
		cfg.SecondMeClientID,
		cfg.SecondMeClientSecret,
		userRepository,
		log,
	)

	orchestrator := interview.NewOrchestrator(chatClient, log)
	evaluator := interview.NewEvaluator(chatClient, log)
	interviewService := interview.NewService(
		conversationRepository,
		jobRepository,
		profileRepository,
		matchRepository,
		credentials,
		orchestrator,
		evaluator,
		cfg.InterviewTurns,
		cfg.MatchThreshold,
		log,
	)

	taskQueue := queue.NewPostgresQueue(db, log)
	recommendService := recommend.NewService(
		jobRepository,
		profileRepository,
		interviewService,
		conversationRepository,
		taskQueue,
		log,
	)

	workerPool := worker.NewPool(
		taskQueue,
		interviewService,
		worker.Config{
			WorkerCount: cfg.InterviewWorkers,
			TaskTimeout: cfg.InterviewTaskTTL,
		},
		log,
	)

	if err := workerPool.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("start worker pool")
	}
	defer func() {
		log.Info().Msg("stopping worker pool")
		workerPool.Stop()
	}()

	httpServer := httpserver.New(
		cfg,
		log,
		interviewService,
		recommendService,
		jobRepository,
		profileRepository,
		matchRepository,
		authValidator,
	)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
