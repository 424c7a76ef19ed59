//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"zhipin-server/internal/config"
	"zhipin-server/internal/domain/chat"
	"zhipin-server/internal/domain/interview"
	"zhipin-server/internal/domain/recommend"
	"zhipin-server/internal/domain/talent"
	"zhipin-server/internal/infrastructure/auth"
	"zhipin-server/internal/infrastructure/database"
	"zhipin-server/internal/infrastructure/logger"
	"zhipin-server/internal/infrastructure/queue"
	conversationrepo "zhipin-server/internal/infrastructure/repository/conversation"
	jobrepo "zhipin-server/internal/infrastructure/repository/job"
	matchrepo "zhipin-server/internal/infrastructure/repository/match"
	userrepo "zhipin-server/internal/infrastructure/repository/user"
	"zhipin-server/internal/infrastructure/secondme"
	"zhipin-server/internal/interfaces/httpserver"
)

var interviewSet = wire.NewSet(
	conversationrepo.NewRepository,
	wire.Bind(new(interview.Repository), new(*conversationrepo.Repository)),
	jobrepo.NewRepository,
	wire.Bind(new(talent.JobRepository), new(*jobrepo.Repository)),
	matchrepo.NewRepository,
	wire.Bind(new(talent.MatchRepository), new(*matchrepo.Repository)),
	userrepo.NewRepository,
	wire.Bind(new(talent.UserRepository), new(*userrepo.Repository)),
	userrepo.NewProfileRepository,
	wire.Bind(new(talent.ProfileRepository), new(*userrepo.ProfileRepository)),
	newChatClient,
	wire.Bind(new(chat.Capability), new(*secondme.Client)),
	newCredentialProvider,
	wire.Bind(new(chat.CredentialProvider), new(*secondme.CredentialProvider)),
	interview.NewOrchestrator,
	interview.NewEvaluator,
	newInterviewService,
	queue.NewPostgresQueue,
	wire.Bind(new(recommend.TaskEnqueuer), new(*queue.PostgresQueue)),
	newRecommendService,
)

// BuildApplication demonstrates how to assemble the server with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		newAuthValidator,
		interviewSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config) (*gorm.DB, error) {
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

func newChatClient(cfg *config.Config) *secondme.Client {
	return secondme.NewClient(cfg.SecondMeBaseURL)
}

func newCredentialProvider(cfg *config.Config, users talent.UserRepository, log zerolog.Logger) *secondme.CredentialProvider {
	return secondme.NewCredentialProvider(cfg.SecondMeBaseURL, cfg.SecondMeClientID, cfg.SecondMeClientSecret, users, log)
}

func newInterviewService(
	conversations interview.Repository,
	jobs talent.JobRepository,
	profiles talent.ProfileRepository,
	matches talent.MatchRepository,
	credentials chat.CredentialProvider,
	orchestrator *interview.Orchestrator,
	evaluator *interview.Evaluator,
	cfg *config.Config,
	log zerolog.Logger,
) interview.Service {
	return interview.NewService(conversations, jobs, profiles, matches, credentials, orchestrator, evaluator, cfg.InterviewTurns, cfg.MatchThreshold, log)
}

func newRecommendService(
	jobs talent.JobRepository,
	profiles talent.ProfileRepository,
	interviews interview.Service,
	conversations interview.Repository,
	tasks recommend.TaskEnqueuer,
	log zerolog.Logger,
) recommend.Service {
	return recommend.NewService(jobs, profiles, interviews, conversations, tasks, log)
}
