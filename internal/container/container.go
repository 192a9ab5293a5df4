package container

import (
	"context"

	"votely-be/internal/config"
	"votely-be/internal/realtime"
	"votely-be/internal/repository"
	"votely-be/internal/service"
	"votely-be/internal/service/auth"
	"votely-be/pkg/database"
	"votely-be/pkg/logger"
	"votely-be/pkg/redis"
)

// Container wires all application dependencies.
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          *database.PostgresDB
	RedisClient *redis.Client

	Tokens     *auth.Service
	Users      *service.UserService
	Candidates *service.CandidateService
	Voting     *service.VotingService
	Live       *service.LiveService

	Hub        *realtime.Hub
	Dispatcher *realtime.Dispatcher
}

// New builds the dependency graph. Redis is optional: without it the
// coordinator falls back to in-process serialization plus the database
// unique indexes.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Redis client, proceeding without caching")
		} else {
			redisClient = client
			log.Info("Redis client initialized successfully")
		}
	} else {
		log.Info("Redis URL not configured, proceeding without caching")
	}

	userRepo := repository.NewUserRepository(db)
	candidateRepo := repository.NewCandidateRepository(db)
	voteRecorder := repository.NewVoteRecorder(db)

	tokens := auth.NewService(cfg.JWTSecret, log)
	users := service.NewUserService(userRepo, tokens, log.Logger)
	candidates := service.NewCandidateService(candidateRepo, redisClient, log.Logger)
	voting := service.NewVotingService(userRepo, candidateRepo, voteRecorder, redisClient, log.Logger)
	live := service.NewLiveService(candidateRepo, log.Logger)

	hub := realtime.NewHub(log)
	dispatcher := realtime.NewDispatcher(users, candidates, voting, live, hub, log)

	return &Container{
		Config:      cfg,
		Logger:      log,
		DB:          db,
		RedisClient: redisClient,
		Tokens:      tokens,
		Users:       users,
		Candidates:  candidates,
		Voting:      voting,
		Live:        live,
		Hub:         hub,
		Dispatcher:  dispatcher,
	}, nil
}
