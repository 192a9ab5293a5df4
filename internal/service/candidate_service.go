package service

import (
	"context"
	"encoding/json"

	"votely-be/internal/domain"
	"votely-be/internal/repository"
	"votely-be/pkg/errors"
	"votely-be/pkg/redis"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CandidateService handles catalog management and reads. Catalog reads
// go through a short-TTL Redis snapshot so the realtime layer can poll
// without hammering the store.
type CandidateService struct {
	candidates repository.CandidateRepository
	redis      *redis.Client
	logger     *zap.Logger
}

func NewCandidateService(candidates repository.CandidateRepository, redisClient *redis.Client, logger *zap.Logger) *CandidateService {
	return &CandidateService{candidates: candidates, redis: redisClient, logger: logger}
}

// Create adds a candidate to the catalog. Admin only; the handler
// enforces the role. Names, parties and categories are case-folded.
func (s *CandidateService) Create(ctx context.Context, req *domain.CreateCandidateRequest) (*domain.Candidate, error) {
	if req.Name == "" || req.Party == "" || req.Category == "" || req.Start.IsZero() || req.End.IsZero() {
		return nil, errors.NewValidationError("Please fill in all required fields!", nil)
	}

	name := normalizeText(req.Name)
	party := normalizeText(req.Party)

	exists, err := s.candidates.ExistsByNameOrParty(ctx, name, party)
	if err != nil {
		return nil, errors.NewInternalError("An unexpected error occurred please try again!", err)
	}
	if exists {
		return nil, errors.NewValidationError("This candidate exists already!", nil)
	}

	candidate := &domain.Candidate{
		ID:        uuid.NewString(),
		Name:      name,
		Party:     party,
		Picture:   req.Picture,
		Category:  normalizeText(req.Category),
		StartDate: req.Start,
		EndDate:   req.End,
	}

	if err := s.candidates.Create(ctx, candidate); err != nil {
		s.logger.Error("failed to create candidate", zap.String("name", name), zap.Error(err))
		return nil, errors.NewInternalError("An unexpected error occurred please try again!", err)
	}

	s.InvalidateCatalogCache(ctx)

	s.logger.Info("candidate created",
		zap.String("candidate_id", candidate.ID),
		zap.String("category", candidate.Category))

	return candidate, nil
}

// List returns the full catalog, serving the Redis snapshot when fresh.
func (s *CandidateService) List(ctx context.Context) ([]domain.Candidate, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, s.redis.KeyBuilder.KeyCandidatesAll())
		if err == nil && cached != "" {
			var candidates []domain.Candidate
			if err := json.Unmarshal([]byte(cached), &candidates); err == nil {
				return candidates, nil
			}
		}
	}

	candidates, err := s.candidates.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if data, err := json.Marshal(candidates); err == nil {
			_ = s.redis.Set(ctx, s.redis.KeyBuilder.KeyCandidatesAll(), string(data), redis.TTLCandidates)
		}
	}

	return candidates, nil
}

// GetByID resolves one candidate, returning (nil, nil) when unknown.
func (s *CandidateService) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	return s.candidates.GetByID(ctx, id)
}

// InvalidateCatalogCache drops the catalog snapshot after any catalog
// mutation so the next read sees fresh tallies.
func (s *CandidateService) InvalidateCatalogCache(ctx context.Context) {
	if s.redis == nil {
		return
	}
	err := s.redis.Delete(ctx,
		s.redis.KeyBuilder.KeyCandidatesAll(),
		s.redis.KeyBuilder.KeyLiveStatus(),
	)
	if err != nil {
		s.logger.Warn("failed to invalidate catalog cache", zap.Error(err))
	}
}
