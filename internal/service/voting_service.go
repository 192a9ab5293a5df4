package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"votely-be/internal/domain"
	"votely-be/internal/repository"
	"votely-be/pkg/redis"

	"go.uber.org/zap"
)

// VotingService coordinates a single vote attempt: fetch, admit, and
// apply both store writes atomically. It owns the only mutation path
// for tallies, voter lists and vote history.
//
// The check-then-act region is serialized per (userID, category) two
// ways: an in-process keyed mutex closes the race between concurrent
// casts on this instance, and a short-lived Redis SetNX lock backstops
// it across instances. The database unique indexes remain the final
// guarantee if both are bypassed.
type VotingService struct {
	users      repository.UserRepository
	candidates repository.CandidateRepository
	recorder   repository.VoteRecorder
	redis      *redis.Client
	logger     *zap.Logger
	now        func() time.Time

	mu       sync.Mutex
	inFlight map[string]*sync.Mutex
}

func NewVotingService(
	users repository.UserRepository,
	candidates repository.CandidateRepository,
	recorder repository.VoteRecorder,
	redisClient *redis.Client,
	logger *zap.Logger,
) *VotingService {
	return &VotingService{
		users:      users,
		candidates: candidates,
		recorder:   recorder,
		redis:      redisClient,
		logger:     logger,
		now:        time.Now,
		inFlight:   make(map[string]*sync.Mutex),
	}
}

// CastVote runs one vote attempt end to end and returns a receipt on
// success. Rejections come back as the sentinel errors in domain;
// nothing is mutated on any rejection path. The receipt is the caller's
// to broadcast; this service does no fan-out of its own.
func (s *VotingService) CastVote(ctx context.Context, intent *domain.VoteIntent) (*domain.VoteReceipt, error) {
	if intent == nil || intent.UserID == "" || intent.CandidateID == "" {
		return nil, domain.ErrUserNotFound
	}
	category := normalizeText(intent.Category)

	lock := s.lockFor(intent.UserID, category)
	lock.Lock()
	defer lock.Unlock()

	acquired, release, err := s.tryCastLock(ctx, intent.UserID, category)
	if err != nil {
		s.logger.Warn("cast lock unavailable, relying on local serialization",
			zap.String("user_id", intent.UserID),
			zap.Error(err))
	} else if !acquired {
		return nil, domain.ErrCastInFlight
	} else {
		defer release()
	}

	user, err := s.users.GetByID(ctx, intent.UserID)
	if err != nil {
		return nil, err
	}

	target, err := s.candidates.GetByID(ctx, intent.CandidateID)
	if err != nil {
		return nil, err
	}

	var mates []domain.Candidate
	if target != nil {
		// The cross-candidate scan uses the target's stored category,
		// not the client-supplied one.
		mates, err = s.candidates.GetByCategory(ctx, target.Category)
		if err != nil {
			return nil, err
		}
	}

	decision := CheckAdmission(s.now(), intent.UserID, user, target, mates)
	if decision != Admit {
		s.logger.Info("vote rejected",
			zap.String("user_id", intent.UserID),
			zap.String("candidate_id", intent.CandidateID),
			zap.String("decision", decision.String()))
		return nil, decision.Err()
	}

	voter := domain.Voter{
		VoterID:      user.ID,
		VoterEmail:   intent.UserEmail,
		VoterPicture: user.Picture,
	}
	entry := domain.VoteEntry{
		Candidate:      target.Name,
		CandidateParty: target.Party,
		Category:       target.Category,
	}

	voteCount, err := s.recorder.RecordVote(ctx, target.ID, voter, entry)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyVoted) || errors.Is(err, domain.ErrCandidateNotFound) {
			return nil, err
		}
		s.logger.Error("failed to record vote",
			zap.String("user_id", intent.UserID),
			zap.String("candidate_id", intent.CandidateID),
			zap.Error(err))
		return nil, err
	}

	s.markVoted(ctx, user.ID, target.Category)

	s.logger.Info("vote cast",
		zap.String("user_id", user.ID),
		zap.String("candidate_id", target.ID),
		zap.String("category", target.Category),
		zap.Int("vote_count", voteCount))

	return &domain.VoteReceipt{
		Message:   "Vote casted successfully!",
		Category:  target.Category,
		Candidate: target.Name,
		VoteCount: voteCount,
		CastAt:    s.now(),
	}, nil
}

// HasVoted reports whether the user already holds a vote in the
// category, consulting the Redis marker before the store.
func (s *VotingService) HasVoted(ctx context.Context, userID, category string) (bool, error) {
	category = normalizeText(category)

	if s.redis != nil {
		key := s.redis.KeyBuilder.KeyUserCategoryVoted(userID, category)
		if n, err := s.redis.Exists(ctx, key); err == nil && n > 0 {
			return true, nil
		}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, domain.ErrUserNotFound
	}
	return user.HasVotedInCategory(category), nil
}

// lockFor returns the mutex serializing casts for one (user, category)
// pair. Entries are never evicted; the map is bounded by users times
// categories.
func (s *VotingService) lockFor(userID, category string) *sync.Mutex {
	key := userID + "\x00" + category
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.inFlight[key]; ok {
		return m
	}
	m := &sync.Mutex{}
	s.inFlight[key] = m
	return m
}

func (s *VotingService) tryCastLock(ctx context.Context, userID, category string) (bool, func(), error) {
	if s.redis == nil {
		return true, func() {}, nil
	}
	key := s.redis.KeyBuilder.KeyCastLock(userID, category)
	ok, err := s.redis.SetNX(ctx, key, "1", redis.TTLCastLock)
	if err != nil {
		return false, nil, err
	}
	release := func() {
		relCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.redis.Delete(relCtx, key)
	}
	return ok, release, nil
}

func (s *VotingService) markVoted(ctx context.Context, userID, category string) {
	if s.redis == nil {
		return
	}
	key := s.redis.KeyBuilder.KeyUserCategoryVoted(userID, category)
	if err := s.redis.Set(ctx, key, "1", redis.TTLUserVote); err != nil {
		s.logger.Warn("failed to cache vote marker",
			zap.String("user_id", userID),
			zap.Error(err))
	}

	// Tallies changed, so the catalog snapshot is stale.
	if err := s.redis.Delete(ctx, s.redis.KeyBuilder.KeyCandidatesAll(), s.redis.KeyBuilder.KeyLiveStatus()); err != nil {
		s.logger.Warn("failed to invalidate catalog cache", zap.Error(err))
	}
}

// normalizeText case-folds and trims free text the way candidate names
// and categories are stored.
func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
