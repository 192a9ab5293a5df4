package service

import (
	"context"
	"time"

	"votely-be/internal/domain"
	"votely-be/internal/repository"

	"go.uber.org/zap"
)

// LiveService classifies the catalog into ongoing, upcoming and past
// races. The classification is stateless and recomputed per call.
type LiveService struct {
	candidates repository.CandidateRepository
	logger     *zap.Logger
	now        func() time.Time
}

func NewLiveService(candidates repository.CandidateRepository, logger *zap.Logger) *LiveService {
	return &LiveService{
		candidates: candidates,
		logger:     logger,
		now:        time.Now,
	}
}

// Snapshot fetches the catalog and classifies it at the current instant.
func (s *LiveService) Snapshot(ctx context.Context) (*domain.LiveStatus, error) {
	candidates, err := s.candidates.List(ctx)
	if err != nil {
		s.logger.Error("failed to fetch catalog for live status", zap.Error(err))
		return nil, err
	}
	return Classify(s.now(), candidates), nil
}

// Classify partitions candidates by their admission window relative to
// now. The partition is total and disjoint: startDate > now is upcoming,
// endDate < now is past, everything else is ongoing.
func Classify(now time.Time, candidates []domain.Candidate) *domain.LiveStatus {
	status := &domain.LiveStatus{
		Ongoing:  []domain.Candidate{},
		Upcoming: []domain.Candidate{},
		Past:     []domain.Candidate{},
	}

	for _, c := range candidates {
		switch {
		case c.StartDate.After(now):
			status.Upcoming = append(status.Upcoming, c)
		case c.EndDate.Before(now):
			status.Past = append(status.Past, c)
		default:
			status.Ongoing = append(status.Ongoing, c)
		}
	}

	return status
}
