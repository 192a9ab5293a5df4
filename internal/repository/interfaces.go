package repository

import (
	"context"

	"votely-be/internal/domain"
)

// UserRepository is the identity store consumed by the services. Lookups
// return (nil, nil) for unknown IDs so callers can distinguish a missing
// user from a store failure.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	TouchLastVisited(ctx context.Context, id string) error
}

// CandidateRepository is the catalog store consumed by the services.
// All reads include the voter lists, which the admission check scans.
type CandidateRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Candidate, error)
	GetByCategory(ctx context.Context, category string) ([]domain.Candidate, error)
	List(ctx context.Context) ([]domain.Candidate, error)
	ExistsByNameOrParty(ctx context.Context, name, party string) (bool, error)
	Create(ctx context.Context, candidate *domain.Candidate) error
}

// VoteRecorder applies an admitted vote to both stores as one atomic
// unit: append the voter, bump the tally, append the user's history
// entry. A failure anywhere leaves no partial write.
type VoteRecorder interface {
	RecordVote(ctx context.Context, candidateID string, voter domain.Voter, entry domain.VoteEntry) (int, error)
}
