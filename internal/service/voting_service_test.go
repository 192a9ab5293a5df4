package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"votely-be/internal/domain"
	"votely-be/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memStore is an in-memory stand-in for both repositories plus the
// recorder, with the same uniqueness guarantees the schema enforces.
type memStore struct {
	mu         sync.Mutex
	users      map[string]*domain.User
	candidates map[string]*domain.Candidate
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[string]*domain.User),
		candidates: make(map[string]*domain.Candidate),
	}
}

func copyUser(u *domain.User) *domain.User {
	cp := *u
	cp.Votes = append([]domain.VoteEntry(nil), u.Votes...)
	return &cp
}

func copyCandidate(c *domain.Candidate) *domain.Candidate {
	cp := *c
	cp.Voters = append([]domain.Voter(nil), c.Voters...)
	return &cp
}

func (m *memStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return copyUser(u), nil
}

func (m *memStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (m *memStore) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = copyUser(user)
	return nil
}

func (m *memStore) TouchLastVisited(ctx context.Context, id string) error {
	return nil
}

// candidateStore adapts memStore to the CandidateRepository interface.
type candidateStore struct{ *memStore }

func (m candidateStore) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.candidates[id]
	if !ok {
		return nil, nil
	}
	return copyCandidate(c), nil
}

func (m candidateStore) GetByCategory(ctx context.Context, category string) ([]domain.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Candidate
	for _, c := range m.candidates {
		if c.Category == category {
			out = append(out, *copyCandidate(c))
		}
	}
	return out, nil
}

func (m candidateStore) List(ctx context.Context) ([]domain.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Candidate
	for _, c := range m.candidates {
		out = append(out, *copyCandidate(c))
	}
	return out, nil
}

func (m candidateStore) ExistsByNameOrParty(ctx context.Context, name, party string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.candidates {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m candidateStore) Create(ctx context.Context, candidate *domain.Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.candidates[candidate.ID] = copyCandidate(candidate)
	return nil
}

// RecordVote mirrors the transactional write including the unique-index
// backstops on (candidate, voter) and (user, category).
func (m *memStore) RecordVote(ctx context.Context, candidateID string, voter domain.Voter, entry domain.VoteEntry) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	target, ok := m.candidates[candidateID]
	if !ok {
		return 0, domain.ErrCandidateNotFound
	}
	if target.HasVoter(voter.VoterID) {
		return 0, domain.ErrAlreadyVoted
	}
	user, ok := m.users[voter.VoterID]
	if !ok {
		return 0, domain.ErrUserNotFound
	}
	if user.HasVotedInCategory(entry.Category) {
		return 0, domain.ErrAlreadyVoted
	}

	target.Voters = append(target.Voters, voter)
	target.VoteCount++
	user.Votes = append(user.Votes, entry)

	return target.VoteCount, nil
}

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func seedStore(t *testing.T) *memStore {
	t.Helper()
	store := newMemStore()
	store.users["u1"] = &domain.User{ID: "u1", Email: "u1@example.com", Role: domain.RoleVoter}
	store.users["u2"] = &domain.User{ID: "u2", Email: "u2@example.com", Role: domain.RoleVoter}
	store.candidates["c1"] = &domain.Candidate{
		ID:        "c1",
		Name:      "alice mensah",
		Party:     "progress party",
		Category:  "president",
		StartDate: testNow.Add(-time.Hour),
		EndDate:   testNow.Add(time.Hour),
	}
	store.candidates["c2"] = &domain.Candidate{
		ID:        "c2",
		Name:      "ben okafor",
		Party:     "unity alliance",
		Category:  "president",
		StartDate: testNow.Add(-time.Hour),
		EndDate:   testNow.Add(time.Hour),
	}
	return store
}

func newTestVotingService(store *memStore, redisClient *redis.Client) *VotingService {
	svc := NewVotingService(store, candidateStore{store}, store, redisClient, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func assertTallyInvariant(t *testing.T, store *memStore) {
	t.Helper()
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, c := range store.candidates {
		assert.Equal(t, len(c.Voters), c.VoteCount, "tally out of sync for %s", c.ID)
	}
}

func TestCastVoteSuccess(t *testing.T) {
	store := seedStore(t)
	svc := newTestVotingService(store, nil)

	receipt, err := svc.CastVote(context.Background(), &domain.VoteIntent{
		UserID:      "u1",
		UserEmail:   "u1@example.com",
		Category:    "president",
		CandidateID: "c1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Vote casted successfully!", receipt.Message)
	assert.Equal(t, "president", receipt.Category)
	assert.Equal(t, "alice mensah", receipt.Candidate)
	assert.Equal(t, 1, receipt.VoteCount)

	assert.Equal(t, 1, store.candidates["c1"].VoteCount)
	require.Len(t, store.candidates["c1"].Voters, 1)
	assert.Equal(t, "u1", store.candidates["c1"].Voters[0].VoterID)

	require.Len(t, store.users["u1"].Votes, 1)
	assert.Equal(t, "president", store.users["u1"].Votes[0].Category)

	assertTallyInvariant(t, store)
}

func TestCastVoteSecondCandidateSameCategory(t *testing.T) {
	store := seedStore(t)
	svc := newTestVotingService(store, nil)
	ctx := context.Background()

	_, err := svc.CastVote(ctx, &domain.VoteIntent{UserID: "u1", Category: "president", CandidateID: "c1"})
	require.NoError(t, err)

	_, err = svc.CastVote(ctx, &domain.VoteIntent{UserID: "u1", Category: "president", CandidateID: "c2"})
	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)

	assert.Equal(t, 1, store.candidates["c1"].VoteCount)
	assert.Equal(t, 0, store.candidates["c2"].VoteCount)
	assert.Len(t, store.users["u1"].Votes, 1)
	assertTallyInvariant(t, store)
}

func TestCastVoteWindowRejections(t *testing.T) {
	store := seedStore(t)
	store.candidates["early"] = &domain.Candidate{
		ID:        "early",
		Category:  "treasurer",
		StartDate: testNow.Add(time.Hour),
		EndDate:   testNow.Add(2 * time.Hour),
	}
	store.candidates["late"] = &domain.Candidate{
		ID:        "late",
		Category:  "secretary",
		StartDate: testNow.Add(-2 * time.Hour),
		EndDate:   testNow.Add(-time.Hour),
	}
	svc := newTestVotingService(store, nil)
	ctx := context.Background()

	_, err := svc.CastVote(ctx, &domain.VoteIntent{UserID: "u1", Category: "treasurer", CandidateID: "early"})
	assert.ErrorIs(t, err, domain.ErrVotingNotStarted)

	_, err = svc.CastVote(ctx, &domain.VoteIntent{UserID: "u1", Category: "secretary", CandidateID: "late"})
	assert.ErrorIs(t, err, domain.ErrVotingEnded)

	assert.Empty(t, store.users["u1"].Votes)
	assertTallyInvariant(t, store)
}

func TestCastVoteUnknownUserOutranksExpiredWindow(t *testing.T) {
	store := seedStore(t)
	store.candidates["late"] = &domain.Candidate{
		ID:        "late",
		Category:  "secretary",
		StartDate: testNow.Add(-2 * time.Hour),
		EndDate:   testNow.Add(-time.Hour),
	}
	svc := newTestVotingService(store, nil)

	_, err := svc.CastVote(context.Background(), &domain.VoteIntent{
		UserID:      "ghost",
		Category:    "secretary",
		CandidateID: "late",
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCastVoteUnknownCandidate(t *testing.T) {
	store := seedStore(t)
	svc := newTestVotingService(store, nil)

	_, err := svc.CastVote(context.Background(), &domain.VoteIntent{
		UserID:      "u1",
		Category:    "president",
		CandidateID: "missing",
	})
	assert.ErrorIs(t, err, domain.ErrCandidateNotFound)
}

// Two concurrent casts for the same (user, category) pair must not both
// succeed, even when they target different candidates.
func TestConcurrentCastsSameUserCategory(t *testing.T) {
	store := seedStore(t)
	svc := newTestVotingService(store, nil)

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		candidateID := "c1"
		if i%2 == 1 {
			candidateID = "c2"
		}
		wg.Add(1)
		go func(candidateID string) {
			defer wg.Done()
			_, err := svc.CastVote(context.Background(), &domain.VoteIntent{
				UserID:      "u1",
				Category:    "president",
				CandidateID: candidateID,
			})
			results <- err
		}(candidateID)
	}

	wg.Wait()
	close(results)

	var successes, rejections int
	for err := range results {
		if err == nil {
			successes++
		} else {
			require.ErrorIs(t, err, domain.ErrAlreadyVoted)
			rejections++
		}
	}

	assert.Equal(t, 1, successes, "exactly one concurrent cast may succeed")
	assert.Equal(t, attempts-1, rejections)
	assert.Equal(t, 1, store.candidates["c1"].VoteCount+store.candidates["c2"].VoteCount)
	assert.Len(t, store.users["u1"].Votes, 1)
	assertTallyInvariant(t, store)
}

// Different users in the same category must not serialize each other
// away: both succeed.
func TestConcurrentCastsDifferentUsers(t *testing.T) {
	store := seedStore(t)
	svc := newTestVotingService(store, nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, userID := range []string{"u1", "u2"} {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			_, errs[i] = svc.CastVote(context.Background(), &domain.VoteIntent{
				UserID:      userID,
				Category:    "president",
				CandidateID: "c1",
			})
		}(i, userID)
	}
	wg.Wait()

	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
	assert.Equal(t, 2, store.candidates["c1"].VoteCount)
	assertTallyInvariant(t, store)
}

func TestCastVoteWithRedisMarker(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	redisClient := redis.NewClientFromRDB(rdb, "development", zap.NewNop())

	store := seedStore(t)
	svc := newTestVotingService(store, redisClient)
	ctx := context.Background()

	_, err := svc.CastVote(ctx, &domain.VoteIntent{
		UserID:      "u1",
		UserEmail:   "u1@example.com",
		Category:    "president",
		CandidateID: "c1",
	})
	require.NoError(t, err)

	voted, err := svc.HasVoted(ctx, "u1", "president")
	require.NoError(t, err)
	assert.True(t, voted)

	// The marker key is present and the cast lock has been released.
	assert.True(t, mr.Exists(redisClient.KeyBuilder.KeyUserCategoryVoted("u1", "president")))
	assert.False(t, mr.Exists(redisClient.KeyBuilder.KeyCastLock("u1", "president")))

	_, err = svc.CastVote(ctx, &domain.VoteIntent{UserID: "u1", Category: "president", CandidateID: "c2"})
	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)
}

func TestHasVotedFallsBackToStore(t *testing.T) {
	store := seedStore(t)
	store.users["u1"].Votes = []domain.VoteEntry{{Candidate: "alice mensah", Category: "president"}}
	svc := newTestVotingService(store, nil)

	voted, err := svc.HasVoted(context.Background(), "u1", "President ")
	require.NoError(t, err)
	assert.True(t, voted, "category comparison is case-folded")

	voted, err = svc.HasVoted(context.Background(), "u1", "secretary")
	require.NoError(t, err)
	assert.False(t, voted)

	_, err = svc.HasVoted(context.Background(), "ghost", "president")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLockForReturnsSameMutexPerPair(t *testing.T) {
	store := seedStore(t)
	svc := newTestVotingService(store, nil)

	m1 := svc.lockFor("u1", "president")
	m2 := svc.lockFor("u1", "president")
	m3 := svc.lockFor("u1", "secretary")

	assert.Same(t, m1, m2)
	assert.NotSame(t, m1, m3)
}

func TestCastVoteEmptyIntent(t *testing.T) {
	store := seedStore(t)
	svc := newTestVotingService(store, nil)

	for _, intent := range []*domain.VoteIntent{
		nil,
		{},
		{UserID: "u1"},
		{CandidateID: "c1"},
	} {
		_, err := svc.CastVote(context.Background(), intent)
		assert.Error(t, err, fmt.Sprintf("intent %+v must be rejected", intent))
	}
}
