package service

import (
	"context"
	"testing"
	"time"

	"votely-be/internal/domain"
	"votely-be/pkg/errors"
	"votely-be/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCandidateService(t *testing.T, store *memStore) (*CandidateService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	client := redis.NewClientFromRDB(rdb, "development", zap.NewNop())
	return NewCandidateService(candidateStore{store}, client, zap.NewNop()), mr
}

func TestCreateCandidateNormalizesAndStores(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestCandidateService(t, store)

	candidate, err := svc.Create(context.Background(), &domain.CreateCandidateRequest{
		Name:     "  Alice MENSAH ",
		Party:    "Progress Party",
		Category: "President",
		Start:    testNow.Add(-time.Hour),
		End:      testNow.Add(time.Hour),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, candidate.ID)
	assert.Equal(t, "alice mensah", candidate.Name)
	assert.Equal(t, "progress party", candidate.Party)
	assert.Equal(t, "president", candidate.Category)
	assert.Contains(t, store.candidates, candidate.ID)
}

func TestCreateCandidateValidation(t *testing.T) {
	svc, _ := newTestCandidateService(t, newMemStore())

	_, err := svc.Create(context.Background(), &domain.CreateCandidateRequest{Name: "alice"})
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
}

func TestCreateCandidateDuplicate(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestCandidateService(t, store)
	ctx := context.Background()

	req := &domain.CreateCandidateRequest{
		Name:     "alice mensah",
		Party:    "progress party",
		Category: "president",
		Start:    testNow.Add(-time.Hour),
		End:      testNow.Add(time.Hour),
	}
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = svc.Create(ctx, req)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
}

func TestListServesCachedSnapshot(t *testing.T) {
	store := seedStore(t)
	svc, mr := newTestCandidateService(t, store)
	ctx := context.Background()

	first, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	// Mutate the store behind the cache; within the TTL the snapshot is
	// still served.
	store.mu.Lock()
	delete(store.candidates, "c2")
	store.mu.Unlock()

	second, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, second, 2, "snapshot served from cache")

	mr.FastForward(redis.TTLCandidates + time.Second)

	third, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, third, 1, "cache expired, store re-read")
}

func TestCreateInvalidatesCatalogCache(t *testing.T) {
	store := seedStore(t)
	svc, _ := newTestCandidateService(t, store)
	ctx := context.Background()

	first, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	_, err = svc.Create(ctx, &domain.CreateCandidateRequest{
		Name:     "kofi addo",
		Party:    "unity front",
		Category: "secretary",
		Start:    testNow.Add(-time.Hour),
		End:      testNow.Add(time.Hour),
	})
	require.NoError(t, err)

	second, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, second, 3, "create drops the snapshot")
}
