package service

import (
	"testing"
	"time"

	"votely-be/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPartitions(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	candidates := []domain.Candidate{
		{ID: "past", StartDate: now.Add(-3 * time.Hour), EndDate: now.Add(-time.Hour)},
		{ID: "ongoing", StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour)},
		{ID: "upcoming", StartDate: now.Add(time.Hour), EndDate: now.Add(3 * time.Hour)},
		{ID: "starts-now", StartDate: now, EndDate: now.Add(time.Hour)},
		{ID: "ends-now", StartDate: now.Add(-time.Hour), EndDate: now},
	}

	status := Classify(now, candidates)

	ids := func(cs []domain.Candidate) []string {
		out := make([]string, 0, len(cs))
		for _, c := range cs {
			out = append(out, c.ID)
		}
		return out
	}

	assert.ElementsMatch(t, []string{"past"}, ids(status.Past))
	assert.ElementsMatch(t, []string{"ongoing", "starts-now", "ends-now"}, ids(status.Ongoing))
	assert.ElementsMatch(t, []string{"upcoming"}, ids(status.Upcoming))
}

// Every candidate lands in exactly one bucket for any fixed instant.
func TestClassifyTotalAndDisjoint(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	var candidates []domain.Candidate
	for i := -48; i <= 48; i += 3 {
		candidates = append(candidates, domain.Candidate{
			ID:        time.Duration(i).String(),
			StartDate: now.Add(time.Duration(i) * time.Hour),
			EndDate:   now.Add(time.Duration(i+5) * time.Hour),
		})
	}

	status := Classify(now, candidates)

	total := len(status.Ongoing) + len(status.Upcoming) + len(status.Past)
	require.Equal(t, len(candidates), total)

	seen := make(map[string]int)
	for _, bucket := range [][]domain.Candidate{status.Ongoing, status.Upcoming, status.Past} {
		for _, c := range bucket {
			seen[c.ID]++
		}
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "candidate %s appears in %d buckets", id, count)
	}
}

func TestClassifyEmptyCatalog(t *testing.T) {
	status := Classify(time.Now(), nil)

	assert.NotNil(t, status.Ongoing)
	assert.NotNil(t, status.Upcoming)
	assert.NotNil(t, status.Past)
	assert.Empty(t, status.Ongoing)
	assert.Empty(t, status.Upcoming)
	assert.Empty(t, status.Past)
}
