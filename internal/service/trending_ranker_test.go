package service

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankTrending_DenseDescending(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	scored := make([]ScoredVideo, 200)
	for i := range scored {
		scored[i] = ScoredVideo{VideoID: "v" + strconv.Itoa(i), Score: float64(rng.Intn(50))}
	}

	entries := RankTrending(scored, Partition{Period: "daily"}, testNow)

	require.Len(t, entries, len(scored))
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
		assert.Equal(t, "daily", e.Period)
		assert.Empty(t, e.Category)
		assert.Equal(t, testNow, e.ComputedAt)
		if i > 0 {
			prev := entries[i-1]
			assert.GreaterOrEqual(t, prev.Score, e.Score)
			if prev.Score == e.Score {
				assert.Less(t, prev.VideoID, e.VideoID)
			}
		}
	}
}

func TestRankTrending_Scenario(t *testing.T) {
	scored := []ScoredVideo{{VideoID: "a", Score: 550}, {VideoID: "b", Score: 2300}}

	entries := RankTrending(scored, Partition{Period: "weekly", Category: "music"}, testNow)

	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].VideoID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "a", entries[1].VideoID)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, "music", entries[1].Category)
	assert.Equal(t, "weekly", entries[1].Period)
}

func TestRankTrending_TieBreakByVideoID(t *testing.T) {
	scored := []ScoredVideo{{VideoID: "c", Score: 1}, {VideoID: "a", Score: 1}, {VideoID: "b", Score: 1}}

	entries := RankTrending(scored, Partition{Period: "daily"}, testNow)

	ids := []string{entries[0].VideoID, entries[1].VideoID, entries[2].VideoID}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	// 入参顺序不变
	assert.Equal(t, "c", scored[0].VideoID)
}

func TestRankTrending_Empty(t *testing.T) {
	assert.Empty(t, RankTrending(nil, Partition{Period: "daily"}, testNow))
}

func TestNewPartition(t *testing.T) {
	p, err := NewPartition(" Daily ", " music ")
	require.NoError(t, err)
	assert.Equal(t, Partition{Period: "daily", Category: "music"}, p)
	assert.Equal(t, "daily:music", p.Key())

	p, err = NewPartition("monthly", "")
	require.NoError(t, err)
	assert.Equal(t, "monthly:", p.Key())

	_, err = NewPartition("hourly", "")
	assert.ErrorIs(t, err, ErrPeriodInvalid)

	long := make([]rune, 65)
	for i := range long {
		long[i] = '音'
	}
	_, err = NewPartition("daily", string(long))
	assert.ErrorIs(t, err, ErrParamInvalid)
}
