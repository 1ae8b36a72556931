package ranking

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aydsapp/trivia-server/internal/db/repository"
)

type fakeRankingStore struct {
	entries   []repository.RankingEntry
	inserted  int
	topCalls  int
	lastLimit int
	err       error
}

func (f *fakeRankingStore) Insert(_ context.Context, _ uuid.UUID, _ int32, score int) error {
	if f.err != nil {
		return f.err
	}
	f.inserted++
	f.entries = append(f.entries, repository.RankingEntry{Username: "player", Score: score, CreatedAt: time.Now()})
	return nil
}

func (f *fakeRankingStore) Top(_ context.Context, _ int32, limit int) ([]repository.RankingEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.topCalls++
	f.lastLimit = limit
	return f.entries, nil
}

func TestRecordScoreInsertsWithoutCache(t *testing.T) {
	store := &fakeRankingStore{}
	svc := NewService(store, nil, ServiceOptions{}, zerolog.New(io.Discard))

	err := svc.RecordScore(context.Background(), uuid.New(), 1, 120)
	require.NoError(t, err)
	assert.Equal(t, 1, store.inserted)
}

func TestRecordScorePropagatesStoreError(t *testing.T) {
	store := &fakeRankingStore{err: errors.New("down")}
	svc := NewService(store, nil, ServiceOptions{}, zerolog.New(io.Discard))

	err := svc.RecordScore(context.Background(), uuid.New(), 1, 120)
	assert.Error(t, err)
}

func TestTopUsesConfiguredLimit(t *testing.T) {
	store := &fakeRankingStore{entries: []repository.RankingEntry{
		{Username: "first", Score: 200},
		{Username: "second", Score: 180},
	}}
	svc := NewService(store, nil, ServiceOptions{TopN: 5}, zerolog.New(io.Discard))

	entries, err := svc.Top(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Username)
	assert.Equal(t, 5, store.lastLimit)
}

func TestTopDefaultsLimit(t *testing.T) {
	store := &fakeRankingStore{}
	svc := NewService(store, nil, ServiceOptions{}, zerolog.New(io.Discard))

	_, err := svc.Top(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, defaultTopN, store.lastLimit)
}
