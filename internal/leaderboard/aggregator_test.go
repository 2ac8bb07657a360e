package leaderboard_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyruai-lang/My-bot/internal/chesscom"
	"github.com/uyruai-lang/My-bot/internal/leaderboard"
)

// countingFetcher serves canned snapshots and counts calls per username.
type countingFetcher struct {
	mu      sync.Mutex
	known   map[string]chesscom.Snapshot
	fetched map[string]int
}

func newCountingFetcher(known map[string]chesscom.Snapshot) *countingFetcher {
	return &countingFetcher{
		known:   known,
		fetched: map[string]int{},
	}
}

func (f *countingFetcher) FetchStats(_ context.Context, username string) chesscom.Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fetched[username]++
	snap, ok := f.known[username]
	if !ok {
		return chesscom.Result{Outcome: chesscom.OutcomeUnavailable}
	}
	return chesscom.Result{Outcome: chesscom.OutcomeFound, Snapshot: snap}
}

func (f *countingFetcher) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	total := 0
	for _, n := range f.fetched {
		total += n
	}
	return total
}

func TestTopPlayersEmptyRegistry(t *testing.T) {
	fetcher := newCountingFetcher(nil)
	aggregator := leaderboard.New(fetcher, 4)

	_, err := aggregator.TopPlayers(context.Background(), nil, 5)
	require.ErrorIs(t, err, leaderboard.ErrNoPlayers)
	assert.Zero(t, fetcher.totalCalls(), "empty registry must not trigger any fetch")
}

func TestTopPlayersAllFetchesAbsent(t *testing.T) {
	fetcher := newCountingFetcher(nil)
	aggregator := leaderboard.New(fetcher, 4)

	_, err := aggregator.TopPlayers(context.Background(), []string{"alice", "bob"}, 5)
	require.ErrorIs(t, err, leaderboard.ErrNoRatings)
}

func TestTopPlayersNoRatedGames(t *testing.T) {
	// The account exists but holds no rating in any category.
	fetcher := newCountingFetcher(map[string]chesscom.Snapshot{"alice": {}})
	aggregator := leaderboard.New(fetcher, 4)

	_, err := aggregator.TopPlayers(context.Background(), []string{"alice"}, 5)
	require.ErrorIs(t, err, leaderboard.ErrNoRatings)
}

func TestTopPlayersRanking(t *testing.T) {
	fetcher := newCountingFetcher(map[string]chesscom.Snapshot{
		"alice": {chesscom.CategoryRapid: 1500},
		"bob":   {chesscom.CategoryRapid: 1600},
	})
	aggregator := leaderboard.New(fetcher, 4)

	report, err := aggregator.TopPlayers(context.Background(), []string{"alice", "bob"}, 5)
	require.NoError(t, err)
	require.Len(t, report.Standings, 3, "every category appears in the report")

	rapid := report.Standings[0]
	assert.Equal(t, chesscom.CategoryRapid, rapid.Category)
	assert.Equal(t, []leaderboard.Entry{
		{Username: "bob", Rating: 1600},
		{Username: "alice", Rating: 1500},
	}, rapid.Entries)

	// Categories without rated players stay in the report, empty.
	assert.Equal(t, chesscom.CategoryBlitz, report.Standings[1].Category)
	assert.Empty(t, report.Standings[1].Entries)
	assert.Equal(t, chesscom.CategoryBullet, report.Standings[2].Category)
	assert.Empty(t, report.Standings[2].Entries)
}

func TestTopPlayersDeduplicatesUsernames(t *testing.T) {
	fetcher := newCountingFetcher(map[string]chesscom.Snapshot{
		"alice": {chesscom.CategoryBlitz: 1200},
	})
	aggregator := leaderboard.New(fetcher, 4)

	_, err := aggregator.TopPlayers(context.Background(), []string{"alice", "alice", "alice"}, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.fetched["alice"], "one fetch per distinct username")
}

func TestTopPlayersTruncatesToN(t *testing.T) {
	fetcher := newCountingFetcher(map[string]chesscom.Snapshot{
		"a": {chesscom.CategoryBullet: 900},
		"b": {chesscom.CategoryBullet: 1100},
		"c": {chesscom.CategoryBullet: 1000},
	})
	aggregator := leaderboard.New(fetcher, 4)

	report, err := aggregator.TopPlayers(context.Background(), []string{"a", "b", "c"}, 2)
	require.NoError(t, err)

	bullet := report.Standings[2]
	require.Equal(t, chesscom.CategoryBullet, bullet.Category)
	assert.Equal(t, []leaderboard.Entry{
		{Username: "b", Rating: 1100},
		{Username: "c", Rating: 1000},
	}, bullet.Entries)
}

func TestTopPlayersTiesKeepInputOrder(t *testing.T) {
	fetcher := newCountingFetcher(map[string]chesscom.Snapshot{
		"first":  {chesscom.CategoryRapid: 1500},
		"second": {chesscom.CategoryRapid: 1500},
	})

	// Concurrency of 1 and of 4 must produce the same ranking.
	for _, concurrency := range []int{1, 4} {
		aggregator := leaderboard.New(fetcher, concurrency)
		report, err := aggregator.TopPlayers(context.Background(), []string{"first", "second"}, 5)
		require.NoError(t, err)
		assert.Equal(t, []leaderboard.Entry{
			{Username: "first", Rating: 1500},
			{Username: "second", Rating: 1500},
		}, report.Standings[0].Entries)
	}
}
