package leaderboard

import (
	"context"
	"errors"
	"sort"

	"github.com/uyruai-lang/My-bot/internal/chesscom"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoPlayers means nobody is registered; no fetches are made.
	ErrNoPlayers = errors.New("no players registered")
	// ErrNoRatings means every fetch came back absent or unrated.
	ErrNoRatings = errors.New("no ratings available")
)

type StatsFetcher interface {
	FetchStats(ctx context.Context, username string) chesscom.Result
}

type Entry struct {
	Username string `json:"username"`
	Rating   int    `json:"rating"`
}

type Standing struct {
	Category chesscom.Category `json:"category"`
	Entries  []Entry           `json:"entries"`
}

// Report always contains one Standing per category, in the fixed
// category order, even when a category has no rated players.
type Report struct {
	Standings []Standing `json:"standings"`
}

type Aggregator struct {
	fetcher     StatsFetcher
	concurrency int
}

func New(fetcher StatsFetcher, concurrency int) *Aggregator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Aggregator{
		fetcher:     fetcher,
		concurrency: concurrency,
	}
}

// TopPlayers fetches every distinct username once and ranks the top n per
// category. Results are collected by input position, so the ranking does
// not depend on fetch completion order. Ties keep input order.
func (a *Aggregator) TopPlayers(ctx context.Context, usernames []string, n int) (*Report, error) {
	if len(usernames) == 0 {
		return nil, ErrNoPlayers
	}

	distinct := dedupe(usernames)
	snapshots := make([]chesscom.Snapshot, len(distinct))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, username := range distinct {
		i, username := i, username
		g.Go(func() error {
			result := a.fetcher.FetchStats(gctx, username)
			if !result.Absent() {
				snapshots[i] = result.Snapshot
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{}
	hasRatings := false
	for _, cat := range chesscom.Categories() {
		var entries []Entry
		for i, snap := range snapshots {
			if rating, ok := snap.Rating(cat); ok {
				entries = append(entries, Entry{Username: distinct[i], Rating: rating})
			}
		}

		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Rating > entries[j].Rating
		})
		if len(entries) > n {
			entries = entries[:n]
		}
		if len(entries) > 0 {
			hasRatings = true
		}

		report.Standings = append(report.Standings, Standing{Category: cat, Entries: entries})
	}

	if !hasRatings {
		return nil, ErrNoRatings
	}

	return report, nil
}

func dedupe(usernames []string) []string {
	seen := make(map[string]struct{}, len(usernames))
	distinct := make([]string, 0, len(usernames))
	for _, username := range usernames {
		if _, ok := seen[username]; ok {
			continue
		}
		seen[username] = struct{}{}
		distinct = append(distinct, username)
	}
	return distinct
}
