package chesscom

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const userAgent = "MyChessBot/1.0"

type Category string

const (
	CategoryRapid  Category = "rapid"
	CategoryBlitz  Category = "blitz"
	CategoryBullet Category = "bullet"
)

func (c Category) String() string {
	return string(c)
}

// Categories returns the rated time controls in report order.
func Categories() []Category {
	return []Category{CategoryRapid, CategoryBlitz, CategoryBullet}
}

// Snapshot holds the ratings present in a single stats response.
// A missing category means the player has no rated games there.
type Snapshot map[Category]int

func (s Snapshot) Rating(cat Category) (int, bool) {
	rating, ok := s[cat]
	return rating, ok
}

type Outcome string

const (
	// OutcomeFound means the account exists and Snapshot is populated.
	OutcomeFound Outcome = "found"
	// OutcomeNotFound means the API answered 404 for the username.
	OutcomeNotFound Outcome = "not_found"
	// OutcomeUnavailable covers transport errors, timeouts, other
	// non-success statuses and unparseable bodies.
	OutcomeUnavailable Outcome = "unavailable"
)

type Result struct {
	Outcome  Outcome
	Snapshot Snapshot
}

// Absent reports whether the fetch produced no usable data. The bot treats
// a missing account and an unreachable API the same way.
func (r Result) Absent() bool {
	return r.Outcome != OutcomeFound
}

// Client fetches per-player rating statistics from the chess.com public API.
type Client struct {
	client *resty.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("User-Agent", userAgent),
	}
}

type lastRating struct {
	Rating int `json:"rating"`
}

type categoryStats struct {
	Last *lastRating `json:"last"`
}

type playerStatsResponse struct {
	ChessRapid  *categoryStats `json:"chess_rapid"`
	ChessBlitz  *categoryStats `json:"chess_blitz"`
	ChessBullet *categoryStats `json:"chess_bullet"`
}

func (r *playerStatsResponse) snapshot() Snapshot {
	snap := Snapshot{}
	for cat, stats := range map[Category]*categoryStats{
		CategoryRapid:  r.ChessRapid,
		CategoryBlitz:  r.ChessBlitz,
		CategoryBullet: r.ChessBullet,
	} {
		if stats != nil && stats.Last != nil && stats.Last.Rating > 0 {
			snap[cat] = stats.Last.Rating
		}
	}
	return snap
}

// FetchStats never returns an error: every failure mode collapses into
// an absent Result, and the caller decides how to phrase "no data".
func (c *Client) FetchStats(ctx context.Context, username string) Result {
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("username", username).
		SetResult(&playerStatsResponse{}).
		Get("/pub/player/{username}/stats")
	if err != nil {
		logrus.Debugf("fetching stats for %q: %v", username, err)
		return Result{Outcome: OutcomeUnavailable}
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return Result{Outcome: OutcomeNotFound}
	case resp.StatusCode() != http.StatusOK:
		logrus.Debugf("fetching stats for %q: unexpected status %d", username, resp.StatusCode())
		return Result{Outcome: OutcomeUnavailable}
	}

	stats, ok := resp.Result().(*playerStatsResponse)
	if !ok || stats == nil {
		return Result{Outcome: OutcomeUnavailable}
	}

	return Result{Outcome: OutcomeFound, Snapshot: stats.snapshot()}
}
