package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/uyruai-lang/My-bot/internal/chesscom"
	"github.com/uyruai-lang/My-bot/internal/config"
	"github.com/uyruai-lang/My-bot/internal/leaderboard"
	"github.com/uyruai-lang/My-bot/internal/registry"
	"gopkg.in/telebot.v4"
)

type StatsFetcher interface {
	FetchStats(ctx context.Context, username string) chesscom.Result
}

// Dispatcher routes bot commands to the registries and the aggregator
// and turns their results into replies.
type Dispatcher struct {
	config     *config.Config
	registry   *registry.Service
	fetcher    StatsFetcher
	aggregator *leaderboard.Aggregator
}

func New(
	cfg *config.Config,
	reg *registry.Service,
	fetcher StatsFetcher,
	aggregator *leaderboard.Aggregator,
) *Dispatcher {
	return &Dispatcher{
		config:     cfg,
		registry:   reg,
		fetcher:    fetcher,
		aggregator: aggregator,
	}
}

func (d *Dispatcher) Register(bot *telebot.Bot) {
	bot.Handle(CommandSign.String(), d.userCommand(d.HandleSign))
	bot.Handle(CommandSignOut.String(), d.userCommand(d.HandleSignOut))
	bot.Handle(CommandUser.String(), d.userCommand(d.HandleUser))
	bot.Handle(CommandElo.String(), d.userCommand(d.HandleElo))
	bot.Handle(CommandTopElo.String(), d.userCommand(d.HandleTopElo))
	bot.Handle(CommandBan.String(), d.adminCommand(d.HandleBan))
	bot.Handle(CommandUnban.String(), d.adminCommand(d.HandleUnban))
}

// userCommand wraps a handler with the per-update context and the banned
// guard. The guard runs before anything else touches the registries.
func (d *Dispatcher) userCommand(fn func(*UpdateContext) error) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		ctx, cancel := context.WithTimeout(context.Background(), d.config.BotHandleTimeout)
		defer cancel()

		uc := NewUpdateContext(ctx, c)

		banned, err := d.registry.IsBanned(uc, uc.Sender().ID)
		if err != nil {
			uc.L().Errorf("failed to check ban: %v", err)
			return c.Send(replySomethingWrong)
		}
		if banned {
			return c.Send(replyBanned)
		}

		if err := fn(uc); err != nil {
			uc.L().Errorf("failed to handle command: %v", err)
			return c.Send(replySomethingWrong)
		}
		return nil
	}
}

// adminCommand rejects non-administrators before any registry access.
func (d *Dispatcher) adminCommand(fn func(*UpdateContext) error) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		ctx, cancel := context.WithTimeout(context.Background(), d.config.BotHandleTimeout)
		defer cancel()

		uc := NewUpdateContext(ctx, c)

		if !d.config.IsAdmin(uc.Sender().ID) {
			uc.L().Warnf("non-admin %d attempted %q", uc.Sender().ID, uc.Message().Text)
			return c.Send(replyAdminsOnly)
		}

		if err := fn(uc); err != nil {
			uc.L().Errorf("failed to handle admin command: %v", err)
			return c.Send(replySomethingWrong)
		}
		return nil
	}
}

func (d *Dispatcher) HandleSign(uc *UpdateContext) error {
	args := uc.TC().Args()
	if len(args) != 1 {
		return uc.TC().Send(replySignUsage)
	}

	username, err := d.registry.Register(uc, uc.Sender().ID, args[0])
	if errors.Is(err, registry.ErrAccountUnconfirmed) {
		return uc.TC().Send(replyAccountNotFound)
	}
	if err != nil {
		return err
	}

	uc.L().Infof("user %d linked chess account %q", uc.Sender().ID, username)
	return uc.TC().Send("Account registered: " + username)
}

func (d *Dispatcher) HandleSignOut(uc *UpdateContext) error {
	existed, err := d.registry.Unregister(uc, uc.Sender().ID)
	if err != nil {
		return err
	}
	if !existed {
		return uc.TC().Send(replyNotRegisteredSelf)
	}

	uc.L().Infof("user %d unlinked their chess account", uc.Sender().ID)
	return uc.TC().Send(replySignedOut)
}

func (d *Dispatcher) HandleUser(uc *UpdateContext) error {
	target := d.resolveTarget(uc)

	username, err := d.registry.Lookup(uc, target.ID)
	if errors.Is(err, registry.ErrNotRegistered) {
		return uc.TC().Send(replyNotRegistered)
	}
	if err != nil {
		return err
	}

	return uc.TC().Send("Registered account: " + username)
}

func (d *Dispatcher) HandleElo(uc *UpdateContext) error {
	target := d.resolveTarget(uc)

	username, err := d.registry.Lookup(uc, target.ID)
	if errors.Is(err, registry.ErrNotRegistered) {
		return uc.TC().Send(replyNotRegistered)
	}
	if err != nil {
		return err
	}

	result := d.fetcher.FetchStats(uc, username)
	rating, ok := result.Snapshot.Rating(chesscom.CategoryRapid)
	if result.Absent() || !ok {
		return uc.TC().Send(replyNoRapidRating)
	}

	return uc.TC().Send(renderElo(displayName(target), rating))
}

func (d *Dispatcher) HandleTopElo(uc *UpdateContext) error {
	usernames, err := d.registry.RegisteredUsernames(uc)
	if err != nil {
		return err
	}

	report, err := d.aggregator.TopPlayers(uc, usernames, d.config.LeaderboardSize)
	switch {
	case errors.Is(err, leaderboard.ErrNoPlayers):
		return uc.TC().Send(replyNoPlayers)
	case errors.Is(err, leaderboard.ErrNoRatings):
		return uc.TC().Send(replyNoRatings)
	case err != nil:
		return err
	}

	return uc.TC().Send(renderReport(report, d.config.LeaderboardSize))
}

func (d *Dispatcher) HandleBan(uc *UpdateContext) error {
	targetID, ok := d.resolveTargetID(uc)
	if !ok {
		return uc.TC().Send(replyTargetRequired)
	}

	if err := d.registry.Ban(uc, targetID); err != nil {
		return err
	}

	uc.L().Infof("admin %d banned user %d", uc.Sender().ID, targetID)
	return uc.TC().Send("Banned user " + strconv.FormatInt(targetID, 10))
}

func (d *Dispatcher) HandleUnban(uc *UpdateContext) error {
	targetID, ok := d.resolveTargetID(uc)
	if !ok {
		return uc.TC().Send(replyTargetRequired)
	}

	existed, err := d.registry.Unban(uc, targetID)
	if err != nil {
		return err
	}
	if !existed {
		return uc.TC().Send(replyNotBanned)
	}

	uc.L().Infof("admin %d unbanned user %d", uc.Sender().ID, targetID)
	return uc.TC().Send("Lifted the ban for user " + strconv.FormatInt(targetID, 10))
}

// resolveTarget picks the replied-to user when the command is a reply,
// otherwise the sender themselves.
func (d *Dispatcher) resolveTarget(uc *UpdateContext) *telebot.User {
	if msg := uc.Message(); msg != nil && msg.ReplyTo != nil && msg.ReplyTo.Sender != nil {
		return msg.ReplyTo.Sender
	}
	return uc.Sender()
}

// resolveTargetID resolves the admin-command target: the replied-to user
// or a numeric ID argument.
func (d *Dispatcher) resolveTargetID(uc *UpdateContext) (int64, bool) {
	if msg := uc.Message(); msg != nil && msg.ReplyTo != nil && msg.ReplyTo.Sender != nil {
		return msg.ReplyTo.Sender.ID, true
	}
	if args := uc.TC().Args(); len(args) > 0 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err == nil {
			return id, true
		}
	}
	return 0, false
}

func displayName(u *telebot.User) string {
	if u.Username != "" {
		return "@" + u.Username
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
