package bot

import (
	"fmt"
	"strings"

	"github.com/uyruai-lang/My-bot/internal/leaderboard"
)

const (
	replySomethingWrong    = "Something went wrong, try again later."
	replyBanned            = "🚫 You are banned from using this bot."
	replyAdminsOnly        = "This command is for admins only."
	replySignUsage         = "Usage: /sign <username>"
	replyAccountNotFound   = "Chess.com account not found."
	replySignedOut         = "You have been signed out."
	replyNotRegisteredSelf = "You have no registered account."
	replyNotRegistered     = "No registered account for this user."
	replyNoRapidRating     = "No rapid rating for this account."
	replyNoPlayers         = "No players registered."
	replyNoRatings         = "No ratings available.\nMake sure the players have played ranked games."
	replyTargetRequired    = "Reply to a user or pass their ID."
	replyNotBanned         = "This user is not banned."
)

func renderElo(name string, rating int) string {
	return fmt.Sprintf("%s (%d ELO)\nRapid", name, rating)
}

// renderReport keeps a fixed shape: every category appears, in order,
// with an explicit "no players" line when it has no entries.
func renderReport(report *leaderboard.Report, n int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏆 Top %d Players\n\n", n)

	for _, standing := range report.Standings {
		fmt.Fprintf(&b, "%s:\n", capitalize(standing.Category.String()))
		if len(standing.Entries) == 0 {
			b.WriteString("  no players\n\n")
			continue
		}
		for i, entry := range standing.Entries {
			fmt.Fprintf(&b, "  %d. %s — %d\n", i+1, entry.Username, entry.Rating)
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
