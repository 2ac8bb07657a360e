package bot

type Command string

const (
	CommandSign    Command = "/sign"
	CommandSignOut Command = "/signout"
	CommandUser    Command = "/user"
	CommandElo     Command = "/elo"
	CommandTopElo  Command = "/topelo"
	CommandBan     Command = "/ban"
	CommandUnban   Command = "/unban"
)

func (c Command) String() string {
	return string(c)
}
