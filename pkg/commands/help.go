package commands

import (
	"strings"

	discord "github.com/bwmarrin/discordgo"

	"github.com/akhilsharma90/go-explain-bot/pkg/bot"
)

const helpCommandName = "helpme"

// helpText lists the prefix commands first, then every slash command.
func helpText(prefix string, commands []*bot.Command) string {
	var b strings.Builder
	b.WriteString("Here are the commands you can use:")

	var slash []string
	for _, cmd := range commands {
		if cmd.IsSlash() {
			slash = append(slash, "/"+cmd.Name)
		}
		if prefix == "" || cmd.MessageHandler == nil {
			continue
		}
		b.WriteString("\n" + prefix + cmd.Name)
		if cmd.Usage != "" {
			b.WriteString(" " + cmd.Usage)
		}
		b.WriteString(" - " + cmd.Description)
	}

	if len(slash) > 0 {
		b.WriteString("\nSlash commands: " + strings.Join(slash, ", "))
	}
	return b.String()
}

// HelpCommand describes the commands registered on router at the time it runs.
func HelpCommand(router *bot.Router) *bot.Command {
	return &bot.Command{
		Name:                     helpCommandName,
		Description:              "Displays this help message.",
		DMPermission:             true,
		DefaultMemberPermissions: discord.PermissionViewChannel,
		Handler: bot.HandlerFunc(func(ctx *bot.Context) {
			if err := ctx.RespondText(helpText(router.Prefix(), router.List()), true); err != nil {
				ctx.Logger.Error().Err(err).Msg("failed to send help")
			}
		}),
		MessageHandler: bot.MessageHandlerFunc(func(ctx *bot.MessageContext) {
			if _, err := ctx.Reply(helpText(router.Prefix(), router.List())); err != nil {
				ctx.Logger.Error().Err(err).Msg("failed to send help")
			}
		}),
	}
}
