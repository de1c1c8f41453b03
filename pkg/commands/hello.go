package commands

import (
	"fmt"

	discord "github.com/bwmarrin/discordgo"

	"github.com/akhilsharma90/go-explain-bot/pkg/bot"
	"github.com/akhilsharma90/go-explain-bot/pkg/utils"
)

const helloCommandName = "hello"

func greeting(u *discord.User) string {
	return fmt.Sprintf("Hello %s! 👋", utils.Mention(u))
}

func HelloCommand() *bot.Command {
	return &bot.Command{
		Name:                     helloCommandName,
		Description:              "Greets the user.",
		DMPermission:             true,
		DefaultMemberPermissions: discord.PermissionViewChannel,
		Handler: bot.HandlerFunc(func(ctx *bot.Context) {
			if err := ctx.RespondText(greeting(ctx.User()), false); err != nil {
				ctx.Logger.Error().Err(err).Msg("failed to greet")
			}
		}),
		MessageHandler: bot.MessageHandlerFunc(func(ctx *bot.MessageContext) {
			if _, err := ctx.Reply(greeting(ctx.Message.Author)); err != nil {
				ctx.Logger.Error().Err(err).Msg("failed to greet")
			}
		}),
	}
}
