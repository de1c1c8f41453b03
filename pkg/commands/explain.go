package commands

import (
	"context"
	"fmt"
	"time"

	discord "github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/akhilsharma90/go-explain-bot/pkg/bot"
	"github.com/akhilsharma90/go-explain-bot/pkg/constants"
	"github.com/akhilsharma90/go-explain-bot/pkg/explain"
	"github.com/akhilsharma90/go-explain-bot/pkg/provider"
	"github.com/akhilsharma90/go-explain-bot/pkg/utils"
)

const (
	explainCommandName = "explain"

	// Discord stops showing the typing indicator after 10 seconds
	typingIndicatorCooldown = 10 * time.Second

	explainEmojiAck = "⌛"
	explainEmojiErr = "❌"
)

func ExplainCommand(handler *explain.Handler, model string) *bot.Command {
	return &bot.Command{
		Name:                     explainCommandName,
		Description:              "Provides a simple explanation for the given question.",
		Usage:                    "<question>",
		DMPermission:             true,
		DefaultMemberPermissions: discord.PermissionViewChannel,
		Options: []*discord.ApplicationCommandOption{
			{
				Type:        discord.ApplicationCommandOptionString,
				Name:        explainCommandOptionQuestion.String(),
				Description: "What should be explained",
				Required:    true,
			},
		},
		Handler: bot.HandlerFunc(func(ctx *bot.Context) {
			explainHandler(ctx, handler, model)
		}),
		Middlewares: []bot.Handler{
			bot.HandlerFunc(deferResponseMiddleware),
		},
		MessageHandler: bot.MessageHandlerFunc(func(ctx *bot.MessageContext) {
			explainMessageHandler(ctx, handler, model)
		}),
	}
}

func explainHandler(ctx *bot.Context, handler *explain.Handler, model string) {
	// a missing option is answered with the empty question hint
	question, _ := ctx.StringOption(explainCommandOptionQuestion.String())

	answer, err := handler.Handle(context.Background(), question, username(ctx.User()))

	m, sendErr := ctx.EditLong(explain.Reply(answer, err))
	if sendErr != nil {
		ctx.Logger.Error().Err(sendErr).Msg("failed to send explanation")
		return
	}
	if err == nil && answer.Cached {
		attachCachedFooter(ctx.Session, m, answer, model, ctx.Logger)
	}
}

func explainMessageHandler(ctx *bot.MessageContext, handler *explain.Handler, model string) {
	ctx.AddReaction(explainEmojiAck)
	defer ctx.RemoveReaction(explainEmojiAck)

	ctx.ChannelTyping()
	typingTicker := time.NewTicker(typingIndicatorCooldown)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-typingTicker.C:
				ctx.ChannelTyping()
			case <-done:
				typingTicker.Stop()
				return
			}
		}
	}()

	answer, err := handler.Handle(context.Background(), ctx.Args, username(ctx.Message.Author))

	// Signal the typing ticker to stop
	close(done)

	if err != nil {
		ctx.AddReaction(explainEmojiErr)
	}

	m, sendErr := ctx.ReplyLong(explain.Reply(answer, err))
	if sendErr != nil {
		ctx.Logger.Error().Err(sendErr).Msg("failed to reply with explanation")
		return
	}
	if err == nil && answer.Cached {
		attachCachedFooter(ctx.Session, m, answer, model, ctx.Logger)
	}
}

func cachedFooter(answer explain.Answer, model string) *discord.MessageEmbed {
	return &discord.MessageEmbed{
		Footer: &discord.MessageEmbedFooter{
			Text:    fmt.Sprintf("Cached answer · saved ~%d tokens", provider.CountTokens(answer.Text, model)),
			IconURL: constants.OpenAIBlackIconURL,
		},
	}
}

func attachCachedFooter(s *discord.Session, m *discord.Message, answer explain.Answer, model string, logger zerolog.Logger) {
	if err := utils.AttachFooterEmbed(s, m, cachedFooter(answer, model)); err != nil {
		logger.Warn().Err(err).Msg("failed to attach cache footer")
	}
}

func username(u *discord.User) string {
	if u == nil {
		return "unknown"
	}
	return u.Username
}
