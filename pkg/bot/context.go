package bot

import (
	discord "github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/akhilsharma90/go-explain-bot/pkg/utils"
)

type OptionsMap = map[string]*discord.ApplicationCommandInteractionDataOption

type Context struct {
	*discord.Session
	Caller      *Command
	Interaction *discord.Interaction
	Options     OptionsMap
	Logger      zerolog.Logger

	handlers []Handler
}

func makeOptionMap(options []*discord.ApplicationCommandInteractionDataOption) (m OptionsMap) {
	m = make(OptionsMap, len(options))

	for _, option := range options {
		m[option.Name] = option
	}

	return
}

func NewContext(s *discord.Session, caller *Command, i *discord.Interaction, parent *discord.ApplicationCommandInteractionDataOption, handlers []Handler, logger zerolog.Logger) *Context {
	options := i.ApplicationCommandData().Options
	if parent != nil {
		options = parent.Options
	}
	ctx := &Context{
		Session:     s,
		Caller:      caller,
		Interaction: i,
		Options:     makeOptionMap(options),

		handlers: handlers,
	}
	lc := logger.With().
		Str("guild_id", i.GuildID).
		Str("channel_id", i.ChannelID).
		Str("interaction_id", i.ID).
		Str("command", caller.Name)
	if u := ctx.User(); u != nil {
		lc = lc.Str("user_id", u.ID)
	}
	ctx.Logger = lc.Logger()
	return ctx
}

// User returns who invoked the interaction. Member is only set in guilds,
// User only in direct messages.
func (ctx *Context) User() *discord.User {
	if ctx.Interaction.Member != nil && ctx.Interaction.Member.User != nil {
		return ctx.Interaction.Member.User
	}
	return ctx.Interaction.User
}

// StringOption returns the string value of the named option.
func (ctx *Context) StringOption(name string) (string, bool) {
	option, ok := ctx.Options[name]
	if !ok {
		return "", false
	}
	return option.StringValue(), true
}

func (ctx *Context) Respond(response *discord.InteractionResponse) error {
	return ctx.Session.InteractionRespond(ctx.Interaction, response)
}

// RespondText replies to the interaction with plain content.
func (ctx *Context) RespondText(content string, ephemeral bool) error {
	data := &discord.InteractionResponseData{Content: content}
	if ephemeral {
		data.Flags = discord.MessageFlagsEphemeral
	}
	return ctx.Respond(&discord.InteractionResponse{
		Type: discord.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// EditLong replaces a deferred response with content, sending whatever does
// not fit into one Discord message as follow-ups. It returns the last message.
func (ctx *Context) EditLong(content string) (m *discord.Message, err error) {
	parts := utils.SplitMessage(content)
	m, err = ctx.Session.InteractionResponseEdit(ctx.Interaction, &discord.WebhookEdit{
		Content: &parts[0],
	})
	if err != nil {
		return nil, err
	}

	for _, part := range parts[1:] {
		m, err = ctx.Session.FollowupMessageCreate(ctx.Interaction, true, &discord.WebhookParams{
			Content: part,
		})
		if err != nil {
			return m, err
		}
	}
	return m, nil
}

func (ctx *Context) Next() {
	if len(ctx.handlers) == 0 {
		return
	}

	handler := ctx.handlers[0]
	ctx.handlers = ctx.handlers[1:]

	handler.HandleCommand(ctx)
}

type MessageContext struct {
	*discord.Session
	Caller  *Command
	Message *discord.Message
	// Args is the message content after the command name, trimmed.
	Args   string
	Logger zerolog.Logger

	handlers []MessageHandler
}

func NewMessageContext(s *discord.Session, caller *Command, m *discord.Message, args string, handlers []MessageHandler, logger zerolog.Logger) *MessageContext {
	lc := logger.With().
		Str("guild_id", m.GuildID).
		Str("channel_id", m.ChannelID).
		Str("message_id", m.ID).
		Str("command", caller.Name)
	if m.Author != nil {
		lc = lc.Str("user_id", m.Author.ID)
	}
	return &MessageContext{
		Session: s,
		Caller:  caller,
		Message: m,
		Args:    args,
		Logger:  lc.Logger(),

		handlers: handlers,
	}
}

func (ctx *MessageContext) Reply(content string) (m *discord.Message, err error) {
	m, err = ctx.Session.ChannelMessageSendReply(
		ctx.Message.ChannelID,
		content,
		ctx.Message.Reference(),
	)
	return
}

// ReplyLong replies with content split into as many messages as needed and
// returns the last one sent.
func (ctx *MessageContext) ReplyLong(content string) (m *discord.Message, err error) {
	for _, part := range utils.SplitMessage(content) {
		m, err = ctx.Reply(part)
		if err != nil {
			return m, err
		}
	}
	return m, nil
}

func (ctx *MessageContext) AddReaction(emojiID string) error {
	return ctx.Session.MessageReactionAdd(ctx.Message.ChannelID, ctx.Message.ID, emojiID)
}

func (ctx *MessageContext) RemoveReaction(emojiID string) error {
	return ctx.Session.MessageReactionsRemoveEmoji(ctx.Message.ChannelID, ctx.Message.ID, emojiID)
}

func (ctx *MessageContext) ChannelTyping() error {
	return ctx.Session.ChannelTyping(ctx.Message.ChannelID)
}

func (ctx *MessageContext) Next() {
	if len(ctx.handlers) == 0 {
		return
	}

	handler := ctx.handlers[0]
	ctx.handlers = ctx.handlers[1:]

	handler.HandleMessageCommand(ctx)
}
