package bot

import (
	"context"
	"errors"
	"fmt"

	discord "github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

type Bot struct {
	*discord.Session

	Router *Router
	Logger zerolog.Logger
}

func NewBot(token, prefix string, logger zerolog.Logger) (*Bot, error) {
	if token == "" {
		return nil, errors.New("discord token is empty")
	}
	session, err := discord.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		Session: session,
		Router:  NewRouter(nil, prefix, logger),
		Logger:  logger,
	}, nil
}

// Run connects to Discord, syncs slash commands and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context, guildID string, removeCommands bool) error {
	// IntentMessageContent is required to read prefix commands such as "!explain"
	b.Identify.Intents = discord.MakeIntent(discord.IntentsAllWithoutPrivileged | discord.IntentMessageContent)

	b.AddHandler(func(s *discord.Session, r *discord.Ready) {
		b.Logger.Info().
			Str("user", s.State.User.Username).
			Str("user_id", s.State.User.ID).
			Msg("logged in")
	})
	b.AddHandler(b.Router.HandleInteraction)
	b.AddHandler(b.Router.HandleMessage)

	if err := b.Open(); err != nil {
		return fmt.Errorf("cannot open the session: %w", err)
	}
	defer b.Close()

	if err := b.Router.Sync(b.Session, guildID); err != nil {
		return fmt.Errorf("cannot sync commands: %w", err)
	}

	<-ctx.Done()

	if removeCommands {
		b.Logger.Info().Msg("removing commands")
		for _, err := range b.Router.ClearCommands(b.Session, guildID) {
			b.Logger.Error().Err(err).Msg("cannot remove command")
		}
	}

	b.Logger.Info().Msg("gracefully shutting down")
	return nil
}
