package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/akhilsharma90/go-explain-bot/pkg/answercache"
	"github.com/akhilsharma90/go-explain-bot/pkg/bot"
	"github.com/akhilsharma90/go-explain-bot/pkg/commands"
	"github.com/akhilsharma90/go-explain-bot/pkg/config"
	"github.com/akhilsharma90/go-explain-bot/pkg/constants"
	"github.com/akhilsharma90/go-explain-bot/pkg/explain"
	"github.com/akhilsharma90/go-explain-bot/pkg/logging"
	"github.com/akhilsharma90/go-explain-bot/pkg/provider"
)

// BotContext holds everything the running bot shares between commands.
type BotContext struct {
	Bot       *bot.Bot
	Cache     *answercache.Cache
	Provider  *provider.OpenAI
	Explainer *explain.Handler
}

func newBotContext(cfg *config.Config, logger zerolog.Logger) (*BotContext, error) {
	cache, err := answercache.New(cfg.Cache.Size)
	if err != nil {
		return nil, fmt.Errorf("init answer cache: %w", err)
	}

	openAI, err := provider.NewOpenAI(cfg.ProviderConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("init openai: %w", err)
	}

	explainer := explain.NewHandler(cache, openAI,
		explain.WithLogger(logger.With().Str("component", "explain").Logger()),
		explain.WithTimeout(cfg.OpenAI.Timeout),
	)

	discordBot, err := bot.NewBot(cfg.Discord.Token, cfg.Discord.CommandPrefix, logger.With().Str("component", "discord").Logger())
	if err != nil {
		return nil, fmt.Errorf("init discord bot: %w", err)
	}

	// Register commands
	router := discordBot.Router
	router.Register(commands.ExplainCommand(explainer, openAI.Model()))
	router.Register(commands.HelloCommand())
	router.Register(commands.HelpCommand(router))
	router.Register(commands.InfoCommand(openAI.Model(), cache.Capacity()))
	router.Register(commands.CacheCommand(cache))

	return &BotContext{
		Bot:       discordBot,
		Cache:     cache,
		Provider:  openAI,
		Explainer: explainer,
	}, nil
}

func newRootCmd() *cobra.Command {
	var (
		configPath     string
		logLevel       string
		removeCommands bool
	)

	cmd := &cobra.Command{
		Use:           "explain-bot",
		Short:         "Discord bot that explains things in simple terms using OpenAI",
		Version:       constants.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath, os.LookupEnv)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if cmd.Flags().Changed("remove-commands") {
				cfg.Discord.RemoveCommands = removeCommands
			}

			logger, closer, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
			if err != nil {
				return fmt.Errorf("init logging: %w", err)
			}
			defer closer.Close()

			bc, err := newBotContext(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info().
				Str("version", constants.Version).
				Str("config", configPath).
				Str("model", bc.Provider.Model()).
				Int("cache_size", bc.Cache.Capacity()).
				Msg("starting explain bot")
			return bc.Bot.Run(ctx, cfg.Discord.Guild, cfg.Discord.RemoveCommands)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config file")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&removeCommands, "remove-commands", false, "remove slash commands on shutdown")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the bot version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), constants.Version)
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
