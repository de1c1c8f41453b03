package bot

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	discord "github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

var errNoApplicationID = errors.New("cannot determine application id")

type Router struct {
	commands           map[string]*Command
	registeredCommands []*discord.ApplicationCommand
	prefix             string
	logger             zerolog.Logger
}

// NewRouter returns a router for initial. Messages starting with prefix are
// dispatched to message handlers; an empty prefix disables message commands.
func NewRouter(initial []*Command, prefix string, logger zerolog.Logger) (r *Router) {
	r = &Router{
		commands: make(map[string]*Command, len(initial)),
		prefix:   prefix,
		logger:   logger,
	}
	for _, cmd := range initial {
		r.Register(cmd)
	}

	return
}

func (r *Router) Register(cmd *Command) {
	if _, ok := r.commands[cmd.Name]; !ok {
		r.commands[cmd.Name] = cmd
	}
}

func (r *Router) Get(name string) *Command {
	if r == nil {
		return nil
	}
	return r.commands[name]
}

// List returns the registered commands sorted by name.
func (r *Router) List() (list []*Command) {
	if r == nil {
		return nil
	}

	for _, c := range r.commands {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return
}

func (r *Router) Count() (c int) {
	if r == nil {
		return 0
	}
	return len(r.commands)
}

func (r *Router) Prefix() string {
	if r == nil {
		return ""
	}
	return r.prefix
}

func (r *Router) getSubcommand(cmd *Command, opt *discord.ApplicationCommandInteractionDataOption, parent []Handler) (*Command, *discord.ApplicationCommandInteractionDataOption, []Handler) {
	if cmd == nil {
		return nil, nil, nil
	}

	subcommand := cmd.SubCommands.Get(opt.Name)
	switch opt.Type {
	case discord.ApplicationCommandOptionSubCommand:
		if subcommand == nil {
			return nil, nil, nil
		}
		return subcommand, opt, append(parent, append(subcommand.Middlewares, subcommand.Handler)...)
	case discord.ApplicationCommandOptionSubCommandGroup:
		if subcommand == nil || len(opt.Options) == 0 {
			return nil, nil, nil
		}
		return r.getSubcommand(subcommand, opt.Options[0], append(parent, subcommand.Middlewares...))
	}

	return cmd, nil, append(parent, cmd.Handler)
}

func (r *Router) HandleInteraction(s *discord.Session, i *discord.InteractionCreate) {
	if i.Type != discord.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	cmd := r.Get(data.Name)
	if cmd == nil || !cmd.IsSlash() {
		r.logger.Warn().Str("command", data.Name).Msg("unknown slash command")
		return
	}

	if cmd.Handler == nil && len(data.Options) == 0 {
		r.logger.Warn().Str("command", data.Name).Msg("slash command invoked without a subcommand")
		return
	}

	var parent *discord.ApplicationCommandInteractionDataOption
	handlers := append(cmd.Middlewares, cmd.Handler)
	if len(data.Options) != 0 {
		cmd, parent, handlers = r.getSubcommand(cmd, data.Options[0], cmd.Middlewares)
	}

	if cmd != nil {
		ctx := NewContext(s, cmd, i.Interaction, parent, handlers, r.logger)
		ctx.Next()
	}
}

// parsePrefixCommand splits "!name rest of line" into its command name and
// arguments. Names are matched case-insensitively.
func parsePrefixCommand(content, prefix string) (name, args string, ok bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", "", false
	}
	rest := content[len(prefix):]
	end := strings.IndexFunc(rest, unicode.IsSpace)
	switch end {
	case 0:
		return "", "", false
	case -1:
		name = rest
	default:
		name, args = rest[:end], strings.TrimSpace(rest[end:])
	}
	if name == "" {
		return "", "", false
	}
	return strings.ToLower(name), args, true
}

func (r *Router) HandleMessage(s *discord.Session, m *discord.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}

	name, args, ok := parsePrefixCommand(m.Content, r.prefix)
	if !ok {
		return
	}
	cmd := r.Get(name)
	if cmd == nil || cmd.MessageHandler == nil {
		return
	}

	handlers := append(cmd.MessageMiddlewares, cmd.MessageHandler)
	ctx := NewMessageContext(s, cmd, m.Message, args, handlers, r.logger)
	ctx.Next()
}

// Sync registers every command that has a slash handler with Discord.
func (r *Router) Sync(s *discord.Session, guild string) (err error) {
	if s.State.User == nil {
		return errNoApplicationID
	}

	var commands []*discord.ApplicationCommand
	for _, c := range r.List() {
		if !c.IsSlash() {
			continue
		}
		commands = append(commands, c.ApplicationCommand())
	}

	r.registeredCommands, err = s.ApplicationCommandBulkOverwrite(s.State.User.ID, guild, commands)
	if err == nil {
		r.logger.Info().Int("count", len(r.registeredCommands)).Str("guild", guild).Msg("synced slash commands")
	}
	return
}

func (r *Router) ClearCommands(s *discord.Session, guild string) (errs []error) {
	if s.State.User == nil {
		return []error{errNoApplicationID}
	}

	for _, v := range r.registeredCommands {
		err := s.ApplicationCommandDelete(s.State.User.ID, guild, v.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("cannot delete %q command: %w", v.Name, err))
		}
	}
	r.registeredCommands = nil

	return errs
}
