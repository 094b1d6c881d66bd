package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bwmarrin/discordgo"
	"github.com/go-co-op/gocron"

	"welcomebot/bot/commands"
	"welcomebot/bot/events"
	"welcomebot/bot/handlers"
	"welcomebot/bot/store"
	"welcomebot/bot/tasks"
	"welcomebot/config"
	"welcomebot/packages/avatar"
	"welcomebot/packages/banner"
)

type Bot struct {
	config    *config.Config
	session   *discordgo.Session
	store     *store.Store
	scheduler *gocron.Scheduler
	commands  []*discordgo.ApplicationCommand
}

func New(cfg *config.Config) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("invalid bot parameters: %w", err)
	}
	session.Identify.Intents |= discordgo.IntentsGuilds | discordgo.IntentGuildMembers

	backend, err := OpenBackend(cfg)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	compositor := banner.NewCompositor(banner.NewFontResolver(banner.DefaultFontSources(cfg.FontPaths)...))
	welcomer := events.NewWelcomer(st, avatar.NewFetcher(nil), compositor, cfg.WelcomeChannelID)

	session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("Logged in", "user", s.State.User.Username, "guilds", len(r.Guilds))
	})
	session.AddHandler(handlers.InteractionCreateHandler(st, welcomer))
	session.AddHandler(events.WelcomeMessageEventHandler(welcomer))

	return &Bot{
		config:  cfg,
		session: session,
		store:   st,
	}, nil
}

// OpenBackend builds the persistence layer selected by STORAGE_BACKEND.
func OpenBackend(cfg *config.Config) (store.Backend, error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		return store.OpenPostgres(cfg.PostgresDSN)
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		return store.OpenSQLite(cfg.SQLitePath)
	default:
		return store.NewJSONBackend(cfg.DataDir)
	}
}

// Start opens the gateway connection, registers commands when configured and
// starts the periodic tasks.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("cannot open the session: %w", err)
	}

	if b.config.RegisterCommands {
		if err := b.registerCommands(); err != nil {
			return err
		}
	}

	scheduler, err := tasks.Start(b.session, b.config.PresenceInterval)
	if err != nil {
		return err
	}
	b.scheduler = scheduler

	return nil
}

func (b *Bot) registerCommands() error {
	slog.Info("Adding commands...", "guild", b.config.GuildID)

	for _, command := range commands.Commands {
		cmd, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, command)
		if err != nil {
			return fmt.Errorf("cannot create '%v' command: %w", command.Name, err)
		}
		b.commands = append(b.commands, cmd)
	}

	return nil
}

func (b *Bot) removeCommands() error {
	slog.Info("Removing commands...")

	var errs []error
	for _, command := range b.commands {
		if err := b.session.ApplicationCommandDelete(b.session.State.User.ID, b.config.GuildID, command.ID); err != nil {
			errs = append(errs, fmt.Errorf("cannot delete '%v' command: %w", command.Name, err))
		}
	}
	b.commands = nil

	return errors.Join(errs...)
}

// Stop shuts the bot down. Registered commands are removed first when
// CLEAN_COMMANDS_AFTER_SHUTDOWN is set.
func (b *Bot) Stop() error {
	if b.scheduler != nil {
		b.scheduler.Stop()
	}

	var errs []error

	if b.config.CleanCommandsAfterShutdown {
		errs = append(errs, b.removeCommands())
	}

	errs = append(errs, b.session.Close())
	errs = append(errs, b.store.Close())

	return errors.Join(errs...)
}
