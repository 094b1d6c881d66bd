package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"welcomebot/bot/events"
	"welcomebot/bot/responses"
	"welcomebot/bot/store"
	"welcomebot/utils"
)

// Session is the subset of *discordgo.Session the command handlers use.
type Session interface {
	events.Sender
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams) (*discordgo.Message, error)
	ChannelMessage(channelID, messageID string) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit) (*discordgo.Message, error)
	UserChannelCreate(recipientID string) (*discordgo.Channel, error)
	CachedGuild(guildID string) (*discordgo.Guild, error)
}

type liveSession struct {
	*discordgo.Session
}

func (l liveSession) CachedGuild(guildID string) (*discordgo.Guild, error) {
	return events.GuildFromState(l.Session, guildID)
}

type CommandHandler = func(s Session, i *discordgo.InteractionCreate)

func InteractionCreateHandler(st *store.Store, w *events.Welcomer) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	commandHandlers := newCommandHandlers(st, w, time.Now)

	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		dispatch(commandHandlers, liveSession{s}, i)
	}
}

func newCommandHandlers(st *store.Store, w *events.Welcomer, now func() time.Time) map[string]CommandHandler {
	return map[string]CommandHandler{
		"welcome": welcomeCommandHandler(st, w),
		"config":  configCommandHandler(st, w),
		"embed":   embedCommandHandler(st, now),
		"dm":      dmCommandHandler(now),
	}
}

func dispatch(commandHandlers map[string]CommandHandler, s Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	if i.GuildID == "" {
		respond(s, i, responses.Ephemeral("Commands only work inside a server."))
		return
	}

	// If command handler exists
	if commandHandler, ok := commandHandlers[i.ApplicationCommandData().Name]; ok {
		commandHandler(s, i)
	}
}

type optionMap = map[string]*discordgo.ApplicationCommandInteractionDataOption

func mapOptions(options []*discordgo.ApplicationCommandInteractionDataOption) optionMap {
	m := make(optionMap, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

func stringOption(m optionMap, name string) (string, bool) {
	if opt, ok := m[name]; ok {
		return opt.StringValue(), true
	}
	return "", false
}

func respond(s Session, i *discordgo.InteractionCreate, resp *discordgo.InteractionResponse) {
	if err := s.InteractionRespond(i.Interaction, resp); err != nil {
		slog.Error("Failed to respond to interaction", "guild", i.GuildID, "interaction", i.ID, "error", err)
	}
}

// restErrorResponse turns a failed Discord call into a reply. notFound is
// shown when the target no longer exists.
func restErrorResponse(err error, notFound string) *discordgo.InteractionResponse {
	err = utils.ClassifyRESTError(err)

	switch {
	case errors.Is(err, utils.ErrForbidden):
		return responses.ForbiddenResponse
	case errors.Is(err, utils.ErrNotFound):
		return responses.Ephemeral(notFound)
	default:
		return responses.GenericErrorResponse
	}
}

func invokerID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
