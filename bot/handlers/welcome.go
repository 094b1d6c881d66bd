package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"welcomebot/bot/events"
	"welcomebot/bot/responses"
	"welcomebot/bot/store"
	"welcomebot/utils"
)

// Discord rejects message content above this many characters.
const maxContent = 2000

func welcomeCommandHandler(st *store.Store, w *events.Welcomer) CommandHandler {
	return func(s Session, i *discordgo.InteractionCreate) {
		options := i.ApplicationCommandData().Options
		subOptions := mapOptions(options[0].Options)

		switch options[0].Name {
		case "test":
			welcomeTest(s, i, w, subOptions)

		case "add":
			message, _ := stringOption(subOptions, "message")
			err := st.AddMessage(i.GuildID, message)

			switch {
			case errors.Is(err, store.ErrEmptyMessage):
				respond(s, i, responses.Ephemeral("Welcome message can't be empty."))
			case err != nil:
				slog.Error("Failed to add welcome message", "guild", i.GuildID, "error", err)
				respond(s, i, responses.GenericErrorResponse)
			default:
				count := len(st.Messages(i.GuildID))
				respond(s, i, responses.Ephemeral(fmt.Sprintf("Added welcome message #%d.", count)))
			}

		case "list":
			respond(s, i, responses.Ephemeral(formatMessageList(st.Messages(i.GuildID))))

		case "remove":
			index := int(subOptions["index"].IntValue())
			removed, err := st.RemoveMessage(i.GuildID, index)

			switch {
			case errors.Is(err, store.ErrIndexOutOfRange):
				respond(s, i, responses.Ephemeral(fmt.Sprintf("There is no welcome message #%d. Use /welcome list to see them.", index)))
			case err != nil:
				slog.Error("Failed to remove welcome message", "guild", i.GuildID, "index", index, "error", err)
				respond(s, i, responses.GenericErrorResponse)
			default:
				respond(s, i, responses.Ephemeral(truncate(fmt.Sprintf("Removed welcome message #%d:\n%s", index, removed))))
			}

		case "edit":
			index := int(subOptions["index"].IntValue())
			message, _ := stringOption(subOptions, "message")
			old, err := st.EditMessage(i.GuildID, index, message)

			switch {
			case errors.Is(err, store.ErrIndexOutOfRange):
				respond(s, i, responses.Ephemeral(fmt.Sprintf("There is no welcome message #%d. Use /welcome list to see them.", index)))
			case errors.Is(err, store.ErrEmptyMessage):
				respond(s, i, responses.Ephemeral("Welcome message can't be empty."))
			case err != nil:
				slog.Error("Failed to edit welcome message", "guild", i.GuildID, "index", index, "error", err)
				respond(s, i, responses.GenericErrorResponse)
			default:
				respond(s, i, responses.Ephemeral(truncate(fmt.Sprintf("Updated welcome message #%d.\nWas: %s\nNow: %s", index, old, message))))
			}
		}
	}
}

// welcomeTest runs the real welcome flow for the invoker or the given user.
// Rendering can take longer than the interaction deadline, so the reply is
// deferred first.
func welcomeTest(s Session, i *discordgo.InteractionCreate, w *events.Welcomer, options optionMap) {
	member := i.Member
	if option, ok := options["user"]; ok {
		member = resolvedMember(i, option.UserValue(nil).ID)
	}

	respond(s, i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})

	var reply string

	guild, err := s.CachedGuild(i.GuildID)
	if err == nil {
		var msg *discordgo.Message
		msg, err = w.Welcome(context.Background(), s, guild, member)
		if err == nil {
			reply = fmt.Sprintf("Test welcome sent to <#%s>.", msg.ChannelID)
		}
	}

	err = utils.ClassifyRESTError(err)

	switch {
	case err == nil:
	case errors.Is(err, events.ErrNoWelcomeChannel):
		reply = "No welcome channel is configured. Set one with /config set welcome_channel_id."
	case errors.Is(err, utils.ErrForbidden):
		reply = "I don't have permission to post in the welcome channel."
	default:
		slog.Error("Test welcome failed", "guild", i.GuildID, "error", err)
		reply = "An unknown error occurred, please try again."
	}

	if _, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{Content: reply}); err != nil {
		slog.Error("Failed to send followup", "guild", i.GuildID, "interaction", i.ID, "error", err)
	}
}

// resolvedMember pairs the resolved member and user data Discord sends with
// a user option.
func resolvedMember(i *discordgo.InteractionCreate, userID string) *discordgo.Member {
	member := &discordgo.Member{GuildID: i.GuildID, User: &discordgo.User{ID: userID}}

	resolved := i.ApplicationCommandData().Resolved
	if resolved == nil {
		return member
	}
	if m, ok := resolved.Members[userID]; ok && m != nil {
		copied := *m
		member = &copied
		member.GuildID = i.GuildID
	}
	if u, ok := resolved.Users[userID]; ok && u != nil {
		member.User = u
	} else if member.User == nil {
		member.User = &discordgo.User{ID: userID}
	}
	return member
}

func formatMessageList(messages []string) string {
	var b strings.Builder
	b.WriteString("Welcome messages:\n")
	for n, m := range messages {
		fmt.Fprintf(&b, "%d. %s\n", n+1, m)
	}
	return truncate(strings.TrimRight(b.String(), "\n"))
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxContent {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxContent-1]) + "…"
}
