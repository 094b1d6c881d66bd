package handlers

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"welcomebot/bot/events"
	"welcomebot/bot/responses"
	"welcomebot/bot/store"
)

func configCommandHandler(st *store.Store, w *events.Welcomer) CommandHandler {
	return func(s Session, i *discordgo.InteractionCreate) {
		options := i.ApplicationCommandData().Options

		switch options[0].Name {
		case "list":
			welcomeChannel := "not set"
			if channelID, ok := st.WelcomeChannel(i.GuildID); ok {
				welcomeChannel = fmt.Sprintf("<#%s>", channelID)
			} else if channelID, ok := w.Channel(i.GuildID); ok {
				welcomeChannel = fmt.Sprintf("<#%s> (default)", channelID)
			}

			respond(s, i, responses.Ephemeral(fmt.Sprintf(
				"Configuration for %s:\n\nWelcome channel: %s\nWelcome messages: %d",
				i.GuildID, welcomeChannel, len(st.Messages(i.GuildID)),
			)))

		case "set":
			subCommandOptions := options[0].Options
			subSubCommandOptionMap := mapOptions(subCommandOptions[0].Options)

			var err error

			switch subCommandOptions[0].Name {
			case "welcome_channel_id":
				err = st.SetWelcomeChannel(i.GuildID, subSubCommandOptionMap["channel"].ChannelValue(nil).ID)
			default:
				return
			}

			switch {
			case err != nil:
				slog.Error("Failed to update config", "guild", i.GuildID, "error", err)
				respond(s, i, responses.GenericErrorResponse)
			default:
				respond(s, i, responses.Ephemeral("Successfully updated config!"))
			}
		}
	}
}
