package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"welcomebot/bot/responses"
	"welcomebot/packages/embeds"
	"welcomebot/utils"
)

func dmCommandHandler(now func() time.Time) CommandHandler {
	return func(s Session, i *discordgo.InteractionCreate) {
		options := mapOptions(i.ApplicationCommandData().Options)
		userID := options["user"].UserValue(nil).ID

		content, _ := stringOption(options, "message")

		props := embeds.Properties{}
		props.Title, _ = stringOption(options, "title")
		props.Description, _ = stringOption(options, "description")
		props.Color, _ = stringOption(options, "color")
		image, _ := stringOption(options, "image")

		send := &discordgo.MessageSend{Content: content}

		built, err := embeds.Build(props, embeds.SplitImageURLs(image), now())

		switch {
		case errors.Is(err, embeds.ErrNoContent) && content != "":
			// plain text only
		case errors.Is(err, embeds.ErrNoContent):
			respond(s, i, responses.Ephemeral("Give the message some text, a title, a description or an image."))
			return
		case err != nil:
			respond(s, i, embedErrorResponse(err))
			return
		default:
			send.Embeds = built
		}

		channel, err := s.UserChannelCreate(userID)
		if err != nil {
			slog.Warn("Could not open DM channel", "user", userID, "error", err)
			respond(s, i, dmErrorResponse(err))
			return
		}

		if _, err := s.ChannelMessageSendComplex(channel.ID, send); err != nil {
			slog.Warn("Could not send DM", "user", userID, "error", err)
			respond(s, i, dmErrorResponse(err))
			return
		}

		slog.Info("DM sent", "guild", i.GuildID, "user", userID, "by", invokerID(i))
		respond(s, i, responses.Ephemeral(fmt.Sprintf("Message sent to <@%s>.", userID)))
	}
}

func dmErrorResponse(err error) *discordgo.InteractionResponse {
	if errors.Is(utils.ClassifyRESTError(err), utils.ErrForbidden) {
		return responses.Ephemeral("I can't message that user. They may have DMs turned off.")
	}
	return restErrorResponse(err, "That user could not be found.")
}
