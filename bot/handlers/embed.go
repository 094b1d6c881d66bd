package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"welcomebot/bot/responses"
	"welcomebot/bot/store"
	"welcomebot/packages/embeds"
	"welcomebot/utils"
)

func embedCommandHandler(st *store.Store, now func() time.Time) CommandHandler {
	return func(s Session, i *discordgo.InteractionCreate) {
		options := i.ApplicationCommandData().Options
		subOptions := mapOptions(options[0].Options)

		switch options[0].Name {
		case "create":
			embedCreate(s, i, st, subOptions, now())
		case "edit":
			embedEdit(s, i, st, subOptions)
		}
	}
}

func embedCreate(s Session, i *discordgo.InteractionCreate, st *store.Store, options optionMap, now time.Time) {
	channelID := options["channel"].ChannelValue(nil).ID

	props := embeds.Properties{}
	props.Title, _ = stringOption(options, "title")
	props.Description, _ = stringOption(options, "description")
	props.Color, _ = stringOption(options, "color")
	props.URL, _ = stringOption(options, "url")
	props.AuthorName, _ = stringOption(options, "author_name")
	props.AuthorIcon, _ = stringOption(options, "author_icon")
	props.FooterText, _ = stringOption(options, "footer")
	props.FooterIcon, _ = stringOption(options, "footer_icon")
	props.Thumbnail, _ = stringOption(options, "thumbnail")
	if opt, ok := options["timestamp"]; ok {
		props.Timestamp = opt.BoolValue()
	}

	images, _ := stringOption(options, "images")
	content, _ := stringOption(options, "content")

	built, err := embeds.Build(props, embeds.SplitImageURLs(images), now)
	if err != nil {
		respond(s, i, embedErrorResponse(err))
		return
	}

	msg, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: content,
		Embeds:  built,
	})
	if err != nil {
		slog.Error("Failed to send embed", "guild", i.GuildID, "channel", channelID, "error", err)
		respond(s, i, restErrorResponse(err, "That channel no longer exists."))
		return
	}

	reply := fmt.Sprintf("Embed sent: %s", utils.MessageURL(i.GuildID, msg.ChannelID, msg.ID))

	if err := st.RecordEmbed(msg.ID, i.GuildID, msg.ChannelID); err != nil {
		slog.Error("Failed to record sent embed", "guild", i.GuildID, "message", msg.ID, "error", err)
		reply += "\nIt could not be saved, so /embed edit won't find it."
	}

	slog.Info("Embed sent", "guild", i.GuildID, "channel", msg.ChannelID, "message", msg.ID, "user", invokerID(i))
	respond(s, i, responses.Ephemeral(reply))
}

func embedEdit(s Session, i *discordgo.InteractionCreate, st *store.Store, options optionMap) {
	messageID, _ := stringOption(options, "message_id")

	loc, ok := st.LookupEmbed(messageID)
	if !ok || loc.GuildID != i.GuildID {
		respond(s, i, responses.Ephemeral("I can only edit embeds I sent with /embed create."))
		return
	}

	msg, err := s.ChannelMessage(loc.ChannelID, messageID)
	if err != nil {
		slog.Warn("Could not fetch embed message", "guild", i.GuildID, "channel", loc.ChannelID, "message", messageID, "error", err)
		respond(s, i, restErrorResponse(err, "That message no longer exists."))
		return
	}

	patch := patchFromOptions(options)

	var existing *discordgo.MessageEmbed
	if len(msg.Embeds) > 0 {
		existing = msg.Embeds[0]
	}

	updated, err := patch.Apply(existing)
	if err != nil {
		respond(s, i, embedErrorResponse(err))
		return
	}

	content := patch.ApplyContent(msg.Content)
	edited := []*discordgo.MessageEmbed{updated}
	if len(msg.Embeds) > 1 {
		edited = append(edited, msg.Embeds[1:]...)
	}

	_, err = s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:      messageID,
		Channel: loc.ChannelID,
		Content: &content,
		Embeds:  edited,
	})
	if err != nil {
		slog.Error("Failed to edit embed", "guild", i.GuildID, "channel", loc.ChannelID, "message", messageID, "error", err)
		respond(s, i, restErrorResponse(err, "That message no longer exists."))
		return
	}

	slog.Info("Embed edited", "guild", i.GuildID, "channel", loc.ChannelID, "message", messageID, "user", invokerID(i))
	respond(s, i, responses.Ephemeral(fmt.Sprintf("Embed updated: %s", utils.MessageURL(loc.GuildID, loc.ChannelID, messageID))))
}

// patchFromOptions reads the edit options. An omitted option keeps the
// field, "clear" removes it and anything else replaces it.
func patchFromOptions(options optionMap) embeds.Patch {
	instruction := func(name string) embeds.Instruction {
		raw, present := stringOption(options, name)
		return embeds.ParseInstruction(raw, present)
	}

	return embeds.Patch{
		Content:     instruction("content"),
		Title:       instruction("title"),
		Description: instruction("description"),
		Color:       instruction("color"),
		FooterText:  instruction("footer"),
		FooterIcon:  instruction("footer_icon"),
		Image:       instruction("image"),
		Thumbnail:   instruction("thumbnail"),
		AuthorName:  instruction("author_name"),
		AuthorIcon:  instruction("author_icon"),
	}
}

func embedErrorResponse(err error) *discordgo.InteractionResponse {
	switch {
	case errors.Is(err, embeds.ErrNoContent):
		return responses.Ephemeral("The embed would be empty. Give it some text or an image.")
	case errors.Is(err, embeds.ErrInvalidURL):
		return responses.Ephemeral(fmt.Sprintf("Please provide valid http(s) urls (%v).", err))
	case errors.Is(err, embeds.ErrAuthorIconWithoutName):
		return responses.Ephemeral("An author icon needs an author name.")
	case errors.Is(err, embeds.ErrFooterIconWithoutText):
		return responses.Ephemeral("A footer icon needs footer text.")
	case errors.Is(err, embeds.ErrTooLong):
		return responses.Ephemeral(fmt.Sprintf("The embed is too long (%v).", err))
	case errors.Is(err, embeds.ErrTooManyImages):
		return responses.Ephemeral(fmt.Sprintf("At most %d images fit in one message.", embeds.MaxEmbeds))
	default:
		slog.Error("Unexpected embed error", "error", err)
		return responses.GenericErrorResponse
	}
}
