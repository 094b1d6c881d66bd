package commands

import "github.com/bwmarrin/discordgo"

var noDM = false
var adminPermission int64 = discordgo.PermissionAdministrator
var minIndex = 1.0

var Commands = []*discordgo.ApplicationCommand{
	&welcomeCommand,
	&configCommand,
	&embedCommand,
	&dmCommand,
}

var welcomeCommand = discordgo.ApplicationCommand{
	Name:                     "welcome",
	Description:              "Various commands related to welcome",
	DMPermission:             &noDM,
	DefaultMemberPermissions: &adminPermission,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Name:        "test",
			Description: "Test welcome message",
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to welcome",
					Required:    false,
				},
			},
		},
		{
			Name:        "add",
			Description: "Add a welcome message ({mention}, {username} and {server} are replaced)",
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message",
					Description: "New welcome message",
					Required:    true,
				},
			},
		},
		{
			Name:        "list",
			Description: "List welcome messages",
			Type:        discordgo.ApplicationCommandOptionSubCommand,
		},
		{
			Name:        "remove",
			Description: "Remove a welcome message",
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "index",
					Description: "Position shown by /welcome list",
					Required:    true,
					MinValue:    &minIndex,
				},
			},
		},
		{
			Name:        "edit",
			Description: "Replace a welcome message",
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "index",
					Description: "Position shown by /welcome list",
					Required:    true,
					MinValue:    &minIndex,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message",
					Description: "New welcome message",
					Required:    true,
				},
			},
		},
	},
}

var configCommand = discordgo.ApplicationCommand{
	Name:                     "config",
	Description:              "Various commands related to configuration",
	DMPermission:             &noDM,
	DefaultMemberPermissions: &adminPermission,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "list",
			Description: "Lists available config options with their current values",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
			Name:        "set",
			Description: "Updates config with provided values",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "welcome_channel_id",
					Description: "Set Welcome Channel ID",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:         discordgo.ApplicationCommandOptionChannel,
							Name:         "channel",
							Description:  "New welcome channel",
							Required:     true,
							ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
						},
					},
				},
			},
		},
	},
}

// embedFieldOptions are shared by create and edit. On edit every string also
// accepts "clear".
func embedFieldOptions(editing bool) []*discordgo.ApplicationCommandOption {
	describe := func(s string) string {
		if editing {
			return s + " (\"clear\" removes it)"
		}
		return s
	}

	return []*discordgo.ApplicationCommandOption{
		{Type: discordgo.ApplicationCommandOptionString, Name: "content", Description: describe("Plain text above the embed")},
		{Type: discordgo.ApplicationCommandOptionString, Name: "title", Description: describe("Embed title")},
		{Type: discordgo.ApplicationCommandOptionString, Name: "description", Description: describe("Embed description")},
		{Type: discordgo.ApplicationCommandOptionString, Name: "color", Description: "Hex, color name or (r, g, b)"},
		{Type: discordgo.ApplicationCommandOptionString, Name: "thumbnail", Description: describe("Thumbnail url")},
		{Type: discordgo.ApplicationCommandOptionString, Name: "author_name", Description: describe("Author name")},
		{Type: discordgo.ApplicationCommandOptionString, Name: "author_icon", Description: describe("Author icon url")},
		{Type: discordgo.ApplicationCommandOptionString, Name: "footer", Description: describe("Footer text")},
		{Type: discordgo.ApplicationCommandOptionString, Name: "footer_icon", Description: describe("Footer icon url")},
	}
}

var embedCommand = discordgo.ApplicationCommand{
	Name:                     "embed",
	Description:              "Compose and edit embeds",
	DMPermission:             &noDM,
	DefaultMemberPermissions: &adminPermission,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "create",
			Description: "Send a new embed",
			Options: append([]*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "channel",
					Description:  "Where to send the embed",
					Required:     true,
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews},
				},
				{Type: discordgo.ApplicationCommandOptionString, Name: "images", Description: "Image urls, one per line or separated by spaces"},
				{Type: discordgo.ApplicationCommandOptionString, Name: "url", Description: "Link for the title"},
				{Type: discordgo.ApplicationCommandOptionBoolean, Name: "timestamp", Description: "Show the current time in the footer"},
			}, embedFieldOptions(false)...),
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "edit",
			Description: "Edit an embed previously sent by the bot",
			Options: append([]*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message_id",
					Description: "ID of the message to edit",
					Required:    true,
				},
				{Type: discordgo.ApplicationCommandOptionString, Name: "image", Description: "Image url (\"clear\" removes it)"},
			}, embedFieldOptions(true)...),
		},
	},
}

var dmCommand = discordgo.ApplicationCommand{
	Name:                     "dm",
	Description:              "Send a direct message to a member",
	DMPermission:             &noDM,
	DefaultMemberPermissions: &adminPermission,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "Recipient",
			Required:    true,
		},
		{Type: discordgo.ApplicationCommandOptionString, Name: "message", Description: "Plain text"},
		{Type: discordgo.ApplicationCommandOptionString, Name: "title", Description: "Embed title"},
		{Type: discordgo.ApplicationCommandOptionString, Name: "description", Description: "Embed description"},
		{Type: discordgo.ApplicationCommandOptionString, Name: "color", Description: "Hex, color name or (r, g, b)"},
		{Type: discordgo.ApplicationCommandOptionString, Name: "image", Description: "Image url"},
	},
}
