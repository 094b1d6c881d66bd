package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bwmarrin/discordgo"
)

var (
	ErrForbidden = errors.New("missing permissions")
	ErrNotFound  = errors.New("not found")
)

func MessageURL(guildId, channelId, messageId string) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildId, channelId, messageId)
}

type Placeholders struct {
	Mention  string
	Username string
	Server   string
}

// RenderWelcome fills {mention}, {username} and {server} in a welcome template.
func RenderWelcome(template string, p Placeholders) string {
	return strings.NewReplacer(
		"{mention}", p.Mention,
		"{username}", p.Username,
		"{server}", p.Server,
	).Replace(template)
}

// DisplayName prefers the guild nickname over the account name.
func DisplayName(m *discordgo.Member) string {
	if m == nil {
		return ""
	}
	if m.Nick != "" {
		return m.Nick
	}
	if m.User != nil {
		return m.User.Username
	}
	return ""
}

// ClassifyRESTError maps Discord 403 and 404 responses to ErrForbidden and
// ErrNotFound. Other errors are returned unchanged.
func ClassifyRESTError(err error) error {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Response == nil {
		return err
	}

	switch restErr.Response.StatusCode {
	case http.StatusForbidden:
		return fmt.Errorf("%w: %v", ErrForbidden, err)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
