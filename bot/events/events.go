package events

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/bwmarrin/discordgo"

	"welcomebot/bot/store"
	"welcomebot/packages/avatar"
	"welcomebot/packages/banner"
	"welcomebot/packages/colors"
	"welcomebot/utils"
)

const (
	WelcomeTitle   = "👋 Welcome to the server!"
	BannerFilename = "welcome_banner.png"

	avatarSize   = "512"
	joinedLayout = "January 02, 2006"
)

var ErrNoWelcomeChannel = errors.New("welcome channel is not configured")

// Sender is the part of the session a welcome needs.
type Sender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error)
}

type Welcomer struct {
	store          *store.Store
	fetcher        *avatar.Fetcher
	compositor     *banner.Compositor
	defaultChannel string
	timeout        time.Duration

	pick func(n int) int
	now  func() time.Time
}

// NewWelcomer wires the welcome flow. defaultChannel is used for guilds that
// have not picked a channel with /config.
func NewWelcomer(st *store.Store, fetcher *avatar.Fetcher, compositor *banner.Compositor, defaultChannel string) *Welcomer {
	return &Welcomer{
		store:          st,
		fetcher:        fetcher,
		compositor:     compositor,
		defaultChannel: defaultChannel,
		timeout:        30 * time.Second,
		pick:           rand.Intn,
		now:            time.Now,
	}
}

// Channel returns where welcomes for guildID are posted.
func (w *Welcomer) Channel(guildID string) (string, bool) {
	if channelID, ok := w.store.WelcomeChannel(guildID); ok {
		return channelID, true
	}
	return w.defaultChannel, w.defaultChannel != ""
}

// Welcome posts the greeting for member. A missing banner degrades to a
// text-only welcome.
func (w *Welcomer) Welcome(ctx context.Context, s Sender, guild *discordgo.Guild, member *discordgo.Member) (*discordgo.Message, error) {
	channelID, ok := w.Channel(guild.ID)
	if !ok {
		return nil, ErrNoWelcomeChannel
	}

	templates := w.store.Messages(guild.ID)
	template := templates[w.pick(len(templates))]

	greeting := Greeting{
		GuildName:   guild.Name,
		Member:      member,
		MemberCount: guild.MemberCount,
		Template:    template,
		Now:         w.now(),
		Banner:      w.banner(ctx, member, guild.MemberCount),
	}
	if guild.Icon != "" {
		greeting.GuildIconURL = discordgo.EndpointGuildIcon(guild.ID, guild.Icon)
	}

	msg, err := s.ChannelMessageSendComplex(channelID, BuildWelcome(greeting))
	if err != nil {
		return nil, fmt.Errorf("failed to send welcome to %s: %w", channelID, utils.ClassifyRESTError(err))
	}
	return msg, nil
}

func (w *Welcomer) banner(ctx context.Context, member *discordgo.Member, memberCount int) []byte {
	if member.User == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	img, err := w.fetcher.Fetch(ctx, member.User.AvatarURL(avatarSize))
	if err != nil {
		slog.Warn("Could not fetch avatar", "user", member.User.ID, "error", err)
		return nil
	}
	return w.compositor.Compose(img, utils.DisplayName(member), memberCount)
}

type Greeting struct {
	GuildName    string
	GuildIconURL string
	Member       *discordgo.Member
	MemberCount  int
	Template     string
	Banner       []byte
	Now          time.Time
}

// BuildWelcome lays out the welcome message. The mention goes in the content
// so it pings; the embed description does not.
func BuildWelcome(g Greeting) *discordgo.MessageSend {
	var mention, username string
	if g.Member.User != nil {
		mention = g.Member.User.Mention()
		username = utils.DisplayName(g.Member)
	}

	joined := g.Member.JoinedAt
	if joined.IsZero() {
		joined = g.Now
	}

	embed := &discordgo.MessageEmbed{
		Title: WelcomeTitle,
		Description: utils.RenderWelcome(g.Template, utils.Placeholders{
			Mention:  mention,
			Username: username,
			Server:   g.GuildName,
		}),
		Color:     colors.Crimson,
		Timestamp: g.Now.UTC().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text:    "Joined " + joined.Format(joinedLayout),
			IconURL: g.GuildIconURL,
		},
	}

	send := &discordgo.MessageSend{
		Content: mention,
		Embeds:  []*discordgo.MessageEmbed{embed},
	}

	if len(g.Banner) > 0 {
		embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://" + BannerFilename}
		send.Files = []*discordgo.File{
			{
				Name:        BannerFilename,
				ContentType: "image/png",
				Reader:      bytes.NewReader(g.Banner),
			},
		}
	}

	return send
}

// GuildFromState prefers the gateway cache, which carries the member count.
// The REST fallback leaves MemberCount at zero and the banner then omits the
// counter line.
func GuildFromState(s *discordgo.Session, guildID string) (*discordgo.Guild, error) {
	if g, err := s.State.Guild(guildID); err == nil {
		return g, nil
	}
	return s.Guild(guildID)
}

func WelcomeMessageEventHandler(w *Welcomer) func(s *discordgo.Session, e *discordgo.GuildMemberAdd) {
	return func(s *discordgo.Session, e *discordgo.GuildMemberAdd) {
		if e.Member == nil || e.User == nil {
			return
		}

		guild, err := GuildFromState(s, e.GuildID)

		switch {
		case err != nil:
			slog.Error("Could not look up guild", "guild", e.GuildID, "error", err)
		default:
			msg, err := w.Welcome(context.Background(), s, guild, e.Member)

			switch {
			case errors.Is(err, ErrNoWelcomeChannel):
				slog.Warn("Welcome channel is not configured", "guild", e.GuildID)
			case err != nil:
				slog.Error("Failed to send welcome message", "guild", e.GuildID, "user", e.User.ID, "error", err)
			default:
				slog.Info("Welcomed member", "guild", e.GuildID, "user", e.User.ID, "channel", msg.ChannelID)
			}
		}
	}
}
