package events

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"welcomebot/bot/store"
	"welcomebot/packages/avatar"
	"welcomebot/packages/banner"
	"welcomebot/packages/colors"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

type fakeSender struct {
	channelID string
	sent      *discordgo.MessageSend
	err       error
}

func (f *fakeSender) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.channelID = channelID
	f.sent = data
	return &discordgo.Message{ID: "sent", ChannelID: channelID}, nil
}

func pngAvatar(t *testing.T) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 4), G: 40, B: uint8(y * 4), A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newWelcomer(t *testing.T, defaultChannel string, avatarBody []byte) (*Welcomer, *store.Store) {
	t.Helper()

	backend, err := store.NewJSONBackend(t.TempDir())
	require.NoError(t, err)
	st, err := store.Open(backend)
	require.NoError(t, err)

	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if avatarBody == nil {
			return &http.Response{StatusCode: http.StatusNotFound, Body: io.NopCloser(strings.NewReader("")), Header: http.Header{}}, nil
		}
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(avatarBody)), Header: http.Header{}}, nil
	})}

	w := NewWelcomer(st, avatar.NewFetcher(client), banner.NewCompositor(banner.NewFontResolver()), defaultChannel)
	w.pick = func(int) int { return 0 }
	w.now = func() time.Time { return time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC) }
	return w, st
}

func testMember() *discordgo.Member {
	return &discordgo.Member{
		GuildID:  "guild",
		Nick:     "Ana",
		JoinedAt: time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC),
		User:     &discordgo.User{ID: "42", Username: "ana_b", Avatar: "abc"},
	}
}

func TestChannelResolution(t *testing.T) {
	w, st := newWelcomer(t, "default", nil)

	channelID, ok := w.Channel("guild")
	assert.True(t, ok)
	assert.Equal(t, "default", channelID)

	require.NoError(t, st.SetWelcomeChannel("guild", "configured"))
	channelID, ok = w.Channel("guild")
	assert.True(t, ok)
	assert.Equal(t, "configured", channelID)

	none, _ := newWelcomer(t, "", nil)
	_, ok = none.Channel("guild")
	assert.False(t, ok)
}

func TestWelcomeWithoutChannel(t *testing.T) {
	w, _ := newWelcomer(t, "", nil)
	sender := &fakeSender{}

	_, err := w.Welcome(context.Background(), sender, &discordgo.Guild{ID: "guild"}, testMember())
	assert.ErrorIs(t, err, ErrNoWelcomeChannel)
	assert.Nil(t, sender.sent)
}

func TestWelcomeWithBanner(t *testing.T) {
	w, st := newWelcomer(t, "welcome", pngAvatar(t))
	require.NoError(t, st.AddMessage("guild", "Hi {mention}, welcome to {server}!"))
	w.pick = func(n int) int { return n - 1 }

	sender := &fakeSender{}
	guild := &discordgo.Guild{ID: "guild", Name: "Gophers", Icon: "icon", MemberCount: 12}

	msg, err := w.Welcome(context.Background(), sender, guild, testMember())
	require.NoError(t, err)
	assert.Equal(t, "welcome", msg.ChannelID)

	require.NotNil(t, sender.sent)
	assert.Equal(t, "<@42>", sender.sent.Content)
	require.Len(t, sender.sent.Embeds, 1)

	embed := sender.sent.Embeds[0]
	assert.Equal(t, WelcomeTitle, embed.Title)
	assert.Equal(t, "Hi <@42>, welcome to Gophers!", embed.Description)
	assert.Equal(t, colors.Crimson, embed.Color)
	assert.Equal(t, "Joined March 04, 2024", embed.Footer.Text)
	assert.Equal(t, discordgo.EndpointGuildIcon("guild", "icon"), embed.Footer.IconURL)
	assert.Equal(t, "2024-03-05T12:00:00Z", embed.Timestamp)

	require.NotNil(t, embed.Image)
	assert.Equal(t, "attachment://welcome_banner.png", embed.Image.URL)
	require.Len(t, sender.sent.Files, 1)
	assert.Equal(t, BannerFilename, sender.sent.Files[0].Name)

	img, err := png.Decode(sender.sent.Files[0].Reader)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, banner.Width, banner.Height), img.Bounds())
}

func TestWelcomeFallsBackToText(t *testing.T) {
	w, _ := newWelcomer(t, "welcome", nil)
	sender := &fakeSender{}

	_, err := w.Welcome(context.Background(), sender, &discordgo.Guild{ID: "guild", Name: "Gophers"}, testMember())
	require.NoError(t, err)

	require.Len(t, sender.sent.Embeds, 1)
	assert.Nil(t, sender.sent.Embeds[0].Image)
	assert.Empty(t, sender.sent.Files)
	assert.Equal(t, store.DefaultWelcomeMessages[0], sender.sent.Embeds[0].Description)
	assert.Empty(t, sender.sent.Embeds[0].Footer.IconURL)
}

func TestWelcomeSendError(t *testing.T) {
	w, _ := newWelcomer(t, "welcome", nil)
	sender := &fakeSender{err: errors.New("boom")}

	_, err := w.Welcome(context.Background(), sender, &discordgo.Guild{ID: "guild"}, testMember())
	assert.ErrorContains(t, err, "boom")
}

func TestBuildWelcomeJoinedFallback(t *testing.T) {
	now := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
	member := &discordgo.Member{User: &discordgo.User{ID: "7", Username: "bob"}}

	send := BuildWelcome(Greeting{Member: member, Template: "{username} joined {server}", GuildName: "G", Now: now})
	assert.Equal(t, "Joined January 02, 2025", send.Embeds[0].Footer.Text)
	assert.Equal(t, "bob joined G", send.Embeds[0].Description)
}
