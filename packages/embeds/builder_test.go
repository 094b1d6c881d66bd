package embeds

import (
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func TestBuildSingle(t *testing.T) {
	got, err := Build(Properties{
		Title:       "Hello",
		Description: "World",
		Color:       "#fff",
		AuthorName:  "me",
		AuthorIcon:  "https://example.com/me.png",
		FooterText:  "foot",
		Thumbnail:   "https://example.com/t.png",
		Timestamp:   true,
	}, []string{"https://example.com/1.png"}, now)
	require.NoError(t, err)
	require.Len(t, got, 1)

	want := &discordgo.MessageEmbed{
		Title:       "Hello",
		Description: "World",
		Color:       0xFFFFFF,
		Timestamp:   "2024-03-01T12:00:00Z",
		Author:      &discordgo.MessageEmbedAuthor{Name: "me", IconURL: "https://example.com/me.png"},
		Footer:      &discordgo.MessageEmbedFooter{Text: "foot"},
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: "https://example.com/t.png"},
		Image:       &discordgo.MessageEmbedImage{URL: "https://example.com/1.png"},
	}
	assert.Equal(t, want, got[0])
}

func TestBuildMultiImage(t *testing.T) {
	urls := SplitImageURLs("https://example.com/1.png\nhttps://example.com/2.png https://example.com/3.png")
	require.Len(t, urls, 3)

	got, err := Build(Properties{Title: "Gallery", Color: "blue", FooterText: "f"}, urls, now)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Gallery", got[0].Title)
	assert.Equal(t, "https://example.com/1.png", got[0].Image.URL)
	for i, e := range got[1:] {
		assert.Equal(t, &discordgo.MessageEmbed{
			Color: 0x0000FF,
			Image: &discordgo.MessageEmbedImage{URL: urls[i+1]},
		}, e)
	}
}

func TestBuildNoContent(t *testing.T) {
	_, err := Build(Properties{Color: "red", Timestamp: true}, nil, now)
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestBuildValidation(t *testing.T) {
	_, err := Build(Properties{Title: "x", Thumbnail: "javascript:alert(1)"}, nil, now)
	assert.ErrorIs(t, err, ErrInvalidURL)

	_, err = Build(Properties{Title: "x"}, []string{"not a url"}, now)
	assert.ErrorIs(t, err, ErrInvalidURL)

	_, err = Build(Properties{Title: "x", AuthorIcon: "https://example.com/a.png"}, nil, now)
	assert.ErrorIs(t, err, ErrAuthorIconWithoutName)

	_, err = Build(Properties{AuthorIcon: "https://example.com/a.png"}, nil, now)
	assert.ErrorIs(t, err, ErrAuthorIconWithoutName)

	_, err = Build(Properties{FooterIcon: "https://example.com/f.png"}, nil, now)
	assert.ErrorIs(t, err, ErrFooterIconWithoutText)

	_, err = Build(Properties{URL: "nope"}, nil, now)
	assert.ErrorIs(t, err, ErrInvalidURL)

	_, err = Build(Properties{Title: strings.Repeat("é", MaxTitle+1)}, nil, now)
	assert.ErrorIs(t, err, ErrTooLong)

	many := make([]string, MaxEmbeds+1)
	for i := range many {
		many[i] = "https://example.com/x.png"
	}
	_, err = Build(Properties{}, many, now)
	assert.ErrorIs(t, err, ErrTooManyImages)
}

func TestBuildDefaultColor(t *testing.T) {
	got, err := Build(Properties{Description: "only text"}, nil, now)
	require.NoError(t, err)
	assert.Equal(t, 0xDC143C, got[0].Color)
	assert.Empty(t, got[0].Timestamp)
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(nil))
	assert.True(t, IsEmpty(&discordgo.MessageEmbed{Color: 1}))
	assert.False(t, IsEmpty(&discordgo.MessageEmbed{Fields: []*discordgo.MessageEmbedField{{Name: "a", Value: "b"}}}))
}
