package embeds

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "A",
		Description: "description",
		Color:       0x123456,
		Timestamp:   "2024-01-02T03:04:05Z",
		Footer:      &discordgo.MessageEmbedFooter{Text: "footer", IconURL: "https://cdn.example.com/footer.png"},
		Image:       &discordgo.MessageEmbedImage{URL: "https://cdn.example.com/image.png", Width: 10, Height: 10},
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: "https://cdn.example.com/thumb.png"},
		Author:      &discordgo.MessageEmbedAuthor{Name: "author", IconURL: "https://cdn.example.com/author.png"},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "one", Value: "1", Inline: true},
			{Name: "two", Value: "2"},
		},
	}
}

func TestParseInstruction(t *testing.T) {
	assert.True(t, ParseInstruction("", false).IsUnchanged())
	assert.True(t, ParseInstruction("anything", false).IsUnchanged())
	assert.True(t, ParseInstruction("clear", true).IsCleared())
	assert.True(t, ParseInstruction(" CLEAR ", true).IsCleared())

	v, ok := ParseInstruction("B", true).Value()
	assert.True(t, ok)
	assert.Equal(t, "B", v)

	_, ok = Unchanged().Value()
	assert.False(t, ok)
}

func TestApplyEmptyPatchIsIdentity(t *testing.T) {
	in := sampleEmbed()

	out, err := Patch{}.Apply(in)
	require.NoError(t, err)

	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("empty patch changed the embed (-want +got):\n%s", diff)
	}
	assert.NotSame(t, in, out)
	assert.NotSame(t, in.Footer, out.Footer)
	assert.NotSame(t, in.Fields[0], out.Fields[0])
}

func TestApplySetTitle(t *testing.T) {
	in := sampleEmbed()

	out, err := Patch{Title: SetTo("B")}.Apply(in)
	require.NoError(t, err)

	assert.Equal(t, "B", out.Title)
	assert.Equal(t, in.Description, out.Description)
	assert.Equal(t, in.Footer.Text, out.Footer.Text)
	assert.Equal(t, in.Color, out.Color)
	assert.Equal(t, "A", in.Title, "input must not be mutated")
}

func TestApplyClearTitle(t *testing.T) {
	out, err := Patch{Title: Cleared()}.Apply(sampleEmbed())
	require.NoError(t, err)

	assert.Empty(t, out.Title)
	assert.Equal(t, "description", out.Description)
}

func TestApplyClearSubRecords(t *testing.T) {
	out, err := Patch{
		Image:      Cleared(),
		Thumbnail:  Cleared(),
		AuthorName: Cleared(),
		FooterText: Cleared(),
	}.Apply(sampleEmbed())
	require.NoError(t, err)

	assert.Nil(t, out.Image)
	assert.Nil(t, out.Thumbnail)
	assert.Nil(t, out.Author)
	assert.Nil(t, out.Footer)
	assert.Len(t, out.Fields, 2)
}

func TestApplySetSubRecords(t *testing.T) {
	out, err := Patch{
		Image:      SetTo("https://example.com/new.png"),
		Thumbnail:  SetTo("https://example.com/thumb2.png"),
		AuthorName: SetTo("someone"),
		FooterIcon: Cleared(),
	}.Apply(sampleEmbed())
	require.NoError(t, err)

	assert.Equal(t, &discordgo.MessageEmbedImage{URL: "https://example.com/new.png"}, out.Image)
	assert.Equal(t, "https://example.com/thumb2.png", out.Thumbnail.URL)
	assert.Equal(t, "someone", out.Author.Name)
	assert.Equal(t, "https://cdn.example.com/author.png", out.Author.IconURL)
	assert.Equal(t, "footer", out.Footer.Text)
	assert.Empty(t, out.Footer.IconURL)
}

func TestApplyColor(t *testing.T) {
	out, err := Patch{Color: SetTo("white")}.Apply(sampleEmbed())
	require.NoError(t, err)
	assert.Equal(t, 0xFFFFFF, out.Color)

	out, err = Patch{Color: Cleared()}.Apply(sampleEmbed())
	require.NoError(t, err)
	assert.Equal(t, 0x123456, out.Color)
}

func TestApplyAuthorIconNeedsName(t *testing.T) {
	in := &discordgo.MessageEmbed{Title: "A"}

	_, err := Patch{AuthorIcon: SetTo("https://example.com/x.png")}.Apply(in)
	assert.ErrorIs(t, err, ErrAuthorIconWithoutName)

	_, err = Patch{AuthorName: Cleared(), AuthorIcon: SetTo("https://example.com/x.png")}.Apply(sampleEmbed())
	assert.ErrorIs(t, err, ErrAuthorIconWithoutName)

	out, err := Patch{AuthorName: SetTo("me"), AuthorIcon: SetTo("https://example.com/x.png")}.Apply(in)
	require.NoError(t, err)
	assert.Equal(t, &discordgo.MessageEmbedAuthor{Name: "me", IconURL: "https://example.com/x.png"}, out.Author)
}

func TestApplyFooterIconNeedsText(t *testing.T) {
	_, err := Patch{FooterIcon: SetTo("https://example.com/x.png")}.Apply(&discordgo.MessageEmbed{Title: "A"})
	assert.ErrorIs(t, err, ErrFooterIconWithoutText)
}

func TestApplyRejectsBadURL(t *testing.T) {
	_, err := Patch{Image: SetTo("ftp://example.com/x.png")}.Apply(sampleEmbed())
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestApplyRejectsEmptyResult(t *testing.T) {
	in := &discordgo.MessageEmbed{Title: "A", Color: 1}

	_, err := Patch{Title: Cleared()}.Apply(in)
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestApplyContent(t *testing.T) {
	assert.Equal(t, "hello", Patch{}.ApplyContent("hello"))
	assert.Equal(t, "", Patch{Content: Cleared()}.ApplyContent("hello"))
	assert.Equal(t, "bye", Patch{Content: SetTo("bye")}.ApplyContent("hello"))
}
