package banner

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAvatar() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 128, 128))
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 2), G: 80, B: uint8(y * 2), A: 255})
		}
	}
	return img
}

func TestComposeDimensions(t *testing.T) {
	c := NewCompositor(NewFontResolver(EmbeddedFont()))

	data := c.Compose(testAvatar(), strings.Repeat("verylongname", 5), 1234)
	require.NotNil(t, data)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, Width, Height), img.Bounds())

	// the frame is fully opaque
	_, _, _, a := img.At(AvatarX+AvatarSize/2, AvatarY+AvatarSize/2).RGBA()
	assert.Equal(t, uint32(0xFFFF), a)
}

func TestComposeIsDeterministic(t *testing.T) {
	c := NewCompositor(NewFontResolver(EmbeddedFont()))

	first := c.Compose(testAvatar(), "Gopher", 7)
	second := c.Compose(testAvatar(), "Gopher", 7)
	require.NotNil(t, first)
	assert.True(t, bytes.Equal(first, second))
}

func TestComposeWithBasicFontFallback(t *testing.T) {
	c := NewCompositor(NewFontResolver(FileFont("/nonexistent/font.ttf")))

	data := c.Compose(testAvatar(), "Gopher", 2)
	require.NotNil(t, data)
}

func TestComposeFailuresReturnNil(t *testing.T) {
	c := NewCompositor(NewFontResolver(EmbeddedFont()))

	assert.Nil(t, c.Compose(nil, "Gopher", 1))
	assert.Nil(t, c.Compose(image.NewNRGBA(image.Rect(0, 0, 0, 0)), "Gopher", 1))
	assert.Nil(t, c.ComposeBytes([]byte("not an image"), "Gopher", 1))
	assert.Nil(t, c.ComposeBytes(nil, "Gopher", 1))
}

func TestComposeBytes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testAvatar()))

	c := NewCompositor(NewFontResolver(EmbeddedFont()))
	assert.NotNil(t, c.ComposeBytes(buf.Bytes(), "Gopher", 3))
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "short", TruncateName("short"))

	exact := strings.Repeat("a", MaxNameLength)
	assert.Equal(t, exact, TruncateName(exact))

	got := TruncateName(strings.Repeat("ü", MaxNameLength+1))
	assert.Equal(t, strings.Repeat("ü", MaxNameLength-3)+"...", got)
}

func TestMemberLine(t *testing.T) {
	assert.Equal(t, "1st Member", MemberLine(1))
	assert.Equal(t, "42nd Member", MemberLine(42))
	assert.Equal(t, "113th Member", MemberLine(113))
	assert.Equal(t, "", MemberLine(0))
}

func TestComposeWithoutMemberCount(t *testing.T) {
	c := NewCompositor(NewFontResolver(EmbeddedFont()))

	unknown := c.Compose(testAvatar(), "gopher", 0)
	require.NotNil(t, unknown)
	counted := c.Compose(testAvatar(), "gopher", 7)
	require.NotNil(t, counted)

	assert.NotEqual(t, unknown, counted)
}
