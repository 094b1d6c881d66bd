package banner

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"welcomebot/packages/avatar"
)

const (
	Width  = 800
	Height = 400

	AvatarSize = 200
	AvatarX    = 80
	AvatarY    = (Height - AvatarSize) / 2

	BackgroundBlur = 10
	OverlayAlpha   = 120
	GlowAlpha      = 180

	TitleSize    = 55
	SubtitleSize = 32

	TextX     = 320
	TitleY    = 118
	NameY     = 190
	CounterY  = 240
	TitleText = "GREETINGS!"

	MaxNameLength = 28
	NameEllipsis  = "..."
)

var glowRadii = []float64{10, 6, 3}

var boldOffsets = []image.Point{{0, 0}, {1, 0}, {-1, 0}, {0, 1}, {0, -1}}

var (
	crimson  = color.NRGBA{R: 220, G: 20, B: 60, A: 255}
	magenta  = color.NRGBA{R: 200, G: 50, B: 200, A: 255}
	offWhite = color.NRGBA{R: 250, G: 250, B: 250, A: 255}
	silver   = color.NRGBA{R: 180, G: 180, B: 180, A: 255}
)

var ErrEmptyAvatar = errors.New("avatar image is empty")

type textLine struct {
	text string
	y    float64
	face font.Face
	base color.NRGBA
	glow color.NRGBA
}

// Compositor renders welcome banners. Renders are serialized because font
// faces keep internal glyph caches.
type Compositor struct {
	fonts *FontResolver
	mu    sync.Mutex
}

func NewCompositor(fonts *FontResolver) *Compositor {
	return &Compositor{fonts: fonts}
}

// Compose renders the banner and returns PNG bytes, or nil when anything goes
// wrong. Callers fall back to a text-only welcome on nil.
func (c *Compositor) Compose(avatarImg image.Image, displayName string, memberCount int) (data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Error creating welcome banner", "panic", r)
			data = nil
		}
	}()

	data, err := c.compose(avatarImg, displayName, memberCount)
	if err != nil {
		slog.Error("Error creating welcome banner", "error", err)
		return nil
	}
	return data
}

// ComposeBytes decodes raw avatar bytes and renders the banner.
func (c *Compositor) ComposeBytes(avatarData []byte, displayName string, memberCount int) []byte {
	img, err := avatar.Decode(avatarData)
	if err != nil {
		slog.Error("Error creating welcome banner", "error", err)
		return nil
	}
	return c.Compose(img, displayName, memberCount)
}

func (c *Compositor) compose(avatarImg image.Image, displayName string, memberCount int) ([]byte, error) {
	if avatarImg == nil || avatarImg.Bounds().Empty() {
		return nil, ErrEmptyAvatar
	}

	background := imaging.Resize(avatarImg, Width, Height, imaging.Lanczos)
	background = imaging.Blur(background, BackgroundBlur)
	overlay := imaging.New(Width, Height, color.NRGBA{A: OverlayAlpha})
	background = imaging.Overlay(background, overlay, image.Point{}, 1.0)

	frame := imaging.Overlay(background, circularAvatar(avatarImg), image.Pt(AvatarX, AvatarY), 1.0)

	fonts := c.fonts.Resolve(TitleSize, SubtitleSize)

	lines := []textLine{
		{text: TitleText, y: TitleY, face: fonts.Title, base: crimson, glow: crimson},
		{text: TruncateName(displayName), y: NameY, face: fonts.Subtitle, base: offWhite, glow: magenta},
		{text: MemberLine(memberCount), y: CounterY, face: fonts.Subtitle, base: silver, glow: magenta},
	}
	for _, l := range lines {
		if l.text == "" {
			continue
		}
		frame = drawGlowText(frame, l)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func circularAvatar(src image.Image) image.Image {
	resized := imaging.Resize(src, AvatarSize, AvatarSize, imaging.Lanczos)

	dc := gg.NewContext(AvatarSize, AvatarSize)
	dc.DrawEllipse(AvatarSize/2, AvatarSize/2, AvatarSize/2, AvatarSize/2)
	dc.Clip()
	dc.DrawImage(resized, 0, 0)

	return dc.Image()
}

// drawGlowText blurs tinted copies of the text under a crisp top layer.
func drawGlowText(frame *image.NRGBA, l textLine) *image.NRGBA {
	glow := l.glow
	glow.A = GlowAlpha

	for _, radius := range glowRadii {
		layer := gg.NewContext(Width, Height)
		layer.SetFontFace(l.face)
		layer.SetColor(glow)
		layer.DrawStringAnchored(l.text, TextX, l.y, 0, 1)

		frame = imaging.Overlay(frame, imaging.Blur(layer.Image(), radius), image.Point{}, 1.0)
	}

	dc := gg.NewContextForImage(frame)
	dc.SetFontFace(l.face)
	dc.SetColor(l.base)
	for _, o := range boldOffsets {
		dc.DrawStringAnchored(l.text, TextX+float64(o.X), l.y+float64(o.Y), 0, 1)
	}

	return imaging.Clone(dc.Image())
}

// TruncateName shortens names longer than MaxNameLength characters so they
// end in an ellipsis and fit the banner.
func TruncateName(name string) string {
	if utf8.RuneCountInString(name) <= MaxNameLength {
		return name
	}
	runes := []rune(name)
	return string(runes[:MaxNameLength-len(NameEllipsis)]) + NameEllipsis
}

// MemberLine is empty when the count is unknown.
func MemberLine(count int) string {
	if count <= 0 {
		return ""
	}
	return humanize.Ordinal(count) + " Member"
}
