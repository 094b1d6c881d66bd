package banner

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

var SystemFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
	"/usr/share/fonts/truetype/freefont/FreeSansBold.ttf",
}

type Fonts struct {
	Title    font.Face
	Subtitle font.Face
	Source   string
}

// A FontSource tries to produce faces at the two requested sizes.
type FontSource struct {
	Name string
	Load func(titleSize, subtitleSize float64) (title, subtitle font.Face, err error)
}

// FileFont loads a TrueType font from disk.
func FileFont(path string) FontSource {
	return FontSource{
		Name: path,
		Load: func(titleSize, subtitleSize float64) (font.Face, font.Face, error) {
			if _, err := os.Stat(path); err != nil {
				return nil, nil, err
			}
			title, err := gg.LoadFontFace(path, titleSize)
			if err != nil {
				return nil, nil, err
			}
			subtitle, err := gg.LoadFontFace(path, subtitleSize)
			if err != nil {
				return nil, nil, err
			}
			return title, subtitle, nil
		},
	}
}

// EmbeddedFont uses the Go Bold font compiled into the binary.
func EmbeddedFont() FontSource {
	return FontSource{
		Name: "gobold",
		Load: func(titleSize, subtitleSize float64) (font.Face, font.Face, error) {
			parsed, err := opentype.Parse(gobold.TTF)
			if err != nil {
				return nil, nil, fmt.Errorf("parse font: %w", err)
			}
			title, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: titleSize, DPI: 72, Hinting: font.HintingFull})
			if err != nil {
				return nil, nil, err
			}
			subtitle, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: subtitleSize, DPI: 72, Hinting: font.HintingFull})
			if err != nil {
				return nil, nil, err
			}
			return title, subtitle, nil
		},
	}
}

// DefaultFontSources lists extra font files first, then the usual system fonts,
// then the embedded font.
func DefaultFontSources(extraPaths []string) []FontSource {
	var sources []FontSource
	for _, p := range extraPaths {
		sources = append(sources, FileFont(p))
	}
	for _, p := range SystemFontPaths {
		sources = append(sources, FileFont(p))
	}
	return append(sources, EmbeddedFont())
}

type FontResolver struct {
	sources []FontSource

	mu    sync.Mutex
	cache map[[2]float64]Fonts
}

func NewFontResolver(sources ...FontSource) *FontResolver {
	return &FontResolver{
		sources: sources,
		cache:   make(map[[2]float64]Fonts),
	}
}

// Resolve returns the faces of the first source that loads at both sizes. When
// every source fails it falls back to the fixed-size basic font.
func (r *FontResolver) Resolve(titleSize, subtitleSize float64) Fonts {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := [2]float64{titleSize, subtitleSize}
	if fonts, ok := r.cache[key]; ok {
		return fonts
	}

	fonts := r.load(titleSize, subtitleSize)
	r.cache[key] = fonts
	return fonts
}

func (r *FontResolver) load(titleSize, subtitleSize float64) Fonts {
	for _, p := range r.sources {
		title, subtitle, err := p.Load(titleSize, subtitleSize)
		if err != nil {
			slog.Debug("Font unavailable", "font", p.Name, "error", err)
			continue
		}
		slog.Debug("Loaded font", "font", p.Name)
		return Fonts{Title: title, Subtitle: subtitle, Source: p.Name}
	}

	slog.Warn("All font candidates failed, using basic font")
	return Fonts{Title: basicfont.Face7x13, Subtitle: basicfont.Face7x13, Source: "basicfont"}
}
