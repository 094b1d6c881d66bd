package embeds

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"welcomebot/packages/colors"
)

var (
	ErrNoContent             = errors.New("embed has no content")
	ErrInvalidURL            = errors.New("invalid url")
	ErrAuthorIconWithoutName = errors.New("author icon requires an author name")
	ErrFooterIconWithoutText = errors.New("footer icon requires footer text")
	ErrTooLong               = errors.New("embed field too long")
	ErrTooManyImages         = errors.New("too many images")
)

// Discord limits
const (
	MaxTitle       = 256
	MaxDescription = 4096
	MaxFooter      = 2048
	MaxAuthor      = 256
	MaxEmbeds      = 10
)

type Properties struct {
	Title       string
	Description string
	Color       string
	URL         string
	AuthorName  string
	AuthorIcon  string
	FooterText  string
	FooterIcon  string
	Thumbnail   string
	Timestamp   bool
}

// Build assembles the embeds for one message. The first embed carries every
// property plus the first image; each further image becomes a bare embed with
// only the color and that image.
func Build(p Properties, imageURLs []string, now time.Time) ([]*discordgo.MessageEmbed, error) {
	if len(imageURLs) > MaxEmbeds {
		return nil, fmt.Errorf("%w: %d given, at most %d", ErrTooManyImages, len(imageURLs), MaxEmbeds)
	}
	if p.AuthorIcon != "" && p.AuthorName == "" {
		return nil, ErrAuthorIconWithoutName
	}
	if p.FooterIcon != "" && p.FooterText == "" {
		return nil, ErrFooterIconWithoutText
	}

	for _, u := range append([]string{p.URL, p.AuthorIcon, p.FooterIcon, p.Thumbnail}, imageURLs...) {
		if u == "" {
			continue
		}
		if err := ValidateURL(u); err != nil {
			return nil, err
		}
	}

	if p.Title == "" && p.Description == "" && p.FooterText == "" && len(imageURLs) == 0 && p.Thumbnail == "" && p.AuthorName == "" {
		return nil, ErrNoContent
	}

	if err := checkLengths(p.Title, p.Description, p.FooterText, p.AuthorName); err != nil {
		return nil, err
	}

	color := colors.Parse(p.Color)

	first := &discordgo.MessageEmbed{
		Title:       p.Title,
		Description: p.Description,
		URL:         p.URL,
		Color:       color,
	}
	if p.AuthorName != "" {
		first.Author = &discordgo.MessageEmbedAuthor{Name: p.AuthorName, IconURL: p.AuthorIcon}
	}
	if p.FooterText != "" {
		first.Footer = &discordgo.MessageEmbedFooter{Text: p.FooterText, IconURL: p.FooterIcon}
	}
	if p.Thumbnail != "" {
		first.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: p.Thumbnail}
	}
	if p.Timestamp {
		first.Timestamp = now.UTC().Format(time.RFC3339)
	}

	result := []*discordgo.MessageEmbed{first}

	for i, u := range imageURLs {
		if i == 0 {
			first.Image = &discordgo.MessageEmbedImage{URL: u}
			continue
		}
		result = append(result, &discordgo.MessageEmbed{
			Color: color,
			Image: &discordgo.MessageEmbedImage{URL: u},
		})
	}

	return result, nil
}

// SplitImageURLs splits a one-url-per-line input. Any whitespace separates
// entries since slash command strings cannot carry newlines.
func SplitImageURLs(raw string) []string {
	return strings.Fields(raw)
}

// ValidateURL accepts absolute http and https urls only.
func ValidateURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q must be an http(s) link", ErrInvalidURL, raw)
	}
	return nil
}

func checkLengths(title, description, footer, author string) error {
	limits := []struct {
		name  string
		value string
		max   int
	}{
		{"title", title, MaxTitle},
		{"description", description, MaxDescription},
		{"footer", footer, MaxFooter},
		{"author", author, MaxAuthor},
	}

	for _, l := range limits {
		if n := utf8.RuneCountInString(l.value); n > l.max {
			return fmt.Errorf("%w: %s has %d characters, limit is %d", ErrTooLong, l.name, n, l.max)
		}
	}

	return nil
}

// IsEmpty reports whether an embed would render nothing visible.
func IsEmpty(e *discordgo.MessageEmbed) bool {
	if e == nil {
		return true
	}
	return e.Title == "" &&
		e.Description == "" &&
		(e.Footer == nil || e.Footer.Text == "") &&
		(e.Image == nil || e.Image.URL == "") &&
		(e.Thumbnail == nil || e.Thumbnail.URL == "") &&
		(e.Author == nil || e.Author.Name == "") &&
		len(e.Fields) == 0
}
