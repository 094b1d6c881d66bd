package embeds

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"welcomebot/packages/colors"
)

// ClearKeyword is the value administrators type to remove a field.
const ClearKeyword = "clear"

type action int

const (
	actionKeep action = iota
	actionClear
	actionSet
)

// Instruction says what to do with a single embed field: leave it alone,
// remove it, or replace it with a value.
type Instruction struct {
	action action
	value  string
}

func Unchanged() Instruction { return Instruction{action: actionKeep} }

func Cleared() Instruction { return Instruction{action: actionClear} }

func SetTo(v string) Instruction { return Instruction{action: actionSet, value: v} }

// ParseInstruction converts a raw command option into an Instruction.
// present is false when the option was not supplied at all.
func ParseInstruction(raw string, present bool) Instruction {
	switch {
	case !present:
		return Unchanged()
	case strings.EqualFold(strings.TrimSpace(raw), ClearKeyword):
		return Cleared()
	default:
		return SetTo(raw)
	}
}

func (i Instruction) IsUnchanged() bool { return i.action == actionKeep }
func (i Instruction) IsCleared() bool   { return i.action == actionClear }

// Value returns the replacement value and whether there is one.
func (i Instruction) Value() (string, bool) {
	return i.value, i.action == actionSet
}

func (i Instruction) resolve(existing string) string {
	switch i.action {
	case actionClear:
		return ""
	case actionSet:
		return i.value
	default:
		return existing
	}
}

// Patch holds one instruction per editable field. The zero value changes nothing.
type Patch struct {
	Content     Instruction
	Title       Instruction
	Description Instruction
	Color       Instruction
	FooterText  Instruction
	FooterIcon  Instruction
	Image       Instruction
	Thumbnail   Instruction
	AuthorName  Instruction
	AuthorIcon  Instruction
}

// ApplyContent resolves the plain message content that accompanies the embed.
func (p Patch) ApplyContent(existing string) string {
	return p.Content.resolve(existing)
}

// Apply returns a new embed with the patch applied to existing. Fields the
// patch does not mention are carried over, and the inline field list is
// always copied as is.
func (p Patch) Apply(existing *discordgo.MessageEmbed) (*discordgo.MessageEmbed, error) {
	if existing == nil {
		existing = &discordgo.MessageEmbed{}
	}
	out := clone(existing)

	out.Title = p.Title.resolve(existing.Title)
	out.Description = p.Description.resolve(existing.Description)

	// A color can't be removed, only replaced.
	if v, ok := p.Color.Value(); ok {
		out.Color = colors.Parse(v)
	}

	for _, ins := range []Instruction{p.Image, p.Thumbnail, p.AuthorIcon, p.FooterIcon} {
		if v, ok := ins.Value(); ok {
			if err := ValidateURL(v); err != nil {
				return nil, err
			}
		}
	}

	switch v, ok := p.Image.Value(); {
	case ok:
		out.Image = &discordgo.MessageEmbedImage{URL: v}
	case p.Image.IsCleared():
		out.Image = nil
	}

	switch v, ok := p.Thumbnail.Value(); {
	case ok:
		out.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: v}
	case p.Thumbnail.IsCleared():
		out.Thumbnail = nil
	}

	var authorName string
	if out.Author != nil {
		authorName = out.Author.Name
	}
	authorName = p.AuthorName.resolve(authorName)
	if _, ok := p.AuthorIcon.Value(); ok && authorName == "" {
		return nil, ErrAuthorIconWithoutName
	}
	switch {
	case authorName == "":
		out.Author = nil
	case out.Author == nil:
		out.Author = &discordgo.MessageEmbedAuthor{Name: authorName}
		out.Author.IconURL = p.AuthorIcon.resolve("")
	default:
		out.Author.Name = authorName
		out.Author.IconURL = p.AuthorIcon.resolve(out.Author.IconURL)
	}

	var footerText string
	if out.Footer != nil {
		footerText = out.Footer.Text
	}
	footerText = p.FooterText.resolve(footerText)
	if _, ok := p.FooterIcon.Value(); ok && footerText == "" {
		return nil, ErrFooterIconWithoutText
	}
	switch {
	case footerText == "":
		out.Footer = nil
	case out.Footer == nil:
		out.Footer = &discordgo.MessageEmbedFooter{Text: footerText}
		out.Footer.IconURL = p.FooterIcon.resolve("")
	default:
		out.Footer.Text = footerText
		out.Footer.IconURL = p.FooterIcon.resolve(out.Footer.IconURL)
	}

	if err := checkLengths(out.Title, out.Description, footerText, authorName); err != nil {
		return nil, err
	}
	if IsEmpty(out) {
		return nil, ErrNoContent
	}

	return out, nil
}

// clone deep copies an embed so the result never aliases the original.
func clone(e *discordgo.MessageEmbed) *discordgo.MessageEmbed {
	out := *e
	if e.Footer != nil {
		footer := *e.Footer
		out.Footer = &footer
	}
	if e.Image != nil {
		image := *e.Image
		out.Image = &image
	}
	if e.Thumbnail != nil {
		thumbnail := *e.Thumbnail
		out.Thumbnail = &thumbnail
	}
	if e.Video != nil {
		video := *e.Video
		out.Video = &video
	}
	if e.Provider != nil {
		provider := *e.Provider
		out.Provider = &provider
	}
	if e.Author != nil {
		author := *e.Author
		out.Author = &author
	}
	if e.Fields != nil {
		out.Fields = make([]*discordgo.MessageEmbedField, len(e.Fields))
		for i, f := range e.Fields {
			field := *f
			out.Fields[i] = &field
		}
	}
	return &out
}
