package colors

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Crimson is used whenever a color expression is missing or cannot be understood.
const Crimson = 0xDC143C

var hexPattern = regexp.MustCompile(`^(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
var tuplePattern = regexp.MustCompile(`^\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*\)$`)

var named = map[string]int{
	"black":     0x000000,
	"white":     0xFFFFFF,
	"red":       0xFF0000,
	"green":     0x00FF00,
	"blue":      0x0000FF,
	"yellow":    0xFFFF00,
	"cyan":      0x00FFFF,
	"aqua":      0x00FFFF,
	"magenta":   0xFF00FF,
	"fuchsia":   0xFF00FF,
	"orange":    0xFFA500,
	"purple":    0x800080,
	"pink":      0xFFC0CB,
	"hotpink":   0xFF69B4,
	"brown":     0xA52A2A,
	"gray":      0x808080,
	"grey":      0x808080,
	"silver":    0xC0C0C0,
	"gold":      0xFFD700,
	"navy":      0x000080,
	"teal":      0x008080,
	"maroon":    0x800000,
	"olive":     0x808000,
	"lime":      0x32CD32,
	"crimson":   Crimson,
	"coral":     0xFF7F50,
	"salmon":    0xFA8072,
	"violet":    0xEE82EE,
	"indigo":    0x4B0082,
	"turquoise": 0x40E0D0,
	"lavender":  0xE6E6FA,
	"beige":     0xF5F5DC,
	"mint":      0x98FF98,
	"skyblue":   0x87CEEB,

	// Discord brand colors
	"blurple":         0x5865F2,
	"old_blurple":     0x7289DA,
	"greyple":         0x99AAB5,
	"dark_theme":      0x36393F,
	"discord_green":   0x57F287,
	"discord_yellow":  0xFEE75C,
	"discord_fuchsia": 0xEB459E,
	"discord_red":     0xED4245,
	"discord_white":   0xFFFFFF,
	"discord_black":   0x23272A,
}

// Parse resolves a user supplied color expression to a 24-bit RGB value.
// Accepted forms are "#rgb", "#rrggbb" (hash optional), a color name and
// "(r, g, b)". Anything else yields Crimson.
func Parse(input string) int {
	s := strings.TrimSpace(input)
	if s == "" {
		return Crimson
	}

	if hex := strings.TrimPrefix(s, "#"); hexPattern.MatchString(hex) {
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		v, err := strconv.ParseInt(hex, 16, 32)
		if err == nil {
			return int(v)
		}
	}

	key := strings.ReplaceAll(strings.ToLower(s), " ", "_")
	if v, ok := named[key]; ok {
		return v
	}
	if v, ok := named[strings.ReplaceAll(key, "_", "")]; ok {
		return v
	}

	if m := tuplePattern.FindStringSubmatch(s); m != nil {
		var rgb [3]int
		for i := range rgb {
			n, err := strconv.Atoi(m[i+1])
			if err != nil || n > 255 {
				return Crimson
			}
			rgb[i] = n
		}
		return rgb[0]<<16 | rgb[1]<<8 | rgb[2]
	}

	return Crimson
}

// Hex formats a 24-bit color as #RRGGBB.
func Hex(c int) string {
	return fmt.Sprintf("#%06X", c&0xFFFFFF)
}
