// Package palette parses the colour strings stored in workspaces.
package palette

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/custodia-labs/annotate-cli/internal/core/domain"
)

var hslPattern = regexp.MustCompile(`^hsla?\(\s*(-?[\d.]+)\s*,\s*([\d.]+)%\s*,\s*([\d.]+)%`)

var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"red":     "#ff0000",
	"green":   "#008000",
	"lime":    "#00ff00",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"cyan":    "#00ffff",
	"magenta": "#ff00ff",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"gray":    "#808080",
	"grey":    "#808080",
}

// Parse parses the colour strings used by annotation files and
// class colours: hsl(h, s%, l%), #rgb, #rrggbb and a few CSS names.
func Parse(s string) (colorful.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[s]; ok {
		s = hex
	}

	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return colorful.Color{}, fmt.Errorf("%w: colour %q", domain.ErrInvalidInput, s)
		}
		return c, nil
	}

	if m := hslPattern.FindStringSubmatch(s); m != nil {
		h, _ := strconv.ParseFloat(m[1], 64)
		sat, _ := strconv.ParseFloat(m[2], 64)
		l, _ := strconv.ParseFloat(m[3], 64)
		h = math.Mod(h, 360)
		if h < 0 {
			h += 360
		}
		return colorful.Hsl(h, math.Min(sat, 100)/100, math.Min(l, 100)/100).Clamped(), nil
	}

	return colorful.Color{}, fmt.Errorf("%w: colour %q", domain.ErrInvalidInput, s)
}

// Level picks a distinct colour for a mask level.
// Consecutive levels are spread around the hue circle by the golden angle.
func Level(level uint8) colorful.Color {
	return colorful.Hsl(math.Mod(float64(level)*137.508, 360), 0.7, 0.5)
}

// Hex converts a colour string to #rrggbb, returning fallback when it
// cannot be parsed.
func Hex(s, fallback string) string {
	c, err := Parse(s)
	if err != nil {
		return fallback
	}
	return c.Hex()
}
