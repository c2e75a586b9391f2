package services

import (
	"fmt"
	"math"
	"unicode/utf16"

	"github.com/custodia-labs/annotate-cli/internal/core/domain"
)

// goldenAngle spreads consecutive hash values around the colour wheel.
const goldenAngle = 137.508

// ClassColor returns the colour assigned to a class label.
// The colour depends only on the label text, so a label keeps its colour
// across clears, replays and sessions.
func ClassColor(label string) string {
	return fmt.Sprintf("hsl(%d, 70%%, 50%%)", classHue(label))
}

// classHue hashes the label's UTF-16 code units with 32-bit wrap-around
// and maps the result onto [0, 360).
func classHue(label string) int {
	var h int32
	for _, c := range utf16.Encode([]rune(label)) {
		h = int32(c) + (h << 5) - h
	}
	hue := math.Mod(math.Abs(float64(h))*goldenAngle, 360)
	return int(hue)
}

// registerClassColors adds colours for the file's classes that have none yet.
// Existing entries, including overrides, are left alone.
func registerClassColors(colors map[string]string, file domain.AnnotationFile) {
	for _, class := range file.Classes() {
		if _, ok := colors[class]; !ok {
			colors[class] = ClassColor(class)
		}
	}
}
