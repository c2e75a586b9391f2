package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// ColorMode selects how annotation strokes are coloured.
type ColorMode string

// Available colour modes.
const (
	// ColorModeFile colours every annotation with its file's colour.
	ColorModeFile ColorMode = "file"

	// ColorModeClass colours every annotation with its class colour.
	ColorModeClass ColorMode = "class"
)

// AllColorModes returns every colour mode in display order.
func AllColorModes() []ColorMode {
	return []ColorMode{ColorModeFile, ColorModeClass}
}

// IsValid returns true if the colour mode is recognised.
func (m ColorMode) IsValid() bool {
	return m == ColorModeFile || m == ColorModeClass
}

// String returns the string representation.
func (m ColorMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m ColorMode) Description() string {
	switch m {
	case ColorModeFile:
		return "Per file"
	case ColorModeClass:
		return "Per class"
	default:
		return unknownDescription
	}
}

// MaskMode selects how the mask is visualised over the image.
type MaskMode string

// Available mask modes.
const (
	// MaskModeOverlay blends the mask over the image.
	MaskModeOverlay MaskMode = "overlay"

	// MaskModeOutline draws only the mask's region boundaries.
	MaskModeOutline MaskMode = "outline"

	// MaskModeHidden does not draw the mask.
	MaskModeHidden MaskMode = "hidden"
)

// AllMaskModes returns every mask mode in display order.
func AllMaskModes() []MaskMode {
	return []MaskMode{MaskModeOverlay, MaskModeOutline, MaskModeHidden}
}

// IsValid returns true if the mask mode is recognised.
func (m MaskMode) IsValid() bool {
	switch m {
	case MaskModeOverlay, MaskModeOutline, MaskModeHidden:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m MaskMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m MaskMode) Description() string {
	switch m {
	case MaskModeOverlay:
		return "Overlay (blended)"
	case MaskModeOutline:
		return "Outline only"
	case MaskModeHidden:
		return "Hidden"
	default:
		return unknownDescription
	}
}

// DrawSettings controls stroke rendering. Never logged.
type DrawSettings struct {
	LineWidth  float64
	ShowLabels bool
	Zoom       float64
}

// DisplaySettings controls colouring and mask visualisation. Never logged.
type DisplaySettings struct {
	ColorMode   ColorMode
	MaskMode    MaskMode
	MaskOpacity float64
}

// Settings groups everything configurable about how a workspace is drawn.
type Settings struct {
	Draw    DrawSettings
	Display DisplaySettings
}

// DefaultDrawSettings returns the draw settings of a fresh workspace.
func DefaultDrawSettings() DrawSettings {
	return DrawSettings{
		LineWidth:  2,
		ShowLabels: true,
		Zoom:       1,
	}
}

// DefaultDisplaySettings returns the display settings of a fresh workspace.
func DefaultDisplaySettings() DisplaySettings {
	return DisplaySettings{
		ColorMode:   ColorModeFile,
		MaskMode:    MaskModeOverlay,
		MaskOpacity: 0.5,
	}
}

// DefaultSettings returns sensible default settings.
func DefaultSettings() Settings {
	return Settings{
		Draw:    DefaultDrawSettings(),
		Display: DefaultDisplaySettings(),
	}
}

// Validate checks the draw settings are usable.
func (s DrawSettings) Validate() error {
	if s.LineWidth <= 0 {
		return fmt.Errorf("%w: line width must be positive", ErrInvalidInput)
	}
	if s.Zoom <= 0 {
		return fmt.Errorf("%w: zoom must be positive", ErrInvalidInput)
	}
	return nil
}

// Validate checks the display settings are usable.
func (s DisplaySettings) Validate() error {
	if !s.ColorMode.IsValid() {
		return fmt.Errorf("%w: unknown colour mode %q", ErrInvalidInput, s.ColorMode)
	}
	if !s.MaskMode.IsValid() {
		return fmt.Errorf("%w: unknown mask mode %q", ErrInvalidInput, s.MaskMode)
	}
	if s.MaskOpacity < 0 || s.MaskOpacity > 1 {
		return fmt.Errorf("%w: mask opacity must be within [0,1]", ErrInvalidInput)
	}
	return nil
}

// Validate checks both groups of settings.
func (s Settings) Validate() error {
	if err := s.Draw.Validate(); err != nil {
		return err
	}
	return s.Display.Validate()
}

// RenderSettings controls the size of rendered snapshots.
// Zero means the native size of the loaded image.
type RenderSettings struct {
	Width  int
	Height int
}

// Validate checks the render settings are usable.
func (s RenderSettings) Validate() error {
	if s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("%w: render size must not be negative", ErrInvalidInput)
	}
	return nil
}

// WatchSettings controls how file changes are coalesced.
type WatchSettings struct {
	Debounce time.Duration
}

// Validate checks the watch settings are usable.
func (s WatchSettings) Validate() error {
	if s.Debounce < 0 {
		return fmt.Errorf("%w: debounce must not be negative", ErrInvalidInput)
	}
	return nil
}

// AppSettings is everything persisted in the configuration file.
type AppSettings struct {
	Workspace Settings
	Render    RenderSettings
	Watch     WatchSettings
}

// DefaultAppSettings returns the settings used when nothing is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Workspace: DefaultSettings(),
		Watch:     WatchSettings{Debounce: 200 * time.Millisecond},
	}
}

// Validate checks every group of settings.
func (s AppSettings) Validate() error {
	if err := s.Workspace.Validate(); err != nil {
		return err
	}
	if err := s.Render.Validate(); err != nil {
		return err
	}
	return s.Watch.Validate()
}
