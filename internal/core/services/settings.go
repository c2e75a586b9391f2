package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/annotate-cli/internal/core/domain"
	"github.com/custodia-labs/annotate-cli/internal/core/ports/driven"
	"github.com/custodia-labs/annotate-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyLineWidth   = "draw.line_width"
	KeyShowLabels  = "draw.show_labels"
	KeyZoom        = "draw.zoom"
	KeyColorMode   = "display.color_mode"
	KeyMaskMode    = "display.mask_mode"
	KeyMaskOpacity = "display.mask_opacity"
	KeyRenderW     = "render.width"
	KeyRenderH     = "render.height"
	KeyDebounceMS  = "watch.debounce_ms"
)

var settingsKeys = []string{
	KeyLineWidth, KeyShowLabels, KeyZoom,
	KeyColorMode, KeyMaskMode, KeyMaskOpacity,
	KeyRenderW, KeyRenderH, KeyDebounceMS,
}

// SettingsService manages persisted drawing defaults.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current settings. Missing or invalid values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Workspace: domain.Settings{
			Draw: domain.DrawSettings{
				LineWidth:  s.getPositive(KeyLineWidth, d.Workspace.Draw.LineWidth),
				ShowLabels: s.getBool(KeyShowLabels, d.Workspace.Draw.ShowLabels),
				Zoom:       s.getPositive(KeyZoom, d.Workspace.Draw.Zoom),
			},
			Display: domain.DisplaySettings{
				ColorMode:   s.getColorMode(d.Workspace.Display.ColorMode),
				MaskMode:    s.getMaskMode(d.Workspace.Display.MaskMode),
				MaskOpacity: s.getOpacity(d.Workspace.Display.MaskOpacity),
			},
		},
		Render: domain.RenderSettings{
			Width:  s.getInt(KeyRenderW, d.Render.Width),
			Height: s.getInt(KeyRenderH, d.Render.Height),
		},
		Watch: domain.WatchSettings{
			Debounce: time.Duration(s.getInt(KeyDebounceMS, int(d.Watch.Debounce/time.Millisecond))) * time.Millisecond,
		},
	}

	return settings, nil
}

// Save validates and persists settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{KeyLineWidth, settings.Workspace.Draw.LineWidth},
		{KeyShowLabels, settings.Workspace.Draw.ShowLabels},
		{KeyZoom, settings.Workspace.Draw.Zoom},
		{KeyColorMode, settings.Workspace.Display.ColorMode.String()},
		{KeyMaskMode, settings.Workspace.Display.MaskMode.String()},
		{KeyMaskOpacity, settings.Workspace.Display.MaskOpacity},
		{KeyRenderW, settings.Render.Width},
		{KeyRenderH, settings.Render.Height},
		{KeyDebounceMS, int(settings.Watch.Debounce / time.Millisecond)},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set parses value for key and saves the result.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if err := assign(settings, key, value); err != nil {
		return err
	}
	return s.Save(settings)
}

func assign(settings *domain.AppSettings, key, value string) error {
	draw := &settings.Workspace.Draw
	display := &settings.Workspace.Display
	var err error

	switch key {
	case KeyLineWidth:
		draw.LineWidth, err = strconv.ParseFloat(value, 64)
	case KeyShowLabels:
		draw.ShowLabels, err = strconv.ParseBool(value)
	case KeyZoom:
		draw.Zoom, err = strconv.ParseFloat(value, 64)
	case KeyColorMode:
		display.ColorMode = domain.ColorMode(value)
	case KeyMaskMode:
		display.MaskMode = domain.MaskMode(value)
	case KeyMaskOpacity:
		display.MaskOpacity, err = strconv.ParseFloat(value, 64)
	case KeyRenderW:
		settings.Render.Width, err = strconv.Atoi(value)
	case KeyRenderH:
		settings.Render.Height, err = strconv.Atoi(value)
	case KeyDebounceMS:
		var ms int
		ms, err = strconv.Atoi(value)
		settings.Watch.Debounce = time.Duration(ms) * time.Millisecond
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrNotFound, key)
	}

	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}
	return nil
}

// Keys lists the configurable keys in display order.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingsKeys...)
}

// Value returns the effective value of key as a string.
func (s *SettingsService) Value(key string) (string, error) {
	settings, err := s.Get()
	if err != nil {
		return "", err
	}
	draw, display := settings.Workspace.Draw, settings.Workspace.Display

	switch key {
	case KeyLineWidth:
		return formatFloat(draw.LineWidth), nil
	case KeyShowLabels:
		return strconv.FormatBool(draw.ShowLabels), nil
	case KeyZoom:
		return formatFloat(draw.Zoom), nil
	case KeyColorMode:
		return display.ColorMode.String(), nil
	case KeyMaskMode:
		return display.MaskMode.String(), nil
	case KeyMaskOpacity:
		return formatFloat(display.MaskOpacity), nil
	case KeyRenderW:
		return strconv.Itoa(settings.Render.Width), nil
	case KeyRenderH:
		return strconv.Itoa(settings.Render.Height), nil
	case KeyDebounceMS:
		return strconv.Itoa(int(settings.Watch.Debounce / time.Millisecond)), nil
	default:
		return "", fmt.Errorf("%w: unknown setting %q", domain.ErrNotFound, key)
	}
}

// Reset restores every key to its default.
func (s *SettingsService) Reset() error {
	defaults := domain.DefaultAppSettings()
	return s.Save(&defaults)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	if val := s.configStore.GetInt(key); val >= 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getPositive(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getOpacity(defaultVal float64) float64 {
	if _, exists := s.configStore.Get(KeyMaskOpacity); !exists {
		return defaultVal
	}
	val := s.configStore.GetFloat(KeyMaskOpacity)
	if val < 0 || val > 1 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getColorMode(defaultVal domain.ColorMode) domain.ColorMode {
	mode := domain.ColorMode(s.configStore.GetString(KeyColorMode))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) getMaskMode(defaultVal domain.MaskMode) domain.MaskMode {
	mode := domain.MaskMode(s.configStore.GetString(KeyMaskMode))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}
