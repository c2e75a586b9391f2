package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/annotate-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/annotate-cli/internal/core/domain"
)

// failingConfigStore rejects every write.
type failingConfigStore struct {
	*memory.ConfigStore
}

func (failingConfigStore) Set(string, any) error {
	return errors.New("disk full")
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set(KeyLineWidth, 4.0)
	_ = store.Set(KeyShowLabels, false)
	_ = store.Set(KeyColorMode, "class")
	_ = store.Set(KeyMaskMode, "outline")
	_ = store.Set(KeyMaskOpacity, 0.0)
	_ = store.Set(KeyRenderW, 640)
	_ = store.Set(KeyDebounceMS, 50)

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.InDelta(t, 4.0, settings.Workspace.Draw.LineWidth, 1e-9)
	assert.False(t, settings.Workspace.Draw.ShowLabels)
	assert.Equal(t, domain.ColorModeClass, settings.Workspace.Display.ColorMode)
	assert.Equal(t, domain.MaskModeOutline, settings.Workspace.Display.MaskMode)
	assert.Zero(t, settings.Workspace.Display.MaskOpacity)
	assert.Equal(t, 640, settings.Render.Width)
	assert.Equal(t, 50*time.Millisecond, settings.Watch.Debounce)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set(KeyLineWidth, -1.0)
	_ = store.Set(KeyZoom, "big")
	_ = store.Set(KeyColorMode, "rainbow")
	_ = store.Set(KeyMaskMode, "")
	_ = store.Set(KeyMaskOpacity, 1.5)
	_ = store.Set(KeyRenderH, -20)

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_SaveAndGet(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())
	settings := domain.DefaultAppSettings()
	settings.Workspace.Draw.Zoom = 2.5
	settings.Workspace.Display.MaskMode = domain.MaskModeHidden
	settings.Render.Height = 480

	require.NoError(t, service.Save(&settings))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *got)
}

func TestSettingsService_Save_RejectsInvalid(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)
	settings := domain.DefaultAppSettings()
	settings.Workspace.Display.MaskOpacity = 2

	err := service.Save(&settings)

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	_, exists := store.Get(KeyMaskOpacity)
	assert.False(t, exists)
}

func TestSettingsService_Save_StoreError(t *testing.T) {
	service := NewSettingsService(failingConfigStore{memory.NewConfigStore()})
	settings := domain.DefaultAppSettings()

	err := service.Save(&settings)

	require.Error(t, err)
	assert.Contains(t, err.Error(), KeyLineWidth)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{KeyLineWidth, "3.5"},
		{KeyShowLabels, "false"},
		{KeyZoom, "2"},
		{KeyColorMode, "class"},
		{KeyMaskMode, "outline"},
		{KeyMaskOpacity, "0.25"},
		{KeyRenderW, "1024"},
		{KeyRenderH, "768"},
		{KeyDebounceMS, "500"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore())

			require.NoError(t, service.Set(tt.key, tt.value))

			got, err := service.Value(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestSettingsService_Set_Errors(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	assert.ErrorIs(t, service.Set("draw.colour", "red"), domain.ErrNotFound)
	assert.ErrorIs(t, service.Set(KeyLineWidth, "thick"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Set(KeyLineWidth, "0"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Set(KeyColorMode, "rainbow"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Set(KeyShowLabels, "maybe"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Set(KeyMaskOpacity, "1.1"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Set(KeyRenderW, "-1"), domain.ErrInvalidInput)

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Value_Defaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	values := map[string]string{}
	for _, key := range service.Keys() {
		v, err := service.Value(key)
		require.NoError(t, err)
		values[key] = v
	}

	assert.Equal(t, "2", values[KeyLineWidth])
	assert.Equal(t, "true", values[KeyShowLabels])
	assert.Equal(t, "file", values[KeyColorMode])
	assert.Equal(t, "0.5", values[KeyMaskOpacity])
	assert.Equal(t, "200", values[KeyDebounceMS])

	_, err := service.Value("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSettingsService_Keys(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	keys := service.Keys()
	keys[0] = "mutated"

	assert.Len(t, service.Keys(), 9)
	assert.Equal(t, KeyLineWidth, service.Keys()[0])
	assert.Equal(t, KeyDebounceMS, service.Keys()[8])
}

func TestSettingsService_Reset(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)
	require.NoError(t, service.Set(KeyZoom, "3"))

	require.NoError(t, service.Reset())

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, service.GetDefaults(), *settings)
	assert.InDelta(t, 1.0, store.GetFloat(KeyZoom), 1e-9)
}
