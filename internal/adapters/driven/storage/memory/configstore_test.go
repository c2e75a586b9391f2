package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/annotate-cli/internal/core/ports/driven"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.values)
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("display.color_mode", "class"))
	require.NoError(t, store.Set("display.color_mode", "file"))

	val, ok := store.Get("display.color_mode")
	assert.True(t, ok)
	assert.Equal(t, "file", val)

	_, ok = store.Get("display.mask_mode")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("draw.line_width", 3.5))
	require.NoError(t, store.Set("draw.show_labels", true))
	require.NoError(t, store.Set("render.width", 800))
	require.NoError(t, store.Set("render.height", int64(600)))
	require.NoError(t, store.Set("display.mask_mode", "outline"))
	require.NoError(t, store.Set("watch.paths", []any{"a.txt", 3, "b.geojson"}))

	tests := []struct {
		name     string
		get      func() any
		expected any
	}{
		{"string", func() any { return store.GetString("display.mask_mode") }, "outline"},
		{"string wrong type", func() any { return store.GetString("render.width") }, ""},
		{"string missing", func() any { return store.GetString("missing") }, ""},
		{"int", func() any { return store.GetInt("render.width") }, 800},
		{"int from int64", func() any { return store.GetInt("render.height") }, 600},
		{"int from float", func() any { return store.GetInt("draw.line_width") }, 3},
		{"int wrong type", func() any { return store.GetInt("display.mask_mode") }, 0},
		{"bool", func() any { return store.GetBool("draw.show_labels") }, true},
		{"bool wrong type", func() any { return store.GetBool("display.mask_mode") }, false},
		{"float", func() any { return store.GetFloat("draw.line_width") }, 3.5},
		{"float from int", func() any { return store.GetFloat("render.width") }, 800.0},
		{"float from int64", func() any { return store.GetFloat("render.height") }, 600.0},
		{"float wrong type", func() any { return store.GetFloat("display.mask_mode") }, 0.0},
		{"float missing", func() any { return store.GetFloat("missing") }, 0.0},
		{"slice", func() any { return store.GetStringSlice("watch.paths") }, []string{"a.txt", "b.geojson"}},
		{"slice missing", func() any { return store.GetStringSlice("missing") }, []string(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.get())
		})
	}
}

func TestConfigStore_SaveAndLoad_NoOp(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("draw.zoom", 2.0))

	require.NoError(t, store.Save())
	require.NoError(t, store.Load())

	assert.InDelta(t, 2.0, store.GetFloat("draw.zoom"), 0.0001)
}

func TestConfigStore_InterfaceCompliance(t *testing.T) {
	var store driven.ConfigStore = NewConfigStore()
	require.NoError(t, store.Set("draw.line_width", 2))
	assert.Equal(t, 2, store.GetInt("draw.line_width"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("render.width", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("render.width")
		}()
	}
	wg.Wait()

	_, ok := store.Get("render.width")
	assert.True(t, ok)
}
