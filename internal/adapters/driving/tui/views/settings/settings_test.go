package settings

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/annotate-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/annotate-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/annotate-cli/internal/core/domain"
	"github.com/custodia-labs/annotate-cli/internal/core/services"
)

func newTestView(t *testing.T) (*View, *services.SettingsService) {
	t.Helper()
	svc := services.NewSettingsService(memory.NewConfigStore())
	v := NewView(nil, svc)
	assert.Nil(t, v.Init())
	return v, svc
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestView_LoadsValues(t *testing.T) {
	v, _ := newTestView(t)

	view := v.View()

	assert.Contains(t, view, "Settings")
	assert.Contains(t, view, services.KeyLineWidth)
	assert.Contains(t, view, services.KeyDebounceMS)
	assert.Contains(t, view, "200")
	assert.NoError(t, v.Err())
	assert.Equal(t, services.KeyLineWidth, v.SelectedKey())
}

func TestView_NilService(t *testing.T) {
	v := NewView(nil, nil)
	v.Init()

	assert.Error(t, v.Err())
	assert.Contains(t, v.View(), "settings service not available")
	assert.Equal(t, "", v.SelectedKey())

	_, cmd := v.Update(key("enter"))
	assert.Nil(t, cmd)
	assert.False(t, v.Editing())
}

func TestView_Navigation(t *testing.T) {
	v, _ := newTestView(t)

	v.Update(key("up"))
	assert.Equal(t, services.KeyLineWidth, v.SelectedKey())

	v.Update(key("down"))
	v.Update(key("j"))
	assert.Equal(t, services.KeyZoom, v.SelectedKey())

	for i := 0; i < 20; i++ {
		v.Update(key("down"))
	}
	assert.Equal(t, services.KeyDebounceMS, v.SelectedKey())
}

func TestView_EditAndSave(t *testing.T) {
	v, svc := newTestView(t)
	v.Update(key("down"))
	v.Update(key("down"))

	_, cmd := v.Update(key("enter"))
	assert.NotNil(t, cmd)
	require.True(t, v.Editing())
	assert.Contains(t, v.View(), services.KeyZoom)

	v.Update(key("backspace"))
	v.Update(key("3"))
	_, cmd = v.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.False(t, v.Editing())

	msg := cmd()
	saved, ok := msg.(messages.SettingSaved)
	require.True(t, ok)
	assert.Equal(t, services.KeyZoom, saved.Key)
	assert.Equal(t, "3", saved.Value)
	require.NoError(t, saved.Err)

	v.Update(saved)
	got, err := svc.Value(services.KeyZoom)
	require.NoError(t, err)
	assert.Equal(t, "3", got)
	assert.Contains(t, v.View(), "3")
}

func TestView_SaveError(t *testing.T) {
	v, _ := newTestView(t)

	v.Update(key("enter"))
	v.Update(key("backspace"))
	v.Update(key("0"))
	_, cmd := v.Update(key("enter"))
	saved := cmd().(messages.SettingSaved)

	assert.ErrorIs(t, saved.Err, domain.ErrInvalidInput)

	v.Update(saved)
	assert.Error(t, v.Err())
	assert.Contains(t, v.View(), "Error:")
}

func TestView_EscCancelsEdit(t *testing.T) {
	v, svc := newTestView(t)

	v.Update(key("enter"))
	v.Update(key("9"))
	_, cmd := v.Update(key("esc"))

	assert.Nil(t, cmd)
	assert.False(t, v.Editing())
	got, _ := svc.Value(services.KeyLineWidth)
	assert.Equal(t, "2", got)
}

func TestView_EscLeavesPanel(t *testing.T) {
	v, _ := newTestView(t)

	_, cmd := v.Update(key("esc"))

	require.NotNil(t, cmd)
	assert.Equal(t, messages.PanelChanged{Panel: messages.PanelHistory}, cmd())
}
