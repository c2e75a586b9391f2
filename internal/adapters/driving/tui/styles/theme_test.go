package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.NotEmpty(t, string(theme.Primary))
	assert.NotEmpty(t, string(theme.Secondary))
	assert.NotEmpty(t, string(theme.Foreground))
	assert.NotEmpty(t, string(theme.Muted))
	assert.NotEmpty(t, string(theme.Success))
	assert.NotEmpty(t, string(theme.Warning))
	assert.NotEmpty(t, string(theme.Error))
	assert.NotEmpty(t, string(theme.Border))
	assert.NotEmpty(t, string(theme.Bar))
}

func TestDefaultTheme_AccentsAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	accents := []lipgloss.Color{
		theme.Primary,
		theme.Secondary,
		theme.Success,
		theme.Warning,
		theme.Error,
	}

	seen := make(map[string]bool)
	for _, c := range accents {
		s := string(c)
		assert.False(t, seen[s], "duplicate accent: %s", s)
		seen[s] = true
	}
}

func TestNewStyles_WithTheme(t *testing.T) {
	theme := DefaultTheme()
	styles := NewStyles(theme)

	require.NotNil(t, styles)
	assert.Equal(t, theme, styles.Theme())
}

func TestNewStyles_NilTheme(t *testing.T) {
	styles := NewStyles(nil)

	require.NotNil(t, styles)
	assert.NotNil(t, styles.Theme())
}

func TestStyles_RenderText(t *testing.T) {
	styles := DefaultStyles()

	for _, st := range []lipgloss.Style{
		styles.Title, styles.Normal, styles.Muted, styles.Selected,
		styles.Active, styles.Undone, styles.Hidden, styles.Error,
	} {
		assert.Contains(t, st.Render("entry"), "entry")
	}
}

func TestStyles_FocusedPanelKeepsBorder(t *testing.T) {
	styles := DefaultStyles()

	assert.Equal(t, lipgloss.Color("#7C3AED"), styles.FocusedPanel.GetBorderTopForeground())
	assert.Equal(t, lipgloss.Color("#45475A"), styles.Panel.GetBorderTopForeground())
	assert.Equal(t, styles.Panel.GetBorderStyle(), styles.FocusedPanel.GetBorderStyle())
}

func TestStyles_Swatch(t *testing.T) {
	styles := DefaultStyles()

	assert.Contains(t, styles.Swatch("hsl(18, 70%, 50%)"), "■")
	assert.Contains(t, styles.Swatch("not a colour"), "■")
}
