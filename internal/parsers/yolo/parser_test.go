package yolo

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/annotate-cli/internal/core/domain"
	"github.com/custodia-labs/annotate-cli/internal/logger"
)

func TestNew(t *testing.T) {
	p := New()
	require.NotNil(t, p)
	assert.Equal(t, "yolo", p.Name())
	assert.Equal(t, []string{"text/plain"}, p.SupportedMIMETypes())
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected bool
	}{
		{name: "single box", content: "0 0.5 0.5 0.2 0.2", expected: true},
		{name: "several boxes", content: "0 0.5 0.5 0.2 0.2\n1 0.1 0.1 0.05 0.05\n2 .3 .3 .1 .1\n", expected: true},
		{name: "windows line endings", content: "0 0.5 0.5 0.2 0.2\r\n1 0.1 0.1 0.05 0.05\r\n", expected: true},
		{name: "extra columns", content: "0 0.5 0.5 0.2 0.2 0.9", expected: true},
		{name: "empty", content: "", expected: false},
		{name: "only newlines", content: "\n\n\n", expected: false},
		{name: "prose", content: "hello world\nthis is text\n", expected: false},
		{name: "pixel coordinates", content: "0 320 240 50 50", expected: false},
		{name: "too few fields", content: "0 0.5 0.5 0.2", expected: false},
		{name: "comment line", content: "# boxes\n0 0.5 0.5 0.2 0.2\n1 0.5 0.5 0.2 0.2", expected: false},
		{name: "one bad line among good", content: "0 0.5 0.5 0.2 0.2\nfoo\n1 0.5 0.5 0.2 0.2\n2 0.5 0.5 0.2 0.2", expected: false},
		{name: "bad last line is dropped", content: "0 0.5 0.5 0.2 0.2\n1 0.5 0.5 0.2 0.2\ngarbage", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, New().Detect([]byte(tt.content)))
		})
	}
}

func TestDetect_PeeksOnlyTheStart(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString("3 0.123456 0.654321 0.111111 0.222222\n")
	}
	b.WriteString("this line is never read\n")

	assert.True(t, New().Detect([]byte(b.String())))
}

func TestParse(t *testing.T) {
	content := strings.Join([]string{
		"# comment",
		"",
		"0 0.5 0.5 0.2 0.4",
		"  12   0.1 0.2 0.3 0.4  ",
		"1.0 0.5 0.5 0.1 0.1",
		"2 0.5 0.5 0.1 0.1 0.77",
	}, "\n")

	anns, err := New().Parse(context.Background(), []byte(content), 640, 480)
	require.NoError(t, err)
	require.Len(t, anns, 4)

	assert.Equal(t, domain.NewBBox("0", 0.5, 0.5, 0.2, 0.4), anns[0])
	assert.Equal(t, "12", anns[1].Class)
	assert.InDelta(t, 0.4, anns[1].H, 1e-9)
	assert.Equal(t, "1", anns[2].Class)
	assert.Equal(t, "2", anns[3].Class)
	for _, a := range anns {
		assert.Equal(t, domain.AnnotationBBox, a.Kind)
		assert.NoError(t, a.Validate())
	}
}

func TestParse_SkipsMalformedLines(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetVerbose(true)
	defer func() {
		logger.SetVerbose(false)
		logger.SetOutput(os.Stderr)
	}()

	content := strings.Join([]string{
		"0 0.5 0.5 0.2",
		"0 0.5 1.5 0.2 0.2",
		"0 0.5 -0.1 0.2 0.2",
		"x 0.5 0.5 0.2 0.2",
		"0 0.5 abc 0.2 0.2",
		"3 0.5 0.5 0.2 0.2",
	}, "\n")

	anns, err := New().Parse(context.Background(), []byte(content), 0, 0)
	require.NoError(t, err)
	require.Len(t, anns, 1)
	assert.Equal(t, "3", anns[0].Class)
	assert.Equal(t, 5, strings.Count(buf.String(), "[WARN] yolo: skipping line"))
}

func TestParse_RejectsNonFiniteValues(t *testing.T) {
	content := strings.Join([]string{
		"0 NaN 0.5 0.1 0.1",
		"0 0.5 0.5 +Inf 0.1",
		"NaN 0.5 0.5 0.1 0.1",
		"Inf 0.5 0.5 0.1 0.1",
		"4 0.5 0.5 0.1 0.1",
	}, "\n")

	anns, err := New().Parse(context.Background(), []byte(content), 0, 0)
	require.NoError(t, err)
	require.Len(t, anns, 1)
	assert.Equal(t, "4", anns[0].Class)
	for _, a := range anns {
		assert.NoError(t, a.Validate())
	}
}

func TestLooksLikeBox_NaN(t *testing.T) {
	assert.False(t, looksLikeBox("0 NaN 0.5 0.1 0.1"))
	assert.True(t, looksLikeBox("0 0.5 0.5 0.1 0.1"))
}

func TestParse_Empty(t *testing.T) {
	anns, err := New().Parse(context.Background(), nil, 0, 0)
	require.NoError(t, err)
	assert.NotNil(t, anns)
	assert.Empty(t, anns)
}

func TestParse_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Parse(ctx, []byte("0 0.5 0.5 0.2 0.2"), 0, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
