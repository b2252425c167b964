package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImage_ASCII(t *testing.T) {
	var buf bytes.Buffer
	err := Image(&buf, []float64{0, 1, 0.5, -3, 7, 1}, 3, false)
	require.NoError(t, err)

	assert.Equal(t, " @+\n @@\n", buf.String())
}

func TestImage_Color(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Image(&buf, []float64{0, 1}, 2, true))

	want := "\x1b[38;2;255;255;255m■\x1b[0m" + "\x1b[38;2;0;0;0m■\x1b[0m" + "\n"
	assert.Equal(t, want, buf.String())
}

func TestImage_MNISTSize(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Image(&buf, make([]float64, 28*28), 28, true))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 28)
	assert.Equal(t, 28, strings.Count(lines[0], Block))
}

func TestImage_BadWidth(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Image(&buf, make([]float64, 10), 3, false))
	assert.Error(t, Image(&buf, make([]float64, 10), 0, false))
	assert.Zero(t, buf.Len())
}

func TestIsTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, IsTerminal(f))
}
