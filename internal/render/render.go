// Package render draws grayscale images on a terminal.
package render

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	"golang.org/x/term"
)

// ramp maps intensity to ASCII, from blank to full.
const ramp = " .:-=+*#%@"

// Block is the glyph painted in colour mode.
const Block = "■"

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Image writes pixels, a row-major image width pixels wide with intensities in
// [0, 1], one text line per row.
//
// With color set each pixel is a 24-bit ANSI coloured block whose gray level
// is inverted, so ink is dark on a light cell. Otherwise an ASCII ramp is used.
func Image(w io.Writer, pixels []float64, width int, color bool) error {
	if width <= 0 || len(pixels)%width != 0 {
		return fmt.Errorf("render: %d pixels do not form rows of width %d", len(pixels), width)
	}

	bw := bufio.NewWriter(w)
	for y := 0; y < len(pixels)/width; y++ {
		for _, v := range pixels[y*width : (y+1)*width] {
			v = clamp(v)
			if color {
				g := 255 - uint8(v*255)
				fmt.Fprintf(bw, "\x1b[38;2;%d;%d;%dm%s\x1b[0m", g, g, g, Block)
				continue
			}
			idx := int(math.Round(v * float64(len(ramp)-1)))
			bw.WriteByte(ramp[idx])
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, 0), 1)
}
