package render

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
)

// WriteHalfBlocks prints the framebuffer to w using one "▀" cell per pair of
// pixel rows: the foreground is the top pixel and the background the one
// below. Colors are downsampled to what w supports, so a plain file or pipe
// receives the bare glyphs.
func WriteHalfBlocks(w io.Writer, fb *Framebuffer) error {
	rows := (fb.Height + 1) / 2
	lines := make([]string, 0, rows)
	for row := range rows {
		lines = append(lines, halfBlockLine(fb, row*2))
	}
	if _, err := lipgloss.Fprintln(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	return nil
}

// halfBlockLine renders pixel rows y and y+1. Runs of identical cells share
// one style so the escape sequences stay short.
func halfBlockLine(fb *Framebuffer, y int) string {
	var sb strings.Builder
	for x := 0; x < fb.Width; {
		top, bot := fb.GetPixel(x, y), fb.GetPixel(x, y+1)
		run := 1
		for x+run < fb.Width && fb.GetPixel(x+run, y) == top && fb.GetPixel(x+run, y+1) == bot {
			run++
		}
		sb.WriteString(cellStyle(top, bot).Render(strings.Repeat("▀", run)))
		x += run
	}
	return sb.String()
}

// cellStyle leaves transparent pixels, such as the missing row below an odd
// height, uncolored.
func cellStyle(top, bot Color) lipgloss.Style {
	s := lipgloss.NewStyle()
	if top.A != 0 {
		s = s.Foreground(top)
	}
	if bot.A != 0 {
		s = s.Background(bot)
	}
	return s
}
