package tui

import (
	"sort"
	"strings"

	"github.com/thriveremote/thriveos/internal/desktop"
	"github.com/thriveremote/thriveos/internal/shell"
)

// renderDesktopPreview draws the visible windows of st onto a width x height
// character canvas, back to front, so higher windows cover lower ones.
func renderDesktopPreview(st *shell.State, width, height int) []string {
	if st == nil || width < 5 || height < 3 {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	area := st.Viewport.WorkArea()
	if area.Width < 1 || area.Height < 1 {
		drawBorder(canvas, width, height)
		return canvasLines(canvas)
	}

	windows := make([]desktop.Window, 0, len(st.Windows))
	for _, w := range st.Windows {
		if !w.IsMinimized {
			windows = append(windows, w)
		}
	}
	sort.SliceStable(windows, func(i, j int) bool { return windows[i].ZIndex < windows[j].ZIndex })

	for _, w := range windows {
		drawWindow(canvas, w, area.Width, area.Height, width, height)
	}
	drawBorder(canvas, width, height)
	return canvasLines(canvas)
}

// drawWindow maps w from desktop pixels onto the canvas interior, clears what
// it covers and frames it with its title on the top edge.
func drawWindow(canvas [][]rune, w desktop.Window, areaW, areaH, canvasW, canvasH int) {
	innerW, innerH := canvasW-2, canvasH-2
	x1 := 1 + w.Position.X*innerW/areaW
	y1 := 1 + w.Position.Y*innerH/areaH
	x2 := (w.Position.X + w.Size.Width) * innerW / areaW
	y2 := (w.Position.Y + w.Size.Height) * innerH / areaH

	if x1 < 1 {
		x1 = 1
	}
	if y1 < 1 {
		y1 = 1
	}
	if x2 > canvasW-2 {
		x2 = canvasW - 2
	}
	if y2 > canvasH-2 {
		y2 = canvasH - 2
	}

	// Need at least 2x2 for a window
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			canvas[y][x] = ' '
		}
	}
	for x := x1; x <= x2; x++ {
		canvas[y1][x] = '─'
		canvas[y2][x] = '─'
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = '│'
		canvas[y][x2] = '│'
	}
	canvas[y1][x1] = '┌'
	canvas[y1][x2] = '┐'
	canvas[y2][x1] = '└'
	canvas[y2][x2] = '┘'

	label := []rune(" " + string(w.ID) + ":" + w.Title + " ")
	for i, r := range label {
		x := x1 + 1 + i
		if x >= x2 {
			break
		}
		canvas[y1][x] = r
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	// Top and bottom borders
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}

	// Left and right borders
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}

	// Corners
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func canvasLines(canvas [][]rune) []string {
	lines := make([]string, len(canvas))
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func emptyCanvas(width, height int) []string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	lines := make([]string, height)
	empty := strings.Repeat(" ", width)
	for i := range lines {
		lines[i] = empty
	}
	return lines
}
