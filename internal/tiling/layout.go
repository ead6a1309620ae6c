package tiling

import (
	"fmt"
	"math"

	"github.com/thriveremote/thriveos/internal/config"
	"github.com/thriveremote/thriveos/internal/geom"
)

// maxStackRows caps each column of the master-stack side before a new
// column starts.
const maxStackRows = 3

// CalculateGrid determines the optimal grid dimensions for the given number of windows
func CalculateGrid(numWindows int) (rows, cols int) {
	if numWindows <= 0 {
		return 0, 0
	}

	// Columns first (ceiling of square root), then the rows they need.
	cols = int(math.Ceil(math.Sqrt(float64(numWindows))))
	rows = int(math.Ceil(float64(numWindows) / float64(cols)))
	return rows, cols
}

// ParseMode resolves a layout name. Empty selects fallback.
func ParseMode(name string, fallback config.LayoutMode) (config.LayoutMode, error) {
	if name == "" {
		return fallback, nil
	}
	for _, m := range config.LayoutModes() {
		if string(m) == name {
			return m, nil
		}
	}
	return "", fmt.Errorf("unsupported layout mode: %q", name)
}

// Positions computes window rects inside area for the layout.
func Positions(numWindows int, area geom.Rect, layout config.Layout) ([]geom.Rect, error) {
	if numWindows == 0 {
		return nil, nil
	}
	gap := layout.Gap
	flexibleLastRow := layout.FlexibleLastRow

	var rows, cols int
	switch layout.Mode {
	case config.LayoutModeAuto:
		rows, cols = CalculateGrid(numWindows)
	case config.LayoutModeVertical:
		rows, cols = numWindows, 1
		flexibleLastRow = false
	case config.LayoutModeHorizontal:
		rows, cols = 1, numWindows
		flexibleLastRow = false
	case config.LayoutModeMasterStack:
		return masterStack(numWindows, area, layout.MasterWidthPercent, gap)
	default:
		return nil, fmt.Errorf("unsupported layout mode: %q", layout.Mode)
	}

	slotWidth := (area.Width - (cols+1)*gap) / cols
	slotHeight := (area.Height - (rows+1)*gap) / rows
	if slotWidth <= 0 || slotHeight <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for layout: area=%dx%d rows=%d cols=%d gap=%d (slot=%dx%d)",
			area.Width, area.Height, rows, cols, gap, slotWidth, slotHeight,
		)
	}

	lastRow := rows - 1
	inLastRow := numWindows - lastRow*cols
	stretch := flexibleLastRow && inLastRow < cols
	lastRowWidth := slotWidth
	if stretch {
		lastRowWidth = (area.Width - (inLastRow+1)*gap) / inLastRow
	}

	positions := make([]geom.Rect, numWindows)
	for i := range positions {
		row, col := i/cols, i%cols
		width := slotWidth
		if stretch && row == lastRow {
			width = lastRowWidth
		}
		positions[i] = geom.Rect{
			X:      area.X + gap + col*(width+gap),
			Y:      area.Y + gap + row*(slotHeight+gap),
			Width:  width,
			Height: slotHeight,
		}
	}
	return positions, nil
}

// masterStack gives the first window the left pane and grids the rest on
// the right, at most maxStackRows per column.
func masterStack(numWindows int, area geom.Rect, masterPercent, gap int) ([]geom.Rect, error) {
	masterWidth := area.Width*masterPercent/100 - gap
	fullHeight := area.Height - 2*gap

	if numWindows == 1 {
		if masterWidth <= 0 || fullHeight <= 0 {
			return nil, fmt.Errorf("insufficient space for master-stack layout: area=%dx%d gap=%d", area.Width, area.Height, gap)
		}
		return []geom.Rect{{X: area.X + gap, Y: area.Y + gap, Width: masterWidth, Height: fullHeight}}, nil
	}

	stackCount := numWindows - 1
	stackCols := int(math.Ceil(float64(stackCount) / maxStackRows))
	stackRows := int(math.Ceil(float64(stackCount) / float64(stackCols)))

	rightX := area.X + masterWidth + 2*gap
	rightWidth := area.Width - masterWidth - 3*gap
	cellWidth := (rightWidth - (stackCols-1)*gap) / stackCols
	cellHeight := (fullHeight - (stackRows-1)*gap) / stackRows

	if masterWidth <= 0 || cellWidth <= 0 || cellHeight <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for master-stack layout: area=%dx%d masterWidth=%d cellWidth=%d cellHeight=%d gap=%d",
			area.Width, area.Height, masterWidth, cellWidth, cellHeight, gap,
		)
	}

	positions := make([]geom.Rect, numWindows)
	positions[0] = geom.Rect{X: area.X + gap, Y: area.Y + gap, Width: masterWidth, Height: fullHeight}
	for i := 0; i < stackCount; i++ {
		row, col := i%stackRows, i/stackRows
		positions[i+1] = geom.Rect{
			X:      rightX + col*(cellWidth+gap),
			Y:      area.Y + gap + row*(cellHeight+gap),
			Width:  cellWidth,
			Height: cellHeight,
		}
	}
	return positions, nil
}
