package compare

import (
	"fmt"
	"strings"

	"github.com/nathoo/replaycore/types"
)

// GridShapeError reports a grid that is not MapRows by MapCols. It makes
// any comparison meaningless, so replay treats it as fatal.
type GridShapeError struct {
	Which      string
	Rows, Cols int
}

func (e *GridShapeError) Error() string {
	return fmt.Sprintf("%s grid is %dx%d, want %dx%d", e.Which, e.Rows, e.Cols, types.MapRows, types.MapCols)
}

// CellDiff is one differing cell.
type CellDiff struct {
	X, Y     int
	Actual   int
	Expected int
}

// GridDiff holds a bounded preview of differing cells and the full count.
type GridDiff struct {
	Cells []CellDiff
	Count int
}

// CompareGrids diffs two terrain grids cell by cell, row-major. At most
// limit cells are kept (all when limit <= 0); Count is always the total.
func CompareGrids(actual, expected [][]int, limit int) (GridDiff, error) {
	if err := CheckGrid("actual", actual); err != nil {
		return GridDiff{}, err
	}
	if err := CheckGrid("expected", expected); err != nil {
		return GridDiff{}, err
	}
	var d GridDiff
	for y := 0; y < types.MapRows; y++ {
		for x := 0; x < types.MapCols; x++ {
			a, e := actual[y][x], expected[y][x]
			if a == e {
				continue
			}
			d.Count++
			if limit <= 0 || len(d.Cells) < limit {
				d.Cells = append(d.Cells, CellDiff{X: x, Y: y, Actual: a, Expected: e})
			}
		}
	}
	return d, nil
}

// CheckGrid returns a GridShapeError unless g is MapRows by MapCols.
func CheckGrid(which string, g [][]int) error {
	if len(g) != types.MapRows {
		cols := 0
		if len(g) > 0 {
			cols = len(g[0])
		}
		return &GridShapeError{Which: which, Rows: len(g), Cols: cols}
	}
	for _, r := range g {
		if len(r) != types.MapCols {
			return &GridShapeError{Which: which, Rows: len(g), Cols: len(r)}
		}
	}
	return nil
}

// FormatGridDiff renders the preview and the total.
func FormatGridDiff(d GridDiff) string {
	if d.Count == 0 {
		return "grid identical"
	}
	parts := make([]string, len(d.Cells))
	for i, c := range d.Cells {
		parts[i] = fmt.Sprintf("(%d,%d) %d!=%d", c.X, c.Y, c.Actual, c.Expected)
	}
	s := fmt.Sprintf("grid: %d cell(s) differ: %s", d.Count, strings.Join(parts, ", "))
	if d.Count > len(d.Cells) {
		s += fmt.Sprintf(", ... %d more", d.Count-len(d.Cells))
	}
	return s
}
