// scene converts a grid and the agent's move log into drawing primitives in pixel
// space. The scene is the view-model: every field is immediately usable by a view,
// so the png and svg views only differ in how they emit the same shapes.
package scene

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"pathviz/config"
	"pathviz/grid_world"
	"pathviz/move_log"
)

// Colors shared by all views.
var (
	BLACK     = color.RGBA{0, 0, 0, 255}
	WHITE     = color.RGBA{255, 255, 255, 255}
	LIGHTGRAY = color.RGBA{211, 211, 211, 255}
	GRAY      = color.RGBA{128, 128, 128, 255}
	BLUE      = color.RGBA{0, 0, 255, 255}
	YELLOW    = color.RGBA{255, 255, 0, 255}
	GREEN     = color.RGBA{0, 128, 0, 255}
)

// Fractions of a cell used to place things within it.
const (
	scoreOffset = 0.2 // from the top of the cell
	visitOffset = 0.8
	arrowLength = 0.2 // of the segment
	arrowHead   = 0.2 // of a cell
	titleOffset = 0.2
	margin      = 0.08 // of the figure, on each side
)

// Anchor is the horizontal alignment of a label relative to its X.
type Anchor int

const (
	ANCHOR_CENTER Anchor = iota
	ANCHOR_LEFT
)

// Cell is a single grid square. X and Y are its top left corner.
type Cell struct {
	X, Y, Size  float64
	Fill        color.RGBA
	Stroke      color.RGBA
	StrokeWidth float64
}

// Label is bold text, vertically centered on Y.
type Label struct {
	Text   string
	X, Y   float64
	Size   float64 // font size in pixels
	Color  color.RGBA
	Anchor Anchor
}

// Segment is one step of the path, with a round marker on both ends.
// Arrow is nil when the step does not move.
type Segment struct {
	X1, Y1, X2, Y2 float64
	Color          color.RGBA
	Width          float64
	MarkerRadius   float64
	Arrow          *Arrow
}

// Arrow is a shaft from (X, Y) along (DX, DY) capped by a triangular head.
type Arrow struct {
	X, Y, DX, DY float64
	HeadWidth    float64
	HeadLength   float64
	Color        color.RGBA
}

// Tip returns the point of the arrow head.
func (a Arrow) Tip() (float64, float64) {
	norm := math.Hypot(a.DX, a.DY)
	ux, uy := a.DX/norm, a.DY/norm
	return a.X + a.DX + ux*a.HeadLength, a.Y + a.DY + uy*a.HeadLength
}

// Head returns the triangle of the arrow head: tip, then the two base corners.
func (a Arrow) Head() [3][2]float64 {
	norm := math.Hypot(a.DX, a.DY)
	ux, uy := a.DX/norm, a.DY/norm
	bx, by := a.X+a.DX, a.Y+a.DY
	tx, ty := a.Tip()
	hw := a.HeadWidth / 2
	return [3][2]float64{
		{tx, ty},
		{bx - uy*hw, by + ux*hw},
		{bx + uy*hw, by - ux*hw},
	}
}

// Scene is everything drawn for one path, in drawing order.
type Scene struct {
	// Name identifies the input the scene was built from, and names the outputs.
	Name          string
	Width, Height int
	Background    color.RGBA
	Title         Label
	Cells         []Cell
	Outlines      []Cell // cleaned tiles
	Scores        []Label
	Segments      []Segment // each drawn with its arrow before the next
	Annotations   []Label   // visit counts, then start and end marks
}

// ErrEmptyPath is returned when the move log has no moves to draw.
var ErrEmptyPath error = errors.New("path is empty: no moves to draw")

// Build lays out the grid and path. Path positions are not bounds checked.
// The rng decides where along each segment its arrow is drawn.
func Build(
	grid *grid_world.Grid,
	state *grid_world.InitialState,
	moves *move_log.MoveLog,
	name string,
	cfg *config.RenderConfig,
	rng *rand.Rand,
) (*Scene, error) {
	path := moves.Path
	if len(path) == 0 {
		return nil, ErrEmptyPath
	}

	size := float64(cfg.Size())
	l := newLayout(size, grid.Rows(), grid.Cols())

	sc := &Scene{
		Name:       name,
		Width:      cfg.Size(),
		Height:     cfg.Size(),
		Background: WHITE,
	}

	sc.Title = Label{
		Text:   title(state, moves, name),
		X:      l.ox,
		Y:      l.oy - math.Min(titleOffset*l.cell, l.margin/2),
		Size:   cfg.Pixels(cfg.Fonts.Title),
		Color:  BLACK,
		Anchor: ANCHOR_LEFT,
	}

	edge := cfg.Pixels(1)
	grid.Visit(func(pos grid_world.Position, val int) {
		x, y := l.corner(pos)
		if val == grid_world.WALL {
			sc.Cells = append(sc.Cells, Cell{X: x, Y: y, Size: l.cell, Fill: BLACK, Stroke: BLACK, StrokeWidth: edge})
			return
		}
		sc.Cells = append(sc.Cells, Cell{X: x, Y: y, Size: l.cell, Fill: LIGHTGRAY, Stroke: GRAY, StrokeWidth: edge})
		if val > 0 {
			sc.Scores = append(sc.Scores, Label{
				Text:  fmt.Sprint(val),
				X:     x + l.cell/2,
				Y:     y + scoreOffset*l.cell,
				Size:  cfg.Pixels(cfg.Fonts.Label),
				Color: BLACK,
			})
		}
	})

	// Inset so the outline stays inside its own cell's edge.
	cleaned := map[grid_world.Position]bool{}
	for _, c := range moves.Cleaned {
		if cleaned[c.Position] {
			continue
		}
		cleaned[c.Position] = true
		x, y := l.corner(c.Position)
		inset := 2 * edge
		sc.Outlines = append(sc.Outlines, Cell{
			X:           x + inset,
			Y:           y + inset,
			Size:        l.cell - 2*inset,
			Stroke:      GREEN,
			StrokeWidth: 2 * edge,
		})
	}

	lineWidth := cfg.Pixels(cfg.Path.LineWidth)
	markerRadius := cfg.Pixels(cfg.Path.MarkerSize) / 2
	for i := 1; i < len(path); i++ {
		x1, y1 := l.center(path[i-1])
		x2, y2 := l.center(path[i])
		col := Gradient(i, len(path))
		seg := Segment{
			X1: x1, Y1: y1, X2: x2, Y2: y2,
			Color:        col,
			Width:        lineWidth,
			MarkerRadius: markerRadius,
		}

		// Always draw from the rng so arrow placement only depends on the seed.
		t := cfg.Arrow.Min + rng.Float64()*(cfg.Arrow.Max-cfg.Arrow.Min)
		if x1 != x2 || y1 != y2 {
			seg.Arrow = &Arrow{
				X:          x1 + t*(x2-x1),
				Y:          y1 + t*(y2-y1),
				DX:         (x2 - x1) * arrowLength,
				DY:         (y2 - y1) * arrowLength,
				HeadWidth:  arrowHead * l.cell,
				HeadLength: arrowHead * l.cell,
				Color:      col,
			}
		}
		sc.Segments = append(sc.Segments, seg)
	}

	visits := grid_world.VisitCounts(grid, path)
	grid.Visit(func(pos grid_world.Position, _ int) {
		if count := visits[pos.Row][pos.Col]; count > 1 {
			x, y := l.corner(pos)
			sc.Annotations = append(sc.Annotations, Label{
				Text:  fmt.Sprint(count),
				X:     x + l.cell/2,
				Y:     y + visitOffset*l.cell,
				Size:  cfg.Pixels(cfg.Fonts.Label),
				Color: BLUE,
			})
		}
	})

	markSize := cfg.Pixels(cfg.Fonts.Mark)
	sx, sy := l.center(path[0])
	ex, ey := l.center(path[len(path)-1])
	sc.Annotations = append(sc.Annotations,
		Label{Text: "S", X: sx, Y: sy, Size: markSize, Color: WHITE},
		Label{Text: "E", X: ex, Y: ey, Size: markSize, Color: YELLOW},
	)

	return sc, nil
}

func title(state *grid_world.InitialState, moves *move_log.MoveLog, name string) string {
	text := fmt.Sprintf("B = %d, E = %d, V = %d, %s", state.Battery, state.MovementCost, state.CleaningCost, name)
	if moves.Outcome != "" {
		text += fmt.Sprintf(" (%s)", moves.Outcome)
	}
	return text
}

// layout maps grid positions to pixels. Cells are square and the grid is
// centered in the figure.
type layout struct {
	cell, ox, oy, margin float64
}

func newLayout(size float64, rows, cols int) layout {
	m := size * margin
	avail := size - 2*m
	cell := math.Min(avail/float64(cols), avail/float64(rows))
	return layout{
		cell:   cell,
		ox:     (size - float64(cols)*cell) / 2,
		oy:     (size - float64(rows)*cell) / 2,
		margin: m,
	}
}

func (l layout) corner(pos grid_world.Position) (float64, float64) {
	return l.ox + float64(pos.Col)*l.cell, l.oy + float64(pos.Row)*l.cell
}

func (l layout) center(pos grid_world.Position) (float64, float64) {
	x, y := l.corner(pos)
	return x + l.cell/2, y + l.cell/2
}
