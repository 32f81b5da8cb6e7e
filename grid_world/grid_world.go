package grid_world

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Cell values. Anything positive and not a WALL is dirt left on the tile.
const (
	WALL  = 9001
	EMPTY = 0
)

// The number of header lines preceding the grid rows.
const numSettings = 5

// Position is a grid coordinate in row/column order, i.e. the transpose
// of the x/y order the agent reports its moves in.
type Position struct {
	Row, Col int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// InitialState holds the scalar settings from the csv header.
// These are only used to annotate the rendered image.
type InitialState struct {
	X0, Y0       int
	Battery      int
	MovementCost int
	CleaningCost int
}

// Grid is the environment the agent moved through, indexed [row][col].
// It is never mutated after being read.
type Grid struct {
	cells [][]int
}

// NewGrid wraps the passed rows, which must all have the same width.
func NewGrid(rows [][]int) (*Grid, error) {
	if len(rows) == 0 {
		return nil, ErrTruncated
	}
	for i, row := range rows {
		if len(row) != len(rows[0]) {
			return nil, fmt.Errorf("row %d has %d columns, expected %d: %w", i, len(row), len(rows[0]), ErrRaggedGrid)
		}
	}
	return &Grid{cells: rows}, nil
}

func (g *Grid) Rows() int {
	return len(g.cells)
}

func (g *Grid) Cols() int {
	return len(g.cells[0])
}

// At returns the value of the cell. Out of range positions panic.
func (g *Grid) At(pos Position) int {
	return g.cells[pos.Row][pos.Col]
}

func (g *Grid) IsWall(pos Position) bool {
	return g.At(pos) == WALL
}

// Visit calls fn for every cell, row by row.
func (g *Grid) Visit(fn func(pos Position, val int)) {
	for r, row := range g.cells {
		for c, val := range row {
			fn(Position{Row: r, Col: c}, val)
		}
	}
}

// VisitCounts returns a table the shape of the grid holding the number of times
// each cell appears in the path. Path positions are not bounds checked.
func VisitCounts(g *Grid, path []Position) [][]int {
	counts := make([][]int, g.Rows())
	for r := range counts {
		counts[r] = make([]int, g.Cols())
	}
	for _, pos := range path {
		counts[pos.Row][pos.Col]++
	}
	return counts
}

// ErrTruncated is returned when the input ends before any grid rows are read.
var ErrTruncated error = errors.New("grid csv truncated: expected 5 header lines followed by grid rows")

// ErrMissingSetting is returned when a header line is blank.
var ErrMissingSetting error = errors.New("missing header setting")

// ErrRaggedGrid is returned when the grid rows differ in width.
var ErrRaggedGrid error = errors.New("grid rows have unequal widths")

// FromCsv reads the initial state and grid from the file at path.
func FromCsv(path string) (*Grid, *InitialState, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	grid, state, err := ReadCsv(f)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	return grid, state, nil
}

// ReadCsv reads the five header settings and the grid rows following them.
// The header lines hold '#' delimited values, of which only the first is used.
// Grid rows are either comma separated integers or a single run of digits,
// one digit per column.
func ReadCsv(r io.Reader) (*Grid, *InitialState, error) {
	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = -1 // Width is validated once the grid is built

	var records [][]string
	for {
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		// Blank lines are skipped by the csv reader, but settings are positional.
		if expected := len(records) + 1; expected <= numSettings {
			if line, _ := csvReader.FieldPos(0); line != expected {
				return nil, nil, fmt.Errorf("line %d: %w", expected, ErrMissingSetting)
			}
		}
		records = append(records, record)
	}
	if len(records) <= numSettings {
		return nil, nil, fmt.Errorf("%d lines: %w", len(records), ErrTruncated)
	}

	var err error
	settings := make([]int, numSettings)
	for i := range settings {
		if settings[i], err = parseSetting(records[i]); err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	state := &InitialState{
		X0:           settings[0],
		Y0:           settings[1],
		Battery:      settings[2],
		MovementCost: settings[3],
		CleaningCost: settings[4],
	}

	rows := make([][]int, 0, len(records)-numSettings)
	for i, record := range records[numSettings:] {
		row, err := parseRow(record)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", i+numSettings+1, err)
		}
		rows = append(rows, row)
	}

	grid, err := NewGrid(rows)
	if err != nil {
		return nil, nil, err
	}
	return grid, state, nil
}

func parseSetting(record []string) (int, error) {
	token := strings.Split(record[0], "#")[0]
	return strconv.Atoi(strings.TrimSpace(token))
}

// parseRow converts a csv record to cell values. A lone field is taken to be
// concatenated single digits, e.g. "1090" is four cells.
func parseRow(record []string) (row []int, err error) {
	fields := record
	if len(record) == 1 {
		fields = strings.Split(strings.TrimSpace(record[0]), "")
	}

	row = make([]int, len(fields))
	for col, field := range fields {
		if row[col], err = strconv.Atoi(strings.TrimSpace(field)); err != nil {
			return nil, fmt.Errorf("column %d: %w", col+1, err)
		}
	}
	return
}
