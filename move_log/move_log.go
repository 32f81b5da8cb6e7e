// move_log reconstructs an agent's traversal from the lines it logged while moving.
// The agent reports positions in x/y order; everything here is converted to the
// grid's row/column order.
package move_log

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"pathviz/grid_world"
)

// Line markers emitted by the agent.
const (
	MOVED_PREFIX    = "Moved to"
	INITIAL_PREFIX  = "Initial position:"
	VACUUMED_PREFIX = "Vacuumed tile at"

	ALL_CLEANED      = "All tiles cleaned"
	BATTERY_DEPLETED = "Battery depleted"
)

var (
	tupleExp    = regexp.MustCompile(`^\(\s*(-?\d+)\s*,\s*(-?\d+)\s*\)$`)
	vacuumedExp = regexp.MustCompile(`^\(\s*(-?\d+)\s*,\s*(-?\d+)\s*\),\s*cleaned\s*\(\s*(-?\d+)\s*\)\s*dirt$`)
)

// Cleaning is a tile the agent vacuumed and the amount of dirt removed.
type Cleaning struct {
	Position grid_world.Position
	Dirt     int
}

// MoveLog is everything recovered from the agent's output. Only Path is
// derived from move lines; the other fields are annotations.
type MoveLog struct {
	Path    []grid_world.Position
	Initial *grid_world.Position
	Cleaned []Cleaning
	// Outcome is the agent's final status line, if it printed one.
	Outcome string
}

func (ml *MoveLog) TotalCleaned() (total int) {
	for _, c := range ml.Cleaned {
		total += c.Dirt
	}
	return
}

// Read scans the stream line by line. Lines that are not agent events are
// skipped, but a recognized line with a malformed coordinate is an error.
// Lines may be of any length.
func Read(r io.Reader) (*MoveLog, error) {
	ml := &MoveLog{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), math.MaxInt)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if err := ml.parseLine(strings.TrimSpace(scanner.Text())); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ml, nil
}

func (ml *MoveLog) parseLine(line string) error {
	switch {
	case strings.HasPrefix(line, MOVED_PREFIX):
		pos, err := parseTuple(strings.TrimPrefix(line, MOVED_PREFIX))
		if err != nil {
			return err
		}
		ml.Path = append(ml.Path, pos)
	case strings.HasPrefix(line, INITIAL_PREFIX):
		pos, err := parseTuple(strings.TrimPrefix(line, INITIAL_PREFIX))
		if err != nil {
			return err
		}
		ml.Initial = &pos
	case strings.HasPrefix(line, VACUUMED_PREFIX):
		cleaning, err := parseVacuumed(strings.TrimPrefix(line, VACUUMED_PREFIX))
		if err != nil {
			return err
		}
		ml.Cleaned = append(ml.Cleaned, cleaning)
	case line == ALL_CLEANED, line == BATTERY_DEPLETED:
		ml.Outcome = line
	}
	return nil
}

// parseTuple parses "(x, y)" and returns it transposed to row/column order.
func parseTuple(literal string) (pos grid_world.Position, err error) {
	literal = strings.TrimSpace(literal)
	matches := tupleExp.FindStringSubmatch(literal)
	if matches == nil {
		return pos, fmt.Errorf("malformed coordinate %q", literal)
	}
	return toPosition(matches[1], matches[2])
}

func parseVacuumed(literal string) (cleaning Cleaning, err error) {
	literal = strings.TrimSpace(literal)
	matches := vacuumedExp.FindStringSubmatch(literal)
	if matches == nil {
		return cleaning, fmt.Errorf("malformed vacuum event %q", literal)
	}
	if cleaning.Position, err = toPosition(matches[1], matches[2]); err != nil {
		return
	}
	cleaning.Dirt, err = strconv.Atoi(matches[3])
	return
}

func toPosition(xs, ys string) (pos grid_world.Position, err error) {
	var x, y int
	if x, err = strconv.Atoi(xs); err != nil {
		return
	}
	if y, err = strconv.Atoi(ys); err != nil {
		return
	}
	return grid_world.Position{Row: y, Col: x}, nil
}
