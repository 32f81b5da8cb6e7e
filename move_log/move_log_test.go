package move_log

import (
	"strings"
	"testing"

	"pathviz/grid_world"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRead(t *testing.T) {
	Convey("When reading move lines among unrelated output", t, func() {
		input := strings.Join([]string{
			"some preamble",
			"Moved to (1, 2)",
			"   ",
			"Moved to (3, 4)   ",
			"No moves left",
		}, "\n")

		ml, err := Read(strings.NewReader(input))
		So(err, ShouldBeNil)

		Convey("The path holds the swapped coordinates in order", func() {
			So(ml.Path, ShouldResemble, []grid_world.Position{
				{Row: 2, Col: 1},
				{Row: 4, Col: 3},
			})
		})

		Convey("No annotations are recorded", func() {
			So(ml.Initial, ShouldBeNil)
			So(ml.Cleaned, ShouldBeEmpty)
			So(ml.Outcome, ShouldBeEmpty)
		})
	})

	Convey("When reading a full agent log", t, func() {
		input := `Initial position: (0, 0)
Moved to (1, 0)
Vacuumed tile at (1, 0), cleaned (7) dirt
Moved to (1, 1)
Moved to (1, 0)
Vacuumed tile at (1, 0), cleaned (2) dirt
Battery depleted
`
		ml, err := Read(strings.NewReader(input))
		So(err, ShouldBeNil)

		So(ml.Path, ShouldHaveLength, 3)
		So(*ml.Initial, ShouldResemble, grid_world.Position{Row: 0, Col: 0})
		So(ml.Cleaned, ShouldResemble, []Cleaning{
			{Position: grid_world.Position{Row: 0, Col: 1}, Dirt: 7},
			{Position: grid_world.Position{Row: 0, Col: 1}, Dirt: 2},
		})
		So(ml.TotalCleaned(), ShouldEqual, 9)
		So(ml.Outcome, ShouldEqual, BATTERY_DEPLETED)
	})

	Convey("When an unrelated line exceeds the default scanner buffer", t, func() {
		input := "Moved to (1, 2)\n" + strings.Repeat("x", 70000) + "\nMoved to (3, 4)\n"
		ml, err := Read(strings.NewReader(input))
		So(err, ShouldBeNil)
		So(ml.Path, ShouldResemble, []grid_world.Position{
			{Row: 2, Col: 1},
			{Row: 4, Col: 3},
		})
	})

	Convey("When the stream has no moves", t, func() {
		ml, err := Read(strings.NewReader("All tiles cleaned\n"))
		So(err, ShouldBeNil)
		So(ml.Path, ShouldBeEmpty)
		So(ml.Outcome, ShouldEqual, ALL_CLEANED)
	})

	Convey("When a move line has a malformed coordinate", t, func() {
		_, err := Read(strings.NewReader("Moved to (1, 2)\nMoved to (1, two)\n"))
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "line 2")
	})

	Convey("When a move line has a single component", t, func() {
		_, err := Read(strings.NewReader("Moved to (1)\n"))
		So(err, ShouldNotBeNil)
	})
}
