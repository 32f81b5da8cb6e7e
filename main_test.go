package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pathviz/config"
	"pathviz/scene"

	. "github.com/smartystreets/goconvey/convey"
)

const gridCsv = `0#1
0#1
20#
1#
1#
0,3,0
0,9001,0
0,0,2
`

const movesLog = `Initial position: (0, 0)
Moved to (1, 0)
Vacuumed tile at (1, 0), cleaned (3) dirt
Moved to (2, 0)
Moved to (1, 0)
Moved to (2, 0)
Moved to (2, 1)
Moved to (2, 2)
Vacuumed tile at (2, 2), cleaned (2) dirt
All tiles cleaned
`

func TestParseArgs(t *testing.T) {
	Convey("When no grid argument is given", t, func() {
		stderr := &bytes.Buffer{}
		_, err := parseArgs([]string{}, stderr)
		So(err, ShouldEqual, errUsage)
		So(stderr.String(), ShouldContainSubstring, "usage")
	})

	Convey("When too many arguments are given", t, func() {
		_, err := parseArgs([]string{"a.csv", "b.csv"}, &bytes.Buffer{})
		So(err, ShouldEqual, errUsage)
	})

	Convey("When flags precede the grid argument", t, func() {
		opts, err := parseArgs([]string{"-seed", "5", "-svg", "a.csv"}, &bytes.Buffer{})
		So(err, ShouldBeNil)
		So(opts.csvPath, ShouldEqual, "a.csv")
		So(opts.seed, ShouldEqual, 5)
		So(opts.svg, ShouldBeTrue)
	})
}

func TestLoadConfig(t *testing.T) {
	Convey("Flags override the defaults", t, func() {
		cfg, err := loadConfig(&options{outDir: "imgs", seed: 3, svg: true})
		So(err, ShouldBeNil)
		So(cfg.OutDir, ShouldEqual, "imgs")
		So(cfg.Seed, ShouldEqual, 3)
		So(cfg.Formats, ShouldResemble, []string{config.PNG, config.SVG})
	})

	Convey("Given a config file with a seed", t, func() {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		So(os.WriteFile(configPath, []byte("kind: render\ndef:\n  seed: 11\n"), 0o644), ShouldBeNil)

		Convey("A zero seed flag keeps the configured seed", func() {
			cfg, err := loadConfig(&options{configPath: configPath})
			So(err, ShouldBeNil)
			So(cfg.Seed, ShouldEqual, 11)
		})

		Convey("A negative seed flag restores clock seeding", func() {
			cfg, err := loadConfig(&options{configPath: configPath, seed: -1})
			So(err, ShouldBeNil)
			So(cfg.Seed, ShouldEqual, 0)
		})
	})
}

func TestRunApp(t *testing.T) {
	Convey("Given a grid file and a move log", t, func() {
		dir := t.TempDir()
		csvPath := filepath.Join(dir, "grid.csv")
		So(os.WriteFile(csvPath, []byte(gridCsv), 0o644), ShouldBeNil)

		configPath := filepath.Join(dir, "config.yaml")
		So(os.WriteFile(configPath, []byte("kind: render\ndef:\n  dpi: 40\n  seed: 11\n"), 0o644), ShouldBeNil)

		outDir := filepath.Join(dir, "out")
		opts := &options{configPath: configPath, outDir: outDir, svg: true, csvPath: csvPath}

		Convey("Both images are written, named after the input", func() {
			paths, err := runApp(context.Background(), opts, strings.NewReader(movesLog))
			So(err, ShouldBeNil)
			So(paths, ShouldHaveLength, 2)

			stem := strings.Trim(strings.ReplaceAll(csvPath, "/", "_"), "._")
			for _, ext := range []string{".png", ".svg"} {
				_, err := os.Stat(filepath.Join(outDir, stem+ext))
				So(err, ShouldBeNil)
			}
		})

		Convey("An empty move log fails without writing an image", func() {
			_, err := runApp(context.Background(), opts, strings.NewReader("No moves left\n"))
			So(errors.Is(err, scene.ErrEmptyPath), ShouldBeTrue)

			_, statErr := os.Stat(outDir)
			So(os.IsNotExist(statErr), ShouldBeTrue)
		})

		Convey("A malformed move fails", func() {
			_, err := runApp(context.Background(), opts, strings.NewReader("Moved to (1, x)\n"))
			So(err, ShouldNotBeNil)
		})
	})
}
