// image_views contains views that write a scene to an image file.
package image_views

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"sync"

	"pathviz/scene"
	"pathviz/views/fastview"

	"github.com/fogleman/gg"
	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

// OutputName derives the output file stem from the input argument: path separators
// become underscores and leading/trailing dots and underscores are trimmed.
// For example "a/b.csv" yields "a_b.csv" and "./b.csv" yields "b.csv".
func OutputName(arg string) string {
	name := strings.NewReplacer("/", "_", `\`, "_").Replace(arg)
	return strings.Trim(name, "._")
}

// PngView rasterizes scenes to png files in its output directory.
type PngView struct {
	outDir  string
	written <-chan fastview.Artifact
}

func NewPngView(
	done <-chan struct{},
	scenes <-chan *scene.Scene,
	outDir string,
) (pv *PngView) {
	pv = &PngView{outDir: outDir}
	pv.written = channerics.Convert(done, scenes, pv.write)
	return
}

func (pv *PngView) Written() <-chan fastview.Artifact {
	return pv.written
}

func (pv *PngView) write(sc *scene.Scene) (artifact fastview.Artifact) {
	artifact.Path = filepath.Join(pv.outDir, OutputName(sc.Name)+".png")
	dc, err := Draw(sc)
	if err != nil {
		artifact.Err = err
		return
	}
	if err = dc.SavePNG(artifact.Path); err != nil {
		artifact.Err = fmt.Errorf("save png: %w", err)
	}
	return
}

// Image returns the rasterized scene.
func Image(sc *scene.Scene) (image.Image, error) {
	dc, err := Draw(sc)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// Draw paints the scene onto a new context, in the scene's drawing order.
func Draw(sc *scene.Scene) (*gg.Context, error) {
	dc := gg.NewContext(sc.Width, sc.Height)
	dc.SetColor(sc.Background)
	dc.Clear()

	for _, cell := range sc.Cells {
		dc.DrawRectangle(cell.X, cell.Y, cell.Size, cell.Size)
		dc.SetColor(cell.Fill)
		dc.FillPreserve()
		dc.SetColor(cell.Stroke)
		dc.SetLineWidth(cell.StrokeWidth)
		dc.Stroke()
	}

	for _, outline := range sc.Outlines {
		dc.DrawRectangle(outline.X, outline.Y, outline.Size, outline.Size)
		dc.SetColor(outline.Stroke)
		dc.SetLineWidth(outline.StrokeWidth)
		dc.Stroke()
	}

	if err := drawLabels(dc, sc.Scores...); err != nil {
		return nil, err
	}

	dc.SetLineCapRound()
	for _, seg := range sc.Segments {
		dc.SetColor(seg.Color)
		dc.SetLineWidth(seg.Width)
		dc.DrawLine(seg.X1, seg.Y1, seg.X2, seg.Y2)
		dc.Stroke()
		dc.DrawCircle(seg.X1, seg.Y1, seg.MarkerRadius)
		dc.DrawCircle(seg.X2, seg.Y2, seg.MarkerRadius)
		dc.Fill()
		if seg.Arrow != nil {
			drawArrow(dc, seg.Arrow)
		}
	}

	if err := drawLabels(dc, sc.Annotations...); err != nil {
		return nil, err
	}
	if err := drawLabels(dc, sc.Title); err != nil {
		return nil, err
	}
	return dc, nil
}

func drawArrow(dc *gg.Context, arrow *scene.Arrow) {
	dc.SetColor(arrow.Color)
	dc.SetLineWidth(arrow.HeadWidth / 6)
	dc.DrawLine(arrow.X, arrow.Y, arrow.X+arrow.DX, arrow.Y+arrow.DY)
	dc.Stroke()
	head := arrow.Head()
	dc.MoveTo(head[0][0], head[0][1])
	dc.LineTo(head[1][0], head[1][1])
	dc.LineTo(head[2][0], head[2][1])
	dc.ClosePath()
	dc.Fill()
}

func drawLabels(dc *gg.Context, labels ...scene.Label) error {
	for _, label := range labels {
		face, err := boldFace(label.Size)
		if err != nil {
			return err
		}
		dc.SetFontFace(face)
		dc.SetColor(label.Color)
		ax := 0.5
		if label.Anchor == scene.ANCHOR_LEFT {
			ax = 0
		}
		dc.DrawStringAnchored(label.Text, label.X, label.Y, ax, 0.5)
	}
	return nil
}

var (
	parseBold sync.Once
	bold      *opentype.Font
	boldErr   error
	faces     = map[float64]font.Face{}
	facesMu   sync.Mutex
)

// boldFace returns the Go Bold face at the given pixel size, cached per size.
func boldFace(size float64) (font.Face, error) {
	parseBold.Do(func() {
		bold, boldErr = opentype.Parse(gobold.TTF)
	})
	if boldErr != nil {
		return nil, fmt.Errorf("parse font: %w", boldErr)
	}

	facesMu.Lock()
	defer facesMu.Unlock()
	if face, ok := faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(bold, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	faces[size] = face
	return face, nil
}
