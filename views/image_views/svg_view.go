package image_views

import (
	"fmt"
	"html/template"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"pathviz/scene"
	"pathviz/views/fastview"

	channerics "github.com/niceyeti/channerics/channels"
)

// SvgView writes scenes as svg documents. The shapes are identical to the png
// view's, so the svg is handy for zooming into long paths.
type SvgView struct {
	outDir  string
	written <-chan fastview.Artifact
}

func NewSvgView(
	done <-chan struct{},
	scenes <-chan *scene.Scene,
	outDir string,
) (sv *SvgView) {
	sv = &SvgView{outDir: outDir}
	sv.written = channerics.Convert(done, scenes, sv.write)
	return
}

func (sv *SvgView) Written() <-chan fastview.Artifact {
	return sv.written
}

func (sv *SvgView) write(sc *scene.Scene) (artifact fastview.Artifact) {
	artifact.Path = filepath.Join(sv.outDir, OutputName(sc.Name)+".svg")
	f, err := os.Create(artifact.Path)
	if err != nil {
		artifact.Err = err
		return
	}
	defer f.Close()

	if err = WriteSvg(f, sc); err != nil {
		artifact.Err = fmt.Errorf("write svg: %w", err)
		return
	}
	artifact.Err = f.Close()
	return
}

var svgFuncs = template.FuncMap{
	"px": func(f float64) string { return fmt.Sprintf("%.2f", f) },
	"rgb": func(c color.RGBA) string {
		return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
	},
	"anchor": func(a scene.Anchor) string {
		if a == scene.ANCHOR_LEFT {
			return "start"
		}
		return "middle"
	},
	"head": func(a *scene.Arrow) string {
		h := a.Head()
		return fmt.Sprintf("%.2f,%.2f %.2f,%.2f %.2f,%.2f", h[0][0], h[0][1], h[1][0], h[1][1], h[2][0], h[2][1])
	},
	"add":  func(a, b float64) float64 { return a + b },
	"div6": func(f float64) float64 { return f / 6 },
}

// The label template is shared by scores, annotations and the title.
var svgTemplate = template.Must(template.New("scene").Funcs(svgFuncs).Parse(`
{{- define "label" -}}
<text x="{{ px .X }}" y="{{ px .Y }}" fill="{{ rgb .Color }}" font-size="{{ px .Size }}"
	font-family="Go, sans-serif" font-weight="bold"
	text-anchor="{{ anchor .Anchor }}" dominant-baseline="central">{{ .Text }}</text>
{{ end -}}
<svg xmlns="http://www.w3.org/2000/svg" width="{{ .Width }}" height="{{ .Height }}" viewBox="0 0 {{ .Width }} {{ .Height }}">
<rect width="100%" height="100%" fill="{{ rgb .Background }}"/>
<g id="cells">
{{- range .Cells }}
<rect x="{{ px .X }}" y="{{ px .Y }}" width="{{ px .Size }}" height="{{ px .Size }}" fill="{{ rgb .Fill }}" stroke="{{ rgb .Stroke }}" stroke-width="{{ px .StrokeWidth }}"/>
{{- end }}
{{- range .Outlines }}
<rect x="{{ px .X }}" y="{{ px .Y }}" width="{{ px .Size }}" height="{{ px .Size }}" fill="none" stroke="{{ rgb .Stroke }}" stroke-width="{{ px .StrokeWidth }}"/>
{{- end }}
</g>
<g id="scores">
{{ range .Scores }}{{ template "label" . }}{{ end -}}
</g>
<g id="path" stroke-linecap="round">
{{- range .Segments }}
<line x1="{{ px .X1 }}" y1="{{ px .Y1 }}" x2="{{ px .X2 }}" y2="{{ px .Y2 }}" stroke="{{ rgb .Color }}" stroke-width="{{ px .Width }}"/>
<circle cx="{{ px .X1 }}" cy="{{ px .Y1 }}" r="{{ px .MarkerRadius }}" fill="{{ rgb .Color }}"/>
<circle cx="{{ px .X2 }}" cy="{{ px .Y2 }}" r="{{ px .MarkerRadius }}" fill="{{ rgb .Color }}"/>
{{- with .Arrow }}
<line x1="{{ px .X }}" y1="{{ px .Y }}" x2="{{ px (add .X .DX) }}" y2="{{ px (add .Y .DY) }}" stroke="{{ rgb .Color }}" stroke-width="{{ px (div6 .HeadWidth) }}"/>
<polygon points="{{ head . }}" fill="{{ rgb .Color }}"/>
{{- end }}
{{- end }}
</g>
<g id="annotations">
{{ range .Annotations }}{{ template "label" . }}{{ end -}}
</g>
{{ template "label" .Title -}}
</svg>
`))

// WriteSvg renders the scene as an svg document.
func WriteSvg(w io.Writer, sc *scene.Scene) error {
	return svgTemplate.Execute(w, sc)
}
