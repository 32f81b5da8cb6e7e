package scene

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Gradient returns the color of step i of n along the hue wheel. Step 0 is red
// and hue increases with i; i == n would wrap back to red, so the last drawn
// step (n-1) is always distinguishable from the first.
func Gradient(i, n int) color.RGBA {
	hue := 360 * float64(i) / float64(n)
	r, g, b := colorful.Hsv(hue, 1, 1).Clamped().RGB255()
	return color.RGBA{r, g, b, 255}
}
