// Package overlay rasterizes draw directives onto a Go image. It is the pure-Go
// counterpart of overlay/cvmat and is never called by the frame callback itself.
package overlay

import (
	iface "LineCrossServer/interface"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Palette maps markers to colors. LabelText is used for text drawn on a label plate.
type Palette struct {
	Red       color.NRGBA
	Neutral   color.NRGBA
	Line      color.NRGBA
	Text      color.NRGBA
	LabelText color.NRGBA
}

func DefaultPalette() Palette {
	return Palette{
		Red:       color.NRGBA{R: 255, A: 255},
		Neutral:   color.NRGBA{G: 255, A: 255},
		Line:      color.NRGBA{R: 255, A: 255},
		Text:      color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		LabelText: color.NRGBA{A: 255},
	}
}

func (p Palette) Color(m iface.Marker) color.NRGBA {
	switch m {
	case iface.MarkerRed:
		return p.Red
	case iface.MarkerLine:
		return p.Line
	case iface.MarkerText:
		return p.Text
	default:
		return p.Neutral
	}
}

// Draw returns a copy of img with ds applied in order. img is left untouched.
func Draw(img image.Image, ds []iface.Directive, p Palette) *image.NRGBA {
	dst := imaging.Clone(img)
	for _, d := range ds {
		c := p.Color(d.Marker)
		switch d.Kind {
		case iface.DirectiveRect:
			strokeRect(dst, d.Rect, d.Thickness, c)
		case iface.DirectiveLine:
			strokeLine(dst, d.From, d.To, d.Thickness, c)
		case iface.DirectiveLabel:
			plate := d.Plate.Intersect(dst.Bounds())
			if !plate.Empty() {
				fill := imaging.New(plate.Dx(), plate.Dy(), c)
				dst = imaging.Paste(dst, fill, plate.Min)
			}
			drawText(dst, d.Origin, d.Text, p.LabelText)
		case iface.DirectiveSummary, iface.DirectiveOverlay:
			drawText(dst, d.Origin, d.Text, c)
		}
	}
	return dst
}

func fillRect(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func strokeRect(dst draw.Image, r image.Rectangle, thickness int, c color.Color) {
	t := max(1, thickness)
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t), c)
	fillRect(dst, image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y), c)
}

// strokeLine walks the segment with Bresenham and stamps a square brush at each step.
func strokeLine(dst draw.Image, from, to image.Point, thickness int, c color.Color) {
	t := max(1, thickness)
	half := t / 2
	dx, dy := abs(to.X-from.X), -abs(to.Y-from.Y)
	sx, sy := 1, 1
	if from.X > to.X {
		sx = -1
	}
	if from.Y > to.Y {
		sy = -1
	}
	e := dx + dy
	x, y := from.X, from.Y
	for {
		fillRect(dst, image.Rect(x-half, y-half, x-half+t, y-half+t), c)
		if x == to.X && y == to.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func drawText(dst draw.Image, origin image.Point, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(origin.X, origin.Y),
	}
	d.DrawString(text)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
