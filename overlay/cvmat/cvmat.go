// Package cvmat draws directives straight onto an OpenCV frame buffer.
package cvmat

import (
	iface "LineCrossServer/interface"
	"LineCrossServer/overlay"
	"errors"
	"image/color"

	"gocv.io/x/gocv"
)

const (
	fontFace  = gocv.FontHersheySimplex
	fontScale = 0.5
	fontThick = 1
)

var ErrEmptyMat = errors.New("mat is empty")

func rgba(c color.NRGBA) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Draw applies ds to mat in place. Hershey glyphs are wider than the metrics the plates
// were sized with, so label text may run past its plate.
func Draw(mat *gocv.Mat, ds []iface.Directive, p overlay.Palette) error {
	if mat == nil || mat.Empty() {
		return ErrEmptyMat
	}
	for _, d := range ds {
		c := rgba(p.Color(d.Marker))
		switch d.Kind {
		case iface.DirectiveRect:
			gocv.Rectangle(mat, d.Rect, c, d.Thickness)
		case iface.DirectiveLine:
			gocv.Line(mat, d.From, d.To, c, d.Thickness)
		case iface.DirectiveLabel:
			gocv.Rectangle(mat, d.Plate, c, -1)
			gocv.PutText(mat, d.Text, d.Origin, fontFace, fontScale, rgba(p.LabelText), fontThick)
		case iface.DirectiveSummary, iface.DirectiveOverlay:
			gocv.PutText(mat, d.Text, d.Origin, fontFace, fontScale*2, c, fontThick*2)
		}
	}
	return nil
}
