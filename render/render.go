package render

import (
	iface "LineCrossServer/interface"
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

const (
	BoxThickness  = 2
	LineThickness = 2
	platePadX     = 3
	platePadY     = 2
	labelLift     = 4
)

var (
	SummaryOrigin = image.Pt(10, 30)
	OverlayOrigin = image.Pt(10, 60)
)

// Renderer turns classified detections into draw directives. Text plates are sized
// with the metrics of Face, which rasterizers are expected to draw with.
type Renderer struct {
	Face    font.Face
	Overlay bool
}

func New(overlay bool) *Renderer {
	return &Renderer{Face: basicfont.Face7x13, Overlay: overlay}
}

// Render returns, in order: a box and a label per outcome that has a bbox, the line
// (when hasLine), the matched-label summary, and the optional decorative overlay.
func (r *Renderer) Render(ctx iface.FrameContext, line iface.Line, hasLine bool, outcomes []iface.DetectionOutcome, matched int) []iface.Directive {
	ds := make([]iface.Directive, 0, 2*len(outcomes)+3)
	for _, o := range outcomes {
		if !o.HasBBox {
			continue
		}
		marker := iface.MarkerNeutral
		if o.Result.IsRed {
			marker = iface.MarkerRed
		}
		ds = append(ds, iface.Directive{
			Kind:      iface.DirectiveRect,
			Marker:    marker,
			Rect:      o.BBox,
			Thickness: BoxThickness,
		})
		ds = append(ds, r.Label(o.BBox, fmt.Sprintf("%s ID:%d", o.Label, o.TrackID), marker))
	}
	if hasLine {
		ds = append(ds, iface.Directive{
			Kind:      iface.DirectiveLine,
			Marker:    iface.MarkerLine,
			From:      line.P1,
			To:        line.P2,
			Thickness: LineThickness,
		})
	}
	ds = append(ds, iface.Directive{
		Kind:   iface.DirectiveSummary,
		Marker: iface.MarkerText,
		Origin: SummaryOrigin,
		Text:   fmt.Sprintf("Detections: %d", matched),
	})
	if r.Overlay {
		ds = append(ds, iface.Directive{
			Kind:   iface.DirectiveOverlay,
			Marker: iface.MarkerText,
			Origin: OverlayOrigin,
			Text:   fmt.Sprintf("Frame: %d", ctx.Index),
		})
	}
	return ds
}

// Label places text just above box. The baseline is pushed down far enough that the
// background plate never crosses the top edge of the frame.
func (r *Renderer) Label(box image.Rectangle, text string, marker iface.Marker) iface.Directive {
	m := r.Face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	width := font.MeasureString(r.Face, text).Ceil()

	tx := max(0, box.Min.X)
	ty := max(ascent+descent+platePadY, box.Min.Y-labelLift)
	return iface.Directive{
		Kind:   iface.DirectiveLabel,
		Marker: marker,
		Origin: image.Pt(tx+platePadX, ty),
		Plate:  image.Rect(tx, ty-ascent-descent-platePadY, tx+width+2*platePadX, ty+descent+platePadY),
		Text:   text,
	}
}
