package engine

import (
	iface "LineCrossServer/interface"
	"image"
	"math"
)

// ToPixelLine scales cfg onto a width x height frame, truncating to whole pixels.
// It reports false when either dimension is unknown.
func ToPixelLine(cfg iface.LineConfig, width, height int) (iface.Line, bool) {
	if width <= 0 || height <= 0 {
		return iface.Line{}, false
	}
	w, h := float64(width), float64(height)
	return iface.Line{
		P1: image.Point{X: int(cfg.P1.X * w), Y: int(cfg.P1.Y * h)},
		P2: image.Point{X: int(cfg.P2.X * w), Y: int(cfg.P2.Y * h)},
	}, true
}

// SideOf returns the cross product of (p2-p1) and (pt-p1).
// Positive is left of the directed line, negative is right, zero is on it.
func SideOf(line iface.Line, x, y float64) float64 {
	x1, y1 := float64(line.P1.X), float64(line.P1.Y)
	x2, y2 := float64(line.P2.X), float64(line.P2.Y)
	return (x2-x1)*(y-y1) - (y2-y1)*(x-x1)
}

func SideFromValue(v float64) iface.Side {
	switch {
	case v > 0:
		return iface.SideLeft
	case v < 0:
		return iface.SideRight
	default:
		return iface.SideOn
	}
}

// IntersectsBBox tests the box corners against the infinite extension of the line, not
// the segment. A line spanning the frame can then be crossed anywhere in frame; boxes
// beyond the segment ends but on its extension also count.
func IntersectsBBox(line iface.Line, r image.Rectangle) bool {
	corners := [4][2]float64{
		{float64(r.Min.X), float64(r.Min.Y)},
		{float64(r.Max.X), float64(r.Min.Y)},
		{float64(r.Max.X), float64(r.Max.Y)},
		{float64(r.Min.X), float64(r.Max.Y)},
	}
	var pos, neg bool
	for _, c := range corners {
		v := SideOf(line, c[0], c[1])
		switch {
		case v == 0:
			return true
		case v > 0:
			pos = true
		default:
			neg = true
		}
	}
	return pos && neg
}

// maxCoord bounds resolved pixel coordinates so the int conversion cannot overflow.
const maxCoord = 1 << 30

// ResolveBBox converts a provider into pixel coordinates for a width x height frame.
// Normalized boxes are scaled and truncated like the line endpoints. Boxes beyond
// maxCoord on either axis are rejected.
func ResolveBBox(b iface.BoundingBoxProvider, width, height int) (image.Rectangle, bool) {
	if b == nil || width <= 0 || height <= 0 {
		return image.Rectangle{}, false
	}
	xmin, ymin, xmax, ymax := b.XMin(), b.YMin(), b.XMax(), b.YMax()
	for _, v := range [4]float64{xmin, ymin, xmax, ymax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return image.Rectangle{}, false
		}
	}
	if xmax < xmin || ymax < ymin {
		return image.Rectangle{}, false
	}
	if b.Normalized() {
		xmin, xmax = xmin*float64(width), xmax*float64(width)
		ymin, ymax = ymin*float64(height), ymax*float64(height)
	}
	for _, v := range [4]float64{xmin, ymin, xmax, ymax} {
		if math.Abs(v) > maxCoord {
			return image.Rectangle{}, false
		}
	}
	// min <= max already holds; image.Rect would silently swap the corners
	return image.Rectangle{
		Min: image.Point{X: int(xmin), Y: int(ymin)},
		Max: image.Point{X: int(xmax), Y: int(ymax)},
	}, true
}
