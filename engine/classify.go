package engine

import (
	iface "LineCrossServer/interface"
	"image"
)

// Classify applies policy p to one detection against a pixel line. It keeps no state, so
// the same inputs always give the same result. A detection without a usable box yields
// an On/not-red/not-crossing result and ErrDetectionDataMissing.
func Classify(d iface.Detection, line iface.Line, width, height int, p iface.Policy) (iface.ClassificationResult, image.Rectangle, error) {
	rect, ok := ResolveBBox(d.BBox, width, height)
	if !ok {
		return iface.ClassificationResult{Side: iface.SideOn}, image.Rectangle{}, iface.ErrDetectionDataMissing
	}

	cx := float64(rect.Min.X+rect.Max.X) / 2
	cy := float64(rect.Min.Y+rect.Max.Y) / 2
	side := SideFromValue(SideOf(line, cx, cy))

	res := iface.ClassificationResult{
		Side:       side,
		IsCrossing: IntersectsBBox(line, rect),
	}
	switch p.RedSide {
	case iface.SideLeft:
		res.IsRed = side == iface.SideLeft
	case iface.SideRight:
		res.IsRed = side == iface.SideRight
	}
	if p.RedIfCrossing && res.IsCrossing {
		res.IsRed = true
	}
	return res, rect, nil
}

// TrackID returns the single attached track id, or 0 and false when there are none or several.
func TrackID(d iface.Detection) (int, bool) {
	if len(d.TrackIDs) != 1 {
		return 0, false
	}
	return d.TrackIDs[0], true
}
