package iface

// FramePayload is the JSON shape accepted by the HTTP, websocket, gRPC and replay inputs.
type FramePayload struct {
	Width      int                `json:"width"`
	Height     int                `json:"height"`
	Detections []DetectionPayload `json:"detections"`
}

type DetectionPayload struct {
	Label      string    `json:"label"`
	Confidence float64   `json:"confidence"`
	BBox       []float64 `json:"bbox,omitempty"`
	Normalized bool      `json:"normalized"`
	TrackIDs   []int     `json:"track_ids,omitempty"`
}

// ToFrame adapts the payload into core types. A bbox that is not exactly four numbers
// is dropped here and reported later as missing.
func (p FramePayload) ToFrame() Frame {
	frame := Frame{
		Width:      p.Width,
		Height:     p.Height,
		Detections: make([]Detection, 0, len(p.Detections)),
	}
	for _, d := range p.Detections {
		det := Detection{
			Label:      d.Label,
			Confidence: d.Confidence,
			TrackIDs:   d.TrackIDs,
		}
		if len(d.BBox) == 4 {
			if d.Normalized {
				det.BBox = NormalizedBox{d.BBox[0], d.BBox[1], d.BBox[2], d.BBox[3]}
			} else {
				det.BBox = PixelBox{d.BBox[0], d.BBox[1], d.BBox[2], d.BBox[3]}
			}
		}
		frame.Detections = append(frame.Detections, det)
	}
	return frame
}
