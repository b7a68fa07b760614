package iface

import (
	"fmt"
	"image"
)

// Point is a normalized coordinate, both axes in [0,1].
type Point struct {
	X, Y float64
}

// LineConfig is the directed line p1->p2 in normalized frame coordinates.
type LineConfig struct {
	P1 Point
	P2 Point
}

// Line is a LineConfig scaled to the pixel grid of one frame.
type Line struct {
	P1 image.Point
	P2 image.Point
}

func (l Line) String() string {
	return fmt.Sprintf("line=(%d,%d)->(%d,%d)", l.P1.X, l.P1.Y, l.P2.X, l.P2.Y)
}

type Side int

const (
	SideOn Side = iota
	SideLeft
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "on"
	}
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSide accepts "left" or "right"; On is never a valid policy side.
func ParseSide(s string) (Side, error) {
	switch s {
	case "left", "Left", "LEFT":
		return SideLeft, nil
	case "right", "Right", "RIGHT":
		return SideRight, nil
	default:
		return SideOn, fmt.Errorf("invalid side %q", s)
	}
}

type Policy struct {
	RedSide       Side
	RedIfCrossing bool
}

type ClassificationResult struct {
	IsRed      bool `json:"is_red"`
	IsCrossing bool `json:"is_crossing"`
	Side       Side `json:"side"`
}

// FrameContext describes the frame being processed. Width or Height <= 0 means unknown.
type FrameContext struct {
	Width  int
	Height int
	Index  uint64
}

func (c FrameContext) HasSize() bool {
	return c.Width > 0 && c.Height > 0
}

type Detection struct {
	Label      string
	Confidence float64
	BBox       BoundingBoxProvider
	TrackIDs   []int
}

// Frame is what the external pipeline hands over once per video frame.
type Frame struct {
	Width      int
	Height     int
	Detections []Detection
	Buffer     any
}

type DetectionOutcome struct {
	Index      int                  `json:"index"`
	Label      string               `json:"label"`
	Confidence float64              `json:"confidence"`
	TrackID    int                  `json:"track_id"`
	BBox       image.Rectangle      `json:"bbox"`
	HasBBox    bool                 `json:"has_bbox"`
	Classified bool                 `json:"classified"`
	Result     ClassificationResult `json:"result"`
}

type FrameSummary struct {
	FrameIndex        uint64 `json:"frame_index"`
	MatchedLabelCount int    `json:"matched_label_count"`
	Detections        int    `json:"detections"`
	Crossings         int    `json:"crossings"`
	Red               int    `json:"red"`
	Skipped           int    `json:"skipped"`
}

type FrameResult struct {
	Summary    FrameSummary       `json:"summary"`
	Outcomes   []DetectionOutcome `json:"outcomes"`
	Directives []Directive        `json:"directives"`
	LogLines   []LogLine          `json:"log_lines"`
}

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// LogLine is one report line. Highlight replaces the terminal colouring of crossing events.
type LogLine struct {
	Severity  Severity `json:"severity"`
	Highlight bool     `json:"highlight,omitempty"`
	Text      string   `json:"text"`
}

type DirectiveKind int

const (
	DirectiveRect DirectiveKind = iota
	DirectiveLabel
	DirectiveLine
	DirectiveSummary
	DirectiveOverlay
)

func (k DirectiveKind) String() string {
	switch k {
	case DirectiveRect:
		return "rect"
	case DirectiveLabel:
		return "label"
	case DirectiveLine:
		return "line"
	case DirectiveSummary:
		return "summary"
	case DirectiveOverlay:
		return "overlay"
	default:
		return "unknown"
	}
}

func (k DirectiveKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

type Marker int

const (
	MarkerNeutral Marker = iota
	MarkerRed
	MarkerLine
	MarkerText
)

func (m Marker) String() string {
	switch m {
	case MarkerRed:
		return "red"
	case MarkerLine:
		return "line"
	case MarkerText:
		return "text"
	default:
		return "neutral"
	}
}

func (m Marker) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Directive is a backend independent draw instruction.
//
// Rect uses Rect; Line uses From/To; Label, Summary and Overlay draw Text with its
// baseline at Origin. Label additionally fills Plate behind the text.
type Directive struct {
	Kind      DirectiveKind   `json:"kind"`
	Marker    Marker          `json:"marker"`
	Rect      image.Rectangle `json:"rect,omitempty"`
	From      image.Point     `json:"from,omitempty"`
	To        image.Point     `json:"to,omitempty"`
	Origin    image.Point     `json:"origin,omitempty"`
	Plate     image.Rectangle `json:"plate,omitempty"`
	Text      string          `json:"text,omitempty"`
	Thickness int             `json:"thickness,omitempty"`
}
