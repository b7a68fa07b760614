package iface

import "time"

// BoundingBoxProvider is the single accessor set the core uses to read a detection box.
// Normalized reports whether the coordinates are fractions of the frame size.
type BoundingBoxProvider interface {
	XMin() float64
	YMin() float64
	XMax() float64
	YMax() float64
	Normalized() bool
}

// NormalizedBox holds xmin, ymin, xmax, ymax in [0,1].
type NormalizedBox [4]float64

func (b NormalizedBox) XMin() float64    { return b[0] }
func (b NormalizedBox) YMin() float64    { return b[1] }
func (b NormalizedBox) XMax() float64    { return b[2] }
func (b NormalizedBox) YMax() float64    { return b[3] }
func (b NormalizedBox) Normalized() bool { return true }

// PixelBox holds xmin, ymin, xmax, ymax in pixels.
type PixelBox [4]float64

func (b PixelBox) XMin() float64    { return b[0] }
func (b PixelBox) YMin() float64    { return b[1] }
func (b PixelBox) XMax() float64    { return b[2] }
func (b PixelBox) YMax() float64    { return b[3] }
func (b PixelBox) Normalized() bool { return false }

type LogSink interface {
	Emit(line LogLine)
}

// FrameObserver is told about every processed frame. Implementations must not block.
type FrameObserver interface {
	ObserveFrame(summary FrameSummary, elapsed time.Duration)
}

// FrameProcessor is what the transports drive; engine.Callback implements it.
type FrameProcessor interface {
	ProcessFrame(frame Frame) FrameResult
	FrameIndex() uint64
	State() int
	LineDescriptor() string
}
