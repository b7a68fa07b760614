package engine

import (
	iface "LineCrossServer/interface"
	"LineCrossServer/render"
	"LineCrossServer/report"
	"fmt"
	"image"
	"sync"
	"time"
)

type Options struct {
	Line      iface.LineConfig
	Policy    iface.Policy
	Labels    []string
	ReportAll bool
	Overlay   bool
	Sink      iface.LogSink
	Observer  iface.FrameObserver
}

// Callback is invoked by the pipeline once per frame. It owns the frame counter; the
// line and policy are fixed at construction.
type Callback struct {
	line     iface.LineConfig
	policy   iface.Policy
	renderer *render.Renderer
	emitter  *report.Emitter
	observer iface.FrameObserver

	mu         sync.Mutex
	state      int
	frameIndex uint64
	lastLine   iface.Line
	hasLine    bool
}

// New validates the line and policy. Any error is an *iface.ConfigError and must stop startup.
func New(opts Options) (*Callback, error) {
	if err := ValidateLine(opts.Line); err != nil {
		return nil, err
	}
	if err := ValidatePolicy(opts.Policy); err != nil {
		return nil, err
	}
	return &Callback{
		line:     opts.Line,
		policy:   opts.Policy,
		renderer: render.New(opts.Overlay),
		emitter:  report.New(opts.Labels, opts.ReportAll, opts.Sink),
		observer: opts.Observer,
		state:    IDLE,
	}, nil
}

func (c *Callback) FrameIndex() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameIndex
}

func (c *Callback) State() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Callback) Line() iface.LineConfig { return c.line }

// LineDescriptor is the pixel line of the most recent frame, or "" when that frame had no size.
func (c *Callback) LineDescriptor() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasLine {
		return ""
	}
	return c.lastLine.String()
}

func (c *Callback) Policy() iface.Policy { return c.policy }

// Reset is a full reinitialization: the counter restarts at zero.
func (c *Callback) Reset() {
	c.mu.Lock()
	c.frameIndex = 0
	c.state = IDLE
	c.hasLine = false
	c.mu.Unlock()
}

// ProcessFrame runs one frame. Problems with the frame or a single detection are
// reported through the log lines and never escape as a panic or an error.
func (c *Callback) ProcessFrame(frame iface.Frame) iface.FrameResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	c.state = RUNNING
	c.frameIndex++
	ctx := iface.FrameContext{Width: frame.Width, Height: frame.Height, Index: c.frameIndex}

	rep := c.emitter.Begin(ctx.Index)
	line, hasLine := ToPixelLine(c.line, ctx.Width, ctx.Height)
	c.lastLine, c.hasLine = line, hasLine
	if !hasLine {
		rep.Warn("frame %d: %v (width=%d height=%d), classification skipped", ctx.Index, iface.ErrFrameDataUnavailable, ctx.Width, ctx.Height)
	}

	summary := iface.FrameSummary{FrameIndex: ctx.Index, Detections: len(frame.Detections)}
	outcomes := make([]iface.DetectionOutcome, 0, len(frame.Detections))
	for i, d := range frame.Detections {
		o, matched := c.processDetection(rep, i, d, line, hasLine, ctx)
		if !o.Classified {
			summary.Skipped++
		}
		if o.Result.IsCrossing {
			summary.Crossings++
		}
		if o.Result.IsRed {
			summary.Red++
		}
		if matched {
			summary.MatchedLabelCount++
		}
		outcomes = append(outcomes, o)
	}

	result := iface.FrameResult{
		Summary:    summary,
		Outcomes:   outcomes,
		Directives: c.renderer.Render(ctx, line, hasLine, outcomes, summary.MatchedLabelCount),
		LogLines:   rep.Lines(),
	}
	if c.observer != nil {
		c.observer.ObserveFrame(summary, time.Since(start))
	}
	return result
}

// processDetection always reports the detection line, even when classification fails.
func (c *Callback) processDetection(rep *report.Frame, i int, d iface.Detection, line iface.Line, hasLine bool, ctx iface.FrameContext) (iface.DetectionOutcome, bool) {
	o := iface.DetectionOutcome{Index: i, Label: d.Label, Confidence: d.Confidence}
	trackID, ok := TrackID(d)
	if !ok {
		rep.Warn("frame %d detection %d (%s): %v (%d attached), using ID 0", ctx.Index, i, d.Label, iface.ErrTrackIDAnomaly, len(d.TrackIDs))
	}
	o.TrackID = trackID

	if hasLine {
		if err := c.classifyDetection(rep, &o, d, line, ctx); err != nil {
			rep.Error("frame %d detection %d: %v", ctx.Index, i, err)
		}
	}
	return o, rep.Detection(trackID, d.Label, d.Confidence)
}

func (c *Callback) classifyDetection(rep *report.Frame, o *iface.DetectionOutcome, d iface.Detection, line iface.Line, ctx iface.FrameContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			o.Classified = false
			o.HasBBox = false
			o.BBox = image.Rectangle{}
			o.Result = iface.ClassificationResult{Side: iface.SideOn}
			err = fmt.Errorf("panic while processing detection: %v", r)
		}
	}()

	res, rect, cerr := Classify(d, line, ctx.Width, ctx.Height, c.policy)
	if cerr != nil {
		rep.Warn("frame %d detection %d (%s): %v, skipped", ctx.Index, o.Index, d.Label, cerr)
		return nil
	}
	o.Classified = true
	o.HasBBox = true
	o.BBox = rect
	o.Result = res
	if res.IsCrossing {
		rep.Crossing(line, o.TrackID, d.Label, d.Confidence)
	}
	return nil
}
