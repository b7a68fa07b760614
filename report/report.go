// Package report formats the per-frame text report: the frame header, one line per
// detection with a recognized label, and a highlighted line per line-crossing event.
//
// Lines are collected per frame and also forwarded to an injected iface.LogSink, so the
// report can be captured in tests or shipped to a structured logger.
package report

import (
	iface "LineCrossServer/interface"
	"fmt"
	"sync"
)

type Emitter struct {
	labels    map[string]struct{}
	reportAll bool
	sink      iface.LogSink
}

// New builds an Emitter. An empty label set falls back to the single label "person".
// With reportAll unrecognized labels also get a simple label/confidence line; recognized
// labels keep their ID line either way.
func New(labels []string, reportAll bool, sink iface.LogSink) *Emitter {
	if len(labels) == 0 {
		labels = []string{"person"}
	}
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return &Emitter{labels: set, reportAll: reportAll, sink: sink}
}

func (e *Emitter) Recognized(label string) bool {
	_, ok := e.labels[label]
	return ok
}

// Begin starts the report of one frame and writes its header line.
func (e *Emitter) Begin(frameIndex uint64) *Frame {
	f := &Frame{emitter: e}
	f.emit(iface.SeverityInfo, false, fmt.Sprintf("Frame count: %d", frameIndex))
	return f
}

// Frame accumulates the lines of a single frame. It is not safe for concurrent use.
type Frame struct {
	emitter *Emitter
	lines   []iface.LogLine
}

func (f *Frame) emit(sev iface.Severity, highlight bool, text string) {
	line := iface.LogLine{Severity: sev, Highlight: highlight, Text: text}
	f.lines = append(f.lines, line)
	if f.emitter.sink != nil {
		f.emitter.sink.Emit(line)
	}
}

// Detection reports one detection and tells whether its label is recognized.
func (f *Frame) Detection(trackID int, label string, confidence float64) bool {
	matched := f.emitter.Recognized(label)
	switch {
	case matched:
		f.emit(iface.SeverityInfo, false, fmt.Sprintf("Detection: ID: %d Label: %s Confidence: %.2f", trackID, label, confidence))
	case f.emitter.reportAll:
		f.emit(iface.SeverityInfo, false, fmt.Sprintf("Detection: %s Confidence: %.2f", label, confidence))
	}
	return matched
}

func (f *Frame) Crossing(line iface.Line, trackID int, label string, confidence float64) {
	f.emit(iface.SeverityWarn, true, fmt.Sprintf("CROSSED %s | ID=%d | Label=%s | Conf=%.2f", line, trackID, label, confidence))
}

func (f *Frame) Warn(format string, args ...any) {
	f.emit(iface.SeverityWarn, false, fmt.Sprintf(format, args...))
}

func (f *Frame) Error(format string, args ...any) {
	f.emit(iface.SeverityError, false, fmt.Sprintf(format, args...))
}

func (f *Frame) Lines() []iface.LogLine {
	return f.lines
}

// Buffer is an in-memory LogSink.
type Buffer struct {
	mu    sync.Mutex
	lines []iface.LogLine
}

func (b *Buffer) Emit(line iface.LogLine) {
	b.mu.Lock()
	b.lines = append(b.lines, line)
	b.mu.Unlock()
}

// Lines returns a copy of everything emitted so far.
func (b *Buffer) Lines() []iface.LogLine {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]iface.LogLine, len(b.lines))
	copy(out, b.lines)
	return out
}

func (b *Buffer) Reset() {
	b.mu.Lock()
	b.lines = nil
	b.mu.Unlock()
}
