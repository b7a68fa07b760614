package main

import (
	iface "LineCrossServer/interface"
	"LineCrossServer/logger"
	"LineCrossServer/monitor"
	"LineCrossServer/overlay"
	"LineCrossServer/overlay/cvmat"
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

const (
	annotateNone = ""
	annotateGo   = "go"
	annotateCV   = "cv"
)

// replayer feeds a JSON-lines capture through the callback, one payload per line.
type replayer struct {
	proc    iface.FrameProcessor
	mon     *monitor.Monitor
	palette overlay.Palette
	// annotate picks the rasterizer for the optional snapshots written to outDir.
	annotate string
	outDir   string
}

func (r *replayer) run(ctx context.Context, in io.Reader) (int, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	frames := 0
	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return frames, err
		}
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var payload iface.FramePayload
		if err := json.Unmarshal([]byte(text), &payload); err != nil {
			logger.Log().Warn("skipping malformed replay line", zap.Int("line", lineNo), zap.Error(err))
			continue
		}
		if r.mon != nil {
			r.mon.Request("replay")
		}
		result := r.proc.ProcessFrame(payload.ToFrame())
		frames++
		if err := r.snapshot(payload, result); err != nil {
			return frames, err
		}
	}
	if err := scanner.Err(); err != nil {
		return frames, fmt.Errorf("read replay input: %w", err)
	}
	return frames, nil
}

// snapshot renders the directives of one frame on a blank canvas of the frame size.
func (r *replayer) snapshot(payload iface.FramePayload, result iface.FrameResult) error {
	if r.annotate == annotateNone || payload.Width <= 0 || payload.Height <= 0 {
		return nil
	}
	name := filepath.Join(r.outDir, fmt.Sprintf("frame_%06d.png", result.Summary.FrameIndex))
	switch r.annotate {
	case annotateGo:
		canvas := imaging.New(payload.Width, payload.Height, color.NRGBA{A: 255})
		if err := imaging.Save(overlay.Draw(canvas, result.Directives, r.palette), name); err != nil {
			return fmt.Errorf("save %s: %w", name, err)
		}
	case annotateCV:
		mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), payload.Height, payload.Width, gocv.MatTypeCV8UC3)
		defer mat.Close()
		if err := cvmat.Draw(&mat, result.Directives, r.palette); err != nil {
			return err
		}
		if ok := gocv.IMWrite(name, mat); !ok {
			return fmt.Errorf("save %s: imwrite failed", name)
		}
	default:
		return fmt.Errorf("unknown annotate backend %q", r.annotate)
	}
	return nil
}
