package iface

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramePayload_ToFrame(t *testing.T) {
	var p FramePayload
	require.NoError(t, json.Unmarshal([]byte(`{"width":640,"height":480,"detections":[
		{"label":"person","confidence":0.7,"bbox":[0.1,0.2,0.3,0.4],"normalized":true,"track_ids":[5]},
		{"label":"car","confidence":0.6,"bbox":[10,20,30,40]},
		{"label":"dog","confidence":0.5,"bbox":[1,2,3]}
	]}`), &p))

	f := p.ToFrame()
	assert.Equal(t, 640, f.Width)
	assert.Equal(t, 480, f.Height)
	require.Len(t, f.Detections, 3)

	assert.Equal(t, NormalizedBox{0.1, 0.2, 0.3, 0.4}, f.Detections[0].BBox)
	assert.True(t, f.Detections[0].BBox.Normalized())
	assert.Equal(t, []int{5}, f.Detections[0].TrackIDs)

	assert.Equal(t, PixelBox{10, 20, 30, 40}, f.Detections[1].BBox)
	assert.False(t, f.Detections[1].BBox.Normalized())
	assert.Empty(t, f.Detections[1].TrackIDs)

	assert.Nil(t, f.Detections[2].BBox)
}

func TestSide(t *testing.T) {
	for _, s := range []string{"left", "Left", "LEFT"} {
		side, err := ParseSide(s)
		assert.NoError(t, err)
		assert.Equal(t, SideLeft, side)
	}
	side, err := ParseSide("right")
	assert.NoError(t, err)
	assert.Equal(t, SideRight, side)

	_, err = ParseSide("on")
	assert.Error(t, err)

	raw, err := json.Marshal(ClassificationResult{IsRed: true, Side: SideRight})
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_red":true,"is_crossing":false,"side":"right"}`, string(raw))
}

func TestLineString(t *testing.T) {
	l := Line{P1: image.Pt(50, 10), P2: image.Pt(50, 90)}
	assert.Equal(t, "line=(50,10)->(50,90)", l.String())
}

func TestFrameContext_HasSize(t *testing.T) {
	assert.True(t, FrameContext{Width: 1, Height: 1}.HasSize())
	assert.False(t, FrameContext{Width: 0, Height: 1}.HasSize())
	assert.False(t, FrameContext{Width: 1, Height: -1}.HasSize())
}

func TestConfigError(t *testing.T) {
	err := fmt.Errorf("startup: %w", &ConfigError{Field: "line", Reason: "p1 and p2 must differ"})
	assert.True(t, IsConfigError(err))
	assert.EqualError(t, err, "startup: configuration error: line: p1 and p2 must differ")
	assert.False(t, IsConfigError(errors.New("other")))
	assert.False(t, IsConfigError(nil))
}

func TestDirective_JSON(t *testing.T) {
	raw, err := json.Marshal(Directive{Kind: DirectiveLabel, Marker: MarkerRed, Text: "person ID:1"})
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "label", m["kind"])
	assert.Equal(t, "red", m["marker"])

	raw, err = json.Marshal(LogLine{Severity: SeverityWarn, Highlight: true, Text: "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"severity":"warn","highlight":true,"text":"x"}`, string(raw))
}
