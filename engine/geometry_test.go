package engine

import (
	iface "LineCrossServer/interface"
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var verticalLine = iface.LineConfig{P1: iface.Point{X: 0.5, Y: 0.1}, P2: iface.Point{X: 0.5, Y: 0.9}}

func TestToPixelLine(t *testing.T) {
	t.Run("scales and truncates", func(t *testing.T) {
		line, ok := ToPixelLine(iface.LineConfig{P1: iface.Point{X: 0.33, Y: 0.1}, P2: iface.Point{X: 0.5, Y: 0.99}}, 101, 37)
		assert.True(t, ok)
		assert.Equal(t, image.Pt(33, 3), line.P1)
		assert.Equal(t, image.Pt(50, 36), line.P2)
	})

	t.Run("unknown size", func(t *testing.T) {
		for _, size := range [][2]int{{0, 100}, {100, 0}, {-1, 100}, {0, 0}} {
			_, ok := ToPixelLine(verticalLine, size[0], size[1])
			assert.False(t, ok, "size %v", size)
		}
	})
}

func TestSideOf(t *testing.T) {
	line, _ := ToPixelLine(verticalLine, 100, 100)

	// The line points down the image, so larger x is on its right.
	assert.Less(t, SideOf(line, 70, 50), 0.0)
	assert.Greater(t, SideOf(line, 20, 20), 0.0)
	assert.Equal(t, 0.0, SideOf(line, 50, 50))
	assert.Equal(t, 0.0, SideOf(line, 50, 500), "points on the extension are on the line")

	t.Run("direction matters", func(t *testing.T) {
		reversed := iface.Line{P1: line.P2, P2: line.P1}
		assert.Greater(t, SideOf(reversed, 70, 50), 0.0)
		assert.Less(t, SideOf(reversed, 20, 20), 0.0)
	})

	t.Run("sign convention over a grid", func(t *testing.T) {
		diag := iface.Line{P1: image.Pt(0, 0), P2: image.Pt(10, 10)}
		for x := -5; x <= 15; x++ {
			for y := -5; y <= 15; y++ {
				v := SideOf(diag, float64(x), float64(y))
				switch {
				case y > x:
					assert.Greater(t, v, 0.0)
				case y < x:
					assert.Less(t, v, 0.0)
				default:
					assert.Equal(t, 0.0, v)
				}
			}
		}
	})
}

func TestSideFromValue(t *testing.T) {
	assert.Equal(t, iface.SideLeft, SideFromValue(3))
	assert.Equal(t, iface.SideRight, SideFromValue(-0.5))
	assert.Equal(t, iface.SideOn, SideFromValue(0))
}

func TestIntersectsBBox(t *testing.T) {
	line, _ := ToPixelLine(verticalLine, 100, 100)

	cases := []struct {
		name string
		box  image.Rectangle
		want bool
	}{
		{"right of line", image.Rect(60, 40, 80, 60), false},
		{"left of line", image.Rect(10, 10, 30, 30), false},
		{"straddles", image.Rect(40, 10, 60, 30), true},
		{"corner on line", image.Rect(50, 10, 70, 30), true},
		{"beyond segment end, on extension", image.Rect(40, 95, 60, 99), true},
		{"zero size box on line", image.Rect(50, 50, 50, 50), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IntersectsBBox(line, tc.box))
		})
	}
}

func TestResolveBBox(t *testing.T) {
	t.Run("normalized", func(t *testing.T) {
		r, ok := ResolveBBox(iface.NormalizedBox{0.25, 0.5, 0.75, 1}, 100, 200)
		assert.True(t, ok)
		assert.Equal(t, image.Rect(25, 100, 75, 200), r)
	})

	t.Run("pixel", func(t *testing.T) {
		r, ok := ResolveBBox(iface.PixelBox{60.7, 40, 80, 60.2}, 100, 100)
		assert.True(t, ok)
		assert.Equal(t, image.Rect(60, 40, 80, 60), r)
	})

	t.Run("invalid", func(t *testing.T) {
		bad := []iface.BoundingBoxProvider{
			nil,
			iface.PixelBox{80, 40, 60, 60},
			iface.PixelBox{math.NaN(), 0, 1, 1},
			iface.NormalizedBox{0, 0, math.Inf(1), 1},
			iface.PixelBox{0, 0, 1e19, 10},
			iface.PixelBox{-1e19, 0, 10, 10},
			iface.NormalizedBox{0, 0, 1e12, 1},
		}
		for _, b := range bad {
			_, ok := ResolveBBox(b, 100, 100)
			assert.False(t, ok, "%v", b)
		}
		_, ok := ResolveBBox(iface.PixelBox{1, 1, 2, 2}, 0, 100)
		assert.False(t, ok)

		r, ok := ResolveBBox(iface.PixelBox{-(1 << 30), 0, 1 << 30, 10}, 100, 100)
		require.True(t, ok, "the coordinate bound itself is accepted")
		assert.Equal(t, 1<<30, r.Max.X)
	})
}

func TestValidateLine(t *testing.T) {
	assert.NoError(t, ValidateLine(verticalLine))

	err := ValidateLine(iface.LineConfig{P1: iface.Point{X: 0.5, Y: 0.5}, P2: iface.Point{X: 0.5, Y: 0.5}})
	assert.True(t, iface.IsConfigError(err))

	err = ValidateLine(iface.LineConfig{P1: iface.Point{X: -0.1, Y: 0.5}, P2: iface.Point{X: 0.5, Y: 0.5}})
	assert.True(t, iface.IsConfigError(err))

	err = ValidateLine(iface.LineConfig{P1: iface.Point{X: 0.1, Y: 0.5}, P2: iface.Point{X: 0.5, Y: math.NaN()}})
	assert.True(t, iface.IsConfigError(err))
}

func TestValidatePolicy(t *testing.T) {
	assert.NoError(t, ValidatePolicy(iface.Policy{RedSide: iface.SideLeft}))
	assert.NoError(t, ValidatePolicy(iface.Policy{RedSide: iface.SideRight, RedIfCrossing: true}))
	assert.True(t, iface.IsConfigError(ValidatePolicy(iface.Policy{RedSide: iface.SideOn})))
}
