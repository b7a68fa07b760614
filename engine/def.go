package engine

import (
	iface "LineCrossServer/interface"
	"fmt"
	"math"
)

const IDLE = 0x0003
const RUNNING = 0x0004

const DefaultLabel = "person"

func StateName(state int) string {
	switch state {
	case IDLE:
		return "idle"
	case RUNNING:
		return "running"
	default:
		return "unknown"
	}
}

// ValidateLine rejects coordinates outside [0,1] and a degenerate p1 == p2 line.
func ValidateLine(cfg iface.LineConfig) error {
	coords := []struct {
		name string
		v    float64
	}{
		{"line.x1", cfg.P1.X},
		{"line.y1", cfg.P1.Y},
		{"line.x2", cfg.P2.X},
		{"line.y2", cfg.P2.Y},
	}
	for _, c := range coords {
		if math.IsNaN(c.v) || c.v < 0 || c.v > 1 {
			return &iface.ConfigError{Field: c.name, Reason: fmt.Sprintf("must be within [0,1], got %v", c.v)}
		}
	}
	if cfg.P1 == cfg.P2 {
		return &iface.ConfigError{Field: "line", Reason: "p1 and p2 must differ"}
	}
	return nil
}

func ValidatePolicy(p iface.Policy) error {
	if p.RedSide != iface.SideLeft && p.RedSide != iface.SideRight {
		return &iface.ConfigError{Field: "redSide", Reason: fmt.Sprintf("must be left or right, got %s", p.RedSide)}
	}
	return nil
}
