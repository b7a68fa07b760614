package config

import (
	"LineCrossServer/engine"
	iface "LineCrossServer/interface"
	"LineCrossServer/overlay"
	"fmt"
	"image/color"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

const (
	LogProduction  = "production"
	LogDevelopment = "development"
)

type LineSection struct {
	X1 float64 `yaml:"x1"`
	Y1 float64 `yaml:"y1"`
	X2 float64 `yaml:"x2"`
	Y2 float64 `yaml:"y2"`
}

// ColorSection holds hex colors such as "#ff0000" or "#f00".
type ColorSection struct {
	Red       string `yaml:"red"`
	Neutral   string `yaml:"neutral"`
	Line      string `yaml:"line"`
	Text      string `yaml:"text"`
	LabelText string `yaml:"labelText"`
}

type Config struct {
	RPCPort       int    `yaml:"RPCPort"`
	HTTPPort      int    `yaml:"HTTPPort"`
	MonitorPort   int    `yaml:"MonitorPort"`
	UseRegServer  bool   `yaml:"UseRegServer"`
	RegServerPort int    `yaml:"RegServerPort"`
	RegServerHost string `yaml:"RegServerHost"`
	LogMode       string `yaml:"logMode"`

	Line          LineSection  `yaml:"line"`
	RedSide       string       `yaml:"redSide"`
	RedIfCrossing bool         `yaml:"redIfCrossing"`
	Labels        []string     `yaml:"labels"`
	ReportAll     bool         `yaml:"reportAll"`
	Overlay       bool         `yaml:"overlay"`
	Colors        ColorSection `yaml:"colors"`
}

// Defaults is a vertical line through the middle of the frame with the right side red.
func Defaults() Config {
	return Config{
		RPCPort:     50051,
		HTTPPort:    8080,
		MonitorPort: 50052,
		LogMode:     LogProduction,
		Line:        LineSection{X1: 0.5, Y1: 0.1, X2: 0.5, Y2: 0.9},
		RedSide:     "right",
		Labels:      []string{engine.DefaultLabel},
		Overlay:     true,
		Colors: ColorSection{
			Red:       "#ff0000",
			Neutral:   "#00ff00",
			Line:      "#ff0000",
			Text:      "#ffffff",
			LabelText: "#000000",
		},
	}
}

// Parse overlays data on top of Defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

func (c Config) LineConfig() iface.LineConfig {
	return iface.LineConfig{
		P1: iface.Point{X: c.Line.X1, Y: c.Line.Y1},
		P2: iface.Point{X: c.Line.X2, Y: c.Line.Y2},
	}
}

func (c Config) Policy() (iface.Policy, error) {
	side, err := iface.ParseSide(c.RedSide)
	if err != nil {
		return iface.Policy{}, &iface.ConfigError{Field: "redSide", Reason: err.Error()}
	}
	return iface.Policy{RedSide: side, RedIfCrossing: c.RedIfCrossing}, nil
}

type hexField struct {
	name string
	hex  string
	dst  *color.NRGBA
}

func (c Config) Palette() (overlay.Palette, error) {
	var p overlay.Palette
	fields := []hexField{
		{"colors.red", c.Colors.Red, &p.Red},
		{"colors.neutral", c.Colors.Neutral, &p.Neutral},
		{"colors.line", c.Colors.Line, &p.Line},
		{"colors.text", c.Colors.Text, &p.Text},
		{"colors.labelText", c.Colors.LabelText, &p.LabelText},
	}
	for _, f := range fields {
		cc, err := colorful.Hex(f.hex)
		if err != nil {
			return overlay.Palette{}, &iface.ConfigError{Field: f.name, Reason: err.Error()}
		}
		r, g, b := cc.RGB255()
		*f.dst = color.NRGBA{R: r, G: g, B: b, A: 255}
	}
	return p, nil
}

// Validate checks everything that must be right before the callback is built.
func (c Config) Validate() error {
	ports := map[string]int{
		"RPCPort":       c.RPCPort,
		"HTTPPort":      c.HTTPPort,
		"MonitorPort":   c.MonitorPort,
		"RegServerPort": c.RegServerPort,
	}
	for name, port := range ports {
		if port < 0 || port > 65535 {
			return &iface.ConfigError{Field: name, Reason: fmt.Sprintf("out of range: %d", port)}
		}
	}
	if c.UseRegServer && (c.RegServerHost == "" || c.RegServerPort == 0) {
		return &iface.ConfigError{Field: "RegServerHost", Reason: "required when UseRegServer is set"}
	}
	switch c.LogMode {
	case LogProduction, LogDevelopment:
	default:
		return &iface.ConfigError{Field: "logMode", Reason: fmt.Sprintf("unknown mode %q", c.LogMode)}
	}
	if err := engine.ValidateLine(c.LineConfig()); err != nil {
		return err
	}
	p, err := c.Policy()
	if err != nil {
		return err
	}
	if err := engine.ValidatePolicy(p); err != nil {
		return err
	}
	for _, l := range c.Labels {
		if l == "" {
			return &iface.ConfigError{Field: "labels", Reason: "empty label"}
		}
	}
	_, err = c.Palette()
	return err
}
