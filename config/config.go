// Package config loads the YAML run configuration of the rigidsim command.
package config

import (
	"io"
	"os"

	"github.com/jakecoffman/rigid"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	BroadPhaseQuadTree   = "quadtree"
	BroadPhaseBruteForce = "bruteforce"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	LogLevel string `yaml:"log_level"`

	// Dt is the fixed step in seconds and Steps the number of steps to run.
	Dt    float64 `yaml:"dt"`
	Steps int     `yaml:"steps"`

	// Scenes are block format files, each simulated in its own world.
	Scenes []string `yaml:"scenes"`

	BroadPhase string  `yaml:"broad_phase"`
	Physics    Physics `yaml:"physics"`
}

type Physics struct {
	Gravity           [2]float64 `yaml:"gravity"`
	Restitution       float64    `yaml:"restitution"`
	Friction          float64    `yaml:"friction"`
	Slop              float64    `yaml:"slop"`
	CorrectionPercent float64    `yaml:"correction_percent"`
	MaxDepth          int        `yaml:"max_depth"`
}

func Default() *Config {
	s := rigid.DefaultSettings()
	return &Config{
		LogLevel:   "info",
		Dt:         1.0 / 60.0,
		Steps:      600,
		BroadPhase: BroadPhaseQuadTree,
		Physics: Physics{
			Gravity:           [2]float64{s.Gravity.X, s.Gravity.Y},
			Restitution:       s.Restitution,
			Friction:          s.Friction,
			Slop:              s.Slop,
			CorrectionPercent: s.CorrectionPercent,
			MaxDepth:          s.MaxDepth,
		},
	}
}

// Parse decodes YAML on top of Default, so absent keys keep their defaults,
// and validates the result.
func Parse(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decoding config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening config")
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return c, nil
}

func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(ErrInvalid, "log_level %q", c.LogLevel)
	}
	if !(c.Dt > 0) {
		return errors.Wrapf(ErrInvalid, "dt %v must be positive", c.Dt)
	}
	if c.Steps < 0 {
		return errors.Wrapf(ErrInvalid, "steps %d must not be negative", c.Steps)
	}
	switch c.BroadPhase {
	case BroadPhaseQuadTree, BroadPhaseBruteForce:
	default:
		return errors.Wrapf(ErrInvalid, "broad_phase %q", c.BroadPhase)
	}

	p := c.Physics
	if p.Restitution < 0 || p.Restitution > 1 {
		return errors.Wrapf(ErrInvalid, "restitution %v outside [0, 1]", p.Restitution)
	}
	if p.Friction < 0 {
		return errors.Wrapf(ErrInvalid, "friction %v must not be negative", p.Friction)
	}
	if p.Slop < 0 {
		return errors.Wrapf(ErrInvalid, "slop %v must not be negative", p.Slop)
	}
	if p.CorrectionPercent < 0 || p.CorrectionPercent > 1 {
		return errors.Wrapf(ErrInvalid, "correction_percent %v outside [0, 1]", p.CorrectionPercent)
	}
	if p.MaxDepth < 0 {
		return errors.Wrapf(ErrInvalid, "max_depth %d must not be negative", p.MaxDepth)
	}
	return nil
}

func (c *Config) Settings() rigid.Settings {
	p := c.Physics
	return rigid.Settings{
		Gravity:           rigid.Vector{X: p.Gravity[0], Y: p.Gravity[1]},
		Restitution:       p.Restitution,
		Friction:          p.Friction,
		Slop:              p.Slop,
		CorrectionPercent: p.CorrectionPercent,
		MaxDepth:          p.MaxDepth,
	}
}

func (c *Config) SpatialIndex() rigid.SpatialIndex {
	if c.BroadPhase == BroadPhaseBruteForce {
		return rigid.NewBruteForce()
	}
	return rigid.NewQuadTree(c.Physics.MaxDepth)
}
