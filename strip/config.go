package strip

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/frostcore/anim"
	"gopkg.in/yaml.v2"
)

// SegmentConfig describes a segment to attach at start-up.
type SegmentConfig struct {
	Name   string `yaml:"name"`
	Start  int    `yaml:"start"`
	Length int    `yaml:"length"`
	Colour string `yaml:"colour"`
}

// Config is the YAML configuration of the frostcore daemon.
type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		ClientID string `yaml:"clientId"`
		Topics   struct {
			Stream string `yaml:"stream"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	Strip struct {
		Pixels     int             `yaml:"pixels"`
		Background string          `yaml:"background"`
		Segments   []SegmentConfig `yaml:"segments"`
	} `yaml:"strip"`
	Animation    anim.Options  `yaml:"animation"`
	FrameRate    float64       `yaml:"frameRate"`
	ShowInterval time.Duration `yaml:"showInterval"`
	Listen       string        `yaml:"listen"`
}

// DefaultConfig returns the values used for anything a config file omits.
func DefaultConfig() Config {
	var c Config
	c.Mqtt.ClientID = "frostcore"
	c.Mqtt.Topics.Stream = "home/xmastree/stream"
	c.Strip.Pixels = 500
	c.Strip.Background = "#000005"
	c.Animation = anim.DefaultOptions()
	c.FrameRate = 60
	c.ShowInterval = 10 * time.Second
	c.Listen = ":3000"
	return c
}

// LoadConfig reads a YAML config file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return c, errors.Wrapf(err, "open config %s", path)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&c); err != nil {
		return c, errors.WithHint(errors.Wrapf(err, "decode config %s", path),
			"check the file is valid YAML")
	}

	return c, c.Validate()
}

// Validate checks the values a daemon cannot start without.
func (c Config) Validate() error {
	if c.Strip.Pixels <= 0 || c.Strip.Pixels > 0xffff {
		return errors.Newf("strip.pixels must be between 1 and 65535, got %d", c.Strip.Pixels)
	}
	if c.FrameRate <= 0 {
		return errors.Newf("frameRate must be positive, got %v", c.FrameRate)
	}
	if c.ShowInterval <= 0 {
		return errors.Newf("showInterval must be positive, got %v", c.ShowInterval)
	}
	if _, err := colorful.Hex(c.Strip.Background); err != nil {
		return errors.Wrapf(err, "strip.background %q", c.Strip.Background)
	}
	for _, sc := range c.Strip.Segments {
		if _, err := colorful.Hex(sc.Colour); err != nil {
			return errors.Wrapf(err, "segment %q colour %q", sc.Name, sc.Colour)
		}
	}

	return nil
}

// FrameInterval is the period between frames at FrameRate.
func (c Config) FrameInterval() time.Duration {
	return time.Duration(float64(time.Second) / c.FrameRate)
}

// Build creates the configured strip with its segments attached.
func (c Config) Build() (*Strip, error) {
	background, err := colorful.Hex(c.Strip.Background)
	if err != nil {
		return nil, errors.Wrap(err, "strip.background")
	}

	s := New(c.Strip.Pixels, background)
	for _, sc := range c.Strip.Segments {
		colour, err := colorful.Hex(sc.Colour)
		if err != nil {
			return nil, errors.Wrapf(err, "segment %q colour", sc.Name)
		}
		if err := s.Attach(NewSegment(sc.Name, sc.Start, sc.Length, colour)); err != nil {
			return nil, err
		}
	}

	return s, nil
}
