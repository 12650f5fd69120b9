package gesture

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// PanConfig holds pan recognition thresholds.
type PanConfig struct {
	// MinimumDistance is how far, in pixels, the point must travel from the
	// Down before a pan starts.
	MinimumDistance float64 `toml:"minimum_distance"`
	// MinimumPanEvents is the number of samples, the Down included, needed
	// before a pan can start.
	MinimumPanEvents int `toml:"minimum_pan_events"`
}

// TapConfig holds tap recognition thresholds.
type TapConfig struct {
	// MaximumInterval is the longest time, in ms, between a Down and its Up
	// and between an Up and the next Down of a multi-tap.
	MaximumInterval uint32 `toml:"maximum_interval"`
	// Jitter is how far, in pixels, a tap may wander from the first Down.
	Jitter float64 `toml:"jitter"`
}

// LongPressConfig holds long-press recognition thresholds.
type LongPressConfig struct {
	MinimumHoldingTime uint32  `toml:"minimum_holding_time"`
	Jitter             float64 `toml:"jitter"`
}

// PinchConfig holds pinch recognition thresholds.
type PinchConfig struct {
	// MinimumDistance is the change in finger distance, in pixels, that
	// starts a pinch.
	MinimumDistance float64 `toml:"minimum_distance"`
}

// Config configures a Processor.
type Config struct {
	Debug bool `toml:"debug"`

	// Combiner thresholds. Motion arriving sooner than MinMotionTime ms after
	// the previous sample of its device, or moving less than the minimum
	// distance on both axes, is ignored.
	MinMotionTime      uint32  `toml:"min_motion_time"`
	MinMotionDistanceX float64 `toml:"min_motion_distance_x"`
	MinMotionDistanceY float64 `toml:"min_motion_distance_y"`
	// Batching queues combined events until Tick and coalesces pure motion.
	Batching bool `toml:"batching"`

	Pan        PanConfig       `toml:"pan"`
	Tap        TapConfig       `toml:"tap"`
	LongPress  LongPressConfig `toml:"long_press"`
	Pinch      PinchConfig     `toml:"pinch"`
	Prediction PredictorConfig `toml:"prediction"`
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		MinMotionTime:      DefaultMinMotionTime,
		MinMotionDistanceX: DefaultMinMotionDistance.X,
		MinMotionDistanceY: DefaultMinMotionDistance.Y,
		Pan: PanConfig{
			MinimumDistance:  15,
			MinimumPanEvents: 2,
		},
		Tap: TapConfig{
			MaximumInterval: 500,
			Jitter:          20,
		},
		LongPress: LongPressConfig{
			MinimumHoldingTime: 500,
			Jitter:             20,
		},
		Pinch: PinchConfig{
			MinimumDistance: 15,
		},
		Prediction: DefaultPredictorConfig(),
	}
}

// LoadConfig reads a TOML file over the defaults. Keys missing from the file
// keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// DecodeConfig parses TOML data over the defaults.
func DecodeConfig(data string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// WriteConfig encodes cfg as TOML.
func WriteConfig(w io.Writer, cfg Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// normalize clamps out-of-range values.
func (c *Config) normalize() {
	if c.MinMotionDistanceX < 0 {
		c.MinMotionDistanceX = 0
	}
	if c.MinMotionDistanceY < 0 {
		c.MinMotionDistanceY = 0
	}
	if c.Pan.MinimumDistance < 0 {
		c.Pan.MinimumDistance = 0
	}
	if c.Pan.MinimumPanEvents < 1 {
		c.Pan.MinimumPanEvents = 1
	}
	if c.Tap.Jitter < 0 {
		c.Tap.Jitter = 0
	}
	if c.LongPress.Jitter < 0 {
		c.LongPress.Jitter = 0
	}
	if c.Pinch.MinimumDistance < 0 {
		c.Pinch.MinimumDistance = 0
	}
	c.Prediction.normalize()
}
