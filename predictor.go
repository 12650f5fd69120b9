package gesture

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	// maxGestureAge is how long, in ms, a sample stays in the history.
	maxGestureAge = 200
	// accelerationThreshold is the speed change (px/ms) between samples that
	// adapts the prediction amount.
	accelerationThreshold = 0.1
	predictEpsilon        = 1e-6
)

// PredictionMode selects how pan positions are extrapolated.
type PredictionMode uint8

const (
	PredictionOff      PredictionMode = iota // raw positions
	PredictionSimple                         // velocity and acceleration extrapolation with adaptive amount
	PredictionTwoPoint                       // linear fit over the history
)

var predictionModeNames = [...]string{"off", "simple", "two-point"}

func (m PredictionMode) String() string {
	if int(m) < len(predictionModeNames) {
		return predictionModeNames[m]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (m PredictionMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *PredictionMode) UnmarshalText(text []byte) error {
	for i, name := range predictionModeNames {
		if string(text) == name {
			*m = PredictionMode(i)
			return nil
		}
	}
	return fmt.Errorf("unknown prediction mode %q", text)
}

// SmoothingMode selects how pan positions are damped.
type SmoothingMode uint8

const (
	SmoothingOff     SmoothingMode = iota // no damping
	SmoothingSimple                       // exponential blend with the previous output
	SmoothingAverage                      // mean over the recent history
)

var smoothingModeNames = [...]string{"off", "simple", "average"}

func (m SmoothingMode) String() string {
	if int(m) < len(smoothingModeNames) {
		return smoothingModeNames[m]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (m SmoothingMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *SmoothingMode) UnmarshalText(text []byte) error {
	for i, name := range smoothingModeNames {
		if string(text) == name {
			*m = SmoothingMode(i)
			return nil
		}
	}
	return fmt.Errorf("unknown smoothing mode %q", text)
}

// PredictorConfig tunes pan prediction and smoothing. Times are in ms.
type PredictorConfig struct {
	Prediction           PredictionMode `toml:"prediction"`
	Smoothing            SmoothingMode  `toml:"smoothing"`
	MaxAmount            uint32         `toml:"max_amount"`
	MinAmount            uint32         `toml:"min_amount"`
	Amount               uint32         `toml:"amount"`
	Adjustment           uint32         `toml:"adjustment"`
	SmoothingAmount      float64        `toml:"smoothing_amount"`
	SmoothingRange       uint32         `toml:"smoothing_range"`
	TwoPointVelocityBias float64        `toml:"two_point_velocity_bias"`
}

// DefaultPredictorConfig returns the default tuning with both stages off.
func DefaultPredictorConfig() PredictorConfig {
	return PredictorConfig{
		MaxAmount:            32,
		MinAmount:            0,
		Amount:               5,
		Adjustment:           2,
		SmoothingAmount:      0.25,
		SmoothingRange:       34,
		TwoPointVelocityBias: 0.35,
	}
}

// normalize clamps out-of-range values into their valid range.
func (c *PredictorConfig) normalize() {
	if c.MinAmount > c.MaxAmount {
		c.MinAmount, c.MaxAmount = c.MaxAmount, c.MinAmount
	}
	c.Amount = min(max(c.Amount, c.MinAmount), c.MaxAmount)
	c.SmoothingAmount = clamp01(c.SmoothingAmount)
	c.TwoPointVelocityBias = clamp01(c.TwoPointVelocityBias)
	if c.Prediction > PredictionTwoPoint {
		c.Prediction = PredictionOff
	}
	if c.Smoothing > SmoothingAverage {
		c.Smoothing = SmoothingOff
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// PanSample is one pan report in screen space.
type PanSample struct {
	State        GestureState
	Time         uint32
	Position     Vec2
	Displacement Vec2
	Velocity     Vec2 // px per ms
}

// Predictor post-filters pan samples. Its output depends only on the samples
// and their timestamps.
type Predictor struct {
	cfg     PredictorConfig
	history []PanSample
	amount  int

	last    PanSample // last output
	lastRaw PanSample // last input
	active  bool
}

// NewPredictor creates a predictor. The config is normalized first.
func NewPredictor(cfg PredictorConfig) *Predictor {
	cfg.normalize()
	return &Predictor{cfg: cfg, amount: int(cfg.Amount)}
}

// Config returns the predictor's normalized config.
func (p *Predictor) Config() PredictorConfig {
	return p.cfg
}

// Amount returns the current prediction amount in ms.
func (p *Predictor) Amount() uint32 {
	return uint32(p.amount)
}

// HistoryLen returns the number of samples in the history.
func (p *Predictor) HistoryLen() int {
	return len(p.history)
}

// Reset discards the history.
func (p *Predictor) Reset() {
	p.history = p.history[:0]
	p.active = false
	p.amount = int(p.cfg.Amount)
}

// Apply filters one sample. A Started sample begins a fresh history; a
// Finished or Cancelled sample is filtered and then ends it.
func (p *Predictor) Apply(s PanSample) PanSample {
	justStarted := s.State == StateStarted || !p.active
	if justStarted {
		p.Reset()
		p.active = true
	}

	p.history = append(p.history, s)
	p.dropOld(s.Time)

	out := s
	switch p.cfg.Prediction {
	case PredictionSimple:
		out = p.predictSimple(s, justStarted)
	case PredictionTwoPoint:
		out = p.predictTwoPoint(s)
	}

	if !justStarted {
		switch p.cfg.Smoothing {
		case SmoothingSimple:
			k := p.cfg.SmoothingAmount
			out.Position = p.last.Position.Scale(1 - k).Add(out.Position.Scale(k))
			p.rederive(&out)
		case SmoothingAverage:
			out.Position = p.average(s).Add(out.Position.Sub(s.Position))
			p.rederive(&out)
		}
	}

	p.last = out
	p.lastRaw = s
	if s.State == StateFinished || s.State == StateCancelled {
		p.Reset()
	}
	return out
}

// dropOld removes history samples older than maxGestureAge, keeping the newest.
func (p *Predictor) dropOld(now uint32) {
	i := 0
	for i < len(p.history)-1 && now >= p.history[i].Time+maxGestureAge {
		i++
	}
	if i > 0 {
		n := copy(p.history, p.history[i:])
		p.history = p.history[:n]
	}
}

// rederive recomputes displacement and velocity relative to the last output.
func (p *Predictor) rederive(out *PanSample) {
	out.Displacement = out.Position.Sub(p.last.Position)
	if dt := out.Time - p.last.Time; out.Time > p.last.Time {
		out.Velocity = out.Displacement.Scale(1 / float64(dt))
	}
}

func (p *Predictor) predictSimple(s PanSample, justStarted bool) PanSample {
	adj := int(p.cfg.Adjustment)
	if !justStarted {
		accel := s.Velocity.Len() - p.lastRaw.Velocity.Len()
		if math.Abs(accel) > accelerationThreshold {
			if accel > 0 {
				p.amount += adj
			} else {
				p.amount -= adj
			}
		}
	}
	p.clampAmount()

	out := p.extrapolate(s)
	if justStarted {
		return out
	}

	delta := s.Position.Sub(p.lastRaw.Position)
	predicted := out.Position.Sub(p.last.Position)
	overX := opposite(delta.X, predicted.X)
	overY := opposite(delta.Y, predicted.Y)
	if overX {
		out.Position.X = p.last.Position.X
	}
	if overY {
		out.Position.Y = p.last.Position.Y
	}
	if overX || overY {
		p.amount -= adj
		p.clampAmount()
		if overX && !overY {
			out.Position.Y = (p.last.Position.Y + out.Position.Y) / 2
		}
		if overY && !overX {
			out.Position.X = (p.last.Position.X + out.Position.X) / 2
		}
	}
	return out
}

func opposite(raw, predicted float64) bool {
	return (raw > predictEpsilon && predicted < predictEpsilon) || (raw < -predictEpsilon && predicted > -predictEpsilon)
}

func (p *Predictor) clampAmount() {
	lo, hi := int(p.cfg.MinAmount), int(p.cfg.MaxAmount)
	if p.amount < lo {
		p.amount = lo
	}
	if p.amount > hi {
		p.amount = hi
	}
}

// extrapolate moves s forward by the current amount, weighting the
// acceleration seen across the history.
func (p *Predictor) extrapolate(s PanSample) PanSample {
	out := s
	interp := float64(p.amount)
	if len(p.history) < 2 {
		return out
	}

	displacement := s.Displacement
	var (
		prevVel      Vec2
		prevAccel    float64
		haveVel      bool
		haveAccel    bool
		lastTime     uint32
		scaledVel    = s.Velocity
		interpolated = s.Displacement
	)
	for _, h := range p.history {
		if !haveVel {
			prevVel = h.Velocity
			haveVel = true
			lastTime = h.Time
			continue
		}
		weight := (maxGestureAge - float64(s.Time-lastTime)) / maxGestureAge
		velMag := h.Velocity.Len()
		accel := 0.0
		if h.Time > lastTime {
			accel = (velMag - prevVel.Len()) / float64(h.Time-lastTime)
		}
		newVelMag := velMag
		if haveAccel {
			newVelMag = velMag + (accel*(1-weight)+prevAccel*weight)*interp
		}
		haveAccel = true
		velMod := 1.0
		if velMag > predictEpsilon {
			velMod = newVelMag / velMag
		}
		scaledVel = h.Velocity.Scale(velMod)
		interpolated = displacement.Add(scaledVel.Scale(interp))
		prevVel = h.Velocity
		prevAccel = accel
		lastTime = h.Time
	}

	out.Velocity = scaledVel
	out.Position = s.Position.Sub(displacement).Add(interpolated)
	out.Displacement = interpolated
	return out
}

// predictTwoPoint fits a line through the history per axis and evaluates it
// Amount ms ahead of the newest sample.
func (p *Predictor) predictTwoPoint(s PanSample) PanSample {
	out := s
	n := len(p.history)
	if n < 2 {
		return out
	}
	ts := make([]float64, n)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, h := range p.history {
		ts[i] = float64(int64(h.Time) - int64(s.Time))
		xs[i] = h.Position.X
		ys[i] = h.Position.Y
	}
	if ts[0] == ts[n-1] {
		return out
	}
	ax, bx := stat.LinearRegression(ts, xs, nil, false)
	ay, by := stat.LinearRegression(ts, ys, nil, false)

	ahead := float64(p.amount)
	predicted := Vec2{ax + bx*ahead, ay + by*ahead}
	bias := p.cfg.TwoPointVelocityBias

	out.Displacement = s.Displacement.Add(predicted.Sub(s.Position))
	out.Position = predicted
	out.Velocity = s.Velocity.Scale(1 - bias).Add(Vec2{bx, by}.Scale(bias))
	return out
}

// average returns the mean raw position over the smoothing range.
func (p *Predictor) average(s PanSample) Vec2 {
	var xs, ys []float64
	for _, h := range p.history {
		if s.Time-h.Time <= p.cfg.SmoothingRange {
			xs = append(xs, h.Position.X)
			ys = append(ys, h.Position.Y)
		}
	}
	if len(xs) == 0 {
		return s.Position
	}
	return Vec2{stat.Mean(xs, nil), stat.Mean(ys, nil)}
}
