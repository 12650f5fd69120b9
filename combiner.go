package gesture

import "math"

// Default combiner thresholds.
const (
	DefaultMinMotionTime = 1 // ms
)

// DefaultMinMotionDistance is the default per-axis distance a point must move
// before a Motion is reported.
var DefaultMinMotionDistance = Vec2{1, 1}

// Combiner turns raw point samples into consolidated touch events. It keeps
// the set of pressed points so every event carries all of them, with points
// not updated by the current sample marked Stationary.
type Combiner struct {
	minMotionTime     uint32
	minMotionDistance Vec2

	pressed []PointSample

	batching bool
	queue    []TouchEvent

	onError func(error)
	debug   bool
}

// NewCombiner creates a combiner. Motion arriving less than minMotionTime ms
// after the previous sample for that device, or moving less than
// minMotionDistance on both axes, is ignored. Panics on negative distances.
func NewCombiner(minMotionTime uint32, minMotionDistance Vec2) *Combiner {
	if minMotionDistance.X < 0 || minMotionDistance.Y < 0 {
		panic("gesture: negative combiner motion distance")
	}
	return &Combiner{
		minMotionTime:     minMotionTime,
		minMotionDistance: minMotionDistance,
	}
}

// SetErrorHandler sets the function that receives protocol violations.
func (c *Combiner) SetErrorHandler(fn func(error)) {
	c.onError = fn
}

// SetDebugMode logs dropped samples to stderr.
func (c *Combiner) SetDebugMode(enabled bool) {
	c.debug = enabled
}

// SetBatching switches between immediate mode and batching mode. In batching
// mode Combine never returns an event; events are queued until Flush.
func (c *Combiner) SetBatching(enabled bool) {
	c.batching = enabled
}

// Batching reports whether batching mode is on.
func (c *Combiner) Batching() bool {
	return c.batching
}

// PressedCount returns the number of points currently down.
func (c *Combiner) PressedCount() int {
	return len(c.pressed)
}

// Reset clears all device state and queued events.
func (c *Combiner) Reset() {
	c.pressed = c.pressed[:0]
	c.queue = c.queue[:0]
}

// CombineAll combines every sample in order and returns the events that are
// ready to dispatch. Panics when called with no samples.
func (c *Combiner) CombineAll(samples ...PointSample) []TouchEvent {
	if len(samples) == 0 {
		panic("gesture: combine called with no points")
	}
	var out []TouchEvent
	for _, s := range samples {
		if ev, ok := c.Combine(s); ok {
			out = append(out, ev)
		}
	}
	return out
}

// Combine folds one sample into the pressed-point state. It returns the
// resulting event and true when the event should be dispatched now.
func (c *Combiner) Combine(s PointSample) (TouchEvent, bool) {
	ev, ok := c.combine(s)
	if !ok {
		return TouchEvent{}, false
	}
	if c.batching {
		c.enqueue(ev)
		return TouchEvent{}, false
	}
	return ev, true
}

// Flush returns and clears the queued events. It returns nil in immediate mode.
func (c *Combiner) Flush() []TouchEvent {
	if len(c.queue) == 0 {
		return nil
	}
	out := make([]TouchEvent, len(c.queue))
	copy(out, c.queue)
	c.queue = c.queue[:0]
	return out
}

func (c *Combiner) combine(s PointSample) (TouchEvent, bool) {
	switch s.State {
	case PointInterrupted:
		c.pressed = c.pressed[:0]
		c.queue = c.queue[:0]
		return TouchEvent{Time: s.Time, Points: []PointSample{s}}, true

	case PointDown:
		if i := c.find(s.DeviceID); i >= 0 {
			c.pressed[i] = s
			c.report(s, ErrDuplicateDown)
			return TouchEvent{}, false
		}
		c.pressed = append(c.pressed, s)
		return c.build(s, len(c.pressed)-1), true

	case PointUp:
		i := c.find(s.DeviceID)
		if i < 0 {
			c.report(s, ErrNoPriorDown)
			return TouchEvent{}, false
		}
		ev := c.build(s, i)
		c.pressed = append(c.pressed[:i], c.pressed[i+1:]...)
		return ev, true

	case PointMotion, PointLeave:
		i := c.find(s.DeviceID)
		if i < 0 {
			c.report(s, ErrNoPriorDown)
			return TouchEvent{}, false
		}
		prev := c.pressed[i]
		if s.Time-prev.Time < c.minMotionTime {
			return TouchEvent{}, false
		}
		if math.Abs(s.Screen.X-prev.Screen.X) < c.minMotionDistance.X &&
			math.Abs(s.Screen.Y-prev.Screen.Y) < c.minMotionDistance.Y {
			return TouchEvent{}, false
		}
		c.pressed[i] = s
		return c.build(s, i), true
	}

	// Stationary samples carry no change.
	return TouchEvent{}, false
}

// build returns an event holding every pressed point, with s at index i and
// every other point marked Stationary.
func (c *Combiner) build(s PointSample, i int) TouchEvent {
	pts := make([]PointSample, len(c.pressed))
	for j, p := range c.pressed {
		if j == i {
			pts[j] = s
			continue
		}
		p.State = PointStationary
		pts[j] = p
	}
	return TouchEvent{Time: s.Time, Points: pts}
}

func (c *Combiner) find(id int32) int {
	for i := range c.pressed {
		if c.pressed[i].DeviceID == id {
			return i
		}
	}
	return -1
}

func (c *Combiner) report(s PointSample, err error) {
	if c.debug {
		debugf("combiner dropped %s for device %d: %v", s.State, s.DeviceID, err)
	}
	if c.onError != nil {
		c.onError(&ProtocolError{DeviceID: s.DeviceID, State: s.State, Err: err})
	}
}

// enqueue appends ev to the batch, replacing the last queued event when both
// are pure motion over the same devices.
func (c *Combiner) enqueue(ev TouchEvent) {
	if n := len(c.queue); n > 0 && pureMotion(ev) && pureMotion(c.queue[n-1]) &&
		sameDevices(ev, c.queue[n-1]) {
		c.queue[n-1] = mergeMotion(c.queue[n-1], ev)
		return
	}
	c.queue = append(c.queue, ev)
}

func pureMotion(ev TouchEvent) bool {
	for _, p := range ev.Points {
		if p.State != PointMotion && p.State != PointStationary {
			return false
		}
	}
	return true
}

func sameDevices(a, b TouchEvent) bool {
	if len(a.Points) != len(b.Points) {
		return false
	}
	for i := range a.Points {
		if a.Points[i].DeviceID != b.Points[i].DeviceID {
			return false
		}
	}
	return true
}

// mergeMotion keeps the newer positions while preserving Motion for any point
// that moved in either event.
func mergeMotion(older, newer TouchEvent) TouchEvent {
	for i := range newer.Points {
		if older.Points[i].State == PointMotion {
			newer.Points[i].State = PointMotion
		}
	}
	return newer
}
