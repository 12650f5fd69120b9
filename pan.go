package gesture

const (
	// panThresholdAdjustmentRatio sets how many frames the start threshold is
	// eased out over, relative to the minimum distance.
	panThresholdAdjustmentRatio = 2.0 / 3.0
	// panSlowStartTime is the Down-to-Started time after which a pan is slow
	// and the threshold is eased out.
	panSlowStartTime = 100
	// panVelocityReuseTime bounds the time delta for which a still Finished
	// event reuses the last velocity.
	panVelocityReuseTime = 50
)

type panPhase uint8

const (
	panClear panPhase = iota
	panPossible
	panStarted
	panFinished
	panFailed
)

type panRecognizer struct {
	phase panPhase

	minTouches      int
	maxTouches      int
	minDistanceSq   float64
	minMotionEvents int
	totalAdjust     int

	downLocation Vec2
	downTime     uint32
	motionEvents int
	events       int       // events stored for the current sequence
	storedTimes  [2]uint32 // times of the last two stored events
	prevPosition Vec2

	adjustRemaining int
	adjustPerFrame  Vec2

	lastVelocity Vec2
}

func newPanRecognizer(cfg PanConfig) *panRecognizer {
	r := &panRecognizer{
		minTouches:      1,
		maxTouches:      1,
		minDistanceSq:   cfg.MinimumDistance * cfg.MinimumDistance,
		minMotionEvents: 1,
		totalAdjust:     int(cfg.MinimumDistance * panThresholdAdjustmentRatio),
	}
	if cfg.MinimumPanEvents >= 1 {
		// The Down counts as the first event.
		r.minMotionEvents = cfg.MinimumPanEvents - 1
	}
	return r
}

func (r *panRecognizer) update(req gestureRequest) {
	r.minTouches = req.minTouches
	r.maxTouches = req.maxTouches
}

func (r *panRecognizer) reset() {
	r.phase = panClear
	r.events = 0
	r.motionEvents = 0
	r.adjustRemaining = 0
	r.lastVelocity = Vec2{}
}

func (r *panRecognizer) tick(uint32) []recognized { return nil }

func (r *panRecognizer) inRange(n int) bool {
	return n >= r.minTouches && n <= r.maxTouches
}

func (r *panRecognizer) sendEvent(ev TouchEvent) []recognized {
	primary := ev.Primary()
	n := ev.PointCount()
	var out []recognized

	if primary.State == PointInterrupted {
		if r.phase == panStarted || r.phase == panPossible {
			r.push(ev)
			out = append(out, r.send(StateCancelled, ev))
		}
		r.reset()
		return out
	}

	switch r.phase {
	case panClear:
		if primary.State == PointDown || primary.State == PointStationary || primary.State == PointMotion {
			r.downLocation = primary.Screen
			r.downTime = ev.Time
			r.motionEvents = 0
			r.events = 0
			r.lastVelocity = Vec2{}
			if n == r.minTouches {
				r.phase = panPossible
				out = append(out, r.send(StatePossible, ev))
			}
			r.push(ev)
		}

	case panPossible:
		if !r.inRange(n) {
			out = append(out, r.send(StateCancelled, ev))
			if n == 1 && primary.State == PointUp {
				r.reset()
			} else {
				r.phase = panFailed
			}
			break
		}
		switch primary.State {
		case PointMotion:
			r.push(ev)
			r.motionEvents++
			delta := primary.Screen.Sub(r.downLocation)
			if r.motionEvents >= r.minMotionEvents && delta.LenSq() >= r.minDistanceSq {
				r.phase = panStarted
				out = append(out, r.send(StateStarted, ev))
			}
		case PointUp:
			delta := primary.Screen.Sub(r.downLocation)
			if delta.LenSq() >= r.minDistanceSq {
				out = append(out, r.send(StateStarted, ev))
				r.push(ev)
				out = append(out, r.send(StateFinished, ev))
			} else {
				out = append(out, r.send(StateCancelled, ev))
			}
			r.reset()
		}

	case panStarted:
		r.push(ev)
		if !r.inRange(n) {
			out = append(out, r.send(StateFinished, ev))
			if n == 1 && primary.State == PointUp {
				r.reset()
			} else {
				r.phase = panFinished
			}
			break
		}
		switch primary.State {
		case PointMotion:
			out = append(out, r.send(StateContinuing, ev))
		case PointUp:
			out = append(out, r.send(StateFinished, ev))
			r.reset()
		case PointStationary:
			if n == r.minTouches {
				for _, p := range ev.Points[1:] {
					if p.State == PointUp {
						out = append(out, r.send(StateFinished, ev))
						r.phase = panFinished
						break
					}
				}
			}
		}

	case panFinished, panFailed:
		if primary.State == PointUp {
			r.reset()
		}
	}
	return out
}

// push records that ev is part of the current sequence.
func (r *panRecognizer) push(ev TouchEvent) {
	r.events++
	r.storedTimes[0] = r.storedTimes[1]
	r.storedTimes[1] = ev.Time
}

// send builds the emitted state for ev. The previous position on Started is
// the Down location; afterwards it is the last reported position.
func (r *panRecognizer) send(state GestureState, ev TouchEvent) recognized {
	current := ev.Primary().Screen
	out := recognized{state: state, time: ev.Time, touches: ev.PointCount()}

	previous := current
	if r.events > 1 {
		previous = r.prevPosition
		prevTime := r.storedTimes[0]
		if state == StateStarted {
			previous = r.downLocation
			prevTime = r.downTime
			if ev.Time-prevTime > panSlowStartTime && r.totalAdjust > 0 {
				r.adjustRemaining = r.totalAdjust
				r.adjustPerFrame = current.Sub(previous).Scale(1 / float64(r.totalAdjust))
			} else {
				r.adjustRemaining = 0
				r.adjustPerFrame = Vec2{}
			}
		}
		out.timeDelta = ev.Time - prevTime
		if r.adjustRemaining > 0 {
			r.adjustRemaining--
			current = current.Sub(r.adjustPerFrame.Scale(float64(r.adjustRemaining)))
		}
		r.prevPosition = current
	}

	out.screen = current
	out.hit = current
	if state == StatePossible || state == StateStarted {
		out.hit = r.downLocation
	}
	out.displacement = current.Sub(previous)
	if out.timeDelta > 0 {
		out.velocity = out.displacement.Scale(1 / float64(out.timeDelta))
	}
	if state == StateFinished && out.velocity == (Vec2{}) && out.timeDelta < panVelocityReuseTime {
		out.velocity = r.lastVelocity
	}
	r.lastVelocity = out.velocity
	return out
}
