package gesture

type tapPhase uint8

const (
	tapClear tapPhase = iota
	tapTouched          // a tap's touch is down
	tapRegistered       // at least one tap released, waiting for the next Down
	tapFailed           // waiting for every point to lift
)

type tapRecognizer struct {
	phase tapPhase

	minTaps    int
	maxTaps    int
	minTouches int
	maxTouches int

	interval uint32
	jitter   float64

	firstDown Vec2
	downTime  uint32
	lastUp    uint32
	lastPos   Vec2
	taps      int
	touches   int
}

func newTapRecognizer(cfg TapConfig) *tapRecognizer {
	return &tapRecognizer{
		minTaps:    1,
		maxTaps:    1,
		minTouches: 1,
		maxTouches: 1,
		interval:   cfg.MaximumInterval,
		jitter:     cfg.Jitter,
	}
}

func (r *tapRecognizer) update(req gestureRequest) {
	r.minTaps = req.minTaps
	r.maxTaps = req.maxTaps
	r.minTouches = req.minTouches
	r.maxTouches = req.maxTouches
}

func (r *tapRecognizer) reset() {
	r.phase = tapClear
	r.taps = 0
	r.touches = 0
}

func (r *tapRecognizer) sendEvent(ev TouchEvent) []recognized {
	primary := ev.Primary()
	n := ev.PointCount()
	var out []recognized

	if primary.State == PointInterrupted {
		if r.phase == tapTouched || r.phase == tapRegistered {
			out = append(out, r.emit(StateCancelled, ev.Time))
		}
		r.reset()
		return out
	}

	// The primary point moving too far from the first Down breaks the sequence.
	jittered := primary.State != PointStationary && distance(r.firstDown, primary.Screen) > r.jitter

	switch r.phase {
	case tapClear:
		if primary.State == PointDown && n == 1 {
			out = append(out, r.begin(ev))
		}

	case tapTouched:
		if n > r.touches {
			r.touches = n
		}
		if r.touches > r.maxTouches || jittered || ev.Time-r.downTime > r.interval {
			out = append(out, r.emit(StateCancelled, ev.Time))
			r.failUntilReleased(ev)
			break
		}
		if lastRelease(ev) {
			r.taps++
			r.lastUp = ev.Time
			r.lastPos = primary.Screen
			if r.taps >= r.maxTaps {
				out = append(out, r.emit(StateFinished, ev.Time))
				r.reset()
			} else {
				r.phase = tapRegistered
			}
		}

	case tapRegistered:
		if primary.State != PointDown {
			break
		}
		if ev.Time-r.lastUp <= r.interval && !jittered {
			r.phase = tapTouched
			r.downTime = ev.Time
			r.touches = n
			break
		}
		// Too late or too far for another tap: settle the current count and
		// start over from this Down.
		if r.taps >= r.minTaps {
			out = append(out, r.emit(StateFinished, r.lastUp))
		} else {
			out = append(out, r.emit(StateCancelled, ev.Time))
		}
		r.reset()
		if n == 1 {
			out = append(out, r.begin(ev))
		} else {
			r.phase = tapFailed
		}

	case tapFailed:
		if lastRelease(ev) {
			r.reset()
		}
	}
	return out
}

func (r *tapRecognizer) tick(now uint32) []recognized {
	switch r.phase {
	case tapRegistered:
		if now-r.lastUp > r.interval {
			var out recognized
			if r.taps >= r.minTaps {
				out = r.emit(StateFinished, now)
			} else {
				out = r.emit(StateCancelled, now)
			}
			r.reset()
			return []recognized{out}
		}
	case tapTouched:
		if now-r.downTime > r.interval {
			out := r.emit(StateCancelled, now)
			r.phase = tapFailed
			return []recognized{out}
		}
	}
	return nil
}

func (r *tapRecognizer) begin(ev TouchEvent) recognized {
	p := ev.Primary()
	r.phase = tapTouched
	r.firstDown = p.Screen
	r.lastPos = p.Screen
	r.downTime = ev.Time
	r.taps = 0
	r.touches = ev.PointCount()
	return recognized{state: StatePossible, time: ev.Time, touches: r.touches, screen: p.Screen, hit: p.Screen}
}

func (r *tapRecognizer) failUntilReleased(ev TouchEvent) {
	if lastRelease(ev) {
		r.reset()
		return
	}
	r.phase = tapFailed
}

func (r *tapRecognizer) emit(state GestureState, time uint32) recognized {
	return recognized{
		state:   state,
		time:    time,
		touches: r.touches,
		screen:  r.lastPos,
		hit:     r.lastPos,
		taps:    r.taps,
	}
}

// lastRelease reports whether ev lifts the final pressed point.
func lastRelease(ev TouchEvent) bool {
	return ev.PointCount() == 1 && ev.Primary().State == PointUp
}
