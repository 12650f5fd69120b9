package gesture

type longPressPhase uint8

const (
	longPressClear longPressPhase = iota
	longPressTouched
	longPressStarted
	longPressFailed
)

type longPressRecognizer struct {
	phase longPressPhase

	minTouches int
	maxTouches int
	holdTime   uint32
	jitter     float64

	downTime  uint32
	downPos   Vec2
	lastPos   Vec2
	touches   int
	startTime uint32
}

func newLongPressRecognizer(cfg LongPressConfig) *longPressRecognizer {
	return &longPressRecognizer{
		minTouches: 1,
		maxTouches: 1,
		holdTime:   cfg.MinimumHoldingTime,
		jitter:     cfg.Jitter,
	}
}

func (r *longPressRecognizer) update(req gestureRequest) {
	r.minTouches = req.minTouches
	r.maxTouches = req.maxTouches
}

func (r *longPressRecognizer) reset() {
	r.phase = longPressClear
	r.touches = 0
}

func (r *longPressRecognizer) sendEvent(ev TouchEvent) []recognized {
	primary := ev.Primary()
	n := ev.PointCount()
	var out []recognized

	if primary.State == PointInterrupted {
		if r.phase == longPressTouched || r.phase == longPressStarted {
			out = append(out, r.emit(StateCancelled, ev.Time))
		}
		r.reset()
		return out
	}

	// A sample arriving after the hold time starts the press before it is
	// applied.
	if r.phase == longPressTouched && ev.Time-r.downTime >= r.holdTime {
		out = append(out, r.start(r.downTime+r.holdTime))
	}

	switch r.phase {
	case longPressClear:
		if hasState(ev, PointDown) && n >= r.minTouches && n <= r.maxTouches {
			r.phase = longPressTouched
			r.downTime = ev.Time
			r.downPos = primary.Screen
			r.lastPos = primary.Screen
			r.touches = n
			out = append(out, r.emit(StatePossible, ev.Time))
		}

	case longPressTouched:
		switch {
		case hasState(ev, PointUp):
			out = append(out, r.emit(StateCancelled, ev.Time))
			r.failUntilReleased(ev)
		case n > r.maxTouches:
			out = append(out, r.emit(StateCancelled, ev.Time))
			r.phase = longPressFailed
		case primary.State == PointMotion && distance(r.downPos, primary.Screen) > r.jitter:
			out = append(out, r.emit(StateCancelled, ev.Time))
			r.phase = longPressFailed
		default:
			if n > r.touches {
				r.touches = n
			}
			r.lastPos = primary.Screen
		}

	case longPressStarted:
		if hasState(ev, PointUp) {
			r.lastPos = primary.Screen
			out = append(out, r.emit(StateFinished, ev.Time))
			r.failUntilReleased(ev)
		}

	case longPressFailed:
		if lastRelease(ev) {
			r.reset()
		}
	}
	return out
}

func (r *longPressRecognizer) tick(now uint32) []recognized {
	if r.phase == longPressTouched && now-r.downTime >= r.holdTime {
		return []recognized{r.start(now)}
	}
	return nil
}

func (r *longPressRecognizer) start(now uint32) recognized {
	r.phase = longPressStarted
	r.startTime = now
	return r.emit(StateStarted, now)
}

func (r *longPressRecognizer) failUntilReleased(ev TouchEvent) {
	if lastRelease(ev) {
		r.reset()
		return
	}
	r.phase = longPressFailed
}

func (r *longPressRecognizer) emit(state GestureState, time uint32) recognized {
	return recognized{
		state:    state,
		time:     time,
		touches:  r.touches,
		screen:   r.lastPos,
		hit:      r.lastPos,
		duration: time - r.downTime,
	}
}

// hasState reports whether any point of ev is in the given state.
func hasState(ev TouchEvent, state PointState) bool {
	for _, p := range ev.Points {
		if p.State == state {
			return true
		}
	}
	return false
}
