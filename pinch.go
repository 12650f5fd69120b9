package gesture

import "math"

type pinchPhase uint8

const (
	pinchClear pinchPhase = iota
	pinchPossible
	pinchStarted
	pinchFailed
)

type pinchRecognizer struct {
	phase       pinchPhase
	minDistance float64

	initialDist  float64
	initialAngle float64
	prevDist     float64
	prevAngle    float64
	center       Vec2
}

func newPinchRecognizer(cfg PinchConfig) *pinchRecognizer {
	return &pinchRecognizer{minDistance: cfg.MinimumDistance}
}

// Pinch always needs exactly two touches.
func (r *pinchRecognizer) update(gestureRequest) {}

func (r *pinchRecognizer) reset() {
	r.phase = pinchClear
}

func (r *pinchRecognizer) tick(uint32) []recognized { return nil }

// measure returns the center, distance and angle of the first two points.
func measure(ev TouchEvent) (center Vec2, dist, angle float64) {
	p0 := ev.Points[0].Screen
	p1 := ev.Points[1].Screen
	center = Vec2{(p0.X + p1.X) / 2, (p0.Y + p1.Y) / 2}
	d := p1.Sub(p0)
	return center, d.Len(), math.Atan2(d.Y, d.X)
}

func (r *pinchRecognizer) sendEvent(ev TouchEvent) []recognized {
	primary := ev.Primary()
	n := ev.PointCount()
	var out []recognized

	if primary.State == PointInterrupted {
		if r.phase == pinchPossible || r.phase == pinchStarted {
			out = append(out, r.emit(StateCancelled, ev.Time, r.prevDist, r.prevAngle))
		}
		r.reset()
		return out
	}

	switch r.phase {
	case pinchClear:
		if n == 2 && !hasState(ev, PointUp) {
			center, dist, angle := measure(ev)
			r.phase = pinchPossible
			r.initialDist, r.prevDist = dist, dist
			r.initialAngle, r.prevAngle = angle, angle
			r.center = center
			out = append(out, r.emit(StatePossible, ev.Time, dist, angle))
		}

	case pinchPossible:
		if n != 2 || hasState(ev, PointUp) {
			out = append(out, r.emit(StateCancelled, ev.Time, r.prevDist, r.prevAngle))
			r.failUntilReleased(ev)
			break
		}
		if !hasState(ev, PointMotion) {
			break
		}
		center, dist, angle := measure(ev)
		r.center = center
		if math.Abs(dist-r.initialDist) >= r.minDistance {
			r.phase = pinchStarted
			out = append(out, r.emit(StateStarted, ev.Time, dist, angle))
			r.prevDist, r.prevAngle = dist, angle
		}

	case pinchStarted:
		if n != 2 || hasState(ev, PointUp) {
			if n >= 2 {
				r.center, _, _ = measure(ev)
			}
			out = append(out, r.emit(StateFinished, ev.Time, r.prevDist, r.prevAngle))
			r.failUntilReleased(ev)
			break
		}
		if !hasState(ev, PointMotion) {
			break
		}
		center, dist, angle := measure(ev)
		r.center = center
		out = append(out, r.emit(StateContinuing, ev.Time, dist, angle))
		r.prevDist, r.prevAngle = dist, angle

	case pinchFailed:
		if lastRelease(ev) {
			r.reset()
		}
	}
	return out
}

func (r *pinchRecognizer) failUntilReleased(ev TouchEvent) {
	if lastRelease(ev) {
		r.reset()
		return
	}
	r.phase = pinchFailed
}

func (r *pinchRecognizer) emit(state GestureState, time uint32, dist, angle float64) recognized {
	scale := 1.0
	if r.initialDist > 0 {
		scale = dist / r.initialDist
	}
	scaleDelta := 0.0
	if r.prevDist > 0 {
		scaleDelta = dist/r.prevDist - 1.0
	}
	return recognized{
		state:         state,
		time:          time,
		touches:       2,
		screen:        r.center,
		hit:           r.center,
		scale:         scale,
		scaleDelta:    scaleDelta,
		rotation:      wrapAngle(angle - r.initialAngle),
		rotationDelta: wrapAngle(angle - r.prevAngle),
	}
}
