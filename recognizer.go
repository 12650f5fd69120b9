package gesture

import "math"

// recognizer is the state machine behind one gesture kind. The processor owns
// one per kind and feeds it every combined touch event.
type recognizer interface {
	// sendEvent advances the machine and returns the states it emitted, in order.
	sendEvent(ev TouchEvent) []recognized
	// tick runs time-based transitions.
	tick(now uint32) []recognized
	// update applies thresholds merged from every detector of the kind.
	update(req gestureRequest)
	// reset returns to Clear without emitting anything.
	reset()
}

// gestureRequest is the merged detection policy of all detectors of a kind.
type gestureRequest struct {
	minTouches int
	maxTouches int
	minTaps    int
	maxTaps    int
}

// recognized is one state emitted by a recognizer, before hit-testing and
// dispatch.
type recognized struct {
	state   GestureState
	time    uint32
	touches int

	// screen is the reported position. For pinch it is the center.
	screen Vec2
	// hit is where the hit-test for the first emitting state happens.
	hit Vec2

	// Pan
	displacement Vec2
	velocity     Vec2
	timeDelta    uint32

	// Tap
	taps int

	// Pinch
	scale         float64
	scaleDelta    float64
	rotation      float64
	rotationDelta float64

	// LongPress
	duration uint32
}

// firstEmitting reports whether state opens delivery for kind: the state at
// which recipients are hit-tested and recorded.
func firstEmitting(kind GestureKind, state GestureState) bool {
	if kind == KindTap {
		return state == StateFinished
	}
	return state == StateStarted
}

// wrapAngle maps a into (-π, π].
func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

func distance(a, b Vec2) float64 {
	return b.Sub(a).Len()
}
