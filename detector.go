package gesture

import (
	"math"
	"slices"
)

// Pan directions, in radians. Screen Y grows downward, so up is -π/2.
const (
	DirectionLeft       = math.Pi
	DirectionRight      = 0.0
	DirectionUp         = -math.Pi / 2
	DirectionDown       = math.Pi / 2
	DirectionHorizontal = 0.0
	DirectionVertical   = -math.Pi / 2

	// DefaultAngleThreshold is the half-width used when none is given.
	DefaultAngleThreshold = math.Pi / 4
)

// PanAngle is one window of a pan detector's angle filter.
type PanAngle struct {
	Angle     float64 // in (-π, π]
	Threshold float64 // half-width, in [0, π]
}

type panSettings struct {
	minTouches int
	maxTouches int
	angles     []PanAngle
}

type tapSettings struct {
	minTaps int
	maxTaps int
	touches int
}

type longPressSettings struct {
	minTouches int
	maxTouches int
}

// attachment is one attached actor. seq orders attachments across every
// detector so fan-out follows attachment order.
type attachment struct {
	actor ActorHandle
	seq   uint64
}

type gestureHandler struct {
	id uint32
	fn func(*Actor, GestureEvent)
}

// Detector recognizes one kind of gesture on the actors attached to it.
// Create detectors with the Processor's New*Detector methods.
type Detector struct {
	kind GestureKind
	proc *Processor

	attached []attachment
	handlers []gestureHandler
	nextID   uint32

	// emitted is the last state delivered to this detector's handlers in
	// the current sequence.
	emitted GestureState

	// Exactly one of these is set, matching kind. Pinch has no settings.
	pan       *panSettings
	tap       *tapSettings
	longPress *longPressSettings
}

// kindInfo is the per-kind dispatch table entry.
type kindInfo struct {
	newRecognizer func(Config) recognizer
	// request folds a detector's thresholds into the merged request.
	request func(d *Detector, req *gestureRequest, first bool)
	// accepts reports whether d takes a gesture first emitted at a.
	accepts func(d *Detector, a *Actor, task *RenderTask, r recognized, t *tracker) bool
}

var kinds = [numKinds]kindInfo{
	KindPan: {
		newRecognizer: func(c Config) recognizer { return newPanRecognizer(c.Pan) },
		request: func(d *Detector, req *gestureRequest, first bool) {
			mergeTouches(req, d.pan.minTouches, d.pan.maxTouches, first)
		},
		accepts: panAccepts,
	},
	KindTap: {
		newRecognizer: func(c Config) recognizer { return newTapRecognizer(c.Tap) },
		request: func(d *Detector, req *gestureRequest, first bool) {
			mergeTouches(req, d.tap.touches, d.tap.touches, first)
			if first {
				req.minTaps, req.maxTaps = d.tap.minTaps, d.tap.maxTaps
				return
			}
			req.minTaps = min(req.minTaps, d.tap.minTaps)
			req.maxTaps = max(req.maxTaps, d.tap.maxTaps)
		},
		accepts: func(d *Detector, _ *Actor, _ *RenderTask, r recognized, _ *tracker) bool {
			return r.taps >= d.tap.minTaps && r.taps <= d.tap.maxTaps && r.touches == d.tap.touches
		},
	},
	KindPinch: {
		newRecognizer: func(c Config) recognizer { return newPinchRecognizer(c.Pinch) },
		request: func(d *Detector, req *gestureRequest, first bool) {
			mergeTouches(req, 2, 2, first)
		},
		accepts: func(*Detector, *Actor, *RenderTask, recognized, *tracker) bool { return true },
	},
	KindLongPress: {
		newRecognizer: func(c Config) recognizer { return newLongPressRecognizer(c.LongPress) },
		request: func(d *Detector, req *gestureRequest, first bool) {
			mergeTouches(req, d.longPress.minTouches, d.longPress.maxTouches, first)
		},
		accepts: func(d *Detector, _ *Actor, _ *RenderTask, r recognized, _ *tracker) bool {
			return r.touches >= d.longPress.minTouches && r.touches <= d.longPress.maxTouches
		},
	},
}

func mergeTouches(req *gestureRequest, lo, hi int, first bool) {
	if first {
		req.minTouches, req.maxTouches = lo, hi
		return
	}
	req.minTouches = min(req.minTouches, lo)
	req.maxTouches = max(req.maxTouches, hi)
}

// panAccepts checks the touch count and the angle filter. The bearing is the
// local displacement from where the sequence began.
func panAccepts(d *Detector, a *Actor, task *RenderTask, r recognized, t *tracker) bool {
	if r.touches < d.pan.minTouches || r.touches > d.pan.maxTouches {
		return false
	}
	if len(d.pan.angles) == 0 {
		return true
	}
	start, ok1 := a.ScreenToLocal(task, t.possibleScreen.X, t.possibleScreen.Y)
	current, ok2 := a.ScreenToLocal(task, r.screen.X, r.screen.Y)
	if !ok1 || !ok2 {
		return false
	}
	delta := current.Sub(start)
	bearing := math.Atan2(delta.Y, delta.X)
	for _, w := range d.pan.angles {
		if math.Abs(wrapAngle(bearing-w.Angle)) <= w.Threshold {
			return true
		}
	}
	return false
}

func newDetector(p *Processor, kind GestureKind) *Detector {
	d := &Detector{kind: kind, proc: p}
	switch kind {
	case KindPan:
		d.pan = &panSettings{minTouches: 1, maxTouches: 1}
	case KindTap:
		d.tap = &tapSettings{minTaps: 1, maxTaps: 1, touches: 1}
	case KindLongPress:
		d.longPress = &longPressSettings{minTouches: 1, maxTouches: 1}
	}
	p.detectors = append(p.detectors, d)
	return d
}

// Kind returns the gesture kind the detector recognizes.
func (d *Detector) Kind() GestureKind {
	return d.kind
}

// State returns the detector's view of the current sequence: the last state
// delivered to it, or Possible while a sequence that began on one of its
// actors (or their descendants) has not been recognized yet.
func (d *Detector) State() GestureState {
	if d.emitted != StateClear {
		return d.emitted
	}
	t := &d.proc.trackers[d.kind]
	if !t.active {
		return StateClear
	}
	for a := d.proc.stage.Actor(t.possibleActor); a != nil; a = a.Parent {
		if d.attachedIndex(a.Handle()) >= 0 {
			return StatePossible
		}
	}
	return StateClear
}

// --- Attachment ---

// Attach starts detecting gestures on a. Attaching twice is a no-op.
func (d *Detector) Attach(a *Actor) {
	if a == nil {
		panic("gesture: cannot attach nil actor")
	}
	if a.disposed || a.stage != d.proc.stage {
		panic("gesture: cannot attach actor from another stage or a disposed actor")
	}
	if d.attachedIndex(a.handle) >= 0 {
		return
	}
	d.proc.attachSeq++
	d.attached = append(d.attached, attachment{actor: a.handle, seq: d.proc.attachSeq})
	a.gestureRefs[d.kind]++
	d.proc.updateRecognizer(d.kind)
}

// Detach stops detecting gestures on a. If a is receiving the current
// sequence, this detector's handlers get a Cancelled event for it. During a
// gesture callback the detach is applied once delivery completes.
func (d *Detector) Detach(a *Actor) {
	if a == nil {
		return
	}
	h := a.handle
	if d.proc.queue.deferred(func() { d.detach(h) }) {
		return
	}
	d.detach(h)
}

// DetachAll detaches every attached actor.
func (d *Detector) DetachAll() {
	if d.proc.queue.deferred(d.DetachAll) {
		return
	}
	for len(d.attached) > 0 {
		d.detach(d.attached[len(d.attached)-1].actor)
	}
}

// AttachedActors returns the attached actors in attachment order. Handles
// of disposed actors are pruned first.
func (d *Detector) AttachedActors() []ActorHandle {
	d.attached = slices.DeleteFunc(d.attached, func(at attachment) bool {
		return d.proc.stage.Actor(at.actor) == nil
	})
	out := make([]ActorHandle, len(d.attached))
	for i, at := range d.attached {
		out[i] = at.actor
	}
	return out
}

func (d *Detector) attachedIndex(h ActorHandle) int {
	for i, at := range d.attached {
		if at.actor == h {
			return i
		}
	}
	return -1
}

func (d *Detector) attachSeq(h ActorHandle) uint64 {
	if i := d.attachedIndex(h); i >= 0 {
		return d.attached[i].seq
	}
	return 0
}

func (d *Detector) detach(h ActorHandle) {
	i := d.attachedIndex(h)
	if i < 0 {
		return
	}
	d.attached = slices.Delete(d.attached, i, i+1)
	a := d.proc.stage.Actor(h)
	if a != nil {
		a.gestureRefs[d.kind]--
		d.proc.cancelRecipient(d, a)
	}
	d.proc.updateRecognizer(d.kind)
}

// --- Handlers ---

// Connect registers fn for every gesture delivered through this detector.
// Handlers run in registration order.
func (d *Detector) Connect(fn func(*Actor, GestureEvent)) CallbackHandle {
	d.nextID++
	d.handlers = append(d.handlers, gestureHandler{id: d.nextID, fn: fn})
	return CallbackHandle{id: d.nextID, det: d, queue: &d.proc.queue}
}

func (d *Detector) removeHandler(id uint32) {
	d.handlers = slices.DeleteFunc(d.handlers, func(h gestureHandler) bool { return h.id == id })
}

// --- Kind-specific settings ---

func (d *Detector) mustBe(kind GestureKind, method string) {
	if d.kind != kind {
		panic("gesture: " + method + " called on " + d.kind.String() + " detector")
	}
}

// SetTouchRange sets how many touches the gesture needs. Valid for pan,
// long-press and tap detectors; a tap detector needs min == max.
func (d *Detector) SetTouchRange(minTouches, maxTouches int) {
	minTouches = max(minTouches, 1)
	maxTouches = max(maxTouches, minTouches)
	switch d.kind {
	case KindPan:
		d.pan.minTouches, d.pan.maxTouches = minTouches, maxTouches
	case KindLongPress:
		d.longPress.minTouches, d.longPress.maxTouches = minTouches, maxTouches
	case KindTap:
		if minTouches != maxTouches {
			panic("gesture: tap detector needs an exact touch count")
		}
		d.tap.touches = minTouches
	default:
		panic("gesture: SetTouchRange called on " + d.kind.String() + " detector")
	}
	d.proc.updateRecognizer(d.kind)
}

// TouchRange returns the required touch count bounds.
func (d *Detector) TouchRange() (minTouches, maxTouches int) {
	switch d.kind {
	case KindPan:
		return d.pan.minTouches, d.pan.maxTouches
	case KindLongPress:
		return d.longPress.minTouches, d.longPress.maxTouches
	case KindTap:
		return d.tap.touches, d.tap.touches
	}
	return 2, 2
}

// SetTapRange sets how many taps complete the gesture.
func (d *Detector) SetTapRange(minTaps, maxTaps int) {
	d.mustBe(KindTap, "SetTapRange")
	minTaps = max(minTaps, 1)
	d.tap.minTaps = minTaps
	d.tap.maxTaps = max(maxTaps, minTaps)
	d.proc.updateRecognizer(d.kind)
}

// TapRange returns the tap count bounds.
func (d *Detector) TapRange() (minTaps, maxTaps int) {
	d.mustBe(KindTap, "TapRange")
	return d.tap.minTaps, d.tap.maxTaps
}

// AddAngle restricts the pan detector to pans whose initial bearing is within
// threshold of angle. Angles are wrapped into (-π, π] and thresholds are
// clamped to [0, π]. Adding an existing angle replaces its threshold.
func (d *Detector) AddAngle(angle, threshold float64) {
	d.mustBe(KindPan, "AddAngle")
	angle = wrapAngle(angle)
	threshold = math.Min(math.Abs(threshold), math.Pi)
	for i := range d.pan.angles {
		if d.pan.angles[i].Angle == angle {
			d.pan.angles[i].Threshold = threshold
			return
		}
	}
	d.pan.angles = append(d.pan.angles, PanAngle{Angle: angle, Threshold: threshold})
}

// AddDirection adds direction and its opposite.
func (d *Detector) AddDirection(direction, threshold float64) {
	d.mustBe(KindPan, "AddDirection")
	d.AddAngle(direction, threshold)
	d.AddAngle(direction+math.Pi, threshold)
}

// RemoveAngle removes the window for angle, if present.
func (d *Detector) RemoveAngle(angle float64) {
	d.mustBe(KindPan, "RemoveAngle")
	angle = wrapAngle(angle)
	d.pan.angles = slices.DeleteFunc(d.pan.angles, func(w PanAngle) bool { return w.Angle == angle })
}

// RemoveDirection removes direction and its opposite.
func (d *Detector) RemoveDirection(direction float64) {
	d.mustBe(KindPan, "RemoveDirection")
	d.RemoveAngle(direction)
	d.RemoveAngle(direction + math.Pi)
}

// ClearAngles removes the angle filter; every bearing is accepted.
func (d *Detector) ClearAngles() {
	d.mustBe(KindPan, "ClearAngles")
	d.pan.angles = nil
}

// Angles returns a copy of the angle filter.
func (d *Detector) Angles() []PanAngle {
	d.mustBe(KindPan, "Angles")
	return slices.Clone(d.pan.angles)
}
