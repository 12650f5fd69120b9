package gesture

import (
	"slices"

	"github.com/google/uuid"
)

// deferQueue postpones structural mutation requested from inside callbacks.
// Every delivery pass enters the queue; requests made while depth > 0 run
// once the outermost pass leaves.
type deferQueue struct {
	depth   int
	pending []func()
}

func (q *deferQueue) enter() {
	q.depth++
}

func (q *deferQueue) leave() {
	q.depth--
	if q.depth > 0 {
		return
	}
	for len(q.pending) > 0 {
		fn := q.pending[0]
		q.pending = q.pending[1:]
		fn()
	}
	q.pending = nil
}

// deferred queues fn and returns true when a delivery pass is running.
// Safe on a nil queue.
func (q *deferQueue) deferred(fn func()) bool {
	if q == nil || q.depth == 0 {
		return false
	}
	q.pending = append(q.pending, fn)
	return true
}

// CallbackHandle allows removing a registered callback. Removal requested
// during delivery takes effect once delivery completes.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	det   *Detector
	queue *deferQueue
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil && h.det == nil {
		return
	}
	if h.queue.deferred(h.Remove) {
		return
	}
	if h.det != nil {
		h.det.removeHandler(h.id)
		return
	}
	h.reg.touched = removeTouchedHandler(h.reg.touched, h.id)
}

// recipient is one (actor, detector) pair receiving the current sequence.
type recipient struct {
	actor ActorHandle
	task  *RenderTask
	det   *Detector
}

// tracker follows one gesture sequence of a kind from Possible to its
// terminal state.
type tracker struct {
	active bool
	// delivering is set once the first emitting state found recipients.
	delivering bool
	sequence   uuid.UUID

	possibleActor  ActorHandle
	possibleTask   *RenderTask
	possibleScreen Vec2

	recipients []recipient
	last       recognized
}

func (t *tracker) clear() {
	*t = tracker{}
}

// dispatch routes one recognized state of kind to its recipients.
func (p *Processor) dispatch(kind GestureKind, r recognized) {
	if kind == KindPan {
		r = p.predict(r)
	}
	if p.debug {
		debugf("%s %s at (%.1f, %.1f)", kind, r.state, r.screen.X, r.screen.Y)
	}
	t := &p.trackers[kind]
	switch {
	case r.state == StatePossible:
		p.beginSequence(kind, r)
	case firstEmitting(kind, r.state) && !t.delivering:
		p.deliverFirst(kind, r)
	default:
		p.deliverRecorded(kind, r)
	}
}

// predict runs the pan predictor over the recognized kinematics.
func (p *Processor) predict(r recognized) recognized {
	switch r.state {
	case StateStarted, StateContinuing, StateFinished:
		if r.state == StateStarted {
			p.predictor.Reset()
		}
		s := p.predictor.Apply(PanSample{
			State:        r.state,
			Time:         r.time,
			Position:     r.screen,
			Displacement: r.displacement,
			Velocity:     r.velocity,
		})
		r.screen, r.displacement, r.velocity = s.Position, s.Displacement, s.Velocity
	case StateCancelled:
		p.predictor.Reset()
	}
	return r
}

func (p *Processor) beginSequence(kind GestureKind, r recognized) {
	t := &p.trackers[kind]
	t.clear()
	t.active = true
	t.sequence = uuid.New()
	t.possibleScreen = r.hit
	t.last = r
	if res, ok := HitTest(p.stage, r.hit, GestureCheck(kind)); ok {
		t.possibleActor = res.Actor
		t.possibleTask = res.Task
	}
	for _, d := range p.detectors {
		if d.kind == kind {
			d.emitted = StateClear
		}
	}
}

// deliverFirst hit-tests the first emitting state and walks up from the hit
// actor. Each actor with accepting detectors receives the gesture; the walk
// continues to the parent only while the receiving actor asks for
// propagation, read after its handlers ran.
func (p *Processor) deliverFirst(kind GestureKind, r recognized) {
	t := &p.trackers[kind]
	if !t.active {
		t.active = true
		t.sequence = uuid.New()
		t.possibleScreen = r.hit
	}
	terminal := r.state.terminal()

	res, ok := HitTest(p.stage, r.hit, GestureCheck(kind))
	if !ok || (kind == KindTap && res.Actor != t.possibleActor) {
		if p.debug {
			debugf("%s %s dropped: no target", kind, r.state)
		}
		if terminal {
			t.clear()
		}
		return
	}

	t.delivering = true
	t.last = r
	seq := *t
	if terminal {
		t.clear()
	}

	p.queue.enter()
	defer p.queue.leave()

	for a := p.stage.Actor(res.Actor); a != nil; a = a.Parent {
		dets := p.accepting(kind, a, res.Task, r, &seq)
		if len(dets) == 0 {
			continue
		}
		if !terminal {
			for _, d := range dets {
				t.recipients = append(t.recipients, recipient{actor: a.handle, task: res.Task, det: d})
			}
		}
		p.fanOut(dets, a, p.gestureEvent(kind, r, seq.sequence, a, res.Task))
		if a.disposed || !a.NeedsGesturePropagation {
			break
		}
		if p.debug {
			debugf("%s propagating from %s", kind, actorLabel(a))
		}
	}
}

// accepting returns the detectors of kind attached to a that accept r, in
// attachment order.
func (p *Processor) accepting(kind GestureKind, a *Actor, task *RenderTask, r recognized, t *tracker) []*Detector {
	if !a.gestureRequired(kind) {
		return nil
	}
	var dets []*Detector
	for _, d := range p.detectors {
		if d.kind != kind || d.attachedIndex(a.handle) < 0 {
			continue
		}
		if kinds[kind].accepts(d, a, task, r, t) {
			dets = append(dets, d)
		}
	}
	slices.SortStableFunc(dets, func(x, y *Detector) int {
		sx, sy := x.attachSeq(a.handle), y.attachSeq(a.handle)
		switch {
		case sx < sy:
			return -1
		case sx > sy:
			return 1
		}
		return 0
	})
	return dets
}

// deliverRecorded sends a later state to the recipients recorded at the
// first emitting state. Recipients that stopped being hittable get
// Cancelled instead and are dropped.
func (p *Processor) deliverRecorded(kind GestureKind, r recognized) {
	t := &p.trackers[kind]
	terminal := r.state.terminal()
	if !t.delivering {
		if terminal {
			t.clear()
		}
		return
	}

	t.last = r
	recips := slices.Clone(t.recipients)
	seq := t.sequence
	if terminal {
		t.clear()
	}

	p.queue.enter()
	defer p.queue.leave()

	for i := 0; i < len(recips); {
		j := i + 1
		for j < len(recips) && recips[j].actor == recips[i].actor {
			j++
		}
		group := recips[i:j]
		i = j

		a := p.stage.Actor(group[0].actor)
		if a == nil || a.disposed {
			continue
		}
		var dets []*Detector
		for _, rc := range group {
			if rc.det.attachedIndex(a.handle) >= 0 {
				dets = append(dets, rc.det)
			}
		}
		if len(dets) == 0 {
			continue
		}
		task := group[0].task
		if !terminal && !a.hittable() {
			cancelled := r
			cancelled.state = StateCancelled
			t.recipients = slices.DeleteFunc(t.recipients, func(rc recipient) bool { return rc.actor == a.handle })
			if p.debug {
				debugf("%s cancelled for %s: no longer hittable", kind, actorLabel(a))
			}
			p.fanOut(dets, a, p.gestureEvent(kind, cancelled, seq, a, task))
			continue
		}
		p.fanOut(dets, a, p.gestureEvent(kind, r, seq, a, task))
	}
}

// cancelRecipient ends the current sequence for (d, a) with a Cancelled
// event if a is one of its recipients.
func (p *Processor) cancelRecipient(d *Detector, a *Actor) {
	t := &p.trackers[d.kind]
	i := slices.IndexFunc(t.recipients, func(rc recipient) bool {
		return rc.actor == a.handle && rc.det == d
	})
	if i < 0 {
		return
	}
	task := t.recipients[i].task
	t.recipients = slices.Delete(t.recipients, i, i+1)
	r := t.last
	r.state = StateCancelled

	p.queue.enter()
	defer p.queue.leave()
	p.fanOut([]*Detector{d}, a, p.gestureEvent(d.kind, r, t.sequence, a, task))
}

// fanOut calls every handler of every detector in dets for a. Each handler
// list is snapshotted before iteration.
func (p *Processor) fanOut(dets []*Detector, a *Actor, ev GestureEvent) {
	for _, d := range dets {
		d.emitted = ev.State
		handlers := append([]gestureHandler(nil), d.handlers...)
		for _, h := range handlers {
			if a.disposed {
				return
			}
			h.fn(a, ev)
		}
	}
	p.emitGestureEntity(a, ev)
}

func (p *Processor) emitGestureEntity(a *Actor, ev GestureEvent) {
	if p.store == nil || a.EntityID == 0 {
		return
	}
	p.store.EmitEvent(InteractionEvent{
		Type:         EventGesture,
		EntityID:     a.EntityID,
		Kind:         ev.Kind,
		State:        ev.State,
		Sequence:     ev.Sequence,
		Screen:       ev.Screen,
		Local:        ev.Local,
		Displacement: ev.ScreenDisplacement,
		Velocity:     ev.ScreenVelocity,
		Taps:         ev.Taps,
		Scale:        ev.Scale,
		Rotation:     ev.Rotation,
	})
}

// gestureEvent builds the event seen by a. Local values go through the
// render task the sequence was hit-tested in.
func (p *Processor) gestureEvent(kind GestureKind, r recognized, seq uuid.UUID, a *Actor, task *RenderTask) GestureEvent {
	ev := GestureEvent{
		Kind:               kind,
		State:              r.state,
		Sequence:           seq,
		Time:               r.time,
		Touches:            r.touches,
		Actor:              a.handle,
		Screen:             r.screen,
		ScreenDisplacement: r.displacement,
		ScreenVelocity:     r.velocity,
		Taps:               r.taps,
		Scale:              r.scale,
		ScaleDelta:         r.scaleDelta,
		Rotation:           r.rotation,
		RotationDelta:      r.rotationDelta,
		Duration:           r.duration,
	}
	if kind == KindPinch {
		ev.Center = r.screen
	}
	local, ok := a.ScreenToLocal(task, r.screen.X, r.screen.Y)
	if !ok {
		return ev
	}
	ev.Local = local
	prev := r.screen.Sub(r.displacement)
	if l, ok := a.ScreenToLocal(task, prev.X, prev.Y); ok {
		ev.LocalDisplacement = local.Sub(l)
	}
	next := r.screen.Add(r.velocity)
	if l, ok := a.ScreenToLocal(task, next.X, next.Y); ok {
		ev.LocalVelocity = l.Sub(local)
	}
	return ev
}
