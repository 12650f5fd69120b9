package gesture

// TouchPoint is one point of a touch notification together with its hit target.
type TouchPoint struct {
	PointSample
	// Actor is the actor hit by this point, or 0.
	Actor ActorHandle
	// Local is the point in the hit actor's local space.
	Local Vec2
}

// TouchContext is passed to touch callbacks.
type TouchContext struct {
	// Actor is the actor whose callback is running. It is nil for stage-level
	// observers when the primary point hit nothing.
	Actor    *Actor
	Time     uint32
	Points   []TouchPoint
	EntityID uint32
	UserData any
}

// Primary returns the first point.
func (c TouchContext) Primary() TouchPoint {
	return c.Points[0]
}

// State returns the primary point's state.
func (c TouchContext) State() PointState {
	return c.Points[0].State
}

// touchState tracks the actors that must hear about Leave and Interrupted.
type touchState struct {
	lastPrimaryHit    ActorHandle
	lastConsumed      ActorHandle
	touchDownConsumed ActorHandle
	lastTask          *RenderTask
}

func (t *touchState) reset() {
	*t = touchState{}
}

func touchPoints(results []HitResult) []TouchPoint {
	pts := make([]TouchPoint, len(results))
	for i, r := range results {
		pts[i] = TouchPoint{PointSample: r.Point, Actor: r.Actor, Local: r.Local}
	}
	return pts
}

// withPrimary returns a copy of pts whose primary point targets a with the
// given state, its local position recomputed through task.
func withPrimary(pts []TouchPoint, a *Actor, task *RenderTask, state PointState) []TouchPoint {
	out := make([]TouchPoint, len(pts))
	copy(out, pts)
	p := &out[0]
	p.State = state
	p.Actor = a.Handle()
	if local, ok := a.ScreenToLocal(task, p.Screen.X, p.Screen.Y); ok {
		p.Local = local
	}
	return out
}

// emitTouch delivers pts to a and then to its parents until one consumes the
// event. It returns the consuming actor or nil. Propagation stops when a
// handler reparents the actor it was called on.
func (p *Processor) emitTouch(a *Actor, time uint32, pts []TouchPoint) *Actor {
	for a != nil && !a.disposed {
		oldParent := a.Parent
		consumed := false
		if a.OnTouch != nil {
			ctx := TouchContext{Actor: a, Time: time, Points: pts, EntityID: a.EntityID, UserData: a.UserData}
			consumed = a.OnTouch(ctx)
			p.emitTouchEntity(a, pts[0])
		}
		if consumed {
			if p.debug {
				debugf("touch %s consumed by %s", pts[0].State, actorLabel(a))
			}
			return a
		}
		if a.disposed || a.Parent == nil || a.Parent != oldParent {
			return nil
		}
		a = a.Parent
	}
	return nil
}

func (p *Processor) emitTouchEntity(a *Actor, pt TouchPoint) {
	if p.store == nil || a.EntityID == 0 {
		return
	}
	p.store.EmitEvent(InteractionEvent{
		Type:       EventTouch,
		EntityID:   a.EntityID,
		PointState: pt.State,
		DeviceID:   pt.DeviceID,
		Screen:     pt.Screen,
		Local:      pt.Local,
	})
}

// deliverTouch runs touch delivery for one resolved event.
func (p *Processor) deliverTouch(ev TouchEvent, results []HitResult) {
	t := &p.touch
	primary := results[0]
	pts := touchPoints(results)

	if primary.Point.State == PointInterrupted {
		p.deliverTouchInterrupted(ev, primary, pts)
		return
	}

	primaryHit := p.stage.Actor(primary.Actor)
	state := primary.Point.State

	var consumed *Actor
	if primaryHit != nil {
		consumed = p.emitTouch(primaryHit, ev.Time, pts)
	}

	if state == PointDown && len(pts) == 1 && consumed != nil && consumed.OnStage() {
		t.touchDownConsumed = consumed.Handle()
	}

	lastPrimaryHit := p.stage.Actor(t.lastPrimaryHit)
	lastConsumed := p.stage.Actor(t.lastConsumed)

	if (state == PointMotion || state == PointUp || state == PointStationary) && t.lastTask != nil {
		var leaveConsumer *Actor
		if lastPrimaryHit != nil && lastPrimaryHit != primaryHit && lastPrimaryHit != consumed {
			leaveConsumer = p.leaveOrInterrupt(lastPrimaryHit, ev.Time, pts)
		}
		if lastConsumed != nil && lastConsumed != consumed && lastConsumed != lastPrimaryHit &&
			lastConsumed != primaryHit && lastConsumed != leaveConsumer {
			p.leaveOrInterrupt(lastConsumed, ev.Time, pts)
		}
	}

	if state == PointUp {
		t.lastPrimaryHit = 0
		t.lastConsumed = 0
		t.lastTask = nil
	} else if primaryHit != nil && primaryHit.OnStage() {
		t.lastPrimaryHit = primaryHit.Handle()
		t.lastConsumed = 0
		if consumed != nil && consumed.OnStage() {
			t.lastConsumed = consumed.Handle()
		}
		t.lastTask = primary.Task
	} else {
		t.lastPrimaryHit = 0
		t.lastConsumed = 0
		t.lastTask = nil
	}

	if len(pts) != 1 {
		return
	}
	switch state {
	case PointUp:
		if td := p.stage.Actor(t.touchDownConsumed); td != nil &&
			td != consumed && td != lastPrimaryHit && td != lastConsumed {
			p.emitTouch(td, ev.Time, withPrimary(pts, td, primary.Task, PointInterrupted))
		}
		t.touchDownConsumed = 0
		p.notifyTouched(primaryHit, ev.Time, pts)
	case PointDown:
		p.notifyTouched(primaryHit, ev.Time, pts)
	}
}

// leaveOrInterrupt sends Leave to an actor that still takes touch and asked
// for it, or Interrupted to one that stopped being hittable.
func (p *Processor) leaveOrInterrupt(a *Actor, time uint32, pts []TouchPoint) *Actor {
	if a.hittable() {
		if !a.LeaveRequired {
			return nil
		}
		if p.debug {
			debugf("touch leave %s", actorLabel(a))
		}
		return p.emitTouch(a, time, withPrimary(pts, a, p.touch.lastTask, PointLeave))
	}
	if p.debug {
		debugf("touch interrupted %s (no longer hittable)", actorLabel(a))
	}
	return p.emitTouch(a, time, withPrimary(pts, a, p.touch.lastTask, PointInterrupted))
}

// deliverTouchInterrupted informs the holder and every tracked consumer once.
func (p *Processor) deliverTouchInterrupted(ev TouchEvent, primary HitResult, pts []TouchPoint) {
	t := &p.touch
	task := primary.Task
	if task == nil {
		task = t.lastTask
	}

	informed := make([]*Actor, 0, 4)
	seen := func(a *Actor) bool {
		for _, o := range informed {
			if o == a {
				return true
			}
		}
		return false
	}
	inform := func(a *Actor) {
		if a == nil || seen(a) {
			return
		}
		informed = append(informed, a)
		if c := p.emitTouch(a, ev.Time, withPrimary(pts, a, task, PointInterrupted)); c != nil && !seen(c) {
			informed = append(informed, c)
		}
	}

	inform(p.stage.Actor(primary.Actor))
	inform(p.stage.Actor(t.lastPrimaryHit))
	inform(p.stage.Actor(t.lastConsumed))
	inform(p.stage.Actor(t.touchDownConsumed))

	t.reset()
	pts[0].Actor = 0
	p.notifyTouched(nil, ev.Time, pts)
}

// touchActorReleased interrupts the last primary hit actor when it is disposed.
func (p *Processor) touchActorReleased(a *Actor) {
	t := &p.touch
	h := a.Handle()
	if h == t.touchDownConsumed {
		t.touchDownConsumed = 0
	}
	if h == t.lastConsumed && h != t.lastPrimaryHit {
		t.lastConsumed = 0
		return
	}
	if h != t.lastPrimaryHit {
		return
	}
	pts := []TouchPoint{{PointSample: PointSample{State: PointInterrupted}, Actor: h}}
	consumer := p.emitTouch(a, 0, pts)
	if lc := p.stage.Actor(t.lastConsumed); lc != nil && lc != a && lc != consumer {
		pts[0].Actor = lc.Handle()
		p.emitTouch(lc, 0, pts)
	}
	t.lastPrimaryHit = 0
	t.lastConsumed = 0
	t.lastTask = nil
}

// --- Stage-level observers ---

type touchedHandler struct {
	id uint32
	fn func(TouchContext)
}

// handlerRegistry stores stage-level touch observers.
type handlerRegistry struct {
	nextID  uint32
	touched []touchedHandler
}

// OnTouched registers an observer for the first Down, the last Up and
// Interrupted of every touch sequence, whether or not an actor consumed them.
func (p *Processor) OnTouched(fn func(TouchContext)) CallbackHandle {
	p.handlers.nextID++
	id := p.handlers.nextID
	p.handlers.touched = append(p.handlers.touched, touchedHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &p.handlers, queue: &p.queue}
}

func (p *Processor) notifyTouched(a *Actor, time uint32, pts []TouchPoint) {
	if len(p.handlers.touched) == 0 {
		return
	}
	ctx := TouchContext{Actor: a, Time: time, Points: pts}
	if a != nil {
		ctx.EntityID = a.EntityID
		ctx.UserData = a.UserData
	}
	handlers := append([]touchedHandler(nil), p.handlers.touched...)
	for _, h := range handlers {
		h.fn(ctx)
	}
}

func removeTouchedHandler(s []touchedHandler, id uint32) []touchedHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = touchedHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}
