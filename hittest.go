package gesture

// HitCheck decides which actors take part in a hit-test.
type HitCheck interface {
	// IsActorHittable reports whether a can be the result of the hit-test.
	IsActorHittable(a *Actor) bool
	// DescendActorHierarchy reports whether a and its subtree are visited at all.
	DescendActorHierarchy(a *Actor) bool
	// DoesLayerConsumeHit reports whether layer hides every layer below it.
	DoesLayerConsumeHit(layer *Actor) bool
}

// TouchCheck accepts actors that want touch notifications.
var TouchCheck HitCheck = touchHitCheck{}

// GestureCheck returns a HitCheck accepting actors with a detector of the
// given kind attached.
func GestureCheck(kind GestureKind) HitCheck {
	return gestureHitCheck{kind: kind}
}

// AnyCheck accepts every visible, sensitive actor.
var AnyCheck HitCheck = anyHitCheck{}

type touchHitCheck struct{}

func (touchHitCheck) IsActorHittable(a *Actor) bool {
	return a.Visible && a.Sensitive && a.touchRequired()
}

func (touchHitCheck) DescendActorHierarchy(a *Actor) bool {
	return a.Visible && a.Sensitive
}

func (touchHitCheck) DoesLayerConsumeHit(layer *Actor) bool {
	return layer.ConsumesTouch
}

type gestureHitCheck struct {
	kind GestureKind
}

func (c gestureHitCheck) IsActorHittable(a *Actor) bool {
	return a.Visible && a.Sensitive && a.gestureRequired(c.kind)
}

func (gestureHitCheck) DescendActorHierarchy(a *Actor) bool {
	return a.Visible && a.Sensitive
}

func (gestureHitCheck) DoesLayerConsumeHit(layer *Actor) bool {
	return layer.ConsumesTouch
}

type anyHitCheck struct{}

func (anyHitCheck) IsActorHittable(a *Actor) bool        { return a.Visible && a.Sensitive }
func (anyHitCheck) DescendActorHierarchy(a *Actor) bool  { return a.Visible && a.Sensitive }
func (anyHitCheck) DoesLayerConsumeHit(layer *Actor) bool { return layer.ConsumesTouch }

// hitContext carries the per-task state of one hit-test walk.
type hitContext struct {
	task       *RenderTask
	exclusives []*RenderTask
	check      HitCheck
	wx, wy     float64
}

// exclusiveElsewhere reports whether a is the source of an exclusive task
// other than the one being tested.
func (hc *hitContext) exclusiveElsewhere(a *Actor) bool {
	for _, t := range hc.exclusives {
		if t != hc.task && t.SourceActor == a {
			return true
		}
	}
	return false
}

// HitTest finds the actor under a screen point. Render tasks are tried in
// top-down order and the first that yields a hit, or has a consuming layer
// under the point, wins. ok is false when the point hits nothing.
func HitTest(snap Snapshot, screen Vec2, check HitCheck) (HitResult, bool) {
	layers := snap.Layers()
	if len(layers) == 0 {
		return HitResult{}, false
	}
	root := layers[0]

	var exclusives []*RenderTask
	snap.ForEachRenderTaskTopDown(func(t *RenderTask) bool {
		if t.Exclusive && t.SourceActor != nil {
			exclusives = append(exclusives, t)
		}
		return true
	})

	var (
		result HitResult
		found  bool
	)
	snap.ForEachRenderTaskTopDown(func(t *RenderTask) bool {
		if !t.InputEnabled || t.Camera == nil {
			return true
		}
		hc := &hitContext{task: t, exclusives: exclusives, check: check}
		result, found = hitTestTask(hc, layers, root, screen)
		return !found
	})
	return result, found
}

// hitTestTask tests one render task. It walks the layers from top to bottom.
func hitTestTask(hc *hitContext, layers []*Actor, root *Actor, screen Vec2) (HitResult, bool) {
	cam := hc.task.Camera
	if !cam.Viewport.Contains(screen.X, screen.Y) {
		return HitResult{}, false
	}
	wx, wy, ok := cam.pickingPoint(screen.X, screen.Y)
	if !ok {
		return HitResult{}, false
	}
	hc.wx, hc.wy = wx, wy

	source := hc.task.SourceActor
	if source == nil {
		source = root
	}
	sourceLayer := source.Layer()
	if sourceLayer == nil {
		return HitResult{}, false
	}

	for i := len(layers) - 1; i >= 0; i-- {
		layer := layers[i]
		if !layerReachable(layer, hc.check) {
			continue
		}

		var hit *Actor
		switch {
		case layer == sourceLayer:
			hit = hitTestWithinLayer(hc, source)
		case isAncestor(source, layer):
			hit = hitTestWithinLayer(hc, layer)
		}
		if hit != nil {
			return hc.result(hit), true
		}

		if hc.check.DoesLayerConsumeHit(layer) && layerCovers(layer, wx, wy) {
			return hc.result(layer), true
		}
	}
	return HitResult{}, false
}

// layerReachable reports whether the layer and all its ancestors can be descended.
func layerReachable(layer *Actor, check HitCheck) bool {
	for p := layer; p != nil; p = p.Parent {
		if !check.DescendActorHierarchy(p) {
			return false
		}
	}
	return true
}

// layerCovers reports whether a consuming layer claims the world point. A
// layer with no size consumes the whole viewport.
func layerCovers(layer *Actor, wx, wy float64) bool {
	if layer.HitShape == nil && (layer.Width <= 0 || layer.Height <= 0) {
		return true
	}
	lx, ly, ok := layer.WorldToLocal(wx, wy)
	return ok && layer.containsLocal(lx, ly)
}

// hitTestWithinLayer walks a's subtree without crossing into other layers.
// Children are visited topmost first; a hit in a child beats a hit on a.
func hitTestWithinLayer(hc *hitContext, a *Actor) *Actor {
	if hc.exclusiveElsewhere(a) {
		return nil
	}

	inside := false
	if lx, ly, ok := a.WorldToLocal(hc.wx, hc.wy); ok {
		inside = a.containsLocal(lx, ly)
	}
	if a.ClippingMode == ClipChildren && !inside {
		return nil
	}

	children := a.paintOrder()
	for i := len(children) - 1; i >= 0; i-- {
		c := children[i]
		if c.isLayer || !hc.check.DescendActorHierarchy(c) {
			continue
		}
		if hit := hitTestWithinLayer(hc, c); hit != nil {
			return hit
		}
	}

	if inside && hc.check.IsActorHittable(a) && hc.task.Camera.depthInRange(a.worldDepth()) {
		return a
	}
	return nil
}

func (hc *hitContext) result(a *Actor) HitResult {
	lx, ly, _ := a.WorldToLocal(hc.wx, hc.wy)
	return HitResult{Actor: a.Handle(), Local: Vec2{lx, ly}, Task: hc.task}
}

// Resolver maps every point of a touch event to its target actor. Resolve is
// pure; the only state is the per-device holder map used to route Interrupted
// points, which changes only through Observe.
type Resolver struct {
	check   HitCheck
	holders map[int32]HitResult
}

// NewResolver creates a resolver using the given hit check. A nil check
// defaults to TouchCheck.
func NewResolver(check HitCheck) *Resolver {
	if check == nil {
		check = TouchCheck
	}
	return &Resolver{check: check, holders: make(map[int32]HitResult)}
}

// Resolve returns one HitResult per point, in point order. Interrupted points
// resolve to the actor holding that device's sequence without a geometric test.
func (r *Resolver) Resolve(ev TouchEvent, snap Snapshot) []HitResult {
	out := make([]HitResult, len(ev.Points))
	for i, p := range ev.Points {
		if p.State == PointInterrupted {
			out[i] = r.holderResult(p, snap)
			continue
		}
		res, ok := HitTest(snap, p.Screen, r.check)
		if !ok {
			res = HitResult{}
		}
		res.Point = p
		out[i] = res
	}
	return out
}

func (r *Resolver) holderResult(p PointSample, snap Snapshot) HitResult {
	h, ok := r.holders[p.DeviceID]
	if !ok {
		return HitResult{Point: p}
	}
	a := snap.Actor(h.Actor)
	if a == nil {
		return HitResult{Point: p}
	}
	res := HitResult{Point: p, Actor: h.Actor, Task: h.Task}
	if local, ok := a.ScreenToLocal(h.Task, p.Screen.X, p.Screen.Y); ok {
		res.Local = local
	}
	return res
}

// Observe updates the holder map from resolved results: a Down records its
// target, Up clears it and Interrupted clears every device.
func (r *Resolver) Observe(results []HitResult) {
	for _, res := range results {
		switch res.Point.State {
		case PointDown:
			if res.Actor != 0 {
				r.holders[res.Point.DeviceID] = res
			} else {
				delete(r.holders, res.Point.DeviceID)
			}
		case PointUp:
			delete(r.holders, res.Point.DeviceID)
		case PointInterrupted:
			clear(r.holders)
		}
	}
}

// Holder returns the actor holding a device's sequence, or 0.
func (r *Resolver) Holder(deviceID int32) ActorHandle {
	return r.holders[deviceID].Actor
}

// Reset forgets every holder.
func (r *Resolver) Reset() {
	clear(r.holders)
}
