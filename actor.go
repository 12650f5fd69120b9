package gesture

// Actor is the fundamental scene element for hit-testing. A single flat struct
// is used for plain actors and layers to avoid interface dispatch on the hot path.
type Actor struct {
	// Identity
	Name   string
	handle ActorHandle
	stage  *Stage

	// Hierarchy
	Parent   *Actor
	children []*Actor

	// Transform (local)
	X, Y     float64
	Z        float64 // depth toward the camera
	ScaleX   float64
	ScaleY   float64
	Rotation float64
	PivotX   float64
	PivotY   float64
	Width    float64
	Height   float64

	// Hit-testing
	Visible      bool
	Sensitive    bool
	ClippingMode ClippingMode
	HitShape     HitShape

	// Ordering
	ZIndex int

	// Layer fields (actors created with Stage.NewLayer)
	isLayer bool
	// ConsumesTouch stops hit-testing of every layer below this one.
	ConsumesTouch bool

	// LeaveRequired opts the actor into Leave notifications when the primary
	// point moves off it, and into hit-testing for touch even without OnTouch.
	LeaveRequired bool
	// NeedsGesturePropagation forwards gestures delivered to this actor on to
	// the nearest ancestor with a detector of the same kind.
	NeedsGesturePropagation bool

	// OnTouch receives touch notifications. Returning true consumes the event
	// and stops propagation to the parent.
	OnTouch func(TouchContext) bool

	// Metadata
	UserData any
	EntityID uint32

	// Internal
	gestureRefs    [numKinds]int
	disposed       bool
	childrenSorted bool
	sortedChildren []*Actor // reused buffer for ZIndex-sorted traversal order
}

// actorDefaults sets the common default field values shared by all constructors.
func actorDefaults(a *Actor) {
	a.ScaleX = 1
	a.ScaleY = 1
	a.Visible = true
	a.Sensitive = true
	a.childrenSorted = true
}

// Handle returns the actor's weak handle. It stays valid until the actor is disposed.
func (a *Actor) Handle() ActorHandle {
	return a.handle
}

// Stage returns the stage that created the actor.
func (a *Actor) Stage() *Stage {
	return a.stage
}

// IsLayer reports whether the actor was created as a layer.
func (a *Actor) IsLayer() bool {
	return a.isLayer
}

// Layer returns the nearest layer at or above a, or nil if a is not under one.
func (a *Actor) Layer() *Actor {
	for p := a; p != nil; p = p.Parent {
		if p.isLayer {
			return p
		}
	}
	return nil
}

// OnStage reports whether the actor is connected to its stage's root.
func (a *Actor) OnStage() bool {
	if a.disposed || a.stage == nil {
		return false
	}
	p := a
	for p.Parent != nil {
		p = p.Parent
	}
	return p == a.stage.root
}

// hittable reports whether the actor is on stage, visible and sensitive, with
// every ancestor also visible and sensitive.
func (a *Actor) hittable() bool {
	if !a.OnStage() {
		return false
	}
	for p := a; p != nil; p = p.Parent {
		if !p.Visible || !p.Sensitive {
			return false
		}
	}
	return true
}

// touchRequired reports whether the actor wants touch notifications.
func (a *Actor) touchRequired() bool {
	return a.OnTouch != nil || a.LeaveRequired
}

// gestureRequired reports whether a detector of the given kind is attached.
func (a *Actor) gestureRequired(kind GestureKind) bool {
	return a.gestureRefs[kind] > 0
}

// --- Tree manipulation ---

// AddChild appends child to this actor's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil, disposed, from another stage, or an ancestor of
// this actor (cycle).
func (a *Actor) AddChild(child *Actor) {
	if child == nil {
		panic("gesture: cannot add nil child")
	}
	if child.disposed || a.disposed {
		panic("gesture: AddChild on disposed actor")
	}
	if child.stage != a.stage {
		panic("gesture: child belongs to a different stage")
	}
	if isAncestor(child, a) {
		panic("gesture: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = a
	a.children = append(a.children, child)
	a.childrenSorted = false
	if a.stage.debug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(a)
	}
}

// RemoveChild detaches child from this actor.
// Panics if child.Parent != a.
func (a *Actor) RemoveChild(child *Actor) {
	if child.Parent != a {
		panic("gesture: child's parent is not this actor")
	}
	a.removeChildByPtr(child)
	child.Parent = nil
	a.childrenSorted = false
}

// RemoveFromParent detaches this actor from its parent.
// No-op if this actor has no parent.
func (a *Actor) RemoveFromParent() {
	if a.Parent == nil {
		return
	}
	a.Parent.RemoveChild(a)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (a *Actor) Children() []*Actor {
	return a.children
}

// NumChildren returns the number of children.
func (a *Actor) NumChildren() int {
	return len(a.children)
}

// SetZIndex sets the actor's ZIndex and marks the parent's children as unsorted.
func (a *Actor) SetZIndex(z int) {
	if a.ZIndex == z {
		return
	}
	a.ZIndex = z
	if a.Parent != nil {
		a.Parent.childrenSorted = false
	}
}

// paintOrder returns the children sorted by ZIndex, stable on insertion order.
// The last element is drawn on top.
func (a *Actor) paintOrder() []*Actor {
	if a.childrenSorted && a.sortedChildren != nil && len(a.sortedChildren) == len(a.children) {
		return a.sortedChildren
	}
	nc := len(a.children)
	if cap(a.sortedChildren) < nc {
		a.sortedChildren = make([]*Actor, nc)
	}
	a.sortedChildren = a.sortedChildren[:nc]
	copy(a.sortedChildren, a.children)
	// Stable insertion sort by ZIndex.
	for i := 1; i < nc; i++ {
		key := a.sortedChildren[i]
		j := i - 1
		for j >= 0 && a.sortedChildren[j].ZIndex > key.ZIndex {
			a.sortedChildren[j+1] = a.sortedChildren[j]
			j--
		}
		a.sortedChildren[j+1] = key
	}
	a.childrenSorted = true
	return a.sortedChildren
}

// --- Disposal ---

// Dispose removes this actor from its parent, invalidates its handle and
// recursively disposes all descendants. Detectors attached to a disposed
// actor cancel any sequence it was part of. Called from a touch or gesture
// callback, disposal happens once delivery completes.
func (a *Actor) Dispose() {
	if a.disposed {
		return
	}
	if a == a.stage.root {
		panic("gesture: cannot dispose the stage root")
	}
	q := a.stage.queue
	if q.deferred(a.Dispose) {
		return
	}
	if q != nil {
		// Release hooks deliver Interrupted and Cancelled; disposal requested
		// from those callbacks waits until this one is complete.
		q.enter()
		defer q.leave()
	}
	a.RemoveFromParent()
	a.dispose()
}

func (a *Actor) dispose() {
	for _, child := range a.children {
		child.Parent = nil
		child.dispose()
	}
	a.stage.release(a)
	a.disposed = true
	a.children = nil
	a.sortedChildren = nil
	a.Parent = nil
	a.HitShape = nil
	a.OnTouch = nil
	a.UserData = nil
}

// IsDisposed returns true if this actor has been disposed.
func (a *Actor) IsDisposed() bool {
	return a.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of (or equal to) actor.
func isAncestor(candidate, actor *Actor) bool {
	for p := actor; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from a.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (a *Actor) removeChildByPtr(child *Actor) {
	for i, c := range a.children {
		if c == child {
			copy(a.children[i:], a.children[i+1:])
			a.children[len(a.children)-1] = nil
			a.children = a.children[:len(a.children)-1]
			return
		}
	}
}
