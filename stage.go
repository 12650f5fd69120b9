package gesture

// ActorHandle is a weak reference to an actor. It packs the actor's slot index
// and the slot generation; disposing the actor bumps the generation so the
// handle stops resolving. The zero handle never refers to an actor.
type ActorHandle uint64

func makeHandle(index, gen uint32) ActorHandle {
	return ActorHandle(uint64(gen)<<32 | uint64(index))
}

func (h ActorHandle) index() uint32      { return uint32(h) }
func (h ActorHandle) generation() uint32 { return uint32(h >> 32) }

type actorSlot struct {
	actor *Actor
	gen   uint32
}

// Stage is the reference scene snapshot: an actor table, a tree of actors and
// layers rooted at a root layer, and an ordered list of render tasks.
type Stage struct {
	root   *Actor
	width  float64
	height float64
	debug  bool

	slots []actorSlot
	free  []uint32

	tasks    []*RenderTask
	taskSeq  uint64
	layerBuf []*Actor

	releaseHooks []func(*Actor)
	// queue is the owning processor's deferral queue, or nil.
	queue *deferQueue
}

// NewStage creates a stage of the given surface size with a root layer and a
// default on-screen render task whose camera maps screen to world 1:1.
func NewStage(width, height float64) *Stage {
	s := &Stage{width: width, height: height}
	s.root = s.NewLayer("root")
	s.root.SetSize(width, height)
	cam := NewCamera(Rect{Width: width, Height: height})
	s.AddRenderTask(&RenderTask{Camera: cam, SourceActor: s.root, InputEnabled: true})
	return s
}

// Root returns the stage's root layer. It is always the bottom layer.
func (s *Stage) Root() *Actor {
	return s.root
}

// Size returns the surface size.
func (s *Stage) Size() (w, h float64) {
	return s.width, s.height
}

// SetSize changes the surface size. The default render task's viewport is
// not changed.
func (s *Stage) SetSize(w, h float64) {
	s.width = w
	s.height = h
	s.root.SetSize(w, h)
}

// SetDebugMode enables tree-depth warnings on AddChild.
func (s *Stage) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// NewActor creates a detached actor owned by this stage.
func (s *Stage) NewActor(name string) *Actor {
	a := &Actor{Name: name, stage: s}
	actorDefaults(a)
	s.register(a)
	return a
}

// NewLayer creates a detached layer actor. A layer's subtree is hit-tested as
// a unit, and a layer nested under another layer sits above it.
func (s *Stage) NewLayer(name string) *Actor {
	a := s.NewActor(name)
	a.isLayer = true
	return a
}

// Actor resolves a handle. It returns nil for the zero handle and for handles
// of disposed actors.
func (s *Stage) Actor(h ActorHandle) *Actor {
	if h == 0 {
		return nil
	}
	i := h.index()
	if int(i) >= len(s.slots) {
		return nil
	}
	slot := &s.slots[i]
	if slot.gen != h.generation() || slot.actor == nil {
		return nil
	}
	return slot.actor
}

func (s *Stage) register(a *Actor) {
	var i uint32
	if n := len(s.free); n > 0 {
		i = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		i = uint32(len(s.slots))
		s.slots = append(s.slots, actorSlot{gen: 1})
	}
	s.slots[i].actor = a
	a.handle = makeHandle(i, s.slots[i].gen)
}

// release runs the release hooks for a, then invalidates its handle.
func (s *Stage) release(a *Actor) {
	for _, hook := range s.releaseHooks {
		hook(a)
	}
	i := a.handle.index()
	slot := &s.slots[i]
	slot.actor = nil
	slot.gen++
	if slot.gen == 0 {
		slot.gen = 1
	}
	s.free = append(s.free, i)
}

// onRelease registers a hook that runs while an actor is being disposed,
// before its handle is invalidated.
func (s *Stage) onRelease(fn func(*Actor)) {
	s.releaseHooks = append(s.releaseHooks, fn)
}

// --- Layers ---

// Layers returns the on-stage layers from bottom to top. The order is a
// depth-first pre-order walk in paint order, so child layers sit above their
// parent layer. The returned slice is reused by the next call.
func (s *Stage) Layers() []*Actor {
	s.layerBuf = s.layerBuf[:0]
	s.layerBuf = collectLayers(s.root, s.layerBuf)
	return s.layerBuf
}

func collectLayers(a *Actor, out []*Actor) []*Actor {
	if a.isLayer {
		out = append(out, a)
	}
	for _, c := range a.paintOrder() {
		out = collectLayers(c, out)
	}
	return out
}

// --- Render tasks ---

// AddRenderTask appends a render task. Later tasks are drawn over earlier
// ones, so they are tested first.
func (s *Stage) AddRenderTask(t *RenderTask) *RenderTask {
	if t == nil {
		panic("gesture: cannot add nil render task")
	}
	if t.Camera == nil {
		panic("gesture: render task has no camera")
	}
	s.taskSeq++
	t.seq = s.taskSeq
	s.tasks = append(s.tasks, t)
	return t
}

// RemoveRenderTask removes a render task. No-op if it was not added.
func (s *Stage) RemoveRenderTask(t *RenderTask) {
	for i, other := range s.tasks {
		if other == t {
			copy(s.tasks[i:], s.tasks[i+1:])
			s.tasks[len(s.tasks)-1] = nil
			s.tasks = s.tasks[:len(s.tasks)-1]
			return
		}
	}
}

// RenderTasks returns the render tasks in creation order. The returned slice
// MUST NOT be mutated by the caller.
func (s *Stage) RenderTasks() []*RenderTask {
	return s.tasks
}

// DefaultRenderTask returns the task created by NewStage, or nil if removed.
func (s *Stage) DefaultRenderTask() *RenderTask {
	for _, t := range s.tasks {
		if t.seq == 1 {
			return t
		}
	}
	return nil
}

// ForEachRenderTaskTopDown visits render tasks in hit-test order: on-screen
// tasks from most to least recently created, then off-screen tasks in the
// same order. Returning false from fn stops the walk.
func (s *Stage) ForEachRenderTaskTopDown(fn func(*RenderTask) bool) {
	for pass := 0; pass < 2; pass++ {
		offscreen := pass == 1
		for i := len(s.tasks) - 1; i >= 0; i-- {
			t := s.tasks[i]
			if t.Offscreen != offscreen {
				continue
			}
			if !fn(t) {
				return
			}
		}
	}
}

// Update advances camera follow targets and scroll tweens by dt seconds.
func (s *Stage) Update(dt float32) {
	for i, t := range s.tasks {
		if cameraSeen(s.tasks[:i], t.Camera) {
			continue
		}
		t.Camera.update(dt)
	}
}

func cameraSeen(tasks []*RenderTask, c *Camera) bool {
	for _, t := range tasks {
		if t.Camera == c {
			return true
		}
	}
	return false
}
