package gesture

// Snapshot is the read-only scene view consumed by hit-testing. Stage is the
// implementation shipped with this package.
type Snapshot interface {
	// ForEachRenderTaskTopDown visits tasks in hit-test order until fn
	// returns false.
	ForEachRenderTaskTopDown(fn func(*RenderTask) bool)
	// Layers returns the layers from bottom to top.
	Layers() []*Actor
	// Actor resolves a weak handle, returning nil when it is stale.
	Actor(h ActorHandle) *Actor
	// Size returns the surface size.
	Size() (w, h float64)
}

var _ Snapshot = (*Stage)(nil)
