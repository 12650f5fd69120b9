package gesture

// RenderTask binds a camera to the subtree it views. Hit-testing runs through
// every input-enabled task; the first task that yields a hit wins.
type RenderTask struct {
	Camera *Camera
	// SourceActor is the root of the subtree this task draws. Nil means the
	// stage root.
	SourceActor *Actor
	// InputEnabled must be true for the task to take part in hit-testing.
	InputEnabled bool
	// Exclusive hides SourceActor's subtree from every other render task.
	Exclusive bool
	// Offscreen tasks render into a texture. They are tested after every
	// on-screen task.
	Offscreen bool

	seq uint64
}
