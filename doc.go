// Package gesture is a touch and gesture input core for retained-mode 2D
// scenes.
//
// Raw pointer samples go in; touch notifications and recognized gestures
// come out, delivered to the actors under the user's fingers. The pipeline
// runs synchronously inside one call from the owning event loop:
//
//	samples -> Combiner -> Resolver -> touch delivery
//	                                -> recognizers -> Predictor -> dispatcher
//
// # Quick start
//
//	stage := gesture.NewStage(640, 480)
//	box := stage.NewActor("box")
//	box.SetSize(100, 100)
//	stage.Root().AddChild(box)
//
//	proc := gesture.NewProcessor(stage, gesture.DefaultConfig())
//	pan := proc.NewPanDetector()
//	pan.Attach(box)
//	pan.Connect(func(a *gesture.Actor, ev gesture.GestureEvent) {
//		a.X += ev.ScreenDisplacement.X
//		a.Y += ev.ScreenDisplacement.Y
//	})
//
//	// Every frame:
//	proc.FeedAll(samples...)
//	proc.Tick()
//
// # Stage
//
// A [Stage] is the scene the core hit-tests against. It holds [Actor] values
// in a tree rooted at a root layer, plus an ordered list of [RenderTask]s,
// each pairing a [Camera] with the subtree it views. Actors are referenced
// weakly through [ActorHandle]; a handle to a disposed actor resolves to nil.
// Any scene can be used for raw hit-testing through the [Snapshot] interface
// and [HitTest].
//
// # Touch
//
// An actor with an OnTouch callback receives every event whose primary point
// hits it. Returning false passes the event to the parent. Actors that set
// LeaveRequired hear when the point moves off them, and actors that stop
// being hittable mid-sequence receive PointInterrupted.
//
// # Gestures
//
// Detectors recognize pan, tap, pinch and long-press gestures on the actors
// attached to them. A gesture goes to the deepest hit actor with an
// accepting detector; actors that set NeedsGesturePropagation pass it on to
// the next accepting ancestor as well. Every recipient of one gesture sees
// the same [GestureEvent.Sequence].
//
// Handlers may detach detectors, remove callbacks or dispose actors while
// they run; those changes are applied once the current delivery completes.
//
// # Configuration
//
// Thresholds live in [Config], which can be loaded from TOML with
// [LoadConfig]. Pan positions can be extrapolated and smoothed by the
// [Predictor]; both stages are off by default.
//
// # Testing
//
// [Processor.SetClock] makes timeouts deterministic. Synthetic input can be
// queued with [Processor.InjectDown] and friends, or scripted as JSON with
// [LoadReplay].
//
// # Integrations
//
// The ecs subpackage publishes interaction events into a Donburi world, and
// ebitensource turns Ebitengine mouse and touch state into samples.
package gesture
