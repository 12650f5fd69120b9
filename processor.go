package gesture

import "time"

// Processor owns the input pipeline for one stage: combiner, hit-test
// resolver, touch delivery, recognizers, predictor and dispatcher. All
// methods must be called from the goroutine that owns the stage.
type Processor struct {
	stage *Stage
	cfg   Config

	combiner  *Combiner
	resolver  *Resolver
	predictor *Predictor

	recognizers [numKinds]recognizer
	enabled     [numKinds]bool
	trackers    [numKinds]tracker
	detectors   []*Detector
	attachSeq   uint64

	touch    touchState
	handlers handlerRegistry
	queue    deferQueue

	store EntityStore
	clock func() uint32
	debug bool

	injectQueue []PointSample
	replay      *ReplayRunner
}

// NewProcessor creates the pipeline for stage. cfg is normalized first.
func NewProcessor(stage *Stage, cfg Config) *Processor {
	cfg.normalize()
	p := &Processor{
		stage:     stage,
		cfg:       cfg,
		combiner:  NewCombiner(cfg.MinMotionTime, Vec2{cfg.MinMotionDistanceX, cfg.MinMotionDistanceY}),
		resolver:  NewResolver(TouchCheck),
		predictor: NewPredictor(cfg.Prediction),
	}
	for k := range p.recognizers {
		p.recognizers[k] = kinds[k].newRecognizer(cfg)
	}
	p.combiner.SetBatching(cfg.Batching)
	p.SetDebugMode(cfg.Debug)

	start := time.Now()
	p.clock = func() uint32 { return uint32(time.Since(start).Milliseconds()) }

	stage.queue = &p.queue
	stage.onRelease(p.actorReleased)
	return p
}

// Stage returns the stage the processor reads.
func (p *Processor) Stage() *Stage {
	return p.stage
}

// Config returns the normalized configuration.
func (p *Processor) Config() Config {
	return p.cfg
}

// SetClock replaces the millisecond clock used for timeouts and for
// injected samples. The default counts from NewProcessor.
func (p *Processor) SetClock(fn func() uint32) {
	p.clock = fn
}

// Now returns the current clock value in ms.
func (p *Processor) Now() uint32 {
	return p.clock()
}

// SetEntityStore sets the ECS bridge. Pass nil to disable.
func (p *Processor) SetEntityStore(store EntityStore) {
	p.store = store
}

// SetErrorHandler sets the function that receives protocol violations.
func (p *Processor) SetErrorHandler(fn func(error)) {
	p.combiner.SetErrorHandler(fn)
}

// SetDebugMode enables stderr diagnostics for the whole pipeline.
func (p *Processor) SetDebugMode(enabled bool) {
	p.debug = enabled
	p.combiner.SetDebugMode(enabled)
	p.stage.SetDebugMode(enabled)
}

// --- Detectors ---

// NewPanDetector creates a pan detector needing one touch.
func (p *Processor) NewPanDetector() *Detector {
	return newDetector(p, KindPan)
}

// NewTapDetector creates a single-tap, single-touch detector.
func (p *Processor) NewTapDetector() *Detector {
	return newDetector(p, KindTap)
}

// NewPinchDetector creates a two-touch pinch detector.
func (p *Processor) NewPinchDetector() *Detector {
	return newDetector(p, KindPinch)
}

// NewLongPressDetector creates a single-touch long-press detector.
func (p *Processor) NewLongPressDetector() *Detector {
	return newDetector(p, KindLongPress)
}

// updateRecognizer merges the thresholds of every detector of kind that has
// attached actors. A kind with none stops receiving events.
func (p *Processor) updateRecognizer(kind GestureKind) {
	var req gestureRequest
	first := true
	for _, d := range p.detectors {
		if d.kind != kind || len(d.attached) == 0 {
			continue
		}
		kinds[kind].request(d, &req, first)
		first = false
	}
	if first {
		if p.enabled[kind] {
			p.enabled[kind] = false
			p.recognizers[kind].reset()
			p.trackers[kind].clear()
			if kind == KindPan {
				p.predictor.Reset()
			}
		}
		return
	}
	p.enabled[kind] = true
	p.recognizers[kind].update(req)
}

// actorReleased runs while a is disposed, before its handle goes stale.
func (p *Processor) actorReleased(a *Actor) {
	p.touchActorReleased(a)
	for _, d := range p.detectors {
		if d.attachedIndex(a.handle) >= 0 {
			d.detach(a.handle)
		}
	}
}

// --- Input ---

// Feed runs one sample through the pipeline. In batching mode the combined
// event waits for the next Tick.
func (p *Processor) Feed(s PointSample) {
	if ev, ok := p.combiner.Combine(s); ok {
		p.process(ev)
	}
}

// FeedAll feeds samples in order. Panics when called with no samples.
func (p *Processor) FeedAll(samples ...PointSample) {
	if len(samples) == 0 {
		panic("gesture: feed called with no points")
	}
	for _, s := range samples {
		p.Feed(s)
	}
}

// process resolves one combined event, delivers touch and then runs every
// enabled recognizer.
func (p *Processor) process(ev TouchEvent) {
	p.queue.enter()
	defer p.queue.leave()

	results := p.resolver.Resolve(ev, p.stage)
	p.resolver.Observe(results)
	p.deliverTouch(ev, results)

	for k := range p.recognizers {
		if !p.enabled[k] {
			continue
		}
		for _, r := range p.recognizers[k].sendEvent(ev) {
			p.dispatch(GestureKind(k), r)
		}
	}
}

// Tick advances one frame: the replay runner steps, one injected sample is
// fed, batched events are flushed and recognizer timeouts run.
func (p *Processor) Tick() {
	if p.replay != nil {
		p.replay.step(p)
	}
	p.drainInjected()
	for _, ev := range p.combiner.Flush() {
		p.process(ev)
	}

	now := p.clock()
	p.queue.enter()
	defer p.queue.leave()
	for k := range p.recognizers {
		if !p.enabled[k] {
			continue
		}
		for _, r := range p.recognizers[k].tick(now) {
			p.dispatch(GestureKind(k), r)
		}
	}
}

// Reset cancels every active sequence, delivering Cancelled and touch
// Interrupted notifications, then clears the combiner, resolver and
// predictor. Use it when the input surface is recreated.
func (p *Processor) Reset() {
	busy := p.combiner.PressedCount() > 0 || p.touch != (touchState{})
	for k := range p.trackers {
		busy = busy || p.trackers[k].active
	}
	if busy {
		ev, _ := p.combiner.combine(PointSample{State: PointInterrupted, Time: p.clock()})
		p.process(ev)
	}
	for k := range p.recognizers {
		p.recognizers[k].reset()
		p.trackers[k].clear()
	}
	p.combiner.Reset()
	p.resolver.Reset()
	p.predictor.Reset()
	p.touch.reset()
	p.injectQueue = p.injectQueue[:0]
}
