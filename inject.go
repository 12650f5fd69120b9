package gesture

// InjectDown queues a Down for device id at the given screen coordinates.
// Injected samples are fed one per Tick and stamped with the processor's
// clock when they are fed.
func (p *Processor) InjectDown(id int32, x, y float64) {
	p.inject(id, PointDown, x, y)
}

// InjectMove queues a Motion for device id.
func (p *Processor) InjectMove(id int32, x, y float64) {
	p.inject(id, PointMotion, x, y)
}

// InjectUp queues an Up for device id.
func (p *Processor) InjectUp(id int32, x, y float64) {
	p.inject(id, PointUp, x, y)
}

// InjectInterrupt queues an Interrupted sample, which cancels everything in
// progress when it is fed.
func (p *Processor) InjectInterrupt() {
	p.inject(0, PointInterrupted, 0, 0)
}

// InjectTap is a convenience that queues a Down followed by an Up for device
// 0 at the same coordinates. Consumes two ticks.
func (p *Processor) InjectTap(x, y float64) {
	p.InjectDown(0, x, y)
	p.InjectUp(0, x, y)
}

// InjectDrag queues a full drag for device 0: a Down at (fromX, fromY),
// linearly interpolated moves over ticks-2 intermediate ticks, and an Up at
// (toX, toY). The sequence consumes ticks ticks; the minimum is 2.
func (p *Processor) InjectDrag(fromX, fromY, toX, toY float64, ticks int) {
	if ticks < 2 {
		ticks = 2
	}
	p.InjectDown(0, fromX, fromY)
	steps := ticks - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		x := fromX + (toX-fromX)*t
		y := fromY + (toY-fromY)*t
		p.InjectMove(0, x, y)
	}
	p.InjectUp(0, toX, toY)
}

// Injecting reports whether injected samples are waiting to be fed.
func (p *Processor) Injecting() bool {
	return len(p.injectQueue) > 0
}

func (p *Processor) inject(id int32, state PointState, x, y float64) {
	p.injectQueue = append(p.injectQueue, PointSample{
		DeviceID: id,
		State:    state,
		Screen:   Vec2{x, y},
	})
}

// drainInjected feeds the oldest injected sample, if any.
func (p *Processor) drainInjected() bool {
	if len(p.injectQueue) == 0 {
		return false
	}
	s := p.injectQueue[0]
	copy(p.injectQueue, p.injectQueue[1:])
	p.injectQueue = p.injectQueue[:len(p.injectQueue)-1]

	s.Time = p.clock()
	p.Feed(s)
	return true
}
