// Package ebitensource turns Ebitengine mouse and touch state into gesture
// point samples.
//
// Call Update once per ebiten.Game.Update, before Processor.Tick:
//
//	func (g *Game) Update() error {
//		g.source.Update(g.proc)
//		g.proc.Tick()
//		return nil
//	}
package ebitensource

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/gesture"
)

// MouseDevice is the device id used for the left mouse button. Touches use
// their Ebitengine touch id plus one.
const MouseDevice int32 = 0

// Touch is one active touch in a Frame.
type Touch struct {
	ID   ebiten.TouchID
	X, Y float64
}

// Frame is the pointer state read in one tick.
type Frame struct {
	MouseDown bool
	MouseX    float64
	MouseY    float64
	Touches   []Touch
}

// Source diffs successive frames into samples.
type Source struct {
	// MouseEnabled reports the left mouse button as a touch. It is on by
	// default.
	MouseEnabled bool

	mouseDown bool
	mousePos  gesture.Vec2
	touches   map[int32]gesture.Vec2
	order     []int32 // pressed touch devices in press order

	ids     []ebiten.TouchID
	frame   Frame
	samples []gesture.PointSample
}

// New creates a Source with mouse input enabled.
func New() *Source {
	return &Source{MouseEnabled: true, touches: make(map[int32]gesture.Vec2)}
}

// Read captures the current Ebitengine pointer state.
func (s *Source) Read() Frame {
	f := &s.frame
	f.Touches = f.Touches[:0]
	mx, my := ebiten.CursorPosition()
	f.MouseX, f.MouseY = float64(mx), float64(my)
	f.MouseDown = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	s.ids = ebiten.AppendTouchIDs(s.ids[:0])
	for _, id := range s.ids {
		tx, ty := ebiten.TouchPosition(id)
		f.Touches = append(f.Touches, Touch{ID: id, X: float64(tx), Y: float64(ty)})
	}
	return *f
}

// Update reads the current state and feeds the resulting samples to p,
// stamped with p's clock.
func (s *Source) Update(p *gesture.Processor) {
	for _, smp := range s.Diff(s.Read(), p.Now()) {
		p.Feed(smp)
	}
}

// Diff compares f with the previous frame and returns the samples that
// describe the change: Up for released points first, then Motion for moved
// points, then Down for new ones. The returned slice is reused by the next
// call.
func (s *Source) Diff(f Frame, now uint32) []gesture.PointSample {
	out := s.samples[:0]

	// Mouse.
	mouse := gesture.Vec2{X: f.MouseX, Y: f.MouseY}
	mouseDown := s.MouseEnabled && f.MouseDown
	switch {
	case s.mouseDown && !mouseDown:
		out = append(out, sample(MouseDevice, gesture.PointUp, mouse, now))
	case s.mouseDown && mouse != s.mousePos:
		out = append(out, sample(MouseDevice, gesture.PointMotion, mouse, now))
	case !s.mouseDown && mouseDown:
		out = append(out, sample(MouseDevice, gesture.PointDown, mouse, now))
	}
	s.mouseDown = mouseDown
	s.mousePos = mouse

	// Touches released since the last frame, at their last known position.
	kept := s.order[:0]
	for _, dev := range s.order {
		if frameHas(f, dev) {
			kept = append(kept, dev)
			continue
		}
		out = append(out, sample(dev, gesture.PointUp, s.touches[dev], now))
		delete(s.touches, dev)
	}
	s.order = kept

	for _, t := range f.Touches {
		dev := deviceID(t.ID)
		pos := gesture.Vec2{X: t.X, Y: t.Y}
		prev, ok := s.touches[dev]
		switch {
		case !ok:
			out = append(out, sample(dev, gesture.PointDown, pos, now))
			s.order = append(s.order, dev)
		case prev != pos:
			out = append(out, sample(dev, gesture.PointMotion, pos, now))
		default:
			continue
		}
		s.touches[dev] = pos
	}

	s.samples = out
	return out
}

// Pressed returns the number of points currently held.
func (s *Source) Pressed() int {
	n := len(s.order)
	if s.mouseDown {
		n++
	}
	return n
}

func deviceID(id ebiten.TouchID) int32 {
	return int32(id) + 1
}

func frameHas(f Frame, dev int32) bool {
	for _, t := range f.Touches {
		if deviceID(t.ID) == dev {
			return true
		}
	}
	return false
}

func sample(dev int32, state gesture.PointState, pos gesture.Vec2, now uint32) gesture.PointSample {
	return gesture.PointSample{DeviceID: dev, State: state, Screen: pos, Time: now, Pressure: 1}
}
