package gesture

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func down(id int32, x, y float64, time uint32) PointSample {
	return PointSample{DeviceID: id, State: PointDown, Screen: Vec2{x, y}, Time: time}
}

func move(id int32, x, y float64, time uint32) PointSample {
	return PointSample{DeviceID: id, State: PointMotion, Screen: Vec2{x, y}, Time: time}
}

func up(id int32, x, y float64, time uint32) PointSample {
	return PointSample{DeviceID: id, State: PointUp, Screen: Vec2{x, y}, Time: time}
}

func interrupt(time uint32) PointSample {
	return PointSample{State: PointInterrupted, Time: time}
}

func pointStates(ev TouchEvent) []PointState {
	out := make([]PointState, len(ev.Points))
	for i, p := range ev.Points {
		out[i] = p.State
	}
	return out
}

func TestCombinerSingleTouch(t *testing.T) {
	c := NewCombiner(1, Vec2{1, 1})
	evs := c.CombineAll(down(0, 10, 10, 0), move(0, 20, 10, 10), up(0, 20, 10, 20))
	if len(evs) != 3 {
		t.Fatalf("events = %d, want 3", len(evs))
	}
	want := []PointState{PointDown, PointMotion, PointUp}
	for i, ev := range evs {
		if ev.PointCount() != 1 || ev.Primary().State != want[i] {
			t.Errorf("event %d = %v, want single %s", i, pointStates(ev), want[i])
		}
	}
	if c.PressedCount() != 0 {
		t.Errorf("PressedCount = %d, want 0", c.PressedCount())
	}
}

func TestCombinerMultiTouchStationary(t *testing.T) {
	c := NewCombiner(1, Vec2{1, 1})
	c.Combine(down(0, 10, 10, 0))
	ev, ok := c.Combine(down(1, 50, 50, 5))
	if !ok {
		t.Fatal("second Down dropped")
	}
	if diff := cmp.Diff([]PointState{PointStationary, PointDown}, pointStates(ev)); diff != "" {
		t.Errorf("states mismatch (-want +got):\n%s", diff)
	}

	ev, _ = c.Combine(move(1, 60, 50, 10))
	if diff := cmp.Diff([]PointState{PointStationary, PointMotion}, pointStates(ev)); diff != "" {
		t.Errorf("states mismatch (-want +got):\n%s", diff)
	}

	// The Up event still carries the lifting point.
	ev, _ = c.Combine(up(0, 10, 10, 20))
	if diff := cmp.Diff([]PointState{PointUp, PointStationary}, pointStates(ev)); diff != "" {
		t.Errorf("states mismatch (-want +got):\n%s", diff)
	}
	if c.PressedCount() != 1 {
		t.Errorf("PressedCount = %d, want 1", c.PressedCount())
	}
}

func TestCombinerMotionThresholds(t *testing.T) {
	tests := []struct {
		name   string
		sample PointSample
		want   bool
	}{
		{"too soon", move(0, 50, 50, 100), false},
		{"too short", move(0, 10.5, 10.5, 120), false},
		{"one axis enough", move(0, 10.5, 12, 120), true},
		{"far and late", move(0, 30, 30, 120), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCombiner(10, Vec2{1, 1})
			c.Combine(down(0, 10, 10, 100))
			if _, ok := c.Combine(tt.sample); ok != tt.want {
				t.Errorf("ok = %v, want %v", ok, tt.want)
			}
		})
	}
}

func TestCombinerProtocolErrors(t *testing.T) {
	var got []error
	c := NewCombiner(1, Vec2{1, 1})
	c.SetErrorHandler(func(err error) { got = append(got, err) })

	if _, ok := c.Combine(up(3, 0, 0, 0)); ok {
		t.Error("Up without Down should be dropped")
	}
	if _, ok := c.Combine(move(3, 5, 5, 0)); ok {
		t.Error("Motion without Down should be dropped")
	}
	c.Combine(down(0, 0, 0, 0))
	if _, ok := c.Combine(down(0, 5, 5, 1)); ok {
		t.Error("duplicate Down should be dropped")
	}

	if len(got) != 3 {
		t.Fatalf("errors = %d, want 3", len(got))
	}
	if !errors.Is(got[0], ErrNoPriorDown) || !errors.Is(got[1], ErrNoPriorDown) {
		t.Errorf("errors = %v, want ErrNoPriorDown", got[:2])
	}
	var pe *ProtocolError
	if !errors.As(got[2], &pe) || pe.DeviceID != 0 || !errors.Is(pe, ErrDuplicateDown) {
		t.Errorf("error = %v, want duplicate down for device 0", got[2])
	}
}

func TestCombinerInterruptClears(t *testing.T) {
	c := NewCombiner(1, Vec2{1, 1})
	c.CombineAll(down(0, 0, 0, 0), down(1, 5, 5, 0))
	ev, ok := c.Combine(interrupt(10))
	if !ok || ev.PointCount() != 1 || ev.Primary().State != PointInterrupted {
		t.Fatalf("interrupt event = %v, want single Interrupted", pointStates(ev))
	}
	if c.PressedCount() != 0 {
		t.Errorf("PressedCount = %d, want 0", c.PressedCount())
	}
}

func TestCombinerBatching(t *testing.T) {
	c := NewCombiner(1, Vec2{1, 1})
	c.SetBatching(true)
	if !c.Batching() {
		t.Fatal("Batching = false")
	}
	for _, s := range []PointSample{
		down(0, 0, 0, 0),
		move(0, 10, 0, 10),
		move(0, 20, 0, 20),
		move(0, 30, 0, 30),
		up(0, 30, 0, 40),
	} {
		if _, ok := c.Combine(s); ok {
			t.Fatalf("Combine returned an event in batching mode for %s", s.State)
		}
	}

	evs := c.Flush()
	if len(evs) != 3 {
		t.Fatalf("flushed %d events, want 3 (down, merged motion, up)", len(evs))
	}
	if evs[1].Primary().Screen != (Vec2{30, 0}) {
		t.Errorf("merged motion at %v, want newest position", evs[1].Primary().Screen)
	}
	if c.Flush() != nil {
		t.Error("second Flush should be empty")
	}
}

func TestCombinerBatchingKeepsMotionState(t *testing.T) {
	c := NewCombiner(1, Vec2{1, 1})
	c.SetBatching(true)
	c.CombineAll(down(0, 0, 0, 0), down(1, 50, 50, 0))
	c.Flush()

	c.Combine(move(0, 10, 0, 10))
	c.Combine(move(1, 60, 50, 20))
	evs := c.Flush()
	if len(evs) != 1 {
		t.Fatalf("flushed %d events, want 1", len(evs))
	}
	if diff := cmp.Diff([]PointState{PointMotion, PointMotion}, pointStates(evs[0])); diff != "" {
		t.Errorf("states mismatch (-want +got):\n%s", diff)
	}
}

func TestCombinerPanics(t *testing.T) {
	expectPanic(t, "negative distance", func() { NewCombiner(1, Vec2{-1, 0}) })
	expectPanic(t, "empty CombineAll", func() { NewCombiner(1, Vec2{}).CombineAll() })
}
