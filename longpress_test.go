package gesture

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newLongPress() *longPressRecognizer {
	r := newLongPressRecognizer(DefaultConfig().LongPress)
	r.update(gestureRequest{minTouches: 1, maxTouches: 1})
	return r
}

func TestLongPressHeld(t *testing.T) {
	r := newLongPress()
	out := runRecognizer(r, down(0, 10, 10, 0))
	if out2 := r.tick(499); len(out2) != 0 {
		t.Fatalf("tick before the hold time emitted %v", statesOf(out2))
	}
	out = append(out, r.tick(500)...)
	if more := r.tick(800); len(more) != 0 {
		t.Errorf("second tick emitted %v", statesOf(more))
	}

	want := []GestureState{StatePossible, StateStarted}
	if diff := cmp.Diff(want, statesOf(out)); diff != "" {
		t.Fatalf("states mismatch (-want +got):\n%s", diff)
	}
	if out[1].duration != 500 {
		t.Errorf("Started duration = %d, want 500", out[1].duration)
	}
}

func TestLongPressFinishedOnUp(t *testing.T) {
	r := newLongPress()
	c := NewCombiner(1, Vec2{1, 1})
	var out []recognized
	send := func(s PointSample) {
		if ev, ok := c.Combine(s); ok {
			out = append(out, r.sendEvent(ev)...)
		}
	}
	send(down(0, 10, 10, 0))
	out = append(out, r.tick(500)...)
	send(up(0, 12, 10, 700))

	want := []GestureState{StatePossible, StateStarted, StateFinished}
	if diff := cmp.Diff(want, statesOf(out)); diff != "" {
		t.Fatalf("states mismatch (-want +got):\n%s", diff)
	}
	fin := out[2]
	if fin.duration != 700 || fin.screen != (Vec2{12, 10}) {
		t.Errorf("Finished = duration %d at %v, want 700 at {12 10}", fin.duration, fin.screen)
	}
	if r.phase != longPressClear {
		t.Error("recognizer should be clear after the last Up")
	}
}

func TestLongPressLateSampleStartsFirst(t *testing.T) {
	r := newLongPress()
	c := NewCombiner(1, Vec2{1, 1})
	var out []recognized
	for _, s := range []PointSample{down(0, 10, 10, 0), move(0, 12, 10, 600)} {
		if ev, ok := c.Combine(s); ok {
			out = append(out, r.sendEvent(ev)...)
		}
	}
	want := []GestureState{StatePossible, StateStarted}
	if diff := cmp.Diff(want, statesOf(out)); diff != "" {
		t.Fatalf("states mismatch (-want +got):\n%s", diff)
	}
	if out[1].time != 500 {
		t.Errorf("Started time = %d, want the hold deadline 500", out[1].time)
	}
}

func TestLongPressCancels(t *testing.T) {
	tests := []struct {
		name    string
		samples []PointSample
	}{
		{"released early", []PointSample{down(0, 10, 10, 0), up(0, 10, 10, 200)}},
		{"moved too far", []PointSample{down(0, 10, 10, 0), move(0, 40, 10, 100)}},
		{"second touch", []PointSample{down(0, 10, 10, 0), down(1, 50, 50, 100)}},
		{"interrupted", []PointSample{down(0, 10, 10, 0), interrupt(100)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newLongPress()
			out := runRecognizer(r, tt.samples...)
			want := []GestureState{StatePossible, StateCancelled}
			if diff := cmp.Diff(want, statesOf(out)); diff != "" {
				t.Fatalf("states mismatch (-want +got):\n%s", diff)
			}
			if out := r.tick(1000); len(out) != 0 {
				t.Errorf("tick after cancel emitted %v", statesOf(out))
			}
		})
	}
}

func TestLongPressInterruptAfterStart(t *testing.T) {
	r := newLongPress()
	out := runRecognizer(r, down(0, 10, 10, 0))
	out = append(out, r.tick(600)...)
	out = append(out, runRecognizer(r, interrupt(700))...)
	want := []GestureState{StatePossible, StateStarted, StateCancelled}
	if diff := cmp.Diff(want, statesOf(out)); diff != "" {
		t.Errorf("states mismatch (-want +got):\n%s", diff)
	}
}

func TestLongPressTwoTouches(t *testing.T) {
	r := newLongPressRecognizer(DefaultConfig().LongPress)
	r.update(gestureRequest{minTouches: 2, maxTouches: 2})

	out := runRecognizer(r, down(0, 10, 10, 0), down(1, 50, 50, 10))
	out = append(out, r.tick(600)...)
	want := []GestureState{StatePossible, StateStarted}
	if diff := cmp.Diff(want, statesOf(out)); diff != "" {
		t.Fatalf("states mismatch (-want +got):\n%s", diff)
	}
	if out[1].touches != 2 {
		t.Errorf("touches = %d, want 2", out[1].touches)
	}
}
