package ebitensource

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/phanxgames/gesture"
)

type step struct {
	id    int32
	state gesture.PointState
	x, y  float64
}

func steps(samples []gesture.PointSample) []step {
	out := make([]step, len(samples))
	for i, s := range samples {
		out[i] = step{s.DeviceID, s.State, s.Screen.X, s.Screen.Y}
	}
	return out
}

func TestDiffMouse(t *testing.T) {
	s := New()
	frames := []struct {
		name  string
		frame Frame
		want  []step
	}{
		{"idle", Frame{MouseX: 5, MouseY: 5}, []step{}},
		{"press", Frame{MouseDown: true, MouseX: 10, MouseY: 20}, []step{{0, gesture.PointDown, 10, 20}}},
		{"hold", Frame{MouseDown: true, MouseX: 10, MouseY: 20}, []step{}},
		{"drag", Frame{MouseDown: true, MouseX: 30, MouseY: 20}, []step{{0, gesture.PointMotion, 30, 20}}},
		{"release", Frame{MouseX: 30, MouseY: 25}, []step{{0, gesture.PointUp, 30, 25}}},
		{"hover", Frame{MouseX: 40, MouseY: 40}, []step{}},
	}
	for i, f := range frames {
		got := steps(s.Diff(f.frame, uint32(i*16)))
		if diff := cmp.Diff(f.want, got, cmp.AllowUnexported(step{})); diff != "" {
			t.Errorf("%s: samples mismatch (-want +got):\n%s", f.name, diff)
		}
	}
}

func TestDiffTouches(t *testing.T) {
	s := New()
	s.MouseEnabled = false

	got := steps(s.Diff(Frame{Touches: []Touch{{ID: 3, X: 1, Y: 1}}}, 0))
	want := []step{{4, gesture.PointDown, 1, 1}}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(step{})); diff != "" {
		t.Errorf("first touch (-want +got):\n%s", diff)
	}

	got = steps(s.Diff(Frame{Touches: []Touch{{ID: 3, X: 2, Y: 1}, {ID: 5, X: 50, Y: 50}}}, 16))
	want = []step{{4, gesture.PointMotion, 2, 1}, {6, gesture.PointDown, 50, 50}}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(step{})); diff != "" {
		t.Errorf("second touch (-want +got):\n%s", diff)
	}
	if s.Pressed() != 2 {
		t.Errorf("Pressed = %d, want 2", s.Pressed())
	}

	// Releases come first, at the last known position.
	got = steps(s.Diff(Frame{Touches: []Touch{{ID: 5, X: 60, Y: 50}}}, 32))
	want = []step{{4, gesture.PointUp, 2, 1}, {6, gesture.PointMotion, 60, 50}}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(step{})); diff != "" {
		t.Errorf("release (-want +got):\n%s", diff)
	}

	got = steps(s.Diff(Frame{}, 48))
	want = []step{{6, gesture.PointUp, 60, 50}}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(step{})); diff != "" {
		t.Errorf("last release (-want +got):\n%s", diff)
	}
	if s.Pressed() != 0 {
		t.Errorf("Pressed = %d, want 0", s.Pressed())
	}
}

func TestDiffMouseDisabled(t *testing.T) {
	s := New()
	s.MouseEnabled = false
	if got := s.Diff(Frame{MouseDown: true}, 0); len(got) != 0 {
		t.Errorf("disabled mouse produced %d samples", len(got))
	}
}

func TestDiffTimestamps(t *testing.T) {
	s := New()
	got := s.Diff(Frame{MouseDown: true}, 123)
	if len(got) != 1 || got[0].Time != 123 {
		t.Fatalf("got %+v, want one sample at 123", got)
	}
}

func TestDiffDrivesProcessor(t *testing.T) {
	stage := gesture.NewStage(100, 100)
	box := stage.NewActor("box")
	box.SetSize(100, 100)
	stage.Root().AddChild(box)

	proc := gesture.NewProcessor(stage, gesture.DefaultConfig())
	pan := proc.NewPanDetector()
	pan.Attach(box)
	var states []gesture.GestureState
	pan.Connect(func(_ *gesture.Actor, ev gesture.GestureEvent) {
		states = append(states, ev.State)
	})

	s := New()
	frames := []Frame{
		{MouseDown: true, MouseX: 10, MouseY: 10},
		{MouseDown: true, MouseX: 40, MouseY: 10},
		{MouseDown: true, MouseX: 60, MouseY: 10},
		{MouseX: 60, MouseY: 10},
	}
	for i, f := range frames {
		for _, smp := range s.Diff(f, uint32(100+i*16)) {
			proc.Feed(smp)
		}
	}
	want := []gesture.GestureState{gesture.StateStarted, gesture.StateContinuing, gesture.StateFinished}
	if diff := cmp.Diff(want, states); diff != "" {
		t.Errorf("pan states (-want +got):\n%s", diff)
	}
}
