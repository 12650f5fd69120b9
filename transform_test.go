package gesture

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v)", name, i, got[i], want[i], got)
			return
		}
	}
}

// --- computeLocalTransform ---

func TestLocalTransformIdentity(t *testing.T) {
	s := NewStage(100, 100)
	a := s.NewActor("a")
	assertMatrix(t, "identity", computeLocalTransform(a), identityTransform)
}

func TestLocalTransformTranslation(t *testing.T) {
	s := NewStage(100, 100)
	a := s.NewActor("a")
	a.SetPosition(10, 20)
	assertMatrix(t, "translate", computeLocalTransform(a), [6]float64{1, 0, 0, 1, 10, 20})
}

func TestLocalTransformScaleAroundPivot(t *testing.T) {
	s := NewStage(100, 100)
	a := s.NewActor("a")
	a.SetPivot(5, 5)
	a.SetScale(2, 3)
	// The pivot maps to the actor's position.
	x, y := transformPoint(computeLocalTransform(a), 5, 5)
	assertNear(t, "pivot.x", x, 0)
	assertNear(t, "pivot.y", y, 0)
	x, y = transformPoint(computeLocalTransform(a), 6, 6)
	assertNear(t, "x", x, 2)
	assertNear(t, "y", y, 3)
}

func TestLocalTransformRotation(t *testing.T) {
	s := NewStage(100, 100)
	a := s.NewActor("a")
	a.SetRotation(math.Pi / 2)
	x, y := transformPoint(computeLocalTransform(a), 1, 0)
	assertNear(t, "x", x, 0)
	assertNear(t, "y", y, 1)
}

// --- multiplyAffine ---

func TestMultiplyAffineIdentity(t *testing.T) {
	m := [6]float64{2, 1, 3, 4, 5, 6}
	assertMatrix(t, "id*m", multiplyAffine(identityTransform, m), m)
	assertMatrix(t, "m*id", multiplyAffine(m, identityTransform), m)
}

func TestMultiplyAffineTranslations(t *testing.T) {
	a := [6]float64{1, 0, 0, 1, 10, 20}
	b := [6]float64{1, 0, 0, 1, 5, 3}
	assertMatrix(t, "translations", multiplyAffine(a, b), [6]float64{1, 0, 0, 1, 15, 23})
}

// --- invertAffine ---

func TestInvertAffine(t *testing.T) {
	m := [6]float64{2, 0, 0, 3, 10, 20}
	inv, ok := invertAffine(m)
	if !ok {
		t.Fatal("invertAffine reported singular")
	}
	assertMatrix(t, "m*inv=id", multiplyAffine(m, inv), identityTransform)
}

func TestInvertAffineComplex(t *testing.T) {
	s := NewStage(100, 100)
	a := s.NewActor("a")
	a.ScaleX = 2
	a.Rotation = math.Pi / 3
	m := computeLocalTransform(a)
	inv, _ := invertAffine(m)
	assertMatrix(t, "m*inv=id", multiplyAffine(m, inv), identityTransform)
}

func TestInvertAffineSingular(t *testing.T) {
	tests := []struct {
		name string
		m    [6]float64
	}{
		{"zero x scale", [6]float64{0, 0, 0, 1, 10, 20}},
		{"zero scale", [6]float64{0, 0, 0, 0, 50, 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, ok := invertAffine(tt.m)
			if ok {
				t.Error("ok = true, want false")
			}
			assertMatrix(t, "identity", inv, identityTransform)
		})
	}
}

// --- worldTransform ---

func TestWorldTransformParentChild(t *testing.T) {
	s := NewStage(100, 100)
	parent := s.NewActor("parent")
	child := s.NewActor("child")
	parent.AddChild(child)
	parent.X = 100
	child.X = 10

	assertNear(t, "parent.tx", parent.worldTransform()[4], 100)
	assertNear(t, "child.tx", child.worldTransform()[4], 110)
}

func TestWorldTransformFollowsParentMove(t *testing.T) {
	s := NewStage(100, 100)
	parent := s.NewActor("parent")
	child := s.NewActor("child")
	parent.AddChild(child)
	child.X = 10
	parent.SetPosition(100, 0)
	assertNear(t, "before", child.worldTransform()[4], 110)

	parent.SetPosition(200, 0)
	assertNear(t, "after", child.worldTransform()[4], 210)
}

func TestDeepHierarchy(t *testing.T) {
	s := NewStage(100, 100)
	actors := make([]*Actor, 10)
	for i := range actors {
		actors[i] = s.NewActor("")
		actors[i].X = 10
		if i > 0 {
			actors[i-1].AddChild(actors[i])
		}
	}
	assertNear(t, "deep.tx", actors[9].worldTransform()[4], 100)
}

func TestWorldDepth(t *testing.T) {
	s := NewStage(100, 100)
	parent := s.NewActor("parent")
	child := s.NewActor("child")
	parent.AddChild(child)
	parent.Z = 100
	child.Z = 50
	assertNear(t, "depth", child.worldDepth(), 150)
}

// --- Coordinate conversion ---

func TestWorldToLocalRoundtrip(t *testing.T) {
	s := NewStage(100, 100)
	parent := s.NewActor("parent")
	child := s.NewActor("child")
	parent.AddChild(child)
	parent.SetPosition(100, 50)
	child.SetPosition(10, 20)
	child.SetScale(2, 3)
	child.SetRotation(math.Pi / 6)

	wx, wy := 150.0, 80.0
	lx, ly, ok := child.WorldToLocal(wx, wy)
	if !ok {
		t.Fatal("WorldToLocal reported degenerate transform")
	}
	wx2, wy2 := child.LocalToWorld(lx, ly)
	assertNear(t, "roundtrip.x", wx2, wx)
	assertNear(t, "roundtrip.y", wy2, wy)
}

func TestWorldToLocalZeroScale(t *testing.T) {
	s := NewStage(100, 100)
	a := s.NewActor("a")
	a.SetScale(0, 0)
	if _, _, ok := a.WorldToLocal(100, 200); ok {
		t.Error("ok = true for zero scale, want false")
	}
}

func TestScreenToLocalThroughCamera(t *testing.T) {
	s := NewStage(800, 600)
	a := s.NewActor("a")
	a.SetPosition(50, 50)
	s.Root().AddChild(a)

	cam := NewCamera(Rect{Width: 800, Height: 600})
	cam.Zoom = 2
	task := &RenderTask{Camera: cam}

	// Screen center maps to the camera position (400, 300) in world space.
	local, ok := a.ScreenToLocal(task, 400, 300)
	if !ok {
		t.Fatal("ScreenToLocal failed")
	}
	assertNear(t, "x", local.X, 350)
	assertNear(t, "y", local.Y, 250)

	cam.Zoom = 0
	if _, ok := a.ScreenToLocal(task, 400, 300); ok {
		t.Error("ok = true with zero zoom, want false")
	}
}

// --- Benchmarks ---

func BenchmarkComputeLocalTransform(b *testing.B) {
	s := NewStage(100, 100)
	a := s.NewActor("bench")
	a.SetPosition(100, 200)
	a.SetScale(2, 3)
	a.SetRotation(0.5)
	a.SetPivot(16, 16)
	b.ReportAllocs()
	for b.Loop() {
		_ = computeLocalTransform(a)
	}
}
