package gesture

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestCameraDefaults(t *testing.T) {
	cam := NewCamera(Rect{X: 0, Y: 0, Width: 800, Height: 600})
	if cam.Zoom != 1.0 {
		t.Errorf("Zoom = %f, want 1.0", cam.Zoom)
	}
	if cam.X != 400 || cam.Y != 300 {
		t.Errorf("position = (%f,%f), want viewport center (400,300)", cam.X, cam.Y)
	}
	if cam.Distance != DefaultCameraDistance || cam.NearClip != DefaultNearClip || cam.FarClip != DefaultFarClip {
		t.Errorf("depth = %f [%f, %f], want defaults", cam.Distance, cam.NearClip, cam.FarClip)
	}
}

func TestCameraDefaultIsScreenSpace(t *testing.T) {
	cam := NewCamera(Rect{X: 0, Y: 0, Width: 800, Height: 600})
	wx, wy, ok := cam.ScreenToWorld(123, 45)
	if !ok {
		t.Fatal("ScreenToWorld failed")
	}
	if !approxEqual(wx, 123, epsilon) || !approxEqual(wy, 45, epsilon) {
		t.Errorf("ScreenToWorld(123,45) = (%f,%f), want (123,45)", wx, wy)
	}
}

func TestCameraTranslation(t *testing.T) {
	cam := NewCamera(Rect{X: 0, Y: 0, Width: 800, Height: 600})
	cam.X = 100
	cam.Y = 50
	sx, sy := cam.WorldToScreen(100, 50)
	if !approxEqual(sx, 400, epsilon) || !approxEqual(sy, 300, epsilon) {
		t.Errorf("WorldToScreen(100,50) with cam at (100,50) = (%f,%f), want (400,300)", sx, sy)
	}
}

func TestCameraZoom(t *testing.T) {
	cam := NewCamera(Rect{X: 0, Y: 0, Width: 800, Height: 600})
	cam.Zoom = 2.0
	sx1, _ := cam.WorldToScreen(1, 0)
	sx0, _ := cam.WorldToScreen(0, 0)
	if !approxEqual(sx1-sx0, 2.0, epsilon) {
		t.Errorf("screen distance at zoom 2 = %f, want 2.0", sx1-sx0)
	}
}

func TestCameraRotation90(t *testing.T) {
	cam := NewCamera(Rect{X: 0, Y: 0, Width: 800, Height: 600})
	cam.X, cam.Y = 0, 0
	cam.Rotation = math.Pi / 2
	// A world point to the right of the camera appears above the center.
	sx, sy := cam.WorldToScreen(10, 0)
	if !approxEqual(sx, 400, 1e-6) || !approxEqual(sy, 290, 1e-6) {
		t.Errorf("WorldToScreen(10,0) rotated = (%f,%f), want (400,290)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := NewCamera(Rect{X: 0, Y: 0, Width: 800, Height: 600})
	cam.X = 123
	cam.Y = 456
	cam.Zoom = 1.5
	cam.Rotation = 0.3

	wx, wy := 200.0, 300.0
	sx, sy := cam.WorldToScreen(wx, wy)
	wx2, wy2, ok := cam.ScreenToWorld(sx, sy)
	if !ok {
		t.Fatal("ScreenToWorld failed")
	}
	if !approxEqual(wx2, wx, 1e-6) || !approxEqual(wy2, wy, 1e-6) {
		t.Errorf("roundtrip = (%f,%f), want (%f,%f)", wx2, wy2, wx, wy)
	}
}

func TestCameraZeroZoomFailsPick(t *testing.T) {
	cam := NewCamera(Rect{X: 0, Y: 0, Width: 800, Height: 600})
	cam.Zoom = 0
	if _, _, ok := cam.pickingPoint(10, 10); ok {
		t.Error("pickingPoint ok with zero zoom")
	}
	if _, _, ok := cam.ScreenToWorld(10, 10); ok {
		t.Error("ScreenToWorld ok with zero zoom")
	}
}

func TestCameraDepthInRange(t *testing.T) {
	cam := NewCamera(Rect{Width: 100, Height: 100})
	tests := []struct {
		z    float64
		want bool
	}{
		{0, true},
		{800, true},
		{801, false},
		{-800, true},
		{-801, false},
	}
	for _, tt := range tests {
		if got := cam.depthInRange(tt.z); got != tt.want {
			t.Errorf("depthInRange(%v) = %v, want %v", tt.z, got, tt.want)
		}
	}
}

func TestVisibleBoundsZoom(t *testing.T) {
	tests := []struct {
		name string
		zoom float64
		w, h float64
	}{
		{"zoom1", 1, 800, 600},
		{"zoom2", 2, 400, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(Rect{X: 0, Y: 0, Width: 800, Height: 600})
			cam.Zoom = tt.zoom
			b := cam.VisibleBounds()
			if !approxEqual(b.Width, tt.w, 1e-6) || !approxEqual(b.Height, tt.h, 1e-6) {
				t.Errorf("VisibleBounds size = (%f,%f), want (%f,%f)", b.Width, b.Height, tt.w, tt.h)
			}
		})
	}
}

func TestCameraFollow(t *testing.T) {
	s := NewStage(800, 600)
	cam := s.DefaultRenderTask().Camera
	target := s.NewActor("target")
	target.SetPosition(200, 150)
	s.Root().AddChild(target)

	cam.Follow(target, 0, 0, 1.0)
	s.Update(1.0 / 60.0)
	if !approxEqual(cam.X, 200, epsilon) || !approxEqual(cam.Y, 150, epsilon) {
		t.Errorf("after follow snap: cam = (%f,%f), want (200,150)", cam.X, cam.Y)
	}
}

func TestCameraFollowLerp(t *testing.T) {
	s := NewStage(800, 600)
	cam := NewCamera(Rect{Width: 800, Height: 600})
	cam.X, cam.Y = 0, 0
	target := s.NewActor("target")
	target.SetPosition(100, 0)

	cam.Follow(target, 0, 0, 0.5)
	cam.update(1.0 / 60.0)
	if !approxEqual(cam.X, 50, epsilon) {
		t.Errorf("after lerp 0.5: cam.X = %f, want 50", cam.X)
	}
}

func TestCameraFollowWithOffset(t *testing.T) {
	s := NewStage(800, 600)
	cam := NewCamera(Rect{Width: 800, Height: 600})
	target := s.NewActor("target")
	target.SetPosition(100, 100)

	cam.Follow(target, 10, -20, 1.0)
	cam.update(1.0 / 60.0)
	if !approxEqual(cam.X, 110, epsilon) || !approxEqual(cam.Y, 80, epsilon) {
		t.Errorf("follow with offset: cam = (%f,%f), want (110,80)", cam.X, cam.Y)
	}
}

func TestCameraUnfollow(t *testing.T) {
	s := NewStage(800, 600)
	cam := NewCamera(Rect{Width: 800, Height: 600})
	target := s.NewActor("target")
	target.SetPosition(100, 100)

	cam.Follow(target, 0, 0, 1.0)
	cam.update(1.0 / 60.0)
	cam.Unfollow()

	target.SetPosition(500, 100)
	cam.update(1.0 / 60.0)
	if !approxEqual(cam.X, 100, epsilon) {
		t.Errorf("after unfollow: cam.X = %f, want 100", cam.X)
	}
}

func TestCameraFollowDisposedTarget(t *testing.T) {
	s := NewStage(800, 600)
	cam := NewCamera(Rect{Width: 800, Height: 600})
	target := s.NewActor("target")
	target.SetPosition(100, 100)
	cam.Follow(target, 0, 0, 1.0)

	target.Dispose()
	cam.update(1.0 / 60.0)
	if cam.followTarget != 0 {
		t.Error("camera still follows a disposed actor")
	}
	if !approxEqual(cam.X, 400, epsilon) {
		t.Errorf("cam.X = %f, want unchanged 400", cam.X)
	}
}

func TestCameraScrollTo(t *testing.T) {
	cam := NewCamera(Rect{X: 0, Y: 0, Width: 800, Height: 600})
	cam.X, cam.Y = 0, 0
	cam.ScrollTo(100, 200, 1.0, ease.Linear)
	if !cam.Scrolling() {
		t.Fatal("Scrolling = false after ScrollTo")
	}

	cam.update(0.5)
	if !approxEqual(cam.X, 50, 1.0) || !approxEqual(cam.Y, 100, 1.0) {
		t.Errorf("scroll halfway: cam = (%f,%f), want ~(50,100)", cam.X, cam.Y)
	}

	cam.update(0.5)
	if !approxEqual(cam.X, 100, 1.0) || !approxEqual(cam.Y, 200, 1.0) {
		t.Errorf("scroll end: cam = (%f,%f), want ~(100,200)", cam.X, cam.Y)
	}
	if cam.Scrolling() {
		t.Error("Scrolling = true after completion")
	}
}

func TestCameraBounds(t *testing.T) {
	cam := NewCamera(Rect{X: 0, Y: 0, Width: 100, Height: 100})
	cam.SetBounds(Rect{X: 0, Y: 0, Width: 1000, Height: 1000})

	cam.X = 0
	cam.Y = 0
	cam.update(0)
	if cam.X < 50 || cam.Y < 50 {
		t.Errorf("bounds clamp min: cam = (%f,%f), want >= (50,50)", cam.X, cam.Y)
	}

	cam.X = 999
	cam.Y = 999
	cam.update(0)
	if cam.X > 950 || cam.Y > 950 {
		t.Errorf("bounds clamp max: cam = (%f,%f), want <= (950,950)", cam.X, cam.Y)
	}
}

func TestCameraClearBounds(t *testing.T) {
	cam := NewCamera(Rect{X: 0, Y: 0, Width: 100, Height: 100})
	cam.SetBounds(Rect{X: 0, Y: 0, Width: 1000, Height: 1000})
	cam.ClearBounds()

	cam.X = -999
	cam.Y = -999
	cam.update(0)
	if cam.X != -999 || cam.Y != -999 {
		t.Errorf("after ClearBounds: cam = (%f,%f), want (-999,-999)", cam.X, cam.Y)
	}
}

func TestCameraBoundsSmallWorld(t *testing.T) {
	cam := NewCamera(Rect{X: 0, Y: 0, Width: 800, Height: 600})
	cam.SetBounds(Rect{X: 0, Y: 0, Width: 100, Height: 100})
	cam.X = 0
	cam.Y = 0
	cam.update(0)
	if !approxEqual(cam.X, 50, epsilon) || !approxEqual(cam.Y, 50, epsilon) {
		t.Errorf("small world center: cam = (%f,%f), want (50,50)", cam.X, cam.Y)
	}
}

func TestStageUpdateSharedCameraOnce(t *testing.T) {
	s := NewStage(800, 600)
	cam := s.DefaultRenderTask().Camera
	s.AddRenderTask(&RenderTask{Camera: cam, InputEnabled: true})
	cam.X = 0
	cam.ScrollTo(100, 300, 1.0, ease.Linear)

	s.Update(0.5)
	if !approxEqual(cam.X, 50, 1.0) {
		t.Errorf("cam.X = %f, want ~50 (camera advanced once)", cam.X)
	}
}
