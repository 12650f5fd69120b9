package gesture

import (
	"math"

	"github.com/google/uuid"
)

// Vec2 is a 2D vector used for positions, displacements and velocities
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v multiplied by f.
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

// LenSq returns the squared length of v.
func (v Vec2) LenSq() float64 { return v.X*v.X + v.Y*v.Y }

// Len returns the length of v.
func (v Vec2) Len() float64 { return math.Sqrt(v.LenSq()) }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// PointState is the state of a single touch point within a TouchEvent.
type PointState uint8

const (
	PointDown        PointState = iota // the point touched the surface
	PointUp                            // the point left the surface
	PointMotion                        // the point moved while pressed
	PointLeave                         // the point left the bounds of the receiving actor
	PointStationary                    // the point did not change this event
	PointInterrupted                   // the sequence was aborted by the system
)

var pointStateNames = [...]string{"Down", "Up", "Motion", "Leave", "Stationary", "Interrupted"}

func (s PointState) String() string {
	if int(s) < len(pointStateNames) {
		return pointStateNames[s]
	}
	return "Unknown"
}

// GestureState is the lifecycle state of a gesture sequence.
type GestureState uint8

const (
	StateClear      GestureState = iota // no sequence is being tracked
	StatePossible                       // a sequence began but is not recognized yet
	StateStarted                        // the gesture was recognized
	StateContinuing                     // the gesture is in progress
	StateFinished                       // the gesture completed
	StateCancelled                      // the gesture was aborted
)

var gestureStateNames = [...]string{"Clear", "Possible", "Started", "Continuing", "Finished", "Cancelled"}

func (s GestureState) String() string {
	if int(s) < len(gestureStateNames) {
		return gestureStateNames[s]
	}
	return "Unknown"
}

// terminal reports whether s ends a sequence.
func (s GestureState) terminal() bool {
	return s == StateFinished || s == StateCancelled
}

// GestureKind identifies a detector type.
type GestureKind uint8

const (
	KindPan       GestureKind = iota // continuous single or multi-touch drag
	KindTap                          // one or more quick touches
	KindPinch                        // two-touch scale and rotate
	KindLongPress                    // touch held in place
	numKinds
)

var gestureKindNames = [numKinds]string{"Pan", "Tap", "Pinch", "LongPress"}

func (k GestureKind) String() string {
	if k < numKinds {
		return gestureKindNames[k]
	}
	return "Unknown"
}

// ClippingMode controls whether an actor limits hit-testing of its descendants
// to its own bounds.
type ClippingMode uint8

const (
	ClipDisabled ClippingMode = iota // descendants are tested against their own bounds only
	ClipChildren                     // descendants can only be hit inside this actor's bounds
)

// PointSample is one raw report from an input device.
type PointSample struct {
	DeviceID      int32
	State         PointState
	Screen        Vec2
	Time          uint32 // milliseconds
	Radius        float64
	EllipseRadius Vec2
	Angle         float64
	Pressure      float64
}

// TouchEvent is the consolidated set of points for one processing step.
// No two points share a device id.
type TouchEvent struct {
	Time   uint32
	Points []PointSample
}

// Primary returns the first point of the event.
func (e TouchEvent) Primary() PointSample {
	return e.Points[0]
}

// PointCount returns the number of points in the event.
func (e TouchEvent) PointCount() int {
	return len(e.Points)
}

// HitResult is the resolved target of one touch point.
type HitResult struct {
	Point PointSample
	// Actor is 0 when the point hit nothing.
	Actor ActorHandle
	Local Vec2
	Task  *RenderTask
}

// GestureEvent carries the data of a recognized gesture to handlers.
type GestureEvent struct {
	Kind  GestureKind
	State GestureState
	// Sequence is shared by every event and every recipient of one gesture instance.
	Sequence uuid.UUID
	Time     uint32
	Touches  int
	Actor    ActorHandle

	Screen             Vec2
	Local              Vec2
	ScreenDisplacement Vec2
	LocalDisplacement  Vec2
	ScreenVelocity     Vec2 // pixels per millisecond
	LocalVelocity      Vec2

	// Tap
	Taps int

	// Pinch
	Center        Vec2
	Scale         float64
	ScaleDelta    float64
	Rotation      float64
	RotationDelta float64

	// LongPress
	Duration uint32
}

// EventType identifies a kind of interaction event forwarded to an EntityStore.
type EventType uint8

const (
	EventTouch   EventType = iota // an actor received a touch notification
	EventGesture                  // an actor received a gesture event
)

// EntityStore is the interface for optional ECS integration.
// When set on a Processor, interaction events for actors with a non-zero
// EntityID are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type     EventType
	EntityID uint32
	// Touch fields (EventTouch)
	PointState PointState
	DeviceID   int32
	// Gesture fields (EventGesture)
	Kind     GestureKind
	State    GestureState
	Sequence uuid.UUID
	// Shared
	Screen       Vec2
	Local        Vec2
	Displacement Vec2
	Velocity     Vec2
	Taps         int
	Scale        float64
	Rotation     float64
}
