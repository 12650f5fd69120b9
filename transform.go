package gesture

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// computeLocalTransform computes the local affine matrix from the actor's
// transform properties. Returns [a, b, c, d, tx, ty].
//
// Composition order:
//
//	Translate(-PivotX, -PivotY) -> Scale -> Rotate -> Translate(X, Y)
func computeLocalTransform(a *Actor) [6]float64 {
	sx := a.ScaleX
	sy := a.ScaleY
	sin, cos := math.Sincos(a.Rotation)

	preTx := -a.PivotX * sx
	preTy := -a.PivotY * sy

	return [6]float64{
		cos * sx,
		sin * sx,
		-sin * sy,
		cos * sy,
		cos*preTx - sin*preTy + a.X,
		sin*preTx + cos*preTy + a.Y,
	}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// The second result is false when the matrix is singular (determinant near 0),
// in which case the identity is returned.
func invertAffine(m [6]float64) ([6]float64, bool) {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform, false
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}, true
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// worldTransform composes the local transforms from the root down to a.
// It is computed on demand so hit-testing always sees the current tree.
func (a *Actor) worldTransform() [6]float64 {
	if a.Parent == nil {
		return computeLocalTransform(a)
	}
	return multiplyAffine(a.Parent.worldTransform(), computeLocalTransform(a))
}

// worldDepth sums Z along the parent chain.
func (a *Actor) worldDepth() float64 {
	z := 0.0
	for p := a; p != nil; p = p.Parent {
		z += p.Z
	}
	return z
}

// --- Transform property setters ---

// SetPosition sets the actor's local X and Y.
func (a *Actor) SetPosition(x, y float64) {
	a.X = x
	a.Y = y
}

// SetSize sets the actor's local width and height.
func (a *Actor) SetSize(w, h float64) {
	a.Width = w
	a.Height = h
}

// SetScale sets the actor's ScaleX and ScaleY.
func (a *Actor) SetScale(sx, sy float64) {
	a.ScaleX = sx
	a.ScaleY = sy
}

// SetRotation sets the actor's rotation in radians.
func (a *Actor) SetRotation(r float64) {
	a.Rotation = r
}

// SetPivot sets the actor's PivotX and PivotY in local pixels.
func (a *Actor) SetPivot(px, py float64) {
	a.PivotX = px
	a.PivotY = py
}

// --- Coordinate conversion ---

// WorldToLocal converts a world-space point to this actor's local coordinate space.
// ok is false when the actor's transform is degenerate (e.g. zero scale).
func (a *Actor) WorldToLocal(wx, wy float64) (lx, ly float64, ok bool) {
	inv, ok := invertAffine(a.worldTransform())
	lx, ly = transformPoint(inv, wx, wy)
	return lx, ly, ok
}

// LocalToWorld converts a local-space point to world-space.
func (a *Actor) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return transformPoint(a.worldTransform(), lx, ly)
}

// ScreenToLocal converts a screen point to this actor's local space as seen
// through the given render task's camera.
func (a *Actor) ScreenToLocal(task *RenderTask, sx, sy float64) (Vec2, bool) {
	wx, wy := sx, sy
	if task != nil && task.Camera != nil {
		var ok bool
		wx, wy, ok = task.Camera.pickingPoint(sx, sy)
		if !ok {
			return Vec2{}, false
		}
	}
	lx, ly, ok := a.WorldToLocal(wx, wy)
	return Vec2{lx, ly}, ok
}
