package terrain

import (
	"github.com/go-gl/mathgl/mgl64"

	"coursegen/internal/config"
)

// Curve is the quadratic Bezier centerline from tee (P0) through the mid
// control point (P1) to the green (P2). Vector components are (x, z).
type Curve struct {
	P0, P1, P2 mgl64.Vec2
}

func NewCurve(tee, mid, green mgl64.Vec2) Curve {
	return Curve{P0: tee, P1: mid, P2: green}
}

// CurveFromConfig builds the centerline from the configured control points.
func CurveFromConfig(cfg config.CourseConfig) Curve {
	return NewCurve(
		mgl64.Vec2{cfg.Tee.X, cfg.Tee.Z},
		mgl64.Vec2{cfg.Mid.X, cfg.Mid.Z},
		mgl64.Vec2{cfg.Green.X, cfg.Green.Z},
	)
}

// Evaluate returns the point at t. Callers clamp t to [0,1].
func (c Curve) Evaluate(t float64) mgl64.Vec2 {
	return lerp2(lerp2(c.P0, c.P1, t), lerp2(c.P1, c.P2, t), t)
}

// Direction is the unit approach direction into the green, normalize(P2-P1).
// A degenerate segment yields the zero vector.
func (c Curve) Direction() mgl64.Vec2 {
	d := c.P2.Sub(c.P1)
	if d.Len() == 0 {
		return mgl64.Vec2{}
	}
	return d.Normalize()
}

// Sample returns n+1 evenly spaced points from t=0 to t=1.
func (c Curve) Sample(n int) []mgl64.Vec2 {
	if n < 1 {
		n = 1
	}
	points := make([]mgl64.Vec2, n+1)
	for i := 0; i <= n; i++ {
		points[i] = c.Evaluate(float64(i) / float64(n))
	}
	return points
}

// Progress maps a world z onto normalized hole progress, clamped to [0,1].
func Progress(z, holeLength float64) float64 {
	if holeLength <= 0 {
		return 0
	}
	return clamp(z/holeLength, 0, 1)
}

func lerp2(a, b mgl64.Vec2, t float64) mgl64.Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
