// Package render is the boundary between the simulation and a renderer. It
// converts body state into single-precision GL-convention matrices and
// projects world points to screen coordinates. Nothing here mutates a body.
package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigidsim/internal/rigid"
)

const (
	DefaultFovy     = 45.0
	DefaultAspect   = 800.0 / 600.0
	DefaultNear     = 0.1
	DefaultFar      = 200.0
	DefaultDistance = 30.0

	minDistance = 1.0
	maxDistance = 150.0
	maxPitch    = math.Pi/2 - 0.01
)

// Camera orbits Target at Distance. Yaw and Pitch are in radians; with both
// zero the camera sits on +z looking down -z.
type Camera struct {
	Fovy     float32 // degrees
	Aspect   float32
	Near     float32
	Far      float32
	Distance float32
	Yaw      float32
	Pitch    float32
	Target   mgl32.Vec3
}

func NewCamera() *Camera {
	return &Camera{
		Fovy:     DefaultFovy,
		Aspect:   DefaultAspect,
		Near:     DefaultNear,
		Far:      DefaultFar,
		Distance: DefaultDistance,
	}
}

func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.Fovy), c.Aspect, c.Near, c.Far)
}

func (c *Camera) Eye() mgl32.Vec3 {
	cp := float32(math.Cos(float64(c.Pitch)))
	sp := float32(math.Sin(float64(c.Pitch)))
	cy := float32(math.Cos(float64(c.Yaw)))
	sy := float32(math.Sin(float64(c.Yaw)))
	return c.Target.Add(mgl32.Vec3{cp * sy, sp, cp * cy}.Mul(c.Distance))
}

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye(), c.Target, mgl32.Vec3{0, 1, 0})
}

func (c *Camera) Orbit(dYaw, dPitch float32) {
	c.Yaw += dYaw
	c.Pitch = mgl32.Clamp(c.Pitch+dPitch, -maxPitch, maxPitch)
}

// Zoom scales the distance by f, clamped to a sane range.
func (c *Camera) Zoom(f float32) {
	c.Distance = mgl32.Clamp(c.Distance*f, minDistance, maxDistance)
}

// ModelMatrix is the body's local-to-world transform in single precision.
func ModelMatrix(b *rigid.RigidBody) mgl32.Mat4 {
	return ToMat4(b.ModelMatrix())
}

func ToMat4(m mgl64.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for i := range m {
		out[i] = float32(m[i])
	}
	return out
}

func ToVec3(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// Project maps a model-space point to window coordinates with the origin at
// the top left, as terminals and most 2D surfaces expect. The returned depth
// is in [0, 1]. ok is false when the point is behind the camera or outside
// the depth range.
func Project(p mgl32.Vec3, model mgl32.Mat4, cam *Camera, width, height int) (x, y, depth float32, ok bool) {
	modelview := cam.View().Mul4(model)
	proj := cam.Projection()

	clip := proj.Mul4(modelview).Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, 0, false
	}

	win := mgl32.Project(p, modelview, proj, 0, 0, width, height)
	return win.X(), float32(height) - win.Y(), win.Z(), win.Z() >= 0 && win.Z() <= 1
}

// InViewport reports whether a projected point falls on the surface.
func InViewport(x, y float32, width, height int) bool {
	return x >= 0 && y >= 0 && x < float32(width) && y < float32(height)
}
