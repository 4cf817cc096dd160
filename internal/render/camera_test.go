package render

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigidsim/internal/mesh"
	"github.com/san-kum/rigidsim/internal/rigid"
)

func TestDefaultCamera(t *testing.T) {
	cam := NewCamera()
	if cam.Eye().Sub(mgl32.Vec3{0, 0, 30}).Len() > 1e-5 {
		t.Errorf("expected eye at (0,0,30), got %v", cam.Eye())
	}

	// the default view is the demo's translate(0, 0, -30)
	expected := mgl32.Translate3D(0, 0, -30)
	if !cam.View().ApproxEqualThreshold(expected, 1e-5) {
		t.Errorf("unexpected view matrix %v", cam.View())
	}
}

func TestProjectCenter(t *testing.T) {
	cam := NewCamera()
	x, y, depth, ok := Project(mgl32.Vec3{}, mgl32.Ident4(), cam, 800, 600)
	if !ok {
		t.Fatal("origin should be visible")
	}
	if math.Abs(float64(x)-400) > 1e-3 || math.Abs(float64(y)-300) > 1e-3 {
		t.Errorf("expected screen centre, got (%f, %f)", x, y)
	}
	if depth <= 0 || depth >= 1 {
		t.Errorf("expected depth inside (0,1), got %f", depth)
	}
}

func TestProjectOrientation(t *testing.T) {
	cam := NewCamera()
	x, y, _, ok := Project(mgl32.Vec3{1, 1, 0}, mgl32.Ident4(), cam, 800, 600)
	if !ok {
		t.Fatal("point should be visible")
	}
	if x <= 400 || y >= 300 {
		t.Errorf("+x+y should land right of and above centre, got (%f, %f)", x, y)
	}
	if !InViewport(x, y, 800, 600) {
		t.Error("expected point inside the viewport")
	}
}

func TestProjectBehindCamera(t *testing.T) {
	cam := NewCamera()
	if _, _, _, ok := Project(mgl32.Vec3{0, 0, 40}, mgl32.Ident4(), cam, 800, 600); ok {
		t.Error("point behind the camera should not be visible")
	}
}

func TestOrbitAndZoom(t *testing.T) {
	cam := NewCamera()
	cam.Orbit(float32(math.Pi/2), 10)
	if cam.Pitch > float32(maxPitch) {
		t.Errorf("pitch not clamped: %f", cam.Pitch)
	}

	cam = NewCamera()
	cam.Orbit(float32(math.Pi/2), 0)
	if cam.Eye().Sub(mgl32.Vec3{30, 0, 0}).Len() > 1e-4 {
		t.Errorf("expected eye on +x after quarter yaw, got %v", cam.Eye())
	}

	cam.Zoom(0.001)
	if cam.Distance != minDistance {
		t.Errorf("expected distance clamped to %f, got %f", minDistance, cam.Distance)
	}
}

func TestModelMatrix(t *testing.T) {
	b, err := rigid.New(1, mesh.Cube(2))
	if err != nil {
		t.Fatal(err)
	}
	b.Translate(mgl64.Vec3{1, 2, 3})
	b.SetOrientation(mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}))

	m := ModelMatrix(b)
	origin := m.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !origin.Vec3().ApproxEqualThreshold(mgl32.Vec3{1, 2, 3}, 1e-5) {
		t.Errorf("expected local origin at body position, got %v", origin)
	}
	x := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	if !x.Vec3().ApproxEqualThreshold(mgl32.Vec3{1, 3, 3}, 1e-5) {
		t.Errorf("expected local x rotated onto world y, got %v", x)
	}
}

func TestPrepare(t *testing.T) {
	b, err := rigid.New(1, mesh.Cube(1))
	if err != nil {
		t.Fatal(err)
	}
	draws := Prepare([]*rigid.RigidBody{b})
	if len(draws) != 1 {
		t.Fatalf("expected 1 draw, got %d", len(draws))
	}
	if len(draws[0].Vertices) != 36*3 {
		t.Errorf("expected 108 floats, got %d", len(draws[0].Vertices))
	}
	if !draws[0].Model.ApproxEqualThreshold(mgl32.Ident4(), 1e-6) {
		t.Errorf("expected identity model, got %v", draws[0].Model)
	}
}
