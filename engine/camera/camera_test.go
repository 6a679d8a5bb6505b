package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/prism-go/common"
)

const epsilon = 1e-5

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestViewProjectionFiniteAndInvertible(t *testing.T) {
	yaws := []float32{-math.Pi, -math.Pi / 2, 0, math.Pi / 3, math.Pi}
	pitches := []float32{-pitchLimit, -1.0, 0, 0.5, pitchLimit}

	for _, yaw := range yaws {
		for _, pitch := range pitches {
			ctrl := NewCameraController(WithYaw(yaw), WithPitch(pitch))
			cam := NewCamera(WithController(ctrl), WithAspect(16.0/9.0))

			vp := cam.ViewProjectionMatrix()
			if !common.IsFinite(vp[:]) {
				t.Fatalf("yaw=%v pitch=%v: view-projection contains NaN/Inf: %v", yaw, pitch, vp)
			}

			var inv [16]float32
			if !common.Invert4(inv[:], vp[:]) {
				t.Fatalf("yaw=%v pitch=%v: view-projection is singular", yaw, pitch)
			}
			if !common.IsFinite(inv[:]) {
				t.Fatalf("yaw=%v pitch=%v: inverse contains NaN/Inf", yaw, pitch)
			}
		}
	}
}

func TestResetRestoresStartupMatrix(t *testing.T) {
	ctrl := NewCameraController()
	cam := NewCamera(WithController(ctrl))
	want := cam.ViewProjectionMatrix()

	ctrl.ProcessMovement(MoveForward|MoveRight, 0.25)
	ctrl.SetYaw(1.2)
	ctrl.SetPitch(0.4)
	ctrl.Reset()

	got := cam.ViewProjectionMatrix()
	for i := range want {
		if absf(got[i]-want[i]) > epsilon {
			t.Fatalf("matrix[%d] after reset = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDefaultMovementSpeed(t *testing.T) {
	ctrl := NewCameraController()
	if got := ctrl.Speed(); got != 2.5 {
		t.Fatalf("default speed = %v, want 2.5", got)
	}

	// Default yaw faces −Z, so one second of forward movement covers the full
	// speed along that axis.
	_, _, z0 := ctrl.Position()
	ctrl.ProcessMovement(MoveForward, 1.0)
	_, _, z1 := ctrl.Position()
	if absf((z0-z1)-2.5) > epsilon {
		t.Fatalf("forward displacement over one second = %v, want 2.5", z0-z1)
	}
}

func TestForwardAndStrafeAreOrthogonal(t *testing.T) {
	tt := []struct {
		name string
		held Movement
		axis func(CameraController) (float32, float32, float32) // axis the move must not project onto
	}{
		{"forward leaves right component unchanged", MoveForward, CameraController.Right},
		{"backward leaves right component unchanged", MoveBackward, CameraController.Right},
		{"strafe right leaves forward component unchanged", MoveRight, CameraController.Forward},
		{"strafe left leaves forward component unchanged", MoveLeft, CameraController.Forward},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := NewCameraController(WithYaw(0.7), WithPitch(0.3))
			x0, y0, z0 := ctrl.Position()
			ax, ay, az := tc.axis(ctrl)

			ctrl.ProcessMovement(tc.held, 0.5)

			x1, y1, z1 := ctrl.Position()
			dot := (x1-x0)*ax + (y1-y0)*ay + (z1-z0)*az
			if absf(dot) > epsilon {
				t.Fatalf("movement leaked onto orthogonal axis: dot = %v", dot)
			}
			if x0 == x1 && y0 == y1 && z0 == z1 {
				t.Fatal("movement produced no displacement")
			}
		})
	}
}

func TestPitchClamp(t *testing.T) {
	ctrl := NewCameraController()

	ctrl.SetPitch(float32(math.Pi)) // way past vertical
	if p := ctrl.Pitch(); p > pitchLimit {
		t.Fatalf("pitch %v exceeds clamp %v", p, pitchLimit)
	}
	ctrl.SetPitch(float32(-math.Pi))
	if p := ctrl.Pitch(); p < -pitchLimit {
		t.Fatalf("pitch %v below clamp %v", p, -pitchLimit)
	}

	fx, _, fz := ctrl.Forward()
	rx, ry, rz := ctrl.Right()
	length := float32(math.Sqrt(float64(rx*rx + ry*ry + rz*rz)))
	if absf(length-1.0) > epsilon {
		t.Fatalf("right vector not unit length at clamped pitch: %v (forward xz %v %v)", length, fx, fz)
	}
}

func TestViewMatrixMatchesReference(t *testing.T) {
	ctrl := NewCameraController(WithPosition(1, 2, 3), WithYaw(0.9), WithPitch(-0.2))
	cam := NewCamera(WithController(ctrl))

	px, py, pz := ctrl.Position()
	tx, ty, tz := ctrl.Target()
	want := mgl32.LookAtV(
		mgl32.Vec3{px, py, pz},
		mgl32.Vec3{tx, ty, tz},
		mgl32.Vec3{0, 1, 0},
	)

	got := cam.ViewMatrix()
	for i := range got {
		if absf(got[i]-want[i]) > epsilon {
			t.Fatalf("view[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestUniformMarshalLayout(t *testing.T) {
	ctrl := NewCameraController()
	cam := NewCamera(WithController(ctrl))

	uniform := cam.Uniform()
	if uniform.Size() != 64 {
		t.Fatalf("uniform size = %d, want 64", uniform.Size())
	}

	buf := uniform.Marshal()
	if len(buf) != 64 {
		t.Fatalf("marshaled length = %d, want 64", len(buf))
	}
	for i := range 16 {
		got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		if got != uniform.ViewProj[i] {
			t.Fatalf("byte round-trip mismatch at element %d: %v != %v", i, got, uniform.ViewProj[i])
		}
	}
}
