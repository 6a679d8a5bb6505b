package camera

import (
	"math"
	"sync"
)

// pitchLimit keeps pitch strictly inside (-pi/2, pi/2) so the forward vector
// never becomes parallel to world-up.
const pitchLimit = float32(math.Pi/2) - 0.01

// cameraControllerImpl is the single implementation of CameraController.
// First-person semantics: yaw and pitch define the view direction, movement
// commands translate the position along the derived forward/right axes.
type cameraControllerImpl struct {
	mu *sync.Mutex

	position [3]float32
	yaw      float32 // horizontal angle around Y, radians
	pitch    float32 // vertical angle from horizontal plane, radians

	// Startup state restored by Reset.
	homePosition [3]float32
	homeYaw      float32
	homePitch    float32

	speed float32 // world units per second

	// lastRight carries the previous frame's right vector for the degenerate
	// straight-up/straight-down case.
	lastRight [3]float32
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new first-person camera controller.
// Defaults: position (0, 1, 2), yaw -pi/2 (looking down -Z), pitch 0,
// speed 2.5 units/second. The state present after all options are applied
// becomes the Reset target.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:       &sync.Mutex{},
		position: [3]float32{0, 1, 2},
		yaw:      float32(-math.Pi / 2),
		pitch:    0,
		speed:    2.5,
	}

	for _, option := range options {
		option(cc)
	}

	cc.pitch = clampPitch(cc.pitch)
	cc.homePosition = cc.position
	cc.homeYaw = cc.yaw
	cc.homePitch = cc.pitch
	rx, _, rz := cc.right()
	cc.lastRight = [3]float32{rx, 0, rz}
	return cc
}

func clampPitch(pitch float32) float32 {
	if pitch > pitchLimit {
		return pitchLimit
	}
	if pitch < -pitchLimit {
		return -pitchLimit
	}
	return pitch
}

// forward computes the unit view direction from yaw and pitch.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) forward() (x, y, z float32) {
	cosPitch := float32(math.Cos(float64(cc.pitch)))
	x = cosPitch * float32(math.Cos(float64(cc.yaw)))
	y = float32(math.Sin(float64(cc.pitch)))
	z = cosPitch * float32(math.Sin(float64(cc.yaw)))
	return
}

// right computes the unit right vector, cross(forward, worldUp) normalized.
// When the cross product collapses (forward parallel to world-up) it returns
// the previous frame's right vector unchanged. Caller must hold the mutex.
func (cc *cameraControllerImpl) right() (x, y, z float32) {
	fx, _, fz := cc.forward()

	// cross((fx,fy,fz), (0,1,0)) = (-fz, 0, fx)
	x = -fz
	z = fx
	length := float32(math.Sqrt(float64(x*x + z*z)))
	if length < 1e-8 {
		return cc.lastRight[0], cc.lastRight[1], cc.lastRight[2]
	}
	x /= length
	z /= length
	cc.lastRight = [3]float32{x, 0, z}
	return
}

func (cc *cameraControllerImpl) Position() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position[0], cc.position[1], cc.position[2]
}

func (cc *cameraControllerImpl) SetPosition(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position[0] = x
	cc.position[1] = y
	cc.position[2] = z
}

func (cc *cameraControllerImpl) Target() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	fx, fy, fz := cc.forward()
	return cc.position[0] + fx, cc.position[1] + fy, cc.position[2] + fz
}

func (cc *cameraControllerImpl) Yaw() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.yaw
}

func (cc *cameraControllerImpl) SetYaw(yaw float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.yaw = yaw
}

func (cc *cameraControllerImpl) Pitch() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.pitch
}

func (cc *cameraControllerImpl) SetPitch(pitch float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.pitch = clampPitch(pitch)
}

func (cc *cameraControllerImpl) Forward() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.forward()
}

func (cc *cameraControllerImpl) Right() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.right()
}

func (cc *cameraControllerImpl) ProcessMovement(held Movement, deltaTime float64) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	step := cc.speed * float32(deltaTime)
	if step == 0 || held == 0 {
		return
	}

	fx, fy, fz := cc.forward()
	rx, ry, rz := cc.right()

	if held.Has(MoveForward) {
		cc.position[0] += fx * step
		cc.position[1] += fy * step
		cc.position[2] += fz * step
	}
	if held.Has(MoveBackward) {
		cc.position[0] -= fx * step
		cc.position[1] -= fy * step
		cc.position[2] -= fz * step
	}
	if held.Has(MoveRight) {
		cc.position[0] += rx * step
		cc.position[1] += ry * step
		cc.position[2] += rz * step
	}
	if held.Has(MoveLeft) {
		cc.position[0] -= rx * step
		cc.position[1] -= ry * step
		cc.position[2] -= rz * step
	}
}

func (cc *cameraControllerImpl) Reset() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = cc.homePosition
	cc.yaw = cc.homeYaw
	cc.pitch = cc.homePitch
}

func (cc *cameraControllerImpl) Speed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.speed
}
