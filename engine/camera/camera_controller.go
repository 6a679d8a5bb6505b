package camera

// Movement identifies a single movement command. Commands are combined into a
// bitmask representing the set of directions held during one tick, so the
// controller is a pure function from (held set, elapsed time) to a position
// delta rather than a consumer of raw input events.
type Movement uint8

const (
	// MoveForward moves along the camera's forward vector.
	MoveForward Movement = 1 << iota

	// MoveBackward moves against the camera's forward vector.
	MoveBackward

	// MoveLeft strafes against the camera's right vector.
	MoveLeft

	// MoveRight strafes along the camera's right vector.
	MoveRight
)

// Has reports whether the given direction is part of the held set.
//
// Parameters:
//   - dir: the direction to test
//
// Returns:
//   - bool: true if dir is held
func (m Movement) Has(dir Movement) bool {
	return m&dir != 0
}

// CameraController defines the interface for first-person camera control.
// Controllers own positional state (position, yaw, pitch). Camera reads
// position and target from the controller and computes view/projection
// matrices from them.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// SetPosition sets the camera's world-space position directly.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetPosition(x, y, z float32)

	// Target returns the look-at point, position + forward.
	//
	// Returns:
	//   - x, y, z: world-space target position
	Target() (x, y, z float32)

	// Yaw returns the horizontal view angle in radians.
	//
	// Returns:
	//   - float32: yaw in radians
	Yaw() float32

	// SetYaw sets the horizontal view angle directly.
	//
	// Parameters:
	//   - yaw: new yaw in radians
	SetYaw(yaw float32)

	// Pitch returns the vertical view angle in radians.
	//
	// Returns:
	//   - float32: pitch in radians
	Pitch() float32

	// SetPitch sets the vertical view angle, clamped inside (-pi/2, pi/2).
	//
	// Parameters:
	//   - pitch: new pitch in radians
	SetPitch(pitch float32)

	// Forward returns the unit forward vector derived from yaw and pitch:
	// (cos(pitch)*cos(yaw), sin(pitch), cos(pitch)*sin(yaw)).
	//
	// Returns:
	//   - x, y, z: unit forward vector components
	Forward() (x, y, z float32)

	// Right returns the unit right vector, forward cross world-up normalized.
	// When the camera looks straight up or down the cross product collapses;
	// the previous frame's right vector is returned instead of NaN. Pitch
	// clamping makes that case unreachable in normal operation but the guard
	// must exist.
	//
	// Returns:
	//   - x, y, z: unit right vector components
	Right() (x, y, z float32)

	// ProcessMovement translates the camera along forward/right axes for every
	// direction in the held set, scaled by the speed constant and deltaTime.
	// Strafe stays on the right axis; forward/back follow the full forward
	// vector including its pitch component.
	//
	// Parameters:
	//   - held: bitmask of directions held this tick
	//   - deltaTime: elapsed time in seconds since the previous tick
	ProcessMovement(held Movement, deltaTime float64)

	// Reset restores position, yaw, and pitch to their startup defaults.
	Reset()

	// Speed returns the movement speed in world units per second.
	//
	// Returns:
	//   - float32: movement speed
	Speed() float32
}
