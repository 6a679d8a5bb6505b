package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithPosition sets the initial world-space position. This also becomes the
// position restored by Reset.
//
// Parameters:
//   - x: X coordinate of the position
//   - y: Y coordinate of the position
//   - z: Z coordinate of the position
//
// Returns:
//   - CameraControllerOption: functional option to set the position
func WithPosition(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.position[0] = x
		cc.position[1] = y
		cc.position[2] = z
	}
}

// WithYaw sets the initial horizontal view angle. This also becomes the yaw
// restored by Reset.
//
// Parameters:
//   - yaw: horizontal angle in radians (-pi/2 = looking down -Z)
//
// Returns:
//   - CameraControllerOption: functional option to set the yaw
func WithYaw(yaw float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.yaw = yaw
	}
}

// WithPitch sets the initial vertical view angle, clamped inside (-pi/2, pi/2).
// This also becomes the pitch restored by Reset.
//
// Parameters:
//   - pitch: vertical angle in radians (0 = horizontal)
//
// Returns:
//   - CameraControllerOption: functional option to set the pitch
func WithPitch(pitch float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.pitch = pitch
	}
}

// WithSpeed sets the movement speed.
//
// Parameters:
//   - speed: world units per second
//
// Returns:
//   - CameraControllerOption: functional option to set the speed
func WithSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.speed = speed
	}
}
