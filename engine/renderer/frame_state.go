package renderer

// FrameState tracks where the renderer sits in its lifecycle. Transitions are
// guarded: frames can only begin from FrameStateReady, resizes cannot interleave
// with an in-flight frame, and FrameStateDestroyed is terminal.
type FrameState int

const (
	// FrameStateUninitialized is the zero state before the backend has configured a surface.
	FrameStateUninitialized FrameState = iota

	// FrameStateReady indicates the surface is configured and a frame may begin.
	FrameStateReady

	// FrameStateRendering indicates a frame is in flight between BeginFrame and Present.
	FrameStateRendering

	// FrameStateResizing indicates the surface and depth texture are being reconfigured.
	FrameStateResizing

	// FrameStateDestroyed indicates the renderer has been shut down and can no longer be used.
	FrameStateDestroyed
)

// String returns a human-readable name for the frame state.
//
// Returns:
//   - string: the state name
func (s FrameState) String() string {
	switch s {
	case FrameStateUninitialized:
		return "uninitialized"
	case FrameStateReady:
		return "ready"
	case FrameStateRendering:
		return "rendering"
	case FrameStateResizing:
		return "resizing"
	case FrameStateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}
