package renderer

import (
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrConfiguration indicates invalid renderer or pipeline configuration detected
	// at startup, such as a pipeline registered without both shader stages.
	ErrConfiguration = errors.New("renderer: invalid configuration")

	// ErrResourceCreation indicates a GPU resource (buffer, texture, sampler, or
	// bind group) could not be created or uploaded.
	ErrResourceCreation = errors.New("renderer: resource creation failed")

	// ErrSurfaceOutdated indicates the surface texture could not be acquired because
	// the swapchain is stale (lost, outdated, or timed out). The surface has been
	// reconfigured; skip the current frame and try again next frame.
	ErrSurfaceOutdated = errors.New("renderer: surface outdated")

	// ErrSurfaceFatal indicates an unrecoverable surface or device failure, such as
	// device loss or memory exhaustion. The render loop should terminate.
	ErrSurfaceFatal = errors.New("renderer: surface unrecoverable")
)

// IsTransientSurfaceError reports whether err represents a recoverable surface
// acquire failure. Transient failures are a normal outcome of window resizes and
// minimization; the caller should skip the frame rather than tear down.
//
// Parameters:
//   - err: the error returned from BeginFrame
//
// Returns:
//   - bool: true if the error is transient and the frame should be skipped
func IsTransientSurfaceError(err error) bool {
	return errors.Is(err, ErrSurfaceOutdated)
}

// classifySurfaceError wraps a raw surface acquire failure with the appropriate
// sentinel. Device loss and memory exhaustion are fatal; everything else the
// surface reports (lost, outdated, timed out) is treated as transient since a
// reconfigure restores it.
func classifySurfaceError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "device") || strings.Contains(msg, "out of memory") || strings.Contains(msg, "outofmemory") {
		return errors.Mark(err, ErrSurfaceFatal)
	}
	return errors.Mark(err, ErrSurfaceOutdated)
}
