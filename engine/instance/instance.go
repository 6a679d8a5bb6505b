package instance

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/prism-go/engine/geometry"
)

// ModelInstance is one drawn copy of a mesh: a position, a quaternion rotation,
// a uniform scale, and the (mesh, texture) pair it draws with. Instances live
// in an ordered sequence; order defines draw order only.
type ModelInstance struct {
	// Position is the instance's world-space translation.
	Position mgl32.Vec3

	// Rotation is the instance's orientation.
	Rotation mgl32.Quat

	// Scale is the uniform scale factor applied before rotation.
	Scale float32

	// ModelIndex selects which mesh this instance draws.
	ModelIndex int

	// TextureIndex selects which texture resource this instance binds.
	TextureIndex int
}

// ModelMatrix flattens the instance transform into a 4x4 column-major model
// matrix. Composition is translate * rotate * scale, so scale applies to the
// vertex first, then rotation, then translation.
//
// Returns:
//   - [16]float32: the model matrix, column-major
func (i ModelInstance) ModelMatrix() [16]float32 {
	scale := i.Scale
	if scale == 0 {
		scale = 1
	}
	m := mgl32.Translate3D(i.Position.X(), i.Position.Y(), i.Position.Z()).
		Mul4(i.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(scale, scale, scale))
	return [16]float32(m)
}

// ToGPU converts the instance to its GPU-consumable matrix form. The raw
// instance struct is never bound directly; only this derived form matches the
// shader's per-instance input attributes.
//
// Returns:
//   - geometry.GPUInstanceData: the packed instance record
func (i ModelInstance) ToGPU() geometry.GPUInstanceData {
	return geometry.GPUInstanceData{Model: i.ModelMatrix()}
}

// GridSpec describes a regular lattice of instances centered at the origin on
// the XZ plane.
type GridSpec struct {
	// Rows is the instance count along Z.
	Rows int

	// Cols is the instance count along X.
	Cols int

	// Spacing is the distance between adjacent lattice points.
	Spacing float32
}

// Count returns the total number of instances the spec produces.
//
// Returns:
//   - int: Rows * Cols, or 0 when either dimension is not positive
func (g GridSpec) Count() int {
	if g.Rows <= 0 || g.Cols <= 0 {
		return 0
	}
	return g.Rows * g.Cols
}

// BuildGrid produces the ordered instance sequence for a grid spec. Instances
// sit on a regular lattice centered at the origin. Each instance off the
// center is rotated 45 degrees around the axis pointing away from the origin,
// which keeps the lattice visually distinct from a flat tile of identical
// copies; the instance exactly at the origin keeps the identity rotation since
// a zero vector has no direction to rotate around.
//
// Parameters:
//   - spec: lattice dimensions and spacing
//
// Returns:
//   - []ModelInstance: Rows*Cols instances in row-major order
func BuildGrid(spec GridSpec) []ModelInstance {
	count := spec.Count()
	if count == 0 {
		return nil
	}

	instances := make([]ModelInstance, 0, count)
	for row := range spec.Rows {
		for col := range spec.Cols {
			x := (float32(col) - float32(spec.Cols-1)/2.0) * spec.Spacing
			z := (float32(row) - float32(spec.Rows-1)/2.0) * spec.Spacing
			position := mgl32.Vec3{x, 0, z}

			rotation := mgl32.QuatIdent()
			if position.Len() > 0 {
				rotation = mgl32.QuatRotate(mgl32.DegToRad(45.0), position.Normalize())
			}

			instances = append(instances, ModelInstance{
				Position: position,
				Rotation: rotation,
				Scale:    1.0,
			})
		}
	}
	return instances
}
