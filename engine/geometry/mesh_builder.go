package geometry

import (
	"github.com/Carmen-Shannon/prism-go/engine/renderer/bind_group_provider"
)

// MeshBuilderOption is a functional option for configuring a Mesh.
type MeshBuilderOption func(*mesh)

// WithName sets the mesh identifier.
//
// Parameters:
//   - name: the mesh name
//
// Returns:
//   - MeshBuilderOption: functional option to set the name
func WithName(name string) MeshBuilderOption {
	return func(m *mesh) {
		m.name = name
	}
}

// WithMeshProvider attaches the BindGroupProvider that will hold GPU mesh resources.
//
// Parameters:
//   - provider: the mesh provider to attach
//
// Returns:
//   - MeshBuilderOption: functional option to set the mesh provider
func WithMeshProvider(provider bind_group_provider.BindGroupProvider) MeshBuilderOption {
	return func(m *mesh) {
		m.meshProvider = provider
	}
}

// WithVertexData sets the raw vertex data.
//
// Parameters:
//   - data: serialized GPUVertex data
//
// Returns:
//   - MeshBuilderOption: functional option to set the vertex data
func WithVertexData(data []byte) MeshBuilderOption {
	return func(m *mesh) {
		m.vertexData = data
	}
}

// WithIndexData sets the raw index data (32-bit indices).
//
// Parameters:
//   - data: serialized index data
//
// Returns:
//   - MeshBuilderOption: functional option to set the index data
func WithIndexData(data []byte) MeshBuilderOption {
	return func(m *mesh) {
		m.indexData = data
	}
}

// WithIndexCount sets the number of indices.
//
// Parameters:
//   - count: the index count
//
// Returns:
//   - MeshBuilderOption: functional option to set the index count
func WithIndexCount(count int) MeshBuilderOption {
	return func(m *mesh) {
		m.indexCount = count
	}
}

// WithBoundingRadius sets the bounding sphere radius.
//
// Parameters:
//   - radius: maximum vertex distance from the origin
//
// Returns:
//   - MeshBuilderOption: functional option to set the bounding radius
func WithBoundingRadius(radius float32) MeshBuilderOption {
	return func(m *mesh) {
		m.boundingRadius = radius
	}
}
