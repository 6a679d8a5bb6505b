package geometry

import (
	"github.com/Carmen-Shannon/prism-go/engine/renderer/bind_group_provider"
)

type mesh struct {
	name           string
	meshProvider   bind_group_provider.BindGroupProvider
	vertexData     []byte
	indexData      []byte
	indexCount     int
	boundingRadius float32
}

// Mesh defines the interface for static geometry shared read-only across all
// instances that draw it. Vertex and index data are immutable after creation;
// the mesh provider holds the GPU-side buffer handles once initialized.
type Mesh interface {
	// Name retrieves the mesh identifier.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// MeshProvider retrieves the BindGroupProvider holding GPU mesh resources.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	MeshProvider() bind_group_provider.BindGroupProvider

	// VertexData returns the raw vertex data for this mesh.
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// IndexData returns the raw index data for this mesh (32-bit indices).
	//
	// Returns:
	//   - []byte: the index data
	IndexData() []byte

	// IndexCount returns the number of indices in the mesh.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// BoundingRadius returns the bounding sphere radius for this mesh, measured
	// as the maximum vertex distance from the origin.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// SetVertexData sets the raw vertex data for this mesh.
	//
	// Parameters:
	//   - data: the vertex data to set
	SetVertexData(data []byte)

	// SetIndexData sets the raw index data for this mesh.
	//
	// Parameters:
	//   - data: the index data to set
	SetIndexData(data []byte)

	// SetIndexCount sets the number of indices in the mesh.
	//
	// Parameters:
	//   - count: the index count to set
	SetIndexCount(count int)
}

var _ Mesh = &mesh{}

// NewMesh creates a new Mesh instance with the specified options applied.
//
// Parameters:
//   - options: a variadic list of MeshBuilderOption functions to configure the Mesh
//
// Returns:
//   - Mesh: a new instance of Mesh configured with the provided options
func NewMesh(options ...MeshBuilderOption) Mesh {
	m := &mesh{}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *mesh) Name() string {
	return m.name
}

func (m *mesh) MeshProvider() bind_group_provider.BindGroupProvider {
	return m.meshProvider
}

func (m *mesh) VertexData() []byte {
	return m.vertexData
}

func (m *mesh) SetVertexData(data []byte) {
	m.vertexData = data
}

func (m *mesh) IndexData() []byte {
	return m.indexData
}

func (m *mesh) SetIndexData(data []byte) {
	m.indexData = data
}

func (m *mesh) IndexCount() int {
	return m.indexCount
}

func (m *mesh) SetIndexCount(count int) {
	m.indexCount = count
}

func (m *mesh) BoundingRadius() float32 {
	return m.boundingRadius
}
