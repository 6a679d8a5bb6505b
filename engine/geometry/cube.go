package geometry

import (
	"encoding/binary"

	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/bind_group_provider"
)

// NewCubeMesh creates a unit cube mesh with per-face normals and texture
// coordinates. 6 faces x 4 vertices = 24 vertices, 36 indices, all triangles
// wound counter-clockwise when viewed from outside so back-face culling keeps
// the exterior visible.
//
// Parameters:
//   - name: the mesh identifier, also used for the mesh provider name
//
// Returns:
//   - Mesh: the cube mesh with vertex/index data staged for upload
func NewCubeMesh(name string) Mesh {
	// Face definitions: 4 positions + normal per face. Position order is
	// bottom-left, bottom-right, top-right, top-left as seen from outside.
	type faceData struct {
		positions [4][3]float32
		normal    [3]float32
	}

	faces := []faceData{
		// +X
		{positions: [4][3]float32{{0.5, -0.5, 0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, 0.5, 0.5}}, normal: [3]float32{1, 0, 0}},
		// -X
		{positions: [4][3]float32{{-0.5, -0.5, -0.5}, {-0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5}, {-0.5, 0.5, -0.5}}, normal: [3]float32{-1, 0, 0}},
		// +Y
		{positions: [4][3]float32{{-0.5, 0.5, 0.5}, {0.5, 0.5, 0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5}}, normal: [3]float32{0, 1, 0}},
		// -Y
		{positions: [4][3]float32{{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, -0.5, 0.5}, {-0.5, -0.5, 0.5}}, normal: [3]float32{0, -1, 0}},
		// +Z
		{positions: [4][3]float32{{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5}}, normal: [3]float32{0, 0, 1}},
		// -Z
		{positions: [4][3]float32{{0.5, -0.5, -0.5}, {-0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5}}, normal: [3]float32{0, 0, -1}},
	}

	// UVs follow the position order above, with V pointing down the image.
	uvs := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	vertices := make([]GPUVertex, 0, 24)
	for _, face := range faces {
		for vi, pos := range face.positions {
			vertices = append(vertices, GPUVertex{
				Position: pos,
				TexCoord: uvs[vi],
				Normal:   face.normal,
			})
		}
	}

	// 6 faces x 2 tris x 3 = 36 indices
	indices := make([]uint32, 0, 36)
	for fi := range 6 {
		base := uint32(fi * 4)
		indices = append(indices,
			base+0, base+1, base+2,
			base+0, base+2, base+3,
		)
	}

	vertexBytes := common.SliceToBytes(vertices)
	indexBytes := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(indexBytes[i*4:], idx)
	}

	return NewMesh(
		WithName(name),
		WithMeshProvider(bind_group_provider.NewBindGroupProvider(name+"_mesh")),
		WithVertexData(vertexBytes),
		WithIndexData(indexBytes),
		WithIndexCount(len(indices)),
		WithBoundingRadius(ComputeBoundingRadius(vertices)),
	)
}
