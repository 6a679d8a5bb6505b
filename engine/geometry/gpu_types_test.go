package geometry

import (
	"encoding/binary"
	"math"
	"testing"
	"unsafe"
)

func TestVertexLayoutMatchesStruct(t *testing.T) {
	layout := VertexBufferLayout()

	if layout.ArrayStride != uint64(unsafe.Sizeof(GPUVertex{})) {
		t.Fatalf("stride %d does not match struct size %d", layout.ArrayStride, unsafe.Sizeof(GPUVertex{}))
	}
	if layout.ArrayStride != 32 {
		t.Fatalf("GPUVertex must be 32 bytes, got %d", layout.ArrayStride)
	}

	wantLocations := []uint32{0, 1, 2}
	wantOffsets := []uint64{0, 12, 20}
	if len(layout.Attributes) != len(wantLocations) {
		t.Fatalf("attribute count = %d, want %d", len(layout.Attributes), len(wantLocations))
	}
	for i, attr := range layout.Attributes {
		if attr.ShaderLocation != wantLocations[i] {
			t.Errorf("attribute %d location = %d, want %d", i, attr.ShaderLocation, wantLocations[i])
		}
		if attr.Offset != wantOffsets[i] {
			t.Errorf("attribute %d offset = %d, want %d", i, attr.Offset, wantOffsets[i])
		}
	}
}

func TestInstanceLayoutMatchesStruct(t *testing.T) {
	layout := InstanceBufferLayout()

	if layout.ArrayStride != 64 {
		t.Fatalf("GPUInstanceData must be 64 bytes, got %d", layout.ArrayStride)
	}

	wantLocations := []uint32{5, 6, 7, 8}
	if len(layout.Attributes) != len(wantLocations) {
		t.Fatalf("attribute count = %d, want %d", len(layout.Attributes), len(wantLocations))
	}
	for i, attr := range layout.Attributes {
		if attr.ShaderLocation != wantLocations[i] {
			t.Errorf("column %d location = %d, want %d", i, attr.ShaderLocation, wantLocations[i])
		}
		if attr.Offset != uint64(i*16) {
			t.Errorf("column %d offset = %d, want %d", i, attr.Offset, i*16)
		}
	}
}

func TestVertexMarshalOffsets(t *testing.T) {
	v := GPUVertex{
		Position: [3]float32{1, 2, 3},
		TexCoord: [2]float32{0.25, 0.75},
		Normal:   [3]float32{0, 1, 0},
	}
	buf := v.Marshal()
	if len(buf) != v.Size() {
		t.Fatalf("marshaled length %d != struct size %d", len(buf), v.Size())
	}

	at := func(offset int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
	}
	if at(0) != 1 || at(4) != 2 || at(8) != 3 {
		t.Error("position bytes at wrong offsets")
	}
	if at(12) != 0.25 || at(16) != 0.75 {
		t.Error("texcoord bytes at wrong offsets")
	}
	if at(20) != 0 || at(24) != 1 || at(28) != 0 {
		t.Error("normal bytes at wrong offsets")
	}
}

func TestCubeMesh(t *testing.T) {
	cube := NewCubeMesh("cube")

	if got := len(cube.VertexData()); got != 24*32 {
		t.Fatalf("vertex data = %d bytes, want %d", got, 24*32)
	}
	if cube.IndexCount() != 36 {
		t.Fatalf("index count = %d, want 36", cube.IndexCount())
	}
	if got := len(cube.IndexData()); got != 36*4 {
		t.Fatalf("index data = %d bytes, want %d", got, 36*4)
	}

	want := float32(math.Sqrt(0.75)) // corner of a unit cube
	if absf(cube.BoundingRadius()-want) > 1e-5 {
		t.Fatalf("bounding radius = %v, want %v", cube.BoundingRadius(), want)
	}
	if cube.MeshProvider() == nil {
		t.Fatal("mesh provider not set")
	}
}

// TestCubeWindingIsCounterClockwise checks every triangle's winding against its
// face normal: cross(e1, e2) must point along the normal for CCW front faces.
func TestCubeWindingIsCounterClockwise(t *testing.T) {
	cube := NewCubeMesh("cube")

	vertexData := cube.VertexData()
	readVertex := func(i uint32) (pos, normal [3]float32) {
		base := int(i) * 32
		for c := range 3 {
			pos[c] = math.Float32frombits(binary.LittleEndian.Uint32(vertexData[base+c*4:]))
			normal[c] = math.Float32frombits(binary.LittleEndian.Uint32(vertexData[base+20+c*4:]))
		}
		return
	}

	indexData := cube.IndexData()
	for tri := 0; tri < cube.IndexCount()/3; tri++ {
		i0 := binary.LittleEndian.Uint32(indexData[(tri*3+0)*4:])
		i1 := binary.LittleEndian.Uint32(indexData[(tri*3+1)*4:])
		i2 := binary.LittleEndian.Uint32(indexData[(tri*3+2)*4:])

		p0, n := readVertex(i0)
		p1, _ := readVertex(i1)
		p2, _ := readVertex(i2)

		e1 := [3]float32{p1[0] - p0[0], p1[1] - p0[1], p1[2] - p0[2]}
		e2 := [3]float32{p2[0] - p1[0], p2[1] - p1[1], p2[2] - p1[2]}
		cross := [3]float32{
			e1[1]*e2[2] - e1[2]*e2[1],
			e1[2]*e2[0] - e1[0]*e2[2],
			e1[0]*e2[1] - e1[1]*e2[0],
		}
		dot := cross[0]*n[0] + cross[1]*n[1] + cross[2]*n[2]
		if dot <= 0 {
			t.Fatalf("triangle %d wound clockwise relative to its normal (dot = %v)", tri, dot)
		}
	}
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
