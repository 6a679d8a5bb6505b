package instance

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-5

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestGridLatticeScenario(t *testing.T) {
	spec := GridSpec{Rows: 3, Cols: 3, Spacing: 2.0}
	instances := BuildGrid(spec)

	if len(instances) != 9 {
		t.Fatalf("instance count = %d, want 9", len(instances))
	}

	// Regular lattice centered at the origin: coordinates -2, 0, +2 per axis.
	seen := map[[2]float32]bool{}
	var sumX, sumZ float32
	for _, inst := range instances {
		x, y, z := inst.Position.X(), inst.Position.Y(), inst.Position.Z()
		if y != 0 {
			t.Fatalf("lattice instance off the XZ plane: y = %v", y)
		}
		if math.Mod(float64(x), 2.0) != 0 || math.Mod(float64(z), 2.0) != 0 {
			t.Fatalf("position (%v, %v) not on the spacing-2 lattice", x, z)
		}
		seen[[2]float32{x, z}] = true
		sumX += x
		sumZ += z
	}
	if len(seen) != 9 {
		t.Fatalf("lattice has %d distinct positions, want 9", len(seen))
	}
	if absf(sumX) > epsilon || absf(sumZ) > epsilon {
		t.Fatalf("lattice not centered at origin: centroid (%v, %v)", sumX/9, sumZ/9)
	}

	// Each model matrix applied to the local origin must yield the instance position.
	for i, inst := range instances {
		m := inst.ModelMatrix()
		// column-major: translation lives in elements 12..14
		if absf(m[12]-inst.Position.X()) > epsilon ||
			absf(m[13]-inst.Position.Y()) > epsilon ||
			absf(m[14]-inst.Position.Z()) > epsilon {
			t.Fatalf("instance %d: matrix moves origin to (%v, %v, %v), want %v",
				i, m[12], m[13], m[14], inst.Position)
		}
	}
}

func TestModelMatrixComposition(t *testing.T) {
	inst := ModelInstance{
		Position: mgl32.Vec3{1, 2, 3},
		Rotation: mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}),
		Scale:    2.0,
	}
	m := mgl32.Mat4(inst.ModelMatrix())

	// Scale first, then rotate, then translate: the local +X axis point at
	// distance 1 ends up scaled to 2, rotated 90 degrees around Y onto -Z,
	// then offset by the position.
	got := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	want := mgl32.Vec4{1, 2, 3 - 2, 1}
	for i := range 4 {
		if absf(got[i]-want[i]) > epsilon {
			t.Fatalf("transformed point = %v, want %v", got, want)
		}
	}
}

func TestZeroScaleDefaultsToUnit(t *testing.T) {
	inst := ModelInstance{Position: mgl32.Vec3{0, 5, 0}, Rotation: mgl32.QuatIdent()}
	m := mgl32.Mat4(inst.ModelMatrix())
	got := m.Mul4x1(mgl32.Vec4{1, 1, 1, 1})
	want := mgl32.Vec4{1, 6, 1, 1}
	for i := range 4 {
		if absf(got[i]-want[i]) > epsilon {
			t.Fatalf("zero scale collapsed geometry: %v, want %v", got, want)
		}
	}
}

func TestPackedBytesTrackInstanceCount(t *testing.T) {
	set := NewInstanceSet()

	set.Rebuild(GridSpec{Rows: 4, Cols: 5, Spacing: 1.0})
	if got := len(set.PackedBytes()); got != 20*64 {
		t.Fatalf("packed length = %d, want %d", got, 20*64)
	}

	// Shrinking the set must shrink the packed bytes to the exact new size.
	set.Rebuild(GridSpec{Rows: 2, Cols: 3, Spacing: 1.0})
	if got := len(set.PackedBytes()); got != 6*64 {
		t.Fatalf("packed length after rebuild = %d, want %d", got, 6*64)
	}
}

func TestPackRoundTrip(t *testing.T) {
	set := NewInstanceSet()
	set.Rebuild(GridSpec{Rows: 3, Cols: 3, Spacing: 2.0})

	packed := set.Pack()
	buf := set.PackedBytes()
	if len(buf) != len(packed)*64 {
		t.Fatalf("byte length = %d, want %d", len(buf), len(packed)*64)
	}

	for rec := range packed {
		for i := range 16 {
			got := math.Float32frombits(binary.LittleEndian.Uint32(buf[rec*64+i*4:]))
			if got != packed[rec].Model[i] {
				t.Fatalf("record %d element %d: read back %v, wrote %v", rec, i, got, packed[rec].Model[i])
			}
		}
	}
}

func TestParallelPackMatchesSerial(t *testing.T) {
	// Large enough to take the pooled path.
	big := GridSpec{Rows: 40, Cols: 40, Spacing: 0.5}

	parallel := NewInstanceSet(WithPackWorkers(4))
	parallel.Rebuild(big)
	serial := make([]ModelInstance, 0, big.Count())
	serial = append(serial, BuildGrid(big)...)

	packed := parallel.Pack()
	if len(packed) != len(serial) {
		t.Fatalf("packed %d records, want %d", len(packed), len(serial))
	}
	for i := range packed {
		want := serial[i].ToGPU()
		if packed[i] != want {
			t.Fatalf("record %d differs between pooled and direct packing", i)
		}
	}
}

func TestBucketsGroupByModelAndTexture(t *testing.T) {
	set := NewInstanceSet()
	set.SetInstances([]ModelInstance{
		{Position: mgl32.Vec3{0, 0, 0}, Rotation: mgl32.QuatIdent(), Scale: 1, ModelIndex: 0, TextureIndex: 1},
		{Position: mgl32.Vec3{1, 0, 0}, Rotation: mgl32.QuatIdent(), Scale: 1, ModelIndex: 0, TextureIndex: 0},
		{Position: mgl32.Vec3{2, 0, 0}, Rotation: mgl32.QuatIdent(), Scale: 1, ModelIndex: 0, TextureIndex: 1},
		{Position: mgl32.Vec3{3, 0, 0}, Rotation: mgl32.QuatIdent(), Scale: 1, ModelIndex: 1, TextureIndex: 0},
		{Position: mgl32.Vec3{4, 0, 0}, Rotation: mgl32.QuatIdent(), Scale: 1, ModelIndex: 0, TextureIndex: 0},
	})

	buckets := set.Buckets()
	want := []DrawBucket{
		{ModelIndex: 0, TextureIndex: 0, FirstInstance: 0, InstanceCount: 2},
		{ModelIndex: 0, TextureIndex: 1, FirstInstance: 2, InstanceCount: 2},
		{ModelIndex: 1, TextureIndex: 0, FirstInstance: 4, InstanceCount: 1},
	}
	if len(buckets) != len(want) {
		t.Fatalf("bucket count = %d, want %d", len(buckets), len(want))
	}
	for i := range want {
		if buckets[i] != want[i] {
			t.Fatalf("bucket %d = %+v, want %+v", i, buckets[i], want[i])
		}
	}

	// Ranges must tile the packed buffer exactly.
	var total uint32
	for _, b := range buckets {
		if b.FirstInstance != total {
			t.Fatalf("bucket at %d not contiguous with previous end %d", b.FirstInstance, total)
		}
		total += b.InstanceCount
	}
	if total != uint32(set.Count()) {
		t.Fatalf("buckets cover %d instances, set has %d", total, set.Count())
	}

	// Packed order groups by bucket while preserving sequence order inside a
	// group: positions 1 then 4 for (0,0), 0 then 2 for (0,1), then 3.
	packed := set.Pack()
	wantX := []float32{1, 4, 0, 2, 3}
	for i, rec := range packed {
		if absf(rec.Model[12]-wantX[i]) > epsilon {
			t.Fatalf("packed slot %d has x = %v, want %v", i, rec.Model[12], wantX[i])
		}
	}
}
