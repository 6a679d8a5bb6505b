package instance

import (
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/Carmen-Shannon/prism-go/engine/geometry"
)

// parallelPackThreshold is the instance count above which Pack splits matrix
// flattening across the worker pool. Below it the per-task overhead outweighs
// the matrix math.
const parallelPackThreshold = 512

// DrawBucket is one contiguous run of packed instances sharing a
// (model, texture) pair. Each bucket is drawn with a single indexed-instanced
// call spanning [FirstInstance, FirstInstance+InstanceCount).
type DrawBucket struct {
	// ModelIndex identifies the mesh all instances in this bucket draw.
	ModelIndex int

	// TextureIndex identifies the texture resource all instances in this bucket bind.
	TextureIndex int

	// FirstInstance is the bucket's starting offset in the packed buffer.
	FirstInstance uint32

	// InstanceCount is the number of instances in the bucket.
	InstanceCount uint32
}

// instanceSet is the single implementation of InstanceSet.
type instanceSet struct {
	mu *sync.Mutex

	instances []ModelInstance

	// order maps packed-buffer position to index in instances, grouping
	// instances by (model, texture) while preserving sequence order inside
	// each group.
	order   []int
	buckets []DrawBucket

	packPool    worker.DynamicWorkerPool
	packWorkers int
}

// InstanceSet owns an ordered sequence of ModelInstance values and produces
// the packed, bucketed form the renderer uploads and draws. Thread-safe.
type InstanceSet interface {
	// Rebuild replaces the sequence with the instances produced by a grid spec.
	//
	// Parameters:
	//   - spec: lattice dimensions and spacing
	Rebuild(spec GridSpec)

	// SetInstances replaces the sequence directly.
	//
	// Parameters:
	//   - instances: the new ordered instance sequence
	SetInstances(instances []ModelInstance)

	// Instances returns a copy of the current sequence.
	//
	// Returns:
	//   - []ModelInstance: the ordered instance sequence
	Instances() []ModelInstance

	// Count returns the number of instances in the set.
	//
	// Returns:
	//   - int: the instance count
	Count() int

	// Pack flattens every instance transform into its GPU matrix form, in
	// bucket order. Instance counts above the parallel threshold split the
	// work across the pack worker pool.
	//
	// Returns:
	//   - []geometry.GPUInstanceData: packed records, one per instance
	Pack() []geometry.GPUInstanceData

	// PackedBytes returns Pack's output as the flattened byte sequence
	// written into the GPU instance buffer. Length is always
	// Count() * 64 bytes.
	//
	// Returns:
	//   - []byte: the packed instance bytes
	PackedBytes() []byte

	// Buckets returns the contiguous (model, texture) draw ranges matching the
	// packed buffer ordering. Computed when the sequence changes, not per frame.
	//
	// Returns:
	//   - []DrawBucket: draw ranges in packed order
	Buckets() []DrawBucket
}

var _ InstanceSet = &instanceSet{}

// NewInstanceSet creates an empty InstanceSet.
//
// Parameters:
//   - options: functional options to configure the set
//
// Returns:
//   - InstanceSet: the newly created set
func NewInstanceSet(options ...InstanceSetOption) InstanceSet {
	s := &instanceSet{
		mu:          &sync.Mutex{},
		packWorkers: runtime.NumCPU(),
	}
	for _, option := range options {
		option(s)
	}
	s.packPool = worker.NewDynamicWorkerPool(s.packWorkers, 256, 1*time.Second)
	return s
}

func (s *instanceSet) Rebuild(spec GridSpec) {
	s.SetInstances(BuildGrid(spec))
}

func (s *instanceSet) SetInstances(instances []ModelInstance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances = make([]ModelInstance, len(instances))
	copy(s.instances, instances)
	s.reorder()
}

func (s *instanceSet) Instances() []ModelInstance {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ModelInstance, len(s.instances))
	copy(out, s.instances)
	return out
}

func (s *instanceSet) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.instances)
}

func (s *instanceSet) Pack() []geometry.GPUInstanceData {
	s.mu.Lock()
	defer s.mu.Unlock()

	packed := make([]geometry.GPUInstanceData, len(s.order))
	if len(s.order) == 0 {
		return packed
	}

	if len(s.order) < parallelPackThreshold {
		for slot, idx := range s.order {
			packed[slot] = s.instances[idx].ToGPU()
		}
		return packed
	}

	// Chunk the flattening across the pool, one contiguous span per worker.
	var wg sync.WaitGroup
	chunk := (len(s.order) + s.packWorkers - 1) / s.packWorkers
	for start := 0; start < len(s.order); start += chunk {
		end := min(start+chunk, len(s.order))
		wg.Add(1)
		lo, hi := start, end
		s.packPool.SubmitTask(worker.Task{
			ID: lo,
			Do: func() (any, error) {
				defer wg.Done()
				for slot := lo; slot < hi; slot++ {
					packed[slot] = s.instances[s.order[slot]].ToGPU()
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
	return packed
}

func (s *instanceSet) PackedBytes() []byte {
	return common.SliceToBytes(s.Pack())
}

func (s *instanceSet) Buckets() []DrawBucket {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]DrawBucket, len(s.buckets))
	copy(out, s.buckets)
	return out
}

// reorder recomputes the packed ordering and draw buckets. Instances are
// grouped by (model, texture); inside a group the original sequence order is
// preserved. Caller must hold the mutex.
func (s *instanceSet) reorder() {
	s.order = make([]int, len(s.instances))
	for i := range s.order {
		s.order[i] = i
	}
	sort.SliceStable(s.order, func(a, b int) bool {
		ia, ib := s.instances[s.order[a]], s.instances[s.order[b]]
		if ia.ModelIndex != ib.ModelIndex {
			return ia.ModelIndex < ib.ModelIndex
		}
		return ia.TextureIndex < ib.TextureIndex
	})

	s.buckets = s.buckets[:0]
	for slot, idx := range s.order {
		inst := s.instances[idx]
		n := len(s.buckets)
		if n > 0 && s.buckets[n-1].ModelIndex == inst.ModelIndex && s.buckets[n-1].TextureIndex == inst.TextureIndex {
			s.buckets[n-1].InstanceCount++
			continue
		}
		s.buckets = append(s.buckets, DrawBucket{
			ModelIndex:    inst.ModelIndex,
			TextureIndex:  inst.TextureIndex,
			FirstInstance: uint32(slot),
			InstanceCount: 1,
		})
	}
}
