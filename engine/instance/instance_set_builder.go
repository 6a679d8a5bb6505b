package instance

// InstanceSetOption is a functional option for configuring an InstanceSet.
type InstanceSetOption func(*instanceSet)

// WithPackWorkers sets the number of workers used for parallel matrix packing.
// Defaults to runtime.NumCPU(). Values below 1 are ignored.
//
// Parameters:
//   - n: worker count
//
// Returns:
//   - InstanceSetOption: functional option to set the worker count
func WithPackWorkers(n int) InstanceSetOption {
	return func(s *instanceSet) {
		if n >= 1 {
			s.packWorkers = n
		}
	}
}
