package shader

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderBuilderOption is a functional option used to configure a Shader during construction.
type ShaderBuilderOption func(*shader)

// WithEntryPoint overrides the default entry point name for this shader.
// Vertex shaders default to "vs_main" and fragment shaders to "fs_main".
//
// Parameters:
//   - entryPoint: the WGSL function name to invoke for this stage
//
// Returns:
//   - ShaderBuilderOption: a function that sets the entry point for this shader
func WithEntryPoint(entryPoint string) ShaderBuilderOption {
	return func(s *shader) {
		s.entryPoint = entryPoint
	}
}

// WithBindGroupLayout declares the bind group layout descriptor for a group index.
// The descriptor must match the @group/@binding declarations in the WGSL source;
// the renderer creates the GPU layout objects from these descriptors at pipeline
// registration.
//
// Parameters:
//   - group: the bind group index the descriptor applies to
//   - descriptor: the layout descriptor for the group
//
// Returns:
//   - ShaderBuilderOption: a function that sets the bind group layout for this shader
func WithBindGroupLayout(group int, descriptor wgpu.BindGroupLayoutDescriptor) ShaderBuilderOption {
	return func(s *shader) {
		s.bindGroupLayoutDescriptors[group] = descriptor
	}
}

// WithVertexLayout declares the vertex buffer layouts for a slot key. Only
// meaningful on vertex shaders; the slot key orders the buffers in the pipeline's
// vertex state (slot 0 for per-vertex data, slot 1 for per-instance data).
//
// Parameters:
//   - key: the slot key identifying the layout group
//   - layouts: the vertex buffer layouts for the slot
//
// Returns:
//   - ShaderBuilderOption: a function that sets the vertex layouts for this shader
func WithVertexLayout(key int, layouts ...wgpu.VertexBufferLayout) ShaderBuilderOption {
	return func(s *shader) {
		s.vertexLayouts[key] = layouts
	}
}
