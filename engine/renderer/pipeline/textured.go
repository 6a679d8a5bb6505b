package pipeline

import (
	_ "embed"

	"github.com/Carmen-Shannon/prism-go/engine/geometry"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/shader.wgsl
var texturedShaderSource string

// cameraUniformSize is the byte size of the camera uniform block the vertex
// stage reads at group 0 binding 0. Must stay in sync with camera.GPUCameraUniform.
const cameraUniformSize = 64

// CameraBindGroupLayout returns the bind group layout descriptor for the camera
// uniform at group 0: a single uniform buffer at binding 0 with vertex visibility.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the camera uniform layout descriptor
func CameraBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Camera Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: cameraUniformSize,
				},
			},
		},
	}
}

// TextureBindGroupLayout returns the bind group layout descriptor for a sampled
// texture at group 1: the texture view at binding 0 and its sampler at binding 1,
// both with fragment visibility.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the texture + sampler layout descriptor
func TextureBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Texture Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	}
}

// NewTexturedPipeline creates the standard textured instancing pipeline: per-vertex
// position/uv/normal at slot 0, the per-instance model matrix at slot 1, the camera
// uniform at group 0, and the diffuse texture + sampler at group 1. Depth testing
// and writing are enabled against a Depth24Plus target and back faces are culled.
// Additional options may override any of the defaults.
//
// Parameters:
//   - pipelineKey: the unique key to cache the pipeline under
//   - opts: additional PipelineBuilderOption functions applied after the defaults
//
// Returns:
//   - Pipeline: the configured pipeline, ready for registration
func NewTexturedPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	vs := shader.NewShader(pipelineKey+"_vs", shader.ShaderTypeVertex, texturedShaderSource,
		shader.WithBindGroupLayout(0, CameraBindGroupLayout()),
		shader.WithVertexLayout(0, geometry.VertexBufferLayout()),
		shader.WithVertexLayout(1, geometry.InstanceBufferLayout()),
	)
	fs := shader.NewShader(pipelineKey+"_fs", shader.ShaderTypeFragment, texturedShaderSource,
		shader.WithBindGroupLayout(1, TextureBindGroupLayout()),
	)

	defaults := []PipelineBuilderOption{
		WithVertexShader(vs),
		WithFragmentShader(fs),
		WithDepthTestEnabled(true),
		WithDepthWriteEnabled(true),
		WithCullMode(wgpu.CullModeBack),
	}
	return NewPipeline(pipelineKey, append(defaults, opts...)...)
}
