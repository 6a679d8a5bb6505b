package renderer

import (
	"log"
	"sync"

	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/prism-go/engine/window"
	"github.com/cockroachdb/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	state FrameState

	// Last configured surface size, used to reconfigure after a transient
	// surface acquire failure without consulting the window.
	surfaceWidth  int
	surfaceHeight int

	// Size requested by a Resize that arrived while a frame was in flight,
	// applied when the frame completes in Present.
	pendingResizeWidth  int
	pendingResizeHeight int
	resizePending       bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer defines the interface for the rendering system.
//
// This is a high-level API designed to simplify rendering tasks into a streamlined and idiomatic flow.
// The Renderer manages a cache of pipelines, tracks its lifecycle through a guarded FrameState
// machine, and delegates GPU work to a backend which allows for multiple backend API implementations.
type Renderer interface {
	// State reports the renderer's current lifecycle state.
	//
	// Returns:
	//   - FrameState: the current frame state
	State() FrameState

	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Pipelines retrieves the entire cache of Pipelines.
	//
	// Returns:
	//   - map[string]pipeline.Pipeline: a map of pipeline keys to their corresponding Pipeline objects
	Pipelines() map[string]pipeline.Pipeline

	// RegisterPipelines registers one or more pipelines by creating the corresponding GPU
	// pipeline objects via the backend, then caching them by PipelineKey.
	// Pipelines whose keys are already registered are skipped to avoid duplicate GPU resource creation.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// SetPipeline adds or updates a Pipeline in the cache with the given key.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to add or update in the cache
	//   - p: the Pipeline to add or update in the cache
	SetPipeline(key string, p pipeline.Pipeline)

	// Resize reconfigures the surface and depth texture for a new size. The resize is
	// atomic relative to frames: when delivered mid-frame it is deferred and applied
	// as the frame completes in Present, so the next frame renders at the new size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// InitMeshBuffers creates GPU vertex and index buffers from raw byte data and stores them
	// on the given BindGroupProvider for later use in draw calls.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - vertexData: the raw vertex data bytes to upload to the GPU
	//   - indexData: the raw index data bytes to upload to the GPU
	//   - indexCount: the number of indices, used for draw calls
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitUniformBuffer creates a uniform buffer and bind group for the provider from the
	// given layout descriptor. Buffer sizes default to each entry's MinBindingSize and can
	// be overridden per binding.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffer and bind group on
	//   - descriptor: the layout descriptor defining the uniform bindings
	//   - bufferSizeOverrides: custom buffer sizes keyed by binding index (nil safe)
	//
	// Returns:
	//   - error: an error if buffer or bind group creation fails
	InitUniformBuffer(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error

	// InitTexture uploads texture staging data, creates the sampler, and builds the bind
	// group exposing both on the provider: the view at viewBinding and the sampler at
	// samplerBinding, per the given layout descriptor.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the texture resources on
	//   - descriptor: the layout descriptor for the texture bind group
	//   - viewBinding: the binding index for the texture view
	//   - samplerBinding: the binding index for the sampler
	//   - stagingData: the pixel data and dimensions for the texture
	//   - samplerStagingData: the sampler configuration
	//
	// Returns:
	//   - error: an error if any resource creation step fails
	InitTexture(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, viewBinding, samplerBinding int, stagingData common.TextureStagingData, samplerStagingData common.SamplerStagingData) error

	// InitInstanceBuffer creates a vertex-usage GPU buffer holding packed per-instance data
	// and registers it under the given key for use in draw calls at vertex slot 1.
	//
	// Parameters:
	//   - key: the registry key identifying the instance buffer
	//   - data: the packed instance data bytes to upload
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitInstanceBuffer(key string, data []byte) error

	// UpdateInstances uploads new packed instance data to the buffer registered under key.
	// If the byte length is unchanged the data is written in place; otherwise the buffer
	// is reallocated at the new size.
	//
	// Parameters:
	//   - key: the registry key identifying the instance buffer
	//   - data: the packed instance data bytes to upload
	//
	// Returns:
	//   - error: an error if reallocation fails
	UpdateInstances(key string, data []byte) error

	// UpdateUniform writes data into the provider's uniform buffer at the given binding
	// and byte offset.
	//
	// Parameters:
	//   - provider: the BindGroupProvider holding the uniform buffer
	//   - binding: the binding index of the buffer to write
	//   - offset: the byte offset within the buffer
	//   - data: the bytes to write
	UpdateUniform(provider bind_group_provider.BindGroupProvider, binding int, offset uint64, data []byte)

	// WriteBuffers writes all staged buffer writes to the GPU queue.
	// Each BufferWrite targets a specific buffer on a BindGroupProvider at a given binding and offset.
	//
	// Parameters:
	//   - writes: a slice of BufferWrite structs describing the data to write
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the swapchain texture and begins the main render pass.
	// Must be paired with EndFrame and Present after all DrawCall invocations.
	//
	// A transient surface failure (lost, outdated, or timed out swapchain) triggers a
	// single surface reconfigure and returns an error matching ErrSurfaceOutdated; the
	// caller should skip the frame and continue. Fatal failures match ErrSurfaceFatal
	// and should terminate the render loop.
	//
	// Returns:
	//   - error: nil on success, or a classified surface error
	BeginFrame() error

	// DrawCall encodes a single instanced draw command within the current render pass.
	// The mesh binds at vertex slot 0 and the registered instance buffer at slot 1; the
	// draw spans [firstInstance, firstInstance+instanceCount) within the instance buffer.
	// Multiple DrawCall invocations can be made between BeginFrame and EndFrame.
	//
	// Parameters:
	//   - pipelineKey: the unique identifier for the cached render Pipeline to use
	//   - meshProvider: the BindGroupProvider holding vertex and index buffers
	//   - instanceKey: the registry key of the instance buffer to bind
	//   - firstInstance: the first instance index within the buffer to draw
	//   - instanceCount: the number of instances to draw
	//   - bindGroups: a slice of BindGroupProviders whose BindGroups will be set on the render pass in order
	//
	// Returns:
	//   - error: an error if the pipeline is not found or no frame is in flight
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceKey string, firstInstance, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	// Does not present the surface; call Present() after EndFrame to display the frame.
	// Must be called after BeginFrame and all DrawCall invocations within a single frame.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	// Must be called once per frame after EndFrame.
	Present()

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// A call to Resize is required after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// Destroy releases all GPU resources held by the renderer and its backend.
	// The renderer transitions to FrameStateDestroyed and can no longer be used.
	Destroy()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type, driving the
// surface of the given window. The surface is configured immediately so the renderer starts
// in FrameStateReady.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window providing the surface descriptor and initial dimensions
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		state:         FrameStateUninitialized,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAAOff // default
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.surfaceWidth, r.surfaceHeight = window.Width(), window.Height()
	r.backend.ConfigureSurface(r.surfaceWidth, r.surfaceHeight)
	r.state = FrameStateReady
	return r
}

func (r *renderer) State() FrameState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// A frame in flight holds the previous swapchain texture; reconfiguring under
	// it would invalidate the render pass attachments mid-encode. Record the size
	// and apply it once Present completes the frame.
	if r.state == FrameStateRendering {
		r.pendingResizeWidth, r.pendingResizeHeight = width, height
		r.resizePending = true
		return
	}
	if r.state != FrameStateReady {
		return
	}

	r.applyResizeLocked(width, height)
}

// applyResizeLocked reconfigures the surface at the given size. The caller must
// hold r.mu and the state must be FrameStateReady.
func (r *renderer) applyResizeLocked(width, height int) {
	r.state = FrameStateResizing
	r.surfaceWidth, r.surfaceHeight = width, height
	r.backend.ConfigureSurface(width, height)
	r.state = FrameStateReady
	r.resizePending = false
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return err
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) SetPipeline(key string, p pipeline.Pipeline) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pipelineCache[key] = p
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitUniformBuffer(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error {
	return r.backend.InitBindGroup(provider, descriptor, nil, bufferSizeOverrides)
}

func (r *renderer) InitTexture(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, viewBinding, samplerBinding int, stagingData common.TextureStagingData, samplerStagingData common.SamplerStagingData) error {
	if err := r.backend.InitTextureView(provider, viewBinding, stagingData); err != nil {
		return err
	}
	if err := r.backend.InitSampler(provider, samplerBinding, samplerStagingData); err != nil {
		return err
	}
	return r.backend.InitBindGroup(provider, descriptor, nil, nil)
}

func (r *renderer) InitInstanceBuffer(key string, data []byte) error {
	return r.backend.InitInstanceBuffer(key, data)
}

func (r *renderer) UpdateInstances(key string, data []byte) error {
	return r.backend.UpdateInstanceBuffer(key, data)
}

func (r *renderer) UpdateUniform(provider bind_group_provider.BindGroupProvider, binding int, offset uint64, data []byte) {
	r.backend.WriteBuffers([]bind_group_provider.BufferWrite{
		{
			Provider: provider,
			Binding:  binding,
			Offset:   offset,
			Data:     data,
		},
	})
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != FrameStateReady {
		return errors.Wrapf(ErrConfiguration, "cannot begin frame in state %s", r.state)
	}

	err := r.backend.BeginFrame()
	if err == nil {
		r.state = FrameStateRendering
		return nil
	}

	classified := classifySurfaceError(err)
	if errors.Is(classified, ErrSurfaceOutdated) {
		// Stale swapchain is a normal consequence of resizes and minimization.
		// Reconfigure once at the last known size and let the caller skip the frame.
		log.Printf("renderer: surface stale, reconfiguring %dx%d: %v", r.surfaceWidth, r.surfaceHeight, err)
		r.backend.ConfigureSurface(r.surfaceWidth, r.surfaceHeight)
	}
	return classified
}

func (r *renderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceKey string, firstInstance, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	if r.state != FrameStateRendering {
		r.mu.Unlock()
		return errors.Wrapf(ErrConfiguration, "draw call outside a frame (state %s)", r.state)
	}
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists {
		return errors.Wrapf(ErrConfiguration, "render pipeline %q not found in cache", pipelineKey)
	}

	r.backend.DrawCall(p, meshProvider, instanceKey, firstInstance, instanceCount, bindGroups)
	return nil
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.backend.Present()
	if r.state == FrameStateRendering {
		r.state = FrameStateReady
	}
	if r.resizePending && r.state == FrameStateReady {
		r.applyResizeLocked(r.pendingResizeWidth, r.pendingResizeHeight)
	}
}

func (r *renderer) Destroy() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == FrameStateDestroyed {
		return
	}
	r.state = FrameStateDestroyed
	r.backend.Release()
}
