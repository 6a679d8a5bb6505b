package renderer

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/pipeline"
	"github.com/cockroachdb/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// fakeBackend satisfies wgpuRendererBackend without touching a GPU so the
// renderer's state machine and surface recovery can be exercised in isolation.
type fakeBackend struct {
	configureCalls []struct{ width, height int }
	beginErrs      []error
	beginCalls     int
	drawCalls      int
	presentCalls   int
	released       bool

	instanceData map[string][]byte
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{instanceData: make(map[string][]byte)}
}

func (f *fakeBackend) Device() *wgpu.Device     { return nil }
func (f *fakeBackend) Queue() *wgpu.Queue       { return nil }
func (f *fakeBackend) Instance() *wgpu.Instance { return nil }
func (f *fakeBackend) Adapter() *wgpu.Adapter   { return nil }
func (f *fakeBackend) Surface() *wgpu.Surface   { return nil }

func (f *fakeBackend) ConfigureSurface(width, height int) {
	f.configureCalls = append(f.configureCalls, struct{ width, height int }{width, height})
}

func (f *fakeBackend) SetPresentMode(mode PresentMode) {}

func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline) error { return nil }

func (f *fakeBackend) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	provider.SetIndexCount(indexCount)
	return nil
}

func (f *fakeBackend) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	return nil
}

func (f *fakeBackend) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	return nil
}

func (f *fakeBackend) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return nil
}

func (f *fakeBackend) InitInstanceBuffer(key string, data []byte) error {
	f.instanceData[key] = append([]byte(nil), data...)
	return nil
}

func (f *fakeBackend) UpdateInstanceBuffer(key string, data []byte) error {
	f.instanceData[key] = append([]byte(nil), data...)
	return nil
}

func (f *fakeBackend) InstanceBuffer(key string) *wgpu.Buffer { return nil }

func (f *fakeBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) {}

func (f *fakeBackend) BeginFrame() error {
	f.beginCalls++
	if len(f.beginErrs) > 0 {
		err := f.beginErrs[0]
		f.beginErrs = f.beginErrs[1:]
		return err
	}
	return nil
}

func (f *fakeBackend) DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, instanceKey string, firstInstance, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) {
	f.drawCalls++
}

func (f *fakeBackend) EndFrame() {}

func (f *fakeBackend) Present() { f.presentCalls++ }

func (f *fakeBackend) Release() { f.released = true }

var _ RendererBackend = &fakeBackend{}

func newTestRenderer(backend RendererBackend) *renderer {
	return &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backend:       backend,
		state:         FrameStateReady,
		surfaceWidth:  800,
		surfaceHeight: 600,
	}
}

func TestOutdatedAcquireReconfiguresOnceAndSkipsFrame(t *testing.T) {
	fake := newFakeBackend()
	fake.beginErrs = []error{errors.New("Surface is outdated")}
	r := newTestRenderer(fake)

	err := r.BeginFrame()
	if err == nil {
		t.Fatal("expected an error from a stale swapchain acquire")
	}
	if !IsTransientSurfaceError(err) {
		t.Fatalf("expected a transient surface error, got %v", err)
	}
	if got := len(fake.configureCalls); got != 1 {
		t.Fatalf("expected exactly one reconfigure, got %d", got)
	}
	if fake.configureCalls[0].width != 800 || fake.configureCalls[0].height != 600 {
		t.Fatalf("reconfigure used wrong size: %+v", fake.configureCalls[0])
	}
	if fake.drawCalls != 0 {
		t.Fatalf("expected zero draws on a skipped frame, got %d", fake.drawCalls)
	}
	if got := r.State(); got != FrameStateReady {
		t.Fatalf("expected state ready after skipped frame, got %s", got)
	}

	// Next frame proceeds normally.
	if err := r.BeginFrame(); err != nil {
		t.Fatalf("expected the next frame to begin cleanly, got %v", err)
	}
	if got := r.State(); got != FrameStateRendering {
		t.Fatalf("expected state rendering, got %s", got)
	}
	if got := len(fake.configureCalls); got != 1 {
		t.Fatalf("expected no further reconfigures, got %d", got)
	}
}

func TestFatalSurfaceErrorIsNotTransient(t *testing.T) {
	tests := []struct {
		name      string
		msg       string
		transient bool
	}{
		{name: "device lost", msg: "Device lost", transient: false},
		{name: "out of memory", msg: "OutOfMemory", transient: false},
		{name: "outdated", msg: "Surface is outdated", transient: true},
		{name: "lost", msg: "Surface was lost", transient: true},
		{name: "timeout", msg: "Surface acquire timed out", transient: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := classifySurfaceError(errors.New(tt.msg))
			if got := IsTransientSurfaceError(classified); got != tt.transient {
				t.Fatalf("classify(%q): transient = %v, want %v", tt.msg, got, tt.transient)
			}
			if !tt.transient && !errors.Is(classified, ErrSurfaceFatal) {
				t.Fatalf("classify(%q): expected ErrSurfaceFatal mark", tt.msg)
			}
		})
	}
}

func TestFatalSurfaceErrorLeavesSurfaceAlone(t *testing.T) {
	fake := newFakeBackend()
	fake.beginErrs = []error{errors.New("Device lost")}
	r := newTestRenderer(fake)

	err := r.BeginFrame()
	if !errors.Is(err, ErrSurfaceFatal) {
		t.Fatalf("expected a fatal surface error, got %v", err)
	}
	if got := len(fake.configureCalls); got != 0 {
		t.Fatalf("expected no reconfigure on a fatal error, got %d", got)
	}
}

func TestResizeIsIdempotent(t *testing.T) {
	fake := newFakeBackend()
	r := newTestRenderer(fake)

	r.Resize(1024, 768)
	r.Resize(1024, 768)

	if got := len(fake.configureCalls); got != 2 {
		t.Fatalf("expected two configure calls, got %d", got)
	}
	for i, call := range fake.configureCalls {
		if call.width != 1024 || call.height != 768 {
			t.Fatalf("configure call %d has wrong size: %+v", i, call)
		}
	}
	if got := r.State(); got != FrameStateReady {
		t.Fatalf("expected state ready after resize, got %s", got)
	}
	if r.surfaceWidth != 1024 || r.surfaceHeight != 768 {
		t.Fatalf("renderer did not track the new surface size: %dx%d", r.surfaceWidth, r.surfaceHeight)
	}
}

func TestResizeDuringFrameDeferredToPresent(t *testing.T) {
	fake := newFakeBackend()
	r := newTestRenderer(fake)

	if err := r.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	r.Resize(1024, 768)
	if got := len(fake.configureCalls); got != 0 {
		t.Fatalf("expected resize to wait for the frame, got %d configures", got)
	}
	if r.surfaceWidth != 800 || r.surfaceHeight != 600 {
		t.Fatalf("tracked size changed mid-frame: %dx%d", r.surfaceWidth, r.surfaceHeight)
	}

	r.EndFrame()
	r.Present()
	if got := len(fake.configureCalls); got != 1 {
		t.Fatalf("expected the deferred resize to apply on present, got %d configures", got)
	}
	if fake.configureCalls[0].width != 1024 || fake.configureCalls[0].height != 768 {
		t.Fatalf("deferred resize used wrong size: %+v", fake.configureCalls[0])
	}
	if r.surfaceWidth != 1024 || r.surfaceHeight != 768 {
		t.Fatalf("renderer did not track the deferred size: %dx%d", r.surfaceWidth, r.surfaceHeight)
	}
	if got := r.State(); got != FrameStateReady {
		t.Fatalf("expected state ready after present, got %s", got)
	}

	// A stale acquire after the deferred resize must recover at the new size,
	// not the size the frame was rendered at.
	fake.beginErrs = []error{errors.New("Surface is outdated")}
	if err := r.BeginFrame(); err == nil {
		t.Fatal("expected an error from a stale swapchain acquire")
	}
	if got := len(fake.configureCalls); got != 2 {
		t.Fatalf("expected a recovery reconfigure, got %d configures", got)
	}
	if fake.configureCalls[1].width != 1024 || fake.configureCalls[1].height != 768 {
		t.Fatalf("recovery reconfigured at a stale size: %+v", fake.configureCalls[1])
	}
}

func TestFrameStateTransitions(t *testing.T) {
	fake := newFakeBackend()
	r := newTestRenderer(fake)

	if got := r.State(); got != FrameStateReady {
		t.Fatalf("expected initial state ready, got %s", got)
	}
	if err := r.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	if got := r.State(); got != FrameStateRendering {
		t.Fatalf("expected rendering, got %s", got)
	}

	// A second BeginFrame while a frame is in flight is a caller bug.
	if err := r.BeginFrame(); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration on nested BeginFrame, got %v", err)
	}

	r.EndFrame()
	r.Present()
	if got := r.State(); got != FrameStateReady {
		t.Fatalf("expected ready after present, got %s", got)
	}

	r.Destroy()
	if got := r.State(); got != FrameStateDestroyed {
		t.Fatalf("expected destroyed, got %s", got)
	}
	if !fake.released {
		t.Fatal("expected backend resources to be released")
	}
	if err := r.BeginFrame(); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration after destroy, got %v", err)
	}
}

func TestDrawCallGuards(t *testing.T) {
	fake := newFakeBackend()
	r := newTestRenderer(fake)

	// Outside a frame.
	if err := r.DrawCall("textured", nil, "grid", 0, 1, nil); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration outside a frame, got %v", err)
	}

	if err := r.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}

	// Unknown pipeline key.
	if err := r.DrawCall("missing", nil, "grid", 0, 1, nil); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for unknown pipeline, got %v", err)
	}
	if fake.drawCalls != 0 {
		t.Fatalf("expected no draws to reach the backend, got %d", fake.drawCalls)
	}

	r.SetPipeline("textured", pipeline.NewPipeline("textured"))
	if err := r.DrawCall("textured", nil, "grid", 0, 1, nil); err != nil {
		t.Fatalf("DrawCall: %v", err)
	}
	if fake.drawCalls != 1 {
		t.Fatalf("expected one draw, got %d", fake.drawCalls)
	}
}

func TestUpdateInstancesForwardsPackedBytes(t *testing.T) {
	fake := newFakeBackend()
	r := newTestRenderer(fake)

	data := make([]byte, 3*64)
	for i := range data {
		data[i] = byte(i)
	}
	if err := r.InitInstanceBuffer("grid", data); err != nil {
		t.Fatalf("InitInstanceBuffer: %v", err)
	}
	if got := len(fake.instanceData["grid"]); got != len(data) {
		t.Fatalf("expected %d instance bytes, got %d", len(data), got)
	}

	shrunk := data[:64]
	if err := r.UpdateInstances("grid", shrunk); err != nil {
		t.Fatalf("UpdateInstances: %v", err)
	}
	if got := len(fake.instanceData["grid"]); got != 64 {
		t.Fatalf("expected 64 instance bytes after shrink, got %d", got)
	}
}
