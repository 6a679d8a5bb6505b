package texture

import (
	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/Carmen-Shannon/prism-go/engine/renderer"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/bind_group_provider"
	"github.com/cockroachdb/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// textureResource is the implementation of the TextureResource interface.
type textureResource struct {
	name              string
	staging           common.TextureStagingData
	sampler           common.SamplerStagingData
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// TextureResource bundles decoded RGBA pixel data with the sampler configuration
// and the bind group provider that will hold the GPU-side view and sampler.
//
// Pixel data and sampler settings are fixed at load time. The bind group provider
// is populated during the renderer InitTexture phase, which creates the GPU texture,
// view, sampler, and bind group from the staged data.
type TextureResource interface {
	// Name retrieves the texture identifier.
	//
	// Returns:
	//   - string: the name of the texture
	Name() string

	// Staging retrieves the decoded RGBA pixel data and dimensions pending GPU upload.
	//
	// Returns:
	//   - common.TextureStagingData: the staged pixel data
	Staging() common.TextureStagingData

	// Sampler retrieves the sampler configuration for this texture.
	//
	// Returns:
	//   - common.SamplerStagingData: the sampler configuration
	Sampler() common.SamplerStagingData

	// BindGroupProvider retrieves the bind group provider holding GPU-side resources for this texture.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider
	BindGroupProvider() bind_group_provider.BindGroupProvider
}

var _ TextureResource = &textureResource{}

// Load decodes encoded image bytes (PNG or JPEG) into a TextureResource ready for
// GPU initialization. Undecodable bytes and dimensions exceeding the backend
// texture limit are rejected; no placeholder texture is substituted.
//
// The default sampler uses clamp-to-edge addressing with linear min/mag filtering
// and no mipmaps.
//
// Parameters:
//   - imageBytes: raw encoded image bytes
//   - options: functional options to configure the resource
//
// Returns:
//   - TextureResource: the loaded texture resource
//   - error: an error wrapping renderer.ErrResourceCreation if decoding or validation fails
func Load(imageBytes []byte, options ...TextureBuilderOption) (TextureResource, error) {
	t := &textureResource{
		name: "texture",
		sampler: common.SamplerStagingData{
			AddressModeU:  wgpu.AddressModeClampToEdge,
			AddressModeV:  wgpu.AddressModeClampToEdge,
			AddressModeW:  wgpu.AddressModeClampToEdge,
			MagFilter:     wgpu.FilterModeLinear,
			MinFilter:     wgpu.FilterModeLinear,
			MipmapFilter:  wgpu.MipmapFilterModeNearest,
			MaxAnisotropy: 1,
		},
	}
	for _, opt := range options {
		opt(t)
	}

	imported := &common.ImportedTexture{
		Name: t.name,
		Data: imageBytes,
	}
	pixels, width, height, err := imported.Decode()
	if err != nil {
		return nil, errors.Wrapf(renderer.ErrResourceCreation, "failed to decode texture %s: %v", t.name, err)
	}
	if width > renderer.MaxTextureDimension2D || height > renderer.MaxTextureDimension2D {
		return nil, errors.Wrapf(renderer.ErrResourceCreation, "texture %s is %dx%d, exceeds dimension limit %d", t.name, width, height, renderer.MaxTextureDimension2D)
	}

	t.staging = common.TextureStagingData{
		Pixels: pixels,
		Width:  width,
		Height: height,
	}
	t.bindGroupProvider = bind_group_provider.NewBindGroupProvider(t.name)
	return t, nil
}

func (t *textureResource) Name() string {
	return t.name
}

func (t *textureResource) Staging() common.TextureStagingData {
	return t.staging
}

func (t *textureResource) Sampler() common.SamplerStagingData {
	return t.sampler
}

func (t *textureResource) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return t.bindGroupProvider
}
