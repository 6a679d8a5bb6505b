package texture

import "github.com/Carmen-Shannon/prism-go/common"

// TextureBuilderOption is a functional option for configuring a textureResource.
// Use the With* functions to create options.
type TextureBuilderOption func(t *textureResource)

// WithName sets the texture identifier used for labeling GPU resources.
//
// Parameters:
//   - name: the texture identifier
//
// Returns:
//   - TextureBuilderOption: option function to apply
func WithName(name string) TextureBuilderOption {
	return func(t *textureResource) {
		t.name = name
	}
}

// WithSampler overrides the default clamp-to-edge linear sampler configuration.
//
// Parameters:
//   - sampler: the sampler configuration to use
//
// Returns:
//   - TextureBuilderOption: option function to apply
func WithSampler(sampler common.SamplerStagingData) TextureBuilderOption {
	return func(t *textureResource) {
		t.sampler = sampler
	}
}
