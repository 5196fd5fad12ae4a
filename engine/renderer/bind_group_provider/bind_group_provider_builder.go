package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithSharedTextureView binds a texture view owned elsewhere, such as a render target.
//
// Parameters:
//   - binding: the binding index for the view
//   - tv: the borrowed texture view
//
// Returns:
//   - BindGroupProviderOption: a function that stages the shared view on the provider
func WithSharedTextureView(binding int, tv *wgpu.TextureView) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.ShareTextureView(binding, tv)
	}
}

// WithSharedSampler binds a sampler owned elsewhere, such as the renderer's common samplers.
//
// Parameters:
//   - binding: the binding index for the sampler
//   - s: the borrowed sampler
//
// Returns:
//   - BindGroupProviderOption: a function that stages the shared sampler on the provider
func WithSharedSampler(binding int, s *wgpu.Sampler) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.ShareSampler(binding, s)
	}
}
