package light

// ShadowMapResolution is the width and height in texels of the shadow depth texture.
const ShadowMapResolution = 2048

// DefaultShadowHalfExtent is the orthographic half-extent (in world units) of the
// directional light shadow frustum around the focus point.
const DefaultShadowHalfExtent float32 = 40.0

// DefaultShadowNear is the near plane for the directional light's orthographic shadow projection.
const DefaultShadowNear float32 = 0.1

// DefaultShadowFar is the far plane for the directional light's orthographic shadow projection.
const DefaultShadowFar float32 = 200.0

// DefaultShadowBias is the constant depth bias applied to shadow comparisons to reduce shadow acne.
const DefaultShadowBias float32 = 0.001

// DefaultShadowNormalBiasScale is the multiplier applied to the shadow map texel world-size
// to compute the normal-offset bias.
const DefaultShadowNormalBiasScale float32 = 3.0

// NewShadowData builds the shadow uniform for a light focused on a world position,
// using the default extent, clip planes and biases.
//
// Parameters:
//   - l: the shadow-casting light
//   - focus: world-space center of the shadow square, usually the camera position
//
// Returns:
//   - GPUShadowData: light view-projection, texel size and biases
func NewShadowData(l Light, focus [3]float32) GPUShadowData {
	var s GPUShadowData
	s.ComputeDirectionalLightVP(l.Direction(), focus[0], focus[1], focus[2],
		DefaultShadowHalfExtent, DefaultShadowNear, DefaultShadowFar)
	s.ComputeNormalBias(DefaultShadowHalfExtent, DefaultShadowNormalBiasScale, ShadowMapResolution)
	s.TexelSize = [2]float32{1.0 / ShadowMapResolution, 1.0 / ShadowMapResolution}
	s.Bias = DefaultShadowBias
	return s
}
