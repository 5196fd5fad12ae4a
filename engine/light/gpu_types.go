package light

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-outline/common"
)

// GPULighting is the GPU-aligned lighting uniform shared by the lit and unlit pipelines.
// It carries the single directional light plus the zone's ambient and fog terms.
// Matches the Lighting struct in lit.wgsl and unlit.wgsl.
// Size: 64 bytes (std140 aligned).
//
// Layout:
//
//	vec3<f32> direction   (offset  0)  f32 intensity      (offset 12)
//	vec3<f32> color       (offset 16)  f32 shadow_enabled (offset 28)
//	vec3<f32> ambient     (offset 32)  f32 fog_start      (offset 44)
//	vec3<f32> fog_color   (offset 48)  f32 fog_end        (offset 60)
type GPULighting struct {
	Direction     [3]float32
	Intensity     float32
	Color         [3]float32
	ShadowEnabled float32
	Ambient       [3]float32
	FogStart      float32
	FogColor      [3]float32
	FogEnd        float32
}

// NewGPULighting packs a light and a zone's ambient and fog settings into the lighting uniform.
// A nil or disabled light contributes nothing, leaving only ambient.
//
// Parameters:
//   - l: the directional light, or nil
//   - ambient: the ambient RGB color
//   - fogColor: the fog RGB color
//   - fogStart: distance at which fog begins
//   - fogEnd: distance at which fog is opaque
//
// Returns:
//   - GPULighting: the packed uniform
func NewGPULighting(l Light, ambient, fogColor [3]float32, fogStart, fogEnd float32) GPULighting {
	g := GPULighting{
		Direction: [3]float32{0, -1, 0},
		Ambient:   ambient,
		FogColor:  fogColor,
		FogStart:  fogStart,
		FogEnd:    fogEnd,
	}
	if l != nil && l.Enabled() {
		g.Direction = l.Direction()
		g.Color = l.Color()
		g.Intensity = l.Intensity()
		if l.CastsShadows() {
			g.ShadowEnabled = 1
		}
	}
	return g
}

// Size returns the size of the GPULighting struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPULighting) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULighting struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload
func (g *GPULighting) Marshal() []byte {
	fields := [16]float32{
		g.Direction[0], g.Direction[1], g.Direction[2], g.Intensity,
		g.Color[0], g.Color[1], g.Color[2], g.ShadowEnabled,
		g.Ambient[0], g.Ambient[1], g.Ambient[2], g.FogStart,
		g.FogColor[0], g.FogColor[1], g.FogColor[2], g.FogEnd,
	}
	buf := make([]byte, 64)
	for i, f := range fields {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// GPUShadowData is the GPU-aligned representation of directional shadow data.
// Matches the ShadowData struct in lit.wgsl.
// Size: 80 bytes (std430 / WGSL aligned).
//
// Layout:
//
//	mat4x4<f32> light_vp       (64 bytes, offset 0)
//	vec2<f32>   texel_size     ( 8 bytes, offset 64)
//	f32         bias           ( 4 bytes, offset 72)
//	f32         normal_bias    ( 4 bytes, offset 76)
type GPUShadowData struct {
	LightVP    [16]float32 // orthographic view-projection from light's perspective
	TexelSize  [2]float32  // 1.0 / shadow_map_resolution for PCF offset calculations
	Bias       float32     // depth comparison bias to reduce shadow acne
	NormalBias float32     // world-space normal-offset distance for shadow lookup
}

// Size returns the size of the GPUShadowData struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (s *GPUShadowData) Size() int {
	return int(unsafe.Sizeof(*s))
}

// ComputeDirectionalLightVP builds an orthographic view-projection matrix for a
// directional light's shadow pass and stores it in the receiver's LightVP field.
// The frustum is centered on the provided center position (typically the camera
// position) and aligned to look along the light's direction.
//
// Parameters:
//   - lightDir: normalized direction the light points (from light toward scene)
//   - centerX, centerY, centerZ: world-space center of the shadow frustum
//   - halfExtent: half-size of the orthographic frustum in world units
//   - near: near plane distance
//   - far: far plane distance
func (s *GPUShadowData) ComputeDirectionalLightVP(lightDir [3]float32, centerX, centerY, centerZ, halfExtent, near, far float32) {
	// Position the "eye" behind the center, opposite the light direction,
	// so we look from behind the scene toward the lit area.
	eyeX := centerX - lightDir[0]*far*0.5
	eyeY := centerY - lightDir[1]*far*0.5
	eyeZ := centerZ - lightDir[2]*far*0.5

	// Choose a stable up vector that isn't parallel to the light direction.
	// If the light points nearly straight up or down, use X-axis as up.
	upX, upY, upZ := float32(0), float32(1), float32(0)
	if absF32(lightDir[1]) > 0.99 {
		upX, upY, upZ = 1, 0, 0
	}

	var view [16]float32
	common.LookAt(view[:],
		eyeX, eyeY, eyeZ,
		centerX, centerY, centerZ,
		upX, upY, upZ,
	)

	var proj [16]float32
	ortho(proj[:], -halfExtent, halfExtent, -halfExtent, halfExtent, near, far)

	common.Mul4(s.LightVP[:], proj[:], view[:])
}

// ComputeNormalBias derives the world-space normal-offset bias from the shadow
// map parameters and stores it in the receiver's NormalBias field. The result is
// the distance (in world units) that fragment positions are shifted along their
// surface normal before projecting into light clip space. This prevents
// self-shadowing on concave geometry.
//
// Parameters:
//   - halfExtent: orthographic frustum half-size in world units
//   - scale: multiplier on the per-texel world size (typically 2.0–4.0)
//   - resolution: shadow map resolution in texels (width and height)
func (s *GPUShadowData) ComputeNormalBias(halfExtent, scale float32, resolution int) {
	texelWorldSize := 2.0 * halfExtent / float32(resolution)
	s.NormalBias = texelWorldSize * scale
}

// Marshal serializes the GPUShadowData struct into a byte buffer suitable for
// GPU uniform upload.
//
// Returns:
//   - []byte: 80-byte buffer ready for GPU upload
func (s *GPUShadowData) Marshal() []byte {
	buf := make([]byte, 80)
	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(s.LightVP[i]))
	}
	binary.LittleEndian.PutUint32(buf[64:68], math.Float32bits(s.TexelSize[0]))
	binary.LittleEndian.PutUint32(buf[68:72], math.Float32bits(s.TexelSize[1]))
	binary.LittleEndian.PutUint32(buf[72:76], math.Float32bits(s.Bias))
	binary.LittleEndian.PutUint32(buf[76:80], math.Float32bits(s.NormalBias))
	return buf
}

// GPUShadowUniform is the GPU-aligned representation of the shadow vertex
// shader uniform containing only the light view-projection matrix.
// Matches the ShadowUniform struct in shadow.wgsl.
// Size: 64 bytes (mat4x4<f32>).
type GPUShadowUniform struct {
	LightVP [16]float32 // orthographic view-projection from light's perspective
}

// Size returns the size of the GPUShadowUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (u *GPUShadowUniform) Size() int {
	return int(unsafe.Sizeof(*u))
}

// Marshal serializes the GPUShadowUniform struct into a byte buffer suitable for
// GPU uniform upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload
func (u *GPUShadowUniform) Marshal() []byte {
	buf := make([]byte, 64)
	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(u.LightVP[i]))
	}
	return buf
}

// ortho builds an orthographic projection matrix compatible with WebGPU's
// clip-space convention: X/Y in [-1, 1], Z in [0, 1].
// Output is column-major.
func ortho(out []float32, left, right, bottom, top, near, far float32) {
	common.Identity(out)
	rl := right - left
	tb := top - bottom
	fn := far - near

	out[0] = 2.0 / rl
	out[5] = 2.0 / tb
	out[10] = -1.0 / fn // WebGPU Z: [0, 1]
	out[12] = -(right + left) / rl
	out[13] = -(top + bottom) / tb
	out[14] = -near / fn
}

// absF32 returns the absolute value of a float32.
func absF32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
