package material

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUMaterialParams is the GPU-aligned uniform block shared by the lit and unlit mesh shaders.
// Matches the WGSL MaterialParams struct layout exactly.
// Size: 32 bytes (std140 aligned).
type GPUMaterialParams struct {
	BaseColor [4]float32 // offset  0: RGBA base color (16 bytes)
	UVScale   [2]float32 // offset 16: texture coordinate multiplier (8 bytes)
	_         [2]float32 // offset 24: padding to 32 bytes
}

// Size returns the size of the GPUMaterialParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMaterialParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterialParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (g *GPUMaterialParams) Marshal() []byte {
	buf := make([]byte, 32)
	for i, v := range g.BaseColor {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.UVScale[0]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.UVScale[1]))
	return buf
}
