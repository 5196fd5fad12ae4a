package loader

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	errInvalidVersion  = errors.New("loader: glTF version must be 2.x")
	errInvalidGLB      = errors.New("loader: malformed GLB container")
	errMissingJSON     = errors.New("loader: GLB has no JSON chunk")
	errBufferTooSmall  = errors.New("loader: buffer shorter than declared")
	errAccessorRange   = errors.New("loader: accessor out of range")
	errSparseAccessors = errors.New("loader: sparse accessors are not supported")
)

// maxZeroAccessorBytes bounds the zero-filled data synthesized for accessors without a buffer view.
const maxZeroAccessorBytes = 64 << 20

// Resolver returns the bytes of an external buffer referenced by URI, relative to the model.
type Resolver func(uri string) ([]byte, error)

// gltfParser decodes a glTF or GLB document and reads typed accessor data from its buffers.
type gltfParser struct {
	doc *gltfDocument
}

// isGLB reports whether data starts with the binary container magic.
func isGLB(data []byte) bool {
	return len(data) >= 4 && binary.LittleEndian.Uint32(data) == glbMagic
}

// parseGLTF decodes a JSON or binary document and loads every buffer it declares.
func parseGLTF(data []byte, resolve Resolver) (*gltfParser, error) {
	var (
		jsonData []byte
		binChunk []byte
	)
	if isGLB(data) {
		var err error
		jsonData, binChunk, err = splitGLB(data)
		if err != nil {
			return nil, err
		}
	} else {
		jsonData = data
	}

	var doc gltfDocument
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("loader: decode glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return nil, errInvalidVersion
	}

	for i := range doc.Buffers {
		buf := &doc.Buffers[i]
		switch {
		case buf.URI == "" && i == 0 && binChunk != nil:
			buf.data = binChunk
		case buf.URI == "":
			return nil, fmt.Errorf("loader: buffer %d has no data", i)
		case strings.HasPrefix(buf.URI, "data:"):
			b, err := decodeDataURI(buf.URI)
			if err != nil {
				return nil, fmt.Errorf("loader: buffer %d: %w", i, err)
			}
			buf.data = b
		default:
			if resolve == nil {
				return nil, fmt.Errorf("loader: buffer %d references %q but no resolver is set", i, buf.URI)
			}
			b, err := resolve(buf.URI)
			if err != nil {
				return nil, fmt.Errorf("loader: buffer %d: %w", i, err)
			}
			buf.data = b
		}
		if len(buf.data) < buf.ByteLength {
			return nil, fmt.Errorf("buffer %d: %w", i, errBufferTooSmall)
		}
	}
	return &gltfParser{doc: &doc}, nil
}

// splitGLB returns the JSON and BIN chunks of a GLB container.
func splitGLB(data []byte) (jsonData, binData []byte, err error) {
	if len(data) < glbHeaderLen {
		return nil, nil, errInvalidGLB
	}
	if v := binary.LittleEndian.Uint32(data[4:]); v != glbVersion {
		return nil, nil, fmt.Errorf("%w: version %d", errInvalidGLB, v)
	}
	total := int(binary.LittleEndian.Uint32(data[8:]))
	if total > len(data) {
		return nil, nil, fmt.Errorf("%w: declared length %d exceeds %d", errInvalidGLB, total, len(data))
	}

	for off := glbHeaderLen; off+8 <= total; {
		length := int(binary.LittleEndian.Uint32(data[off:]))
		kind := binary.LittleEndian.Uint32(data[off+4:])
		off += 8
		if length < 0 || off+length > total {
			return nil, nil, fmt.Errorf("%w: chunk overruns file", errInvalidGLB)
		}
		switch kind {
		case glbChunkJSON:
			jsonData = data[off : off+length]
		case glbChunkBIN:
			if binData == nil {
				binData = data[off : off+length]
			}
		}
		off += length
	}
	if jsonData == nil {
		return nil, nil, errMissingJSON
	}
	return jsonData, binData, nil
}

// decodeDataURI decodes "data:[<mediatype>];base64,<data>".
func decodeDataURI(uri string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, errors.New("malformed data URI")
	}
	if !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("unsupported data URI encoding %q", header)
	}
	return base64.StdEncoding.DecodeString(payload)
}

// readFloats reads an accessor as float32 components, converting integer components and
// applying normalization. It returns count*components values.
func (p *gltfParser) readFloats(index int, accessorType string) ([]float32, int, error) {
	acc, raw, stride, err := p.accessor(index)
	if err != nil {
		return nil, 0, err
	}
	if acc.Type != accessorType {
		return nil, 0, fmt.Errorf("loader: accessor %d is %s, want %s", index, acc.Type, accessorType)
	}

	n := componentCount(acc.Type)
	size := componentSize(acc.ComponentType)
	out := make([]float32, acc.Count*n)
	for i := 0; i < acc.Count; i++ {
		elem := raw[i*stride:]
		for c := 0; c < n; c++ {
			out[i*n+c] = component(elem[c*size:], acc.ComponentType, acc.Normalized)
		}
	}
	return out, acc.Count, nil
}

// readIndices reads an unsigned scalar index accessor.
func (p *gltfParser) readIndices(index int) ([]uint32, error) {
	acc, raw, stride, err := p.accessor(index)
	if err != nil {
		return nil, err
	}
	if acc.Type != "SCALAR" {
		return nil, fmt.Errorf("loader: index accessor %d is %s", index, acc.Type)
	}

	out := make([]uint32, acc.Count)
	for i := range out {
		elem := raw[i*stride:]
		switch acc.ComponentType {
		case componentUnsignedByte:
			out[i] = uint32(elem[0])
		case componentUnsignedShort:
			out[i] = uint32(binary.LittleEndian.Uint16(elem))
		case componentUnsignedInt:
			out[i] = binary.LittleEndian.Uint32(elem)
		default:
			return nil, fmt.Errorf("loader: index component type %d", acc.ComponentType)
		}
	}
	return out, nil
}

// accessor validates an accessor and returns the buffer slice starting at its first element
// together with the element stride.
func (p *gltfParser) accessor(index int) (*gltfAccessor, []byte, int, error) {
	doc := p.doc
	if index < 0 || index >= len(doc.Accessors) {
		return nil, nil, 0, fmt.Errorf("%w: %d", errAccessorRange, index)
	}
	acc := &doc.Accessors[index]
	if acc.Sparse != nil {
		return nil, nil, 0, errSparseAccessors
	}
	elemSize := componentSize(acc.ComponentType) * componentCount(acc.Type)
	if elemSize == 0 {
		return nil, nil, 0, fmt.Errorf("loader: accessor %d has type %s/%d", index, acc.Type, acc.ComponentType)
	}
	if acc.Count < 0 || acc.ByteOffset < 0 {
		return nil, nil, 0, fmt.Errorf("%w: accessor %d has count %d offset %d", errAccessorRange, index, acc.Count, acc.ByteOffset)
	}
	if acc.BufferView == nil {
		// No buffer view means all zeros.
		if acc.Count > maxZeroAccessorBytes/elemSize {
			return nil, nil, 0, fmt.Errorf("%w: accessor %d has %d elements and no buffer view", errAccessorRange, index, acc.Count)
		}
		return acc, make([]byte, acc.Count*elemSize), elemSize, nil
	}
	if *acc.BufferView < 0 || *acc.BufferView >= len(doc.BufferViews) {
		return nil, nil, 0, fmt.Errorf("%w: buffer view %d", errAccessorRange, *acc.BufferView)
	}
	bv := &doc.BufferViews[*acc.BufferView]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) {
		return nil, nil, 0, fmt.Errorf("%w: buffer %d", errAccessorRange, bv.Buffer)
	}

	stride := elemSize
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}
	start := bv.ByteOffset + acc.ByteOffset
	data := doc.Buffers[bv.Buffer].data
	if bv.ByteOffset < 0 || bv.ByteLength < 0 || start > len(data) {
		return nil, nil, 0, fmt.Errorf("%w: buffer view %d", errAccessorRange, *acc.BufferView)
	}
	if acc.Count > 0 {
		end := start + (acc.Count-1)*stride + elemSize
		if start < 0 || end > len(data) || end > bv.ByteOffset+bv.ByteLength {
			return nil, nil, 0, fmt.Errorf("%w: accessor %d reads past its buffer view", errAccessorRange, index)
		}
	}
	return acc, data[start:], stride, nil
}

// component decodes one accessor component.
func component(b []byte, componentType int, normalized bool) float32 {
	switch componentType {
	case componentFloat:
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	case componentUnsignedByte:
		if normalized {
			return float32(b[0]) / 255
		}
		return float32(b[0])
	case componentByte:
		v := float32(int8(b[0]))
		if normalized {
			return max(v/127, -1)
		}
		return v
	case componentUnsignedShort:
		v := float32(binary.LittleEndian.Uint16(b))
		if normalized {
			return v / 65535
		}
		return v
	case componentShort:
		v := float32(int16(binary.LittleEndian.Uint16(b)))
		if normalized {
			return max(v/32767, -1)
		}
		return v
	case componentUnsignedInt:
		return float32(binary.LittleEndian.Uint32(b))
	}
	return 0
}
