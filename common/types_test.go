package common

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestDecodeTextureScalesDown(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			src.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encode: %v", err)
	}

	data, err := DecodeTexture(&buf, 16)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Width != 16 || data.Height != 8 {
		t.Fatalf("expected 16x8, got %dx%d", data.Width, data.Height)
	}
	if len(data.Pixels) != 16*8*4 {
		t.Fatalf("unexpected pixel length %d", len(data.Pixels))
	}
	if r := int(data.Pixels[0]); r < 198 || r > 202 {
		t.Fatalf("unexpected first pixel %v", data.Pixels[:4])
	}
}

func TestDecodeTextureRejectsGarbage(t *testing.T) {
	if _, err := DecodeTexture(bytes.NewReader([]byte("not an image")), 0); err == nil {
		t.Fatalf("expected error for garbage input")
	}
}
