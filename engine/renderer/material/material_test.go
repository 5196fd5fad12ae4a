package material

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-outline/common"
)

func TestNewMaterialDefaults(t *testing.T) {
	m := NewMaterial(WithName("Materials/White.yaml"))
	if m.BaseColor() != [4]float32{1, 1, 1, 1} {
		t.Fatalf("expected opaque white, got %v", m.BaseColor())
	}
	if m.UVScale() != [2]float32{1, 1} {
		t.Fatalf("expected unit uv scale, got %v", m.UVScale())
	}
	if m.PipelineKey() != DefaultPipelineKey {
		t.Fatalf("expected %q, got %q", DefaultPipelineKey, m.PipelineKey())
	}
	if m.Texture() != nil || m.TextureName() != "" {
		t.Fatalf("expected untextured material")
	}
}

func TestRevisionTracksBindingChanges(t *testing.T) {
	tex := &common.TextureStagingData{Width: 1, Height: 1, Pixels: []byte{255, 255, 255, 255}}
	m := NewMaterial(WithPipelineKey("unlit"))

	steps := []struct {
		name string
		do   func()
		want uint64
	}{
		{"color_change_keeps_revision", func() { m.SetBaseColor([4]float32{1, 0, 0, 1}) }, 0},
		{"texture_bumps", func() { m.SetTexture("Textures/StoneTiled", tex) }, 1},
		{"same_texture_noop", func() { m.SetTexture("Textures/StoneTiled", tex) }, 1},
		{"pipeline_bumps", func() { m.SetPipelineKey("lit") }, 2},
		{"same_pipeline_noop", func() { m.SetPipelineKey("lit") }, 2},
	}
	for _, s := range steps {
		t.Run(s.name, func(t *testing.T) {
			s.do()
			if m.Revision() != s.want {
				t.Fatalf("expected revision %d, got %d", s.want, m.Revision())
			}
		})
	}
}

func TestParamsMarshal(t *testing.T) {
	m := NewMaterial(WithBaseColor([4]float32{0.5, 0.25, 1, 1}), WithUVScale(50, 50))
	p := m.Params()
	if p.Size() != 32 {
		t.Fatalf("expected 32 byte params, got %d", p.Size())
	}
	buf := p.Marshal()
	if len(buf) != 32 {
		t.Fatalf("expected 32 bytes, got %d", len(buf))
	}
	if p.UVScale != [2]float32{50, 50} {
		t.Fatalf("unexpected uv scale %v", p.UVScale)
	}
}
