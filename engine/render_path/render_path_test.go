package render_path

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-outline/engine/scene"
)

func TestRenderPathOrdering(t *testing.T) {
	p, err := NewRenderPath(
		NewStage("outline", EffectOutline, WithInput(InputMask, "OutlineMask")),
		NewStage("fxaa", EffectFXAA),
	)
	if err != nil {
		t.Fatalf("new path: %v", err)
	}

	names := func(stages []Stage) []string {
		out := make([]string, len(stages))
		for i, s := range stages {
			out[i] = s.Name()
		}
		return out
	}

	if got := names(p.Stages()); len(got) != 2 || got[0] != "outline" || got[1] != "fxaa" {
		t.Fatalf("unexpected order %v", got)
	}
	if err := p.Append(NewStage("fxaa", EffectFXAA)); err == nil {
		t.Fatalf("duplicate stage name should fail")
	}
	if err := p.Insert(5, NewStage("copy", EffectCopy)); err == nil {
		t.Fatalf("out of range insert should fail")
	}
	if err := p.Insert(0, NewStage("copy", EffectCopy)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if got := names(p.Stages()); got[0] != "copy" || got[1] != "outline" {
		t.Fatalf("insert landed wrong: %v", got)
	}

	if !p.SetEnabled("copy", false) || p.SetEnabled("missing", true) {
		t.Fatalf("SetEnabled result wrong")
	}
	if got := names(p.EnabledStages()); len(got) != 2 || got[0] != "outline" {
		t.Fatalf("unexpected enabled stages %v", got)
	}
	if !p.Remove("copy") || p.Remove("copy") || p.Stage("copy") != nil {
		t.Fatalf("remove misbehaved")
	}

	mask, ok := p.Stage("outline").Input(InputMask)
	if !ok || mask != "OutlineMask" {
		t.Fatalf("expected mask input, got %q", mask)
	}
}

func TestStageInputsAreCopied(t *testing.T) {
	s := NewStage("outline", EffectOutline, WithInput(InputMask, "A"), WithParameter(ParamThickness, 2))
	in := s.Inputs()
	in[InputMask] = "B"
	if got, _ := s.Input(InputMask); got != "A" {
		t.Fatalf("Inputs should return a copy")
	}
	if s.Parameter(ParamThickness) != 2 || s.Parameter("missing") != 0 {
		t.Fatalf("unexpected parameters")
	}
}

func TestRenderTargetDefaults(t *testing.T) {
	rt := NewRenderTarget("t", 0, 600)
	w, h := rt.Size()
	if w != 1 || h != 600 {
		t.Fatalf("expected 1x600, got %dx%d", w, h)
	}
	if rt.Format() != FormatRGBA || rt.Filter() != FilterLinear || rt.UpdateMode() != UpdateAlways {
		t.Fatalf("unexpected defaults")
	}
	if UpdateManual.String() != "manual" {
		t.Fatalf("unexpected mode name %q", UpdateManual.String())
	}
}

func TestRenderSurfaceDue(t *testing.T) {
	s := scene.NewScene("outline")
	cam := s.CreateChild("Camera")
	vp := NewViewport(s, cam, nil, WithClearColor([4]float32{0, 0, 0, 1}))

	cases := []struct {
		name     string
		mode     UpdateMode
		queue    bool
		wantDue  bool
		wantNext bool
	}{
		{"always", UpdateAlways, false, true, true},
		{"manual_idle", UpdateManual, false, false, false},
		{"manual_queued", UpdateManual, true, true, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rt := NewRenderTarget("mask", 8, 8, WithUpdateMode(c.mode))
			surf := NewRenderSurface(rt, vp)
			if c.queue {
				rt.QueueUpdate()
			}
			if surf.Due() != c.wantDue {
				t.Fatalf("expected due %v", c.wantDue)
			}
			surf.MarkRendered()
			if surf.Due() != c.wantNext {
				t.Fatalf("expected due %v after render", c.wantNext)
			}
			if surf.RenderCount() != 1 {
				t.Fatalf("expected one render")
			}
		})
	}

	if c, ok := vp.ClearColor(); !ok || c[3] != 1 {
		t.Fatalf("expected explicit clear color")
	}
	if vp.CameraNode() != cam || vp.Scene() != s || vp.Shadows() {
		t.Fatalf("unexpected viewport fields")
	}
}
