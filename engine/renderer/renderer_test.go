package renderer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-outline/engine/camera"
	"github.com/Carmen-Shannon/oxy-outline/engine/light"
	"github.com/Carmen-Shannon/oxy-outline/engine/model"
	"github.com/Carmen-Shannon/oxy-outline/engine/render_path"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-outline/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestBuiltinPipelines(t *testing.T) {
	pipelines := builtinPipelines()
	cases := []struct {
		key         string
		groups      int
		vertexBufs  int
		hasFragment bool
	}{
		{PipelineLit, 4, 1, true},
		{PipelineUnlit, 3, 1, true},
		{PipelineShadow, 2, 1, false},
		{string(render_path.EffectOutline), 1, 0, true},
		{string(render_path.EffectFXAA), 1, 0, true},
		{string(render_path.EffectCopy), 1, 0, true},
	}
	for _, c := range cases {
		t.Run(c.key, func(t *testing.T) {
			p := pipelines[c.key]
			if p == nil {
				t.Fatalf("missing pipeline")
			}
			if got := len(p.BindGroupLayouts()); got != c.groups {
				t.Fatalf("expected %d groups, got %d", c.groups, got)
			}
			if got := len(p.Shader(shader.ShaderTypeVertex).VertexLayouts()); got != c.vertexBufs {
				t.Fatalf("expected %d vertex buffers, got %d", c.vertexBufs, got)
			}
			if (p.Shader(shader.ShaderTypeFragment) != nil) != c.hasFragment {
				t.Fatalf("unexpected fragment stage")
			}
		})
	}
}

func TestUniformSizesMatchShaders(t *testing.T) {
	pipelines := builtinPipelines()
	lit := pipelines[PipelineLit].BindGroupLayouts()

	var cam camera.GPUCameraUniform
	var obj model.GPUObjectData
	var params material.GPUMaterialParams
	var lighting light.GPULighting
	var shadowData light.GPUShadowData
	var shadowUniform light.GPUShadowUniform

	cases := []struct {
		name string
		desc wgpu.BindGroupLayoutDescriptor
		bind uint32
		size int
	}{
		{"camera", lit[groupCamera], 0, cam.Size()},
		{"object", lit[groupObject], 0, obj.Size()},
		{"material", lit[groupMaterial], bindingMaterialParams, params.Size()},
		{"lighting", lit[groupLighting], bindingLighting, lighting.Size()},
		{"shadow_data", lit[groupLighting], bindingShadowData, shadowData.Size()},
		{"shadow_uniform", pipelines[PipelineShadow].BindGroupLayouts()[0], 0, shadowUniform.Size()},
		{"outline_params", pipelines[string(render_path.EffectOutline)].BindGroupLayouts()[0], bindingPostParams, 32},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			for _, e := range c.desc.Entries {
				if e.Binding != c.bind {
					continue
				}
				if e.Buffer.MinBindingSize != uint64(c.size) {
					t.Fatalf("shader expects %d bytes, Go type has %d", e.Buffer.MinBindingSize, c.size)
				}
				return
			}
			t.Fatalf("binding %d not found", c.bind)
		})
	}
}

func TestMeshGroupsAreShareable(t *testing.T) {
	pipelines := builtinPipelines()
	lit := pipelines[PipelineLit].BindGroupLayouts()
	unlit := pipelines[PipelineUnlit].BindGroupLayouts()
	shadow := pipelines[PipelineShadow].BindGroupLayouts()

	same := func(a, b wgpu.BindGroupLayoutDescriptor) bool {
		a, b = withRenderVisibility(a), withRenderVisibility(b)
		if len(a.Entries) != len(b.Entries) {
			return false
		}
		for i := range a.Entries {
			if a.Entries[i] != b.Entries[i] {
				return false
			}
		}
		return true
	}

	for g := groupCamera; g <= groupMaterial; g++ {
		if !same(lit[g], unlit[g]) {
			t.Fatalf("group %d differs between lit and unlit", g)
		}
	}
	if !same(lit[groupObject], shadow[groupObject]) {
		t.Fatalf("object group differs between lit and shadow")
	}
}

func TestOutlineLayout(t *testing.T) {
	desc := builtinPipelines()[string(render_path.EffectOutline)].BindGroupLayouts()[0]
	for _, b := range []uint32{bindingPostSource, bindingPostSampler, bindingPostMask, bindingPostMaskSampler, bindingPostParams} {
		if !hasBinding(desc, b) {
			t.Fatalf("outline is missing binding %d", b)
		}
	}
	fxaa := builtinPipelines()[string(render_path.EffectFXAA)].BindGroupLayouts()[0]
	if hasBinding(fxaa, bindingPostMask) || hasBinding(fxaa, bindingPostParams) {
		t.Fatalf("fxaa should only read its source")
	}
}

func quad(name string) model.Model {
	return model.NewModel(
		model.WithName(name),
		model.WithGeometry([]model.GPUVertex{
			{Position: [3]float32{-1, -1, 0}},
			{Position: [3]float32{1, -1, 0}},
			{Position: [3]float32{1, 1, 0}},
			{Position: [3]float32{-1, 1, 0}},
		}, []uint32{0, 1, 2, 0, 2, 3}),
	)
}

func TestCollectDraws(t *testing.T) {
	s := scene.NewScene("main")
	lit := material.NewMaterial()
	flat := material.NewMaterial(material.WithPipelineKey(PipelineUnlit))

	s.CreateChild("front", scene.WithPosition(0, 0, 10), scene.WithStaticModel(quad("front"), lit))
	s.CreateChild("front_unlit", scene.WithPosition(1, 0, 10), scene.WithStaticModel(quad("front_unlit"), flat))
	s.CreateChild("behind", scene.WithPosition(0, 0, -10), scene.WithStaticModel(quad("behind"), lit))
	hidden := s.CreateChild("hidden", scene.WithEnabled(false))
	hidden.CreateChild("hidden_child", scene.WithPosition(0, 0, 10), scene.WithStaticModel(quad("hidden_child"), lit))
	s.CreateChild("empty", scene.WithPosition(0, 0, 10))
	s.CreateChild("no_geometry", scene.WithPosition(0, 0, 10), scene.WithStaticModel(model.NewModel(), lit))

	cam := camera.NewCamera(camera.WithAspect(16.0 / 9.0))
	camNode := s.CreateChild("camera", scene.WithCamera(cam))
	cam.Update(camNode.WorldMatrix())
	frustum := cam.Frustum()

	t.Run("culled", func(t *testing.T) {
		items, culled := collectDraws(s, &frustum)
		if len(items) != 2 || culled != 1 {
			t.Fatalf("expected 2 items and 1 culled, got %d and %d", len(items), culled)
		}
		if items[0].material.PipelineKey() != PipelineLit || items[1].material.PipelineKey() != PipelineUnlit {
			t.Fatalf("items should be grouped by pipeline key")
		}
		if items[0].world[14] != 10 {
			t.Fatalf("expected the world matrix translation, got %v", items[0].world[12:15])
		}
	})

	t.Run("unculled", func(t *testing.T) {
		items, culled := collectDraws(s, nil)
		if len(items) != 3 || culled != 0 {
			t.Fatalf("expected 3 items without culling, got %d and %d", len(items), culled)
		}
	})

	t.Run("bounds_follow_scale", func(t *testing.T) {
		other := scene.NewScene("scaled")
		other.CreateChild("big", scene.WithPosition(0, 0, -3), scene.WithScale(10, 10, 10), scene.WithStaticModel(quad("big"), lit))
		items, culled := collectDraws(other, &frustum)
		if len(items) != 1 || culled != 0 {
			t.Fatalf("a scaled mesh reaching into the frustum must not be culled")
		}
	})
}

func TestPlanPostChain(t *testing.T) {
	stage := func(name string, opts ...render_path.StageOption) render_path.Stage {
		return render_path.NewStage(name, render_path.EffectCopy, opts...)
	}

	cases := []struct {
		name    string
		stages  []render_path.Stage
		usable  func(render_path.Stage) bool
		want    [][2]int
		skipped int
	}{
		{"empty", nil, nil, nil, 0},
		{"single", []render_path.Stage{stage("a")}, nil, [][2]int{{0, swapchainTarget}}, 0},
		{"pair", []render_path.Stage{stage("a"), stage("b")}, nil, [][2]int{{0, 1}, {1, swapchainTarget}}, 0},
		{"triple", []render_path.Stage{stage("a"), stage("b"), stage("c")}, nil,
			[][2]int{{0, 1}, {1, 0}, {0, swapchainTarget}}, 0},
		{"disabled", []render_path.Stage{stage("a"), stage("b", render_path.WithStageEnabled(false))}, nil,
			[][2]int{{0, swapchainTarget}}, 0},
		{"unusable", []render_path.Stage{stage("outline"), stage("fxaa")},
			func(s render_path.Stage) bool { return s.Name() != "outline" },
			[][2]int{{0, swapchainTarget}}, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path, err := render_path.NewRenderPath(c.stages...)
			if err != nil {
				t.Fatalf("new render path: %v", err)
			}
			steps, skipped := planPostChain(path, c.usable)
			if len(steps) != len(c.want) || len(skipped) != c.skipped {
				t.Fatalf("expected %d steps and %d skipped, got %d and %d", len(c.want), c.skipped, len(steps), len(skipped))
			}
			for i, step := range steps {
				if step.source != c.want[i][0] || step.target != c.want[i][1] {
					t.Fatalf("step %d: expected %v, got %d -> %d", i, c.want[i], step.source, step.target)
				}
			}
		})
	}

	if steps, _ := planPostChain(nil, nil); steps != nil {
		t.Fatalf("a nil path has no steps")
	}
}

func TestOutlineParams(t *testing.T) {
	st := render_path.NewStage("outline", render_path.EffectOutline,
		render_path.WithParameter(render_path.ParamColorR, 1),
		render_path.WithParameter(render_path.ParamColorG, 0.5),
		render_path.WithParameter(render_path.ParamColorA, 0.8),
		render_path.WithParameter(render_path.ParamThickness, 2),
	)
	data := outlineParams(st)
	if len(data) != 32 {
		t.Fatalf("expected 32 bytes, got %d", len(data))
	}
	want := []float32{1, 0.5, 0, 0.8, 2}
	for i, w := range want {
		got := math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
		if got != w {
			t.Fatalf("float %d: expected %v, got %v", i, w, got)
		}
	}
}

func TestPresentModeString(t *testing.T) {
	if PresentModeVSync.String() != "vsync" || PresentModeUncapped.String() != "uncapped" {
		t.Fatalf("unexpected names")
	}
	if PresentMode(9).String() != "PresentMode(9)" {
		t.Fatalf("unexpected fallback name")
	}
}
