package renderer

import (
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-outline/common"
	"github.com/Carmen-Shannon/oxy-outline/engine/camera"
	"github.com/Carmen-Shannon/oxy-outline/engine/light"
	"github.com/Carmen-Shannon/oxy-outline/engine/model"
	"github.com/Carmen-Shannon/oxy-outline/engine/render_path"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-outline/engine/scene"
	"github.com/Carmen-Shannon/oxy-outline/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// Formats of the textures the renderer allocates itself.
const (
	// targetColorFormat backs every named render target. There is no renderable three-channel
	// format, so RGB targets are stored with an alpha channel that nothing reads.
	targetColorFormat = wgpu.TextureFormatRGBA8Unorm
	sceneDepthFormat  = wgpu.TextureFormatDepth24Plus
	shadowDepthFormat = wgpu.TextureFormatDepth32Float
)

// gpuTexture is a render-attachment texture and its view, optionally with a depth buffer and the
// sampler post stages read it through.
type gpuTexture struct {
	width, height uint32
	format        wgpu.TextureFormat

	texture *wgpu.Texture
	view    *wgpu.TextureView

	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView

	sampler *wgpu.Sampler
}

func (t *gpuTexture) release() {
	if t == nil {
		return
	}
	if t.sampler != nil {
		t.sampler.Release()
	}
	if t.depthView != nil {
		t.depthView.Release()
	}
	if t.depthTexture != nil {
		t.depthTexture.Release()
	}
	if t.view != nil {
		t.view.Release()
	}
	if t.texture != nil {
		t.texture.Release()
	}
}

// objectState is the per-node uniform of one drawn node.
type objectState struct {
	node     scene.Node
	provider bind_group_provider.BindGroupProvider
	// written is the frame the uniform was last uploaded in.
	written uint64
}

// materialState tracks what a material's bind group was last built from.
type materialState struct {
	revision uint64
	texture  *common.TextureStagingData
}

// lightingState is the lighting uniform of one scene.
type lightingState struct {
	provider bind_group_provider.BindGroupProvider
	written  uint64
}

// postKey identifies a cached post-process bind group: one per stage and source intermediate.
type postKey struct {
	stage  string
	source int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelines map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode

	width, height uint32
	surfaceFormat wgpu.TextureFormat
	frame         uint64

	// Shared resources created once.
	white          bind_group_provider.BindGroupProvider
	repeatSampler  *wgpu.Sampler
	linearSampler  *wgpu.Sampler
	shadowSampler  *wgpu.Sampler
	shadowMap      *gpuTexture
	shadowProvider bind_group_provider.BindGroupProvider

	// Shadow pass results for the current frame.
	shadowScene scene.Scene
	shadowData  light.GPUShadowData

	// Window-sized textures, rebuilt on resize.
	sceneDepth    *gpuTexture
	intermediates [2]*gpuTexture

	// Named render targets, created on first use and never resized.
	targets map[string]*gpuTexture

	cameras    map[camera.Camera]bool
	meshes     map[model.Model]bool
	objects    map[uint64]*objectState
	materials  map[material.Material]*materialState
	lighting   map[scene.Scene]*lightingState
	postGroups map[postKey]bind_group_provider.BindGroupProvider
	postFrame  map[postKey]uint64
	skipLogged map[string]bool
}

// Renderer draws a frame from a set of render surfaces and a main viewport.
//
// Each frame is recorded on one command encoder, in this order: the shadow map (when the main
// viewport asks for shadows and its scene has a shadow-casting light), every render surface that
// is due, then the main viewport. When the main viewport's render path has enabled stages, the
// scene is drawn off-screen and ping-ponged through the stages, the last one writing to the
// swapchain.
type Renderer interface {
	// Resize reconfigures the swapchain and drops the window-sized intermediates. Named render
	// targets keep the size they were created with. A zero size pauses rendering.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// SetPresentMode changes the present mode and reconfigures the swapchain.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Pipeline retrieves a pipeline description by key.
	//
	// Parameters:
	//   - key: the pipeline key, or a post-process effect name
	//
	// Returns:
	//   - pipeline.Pipeline: the description, or nil if not registered
	Pipeline(key string) pipeline.Pipeline

	// Render records, submits and presents one frame.
	//
	// Parameters:
	//   - surfaces: off-screen surfaces, rendered in order when due
	//   - main: the viewport presented to the window
	//
	// Returns:
	//   - FrameStats: counts for the profiler
	//   - error: an error if the frame could not be acquired or a resource could not be created
	Render(surfaces []render_path.RenderSurface, main render_path.Viewport) (FrameStats, error)

	// Release frees every GPU resource the renderer created.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a renderer for a window. The swapchain is configured to the window size
// and the built-in pipelines are compiled for the surface format.
//
// Parameters:
//   - backendType: the GPU backend to use
//   - window: the window to present to
//   - options: builder options
//
// Returns:
//   - Renderer: the renderer
//   - error: an error if the device or a built-in resource could not be created
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		pipelines:   builtinPipelines(),
		backendType: backendType,
		targets:     make(map[string]*gpuTexture),
		cameras:     make(map[camera.Camera]bool),
		meshes:      make(map[model.Model]bool),
		objects:     make(map[uint64]*objectState),
		materials:   make(map[material.Material]*materialState),
		lighting:    make(map[scene.Scene]*lightingState),
		postGroups:  make(map[postKey]bind_group_provider.BindGroupProvider),
		postFrame:   make(map[postKey]uint64),
		skipLogged:  make(map[string]bool),
	}

	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		backend, err := newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter)
		if err != nil {
			return nil, fmt.Errorf("renderer: %w", err)
		}
		r.backend = backend
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.width, r.height = uint32(max(window.Width(), 0)), uint32(max(window.Height(), 0))
	r.backend.ConfigureSurface(int(max(r.width, 1)), int(max(r.height, 1)))
	r.surfaceFormat = r.backend.SurfaceFormat()

	if err := r.initShared(); err != nil {
		r.Release()
		return nil, fmt.Errorf("renderer: %w", err)
	}
	log.Printf("[Renderer] surface %v %dx%d, %d pipelines", r.surfaceFormat, r.width, r.height, len(r.pipelines))
	return r, nil
}

// initShared compiles the built-in pipelines and creates the resources every frame shares.
func (r *renderer) initShared() error {
	for key, p := range r.pipelines {
		format := r.surfaceFormat
		if p.Shader(shader.ShaderTypeFragment) == nil {
			format = pipeline.DepthOnly
		}
		if err := r.backend.CompileRenderPipeline(p, format); err != nil {
			return fmt.Errorf("compile %s: %w", key, err)
		}
	}

	var err error
	r.white = bind_group_provider.NewBindGroupProvider("White")
	if err = r.backend.InitTextureView(r.white, 0, common.TextureStagingData{
		Pixels: []byte{255, 255, 255, 255},
		Width:  1,
		Height: 1,
	}); err != nil {
		return err
	}

	if r.repeatSampler, err = r.backend.CreateSampler("Material Sampler", common.SamplerStagingData{}); err != nil {
		return err
	}
	if r.linearSampler, err = r.backend.CreateSampler("Post Sampler", clampSampler(wgpu.FilterModeLinear)); err != nil {
		return err
	}
	if r.shadowSampler, err = r.backend.CreateSampler("Shadow Comparison Sampler", common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MipmapFilter: wgpu.MipmapFilterModeNearest,
		Compare:      wgpu.CompareFunctionLess,
	}); err != nil {
		return err
	}

	r.shadowMap = &gpuTexture{width: light.ShadowMapResolution, height: light.ShadowMapResolution, format: shadowDepthFormat}
	if r.shadowMap.texture, r.shadowMap.view, err = r.backend.CreateRenderTexture("Shadow Map",
		light.ShadowMapResolution, light.ShadowMapResolution, shadowDepthFormat); err != nil {
		return err
	}

	r.shadowProvider = bind_group_provider.NewBindGroupProvider("Shadow Light")
	return r.backend.InitBindGroup(r.shadowProvider, r.layout(PipelineShadow, 0), nil)
}

func clampSampler(filter wgpu.FilterMode) common.SamplerStagingData {
	return common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    filter,
		MinFilter:    filter,
		MipmapFilter: wgpu.MipmapFilterModeNearest,
	}
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.width, r.height = uint32(max(width, 0)), uint32(max(height, 0))
	r.releaseWindowSized()
	if r.width == 0 || r.height == 0 {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.backend.SetPresentMode(mode)
	if r.width > 0 && r.height > 0 {
		r.backend.ConfigureSurface(int(r.width), int(r.height))
	}
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelines[key]
}

func (r *renderer) Render(surfaces []render_path.RenderSurface, main render_path.Viewport) (FrameStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stats FrameStats
	if r.width == 0 || r.height == 0 {
		return stats, nil
	}
	r.frame++
	r.shadowScene = nil

	swap, err := r.backend.BeginFrame()
	if err != nil {
		return stats, fmt.Errorf("renderer: begin frame: %w", err)
	}

	err = r.recordFrame(swap, surfaces, main, &stats)
	if endErr := r.backend.EndFrame(); endErr != nil && err == nil {
		err = fmt.Errorf("renderer: submit: %w", endErr)
	}
	r.backend.Present()
	r.pruneObjects()
	return stats, err
}

func (r *renderer) recordFrame(swap *wgpu.TextureView, surfaces []render_path.RenderSurface, main render_path.Viewport, stats *FrameStats) error {
	if main != nil && main.Shadows() && main.CameraNode() != nil {
		if err := r.shadowPass(main.Scene(), main.CameraNode().WorldPosition(), stats); err != nil {
			return err
		}
	}

	for _, s := range surfaces {
		if !s.Due() {
			continue
		}
		t, err := r.target(s.Target())
		if err != nil {
			return err
		}
		if err := r.scenePass("Surface "+s.Target().Name(), s.Viewport(), t.view, t.format, t.depthView, stats); err != nil {
			return err
		}
		s.MarkRendered()
	}

	if main == nil {
		return nil
	}
	return r.mainPass(swap, main, stats)
}

// shadowPass renders the shadow casters of a scene into the shadow map, centered on focus.
func (r *renderer) shadowPass(s scene.Scene, focus [3]float32, stats *FrameStats) error {
	n := scene.FindLight(s)
	if n == nil {
		return nil
	}
	l := n.Light()
	if l == nil || !l.Enabled() || !l.CastsShadows() {
		return nil
	}

	r.shadowData = light.NewShadowData(l, focus)
	u := light.GPUShadowUniform{LightVP: r.shadowData.LightVP}
	r.backend.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: r.shadowProvider, Binding: 0, Data: u.Marshal()},
	})

	p := r.pipelines[PipelineShadow]
	items, _ := collectDraws(s, nil)
	r.backend.BeginPass(passTarget{
		label:     "Shadow Pass",
		format:    pipeline.DepthOnly,
		depth:     r.shadowMap.view,
		keepDepth: true,
	})
	for _, item := range items {
		if !item.castShadows {
			continue
		}
		mesh, err := r.ensureMesh(item.model)
		if err != nil {
			return err
		}
		obj, err := r.ensureObject(item)
		if err != nil {
			return err
		}
		r.backend.DrawCall(p, mesh, []bind_group_provider.BindGroupProvider{r.shadowProvider, obj})
		stats.ShadowCasters++
	}
	r.backend.EndPass()
	stats.Passes++
	r.shadowScene = s
	return nil
}

// scenePass draws one viewport into a color view.
func (r *renderer) scenePass(label string, vp render_path.Viewport, color *wgpu.TextureView, format wgpu.TextureFormat, depth *wgpu.TextureView, stats *FrameStats) error {
	camNode := vp.CameraNode()
	if camNode == nil || camNode.Camera() == nil {
		return fmt.Errorf("renderer: %s: viewport has no camera", label)
	}
	cam := camNode.Camera()
	cam.Update(camNode.WorldMatrix())
	camProvider, err := r.ensureCamera(cam)
	if err != nil {
		return err
	}
	uniform := cam.Uniform()
	r.backend.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: camProvider, Binding: 0, Data: uniform.Marshal()},
	})

	frustum := cam.Frustum()
	items, culled := collectDraws(vp.Scene(), &frustum)
	stats.Culled += culled

	zone := scene.FindZone(vp.Scene(), cam.Position())
	clear := wgpu.Color{R: float64(zone.FogColor[0]), G: float64(zone.FogColor[1]), B: float64(zone.FogColor[2]), A: 1}
	if c, ok := vp.ClearColor(); ok {
		clear = wgpu.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: float64(c[3])}
	}

	var lighting bind_group_provider.BindGroupProvider
	groupCounts := make(map[pipeline.Pipeline]int)
	r.backend.BeginPass(passTarget{label: label, color: color, format: format, depth: depth, clear: clear})
	defer func() {
		r.backend.EndPass()
		stats.Passes++
	}()

	for _, item := range items {
		p := r.pipelines[item.material.PipelineKey()]
		if p == nil || p.Shader(shader.ShaderTypeFragment) == nil {
			p = r.pipelines[PipelineLit]
		}
		if err := r.backend.CompileRenderPipeline(p, format); err != nil {
			return err
		}
		groupCount, ok := groupCounts[p]
		if !ok {
			groupCount = min(len(p.BindGroupLayouts()), groupLighting+1)
			groupCounts[p] = groupCount
		}
		if groupCount > groupLighting && lighting == nil {
			if lighting, err = r.ensureLighting(vp.Scene(), cam.Position()); err != nil {
				return err
			}
		}

		mesh, err := r.ensureMesh(item.model)
		if err != nil {
			return err
		}
		mat, err := r.ensureMaterial(item.material)
		if err != nil {
			return err
		}
		obj, err := r.ensureObject(item)
		if err != nil {
			return err
		}

		groups := []bind_group_provider.BindGroupProvider{camProvider, obj, mat, lighting}
		r.backend.DrawCall(p, mesh, groups[:groupCount])
		stats.Draws++
	}
	return nil
}

// mainPass draws the main viewport and runs its post-process chain.
func (r *renderer) mainPass(swap *wgpu.TextureView, main render_path.Viewport, stats *FrameStats) error {
	depth, err := r.ensureSceneDepth()
	if err != nil {
		return err
	}

	steps, skipped := planPostChain(main.RenderPath(), r.stageUsable)
	for _, st := range skipped {
		if !r.skipLogged[st.Name()] {
			log.Printf("[Renderer] skipping stage %q: effect or input not available", st.Name())
			r.skipLogged[st.Name()] = true
		}
	}
	if len(steps) == 0 {
		return r.scenePass("Main", main, swap, r.surfaceFormat, depth.depthView, stats)
	}

	if err := r.ensureIntermediates(); err != nil {
		return err
	}
	if err := r.scenePass("Main", main, r.intermediates[0].view, r.surfaceFormat, depth.depthView, stats); err != nil {
		return err
	}

	for _, step := range steps {
		p := r.pipelines[string(step.stage.Effect())]
		if err := r.backend.CompileRenderPipeline(p, r.surfaceFormat); err != nil {
			return err
		}
		group, err := r.postGroup(step, p)
		if err != nil {
			return err
		}
		dst := swap
		if step.target != swapchainTarget {
			dst = r.intermediates[step.target].view
		}
		r.backend.BeginPass(passTarget{label: "Post " + step.stage.Name(), color: dst, format: r.surfaceFormat})
		r.backend.DrawFullscreen(p, []bind_group_provider.BindGroupProvider{group})
		r.backend.EndPass()
		stats.Passes++
	}
	return nil
}

// stageUsable reports whether a stage has a pipeline and every target it reads exists.
func (r *renderer) stageUsable(st render_path.Stage) bool {
	if r.pipelines[string(st.Effect())] == nil {
		return false
	}
	for _, name := range st.Inputs() {
		if r.targets[name] == nil {
			return false
		}
	}
	return true
}

func (r *renderer) layout(key string, group int) wgpu.BindGroupLayoutDescriptor {
	p := r.pipelines[key]
	if p == nil {
		return wgpu.BindGroupLayoutDescriptor{}
	}
	return p.BindGroupLayouts()[group]
}

func (r *renderer) ensureCamera(cam camera.Camera) (bind_group_provider.BindGroupProvider, error) {
	p := cam.BindGroupProvider()
	if p == nil {
		p = bind_group_provider.NewBindGroupProvider("Camera")
		cam.SetBindGroupProvider(p)
	}
	if !r.cameras[cam] || p.BindGroup() == nil {
		if err := r.backend.InitBindGroup(p, r.layout(PipelineLit, groupCamera), nil); err != nil {
			return nil, fmt.Errorf("camera bind group: %w", err)
		}
		r.cameras[cam] = true
	}
	return p, nil
}

func (r *renderer) ensureMesh(m model.Model) (bind_group_provider.BindGroupProvider, error) {
	p := m.MeshProvider()
	if p != nil && p.VertexBuffer() != nil {
		return p, nil
	}
	if p == nil {
		p = bind_group_provider.NewBindGroupProvider("Mesh " + m.Name())
		m.SetMeshProvider(p)
	}
	if err := r.backend.InitMeshBuffers(p, m.VertexData(), m.IndexData(), m.IndexCount()); err != nil {
		return nil, fmt.Errorf("mesh %s: %w", m.Name(), err)
	}
	r.meshes[m] = true
	return p, nil
}

func (r *renderer) ensureMaterial(mat material.Material) (bind_group_provider.BindGroupProvider, error) {
	p := mat.BindGroupProvider()
	if p == nil {
		p = bind_group_provider.NewBindGroupProvider("Material " + mat.TextureName())
		mat.SetBindGroupProvider(p)
	}

	st := r.materials[mat]
	tex := mat.Texture()
	if st == nil || st.texture != tex || p.BindGroup() == nil {
		if tex != nil {
			if err := r.backend.InitTextureView(p, bindingMaterialTexture, *tex); err != nil {
				return nil, fmt.Errorf("material texture %q: %w", mat.TextureName(), err)
			}
		} else {
			p.SetTextureView(bindingMaterialTexture, nil)
			p.ShareTextureView(bindingMaterialTexture, r.white.TextureView(0))
		}
		if p.Sampler(bindingMaterialSampler) == nil {
			p.ShareSampler(bindingMaterialSampler, r.repeatSampler)
		}
		if err := r.backend.InitBindGroup(p, r.layout(PipelineLit, groupMaterial), nil); err != nil {
			return nil, fmt.Errorf("material bind group: %w", err)
		}
		st = &materialState{revision: ^uint64(0), texture: tex}
		r.materials[mat] = st
	}

	if st.revision != mat.Revision() {
		params := mat.Params()
		r.backend.WriteBuffers([]bind_group_provider.BufferWrite{
			{Provider: p, Binding: bindingMaterialParams, Data: params.Marshal()},
		})
		st.revision = mat.Revision()
	}
	return p, nil
}

func (r *renderer) ensureObject(item drawItem) (bind_group_provider.BindGroupProvider, error) {
	id := item.node.ID()
	st := r.objects[id]
	if st == nil {
		p := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("Object %d", id))
		if err := r.backend.InitBindGroup(p, r.layout(PipelineLit, groupObject), nil); err != nil {
			return nil, fmt.Errorf("object bind group: %w", err)
		}
		st = &objectState{node: item.node, provider: p}
		r.objects[id] = st
	}
	if st.written != r.frame {
		data := model.GPUObjectData{Model: item.world}
		r.backend.WriteBuffers([]bind_group_provider.BufferWrite{
			{Provider: st.provider, Binding: 0, Data: data.Marshal()},
		})
		st.written = r.frame
	}
	return st.provider, nil
}

// ensureLighting uploads a scene's light, zone and shadow data once per frame. Shadows are sampled
// only when this frame's shadow pass rendered the same scene.
func (r *renderer) ensureLighting(s scene.Scene, focus [3]float32) (bind_group_provider.BindGroupProvider, error) {
	st := r.lighting[s]
	if st == nil {
		p := bind_group_provider.NewBindGroupProvider("Lighting " + s.Name())
		p.ShareTextureView(bindingShadowMap, r.shadowMap.view)
		p.ShareSampler(bindingShadowSampler, r.shadowSampler)
		if err := r.backend.InitBindGroup(p, r.layout(PipelineLit, groupLighting), nil); err != nil {
			return nil, fmt.Errorf("lighting bind group: %w", err)
		}
		st = &lightingState{provider: p}
		r.lighting[s] = st
	}
	if st.written == r.frame {
		return st.provider, nil
	}

	zone := scene.FindZone(s, focus)
	var l light.Light
	if n := scene.FindLight(s); n != nil {
		l = n.Light()
	}
	g := light.NewGPULighting(l, zone.AmbientColor, zone.FogColor, zone.FogStart, zone.FogEnd)
	var shadow light.GPUShadowData
	if r.shadowScene == s {
		shadow = r.shadowData
	} else {
		g.ShadowEnabled = 0
	}
	r.backend.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: st.provider, Binding: bindingLighting, Data: g.Marshal()},
		{Provider: st.provider, Binding: bindingShadowData, Data: shadow.Marshal()},
	})
	st.written = r.frame
	return st.provider, nil
}

// target returns the GPU texture of a named render target, creating it at the target's own size
// on first use.
func (r *renderer) target(t render_path.RenderTarget) (*gpuTexture, error) {
	if g := r.targets[t.Name()]; g != nil {
		return g, nil
	}
	w, h := t.Size()
	g := &gpuTexture{width: w, height: h, format: targetColorFormat}
	var err error
	if g.texture, g.view, err = r.backend.CreateRenderTexture("Target "+t.Name(), w, h, targetColorFormat); err != nil {
		return nil, err
	}
	if g.depthTexture, g.depthView, err = r.backend.CreateRenderTexture("Target "+t.Name()+" Depth", w, h, sceneDepthFormat); err != nil {
		g.release()
		return nil, err
	}
	filter := wgpu.FilterModeLinear
	if t.Filter() == render_path.FilterNearest {
		filter = wgpu.FilterModeNearest
	}
	if g.sampler, err = r.backend.CreateSampler("Target "+t.Name()+" Sampler", clampSampler(filter)); err != nil {
		g.release()
		return nil, err
	}
	r.targets[t.Name()] = g
	log.Printf("[Renderer] created target %q %dx%d", t.Name(), w, h)
	return g, nil
}

func (r *renderer) ensureSceneDepth() (*gpuTexture, error) {
	if r.sceneDepth != nil {
		return r.sceneDepth, nil
	}
	g := &gpuTexture{width: r.width, height: r.height, format: sceneDepthFormat}
	var err error
	if g.depthTexture, g.depthView, err = r.backend.CreateRenderTexture("Scene Depth", r.width, r.height, sceneDepthFormat); err != nil {
		return nil, err
	}
	r.sceneDepth = g
	return g, nil
}

func (r *renderer) ensureIntermediates() error {
	for i := range r.intermediates {
		if r.intermediates[i] != nil {
			continue
		}
		g := &gpuTexture{width: r.width, height: r.height, format: r.surfaceFormat}
		var err error
		if g.texture, g.view, err = r.backend.CreateRenderTexture(fmt.Sprintf("Intermediate %d", i), r.width, r.height, r.surfaceFormat); err != nil {
			return err
		}
		r.intermediates[i] = g
	}
	return nil
}

// postGroup returns the bind group a post step reads through, building it on first use. The
// outline parameters are uploaded once per frame.
func (r *renderer) postGroup(step postStep, p pipeline.Pipeline) (bind_group_provider.BindGroupProvider, error) {
	key := postKey{stage: step.stage.Name(), source: step.source}
	group := r.postGroups[key]
	desc := p.BindGroupLayouts()[0]
	if group == nil {
		group = bind_group_provider.NewBindGroupProvider(fmt.Sprintf("Post %s %d", key.stage, key.source))
		group.ShareTextureView(bindingPostSource, r.intermediates[step.source].view)
		group.ShareSampler(bindingPostSampler, r.linearSampler)
		if hasBinding(desc, bindingPostMask) {
			name, _ := step.stage.Input(render_path.InputMask)
			mask := r.targets[name]
			if mask == nil {
				return nil, fmt.Errorf("stage %q: mask target %q not created", key.stage, name)
			}
			group.ShareTextureView(bindingPostMask, mask.view)
			group.ShareSampler(bindingPostMaskSampler, mask.sampler)
		}
		if err := r.backend.InitBindGroup(group, desc, nil); err != nil {
			return nil, fmt.Errorf("post bind group %s: %w", key.stage, err)
		}
		r.postGroups[key] = group
	}

	if hasBinding(desc, bindingPostParams) && r.postFrame[key] != r.frame {
		r.backend.WriteBuffers([]bind_group_provider.BufferWrite{
			{Provider: group, Binding: bindingPostParams, Data: outlineParams(step.stage)},
		})
		r.postFrame[key] = r.frame
	}
	return group, nil
}

func hasBinding(desc wgpu.BindGroupLayoutDescriptor, binding uint32) bool {
	for _, e := range desc.Entries {
		if e.Binding == binding {
			return true
		}
	}
	return false
}

// pruneObjects releases the uniforms of nodes that no longer exist.
func (r *renderer) pruneObjects() {
	for id, st := range r.objects {
		if st.node.Alive() {
			continue
		}
		st.provider.Release()
		delete(r.objects, id)
	}
}

func (r *renderer) releaseWindowSized() {
	for key, g := range r.postGroups {
		g.Release()
		delete(r.postGroups, key)
		delete(r.postFrame, key)
	}
	for i := range r.intermediates {
		r.intermediates[i].release()
		r.intermediates[i] = nil
	}
	r.sceneDepth.release()
	r.sceneDepth = nil
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.releaseWindowSized()
	for name, g := range r.targets {
		g.release()
		delete(r.targets, name)
	}
	for id, st := range r.objects {
		st.provider.Release()
		delete(r.objects, id)
	}
	for s, st := range r.lighting {
		st.provider.Release()
		delete(r.lighting, s)
	}
	for mat := range r.materials {
		if p := mat.BindGroupProvider(); p != nil {
			p.Release()
		}
		delete(r.materials, mat)
	}
	for cam := range r.cameras {
		if p := cam.BindGroupProvider(); p != nil {
			p.Release()
		}
		delete(r.cameras, cam)
	}
	for _, p := range r.pipelines {
		p.Release()
	}

	for m := range r.meshes {
		if p := m.MeshProvider(); p != nil {
			p.Release()
		}
		delete(r.meshes, m)
	}
	if r.shadowProvider != nil {
		r.shadowProvider.Release()
	}
	if r.white != nil {
		r.white.Release()
	}
	for _, s := range []*wgpu.Sampler{r.repeatSampler, r.linearSampler, r.shadowSampler} {
		if s != nil {
			s.Release()
		}
	}
	r.shadowMap.release()
	if r.backend != nil {
		r.backend.Release()
	}
}
