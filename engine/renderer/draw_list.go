package renderer

import (
	"cmp"
	"slices"

	"github.com/Carmen-Shannon/oxy-outline/common"
	"github.com/Carmen-Shannon/oxy-outline/engine/model"
	"github.com/Carmen-Shannon/oxy-outline/engine/render_path"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-outline/engine/scene"
)

// FrameStats counts what one Render call submitted.
type FrameStats struct {
	// Draws is the number of indexed mesh draws across all scene passes.
	Draws int
	// Culled is the number of meshes rejected by frustum culling.
	Culled int
	// Passes is the number of render passes recorded, including post-process stages.
	Passes int
	// ShadowCasters is the number of meshes drawn into the shadow map.
	ShadowCasters int
}

// drawItem is one enabled node with a drawable static model.
type drawItem struct {
	node        scene.Node
	model       model.Model
	material    material.Material
	world       [16]float32
	castShadows bool
}

// collectDraws gathers the drawable nodes of a scene. A disabled node hides its whole subtree.
// When frustum is non-nil, nodes whose bounding sphere lies outside it are left out and counted.
// Items are ordered by pipeline key so pipeline switches stay rare.
func collectDraws(s scene.Scene, frustum *common.Frustum) (items []drawItem, culled int) {
	s.Walk(func(n scene.Node) bool {
		if !n.Enabled() {
			return false
		}
		sm := n.StaticModel()
		if sm == nil || sm.Model() == nil || sm.Material() == nil || sm.Model().IndexCount() == 0 {
			return true
		}
		world := n.WorldMatrix()
		if frustum != nil {
			center := [3]float32{world[12], world[13], world[14]}
			radius := sm.Model().BoundingRadius() * common.MaxScale(world[:])
			if !frustum.SphereVisible(center, radius) {
				culled++
				return true
			}
		}
		items = append(items, drawItem{
			node:        n,
			model:       sm.Model(),
			material:    sm.Material(),
			world:       world,
			castShadows: sm.CastShadows(),
		})
		return true
	})
	slices.SortStableFunc(items, func(a, b drawItem) int {
		return cmp.Compare(a.material.PipelineKey(), b.material.PipelineKey())
	})
	return items, culled
}

// swapchainTarget marks a post step that writes to the swapchain.
const swapchainTarget = -1

// postStep is one post-process stage with its ping-pong intermediate indices.
type postStep struct {
	stage  render_path.Stage
	source int
	target int
}

// planPostChain assigns intermediates to the enabled stages of a path. Stages rejected by usable
// (an unknown effect or an input target that does not exist yet) are dropped and reported in
// skipped. The scene is drawn into intermediate 0; each step reads the previous step's output and
// the last one writes to the swapchain. An empty plan means the scene goes straight to the swapchain.
func planPostChain(path render_path.RenderPath, usable func(render_path.Stage) bool) (steps []postStep, skipped []render_path.Stage) {
	if path == nil {
		return nil, nil
	}
	var stages []render_path.Stage
	for _, st := range path.EnabledStages() {
		if usable != nil && !usable(st) {
			skipped = append(skipped, st)
			continue
		}
		stages = append(stages, st)
	}
	for i, st := range stages {
		target := (i + 1) % 2
		if i == len(stages)-1 {
			target = swapchainTarget
		}
		steps = append(steps, postStep{stage: st, source: i % 2, target: target})
	}
	return steps, skipped
}

// outlineParams packs the outline stage parameters into the OutlineParams uniform layout.
func outlineParams(st render_path.Stage) []byte {
	return common.SliceToBytes([]float32{
		st.Parameter(render_path.ParamColorR),
		st.Parameter(render_path.ParamColorG),
		st.Parameter(render_path.ParamColorB),
		st.Parameter(render_path.ParamColorA),
		st.Parameter(render_path.ParamThickness),
		0, 0, 0,
	})
}
