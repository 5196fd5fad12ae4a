package renderer

import (
	"embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-outline/engine/render_path"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed shaders/*.wgsl
var shaderFiles embed.FS

// Built-in pipeline keys. Materials select one of the mesh pipelines by key.
const (
	PipelineLit    = material.DefaultPipelineKey
	PipelineUnlit  = "unlit"
	PipelineShadow = "shadow"
)

// Bind group indices shared by the mesh pipelines.
const (
	groupCamera = iota
	groupObject
	groupMaterial
	groupLighting
)

// Binding indices inside the groups above and the post-process group.
const (
	bindingMaterialParams  = 0
	bindingMaterialTexture = 1
	bindingMaterialSampler = 2

	bindingLighting      = 0
	bindingShadowData    = 1
	bindingShadowMap     = 2
	bindingShadowSampler = 3

	bindingPostSource      = 0
	bindingPostSampler     = 1
	bindingPostMask        = 2
	bindingPostMaskSampler = 3
	bindingPostParams      = 4
)

// shaderSource reads one embedded shader file. The files are compiled into the binary, so a
// missing one is a programming error.
func shaderSource(name string) string {
	data, err := shaderFiles.ReadFile("shaders/" + name)
	if err != nil {
		panic(fmt.Sprintf("renderer: missing embedded shader %s: %v", name, err))
	}
	return string(data)
}

func newMeshPipeline(key, file string) pipeline.Pipeline {
	source := shaderSource(file)
	return pipeline.NewPipeline(key,
		pipeline.WithVertexShader(shader.MustShader(key, shader.ShaderTypeVertex, source)),
		pipeline.WithFragmentShader(shader.MustShader(key, shader.ShaderTypeFragment, source)),
	)
}

func newShadowPipeline() pipeline.Pipeline {
	return pipeline.NewPipeline(PipelineShadow,
		pipeline.WithVertexShader(shader.MustShader(PipelineShadow, shader.ShaderTypeVertex, shaderSource("shadow.wgsl"))),
		pipeline.WithDepthFormat(wgpu.TextureFormatDepth32Float),
		pipeline.WithDepthBias(2, 2.0),
	)
}

// newPostPipeline builds a full-screen effect: the shared full-screen triangle plus the
// effect's fragment stage, without depth.
func newPostPipeline(effect render_path.Effect) pipeline.Pipeline {
	key := string(effect)
	source := shaderSource("fullscreen.wgsl") + "\n" + shaderSource(key+".wgsl")
	return pipeline.NewPipeline(key,
		pipeline.WithVertexShader(shader.MustShader(key, shader.ShaderTypeVertex, source)),
		pipeline.WithFragmentShader(shader.MustShader(key, shader.ShaderTypeFragment, source)),
		pipeline.WithDepthFormat(wgpu.TextureFormatUndefined),
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
	)
}

// builtinPipelines returns fresh descriptions of every pipeline the renderer ships with,
// keyed by pipeline key. Post-process pipelines are keyed by their effect name.
func builtinPipelines() map[string]pipeline.Pipeline {
	pipelines := map[string]pipeline.Pipeline{
		PipelineLit:    newMeshPipeline(PipelineLit, "lit.wgsl"),
		PipelineUnlit:  newMeshPipeline(PipelineUnlit, "unlit.wgsl"),
		PipelineShadow: newShadowPipeline(),
	}
	for _, effect := range []render_path.Effect{render_path.EffectOutline, render_path.EffectFXAA, render_path.EffectCopy} {
		pipelines[string(effect)] = newPostPipeline(effect)
	}
	return pipelines
}
