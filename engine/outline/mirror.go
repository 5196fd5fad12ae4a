package outline

import (
	"github.com/Carmen-Shannon/oxy-outline/common"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-outline/engine/scene"
)

// mirror is the implementation of Mirror.
type mirror struct {
	outline   scene.Scene
	highlight material.Material
	current   scene.Node
	created   uint64
}

// Mirror owns the single transient copy of the highlight target inside the outline scene.
//
// The slot is rebuilt on every Update: the previous copy is removed first, then the target
// subtree is cloned under the outline root, its materials are replaced by the highlight
// material, and lights and zones are stripped. The outline scene therefore never holds more
// than one mirror node.
type Mirror interface {
	// Update replaces the mirror with a fresh copy of target. A nil or removed target, or one
	// hidden by itself or an ancestor, just clears the slot, which leaves the mask blank.
	//
	// Parameters:
	//   - target: the main scene node to highlight, or nil
	//
	// Returns:
	//   - scene.Node: the new mirror node, or nil
	Update(target scene.Node) scene.Node

	// Current returns the mirror node from the last Update.
	//
	// Returns:
	//   - scene.Node: the mirror node, or nil if the slot is empty
	Current() scene.Node

	// Clear removes the current mirror node, if any.
	Clear()

	// HighlightMaterial returns the flat material every mirror is drawn with.
	//
	// Returns:
	//   - material.Material: the highlight material
	HighlightMaterial() material.Material

	// Created returns how many mirror nodes have been built.
	//
	// Returns:
	//   - uint64: the build count
	Created() uint64
}

var _ Mirror = &mirror{}

// NewMirror creates an empty mirror slot for the outline scene.
//
// Parameters:
//   - outline: the outline scene the copies live in
//   - highlight: the flat unlit material applied to every copy
//
// Returns:
//   - Mirror: the mirror
func NewMirror(outline scene.Scene, highlight material.Material) Mirror {
	return &mirror{outline: outline, highlight: highlight}
}

func (m *mirror) Update(target scene.Node) scene.Node {
	m.Clear()
	if target == nil || !target.Alive() || !drawn(target) {
		return nil
	}

	root := m.outline.Root()
	copied := target.Clone(root)
	if p := target.Parent(); p != nil && p != target.Scene().Root() {
		world := target.WorldMatrix()
		pos, rot, scale := common.DecomposeModelMatrix(world[:])
		copied.SetTransform(scene.Transform{Position: pos, Rotation: rot, Scale: scale})
	}
	m.flatten(copied)

	m.current = copied
	m.created++
	return copied
}

func (m *mirror) Current() scene.Node {
	return m.current
}

func (m *mirror) Clear() {
	if m.current != nil {
		m.current.Remove()
		m.current = nil
	}
}

func (m *mirror) HighlightMaterial() material.Material {
	return m.highlight
}

func (m *mirror) Created() uint64 {
	return m.created
}

// flatten swaps every drawable in the subtree to the highlight material and drops
// components the mask pass does not use.
func (m *mirror) flatten(n scene.Node) {
	if sm := n.StaticModel(); sm != nil {
		sm.SetMaterial(m.highlight)
		sm.SetCastShadows(false)
	}
	n.SetLight(nil)
	n.SetZone(nil)
	for _, c := range n.Children() {
		m.flatten(c)
	}
}

// drawn reports whether n and all of its ancestors are enabled.
func drawn(n scene.Node) bool {
	for ; n != nil; n = n.Parent() {
		if !n.Enabled() {
			return false
		}
	}
	return true
}
