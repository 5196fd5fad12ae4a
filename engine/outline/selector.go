package outline

import (
	"github.com/Carmen-Shannon/oxy-outline/engine/scene"
)

// TargetSelector produces the node to highlight for the current frame.
type TargetSelector interface {
	// Select returns the node to highlight.
	//
	// Returns:
	//   - scene.Node: the target, or nil for no highlight
	Select() scene.Node
}

// SelectorFunc adapts a plain function to TargetSelector.
type SelectorFunc func() scene.Node

// Select calls f.
func (f SelectorFunc) Select() scene.Node {
	return f()
}

// nodeSelector always selects one fixed node while it is alive.
type nodeSelector struct {
	node scene.Node
}

// NewNodeSelector selects a fixed node handle. Once the node is removed the selection is empty.
//
// Parameters:
//   - n: the node to highlight, or nil
//
// Returns:
//   - TargetSelector: the selector
func NewNodeSelector(n scene.Node) TargetSelector {
	return &nodeSelector{node: n}
}

func (s *nodeSelector) Select() scene.Node {
	if s.node == nil || !s.node.Alive() {
		return nil
	}
	return s.node
}

// nameSelector resolves a node by name on every Select.
type nameSelector struct {
	scene scene.Scene
	name  string
}

// NewNameSelector selects the first node named name in s, looked up each frame so a node
// created or replaced later is picked up.
//
// Parameters:
//   - s: the scene to search
//   - name: the node name
//
// Returns:
//   - TargetSelector: the selector
func NewNameSelector(s scene.Scene, name string) TargetSelector {
	return &nameSelector{scene: s, name: name}
}

func (s *nameSelector) Select() scene.Node {
	if s.name == "" {
		return nil
	}
	return s.scene.FindNode(s.name)
}
