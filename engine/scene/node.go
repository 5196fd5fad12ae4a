package scene

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-outline/common"
	"github.com/Carmen-Shannon/oxy-outline/engine/camera"
	"github.com/Carmen-Shannon/oxy-outline/engine/light"
	"github.com/Carmen-Shannon/oxy-outline/engine/model"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/material"
)

// nextNodeID hands out node IDs. IDs start at 1 and are never reused, across all scenes.
var nextNodeID atomic.Uint64

// Transform is a node's local placement relative to its parent.
// Rotation holds Euler angles in radians applied in Y, X, Z order.
type Transform struct {
	Position [3]float32
	Rotation [3]float32
	Scale    [3]float32
}

// Matrix builds the column-major local matrix for the transform.
func (t Transform) Matrix() [16]float32 {
	var m [16]float32
	common.BuildModelMatrix(m[:],
		t.Position[0], t.Position[1], t.Position[2],
		t.Rotation[0], t.Rotation[1], t.Rotation[2],
		t.Scale[0], t.Scale[1], t.Scale[2],
	)
	return m
}

// node is the implementation of Node.
type node struct {
	id      uint64
	name    string
	scene   *scene
	parent  *node
	alive   bool
	enabled bool

	children  []*node
	transform Transform

	staticModel StaticModel
	light       light.Light
	zone        *Zone
	camera      camera.Camera
}

// Node is a transform plus optional components, owned by a Scene.
//
// A node faces +Z with +Y up in its local frame. Components are optional and at most
// one of each kind is attached. After Remove the node and its subtree report
// Alive() == false; using a removed node for anything but inspection is a caller bug.
type Node interface {
	// ID returns the node's process-wide unique identifier.
	//
	// Returns:
	//   - uint64: the node ID
	ID() uint64

	// Name returns the node's name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// SetName renames the node.
	//
	// Parameters:
	//   - name: the new name
	SetName(name string)

	// Scene returns the scene that owns the node.
	//
	// Returns:
	//   - Scene: the owning scene
	Scene() Scene

	// Parent returns the parent node.
	//
	// Returns:
	//   - Node: the parent, or nil for the root and for removed nodes
	Parent() Node

	// Children returns a snapshot of the node's direct children in insertion order.
	//
	// Returns:
	//   - []Node: the children
	Children() []Node

	// Alive reports whether the node is still part of its scene.
	//
	// Returns:
	//   - bool: false once the node or an ancestor was removed
	Alive() bool

	// Enabled reports whether the node and its subtree should render.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled shows or hides the node and its subtree.
	//
	// Parameters:
	//   - enabled: false to hide
	SetEnabled(enabled bool)

	// Position returns the local position.
	Position() [3]float32

	// SetPosition sets the local position.
	SetPosition(p [3]float32)

	// Rotation returns the local Euler rotation in radians.
	Rotation() [3]float32

	// SetRotation sets the local Euler rotation in radians.
	SetRotation(r [3]float32)

	// Scale returns the local scale.
	Scale() [3]float32

	// SetScale sets the local scale.
	SetScale(s [3]float32)

	// Transform returns the full local transform.
	//
	// Returns:
	//   - Transform: position, rotation and scale
	Transform() Transform

	// SetTransform replaces the full local transform.
	//
	// Parameters:
	//   - t: the new transform
	SetTransform(t Transform)

	// Translate moves the node. When local is true, delta is rotated into the node's frame
	// first; scale does not apply.
	//
	// Parameters:
	//   - delta: the offset
	//   - local: whether delta is expressed in the node's own frame
	Translate(delta [3]float32, local bool)

	// WorldMatrix composes the local transforms from the root down to this node.
	//
	// Returns:
	//   - [16]float32: the column-major world matrix
	WorldMatrix() [16]float32

	// WorldPosition returns the node's origin in world space.
	//
	// Returns:
	//   - [3]float32: the world position
	WorldPosition() [3]float32

	// StaticModel returns the drawable component, or nil.
	StaticModel() StaticModel

	// SetStaticModel attaches a drawable component built from a model and a material,
	// replacing any existing one. A nil model detaches the component.
	//
	// Parameters:
	//   - m: the model
	//   - mat: the material
	//
	// Returns:
	//   - StaticModel: the attached component, or nil when detached
	SetStaticModel(m model.Model, mat material.Material) StaticModel

	// Light returns the attached light, or nil.
	Light() light.Light

	// SetLight attaches a light. Nil detaches.
	SetLight(l light.Light)

	// Zone returns the attached zone, or nil.
	Zone() *Zone

	// SetZone attaches a zone. Nil detaches.
	SetZone(z *Zone)

	// Camera returns the attached camera, or nil.
	Camera() camera.Camera

	// SetCamera attaches a camera. Nil detaches.
	SetCamera(c camera.Camera)

	// CreateChild creates a new node under this one.
	//
	// Parameters:
	//   - name: the child name
	//   - opts: node options applied before the child is attached
	//
	// Returns:
	//   - Node: the new child
	CreateChild(name string, opts ...NodeBuilderOption) Node

	// AddChild reparents a node of the same scene under this one, keeping its local
	// transform. Panics if child belongs to another scene, is dead, or is this node or
	// one of its ancestors.
	//
	// Parameters:
	//   - child: the node to move
	AddChild(child Node)

	// Remove detaches the node from its parent and marks it and its whole subtree dead.
	// Removing the root or an already removed node does nothing.
	Remove()

	// Clone deep-copies this node's subtree under parent, which may live in another scene.
	// Copies get new IDs. Model, material, light and zone references are shared with the
	// originals; each copy gets its own StaticModel component so its material can be swapped
	// independently. Cameras are not copied.
	//
	// Parameters:
	//   - parent: the node to attach the copy to
	//
	// Returns:
	//   - Node: the copy of this node
	Clone(parent Node) Node
}

var _ Node = &node{}

func (n *node) ID() uint64 {
	return n.id
}

func (n *node) Name() string {
	return n.name
}

func (n *node) SetName(name string) {
	n.name = name
}

func (n *node) Scene() Scene {
	return n.scene
}

func (n *node) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *node) Children() []Node {
	out := make([]Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *node) Alive() bool {
	return n.alive
}

func (n *node) Enabled() bool {
	return n.enabled
}

func (n *node) SetEnabled(enabled bool) {
	n.enabled = enabled
}

func (n *node) Position() [3]float32 {
	return n.transform.Position
}

func (n *node) SetPosition(p [3]float32) {
	n.transform.Position = p
}

func (n *node) Rotation() [3]float32 {
	return n.transform.Rotation
}

func (n *node) SetRotation(r [3]float32) {
	n.transform.Rotation = r
}

func (n *node) Scale() [3]float32 {
	return n.transform.Scale
}

func (n *node) SetScale(s [3]float32) {
	n.transform.Scale = s
}

func (n *node) Transform() Transform {
	return n.transform
}

func (n *node) SetTransform(t Transform) {
	n.transform = t
}

func (n *node) Translate(delta [3]float32, local bool) {
	if local {
		r := Transform{Rotation: n.transform.Rotation, Scale: [3]float32{1, 1, 1}}.Matrix()
		delta = common.TransformDirection(r[:], delta)
	}
	for i := range delta {
		n.transform.Position[i] += delta[i]
	}
}

func (n *node) WorldMatrix() [16]float32 {
	local := n.transform.Matrix()
	if n.parent == nil {
		return local
	}
	parent := n.parent.WorldMatrix()
	var out [16]float32
	common.Mul4(out[:], parent[:], local[:])
	return out
}

func (n *node) WorldPosition() [3]float32 {
	m := n.WorldMatrix()
	return [3]float32{m[12], m[13], m[14]}
}

func (n *node) StaticModel() StaticModel {
	return n.staticModel
}

func (n *node) SetStaticModel(m model.Model, mat material.Material) StaticModel {
	if m == nil {
		n.staticModel = nil
		return nil
	}
	n.staticModel = NewStaticModel(m, mat)
	return n.staticModel
}

func (n *node) Light() light.Light {
	return n.light
}

func (n *node) SetLight(l light.Light) {
	n.light = l
}

func (n *node) Zone() *Zone {
	return n.zone
}

func (n *node) SetZone(z *Zone) {
	n.zone = z
}

func (n *node) Camera() camera.Camera {
	return n.camera
}

func (n *node) SetCamera(c camera.Camera) {
	n.camera = c
}

func (n *node) CreateChild(name string, opts ...NodeBuilderOption) Node {
	if !n.alive {
		panic(fmt.Sprintf("scene: create child %q under removed node %d", name, n.id))
	}
	c := n.scene.newNode(name)
	for _, opt := range opts {
		opt(c)
	}
	c.parent = n
	n.children = append(n.children, c)
	return c
}

func (n *node) AddChild(child Node) {
	c, ok := child.(*node)
	if !ok || c.scene != n.scene {
		panic("scene: AddChild across scenes, use Clone")
	}
	if !c.alive || !n.alive {
		panic(fmt.Sprintf("scene: AddChild with removed node %d", c.id))
	}
	for a := n; a != nil; a = a.parent {
		if a == c {
			panic(fmt.Sprintf("scene: AddChild would make node %d its own ancestor", c.id))
		}
	}
	if c.parent != nil {
		c.parent.detach(c)
	}
	c.parent = n
	n.children = append(n.children, c)
}

func (n *node) Remove() {
	if !n.alive || n == n.scene.root {
		return
	}
	if n.parent != nil {
		n.parent.detach(n)
	}
	n.kill()
}

func (n *node) Clone(parent Node) Node {
	p, ok := parent.(*node)
	if !ok || !p.alive {
		panic("scene: Clone into a removed or foreign node")
	}
	if n == n.scene.root {
		panic("scene: the root node cannot be cloned")
	}
	return n.cloneInto(p)
}

// cloneInto copies n and its subtree under p.
func (n *node) cloneInto(p *node) *node {
	c := p.scene.newNode(n.name)
	c.enabled = n.enabled
	c.transform = n.transform
	c.light = n.light
	c.zone = n.zone
	if n.staticModel != nil {
		c.staticModel = n.staticModel.Clone()
	}
	c.parent = p
	p.children = append(p.children, c)
	for _, child := range n.children {
		child.cloneInto(c)
	}
	return c
}

// detach unlinks a direct child without killing it.
func (n *node) detach(c *node) {
	if i := slices.Index(n.children, c); i >= 0 {
		n.children = slices.Delete(n.children, i, i+1)
	}
	c.parent = nil
}

// kill marks the subtree dead and drops it from the scene index.
func (n *node) kill() {
	for _, c := range n.children {
		c.kill()
	}
	n.alive = false
	n.parent = nil
	n.children = nil
	delete(n.scene.nodes, n.id)
}

// find searches the subtree below n in depth-first pre-order.
func (n *node) find(name string) *node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
		if f := c.find(name); f != nil {
			return f
		}
	}
	return nil
}

// walk visits n then its children unless fn returns false.
func (n *node) walk(fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.walk(fn)
	}
}
