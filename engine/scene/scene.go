package scene

// scene is the implementation of Scene.
type scene struct {
	name     string
	rootName string
	root     *node
	nodes    map[uint64]*node
}

// Scene is a tree of nodes rooted at a single root node.
//
// A Scene owns its nodes: they are created through it (or through nodes already in it)
// and live until removed or until the scene is cleared. Node IDs are unique across every
// scene in the process, so an ID identifies both the node and its scene.
//
// Scenes are not safe for concurrent use. The frame loop owns them.
type Scene interface {
	// Name returns the scene's identifier.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// Root returns the scene's root node. The root cannot be removed or cloned.
	//
	// Returns:
	//   - Node: the root node
	Root() Node

	// CreateChild creates a new node directly under the root.
	//
	// Parameters:
	//   - name: the node name, not required to be unique
	//   - opts: node options applied before the node is attached
	//
	// Returns:
	//   - Node: the new node
	CreateChild(name string, opts ...NodeBuilderOption) Node

	// NodeByID looks up a live node of this scene by ID.
	//
	// Parameters:
	//   - id: the node ID
	//
	// Returns:
	//   - Node: the node, or nil if it does not exist here or was removed
	NodeByID(id uint64) Node

	// FindNode returns the first node with the given name in depth-first pre-order,
	// searching below the root.
	//
	// Parameters:
	//   - name: the node name
	//
	// Returns:
	//   - Node: the node, or nil if no node has that name
	FindNode(name string) Node

	// Walk visits the root and its descendants in depth-first pre-order. Returning false
	// from fn skips that node's children. The tree must not be modified during the walk.
	//
	// Parameters:
	//   - fn: the visitor
	Walk(fn func(n Node) bool)

	// NodeCount returns the number of live nodes below the root.
	//
	// Returns:
	//   - int: node count, excluding the root
	NodeCount() int

	// Clear removes every node below the root.
	Clear()
}

var _ Scene = &scene{}

// NewScene creates an empty scene holding only a root node.
//
// Parameters:
//   - name: the scene name
//   - opts: scene options
//
// Returns:
//   - Scene: the new scene
func NewScene(name string, opts ...SceneBuilderOption) Scene {
	s := &scene{
		name:     name,
		rootName: "Root",
		nodes:    make(map[uint64]*node),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.root = s.newNode(s.rootName)
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Root() Node {
	return s.root
}

func (s *scene) CreateChild(name string, opts ...NodeBuilderOption) Node {
	return s.root.CreateChild(name, opts...)
}

func (s *scene) NodeByID(id uint64) Node {
	if n, ok := s.nodes[id]; ok {
		return n
	}
	return nil
}

func (s *scene) FindNode(name string) Node {
	if n := s.root.find(name); n != nil {
		return n
	}
	return nil
}

func (s *scene) Walk(fn func(n Node) bool) {
	s.root.walk(fn)
}

func (s *scene) NodeCount() int {
	return len(s.nodes) - 1
}

func (s *scene) Clear() {
	for _, c := range append([]*node(nil), s.root.children...) {
		c.Remove()
	}
}

// newNode allocates a live node registered with this scene but not attached anywhere.
func (s *scene) newNode(name string) *node {
	n := &node{
		id:      nextNodeID.Add(1),
		name:    name,
		scene:   s,
		alive:   true,
		enabled: true,
		transform: Transform{
			Scale: [3]float32{1, 1, 1},
		},
	}
	s.nodes[n.id] = n
	return n
}
