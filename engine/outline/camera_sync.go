package outline

import (
	"github.com/Carmen-Shannon/oxy-outline/engine/scene"
)

// cameraSync is the implementation of CameraSync.
type cameraSync struct {
	source      scene.Node
	destination scene.Node
	syncs       uint64
}

// CameraSync keeps the outline scene's camera node on top of the main camera node.
//
// Each Sync copies position, rotation and scale verbatim, with no interpolation, so the
// two transforms are bit-for-bit equal afterwards. Both nodes are expected to sit directly
// under their scene roots, which makes equal local transforms equal world transforms.
type CameraSync interface {
	// Sync copies the source transform onto the destination. It does nothing and returns
	// false when either node has been removed.
	//
	// Returns:
	//   - bool: true if the transform was copied
	Sync() bool

	// Source returns the main camera node.
	//
	// Returns:
	//   - scene.Node: the node copied from
	Source() scene.Node

	// Destination returns the outline camera node.
	//
	// Returns:
	//   - scene.Node: the node copied to
	Destination() scene.Node

	// Count returns how many syncs have completed.
	//
	// Returns:
	//   - uint64: the sync count
	Count() uint64
}

var _ CameraSync = &cameraSync{}

// NewCameraSync creates a synchronizer from the main camera node to the outline camera node.
//
// Parameters:
//   - source: the main scene camera node
//   - destination: the outline scene camera node
//
// Returns:
//   - CameraSync: the synchronizer
func NewCameraSync(source, destination scene.Node) CameraSync {
	return &cameraSync{source: source, destination: destination}
}

func (c *cameraSync) Sync() bool {
	if c.source == nil || c.destination == nil || !c.source.Alive() || !c.destination.Alive() {
		return false
	}
	c.destination.SetTransform(c.source.Transform())
	c.syncs++
	return true
}

func (c *cameraSync) Source() scene.Node {
	return c.source
}

func (c *cameraSync) Destination() scene.Node {
	return c.destination
}

func (c *cameraSync) Count() uint64 {
	return c.syncs
}
