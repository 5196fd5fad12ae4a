package outline

import (
	"log"

	"github.com/Carmen-Shannon/oxy-outline/engine/scene"
)

// highlighter is the implementation of Highlighter.
type highlighter struct {
	sync     CameraSync
	mirror   Mirror
	selector TargetSelector
	lastID   uint64
}

// Highlighter runs the per-frame outline update: camera sync first, then the mirror.
// It must run after input has moved the main camera and before the frame is rendered.
type Highlighter interface {
	// Tick synchronizes the outline camera and rebuilds the mirror for the selected target.
	//
	// Returns:
	//   - scene.Node: the mirror node built this tick, or nil
	Tick() scene.Node

	// Selector returns the active target selector.
	//
	// Returns:
	//   - TargetSelector: the selector
	Selector() TargetSelector

	// SetSelector replaces the target selector. Nil means nothing is highlighted.
	//
	// Parameters:
	//   - sel: the new selector
	SetSelector(sel TargetSelector)

	// CameraSync returns the camera synchronizer.
	CameraSync() CameraSync

	// Mirror returns the mirror slot.
	Mirror() Mirror
}

var _ Highlighter = &highlighter{}

// NewHighlighter combines a synchronizer, a mirror and a selector.
//
// Parameters:
//   - sync: the camera synchronizer
//   - mirror: the mirror slot
//   - selector: the target selector, or nil
//
// Returns:
//   - Highlighter: the highlighter
func NewHighlighter(sync CameraSync, mirror Mirror, selector TargetSelector) Highlighter {
	return &highlighter{sync: sync, mirror: mirror, selector: selector}
}

func (h *highlighter) Tick() scene.Node {
	h.sync.Sync()

	var target scene.Node
	if h.selector != nil {
		target = h.selector.Select()
	}

	var id uint64
	if target != nil {
		id = target.ID()
	}
	if id != h.lastID {
		if target != nil {
			log.Printf("[Outline] highlighting %q (node %d)", target.Name(), id)
		} else {
			log.Printf("[Outline] highlight cleared")
		}
		h.lastID = id
	}

	return h.mirror.Update(target)
}

func (h *highlighter) Selector() TargetSelector {
	return h.selector
}

func (h *highlighter) SetSelector(sel TargetSelector) {
	h.selector = sel
}

func (h *highlighter) CameraSync() CameraSync {
	return h.sync
}

func (h *highlighter) Mirror() Mirror {
	return h.mirror
}
