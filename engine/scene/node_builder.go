package scene

import (
	"github.com/Carmen-Shannon/oxy-outline/engine/camera"
	"github.com/Carmen-Shannon/oxy-outline/engine/light"
	"github.com/Carmen-Shannon/oxy-outline/engine/model"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/material"
)

// NodeBuilderOption is a functional option applied to a node when it is created.
type NodeBuilderOption func(n *node)

// WithPosition sets the node's local position.
//
// Parameters:
//   - x, y, z: the position
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithPosition(x, y, z float32) NodeBuilderOption {
	return func(n *node) {
		n.transform.Position = [3]float32{x, y, z}
	}
}

// WithRotation sets the node's local Euler rotation in radians.
//
// Parameters:
//   - x, y, z: pitch, yaw and roll in radians
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithRotation(x, y, z float32) NodeBuilderOption {
	return func(n *node) {
		n.transform.Rotation = [3]float32{x, y, z}
	}
}

// WithScale sets the node's local scale.
//
// Parameters:
//   - x, y, z: the scale per axis
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithScale(x, y, z float32) NodeBuilderOption {
	return func(n *node) {
		n.transform.Scale = [3]float32{x, y, z}
	}
}

// WithStaticModel attaches a drawable component.
//
// Parameters:
//   - m: the model
//   - mat: the material
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithStaticModel(m model.Model, mat material.Material) NodeBuilderOption {
	return func(n *node) {
		n.SetStaticModel(m, mat)
	}
}

// WithLight attaches a light.
//
// Parameters:
//   - l: the light
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithLight(l light.Light) NodeBuilderOption {
	return func(n *node) {
		n.light = l
	}
}

// WithZone attaches a zone.
//
// Parameters:
//   - z: the zone
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithZone(z *Zone) NodeBuilderOption {
	return func(n *node) {
		n.zone = z
	}
}

// WithCamera attaches a camera.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithCamera(c camera.Camera) NodeBuilderOption {
	return func(n *node) {
		n.camera = c
	}
}

// WithEnabled sets the initial enabled state.
//
// Parameters:
//   - enabled: false to create the node hidden
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithEnabled(enabled bool) NodeBuilderOption {
	return func(n *node) {
		n.enabled = enabled
	}
}
