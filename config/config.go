// Package config loads the application settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the full application configuration.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Scene     SceneConfig     `yaml:"scene"`
	Controls  ControlsConfig  `yaml:"controls"`
	Outline   OutlineConfig   `yaml:"outline"`
	Resources ResourcesConfig `yaml:"resources"`
	Debug     DebugConfig     `yaml:"debug"`
}

// WindowConfig describes the main window.
type WindowConfig struct {
	Title       string `yaml:"title"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Resizable   bool   `yaml:"resizable"`
	VSync       bool   `yaml:"vsync"`
	MouseHidden bool   `yaml:"mouse_hidden"`
}

// SceneConfig picks the models of the demo scene.
type SceneConfig struct {
	// HighlightModel is the model of the highlighted object: a built-in name such as
	// "Mushroom" or a glTF resource such as "Models/Mushroom.glb".
	HighlightModel string `yaml:"highlight_model"`
}

// ControlsConfig holds the first-person camera controls.
type ControlsConfig struct {
	// MouseSensitivity is in degrees per pixel.
	MouseSensitivity float32 `yaml:"mouse_sensitivity"`
	// MoveSpeed is in world units per second.
	MoveSpeed float32 `yaml:"move_speed"`
}

// OutlineConfig controls the highlight.
type OutlineConfig struct {
	// Target is the name of the node to highlight. Empty disables name selection.
	Target    string  `yaml:"target"`
	Color     Color   `yaml:"color"`
	Thickness float32 `yaml:"thickness"`
	// Material is the resource name of the flat highlight material.
	Material  string `yaml:"material"`
	AntiAlias bool   `yaml:"anti_alias"`
	// Script is an optional selector script resource. When set it replaces Target.
	Script string `yaml:"script"`
}

// ResourcesConfig locates assets on disk.
type ResourcesConfig struct {
	// Dir overrides the embedded resources when a file with the same name exists in it.
	Dir string `yaml:"dir"`
	// Watch enables hot reload of materials and scripts in Dir.
	Watch bool `yaml:"watch"`
	// MaxTextureSize caps decoded texture dimensions. 0 disables scaling.
	MaxTextureSize int `yaml:"max_texture_size"`
	// PreloadWorkers is the worker pool size used before the frame loop starts.
	PreloadWorkers int `yaml:"preload_workers"`
}

// DebugConfig holds developer toggles.
type DebugConfig struct {
	HUD        bool `yaml:"hud"`
	FrameLimit int  `yaml:"frame_limit"`
}

// Defaults returns the configuration used when no file is given.
func Defaults() Config {
	return Config{
		Window: WindowConfig{
			Title:       "Game",
			Width:       800,
			Height:      600,
			Resizable:   true,
			VSync:       true,
			MouseHidden: true,
		},
		Scene: SceneConfig{
			HighlightModel: "Mushroom",
		},
		Controls: ControlsConfig{
			MouseSensitivity: 0.1,
			MoveSpeed:        20,
		},
		Outline: OutlineConfig{
			Target:    "Mushroom",
			Color:     ColorFrom(colornames.Gold),
			Thickness: 2,
			Material:  "Materials/White.yaml",
			AntiAlias: true,
		},
		Resources: ResourcesConfig{
			Dir:            "assets",
			Watch:          true,
			MaxTextureSize: 1024,
			PreloadWorkers: 4,
		},
		Debug: DebugConfig{
			HUD: false,
		},
	}
}

// Load reads a YAML configuration file on top of Defaults. A missing file is not an error.
//
// Parameters:
//   - path: the file path, or "" for defaults
//
// Returns:
//   - Config: the merged configuration
//   - error: read, parse or validation error
func Load(path string) (Config, error) {
	if path == "" {
		return Defaults(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Defaults and validates the result.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Config: the merged configuration
//   - error: parse or validation error
func Parse(data []byte) (Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
//
// Returns:
//   - error: an error wrapping ErrInvalid, or nil
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Scene.HighlightModel == "":
		return fmt.Errorf("%w: scene highlight model is required", ErrInvalid)
	case c.Controls.MouseSensitivity < 0:
		return fmt.Errorf("%w: negative mouse sensitivity", ErrInvalid)
	case c.Controls.MoveSpeed < 0:
		return fmt.Errorf("%w: negative move speed", ErrInvalid)
	case c.Outline.Thickness < 1:
		return fmt.Errorf("%w: outline thickness %v below 1", ErrInvalid, c.Outline.Thickness)
	case c.Outline.Material == "":
		return fmt.Errorf("%w: outline material is required", ErrInvalid)
	case c.Resources.MaxTextureSize < 0:
		return fmt.Errorf("%w: negative max texture size", ErrInvalid)
	case c.Debug.FrameLimit < 0:
		return fmt.Errorf("%w: negative frame limit", ErrInvalid)
	}
	return nil
}
