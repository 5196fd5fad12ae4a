package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.Window.Title != "Game" || cfg.Window.Width != 800 || cfg.Window.Height != 600 {
		t.Errorf("window = %+v", cfg.Window)
	}
	if cfg.Outline.Target != "Mushroom" {
		t.Errorf("target = %q", cfg.Outline.Target)
	}
	if cfg.Outline.Color != (Color{1, 215.0 / 255, 0, 1}) {
		t.Errorf("color = %v, want gold", cfg.Outline.Color)
	}
}

func TestParseMergesOverDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
window:
  width: 1280
outline:
  target: Box
  color: "#ff000080"
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Window.Width != 1280 || cfg.Window.Height != 600 {
		t.Errorf("window = %dx%d, want 1280x600", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.Title != "Game" {
		t.Errorf("title = %q, want default", cfg.Window.Title)
	}
	if cfg.Outline.Target != "Box" {
		t.Errorf("target = %q", cfg.Outline.Target)
	}
	if cfg.Outline.Color != (Color{1, 0, 0, 128.0 / 255}) {
		t.Errorf("color = %v", cfg.Outline.Color)
	}
	if cfg.Outline.Material != "Materials/White.yaml" {
		t.Errorf("material = %q", cfg.Outline.Material)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"zero width", "window: {width: 0}"},
		{"negative speed", "controls: {move_speed: -1}"},
		{"thin outline", "outline: {thickness: 0.5}"},
		{"no material", "outline: {material: \"\"}"},
		{"negative frame limit", "debug: {frame_limit: -3}"},
		{"no highlight model", "scene: {highlight_model: \"\"}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte("window: [1, 2"))
	if err == nil || errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want a yaml error", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file uses defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(dir, "absent.yaml"))
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if cfg != Defaults() {
			t.Errorf("cfg = %+v, want defaults", cfg)
		}
	})

	t.Run("empty path uses defaults", func(t *testing.T) {
		cfg, err := Load("")
		if err != nil || cfg != Defaults() {
			t.Fatalf("cfg = %+v, err = %v", cfg, err)
		}
	})

	t.Run("file overrides", func(t *testing.T) {
		path := filepath.Join(dir, "game.yaml")
		if err := os.WriteFile(path, []byte("controls:\n  move_speed: 5\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if cfg.Controls.MoveSpeed != 5 {
			t.Errorf("move speed = %v", cfg.Controls.MoveSpeed)
		}
	})

	t.Run("invalid file", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(path, []byte("window:\n  height: -1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); !errors.Is(err, ErrInvalid) {
			t.Fatalf("err = %v, want ErrInvalid", err)
		}
	})
}

func TestColorUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    Color
		wantErr bool
	}{
		{"hex rgb", `"#00ff00"`, Color{0, 1, 0, 1}, false},
		{"hex rgba", `"#0000ff00"`, Color{0, 0, 1, 0}, false},
		{"name", `white`, Color{1, 1, 1, 1}, false},
		{"name case", `Black`, Color{0, 0, 0, 1}, false},
		{"triple", `[0.5, 0.25, 1]`, Color{0.5, 0.25, 1, 1}, false},
		{"quad", `[0, 0, 0, 0.5]`, Color{0, 0, 0, 0.5}, false},
		{"short sequence", `[1, 1]`, Color{}, true},
		{"bad hex", `"#zz0000"`, Color{}, true},
		{"short hex", `"#fff"`, Color{1, 1, 1, 1}, false},
		{"rgb function", `"rgb(255, 0, 0)"`, Color{1, 0, 0, 1}, false},
		{"hsl function", `"hsl(120, 100%, 50%)"`, Color{0, 1, 0, 1}, false},
		{"bad function", `"rgb(1, 2)"`, Color{}, true},
		{"unknown name", `notacolor`, Color{}, true},
		{"mapping", `{r: 1}`, Color{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Color
			err := yaml.Unmarshal([]byte(tt.doc), &c)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", c)
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if c != tt.want {
				t.Errorf("got %v, want %v", c, tt.want)
			}
		})
	}
}

func TestColorMarshal(t *testing.T) {
	out, err := yaml.Marshal(struct {
		C Color `yaml:"c"`
	}{Color{1, 0, 0.5, 1}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "#ff0080ff") {
		t.Errorf("got %q, want #ff0080ff", out)
	}
}
