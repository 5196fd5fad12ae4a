package resource

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-outline/engine/model"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEmbeddedMaterials(t *testing.T) {
	c := NewCache()
	defer c.Close()

	tests := []struct {
		name     string
		pipeline string
		uv       [2]float32
		textured bool
	}{
		{"Materials/White.yaml", "unlit", [2]float32{1, 1}, false},
		{"Materials/Mushroom.yaml", "lit", [2]float32{1, 1}, false},
		{"Materials/StoneTiled.yaml", "lit", [2]float32{50, 50}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := c.Material(tt.name)
			if err != nil {
				t.Fatalf("material: %v", err)
			}
			if m.Name() != tt.name {
				t.Errorf("name = %q", m.Name())
			}
			if m.PipelineKey() != tt.pipeline {
				t.Errorf("pipeline = %q, want %q", m.PipelineKey(), tt.pipeline)
			}
			if m.UVScale() != tt.uv {
				t.Errorf("uv = %v, want %v", m.UVScale(), tt.uv)
			}
			if (m.Texture() != nil) != tt.textured {
				t.Errorf("textured = %v, want %v", m.Texture() != nil, tt.textured)
			}
			if m.BaseColor() != [4]float32{1, 1, 1, 1} {
				t.Errorf("color = %v", m.BaseColor())
			}
		})
	}
}

func TestMaterialIsShared(t *testing.T) {
	c := NewCache()
	a, err := c.Material("Materials/White.yaml")
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Material("./Materials//White.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("expected the same material instance for equivalent names")
	}
}

func TestDiskOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Materials/White.yaml", []byte("pipeline: unlit\ncolor: \"#ff0000\"\n"))

	c := NewCache(WithDir(dir))
	m, err := c.Material("Materials/White.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if m.BaseColor() != [4]float32{1, 0, 0, 1} {
		t.Errorf("color = %v, want red from disk", m.BaseColor())
	}

	// Files missing on disk still come from the embedded copy.
	if _, err := c.Material("Materials/Mushroom.yaml"); err != nil {
		t.Errorf("embedded fallback: %v", err)
	}
}

func TestNotFound(t *testing.T) {
	c := NewCache(WithDir(t.TempDir()))

	tests := []struct {
		name string
		load func() error
	}{
		{"model", func() error { _, err := c.Model("Teapot"); return err }},
		{"material", func() error { _, err := c.Material("Materials/Nope.yaml"); return err }},
		{"texture", func() error { _, err := c.Texture("Textures/Nope.png"); return err }},
		{"script", func() error { _, err := c.Script("Scripts/Nope.tengo"); return err }},
		{"escape", func() error { _, err := c.Script("../secret.tengo"); return err }},
		{"missing texture in material", func() error {
			writeFile(t, c.Dir(), "Materials/Broken.yaml", []byte("texture: Textures/Gone.png\n"))
			_, err := c.Material("Materials/Broken.yaml")
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.load(); !errors.Is(err, ErrNotFound) {
				t.Fatalf("err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestReloadMaterialInPlace(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Materials/Glow.yaml", []byte("pipeline: unlit\ncolor: white\n"))

	c := NewCache(WithDir(dir))
	m, err := c.Material("Materials/Glow.yaml")
	if err != nil {
		t.Fatal(err)
	}
	rev := m.Revision()

	writeFile(t, dir, "Materials/Glow.yaml", []byte("pipeline: lit\ncolor: [0, 1, 0]\nuv_scale: [4]\n"))
	if err := c.ReloadMaterial("Materials/Glow.yaml"); err != nil {
		t.Fatalf("reload: %v", err)
	}
	again, _ := c.Material("Materials/Glow.yaml")
	if again != m {
		t.Fatal("reload replaced the material instance")
	}
	if m.BaseColor() != [4]float32{0, 1, 0, 1} || m.PipelineKey() != "lit" || m.UVScale() != [2]float32{4, 4} {
		t.Errorf("reloaded material = color %v pipeline %q uv %v", m.BaseColor(), m.PipelineKey(), m.UVScale())
	}
	if m.Revision() == rev {
		t.Error("pipeline change should bump the revision")
	}

	writeFile(t, dir, "Materials/Glow.yaml", []byte("color: [1, 2\n"))
	if err := c.ReloadMaterial("Materials/Glow.yaml"); err == nil {
		t.Fatal("expected a parse error")
	}
	if m.BaseColor() != [4]float32{0, 1, 0, 1} {
		t.Errorf("failed reload changed the material: %v", m.BaseColor())
	}
}

func TestParseMaterialDefinition(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    MaterialDefinition
		wantErr bool
	}{
		{"empty", "", MaterialDefinition{Pipeline: "lit", Color: [4]float32{1, 1, 1, 1}, UVScale: []float32{1, 1}}, false},
		{"blank pipeline", "pipeline: \"\"", MaterialDefinition{Pipeline: "lit", Color: [4]float32{1, 1, 1, 1}, UVScale: []float32{1, 1}}, false},
		{"single uv", "uv_scale: [3]", MaterialDefinition{Pipeline: "lit", Color: [4]float32{1, 1, 1, 1}, UVScale: []float32{3, 3}}, false},
		{"too many uv", "uv_scale: [1, 2, 3]", MaterialDefinition{}, true},
		{"bad color", "color: nope", MaterialDefinition{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMaterialDefinition([]byte(tt.doc))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got.Pipeline != tt.want.Pipeline || got.Color != tt.want.Color || got.Texture != tt.want.Texture {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if len(got.UVScale) != 2 || got.UVScale[0] != tt.want.UVScale[0] || got.UVScale[1] != tt.want.UVScale[1] {
				t.Errorf("uv = %v, want %v", got.UVScale, tt.want.UVScale)
			}
		})
	}
}

func TestModels(t *testing.T) {
	c := NewCache()
	for _, name := range []string{"Plane", "Box", "Mushroom"} {
		m, err := c.Model(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if m.Name() != name || m.IndexCount() == 0 {
			t.Errorf("%s: name %q, %d indices", name, m.Name(), m.IndexCount())
		}
		again, _ := c.Model(name)
		if again != m {
			t.Errorf("%s: built twice", name)
		}
	}

	builds := 0
	c.RegisterModel("Cube", func(name string) model.Model {
		builds++
		return model.NewBox(name)
	})
	c.Model("Cube")
	c.Model("Cube")
	if builds != 1 {
		t.Errorf("builder ran %d times, want 1", builds)
	}
}

// quadGLTF is a two-triangle quad whose vertex and index data live in an external buffer.
const quadGLTF = `{
	"asset": {"version": "2.0"},
	"meshes": [{"primitives": [{"attributes": {"POSITION": 0}, "indices": 1}]}],
	"accessors": [
		{"bufferView": 0, "componentType": 5126, "count": 4, "type": "VEC3"},
		{"bufferView": 1, "componentType": 5121, "count": 6, "type": "SCALAR"}
	],
	"bufferViews": [
		{"buffer": 0, "byteOffset": 0, "byteLength": 48},
		{"buffer": 0, "byteOffset": 48, "byteLength": 6}
	],
	"buffers": [{"uri": "quad.bin", "byteLength": 54}]
}`

func TestModelFromGLTF(t *testing.T) {
	var bin bytes.Buffer
	for _, f := range []float32{-1, 0, -1, 1, 0, -1, 1, 0, 1, -1, 0, 1} {
		binary.Write(&bin, binary.LittleEndian, f)
	}
	bin.Write([]byte{0, 1, 2, 0, 2, 3})

	dir := t.TempDir()
	writeFile(t, dir, "Models/Quad.gltf", []byte(quadGLTF))
	writeFile(t, dir, "Models/quad.bin", bin.Bytes())

	c := NewCache(WithDir(dir))
	m, err := c.Model("Models/Quad.gltf")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.IndexCount() != 6 || len(m.Vertices()) != 4 {
		t.Fatalf("unexpected quad: %d indices, %d vertices", m.IndexCount(), len(m.Vertices()))
	}
	if again, _ := c.Model("Models/Quad.gltf"); again != m {
		t.Fatalf("imported models should be cached")
	}

	if _, err := c.Model("Models/Missing.glb"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	writeFile(t, dir, "Models/Broken.glb", []byte("not a model"))
	if _, err := c.Model("Models/Broken.glb"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected a decode error, got %v", err)
	}
}

func TestTextures(t *testing.T) {
	t.Run("procedural", func(t *testing.T) {
		c := NewCache()
		tex, err := c.Texture(StoneTiledTexture)
		if err != nil {
			t.Fatal(err)
		}
		if tex.Width != stoneTextureSize || tex.Height != stoneTextureSize {
			t.Errorf("size = %dx%d", tex.Width, tex.Height)
		}
		if len(tex.Pixels) != stoneTextureSize*stoneTextureSize*4 {
			t.Errorf("pixel bytes = %d", len(tex.Pixels))
		}
		// The corner pixel is mortar.
		if tex.Pixels[0] != 105 || tex.Pixels[3] != 255 {
			t.Errorf("corner = %v, want dim gray", tex.Pixels[:4])
		}
	})

	t.Run("png from disk is scaled", func(t *testing.T) {
		dir := t.TempDir()
		img := image.NewRGBA(image.Rect(0, 0, 64, 32))
		for i := range img.Pix {
			img.Pix[i] = 200
		}
		img.Set(0, 0, color.RGBA{255, 0, 0, 255})
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatal(err)
		}
		writeFile(t, dir, "Textures/Big.png", buf.Bytes())

		c := NewCache(WithDir(dir), WithMaxTextureSize(16))
		tex, err := c.Texture("Textures/Big.png")
		if err != nil {
			t.Fatal(err)
		}
		if tex.Width != 16 || tex.Height != 8 {
			t.Errorf("size = %dx%d, want 16x8", tex.Width, tex.Height)
		}
	})

	t.Run("corrupt file", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "Textures/Bad.png", []byte("not a png"))
		c := NewCache(WithDir(dir))
		_, err := c.Texture("Textures/Bad.png")
		if err == nil || errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want a decode error", err)
		}
	})
}

func TestScript(t *testing.T) {
	c := NewCache()
	src, err := c.Script("Scripts/Selector.tengo")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(src, []byte("target")) {
		t.Errorf("unexpected script source: %s", src)
	}
}

func TestPreload(t *testing.T) {
	c := NewCache(WithWorkers(3))
	defer c.Close()

	var mu sync.Mutex
	builds := map[string]int{}
	for _, name := range []string{"A", "B", "C", "D"} {
		c.RegisterModel(name, func(name string) model.Model {
			mu.Lock()
			builds[name]++
			mu.Unlock()
			return model.NewBox(name)
		})
	}

	err := c.Preload("A", "B", "C", "D", "Materials/StoneTiled.yaml", StoneTiledTexture, "Scripts/Selector.tengo")
	if err != nil {
		t.Fatalf("preload: %v", err)
	}
	for _, name := range []string{"A", "B", "C", "D"} {
		if builds[name] != 1 {
			t.Errorf("%s built %d times", name, builds[name])
		}
	}

	err = c.Preload("A", "Missing", "Materials/Missing.yaml")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Materials/White.yaml", "Materials/White.yaml"},
		{"./Materials/White.yaml", "Materials/White.yaml"},
		{"Materials/../Scripts/a.tengo", "Scripts/a.tengo"},
		{"../outside.yaml", ""},
		{"", ""},
		{".", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CleanName(tt.in); got != tt.want {
				t.Errorf("CleanName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsReloadable(t *testing.T) {
	tests := map[string]bool{
		"Materials/White.yaml":   true,
		"Materials/White.YML":    true,
		"Scripts/Selector.tengo": true,
		"Textures/Stone.png":     false,
		"notes.txt":              false,
	}
	for path, want := range tests {
		if got := IsReloadable(path); got != want {
			t.Errorf("IsReloadable(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestWatcherReportsResourceNames(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Materials/White.yaml", []byte("pipeline: unlit\n"))

	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Close()

	writeFile(t, dir, "Textures/ignored.png", []byte("x"))
	writeFile(t, dir, "Materials/White.yaml", []byte("pipeline: unlit\ncolor: red\n"))

	select {
	case name := <-w.Events:
		if name != "Materials/White.yaml" {
			t.Errorf("event = %q", name)
		}
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("no event")
	}

	if err := w.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
	for range w.Events {
	}
}

func TestWatcherReportsLastWriteOnce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Materials/White.yaml", []byte("pipeline: unlit\n"))

	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Close()

	full := "pipeline: unlit\ncolor: \"#ff0000\"\n"
	writeFile(t, dir, "Materials/White.yaml", []byte("pipe"))
	time.Sleep(watchDebounce / 3)
	writeFile(t, dir, "Materials/White.yaml", []byte(full))

	select {
	case name := <-w.Events:
		if name != "Materials/White.yaml" {
			t.Fatalf("event = %q", name)
		}
		data, err := os.ReadFile(filepath.Join(dir, "Materials", "White.yaml"))
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != full {
			t.Fatalf("event arrived before the last write settled, file holds %q", data)
		}
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("no event")
	}

	select {
	case name := <-w.Events:
		t.Fatalf("writes in one burst should be reported once, got a second %q", name)
	case <-time.After(3 * watchDebounce):
	}
}
