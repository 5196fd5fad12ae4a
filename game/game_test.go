package game

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-outline/common"
	"github.com/Carmen-Shannon/oxy-outline/config"
	"github.com/Carmen-Shannon/oxy-outline/engine"
	"github.com/Carmen-Shannon/oxy-outline/engine/input"
	"github.com/Carmen-Shannon/oxy-outline/engine/outline"
	"github.com/Carmen-Shannon/oxy-outline/engine/profiler"
	"github.com/Carmen-Shannon/oxy-outline/engine/resource"
	"github.com/Carmen-Shannon/oxy-outline/engine/scene"
)

func newTestGame(t *testing.T, cfg config.Config, dir string, opts ...GameBuilderOption) Game {
	t.Helper()
	cache := resource.NewCache(resource.WithDir(dir), resource.WithWorkers(2))
	t.Cleanup(cache.Close)
	g, err := New(cfg, cache, append([]GameBuilderOption{WithSeed(7)}, opts...)...)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return g
}

func writeResource(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestNewBuildsMainScene(t *testing.T) {
	g := newTestGame(t, config.Defaults(), "")
	s := g.MainScene()

	for _, name := range []string{PlaneNodeName, LightNodeName, ZoneNodeName, MushroomNodeName, CameraNodeName} {
		if s.FindNode(name) == nil {
			t.Fatalf("main scene is missing %q", name)
		}
	}

	plane := s.FindNode(PlaneNodeName)
	if plane.Scale() != [3]float32{100, 1, 100} || plane.StaticModel() == nil {
		t.Fatalf("unexpected plane: scale %v", plane.Scale())
	}

	l := s.FindNode(LightNodeName).Light()
	if l == nil || !l.CastsShadows() {
		t.Fatalf("the directional light should cast shadows")
	}

	z := s.FindNode(ZoneNodeName).Zone()
	if z == nil || z.FogStart != 100 || z.FogEnd != 300 {
		t.Fatalf("unexpected zone %+v", z)
	}

	m := s.FindNode(MushroomNodeName)
	if m.Position() != [3]float32{0, 0, 20} {
		t.Fatalf("unexpected mushroom position %v", m.Position())
	}
	scale := m.Scale()
	if scale[0] < mushroomMinScale || scale[0] >= mushroomMinScale+mushroomScaleSpan || scale[0] != scale[1] || scale[1] != scale[2] {
		t.Fatalf("mushroom scale should be uniform in [0.5, 2.5), got %v", scale)
	}
	if yaw := m.Rotation()[1]; yaw < 0 || yaw >= 2*math.Pi {
		t.Fatalf("mushroom yaw out of range: %v", yaw)
	}

	cam := g.CameraNode()
	if cam.Position() != [3]float32{0, 5, 0} || cam.Camera() == nil || cam.Camera().Far() != cameraFarClip {
		t.Fatalf("unexpected camera node")
	}
}

func TestNewBuildsOutlineScene(t *testing.T) {
	g := newTestGame(t, config.Defaults(), "")
	oc := g.OutlineCameraNode()
	if oc.Scene() != g.OutlineScene() {
		t.Fatalf("outline camera belongs to the wrong scene")
	}
	if oc.Camera() == nil || oc.Camera() == g.CameraNode().Camera() {
		t.Fatalf("outline camera should be a separate camera component")
	}
	if oc.Camera().Far() != g.CameraNode().Camera().Far() {
		t.Fatalf("outline camera should be cloned from the main camera")
	}
	if oc.Transform() != g.CameraNode().Transform() {
		t.Fatalf("outline camera should start at the main camera")
	}
	if g.Compositor().MaskTarget() != nil {
		t.Fatalf("nothing should be set up before Setup")
	}
}

func TestSeedIsDeterministic(t *testing.T) {
	a := newTestGame(t, config.Defaults(), "")
	b := newTestGame(t, config.Defaults(), "")
	ma := a.MainScene().FindNode(MushroomNodeName)
	mb := b.MainScene().FindNode(MushroomNodeName)
	if ma.Transform() != mb.Transform() || a.Seed() != 7 {
		t.Fatalf("the same seed should place the mushroom the same way")
	}
}

func TestUpdateMirrorsTarget(t *testing.T) {
	g := newTestGame(t, config.Defaults(), "")
	if err := g.Setup(800, 600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	before := g.OutlineScene().NodeCount()

	var first scene.Node
	for i := 0; i < 3; i++ {
		g.Update(1.0 / 60)
		cur := g.Highlighter().Mirror().Current()
		if cur == nil || cur.Name() != MushroomNodeName {
			t.Fatalf("frame %d: expected a mushroom mirror", i)
		}
		if cur.Parent() != g.OutlineScene().Root() {
			t.Fatalf("mirror should sit under the outline root")
		}
		if cur.StaticModel().Material() != g.Highlighter().Mirror().HighlightMaterial() {
			t.Fatalf("mirror should draw with the highlight material")
		}
		if g.OutlineScene().NodeCount() != before+1 {
			t.Fatalf("frame %d: outline scene should hold exactly one mirror", i)
		}
		if first == nil {
			first = cur
		} else if cur == first || first.Alive() {
			t.Fatalf("the mirror should be recreated every frame")
		}
	}
}

func TestUpdateMovesCamera(t *testing.T) {
	in := input.NewInput()
	g := newTestGame(t, config.Defaults(), "", WithInput(in))

	in.HandleKeyDown(common.KeyW)
	g.Update(0.5)
	pos := g.CameraNode().Position()
	if !near(pos[0], 0) || !near(pos[1], 5) || !near(pos[2], 10) {
		t.Fatalf("W should walk forward 10 units, got %v", pos)
	}
	if g.OutlineCameraNode().Transform() != g.CameraNode().Transform() {
		t.Fatalf("outline camera should follow the main camera")
	}

	in.HandleKeyUp(common.KeyW)
	in.EndFrame()
	in.HandleMouseMove(100, 100)
	in.HandleMouseMove(100, 5000)
	g.Update(0)
	if pitch := g.CameraNode().Rotation()[0]; !near(pitch, common.Radians(90)) {
		t.Fatalf("pitch should clamp at 90 degrees, got %v", pitch)
	}
}

func TestF2TogglesHUD(t *testing.T) {
	in := input.NewInput()
	p := profiler.NewProfiler()
	g := newTestGame(t, config.Defaults(), "", WithInput(in), WithProfiler(p))

	in.HandleKeyDown(common.KeyF2)
	g.Update(0)
	if !p.Visible() {
		t.Fatalf("F2 should show the HUD")
	}
	in.EndFrame()
	in.HandleKeyDown(common.KeyF2)
	g.Update(0)
	if !p.Visible() {
		t.Fatalf("holding F2 should not toggle again")
	}
	in.EndFrame()
	in.HandleKeyUp(common.KeyF2)
	in.HandleKeyDown(common.KeyF2)
	g.Update(0)
	if p.Visible() {
		t.Fatalf("a second press should hide the HUD")
	}
}

func TestReloadMaterial(t *testing.T) {
	dir := t.TempDir()
	writeResource(t, dir, "Materials/White.yaml", "pipeline: unlit\ncolor: \"#ffffff\"\n")
	events := make(chan string, 1)
	g := newTestGame(t, config.Defaults(), dir, WithReloadEvents(events))

	mat := g.Highlighter().Mirror().HighlightMaterial()
	if mat.BaseColor() != [4]float32{1, 1, 1, 1} {
		t.Fatalf("unexpected initial color %v", mat.BaseColor())
	}

	writeResource(t, dir, "Materials/White.yaml", "pipeline: unlit\ncolor: \"#ff0000\"\n")
	events <- "Materials/White.yaml"
	g.Update(0)
	if mat.BaseColor() != [4]float32{1, 0, 0, 1} {
		t.Fatalf("material should be reloaded in place, got %v", mat.BaseColor())
	}
}

func TestReloadSelectorScript(t *testing.T) {
	dir := t.TempDir()
	writeResource(t, dir, "Scripts/Pick.tengo", "target = \"Mushroom\"\n")
	cfg := config.Defaults()
	cfg.Outline.Script = "Scripts/Pick.tengo"
	events := make(chan string, 1)
	g := newTestGame(t, cfg, dir, WithReloadEvents(events))

	g.Update(0)
	if cur := g.Highlighter().Mirror().Current(); cur == nil || cur.Name() != MushroomNodeName {
		t.Fatalf("script should select the mushroom")
	}

	writeResource(t, dir, "Scripts/Pick.tengo", "target = \"Plane\"\n")
	events <- "Scripts/Pick.tengo"
	g.Update(0)
	g.Update(0)
	if cur := g.Highlighter().Mirror().Current(); cur == nil || cur.Name() != PlaneNodeName {
		t.Fatalf("reloaded script should select the plane")
	}

	close(events)
	g.Update(0)
}

func TestHighlightModelFromGLTF(t *testing.T) {
	var bin bytes.Buffer
	for _, f := range []float32{0, 0, 0, 1, 0, 0, 0, 1, 0} {
		binary.Write(&bin, binary.LittleEndian, f)
	}
	doc := `{"asset": {"version": "2.0"},
		"meshes": [{"primitives": [{"attributes": {"POSITION": 0}}]}],
		"accessors": [{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"}],
		"bufferViews": [{"buffer": 0, "byteLength": 36}],
		"buffers": [{"byteLength": 36, "uri": "data:application/octet-stream;base64,` +
		base64.StdEncoding.EncodeToString(bin.Bytes()) + `"}]}`

	dir := t.TempDir()
	writeResource(t, dir, "Models/Tri.gltf", doc)
	cfg := config.Defaults()
	cfg.Scene.HighlightModel = "Models/Tri.gltf"
	g := newTestGame(t, cfg, dir)

	sm := g.MainScene().FindNode(MushroomNodeName).StaticModel()
	if sm == nil || sm.Model().Name() != "Models/Tri.gltf" || sm.Model().IndexCount() != 3 {
		t.Fatalf("highlighted node should use the imported model")
	}
}

func TestMissingScriptFallsBackToName(t *testing.T) {
	cfg := config.Defaults()
	cfg.Outline.Script = "Scripts/Missing.tengo"
	cache := resource.NewCache(resource.WithDir(""))
	t.Cleanup(cache.Close)
	if _, err := New(cfg, cache); err == nil {
		t.Fatalf("a missing script should fail preloading")
	}

	cfg.Outline.Script = ""
	cfg.Outline.Target = ""
	g := newTestGame(t, cfg, "")
	g.Update(0)
	if g.Highlighter().Mirror().Current() != nil {
		t.Fatalf("no selector means no mirror")
	}
}

func TestAttachHeadless(t *testing.T) {
	g := newTestGame(t, config.Defaults(), "")
	e := engine.NewEngine()
	if err := g.Attach(e); err != nil {
		t.Fatalf("attach: %v", err)
	}
	mask := g.Compositor().MaskTarget()
	if mask == nil || mask.Name() != outline.DefaultMaskName {
		t.Fatalf("attach should set the compositor up")
	}
	if w, h := mask.Size(); w != 800 || h != 600 {
		t.Fatalf("mask should use the window size, got %dx%d", w, h)
	}

	e.AddUpdateCallback(func(float32) { e.Quit() })
	e.Run()
	if g.Highlighter().Mirror().Current() == nil {
		t.Fatalf("the engine should have run the game update")
	}
	if err := g.Setup(0, 600); err == nil {
		t.Fatalf("a zero size should be rejected")
	}
}
