package game

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/particle-field/internal/config"
	"github.com/iburimskiy/particle-field/internal/field"
	"github.com/iburimskiy/particle-field/internal/intro"
	plog "github.com/iburimskiy/particle-field/internal/log"
	"github.com/iburimskiy/particle-field/internal/responsive"
)

type line struct {
	x1, y1, x2, y2, width float64
	clr                   color.Color
}

type fakeLayer struct {
	width, height int
	lines         []line
}

func (l *fakeLayer) Clear()                                      { l.lines = nil }
func (l *fakeLayer) FillCircle(x, y, r float64, clr color.Color) {}
func (l *fakeLayer) Glow(x, y, r float64, clr color.Color)       {}
func (l *fakeLayer) Resize(width, height int)                    { l.width, l.height = width, height }
func (l *fakeLayer) DrawTo(dst *ebiten.Image, dx, dy float64)    {}

func (l *fakeLayer) Line(x1, y1, x2, y2, w float64, clr color.Color) {
	l.lines = append(l.lines, line{x1, y1, x2, y2, w, clr})
}

// bulletLines returns the lines painted in the bullet colour.
func (l *fakeLayer) bulletLines() []line {
	var out []line
	for _, ln := range l.lines {
		if ln.clr == color.Color(colorBullet) {
			out = append(out, ln)
		}
	}
	return out
}

// input is a scripted keyboard and mouse.
type input struct {
	x, y  int
	mouse bool
	keys  map[ebiten.Key]bool
}

func (in *input) install(t *testing.T) {
	t.Helper()
	if in.keys == nil {
		in.keys = map[ebiten.Key]bool{}
	}
	restore := SetInputForTest(
		func() (int, int) { return in.x, in.y },
		func(ebiten.MouseButton) bool { return in.mouse },
		func(k ebiten.Key) bool { return in.keys[k] },
	)
	t.Cleanup(restore)
}

func testSettings() config.Settings {
	return config.Settings{
		Width:  1280,
		Height: 720,
		Title:  "HI",
		Stars:  10,
		Field:  field.DefaultConfig(),
	}
}

func newTestGame(t *testing.T, s config.Settings) *Game {
	t.Helper()
	old := newLayer
	newLayer = func(w, h int) layer { return &fakeLayer{width: w, height: h} }
	t.Cleanup(func() { newLayer = old })
	return New(s, Options{Logger: plog.Discard(), GOOS: "linux", Seed: 1})
}

func TestNewBuildsScene(t *testing.T) {
	s := testSettings()
	s.Intro = true
	g := newTestGame(t, s)

	if g.field.Len() != 80 {
		t.Fatalf("particles = %d, want 80", g.field.Len())
	}
	if g.tier.Tier() != responsive.TierHigh {
		t.Fatalf("tier = %s", g.tier.Tier())
	}
	if g.intro.Phase() != intro.PhaseWaiting {
		t.Fatalf("phase = %s", g.intro.Phase())
	}
}

func TestIntroDisabledShowsTitleQuietly(t *testing.T) {
	g := newTestGame(t, testSettings())
	if !g.intro.Done() {
		t.Fatalf("phase = %s", g.intro.Phase())
	}
	if g.intro.Revealed() != "HI" {
		t.Fatalf("revealed %q", g.intro.Revealed())
	}
	// no flourish burst on top of the ambient set
	if g.field.Len() != 80 {
		t.Fatalf("particles = %d, want 80", g.field.Len())
	}
}

func TestEmptyTitleFallsBack(t *testing.T) {
	s := testSettings()
	s.Title = ""
	g := newTestGame(t, s)
	if string(g.title) != intro.DefaultTitle {
		t.Fatalf("title %q", string(g.title))
	}
}

func TestEscapeTerminates(t *testing.T) {
	in := &input{x: -1, y: -1}
	in.install(t)
	g := newTestGame(t, testSettings())

	if err := g.Update(); err != nil {
		t.Fatal(err)
	}
	in.keys[ebiten.KeyEscape] = true
	if err := g.Update(); !errors.Is(err, ebiten.Termination) {
		t.Fatalf("err = %v, want Termination", err)
	}
}

func TestSpaceTogglesPause(t *testing.T) {
	in := &input{x: -1, y: -1}
	in.install(t)
	g := newTestGame(t, testSettings())

	press := func() {
		in.keys[ebiten.KeySpace] = true
		if err := g.Update(); err != nil {
			t.Fatal(err)
		}
		in.keys[ebiten.KeySpace] = false
		if err := g.Update(); err != nil {
			t.Fatal(err)
		}
	}

	press()
	if g.field.Playing() {
		t.Fatal("expected paused after first press")
	}
	// holding the key must not toggle again
	in.keys[ebiten.KeySpace] = true
	g.Update()
	g.Update()
	if !g.field.Playing() {
		t.Fatal("expected playing after second press")
	}
}

func TestSkipKey(t *testing.T) {
	in := &input{x: -1, y: -1}
	in.install(t)
	s := testSettings()
	s.Intro = true
	g := newTestGame(t, s)

	in.keys[ebiten.KeyS] = true
	g.Update()
	if g.intro.Phase() < intro.PhaseComplete {
		t.Fatalf("phase = %s", g.intro.Phase())
	}
}

func TestClickBurst(t *testing.T) {
	in := &input{x: 100, y: 100}
	in.install(t)
	s := testSettings()
	s.BurstOnClick = true
	g := newTestGame(t, s)
	base := g.field.Len()

	in.mouse = true
	g.Update()
	if got := g.field.Len(); got != base+field.DefaultBurstCount {
		t.Fatalf("particles = %d, want %d", got, base+field.DefaultBurstCount)
	}
	// held button: no second burst
	g.Update()
	if got := g.field.Len(); got != base+field.DefaultBurstCount {
		t.Fatalf("particles = %d after hold", got)
	}
}

func TestClickIgnoredWhenDisabledOrOutside(t *testing.T) {
	in := &input{x: 100, y: 100}
	in.install(t)
	g := newTestGame(t, testSettings())
	base := g.field.Len()

	in.mouse = true
	g.Update()
	if g.field.Len() != base {
		t.Fatalf("burst with burst-on-click off")
	}

	g.settings.BurstOnClick = true
	in.mouse = false
	g.Update()
	in.x, in.y, in.mouse = 5000, 100, true
	g.Update()
	if g.field.Len() != base {
		t.Fatalf("burst outside the window")
	}
}

func TestLayoutResizesAndRetiers(t *testing.T) {
	g := newTestGame(t, testSettings())

	w, h := g.Layout(600, 400)
	if w != 600 || h != 400 {
		t.Fatalf("layout %dx%d", w, h)
	}
	for _, p := range g.field.Particles() {
		if p.X >= 600 || p.Y >= 400 {
			t.Fatalf("particle at (%v,%v) outside the new viewport", p.X, p.Y)
		}
	}
	if l := g.fieldLayer.(*fakeLayer); l.width != 600 || l.height != 400 {
		t.Fatalf("layer %dx%d", l.width, l.height)
	}
	if g.tier.Tier() != responsive.TierLow {
		t.Fatalf("tier = %s", g.tier.Tier())
	}
	// low tier budget halved again on a narrow viewport
	if got := g.field.Len(); got != responsive.LowTierParticles/2 {
		t.Fatalf("particles = %d", got)
	}

	g.Layout(1280, 720)
	if g.tier.Tier() != responsive.TierHigh || g.field.Len() != 80 {
		t.Fatalf("tier %s with %d particles", g.tier.Tier(), g.field.Len())
	}
}

func TestBulletDrawnWhileShooting(t *testing.T) {
	in := &input{x: -1, y: -1}
	in.install(t)
	s := testSettings()
	s.Intro = true
	g := newTestGame(t, s)
	layer := g.fieldLayer.(*fakeLayer)

	g.paintLayers()
	if n := len(layer.bulletLines()); n != 0 {
		t.Fatalf("bullet drawn before the first shot: %d lines", n)
	}

	// 2s wait, then a tenth of a second into the flight
	for i := 0; i < 2*config.TPS+6; i++ {
		g.Update()
	}
	g.paintLayers()
	bullets := layer.bulletLines()
	if len(bullets) != 1 {
		t.Fatalf("bullet lines = %d, want 1", len(bullets))
	}
	b := bullets[0]
	ox, oy := g.bulletOrigin()
	tx, ty := g.LetterCenter(0)
	if b.width != bulletWidth {
		t.Fatalf("width %v", b.width)
	}
	// head between the launch point and the first letter, tail behind it
	if b.y2 >= oy || b.y2 <= ty || b.y1 < b.y2 {
		t.Fatalf("streak (%v,%v)->(%v,%v) not heading from %v,%v to %v,%v", b.x1, b.y1, b.x2, b.y2, ox, oy, tx, ty)
	}

	// impact lands at 0.4s, the shot clears at 0.6s
	for i := 0; i < config.TPS/2+1; i++ {
		g.Update()
	}
	g.paintLayers()
	if n := len(layer.bulletLines()); n != 0 {
		t.Fatalf("bullet still drawn after the shot cleared: %d lines", n)
	}
}

func TestLayoutIgnoresEmptyWindow(t *testing.T) {
	g := newTestGame(t, testSettings())
	w, h := g.Layout(0, 0)
	if w != 1280 || h != 720 {
		t.Fatalf("layout %dx%d", w, h)
	}
}

func TestLoadConfig(t *testing.T) {
	g := newTestGame(t, testSettings())
	path := filepath.Join(t.TempDir(), "p.yaml")
	body := "particles:\n  count: 12\n  color: \"#ff0000\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := g.loadConfig(path); err != nil {
		t.Fatal(err)
	}
	cfg := g.field.Config()
	if cfg.ParticleCount != 12 || cfg.Color != (field.Color{R: 255}) {
		t.Fatalf("config %+v", cfg)
	}
	if cfg.ConnectionDistance != field.DefaultConfig().ConnectionDistance {
		t.Fatal("unnamed keys must keep their value")
	}
}

func TestLoadConfigColorOnlyKeepsParticles(t *testing.T) {
	g := newTestGame(t, testSettings())
	before := g.field.Particles()
	path := filepath.Join(t.TempDir(), "c.toml")
	if err := os.WriteFile(path, []byte("[particles]\ncolor = \"0,255,0\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := g.loadConfig(path); err != nil {
		t.Fatal(err)
	}
	if g.field.Config().Color != (field.Color{G: 255}) {
		t.Fatalf("color %+v", g.field.Config().Color)
	}
	after := g.field.Particles()
	if len(after) != len(before) || after[0] != before[0] {
		t.Fatal("colour-only config respawned the particles")
	}
}

func TestLoadConfigOnLowTierKeepsCap(t *testing.T) {
	g := newTestGame(t, testSettings())
	g.Layout(600, 400)
	path := filepath.Join(t.TempDir(), "p.yaml")
	if err := os.WriteFile(path, []byte("particles:\n  count: 300\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := g.loadConfig(path); err != nil {
		t.Fatal(err)
	}
	if got := g.field.Len(); got != responsive.LowTierParticles/2 {
		t.Fatalf("particles = %d, want the low tier cap", got)
	}
	g.Layout(1280, 720)
	if got := g.field.Len(); got != 300 {
		t.Fatalf("particles = %d after widening, want 300", got)
	}
}

func TestOpenConfigDialogCanceled(t *testing.T) {
	g := newTestGame(t, testSettings())
	old := selectFile
	t.Cleanup(func() { selectFile = old })

	selectFile = func() (string, error) { return "", zenity.ErrCanceled }
	if err := g.openConfigDialog(); err != nil {
		t.Fatalf("cancel should not be an error: %v", err)
	}

	selectFile = func() (string, error) { return filepath.Join(t.TempDir(), "missing.yaml"), nil }
	if err := g.openConfigDialog(); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestStatusShowsError(t *testing.T) {
	g := newTestGame(t, testSettings())
	g.reportError(errors.New("boom"))
	if s := g.status(); !strings.Contains(s, "Error: boom") || !strings.Contains(s, "high tier") {
		t.Fatalf("status %q", s)
	}
	g.field.Pause()
	if s := g.status(); !strings.Contains(s, "Paused") {
		t.Fatalf("status %q", s)
	}
}

func TestStatusHidesSkipOnceIntroIsDone(t *testing.T) {
	s := testSettings()
	s.Intro = true
	g := newTestGame(t, s)
	if !strings.Contains(g.status(), "S: skip intro") {
		t.Fatalf("status %q", g.status())
	}
	g.intro.Reveal()
	if strings.Contains(g.status(), "skip intro") {
		t.Fatalf("status %q", g.status())
	}
}

func TestFlashLevelWithoutSound(t *testing.T) {
	g := newTestGame(t, testSettings())
	if l := g.flashLevel(); l != 0 {
		t.Fatalf("flash %v", l)
	}
}

func TestBackdropColor(t *testing.T) {
	top := backdropColor(0, 0)
	bottom := backdropColor(0, 1)
	if top.A != 255 || bottom.A != 255 {
		t.Fatal("backdrop must be opaque")
	}
	lum := func(c color.RGBA) int { return int(c.R) + int(c.G) + int(c.B) }
	if lum(top) <= lum(bottom) {
		t.Fatalf("top %v should be brighter than bottom %v", top, bottom)
	}
	if top.B < top.R {
		t.Fatalf("top %v should be blue", top)
	}
}

func TestTitleLayout(t *testing.T) {
	g := newTestGame(t, testSettings())
	x0, y0 := g.LetterCenter(0)
	x1, y1 := g.LetterCenter(1)
	cx, cy := g.TitleCenter()
	if y0 != cy || y1 != cy {
		t.Fatalf("letters off the title row")
	}
	if (x0+x1)/2 != cx {
		t.Fatalf("title not centred: %v %v around %v", x0, x1, cx)
	}
}

func TestFormatUptime(t *testing.T) {
	if got := formatUptime(0); got != "00:00" {
		t.Fatal(got)
	}
	if got := formatUptime(125e9); got != "02:05" {
		t.Fatal(got)
	}
}

