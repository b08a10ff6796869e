// Package game hosts the particle field, star field and title intro in an
// ebiten window.
package game

import (
	"fmt"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/particle-field/internal/config"
	"github.com/iburimskiy/particle-field/internal/field"
	"github.com/iburimskiy/particle-field/internal/intro"
	plog "github.com/iburimskiy/particle-field/internal/log"
	"github.com/iburimskiy/particle-field/internal/render"
	"github.com/iburimskiy/particle-field/internal/responsive"
	"github.com/iburimskiy/particle-field/internal/sfx"
	"github.com/iburimskiy/particle-field/internal/starfield"
)

const (
	tick         = time.Second / config.TPS
	flashOpacity = 0.6
)

// layer is an offscreen surface the field or the stars paint into.
type layer interface {
	field.Canvas
	Resize(width, height int)
	DrawTo(dst *ebiten.Image, dx, dy float64)
}

// newLayer is swapped out in tests so no GPU images get allocated.
var newLayer = func(width, height int) layer {
	return render.NewLayerCanvas(width, height)
}

// Options carries the collaborators New cannot build itself. Sound may be
// nil for a silent run; a zero Seed picks one from the clock.
type Options struct {
	Logger *plog.Logger
	Sound  *sfx.Player
	GOOS   string
	Seed   int64
}

type Game struct {
	log      *plog.Logger
	settings config.Settings

	// scene
	field      *field.Field
	stars      *starfield.StarField
	intro      *intro.Intro
	tier       *responsive.Controller
	sound      *sfx.Player
	fieldLayer layer
	starLayer  layer
	title      []rune

	width, height int
	elapsed       time.Duration

	// input edge detection
	prevKey   map[ebiten.Key]bool
	prevMouse bool

	lastErr error
}

func New(s config.Settings, opts Options) *Game {
	logger := opts.Logger
	if logger == nil {
		logger = plog.Default()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Game{
		log:      logger,
		settings: s,
		sound:    opts.Sound,
		width:    s.Width,
		height:   s.Height,
		title:    []rune(s.Title),
		prevKey:  map[ebiten.Key]bool{},
	}
	if len(g.title) == 0 {
		g.title = []rune(intro.DefaultTitle)
	}

	g.fieldLayer = newLayer(g.width, g.height)
	g.starLayer = newLayer(g.width, g.height)
	g.field = field.New(g.fieldLayer, float64(g.width), float64(g.height), s.Field, field.WithLogger(logger))
	g.stars = starfield.New(s.Stars, float64(g.width), float64(g.height), nil)
	g.tier = responsive.NewController(g.field, opts.GOOS, s.Field.ParticleCount, logger)
	g.tier.Apply(float64(g.width))

	var snd intro.Sound
	if g.sound != nil {
		snd = g.sound
	}
	g.intro = intro.New(string(g.title), g, g.field, snd, seed, logger)
	if !s.Intro {
		g.intro.Reveal()
	}
	return g
}

func (g *Game) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := isKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if justPressed(ebiten.KeySpace) {
		g.togglePause()
	}
	if justPressed(ebiten.KeyO) {
		if err := g.openConfigDialog(); err != nil {
			g.reportError(err)
		}
	}
	if justPressed(ebiten.KeyS) {
		g.intro.Skip()
	}

	g.updatePointer()

	g.intro.Update(tick)
	g.stars.Update()
	g.field.Update()
	g.elapsed += tick
	return nil
}

func (g *Game) updatePointer() {
	mx, my := cursorPosition()
	inside := mx >= 0 && my >= 0 && mx < g.width && my < g.height
	if inside {
		g.field.PointerMove(float64(mx), float64(my))
	} else {
		g.field.PointerLeave()
	}

	pressed := isMouseButtonPressed(ebiten.MouseButtonLeft)
	if pressed && !g.prevMouse && inside && g.settings.BurstOnClick {
		g.field.CreateBurst(float64(mx), float64(my), field.DefaultBurstCount)
	}
	g.prevMouse = pressed
}

func (g *Game) togglePause() {
	if g.field.Playing() {
		g.field.Pause()
		g.log.Debugf("particle field paused")
		return
	}
	g.field.Play()
	g.log.Debugf("particle field resumed")
}

func (g *Game) reportError(err error) {
	g.lastErr = err
	g.log.Errorf("%v", err)
}

func (g *Game) Draw(screen *ebiten.Image) {
	dx, dy := g.intro.ShakeOffset()

	g.drawBackdrop(screen)

	g.paintLayers()
	g.starLayer.DrawTo(screen, 0, 0)
	g.fieldLayer.DrawTo(screen, dx, dy)

	g.drawTitle(screen, dx, dy)
	g.drawFlash(screen)
	g.drawHUD(screen)
}

// paintLayers redraws the offscreen layers; the bullet rides on the field
// layer so it shakes with the particles.
func (g *Game) paintLayers() {
	g.stars.Draw(g.starLayer)
	g.field.Draw()
	g.drawBullet(g.fieldLayer)
}

func (g *Game) flashLevel() float64 {
	level := g.intro.Flash()
	if g.sound != nil {
		if l := g.sound.Level(); l > level {
			level = l
		}
	}
	return math.Min(level, 1) * flashOpacity
}

func (g *Game) drawFlash(screen *ebiten.Image) {
	a := g.flashLevel()
	if a <= 0 {
		return
	}
	c := colorFlash
	c.A = uint8(a * 255)
	vector.DrawFilledRect(screen, 0, 0, float32(g.width), float32(g.height), c, false)
}

func (g *Game) status() string {
	state := "Playing - Space to pause"
	if !g.field.Playing() {
		state = "Paused - Space to play"
	}
	keys := "O: load config | Q: quit"
	if !g.intro.Done() {
		keys = "O: load config | S: skip intro | Q: quit"
	}
	s := fmt.Sprintf("%s | %s | %d particles | %s tier | %s",
		state, keys, g.field.Len(), g.tier.Tier(), formatUptime(g.elapsed))
	if g.lastErr != nil {
		s += " | Error: " + g.lastErr.Error()
	}
	return s
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, g.status(), 12, g.height-20)
}

// Layout follows the window size so the field always fills the viewport.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.resize(outsideWidth, outsideHeight)
	}
	return g.width, g.height
}

func (g *Game) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	g.width, g.height = width, height
	g.fieldLayer.Resize(width, height)
	g.starLayer.Resize(width, height)
	g.field.Resize(float64(width), float64(height))
	g.stars.Resize(float64(width), float64(height))
	g.tier.Apply(float64(width))
	g.log.Debugf("viewport %dx%d", width, height)
}

// formatUptime renders d as MM:SS.
func formatUptime(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
