// Package field simulates and renders the connected-particle background: a
// fixed set of slowly drifting points, joined by faint lines whenever two of
// them come close, that shy away from the pointer.
//
// A Field is not safe for concurrent use. The host drives it from a single
// goroutine: Update once per tick, Draw once per rendered frame.
package field

import (
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/harmonica"

	plog "github.com/iburimskiy/particle-field/internal/log"
)

const (
	// NarrowWidth is the viewport width below which only half the
	// configured particles are spawned.
	NarrowWidth = 768

	driftNudge        = 0.01
	driftAngleSpeed   = 0.02
	pointerPush       = 2.0
	pointerGlow       = 0.5
	glowScale         = 3.0
	glowAlpha         = 0.5
	connectionAlpha   = 0.15
	connectionWidth   = 0.5
	burstLifetime     = 2 * time.Second
	burstSize         = 2.0
	burstSpeedMin     = 2.0
	burstSpeedSpread  = 3.0
	DefaultBurstCount = 15

	decayFPS       = 60
	decayFrequency = 6.0
	decayDamping   = 1.0
)

// Particle is one simulated point.
type Particle struct {
	X, Y           float64
	SpeedX, SpeedY float64
	Size           float64
	Opacity        float64
	BaseOpacity    float64
	Angle          float64
	AngleSpeed     float64

	opacityVel float64
}

type burstParticle struct {
	Particle
	expires time.Time
}

type pointer struct {
	x, y  float64
	valid bool
}

// Field owns the particle set, its configuration and the viewport bounds.
type Field struct {
	canvas Canvas
	log    *plog.Logger
	rng    *rand.Rand
	now    func() time.Time
	spring harmonica.Spring

	cfg           Config
	width, height float64

	particles []Particle
	bursts    []burstParticle
	pointer   pointer

	playing bool
	inert   bool
}

type Option func(*Field)

// WithRand makes particle generation deterministic.
func WithRand(r *rand.Rand) Option {
	return func(f *Field) { f.rng = r }
}

// WithClock replaces time.Now for burst expiry.
func WithClock(now func() time.Time) Option {
	return func(f *Field) { f.now = now }
}

func WithLogger(l *plog.Logger) Option {
	return func(f *Field) { f.log = l }
}

// New builds a field over canvas sized width×height. A nil canvas yields an
// inert field on which every method is a no-op.
func New(canvas Canvas, width, height float64, cfg Config, opts ...Option) *Field {
	f := &Field{
		canvas:  canvas,
		log:     plog.Default(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
		spring:  harmonica.NewSpring(harmonica.FPS(decayFPS), decayFrequency, decayDamping),
		cfg:     cfg,
		playing: true,
	}
	for _, o := range opts {
		o(f)
	}
	if canvas == nil {
		f.inert = true
		f.playing = false
		f.log.Warnf("particle field: no drawing surface, staying idle")
		return f
	}
	f.width, f.height = width, height
	f.rebuild()
	return f
}

func (f *Field) Config() Config { return f.cfg }

// Len is the number of live particles, bursts included.
func (f *Field) Len() int { return len(f.particles) + len(f.bursts) }

// Particles returns a copy of every live particle, ambient ones first.
func (f *Field) Particles() []Particle {
	out := make([]Particle, 0, f.Len())
	out = append(out, f.particles...)
	for i := range f.bursts {
		out = append(out, f.bursts[i].Particle)
	}
	return out
}

func (f *Field) Playing() bool { return f.playing }

func (f *Field) Play() {
	if f.inert {
		return
	}
	f.playing = true
}

func (f *Field) Pause() {
	f.playing = false
}

// Resize moves the viewport bounds and respawns the particle set at the
// density for the new width. Live bursts are dropped.
func (f *Field) Resize(width, height float64) {
	if f.inert {
		return
	}
	f.width, f.height = width, height
	f.rebuild()
}

// SetConfig merges p into the configuration and respawns the particle set.
func (f *Field) SetConfig(p Patch) {
	if f.inert {
		return
	}
	f.cfg = f.cfg.Merge(p)
	f.rebuild()
}

// SetColor changes the paint colour without touching the particles.
func (f *Field) SetColor(c Color) {
	f.cfg.Color = c
}

func (f *Field) PointerMove(x, y float64) {
	f.pointer = pointer{x: x, y: y, valid: true}
}

func (f *Field) PointerLeave() {
	f.pointer = pointer{}
}

// CreateBurst spawns count short-lived particles at (x, y) flying outwards
// at evenly spaced angles. They disappear two seconds later.
func (f *Field) CreateBurst(x, y float64, count int) {
	if f.inert || count <= 0 {
		return
	}
	expires := f.now().Add(burstLifetime)
	for i := 0; i < count; i++ {
		angle := 2 * math.Pi * float64(i) / float64(count)
		speed := burstSpeedMin + f.rng.Float64()*burstSpeedSpread
		p := f.newParticle(x, y)
		p.SpeedX = math.Cos(angle) * speed
		p.SpeedY = math.Sin(angle) * speed
		p.Opacity = 1
		p.Size = burstSize
		f.bursts = append(f.bursts, burstParticle{Particle: p, expires: expires})
	}
}

// Update advances the simulation by one frame. Expired bursts are reaped
// even while paused since their lifetime runs on wall time.
func (f *Field) Update() {
	if f.inert {
		return
	}
	f.reapBursts()
	if !f.playing {
		return
	}
	for i := range f.particles {
		f.step(&f.particles[i])
	}
	for i := range f.bursts {
		f.step(&f.bursts[i].Particle)
	}
}

// Draw repaints the canvas: discs with glow, then connection lines.
func (f *Field) Draw() {
	if f.inert {
		return
	}
	f.canvas.Clear()
	for i := range f.particles {
		f.drawParticle(&f.particles[i])
	}
	for i := range f.bursts {
		f.drawParticle(&f.bursts[i].Particle)
	}
	f.drawConnections()
}

func (f *Field) rebuild() {
	n := f.cfg.countFor(f.width)
	f.particles = make([]Particle, 0, n)
	for i := 0; i < n; i++ {
		f.particles = append(f.particles, f.newParticle(f.rng.Float64()*f.width, f.rng.Float64()*f.height))
	}
	f.bursts = nil
	f.log.Debugf("particle field: %d particles in %.0fx%.0f", n, f.width, f.height)
}

func (f *Field) newParticle(x, y float64) Particle {
	c := f.cfg
	return Particle{
		X:           x,
		Y:           y,
		Size:        c.ParticleSize.Sample(f.rng.Float64()),
		SpeedX:      f.signed(c.Speed.Sample(f.rng.Float64())),
		SpeedY:      f.signed(c.Speed.Sample(f.rng.Float64())),
		Opacity:     c.Opacity.Sample(f.rng.Float64()),
		BaseOpacity: c.Opacity.Sample(f.rng.Float64()),
		Angle:       f.rng.Float64() * 2 * math.Pi,
		AngleSpeed:  (f.rng.Float64() - 0.5) * driftAngleSpeed,
	}
}

func (f *Field) signed(v float64) float64 {
	if f.rng.Intn(2) == 0 {
		return -v
	}
	return v
}

func (f *Field) step(p *Particle) {
	c := &f.cfg
	if c.Drift {
		p.Angle += p.AngleSpeed
		p.SpeedX += math.Cos(p.Angle) * driftNudge
		p.SpeedY += math.Sin(p.Angle) * driftNudge
	}

	p.X += p.SpeedX
	p.Y += p.SpeedY

	near := false
	if c.MouseInteraction && f.pointer.valid && c.MouseRadius > 0 {
		dx := f.pointer.x - p.X
		dy := f.pointer.y - p.Y
		dist := math.Hypot(dx, dy)
		if dist < c.MouseRadius {
			near = true
			force := (c.MouseRadius - dist) / c.MouseRadius
			angle := math.Atan2(dy, dx)
			p.X -= math.Cos(angle) * force * pointerPush
			p.Y -= math.Sin(angle) * force * pointerPush
			p.Opacity = math.Min(1, p.BaseOpacity+force*pointerGlow)
			p.opacityVel = 0
		}
	}
	if !near {
		p.Opacity, p.opacityVel = f.spring.Update(p.Opacity, p.opacityVel, p.BaseOpacity)
	}

	p.X = wrap(p.X, f.width)
	p.Y = wrap(p.Y, f.height)

	p.SpeedX = clampAbs(p.SpeedX, c.Speed.Max)
	p.SpeedY = clampAbs(p.SpeedY, c.Speed.Max)
}

func (f *Field) reapBursts() {
	if len(f.bursts) == 0 {
		return
	}
	now := f.now()
	kept := f.bursts[:0]
	for _, b := range f.bursts {
		if now.Before(b.expires) {
			kept = append(kept, b)
		}
	}
	f.bursts = kept
}

func (f *Field) drawParticle(p *Particle) {
	clr := f.cfg.Color
	f.canvas.FillCircle(p.X, p.Y, p.Size, clr.WithAlpha(p.Opacity))
	f.canvas.Glow(p.X, p.Y, p.Size*glowScale, clr.WithAlpha(p.Opacity*glowAlpha))
}

// drawConnections joins every pair closer than ConnectionDistance. The scan
// is quadratic in the particle count, which is fine for the few dozen points
// this background uses but will not scale to thousands.
func (f *Field) drawConnections() {
	threshold := f.cfg.ConnectionDistance
	if threshold <= 0 {
		return
	}
	all := f.Particles()
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			a, b := &all[i], &all[j]
			d := math.Hypot(a.X-b.X, a.Y-b.Y)
			if d >= threshold {
				continue
			}
			f.canvas.Line(a.X, a.Y, b.X, b.Y, connectionWidth, f.cfg.Color.WithAlpha(ConnectionOpacity(d, threshold)))
		}
	}
}

// ConnectionOpacity is the line alpha for two particles d apart: 0.15 when
// touching, falling linearly to 0 at threshold.
func ConnectionOpacity(d, threshold float64) float64 {
	if threshold <= 0 || d >= threshold {
		return 0
	}
	if d < 0 {
		d = 0
	}
	return (1 - d/threshold) * connectionAlpha
}

// wrap keeps v in [0, bound). Leaving past the far edge re-enters at 0.
func wrap(v, bound float64) float64 {
	if bound <= 0 {
		return 0
	}
	if v >= bound {
		return 0
	}
	if v < 0 {
		v = math.Mod(v, bound) + bound
		if v >= bound {
			return 0
		}
	}
	return v
}

func clampAbs(v, limit float64) float64 {
	if limit < 0 {
		limit = 0
	}
	return math.Max(-limit, math.Min(limit, v))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
