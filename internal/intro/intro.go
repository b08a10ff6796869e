// Package intro scripts the title reveal: after a short wait each letter is
// "shot" onto the screen with a shake, a flash, a spark burst and an impact
// sound, then the finished title gets a final flourish.
//
// The whole sequence is a flat timeline of delayed steps; Update only
// advances that timeline and eases the visual state.
package intro

import (
	"math"
	"time"

	"github.com/aquilax/go-perlin"
	"github.com/charmbracelet/harmonica"

	plog "github.com/iburimskiy/particle-field/internal/log"
	"github.com/iburimskiy/particle-field/internal/timeline"
)

const (
	DefaultTitle = "CT FEST,2K26 "

	startDelay    = 2 * time.Second
	impactDelay   = 400 * time.Millisecond
	bulletTime    = 600 * time.Millisecond
	shotInterval  = 800 * time.Millisecond
	flashDuration = 400 * time.Millisecond
	shakeDuration = 300 * time.Millisecond
	outroDelay    = 1500 * time.Millisecond

	SparkCount    = 20
	FlourishCount = 30

	shakeAmplitude = 8.0
	shakeFrequency = 40.0

	popFPS       = 60
	popFrequency = 9.0
	popDamping   = 0.35
)

// Burster spawns a particle burst, e.g. *field.Field.
type Burster interface {
	CreateBurst(x, y float64, count int)
}

// Sound plays the impact effect, e.g. *sfx.Player.
type Sound interface {
	Impact()
}

// Layout tells the intro where letters end up on screen.
type Layout interface {
	LetterCenter(index int) (x, y float64)
	TitleCenter() (x, y float64)
}

type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseShooting
	PhaseComplete
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseShooting:
		return "shooting"
	case PhaseComplete:
		return "complete"
	default:
		return "finished"
	}
}

type Intro struct {
	title  []rune
	layout Layout
	burst  Burster
	sound  Sound
	log    *plog.Logger

	tl    *timeline.Timeline
	phase Phase
	clock time.Duration

	revealed  int
	shooting  bool
	target    int
	shotAt    time.Duration
	flashAt   time.Duration
	flashOn   bool
	shakeAt   time.Duration
	shakeOn   bool
	noise     *perlin.Perlin
	spring    harmonica.Spring
	scales    []float64
	scaleVels []float64
}

// New builds the sequence for title. burst and sound may be nil.
func New(title string, layout Layout, burst Burster, sound Sound, seed int64, logger *plog.Logger) *Intro {
	if title == "" {
		title = DefaultTitle
	}
	in := &Intro{
		title:  []rune(title),
		layout: layout,
		burst:  burst,
		sound:  sound,
		log:    logger,
		noise:  perlin.NewPerlin(2, 2, 3, seed),
		spring: harmonica.NewSpring(harmonica.FPS(popFPS), popFrequency, popDamping),
	}
	in.scales = make([]float64, len(in.title))
	in.scaleVels = make([]float64, len(in.title))
	in.tl = in.script()
	return in
}

// script lays out every shot as explicit steps. Delays are relative to the
// previous step: shoot, impact 0.4s later, bullet reset at 0.6s, next shot
// at 0.8s.
func (in *Intro) script() *timeline.Timeline {
	tl := timeline.New()
	gap := startDelay
	for i := range in.title {
		tl.Then(gap, func() { in.shoot(i) }).
			Then(impactDelay, func() { in.impact(i) }).
			Then(bulletTime-impactDelay, func() { in.shooting = false })
		gap = shotInterval - bulletTime
	}
	tl.Then(gap, in.complete).
		Then(outroDelay, func() { in.phase = PhaseFinished })
	return tl
}

func (in *Intro) shoot(i int) {
	in.phase = PhaseShooting
	in.shooting = true
	in.target = i
	in.shotAt = in.clock
	in.shakeOn = true
	in.shakeAt = in.clock
}

func (in *Intro) impact(i int) {
	in.flashOn = true
	in.flashAt = in.clock
	if in.layout != nil && in.burst != nil {
		x, y := in.layout.LetterCenter(i)
		in.burst.CreateBurst(x, y, SparkCount)
	}
	if in.sound != nil {
		in.sound.Impact()
	}
	in.reveal(i)
}

func (in *Intro) reveal(i int) {
	if i+1 > in.revealed {
		in.revealed = i + 1
	}
}

func (in *Intro) complete() {
	if in.phase >= PhaseComplete {
		return
	}
	in.phase = PhaseComplete
	in.shooting = false
	if in.layout != nil && in.burst != nil {
		x, y := in.layout.TitleCenter()
		in.burst.CreateBurst(x, y, FlourishCount)
	}
	in.log.Debugf("intro: title complete after %s", in.clock)
}

// Update advances the sequence by dt. Call once per tick.
func (in *Intro) Update(dt time.Duration) {
	if in.phase == PhaseFinished {
		return
	}
	in.clock += dt
	in.tl.Advance(dt)
	for i := 0; i < in.revealed; i++ {
		in.scales[i], in.scaleVels[i] = in.spring.Update(in.scales[i], in.scaleVels[i], 1)
	}
}

// Skip reveals the whole title at once and jumps to the flourish. The
// pending shots are dropped rather than run, so no letter bursts or sounds
// fire late.
func (in *Intro) Skip() {
	if in.phase >= PhaseComplete {
		return
	}
	in.showAll()
	in.complete()
	in.tl = timeline.New(timeline.Step{Delay: outroDelay, Action: func() { in.phase = PhaseFinished }})
}

// Reveal shows the finished title straight away, with no flourish.
func (in *Intro) Reveal() {
	in.showAll()
	in.phase = PhaseFinished
	in.tl = timeline.New()
}

func (in *Intro) showAll() {
	in.revealed = len(in.title)
	for i := range in.scales {
		in.scales[i], in.scaleVels[i] = 1, 0
	}
	in.shooting, in.shakeOn, in.flashOn = false, false, false
}

func (in *Intro) Phase() Phase { return in.phase }

// Done reports whether the sequence has fully played out.
func (in *Intro) Done() bool { return in.phase == PhaseFinished }

func (in *Intro) Title() string { return string(in.title) }

// Revealed returns the letters shown so far.
func (in *Intro) Revealed() string { return string(in.title[:in.revealed]) }

// Bullet reports the shot in flight: the letter it aims at and how far it
// has travelled, 1 being the moment of impact. Progress keeps growing past
// 1 until the shot is cleared so the streak can trail into the letter.
func (in *Intro) Bullet() (target int, progress float64, ok bool) {
	if !in.shooting {
		return 0, 0, false
	}
	return in.target, float64(in.clock-in.shotAt) / float64(impactDelay), true
}

// LetterScale is the pop-in scale of letter i, 0 while hidden.
func (in *Intro) LetterScale(i int) float64 {
	if i < 0 || i >= in.revealed {
		return 0
	}
	return in.scales[i]
}

// Flash is the impact flash opacity in [0, 1], fading linearly.
func (in *Intro) Flash() float64 {
	if !in.flashOn {
		return 0
	}
	since := in.clock - in.flashAt
	if since >= flashDuration {
		in.flashOn = false
		return 0
	}
	return 1 - float64(since)/float64(flashDuration)
}

// ShakeOffset is the current screen displacement in pixels.
func (in *Intro) ShakeOffset() (dx, dy float64) {
	if !in.shakeOn {
		return 0, 0
	}
	since := in.clock - in.shakeAt
	if since >= shakeDuration {
		in.shakeOn = false
		return 0, 0
	}
	amp := shakeAmplitude * (1 - float64(since)/float64(shakeDuration))
	t := in.clock.Seconds() * shakeFrequency
	dx = amp * clampUnit(2*in.noise.Noise1D(t))
	dy = amp * clampUnit(2*in.noise.Noise1D(t+100))
	return dx, dy
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
