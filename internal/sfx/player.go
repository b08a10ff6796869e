package sfx

import (
	"math/rand"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"

	plog "github.com/iburimskiy/particle-field/internal/log"
)

const (
	tapRingSize = 4096
	levelWindow = 1024
)

// Player mixes impact sounds into one long-running speaker stream. A player
// whose speaker failed to open stays silent.
type Player struct {
	mixer   *beep.Mixer
	tap     *Tap
	rng     *rand.Rand
	enabled bool
}

// NewPlayer opens the speaker when enabled is true. volume is in base-2
// steps relative to unity gain (0 = unchanged, -1 = half).
func NewPlayer(enabled bool, volume float64, logger *plog.Logger) *Player {
	p := &Player{
		mixer: &beep.Mixer{},
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	p.tap = NewTap(p.mixer, tapRingSize)
	if !enabled {
		return p
	}
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/20)); err != nil {
		logger.Warnf("sound disabled: %v", err)
		return p
	}
	speaker.Play(&effects.Volume{Streamer: p.tap, Base: 2, Volume: volume})
	p.enabled = true
	logger.Debugf("speaker ready at %d Hz", SampleRate)
	return p
}

func (p *Player) Enabled() bool { return p.enabled }

// Impact queues one impact sound.
func (p *Player) Impact() {
	if !p.enabled {
		return
	}
	speaker.Lock()
	p.mixer.Add(Impact(SampleRate, p.rng))
	speaker.Unlock()
}

// Level is the loudness of the most recently played audio in [0, 1].
func (p *Player) Level() float64 {
	if !p.enabled {
		return 0
	}
	l := p.tap.RMS(levelWindow)
	if l > 1 {
		return 1
	}
	return l
}

// Stop drops everything queued on the speaker.
func (p *Player) Stop() {
	if !p.enabled {
		return
	}
	speaker.Lock()
	speaker.Clear()
	speaker.Unlock()
	p.enabled = false
}
