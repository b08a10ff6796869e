// Package sfx synthesizes the short impact sounds that accompany each title
// letter and plays them through the system speaker.
package sfx

import (
	"math"
	"math/rand"
	"time"

	"github.com/faiface/beep"
)

const (
	SampleRate = beep.SampleRate(44100)

	impactDuration = 350 * time.Millisecond
	impactDecay    = 0.06 // seconds, envelope time constant
	thumpHz        = 70.0
	noiseGain      = 0.5
	thumpGain      = 0.7
)

// Impact returns a finite streamer: a burst of white noise over a low sine
// thump, both under an exponential decay envelope.
func Impact(sr beep.SampleRate, rng *rand.Rand) beep.Streamer {
	total := sr.N(impactDuration)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= total {
			return 0, false
		}
		for i := range samples {
			if pos >= total {
				break
			}
			t := float64(pos) / float64(sr)
			env := math.Exp(-t / impactDecay)
			noise := (rng.Float64()*2 - 1) * noiseGain
			thump := math.Sin(2*math.Pi*thumpHz*t) * thumpGain
			v := (noise + thump) * env
			samples[i][0], samples[i][1] = v, v
			pos++
			n++
		}
		return n, true
	})
}
