// Package responsive scales the particle field down on small or mobile
// screens.
package responsive

import (
	"github.com/iburimskiy/particle-field/internal/field"
	plog "github.com/iburimskiy/particle-field/internal/log"
)

type Tier int

const (
	TierHigh Tier = iota
	TierLow
)

func (t Tier) String() string {
	if t == TierLow {
		return "low"
	}
	return "high"
}

const (
	// LowTierParticles is the ambient count used on low-tier devices.
	LowTierParticles = 40
)

// Detect classifies a device from its viewport width and GOOS.
func Detect(width float64, goos string) Tier {
	switch goos {
	case "android", "ios":
		return TierLow
	}
	if width < field.NarrowWidth {
		return TierLow
	}
	return TierHigh
}

// Reconfigurer is the part of *field.Field the controller needs.
type Reconfigurer interface {
	SetConfig(field.Patch)
}

// Controller pushes a particle budget to the field whenever the tier changes.
type Controller struct {
	target    Reconfigurer
	goos      string
	highCount int
	tier      Tier
	applied   bool
	log       *plog.Logger
}

func NewController(target Reconfigurer, goos string, highCount int, logger *plog.Logger) *Controller {
	return &Controller{target: target, goos: goos, highCount: highCount, log: logger}
}

func (c *Controller) Tier() Tier { return c.tier }

// SetHighCount changes the budget used on high-tier devices, e.g. after a
// new config was loaded. On a low tier the field is capped again right away.
func (c *Controller) SetHighCount(n int) {
	c.highCount = n
	if c.applied && c.tier == TierLow && n > LowTierParticles {
		c.log.Infof("device tier %s: capping %d particles to %d", c.tier, n, LowTierParticles)
		c.target.SetConfig(field.Patch{ParticleCount: field.Ptr(LowTierParticles)})
	}
}

// Apply re-detects the tier for width and reconfigures the field if it
// moved. It reports whether a new configuration was pushed.
func (c *Controller) Apply(width float64) bool {
	tier := Detect(width, c.goos)
	if c.applied && tier == c.tier {
		return false
	}
	c.tier = tier
	c.applied = true
	count := c.highCount
	if tier == TierLow {
		count = min(c.highCount, LowTierParticles)
	}
	c.log.Infof("device tier %s: %d particles", tier, count)
	c.target.SetConfig(field.Patch{ParticleCount: field.Ptr(count)})
	return true
}
