package game

import (
	"github.com/ncruces/zenity"
	"github.com/pkg/errors"

	"github.com/iburimskiy/particle-field/internal/config"
	"github.com/iburimskiy/particle-field/internal/field"
)

// selectFile is swapped out in tests.
var selectFile = func() (string, error) {
	return zenity.SelectFile(
		zenity.Title("Load particle config"),
		zenity.FileFilters{{
			Name:     "Config",
			Patterns: []string{"*.yaml", "*.yml", "*.json", "*.toml"},
		}},
	)
}

func (g *Game) openConfigDialog() error {
	filename, err := selectFile()
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return errors.Wrap(err, "open config dialog")
	}
	return g.loadConfig(filename)
}

// loadConfig applies the particle keys named in filename to the field.
func (g *Game) loadConfig(filename string) error {
	p, err := config.PatchFromFile(filename)
	if err != nil {
		return err
	}
	if p.Empty() {
		g.log.Warnf("%s has no particle settings", filename)
		return nil
	}
	if onlyColor(p) {
		// a colour change alone keeps the particles where they are
		g.field.SetColor(*p.Color)
	} else {
		g.field.SetConfig(p)
		g.tier.SetHighCount(g.field.Config().ParticleCount)
	}
	g.lastErr = nil
	g.log.Infof("applied particle settings from %s", filename)
	return nil
}

func onlyColor(p field.Patch) bool {
	if p.Color == nil {
		return false
	}
	p.Color = nil
	return p.Empty()
}
