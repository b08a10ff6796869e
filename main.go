package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"
	"github.com/ncruces/zenity"
	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iburimskiy/particle-field/internal/config"
	"github.com/iburimskiy/particle-field/internal/field"
	"github.com/iburimskiy/particle-field/internal/game"
	"github.com/iburimskiy/particle-field/internal/intro"
	plog "github.com/iburimskiy/particle-field/internal/log"
	"github.com/iburimskiy/particle-field/internal/sfx"
	"github.com/iburimskiy/particle-field/internal/starfield"
)

func main() {
	if err := newRootCmd(viper.New()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "particle-field:", err)
		_ = zenity.Error(err.Error(), zenity.Title(config.WindowTitle), zenity.ErrorIcon)
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "particle-field",
		Short:         "Animated particle field with connection lines and pointer repulsion",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := settingsFromFlags(cmd, v)
			if err != nil {
				return err
			}
			return run(s)
		},
	}

	d := field.DefaultConfig()
	f := cmd.Flags()
	f.String("config", "", "config file (yaml, json or toml)")
	f.Int("count", d.ParticleCount, "ambient particle count on wide viewports")
	f.String("color", config.FormatColor(d.Color), `particle colour: "#rrggbb", "r,g,b" or "hsv(h,s,v)"`)
	f.Bool("no-mouse", false, "disable pointer repulsion")
	f.Bool("no-drift", false, "disable the slow random walk")
	f.Bool("intro", true, "play the title intro")
	f.String("title", intro.DefaultTitle, "intro title text")
	f.Int("stars", starfield.DefaultCount, "background star count")
	f.Bool("sound", true, "play impact sounds")
	f.Bool("burst-on-click", false, "spawn a burst where the pointer clicks")
	f.String("log-level", "info", "debug, info, warn, error or none")
	f.String("profile", "", `write a "cpu" or "mem" profile to the working directory`)

	for key, name := range map[string]string{
		config.KeyCount:        "count",
		config.KeyColor:        "color",
		config.KeyIntro:        "intro",
		config.KeyTitle:        "title",
		config.KeyStars:        "stars",
		config.KeySound:        "sound",
		config.KeyBurstOnClick: "burst-on-click",
		config.KeyLogLevel:     "log-level",
		config.KeyProfile:      "profile",
	} {
		if err := v.BindPFlag(key, f.Lookup(name)); err != nil {
			panic(err)
		}
	}
	return cmd
}

// settingsFromFlags merges .env, the config file, PARTICLES_* variables and
// the parsed flags, in increasing priority.
func settingsFromFlags(cmd *cobra.Command, v *viper.Viper) (config.Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return config.Settings{}, errors.Wrap(err, "load .env")
	}
	f := cmd.Flags()
	// negated flags only override when given
	if f.Changed("no-mouse") {
		off, _ := f.GetBool("no-mouse")
		v.Set(config.KeyMouse, !off)
	}
	if f.Changed("no-drift") {
		off, _ := f.GetBool("no-drift")
		v.Set(config.KeyDrift, !off)
	}
	file, _ := f.GetString("config")
	return config.Load(v, file)
}

func run(s config.Settings) error {
	logger := plog.New(os.Stderr, plog.LevelFromString(s.LogLevel))
	plog.SetDefault(logger)

	switch s.Profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		return errors.Errorf("unknown profile %q", s.Profile)
	}

	var sound *sfx.Player
	if s.Sound {
		// a player whose speaker failed stays silent; leave it out entirely
		if p := sfx.NewPlayer(true, s.Volume, logger); p.Enabled() {
			sound = p
			defer sound.Stop()
		}
	}

	g := game.New(s, game.Options{Logger: logger, Sound: sound, GOOS: runtime.GOOS})

	ebiten.SetWindowSize(s.Width, s.Height)
	ebiten.SetWindowTitle(config.WindowTitle + " - Space: Play/Pause, O: Load config, Esc/Q: Quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(config.TPS)

	logger.Infof("starting %dx%d with %d particles", s.Width, s.Height, s.Field.ParticleCount)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return errors.Wrap(err, "run game")
	}
	return nil
}
