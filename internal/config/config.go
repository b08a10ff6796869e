package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/crazy3lf/colorconv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/iburimskiy/particle-field/internal/field"
	"github.com/iburimskiy/particle-field/internal/intro"
	"github.com/iburimskiy/particle-field/internal/starfield"
)

const (
	WindowWidth  = 1280
	WindowHeight = 720
	WindowTitle  = "Particle Field"

	EnvPrefix = "PARTICLES"

	// Number of ticks per second the host runs at.
	TPS = 60
)

// Keys understood in config files, environment variables and flags.
const (
	KeyWidth        = "window.width"
	KeyHeight       = "window.height"
	KeyIntro        = "intro.enabled"
	KeyTitle        = "intro.title"
	KeyStars        = "stars.count"
	KeySound        = "sound.enabled"
	KeyVolume       = "sound.volume"
	KeyBurstOnClick = "input.burst_on_click"
	KeyLogLevel     = "log.level"
	KeyProfile      = "profile"

	KeyCount       = "particles.count"
	KeySizeMin     = "particles.size.min"
	KeySizeMax     = "particles.size.max"
	KeySpeedMin    = "particles.speed.min"
	KeySpeedMax    = "particles.speed.max"
	KeyOpacityMin  = "particles.opacity.min"
	KeyOpacityMax  = "particles.opacity.max"
	KeyConnection  = "particles.connection_distance"
	KeyMouse       = "particles.mouse_interaction"
	KeyMouseRadius = "particles.mouse_radius"
	KeyColor       = "particles.color"
	KeyDrift       = "particles.drift"
)

// Settings is everything the host needs at start-up.
type Settings struct {
	Width, Height int
	Intro         bool
	Title         string
	Stars         int
	Sound         bool
	Volume        float64
	BurstOnClick  bool
	LogLevel      string
	Profile       string
	Field         field.Config
}

// SetDefaults registers the built-in value of every key on v.
func SetDefaults(v *viper.Viper) {
	d := field.DefaultConfig()
	v.SetDefault(KeyWidth, WindowWidth)
	v.SetDefault(KeyHeight, WindowHeight)
	v.SetDefault(KeyIntro, true)
	v.SetDefault(KeyTitle, intro.DefaultTitle)
	v.SetDefault(KeyStars, starfield.DefaultCount)
	v.SetDefault(KeySound, true)
	v.SetDefault(KeyVolume, 0.0)
	v.SetDefault(KeyBurstOnClick, false)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyProfile, "")

	v.SetDefault(KeyCount, d.ParticleCount)
	v.SetDefault(KeySizeMin, d.ParticleSize.Min)
	v.SetDefault(KeySizeMax, d.ParticleSize.Max)
	v.SetDefault(KeySpeedMin, d.Speed.Min)
	v.SetDefault(KeySpeedMax, d.Speed.Max)
	v.SetDefault(KeyOpacityMin, d.Opacity.Min)
	v.SetDefault(KeyOpacityMax, d.Opacity.Max)
	v.SetDefault(KeyConnection, d.ConnectionDistance)
	v.SetDefault(KeyMouse, d.MouseInteraction)
	v.SetDefault(KeyMouseRadius, d.MouseRadius)
	v.SetDefault(KeyColor, FormatColor(d.Color))
	v.SetDefault(KeyDrift, d.Drift)
}

// BindEnv makes every key overridable through PARTICLES_* variables,
// e.g. PARTICLES_PARTICLES_COUNT or PARTICLES_LOG_LEVEL.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Load reads file (if any) into v and decodes the result.
func Load(v *viper.Viper, file string) (Settings, error) {
	SetDefaults(v)
	BindEnv(v)
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, errors.Wrapf(err, "read config %s", file)
		}
	}
	return decode(v)
}

func decode(v *viper.Viper) (Settings, error) {
	clr, err := ParseColor(v.GetString(KeyColor))
	if err != nil {
		return Settings{}, errors.Wrap(err, KeyColor)
	}
	s := Settings{
		Width:        v.GetInt(KeyWidth),
		Height:       v.GetInt(KeyHeight),
		Intro:        v.GetBool(KeyIntro),
		Title:        v.GetString(KeyTitle),
		Stars:        v.GetInt(KeyStars),
		Sound:        v.GetBool(KeySound),
		Volume:       v.GetFloat64(KeyVolume),
		BurstOnClick: v.GetBool(KeyBurstOnClick),
		LogLevel:     v.GetString(KeyLogLevel),
		Profile:      v.GetString(KeyProfile),
		Field: field.Config{
			ParticleCount:      v.GetInt(KeyCount),
			ParticleSize:       field.Range{Min: v.GetFloat64(KeySizeMin), Max: v.GetFloat64(KeySizeMax)},
			Speed:              field.Range{Min: v.GetFloat64(KeySpeedMin), Max: v.GetFloat64(KeySpeedMax)},
			Opacity:            field.Range{Min: v.GetFloat64(KeyOpacityMin), Max: v.GetFloat64(KeyOpacityMax)},
			ConnectionDistance: v.GetFloat64(KeyConnection),
			MouseInteraction:   v.GetBool(KeyMouse),
			MouseRadius:        v.GetFloat64(KeyMouseRadius),
			Color:              clr,
			Drift:              v.GetBool(KeyDrift),
		},
	}
	if s.Width <= 0 || s.Height <= 0 {
		return Settings{}, errors.Errorf("window size %dx%d must be positive", s.Width, s.Height)
	}
	return s, nil
}

// PatchFromFile reads a config file and returns only the particle settings
// it actually names, so applying it leaves everything else untouched.
func PatchFromFile(file string) (field.Patch, error) {
	v := viper.New()
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return field.Patch{}, errors.Wrapf(err, "read config %s", file)
	}
	var p field.Patch
	if v.IsSet(KeyCount) {
		p.ParticleCount = field.Ptr(v.GetInt(KeyCount))
	}
	p.ParticleSize = rangeIfSet(v, KeySizeMin, KeySizeMax, field.DefaultConfig().ParticleSize)
	p.Speed = rangeIfSet(v, KeySpeedMin, KeySpeedMax, field.DefaultConfig().Speed)
	p.Opacity = rangeIfSet(v, KeyOpacityMin, KeyOpacityMax, field.DefaultConfig().Opacity)
	if v.IsSet(KeyConnection) {
		p.ConnectionDistance = field.Ptr(v.GetFloat64(KeyConnection))
	}
	if v.IsSet(KeyMouse) {
		p.MouseInteraction = field.Ptr(v.GetBool(KeyMouse))
	}
	if v.IsSet(KeyMouseRadius) {
		p.MouseRadius = field.Ptr(v.GetFloat64(KeyMouseRadius))
	}
	if v.IsSet(KeyColor) {
		c, err := ParseColor(v.GetString(KeyColor))
		if err != nil {
			return field.Patch{}, errors.Wrap(err, KeyColor)
		}
		p.Color = &c
	}
	if v.IsSet(KeyDrift) {
		p.Drift = field.Ptr(v.GetBool(KeyDrift))
	}
	return p, nil
}

// rangeIfSet builds a range when either bound is present, filling the
// missing one from def.
func rangeIfSet(v *viper.Viper, minKey, maxKey string, def field.Range) *field.Range {
	if !v.IsSet(minKey) && !v.IsSet(maxKey) {
		return nil
	}
	r := def
	if v.IsSet(minKey) {
		r.Min = v.GetFloat64(minKey)
	}
	if v.IsSet(maxKey) {
		r.Max = v.GetFloat64(maxKey)
	}
	return &r
}

// ParseColor accepts "#rrggbb", "r,g,b" or "hsv(h,s,v)" with h in degrees
// and s, v in [0,1].
func ParseColor(s string) (field.Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case strings.HasPrefix(s, "#"):
		if len(s) != 7 {
			return field.Color{}, errors.Errorf("bad hex colour %q", s)
		}
		n, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return field.Color{}, errors.Wrapf(err, "bad hex colour %q", s)
		}
		return field.Color{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
	case strings.HasPrefix(s, "hsv(") && strings.HasSuffix(s, ")"):
		parts, err := floats(strings.TrimSuffix(strings.TrimPrefix(s, "hsv("), ")"), 3)
		if err != nil {
			return field.Color{}, errors.Wrapf(err, "bad hsv colour %q", s)
		}
		r, g, b, err := colorconv.HSVToRGB(parts[0], parts[1], parts[2])
		if err != nil {
			return field.Color{}, errors.Wrapf(err, "bad hsv colour %q", s)
		}
		return field.Color{R: r, G: g, B: b}, nil
	default:
		parts, err := floats(s, 3)
		if err != nil {
			return field.Color{}, errors.Wrapf(err, "bad rgb colour %q", s)
		}
		var c [3]uint8
		for i, p := range parts {
			if p < 0 || p > 255 {
				return field.Color{}, errors.Errorf("rgb component %v out of range in %q", p, s)
			}
			c[i] = uint8(p)
		}
		return field.Color{R: c[0], G: c[1], B: c[2]}, nil
	}
}

func FormatColor(c field.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func floats(s string, n int) ([]float64, error) {
	fields := strings.Split(s, ",")
	if len(fields) != n {
		return nil, errors.Errorf("want %d comma-separated numbers, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
