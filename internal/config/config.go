// Package config reads the shim's settings from the environment.
package config

import (
	"strconv"

	"github.com/apex/log"
	"github.com/caarlos0/env/v8"
	"github.com/pkg/errors"
)

// Prefix is prepended to every variable name.
const Prefix = "XAUDIOSHIM_"

type Config struct {
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	DebugOutput bool   `env:"DEBUG_OUTPUT" envDefault:"false"`
	LogPrefix   string `env:"LOG_PREFIX" envDefault:"TotemArts Extensions"`
	// EngineTrace is the XAudio 2.9 debug trace mask, decimal or 0x hex.
	EngineTrace Mask `env:"ENGINE_TRACE" envDefault:"0x3"`
}

// Mask is a bit mask that accepts any strconv base prefix.
type Mask uint32

func (m *Mask) UnmarshalText(text []byte) error {
	v, err := strconv.ParseUint(string(text), 0, 32)
	if err != nil {
		return errors.Wrapf(err, "mask %q", text)
	}
	*m = Mask(v)
	return nil
}

// Default is the configuration with every variable unset.
func Default() Config {
	c, err := parse(map[string]string{})
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads the process environment.
func Load() (Config, error) {
	return parse(nil)
}

// LoadFrom reads vars instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	if vars == nil {
		vars = map[string]string{}
	}
	return parse(vars)
}

func parse(vars map[string]string) (Config, error) {
	var c Config
	if err := env.ParseWithOptions(&c, env.Options{Prefix: Prefix, Environment: vars}); err != nil {
		return Config{}, errors.Wrap(err, "parse environment")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return Config{}, errors.Wrapf(err, "%sLOG_LEVEL", Prefix)
	}
	return c, nil
}

// Level is the parsed LogLevel.
func (c Config) Level() log.Level {
	l, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return l
}
