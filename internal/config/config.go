// Package config resolves the dashboard configuration from defaults, an optional YAML file and
// command-line flags, in increasing order of precedence.
package config

import (
	"flag"
	"io"
	"os"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/bcdxn/lapboard/internal/device"
	"github.com/bcdxn/lapboard/internal/domain"
	"github.com/bcdxn/lapboard/internal/laps"
	"github.com/bcdxn/lapboard/internal/leaderboard"
)

// MaxDrivers is the number of cars addressable with a single digit on the wire.
const MaxDrivers = 9

var (
	ErrNoDrivers      = errors.New("no drivers configured")
	ErrTooManyDrivers = errors.Errorf("at most %d drivers are supported", MaxDrivers)
)

// Config is the resolved dashboard configuration.
type Config struct {
	Device      string           `yaml:"device"`
	Baud        int              `yaml:"baud"`
	ReadTimeout time.Duration    `yaml:"read_timeout"`
	Drivers     []string         `yaml:"drivers"`
	Sort        domain.Criterion `yaml:"sort"`
	Variant     domain.Variant   `yaml:"variant"`
	NoReset     bool             `yaml:"no_reset"` // NoReset frees the reset digit so it addresses a car
	Title       string           `yaml:"title"`
	LogFile     string           `yaml:"log_file"`
	Debug       bool             `yaml:"debug"`
	Simulate    bool             `yaml:"simulate"`
	Replay      string           `yaml:"replay"`
	ListPorts   bool             `yaml:"-"`
}

// Default returns the configuration used when nothing else is given.
func Default() Config {
	return Config{
		Device:      "/dev/ttyUSB0",
		Baud:        9600,
		ReadTimeout: device.DefaultReadTimeout,
		Sort:        domain.CriterionTrack,
		Variant:     domain.VariantRanked,
		Title:       "Race Timer",
		LogFile:     "lapboard.log",
	}
}

// Load parses args (without the program name) and merges them over the configuration file, if
// one is named, and the defaults. Output from the flag set, such as usage, goes to stderr.
func Load(args []string) (Config, error) {
	return load(args, os.Stderr)
}

func load(args []string, output io.Writer) (Config, error) {
	var (
		flags      Config
		cars       string
		configPath string
	)
	fs := flag.NewFlagSet("lapboard", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&configPath, "config", "", "path to a YAML configuration file")
	fs.StringVar(&flags.Device, "d", "", "serial device (default /dev/ttyUSB0)")
	fs.StringVar(&flags.Device, "device", "", "serial device (default /dev/ttyUSB0)")
	fs.IntVar(&flags.Baud, "b", 0, "serial baud rate (default 9600)")
	fs.IntVar(&flags.Baud, "baudrate", 0, "serial baud rate (default 9600)")
	fs.StringVar(&cars, "c", "", "comma separated list of drivers, in track order")
	fs.StringVar(&cars, "cars", "", "comma separated list of drivers, in track order")
	fs.StringVar((*string)(&flags.Sort), "s", "", "ranking criterion: track, laps or bestlap (default track)")
	fs.StringVar((*string)(&flags.Sort), "sort", "", "ranking criterion: track, laps or bestlap (default track)")
	fs.StringVar((*string)(&flags.Variant), "variant", "", "layout: ranked or plain (default ranked)")
	fs.BoolVar(&flags.NoReset, "no-reset", false, "treat digit 7 as a car instead of the reset signal")
	fs.StringVar(&flags.Title, "title", "", "dashboard title (default \"Race Timer\")")
	fs.StringVar(&flags.LogFile, "log", "", "log file (default lapboard.log)")
	fs.BoolVar(&flags.Debug, "debug", false, "log every received byte")
	fs.BoolVar(&flags.Simulate, "simulate", false, "drive the dashboard from a simulated detector")
	fs.StringVar(&flags.Replay, "replay", "", "read detector bytes from a captured session file")
	fs.BoolVar(&flags.ListPorts, "list-ports", false, "list serial ports and exit")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cars != "" {
		flags.Drivers = strings.Split(cars, ",")
	}

	cfg := Default()
	if configPath != "" {
		file, err := ReadFile(configPath)
		if err != nil {
			return Config{}, err
		}
		if err := mergo.Merge(&cfg, file, mergo.WithOverride); err != nil {
			return Config{}, errors.Wrap(err, "could not merge configuration file")
		}
	}
	if err := mergo.Merge(&cfg, flags, mergo.WithOverride); err != nil {
		return Config{}, errors.Wrap(err, "could not merge flags")
	}
	// mergo skips zero values, so explicitly set flags are applied again to let "-debug=false"
	// win over "debug: true" in the file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "no-reset":
			cfg.NoReset = flags.NoReset
		case "debug":
			cfg.Debug = flags.Debug
		case "simulate":
			cfg.Simulate = flags.Simulate
		case "list-ports":
			cfg.ListPorts = flags.ListPorts
		}
	})

	if cfg.ListPorts {
		return cfg, nil
	}
	return cfg, cfg.Validate()
}

// ReadFile decodes a YAML configuration file.
func ReadFile(path string) (Config, error) {
	var cfg Config

	f, err := os.Open(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "could not open configuration file %s", path)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && err != io.EOF {
		return cfg, errors.Wrapf(err, "could not parse configuration file %s", path)
	}
	return cfg, nil
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	switch {
	case len(c.Drivers) == 0:
		return ErrNoDrivers
	case len(c.Drivers) > MaxDrivers:
		return errors.Wrapf(ErrTooManyDrivers, "found %d", len(c.Drivers))
	case c.Baud <= 0:
		return errors.Errorf("invalid baud rate %d", c.Baud)
	case c.ReadTimeout <= 0:
		return errors.Errorf("invalid read timeout %s", c.ReadTimeout)
	}
	if _, err := leaderboard.ParseCriterion(string(c.Sort)); err != nil {
		return err
	}
	if _, err := domain.ParseVariant(string(c.Variant)); err != nil {
		return err
	}
	return nil
}

// ResetDigit returns the digit reserved for the reset signal, or zero when none is.
func (c Config) ResetDigit() int {
	if c.NoReset {
		return 0
	}
	return laps.DefaultResetDigit
}
