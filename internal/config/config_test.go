package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/bcdxn/lapboard/internal/domain"
	"github.com/bcdxn/lapboard/internal/leaderboard"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := load([]string{"-c", "Alice,Bob"}, io.Discard)
		if err != nil {
			t.Fatalf("expected no error but found %v", err)
		}
		if cfg.Device != "/dev/ttyUSB0" {
			t.Errorf("expected device '%s' but found '%s'", "/dev/ttyUSB0", cfg.Device)
		}
		if cfg.Baud != 9600 {
			t.Errorf("expected baud %d but found %d", 9600, cfg.Baud)
		}
		if cfg.ReadTimeout != 100*time.Millisecond {
			t.Errorf("expected read timeout %v but found %v", 100*time.Millisecond, cfg.ReadTimeout)
		}
		if cfg.Sort != domain.CriterionTrack {
			t.Errorf("expected sort '%s' but found '%s'", domain.CriterionTrack, cfg.Sort)
		}
		if cfg.Variant != domain.VariantRanked {
			t.Errorf("expected variant '%s' but found '%s'", domain.VariantRanked, cfg.Variant)
		}
		if !reflect.DeepEqual(cfg.Drivers, []string{"Alice", "Bob"}) {
			t.Errorf("expected drivers %v but found %v", []string{"Alice", "Bob"}, cfg.Drivers)
		}
		if cfg.ResetDigit() != 7 {
			t.Errorf("expected reset digit %d but found %d", 7, cfg.ResetDigit())
		}
	})
	t.Run("LongFlags", func(t *testing.T) {
		args := []string{"-device", "/dev/ttyACM0", "-baudrate", "115200", "-cars", "A,B,C", "-sort", "bestlap", "-no-reset"}
		cfg, err := load(args, io.Discard)
		if err != nil {
			t.Fatalf("expected no error but found %v", err)
		}
		if cfg.Device != "/dev/ttyACM0" || cfg.Baud != 115200 || cfg.Sort != domain.CriterionBestLap {
			t.Errorf("expected flags to apply but found %+v", cfg)
		}
		if len(cfg.Drivers) != 3 {
			t.Errorf("expected %d drivers but found %d", 3, len(cfg.Drivers))
		}
		if cfg.ResetDigit() != 0 {
			t.Errorf("expected reset digit to be disabled but found %d", cfg.ResetDigit())
		}
	})
	t.Run("FileThenFlags", func(t *testing.T) {
		path := writeFile(t, `
device: /dev/ttyS1
baud: 19200
read_timeout: 50ms
drivers: [Alice, Bob, Carol]
sort: laps
variant: plain
title: Egebakken Race Timer
`)
		cfg, err := load([]string{"-config", path, "-b", "38400"}, io.Discard)
		if err != nil {
			t.Fatalf("expected no error but found %v", err)
		}
		if cfg.Device != "/dev/ttyS1" {
			t.Errorf("expected device '%s' but found '%s'", "/dev/ttyS1", cfg.Device)
		}
		if cfg.Baud != 38400 {
			t.Errorf("expected flag baud %d to win but found %d", 38400, cfg.Baud)
		}
		if cfg.ReadTimeout != 50*time.Millisecond {
			t.Errorf("expected read timeout %v but found %v", 50*time.Millisecond, cfg.ReadTimeout)
		}
		if cfg.Sort != domain.CriterionLaps || cfg.Variant != domain.VariantPlain {
			t.Errorf("expected sort and variant from file but found '%s' and '%s'", cfg.Sort, cfg.Variant)
		}
		if cfg.Title != "Egebakken Race Timer" {
			t.Errorf("expected title from file but found '%s'", cfg.Title)
		}
		if cfg.LogFile != "lapboard.log" {
			t.Errorf("expected default log file but found '%s'", cfg.LogFile)
		}

		cfg, err = load([]string{"-config", path, "-c", "Dave"}, io.Discard)
		if err != nil {
			t.Fatalf("expected no error but found %v", err)
		}
		if !reflect.DeepEqual(cfg.Drivers, []string{"Dave"}) {
			t.Errorf("expected flag drivers to replace file drivers but found %v", cfg.Drivers)
		}
	})
	t.Run("FileThenExplicitFalseFlags", func(t *testing.T) {
		path := writeFile(t, `
drivers: [Alice, Bob]
no_reset: true
debug: true
simulate: true
`)
		cfg, err := load([]string{"-config", path}, io.Discard)
		if err != nil {
			t.Fatalf("expected no error but found %v", err)
		}
		if !cfg.NoReset || !cfg.Debug || !cfg.Simulate {
			t.Errorf("expected booleans from file but found %+v", cfg)
		}

		cfg, err = load([]string{"-config", path, "-no-reset=false", "-debug=false", "-simulate=false"}, io.Discard)
		if err != nil {
			t.Fatalf("expected no error but found %v", err)
		}
		if cfg.NoReset {
			t.Errorf("expected -no-reset=false to win over the file")
		}
		if cfg.ResetDigit() != 7 {
			t.Errorf("expected reset digit %d but found %d", 7, cfg.ResetDigit())
		}
		if cfg.Debug {
			t.Errorf("expected -debug=false to win over the file")
		}
		if cfg.Simulate {
			t.Errorf("expected -simulate=false to win over the file")
		}
	})
	t.Run("MissingFile", func(t *testing.T) {
		if _, err := load([]string{"-config", filepath.Join(t.TempDir(), "nope.yml"), "-c", "A"}, io.Discard); err == nil {
			t.Errorf("expected an error for a missing configuration file")
		}
	})
	t.Run("ListPortsNeedsNoDrivers", func(t *testing.T) {
		cfg, err := load([]string{"-list-ports"}, io.Discard)
		if err != nil {
			t.Fatalf("expected no error but found %v", err)
		}
		if !cfg.ListPorts {
			t.Errorf("expected list-ports to be set")
		}
	})
	t.Run("UnknownFlag", func(t *testing.T) {
		if _, err := load([]string{"-bogus"}, io.Discard); err == nil {
			t.Errorf("expected an error for an unknown flag")
		}
	})
}

func TestValidate(t *testing.T) {
	t.Run("NoDrivers", func(t *testing.T) {
		if _, err := load(nil, io.Discard); !errors.Is(err, ErrNoDrivers) {
			t.Errorf("expected ErrNoDrivers but found %v", err)
		}
	})
	t.Run("TooManyDrivers", func(t *testing.T) {
		if _, err := load([]string{"-c", "1,2,3,4,5,6,7,8,9,10"}, io.Discard); !errors.Is(err, ErrTooManyDrivers) {
			t.Errorf("expected ErrTooManyDrivers but found %v", err)
		}
	})
	t.Run("UnknownCriterion", func(t *testing.T) {
		if _, err := load([]string{"-c", "A", "-s", "position"}, io.Discard); !errors.Is(err, leaderboard.ErrUnknownCriterion) {
			t.Errorf("expected ErrUnknownCriterion but found %v", err)
		}
	})
	t.Run("UnknownVariant", func(t *testing.T) {
		if _, err := load([]string{"-c", "A", "-variant", "fancy"}, io.Discard); err == nil {
			t.Errorf("expected an error for an unknown variant")
		}
	})
	t.Run("EmptyNamesKept", func(t *testing.T) {
		cfg, err := load([]string{"-c", "Alice,,Carol"}, io.Discard)
		if err != nil {
			t.Fatalf("expected no error but found %v", err)
		}
		if len(cfg.Drivers) != 3 || cfg.Drivers[1] != "" {
			t.Errorf("expected empty driver name to be kept but found %q", cfg.Drivers)
		}
	})
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lapboard.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
