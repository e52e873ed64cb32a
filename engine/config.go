package engine

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	// FPS is the number of Tick calls per second Run performs.
	FPS int
	// BaseTicks is the number of frames between automatic drops at a speed
	// multiplier of 1.
	BaseTicks int
	// Speed is the starting speed multiplier in hundredths.
	Speed int
	// SpeedStep is subtracted from Speed every LinesPerLevel cleared lines,
	// never going below MinSpeed.
	SpeedStep     int
	MinSpeed      int
	LinesPerLevel int
	// HardDropCap bounds the number of rows a hard drop may fall.
	HardDropCap int
	// Preview is the length of the upcoming figure queue.
	Preview int
	// Seed makes figure and shader choices reproducible. Zero picks a random seed.
	Seed   uint64
	Player string
}

func DefaultConfig() Config {
	return Config{
		FPS:           60,
		BaseTicks:     30,
		Speed:         30,
		SpeedStep:     20,
		MinSpeed:      0,
		LinesPerLevel: 10,
		HardDropCap:   50,
		Preview:       3,
	}
}

func (c Config) Validate() error {
	var errs []error
	positive := func(name string, v int) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, v))
		}
	}
	positive("fps", c.FPS)
	positive("base ticks", c.BaseTicks)
	positive("lines per level", c.LinesPerLevel)
	positive("hard drop cap", c.HardDropCap)
	positive("preview", c.Preview)
	if c.MinSpeed < 0 {
		errs = append(errs, fmt.Errorf("min speed must not be negative, got %d", c.MinSpeed))
	}
	if c.SpeedStep < 0 {
		errs = append(errs, fmt.Errorf("speed step must not be negative, got %d", c.SpeedStep))
	}
	if c.Speed < c.MinSpeed || c.Speed > 200 {
		errs = append(errs, fmt.Errorf("speed must be within [%d, 200], got %d", c.MinSpeed, c.Speed))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}
