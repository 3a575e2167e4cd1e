// Package led drives the alert LED.
// The real implementation uses the Linux GPIO character device.
// LogLED stands in on hosts without GPIO.
package led

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/warthog618/go-gpiocdev"
)

const consumer = "dht-alert"

// Actuator is a binary digital output.
type Actuator interface {
	// SetHigh drives the output to its "on" level.
	SetHigh() error
	// SetLow drives the output to its "off" level.
	SetLow() error
	// Close releases the output.
	Close() error
}

var (
	_ Actuator = (*GPIOLED)(nil)
	_ Actuator = (*LogLED)(nil)
)

// GPIOLED is an LED on a single GPIO line.
type GPIOLED struct {
	line   *gpiocdev.Line
	chip   string
	offset int
}

// NewGPIOLED requests the line as an output, initially low.
func NewGPIOLED(chip string, offset int) (*GPIOLED, error) {
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsOutput(0),
		gpiocdev.WithConsumer(consumer),
	)
	if err != nil {
		return nil, fmt.Errorf("request %s line %d as output: %w", chip, offset, err)
	}
	return &GPIOLED{line: line, chip: chip, offset: offset}, nil
}

func (l *GPIOLED) SetHigh() error {
	return l.set(1)
}

func (l *GPIOLED) SetLow() error {
	return l.set(0)
}

func (l *GPIOLED) set(v int) error {
	if err := l.line.SetValue(v); err != nil {
		return fmt.Errorf("set %s line %d to %d: %w", l.chip, l.offset, v, err)
	}
	return nil
}

// Close drives the line low and releases it.
func (l *GPIOLED) Close() error {
	lowErr := l.set(0)
	if err := l.line.Close(); err != nil {
		return fmt.Errorf("release %s line %d: %w", l.chip, l.offset, err)
	}
	return lowErr
}

// LogLED logs level changes instead of driving hardware.
type LogLED struct {
	logger zerolog.Logger
	high   bool
}

// NewLogLED creates an LED that only reports what it would do.
func NewLogLED(logger zerolog.Logger) *LogLED {
	return &LogLED{logger: logger.With().Str("component", "led").Bool("dry_run", true).Logger()}
}

func (l *LogLED) SetHigh() error {
	l.high = true
	l.logger.Debug().Msg("LED on")
	return nil
}

func (l *LogLED) SetLow() error {
	l.high = false
	l.logger.Debug().Msg("LED off")
	return nil
}

// IsHigh reports the last level written.
func (l *LogLED) IsHigh() bool {
	return l.high
}

func (l *LogLED) Close() error {
	l.high = false
	return nil
}
