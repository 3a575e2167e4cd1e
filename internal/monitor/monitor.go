package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/afroash/dht-alert/internal/alert"
	"github.com/afroash/dht-alert/internal/led"
	"github.com/afroash/dht-alert/internal/models"
	"github.com/afroash/dht-alert/internal/sensor"
)

// Config holds the polling cadence and the distress pattern shape.
type Config struct {
	SensorID      string
	ReadInterval  time.Duration
	SettleDelay   time.Duration
	BlinkInterval time.Duration
	BlinkCount    int
	// RestoreAfterBlink re-drives the alert LED once the distress pattern ends.
	RestoreAfterBlink bool
}

// DefaultConfig returns the stock cadence: read every 2s after a 3s
// settle, three 100ms blinks on failure.
func DefaultConfig() Config {
	return Config{
		SensorID:          "dht11",
		ReadInterval:      2 * time.Second,
		SettleDelay:       3 * time.Second,
		BlinkInterval:     100 * time.Millisecond,
		BlinkCount:        3,
		RestoreAfterBlink: true,
	}
}

// Monitor is the read-decode-act loop. It runs on a single goroutine and
// owns the sensor, the controller and the LED while running.
type Monitor struct {
	sensor     sensor.DHTSensor
	controller *alert.Controller
	actuator   led.Actuator
	config     Config
	logger     zerolog.Logger
	wait       func(ctx context.Context, d time.Duration) error
}

// New creates a monitor. The distress pattern drives the controller's LED.
func New(s sensor.DHTSensor, controller *alert.Controller, config Config, logger zerolog.Logger) *Monitor {
	return &Monitor{
		sensor:     s,
		controller: controller,
		actuator:   controller.Actuator(),
		config:     config,
		logger:     logger.With().Str("component", "monitor").Str("sensor_id", config.SensorID).Logger(),
		wait:       wait,
	}
}

// Run drives the LED low, waits for the sensor to settle and then polls
// until ctx is cancelled. Sensor failures never stop the loop.
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.actuator.SetLow(); err != nil {
		m.logger.Error().Err(err).Msg("failed to drive LED low at startup")
	}
	m.logger.Info().
		Str("threshold", m.controller.Threshold().String()).
		Dur("read_interval", m.config.ReadInterval).
		Dur("settle_delay", m.config.SettleDelay).
		Msg("starting monitor")

	if err := m.wait(ctx, m.config.SettleDelay); err != nil {
		return err
	}

	for {
		if err := m.Poll(ctx); err != nil {
			return err
		}
		if err := m.wait(ctx, m.config.ReadInterval); err != nil {
			return err
		}
	}
}

// Poll runs one cycle: read, then either feed the controller or blink the
// distress pattern. It only returns an error when ctx is cancelled while
// blinking.
func (m *Monitor) Poll(ctx context.Context) error {
	reading, err := m.ReadOnce()
	if err != nil {
		m.logger.Error().Err(err).Msg("failed to read from sensor")
		if err := m.distress(ctx); err != nil {
			return err
		}
		if m.config.RestoreAfterBlink {
			m.controller.Restore()
		}
		return nil
	}

	m.logger.Info().
		Float64("temperature", reading.Temperature.Celsius()).
		Float64("humidity", reading.Humidity.Percent()).
		Str("threshold", m.controller.Threshold().String()).
		Msgf("%s, Threshold: %s°C", reading, m.controller.Threshold())
	m.controller.Apply(reading.Temperature)
	return nil
}

// ReadOnce performs a single reading. A reading that fails IsValid is
// reported as sensor.ErrInvalidReading.
func (m *Monitor) ReadOnce() (*models.Reading, error) {
	temperature, humidity, err := m.sensor.Read()
	if err != nil {
		return nil, err
	}
	reading := models.NewReading(m.config.SensorID, temperature, humidity)
	if !reading.IsValid() {
		return nil, fmt.Errorf("%w: %s", sensor.ErrInvalidReading, reading)
	}
	return reading, nil
}

// distress blinks the LED BlinkCount times. It bypasses the controller and
// always leaves the LED low.
func (m *Monitor) distress(ctx context.Context) error {
	for i := 0; i < m.config.BlinkCount; i++ {
		if err := m.actuator.SetHigh(); err != nil {
			m.logger.Warn().Err(err).Msg("distress blink failed")
		}
		if err := m.wait(ctx, m.config.BlinkInterval); err != nil {
			_ = m.actuator.SetLow()
			return err
		}
		if err := m.actuator.SetLow(); err != nil {
			m.logger.Warn().Err(err).Msg("distress blink failed")
		}
		if err := m.wait(ctx, m.config.BlinkInterval); err != nil {
			return err
		}
	}
	return nil
}

// wait sleeps for d or until ctx is done
func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
