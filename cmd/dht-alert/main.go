package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/afroash/dht-alert/internal/alert"
	"github.com/afroash/dht-alert/internal/config"
	"github.com/afroash/dht-alert/internal/led"
	"github.com/afroash/dht-alert/internal/logging"
	"github.com/afroash/dht-alert/internal/monitor"
	"github.com/afroash/dht-alert/internal/sensor"
)

// version can be overridden via ldflags.
var version = "v0.3.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:     "dht-alert",
		Short:   "Watch a DHT11 sensor and light an LED above a temperature threshold.",
		Version: version,
		Long: `Polls a DHT11 temperature/humidity sensor and logs every reading.

The alert LED turns on when the temperature rises above the threshold and off
when it falls back to or below it. A failed sensor read blinks the LED three
times quickly. Runs until interrupted.`,
		Args:          cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Logging, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return run(ctx, cfg, logger)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML configuration file (defaults are used when empty)")

	return cmd
}

// run wires the components together and blocks until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	logger.Info().
		Str("version", version).
		Int("sensor_pin", cfg.Sensor.GPIOPin).
		Int("led_pin", cfg.LED.GPIOPin).
		Str("threshold", cfg.Threshold().String()).
		Msg("Starting DHT alert monitor")
	logger.Debug().Msg(cfg.String())

	dhtSensor, err := sensor.NewDHT11Reader(cfg.Sensor.GPIOPin, cfg.Sensor.MaxRetries)
	if err != nil {
		return err
	}
	defer closeWithLog(logger, "sensor", dhtSensor)

	actuator, err := newActuator(cfg, logger)
	if err != nil {
		return err
	}
	defer closeWithLog(logger, "LED", actuator)

	controller := alert.NewController(cfg.Threshold(), actuator, logger)
	m := monitor.New(dhtSensor, controller, monitorConfig(cfg), logger)

	err = m.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info().Msg("DHT alert monitor stopped")
		return nil
	}
	return err
}

// monitorConfig overlays the loaded settings on monitor.DefaultConfig.
func monitorConfig(cfg *config.Config) monitor.Config {
	mc := monitor.DefaultConfig()
	mc.SensorID = cfg.Sensor.ID
	mc.ReadInterval = cfg.Sensor.ReadInterval
	mc.SettleDelay = cfg.Sensor.SettleDelay
	mc.BlinkInterval = cfg.LED.BlinkInterval
	mc.BlinkCount = cfg.LED.BlinkCount
	mc.RestoreAfterBlink = cfg.RestoreAfterBlink()
	return mc
}

func newActuator(cfg *config.Config, logger zerolog.Logger) (led.Actuator, error) {
	if cfg.LED.DryRun {
		logger.Warn().Msg("LED dry run: GPIO output disabled")
		return led.NewLogLED(logger), nil
	}
	l, err := led.NewGPIOLED(cfg.LED.Chip, cfg.LED.GPIOPin)
	if err != nil {
		return nil, fmt.Errorf("configure alert LED: %w", err)
	}
	return l, nil
}

func closeWithLog(logger zerolog.Logger, name string, c io.Closer) {
	if err := c.Close(); err != nil {
		logger.Warn().Err(err).Str("resource", name).Msg("close failed")
	}
}
