// Package alert holds the temperature alert state machine.
//
// The controller is edge-triggered: the LED is written once when the
// temperature crosses the threshold and never while it stays on one side.
// A reading exactly at the threshold counts as normal.
package alert

import (
	"github.com/rs/zerolog"

	"github.com/afroash/dht-alert/internal/led"
	"github.com/afroash/dht-alert/internal/models"
)

// Command is what the controller asks of the actuator for one reading.
type Command int

const (
	CommandNone Command = iota
	CommandOn
	CommandOff
)

func (c Command) String() string {
	switch c {
	case CommandNone:
		return "none"
	case CommandOn:
		return "on"
	case CommandOff:
		return "off"
	default:
		return "unknown"
	}
}

// State is the alert state. Active is true while the LED is meant to be on.
type State struct {
	Active bool
}

// Controller owns the alert state and is the only writer of the LED
// level outside the distress pattern.
type Controller struct {
	threshold models.Temperature
	actuator  led.Actuator
	state     State
	logger    zerolog.Logger
}

// NewController creates a controller in the inactive state. The actuator is
// expected to already be low.
func NewController(threshold models.Temperature, actuator led.Actuator, logger zerolog.Logger) *Controller {
	return &Controller{
		threshold: threshold,
		actuator:  actuator,
		logger:    logger.With().Str("component", "alert").Logger(),
	}
}

// Threshold returns the alert threshold.
func (c *Controller) Threshold() models.Temperature {
	return c.threshold
}

// Actuator returns the LED the controller drives.
func (c *Controller) Actuator() led.Actuator {
	return c.actuator
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.state
}

// Decide returns the command for temperature t without changing anything.
func (c *Controller) Decide(t models.Temperature) Command {
	above := t > c.threshold
	switch {
	case above && !c.state.Active:
		return CommandOn
	case !above && c.state.Active:
		return CommandOff
	default:
		return CommandNone
	}
}

// Apply feeds one temperature to the state machine and drives the LED on
// an edge. It never fails: if the LED write fails the error is logged and
// the state stays as it was, so the next reading retries the edge.
func (c *Controller) Apply(t models.Temperature) Command {
	cmd := c.Decide(t)
	switch cmd {
	case CommandOn:
		if err := c.actuator.SetHigh(); err != nil {
			c.logger.Error().Err(err).Str("temperature", t.String()).Msg("failed to raise alert")
			return CommandNone
		}
		c.state.Active = true
		c.logger.Warn().
			Str("temperature", t.String()).
			Str("threshold", c.threshold.String()).
			Msgf("alert raised: temperature %s°C > %s°C, LED on", t, c.threshold)
	case CommandOff:
		if err := c.actuator.SetLow(); err != nil {
			c.logger.Error().Err(err).Str("temperature", t.String()).Msg("failed to clear alert")
			return CommandNone
		}
		c.state.Active = false
		c.logger.Info().
			Str("temperature", t.String()).
			Str("threshold", c.threshold.String()).
			Msgf("alert cleared: temperature %s°C <= %s°C, LED off", t, c.threshold)
	}
	return cmd
}

// Restore drives the LED back on if the alert is active. Used after
// something else has taken the LED over temporarily.
func (c *Controller) Restore() {
	if !c.state.Active {
		return
	}
	if err := c.actuator.SetHigh(); err != nil {
		c.logger.Error().Err(err).Msg("failed to restore alert LED")
	}
}
