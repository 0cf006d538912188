package relay

import (
	"fmt"

	"go.uber.org/zap"

	"furitingoasis/growlight/internal/policy"
)

// Pin drives the relay line. On writes a high level, Off a low level.
// gobot's gpio.RelayDriver satisfies the first two methods.
type Pin interface {
	On() error
	Off() error
	// Release returns the line to a floating input.
	Release() error
}

// Controller owns the relay output. It remembers only the last state written.
type Controller struct {
	pin       Pin
	activeLow bool
	last      policy.RelayState
	logger    *zap.Logger
}

func NewController(pin Pin, activeLow bool, logger *zap.Logger) *Controller {
	return &Controller{
		pin:       pin,
		activeLow: activeLow,
		logger:    logger.Named("relay"),
	}
}

// Reset drives the relay to its inactive level.
func (c *Controller) Reset() error {
	if err := c.Apply(policy.Off); err != nil {
		return fmt.Errorf("failed to set relay to safe default: %w", err)
	}
	return nil
}

// Apply writes the logic level for state to the pin.
func (c *Controller) Apply(state policy.RelayState) error {
	high := bool(state) != c.activeLow
	var err error
	if high {
		err = c.pin.On()
	} else {
		err = c.pin.Off()
	}
	if err != nil {
		return fmt.Errorf("failed to switch relay %s: %w", state, err)
	}
	if state != c.last {
		c.logger.Info("relay switched", zap.Stringer("state", state))
	}
	c.last = state
	return nil
}

// State returns the last state written.
func (c *Controller) State() policy.RelayState {
	return c.last
}

func (c *Controller) Release() error {
	if err := c.pin.Release(); err != nil {
		return fmt.Errorf("failed to release relay pin: %w", err)
	}
	return nil
}
