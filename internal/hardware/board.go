// Package hardware wires the Raspberry Pi peripherals through gobot.
package hardware

import (
	"fmt"

	"go.uber.org/zap"
	"gobot.io/x/gobot/v2"
	"gobot.io/x/gobot/v2/drivers/gpio"
	"gobot.io/x/gobot/v2/drivers/i2c"
	"gobot.io/x/gobot/v2/platforms/raspi"

	"furitingoasis/growlight/internal/display"
	"furitingoasis/growlight/internal/relay"
	"furitingoasis/growlight/internal/sensor"
)

var _ display.LEDMatrix = (*gpio.MAX7219Driver)(nil)

type Config struct {
	RelayPin       string
	LightAddress   int
	SegmentAddress int
	MatrixClockPin string
	MatrixDataPin  string
	MatrixCSPin    string
	MatrixModules  uint
}

// Board owns the adaptor and every driver attached to it.
type Board struct {
	adaptor  *raspi.Adaptor
	robot    *gobot.Robot
	relay    *gpio.RelayDriver
	sht2x    *i2c.SHT2xDriver
	lcd      *i2c.JHD1313M1Driver
	matrix   *gpio.MAX7219Driver
	light    i2c.Connection
	segment  i2c.Connection
	relayPin string
	logger   *zap.Logger
}

// Open connects the adaptor, starts the drivers and opens the raw i2c
// connections for the light sensor and the segment display.
func Open(cfg Config, logger *zap.Logger) (*Board, error) {
	logger = logger.Named("hardware")

	r := raspi.NewAdaptor()
	relayDriver := gpio.NewRelayDriver(r, cfg.RelayPin)
	sht2x := i2c.NewSHT2xDriver(r)
	lcd := i2c.NewJHD1313M1Driver(r)
	matrix := gpio.NewMAX7219Driver(r, cfg.MatrixClockPin, cfg.MatrixDataPin, cfg.MatrixCSPin, cfg.MatrixModules)

	robot := gobot.NewRobot("GrowLight",
		[]gobot.Connection{r},
		[]gobot.Device{relayDriver, sht2x, lcd, matrix},
	)
	robot.AutoRun = false
	if err := robot.Start(); err != nil {
		return nil, fmt.Errorf("failed to start hardware: %w", err)
	}

	b := &Board{
		adaptor:  r,
		robot:    robot,
		relay:    relayDriver,
		sht2x:    sht2x,
		lcd:      lcd,
		matrix:   matrix,
		relayPin: cfg.RelayPin,
		logger:   logger,
	}

	var err error
	b.light, err = r.GetI2cConnection(cfg.LightAddress, r.DefaultI2cBus())
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to open light sensor at 0x%02x: %w", cfg.LightAddress, err)
	}
	b.segment, err = r.GetI2cConnection(cfg.SegmentAddress, r.DefaultI2cBus())
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to open segment display at 0x%02x: %w", cfg.SegmentAddress, err)
	}

	logger.Info("hardware ready",
		zap.String("relay_pin", cfg.RelayPin),
		zap.Int("i2c_bus", r.DefaultI2cBus()),
	)
	return b, nil
}

func (b *Board) LightBus() sensor.BlockReader { return b.light }

func (b *Board) SegmentBus() display.RegisterWriter { return b.segment }

func (b *Board) ClimateDevice() sensor.ClimateDevice { return thermoHygrometer{dev: b.sht2x} }

func (b *Board) LCD() display.CharacterLCD { return b.lcd }

func (b *Board) Matrix() display.LEDMatrix { return b.matrix }

func (b *Board) RelayPin() relay.Pin {
	return relayPin{driver: b.relay, release: b.releaseRelay}
}

func (b *Board) releaseRelay() error {
	pin, err := b.adaptor.DigitalPin(b.relayPin)
	if err != nil {
		return err
	}
	return pin.Unexport()
}

// Close halts the drivers and finalizes the adaptor, releasing all pins and buses.
func (b *Board) Close() error {
	if err := b.robot.Stop(); err != nil {
		return fmt.Errorf("failed to stop hardware: %w", err)
	}
	return nil
}
