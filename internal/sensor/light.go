package sensor

import (
	"context"
	"fmt"
)

const (
	// LightAddress is the BH1750 address with ADDR pulled high.
	LightAddress = 0x5c

	oneTimeHighResMode = 0x20
)

// BlockReader is the part of an i2c connection the light sensor needs.
// gobot's i2c.Connection satisfies it.
type BlockReader interface {
	ReadBlockData(reg uint8, b []byte) error
}

// LightSensor reads ambient light from a BH1750 style sensor.
type LightSensor struct {
	bus BlockReader
}

func NewLightSensor(bus BlockReader) *LightSensor {
	return &LightSensor{bus: bus}
}

// ReadLux triggers a one-time high resolution measurement and converts it.
// The sensor answers every request, so only bus errors are reported.
func (s *LightSensor) ReadLux(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	buf := make([]byte, 2)
	if err := s.bus.ReadBlockData(oneTimeHighResMode, buf); err != nil {
		return 0, fmt.Errorf("failed to read light sensor: %w", err)
	}
	return Convert(buf[1], buf[0]), nil
}

// Convert turns the raw two byte measurement into lux.
func Convert(low, high byte) float64 {
	return (float64(low) + 256*float64(high)) / 1.2
}
