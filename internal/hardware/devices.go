package hardware

import (
	"gobot.io/x/gobot/v2/drivers/gpio"

	"furitingoasis/growlight/internal/sensor"
)

// sht2x is the subset of i2c.SHT2xDriver used for sampling.
type sht2x interface {
	Temperature() (float32, error)
	Humidity() (float32, error)
}

type thermoHygrometer struct {
	dev sht2x
}

// Sample performs one temperature and one humidity transaction.
func (t thermoHygrometer) Sample() sensor.Sample {
	temp, err := t.dev.Temperature()
	if err != nil {
		return sensor.Sample{Err: err}
	}
	humidity, err := t.dev.Humidity()
	if err != nil {
		return sensor.Sample{Err: err}
	}
	return sensor.Sample{TemperatureC: float64(temp), HumidityPct: float64(humidity)}
}

type relayPin struct {
	driver  *gpio.RelayDriver
	release func() error
}

func (p relayPin) On() error      { return p.driver.On() }
func (p relayPin) Off() error     { return p.driver.Off() }
func (p relayPin) Release() error { return p.release() }
