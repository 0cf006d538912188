package sensor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

var (
	// ErrSensorUnavailable is returned when no valid sample arrived within the retry budget.
	ErrSensorUnavailable = errors.New("sensor unavailable")

	errOutOfRange = errors.New("value out of range")
)

// Plausible ranges for the temperature/humidity sensors in use.
const (
	minTemperature = -40.0
	maxTemperature = 125.0
	minHumidity    = 0.0
	maxHumidity    = 100.0
)

// Sample is the result of a single temperature/humidity transaction.
type Sample struct {
	TemperatureC float64
	HumidityPct  float64
	Err          error
}

// Validate reports why a sample cannot be used, or nil.
func (s Sample) Validate() error {
	if s.Err != nil {
		return s.Err
	}
	if s.TemperatureC < minTemperature || s.TemperatureC > maxTemperature {
		return fmt.Errorf("temperature %.1f: %w", s.TemperatureC, errOutOfRange)
	}
	if s.HumidityPct < minHumidity || s.HumidityPct > maxHumidity {
		return fmt.Errorf("humidity %.1f: %w", s.HumidityPct, errOutOfRange)
	}
	return nil
}

func (s Sample) Valid() bool {
	return s.Validate() == nil
}

// ClimateDevice performs one hardware transaction per call.
type ClimateDevice interface {
	Sample() Sample
}

// Climate is a validated, calibrated temperature/humidity pair.
type Climate struct {
	TemperatureC float64
	HumidityPct  float64
}

// RetryConfig bounds the read-until-valid loop.
// MaxAttempts 0 retries until the context ends; RetryDelay 0 retries back to back.
type RetryConfig struct {
	MaxAttempts   uint
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
}

// Calibration is added to every valid sample.
type Calibration struct {
	TemperatureOffset float64
	HumidityOffset    float64
}

type ClimateReader struct {
	device ClimateDevice
	retry  RetryConfig
	cal    Calibration
	logger *zap.Logger
}

func NewClimateReader(device ClimateDevice, retry RetryConfig, cal Calibration, logger *zap.Logger) *ClimateReader {
	return &ClimateReader{
		device: device,
		retry:  retry,
		cal:    cal,
		logger: logger.Named("climate"),
	}
}

// Read samples the device until it reports valid data. It blocks the caller
// for the whole retry sequence.
func (r *ClimateReader) Read(ctx context.Context) (Climate, error) {
	attempts := 0
	operation := func() (Climate, error) {
		attempts++
		s := r.device.Sample()
		if err := s.Validate(); err != nil {
			return Climate{}, err
		}
		return Climate{
			TemperatureC: s.TemperatureC + r.cal.TemperatureOffset,
			HumidityPct:  s.HumidityPct + r.cal.HumidityOffset,
		}, nil
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(r.backOff()),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			r.logger.Warn("invalid climate sample, retrying",
				zap.Int("attempt", attempts),
				zap.Duration("next", next),
				zap.Error(err),
			)
		}),
	}
	if r.retry.MaxAttempts > 0 {
		opts = append(opts, backoff.WithMaxTries(r.retry.MaxAttempts))
	}

	c, err := backoff.Retry(ctx, operation, opts...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Climate{}, ctxErr
		}
		return Climate{}, fmt.Errorf("%w after %d attempts: %v", ErrSensorUnavailable, attempts, err)
	}
	return c, nil
}

func (r *ClimateReader) backOff() backoff.BackOff {
	if r.retry.RetryDelay <= 0 {
		return &backoff.ZeroBackOff{}
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.retry.RetryDelay
	b.MaxInterval = r.retry.MaxRetryDelay
	if b.MaxInterval < b.InitialInterval {
		b.MaxInterval = b.InitialInterval
	}
	return b
}
