// Package control runs the sense, decide, act, display and persist cycle.
package control

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"furitingoasis/growlight/internal/display"
	"furitingoasis/growlight/internal/policy"
	"furitingoasis/growlight/internal/sensor"
	"furitingoasis/growlight/internal/store"
)

type LightSensor interface {
	ReadLux(ctx context.Context) (float64, error)
}

type ClimateSensor interface {
	Read(ctx context.Context) (sensor.Climate, error)
}

type Relay interface {
	Reset() error
	Apply(state policy.RelayState) error
	Release() error
}

type Display interface {
	Render(f display.Frame) error
	Blank() error
}

type Recorder interface {
	Append(ctx context.Context, rec store.Record) error
}

// Telemetry receives persisted records and alerts. Delivery is best effort.
type Telemetry interface {
	PublishRecord(rec store.Record)
	Alert(message string)
}

type nopTelemetry struct{}

func (nopTelemetry) PublishRecord(store.Record) {}
func (nopTelemetry) Alert(string)               {}

// Reading is the measurement of one tick.
type Reading struct {
	Timestamp    time.Time
	TemperatureC float64
	HumidityPct  float64
	LightLux     float64
}

// Settings are fixed for the lifetime of the loop.
type Settings struct {
	OptimalLux   float64
	ToleranceLux float64
	Relay        policy.Relay
	Interval     time.Duration
}

// Devices are the collaborators owned by the loop.
type Devices struct {
	Light    LightSensor
	Climate  ClimateSensor
	Relay    Relay
	Display  Display
	Recorder Recorder
}

type Loop struct {
	dev       Devices
	settings  Settings
	telemetry Telemetry
	now       func() time.Time
	logger    *zap.Logger
}

type Option func(*Loop)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Loop) { l.now = now }
}

func WithTelemetry(t Telemetry) Option {
	return func(l *Loop) {
		if t != nil {
			l.telemetry = t
		}
	}
}

func New(dev Devices, settings Settings, logger *zap.Logger, opts ...Option) *Loop {
	l := &Loop{
		dev:       dev,
		settings:  settings,
		telemetry: nopTelemetry{},
		now:       time.Now,
		logger:    logger.Named("control"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run drives the relay to its safe default, then ticks until ctx is cancelled
// or a tick fails. The shutdown sequence runs in both cases. Cancellation is
// not an error.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.dev.Relay.Reset(); err != nil {
		return multierr.Append(err, l.shutdown())
	}
	l.logger.Info("control loop started",
		zap.Duration("interval", l.settings.Interval),
		zap.String("relay_policy", string(l.settings.Relay.Variant)),
	)

	var runErr error
	for {
		_, err := l.Tick(ctx)
		if err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				break
			}
			if !errors.Is(err, sensor.ErrSensorUnavailable) {
				runErr = err
				break
			}
			l.logger.Error("skipping tick", zap.Error(err))
			l.telemetry.Alert("Failed to read climate sensor: " + err.Error())
		}
		if ctx.Err() != nil || !sleep(ctx, l.settings.Interval) {
			break
		}
	}

	if runErr != nil {
		l.logger.Error("control loop stopped", zap.Error(runErr))
	} else {
		l.logger.Info("interrupt received, shutting down")
	}
	return multierr.Append(runErr, l.shutdown())
}

// Tick performs one measurement cycle and returns the persisted record.
// Once ctx is cancelled the remaining steps are skipped and nothing is persisted.
func (l *Loop) Tick(ctx context.Context) (store.Record, error) {
	now := l.now()

	lux, err := l.dev.Light.ReadLux(ctx)
	if err != nil {
		return store.Record{}, err
	}
	climate, err := l.dev.Climate.Read(ctx)
	if err != nil {
		return store.Record{}, err
	}
	if err := ctx.Err(); err != nil {
		return store.Record{}, err
	}

	reading := Reading{
		Timestamp:    now,
		TemperatureC: climate.TemperatureC,
		HumidityPct:  climate.HumidityPct,
		LightLux:     lux,
	}
	class := policy.Classify(reading.LightLux, l.settings.OptimalLux, l.settings.ToleranceLux)
	state := l.settings.Relay.Decide(now, class)

	if err := l.dev.Relay.Apply(state); err != nil {
		return store.Record{}, err
	}
	frame := display.Frame{
		TemperatureC: reading.TemperatureC,
		HumidityPct:  reading.HumidityPct,
		Code:         class.Code(),
	}
	if err := l.dev.Display.Render(frame); err != nil {
		return store.Record{}, fmt.Errorf("failed to render reading: %w", err)
	}

	rec := store.NewRecord(now, reading.TemperatureC, reading.HumidityPct, reading.LightLux, class.Code(), state.String())
	if err := ctx.Err(); err != nil {
		return store.Record{}, err
	}
	// past this point the tick is committed and persists in full
	if err := l.dev.Recorder.Append(context.WithoutCancel(ctx), rec); err != nil {
		return store.Record{}, fmt.Errorf("failed to persist reading: %w", err)
	}
	l.telemetry.PublishRecord(rec)

	l.logger.Info("reading recorded",
		zap.String("timestamp", rec.Timestamp),
		zap.Float64("temperature", reading.TemperatureC),
		zap.Float64("humidity", reading.HumidityPct),
		zap.Float64("lux", reading.LightLux),
		zap.Stringer("light", class),
		zap.Stringer("relay", state),
	)
	return rec, nil
}

func (l *Loop) shutdown() error {
	err := multierr.Combine(
		l.dev.Relay.Release(),
		l.dev.Display.Blank(),
	)
	if err != nil {
		l.logger.Warn("shutdown incomplete", zap.Error(err))
	}
	return err
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
