package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"furitingoasis/growlight/internal/config"
	"furitingoasis/growlight/internal/control"
	"furitingoasis/growlight/internal/display"
	"furitingoasis/growlight/internal/hardware"
	"furitingoasis/growlight/internal/relay"
	"furitingoasis/growlight/internal/sensor"
	"furitingoasis/growlight/internal/store"
	"furitingoasis/growlight/mqtt"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (environment only when empty)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(&cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg.PrintConfig(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("grow light controller stopped", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("grow light controller stopped")
}

func run(cfg *config.Config, logger *zap.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	relayPolicy, err := cfg.RelayPolicy()
	if err != nil {
		return err
	}

	csvLog, err := store.NewCSVLog(cfg.Storage.CSVPath)
	if err != nil {
		return err
	}
	db, err := store.OpenSQLite(cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	journal := store.NewJournal(csvLog, db)
	defer func() { err = multierr.Append(err, journal.Close()) }()

	board, err := hardware.Open(hardware.Config{
		RelayPin:       cfg.Relay.Pin,
		LightAddress:   cfg.Light.Address,
		SegmentAddress: cfg.Display.SegmentAddress,
		MatrixClockPin: cfg.Display.MatrixClockPin,
		MatrixDataPin:  cfg.Display.MatrixDataPin,
		MatrixCSPin:    cfg.Display.MatrixCSPin,
		MatrixModules:  cfg.Display.MatrixModules,
	}, logger)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, board.Close()) }()

	segment := display.NewSegment(board.SegmentBus())
	if err := segment.Start(); err != nil {
		return err
	}
	panel := &display.Panel{
		LCD:     display.NewLCD(board.LCD()),
		Segment: segment,
		Matrix:  display.NewMatrix(board.Matrix()),
	}

	climate := sensor.NewClimateReader(board.ClimateDevice(),
		sensor.RetryConfig{
			MaxAttempts:   cfg.Climate.MaxAttempts,
			RetryDelay:    cfg.Climate.RetryDelay,
			MaxRetryDelay: cfg.Climate.MaxRetryDelay,
		},
		sensor.Calibration{
			TemperatureOffset: cfg.Climate.TemperatureOffset,
			HumidityOffset:    cfg.Climate.HumidityOffset,
		},
		logger,
	)

	var opts []control.Option
	if cfg.MQTT.BrokerURL != "" {
		publisher, err := mqtt.Connect(ctx, mqtt.MQTTConfig{
			BrokerURL:     cfg.MQTT.BrokerURL,
			ClientID:      cfg.MQTT.ClientID,
			Username:      cfg.MQTT.Username,
			Password:      cfg.MQTT.Password,
			TopicPrefix:   cfg.MQTT.TopicPrefix,
			QoS:           1,
			AutoReconnect: true,
			MaxRetries:    cfg.MQTT.MaxRetries,
			RetryInterval: cfg.MQTT.RetryInterval,
		}, logger)
		if err != nil {
			logger.Warn("continuing without mqtt telemetry", zap.Error(err))
		} else {
			defer publisher.Close()
			opts = append(opts, control.WithTelemetry(publisher))
		}
	}

	loop := control.New(control.Devices{
		Light:    sensor.NewLightSensor(board.LightBus()),
		Climate:  climate,
		Relay:    relay.NewController(board.RelayPin(), !cfg.Relay.ActiveHigh, logger),
		Display:  panel,
		Recorder: journal,
	}, control.Settings{
		OptimalLux:   cfg.Light.OptimalLux,
		ToleranceLux: cfg.Light.ToleranceLux,
		Relay:        relayPolicy,
		Interval:     cfg.Loop.Interval,
	}, logger, opts...)

	logger.Info("grow light controller started")
	return loop.Run(ctx)
}
