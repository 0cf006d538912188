package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"furitingoasis/growlight/internal/store"
)

// MQTTConfig holds the configuration for the MQTT client.
type MQTTConfig struct {
	BrokerURL     string
	ClientID      string
	Username      string
	Password      string
	TopicPrefix   string
	QoS           byte
	Retained      bool
	AutoReconnect bool
	MaxRetries    int
	RetryInterval time.Duration
}

// client is the part of mqtt.Client the publisher uses.
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	IsConnected() bool
	Disconnect(quiesce uint)
}

// Publisher sends records and alerts to the broker. Publishing never blocks
// the caller and failures are only logged.
type Publisher struct {
	client client
	config MQTTConfig
	logger *zap.Logger
}

type recordPayload struct {
	Timestamp       string  `json:"timestamp"`
	Temperature     float64 `json:"temperature"`
	Humidity        float64 `json:"humidity"`
	LightLevel      string  `json:"light_level"`
	LightAssessment string  `json:"light_assessment"`
	Relay           string  `json:"relay"`
}

// Connect creates a client and connects to the broker, retrying up to MaxRetries times.
// Cancelling ctx abandons the remaining attempts.
func Connect(ctx context.Context, config MQTTConfig, logger *zap.Logger) (*Publisher, error) {
	logger = logger.Named("mqtt")
	opts := mqtt.NewClientOptions().AddBroker(config.BrokerURL)
	opts.SetClientID(config.ClientID)
	if config.Username != "" {
		opts.SetUsername(config.Username)
		opts.SetPassword(config.Password)
	}
	opts.SetAutoReconnect(config.AutoReconnect)

	var lastErr error
	for attempt := 1; attempt <= config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("mqtt connect interrupted: %w", err)
		}
		c := mqtt.NewClient(opts)
		token := c.Connect()
		if token.WaitTimeout(config.RetryInterval) && token.Error() == nil {
			logger.Info("connected to MQTT broker", zap.String("broker", config.BrokerURL))
			return newPublisher(c, config, logger), nil
		}
		lastErr = token.Error()
		if lastErr == nil {
			lastErr = fmt.Errorf("timed out after %s", config.RetryInterval)
		}
		logger.Warn("failed to connect to MQTT broker",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", config.MaxRetries),
			zap.Error(lastErr),
		)
		if attempt < config.MaxRetries {
			select {
			case <-ctx.Done():
			case <-time.After(config.RetryInterval):
			}
		}
	}
	return nil, fmt.Errorf("failed to connect to MQTT broker after %d retries: %w", config.MaxRetries, lastErr)
}

func newPublisher(c client, config MQTTConfig, logger *zap.Logger) *Publisher {
	return &Publisher{client: c, config: config, logger: logger}
}

// PublishRecord publishes a persisted record to <prefix>/sensors.
func (p *Publisher) PublishRecord(rec store.Record) {
	payload, err := json.Marshal(recordPayload{
		Timestamp:       rec.Timestamp,
		Temperature:     rec.Temperature,
		Humidity:        rec.Humidity,
		LightLevel:      rec.Lux,
		LightAssessment: rec.Classification,
		Relay:           rec.Relay,
	})
	if err != nil {
		p.logger.Error("failed to marshal record", zap.Error(err))
		return
	}
	p.publish(p.config.TopicPrefix+"/sensors", payload)
}

// Alert publishes a plain text message to <prefix>/alerts.
func (p *Publisher) Alert(message string) {
	p.publish(p.config.TopicPrefix+"/alerts", []byte(message))
}

func (p *Publisher) publish(topic string, payload []byte) {
	if !p.client.IsConnected() {
		p.logger.Warn("MQTT client not connected, dropping message", zap.String("topic", topic))
		return
	}
	token := p.client.Publish(topic, p.config.QoS, p.config.Retained, payload)
	go func() { // Non-blocking wait for publish to complete
		if token.Wait() && token.Error() != nil {
			p.logger.Error("failed to publish", zap.String("topic", topic), zap.Error(token.Error()))
		}
	}()
	p.logger.Debug("published", zap.String("topic", topic), zap.ByteString("payload", payload))
}

// Close disconnects the MQTT client.
func (p *Publisher) Close() {
	if p.client.IsConnected() {
		p.logger.Info("disconnecting from MQTT broker")
		p.client.Disconnect(250) // Wait up to 250 milliseconds for inflight messages to be delivered
	}
}
