package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/yanqian/solarcook/internal/domain/efficiency"
)

// ClientConfig holds MQTT connection settings.
type ClientConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	Topic    string
	QoS      byte
}

type tokenPublisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTPublisher sends evaluation records to a broker topic.
type MQTTPublisher struct {
	client  tokenPublisher
	topic   string
	qos     byte
	timeout time.Duration
	logger  *slog.Logger
}

// Connect dials the broker and returns a publisher plus a disconnect func.
func Connect(cfg ClientConfig, logger *slog.Logger) (*MQTTPublisher, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "publish.mqtt")

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		log.Info("mqtt connection established", "broker", cfg.Broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warn("mqtt connection lost", "error", err)
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10*time.Second) {
		return nil, nil, fmt.Errorf("connect to mqtt broker %s: timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, nil, fmt.Errorf("connect to mqtt broker %s: %w", cfg.Broker, err)
	}
	cleanup := func() {
		client.Disconnect(250)
		log.Info("mqtt client disconnected")
	}
	return newMQTTPublisher(client, cfg.Topic, cfg.QoS, log), cleanup, nil
}

func newMQTTPublisher(client tokenPublisher, topic string, qos byte, logger *slog.Logger) *MQTTPublisher {
	return &MQTTPublisher{client: client, topic: topic, qos: qos, timeout: 5 * time.Second, logger: logger}
}

// PublishEvaluation implements efficiency.Publisher.
func (p *MQTTPublisher) PublishEvaluation(ctx context.Context, record efficiency.Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode evaluation: %w", err)
	}
	token := p.client.Publish(p.topic, p.qos, false, payload)
	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("publish to %s: timed out", p.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}
	p.logger.Debug("evaluation published", "topic", p.topic, "id", record.ID)
	return nil
}

// Noop discards records when publishing is disabled.
type Noop struct{}

// PublishEvaluation implements efficiency.Publisher.
func (Noop) PublishEvaluation(context.Context, efficiency.Record) error { return nil }

var (
	_ efficiency.Publisher = (*MQTTPublisher)(nil)
	_ efficiency.Publisher = Noop{}
)
