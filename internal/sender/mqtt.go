package sender

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/speedwagon-io/climate-indicator/internal/config"
	"github.com/speedwagon-io/climate-indicator/internal/lib/logger/sl"
	"github.com/speedwagon-io/climate-indicator/internal/model"
)

// MQTTSender publishes each reading as a retained message so new
// subscribers immediately get the latest value.
type MQTTSender struct {
	client mqtt.Client
	topic  string
	log    *slog.Logger

	mu        sync.RWMutex
	connected bool
}

func NewMQTTSender(log *slog.Logger, cfg *config.MQTTConfig) *MQTTSender {
	s := &MQTTSender{
		topic: cfg.Topic,
		log:   log,
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Broker, cfg.Port))
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)

	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		s.setConnected(true)
		log.Info("mqtt connected", slog.String("broker", cfg.Broker), slog.Int("port", cfg.Port))
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		s.setConnected(false)
		log.Warn("mqtt connection lost", sl.Err(err))
	})

	s.client = mqtt.NewClient(opts)
	return s
}

// Connect starts the connection attempt and waits until it completes or ctx ends.
func (s *MQTTSender) Connect(ctx context.Context) error {
	if s.IsConnected() {
		return nil
	}

	token := s.client.Connect()

	const poll = 200 * time.Millisecond
	for !token.WaitTimeout(poll) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	return nil
}

func (s *MQTTSender) Send(ctx context.Context, reading *model.Reading) error {
	if !s.IsConnected() {
		return fmt.Errorf("mqtt client not connected")
	}

	payload, err := reading.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal reading: %w", err)
	}

	token := s.client.Publish(s.topic, 1, true, payload)

	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", s.topic, err)
	}
	return nil
}

func (s *MQTTSender) Health(ctx context.Context) error {
	if !s.IsConnected() {
		return fmt.Errorf("mqtt client not connected")
	}
	return nil
}

func (s *MQTTSender) IsConnected() bool {
	s.mu.RLock()
	connected := s.connected
	s.mu.RUnlock()
	return connected && s.client.IsConnected()
}

func (s *MQTTSender) Close() error {
	s.client.Disconnect(250)
	s.setConnected(false)
	return nil
}

func (s *MQTTSender) setConnected(v bool) {
	s.mu.Lock()
	s.connected = v
	s.mu.Unlock()
}
