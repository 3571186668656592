package sender

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/speedwagon-io/climate-indicator/internal/config"
	"github.com/speedwagon-io/climate-indicator/internal/model"
)

// KafkaSender produces one record per reading, keyed by the source URL so
// readings from one endpoint stay ordered within a partition.
type KafkaSender struct {
	log    *slog.Logger
	topic  string
	client *kgo.Client
}

func NewKafkaSender(log *slog.Logger, cfg *config.KafkaConfig) (*KafkaSender, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	log.Info("kafka producer initialized",
		slog.String("topic", cfg.Topic),
		slog.Any("brokers", cfg.Brokers),
	)

	return &KafkaSender{
		log:    log,
		topic:  cfg.Topic,
		client: client,
	}, nil
}

func (s *KafkaSender) Send(ctx context.Context, reading *model.Reading) error {
	value, err := reading.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal reading: %w", err)
	}

	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(reading.Source),
		Value: value,
	}

	results := s.client.ProduceSync(ctx, record)
	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("failed to produce to %s: %w", s.topic, r.Err)
		}
	}

	s.log.Debug("reading produced", slog.String("topic", s.topic), slog.String("id", reading.ID))
	return nil
}

func (s *KafkaSender) Health(ctx context.Context) error {
	if err := s.client.Ping(ctx); err != nil {
		return fmt.Errorf("kafka ping failed: %w", err)
	}
	return nil
}

func (s *KafkaSender) Close() error {
	s.client.Close()
	return nil
}
