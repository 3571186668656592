package sender

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/speedwagon-io/climate-indicator/internal/model"
)

// Sender publishes newly obtained readings to a downstream consumer.
type Sender interface {
	Send(ctx context.Context, reading *model.Reading) error
	Health(ctx context.Context) error
	Close() error
}

// MultiSender fans a reading out to every configured sink. One failing
// sink does not stop delivery to the others.
type MultiSender struct {
	senders []Sender
}

func NewMultiSender(senders ...Sender) *MultiSender {
	return &MultiSender{senders: senders}
}

func (m *MultiSender) Len() int {
	return len(m.senders)
}

func (m *MultiSender) Send(ctx context.Context, reading *model.Reading) error {
	var errs []error
	for _, s := range m.senders {
		if err := s.Send(ctx, reading); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSender) Health(ctx context.Context) error {
	var errs []error
	for _, s := range m.senders {
		if err := s.Health(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSender) Close() error {
	var errs []error
	for _, s := range m.senders {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogSender logs readings instead of sending them (for dry runs)
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, reading *model.Reading) error {
	data, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("failed to marshal reading: %w", err)
	}

	s.log.Info("SEND",
		slog.String("id", reading.ID),
		slog.Float64("value", reading.Value),
		slog.String("payload", string(data)),
	)

	return nil
}

func (s *LogSender) Health(ctx context.Context) error {
	return nil
}

func (s *LogSender) Close() error {
	return nil
}
