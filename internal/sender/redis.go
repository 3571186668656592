package sender

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/speedwagon-io/climate-indicator/internal/config"
	"github.com/speedwagon-io/climate-indicator/internal/model"
)

// RedisSender mirrors the latest reading into a single key with a TTL.
type RedisSender struct {
	log    *slog.Logger
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisSender(log *slog.Logger, cfg *config.RedisConfig) (*RedisSender, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	return &RedisSender{
		log:    log,
		client: redis.NewClient(opt),
		key:    cfg.Key,
		ttl:    cfg.TTL,
	}, nil
}

func (s *RedisSender) Send(ctx context.Context, reading *model.Reading) error {
	data, err := reading.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal reading: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", s.key, err)
	}

	s.log.Debug("reading cached in redis", slog.String("key", s.key))
	return nil
}

// Latest reads back the mirrored reading; nil, nil when the key is absent.
func (s *RedisSender) Latest(ctx context.Context) (*model.Reading, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis GET %s: %w", s.key, err)
	}
	return model.ReadingFromJSON(data)
}

func (s *RedisSender) Health(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (s *RedisSender) Close() error {
	return s.client.Close()
}
