package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/speedwagon-io/climate-indicator/internal/config"
	"github.com/speedwagon-io/climate-indicator/internal/lib/logger/sl"
	"github.com/speedwagon-io/climate-indicator/internal/model"
)

// WebhookSender POSTs each reading as JSON with a bearer token.
type WebhookSender struct {
	log         *slog.Logger
	url         string
	token       string
	client      *http.Client
	maxAttempts int
	delay       time.Duration
	maxDelay    time.Duration
}

func NewWebhookSender(log *slog.Logger, cfg *config.WebhookConfig) *WebhookSender {
	maxAttempts := cfg.Retry.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &WebhookSender{
		log:   log,
		url:   cfg.URL,
		token: cfg.Token,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		maxAttempts: maxAttempts,
		delay:       cfg.Retry.InitialDelay,
		maxDelay:    cfg.Retry.MaxDelay,
	}
}

func (s *WebhookSender) Send(ctx context.Context, reading *model.Reading) error {
	data, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("failed to marshal reading: %w", err)
	}

	return s.sendWithRetry(ctx, data)
}

// sendWithRetry redelivers with doubling delays capped at maxDelay plus up to
// 10% jitter. Attempts(0) would mean forever, hence the floor of one.
func (s *WebhookSender) sendWithRetry(ctx context.Context, data []byte) error {
	var delayType retry.DelayTypeFunc = retry.BackOffDelay
	jitter := s.delay / 10
	if jitter > 0 {
		delayType = retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)
	}

	err := retry.Do(
		func() error { return s.doSend(ctx, data) },
		retry.Context(ctx),
		retry.Attempts(uint(s.maxAttempts)),
		retry.Delay(s.delay),
		retry.MaxDelay(s.maxDelay),
		retry.MaxJitter(jitter),
		retry.DelayType(delayType),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			s.log.Warn("webhook attempt failed",
				slog.Int("attempt", int(n)+1),
				slog.Int("max_attempts", s.maxAttempts),
				sl.Err(err),
			)
		}),
	)
	if err != nil {
		return fmt.Errorf("webhook delivery failed after %d attempts: %w", s.maxAttempts, err)
	}

	return nil
}

func (s *WebhookSender) doSend(ctx context.Context, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
}

func (s *WebhookSender) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.url, nil)
	if err != nil {
		return fmt.Errorf("failed to create health request: %w", err)
	}

	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("webhook unhealthy: status %d", resp.StatusCode)
	}

	return nil
}

func (s *WebhookSender) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
