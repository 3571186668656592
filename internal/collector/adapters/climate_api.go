package adapters

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/net/http2"

	"github.com/speedwagon-io/climate-indicator/internal/collector"
	"github.com/speedwagon-io/climate-indicator/internal/lib/logger/sl"
)

const maxBodySize = 4 << 20

// ClimateAPIAdapter reads the latest monthly warming anomaly from a JSON
// temperature API such as global-warming.org.
type ClimateAPIAdapter struct {
	log    *slog.Logger
	url    string
	client *http.Client
}

// NewClimateAPIAdapter builds the adapter. The per-request deadline comes
// from the caller's context; timeout is a backstop on the client.
func NewClimateAPIAdapter(log *slog.Logger, url string, timeout time.Duration, enableHTTP2 bool) *ClimateAPIAdapter {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	if enableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			log.Warn("http2 unavailable, using http/1.1", sl.Err(err))
		}
	}

	return &ClimateAPIAdapter{
		log: log,
		url: url,
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (a *ClimateAPIAdapter) Name() string {
	return "climate_api"
}

func (a *ClimateAPIAdapter) Source() string {
	return a.url
}

func (a *ClimateAPIAdapter) Close() error {
	a.client.CloseIdleConnections()
	return nil
}

func (a *ClimateAPIAdapter) Collect(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")

	resp, err := a.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, fmt.Errorf("failed to read response body: %w", err)
	}

	value, err := collector.ParsePayload(body)
	if err != nil {
		return 0, err
	}

	a.log.Debug("climate value collected",
		slog.String("url", a.url),
		slog.Float64("value", value),
	)

	return value, nil
}
