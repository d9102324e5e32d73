package statsd

// Package statsd emits console request metrics over UDP using the StatsD
// line protocol. Emission is fire-and-forget: a metrics outage must never
// slow down or fail a clinical workflow.

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Sink is the metric surface the api client records against.
type Sink interface {
	Count(name string, value int64, tags map[string]string)
	Timing(name string, value time.Duration, tags map[string]string)
}

// Noop is a Sink that discards everything. Used when metrics are disabled
// and in tests.
type Noop struct{}

func (Noop) Count(string, int64, map[string]string)          {}
func (Noop) Timing(string, time.Duration, map[string]string) {}

// Config describes how to connect to a StatsD-compatible sink.
type Config struct {
	Address string
	Prefix  string
	Logger  *slog.Logger
}

// Client emits metrics over UDP. Safe for concurrent use.
type Client struct {
	prefix string
	logger *slog.Logger

	mu   sync.Mutex
	conn net.Conn
}

var _ Sink = (*Client)(nil)

// NewClient dials the StatsD endpoint.
func NewClient(cfg Config) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := (&net.Dialer{}).DialContext(ctx, "udp", cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("statsd dial %s: %w", cfg.Address, err)
	}

	return &Client{
		prefix: strings.Trim(strings.TrimSpace(cfg.Prefix), "."),
		logger: logger,
		conn:   conn,
	}, nil
}

// Count increments a counter metric.
func (c *Client) Count(name string, value int64, tags map[string]string) {
	c.write(name, strconv.FormatInt(value, 10)+"|c", tags)
}

// Timing records a timing metric in milliseconds.
func (c *Client) Timing(name string, value time.Duration, tags map[string]string) {
	ms := float64(value) / float64(time.Millisecond)
	c.write(name, strconv.FormatFloat(ms, 'f', -1, 64)+"|ms", tags)
}

// Close releases the UDP connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) write(name, payload string, tags map[string]string) {
	metric := strings.TrimSpace(name)
	if metric == "" {
		return
	}
	if c.prefix != "" {
		metric = c.prefix + "." + metric
	}
	line := metric + ":" + payload + formatTags(tags)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return
	}
	if _, err := c.conn.Write([]byte(line)); err != nil {
		c.logger.Debug("statsd write failed", "error", err)
	}
}

// formatTags renders tags in DogStatsD format, sorted for stable output.
func formatTags(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		if strings.TrimSpace(k) != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = strings.TrimSpace(k) + ":" + strings.TrimSpace(tags[k])
	}
	return "|#" + strings.Join(parts, ",")
}
