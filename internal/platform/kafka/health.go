package kafka

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"
)

const dialTimeout = 5 * time.Second

// HealthChecker probes broker reachability with a plain TCP dial, so the
// health endpoint does not need a full Kafka client.
type HealthChecker struct {
	brokers string
}

// NewHealthChecker takes a comma-separated broker list.
func NewHealthChecker(brokers string) *HealthChecker {
	return &HealthChecker{brokers: brokers}
}

// Check succeeds when at least one broker accepts a connection.
func (h *HealthChecker) Check(ctx context.Context) error {
	if h.brokers == "" {
		return fmt.Errorf("kafka brokers not configured")
	}

	var lastErr error
	for _, broker := range strings.Split(h.brokers, ",") {
		broker = strings.TrimSpace(broker)
		if broker == "" {
			continue
		}
		dialer := net.Dialer{Timeout: dialTimeout}
		conn, err := dialer.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = err
			continue
		}
		conn.Close()
		return nil
	}

	if lastErr != nil {
		return fmt.Errorf("no kafka brokers reachable: %w", lastErr)
	}
	return fmt.Errorf("no kafka brokers configured")
}

// Name identifies the check in health reports.
func (h *HealthChecker) Name() string {
	return "kafka"
}
