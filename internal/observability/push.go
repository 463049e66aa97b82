package observability

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus/push"
)

// DefaultPushJob is the Pushgateway job name used by the entry point.
const DefaultPushJob = "array_degradation"

// Push sends every metric in the collector's gatherer to a Prometheus
// Pushgateway, replacing earlier samples for the same job and run.
func (c *DegradationCollector) Push(ctx context.Context, gatewayURL, job, runID string) error {
	if c == nil {
		return fmt.Errorf("push metrics: nil collector")
	}
	if gatewayURL == "" {
		return fmt.Errorf("push metrics: empty gateway URL")
	}
	if job == "" {
		job = DefaultPushJob
	}

	pusher := push.New(gatewayURL, job).Gatherer(c.Gatherer())
	if runID != "" {
		pusher = pusher.Grouping("run_id", runID)
	}
	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", gatewayURL, err)
	}
	return nil
}
