// Package observability publishes operational metrics to CloudWatch.
package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metrics records counters and durations under a CloudWatch namespace.
// A nil *Metrics is a no-op, so callers never need to guard.
type Metrics struct {
	client    *cloudwatch.Client
	namespace string
}

// NewMetrics creates a metrics recorder.
func NewMetrics(namespace string, client *cloudwatch.Client) *Metrics {
	return &Metrics{client: client, namespace: namespace}
}

// IncrementCounter records a count-of-one metric.
func (m *Metrics) IncrementCounter(ctx context.Context, name string, dimensions map[string]string) {
	if m == nil || m.client == nil {
		return
	}
	m.put(ctx, types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(1),
		Unit:       types.StandardUnitCount,
		Timestamp:  aws.Time(time.Now()),
		Dimensions: toDimensions(dimensions),
	})
}

// RecordDuration records a latency metric in milliseconds.
func (m *Metrics) RecordDuration(ctx context.Context, name string, d time.Duration, dimensions map[string]string) {
	if m == nil || m.client == nil {
		return
	}
	m.put(ctx, types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(float64(d.Milliseconds())),
		Unit:       types.StandardUnitMilliseconds,
		Timestamp:  aws.Time(time.Now()),
		Dimensions: toDimensions(dimensions),
	})
}

func (m *Metrics) put(ctx context.Context, datum types.MetricDatum) {
	// Metric publication is best-effort; a failed put must never fail
	// the operation being measured.
	_, _ = m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: []types.MetricDatum{datum},
	})
}

func toDimensions(dims map[string]string) []types.Dimension {
	if len(dims) == 0 {
		return nil
	}
	out := make([]types.Dimension, 0, len(dims))
	for k, v := range dims {
		out = append(out, types.Dimension{Name: aws.String(k), Value: aws.String(v)})
	}
	return out
}
