package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("review-metrics")

// ReviewMetrics provides metrics collection for review generation
type ReviewMetrics struct {
	reviewsRequestedCounter metric.Int64Counter
	reviewsCompletedCounter metric.Int64Counter
	reviewsFailedCounter    metric.Int64Counter
	reviewsEmptyCounter     metric.Int64Counter
	reviewDurationHistogram metric.Float64Histogram
	reviewsActiveGauge      metric.Int64UpDownCounter
}

// NewReviewMetrics creates a new review metrics collector
func NewReviewMetrics() (*ReviewMetrics, error) {
	reviewsRequestedCounter, err := meter.Int64Counter(
		"codelens.reviews.requested",
		metric.WithDescription("Total number of review requests accepted by validation"),
		metric.WithUnit("{review}"),
	)
	if err != nil {
		return nil, err
	}

	reviewsCompletedCounter, err := meter.Int64Counter(
		"codelens.reviews.completed",
		metric.WithDescription("Total number of reviews generated successfully"),
		metric.WithUnit("{review}"),
	)
	if err != nil {
		return nil, err
	}

	reviewsFailedCounter, err := meter.Int64Counter(
		"codelens.reviews.failed",
		metric.WithDescription("Total number of review requests that failed"),
		metric.WithUnit("{review}"),
	)
	if err != nil {
		return nil, err
	}

	// Empty completions are treated as success; this counter keeps the gap visible.
	reviewsEmptyCounter, err := meter.Int64Counter(
		"codelens.reviews.empty",
		metric.WithDescription("Total number of successful reviews with an empty completion"),
		metric.WithUnit("{review}"),
	)
	if err != nil {
		return nil, err
	}

	reviewDurationHistogram, err := meter.Float64Histogram(
		"codelens.review.duration",
		metric.WithDescription("Duration of review generation in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	reviewsActiveGauge, err := meter.Int64UpDownCounter(
		"codelens.reviews.active",
		metric.WithDescription("Number of reviews currently in flight"),
		metric.WithUnit("{review}"),
	)
	if err != nil {
		return nil, err
	}

	return &ReviewMetrics{
		reviewsRequestedCounter: reviewsRequestedCounter,
		reviewsCompletedCounter: reviewsCompletedCounter,
		reviewsFailedCounter:    reviewsFailedCounter,
		reviewsEmptyCounter:     reviewsEmptyCounter,
		reviewDurationHistogram: reviewDurationHistogram,
		reviewsActiveGauge:      reviewsActiveGauge,
	}, nil
}

// RecordReviewRequested records a validated review request entering generation
func (rm *ReviewMetrics) RecordReviewRequested(ctx context.Context, codeChars int) {
	rm.reviewsRequestedCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.Int("code.chars", codeChars),
		),
	)
	rm.reviewsActiveGauge.Add(ctx, 1)
}

// RecordReviewCompleted records a successful review generation
func (rm *ReviewMetrics) RecordReviewCompleted(ctx context.Context, empty bool, duration time.Duration) {
	rm.reviewsCompletedCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("status", "completed"),
		),
	)
	if empty {
		rm.reviewsEmptyCounter.Add(ctx, 1)
	}
	rm.reviewDurationHistogram.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("status", "completed"),
		),
	)
	rm.reviewsActiveGauge.Add(ctx, -1)
}

// RecordReviewFailed records a failed review generation
func (rm *ReviewMetrics) RecordReviewFailed(ctx context.Context, errorKind string, duration time.Duration) {
	rm.reviewsFailedCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("status", "failed"),
			attribute.String("error.kind", errorKind),
		),
	)
	rm.reviewDurationHistogram.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("status", "failed"),
		),
	)
	rm.reviewsActiveGauge.Add(ctx, -1)
}
