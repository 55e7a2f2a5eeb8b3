// Copyright (C) 2026 The enginedeck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package surrogate

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Package-level meter for surrogate evaluation. The library never owns
// an exporter; metrics flow through whatever provider the host process
// installs globally, and are no-ops otherwise.
var meter = otel.Meter("enginedeck.surrogate")

var (
	evalTotal       metric.Int64Counter
	evalOutOfDomain metric.Int64Counter
	evalLatency     metric.Float64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		evalTotal, err = meter.Int64Counter(
			"deck_evaluations_total",
			metric.WithDescription("Total number of engine deck evaluations"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		evalOutOfDomain, err = meter.Int64Counter(
			"deck_out_of_domain_total",
			metric.WithDescription("Evaluations flagged outside the training envelope"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		evalLatency, err = meter.Float64Histogram(
			"deck_evaluation_duration_seconds",
			metric.WithDescription("Duration of single deck evaluations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordEvaluation records one Evaluate call. Metric failures never
// surface into evaluation results.
func recordEvaluation(ctx context.Context, engine string, warnings int, elapsed time.Duration) {
	if initMetrics() != nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("engine", engine))
	evalTotal.Add(ctx, 1, attrs)
	if warnings > 0 {
		evalOutOfDomain.Add(ctx, 1, attrs)
	}
	evalLatency.Record(ctx, elapsed.Seconds(), attrs)
}
