package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "clinicgate"

// Metrics holds all clinicgate metric instruments.
type Metrics struct {
	RequestsProxied  metric.Int64Counter
	CacheHits        metric.Int64Counter
	CacheMisses      metric.Int64Counter
	UpstreamFailures metric.Int64Counter
	UpstreamLatency  metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.RequestsProxied, err = meter.Int64Counter("clinicgate.requests.proxied",
		metric.WithDescription("Number of requests forwarded upstream"))
	if err != nil {
		return nil, err
	}

	m.CacheHits, err = meter.Int64Counter("clinicgate.cache.hits",
		metric.WithDescription("Number of GETs served from the response cache"))
	if err != nil {
		return nil, err
	}

	m.CacheMisses, err = meter.Int64Counter("clinicgate.cache.misses",
		metric.WithDescription("Number of GETs that missed the response cache"))
	if err != nil {
		return nil, err
	}

	m.UpstreamFailures, err = meter.Int64Counter("clinicgate.upstream.failures",
		metric.WithDescription("Number of upstream calls that failed"))
	if err != nil {
		return nil, err
	}

	m.UpstreamLatency, err = meter.Float64Histogram("clinicgate.upstream.duration_seconds",
		metric.WithDescription("Upstream call duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
