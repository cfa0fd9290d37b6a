package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds every metric the site records.
type AppMetrics struct {
	// HTTP Layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPResponseSize    HistogramVec
	HTTPActiveRequests  GaugeVec

	// Structure Layer
	StructureDecodeTotal CounterVec
	StructureEncodeTotal CounterVec
	MarkupRenderTotal    CounterVec
	MarkupRenderDuration HistogramVec

	// Depiction Layer
	DepictionRequestsTotal CounterVec
	DepictionSize          HistogramVec
	StorageDuration        HistogramVec

	// Infrastructure Layer
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec

	// System Health
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

// Default Buckets
var (
	DefaultHTTPDurationBuckets   = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultRenderDurationBuckets = []float64{.0001, .0005, .001, .005, .01, .05, .1}
	DefaultSizeBuckets           = []float64{100, 1000, 10000, 100000, 1000000, 10000000}
	DefaultStorageBuckets        = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
)

// NewAppMetrics registers all metrics on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "route", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "route")
	m.HTTPResponseSize = collector.RegisterHistogram("http_response_size_bytes", "HTTP response size", DefaultSizeBuckets, "method", "route")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	// Structure
	m.StructureDecodeTotal = collector.RegisterCounter("structure_decode_total", "Adjacency lists decoded from URLs", "kind", "result")
	m.StructureEncodeTotal = collector.RegisterCounter("structure_encode_total", "Structures encoded into URLs", "kind")
	m.MarkupRenderTotal = collector.RegisterCounter("markup_render_total", "Structure markup fragments rendered", "operation", "kind")
	m.MarkupRenderDuration = collector.RegisterHistogram("markup_render_duration_seconds", "Structure markup render duration", DefaultRenderDurationBuckets, "operation")

	// Depiction
	m.DepictionRequestsTotal = collector.RegisterCounter("depiction_requests_total", "Depiction lookups", "kind", "result")
	m.DepictionSize = collector.RegisterHistogram("depiction_size_bytes", "Size of served depictions", DefaultSizeBuckets, "kind")
	m.StorageDuration = collector.RegisterHistogram("storage_operation_duration_seconds", "Object storage round trip", DefaultStorageBuckets, "operation")

	// Infrastructure
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")

	// System Health
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_code")

	return m
}

// Helpers.  Every helper accepts a nil *AppMetrics so callers built without
// metrics need no guards.

func RecordHTTPRequest(metrics *AppMetrics, method, route string, statusCode int, duration time.Duration, respSize int64) {
	if metrics == nil {
		return
	}
	metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	metrics.HTTPResponseSize.WithLabelValues(method, route).Observe(float64(respSize))
}

// RecordDecode counts one URL decode of kind ("molecule", "group").
func RecordDecode(metrics *AppMetrics, kind string, err error) {
	if metrics == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "invalid"
	}
	metrics.StructureDecodeTotal.WithLabelValues(kind, result).Inc()
}

func RecordEncode(metrics *AppMetrics, kind string) {
	if metrics == nil {
		return
	}
	metrics.StructureEncodeTotal.WithLabelValues(kind).Inc()
}

// RecordMarkup counts one markup fragment.  operation is "info" or "markup".
func RecordMarkup(metrics *AppMetrics, operation, kind string, duration time.Duration) {
	if metrics == nil {
		return
	}
	metrics.MarkupRenderTotal.WithLabelValues(operation, kind).Inc()
	metrics.MarkupRenderDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordDepiction counts one depiction lookup.  result is "served",
// "missing" or "error"; size is only observed when the image was served.
func RecordDepiction(metrics *AppMetrics, kind, result string, size int64) {
	if metrics == nil {
		return
	}
	metrics.DepictionRequestsTotal.WithLabelValues(kind, result).Inc()
	if result == "served" {
		metrics.DepictionSize.WithLabelValues(kind).Observe(float64(size))
	}
}

func RecordStorageCall(metrics *AppMetrics, operation string, duration time.Duration, err error) {
	if metrics == nil {
		return
	}
	metrics.StorageDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("storage", operation).Inc()
	}
}

func RecordCacheAccess(metrics *AppMetrics, cache string, hit bool) {
	if metrics == nil {
		return
	}
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordHealth(metrics *AppMetrics, component string, up bool) {
	if metrics == nil {
		return
	}
	v := 0.0
	if up {
		v = 1
	}
	metrics.HealthCheckStatus.WithLabelValues(component).Set(v)
}

func RecordError(metrics *AppMetrics, component, errorCode string) {
	if metrics == nil {
		return
	}
	metrics.ErrorsTotal.WithLabelValues(component, errorCode).Inc()
}

//Personal.AI order the ending
