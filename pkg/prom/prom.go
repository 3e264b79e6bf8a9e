package prom

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	xhttp "github.com/nimasrn/storefront-backoffice/pkg/http"
	"github.com/nimasrn/storefront-backoffice/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	SystemPoints = "points"
	SystemHTTP   = "http"
)

const (
	MetricPointsAdjustments   = "adjustments_total"
	MetricPointsPendingGrants = "pending_grants_total"
	MetricPointsFailures      = "failures_total"
	MetricHTTPRequestDuration = "request_duration_seconds"
)

const (
	TypeCounter      = "counter"
	TypeCounterVec   = "counterVec"
	TypeHistogram    = "histogram"
	TypeHistogramVec = "histogramVec"
	TypeGaugeVec     = "gaugeVec"
)

var (
	lock      = &sync.RWMutex{}
	namespace = "none"
	registry  = prometheus.NewRegistry()

	MetricSystemEnabled = false

	counters      = make(map[string]prometheus.Counter)
	counterVecs   = make(map[string]*prometheus.CounterVec)
	gaugeVecs     = make(map[string]*prometheus.GaugeVec)
	histograms    = make(map[string]prometheus.Histogram)
	histogramVecs = make(map[string]*prometheus.HistogramVec)

	defaultLabels prometheus.Labels
)

// Create resets the registry and registers the back-office metrics.
func Create(host string, env string, nameSpace string) error {
	lock.Lock()
	defaultLabels = prometheus.Labels{"env": env, "instance": host}
	namespace = nameSpace
	registry = prometheus.NewRegistry()
	counters = make(map[string]prometheus.Counter)
	counterVecs = make(map[string]*prometheus.CounterVec)
	gaugeVecs = make(map[string]*prometheus.GaugeVec)
	histograms = make(map[string]prometheus.Histogram)
	histogramVecs = make(map[string]*prometheus.HistogramVec)
	MetricSystemEnabled = true
	lock.Unlock()

	var err error
	hasError := func(e error) {
		if err == nil && e != nil {
			err = e
		}
	}

	hasError(CreateMetric(TypeCounterVec, SystemPoints, MetricPointsAdjustments, "direction"))
	hasError(CreateMetric(TypeCounter, SystemPoints, MetricPointsPendingGrants))
	hasError(CreateMetric(TypeCounterVec, SystemPoints, MetricPointsFailures, "op"))
	hasError(CreateMetric(TypeHistogramVec, SystemHTTP, MetricHTTPRequestDuration, "method", "status"))

	return err
}

func CreateMetric(metricType, metricSubsystem, metricName string, labelsValues ...string) error {
	lock.Lock()
	defer lock.Unlock()

	key := metricSubsystem + metricName
	var c prometheus.Collector
	switch metricType {
	case TypeCounter:
		m := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Subsystem: metricSubsystem, Name: metricName, ConstLabels: defaultLabels, Help: metricName})
		counters[key], c = m, m
	case TypeCounterVec:
		m := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Subsystem: metricSubsystem, Name: metricName, ConstLabels: defaultLabels, Help: metricName}, labelsValues)
		counterVecs[key], c = m, m
	case TypeHistogram:
		m := prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Subsystem: metricSubsystem, Name: metricName, ConstLabels: defaultLabels, Help: metricName, Buckets: prometheus.DefBuckets})
		histograms[key], c = m, m
	case TypeHistogramVec:
		m := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Subsystem: metricSubsystem, Name: metricName, ConstLabels: defaultLabels, Help: metricName, Buckets: prometheus.DefBuckets}, labelsValues)
		histogramVecs[key], c = m, m
	case TypeGaugeVec:
		m := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Subsystem: metricSubsystem, Name: metricName, ConstLabels: defaultLabels, Help: metricName}, labelsValues)
		gaugeVecs[key], c = m, m
	default:
		return fmt.Errorf("metric type %s is not defined", metricType)
	}
	return registry.Register(c)
}

// Gatherer exposes the registry, mainly for tests.
func Gatherer() prometheus.Gatherer {
	lock.RLock()
	defer lock.RUnlock()
	return registry
}

func ListenAndServer(addr string, url string) {
	hh := fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(Gatherer(), promhttp.HandlerOpts{}))
	s := xhttp.CreateServer()
	s.GET(url, hh)
	logger.Info("[metrics-server] listening...", "addr", addr, "url", url)
	if err := s.ListenAndServe(addr); err != nil {
		logger.Panic("[metrics-server] http listen error", "error", err)
	}
}

// RequestMetricsMiddleware observes request latency by method and status.
func RequestMetricsMiddleware(next xhttp.RequestHandler) xhttp.RequestHandler {
	return func(ctx *xhttp.RequestCtx) {
		start := time.Now()
		next(ctx)
		AddHistogramVec(SystemHTTP, MetricHTTPRequestDuration, time.Since(start).Seconds(),
			string(ctx.Method()), strconv.Itoa(ctx.Response.StatusCode()))
	}
}

func IncCounter(subsystem, name string) {
	AddCounter(subsystem, name, 1)
}

func AddCounter(subsystem, name string, number float64) {
	lock.RLock()
	defer lock.RUnlock()
	if !MetricSystemEnabled {
		return
	}
	if v, ok := counters[subsystem+name]; ok {
		v.Add(number)
		return
	}
	logger.Warn("[metrics-server] counter not found", "subsystem", subsystem, "name", name)
}

func IncCounterVec(subsystem, name string, labelValues ...string) {
	AddCounterVec(subsystem, name, 1, labelValues...)
}

func AddCounterVec(subsystem, name string, num float64, labelValues ...string) {
	lock.RLock()
	defer lock.RUnlock()
	if !MetricSystemEnabled {
		return
	}
	if v, ok := counterVecs[subsystem+name]; ok {
		v.WithLabelValues(labelValues...).Add(num)
		return
	}
	logger.Warn("[metrics-server] counter vec not found", "subsystem", subsystem, "name", name)
}

func AddGaugeVec(subsystem, name string, num float64, labelValues ...string) {
	lock.RLock()
	defer lock.RUnlock()
	if !MetricSystemEnabled {
		return
	}
	if v, ok := gaugeVecs[subsystem+name]; ok {
		v.WithLabelValues(labelValues...).Add(num)
		return
	}
	logger.Warn("[metrics-server] gauge not found", "subsystem", subsystem, "name", name)
}

func AddHistogramVec(subsystem, name string, number float64, labelValues ...string) {
	lock.RLock()
	defer lock.RUnlock()
	if !MetricSystemEnabled {
		return
	}
	if v, ok := histogramVecs[subsystem+name]; ok {
		v.WithLabelValues(labelValues...).Observe(number)
		return
	}
	logger.Warn("[metrics-server] histogram vec not found", "subsystem", subsystem, "name", name)
}

// PointsAdjusted counts one ledger append by the sign of its delta.
func PointsAdjusted(delta int64) {
	direction := "grant"
	if delta < 0 {
		direction = "deduct"
	}
	IncCounterVec(SystemPoints, MetricPointsAdjustments, direction)
}

func PendingGrantRecorded() {
	IncCounter(SystemPoints, MetricPointsPendingGrants)
}

func PointsFailure(op string) {
	IncCounterVec(SystemPoints, MetricPointsFailures, op)
}
