// Package metrics exposes Prometheus metrics for analyses, review actions and
// the HTTP API.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sprite-ai/clauseguard/internal/apperr"
	"github.com/sprite-ai/clauseguard/internal/model"
	"github.com/sprite-ai/clauseguard/internal/review"
)

const namespace = "clauseguard"

// Collector owns a private registry so tests and multiple servers never share
// global state.
type Collector struct {
	registry *prometheus.Registry

	analyses        *prometheus.CounterVec
	analysisSeconds prometheus.Histogram
	riskScore       prometheus.Histogram
	reviewActions   *prometheus.CounterVec
	finalized       prometheus.Counter
	activeSessions  prometheus.Gauge
	httpRequests    *prometheus.CounterVec
	rateLimited     prometheus.Counter
}

// New creates a collector with Go and process metrics registered.
func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	c := &Collector{
		registry: reg,
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Analyses run, by outcome, jurisdiction and highest risk level.",
		}, []string{"outcome", "jurisdiction", "max_risk"}),
		analysisSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent in Analyze.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		riskScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "risk_score",
			Help:      "Distribution of total risk scores.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		reviewActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "review",
			Name:      "actions_total",
			Help:      "Review actions dispatched, by action and result.",
		}, []string{"action", "result"}),
		finalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "review",
			Name:      "finalized_total",
			Help:      "Review sessions finalized into a contract.",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "review",
			Name:      "active_sessions",
			Help:      "Review sessions currently held by the server.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
	}
	reg.MustRegister(c.analyses, c.analysisSeconds, c.riskScore, c.reviewActions,
		c.finalized, c.activeSessions, c.httpRequests, c.rateLimited)
	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveAnalysis records one Analyze call.
func (c *Collector) ObserveAnalysis(r *model.AnalysisResult, err error, took time.Duration) {
	c.analysisSeconds.Observe(took.Seconds())
	if err != nil {
		c.analyses.WithLabelValues("failure", "", "").Inc()
		return
	}
	c.analyses.WithLabelValues("success", r.Jurisdiction, r.MaxRisk().String()).Inc()
	c.riskScore.Observe(float64(r.TotalRiskScore))
}

// Record implements review.Recorder.
func (c *Collector) Record(_ context.Context, e review.Event) {
	result := "ok"
	switch {
	case e.Err == nil:
	case errors.Is(e.Err, review.ErrCannotRejectMandatory):
		result = "mandatory"
	default:
		result = apperr.KindOf(e.Err).String()
	}
	c.reviewActions.WithLabelValues(e.Action, result).Inc()
	if e.Action == "finalize" && e.Err == nil {
		c.finalized.Inc()
	}
}

// SessionOpened and SessionClosed track sessions held by the server.
func (c *Collector) SessionOpened() { c.activeSessions.Inc() }

func (c *Collector) SessionClosed() { c.activeSessions.Dec() }

// ObserveRequest counts a served HTTP request.
func (c *Collector) ObserveRequest(method string, code int) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
}

// RateLimited counts a request rejected by the limiter.
func (c *Collector) RateLimited() { c.rateLimited.Inc() }
