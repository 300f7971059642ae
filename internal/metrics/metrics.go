// Package metrics exposes Prometheus counters for ingestion, answering and
// remote model calls on a private registry.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"prospectus/internal/domain"
)

const namespace = "prospectus"

// Metrics holds the registry and every collector. A nil *Metrics records nothing.
type Metrics struct {
	registry *prom.Registry

	questions     *prom.CounterVec
	answers       *prom.CounterVec
	ingests       *prom.CounterVec
	chunks        prom.Gauge
	inferenceReqs *prom.CounterVec
	inferenceDur  *prom.HistogramVec
	httpReqs      *prom.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prom.NewRegistry()
	m := &Metrics{
		registry: reg,
		questions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace, Name: "questions_total",
			Help: "Questions received by outcome.",
		}, []string{"outcome"}),
		answers: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace, Name: "answers_total",
			Help: "Composed answers by strategy.",
		}, []string{"strategy"}),
		ingests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace, Name: "ingests_total",
			Help: "Chunk set replacements by source and result.",
		}, []string{"source", "result"}),
		chunks: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace, Name: "chunks_loaded",
			Help: "Chunks in the live set.",
		}),
		inferenceReqs: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace, Name: "inference_requests_total",
			Help: "Remote model calls by operation and result.",
		}, []string{"op", "result"}),
		inferenceDur: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace, Name: "inference_duration_seconds",
			Help:    "Remote model call latency.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}, []string{"op"}),
		httpReqs: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.questions, m.answers, m.ingests, m.chunks,
		m.inferenceReqs, m.inferenceDur, m.httpReqs,
	)
	return m
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prom.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Question(outcome string) {
	if m == nil {
		return
	}
	m.questions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Answer(strategy string) {
	if m == nil {
		return
	}
	m.answers.WithLabelValues(strategy).Inc()
}

// Ingest records a replacement attempt and, on success, the new set size.
func (m *Metrics) Ingest(source string, err error, chunks int) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	} else {
		m.chunks.Set(float64(chunks))
	}
	m.ingests.WithLabelValues(source, result).Inc()
}

func (m *Metrics) observeInference(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.inferenceReqs.WithLabelValues(op, result).Inc()
	m.inferenceDur.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Middleware counts requests by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpReqs.WithLabelValues(route, strconv.Itoa(status)).Inc()
	})
}

// InstrumentInference wraps inf so every call is counted and timed.
func InstrumentInference(inf domain.Inference, m *Metrics) domain.Inference {
	if m == nil {
		return inf
	}
	return &instrumented{next: inf, m: m}
}

type instrumented struct {
	next domain.Inference
	m    *Metrics
}

func (i *instrumented) Name() string { return i.next.Name() }

func (i *instrumented) Summarize(ctx context.Context, text string, opts domain.GenerateOptions) (string, error) {
	start := time.Now()
	out, err := i.next.Summarize(ctx, text, opts)
	i.m.observeInference("summarize", start, err)
	return out, err
}

func (i *instrumented) Generate(ctx context.Context, prompt string, opts domain.GenerateOptions) (string, error) {
	start := time.Now()
	out, err := i.next.Generate(ctx, prompt, opts)
	i.m.observeInference("generate", start, err)
	return out, err
}

func (i *instrumented) Converse(ctx context.Context, input string, opts domain.GenerateOptions) (string, error) {
	start := time.Now()
	out, err := i.next.Converse(ctx, input, opts)
	i.m.observeInference("converse", start, err)
	return out, err
}

func (i *instrumented) AnswerQuestion(ctx context.Context, question, passage string) (string, error) {
	start := time.Now()
	out, err := i.next.AnswerQuestion(ctx, question, passage)
	i.m.observeInference("answer", start, err)
	return out, err
}

func (i *instrumented) Classify(ctx context.Context, text string, labels []string) (domain.Classification, error) {
	start := time.Now()
	out, err := i.next.Classify(ctx, text, labels)
	i.m.observeInference("classify", start, err)
	return out, err
}
