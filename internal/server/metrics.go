package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "picturebook"

// Metrics はサーバーごとのレジストリに登録したメトリクスなのだ。
// グローバルレジストリを使わないので、テストで何度 New しても衝突しないのだ。
type Metrics struct {
	registry *prometheus.Registry

	pagesGenerated  *prometheus.CounterVec
	exports         *prometheus.CounterVec
	imports         *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics は専用レジストリとメトリクスを作るのだ。
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		pagesGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "pages_generated_total",
				Help:      "Total number of story pages generated, partitioned by archetype.",
			},
			[]string{"story"},
		),
		exports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "exports_total",
				Help:      "Total number of document exports, partitioned by format and status.",
			},
			[]string{"format", "status"},
		),
		imports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "imports_total",
				Help:      "Total number of story pack imports, partitioned by status.",
			},
			[]string{"status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency, partitioned by route, method and status code.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method", "code"},
		),
	}
}

// Registry は /metrics で公開するレジストリを返すのだ。
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
