// Package metrics exposes parse statistics to Prometheus. Collectors are
// registered on the registry passed to New, so tests can use their own.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	perrors "github.com/daveroberts0321/clausewitz/parser/errors"
)

// Collector records parse results.
type Collector struct {
	registry *prometheus.Registry

	filesParsed   *prometheus.CounterVec
	parseErrors   *prometheus.CounterVec
	parseDuration prometheus.Histogram
	bytesParsed   prometheus.Counter
	cacheLookups  *prometheus.CounterVec
}

// New creates a collector in namespace and registers it on registry. A nil
// registry gets a fresh one.
func New(namespace string, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	c := &Collector{
		registry: registry,
		filesParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_parsed_total",
			Help:      "Files parsed, by result.",
		}, []string{"status"}),
		parseErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_errors_total",
			Help:      "Failed parses, by error kind.",
		}, []string{"kind"}),
		parseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Time spent parsing one file.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}),
		bytesParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_parsed_total",
			Help:      "Bytes of input parsed.",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Parse cache lookups, by result.",
		}, []string{"result"}),
	}
	registry.MustRegister(c.filesParsed, c.parseErrors, c.parseDuration, c.bytesParsed, c.cacheLookups)
	return c
}

// Registry returns the registry the collectors are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveParse records one parsed file. A nil Collector records nothing.
func (c *Collector) ObserveParse(size int64, took time.Duration, err error) {
	if c == nil {
		return
	}
	c.parseDuration.Observe(took.Seconds())
	c.bytesParsed.Add(float64(size))
	if err == nil {
		c.filesParsed.WithLabelValues("ok").Inc()
		return
	}
	c.filesParsed.WithLabelValues("error").Inc()
	c.parseErrors.WithLabelValues(kindLabel(err)).Inc()
}

// ObserveCache records a cache lookup.
func (c *Collector) ObserveCache(hit bool) {
	if c == nil {
		return
	}
	if hit {
		c.cacheLookups.WithLabelValues("hit").Inc()
	} else {
		c.cacheLookups.WithLabelValues("miss").Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func kindLabel(err error) string {
	switch perrors.KindOf(err) {
	case perrors.ErrUnterminatedQuote:
		return "unterminated_quote"
	case perrors.ErrUnterminatedBlock:
		return "unterminated_block"
	case perrors.ErrMalformedValue:
		return "malformed_value"
	case perrors.ErrHandlerContract:
		return "handler_contract"
	case perrors.ErrUnexpectedToken:
		return "unexpected_token"
	default:
		return "other"
	}
}
