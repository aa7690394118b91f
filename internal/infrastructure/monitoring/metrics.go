package monitoring

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for a roomdata run
type Metrics struct {
	registry *prometheus.Registry

	// Extraction metrics
	LinesScanned   prometheus.Counter
	RecordsEmitted prometheus.Counter
	RecordsDropped prometheus.Counter

	// Fixer metrics
	AttributesFixed   prometheus.Counter
	AttributesInvalid prometheus.Counter
	FilesWritten      prometheus.Counter

	// Home Assistant client metrics
	HTTPRequests *prometheus.CounterVec

	// Run metrics
	RunDuration *prometheus.GaugeVec
	startTime   time.Time
}

// NewMetrics creates a collector on its own registry so tests and
// repeated runs in one process never collide on registration.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry:  reg,
		startTime: time.Now(),

		LinesScanned: factory.NewCounter(prometheus.CounterOpts{
			Name: "roomdata_lines_scanned_total",
			Help: "Total number of dump lines scanned by the extractor",
		}),
		RecordsEmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "roomdata_records_emitted_total",
			Help: "Total number of completed entity records",
		}),
		RecordsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "roomdata_records_dropped_total",
			Help: "Total number of unterminated entity records dropped at end of input",
		}),
		AttributesFixed: factory.NewCounter(prometheus.CounterOpts{
			Name: "roomdata_attributes_fixed_total",
			Help: "Total number of HTML attributes rewritten with compact JSON",
		}),
		AttributesInvalid: factory.NewCounter(prometheus.CounterOpts{
			Name: "roomdata_attributes_invalid_total",
			Help: "Total number of HTML attributes holding invalid JSON",
		}),
		FilesWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "roomdata_files_written_total",
			Help: "Total number of HTML files rewritten by the fixer",
		}),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roomdata_http_requests_total",
				Help: "Total number of Home Assistant API requests",
			},
			[]string{"status"},
		),
		RunDuration: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "roomdata_run_duration_seconds",
				Help: "Wall time of the last run per command",
			},
			[]string{"command"},
		),
	}
}

// Registry returns the registry the metrics are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveExtraction records the counters of one extraction pass
func (m *Metrics) ObserveExtraction(lines, emitted, dropped int) {
	m.LinesScanned.Add(float64(lines))
	m.RecordsEmitted.Add(float64(emitted))
	m.RecordsDropped.Add(float64(dropped))
}

// ObserveFix records the outcome of fixing one file
func (m *Metrics) ObserveFix(fixed, invalid int, written bool) {
	m.AttributesFixed.Add(float64(fixed))
	m.AttributesInvalid.Add(float64(invalid))
	if written {
		m.FilesWritten.Inc()
	}
}

// ObserveHTTP records a Home Assistant response status; 0 means the request
// never produced a response
func (m *Metrics) ObserveHTTP(status int) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.HTTPRequests.WithLabelValues(label).Inc()
}

// Finish records the run duration for command
func (m *Metrics) Finish(command string) {
	m.RunDuration.WithLabelValues(command).Set(time.Since(m.startTime).Seconds())
}

// WriteTextfile writes all metrics to path in the text exposition format
// read by the node exporter textfile collector. An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
