// prometheus collectors for the engine
// every method is safe on a nil *Metrics so callers never branch on it
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/s00inx/oldhttp/server/protocol"
)

const namespace = "goserver"

type Metrics struct {
	reg *prometheus.Registry

	sessions     prometheus.Counter
	active       prometheus.Gauge
	acceptErrors prometheus.Counter
	outcomes     *prometheus.CounterVec // terminal parse outcomes by state
	responses    *prometheus.CounterVec // by code and version
	bytesRead    prometheus.Counter
	bytesWritten prometheus.Counter
}

// New builds the collectors on their own registry together with the go and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		sessions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "started_total",
			Help:      "Total number of accepted connections handed to a session",
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "active",
			Help:      "Sessions currently running",
		}),
		acceptErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "listener",
			Name:      "accept_errors_total",
			Help:      "Total number of failed accepts",
		}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "parser",
			Name:      "outcomes_total",
			Help:      "Terminal parse outcomes",
		}, []string{"state"}),
		responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "responses_total",
			Help:      "Responses written, by status code and dialect",
		}, []string{"code", "version"}),
		bytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "read_bytes_total",
			Help:      "Bytes read from peers",
		}),
		bytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "written_bytes_total",
			Help:      "Bytes written to peers",
		}),
	}

	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.sessions, m.active, m.acceptErrors, m.outcomes,
		m.responses, m.bytesRead, m.bytesWritten,
	)
	return m
}

// Handler exposes the registry in the text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.sessions.Inc()
	m.active.Inc()
}

func (m *Metrics) SessionFinished() {
	if m == nil {
		return
	}
	m.active.Dec()
}

func (m *Metrics) AcceptFailed() {
	if m == nil {
		return
	}
	m.acceptErrors.Inc()
}

// Parsed counts a terminal outcome, Partial is not counted
func (m *Metrics) Parsed(st protocol.State) {
	if m == nil || st == protocol.Partial {
		return
	}
	m.outcomes.WithLabelValues(st.String()).Inc()
}

func (m *Metrics) Read(n int) {
	if m == nil {
		return
	}
	m.bytesRead.Add(float64(n))
}

// Responded counts one written response of n bytes
func (m *Metrics) Responded(res *protocol.Response, n int64) {
	if m == nil {
		return
	}
	m.responses.WithLabelValues(strconv.Itoa(res.Status.Code()), res.Version.String()).Inc()
	m.bytesWritten.Add(float64(n))
}
