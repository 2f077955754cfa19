package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "chamalog"

// Prom holds every collector the API exports. All Inc helpers are nil-safe
// so services and handlers built without metrics still work.
type Prom struct {
	RequestsTotal    *prometheus.CounterVec
	RequestsDuration *prometheus.HistogramVec
	InFlight         *prometheus.GaugeVec

	DbQueryDuration *prometheus.HistogramVec
	DbErrorsTotal   *prometheus.CounterVec

	LoginAttempts  *prometheus.CounterVec
	OrdersCreated  prometheus.Counter
	StatusChanges  *prometheus.CounterVec
	Scans          *prometheus.CounterVec
	LabelsRendered prometheus.Counter
}

func counterVec(subsystem, name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func counter(subsystem, name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	})
}

// NewProm registers the service metrics on reg. Tests pass a fresh
// prometheus.NewRegistry to avoid duplicate registration panics.
func NewProm(reg prometheus.Registerer) *Prom {
	p := &Prom{
		RequestsTotal: counterVec("", "http_requests_total", "Total HTTP requests processed.", "method", "route", "status"),
		RequestsDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distributions.",
			// label rendering dominates the tail
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"method", "route", "status"}),
		InFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}, []string{"method", "route"}),

		DbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "DB operation latency by logical op.",
			Buckets:   []float64{0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.35, 0.5, 1, 2, 5},
		}, []string{"op", "status"}),
		DbErrorsTotal: counterVec("db", "errors_total", "DB errors by logical op and class.", "op", "class"),

		// result=ok|invalid|error
		LoginAttempts:  counterVec("auth", "login_attempts_total", "Login attempts by result.", "result"),
		OrdersCreated:  counter("orders", "created_total", "Orders created since process start."),
		StatusChanges:  counterVec("orders", "status_changes_total", "Order status updates by new status.", "status"),
		Scans:          counterVec("orders", "scans_total", "QR scans by outcome.", "result"),
		LabelsRendered: counter("labels", "rendered_total", "Shipping label PDFs rendered."),
	}

	reg.MustRegister(
		p.RequestsTotal, p.RequestsDuration, p.InFlight,
		p.DbQueryDuration, p.DbErrorsTotal,
		p.LoginAttempts, p.OrdersCreated, p.StatusChanges, p.Scans, p.LabelsRendered,
	)

	return p
}

func (p *Prom) GinHandleMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}

		method := ctx.Request.Method
		inFlight := p.InFlight.WithLabelValues(method, route)
		inFlight.Inc()
		defer inFlight.Dec()

		ctx.Next()

		status := strconv.Itoa(ctx.Writer.Status())

		p.RequestsTotal.WithLabelValues(method, route, status).Inc()
		p.RequestsDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
	}
}

func (p *Prom) IncLogin(result string) {
	if p == nil {
		return
	}
	p.LoginAttempts.WithLabelValues(result).Inc()
}

func (p *Prom) IncOrdersCreated() {
	if p == nil {
		return
	}
	p.OrdersCreated.Inc()
}

func (p *Prom) IncStatusChange(status string) {
	if p == nil {
		return
	}
	p.StatusChanges.WithLabelValues(status).Inc()
}

// IncScan records a QR scan; result is ok, invalid_qr or unknown_code.
func (p *Prom) IncScan(result string) {
	if p == nil {
		return
	}
	p.Scans.WithLabelValues(result).Inc()
}

func (p *Prom) IncLabelRendered() {
	if p == nil {
		return
	}
	p.LabelsRendered.Inc()
}
