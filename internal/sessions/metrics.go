package sessions

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/JaimeStill/newsqual/internal/annotation"
)

const namespace = "newsqual"

// Metrics holds the Prometheus collectors for annotation sessions.
type Metrics struct {
	Live         prometheus.Gauge
	Outcomes     *prometheus.CounterVec
	Dispositions *prometheus.CounterVec
	RowsIngested prometheus.Counter
	Exports      prometheus.Counter
}

// NewMetrics creates the session collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Live: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "live",
			Help:      "Number of live annotation sessions.",
		}),
		Outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "annotation",
			Name:      "outcomes_total",
			Help:      "Qualifications recorded, by outcome bucket.",
		}, []string{"bucket"}),
		Dispositions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "annotation",
			Name:      "dispositions_total",
			Help:      "Rows disposed of, by disposition and source bucket.",
		}, []string{"disposition", "source"}),
		RowsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "rows_total",
			Help:      "Rows loaded from uploaded spreadsheets.",
		}),
		Exports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "workbooks_total",
			Help:      "Export workbooks written.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Live, m.Outcomes, m.Dispositions, m.RowsIngested, m.Exports)
	}
	return m
}

// observer feeds workspace events into the counters.
type observer struct {
	m *Metrics
}

func (o observer) Classified(bucket annotation.BucketName, _ string) {
	o.m.Outcomes.WithLabelValues(string(bucket)).Inc()
}

func (o observer) Disposed(d annotation.Disposition, from annotation.BucketName) {
	o.m.Dispositions.WithLabelValues(string(d), string(from)).Inc()
}
