package utils

import (
	"strconv"
	"time"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "loom"

// Metrics is a decorator that counts processed transactions by message
// path and outcome, and measures how long delivering them takes.
type Metrics struct {
	txs      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ loom.Decorator = Metrics{}

// NewMetrics creates a Metrics decorator with its collectors registered
// on reg.
func NewMetrics(reg prometheus.Registerer) (Metrics, error) {
	m := Metrics{
		txs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "transactions_total",
				Help:      "Number of processed transactions.",
			},
			[]string{"mode", "path", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "deliver_duration_seconds",
				Help:      "Time spent delivering a transaction.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path"},
		),
	}
	for _, c := range []prometheus.Collector{m.txs, m.duration} {
		if err := reg.Register(c); err != nil {
			return Metrics{}, errors.Wrap(errors.ErrDuplicate, err.Error())
		}
	}
	return m, nil
}

func (m Metrics) Check(ctx loom.Context, store loom.KVStore, tx loom.Tx, next loom.Checker) (*loom.CheckResult, error) {
	res, err := next.Check(ctx, store, tx)
	m.txs.WithLabelValues("check", loom.GetPath(tx), outcome(err)).Inc()
	return res, err
}

func (m Metrics) Deliver(ctx loom.Context, store loom.KVStore, tx loom.Tx, next loom.Deliverer) (*loom.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	path := loom.GetPath(tx)
	m.duration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	m.txs.WithLabelValues("deliver", path, outcome(err)).Inc()
	return res, err
}

// outcome is the label value of a call result: "ok" or the code of the
// failure.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return strconv.FormatUint(uint64(errors.Code(err)), 10)
}
