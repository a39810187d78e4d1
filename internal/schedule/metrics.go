package schedule

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roster",
		Subsystem: "schedule",
		Name:      "mutations_total",
		Help:      "Schedule mutations by operation and result.",
	}, []string{"operation", "result"})

	storedWeeks = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "roster",
		Subsystem: "schedule",
		Name:      "stored_weeks",
		Help:      "Number of weeks currently holding at least one assignment.",
	})
)

func observeMutation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	mutationsTotal.WithLabelValues(operation, result).Inc()
}
