// internal/service/orchestrator/application/metrics.go
package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "warehouse",
		Subsystem: "orchestrator",
		Name:      "cycles_total",
		Help:      "Completed orchestration cycles, by outcome.",
	}, []string{"outcome"})

	callFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "warehouse",
		Subsystem: "orchestrator",
		Name:      "call_failures_total",
		Help:      "Failed calls to collaborators, by call.",
	}, []string{"call"})

	replenishmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "warehouse",
		Subsystem: "orchestrator",
		Name:      "replenishments_total",
		Help:      "Successful replenishments, by product.",
	}, []string{"product"})

	malformedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "warehouse",
		Subsystem: "orchestrator",
		Name:      "malformed_quantities_total",
		Help:      "Malformed quantities held back from the ledger, by product.",
	}, []string{"product"})
)
