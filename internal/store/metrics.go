package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation results used as metric labels.
const (
	resultOK       = "ok"
	resultNotFound = "not_found"
	resultInvalid  = "invalid"
	resultNoop     = "noop"
)

var (
	itemsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shoppinglist_items",
			Help: "Number of items currently on the shopping list",
		},
	)

	purchasedGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shoppinglist_items_purchased",
			Help: "Number of items currently marked as purchased",
		},
	)

	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoppinglist_operations_total",
			Help: "Total number of shopping list operations by outcome",
		},
		[]string{"operation", "result"},
	)
)
