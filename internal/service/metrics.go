package service

import "github.com/prometheus/client_golang/prometheus"

var (
	scansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_scans_total",
			Help: "Barcode and name scans by outcome",
		},
		[]string{"result"},
	)

	checkoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_checkouts_total",
			Help: "Checkout submissions by outcome",
		},
		[]string{"status"},
	)

	salesAmountTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pos_sales_amount_total",
			Help: "Sum of completed sale totals",
		},
	)

	returnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_returns_total",
			Help: "Return submissions by outcome",
		},
		[]string{"status"},
	)

	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pos_active_sessions",
			Help: "Cashier sessions currently open",
		},
	)
)

// Collectors lists the domain metrics for registration next to the HTTP ones
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{scansTotal, checkoutsTotal, salesAmountTotal, returnsTotal, activeSessions}
}
