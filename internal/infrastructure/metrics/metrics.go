package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Ledger metrics
	OperationsBooked *prometheus.CounterVec
	OperationAmount  prometheus.Histogram
	TransfersBooked  prometheus.Counter
	BookingErrors    *prometheus.CounterVec

	// Account metrics
	AccountsOpened *prometheus.CounterVec

	// Consistency metrics
	DriftedAccounts prometheus.Gauge
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		OperationsBooked: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_operations_booked_total",
				Help: "Total number of ledger operations booked by type",
			},
			[]string{"type"},
		),
		OperationAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "bankledger_operation_amount",
			Help:    "Booked operation amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		TransfersBooked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_transfers_booked_total",
			Help: "Total number of transfers booked",
		}),
		BookingErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_booking_errors_total",
				Help: "Total number of rejected bookings by reason",
			},
			[]string{"reason"},
		),
		AccountsOpened: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_accounts_opened_total",
				Help: "Total number of accounts opened by kind",
			},
			[]string{"kind"},
		),
		DriftedAccounts: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "bankledger_drifted_accounts",
			Help: "Accounts whose stored balance differs from the replayed one",
		}),
	}
}
