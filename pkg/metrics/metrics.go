package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PaymentsCapturedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_captured_total",
			Help: "Total number of captured payments",
		},
		[]string{"currency"},
	)

	PaymentsFailedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_failed_total",
			Help: "Total number of failed payments",
		},
	)

	PaymentsRefundedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_refunded_total",
			Help: "Total number of refunded payments",
		},
	)

	CaptureAmountHistogram = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "payment_capture_amount",
			Help:    "Histogram of captured payment amounts in major currency units",
			Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000},
		},
	)

	WalletTransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_transactions_total",
			Help: "Total number of wallet ledger transactions",
		},
		[]string{"type"},
	)

	SettlementsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlements_processed_total",
			Help: "Total number of processed settlement requests",
		},
		[]string{"status"},
	)
)
