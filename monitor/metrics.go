package monitor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OperationsCount counts engine operations by outcome
var OperationsCount = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "distribution",
	Name:      "operations_total",
	Help:      "Number of distribution operations by result",
}, []string{"operation", "result"})

// OperationDelay measures the latency of engine operations
var OperationDelay = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "distribution",
	Name:      "operation_duration_seconds",
	Help:      "Duration of distribution operations",
	Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
}, []string{"operation"})

// ClaimedAmount is the sum of the units minted through claims
var ClaimedAmount = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "distribution",
	Name:      "claimed_units_total",
	Help:      "Units minted through claims",
})

// BurnedAmount is the sum of the units burned
var BurnedAmount = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "distribution",
	Name:      "burned_units_total",
	Help:      "Units burned",
})

// AdminMintedAmount is the sum of the units minted by the administrator
var AdminMintedAmount = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "distribution",
	Name:      "admin_minted_units_total",
	Help:      "Units minted by the administrator outside of the supply limit",
})

// TotalMinted mirrors the running total of the configuration
var TotalMinted = prometheus.NewGauge(prometheus.GaugeOpts{
	Namespace: "distribution",
	Name:      "total_minted",
	Help:      "Units minted through claims since initialization",
})

// SupplyLimit mirrors the total supply limit
var SupplyLimit = prometheus.NewGauge(prometheus.GaugeOpts{
	Namespace: "distribution",
	Name:      "total_supply_limit",
	Help:      "Maximum units the claim path may mint",
})

// Paused is 1 while the emergency pause is active
var Paused = prometheus.NewGauge(prometheus.GaugeOpts{
	Namespace: "distribution",
	Name:      "emergency_paused",
	Help:      "Emergency pause state",
})

// BlacklistSize is the number of banned identities
var BlacklistSize = prometheus.NewGauge(prometheus.GaugeOpts{
	Namespace: "distribution",
	Name:      "blacklist_size",
	Help:      "Identities in the blacklist",
})

// BlacklistDrift is the number of claim records whose mirrored flag disagrees with the blacklist
var BlacklistDrift = prometheus.NewGauge(prometheus.GaugeOpts{
	Namespace: "distribution",
	Name:      "blacklist_mirror_drift",
	Help:      "Claim records out of sync with the blacklist",
})

// UserClaimsCount is the number of known claimants
var UserClaimsCount = prometheus.NewGauge(prometheus.GaugeOpts{
	Namespace: "distribution",
	Name:      "user_claims",
	Help:      "Claimants with a claim record",
})

// APIRequestQueue is the number of mutating HTTP requests in flight
var APIRequestQueue = prometheus.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "distribution",
	Name:      "api_requests_in_flight",
	Help:      "Mutating requests being processed",
}, []string{"method"})

func init() {
	prometheus.MustRegister(
		OperationsCount,
		OperationDelay,
		ClaimedAmount,
		BurnedAmount,
		AdminMintedAmount,
		TotalMinted,
		SupplyLimit,
		Paused,
		BlacklistSize,
		BlacklistDrift,
		UserClaimsCount,
		APIRequestQueue,
	)
}

// ObserveOperation records the outcome and duration of an operation started at start
func ObserveOperation(operation string, start time.Time, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	OperationsCount.WithLabelValues(operation, result).Inc()
	OperationDelay.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// BoolGauge converts a flag into a gauge value
func BoolGauge(flag bool) float64 {
	if flag {
		return 1
	}
	return 0
}
