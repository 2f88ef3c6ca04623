package metrics

import (
	"math/big"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// VaultMetrics exposes operation outcomes and ledger aggregates.
type VaultMetrics struct {
	operations       *prometheus.CounterVec
	latency          *prometheus.HistogramVec
	totalStaked      prometheus.Gauge
	rewardsAvailable prometheus.Gauge
	feesCollected    prometheus.Gauge
	heldBalance      prometheus.Gauge
	activeStreams    prometheus.Gauge
	forfeited        prometheus.Counter
}

var (
	vaultOnce     sync.Once
	vaultRegistry *VaultMetrics
)

// Vault returns the process-wide vault metrics, registering them on first use.
func Vault() *VaultMetrics {
	vaultOnce.Do(func() {
		vaultRegistry = &VaultMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "timeflow",
				Subsystem: "vault",
				Name:      "operations_total",
				Help:      "Count of vault operations by name and outcome.",
			}, []string{"op", "outcome"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "timeflow",
				Subsystem: "vault",
				Name:      "operation_duration_seconds",
				Help:      "Latency of vault operations.",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
			}, []string{"op"}),
			totalStaked: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "timeflow",
				Subsystem: "vault",
				Name:      "total_staked",
				Help:      "Sum of open stake positions.",
			}),
			rewardsAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "timeflow",
				Subsystem: "vault",
				Name:      "rewards_available",
				Help:      "Spendable residual of the fee pool.",
			}),
			feesCollected: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "timeflow",
				Subsystem: "vault",
				Name:      "fees_collected",
				Help:      "Streaming fees collected since genesis.",
			}),
			heldBalance: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "timeflow",
				Subsystem: "vault",
				Name:      "held_balance",
				Help:      "Balance of the vault module account.",
			}),
			activeStreams: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "timeflow",
				Subsystem: "vault",
				Name:      "active_streams",
				Help:      "Number of streams that have not been cancelled.",
			}),
			forfeited: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "timeflow",
				Subsystem: "vault",
				Name:      "rewards_forfeited_total",
				Help:      "Theoretical rewards the pool could not cover at claim time.",
			}),
		}
		prometheus.MustRegister(
			vaultRegistry.operations,
			vaultRegistry.latency,
			vaultRegistry.totalStaked,
			vaultRegistry.rewardsAvailable,
			vaultRegistry.feesCollected,
			vaultRegistry.heldBalance,
			vaultRegistry.activeStreams,
			vaultRegistry.forfeited,
		)
	})
	return vaultRegistry
}

// Observe records one operation. outcome is "ok" or the rejection kind.
func (m *VaultMetrics) Observe(op, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "ok"
	}
	m.operations.WithLabelValues(op, outcome).Inc()
	m.latency.WithLabelValues(op).Observe(duration.Seconds())
}

// Snapshot carries the aggregates published after every committed mutation.
type Snapshot struct {
	TotalStaked      *big.Int
	RewardsAvailable *big.Int
	FeesCollected    *big.Int
	HeldBalance      *big.Int
	ActiveStreams    int
}

// RecordSnapshot updates the aggregate gauges.
func (m *VaultMetrics) RecordSnapshot(s Snapshot) {
	if m == nil {
		return
	}
	m.totalStaked.Set(bigToFloat(s.TotalStaked))
	m.rewardsAvailable.Set(bigToFloat(s.RewardsAvailable))
	m.feesCollected.Set(bigToFloat(s.FeesCollected))
	m.heldBalance.Set(bigToFloat(s.HeldBalance))
	m.activeStreams.Set(float64(s.ActiveStreams))
}

// RecordForfeit adds the unpaid part of a reward claim.
func (m *VaultMetrics) RecordForfeit(amount *big.Int) {
	if m == nil || amount == nil || amount.Sign() <= 0 {
		return
	}
	m.forfeited.Add(bigToFloat(amount))
}

func bigToFloat(value *big.Int) float64 {
	if value == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(value).Float64()
	return f
}
