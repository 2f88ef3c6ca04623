package metrics

import (
	"math/big"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func gathered(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	metrics:
		for _, metric := range family.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if labels[pair.GetName()] != pair.GetValue() {
					continue metrics
				}
			}
			if counter := metric.GetCounter(); counter != nil {
				return counter.GetValue()
			}
			return metric.GetGauge().GetValue()
		}
	}
	return 0
}

func TestVaultMetricsRecord(t *testing.T) {
	m := Vault()
	if Vault() != m {
		t.Fatalf("registry should be a singleton")
	}
	labels := map[string]string{"op": "Stake", "outcome": "state"}
	before := gathered(t, "timeflow_vault_operations_total", labels)
	m.Observe("Stake", "state", time.Millisecond)
	if got := gathered(t, "timeflow_vault_operations_total", labels); got != before+1 {
		t.Fatalf("expected counter increment, got %v", got)
	}
	m.RecordSnapshot(Snapshot{TotalStaked: big.NewInt(42), ActiveStreams: 3})
	if got := gathered(t, "timeflow_vault_total_staked", nil); got != 42 {
		t.Fatalf("unexpected total staked gauge %v", got)
	}
	if got := gathered(t, "timeflow_vault_active_streams", nil); got != 3 {
		t.Fatalf("unexpected active streams gauge %v", got)
	}
	var nilMetrics *VaultMetrics
	nilMetrics.Observe("x", "", 0)
	nilMetrics.RecordForfeit(big.NewInt(1))
}
