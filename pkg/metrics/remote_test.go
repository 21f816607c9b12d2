package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestRemoteCallMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRemoteCallMetrics(reg)

	m.Observe("getCart", 250*time.Millisecond, nil)
	m.Observe("getCart", 100*time.Millisecond, errors.New("timeout"))

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "catalog_call_success", "operation", "getCart"); err != nil || got != 1 {
		t.Fatalf("fetch success: got %v err %v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "catalog_call_failure", "operation", "getCart"); err != nil || got != 1 {
		t.Fatalf("fetch failure: got %v err %v", got, err)
	}
}

func TestRemoteCallMetricsNilRegistererIsNoop(t *testing.T) {
	m := NewRemoteCallMetrics(nil)
	m.Observe("getCart", time.Second, nil)

	var nilMetrics *RemoteCallMetrics
	nilMetrics.Observe("getCart", time.Second, nil)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, labelKey, labelVal string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == labelKey && label.GetValue() == labelVal {
					return metric.GetCounter().GetValue(), nil
				}
			}
		}
	}
	return 0, fmt.Errorf("metric %s{%s=%q} not found", name, labelKey, labelVal)
}
