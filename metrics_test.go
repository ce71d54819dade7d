package hxhydrate

import (
	"context"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// counterValue sums a counter family's samples with the given status label.
func counterValue(t *testing.T, reg *prometheus.Registry, name, status string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "status" && l.GetValue() == status {
					total += m.GetCounter().GetValue()
				}
			}
		}
	}
	return total
}

func TestMetrics(t *testing.T) {
	srv := NewTestServer().
		Fragment("/ok", `<div id="viewer" data-component="/ok2"></div>`).
		Fragment("/ok2", `fine`).
		Status("/bad", http.StatusInternalServerError).
		Status("/save", http.StatusNoContent)
	defer srv.Close()

	reg := prometheus.NewRegistry()
	page := `<div data-component="/ok"></div><div data-component="/bad"></div>` +
		`<button id="save" data-form="g" data-action-target="/save"></button>`

	result, err := HydrateHTML(context.Background(), srv, page, WithMetrics(NewMetrics(reg)), quiet())
	if err != nil {
		t.Fatal(err)
	}
	eng := result.Engine
	ctx := context.Background()

	if err := eng.ActivateByID(ctx, "save"); err != nil {
		t.Fatal(err)
	}
	eng.Trigger(ctx, "viewer", "")
	eng.Trigger(ctx, "missing", "")

	tests := []struct {
		name   string
		status string
		want   float64
	}{
		{"hxhydrate_loads_total", "loaded", 3},
		{"hxhydrate_loads_total", "error", 1},
		{"hxhydrate_updates_total", "ok", 1},
		{"hxhydrate_triggers_total", "loaded", 1},
		{"hxhydrate_triggers_total", "not_found", 1},
	}
	for _, tt := range tests {
		if got := counterValue(t, reg, tt.name, tt.status); got != tt.want {
			t.Errorf("%s{status=%q} = %v, want %v", tt.name, tt.status, got, tt.want)
		}
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.observeLoad(Outcome{Status: StatusLoaded}, 0)
	m.observeUpdate(nil)
	m.observeTrigger(Outcome{})
}
