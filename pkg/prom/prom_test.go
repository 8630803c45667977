package prom

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValues gathers the default registry into name -> "label=value,..." -> value.
func counterValues(t *testing.T) map[string]map[string]float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	out := map[string]map[string]float64{}
	for _, f := range families {
		values := map[string]float64{}
		for _, m := range f.GetMetric() {
			key := ""
			for _, l := range m.GetLabel() {
				if l.GetName() == "op" || l.GetName() == "outcome" {
					key += l.GetName() + "=" + l.GetValue() + ","
				}
			}
			values[key] = m.GetCounter().GetValue()
		}
		out[f.GetName()] = values
	}
	return out
}

// Metrics live in the default registry, so Create runs once per test binary.
func TestCreate(t *testing.T) {
	// recording before Create is a no-op
	InvoiceSave("create", OutcomeSaved)
	assert.False(t, MetricSystemEnabled)

	require.NoError(t, Create("host-1", "test", "school"))
	assert.True(t, MetricSystemEnabled)

	InvoiceSave("create", OutcomeSaved)
	InvoiceSave("create", OutcomeSaved)
	ReceiptSave("delete", OutcomeNotFound)
	AmountPaid(150.5)

	values := counterValues(t)
	require.Contains(t, values, "school_finance_invoice_saves_total")
	require.Contains(t, values, "school_finance_receipt_saves_total")
	require.Contains(t, values, "school_finance_receipt_amount_paid_total")

	assert.Equal(t, 2.0, values["school_finance_invoice_saves_total"]["op=create,outcome=saved,"])
	assert.Equal(t, 1.0, values["school_finance_receipt_saves_total"]["op=delete,outcome=not_found,"])
	assert.Equal(t, 150.5, values["school_finance_receipt_amount_paid_total"][""])
}
