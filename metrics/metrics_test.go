package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersAndCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.RowsProcessed.WithLabelValues("cchs2001").Add(131)
	c.CellsTagged.WithLabelValues("b").Inc()
	c.Runs.Inc()

	assert.Equal(t, float64(131), testutil.ToFloat64(c.RowsProcessed.WithLabelValues("cchs2001")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.CellsTagged.WithLabelValues("b")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
