package prom

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func TestPointsCounters(t *testing.T) {
	require.NoError(t, Create("test-host", "test", "storefront"))

	PointsAdjusted(100)
	PointsAdjusted(50)
	PointsAdjusted(-20)
	PendingGrantRecorded()
	PointsFailure("balance_update")

	assert.Equal(t, float64(2), testutil.ToFloat64(counterVecs[SystemPoints+MetricPointsAdjustments].WithLabelValues("grant")))
	assert.Equal(t, float64(1), testutil.ToFloat64(counterVecs[SystemPoints+MetricPointsAdjustments].WithLabelValues("deduct")))
	assert.Equal(t, float64(1), testutil.ToFloat64(counters[SystemPoints+MetricPointsPendingGrants]))
	assert.Equal(t, float64(1), testutil.ToFloat64(counterVecs[SystemPoints+MetricPointsFailures].WithLabelValues("balance_update")))
}

func TestCreateIsRepeatable(t *testing.T) {
	require.NoError(t, Create("h", "test", "storefront"))
	require.NoError(t, Create("h", "test", "storefront"))
}

func TestCreateMetricUnknownType(t *testing.T) {
	require.NoError(t, Create("h", "test", "storefront"))
	assert.Error(t, CreateMetric("summary", "x", "y"))
}

func TestRequestMetricsMiddleware(t *testing.T) {
	require.NoError(t, Create("h", "test", "storefront"))

	h := RequestMetricsMiddleware(func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusCreated)
	})
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod("POST")
	h(ctx)

	n, err := testutil.GatherAndCount(Gatherer(), "storefront_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
