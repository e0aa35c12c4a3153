package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusRecorder(t *testing.T) {
	r := NewPrometheusRecorder()

	before := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("posts", "200"))
	r.ObserveUpstream("posts", 200, 15*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("posts", "200")))

	before = testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("users", "error"))
	r.ObserveUpstream("users", 0, time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("users", "error")))

	before = testutil.ToFloat64(CacheHitsTotal.WithLabelValues("badger"))
	r.CacheHit("badger")
	assert.Equal(t, before+1, testutil.ToFloat64(CacheHitsTotal.WithLabelValues("badger")))

	before = testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/posts", "GET", "404"))
	r.ObserveHTTP("/posts", "GET", 404, time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/posts", "GET", "404")))

	before = testutil.ToFloat64(RateLimitedTotal)
	r.RateLimited()
	assert.Equal(t, before+1, testutil.ToFloat64(RateLimitedTotal))
}
