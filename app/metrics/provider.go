package metrics

import (
	"strconv"
	"time"
)

// Recorder is what the rest of the app reports to.
type Recorder interface {
	ObserveUpstream(resource string, status int, d time.Duration)
	CacheHit(driver string)
	CacheMiss(driver string)
	ObserveHTTP(route, method string, status int, d time.Duration)
	RateLimited()
	SignedIn()
}

type PrometheusRecorder struct{}

func NewPrometheusRecorder() Recorder {
	return &PrometheusRecorder{}
}

func (p *PrometheusRecorder) ObserveUpstream(resource string, status int, d time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(resource, statusLabel(status)).Inc()
	UpstreamRequestDuration.WithLabelValues(resource).Observe(d.Seconds())
}

func (p *PrometheusRecorder) CacheHit(driver string) {
	CacheHitsTotal.WithLabelValues(driver).Inc()
}

func (p *PrometheusRecorder) CacheMiss(driver string) {
	CacheMissesTotal.WithLabelValues(driver).Inc()
}

func (p *PrometheusRecorder) ObserveHTTP(route, method string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

func (p *PrometheusRecorder) RateLimited() {
	RateLimitedTotal.Inc()
}

func (p *PrometheusRecorder) SignedIn() {
	SignInsTotal.Inc()
}

// statusLabel maps 0 (transport failure) to "error".
func statusLabel(status int) string {
	if status == 0 {
		return "error"
	}
	return strconv.Itoa(status)
}

// Nop discards everything.
type Nop struct{}

func (Nop) ObserveUpstream(string, int, time.Duration)     {}
func (Nop) CacheHit(string)                                {}
func (Nop) CacheMiss(string)                               {}
func (Nop) ObserveHTTP(string, string, int, time.Duration) {}
func (Nop) RateLimited()                                   {}
func (Nop) SignedIn()                                      {}
