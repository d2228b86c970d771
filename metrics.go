package florafolio

import "sync/atomic"

// MetricID identifies an engine counter.
type MetricID uint8

const (
	// MetricLoginSuccess counts successful logins.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts rejected credential checks.
	MetricLoginFailure
	// MetricLoginRateLimited counts logins refused by the throttle.
	MetricLoginRateLimited
	// MetricRegisterSuccess counts created accounts.
	MetricRegisterSuccess
	// MetricLogout counts revocations via logout.
	MetricLogout
	// MetricPasswordChange counts successful password changes.
	MetricPasswordChange
	// MetricUsernameChange counts successful username changes.
	MetricUsernameChange
	// MetricTokenRejected counts tokens rejected during validation.
	MetricTokenRejected

	metricCount
)

var metricNames = map[MetricID]string{
	MetricLoginSuccess:     "login_success",
	MetricLoginFailure:     "login_failure",
	MetricLoginRateLimited: "login_rate_limited",
	MetricRegisterSuccess:  "register_success",
	MetricLogout:           "logout",
	MetricPasswordChange:   "password_change",
	MetricUsernameChange:   "username_change",
	MetricTokenRejected:    "token_rejected",
}

// String returns the stable wire name of the metric.
func (id MetricID) String() string {
	if name, ok := metricNames[id]; ok {
		return name
	}
	return "unknown"
}

// Metrics is a fixed set of in-process counters. All methods are safe for
// concurrent use and never block.
type Metrics struct {
	counters [metricCount]atomic.Uint64
}

// NewMetrics returns a zeroed counter set.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Inc adds one to the counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// MetricsSnapshot is a point-in-time copy of the engine counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot copies the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricCount)}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}
