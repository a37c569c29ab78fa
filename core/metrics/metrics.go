// Package metrics exports execution counters to prometheus.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/types"
)

const (
	labelCallType = "call_type"
	labelOutcome  = "outcome"
)

// Metrics holds the counters recorded once per request.
type Metrics struct {
	gasUsed   *prometheus.CounterVec
	gasLimit  *prometheus.CounterVec
	requests  *prometheus.CounterVec
	throttled *prometheus.CounterVec
}

func NewCollector(prom prometheus.Registerer) (*Metrics, error) {
	gasUsed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web3_gas_used_total",
			Help: "Gas used by executed requests.",
		},
		[]string{labelCallType},
	)
	gasLimit := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web3_gas_limit_total",
			Help: "Gas limit requested by executed requests.",
		},
		[]string{labelCallType},
	)
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web3_requests_total",
			Help: "Executed requests by outcome.",
		},
		[]string{labelCallType, labelOutcome},
	)
	throttled := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web3_throttled_total",
			Help: "Requests rejected by the throttle.",
		},
		[]string{labelCallType},
	)

	var err error
	if gasUsed, err = registerCollector(prom, gasUsed); err != nil {
		return nil, err
	}
	if gasLimit, err = registerCollector(prom, gasLimit); err != nil {
		return nil, err
	}
	if requests, err = registerCollector(prom, requests); err != nil {
		return nil, err
	}
	if throttled, err = registerCollector(prom, throttled); err != nil {
		return nil, err
	}

	return &Metrics{
		gasUsed:   gasUsed,
		gasLimit:  gasLimit,
		requests:  requests,
		throttled: throttled,
	}, nil
}

// AddGas records the gas a request used out of the limit it asked for.
func (m *Metrics) AddGas(callType types.CallType, used, limit uint64) {
	labels := prometheus.Labels{labelCallType: callType.String()}
	m.gasUsed.With(labels).Add(float64(used))
	m.gasLimit.With(labels).Add(float64(limit))
}

// IncRequest counts a finished request. outcome is empty on success.
func (m *Metrics) IncRequest(callType types.CallType, outcome string) {
	if outcome == "" {
		outcome = "SUCCESS"
	}
	m.requests.With(prometheus.Labels{
		labelCallType: callType.String(),
		labelOutcome:  outcome,
	}).Inc()
}

func (m *Metrics) IncThrottled(callType types.CallType) {
	m.throttled.With(prometheus.Labels{labelCallType: callType.String()}).Inc()
}

var ErrWrongMetricType = errors.New("collector already registered with different type")

// registerCollector registers a Prometheus collector and returns the registered collector or an error
func registerCollector[T prometheus.Collector](prom prometheus.Registerer, c T) (T, error) {
	err := prom.Register(c)
	if err == nil {
		return c, nil
	}

	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return c, err
	}

	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return c, ErrWrongMetricType
	}

	return existing, nil
}
