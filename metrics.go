package txsubmitter

import (
	"errors"

	"github.com/KyberNetwork/logger"
	"github.com/prometheus/client_golang/prometheus"
)

// Simulation outcome label values
const (
	simulationOutcomeSuccess   = "success"
	simulationOutcomeRetryable = "retryable"
	simulationOutcomeFailed    = "failed"
	simulationOutcomeError     = "error"
)

// Submission result label values
const (
	submissionResultCommitted = "committed"
	submissionResultAborted   = "aborted"
	submissionResultError     = "error"
)

// Metrics groups the counters a Submitter updates.
type Metrics struct {
	Simulations *prometheus.CounterVec
	TopUps      prometheus.Counter
	Submissions *prometheus.CounterVec
}

// NewMetrics creates the submitter counters and registers them on reg when reg is not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Simulations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aptos",
			Subsystem: "txsubmitter",
			Name:      "simulations_total",
			Help:      "Transaction simulations by outcome",
		}, []string{"outcome"}),
		TopUps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aptos",
			Subsystem: "txsubmitter",
			Name:      "faucet_topups_total",
			Help:      "Faucet credits performed before a retry",
		}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aptos",
			Subsystem: "txsubmitter",
			Name:      "submissions_total",
			Help:      "Submitted transactions by final result",
		}, []string{"result"}),
	}
	if reg == nil {
		return m, nil
	}

	var err error
	if m.Simulations, err = register(reg, m.Simulations); err != nil {
		return nil, err
	}
	if m.TopUps, err = register(reg, m.TopUps); err != nil {
		return nil, err
	}
	if m.Submissions, err = register(reg, m.Submissions); err != nil {
		return nil, err
	}
	return m, nil
}

// register registers c, reusing the collector already registered under the same name.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) observeSimulation(outcome string) {
	if m == nil {
		return
	}
	m.Simulations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeTopUp() {
	if m == nil {
		return
	}
	m.TopUps.Inc()
}

func (m *Metrics) observeSubmission(result string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(result).Inc()
}

func logMetricsError(err error) {
	logger.WithFields(logger.Fields{
		"error": err,
	}).Error("Failed to register submitter metrics. Ignore and continue")
}
