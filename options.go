package txsubmitter

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SubmitterOption is a function that configures a Submitter
type SubmitterOption func(*Submitter)

// WithDefaultRetryBudget sets the default number of fund-and-retry cycles
func WithDefaultRetryBudget(budget int) SubmitterOption {
	return func(s *Submitter) {
		if budget < 0 {
			budget = 0
		}
		s.defaults.RetryBudget = budget
	}
}

// WithDefaultFundAmount sets the amount credited by the faucet before each retry
func WithDefaultFundAmount(amount uint64) SubmitterOption {
	return func(s *Submitter) {
		s.defaults.FundAmount = amount
	}
}

// WithDefaultNetwork sets the default network for transactions
func WithDefaultNetwork(network Network) SubmitterOption {
	return func(s *Submitter) {
		s.defaults.Network = network
	}
}

// WithDefaultFinalityTimeout sets how long to wait for a submitted transaction to become final
func WithDefaultFinalityTimeout(timeout time.Duration) SubmitterOption {
	return func(s *Submitter) {
		s.defaults.FinalityTimeout = timeout
	}
}

// WithDefaultPollPeriod sets how often the node is polled while waiting for finality
func WithDefaultPollPeriod(period time.Duration) SubmitterOption {
	return func(s *Submitter) {
		s.defaults.PollPeriod = period
	}
}

// WithDefaultResourceRetry sets how many times and how often ReadResource polls
func WithDefaultResourceRetry(attempts uint, delay time.Duration) SubmitterOption {
	return func(s *Submitter) {
		s.defaults.ResourceAttempts = attempts
		s.defaults.ResourceDelay = delay
	}
}

// WithDefaults sets all default configuration at once
func WithDefaults(defaults SubmitterDefaults) SubmitterOption {
	return func(s *Submitter) {
		s.defaults = defaults
	}
}

// WithNodeClientFactory sets a custom node client factory for testing or alternative implementations
func WithNodeClientFactory(factory NodeClientFactory) SubmitterOption {
	return func(s *Submitter) {
		s.nodeClientFactory = factory
	}
}

// WithFaucetFactory sets a custom faucet factory for testing or alternative implementations
func WithFaucetFactory(factory FaucetFactory) SubmitterOption {
	return func(s *Submitter) {
		s.faucetFactory = factory
	}
}

// WithRetryPredicate replaces IsOutOfGas as the rule deciding which simulation
// statuses are worth a faucet top-up and another attempt.
func WithRetryPredicate(predicate RetryPredicate) SubmitterOption {
	return func(s *Submitter) {
		s.retryPredicate = predicate
	}
}

// WithTxStore sets a transaction store for tracking submitted transactions.
// This enables recovery of transactions whose finality was not observed.
func WithTxStore(store TxStore) SubmitterOption {
	return func(s *Submitter) {
		s.txStore = store
	}
}

// WithNetworkResolver sets how Recover maps stored network names back to networks.
// This is required when transactions were submitted to networks that are neither
// the default network nor one of the named presets.
func WithNetworkResolver(resolver NetworkResolver) SubmitterOption {
	return func(s *Submitter) {
		s.networkResolver = resolver
	}
}

// WithMetrics sets the counters updated by the submitter
func WithMetrics(m *Metrics) SubmitterOption {
	return func(s *Submitter) {
		s.metrics = m
	}
}

// WithMetricsRegisterer creates the submitter counters and registers them on reg.
// Registration errors are logged and leave metrics disabled.
func WithMetricsRegisterer(reg prometheus.Registerer) SubmitterOption {
	return func(s *Submitter) {
		m, err := NewMetrics(reg)
		if err != nil {
			logMetricsError(err)
			return
		}
		s.metrics = m
	}
}
