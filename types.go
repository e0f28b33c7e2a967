package txsubmitter

import (
	"time"
)

// Constants for transaction submission
const (
	DefaultRetryBudget = 2
	DefaultFundAmount  = uint64(5000) // Octas credited by the faucet before each retry

	DefaultFinalityTimeout = 30 * time.Second
	DefaultPollPeriod      = 100 * time.Millisecond

	// Resource reads poll because a fresh write can lag on the read node
	DefaultResourceAttempts = 5
	DefaultResourceDelay    = time.Second
)

// Devnet endpoints used by the demo flow
const (
	DevnetNodeURL   = "https://fullnode.devnet.aptoslabs.com/v1"
	DevnetFaucetURL = "https://faucet.devnet.aptoslabs.com"
)

// TxExecutionResult represents the outcome of a single submission attempt
type TxExecutionResult struct {
	Simulation   *SimulationResult
	Receipt      *Receipt
	ShouldRetry  bool
	ShouldReturn bool
	Error        error
}

// SimulationResult is the node's prediction for a transaction that was not committed.
type SimulationResult struct {
	Success  bool
	VmStatus string
	GasUsed  uint64
	Hash     string
}

// Receipt describes a transaction after the node reported it final.
// Success is false when the transaction was committed but aborted on chain.
type Receipt struct {
	Hash     string
	Success  bool
	VmStatus string
	GasUsed  uint64
	Version  uint64
}

// SubmitterDefaults holds default configuration values that are inherited by TxRequest
type SubmitterDefaults struct {
	// Retry configuration
	RetryBudget int
	FundAmount  uint64

	// Finality configuration
	FinalityTimeout time.Duration
	PollPeriod      time.Duration

	// Resource read configuration
	ResourceAttempts uint
	ResourceDelay    time.Duration

	// Default network (if not specified in request)
	Network Network
}

// DefaultSubmitterDefaults returns the defaults used when no option overrides them.
func DefaultSubmitterDefaults() SubmitterDefaults {
	return SubmitterDefaults{
		RetryBudget:      DefaultRetryBudget,
		FundAmount:       DefaultFundAmount,
		FinalityTimeout:  DefaultFinalityTimeout,
		PollPeriod:       DefaultPollPeriod,
		ResourceAttempts: DefaultResourceAttempts,
		ResourceDelay:    DefaultResourceDelay,
		Network:          DevnetNetwork,
	}
}
