package txsubmitter

import (
	"errors"
	"fmt"
)

var (
	ErrSimulationFailed     = fmt.Errorf("transaction simulation failed")
	ErrEmptySimulation      = fmt.Errorf("node returned no simulation result")
	ErrBuildTxFailed        = fmt.Errorf("build transaction failed")
	ErrSimulateTxFailed     = fmt.Errorf("couldn't simulate transaction")
	ErrFundAccountFailed    = fmt.Errorf("fund account failed")
	ErrSignTxFailed         = fmt.Errorf("sign transaction failed")
	ErrSubmitTxFailed       = fmt.Errorf("submit transaction failed")
	ErrWaitForTxFailed      = fmt.Errorf("wait for transaction failed")
	ErrFinalityTimeout      = fmt.Errorf("transaction finality not observed before timeout")
	ErrSignerNil            = fmt.Errorf("signer cannot be nil")
	ErrInvalidFunctionID    = fmt.Errorf("invalid function identifier")
	ErrNetworkNotConfigured = fmt.Errorf("network has no node url")
	ErrFaucetNotConfigured  = fmt.Errorf("network has no faucet url")
	ErrUnknownNetwork       = fmt.Errorf("unknown network")
	ErrResourceNotFound     = fmt.Errorf("resource not found")
)

// SimulationError carries the chain-reported outcome of a failed simulation.
// It matches ErrSimulationFailed with errors.Is.
type SimulationError struct {
	VmStatus string
	GasUsed  uint64
	Hash     string
	// Attempts is the number of simulations performed, top-up retries included.
	Attempts int
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("TxFailure: %s", e.VmStatus)
}

func (e *SimulationError) Is(target error) bool {
	return target == ErrSimulationFailed
}

// IsSimulationFailure reports whether err is a terminal simulation failure and returns its details.
func IsSimulationFailure(err error) (*SimulationError, bool) {
	var simErr *SimulationError
	if errors.As(err, &simErr) {
		return simErr, true
	}
	return nil, false
}
