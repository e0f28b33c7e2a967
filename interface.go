package txsubmitter

import (
	"context"

	"github.com/aptos-labs/aptos-go-sdk"
)

// TxSubmitter defines the interface for transaction submission operations.
// This interface allows for easy mocking in tests and provides a stable API contract.
type TxSubmitter interface {
	// Network Infrastructure
	Node(network Network) (NodeClient, error)
	Faucet(network Network) (Faucet, error)

	// Default Configuration
	Defaults() SubmitterDefaults
	SetDefaults(defaults SubmitterDefaults)

	// Persistence
	TxStore() TxStore
	Recover(ctx context.Context, opts RecoveryOptions) (*RecoveryResult, error)

	// Accounts and Resources
	FundAccount(network Network, address aptos.AccountAddress, amount uint64) error
	ReadResource(ctx context.Context, network Network, address aptos.AccountAddress, resourceType string) (map[string]any, error)

	// High-Level Transaction Execution
	Submit(
		network Network,
		signer Signer,
		function FunctionID,
		args [][]byte,
		retryBudget int,
	) (string, error)

	SubmitContext(
		ctx context.Context,
		network Network,
		signer Signer,
		function FunctionID,
		args [][]byte,
		retryBudget int,
		fundAmount uint64,
		beforeSubmitHook Hook,
		afterSubmitHook AfterSubmitHook,
		txConfirmedHook TxConfirmedHook,
		simulationHook SimulationHook,
	) (string, *Receipt, error)

	// Builder Pattern Entry Point
	R() *TxRequest
}

// Compile-time check that Submitter implements TxSubmitter
var _ TxSubmitter = (*Submitter)(nil)
