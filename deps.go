// deps.go defines minimal interfaces for external dependencies.
// This allows for easy mocking in tests and decouples the submitter from the SDK.
package txsubmitter

import (
	"github.com/aptos-labs/aptos-go-sdk"
)

// Signer is the account a transaction is built, simulated and signed for.
// The aptos-go-sdk backed NodeClient additionally requires it to implement
// aptos.TransactionSigner, which *aptos.Account does.
type Signer interface {
	AccountAddress() aptos.AccountAddress
}

// EntryFunctionCall is the unsigned description of an entry function invocation.
// Type arguments are always empty for this submitter.
type EntryFunctionCall struct {
	Function FunctionID
	Args     [][]byte
}

// RawTx is an unsigned transaction generated by a NodeClient.
type RawTx struct {
	Sender aptos.AccountAddress
	Call   *EntryFunctionCall

	// raw is set by the aptos-go-sdk adapter, test doubles leave it nil
	raw *aptos.RawTransaction
}

// SignedTx is a RawTx plus its authenticator. It is opaque outside the NodeClient.
type SignedTx struct {
	Tx *RawTx

	signed *aptos.SignedTransaction
}

// NodeClient defines the minimal interface for talking to an Aptos full node.
type NodeClient interface {
	// GenerateTransaction builds an unsigned transaction, fetching sequence number,
	// gas price and chain id from the node as needed
	GenerateTransaction(sender Signer, call *EntryFunctionCall) (*RawTx, error)

	// SimulateTransaction dry-runs the transaction against current state without committing it
	SimulateTransaction(sender Signer, txn *RawTx) (*SimulationResult, error)

	// SignTransaction signs the transaction with the sender's key
	SignTransaction(sender Signer, txn *RawTx) (*SignedTx, error)

	// SubmitTransaction submits a signed transaction and returns its hash
	SubmitTransaction(signed *SignedTx) (hash string, err error)

	// WaitForTransaction blocks until the transaction is committed or rejected
	WaitForTransaction(hash string) (*Receipt, error)

	// AccountResource returns the data of a single resource stored under address
	AccountResource(address aptos.AccountAddress, resourceType string) (map[string]any, error)
}

// Faucet credits accounts on non-production networks.
type Faucet interface {
	Fund(address aptos.AccountAddress, amount uint64) error
}

// NodeClientFactory creates a NodeClient for a given network.
// This allows injecting mock clients for testing.
type NodeClientFactory func(network Network, defaults SubmitterDefaults) (NodeClient, error)

// FaucetFactory creates a Faucet for a given network.
// This allows injecting mock faucets for testing.
type FaucetFactory func(network Network) (Faucet, error)
