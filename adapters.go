// adapters.go provides adapter implementations that wrap aptos-go-sdk types
// to implement the minimal interfaces defined in deps.go.
package txsubmitter

import (
	"errors"
	"fmt"
	"time"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/api"
)

// ErrSignerUnsupported is returned by the SDK adapter when a Signer cannot sign transactions.
var ErrSignerUnsupported = fmt.Errorf("signer does not implement aptos.TransactionSigner")

// aptosNode is the subset of *aptos.Client used by nodeAdapter
type aptosNode interface {
	BuildTransaction(sender aptos.AccountAddress, payload aptos.TransactionPayload, options ...any) (*aptos.RawTransaction, error)
	SimulateTransaction(rawTxn *aptos.RawTransaction, sender aptos.TransactionSigner, options ...any) ([]*api.UserTransaction, error)
	SubmitTransaction(signedTxn *aptos.SignedTransaction) (*api.SubmitTransactionResponse, error)
	WaitForTransaction(txnHash string, options ...any) (*api.UserTransaction, error)
	AccountResource(address aptos.AccountAddress, resourceType string, ledgerVersion ...uint64) (map[string]any, error)
}

// nodeAdapter wraps an aptos-go-sdk client to implement our NodeClient interface
type nodeAdapter struct {
	client          aptosNode
	finalityTimeout time.Duration
	pollPeriod      time.Duration
}

// NewNodeClientAdapter creates a NodeClient from an aptos-go-sdk client
func NewNodeClientAdapter(client aptosNode, finalityTimeout, pollPeriod time.Duration) NodeClient {
	if finalityTimeout <= 0 {
		finalityTimeout = DefaultFinalityTimeout
	}
	if pollPeriod <= 0 {
		pollPeriod = DefaultPollPeriod
	}
	return &nodeAdapter{
		client:          client,
		finalityTimeout: finalityTimeout,
		pollPeriod:      pollPeriod,
	}
}

func (n *nodeAdapter) GenerateTransaction(sender Signer, call *EntryFunctionCall) (*RawTx, error) {
	payload := aptos.TransactionPayload{
		Payload: &aptos.EntryFunction{
			Module: aptos.ModuleId{
				Address: call.Function.Address,
				Name:    call.Function.Module,
			},
			Function: call.Function.Name,
			ArgTypes: []aptos.TypeTag{},
			Args:     call.Args,
		},
	}
	raw, err := n.client.BuildTransaction(sender.AccountAddress(), payload)
	if err != nil {
		return nil, err
	}
	return &RawTx{
		Sender: sender.AccountAddress(),
		Call:   call,
		raw:    raw,
	}, nil
}

func (n *nodeAdapter) SimulateTransaction(sender Signer, txn *RawTx) (*SimulationResult, error) {
	ts, err := transactionSigner(sender)
	if err != nil {
		return nil, err
	}
	if txn == nil || txn.raw == nil {
		return nil, fmt.Errorf("transaction was not generated by this client")
	}
	results, err := n.client.SimulateTransaction(txn.raw, ts)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 || results[0] == nil {
		return nil, ErrEmptySimulation
	}
	r := results[0]
	return &SimulationResult{
		Success:  r.Success,
		VmStatus: r.VmStatus,
		GasUsed:  r.GasUsed,
		Hash:     r.Hash,
	}, nil
}

func (n *nodeAdapter) SignTransaction(sender Signer, txn *RawTx) (*SignedTx, error) {
	ts, err := transactionSigner(sender)
	if err != nil {
		return nil, err
	}
	if txn == nil || txn.raw == nil {
		return nil, fmt.Errorf("transaction was not generated by this client")
	}
	signed, err := txn.raw.SignedTransaction(ts)
	if err != nil {
		return nil, err
	}
	return &SignedTx{Tx: txn, signed: signed}, nil
}

func (n *nodeAdapter) SubmitTransaction(signed *SignedTx) (string, error) {
	if signed == nil || signed.signed == nil {
		return "", fmt.Errorf("transaction was not signed by this client")
	}
	resp, err := n.client.SubmitTransaction(signed.signed)
	if err != nil {
		return "", err
	}
	return resp.Hash, nil
}

func (n *nodeAdapter) WaitForTransaction(hash string) (*Receipt, error) {
	start := time.Now()
	txn, err := n.client.WaitForTransaction(hash, aptos.PollPeriod(n.pollPeriod), aptos.PollTimeout(n.finalityTimeout))
	if err != nil {
		if time.Since(start) >= n.finalityTimeout {
			return nil, errors.Join(ErrFinalityTimeout, err)
		}
		return nil, err
	}
	return &Receipt{
		Hash:     txn.Hash,
		Success:  txn.Success,
		VmStatus: txn.VmStatus,
		GasUsed:  txn.GasUsed,
		Version:  txn.Version,
	}, nil
}

func (n *nodeAdapter) AccountResource(address aptos.AccountAddress, resourceType string) (map[string]any, error) {
	return n.client.AccountResource(address, resourceType)
}

func transactionSigner(sender Signer) (aptos.TransactionSigner, error) {
	ts, ok := sender.(aptos.TransactionSigner)
	if !ok {
		return nil, ErrSignerUnsupported
	}
	return ts, nil
}

func sdkNetworkConfig(network Network) aptos.NetworkConfig {
	return aptos.NetworkConfig{
		Name:      network.Name,
		ChainId:   network.ChainID,
		NodeUrl:   network.NodeURL,
		FaucetUrl: network.FaucetURL,
	}
}

// DefaultNodeClientFactory is the default factory that creates aptos-go-sdk backed node clients
func DefaultNodeClientFactory(network Network, defaults SubmitterDefaults) (NodeClient, error) {
	if network.NodeURL == "" {
		return nil, fmt.Errorf("%w: %s", ErrNetworkNotConfigured, network)
	}
	client, err := aptos.NewClient(sdkNetworkConfig(network))
	if err != nil {
		return nil, err
	}
	return NewNodeClientAdapter(client, defaults.FinalityTimeout, defaults.PollPeriod), nil
}

// DefaultFaucetFactory is the default factory that creates aptos-go-sdk backed faucets.
// *aptos.Client already satisfies Faucet.
func DefaultFaucetFactory(network Network) (Faucet, error) {
	if network.NodeURL == "" {
		return nil, fmt.Errorf("%w: %s", ErrNetworkNotConfigured, network)
	}
	if !network.HasFaucet() {
		return nil, fmt.Errorf("%w: %s", ErrFaucetNotConfigured, network)
	}
	client, err := aptos.NewClient(sdkNetworkConfig(network))
	if err != nil {
		return nil, err
	}
	return client, nil
}
