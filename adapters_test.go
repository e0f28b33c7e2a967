package txsubmitter

import (
	"errors"
	"testing"
	"time"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAptosNode implements aptosNode for adapter tests
type fakeAptosNode struct {
	BuildPayloads []aptos.TransactionPayload
	BuildErr      error

	SimulateResults []*api.UserTransaction
	SimulateErr     error

	SubmitResp *api.SubmitTransactionResponse

	WaitDelay time.Duration
	WaitTxn   *api.UserTransaction
	WaitErr   error
	WaitOpts  []any

	Resource map[string]any
}

func (f *fakeAptosNode) BuildTransaction(sender aptos.AccountAddress, payload aptos.TransactionPayload, options ...any) (*aptos.RawTransaction, error) {
	f.BuildPayloads = append(f.BuildPayloads, payload)
	if f.BuildErr != nil {
		return nil, f.BuildErr
	}
	return &aptos.RawTransaction{Sender: sender, Payload: payload}, nil
}

func (f *fakeAptosNode) SimulateTransaction(rawTxn *aptos.RawTransaction, sender aptos.TransactionSigner, options ...any) ([]*api.UserTransaction, error) {
	return f.SimulateResults, f.SimulateErr
}

func (f *fakeAptosNode) SubmitTransaction(signedTxn *aptos.SignedTransaction) (*api.SubmitTransactionResponse, error) {
	return f.SubmitResp, nil
}

func (f *fakeAptosNode) WaitForTransaction(txnHash string, options ...any) (*api.UserTransaction, error) {
	f.WaitOpts = options
	if f.WaitDelay > 0 {
		time.Sleep(f.WaitDelay)
	}
	return f.WaitTxn, f.WaitErr
}

func (f *fakeAptosNode) AccountResource(address aptos.AccountAddress, resourceType string, ledgerVersion ...uint64) (map[string]any, error) {
	return f.Resource, nil
}

func TestNodeAdapter_GenerateTransaction(t *testing.T) {
	fake := &fakeAptosNode{}
	node := NewNodeClientAdapter(fake, 0, 0)
	call := &EntryFunctionCall{Function: testFunction, Args: [][]byte{{1, 2}}}

	txn, err := node.GenerateTransaction(testSigner1, call)

	require.NoError(t, err)
	assert.Equal(t, testAddr1, txn.Sender)
	assert.Same(t, call, txn.Call)
	require.Len(t, fake.BuildPayloads, 1)
	entry, ok := fake.BuildPayloads[0].Payload.(*aptos.EntryFunction)
	require.True(t, ok)
	assert.Equal(t, testFunction.Address, entry.Module.Address)
	assert.Equal(t, "demo_app", entry.Module.Name)
	assert.Equal(t, "add_aggregator_info", entry.Function)
	assert.Empty(t, entry.ArgTypes)
	assert.Equal(t, [][]byte{{1, 2}}, entry.Args)
}

func TestNodeAdapter_GenerateTransactionError(t *testing.T) {
	buildErr := errors.New("sequence number lookup failed")
	node := NewNodeClientAdapter(&fakeAptosNode{BuildErr: buildErr}, 0, 0)

	_, err := node.GenerateTransaction(testSigner1, &EntryFunctionCall{Function: testFunction})

	assert.ErrorIs(t, err, buildErr)
}

func TestNodeAdapter_SimulateTransaction(t *testing.T) {
	account, err := aptos.NewEd25519Account()
	require.NoError(t, err)

	fake := &fakeAptosNode{
		SimulateResults: []*api.UserTransaction{{
			Hash:     "0xabc",
			Success:  false,
			VmStatus: "Out of gas",
			GasUsed:  200,
		}},
	}
	node := NewNodeClientAdapter(fake, 0, 0)
	txn, err := node.GenerateTransaction(account, &EntryFunctionCall{Function: testFunction})
	require.NoError(t, err)

	sim, err := node.SimulateTransaction(account, txn)

	require.NoError(t, err)
	assert.Equal(t, &SimulationResult{Success: false, VmStatus: "Out of gas", GasUsed: 200, Hash: "0xabc"}, sim)
}

func TestNodeAdapter_SimulateTransactionEmpty(t *testing.T) {
	account, err := aptos.NewEd25519Account()
	require.NoError(t, err)
	node := NewNodeClientAdapter(&fakeAptosNode{}, 0, 0)
	txn, err := node.GenerateTransaction(account, &EntryFunctionCall{Function: testFunction})
	require.NoError(t, err)

	_, err = node.SimulateTransaction(account, txn)

	assert.ErrorIs(t, err, ErrEmptySimulation)
}

func TestNodeAdapter_SignerWithoutKey(t *testing.T) {
	node := NewNodeClientAdapter(&fakeAptosNode{}, 0, 0)
	txn, err := node.GenerateTransaction(testSigner1, &EntryFunctionCall{Function: testFunction})
	require.NoError(t, err)

	_, err = node.SimulateTransaction(testSigner1, txn)
	assert.ErrorIs(t, err, ErrSignerUnsupported)

	_, err = node.SignTransaction(testSigner1, txn)
	assert.ErrorIs(t, err, ErrSignerUnsupported)
}

func TestNodeAdapter_WaitForTransaction(t *testing.T) {
	fake := &fakeAptosNode{
		WaitTxn: &api.UserTransaction{Hash: "0xabc", Success: true, VmStatus: "Executed successfully", GasUsed: 9, Version: 77},
	}
	node := NewNodeClientAdapter(fake, time.Second, 10*time.Millisecond)

	receipt, err := node.WaitForTransaction("0xabc")

	require.NoError(t, err)
	assert.Equal(t, &Receipt{Hash: "0xabc", Success: true, VmStatus: "Executed successfully", GasUsed: 9, Version: 77}, receipt)
	assert.Len(t, fake.WaitOpts, 2)
}

func TestNodeAdapter_WaitForTransactionTimeout(t *testing.T) {
	waitErr := errors.New("timeout waiting for transaction")
	fake := &fakeAptosNode{WaitErr: waitErr, WaitDelay: 5 * time.Millisecond}
	node := NewNodeClientAdapter(fake, time.Millisecond, time.Millisecond)

	_, err := node.WaitForTransaction("0xabc")

	assert.ErrorIs(t, err, ErrFinalityTimeout)
	assert.ErrorIs(t, err, waitErr)
}

func TestNodeAdapter_WaitForTransactionNetworkError(t *testing.T) {
	waitErr := errors.New("connection refused")
	node := NewNodeClientAdapter(&fakeAptosNode{WaitErr: waitErr}, time.Minute, time.Millisecond)

	_, err := node.WaitForTransaction("0xabc")

	assert.ErrorIs(t, err, waitErr)
	assert.NotErrorIs(t, err, ErrFinalityTimeout)
}

func TestDefaultFactories_RequireURLs(t *testing.T) {
	_, err := DefaultNodeClientFactory(Network{Name: "empty"}, DefaultSubmitterDefaults())
	assert.ErrorIs(t, err, ErrNetworkNotConfigured)

	_, err = DefaultFaucetFactory(MainnetNetwork)
	assert.ErrorIs(t, err, ErrFaucetNotConfigured)
}
