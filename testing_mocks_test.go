package txsubmitter

import (
	"fmt"
	"sync"
	"testing"

	"github.com/aptos-labs/aptos-go-sdk"
)

// ============================================================
// Mock Implementations
// ============================================================

// mockNodeClient implements NodeClient for testing
type mockNodeClient struct {
	mu sync.Mutex

	// Function hooks - set these to customize behavior
	GenerateTransactionFn func(sender Signer, call *EntryFunctionCall) (*RawTx, error)
	SimulateTransactionFn func(sender Signer, txn *RawTx) (*SimulationResult, error)
	SignTransactionFn     func(sender Signer, txn *RawTx) (*SignedTx, error)
	SubmitTransactionFn   func(signed *SignedTx) (string, error)
	WaitForTransactionFn  func(hash string) (*Receipt, error)
	AccountResourceFn     func(address aptos.AccountAddress, resourceType string) (map[string]any, error)

	// SimulationSequence is returned one entry per simulation, repeating the last one
	// once exhausted. Ignored when SimulateTransactionFn is set.
	SimulationSequence []*SimulationResult
	simulationCount    int

	// Call tracking for assertions
	GenerateTransactionCalls []*EntryFunctionCall
	SimulateTransactionCalls []aptos.AccountAddress
	SignTransactionCalls     []aptos.AccountAddress
	SubmitTransactionCalls   []*SignedTx
	WaitForTransactionCalls  []string
	AccountResourceCalls     []string
}

func (m *mockNodeClient) GenerateTransaction(sender Signer, call *EntryFunctionCall) (*RawTx, error) {
	m.mu.Lock()
	m.GenerateTransactionCalls = append(m.GenerateTransactionCalls, call)
	m.mu.Unlock()
	if m.GenerateTransactionFn != nil {
		return m.GenerateTransactionFn(sender, call)
	}
	return &RawTx{Sender: sender.AccountAddress(), Call: call}, nil
}

func (m *mockNodeClient) SimulateTransaction(sender Signer, txn *RawTx) (*SimulationResult, error) {
	m.mu.Lock()
	m.SimulateTransactionCalls = append(m.SimulateTransactionCalls, sender.AccountAddress())
	var next *SimulationResult
	if len(m.SimulationSequence) > 0 {
		if m.simulationCount < len(m.SimulationSequence) {
			next = m.SimulationSequence[m.simulationCount]
		} else {
			next = m.SimulationSequence[len(m.SimulationSequence)-1]
		}
		m.simulationCount++
	}
	m.mu.Unlock()
	if m.SimulateTransactionFn != nil {
		return m.SimulateTransactionFn(sender, txn)
	}
	if next != nil {
		cp := *next
		return &cp, nil
	}
	return newSuccessSimulation(), nil
}

func (m *mockNodeClient) SignTransaction(sender Signer, txn *RawTx) (*SignedTx, error) {
	m.mu.Lock()
	m.SignTransactionCalls = append(m.SignTransactionCalls, sender.AccountAddress())
	m.mu.Unlock()
	if m.SignTransactionFn != nil {
		return m.SignTransactionFn(sender, txn)
	}
	return &SignedTx{Tx: txn}, nil
}

func (m *mockNodeClient) SubmitTransaction(signed *SignedTx) (string, error) {
	m.mu.Lock()
	m.SubmitTransactionCalls = append(m.SubmitTransactionCalls, signed)
	n := len(m.SubmitTransactionCalls)
	m.mu.Unlock()
	if m.SubmitTransactionFn != nil {
		return m.SubmitTransactionFn(signed)
	}
	return testHash(n), nil
}

func (m *mockNodeClient) WaitForTransaction(hash string) (*Receipt, error) {
	m.mu.Lock()
	m.WaitForTransactionCalls = append(m.WaitForTransactionCalls, hash)
	m.mu.Unlock()
	if m.WaitForTransactionFn != nil {
		return m.WaitForTransactionFn(hash)
	}
	return newSuccessReceipt(hash), nil
}

func (m *mockNodeClient) AccountResource(address aptos.AccountAddress, resourceType string) (map[string]any, error) {
	m.mu.Lock()
	m.AccountResourceCalls = append(m.AccountResourceCalls, resourceType)
	m.mu.Unlock()
	if m.AccountResourceFn != nil {
		return m.AccountResourceFn(address, resourceType)
	}
	return map[string]any{
		"type": resourceType,
		"data": map[string]any{},
	}, nil
}

func (m *mockNodeClient) simulations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SimulateTransactionCalls)
}

func (m *mockNodeClient) submissions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SubmitTransactionCalls)
}

type fundCall struct {
	Address aptos.AccountAddress
	Amount  uint64
}

// mockFaucet implements Faucet for testing
type mockFaucet struct {
	mu sync.Mutex

	FundFn func(address aptos.AccountAddress, amount uint64) error

	FundCalls []fundCall
}

func (m *mockFaucet) Fund(address aptos.AccountAddress, amount uint64) error {
	m.mu.Lock()
	m.FundCalls = append(m.FundCalls, fundCall{address, amount})
	m.mu.Unlock()
	if m.FundFn != nil {
		return m.FundFn(address, amount)
	}
	return nil
}

func (m *mockFaucet) calls() []fundCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]fundCall(nil), m.FundCalls...)
}

// fakeSigner satisfies Signer without holding a key
type fakeSigner struct {
	addr aptos.AccountAddress
}

func (s fakeSigner) AccountAddress() aptos.AccountAddress {
	return s.addr
}

// ============================================================
// Test Fixtures
// ============================================================

var (
	testAddr1 = mustAddress("0x1111")
	testAddr2 = mustAddress("0x2222")

	testSigner1 = fakeSigner{addr: testAddr1}
	testSigner2 = fakeSigner{addr: testAddr2}

	testFunction = MustParseFunctionID("0x969167c768f1da942f6b6010cf275f196343618530bdd6d23e25896a7ba3c7d2::demo_app::add_aggregator_info")

	testNetwork = DevnetNetwork
)

func mustAddress(s string) aptos.AccountAddress {
	var addr aptos.AccountAddress
	if err := addr.ParseStringRelaxed(s); err != nil {
		panic(err)
	}
	return addr
}

func testHash(n int) string {
	return fmt.Sprintf("0x%064x", n)
}

func newSuccessSimulation() *SimulationResult {
	return &SimulationResult{
		Success:  true,
		VmStatus: "Executed successfully",
		GasUsed:  12,
		Hash:     testHash(1000),
	}
}

func newFailedSimulation(vmStatus string) *SimulationResult {
	return &SimulationResult{
		Success:  false,
		VmStatus: vmStatus,
		GasUsed:  7,
		Hash:     testHash(2000),
	}
}

func newOutOfGasSimulation() *SimulationResult {
	return newFailedSimulation("Out of gas")
}

func newSuccessReceipt(hash string) *Receipt {
	return &Receipt{
		Hash:     hash,
		Success:  true,
		VmStatus: "Executed successfully",
		GasUsed:  12,
		Version:  42,
	}
}

// ============================================================
// Test Helpers
// ============================================================

// testSetup contains all the mocks needed for a typical test
type testSetup struct {
	S      *Submitter
	Node   *mockNodeClient
	Faucet *mockFaucet
}

// newTestSetup creates a complete test setup with default mocks
func newTestSetup(t *testing.T, opts ...SubmitterOption) *testSetup {
	t.Helper()

	node := &mockNodeClient{}
	faucet := &mockFaucet{}

	allOpts := append([]SubmitterOption{
		WithNodeClientFactory(func(network Network, defaults SubmitterDefaults) (NodeClient, error) {
			return node, nil
		}),
		WithFaucetFactory(func(network Network) (Faucet, error) {
			return faucet, nil
		}),
	}, opts...)

	s := NewSubmitter(allOpts...)

	// Initialize the network to ensure all components are loaded
	if _, err := s.Node(testNetwork); err != nil {
		t.Fatalf("Failed to initialize network: %v", err)
	}

	return &testSetup{
		S:      s,
		Node:   node,
		Faucet: faucet,
	}
}
