package txsubmitter

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_InitializesOnce(t *testing.T) {
	var created atomic.Int32
	node := &mockNodeClient{}
	s := NewSubmitter(WithNodeClientFactory(func(Network, SubmitterDefaults) (NodeClient, error) {
		created.Add(1)
		return node, nil
	}))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := s.Node(testNetwork)
			assert.NoError(t, err)
			assert.Equal(t, node, c)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
}

func TestNode_PerNetwork(t *testing.T) {
	clients := map[string]*mockNodeClient{}
	s := NewSubmitter(WithNodeClientFactory(func(n Network, _ SubmitterDefaults) (NodeClient, error) {
		c := &mockNodeClient{}
		clients[n.Name] = c
		return c, nil
	}))

	devnet, err := s.Node(DevnetNetwork)
	require.NoError(t, err)
	localnet, err := s.Node(LocalnetNetwork)
	require.NoError(t, err)

	assert.Len(t, clients, 2)
	assert.NotSame(t, devnet, localnet)
}

func TestNode_FactoryErrorIsNotCached(t *testing.T) {
	factoryErr := errors.New("factory failed")
	fail := true
	s := NewSubmitter(WithNodeClientFactory(func(Network, SubmitterDefaults) (NodeClient, error) {
		if fail {
			return nil, factoryErr
		}
		return &mockNodeClient{}, nil
	}))

	c, err := s.Node(testNetwork)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, factoryErr)

	fail = false
	c, err = s.Node(testNetwork)
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestNode_FactoryReceivesDefaults(t *testing.T) {
	var got SubmitterDefaults
	s := NewSubmitter(
		WithDefaultFundAmount(321),
		WithNodeClientFactory(func(_ Network, d SubmitterDefaults) (NodeClient, error) {
			got = d
			return &mockNodeClient{}, nil
		}),
	)

	_, err := s.Node(testNetwork)
	require.NoError(t, err)
	assert.Equal(t, uint64(321), got.FundAmount)
}

func TestFaucet_InitializesLazily(t *testing.T) {
	var created int
	s := NewSubmitter(
		WithNodeClientFactory(func(Network, SubmitterDefaults) (NodeClient, error) { return &mockNodeClient{}, nil }),
		WithFaucetFactory(func(Network) (Faucet, error) {
			created++
			return &mockFaucet{}, nil
		}),
	)

	// a successful first simulation never needs the faucet
	_, err := s.Submit(testNetwork, testSigner1, testFunction, nil, 2)
	require.NoError(t, err)
	assert.Zero(t, created)

	_, err = s.Faucet(testNetwork)
	require.NoError(t, err)
	_, err = s.Faucet(testNetwork)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestSubmit_FaucetFactoryErrorOnRetry(t *testing.T) {
	node := &mockNodeClient{SimulationSequence: []*SimulationResult{newOutOfGasSimulation()}}
	s := NewSubmitter(
		WithNodeClientFactory(func(Network, SubmitterDefaults) (NodeClient, error) { return node, nil }),
	)

	_, err := s.Submit(MainnetNetwork, testSigner1, testFunction, nil, 2)

	assert.ErrorIs(t, err, ErrFundAccountFailed)
	assert.ErrorIs(t, err, ErrFaucetNotConfigured)
	assert.Equal(t, 1, node.simulations())
}
