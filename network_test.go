package txsubmitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkByName(t *testing.T) {
	n, err := NetworkByName(" DevNet ")
	require.NoError(t, err)
	assert.Equal(t, DevnetNetwork, n)
	assert.Equal(t, DevnetNodeURL, n.NodeURL)
	assert.Equal(t, DevnetFaucetURL, n.FaucetURL)

	_, err = NetworkByName("unknown")
	assert.ErrorIs(t, err, ErrUnknownNetwork)
}

func TestNetworkNames(t *testing.T) {
	assert.Equal(t, []string{"devnet", "localnet", "mainnet", "testnet"}, NetworkNames())
}

func TestNetwork_HasFaucet(t *testing.T) {
	assert.True(t, DevnetNetwork.HasFaucet())
	assert.True(t, LocalnetNetwork.HasFaucet())
	assert.False(t, MainnetNetwork.HasFaucet())
}
