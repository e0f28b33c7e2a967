package txsubmitter

import (
	"fmt"
	"sort"
	"strings"
)

// Network names the node and faucet endpoints of one Aptos deployment.
// ChainID may be 0, in which case the SDK fetches it from the node.
type Network struct {
	Name      string
	ChainID   uint8
	NodeURL   string
	FaucetURL string
}

func (n Network) String() string {
	return n.Name
}

// HasFaucet reports whether the network exposes a faucet.
func (n Network) HasFaucet() bool {
	return n.FaucetURL != ""
}

var (
	DevnetNetwork = Network{
		Name:      "devnet",
		NodeURL:   DevnetNodeURL,
		FaucetURL: DevnetFaucetURL,
	}

	TestnetNetwork = Network{
		Name:      "testnet",
		ChainID:   2,
		NodeURL:   "https://fullnode.testnet.aptoslabs.com/v1",
		FaucetURL: "https://faucet.testnet.aptoslabs.com",
	}

	LocalnetNetwork = Network{
		Name:      "localnet",
		ChainID:   4,
		NodeURL:   "http://127.0.0.1:8080/v1",
		FaucetURL: "http://127.0.0.1:8081",
	}

	// MainnetNetwork has no faucet, top-up retries always fail on it.
	MainnetNetwork = Network{
		Name:    "mainnet",
		ChainID: 1,
		NodeURL: "https://fullnode.mainnet.aptoslabs.com/v1",
	}
)

var namedNetworks = map[string]Network{
	DevnetNetwork.Name:   DevnetNetwork,
	TestnetNetwork.Name:  TestnetNetwork,
	LocalnetNetwork.Name: LocalnetNetwork,
	MainnetNetwork.Name:  MainnetNetwork,
}

// NetworkByName returns one of the preset networks.
func NetworkByName(name string) (Network, error) {
	n, ok := namedNetworks[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Network{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownNetwork, name, strings.Join(NetworkNames(), ", "))
	}
	return n, nil
}

// NetworkNames lists the preset network names in sorted order.
func NetworkNames() []string {
	names := make([]string, 0, len(namedNetworks))
	for name := range namedNetworks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
