package txsubmitter

import (
	"fmt"
	"sync"

	"github.com/KyberNetwork/logger"
)

// Submitter builds, simulates, funds, signs and submits entry function
// transactions. It
//  1. keeps one node client and one faucet per network, created lazily
//     through the injected factories
//  2. holds the default configuration that TxRequest inherits
//  3. optionally records submitted transactions in a TxStore so that a
//     restarted process can recover their outcome
//
// A Submitter is safe for concurrent use. It does not serialize submissions
// from the same signer.
type Submitter struct {
	// Lock for defaults access (protects the defaults struct)
	defaultsMu sync.RWMutex

	// Default configuration inherited by TxRequest
	defaults SubmitterDefaults

	// Network-level locks (keyed by network name)
	networkLocks sync.Map // map[string]*sync.Mutex

	// nodeClients and faucets keyed by network name
	nodeClients sync.Map // map[string]NodeClient
	faucets     sync.Map // map[string]Faucet

	// Factories for creating network components (injectable for testing)
	nodeClientFactory NodeClientFactory
	faucetFactory     FaucetFactory

	retryPredicate  RetryPredicate
	networkResolver NetworkResolver
	txStore         TxStore
	metrics         *Metrics
}

// NewSubmitter creates a new Submitter with optional configuration
func NewSubmitter(opts ...SubmitterOption) *Submitter {
	s := &Submitter{
		defaults: DefaultSubmitterDefaults(),
	}

	for _, opt := range opts {
		opt(s)
	}

	// Set default factories if not provided
	if s.nodeClientFactory == nil {
		s.nodeClientFactory = DefaultNodeClientFactory
	}
	if s.faucetFactory == nil {
		s.faucetFactory = DefaultFaucetFactory
	}
	if s.retryPredicate == nil {
		s.retryPredicate = IsOutOfGas
	}

	return s
}

// Defaults returns the current default configuration
func (s *Submitter) Defaults() SubmitterDefaults {
	s.defaultsMu.RLock()
	defer s.defaultsMu.RUnlock()
	return s.defaults
}

// SetDefaults updates the default configuration
func (s *Submitter) SetDefaults(defaults SubmitterDefaults) {
	s.defaultsMu.Lock()
	defer s.defaultsMu.Unlock()
	s.defaults = defaults
}

// TxStore returns the configured transaction store, or nil if not configured
func (s *Submitter) TxStore() TxStore {
	return s.txStore
}

// Metrics returns the configured metrics, or nil if not configured
func (s *Submitter) Metrics() *Metrics {
	return s.metrics
}

// getNetworkLock returns the lock for a specific network, creating it if necessary
func (s *Submitter) getNetworkLock(name string) *sync.Mutex {
	lock, _ := s.networkLocks.LoadOrStore(name, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func networkKey(network Network) string {
	if network.Name != "" {
		return network.Name
	}
	return network.NodeURL
}

// Node returns the node client for the given network, creating it on first use.
// Factory failures are returned and not cached, so a later call tries again.
func (s *Submitter) Node(network Network) (NodeClient, error) {
	key := networkKey(network)
	if c, ok := s.nodeClients.Load(key); ok {
		return c.(NodeClient), nil
	}

	lock := s.getNetworkLock(key)
	lock.Lock()
	defer lock.Unlock()

	if c, ok := s.nodeClients.Load(key); ok {
		return c.(NodeClient), nil
	}
	c, err := s.nodeClientFactory(network, s.Defaults())
	if err != nil {
		return nil, fmt.Errorf("couldn't init node client for network %s: %w", network, err)
	}
	s.nodeClients.Store(key, c)

	logger.WithFields(logger.Fields{
		"network":  network.Name,
		"node_url": network.NodeURL,
	}).Debug("Initialized node client")
	return c, nil
}

// Faucet returns the faucet for the given network, creating it on first use.
func (s *Submitter) Faucet(network Network) (Faucet, error) {
	key := networkKey(network)
	if f, ok := s.faucets.Load(key); ok {
		return f.(Faucet), nil
	}

	lock := s.getNetworkLock(key)
	lock.Lock()
	defer lock.Unlock()

	if f, ok := s.faucets.Load(key); ok {
		return f.(Faucet), nil
	}
	f, err := s.faucetFactory(network)
	if err != nil {
		return nil, fmt.Errorf("couldn't init faucet for network %s: %w", network, err)
	}
	s.faucets.Store(key, f)

	logger.WithFields(logger.Fields{
		"network":    network.Name,
		"faucet_url": network.FaucetURL,
	}).Debug("Initialized faucet")
	return f, nil
}
