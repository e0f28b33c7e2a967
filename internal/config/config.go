package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	txsubmitter "github.com/switchboard-xyz/aptos-txsubmitter"
)

// Addresses the demo module and its aggregator are published at on devnet
const (
	DefaultDemoAddress       = "0x969167c768f1da942f6b6010cf275f196343618530bdd6d23e25896a7ba3c7d2"
	DefaultAggregatorAddress = "0xcb5de0e03c5c7da8b91cbec9f30992d811271d906b6eb629fe7a71703660d28f"
)

// Config is the top level config of the aptos-demo CLI
type Config struct {
	Network   NetworkConfig   `yaml:"network"`
	Submitter SubmitterConfig `yaml:"submitter"`
	Demo      DemoConfig      `yaml:"demo"`
	Redis     RedisConfig     `yaml:"redis"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// NetworkConfig selects a preset network by name. NodeURL and FaucetURL override the preset's endpoints.
type NetworkConfig struct {
	Name      string `yaml:"name"`
	NodeURL   string `yaml:"nodeUrl"`
	FaucetURL string `yaml:"faucetUrl"`
	ChainID   uint8  `yaml:"chainId"`
}

type SubmitterConfig struct {
	RetryBudget      int           `yaml:"retryBudget"`
	FundAmount       uint64        `yaml:"fundAmount"`
	FinalityTimeout  time.Duration `yaml:"finalityTimeout"`
	PollPeriod       time.Duration `yaml:"pollPeriod"`
	ResourceAttempts uint          `yaml:"resourceAttempts"`
	ResourceDelay    time.Duration `yaml:"resourceDelay"`
}

type DemoConfig struct {
	DemoAddress       string `yaml:"demoAddress"`
	AggregatorAddress string `yaml:"aggregatorAddress"`
	// Credited to the fresh demo account before the first submission
	InitialFundAmount uint64 `yaml:"initialFundAmount"`
}

// RedisConfig enables the Redis transaction store when Addr is set
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"keyPrefix"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the devnet demo configuration.
func Default() *Config {
	return &Config{
		Network: NetworkConfig{
			Name: txsubmitter.DevnetNetwork.Name,
		},
		Submitter: SubmitterConfig{
			RetryBudget:      txsubmitter.DefaultRetryBudget,
			FundAmount:       txsubmitter.DefaultFundAmount,
			FinalityTimeout:  txsubmitter.DefaultFinalityTimeout,
			PollPeriod:       txsubmitter.DefaultPollPeriod,
			ResourceAttempts: txsubmitter.DefaultResourceAttempts,
			ResourceDelay:    txsubmitter.DefaultResourceDelay,
		},
		Demo: DemoConfig{
			DemoAddress:       DefaultDemoAddress,
			AggregatorAddress: DefaultAggregatorAddress,
			InitialFundAmount: txsubmitter.DefaultFundAmount,
		},
	}
}

// Load reads a YAML config file. Fields missing from the file keep their defaults.
// An empty filename returns Default().
func Load(filename string) (*Config, error) {
	cfg := Default()
	if filename == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("couldn't read config %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("couldn't parse config %s: %w", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filename, err)
	}
	return cfg, nil
}

// Validate checks the config for values the submitter can't work with.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.ResolveNetwork(); err != nil {
		errs = append(errs, err)
	}
	if c.Submitter.RetryBudget < 0 {
		errs = append(errs, fmt.Errorf("submitter.retryBudget must not be negative, got %d", c.Submitter.RetryBudget))
	}
	if c.Submitter.FundAmount == 0 {
		errs = append(errs, errors.New("submitter.fundAmount must be positive"))
	}
	if c.Submitter.FinalityTimeout <= 0 {
		errs = append(errs, errors.New("submitter.finalityTimeout must be positive"))
	}
	if c.Submitter.PollPeriod <= 0 {
		errs = append(errs, errors.New("submitter.pollPeriod must be positive"))
	}
	if c.Submitter.ResourceAttempts == 0 {
		errs = append(errs, errors.New("submitter.resourceAttempts must be at least 1"))
	}
	if _, err := txsubmitter.AddressArg(c.Demo.DemoAddress); err != nil {
		errs = append(errs, fmt.Errorf("demo.demoAddress: %w", err))
	}
	if _, err := txsubmitter.AddressArg(c.Demo.AggregatorAddress); err != nil {
		errs = append(errs, fmt.Errorf("demo.aggregatorAddress: %w", err))
	}

	return errors.Join(errs...)
}

// ResolveNetwork returns the named preset with any configured overrides applied.
// A name that matches no preset is accepted when NodeURL is set.
func (c *Config) ResolveNetwork() (txsubmitter.Network, error) {
	network, err := txsubmitter.NetworkByName(c.Network.Name)
	if err != nil {
		if c.Network.NodeURL == "" {
			return txsubmitter.Network{}, err
		}
		network = txsubmitter.Network{Name: c.Network.Name}
	}

	if c.Network.NodeURL != "" {
		network.NodeURL = c.Network.NodeURL
	}
	if c.Network.FaucetURL != "" {
		network.FaucetURL = c.Network.FaucetURL
	}
	if c.Network.ChainID != 0 {
		network.ChainID = c.Network.ChainID
	}
	if network.Name == "" {
		network.Name = network.NodeURL
	}
	return network, nil
}

// SubmitterDefaults converts the config into submitter defaults.
func (c *Config) SubmitterDefaults() (txsubmitter.SubmitterDefaults, error) {
	network, err := c.ResolveNetwork()
	if err != nil {
		return txsubmitter.SubmitterDefaults{}, err
	}
	return txsubmitter.SubmitterDefaults{
		RetryBudget:      c.Submitter.RetryBudget,
		FundAmount:       c.Submitter.FundAmount,
		FinalityTimeout:  c.Submitter.FinalityTimeout,
		PollPeriod:       c.Submitter.PollPeriod,
		ResourceAttempts: c.Submitter.ResourceAttempts,
		ResourceDelay:    c.Submitter.ResourceDelay,
		Network:          network,
	}, nil
}

// DemoFunction is the entry function the demo calls.
func (c *Config) DemoFunction() (txsubmitter.FunctionID, error) {
	return txsubmitter.ParseFunctionID(c.Demo.DemoAddress + "::demo_app::add_aggregator_info")
}
