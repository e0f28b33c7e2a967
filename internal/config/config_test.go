package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	txsubmitter "github.com/switchboard-xyz/aptos-txsubmitter"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, txsubmitter.DefaultRetryBudget, cfg.Submitter.RetryBudget)
	assert.Equal(t, uint64(5000), cfg.Submitter.FundAmount)
	assert.Equal(t, uint64(5000), cfg.Demo.InitialFundAmount)

	network, err := cfg.ResolveNetwork()
	require.NoError(t, err)
	assert.Equal(t, txsubmitter.DevnetNetwork, network)
}

func TestLoad_EmptyFilename(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_KeepsDefaultsForMissingFields(t *testing.T) {
	path := writeConfig(t, `
network:
  name: localnet
submitter:
  retryBudget: 0
  finalityTimeout: 45s
redis:
  addr: localhost:6379
  keyPrefix: demo
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "localnet", cfg.Network.Name)
	assert.Equal(t, 0, cfg.Submitter.RetryBudget)
	assert.Equal(t, 45*time.Second, cfg.Submitter.FinalityTimeout)
	assert.Equal(t, txsubmitter.DefaultFundAmount, cfg.Submitter.FundAmount)
	assert.Equal(t, txsubmitter.DefaultPollPeriod, cfg.Submitter.PollPeriod)
	assert.Equal(t, DefaultDemoAddress, cfg.Demo.DemoAddress)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "demo", cfg.Redis.KeyPrefix)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "submitter: [not, a, map")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	path := writeConfig(t, `
submitter:
  retryBudget: -1
  fundAmount: 0
`)

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "retryBudget")
	assert.Contains(t, err.Error(), "fundAmount")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"unknown network", func(c *Config) { c.Network.Name = "nowhere" }, "unknown network"},
		{"zero poll period", func(c *Config) { c.Submitter.PollPeriod = 0 }, "pollPeriod"},
		{"zero finality timeout", func(c *Config) { c.Submitter.FinalityTimeout = 0 }, "finalityTimeout"},
		{"zero resource attempts", func(c *Config) { c.Submitter.ResourceAttempts = 0 }, "resourceAttempts"},
		{"bad demo address", func(c *Config) { c.Demo.DemoAddress = "not-hex" }, "demoAddress"},
		{"bad aggregator address", func(c *Config) { c.Demo.AggregatorAddress = "0xzz" }, "aggregatorAddress"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestResolveNetwork_Overrides(t *testing.T) {
	cfg := Default()
	cfg.Network.NodeURL = "http://node.internal:8080/v1"
	cfg.Network.ChainID = 9

	network, err := cfg.ResolveNetwork()

	require.NoError(t, err)
	assert.Equal(t, "devnet", network.Name)
	assert.Equal(t, "http://node.internal:8080/v1", network.NodeURL)
	assert.Equal(t, txsubmitter.DevnetFaucetURL, network.FaucetURL)
	assert.Equal(t, uint8(9), network.ChainID)
}

func TestResolveNetwork_CustomNetwork(t *testing.T) {
	cfg := Default()
	cfg.Network = NetworkConfig{
		Name:      "private",
		NodeURL:   "http://10.0.0.1:8080/v1",
		FaucetURL: "http://10.0.0.1:8081",
	}

	network, err := cfg.ResolveNetwork()

	require.NoError(t, err)
	assert.Equal(t, txsubmitter.Network{
		Name:      "private",
		NodeURL:   "http://10.0.0.1:8080/v1",
		FaucetURL: "http://10.0.0.1:8081",
	}, network)
}

func TestSubmitterDefaults(t *testing.T) {
	cfg := Default()
	cfg.Submitter.RetryBudget = 4
	cfg.Submitter.FundAmount = 9000

	defaults, err := cfg.SubmitterDefaults()

	require.NoError(t, err)
	assert.Equal(t, 4, defaults.RetryBudget)
	assert.Equal(t, uint64(9000), defaults.FundAmount)
	assert.Equal(t, txsubmitter.DevnetNetwork, defaults.Network)
	assert.Equal(t, txsubmitter.DefaultResourceAttempts, int(defaults.ResourceAttempts))
}

func TestDemoFunction(t *testing.T) {
	fn, err := Default().DemoFunction()

	require.NoError(t, err)
	assert.Equal(t, "demo_app", fn.Module)
	assert.Equal(t, "add_aggregator_info", fn.Name)
	assert.Equal(t, DefaultDemoAddress+"::demo_app::AggregatorInfo", fn.ResourceType("AggregatorInfo"))
}
