package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// InterruptExitCode is returned when the command was stopped by SIGINT or SIGTERM
const InterruptExitCode = 130

var (
	configPath  string
	networkName string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "aptos-demo",
	Short: "aptos-demo submits Move entry function calls to an Aptos network",
	Long: `aptos-demo submits Move entry function calls to an Aptos network.

Every transaction is simulated before it is signed. When the simulation runs
out of gas the sender is topped up from the network faucet and the
transaction is rebuilt and simulated again, up to the retry budget.

Without a command-specific target it drives the demo_app module:
  - Creating and funding a fresh account
  - Registering an aggregator with demo_app::add_aggregator_info
  - Reading back the AggregatorInfo resource`,
	SilenceUsage: true,
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// IsInterrupted reports whether err was caused by an interrupt signal.
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVarP(&networkName, "network", "n", "", "Network to use (devnet, testnet, localnet, mainnet), overrides the config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	// Register commands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(fundCmd)
	rootCmd.AddCommand(resourceCmd)
	rootCmd.AddCommand(recoverCmd)
	rootCmd.AddCommand(versionCmd)
}
