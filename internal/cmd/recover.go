package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	txsubmitter "github.com/switchboard-xyz/aptos-txsubmitter"
)

var (
	recoverMaxWaits       int
	recoverPruneOlderThan time.Duration
)

var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Resolve transactions left in flight by an earlier run",
	Long: `Wait for every transaction the Redis store still has as submitted and
record whether it was committed, failed or lost. Requires redis.addr in the config.

Example:
  aptos-demo recover --config demo.yaml
  aptos-demo recover --config demo.yaml --prune-older-than 168h`,
	Args: cobra.NoArgs,
	RunE: runRecover,
}

func init() {
	recoverCmd.Flags().IntVar(&recoverMaxWaits, "max-waits", txsubmitter.DefaultMaxConcurrentWaits, "Transactions waited on in parallel")
	recoverCmd.Flags().DurationVar(&recoverPruneOlderThan, "prune-older-than", 0, "Afterwards delete final records older than this (0 keeps everything)")
}

func runRecover(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if a.txStore == nil {
		return errors.New("recover needs a transaction store, set redis.addr in the config")
	}

	result, err := a.submitter.Recover(cmd.Context(), txsubmitter.RecoveryOptions{
		MaxConcurrentWaits: recoverMaxWaits,
		OnTxFinal: func(record *txsubmitter.TxRecord, receipt *txsubmitter.Receipt) {
			if receipt.Success {
				color.Green("✓ %s committed", record.Hash)
			} else {
				color.Yellow("⚠ %s aborted: %s", record.Hash, receipt.VmStatus)
			}
		},
		OnTxLost: func(record *txsubmitter.TxRecord) {
			color.Red("✗ %s lost", record.Hash)
		},
	})
	if err != nil {
		return err
	}

	fmt.Printf("Recovered: %d committed, %d failed, %d lost\n", result.Committed, result.Failed, result.Lost)
	for _, e := range result.Errors {
		color.Red("  %v", e)
	}

	if recoverPruneOlderThan > 0 {
		deleted, err := a.txStore.DeleteOlderThan(cmd.Context(), recoverPruneOlderThan)
		if err != nil {
			return err
		}
		fmt.Printf("Pruned %d records\n", deleted)
	}

	if len(result.Errors) > 0 {
		return fmt.Errorf("%d transactions could not be resolved", len(result.Errors))
	}
	return nil
}
