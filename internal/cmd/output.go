package cmd

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/goccy/go-json"

	txsubmitter "github.com/switchboard-xyz/aptos-txsubmitter"
)

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("couldn't encode output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func printSubmitResult(hash string, receipt *txsubmitter.Receipt, err error) {
	if err != nil {
		if simErr, ok := txsubmitter.IsSimulationFailure(err); ok {
			color.Red("✗ Simulation failed after %d attempt(s): %s", simErr.Attempts, simErr.VmStatus)
			return
		}
		if hash != "" && errors.Is(err, txsubmitter.ErrWaitForTxFailed) {
			color.Yellow("⚠ Submitted %s but its outcome is unknown: %v", hash, err)
			return
		}
		color.Red("✗ Submission failed: %v", err)
		return
	}

	if receipt != nil && !receipt.Success {
		color.Yellow("⚠ %s was committed but aborted: %s", hash, receipt.VmStatus)
		return
	}
	color.Green("✓ %s", hash)
	if verbose && receipt != nil {
		fmt.Printf("  vm_status: %s\n", receipt.VmStatus)
		fmt.Printf("  gas_used:  %d\n", receipt.GasUsed)
		fmt.Printf("  version:   %d\n", receipt.Version)
	}
}

func printSimulation(attempt int, sim *txsubmitter.SimulationResult) {
	if !verbose {
		return
	}
	fmt.Printf("  simulation #%d: success=%t vm_status=%q gas_used=%d\n", attempt, sim.Success, sim.VmStatus, sim.GasUsed)
}
