package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	txsubmitter "github.com/switchboard-xyz/aptos-txsubmitter"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Register the demo aggregator from a fresh account",
	Long: `Create and fund a fresh account, call demo_app::add_aggregator_info with
the configured aggregator address, then read back the account's
demo_app::AggregatorInfo resource.

Example:
  aptos-demo run
  aptos-demo run --config demo.yaml --verbose`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func runDemo(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	function, err := a.cfg.DemoFunction()
	if err != nil {
		return err
	}

	color.Cyan("Network: %s (%s)", a.network.Name, a.network.NodeURL)
	account, err := loadAccount(a, "", a.cfg.Demo.InitialFundAmount)
	if err != nil {
		return err
	}

	color.Green("▶ Calling %s", function)
	hash, receipt, err := a.submitter.R().
		SetSigner(account).
		SetFunctionID(function).
		AddArg(txsubmitter.AddressArg(a.cfg.Demo.AggregatorAddress)).
		SetSimulationHook(printSimulation).
		ExecuteContext(cmd.Context())
	printSubmitResult(hash, receipt, err)
	if err != nil {
		return err
	}

	data, err := a.submitter.ReadResource(cmd.Context(), a.network, account.Address, function.ResourceType("AggregatorInfo"))
	if err != nil {
		return err
	}
	return printJSON(data)
}
