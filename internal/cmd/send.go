package cmd

import (
	"github.com/spf13/cobra"

	txsubmitter "github.com/switchboard-xyz/aptos-txsubmitter"
	"github.com/switchboard-xyz/aptos-txsubmitter/internal/config"
)

var (
	sendFunction    string
	sendArgs        []string
	sendRetries     int
	sendFundAmount  uint64
	sendPrivateKey  string
	sendInitialFund uint64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit an entry function call",
	Long: `Simulate, sign and submit an entry function call and wait for it to be final.

Arguments are written as <type>:<value> where type is one of address, u64,
bool, string or hex (already BCS-encoded bytes).

Without --private-key a fresh account is created and funded first.

Example:
  aptos-demo send --function 0x1::aptos_account::transfer --arg address:0xcafe --arg u64:100 --private-key 0x...
  aptos-demo send --function 0xabc::demo_app::add_aggregator_info --arg address:0xdef --retries 5`,
	Args: cobra.NoArgs,
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVarP(&sendFunction, "function", "f", "", "Entry function as <address>::<module>::<function>")
	sendCmd.Flags().StringArrayVarP(&sendArgs, "arg", "a", nil, "Typed argument <type>:<value>, repeatable")
	sendCmd.Flags().IntVar(&sendRetries, "retries", -1, "Out-of-gas retry budget (default from config)")
	sendCmd.Flags().Uint64Var(&sendFundAmount, "fund-amount", 0, "Octas credited before each retry (default from config)")
	sendCmd.Flags().StringVar(&sendPrivateKey, "private-key", "", "Hex Ed25519 private key of the sender")
	sendCmd.Flags().Uint64Var(&sendInitialFund, "initial-fund", txsubmitter.DefaultFundAmount, "Octas credited to a freshly created sender")
	_ = sendCmd.MarkFlagRequired("function")
}

func runSend(cmd *cobra.Command, _ []string) error {
	a, err := newApp(func(c *config.Config) {
		if sendRetries >= 0 {
			c.Submitter.RetryBudget = sendRetries
		}
		if sendFundAmount > 0 {
			c.Submitter.FundAmount = sendFundAmount
		}
	})
	if err != nil {
		return err
	}
	defer a.close()

	req := a.submitter.R().
		SetFunction(sendFunction).
		SetSimulationHook(printSimulation)
	for _, arg := range sendArgs {
		req.AddArg(txsubmitter.ParseTypedArg(arg))
	}

	account, err := loadAccount(a, sendPrivateKey, sendInitialFund)
	if err != nil {
		return err
	}

	hash, receipt, err := req.SetSigner(account).ExecuteContext(cmd.Context())
	printSubmitResult(hash, receipt, err)
	if err != nil {
		return err
	}
	return nil
}
