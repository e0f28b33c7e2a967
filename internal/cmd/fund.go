package cmd

import (
	"fmt"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var fundAmount uint64

var fundCmd = &cobra.Command{
	Use:   "fund <address>",
	Short: "Credit an account from the network faucet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var address aptos.AccountAddress
		if err := address.ParseStringRelaxed(args[0]); err != nil {
			return fmt.Errorf("invalid address %q: %w", args[0], err)
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.submitter.FundAccount(a.network, address, fundAmount); err != nil {
			color.Red("✗ %v", err)
			return err
		}
		color.Green("✓ Funded %s", address.String())
		return nil
	},
}

func init() {
	fundCmd.Flags().Uint64Var(&fundAmount, "amount", 0, "Octas to credit (default from config)")
}
