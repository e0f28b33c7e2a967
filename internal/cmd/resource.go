package cmd

import (
	"fmt"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/spf13/cobra"
)

var resourceCmd = &cobra.Command{
	Use:   "resource <address> <resource-type>",
	Short: "Print the data of an account resource as JSON",
	Long: `Print the data of an account resource as JSON.

Example:
  aptos-demo resource 0xcafe 0xabc::demo_app::AggregatorInfo`,
	Args: cobra.ExactArgs(2),
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

		data, err := a.submitter.ReadResource(cmd.Context(), a.network, address, args[1])
		if err != nil {
			return err
		}
		return printJSON(data)
	},
}
