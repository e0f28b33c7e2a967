package txsubmitter

import "strings"

// RetryPredicate decides whether a failed simulation status can be recovered
// by funding the sender and simulating again.
type RetryPredicate func(vmStatus string) bool

const (
	outOfGasStatus = "Out of gas"
	outOfGasCode   = "OUT_OF_GAS"
)

// IsOutOfGas is the default RetryPredicate. It matches the node's human readable
// "Out of gas" status and the raw Move VM status code.
func IsOutOfGas(vmStatus string) bool {
	s := strings.TrimSpace(vmStatus)
	return strings.EqualFold(s, outOfGasStatus) || strings.EqualFold(s, outOfGasCode)
}
