package txsubmitter

import (
	"context"
	"errors"
	"fmt"

	"github.com/KyberNetwork/logger"
	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/avast/retry-go/v4"
)

// ReadResource returns the data of the resource of type resourceType held by
// address. A write committed moments ago may not be visible on the read node
// yet, so the read is retried with the default resource attempts and delay.
func (s *Submitter) ReadResource(
	ctx context.Context,
	network Network,
	address aptos.AccountAddress,
	resourceType string,
) (map[string]any, error) {
	node, err := s.Node(network)
	if err != nil {
		return nil, err
	}
	defaults := s.Defaults()
	attempts := defaults.ResourceAttempts
	if attempts == 0 {
		attempts = DefaultResourceAttempts
	}

	var data map[string]any
	err = retry.Do(
		func() error {
			resource, err := node.AccountResource(address, resourceType)
			if err != nil {
				return err
			}
			data = resourceData(resource)
			if data == nil {
				return fmt.Errorf("%w: %s at %s", ErrResourceNotFound, resourceType, address)
			}
			return nil
		},
		retry.Attempts(attempts),
		retry.Delay(defaults.ResourceDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			logger.WithFields(logger.Fields{
				"address":       address.String(),
				"resource_type": resourceType,
				"attempt":       n + 1,
				"error":         err,
			}).Debug("Resource not readable yet, retrying")
		}),
	)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return nil, err
		}
		return nil, errors.Join(ErrResourceNotFound, fmt.Errorf("couldn't read %s at %s: %w", resourceType, address, err))
	}
	return data, nil
}

// resourceData unwraps the "data" field of a resource returned by the node.
// Resources already unwrapped are returned as is.
func resourceData(resource map[string]any) map[string]any {
	if resource == nil {
		return nil
	}
	if data, ok := resource["data"].(map[string]any); ok {
		return data
	}
	if _, ok := resource["type"]; ok {
		return nil
	}
	return resource
}

// FundAccount credits address with amount through the network faucet.
func (s *Submitter) FundAccount(network Network, address aptos.AccountAddress, amount uint64) error {
	if amount == 0 {
		amount = s.Defaults().FundAmount
	}
	faucet, err := s.Faucet(network)
	if err != nil {
		return errors.Join(ErrFundAccountFailed, err)
	}
	if err := faucet.Fund(address, amount); err != nil {
		return errors.Join(ErrFundAccountFailed, fmt.Errorf("couldn't fund %s with %d: %w", address, amount, err))
	}
	s.metrics.observeTopUp()

	logger.WithFields(logger.Fields{
		"address": address.String(),
		"amount":  amount,
		"network": network.Name,
	}).Info("Funded account")
	return nil
}
