package txsubmitter

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/KyberNetwork/logger"
)

// DefaultMaxConcurrentWaits bounds how many records Recover waits on at once
const DefaultMaxConcurrentWaits = 4

// NetworkResolver maps the network name stored in a TxRecord back to a Network.
type NetworkResolver func(name string) (Network, error)

// RecoveryOptions configures Submitter.Recover.
type RecoveryOptions struct {
	// MaxConcurrentWaits bounds parallel finality waits. Zero means DefaultMaxConcurrentWaits.
	MaxConcurrentWaits int

	// OnTxFinal is called for every record whose outcome was observed (committed or failed)
	OnTxFinal func(record *TxRecord, receipt *Receipt)

	// OnTxLost is called for every record that did not become final within the finality timeout
	OnTxLost func(record *TxRecord)
}

// RecoveryResult summarizes a Recover run.
type RecoveryResult struct {
	Committed int
	Failed    int
	Lost      int
	Errors    []error
}

// Recover waits for every record still in the submitted state and stores its
// outcome. It should be called once at startup, before new submissions, by a
// process that was restarted while transactions were in flight.
//
// A record that does not become final within the finality timeout is marked
// lost. Records whose network can't be resolved or whose wait fails for another
// reason stay submitted and the error is collected in the result.
func (s *Submitter) Recover(ctx context.Context, opts RecoveryOptions) (*RecoveryResult, error) {
	result := &RecoveryResult{}
	if s.txStore == nil {
		return result, nil
	}

	records, err := s.txStore.ListByStatus(ctx, TxRecordStatusSubmitted)
	if err != nil {
		return result, fmt.Errorf("couldn't list submitted transactions: %w", err)
	}

	maxWaits := opts.MaxConcurrentWaits
	if maxWaits <= 0 {
		maxWaits = DefaultMaxConcurrentWaits
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, maxWaits)
	)
	addErr := func(err error) {
		mu.Lock()
		result.Errors = append(result.Errors, err)
		mu.Unlock()
	}

	for _, record := range records {
		select {
		case <-ctx.Done():
			wg.Wait()
			return result, ctx.Err()
		default:
		}

		network, err := s.resolveNetwork(record.Network)
		if err != nil {
			addErr(fmt.Errorf("record %s: %w", record.Hash, err))
			continue
		}
		node, err := s.Node(network)
		if err != nil {
			addErr(fmt.Errorf("record %s: %w", record.Hash, err))
			continue
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(record *TxRecord, node NodeClient) {
			defer func() {
				<-sem
				wg.Done()
			}()

			receipt, err := node.WaitForTransaction(record.Hash)
			if err != nil {
				if !errors.Is(err, ErrFinalityTimeout) {
					addErr(fmt.Errorf("record %s: %w", record.Hash, err))
					return
				}
				s.updateRecord(ctx, record.Hash, TxRecordStatusLost, nil)
				mu.Lock()
				result.Lost++
				mu.Unlock()

				logger.WithFields(logger.Fields{
					"hash":    record.Hash,
					"network": record.Network,
				}).Warn("Recovered transaction did not become final, marking lost")
				if opts.OnTxLost != nil {
					opts.OnTxLost(record)
				}
				return
			}

			status := TxRecordStatusCommitted
			if !receipt.Success {
				status = TxRecordStatusFailed
			}
			s.updateRecord(ctx, record.Hash, status, receipt)
			mu.Lock()
			if receipt.Success {
				result.Committed++
			} else {
				result.Failed++
			}
			mu.Unlock()

			logger.WithFields(logger.Fields{
				"hash":      record.Hash,
				"status":    status,
				"vm_status": receipt.VmStatus,
			}).Info("Recovered transaction outcome")
			if opts.OnTxFinal != nil {
				record.ApplyReceipt(receipt)
				opts.OnTxFinal(record, receipt)
			}
		}(record, node)
	}

	wg.Wait()
	return result, nil
}

// resolveNetwork looks a stored network name up with the configured resolver,
// falling back to the default network and then to the named presets.
func (s *Submitter) resolveNetwork(name string) (Network, error) {
	if s.networkResolver != nil {
		return s.networkResolver(name)
	}
	if def := s.Defaults().Network; def.Name == name && def.NodeURL != "" {
		return def, nil
	}
	return NetworkByName(name)
}
