package txsubmitter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KyberNetwork/logger"
)

// Submit runs SubmitContext with a background context, the default fund
// amount and no hooks.
func (s *Submitter) Submit(
	network Network,
	signer Signer,
	function FunctionID,
	args [][]byte,
	retryBudget int,
) (hash string, err error) {
	hash, _, err = s.SubmitContext(
		context.Background(),
		network, signer, function, args,
		retryBudget, s.Defaults().FundAmount,
		nil, nil, nil, nil,
	)
	return hash, err
}

// SubmitContext submits an entry function call and blocks until the node
// reports it final.
//
// Each attempt builds a fresh transaction and simulates it. A simulation whose
// status satisfies the retry predicate, while retry budget remains, funds the
// signer with fundAmount and starts another attempt. Any other failed
// simulation ends the call with a *SimulationError. A successful simulation is
// signed, submitted and waited for.
//
// The context is checked before every attempt and right before submission.
// Once the transaction is submitted the wait for finality is bounded by the
// finality timeout only.
//
// When the wait fails the hash is returned together with the error so the
// caller can look the transaction up later.
func (s *Submitter) SubmitContext(
	ctx context.Context,
	network Network,
	signer Signer,
	function FunctionID,
	args [][]byte,
	retryBudget int,
	fundAmount uint64,
	beforeSubmitHook Hook,
	afterSubmitHook AfterSubmitHook,
	txConfirmedHook TxConfirmedHook,
	simulationHook SimulationHook,
) (hash string, receipt *Receipt, err error) {
	// Create execution context
	execCtx, err := NewTxExecutionContext(
		retryBudget, fundAmount,
		signer, function, args, network,
		s.retryPredicate,
		beforeSubmitHook, afterSubmitHook,
		txConfirmedHook, simulationHook,
	)
	if err != nil {
		return "", nil, err
	}

	node, err := s.Node(network)
	if err != nil {
		return "", nil, err
	}

	// Main execution loop
	for {
		// Check for context cancellation before each attempt
		select {
		case <-ctx.Done():
			return "", nil, ctx.Err()
		default:
		}

		result := s.executeTransactionAttempt(ctx, node, execCtx)
		if result.ShouldRetry {
			continue
		}
		if result.ShouldReturn {
			if result.Receipt != nil {
				hash = result.Receipt.Hash
			}
			return hash, result.Receipt, result.Error
		}
	}
}

func (s *Submitter) executeTransactionAttempt(ctx context.Context, node NodeClient, execCtx *TxExecutionContext) *TxExecutionResult {
	sender := execCtx.Signer.AccountAddress()

	// Build a fresh transaction every attempt so sequence number and gas
	// parameters reflect the latest account state
	txn, err := node.GenerateTransaction(execCtx.Signer, execCtx.Call)
	if err != nil {
		return &TxExecutionResult{
			ShouldRetry:  false,
			ShouldReturn: true,
			Error:        errors.Join(ErrBuildTxFailed, fmt.Errorf("couldn't build tx for %s: %w", execCtx.Call.Function, err)),
		}
	}

	sim, err := node.SimulateTransaction(execCtx.Signer, txn)
	if err != nil {
		s.metrics.observeSimulation(simulationOutcomeError)
		return &TxExecutionResult{
			ShouldRetry:  false,
			ShouldReturn: true,
			Error:        errors.Join(ErrSimulateTxFailed, fmt.Errorf("couldn't simulate tx for %s: %w", execCtx.Call.Function, err)),
		}
	}
	execCtx.RecordSimulation(sim)

	logger.WithFields(logger.Fields{
		"sender":    sender.String(),
		"function":  execCtx.Call.Function.String(),
		"attempt":   execCtx.Attempts,
		"success":   sim.Success,
		"vm_status": sim.VmStatus,
		"gas_used":  sim.GasUsed,
		"hash":      sim.Hash,
	}).Info("TxGas")

	if result := s.handleSimulation(execCtx, sim); result != nil {
		return result
	}

	return s.signAndSubmitTransaction(ctx, node, txn, execCtx)
}

// handleSimulation decides what to do with a simulation outcome. It returns
// nil when the transaction should go on to be signed and submitted.
func (s *Submitter) handleSimulation(execCtx *TxExecutionContext, sim *SimulationResult) *TxExecutionResult {
	if execCtx.ShouldTopUp(sim) {
		s.metrics.observeSimulation(simulationOutcomeRetryable)
		return s.topUpAndRetry(execCtx, sim)
	}

	if !sim.Success {
		s.metrics.observeSimulation(simulationOutcomeFailed)
		logger.WithFields(logger.Fields{
			"sender":            execCtx.Signer.AccountAddress().String(),
			"function":          execCtx.Call.Function.String(),
			"vm_status":         sim.VmStatus,
			"gas_used":          sim.GasUsed,
			"hash":              sim.Hash,
			"attempts":          execCtx.Attempts,
			"remaining_retries": execCtx.RemainingRetries,
		}).Warn("TxFailure")
		return execCtx.SimulationFailure(sim)
	}

	s.metrics.observeSimulation(simulationOutcomeSuccess)
	return nil
}

func (s *Submitter) topUpAndRetry(execCtx *TxExecutionContext, sim *SimulationResult) *TxExecutionResult {
	sender := execCtx.Signer.AccountAddress()

	faucet, err := s.Faucet(execCtx.Network)
	if err != nil {
		return &TxExecutionResult{
			Simulation:   sim,
			ShouldRetry:  false,
			ShouldReturn: true,
			Error:        errors.Join(ErrFundAccountFailed, err),
		}
	}

	if err := faucet.Fund(sender, execCtx.FundAmount); err != nil {
		return &TxExecutionResult{
			Simulation:   sim,
			ShouldRetry:  false,
			ShouldReturn: true,
			Error:        errors.Join(ErrFundAccountFailed, fmt.Errorf("couldn't fund %s with %d: %w", sender, execCtx.FundAmount, err)),
		}
	}
	execCtx.ConsumeRetry()
	s.metrics.observeTopUp()

	logger.WithFields(logger.Fields{
		"sender":            sender.String(),
		"vm_status":         sim.VmStatus,
		"fund_amount":       execCtx.FundAmount,
		"remaining_retries": execCtx.RemainingRetries,
	}).Info("Funded sender after retryable simulation, retrying")

	return &TxExecutionResult{
		Simulation:   sim,
		ShouldRetry:  true,
		ShouldReturn: false,
	}
}

func (s *Submitter) signAndSubmitTransaction(ctx context.Context, node NodeClient, txn *RawTx, execCtx *TxExecutionContext) *TxExecutionResult {
	sim := execCtx.LastSimulation

	// Execute before hook
	if execCtx.BeforeSubmitHook != nil {
		if hookError := execCtx.BeforeSubmitHook(txn, nil); hookError != nil {
			return &TxExecutionResult{
				Simulation:   sim,
				ShouldRetry:  false,
				ShouldReturn: true,
				Error:        fmt.Errorf("after simulation and before signing and submitting hook error: %w", hookError),
			}
		}
	}

	// Last point at which the caller can still abort
	if err := ctx.Err(); err != nil {
		return &TxExecutionResult{
			Simulation:   sim,
			ShouldRetry:  false,
			ShouldReturn: true,
			Error:        err,
		}
	}

	signed, err := node.SignTransaction(execCtx.Signer, txn)
	if err != nil {
		return &TxExecutionResult{
			Simulation:   sim,
			ShouldRetry:  false,
			ShouldReturn: true,
			Error:        errors.Join(ErrSignTxFailed, fmt.Errorf("failed to sign transaction: %w", err)),
		}
	}

	hash, submitErr := node.SubmitTransaction(signed)
	if submitErr != nil {
		s.metrics.observeSubmission(submissionResultError)
		logger.WithFields(logger.Fields{
			"sender":   execCtx.Signer.AccountAddress().String(),
			"function": execCtx.Call.Function.String(),
			"error":    submitErr,
		}).Debug("Unsuccessful signing and submitting transaction")

		if execCtx.AfterSubmitHook != nil {
			_ = execCtx.AfterSubmitHook("", submitErr)
		}
		return &TxExecutionResult{
			Simulation:   sim,
			ShouldRetry:  false,
			ShouldReturn: true,
			Error:        errors.Join(ErrSubmitTxFailed, fmt.Errorf("couldn't submit tx: %w", submitErr)),
		}
	}

	logger.WithFields(logger.Fields{
		"hash":     hash,
		"sender":   execCtx.Signer.AccountAddress().String(),
		"function": execCtx.Call.Function.String(),
		"gas_used": sim.GasUsed,
	}).Info("Signed and submitted transaction")

	s.saveSubmitted(ctx, hash, execCtx)

	if execCtx.AfterSubmitHook != nil {
		if hookError := execCtx.AfterSubmitHook(hash, nil); hookError != nil {
			return &TxExecutionResult{
				Simulation:   sim,
				Receipt:      &Receipt{Hash: hash},
				ShouldRetry:  false,
				ShouldReturn: true,
				Error:        fmt.Errorf("after signing and submitting hook error: %w", hookError),
			}
		}
	}

	return s.waitForFinality(ctx, node, hash, execCtx)
}

func (s *Submitter) waitForFinality(ctx context.Context, node NodeClient, hash string, execCtx *TxExecutionContext) *TxExecutionResult {
	sim := execCtx.LastSimulation
	start := time.Now()

	receipt, err := node.WaitForTransaction(hash)
	if err != nil {
		s.metrics.observeSubmission(submissionResultError)
		logger.WithFields(logger.Fields{
			"hash":    hash,
			"elapsed": time.Since(start).String(),
			"error":   err,
		}).Error("Failed waiting for transaction finality")
		return &TxExecutionResult{
			Simulation:   sim,
			Receipt:      &Receipt{Hash: hash},
			ShouldRetry:  false,
			ShouldReturn: true,
			Error:        errors.Join(ErrWaitForTxFailed, fmt.Errorf("couldn't wait for tx %s: %w", hash, err)),
		}
	}
	if receipt.Hash == "" {
		receipt.Hash = hash
	}

	status := TxRecordStatusCommitted
	if receipt.Success {
		s.metrics.observeSubmission(submissionResultCommitted)
		logger.WithFields(logger.Fields{
			"hash":     receipt.Hash,
			"gas_used": receipt.GasUsed,
			"version":  receipt.Version,
		}).Info("Transaction committed")
	} else {
		status = TxRecordStatusFailed
		s.metrics.observeSubmission(submissionResultAborted)
		logger.WithFields(logger.Fields{
			"hash":      receipt.Hash,
			"vm_status": receipt.VmStatus,
			"gas_used":  receipt.GasUsed,
			"version":   receipt.Version,
		}).Warn("Transaction committed but aborted on chain")
	}
	s.updateRecord(ctx, receipt.Hash, status, receipt)

	if execCtx.TxConfirmedHook != nil {
		if hookErr := execCtx.TxConfirmedHook(receipt); hookErr != nil {
			return &TxExecutionResult{
				Simulation:   sim,
				Receipt:      receipt,
				ShouldRetry:  false,
				ShouldReturn: true,
				Error:        fmt.Errorf("tx confirmed hook error: %w", hookErr),
			}
		}
	}

	return &TxExecutionResult{
		Simulation:   sim,
		Receipt:      receipt,
		ShouldRetry:  false,
		ShouldReturn: true,
	}
}

// saveSubmitted records a submitted transaction. Store failures are logged only.
func (s *Submitter) saveSubmitted(ctx context.Context, hash string, execCtx *TxExecutionContext) {
	if s.txStore == nil {
		return
	}
	now := time.Now()
	record := &TxRecord{
		Hash:      hash,
		Sender:    execCtx.Signer.AccountAddress().String(),
		Network:   execCtx.Network.Name,
		Function:  execCtx.Call.Function.String(),
		Status:    TxRecordStatusSubmitted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.txStore.Save(context.WithoutCancel(ctx), record); err != nil {
		logger.WithFields(logger.Fields{
			"hash":  hash,
			"error": err,
		}).Warn("Failed to save submitted transaction. Ignore and continue")
	}
}

func (s *Submitter) updateRecord(ctx context.Context, hash string, status TxRecordStatus, receipt *Receipt) {
	if s.txStore == nil {
		return
	}
	if err := s.txStore.UpdateStatus(context.WithoutCancel(ctx), hash, status, receipt); err != nil {
		logger.WithFields(logger.Fields{
			"hash":   hash,
			"status": status,
			"error":  err,
		}).Warn("Failed to update transaction record. Ignore and continue")
	}
}
