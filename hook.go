package txsubmitter

// Hook is called after a transaction passed simulation and before it is signed and submitted.
// err is always nil today and kept for symmetry with AfterSubmitHook.
// Returning an error aborts the submission.
type Hook func(txn *RawTx, err error) error

// AfterSubmitHook is called with the submit outcome, before waiting for finality.
// Returning an error stops the flow; the transaction may already be on its way.
type AfterSubmitHook func(hash string, err error) error

// TxConfirmedHook is called when the node reports the transaction final,
// whether it was executed successfully or aborted.
// Return an error to propagate it to the caller.
type TxConfirmedHook func(receipt *Receipt) error

// SimulationHook observes every simulation, including the ones that trigger a top-up.
// attempt starts at 1.
type SimulationHook func(attempt int, result *SimulationResult)
