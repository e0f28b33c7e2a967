package txsubmitter

// TxExecutionContext holds the state and parameters for one submission.
// All fields are public to allow for testing and advanced customization.
type TxExecutionContext struct {
	// Retry tracking
	Attempts         int // simulations performed so far
	TopUps           int // faucet credits performed so far
	RetryBudget      int
	RemainingRetries int

	// Configuration
	FundAmount     uint64
	RetryPredicate RetryPredicate

	// Transaction parameters
	Signer  Signer
	Call    *EntryFunctionCall
	Network Network

	// Most recent simulation
	LastSimulation *SimulationResult

	// Hooks
	BeforeSubmitHook Hook
	AfterSubmitHook  AfterSubmitHook
	TxConfirmedHook  TxConfirmedHook
	SimulationHook   SimulationHook
}

// NewTxExecutionContext creates a new transaction execution context
func NewTxExecutionContext(
	retryBudget int,
	fundAmount uint64,
	signer Signer,
	function FunctionID,
	args [][]byte,
	network Network,
	retryPredicate RetryPredicate,
	beforeSubmitHook Hook,
	afterSubmitHook AfterSubmitHook,
	txConfirmedHook TxConfirmedHook,
	simulationHook SimulationHook,
) (*TxExecutionContext, error) {
	// Validate inputs
	if retryBudget < 0 {
		retryBudget = 0
	}
	if fundAmount == 0 {
		fundAmount = DefaultFundAmount
	}
	if retryPredicate == nil {
		retryPredicate = IsOutOfGas
	}

	if signer == nil {
		return nil, ErrSignerNil
	}
	if function.IsZero() {
		return nil, ErrInvalidFunctionID
	}
	if network.Name == "" && network.NodeURL == "" {
		return nil, ErrNetworkNotConfigured
	}

	if args == nil {
		args = [][]byte{}
	}

	return &TxExecutionContext{
		RetryBudget:      retryBudget,
		RemainingRetries: retryBudget,
		FundAmount:       fundAmount,
		RetryPredicate:   retryPredicate,
		Signer:           signer,
		Call: &EntryFunctionCall{
			Function: function,
			Args:     args,
		},
		Network:          network,
		BeforeSubmitHook: beforeSubmitHook,
		AfterSubmitHook:  afterSubmitHook,
		TxConfirmedHook:  txConfirmedHook,
		SimulationHook:   simulationHook,
	}, nil
}

// RecordSimulation stores the simulation outcome and notifies the simulation hook.
func (ctx *TxExecutionContext) RecordSimulation(sim *SimulationResult) {
	ctx.Attempts++
	ctx.LastSimulation = sim
	if ctx.SimulationHook != nil {
		ctx.SimulationHook(ctx.Attempts, sim)
	}
}

// ShouldTopUp reports whether sim can be recovered by funding the sender and retrying.
// Only a status accepted by the retry predicate qualifies, and only while budget remains.
func (ctx *TxExecutionContext) ShouldTopUp(sim *SimulationResult) bool {
	if sim == nil || sim.Success || ctx.RemainingRetries <= 0 {
		return false
	}
	return ctx.RetryPredicate(sim.VmStatus)
}

// ConsumeRetry spends one unit of the retry budget after a top-up.
func (ctx *TxExecutionContext) ConsumeRetry() {
	ctx.RemainingRetries--
	ctx.TopUps++
}

// SimulationFailure builds the terminal result for a failed simulation.
func (ctx *TxExecutionContext) SimulationFailure(sim *SimulationResult) *TxExecutionResult {
	return &TxExecutionResult{
		Simulation:   sim,
		ShouldRetry:  false,
		ShouldReturn: true,
		Error: &SimulationError{
			VmStatus: sim.VmStatus,
			GasUsed:  sim.GasUsed,
			Hash:     sim.Hash,
			Attempts: ctx.Attempts,
		},
	}
}
