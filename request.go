package txsubmitter

import (
	"context"
)

// TxRequest is a chainable description of one submission. Fields that are not
// set inherit the Submitter defaults captured when R() was called.
type TxRequest struct {
	s *Submitter

	network     Network
	signer      Signer
	function    FunctionID
	args        [][]byte
	retryBudget int
	fundAmount  uint64

	beforeSubmitHook Hook
	afterSubmitHook  AfterSubmitHook
	txConfirmedHook  TxConfirmedHook
	simulationHook   SimulationHook

	// first error met while building the request, returned by Execute
	err error
}

// R creates a new request pre-filled with the submitter defaults.
func (s *Submitter) R() *TxRequest {
	defaults := s.Defaults()
	return &TxRequest{
		s:           s,
		network:     defaults.Network,
		retryBudget: defaults.RetryBudget,
		fundAmount:  defaults.FundAmount,
	}
}

func (r *TxRequest) SetNetwork(network Network) *TxRequest {
	r.network = network
	return r
}

// SetNetworkName resolves one of the named presets, see NetworkByName.
func (r *TxRequest) SetNetworkName(name string) *TxRequest {
	network, err := NetworkByName(name)
	if err != nil {
		r.setErr(err)
		return r
	}
	r.network = network
	return r
}

func (r *TxRequest) SetSigner(signer Signer) *TxRequest {
	r.signer = signer
	return r
}

// SetFunction parses an "<address>::<module>::<function>" identifier.
func (r *TxRequest) SetFunction(function string) *TxRequest {
	id, err := ParseFunctionID(function)
	if err != nil {
		r.setErr(err)
		return r
	}
	r.function = id
	return r
}

func (r *TxRequest) SetFunctionID(function FunctionID) *TxRequest {
	r.function = function
	return r
}

// SetArgs replaces the argument list. Arguments must already be BCS encoded.
func (r *TxRequest) SetArgs(args ...[]byte) *TxRequest {
	r.args = args
	return r
}

// AddArg appends an encoded argument, recording enc's error if any.
// It is meant to be used with the encoding helpers:
//
//	req.AddArg(txsubmitter.AddressArg("0x1"))
func (r *TxRequest) AddArg(arg []byte, err error) *TxRequest {
	if err != nil {
		r.setErr(err)
		return r
	}
	r.args = append(r.args, arg)
	return r
}

func (r *TxRequest) SetRetryBudget(budget int) *TxRequest {
	if budget < 0 {
		budget = 0
	}
	r.retryBudget = budget
	return r
}

func (r *TxRequest) SetFundAmount(amount uint64) *TxRequest {
	r.fundAmount = amount
	return r
}

func (r *TxRequest) SetBeforeSubmitHook(hook Hook) *TxRequest {
	r.beforeSubmitHook = hook
	return r
}

func (r *TxRequest) SetAfterSubmitHook(hook AfterSubmitHook) *TxRequest {
	r.afterSubmitHook = hook
	return r
}

func (r *TxRequest) SetTxConfirmedHook(hook TxConfirmedHook) *TxRequest {
	r.txConfirmedHook = hook
	return r
}

func (r *TxRequest) SetSimulationHook(hook SimulationHook) *TxRequest {
	r.simulationHook = hook
	return r
}

func (r *TxRequest) setErr(err error) {
	if r.err == nil {
		r.err = err
	}
}

// Execute submits the request and returns the committed transaction hash.
func (r *TxRequest) Execute() (string, *Receipt, error) {
	return r.ExecuteContext(context.Background())
}

// ExecuteContext is Execute with cancellation support, see SubmitContext.
func (r *TxRequest) ExecuteContext(ctx context.Context) (string, *Receipt, error) {
	if r.err != nil {
		return "", nil, r.err
	}
	return r.s.SubmitContext(
		ctx,
		r.network,
		r.signer,
		r.function,
		r.args,
		r.retryBudget,
		r.fundAmount,
		r.beforeSubmitHook,
		r.afterSubmitHook,
		r.txConfirmedHook,
		r.simulationHook,
	)
}
