package entities

import "errors"

// Sentinel errors realizing the error taxonomy: transient pool-read
// failures and simulation failures are recoverable per-pair/per-amount;
// invariant violations and subscription failures are fatal to their
// scope. Callers wrap these with fmt.Errorf("%w", ...) and context.
var (
	// ErrPoolRead marks a recoverable failure reading pool or ERC20 state.
	ErrPoolRead = errors.New("pool read failed")
	// ErrSimulation marks a recoverable quoter call failure.
	ErrSimulation = errors.New("simulation failed")
	// ErrInvalidFee marks an on-chain fee() value outside the spec'd tiers.
	ErrInvalidFee = errors.New("invalid fee amount")
	// ErrSubscription marks a failure to subscribe to the new-block stream.
	ErrSubscription = errors.New("block subscription failed")
)
