package clob

import "fmt"

// FatalError is the type every panic raised by this package carries. These
// correspond to spec-level "fatal invariant violations": self-trade
// attempts, a missing limit price on a non-Market order, and 256-bit
// narrowing overflow. None of them are retryable — the host is expected to
// convert the panic into a process-level error and discard any partial
// mutation of the caller's own state; the orderbook itself is left
// unmutated whenever the violation is detected during the pure match walk.
type FatalError struct {
	Reason string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("clob: fatal: %s", e.Reason)
}

func panicFatal(reason string) {
	panic(&FatalError{Reason: reason})
}

const (
	reasonSelfTrade         = "self-trade: resting order and incoming order share an owner"
	reasonMissingLimitPrice = "missing limit price for non-market order"
)
