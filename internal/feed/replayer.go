// Package feed replays a batch of orders across the configured markets
// concurrently, using a bounded goroutine pool rather than one goroutine
// per order.
package feed

import (
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/abdoElHodaky/tradsys-clob/internal/engine"
	"github.com/abdoElHodaky/tradsys-clob/internal/obs"
	"github.com/abdoElHodaky/tradsys-clob/pkg/clob"
)

// Entry is one order to submit during a replay, tagged with the symbol it
// belongs to. Orders for the same symbol still serialize through that
// market's lock; only cross-symbol work runs in parallel.
type Entry struct {
	Symbol    string
	AccountID clob.AccountID
	Order     clob.NewOrder
}

// Result pairs a replayed entry with its outcome, or the error that kept it
// from being applied: a validation error, an unknown market, a pool
// submission failure, or a recovered fatal invariant violation.
type Result struct {
	Entry  Entry
	Output clob.PlaceOrderResult
	Err    error
}

// Replayer drives a batch of Entries through a Manager using a fixed-size
// worker pool.
type Replayer struct {
	manager   *engine.Manager
	pool      *ants.Pool
	logger    obs.Logger
	observers []engine.Observer
}

// New builds a Replayer with poolSize concurrent workers.
func New(manager *engine.Manager, poolSize int, logger obs.Logger, observers ...engine.Observer) (*Replayer, error) {
	pool, err := ants.NewPool(poolSize, ants.WithOptions(ants.Options{PreAlloc: true}))
	if err != nil {
		return nil, err
	}
	return &Replayer{manager: manager, pool: pool, logger: logger, observers: observers}, nil
}

// Release frees the worker pool's resources.
func (r *Replayer) Release() {
	r.pool.Release()
}

// Replay submits every entry to its market and returns results in the same
// order as entries, once all have completed.
func (r *Replayer) Replay(entries []Entry) []Result {
	results := make([]Result, len(entries))
	var wg sync.WaitGroup
	wg.Add(len(entries))

	for i, e := range entries {
		i, e := i, e
		err := r.pool.Submit(func() {
			defer wg.Done()
			results[i] = r.replayOne(e)
		})
		if err != nil {
			results[i] = Result{Entry: e, Err: err}
			wg.Done()
		}
	}

	wg.Wait()
	return results
}

func (r *Replayer) replayOne(e Entry) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			fe, ok := p.(*clob.FatalError)
			if !ok {
				panic(p)
			}
			r.logger.Error("fatal invariant violation during replay",
				"symbol", e.Symbol, "reason", fe.Reason)
			res = Result{Entry: e, Err: fe}
		}
	}()

	market, err := r.manager.Market(e.Symbol)
	if err != nil {
		return Result{Entry: e, Err: err}
	}
	out, err := market.PlaceOrder(e.AccountID, e.Order, r.observers...)
	return Result{Entry: e, Output: out, Err: err}
}
