package application

import (
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/vulpemventures/go-coinselect/internal/core/domain"
	"github.com/vulpemventures/go-coinselect/internal/core/ports"
	branchandbound_selector "github.com/vulpemventures/go-coinselect/internal/infrastructure/coin-selector/branch-and-bound"
	fifo_selector "github.com/vulpemventures/go-coinselect/internal/infrastructure/coin-selector/fifo"
	knapsack_selector "github.com/vulpemventures/go-coinselect/internal/infrastructure/coin-selector/knapsack"
	lowestlarger_selector "github.com/vulpemventures/go-coinselect/internal/infrastructure/coin-selector/lowest-larger"
	srd_selector "github.com/vulpemventures/go-coinselect/internal/infrastructure/coin-selector/single-random-draw"
)

// SelectorService runs a set of coin selection strategies concurrently over
// the same candidate list and returns the successful result with the lowest
// waste metric. Every strategy gets its own copy of the candidates and runs
// to completion, the service never short-circuits on an early success so
// that the returned waste is the minimum among all strategies that succeed.
//
// A strategy failing with insufficient funds only becomes the overall
// outcome if no strategy succeeds. If no strategy succeeds and none reported
// insufficient funds, the failure is reported as no solution found.
type SelectorService struct {
	selectors map[string]ports.CoinSelector
}

// NewSelectorService returns a service running all the supported strategies:
// branch and bound, knapsack, fifo, lowest-larger and single random draw.
func NewSelectorService() *SelectorService {
	return NewCustomSelectorService(map[string]ports.CoinSelector{
		"branch-and-bound":   branchandbound_selector.NewBranchAndBoundCoinSelector(),
		"knapsack":           knapsack_selector.NewKnapsackCoinSelector(),
		"fifo":               fifo_selector.NewFifoCoinSelector(),
		"lowest-larger":      lowestlarger_selector.NewLowestLargerCoinSelector(),
		"single-random-draw": srd_selector.NewSingleRandomDrawCoinSelector(),
	})
}

// NewCustomSelectorService returns a service running the given strategies,
// keyed by the name used in logs.
func NewCustomSelectorService(
	selectors map[string]ports.CoinSelector,
) *SelectorService {
	return &SelectorService{selectors: selectors}
}

// Select runs all strategies over the given candidates and returns the
// lowest-waste success. A malformed feerate affects every strategy
// identically and makes the whole call fail upfront.
func (s *SelectorService) Select(
	candidates []domain.OutputGroup, opts domain.CoinSelectionOptions,
) (*domain.SelectionOutput, error) {
	if _, err := domain.CalcFee(uint64(opts.BaseWeight), opts.TargetFeeRate); err != nil {
		return nil, err
	}

	state := &sharedState{err: domain.ErrNoSolutionFound}
	wg := &sync.WaitGroup{}
	wg.Add(len(s.selectors))

	for name, sel := range s.selectors {
		// The candidates are immutable for the whole call, but every
		// strategy gets its own copy to rule out aliasing.
		candidatesCopy := make([]domain.OutputGroup, len(candidates))
		copy(candidatesCopy, candidates)

		go func(name string, sel ports.CoinSelector, candidates []domain.OutputGroup) {
			defer wg.Done()

			result, err := sel.Select(candidates, opts)

			state.mtx.Lock()
			defer state.mtx.Unlock()

			if err != nil {
				log.WithError(err).Debugf("coin selection: %s strategy failed", name)
				if errors.Is(err, domain.ErrInsufficientFunds) && !state.anySuccess {
					state.err = err
				}
				return
			}

			log.Debugf(
				"coin selection: %s strategy selected %d input(s) with waste %d",
				name, len(result.SelectedInputs), result.Waste,
			)
			if !state.anySuccess || result.Waste < state.best.Waste {
				state.best = result
				state.anySuccess = true
			}
		}(name, sel, candidatesCopy)
	}

	wg.Wait()

	if !state.anySuccess {
		return nil, state.err
	}
	return state.best, nil
}

// sharedState is the only mutable resource shared by the strategy
// goroutines. The lock is held just to compare and possibly replace the
// current best result.
type sharedState struct {
	mtx        sync.Mutex
	best       *domain.SelectionOutput
	err        error
	anySuccess bool
}
