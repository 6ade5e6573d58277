package knapsack_selector

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/vulpemventures/go-coinselect/internal/core/domain"
	"github.com/vulpemventures/go-coinselect/internal/core/ports"
)

// DefaultTrials is the number of independent randomized trials of one run.
const DefaultTrials = 1000

type selector struct {
	trials int
}

// NewKnapsackCoinSelector returns a selector approximating the smallest
// superset of the target via randomized repeated trials. Each trial tosses a
// coin per candidate and then force-includes the leftovers, keeping track of
// the best (smallest) overshoot seen so far, and returns immediately on an
// exact match of the adjusted target. The strategy is explicitly
// probabilistic: repeated calls on identical inputs may return different,
// all target-satisfying, selections.
func NewKnapsackCoinSelector() ports.CoinSelector {
	return &selector{trials: DefaultTrials}
}

// NewKnapsackCoinSelectorWithTrials returns a knapsack selector with a
// custom trial count.
func NewKnapsackCoinSelectorWithTrials(trials int) ports.CoinSelector {
	return &selector{trials: trials}
}

type smallerCoin struct {
	index          int
	effectiveValue uint64
	weight         uint32
}

func (s *selector) Select(
	candidates []domain.OutputGroup, opts domain.CoinSelectionOptions,
) (*domain.SelectionOutput, error) {
	baseFee, err := domain.CalcFee(uint64(opts.BaseWeight), opts.TargetFeeRate)
	if err != nil {
		return nil, err
	}
	adjustedTarget := opts.TargetValue + opts.MinChangeValue + baseFee

	smallerCoins := make([]smallerCoin, 0, len(candidates))
	for i, group := range candidates {
		if group.Value >= adjustedTarget {
			continue
		}
		effectiveValue, _ := domain.EffectiveValue(group, opts.TargetFeeRate)
		smallerCoins = append(smallerCoins, smallerCoin{
			index:          i,
			effectiveValue: effectiveValue,
			weight:         group.Weight,
		})
	}
	sort.SliceStable(smallerCoins, func(i, j int) bool {
		return smallerCoins[i].effectiveValue > smallerCoins[j].effectiveValue
	})

	return s.knapsack(adjustedTarget, smallerCoins, opts)
}

func (s *selector) knapsack(
	adjustedTarget uint64, smallerCoins []smallerCoin,
	opts domain.CoinSelectionOptions,
) (*domain.SelectionOutput, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	selectedInputs := make(map[int]struct{})
	bestSet := make(map[int]struct{})
	bestSetValue := uint64(math.MaxUint64)
	var accumulatedValue uint64

	for trial := 0; trial < s.trials; trial++ {
		// Pass 1 includes each candidate on a coin toss, pass 2 fills in
		// every candidate the first pass left out.
		for pass := 1; pass <= 2; pass++ {
			for _, coin := range smallerCoins {
				_, alreadySelected := selectedInputs[coin.index]
				toss := rng.Intn(2) == 0
				include := (pass == 2 && !alreadySelected) || (pass == 1 && toss)
				if !include || alreadySelected {
					continue
				}
				selectedInputs[coin.index] = struct{}{}
				accumulatedValue += coin.effectiveValue

				if accumulatedValue == adjustedTarget {
					return s.selectionOutput(selectedInputs, accumulatedValue, smallerCoins, opts)
				}
				if accumulatedValue > adjustedTarget {
					if accumulatedValue < bestSetValue {
						bestSetValue = accumulatedValue
						bestSet = make(map[int]struct{}, len(selectedInputs))
						for index := range selectedInputs {
							bestSet[index] = struct{}{}
						}
					}
					// Drop the coin that overshot and keep exploring
					// smaller combinations.
					delete(selectedInputs, coin.index)
					accumulatedValue -= coin.effectiveValue
				}
			}
		}
		accumulatedValue = 0
		selectedInputs = make(map[int]struct{})
	}

	if bestSetValue == math.MaxUint64 {
		return nil, domain.ErrNoSolutionFound
	}
	return s.selectionOutput(bestSet, bestSetValue, smallerCoins, opts)
}

func (s *selector) selectionOutput(
	selected map[int]struct{}, accumulatedValue uint64,
	smallerCoins []smallerCoin, opts domain.CoinSelectionOptions,
) (*domain.SelectionOutput, error) {
	accumulatedWeight := calcAccumulatedWeight(smallerCoins, selected)
	// The feerate was validated upfront, this cannot fail.
	estimatedFee, _ := domain.CalcFee(accumulatedWeight, opts.TargetFeeRate)
	waste := domain.CalcWaste(opts, accumulatedValue, accumulatedWeight, estimatedFee)

	selectedInputs := make([]int, 0, len(selected))
	for index := range selected {
		selectedInputs = append(selectedInputs, index)
	}
	sort.Ints(selectedInputs)

	return &domain.SelectionOutput{
		SelectedInputs: selectedInputs,
		Waste:          domain.WasteMetric(waste),
	}, nil
}

func calcAccumulatedWeight(
	smallerCoins []smallerCoin, selected map[int]struct{},
) uint64 {
	var total uint64
	for _, coin := range smallerCoins {
		if _, ok := selected[coin.index]; ok {
			total += uint64(coin.weight)
		}
	}
	return total
}
